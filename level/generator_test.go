package level

import (
	"errors"
	"math"
	"testing"

	"github.com/lixenwraith/depthgen/core"
	"github.com/lixenwraith/depthgen/parameter"
	"github.com/lixenwraith/depthgen/vmath"
	"github.com/lixenwraith/depthgen/voronoi"
)

var testSize = Size{Width: 20000, Height: 10000}

// busy enables every placer so determinism covers the whole pipeline
func busy(p *GenerationParams) {
	p.SideTunnels = IntRange{Min: 2, Max: 2}
	p.Caves = IntRange{Min: 1, Max: 1}
	p.Ruins = IntRange{Min: 1, Max: 1}
	p.Wrecks = IntRange{Min: 1, Max: 2}
	p.FloatingIce = IntRange{Min: 2, Max: 3}
	p.IceSpires = IntRange{Min: 2, Max: 4}
}

func TestGenerate_Deterministic(t *testing.T) {
	size := Size{Width: 30000, Height: 15000}
	a := generateTest(t, "determinism", size, busy)
	b := generateTest(t, "determinism", size, busy)

	if len(a.Tunnels) != len(b.Tunnels) {
		t.Fatalf("Tunnel count differs: %d vs %d", len(a.Tunnels), len(b.Tunnels))
	}
	for i := range a.Tunnels {
		na, nb := a.Tunnels[i].Nodes, b.Tunnels[i].Nodes
		if len(na) != len(nb) {
			t.Fatalf("Tunnel %d node count differs", i)
		}
		for k := range na {
			if na[k] != nb[k] {
				t.Fatalf("Tunnel %d node %d differs: %v vs %v", i, k, na[k], nb[k])
			}
		}
	}

	if len(a.Graph.Cells) != len(b.Graph.Cells) {
		t.Fatalf("Cell count differs: %d vs %d", len(a.Graph.Cells), len(b.Graph.Cells))
	}
	for i := range a.Graph.Cells {
		ca, cb := &a.Graph.Cells[i], &b.Graph.Cells[i]
		if ca.Site != cb.Site || ca.Type != cb.Type {
			t.Fatalf("Cell %d differs", i)
		}
	}

	if len(a.PathPoints) != len(b.PathPoints) {
		t.Fatalf("Path point count differs")
	}
	for i := range a.PathPoints {
		la, lb := a.PathPoints[i].ClusterLocations, b.PathPoints[i].ClusterLocations
		if len(la) != len(lb) {
			t.Fatalf("Path point %d cluster count differs", i)
		}
		for k := range la {
			if !la[k].Equals(lb[k]) || len(la[k].Items) != len(lb[k].Items) {
				t.Fatalf("Path point %d cluster %d differs", i, k)
			}
			for j := range la[k].Items {
				if la[k].Items[j].Position != lb[k].Items[j].Position || la[k].Items[j].Item.ID != lb[k].Items[j].Item.ID {
					t.Fatalf("Path point %d cluster %d item %d differs", i, k, j)
				}
			}
		}
	}

	if mm := CompareEqualityChecks(a.EqualityChecks, b.EqualityChecks, nil); len(mm) != 0 {
		t.Errorf("Equality checks differ in phases %v", mm)
	}
	if len(a.EqualityChecks) != 6 {
		t.Errorf("Expected 6 equality checks, got %d", len(a.EqualityChecks))
	}
}

func TestGenerate_SeedChangesLevel(t *testing.T) {
	a := generateTest(t, "seed-a", testSize, nil)
	b := generateTest(t, "seed-b", testSize, nil)
	ca, _ := a.EqualityCheck(PhaseTunnels)
	cb, _ := b.EqualityCheck(PhaseTunnels)
	if ca.Value == cb.Value {
		t.Error("Expected different seeds to produce different tunnels")
	}
}

func TestGenerate_TunnelTree(t *testing.T) {
	l := generateTest(t, "tree", Size{Width: 30000, Height: 15000}, func(p *GenerationParams) {
		p.SideTunnels = IntRange{Min: 3, Max: 3}
		p.Caves = IntRange{Min: 2, Max: 2}
	})

	mains := l.TunnelsOfType(TunnelMainPath)
	if len(mains) != 1 || l.MainPath() != mains[0] {
		t.Fatalf("Expected exactly one main path at index 0, got %d", len(mains))
	}
	for _, tn := range l.Tunnels {
		if root := tn.Root(len(l.Tunnels)); root != l.MainPath() {
			t.Errorf("Tunnel %d (%s) does not reach the main path", tn.Index, tn.Type)
		}
		for _, ci := range tn.Cells {
			if l.Graph.Cells[ci].Type != voronoi.CellPath {
				t.Errorf("Tunnel %d spine cell %d is %s", tn.Index, ci, l.Graph.Cells[ci].Type)
			}
		}
	}
	for _, c := range l.Caves {
		if len(c.Tunnels) < 2 {
			t.Errorf("Cave %d has %d tunnels", c.Index, len(c.Tunnels))
		}
		for _, tn := range c.Tunnels {
			if tn.Type != TunnelCave {
				t.Errorf("Cave %d owns a %s tunnel", c.Index, tn.Type)
			}
		}
	}
}

// Clearance holds against the cell decomposition; extra walls are obstacles
// floating in the water and are checked by TestGenerate_IceChunksClearOfRock
func TestGenerate_ClearanceInvariant(t *testing.T) {
	l := generateTest(t, "clearance", testSize, busy)
	vg := l.Graph

	for _, tn := range l.Tunnels {
		for _, ci := range tn.Cells {
			site := vg.Cells[ci].Site
			for si := 0; si < l.BaseCellCount; si++ {
				if vg.Cells[si].Type != voronoi.CellSolid {
					continue
				}
				for _, ei := range vg.Cells[si].Edges {
					e := &vg.Edges[ei]
					d := math.Sqrt(vmath.PointSegmentDistanceSq(site, e.Point1, e.Point2))
					if d < tn.MinWidth-1e-6 {
						t.Fatalf("Tunnel %d cell %d is %.1f from solid cell %d, min width %.1f",
							tn.Index, ci, d, si, tn.MinWidth)
					}
				}
			}
		}
	}
}

func TestGenerate_IceChunksClearOfRock(t *testing.T) {
	l := generateTest(t, "ice-clear", testSize, busy)
	vg := l.Graph

	chunks := 0
	for _, w := range l.Walls.All() {
		if w.Kind != WallIceChunk {
			continue
		}
		chunks++
		limit := w.Radius + parameter.IceChunkClearance
		for si := 0; si < l.BaseCellCount; si++ {
			for _, ei := range vg.Cells[si].Edges {
				e := &vg.Edges[ei]
				if !e.IsSolid {
					continue
				}
				if d := math.Sqrt(vmath.PointSegmentDistanceSq(w.Position, e.Point1, e.Point2)); d < limit-1e-6 {
					t.Fatalf("Ice chunk %d is %.1f from a rock wall, need %.1f", w.Index, d, limit)
				}
			}
		}
	}
	if chunks == 0 {
		t.Log("no floating ice placed for this seed")
	}
}

func TestGenerate_Waypoints(t *testing.T) {
	l := generateTest(t, "waypoints", testSize, func(p *GenerationParams) {
		p.SideTunnels = IntRange{Min: 2, Max: 2}
	})
	main := l.MainPath()
	first, last := main.Waypoints[0], main.Waypoints[len(main.Waypoints)-1]

	if _, ok := l.Waypoints.FindPath(first, last); !ok {
		t.Fatal("Main path start and end are not connected")
	}
	for _, tn := range l.TunnelsOfType(TunnelSidePath) {
		if len(tn.Waypoints) != len(tn.Cells) {
			t.Errorf("Tunnel %d: %d waypoints for %d cells", tn.Index, len(tn.Waypoints), len(tn.Cells))
		}
		if _, ok := l.Waypoints.FindPath(first, tn.Waypoints[len(tn.Waypoints)-1]); !ok {
			t.Errorf("Side tunnel %d is not reachable from the start", tn.Index)
		}
	}
}

func TestDistanceField_Sanity(t *testing.T) {
	l := generateTest(t, "field", testSize, func(p *GenerationParams) {
		p.SideTunnels = IntRange{Min: 1, Max: 1}
	})
	f := l.Field

	for _, tn := range l.Tunnels {
		for _, n := range tn.Nodes {
			if d := f.Sample(n.Vec()); d > 1e-6 {
				t.Errorf("Expected zero distance at node %v, got %v", n, d)
			}
		}
	}
	for i, s := range f.Samples {
		if s.DistanceSq < 0 {
			t.Fatalf("Sample %d negative: %v", i, s.DistanceSq)
		}
	}

	rng := vmath.NewFastRand(1)
	p, ok := f.FindPosition(rng, 2000, true, nil)
	if !ok {
		t.Fatal("Expected a qualifying sample")
	}
	if rng.Draws() != 0 {
		t.Errorf("Closest placement should not draw, consumed %d", rng.Draws())
	}
	got := f.Sample(p)
	for _, s := range f.Samples {
		if s.DistanceSq >= 2000*2000 && s.DistanceSq < got {
			t.Fatalf("Sample %v closer to threshold than chosen %v", s.DistanceSq, got)
		}
	}

	if _, ok := f.FindPosition(rng, 1e9, false, nil); ok {
		t.Error("Expected no sample beyond the level")
	}
}

func TestScenario_MinimalLevel(t *testing.T) {
	l := generateTest(t, "test-seed-1", testSize, quiet)

	if len(l.Tunnels) != 1 || l.Tunnels[0].Type != TunnelMainPath {
		t.Fatalf("Expected a single main path, got %d tunnels", len(l.Tunnels))
	}
	nodes := l.Tunnels[0].Nodes
	if first := nodes[0]; first.X > parameter.PathBorderMinInset {
		t.Errorf("Main path starts at x=%d, beyond the border inset", first.X)
	}
	if last := nodes[len(nodes)-1]; last.X < testSize.Width-parameter.PathBorderMinInset {
		t.Errorf("Main path ends at x=%d, before the border inset", last.X)
	}

	for _, p := range []core.Point{l.StartPosition, l.EndPosition} {
		ci := l.Graph.NearestCell(p.Vec())
		if ci < 0 || l.Graph.Cells[ci].Type != voronoi.CellPath {
			t.Errorf("Expected a path cell at %v", p)
		}
	}
	if len(l.Caves) != 0 || len(l.Structures) != 0 {
		t.Errorf("Expected no caves or structures, got %d and %d", len(l.Caves), len(l.Structures))
	}
}

func TestScenario_BranchNonIntersection(t *testing.T) {
	l := generateTest(t, "test-seed-2", testSize, func(p *GenerationParams) {
		quiet(p)
		p.SideTunnels = IntRange{Min: 3, Max: 3}
	})

	sides := l.TunnelsOfType(TunnelSidePath)
	if len(sides) > 3 {
		t.Fatalf("Expected at most 3 side tunnels, got %d", len(sides))
	}
	for _, s := range sides {
		for _, o := range l.Tunnels {
			if o == s {
				continue
			}
			if TunnelsTooClose(s, o) {
				t.Errorf("Side tunnel %d runs too close to tunnel %d", s.Index, o.Index)
			}
		}
	}
}

func TestScenario_ZeroItemBudget(t *testing.T) {
	l := generateTest(t, "budget", testSize, func(p *GenerationParams) {
		p.ItemCount = 0
		p.ResourceChance = 1
	})

	if n := l.ItemCount(); n != 0 {
		t.Errorf("Expected 0 items, got %d", n)
	}
	for _, pt := range l.PathPoints {
		if len(pt.ClusterLocations) != 0 {
			t.Errorf("Path point %s has %d cluster locations", pt.ID, len(pt.ClusterLocations))
		}
	}
}

func TestGenerate_ItemBudgetRespected(t *testing.T) {
	l := generateTest(t, "budget-cap", testSize, func(p *GenerationParams) {
		p.ItemCount = 7
		p.ResourceChance = 1
	})
	if n := l.ItemCount(); n > 7 {
		t.Errorf("Expected at most 7 items, got %d", n)
	}
}

func TestGenerate_NoOverlap(t *testing.T) {
	data := NewLevelData("overlap", "cold_caverns", Size{Width: 30000, Height: 15000}, 50)
	data.HasBeaconStation = true
	set := testParamsSet(t, func(p *GenerationParams) {
		busy(p)
		p.ItemCount = 200
		p.ResourceChance = 1
	})
	l, err := Generate(data, set, testCatalog(t))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	vg := l.Graph

	for i, p := range l.PathPoints {
		for j, q := range l.PathPoints {
			if i == j {
				continue
			}
			limit := minResourceInterval(l.Params, p.TunnelType, q.TunnelType)
			for _, a := range p.ClusterLocations {
				for _, b := range q.ClusterLocations {
					if d := vg.Edges[a.Edge].Center().Distance(vg.Edges[b.Edge].Center()); d < limit-1e-9 {
						t.Fatalf("Locations of %s and %s are %.1f apart, limit %.1f", p.ID, q.ID, d, limit)
					}
				}
			}
		}
	}

	for _, p := range l.PathPoints {
		for _, loc := range p.ClusterLocations {
			for _, it := range loc.Items {
				fp := core.RectAround(it.Position, core.Vec2{X: it.Item.Width, Y: it.Item.Height})
				for _, s := range l.Structures {
					if s.Kind != "ruin" && fp.Intersects(s.Rect) {
						t.Errorf("Item %s overlaps %s %d", it.Item.ID, s.Kind, s.Index)
					}
				}
			}
		}
	}
}

func TestMirror_Involution(t *testing.T) {
	l := generateTest(t, "mirror", testSize, busy)

	nodes := make([][]core.Point, len(l.Tunnels))
	for i, tn := range l.Tunnels {
		nodes[i] = append([]core.Point(nil), tn.Nodes...)
	}
	edges := append([]voronoi.Edge(nil), l.Graph.Edges...)
	start := l.StartPosition

	l.Mirror()
	if !l.Mirrored {
		t.Error("Expected Mirrored flag")
	}
	if want := testSize.Width - start.X; l.StartPosition.X != want {
		t.Errorf("Expected mirrored start x=%d, got %d", want, l.StartPosition.X)
	}
	l.Mirror()

	for i, tn := range l.Tunnels {
		for k := range tn.Nodes {
			if tn.Nodes[k] != nodes[i][k] {
				t.Fatalf("Tunnel %d node %d not restored", i, k)
			}
		}
	}
	for i := range l.Graph.Edges {
		if l.Graph.Edges[i].Point1.Distance(edges[i].Point1) > 1e-3 ||
			l.Graph.Edges[i].Point2.Distance(edges[i].Point2) > 1e-3 {
			t.Fatalf("Edge %d not restored", i)
		}
	}
}

func TestGenerate_MirrorOption(t *testing.T) {
	plain := generateTest(t, "mirror-opt", testSize, nil)
	mirrored := generateTest(t, "mirror-opt", testSize, nil, WithMirror(true))

	if !mirrored.Mirrored {
		t.Fatal("Expected mirrored level")
	}
	if got, want := mirrored.StartPosition.X, testSize.Width-plain.StartPosition.X; got != want {
		t.Errorf("Expected start x=%d, got %d", want, got)
	}
	pc, _ := plain.EqualityCheck(PhaseResources)
	mc, _ := mirrored.EqualityCheck(PhaseResources)
	if pc != mc {
		t.Error("Mirroring must not change the draw sequence before the final phase")
	}
}

func TestGenerate_Errors(t *testing.T) {
	cat := testCatalog(t)

	_, err := Generate(NewLevelData("s", "cold_caverns", Size{Width: 0, Height: 100}, 0), testParamsSet(t, nil), cat)
	if !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Expected ErrInvalidSize, got %v", err)
	}

	_, err = Generate(NewLevelData("s", "atlantis", testSize, 0), testParamsSet(t, nil), cat)
	if !errors.Is(err, ErrBiomeNotFound) {
		t.Errorf("Expected ErrBiomeNotFound, got %v", err)
	}

	set := testParamsSet(t, func(p *GenerationParams) { p.Default = false })
	_, err = Generate(NewLevelData("s", "hydrothermal_wastes", testSize, 0), set, cat)
	if !errors.Is(err, ErrNoGenerationParams) {
		t.Errorf("Expected ErrNoGenerationParams, got %v", err)
	}

	_, err = Generate(NewLevelData("s", "cold_caverns", testSize, 0), nil, cat)
	if !errors.Is(err, ErrNoGenerationParams) {
		t.Errorf("Expected ErrNoGenerationParams for nil set, got %v", err)
	}

	set = testParamsSet(t, func(p *GenerationParams) { p.MainPathNodeInterval = IntRange{} })
	_, err = Generate(NewLevelData("s", "cold_caverns", testSize, 0), set, cat)
	if !errors.Is(err, ErrInvalidParams) {
		t.Errorf("Expected ErrInvalidParams for zero node interval, got %v", err)
	}
}

type countingObserver struct {
	NopObserver
	finalized int
	walls     int
	checks    []Phase
}

func (o *countingObserver) CellsFinalized(*voronoi.Graph) { o.finalized++ }
func (o *countingObserver) WallCreated(ExtraWall)         { o.walls++ }
func (o *countingObserver) EqualityCheck(c EqualityCheck) { o.checks = append(o.checks, c.Phase) }

func TestGenerate_Observer(t *testing.T) {
	obs := &countingObserver{}
	l := generateTest(t, "observer", testSize, busy, WithObserver(obs))

	if obs.finalized != 1 {
		t.Errorf("Expected one CellsFinalized, got %d", obs.finalized)
	}
	if obs.walls != l.Walls.Len() {
		t.Errorf("Expected %d WallCreated, got %d", l.Walls.Len(), obs.walls)
	}
	want := []Phase{PhaseTunnels, PhaseCells, PhasePaths, PhaseStructures, PhaseResources, PhaseFinal}
	if len(obs.checks) != len(want) {
		t.Fatalf("Expected %d checks, got %d", len(want), len(obs.checks))
	}
	for i := range want {
		if obs.checks[i] != want[i] {
			t.Errorf("Check %d: expected %s, got %s", i, want[i], obs.checks[i])
		}
	}
}
