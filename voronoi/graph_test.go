package voronoi

import (
	"math"
	"testing"

	"github.com/lixenwraith/depthgen/core"
	"github.com/lixenwraith/depthgen/vmath"
)

// jitteredSites builds a deterministic jittered grid of sites inside bounds
func jitteredSites(bounds core.Rect, interval float64, seed uint64) []core.Vec2 {
	rng := vmath.NewFastRand(seed)
	var sites []core.Vec2
	for y := bounds.Y + interval/2; y < bounds.Top(); y += interval {
		for x := bounds.X + interval/2; x < bounds.Right(); x += interval {
			sites = append(sites, core.Vec2{
				X: x + rng.Range(-interval*0.3, interval*0.3),
				Y: y + rng.Range(-interval*0.3, interval*0.3),
			})
		}
	}
	return sites
}

func buildTestGraph(t *testing.T) *Graph {
	t.Helper()
	bounds := core.Rect{X: 0, Y: 0, Width: 10000, Height: 8000}
	g, err := Build(jitteredSites(bounds, 1000, 42), bounds, 1000)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return g
}

func TestTriangulate_DelaunayProperty(t *testing.T) {
	bounds := core.Rect{Width: 6000, Height: 6000}
	pts := jitteredSites(bounds, 1000, 7)
	tris, all := triangulate(pts)
	super := len(pts)

	for _, tr := range tris {
		if tr.a >= super || tr.b >= super || tr.c >= super {
			continue
		}
		for i, p := range all[:super] {
			if i == tr.a || i == tr.b || i == tr.c {
				continue
			}
			if p.DistanceSq(tr.cc) < tr.rSq*(1-1e-6) {
				t.Fatalf("point %d lies inside circumcircle of (%d,%d,%d)", i, tr.a, tr.b, tr.c)
			}
		}
	}
}

func TestBuild_TooFewSites(t *testing.T) {
	_, err := Build([]core.Vec2{{X: 1, Y: 1}}, core.Rect{Width: 10, Height: 10}, 5)
	if err != ErrTooFewSites {
		t.Errorf("expected ErrTooFewSites, got %v", err)
	}
}

func TestBuild_EdgeReferences(t *testing.T) {
	g := buildTestGraph(t)

	for i := range g.Edges {
		e := &g.Edges[i]
		if e.Cell1 < 0 || e.Cell1 >= len(g.Cells) {
			t.Fatalf("edge %d has invalid Cell1 %d", i, e.Cell1)
		}
		if e.Cell2 >= len(g.Cells) {
			t.Fatalf("edge %d has invalid Cell2 %d", i, e.Cell2)
		}
		if e.Length() < minEdgeLength {
			t.Errorf("edge %d is degenerate", i)
		}
		found := false
		for _, ei := range g.Cells[e.Cell1].Edges {
			if ei == i {
				found = true
			}
		}
		if !found {
			t.Errorf("edge %d missing from its cell %d", i, e.Cell1)
		}
	}
}

func TestGenerateBodies_ClosesInteriorCells(t *testing.T) {
	g := buildTestGraph(t)
	detached := g.GenerateBodies()
	if detached > len(g.Cells)/10 {
		t.Fatalf("too many cells failed to close: %d of %d", detached, len(g.Cells))
	}

	for i := range g.Cells {
		c := &g.Cells[i]
		if c.Type == CellRemoved {
			for _, ei := range c.Edges {
				if g.Edges[ei].Cell1 == i || g.Edges[ei].Cell2 == i {
					t.Errorf("detached cell %d still referenced by edge %d", i, ei)
				}
			}
			continue
		}
		if c.Body == nil {
			t.Errorf("solid cell %d has no body", i)
			continue
		}
		if vmath.PolygonArea(c.Body.Vertices) <= 0 {
			t.Errorf("cell %d body is not counter-clockwise", i)
		}
		if !vmath.PolygonContains(c.Body.Vertices, c.Site) {
			t.Errorf("cell %d body does not contain its site", i)
		}
	}
}

func TestGrid_EveryCellInOneBucket(t *testing.T) {
	g := buildTestGraph(t)

	for i := range g.Cells {
		if n := g.CellGrid.Count(i); n != 1 {
			t.Fatalf("cell %d in %d buckets", i, n)
		}
	}

	g.SetType(3, CellRemoved)
	if n := g.CellGrid.Count(3); n != 0 {
		t.Errorf("removed cell still in %d buckets", n)
	}
	g.SetType(3, CellPath)
	if n := g.CellGrid.Count(3); n != 1 {
		t.Errorf("restored cell in %d buckets", n)
	}
}

func TestNearestCell_MatchesLinearScan(t *testing.T) {
	g := buildTestGraph(t)
	rng := vmath.NewFastRand(99)

	for k := 0; k < 200; k++ {
		p := core.Vec2{X: rng.Range(0, 10000), Y: rng.Range(0, 8000)}
		want, wantD := -1, math.MaxFloat64
		for i := range g.Cells {
			if d := g.Cells[i].Site.DistanceSq(p); d < wantD {
				want, wantD = i, d
			}
		}
		if got := g.NearestCell(p); got != want {
			t.Fatalf("NearestCell(%v) = %d, want %d", p, got, want)
		}
	}
}

func TestRaycast_StopsAtWall(t *testing.T) {
	g := buildTestGraph(t)
	center := g.NearestCell(core.Vec2{X: 5000, Y: 4000})
	g.SetType(center, CellPath)

	site := g.Cells[center].Site
	hit, ok := g.Raycast(site, site.Add(core.Vec2{X: 5000}), SolidWalls)
	if !ok {
		t.Fatal("expected ray to hit the surrounding wall")
	}
	if hit.Fraction <= 0 || hit.Fraction >= 1 {
		t.Errorf("hit fraction out of range: %v", hit.Fraction)
	}
	e := &g.Edges[hit.Edge]
	if e.Cell1 != center && e.Cell2 != center {
		t.Errorf("hit edge %d does not border the open cell", hit.Edge)
	}

	// Fully solid neighbourhood: nothing separates rock from water
	g.SetType(center, CellSolid)
	if _, ok := g.Raycast(site, site.Add(core.Vec2{X: 5000}), SolidWalls); ok {
		t.Error("expected no wall hit inside solid rock")
	}
}

func TestEdgesCrossing_Ordered(t *testing.T) {
	g := buildTestGraph(t)
	from := core.Vec2{X: 500, Y: 4000}
	to := core.Vec2{X: 9500, Y: 4100}

	edges := g.EdgesCrossing(from, to)
	if len(edges) < 5 {
		t.Fatalf("expected many crossings, got %d", len(edges))
	}
	prev := -1.0
	for _, ei := range edges {
		e := &g.Edges[ei]
		p, ok := vmath.SegmentsIntersect(from, to, e.Point1, e.Point2)
		if !ok {
			t.Fatalf("edge %d reported but does not cross", ei)
		}
		d := from.Distance(p)
		if d < prev {
			t.Errorf("crossings out of order at edge %d", ei)
		}
		prev = d
	}
}

func TestMirrorX_Involution(t *testing.T) {
	g := buildTestGraph(t)
	g.GenerateBodies()

	before := make([]Edge, len(g.Edges))
	copy(before, g.Edges)

	g.MirrorX()
	g.MirrorX()

	for i := range g.Edges {
		if g.Edges[i].Point1.Distance(before[i].Point1) > 1e-3 ||
			g.Edges[i].Point2.Distance(before[i].Point2) > 1e-3 {
			t.Fatalf("edge %d moved after double mirror", i)
		}
	}
	for i := range g.Cells {
		if n := g.CellGrid.Count(i); g.Cells[i].Type != CellRemoved && n != 1 {
			t.Fatalf("cell %d in %d buckets after mirror", i, n)
		}
	}
}

func TestMirrorX_SiteOnBucketLine(t *testing.T) {
	bounds := core.Rect{Width: 4000, Height: 4000}
	sites := []core.Vec2{
		{X: 2000, Y: 1000}, {X: 900, Y: 2500}, {X: 3100, Y: 2600}, {X: 1500, Y: 3500}, {X: 2700, Y: 600},
	}
	g, err := Build(sites, bounds, 1000)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !g.CellGrid.OnBoundary(bounds.Width - sites[0].X) {
		t.Fatalf("Expected mirrored x=%v on a bucket line", bounds.Width-sites[0].X)
	}

	g.MirrorX()
	if x := g.Cells[0].Site.X; g.CellGrid.OnBoundary(x) || math.Abs(x-2000) > 1e-3 {
		t.Errorf("Expected site nudged off the bucket line near 2000, got %v", x)
	}
	for i := range g.Cells {
		if n := g.CellGrid.Count(i); n != 1 {
			t.Fatalf("cell %d in %d buckets after mirror", i, n)
		}
	}

	g.MirrorX()
	for i, s := range sites {
		if d := g.Cells[i].Site.Distance(s); d > 1e-3 {
			t.Errorf("site %d off by %v after double mirror", i, d)
		}
	}
	if n := g.CellGrid.Count(0); n != 1 {
		t.Errorf("Expected site 0 in one bucket, got %d", n)
	}
}
