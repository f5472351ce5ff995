package level

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/zyedidia/generic/mapset"

	"github.com/lixenwraith/depthgen/core"
	"github.com/lixenwraith/depthgen/parameter"
	"github.com/lixenwraith/depthgen/vmath"
	"github.com/lixenwraith/depthgen/voronoi"
)

var (
	ErrNotAuthority      = errors.New("level: wall mutation requires authority")
	ErrWallNotFound      = errors.New("level: wall not found")
	ErrStaticWall        = errors.New("level: static wall cannot move")
	ErrWallCountMismatch = errors.New("level: wall state count mismatch")
)

// WallKind identifies the generator that created an extra wall
type WallKind uint8

const (
	WallIceChunk WallKind = iota
	WallIceSpire
)

func (k WallKind) String() string {
	switch k {
	case WallIceChunk:
		return "ice_chunk"
	case WallIceSpire:
		return "ice_spire"
	}
	return "unknown"
}

// ExtraWall is a destructible wall added on top of the cell decomposition
// Its outline lives in the graph as a free-standing cell
type ExtraWall struct {
	Index     int
	Kind      WallKind
	Cell      int
	Position  core.Vec2
	Rotation  float64 // Radians, [0, 2π)
	Radius    float64 // Bounding radius around Position
	Static    bool    // Static walls never move, only take damage
	Damage    float64 // Accumulated damage fraction, [0, 1]
	Destroyed bool
}

// WallState is the per-tick movable state of a non-static wall
type WallState struct {
	Position core.Vec2
	Rotation float64
}

// WallSet holds the level's extra walls, the only state mutated after generation
// Mutations require authority; peers apply host snapshots instead
// Destroying a wall removes its cell from the graph, so mu also guards every
// graph access made after generation
type WallSet struct {
	mu        sync.RWMutex
	graph     *voronoi.Graph
	walls     []ExtraWall
	authority bool
}

func newWallSet(g *voronoi.Graph) *WallSet {
	return &WallSet{graph: g}
}

// SetAuthority marks this peer as the host allowed to mutate walls
func (s *WallSet) SetAuthority(authority bool) {
	s.mu.Lock()
	s.authority = authority
	s.mu.Unlock()
}

// IsAuthority reports whether this peer may mutate walls
func (s *WallSet) IsAuthority() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authority
}

// Len returns the number of walls, destroyed included
func (s *WallSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.walls)
}

// Wall returns a copy of wall i
func (s *WallSet) Wall(i int) (ExtraWall, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.walls) {
		return ExtraWall{}, false
	}
	return s.walls[i], true
}

// All returns a copy of every wall in index order
func (s *WallSet) All() []ExtraWall {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ExtraWall(nil), s.walls...)
}

// FindByCell returns the index of the wall owning cell, -1 if none
func (s *WallSet) FindByCell(cell int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.walls {
		if s.walls[i].Cell == cell {
			return i
		}
	}
	return -1
}

// Snapshot returns the state of every non-static wall in index order
func (s *WallSet) Snapshot() []WallState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []WallState
	for i := range s.walls {
		if !s.walls[i].Static {
			out = append(out, WallState{Position: s.walls[i].Position, Rotation: s.walls[i].Rotation})
		}
	}
	return out
}

// Move repositions a non-static wall
func (s *WallSet) Move(i int, pos core.Vec2, rotation float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.authority {
		return ErrNotAuthority
	}
	if i < 0 || i >= len(s.walls) {
		return fmt.Errorf("%w: %d", ErrWallNotFound, i)
	}
	if s.walls[i].Static {
		return fmt.Errorf("%w: %d", ErrStaticWall, i)
	}
	s.walls[i].Position = pos
	s.walls[i].Rotation = normalizeAngle(rotation)
	return nil
}

// AddDamage accumulates damage on wall i and reports whether it was destroyed by this call
func (s *WallSet) AddDamage(i int, amount float64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.authority {
		return false, ErrNotAuthority
	}
	if i < 0 || i >= len(s.walls) {
		return false, fmt.Errorf("%w: %d", ErrWallNotFound, i)
	}
	return s.setDamage(i, s.walls[i].Damage+amount), nil
}

// ApplyState overwrites non-static wall state from a host snapshot
func (s *WallSet) ApplyState(states []WallState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := 0
	for i := range s.walls {
		if s.walls[i].Static {
			continue
		}
		if k >= len(states) {
			return fmt.Errorf("%w: got %d", ErrWallCountMismatch, len(states))
		}
		s.walls[i].Position = states[k].Position
		s.walls[i].Rotation = states[k].Rotation
		k++
	}
	if k != len(states) {
		return fmt.Errorf("%w: got %d, have %d", ErrWallCountMismatch, len(states), k)
	}
	return nil
}

// ApplyDamage overwrites the damage of wall i from a host update
func (s *WallSet) ApplyDamage(i int, damage float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.walls) {
		return fmt.Errorf("%w: %d", ErrWallNotFound, i)
	}
	s.setDamage(i, damage)
	return nil
}

// setDamage clamps damage; full damage removes the wall's cell. Caller holds the lock
func (s *WallSet) setDamage(i int, damage float64) bool {
	w := &s.walls[i]
	w.Damage = math.Max(0, math.Min(1, damage))
	if w.Damage < 1 || w.Destroyed {
		return false
	}
	w.Destroyed = true
	s.graph.SetType(w.Cell, voronoi.CellRemoved)
	return true
}

// viewGraph runs fn while no wall can be destroyed
func (s *WallSet) viewGraph(fn func()) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

// updateGraph runs fn with exclusive graph access
func (s *WallSet) updateGraph(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

func (s *WallSet) add(w ExtraWall) ExtraWall {
	s.mu.Lock()
	defer s.mu.Unlock()
	w.Index = len(s.walls)
	s.walls = append(s.walls, w)
	return w
}

// mirrorX reflects positions and rotations; outlines mirror with the graph
func (s *WallSet) mirrorX(width float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.walls {
		s.walls[i].Position.X = width - s.walls[i].Position.X
		s.walls[i].Rotation = normalizeAngle(math.Pi - s.walls[i].Rotation)
	}
}

func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// --- Generation ---

func (g *generator) addWall(kind WallKind, pos core.Vec2, poly []core.Vec2, rotation, radius float64, static bool) {
	ci := g.level.Graph.AddCell(pos, poly, voronoi.CellSolid)
	w := g.level.Walls.add(ExtraWall{
		Kind:     kind,
		Cell:     ci,
		Position: pos,
		Rotation: normalizeAngle(rotation),
		Radius:   radius,
		Static:   static,
	})
	g.obs.WallCreated(w)
}

// placeFloatingIce drops ice chunks into open spine cells of the main and side paths
// Draw order per attempt: cell, size, then six vertex radii and rotation on success
func (g *generator) placeFloatingIce() {
	p := g.params
	count := p.FloatingIce.Draw(g.rng)

	var cands []int
	for _, t := range g.level.Tunnels {
		if t.Type != TunnelCave {
			cands = append(cands, t.Cells...)
		}
	}
	if len(cands) == 0 {
		return
	}

	vg := g.level.Graph
	for i := 0; i < count; i++ {
		placed := false
		for attempt := 0; attempt < parameter.PlacementRetries && !placed; attempt++ {
			ci := cands[g.rng.Intn(len(cands))]
			radius := p.IceChunkSize.Draw(g.rng) / 2
			center := vg.Cells[ci].Site
			if !g.iceFits(center, radius) {
				continue
			}
			poly := make([]core.Vec2, 6)
			for k := range poly {
				a := float64(k) * math.Pi / 3
				r := radius * g.rng.Range(0.7, 1.0)
				poly[k] = core.Vec2{X: center.X + r*math.Cos(a), Y: center.Y + r*math.Sin(a)}
			}
			g.addWall(WallIceChunk, center, poly, g.rng.Range(0, 2*math.Pi), radius, false)
			placed = true
		}
		if !placed {
			g.log.Printf("WARN: floating ice %d not placed after %d attempts", i, parameter.PlacementRetries)
		}
	}
}

// iceFits keeps chunks clear of rock, other walls and structures
func (g *generator) iceFits(center core.Vec2, radius float64) bool {
	vg := g.level.Graph
	clearance := radius + parameter.IceChunkClearance
	for _, ei := range vg.EdgesNear(center, clearance) {
		if vg.Edges[ei].IsSolid {
			return false
		}
	}
	for _, w := range g.level.Walls.All() {
		if w.Position.Distance(center) < w.Radius+clearance {
			return false
		}
	}
	for _, s := range g.level.Structures {
		if s.Rect.DistanceSq(center) < clearance*clearance {
			return false
		}
	}
	return true
}

// placeIceSpires grows triangular spires from rock walls along the main path
// The count scales with difficulty
func (g *generator) placeIceSpires() {
	p := g.params
	count := int(math.Round(float64(p.IceSpires.Draw(g.rng)) * difficultyScale(g.level.Data.Difficulty)))

	vg := g.level.Graph
	var cands []int
	for i := range vg.Edges {
		e := &vg.Edges[i]
		if e.IsSolid && e.NextToMainPath && !e.OutsideLevel {
			cands = append(cands, i)
		}
	}
	if len(cands) == 0 {
		return
	}

	length := g.level.MainPath().MinWidth * parameter.IceSpireLengthFactor
	used := mapset.New[int]()
	for i := 0; i < count; i++ {
		placed := false
		for attempt := 0; attempt < parameter.PlacementRetries && !placed; attempt++ {
			ei := cands[g.rng.Intn(len(cands))]
			if used.Has(ei) {
				continue
			}
			e := &vg.Edges[ei]
			open := e.Cell1
			if vg.Cells[open].Type == voronoi.CellSolid {
				open = e.Cell2
			}
			normal := e.Point2.Sub(e.Point1).Perpendicular().Normalize()
			if normal.Dot(vg.Cells[open].Site.Sub(e.Center())) < 0 {
				normal = normal.Scale(-1)
			}
			tip := e.Center().Add(normal.Scale(length))
			poly := []core.Vec2{e.Point1, e.Point2, tip}
			if vmath.PolygonArea(poly) < 0 {
				poly[0], poly[1] = poly[1], poly[0]
			}
			centroid := e.Point1.Add(e.Point2).Add(tip).Scale(1.0 / 3)
			g.addWall(WallIceSpire, centroid, poly, 0, math.Max(e.Length()/2, length), true)
			used.Put(ei)
			placed = true
		}
		if !placed {
			g.log.Printf("WARN: ice spire %d not placed", i)
		}
	}
}

// difficultyScale maps difficulty 0-100 onto a 0.5-1.5 multiplier
func difficultyScale(d float64) float64 {
	return 0.5 + math.Max(0, math.Min(100, d))/100
}
