package voronoi

import (
	"errors"
	"fmt"
	"math"

	"github.com/lixenwraith/depthgen/core"
	"github.com/lixenwraith/depthgen/parameter"
	"github.com/lixenwraith/depthgen/vmath"
)

// ErrTooFewSites is returned when the diagram cannot be built
var ErrTooFewSites = errors.New("voronoi: at least three sites are required")

// minEdgeLength drops degenerate edges produced by co-circular sites
const minEdgeLength = 1e-6

// Graph is the planar cell decomposition of the level
// Cells and edges form an arena addressed by stable index; removal clears
// references instead of deleting entries
type Graph struct {
	Bounds core.Rect
	Cells  []Cell
	Edges  []Edge

	CellGrid *Grid // Non-removed cells bucketed by site
	EdgeGrid *Grid // Edges bucketed by every bucket their bounding box overlaps

	stamp      uint32
	edgeStamps []uint32
	cellStamps []uint32
}

// Build constructs the diagram for sites inside bounds
// frameSpacing controls the ring of frame sites placed outside bounds so
// that every real cell is closed; frame sites do not produce cells
func Build(sites []core.Vec2, bounds core.Rect, frameSpacing float64) (*Graph, error) {
	if len(sites) < 3 {
		return nil, ErrTooFewSites
	}
	if frameSpacing <= 0 {
		return nil, fmt.Errorf("voronoi: frame spacing must be positive, got %v", frameSpacing)
	}

	realCount := len(sites)
	points := make([]core.Vec2, 0, realCount+64)
	points = append(points, sites...)
	points = append(points, frameSites(bounds, frameSpacing)...)

	tris, _ := triangulate(points)

	g := &Graph{
		Bounds: bounds,
		Cells:  make([]Cell, realCount),
	}
	for i := 0; i < realCount; i++ {
		g.Cells[i] = Cell{Index: i, Site: sites[i], Type: CellSolid}
	}

	// Pair triangles sharing a Delaunay edge, in first-seen order
	type pairing struct {
		key  edgeKey
		tris [2]int
		n    int
	}
	lookup := make(map[edgeKey]int)
	var pairs []pairing
	super := len(points)
	for ti, t := range tris {
		if t.a >= super || t.b >= super || t.c >= super {
			continue
		}
		for _, e := range [3][2]int{{t.a, t.b}, {t.b, t.c}, {t.c, t.a}} {
			k := makeEdgeKey(e[0], e[1])
			pi, ok := lookup[k]
			if !ok {
				pi = len(pairs)
				lookup[k] = pi
				pairs = append(pairs, pairing{key: k})
			}
			if pairs[pi].n < 2 {
				pairs[pi].tris[pairs[pi].n] = ti
			}
			pairs[pi].n++
		}
	}

	for _, pr := range pairs {
		if pr.n != 2 {
			continue
		}
		a, b := pr.key.a, pr.key.b
		if a >= realCount && b >= realCount {
			continue
		}
		p1 := tris[pr.tris[0]].cc
		p2 := tris[pr.tris[1]].cc
		if p1.DistanceSq(p2) < minEdgeLength*minEdgeLength {
			continue
		}
		c1, c2 := a, b
		if c2 >= realCount {
			c2 = -1
		}
		e := Edge{
			Index:  len(g.Edges),
			Point1: p1,
			Point2: p2,
			Cell1:  c1,
			Cell2:  c2,
		}
		e.OutsideLevel = c2 < 0 || !bounds.Contains(p1) || !bounds.Contains(p2)
		g.Edges = append(g.Edges, e)
		g.Cells[c1].Edges = append(g.Cells[c1].Edges, e.Index)
		if c2 >= 0 {
			g.Cells[c2].Edges = append(g.Cells[c2].Edges, e.Index)
		}
	}

	g.RebuildGrids()
	return g, nil
}

// frameSites rings bounds with sites two spacings outside the level
// Offsets alternate per index to keep frame sites off shared circles
func frameSites(bounds core.Rect, spacing float64) []core.Vec2 {
	margin := spacing * parameter.SiteFrameMargin
	outer := bounds.Inflate(margin)
	nx := int(math.Ceil(outer.Width/spacing)) + 1
	ny := int(math.Ceil(outer.Height/spacing)) + 1
	jitter := func(i int) float64 { return spacing * 0.05 * float64(i%3-1) }

	var out []core.Vec2
	for i := 0; i < nx; i++ {
		x := outer.X + math.Min(float64(i)*spacing, outer.Width)
		out = append(out,
			core.Vec2{X: x, Y: outer.Y + jitter(i)},
			core.Vec2{X: x, Y: outer.Top() + jitter(i+1)},
		)
	}
	for j := 1; j < ny-1; j++ {
		y := outer.Y + float64(j)*spacing
		out = append(out,
			core.Vec2{X: outer.X + jitter(j), Y: y},
			core.Vec2{X: outer.Right() + jitter(j+1), Y: y},
		)
	}
	return out
}

// RebuildGrids re-buckets every non-removed cell and every edge
func (g *Graph) RebuildGrids() {
	g.CellGrid = NewGrid(g.Bounds, parameter.GridCellSize)
	g.EdgeGrid = NewGrid(g.Bounds, parameter.GridCellSize)
	for i := range g.Cells {
		if g.Cells[i].Type != CellRemoved {
			g.CellGrid.Add(i, g.Cells[i].Site)
		}
	}
	for i := range g.Edges {
		g.EdgeGrid.AddSpan(i, g.Edges[i].Point1, g.Edges[i].Point2)
	}
	g.edgeStamps = make([]uint32, len(g.Edges))
	g.cellStamps = make([]uint32, len(g.Cells))
}

// Cell returns the cell at index i
func (g *Graph) Cell(i int) *Cell {
	return &g.Cells[i]
}

// Edge returns the edge at index i
func (g *Graph) Edge(i int) *Edge {
	return &g.Edges[i]
}

// SetType reclassifies a cell, keeping bucket membership in sync
func (g *Graph) SetType(i int, t CellType) {
	c := &g.Cells[i]
	if c.Type == t {
		return
	}
	if t == CellRemoved {
		g.CellGrid.Remove(i, c.Site)
	} else if c.Type == CellRemoved {
		g.CellGrid.Add(i, c.Site)
	}
	c.Type = t
}

// Detach removes a cell from its neighbours' edges and from the grid
func (g *Graph) Detach(i int) {
	c := &g.Cells[i]
	for _, ei := range c.Edges {
		g.Edges[ei].Detach(i)
	}
	g.SetType(i, CellRemoved)
	c.Body = nil
}

// Neighbors returns adjacent cell indices in edge order
func (g *Graph) Neighbors(i int) []int {
	var out []int
	for _, ei := range g.Cells[i].Edges {
		if n := g.Edges[ei].AdjacentCell(i); n >= 0 {
			out = append(out, n)
		}
	}
	return out
}

// NearestCell returns the non-removed cell whose site is closest to p, -1 if none
func (g *Graph) NearestCell(p core.Vec2) int {
	best, bestD := -1, math.MaxFloat64
	maxR := max(g.CellGrid.Width, g.CellGrid.Height)
	for r := 1; r <= maxR; r++ {
		for _, ci := range g.CellGrid.Near(p, r) {
			if d := g.Cells[ci].Site.DistanceSq(p); d < bestD || (d == bestD && ci < best) {
				best, bestD = ci, d
			}
		}
		// Any closer site lies within the scanned ring once one is found
		if best >= 0 && math.Sqrt(bestD) <= float64(r)*g.CellGrid.CellSize {
			return best
		}
	}
	return best
}

// CellContaining returns the non-removed cell whose outline holds p
// ok is false when p lies in a removed cell or outside every cell
func (g *Graph) CellContaining(p core.Vec2) (int, bool) {
	ci := g.NearestCell(p)
	if ci < 0 {
		return -1, false
	}
	if poly := g.Outline(ci); len(poly) < 3 || vmath.PolygonContains(poly, p) {
		return ci, true
	}
	// Free-standing cells do not tile the plane, the nearest site may not own p
	for _, n := range g.CellsNear(p, 2*g.CellGrid.CellSize) {
		if n != ci && vmath.PolygonContains(g.Outline(n), p) {
			return n, true
		}
	}
	return ci, false
}

// IsOpen reports whether p lies in navigable water
func (g *Graph) IsOpen(p core.Vec2) bool {
	ci, ok := g.CellContaining(p)
	if !ok {
		return true
	}
	return g.Cells[ci].Type.IsOpen()
}

// CellsNear returns non-removed cells whose site lies within radius of p
func (g *Graph) CellsNear(p core.Vec2, radius float64) []int {
	var out []int
	rSq := radius * radius
	for _, ci := range g.CellGrid.Within(p, radius) {
		if g.Cells[ci].Site.DistanceSq(p) <= rSq {
			out = append(out, ci)
		}
	}
	return out
}

// EdgesNear returns edges whose segment passes within radius of p, each once
func (g *Graph) EdgesNear(p core.Vec2, radius float64) []int {
	g.nextStamp()
	var out []int
	rSq := radius * radius
	for _, ei := range g.EdgeGrid.Within(p, radius) {
		if g.edgeStamps[ei] == g.stamp {
			continue
		}
		g.edgeStamps[ei] = g.stamp
		e := &g.Edges[ei]
		if vmath.PointSegmentDistanceSq(p, e.Point1, e.Point2) <= rSq {
			out = append(out, ei)
		}
	}
	return out
}

// CellsTouching returns non-removed cells with an edge within radius of p, each once
func (g *Graph) CellsTouching(p core.Vec2, radius float64) []int {
	edges := g.EdgesNear(p, radius)
	g.nextStamp()
	var out []int
	for _, ei := range edges {
		e := &g.Edges[ei]
		for _, ci := range [2]int{e.Cell1, e.Cell2} {
			if ci < 0 || g.cellStamps[ci] == g.stamp || g.Cells[ci].Type == CellRemoved {
				continue
			}
			g.cellStamps[ci] = g.stamp
			out = append(out, ci)
		}
	}
	return out
}

// Outline returns the cell vertices ordered counter-clockwise around its site
func (g *Graph) Outline(i int) []core.Vec2 {
	c := &g.Cells[i]
	if c.Body != nil {
		return c.Body.Vertices
	}
	var pts []core.Vec2
	for _, ei := range c.Edges {
		e := &g.Edges[ei]
		pts = appendUnique(pts, e.Point1)
		pts = appendUnique(pts, e.Point2)
	}
	vmath.SortAroundCenter(pts, c.Site)
	return pts
}

// SeparatesSolid reports whether an edge is a wall: solid on one side, open water on the other
func (g *Graph) SeparatesSolid(e *Edge) bool {
	if e.Cell1 < 0 || e.Cell2 < 0 {
		return false
	}
	s1 := g.Cells[e.Cell1].Type == CellSolid
	s2 := g.Cells[e.Cell2].Type == CellSolid
	return s1 != s2
}

// FinalizeEdges refreshes IsSolid on every edge
func (g *Graph) FinalizeEdges() {
	for i := range g.Edges {
		e := &g.Edges[i]
		e.IsSolid = g.SeparatesSolid(e)
	}
}

// AddCell appends a free-standing cell outlined by poly, used by extra walls
// Its edges border no other cell
func (g *Graph) AddCell(site core.Vec2, poly []core.Vec2, t CellType) int {
	ci := len(g.Cells)
	c := Cell{Index: ci, Site: site, Type: t, Body: &Body{Vertices: append([]core.Vec2(nil), poly...)}}
	for k := range poly {
		e := Edge{
			Index:  len(g.Edges),
			Point1: poly[k],
			Point2: poly[(k+1)%len(poly)],
			Cell1:  ci,
			Cell2:  -1,
		}
		g.Edges = append(g.Edges, e)
		g.EdgeGrid.AddSpan(e.Index, e.Point1, e.Point2)
		c.Edges = append(c.Edges, e.Index)
	}
	g.Cells = append(g.Cells, c)
	if t != CellRemoved {
		g.CellGrid.Add(ci, site)
	}
	g.edgeStamps = append(g.edgeStamps, make([]uint32, len(poly))...)
	g.cellStamps = append(g.cellStamps, 0)
	return ci
}

func (g *Graph) nextStamp() {
	g.stamp++
	if g.stamp == 0 {
		clear(g.edgeStamps)
		clear(g.cellStamps)
		g.stamp = 1
	}
}

func appendUnique(pts []core.Vec2, p core.Vec2) []core.Vec2 {
	for _, q := range pts {
		if q.DistanceSq(p) < minEdgeLength*minEdgeLength {
			return pts
		}
	}
	return append(pts, p)
}
