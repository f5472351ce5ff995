package voronoi

import (
	"math"

	"github.com/lixenwraith/depthgen/core"
	"github.com/lixenwraith/depthgen/vmath"
)

// RayHit describes the first blocking intersection along a ray
type RayHit struct {
	Point    core.Vec2
	Edge     int // -1 for rectangle hits
	Rect     int // -1 for edge hits
	Fraction float64
}

// EdgeFilter selects which edges block a ray
type EdgeFilter func(g *Graph, e *Edge) bool

// SolidWalls blocks on edges separating solid rock from open water
func SolidWalls(g *Graph, e *Edge) bool {
	return g.SeparatesSolid(e)
}

// AnySolid blocks on any edge that borders a solid cell
func AnySolid(g *Graph, e *Edge) bool {
	return (e.Cell1 >= 0 && g.Cells[e.Cell1].Type == CellSolid) ||
		(e.Cell2 >= 0 && g.Cells[e.Cell2].Type == CellSolid)
}

// Raycast returns the nearest edge accepted by filter that crosses from→to
// Buckets are visited along the ray with vmath.BucketWalk
func (g *Graph) Raycast(from, to core.Vec2, filter EdgeFilter) (RayHit, bool) {
	best := RayHit{Edge: -1, Rect: -1, Fraction: math.MaxFloat64}
	found := false
	total := from.DistanceSq(to)

	g.nextStamp()
	walk := vmath.NewBucketWalk(from.Sub(g.EdgeGrid.Origin), to.Sub(g.EdgeGrid.Origin), g.EdgeGrid.CellSize)
	for walk.Next() {
		bx, by := walk.Bucket()
		for _, ei := range g.EdgeGrid.At(bx, by) {
			if g.edgeStamps[ei] == g.stamp {
				continue
			}
			g.edgeStamps[ei] = g.stamp
			e := &g.Edges[ei]
			if !filter(g, e) {
				continue
			}
			p, ok := vmath.SegmentsIntersect(from, to, e.Point1, e.Point2)
			if !ok {
				continue
			}
			f := 0.0
			if total > 0 {
				f = math.Sqrt(from.DistanceSq(p) / total)
			}
			if f < best.Fraction || (f == best.Fraction && ei < best.Edge) {
				best = RayHit{Point: p, Edge: ei, Rect: -1, Fraction: f}
				found = true
			}
		}
	}
	return best, found
}

// EdgesCrossing returns every edge the segment from→to crosses, in ray order
func (g *Graph) EdgesCrossing(from, to core.Vec2) []int {
	type crossing struct {
		edge int
		dist float64
	}
	var hits []crossing

	g.nextStamp()
	walk := vmath.NewBucketWalk(from.Sub(g.EdgeGrid.Origin), to.Sub(g.EdgeGrid.Origin), g.EdgeGrid.CellSize)
	for walk.Next() {
		bx, by := walk.Bucket()
		for _, ei := range g.EdgeGrid.At(bx, by) {
			if g.edgeStamps[ei] == g.stamp {
				continue
			}
			g.edgeStamps[ei] = g.stamp
			e := &g.Edges[ei]
			if p, ok := vmath.SegmentsIntersect(from, to, e.Point1, e.Point2); ok {
				hits = append(hits, crossing{edge: ei, dist: from.DistanceSq(p)})
			}
		}
	}

	// Insertion sort keeps equal distances in discovery order
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].dist < hits[j-1].dist; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}
	out := make([]int, len(hits))
	for i, h := range hits {
		out[i] = h.edge
	}
	return out
}

// RaycastRects returns the nearest rectangle the segment from→to enters
func RaycastRects(from, to core.Vec2, rects []core.Rect) (RayHit, bool) {
	best := RayHit{Edge: -1, Rect: -1, Fraction: math.MaxFloat64}
	found := false
	total := from.DistanceSq(to)
	for i, r := range rects {
		p, ok := vmath.SegmentRectIntersect(from, to, r)
		if !ok {
			continue
		}
		f := 0.0
		if total > 0 {
			f = math.Sqrt(from.DistanceSq(p) / total)
		}
		if f < best.Fraction {
			best = RayHit{Point: p, Edge: -1, Rect: i, Fraction: f}
			found = true
		}
	}
	return best, found
}
