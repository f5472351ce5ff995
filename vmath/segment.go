package vmath

import (
	"math"
	"sort"

	"github.com/lixenwraith/depthgen/core"
)

// Epsilon absorbs float noise in orientation tests
const Epsilon = 1e-9

// ClosestPointOnSegment projects p onto segment a-b
func ClosestPointOnSegment(p, a, b core.Vec2) core.Vec2 {
	ab := b.Sub(a)
	lenSq := ab.LengthSq()
	if lenSq == 0 {
		return a
	}
	t := p.Sub(a).Dot(ab) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a.Add(ab.Scale(t))
}

// PointSegmentDistanceSq returns squared distance from p to segment a-b
func PointSegmentDistanceSq(p, a, b core.Vec2) float64 {
	return p.DistanceSq(ClosestPointOnSegment(p, a, b))
}

// SegmentsIntersect returns the crossing point of segments a1-a2 and b1-b2
// Collinear overlaps report the first overlapping endpoint
func SegmentsIntersect(a1, a2, b1, b2 core.Vec2) (core.Vec2, bool) {
	r := a2.Sub(a1)
	s := b2.Sub(b1)
	denom := r.Cross(s)
	qp := b1.Sub(a1)

	if math.Abs(denom) < Epsilon {
		// Parallel: only collinear overlap counts
		if math.Abs(qp.Cross(r)) > Epsilon {
			return core.Vec2{}, false
		}
		for _, p := range [4]core.Vec2{b1, b2, a1, a2} {
			if onSegment(p, a1, a2) && onSegment(p, b1, b2) {
				return p, true
			}
		}
		return core.Vec2{}, false
	}

	t := qp.Cross(s) / denom
	u := qp.Cross(r) / denom
	if t < -Epsilon || t > 1+Epsilon || u < -Epsilon || u > 1+Epsilon {
		return core.Vec2{}, false
	}
	return a1.Add(r.Scale(t)), true
}

func onSegment(p, a, b core.Vec2) bool {
	return p.X >= math.Min(a.X, b.X)-Epsilon && p.X <= math.Max(a.X, b.X)+Epsilon &&
		p.Y >= math.Min(a.Y, b.Y)-Epsilon && p.Y <= math.Max(a.Y, b.Y)+Epsilon
}

// SegmentDistance returns the minimum distance between two segments, zero when they cross
func SegmentDistance(a1, a2, b1, b2 core.Vec2) float64 {
	if _, ok := SegmentsIntersect(a1, a2, b1, b2); ok {
		return 0
	}
	d := PointSegmentDistanceSq(a1, b1, b2)
	d = math.Min(d, PointSegmentDistanceSq(a2, b1, b2))
	d = math.Min(d, PointSegmentDistanceSq(b1, a1, a2))
	d = math.Min(d, PointSegmentDistanceSq(b2, a1, a2))
	return math.Sqrt(d)
}

// SegmentRectIntersect returns the nearest point where segment a-b enters r
// A segment starting inside r reports its start point
func SegmentRectIntersect(a, b core.Vec2, r core.Rect) (core.Vec2, bool) {
	if r.Contains(a) {
		return a, true
	}
	c := r.Corners()
	best := math.MaxFloat64
	var hit core.Vec2
	found := false
	for i := 0; i < 4; i++ {
		p, ok := SegmentsIntersect(a, b, c[i], c[(i+1)%4])
		if !ok {
			continue
		}
		if d := a.DistanceSq(p); d < best {
			best = d
			hit = p
			found = true
		}
	}
	return hit, found
}

// --- Polygons ---

// SortAroundCenter orders points counter-clockwise around c, ties by distance
func SortAroundCenter(points []core.Vec2, c core.Vec2) {
	sort.SliceStable(points, func(i, j int) bool {
		ai := math.Atan2(points[i].Y-c.Y, points[i].X-c.X)
		aj := math.Atan2(points[j].Y-c.Y, points[j].X-c.X)
		if ai != aj {
			return ai < aj
		}
		return points[i].DistanceSq(c) < points[j].DistanceSq(c)
	})
}

// PolygonContains tests p against a closed polygon with the even-odd rule
func PolygonContains(poly []core.Vec2, p core.Vec2) bool {
	inside := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		pi, pj := poly[i], poly[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) {
			x := (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y) + pi.X
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// PolygonArea returns the signed area, positive for counter-clockwise winding
func PolygonArea(poly []core.Vec2) float64 {
	area := 0.0
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		area += poly[j].Cross(poly[i])
	}
	return area / 2
}

// PolygonIntersectsRect reports whether a closed polygon and rectangle overlap
func PolygonIntersectsRect(poly []core.Vec2, r core.Rect) bool {
	for _, p := range poly {
		if r.Contains(p) {
			return true
		}
	}
	for _, c := range r.Corners() {
		if PolygonContains(poly, c) {
			return true
		}
	}
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		if _, ok := SegmentRectIntersect(poly[j], poly[i], r); ok {
			return true
		}
	}
	return false
}
