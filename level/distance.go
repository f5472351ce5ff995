package level

import (
	"math"

	"github.com/lixenwraith/depthgen/core"
	"github.com/lixenwraith/depthgen/vmath"
)

// FieldSample is one point of the distance field
type FieldSample struct {
	Point      core.Vec2
	DistanceSq float64 // Squared distance to the nearest tunnel segment or anchor
}

// DistanceField is a coarse grid of distances to the tunnel network
type DistanceField struct {
	Bounds  core.Rect
	Density float64
	Samples []FieldSample // Row-major from the minimum corner

	segments [][2]core.Vec2
	anchors  []core.Vec2
}

// BuildDistanceField samples bounds every density units
// start and end are included as anchors alongside every tunnel segment
func BuildDistanceField(bounds core.Rect, density float64, tunnels []*Tunnel, start, end core.Point) *DistanceField {
	f := &DistanceField{
		Bounds:  bounds,
		Density: density,
		anchors: []core.Vec2{start.Vec(), end.Vec()},
	}
	for _, t := range tunnels {
		for i := 0; i < t.SegmentCount(); i++ {
			a, b := t.Segment(i)
			f.segments = append(f.segments, [2]core.Vec2{a, b})
		}
	}

	for y := bounds.Y; y <= bounds.Top(); y += density {
		for x := bounds.X; x <= bounds.Right(); x += density {
			p := core.Vec2{X: x, Y: y}
			f.Samples = append(f.Samples, FieldSample{Point: p, DistanceSq: f.Sample(p)})
		}
	}
	return f
}

// Sample evaluates the field metric at an arbitrary point
func (f *DistanceField) Sample(p core.Vec2) float64 {
	best := math.MaxFloat64
	for _, a := range f.anchors {
		best = math.Min(best, p.DistanceSq(a))
	}
	for _, s := range f.segments {
		best = math.Min(best, vmath.PointSegmentDistanceSq(p, s[0], s[1]))
	}
	return best
}

// FindPosition returns a sample at least minDist from every tunnel
// With asCloseAsPossible the qualifying sample nearest the threshold wins and
// no draw is consumed; otherwise one draw picks uniformly among qualifiers
// exclude may reject candidates, nil accepts all
func (f *DistanceField) FindPosition(rng *vmath.FastRand, minDist float64, asCloseAsPossible bool, exclude func(core.Vec2) bool) (core.Vec2, bool) {
	minSq := minDist * minDist
	var qualifying []int
	best, bestD := -1, math.MaxFloat64
	for i, s := range f.Samples {
		if s.DistanceSq < minSq {
			continue
		}
		if exclude != nil && exclude(s.Point) {
			continue
		}
		qualifying = append(qualifying, i)
		if s.DistanceSq < bestD {
			best, bestD = i, s.DistanceSq
		}
	}
	if len(qualifying) == 0 {
		return core.Vec2{}, false
	}
	if asCloseAsPossible {
		return f.Samples[best].Point, true
	}
	return f.Samples[qualifying[rng.Intn(len(qualifying))]].Point, true
}

// MirrorX reflects every sample and source about x = width/2
func (f *DistanceField) MirrorX(width float64) {
	f.Bounds = f.Bounds.MirrorX(width)
	for i := range f.Samples {
		f.Samples[i].Point.X = width - f.Samples[i].Point.X
	}
	for i := range f.segments {
		f.segments[i][0].X = width - f.segments[i][0].X
		f.segments[i][1].X = width - f.segments[i][1].X
	}
	for i := range f.anchors {
		f.anchors[i].X = width - f.anchors[i].X
	}
}
