package voronoi

import (
	"math"

	"github.com/lixenwraith/depthgen/core"
)

// triangle references three point indices with its cached circumcircle
type triangle struct {
	a, b, c int
	cc      core.Vec2
	rSq     float64
}

type edgeKey struct{ a, b int }

func makeEdgeKey(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// triangulate runs Bowyer-Watson over points in slice order
// The last three entries of the returned point set are the super triangle
// Output order depends only on input order, which the level seed fixes
func triangulate(points []core.Vec2) ([]triangle, []core.Vec2) {
	n := len(points)
	all := make([]core.Vec2, n, n+3)
	copy(all, points)

	minX, minY := math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64
	for _, p := range points {
		minX, minY = math.Min(minX, p.X), math.Min(minY, p.Y)
		maxX, maxY = math.Max(maxX, p.X), math.Max(maxY, p.Y)
	}
	span := math.Max(maxX-minX, maxY-minY)
	if span == 0 {
		span = 1
	}
	mid := core.Vec2{X: (minX + maxX) / 2, Y: (minY + maxY) / 2}
	all = append(all,
		core.Vec2{X: mid.X - 20*span, Y: mid.Y - span},
		core.Vec2{X: mid.X, Y: mid.Y + 20*span},
		core.Vec2{X: mid.X + 20*span, Y: mid.Y - span},
	)

	tris := make([]triangle, 0, 2*n+1)
	tris = append(tris, newTriangle(all, n, n+1, n+2))

	counts := make(map[edgeKey]int)
	var boundary [][2]int
	for i := 0; i < n; i++ {
		p := all[i]

		// Cavity: triangles whose circumcircle holds p
		clear(counts)
		boundary = boundary[:0]
		kept := tris[:0]
		var bad []triangle
		for _, t := range tris {
			if p.DistanceSq(t.cc) < t.rSq*(1-1e-12) {
				bad = append(bad, t)
				counts[makeEdgeKey(t.a, t.b)]++
				counts[makeEdgeKey(t.b, t.c)]++
				counts[makeEdgeKey(t.c, t.a)]++
				continue
			}
			kept = append(kept, t)
		}
		for _, t := range bad {
			for _, e := range [3][2]int{{t.a, t.b}, {t.b, t.c}, {t.c, t.a}} {
				if counts[makeEdgeKey(e[0], e[1])] == 1 {
					boundary = append(boundary, e)
				}
			}
		}

		tris = kept
		for _, e := range boundary {
			t := newTriangle(all, e[0], e[1], i)
			if t.rSq > 0 {
				tris = append(tris, t)
			}
		}
	}
	return tris, all
}

func newTriangle(pts []core.Vec2, a, b, c int) triangle {
	pa := pts[a]
	pb := pts[b].Sub(pa)
	pc := pts[c].Sub(pa)
	d := 2 * pb.Cross(pc)
	if math.Abs(d) < 1e-9 {
		// Collinear, circumcircle undefined
		return triangle{a: a, b: b, c: c}
	}
	bSq := pb.LengthSq()
	cSq := pc.LengthSq()
	rel := core.Vec2{
		X: (pc.Y*bSq - pb.Y*cSq) / d,
		Y: (pb.X*cSq - pc.X*bSq) / d,
	}
	return triangle{a: a, b: b, c: c, cc: pa.Add(rel), rSq: rel.LengthSq()}
}
