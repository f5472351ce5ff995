package voronoi

import (
	"github.com/lixenwraith/depthgen/core"
	"github.com/lixenwraith/depthgen/parameter"
)

// MirrorX reflects every site, edge and body about the vertical midline of bounds
// Sites that would land exactly on a bucket line are nudged first so bucket
// assignment does not depend on float rounding at the boundary
func (g *Graph) MirrorX() {
	w := g.Bounds.X*2 + g.Bounds.Width
	for i := range g.Cells {
		c := &g.Cells[i]
		if g.CellGrid.OnBoundary(w - c.Site.X) {
			c.Site.X += parameter.MirrorEpsilon
		}
		c.Site.X = w - c.Site.X
		if c.Body != nil {
			c.Body.Vertices = mirrorPolygon(c.Body.Vertices, w)
		}
	}
	for i := range g.Edges {
		e := &g.Edges[i]
		e.Point1.X = w - e.Point1.X
		e.Point2.X = w - e.Point2.X
	}
	g.RebuildGrids()
}

// mirrorPolygon reflects and reverses so winding stays counter-clockwise
func mirrorPolygon(poly []core.Vec2, w float64) []core.Vec2 {
	out := make([]core.Vec2, len(poly))
	for i, p := range poly {
		out[len(poly)-1-i] = core.Vec2{X: w - p.X, Y: p.Y}
	}
	return out
}
