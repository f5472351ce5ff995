package voronoi

import "github.com/lixenwraith/depthgen/vmath"

// GenerateBodies builds collision outlines for solid cells
// A solid cell whose edges do not close into a ring cannot hold a body and
// is detached from its neighbours; the number of detached cells is returned
func (g *Graph) GenerateBodies() int {
	detached := 0
	for i := range g.Cells {
		c := &g.Cells[i]
		if c.Type != CellSolid {
			c.Body = nil
			continue
		}
		if c.Body != nil {
			continue
		}
		if !g.isClosed(i) {
			g.Detach(i)
			detached++
			continue
		}
		poly := g.Outline(i)
		if vmath.PolygonArea(poly) <= 0 {
			g.Detach(i)
			detached++
			continue
		}
		c.Body = &Body{Vertices: poly}
	}
	return detached
}

// isClosed checks that every vertex of the cell is shared by exactly two of its edges
func (g *Graph) isClosed(i int) bool {
	c := &g.Cells[i]
	if len(c.Edges) < 3 {
		return false
	}
	pts := g.Outline(i)
	if len(pts) != len(c.Edges) {
		return false
	}
	for _, p := range pts {
		n := 0
		for _, ei := range c.Edges {
			e := &g.Edges[ei]
			if e.Point1.DistanceSq(p) < minEdgeLength*minEdgeLength {
				n++
			}
			if e.Point2.DistanceSq(p) < minEdgeLength*minEdgeLength {
				n++
			}
		}
		if n != 2 {
			return false
		}
	}
	return true
}

// MarkIslands flags solid cells whose every neighbour is open water
func (g *Graph) MarkIslands() int {
	n := 0
	for i := range g.Cells {
		c := &g.Cells[i]
		c.Island = false
		if c.Type != CellSolid {
			continue
		}
		neighbours := g.Neighbors(i)
		if len(neighbours) == 0 {
			continue
		}
		island := true
		for _, nb := range neighbours {
			if g.Cells[nb].Type == CellSolid {
				island = false
				break
			}
		}
		if island {
			c.Island = true
			n++
		}
	}
	return n
}
