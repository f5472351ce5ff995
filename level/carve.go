package level

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/lixenwraith/depthgen/core"
	"github.com/lixenwraith/depthgen/navigation"
	"github.com/lixenwraith/depthgen/parameter"
	"github.com/lixenwraith/depthgen/voronoi"
)

// carveTunnel walks the cells nearest the tunnel polyline and marks them path
// Each step moves to the neighbour whose site is closest to the next node;
// on a Delaunay graph this greedy walk always reaches the target cell
func (g *generator) carveTunnel(t *Tunnel) {
	vg := g.level.Graph
	visited := mapset.New[int]()

	cur := vg.NearestCell(t.Nodes[0].Vec())
	if cur < 0 {
		return
	}
	t.Cells = append(t.Cells[:0], cur)
	visited.Put(cur)

	for k := 1; k < len(t.Nodes); k++ {
		target := t.Nodes[k].Vec()
		goal := vg.NearestCell(target)
		for steps := 0; cur != goal && steps < parameter.PathWalkMaxSteps; steps++ {
			next := greedyStep(vg, cur, target)
			if next < 0 {
				// Degenerate adjacency, jump straight to the goal
				g.log.Printf("DEBUG: %s tunnel %d walk stalled at cell %d", t.Type, t.Index, cur)
				next = goal
			}
			cur = next
			if !visited.Has(cur) {
				visited.Put(cur)
				t.Cells = append(t.Cells, cur)
			}
		}
	}

	for _, ci := range t.Cells {
		vg.SetType(ci, voronoi.CellPath)
	}
	t.Carved = append(t.Carved[:0], t.Cells...)
}

// greedyStep returns the neighbour of cur strictly closer to target, -1 if none
func greedyStep(vg *voronoi.Graph, cur int, target core.Vec2) int {
	best := -1
	bestD := vg.Cells[cur].Site.DistanceSq(target)
	for _, n := range vg.Neighbors(cur) {
		if vg.Cells[n].Type == voronoi.CellRemoved {
			continue
		}
		if d := vg.Cells[n].Site.DistanceSq(target); d < bestD {
			best, bestD = n, d
		}
	}
	return best
}

// enlargeTunnel converts every cell with an edge within MinWidth of a spine
// site, so no solid rock is closer than MinWidth to any spine site
func (g *generator) enlargeTunnel(t *Tunnel) {
	vg := g.level.Graph
	for _, ci := range t.Cells {
		for _, n := range vg.CellsTouching(vg.Cells[ci].Site, t.MinWidth) {
			if vg.Cells[n].Type == voronoi.CellSolid {
				vg.SetType(n, voronoi.CellPath)
				t.Carved = append(t.Carved, n)
			}
		}
	}
}

// markTunnelEdges flags every edge of the tunnel's carved cells
func (g *generator) markTunnelEdges(t *Tunnel) {
	vg := g.level.Graph
	for _, ci := range t.Carved {
		for _, ei := range vg.Cells[ci].Edges {
			e := &vg.Edges[ei]
			switch t.Type {
			case TunnelMainPath:
				e.NextToMainPath = true
			case TunnelSidePath:
				e.NextToSidePath = true
			case TunnelCave:
				e.NextToCave = true
			}
		}
	}
}

// buildWaypoints places one waypoint per spine cell
// Consecutive waypoints link, as do waypoints sharing a cell across tunnels;
// branch ends link to the nearest waypoint of the parent tunnel
func (g *generator) buildWaypoints() {
	vg := g.level.Graph
	wg := g.level.Waypoints
	byCell := make(map[int][]int)

	for _, t := range g.level.Tunnels {
		t.Waypoints = t.Waypoints[:0]
		for i, ci := range t.Cells {
			wp := wg.Add(vg.Cells[ci].Site, t.Index, ci)
			if i > 0 {
				wg.Link(t.Waypoints[i-1], wp)
			}
			for _, other := range byCell[ci] {
				wg.Link(other, wp)
			}
			byCell[ci] = append(byCell[ci], wp)
			t.Waypoints = append(t.Waypoints, wp)
		}

		if t.Parent == nil || len(t.Waypoints) == 0 {
			continue
		}
		parent := t.Parent.Index
		onParent := func(w *navigation.Waypoint) bool { return w.Tunnel == parent }
		for _, end := range [2]int{t.Waypoints[0], t.Waypoints[len(t.Waypoints)-1]} {
			if near := wg.Nearest(wg.Waypoints[end].Position, onParent); near >= 0 {
				wg.Link(end, near)
			}
		}
	}
}
