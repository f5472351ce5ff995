package navigation

import (
	"math"

	"github.com/lixenwraith/depthgen/core"
)

// Waypoint is a navigation node placed at a carved cell
type Waypoint struct {
	Index    int
	Position core.Vec2
	Tunnel   int // Owning tunnel index, -1 for free-standing nodes
	Cell     int // Voronoi cell the node was placed in, -1 if none
	Links    []int
}

// WaypointGraph is an undirected link graph of navigation nodes
// Links are stored on both endpoints in insertion order
type WaypointGraph struct {
	Waypoints []Waypoint
}

func NewWaypointGraph() *WaypointGraph {
	return &WaypointGraph{}
}

// Len returns the number of waypoints
func (g *WaypointGraph) Len() int {
	return len(g.Waypoints)
}

// Add appends a waypoint and returns its index
func (g *WaypointGraph) Add(pos core.Vec2, tunnel, cell int) int {
	idx := len(g.Waypoints)
	g.Waypoints = append(g.Waypoints, Waypoint{Index: idx, Position: pos, Tunnel: tunnel, Cell: cell})
	return idx
}

// Link connects a and b in both directions; self and duplicate links are ignored
func (g *WaypointGraph) Link(a, b int) {
	if a == b || a < 0 || b < 0 || a >= len(g.Waypoints) || b >= len(g.Waypoints) {
		return
	}
	if g.Linked(a, b) {
		return
	}
	g.Waypoints[a].Links = append(g.Waypoints[a].Links, b)
	g.Waypoints[b].Links = append(g.Waypoints[b].Links, a)
}

// Linked reports whether a links to b
func (g *WaypointGraph) Linked(a, b int) bool {
	for _, l := range g.Waypoints[a].Links {
		if l == b {
			return true
		}
	}
	return false
}

// Nearest returns the waypoint closest to p accepted by filter, -1 if none
// A nil filter accepts every waypoint
func (g *WaypointGraph) Nearest(p core.Vec2, filter func(*Waypoint) bool) int {
	best, bestD := -1, math.MaxFloat64
	for i := range g.Waypoints {
		w := &g.Waypoints[i]
		if filter != nil && !filter(w) {
			continue
		}
		if d := w.Position.DistanceSq(p); d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

// FindPath returns the shortest waypoint sequence from → to by Euclidean link length
func (g *WaypointGraph) FindPath(from, to int) ([]int, bool) {
	n := len(g.Waypoints)
	if from < 0 || to < 0 || from >= n || to >= n {
		return nil, false
	}

	dist := make([]float64, n)
	prev := make([]int, n)
	for i := range dist {
		dist[i] = math.MaxFloat64
		prev[i] = -1
	}
	dist[from] = 0

	h := make(minHeap, 0, 64)
	h.push(heapEntry{idx: from, dist: 0})
	for len(h) > 0 {
		entry := h.pop()
		if entry.dist > dist[entry.idx] {
			continue // Stale entry
		}
		if entry.idx == to {
			break
		}
		cur := &g.Waypoints[entry.idx]
		for _, next := range cur.Links {
			nd := entry.dist + cur.Position.Distance(g.Waypoints[next].Position)
			if nd < dist[next] {
				dist[next] = nd
				prev[next] = entry.idx
				h.push(heapEntry{idx: next, dist: nd})
			}
		}
	}

	if dist[to] == math.MaxFloat64 {
		return nil, false
	}
	var path []int
	for at := to; at >= 0; at = prev[at] {
		path = append(path, at)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, true
}

// MirrorX reflects every waypoint about x = width/2
func (g *WaypointGraph) MirrorX(width float64) {
	for i := range g.Waypoints {
		g.Waypoints[i].Position.X = width - g.Waypoints[i].Position.X
	}
}
