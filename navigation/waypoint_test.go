package navigation

import (
	"testing"

	"github.com/lixenwraith/depthgen/core"
)

// chain builds n waypoints along X linked in sequence
func chain(n int) *WaypointGraph {
	g := NewWaypointGraph()
	for i := 0; i < n; i++ {
		g.Add(core.Vec2{X: float64(i) * 100}, 0, i)
		if i > 0 {
			g.Link(i-1, i)
		}
	}
	return g
}

func TestLink_Bidirectional(t *testing.T) {
	g := chain(3)
	g.Link(0, 2)
	g.Link(2, 0)
	g.Link(1, 1)

	if !g.Linked(0, 2) || !g.Linked(2, 0) {
		t.Error("Expected link in both directions")
	}
	if len(g.Waypoints[0].Links) != 2 {
		t.Errorf("Expected 2 links on node 0, got %d", len(g.Waypoints[0].Links))
	}
	if g.Linked(1, 1) {
		t.Error("Self link should be ignored")
	}
}

func TestFindPath_Shortest(t *testing.T) {
	// Chain climbs to Y=300 and back down, 1000 units long
	g := NewWaypointGraph()
	for i, p := range []core.Vec2{{X: 0, Y: 0}, {X: 0, Y: 300}, {X: 200, Y: 300}, {X: 400, Y: 300}, {X: 400, Y: 0}} {
		g.Add(p, 0, i)
		if i > 0 {
			g.Link(i-1, i)
		}
	}
	// Shortcut 0 → 4 along the bottom, 400 units long
	mid := g.Add(core.Vec2{X: 200, Y: 0}, 1, -1)
	g.Link(0, mid)
	g.Link(mid, 4)

	path, ok := g.FindPath(0, 4)
	if !ok {
		t.Fatal("Expected path")
	}
	want := []int{0, mid, 4}
	if len(path) != len(want) {
		t.Fatalf("Expected %v, got %v", want, path)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, path)
		}
	}
}

func TestFindPath_Disconnected(t *testing.T) {
	g := chain(3)
	lone := g.Add(core.Vec2{X: 5000}, 0, -1)

	if _, ok := g.FindPath(0, lone); ok {
		t.Error("Expected no path to unlinked waypoint")
	}
	if _, ok := g.FindPath(0, 99); ok {
		t.Error("Expected no path to out-of-range waypoint")
	}
	path, ok := g.FindPath(1, 1)
	if !ok || len(path) != 1 {
		t.Errorf("Expected trivial path, got %v", path)
	}
}

func TestNearest_Filter(t *testing.T) {
	g := chain(4)
	g.Waypoints[1].Tunnel = 7

	if got := g.Nearest(core.Vec2{X: 290}, nil); got != 3 {
		t.Errorf("Expected 3, got %d", got)
	}
	onlySeven := func(w *Waypoint) bool { return w.Tunnel == 7 }
	if got := g.Nearest(core.Vec2{X: 290}, onlySeven); got != 1 {
		t.Errorf("Expected 1, got %d", got)
	}
	none := func(w *Waypoint) bool { return false }
	if got := g.Nearest(core.Vec2{}, none); got != -1 {
		t.Errorf("Expected -1, got %d", got)
	}
}

func TestMirrorX_Twice(t *testing.T) {
	g := chain(4)
	g.MirrorX(1000)
	if g.Waypoints[0].Position.X != 1000 {
		t.Errorf("Expected 1000, got %v", g.Waypoints[0].Position.X)
	}
	g.MirrorX(1000)
	if g.Waypoints[3].Position.X != 300 {
		t.Errorf("Expected 300, got %v", g.Waypoints[3].Position.X)
	}
}
