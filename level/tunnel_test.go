package level

import (
	"testing"

	"github.com/lixenwraith/depthgen/core"
	"github.com/lixenwraith/depthgen/vmath"
)

func TestGenerateTunnelNodes_Shape(t *testing.T) {
	rng := vmath.NewFastRand(12345)
	area := core.Area{X: 1000, Y: 1000, Width: 18000, Height: 6000}
	req := nodeRequest{
		start:    core.Point{X: 500, Y: 4000},
		end:      core.Point{X: 19500, Y: 3000},
		area:     area,
		variance: 0.5,
		minWidth: 800,
		interval: IntRange{Min: 2000, Max: 3000},
	}

	for run := 0; run < 20; run++ {
		nodes := generateTunnelNodes(rng, req, nil)
		if len(nodes) < 3 {
			t.Fatalf("Expected at least 3 nodes, got %d", len(nodes))
		}
		if nodes[0] != req.start || nodes[len(nodes)-1] != req.end {
			t.Fatalf("Endpoints not preserved: %v .. %v", nodes[0], nodes[len(nodes)-1])
		}
		for i := 1; i < len(nodes)-1; i++ {
			if nodes[i].X <= nodes[i-1].X {
				t.Errorf("Node %d does not advance along X", i)
			}
			if nodes[i].Y < area.Y || nodes[i].Y >= area.Bottom() {
				t.Errorf("Node %d outside area: %v", i, nodes[i])
			}
		}
	}
}

func TestGenerateTunnelNodes_ShortSpan(t *testing.T) {
	rng := vmath.NewFastRand(7)
	req := nodeRequest{
		start:    core.Point{X: 1000, Y: 1000},
		end:      core.Point{X: 1500, Y: 2000},
		area:     core.Area{Width: 5000, Height: 5000},
		interval: IntRange{Min: 2000, Max: 3000},
	}
	nodes := generateTunnelNodes(rng, req, nil)
	if len(nodes) != 3 {
		t.Fatalf("Expected midpoint insertion, got %d nodes", len(nodes))
	}
	if nodes[1] != (core.Point{X: 1250, Y: 1500}) {
		t.Errorf("Expected midpoint, got %v", nodes[1])
	}
}

func TestGenerateTunnelNodes_Reverse(t *testing.T) {
	rng := vmath.NewFastRand(99)
	req := nodeRequest{
		start:    core.Point{X: 9000, Y: 2000},
		end:      core.Point{X: 1000, Y: 2000},
		area:     core.Area{Width: 10000, Height: 4000},
		variance: 0.3,
		minWidth: 400,
		interval: IntRange{Min: 1000, Max: 1500},
	}
	nodes := generateTunnelNodes(rng, req, nil)
	for i := 1; i < len(nodes); i++ {
		if nodes[i].X >= nodes[i-1].X {
			t.Errorf("Node %d does not move toward end", i)
		}
	}
}

func TestTunnelsTooClose(t *testing.T) {
	main := &Tunnel{
		Type:     TunnelMainPath,
		Nodes:    []core.Point{{X: 0, Y: 0}, {X: 5000, Y: 0}, {X: 10000, Y: 0}},
		MinWidth: 500,
	}

	tests := []struct {
		name  string
		nodes []core.Point
		want  bool
	}{
		{
			name:  "parallel close",
			nodes: []core.Point{{X: 0, Y: 0}, {X: 2000, Y: 700}, {X: 8000, Y: 700}, {X: 10000, Y: 0}},
			want:  true,
		},
		{
			name:  "parallel far",
			nodes: []core.Point{{X: 0, Y: 0}, {X: 2000, Y: 3000}, {X: 8000, Y: 3000}, {X: 10000, Y: 0}},
			want:  false,
		},
		{
			name:  "junctions only",
			nodes: []core.Point{{X: 0, Y: 0}, {X: 5000, Y: 100}, {X: 10000, Y: 0}},
			want:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			side := &Tunnel{Type: TunnelSidePath, Nodes: tt.nodes, MinWidth: 400, Parent: main}
			if got := TunnelsTooClose(side, main); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
			if got := TunnelsTooClose(main, side); got != tt.want {
				t.Errorf("Expected symmetric result %v, got %v", tt.want, got)
			}
		})
	}
}

func TestPushAway_ClearsExisting(t *testing.T) {
	existing := &Tunnel{
		Nodes:    []core.Point{{X: 0, Y: 5000}, {X: 20000, Y: 5000}},
		MinWidth: 500,
	}
	req := nodeRequest{area: core.Area{Width: 20000, Height: 10000}, minWidth: 500}
	got := pushAway(core.Point{X: 1000, Y: 5200}, core.Point{X: 3000, Y: 5300}, req, []*Tunnel{existing})
	if got.Y != 7000 {
		t.Errorf("Expected Y pushed to 7000, got %d", got.Y)
	}
}
