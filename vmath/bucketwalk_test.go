package vmath

import (
	"testing"

	"github.com/lixenwraith/depthgen/core"
)

func walkBuckets(from, to core.Vec2, size float64) [][2]int {
	var out [][2]int
	w := NewBucketWalk(from, to, size)
	for w.Next() {
		x, y := w.Bucket()
		out = append(out, [2]int{x, y})
	}
	return out
}

func TestBucketWalk(t *testing.T) {
	tests := []struct {
		name     string
		from, to core.Vec2
		want     [][2]int
	}{
		{"single bucket", core.Vec2{X: 100, Y: 100}, core.Vec2{X: 900, Y: 800}, [][2]int{{0, 0}}},
		{"horizontal", core.Vec2{X: 500, Y: 500}, core.Vec2{X: 3500, Y: 500}, [][2]int{{0, 0}, {1, 0}, {2, 0}, {3, 0}}},
		{"backwards", core.Vec2{X: 2500, Y: 500}, core.Vec2{X: 500, Y: 500}, [][2]int{{2, 0}, {1, 0}, {0, 0}}},
		{"shallow", core.Vec2{X: 500, Y: 500}, core.Vec2{X: 2500, Y: 1500}, [][2]int{{0, 0}, {1, 0}, {1, 1}, {2, 1}}},
		{"through corner", core.Vec2{X: 500, Y: 500}, core.Vec2{X: 1500, Y: 1500}, [][2]int{{0, 0}, {1, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := walkBuckets(tt.from, tt.to, 1000)
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Expected %v, got %v", tt.want, got)
				}
			}
		})
	}
}
