package voronoi

import (
	"math"

	"github.com/lixenwraith/depthgen/core"
)

// Grid is a uniform bucket grid over the level for O(1) neighbourhood queries
// Each bucket holds arena indices; order inside a bucket is insertion order
type Grid struct {
	Origin   core.Vec2
	CellSize float64
	Width    int
	Height   int
	Buckets  [][]int // 1D array: index = y*Width + x
}

// NewGrid creates a grid covering bounds with square buckets of cellSize
func NewGrid(bounds core.Rect, cellSize float64) *Grid {
	w := int(math.Ceil(bounds.Width/cellSize)) + 1
	h := int(math.Ceil(bounds.Height/cellSize)) + 1
	return &Grid{
		Origin:   bounds.Min(),
		CellSize: cellSize,
		Width:    w,
		Height:   h,
		Buckets:  make([][]int, w*h),
	}
}

// BucketOf returns the bucket coordinates of p, clamped to the grid
func (g *Grid) BucketOf(p core.Vec2) (int, int) {
	x := int(math.Floor((p.X - g.Origin.X) / g.CellSize))
	y := int(math.Floor((p.Y - g.Origin.Y) / g.CellSize))
	return clampInt(x, 0, g.Width-1), clampInt(y, 0, g.Height-1)
}

// OnBoundary reports whether x lies exactly on a vertical bucket line
func (g *Grid) OnBoundary(x float64) bool {
	f := (x - g.Origin.X) / g.CellSize
	return f == math.Floor(f)
}

// Add inserts id into the bucket holding p
func (g *Grid) Add(id int, p core.Vec2) {
	x, y := g.BucketOf(p)
	idx := y*g.Width + x
	g.Buckets[idx] = append(g.Buckets[idx], id)
}

// AddSpan inserts id into every bucket overlapped by the rectangle a-b
func (g *Grid) AddSpan(id int, a, b core.Vec2) {
	x0, y0 := g.BucketOf(core.Vec2{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)})
	x1, y1 := g.BucketOf(core.Vec2{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)})
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			idx := y*g.Width + x
			g.Buckets[idx] = append(g.Buckets[idx], id)
		}
	}
}

// Remove deletes id from the bucket holding p, preserving order of the rest
func (g *Grid) Remove(id int, p core.Vec2) bool {
	x, y := g.BucketOf(p)
	idx := y*g.Width + x
	bucket := g.Buckets[idx]
	for i, v := range bucket {
		if v == id {
			g.Buckets[idx] = append(bucket[:i], bucket[i+1:]...)
			return true
		}
	}
	return false
}

// At returns a slice view of the bucket at (x, y)
// INTERNAL USE ONLY - callers must not modify the result
func (g *Grid) At(x, y int) []int {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return nil
	}
	return g.Buckets[y*g.Width+x]
}

// Near collects ids from the (2r+1)² buckets around p, row-major
func (g *Grid) Near(p core.Vec2, r int) []int {
	cx, cy := g.BucketOf(p)
	var out []int
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			out = append(out, g.At(x, y)...)
		}
	}
	return out
}

// Within collects ids from every bucket overlapped by the square of half-size radius around p
func (g *Grid) Within(p core.Vec2, radius float64) []int {
	x0, y0 := g.BucketOf(core.Vec2{X: p.X - radius, Y: p.Y - radius})
	x1, y1 := g.BucketOf(core.Vec2{X: p.X + radius, Y: p.Y + radius})
	var out []int
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			out = append(out, g.At(x, y)...)
		}
	}
	return out
}

// Count returns how many times id appears across all buckets
func (g *Grid) Count(id int) int {
	n := 0
	for _, bucket := range g.Buckets {
		for _, v := range bucket {
			if v == id {
				n++
			}
		}
	}
	return n
}

// Clear removes all ids from all buckets
func (g *Grid) Clear() {
	for i := range g.Buckets {
		g.Buckets[i] = g.Buckets[i][:0]
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
