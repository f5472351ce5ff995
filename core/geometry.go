package core

import "math"

// Point is an integer world coordinate, used for tunnel nodes and structure anchors
type Point struct {
	X, Y int
}

// Vec returns the point as a float vector
func (p Point) Vec() Vec2 { return Vec2{X: float64(p.X), Y: float64(p.Y)} }

// Vec2 is a float world coordinate
// Level Y grows upward: higher Y is closer to the surface
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2           { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2           { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }
func (v Vec2) Scale(f float64) Vec2      { return Vec2{X: v.X * f, Y: v.Y * f} }
func (v Vec2) Dot(o Vec2) float64        { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Cross(o Vec2) float64      { return v.X*o.Y - v.Y*o.X }
func (v Vec2) LengthSq() float64         { return v.X*v.X + v.Y*v.Y }
func (v Vec2) Length() float64           { return math.Sqrt(v.LengthSq()) }
func (v Vec2) DistanceSq(o Vec2) float64 { return v.Sub(o).LengthSq() }
func (v Vec2) Distance(o Vec2) float64   { return math.Sqrt(v.DistanceSq(o)) }

// Normalize returns unit vector, zero-safe
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{X: v.X / l, Y: v.Y / l}
}

// Perpendicular returns vector rotated 90° counter-clockwise
func (v Vec2) Perpendicular() Vec2 { return Vec2{X: -v.Y, Y: v.X} }

// Lerp interpolates between v and o, t in [0,1]
func (v Vec2) Lerp(o Vec2, t float64) Vec2 {
	return Vec2{X: v.X + (o.X-v.X)*t, Y: v.Y + (o.Y-v.Y)*t}
}

// Round converts to the nearest integer point
func (v Vec2) Round() Point {
	return Point{X: int(math.Round(v.X)), Y: int(math.Round(v.Y))}
}

// Rect is an axis-aligned float rectangle anchored at its minimum corner
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// RectAround builds a rectangle of the given size centered on c
func RectAround(c Vec2, size Vec2) Rect {
	return Rect{X: c.X - size.X/2, Y: c.Y - size.Y/2, Width: size.X, Height: size.Y}
}

func (r Rect) Right() float64 { return r.X + r.Width }
func (r Rect) Top() float64   { return r.Y + r.Height }
func (r Rect) Center() Vec2   { return Vec2{X: r.X + r.Width/2, Y: r.Y + r.Height/2} }
func (r Rect) Size() Vec2     { return Vec2{X: r.Width, Y: r.Height} }
func (r Rect) Min() Vec2      { return Vec2{X: r.X, Y: r.Y} }
func (r Rect) Max() Vec2      { return Vec2{X: r.Right(), Y: r.Top()} }
func (r Rect) IsEmpty() bool  { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether p lies inside r, edges inclusive
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Top()
}

// Intersects reports whether the two rectangles overlap with positive area
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Top() && o.Y < r.Top()
}

// Inflate grows the rectangle by m on every side
func (r Rect) Inflate(m float64) Rect {
	return Rect{X: r.X - m, Y: r.Y - m, Width: r.Width + 2*m, Height: r.Height + 2*m}
}

// Translate moves the rectangle by d
func (r Rect) Translate(d Vec2) Rect {
	r.X += d.X
	r.Y += d.Y
	return r
}

// Corners returns the four corners counter-clockwise from the minimum corner
func (r Rect) Corners() [4]Vec2 {
	return [4]Vec2{
		{X: r.X, Y: r.Y},
		{X: r.Right(), Y: r.Y},
		{X: r.Right(), Y: r.Top()},
		{X: r.X, Y: r.Top()},
	}
}

// DistanceSq returns squared distance from p to the rectangle, zero inside
func (r Rect) DistanceSq(p Vec2) float64 {
	dx := math.Max(math.Max(r.X-p.X, 0), p.X-r.Right())
	dy := math.Max(math.Max(r.Y-p.Y, 0), p.Y-r.Top())
	return dx*dx + dy*dy
}

// MirrorX reflects the rectangle about x = width/2 of a level of given width
func (r Rect) MirrorX(width float64) Rect {
	r.X = width - r.Right()
	return r
}
