package core

// Area represents an integer rectangular region
type Area struct {
	X, Y          int // Top-left corner
	Width, Height int // Dimensions (minimum 1x1)
}

// Rect converts the area to world-space float rectangle
func (a Area) Rect() Rect {
	return Rect{X: float64(a.X), Y: float64(a.Y), Width: float64(a.Width), Height: float64(a.Height)}
}

// Contains checks if point is within area
func (a Area) Contains(p Point) bool {
	return p.X >= a.X && p.X < a.X+a.Width && p.Y >= a.Y && p.Y < a.Y+a.Height
}

// Right returns the exclusive right edge
func (a Area) Right() int { return a.X + a.Width }

// Bottom returns the exclusive bottom edge
func (a Area) Bottom() int { return a.Y + a.Height }

// Center returns the center point of the area
func (a Area) Center() Point {
	return Point{X: a.X + a.Width/2, Y: a.Y + a.Height/2}
}
