package voronoi

import "github.com/lixenwraith/depthgen/core"

// CellType classifies a cell; a cell holds exactly one type at a time
type CellType uint8

const (
	CellEmpty CellType = iota
	CellPath
	CellSolid
	CellRemoved
)

func (t CellType) String() string {
	switch t {
	case CellEmpty:
		return "empty"
	case CellPath:
		return "path"
	case CellSolid:
		return "solid"
	case CellRemoved:
		return "removed"
	}
	return "unknown"
}

// IsOpen reports whether submarines can pass through the cell
func (t CellType) IsOpen() bool {
	return t != CellSolid
}

// Cell is the region of the plane closest to one site
type Cell struct {
	Index  int
	Site   core.Vec2
	Edges  []int
	Type   CellType
	Island bool  // Disconnected solid chunk floating in open water
	Body   *Body // Collision outline, nil until bodies are generated or for open cells
}

// Body is the closed counter-clockwise outline of a solid cell
type Body struct {
	Vertices []core.Vec2
}

// Edge is a boundary segment shared by at most two cells
// Cell1/Cell2 are arena indices, -1 when the side has no cell
type Edge struct {
	Index          int
	Point1, Point2 core.Vec2
	Cell1, Cell2   int

	IsSolid        bool // Separates a solid cell from an open one
	NextToMainPath bool
	NextToSidePath bool
	NextToCave     bool
	OutsideLevel   bool
}

// AdjacentCell returns the cell on the other side of the edge, -1 if none
func (e *Edge) AdjacentCell(cell int) int {
	switch cell {
	case e.Cell1:
		return e.Cell2
	case e.Cell2:
		return e.Cell1
	}
	return -1
}

// Center returns the edge midpoint
func (e *Edge) Center() core.Vec2 {
	return e.Point1.Lerp(e.Point2, 0.5)
}

// Length returns the edge length
func (e *Edge) Length() float64 {
	return e.Point1.Distance(e.Point2)
}

// Detach clears the back-reference to cell
func (e *Edge) Detach(cell int) {
	if e.Cell1 == cell {
		e.Cell1 = -1
	}
	if e.Cell2 == cell {
		e.Cell2 = -1
	}
}
