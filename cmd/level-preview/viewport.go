package main

import (
	"math"

	"github.com/lixenwraith/depthgen/core"
)

// cellAspect is the height/width ratio of a terminal cell
const cellAspect = 2.0

// viewport maps terminal cells onto world space
// scale is world units per column; rows cover scale*cellAspect each
// Row 0 is the top of the screen, which is the highest world Y
type viewport struct {
	center     core.Vec2
	scale      float64
	cols, rows int
}

// fitViewport frames bounds inside cols x rows
func fitViewport(bounds core.Rect, cols, rows int) viewport {
	cols, rows = max(cols, 1), max(rows, 1)
	scale := math.Max(bounds.Width/float64(cols), bounds.Height/(float64(rows)*cellAspect))
	return viewport{center: bounds.Center(), scale: scale, cols: cols, rows: rows}
}

func (v *viewport) resize(cols, rows int) {
	v.cols, v.rows = max(cols, 1), max(rows, 1)
}

// worldAt returns the world point at the center of a terminal cell
func (v viewport) worldAt(col, row int) core.Vec2 {
	return core.Vec2{
		X: v.center.X + (float64(col)+0.5-float64(v.cols)/2)*v.scale,
		Y: v.center.Y - (float64(row)+0.5-float64(v.rows)/2)*v.scale*cellAspect,
	}
}

// screenAt returns the terminal cell showing p
func (v viewport) screenAt(p core.Vec2) (int, int, bool) {
	col := int(math.Floor((p.X-v.center.X)/v.scale + float64(v.cols)/2))
	row := int(math.Floor(-(p.Y-v.center.Y)/(v.scale*cellAspect) + float64(v.rows)/2))
	return col, row, col >= 0 && col < v.cols && row >= 0 && row < v.rows
}

// pan moves by a quarter screen per step
func (v *viewport) pan(dx, dy int) {
	v.center.X += float64(dx) * float64(v.cols) * v.scale / 4
	v.center.Y += float64(dy) * float64(v.rows) * v.scale * cellAspect / 4
}

func (v *viewport) zoom(factor float64) {
	v.scale = math.Max(1, v.scale*factor)
}
