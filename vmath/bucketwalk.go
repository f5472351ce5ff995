package vmath

import (
	"math"

	"github.com/lixenwraith/depthgen/core"
)

// BucketWalk visits every square bucket a world segment passes through
// The walk steps in Q32.32 bucket units so peers visit identical buckets
type BucketWalk struct {
	x, y       int
	endX, endY int
	stepX      int
	stepY      int

	nextX, nextY int64 // Segment fraction at the next vertical and horizontal bucket line
	spanX, spanY int64 // Segment fraction per bucket along each axis

	started bool
	done    bool
}

// NewBucketWalk starts a walk from → to over buckets of bucketSize world units
// Bucket (0, 0) spans [0, bucketSize) on both axes; callers offset by the grid origin
func NewBucketWalk(from, to core.Vec2, bucketSize float64) BucketWalk {
	x1, y1 := FromFloat(from.X/bucketSize), FromFloat(from.Y/bucketSize)
	x2, y2 := FromFloat(to.X/bucketSize), FromFloat(to.Y/bucketSize)

	w := BucketWalk{
		x: ToInt(x1), y: ToInt(y1),
		endX: ToInt(x2), endY: ToInt(y2),
	}
	w.stepX, w.nextX, w.spanX = axisSetup(x1, x2)
	w.stepY, w.nextY, w.spanY = axisSetup(y1, y2)
	return w
}

// axisSetup returns the step direction, the fraction to the first bucket line
// and the fraction per bucket along one axis
func axisSetup(a, b int64) (step int, next, span int64) {
	d := b - a
	step = 1
	if d < 0 {
		step, d = -1, -d
	}
	if d == 0 {
		return step, math.MaxInt64, 0
	}
	span = Div(Scale, d)
	if step > 0 {
		return step, Mul(Scale-(a&Mask), span), span
	}
	return step, Mul(a&Mask, span), span
}

// Next moves to the next bucket; the first call yields the start bucket
func (w *BucketWalk) Next() bool {
	if w.done {
		return false
	}
	if !w.started {
		w.started = true
		return true
	}
	if w.x == w.endX && w.y == w.endY {
		w.done = true
		return false
	}

	switch {
	case w.nextX < w.nextY:
		if w.x != w.endX {
			w.advanceX()
		} else {
			w.advanceY()
		}
	case w.nextX > w.nextY:
		if w.y != w.endY {
			w.advanceY()
		} else {
			w.advanceX()
		}
	default:
		// Corner crossing
		if w.x != w.endX {
			w.advanceX()
		}
		if w.y != w.endY {
			w.advanceY()
		}
	}
	return true
}

func (w *BucketWalk) advanceX() { w.x += w.stepX; w.nextX += w.spanX }
func (w *BucketWalk) advanceY() { w.y += w.stepY; w.nextY += w.spanY }

// Bucket returns the current bucket coordinates
func (w *BucketWalk) Bucket() (int, int) {
	return w.x, w.y
}
