package level

import (
	"math"

	"github.com/lixenwraith/depthgen/core"
)

// Mirror reflects the whole level about its vertical midline
// Applying it twice restores the original coordinates within float tolerance
func (l *Level) Mirror() {
	w := l.Bounds.X*2 + l.Bounds.Width
	wi := int(w)

	l.Walls.updateGraph(l.Graph.MirrorX)
	l.Waypoints.MirrorX(w)
	l.Field.MirrorX(w)
	l.Walls.mirrorX(w)

	l.StartPosition = mirrorPoint(l.StartPosition, wi)
	l.EndPosition = mirrorPoint(l.EndPosition, wi)

	for _, t := range l.Tunnels {
		for i := range t.Nodes {
			t.Nodes[i] = mirrorPoint(t.Nodes[i], wi)
		}
	}
	for _, c := range l.Caves {
		c.Area = c.Area.MirrorX(w)
		c.Start = mirrorPoint(c.Start, wi)
		c.End = mirrorPoint(c.End, wi)
	}
	for _, s := range l.Structures {
		s.Rect = s.Rect.MirrorX(w)
		s.ConnectorFrom.X = w - s.ConnectorFrom.X
		s.ConnectorTo.X = w - s.ConnectorTo.X
	}
	for i := range l.Positions {
		l.Positions[i].Position = mirrorPoint(l.Positions[i].Position, wi)
	}
	for _, pt := range l.PathPoints {
		pt.Position.X = w - pt.Position.X
		for ci := range pt.ClusterLocations {
			items := pt.ClusterLocations[ci].Items
			for k := range items {
				items[k].Position.X = w - items[k].Position.X
				items[k].Rotation = normalizeAngle(math.Pi - items[k].Rotation)
			}
		}
	}

	l.Mirrored = !l.Mirrored
}

func mirrorPoint(p core.Point, w int) core.Point {
	return core.Point{X: w - p.X, Y: p.Y}
}
