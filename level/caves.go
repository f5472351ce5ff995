package level

import (
	"github.com/lixenwraith/depthgen/core"
	"github.com/lixenwraith/depthgen/parameter"
	"github.com/lixenwraith/depthgen/vmath"
)

// Cave is a cluster of branch tunnels inside one area
// Tunnels[0] connects the cave to the main path; the rest cross the area
type Cave struct {
	Index   int
	Area    core.Rect
	Start   core.Point
	End     core.Point
	Tunnels []*Tunnel
}

// generateCaves places cave areas away from the tunnel network and grows
// their branches; the distance field is rebuilt after every cave
func (g *generator) generateCaves() {
	p := g.params
	count := p.Caves.Draw(g.rng)
	g.rebuildField()

	for i := 0; i < count; i++ {
		size := core.Vec2{X: float64(p.CaveWidth.Draw(g.rng)), Y: float64(p.CaveHeight.Draw(g.rng))}
		center, ok := g.field.FindPosition(g.rng, p.CaveMinDistance, false, func(c core.Vec2) bool {
			return !g.caveFits(core.RectAround(c, size))
		})
		if !ok {
			g.log.Printf("WARN: no room for cave %d (%.0fx%.0f)", i, size.X, size.Y)
			continue
		}
		g.growCave(core.RectAround(center, size))
		g.rebuildField()
	}
}

// caveFits rejects areas leaving the path borders, touching other caves, or crossed by a tunnel
func (g *generator) caveFits(r core.Rect) bool {
	if !g.pathArea.Rect().Contains(r.Min()) || !g.pathArea.Rect().Contains(r.Max()) {
		return false
	}
	margin := g.params.CaveMinWidth * 2
	for _, c := range g.level.Caves {
		if c.Area.Inflate(margin).Intersects(r) {
			return false
		}
	}
	return !tunnelsCrossRect(g.level.Tunnels, r.Inflate(g.params.CaveMinWidth))
}

func (g *generator) growCave(area core.Rect) {
	p := g.params
	main := g.level.MainPath()
	cave := &Cave{
		Index: len(g.level.Caves),
		Area:  area,
		Start: core.Vec2{X: area.X, Y: area.Center().Y}.Round(),
		End:   core.Vec2{X: area.Right(), Y: area.Center().Y}.Round(),
	}

	// Connection from the main path node nearest the cave entrance
	anchor := main.Nodes[0]
	for _, n := range main.Nodes[1:] {
		if n.Vec().DistanceSq(cave.Start.Vec()) < anchor.Vec().DistanceSq(cave.Start.Vec()) {
			anchor = n
		}
	}
	connection := &Tunnel{
		Type:     TunnelCave,
		MinWidth: p.CaveMinWidth,
		Parent:   main,
		Nodes: generateTunnelNodes(g.rng, nodeRequest{
			start:    anchor,
			end:      cave.Start,
			area:     spanArea(anchor, cave.Start, int(p.CaveMinWidth*2)),
			parent:   main,
			variance: p.SideTunnelVariance,
			minWidth: p.CaveMinWidth,
			interval: p.CaveNodeInterval,
		}, g.level.Tunnels),
	}
	g.addTunnel(connection)
	cave.Tunnels = append(cave.Tunnels, connection)

	inner := area.Inflate(-p.CaveMinWidth)
	branches := p.CaveBranches.Draw(g.rng)
	for b := 0; b < branches; b++ {
		t := &Tunnel{
			Type:     TunnelCave,
			MinWidth: p.CaveMinWidth,
			Parent:   connection,
			Nodes: generateTunnelNodes(g.rng, nodeRequest{
				start:    cave.Start,
				end:      cave.End,
				area:     areaOf(inner),
				parent:   connection,
				variance: 1,
				minWidth: p.CaveMinWidth,
				interval: p.CaveNodeInterval,
			}, g.level.Tunnels),
		}
		g.addTunnel(t)
		cave.Tunnels = append(cave.Tunnels, t)
	}

	g.level.Caves = append(g.level.Caves, cave)
}

func (g *generator) rebuildField() {
	g.field = BuildDistanceField(g.level.Bounds, parameter.DistanceFieldDensity, g.level.Tunnels,
		g.level.StartPosition, g.level.EndPosition)
}

// tunnelsCrossRect reports whether any tunnel segment enters r
func tunnelsCrossRect(tunnels []*Tunnel, r core.Rect) bool {
	for _, t := range tunnels {
		for i := 0; i < t.SegmentCount(); i++ {
			a, b := t.Segment(i)
			if r.Contains(a) || r.Contains(b) {
				return true
			}
			if _, ok := vmath.SegmentRectIntersect(a, b, r); ok {
				return true
			}
		}
	}
	return false
}

// spanArea returns the integer area spanned by two points, at least minHeight tall
func spanArea(a, b core.Point, minHeight int) core.Area {
	x0, x1 := min(a.X, b.X), max(a.X, b.X)
	y0, y1 := min(a.Y, b.Y), max(a.Y, b.Y)
	if y1-y0 < minHeight {
		mid := (y0 + y1) / 2
		y0, y1 = mid-minHeight/2, mid+minHeight/2
	}
	return core.Area{X: x0, Y: y0, Width: max(x1-x0, 1), Height: max(y1-y0, 1)}
}

func areaOf(r core.Rect) core.Area {
	return core.Area{X: int(r.X), Y: int(r.Y), Width: max(int(r.Width), 1), Height: max(int(r.Height), 1)}
}
