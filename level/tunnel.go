package level

import (
	"github.com/lixenwraith/depthgen/core"
	"github.com/lixenwraith/depthgen/parameter"
	"github.com/lixenwraith/depthgen/vmath"
)

// TunnelType classifies a tunnel within the tunnel tree
type TunnelType uint8

const (
	TunnelMainPath TunnelType = iota
	TunnelSidePath
	TunnelCave
)

func (t TunnelType) String() string {
	switch t {
	case TunnelMainPath:
		return "main"
	case TunnelSidePath:
		return "side"
	case TunnelCave:
		return "cave"
	}
	return "unknown"
}

// Tunnel is the centerline of a carved passage
// Tunnels form a tree rooted at the single main path
type Tunnel struct {
	Index    int
	Type     TunnelType
	Nodes    []core.Point
	MinWidth float64
	Parent   *Tunnel

	Cells     []int // Spine cells in walk order
	Carved    []int // Every cell this tunnel turned into path, spine first
	Waypoints []int
}

// SegmentCount returns the number of polyline segments
func (t *Tunnel) SegmentCount() int {
	return max(len(t.Nodes)-1, 0)
}

// Segment returns the endpoints of segment i
func (t *Tunnel) Segment(i int) (core.Vec2, core.Vec2) {
	return t.Nodes[i].Vec(), t.Nodes[i+1].Vec()
}

// Length returns the polyline length
func (t *Tunnel) Length() float64 {
	total := 0.0
	for i := 0; i < t.SegmentCount(); i++ {
		a, b := t.Segment(i)
		total += a.Distance(b)
	}
	return total
}

// Root follows parent links to the tree root
// Returns nil if the chain is longer than any valid tree could be
func (t *Tunnel) Root(limit int) *Tunnel {
	cur := t
	for i := 0; i <= limit; i++ {
		if cur.Parent == nil {
			return cur
		}
		cur = cur.Parent
	}
	return nil
}

// isJunction reports whether segment i attaches the tunnel to another one
func (t *Tunnel) isJunction(i int) bool {
	return t.Parent != nil && (i == 0 || i == len(t.Nodes)-2)
}

// TunnelsTooClose reports whether any pair of non-junction segments of a and b
// pass closer than the tunnels' combined minimum width
func TunnelsTooClose(a, b *Tunnel) bool {
	limit := a.MinWidth + b.MinWidth
	for i := 0; i < a.SegmentCount(); i++ {
		if a.isJunction(i) {
			continue
		}
		a1, a2 := a.Segment(i)
		for j := 0; j < b.SegmentCount(); j++ {
			if b.isJunction(j) {
				continue
			}
			b1, b2 := b.Segment(j)
			if vmath.SegmentDistance(a1, a2, b1, b2) < limit {
				return true
			}
		}
	}
	return false
}

// nodeRequest describes one tunnel polyline to generate
type nodeRequest struct {
	start, end core.Point
	area       core.Area // Nodes between start and end stay inside
	parent     *Tunnel
	variance   float64 // Fraction of half the area height a step may deviate
	minWidth   float64
	interval   IntRange
}

// generateTunnelNodes steps from start to end along X
// Draw order per node: step, then Y offset
func generateTunnelNodes(rng *vmath.FastRand, req nodeRequest, existing []*Tunnel) []core.Point {
	dir := 1
	if req.end.X < req.start.X {
		dir = -1
	}

	nodes := []core.Point{req.start}
	prev := req.start
	first := req.parent != nil
	for {
		x := prev.X + dir*req.interval.Draw(rng)
		if dir*(req.end.X-x) < req.interval.Min/2 {
			break
		}

		var y int
		if first {
			// Unconstrained, avoids a bias toward the area's vertical center
			y = rng.IntRange(req.area.Y, req.area.Bottom())
			first = false
		} else {
			dev := int(req.variance * float64(req.area.Height) / 2)
			y = prev.Y + rng.IntRange(-dev, dev+1)
		}
		cand := core.Point{X: x, Y: clampInt(y, req.area.Y, req.area.Bottom()-1)}

		junction := req.parent != nil && len(nodes) == 1
		if !junction {
			cand = pushAway(prev, cand, req, existing)
		}
		nodes = append(nodes, cand)
		prev = cand
	}
	nodes = append(nodes, req.end)

	if len(nodes) < 3 {
		mid := core.Point{X: (req.start.X + req.end.X) / 2, Y: (req.start.Y + req.end.Y) / 2}
		nodes = []core.Point{req.start, mid, req.end}
	}
	return nodes
}

// pushAway applies a single corrective nudge when prev→cand runs too close to an existing tunnel
// The first offending segment decides the direction; later conflicts are left to carving
func pushAway(prev, cand core.Point, req nodeRequest, existing []*Tunnel) core.Point {
	from, to := prev.Vec(), cand.Vec()
	for _, t := range existing {
		limit := req.minWidth + t.MinWidth
		for j := 0; j < t.SegmentCount(); j++ {
			a, b := t.Segment(j)
			if vmath.SegmentDistance(from, to, a, b) >= limit {
				continue
			}
			closest := vmath.ClosestPointOnSegment(to, a, b)
			push := int(2 * limit)
			y := int(closest.Y) - push
			if to.Y >= closest.Y {
				y = int(closest.Y) + push
			}
			cand.Y = clampInt(y, req.area.Y, req.area.Bottom()-1)
			return cand
		}
	}
	return cand
}

// generateMainPath creates the root tunnel spanning the level left to right
func (g *generator) generateMainPath() {
	p := g.params
	area := g.pathArea
	inset := parameter.PathBorderMinInset / 2

	start := core.Point{X: g.area.X + inset, Y: g.rng.IntRange(area.Y, area.Bottom())}
	end := core.Point{X: g.area.Right() - inset, Y: g.rng.IntRange(area.Y, area.Bottom())}

	nodes := generateTunnelNodes(g.rng, nodeRequest{
		start:    start,
		end:      end,
		area:     area,
		variance: p.MainPathVariance,
		minWidth: p.MainPathMinWidth,
		interval: p.MainPathNodeInterval,
	}, nil)

	g.level.StartPosition = start
	g.level.EndPosition = end
	g.addTunnel(&Tunnel{Type: TunnelMainPath, Nodes: nodes, MinWidth: p.MainPathMinWidth})
}

// generateSideTunnels branches loops off the main path
// A candidate too close to an existing tunnel is redrawn; one that never
// clears is skipped
func (g *generator) generateSideTunnels() {
	p := g.params
	main := g.level.MainPath()
	count := p.SideTunnels.Draw(g.rng)

	for i := 0; i < count; i++ {
		width := p.SideTunnelMinWidth.Draw(g.rng)
		n := len(main.Nodes)
		if n <= parameter.SideTunnelMinNodeSpan {
			g.log.Printf("WARN: main path too short for side tunnel %d", i)
			return
		}

		var accepted *Tunnel
		for attempt := 0; attempt < parameter.SideTunnelAttempts; attempt++ {
			si := g.rng.Intn(n - parameter.SideTunnelMinNodeSpan)
			ei := g.rng.IntRange(si+parameter.SideTunnelMinNodeSpan, n)
			nodes := generateTunnelNodes(g.rng, nodeRequest{
				start:    main.Nodes[si],
				end:      main.Nodes[ei],
				area:     g.pathArea,
				parent:   main,
				variance: p.SideTunnelVariance,
				minWidth: width,
				interval: p.MainPathNodeInterval,
			}, g.level.Tunnels)

			cand := &Tunnel{Type: TunnelSidePath, Nodes: nodes, MinWidth: width, Parent: main}
			if !tooCloseToAny(cand, g.level.Tunnels) {
				accepted = cand
				break
			}
		}
		if accepted == nil {
			g.log.Printf("WARN: side tunnel %d skipped after %d attempts", i, parameter.SideTunnelAttempts)
			continue
		}
		g.addTunnel(accepted)
	}
}

func tooCloseToAny(t *Tunnel, others []*Tunnel) bool {
	for _, o := range others {
		if TunnelsTooClose(t, o) {
			return true
		}
	}
	return false
}

func (g *generator) addTunnel(t *Tunnel) {
	t.Index = len(g.level.Tunnels)
	g.level.Tunnels = append(g.level.Tunnels, t)
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
