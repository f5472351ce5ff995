package level

import (
	"fmt"
	"math"

	"github.com/ojrac/opensimplex-go"
	"github.com/zyedidia/generic/mapset"

	"github.com/lixenwraith/depthgen/catalog"
	"github.com/lixenwraith/depthgen/core"
	"github.com/lixenwraith/depthgen/parameter"
	"github.com/lixenwraith/depthgen/vmath"
	"github.com/lixenwraith/depthgen/voronoi"
)

// PlacedItem is one resource item resting on a wall
type PlacedItem struct {
	Item     *catalog.Item
	Position core.Vec2
	Rotation float64 // Radians, along the wall
}

// ClusterLocation is a wall edge hosting a run of items
type ClusterLocation struct {
	Cell  int // Solid cell behind the edge
	Edge  int
	Items []PlacedItem
}

// Equals compares cell and edge only
func (c ClusterLocation) Equals(o ClusterLocation) bool {
	return c.Cell == o.Cell && c.Edge == o.Edge
}

// PathPoint is a sample along a tunnel that may host resource clusters
type PathPoint struct {
	ID                     string
	Position               core.Vec2
	ShouldContainResources bool
	TunnelType             TunnelType
	Tunnel                 int
	ClusterLocations       []ClusterLocation
}

// ItemCount returns the number of items placed at the point
func (p *PathPoint) ItemCount() int {
	n := 0
	for _, c := range p.ClusterLocations {
		n += len(c.Items)
	}
	return n
}

// generatePathPoints walks every tunnel at random intervals
// Draw order per point: keep chance, then the next interval
func (g *generator) generatePathPoints() {
	p := g.params
	noise := opensimplex.New(int64(g.seed))

	for _, t := range g.level.Tunnels {
		interval, chance := p.ResourceInterval, p.ResourceChance
		if t.Type == TunnelCave {
			interval, chance = p.CaveResourceInterval, p.CaveResourceChance
		}

		total := t.Length()
		n := 0
		for d := interval.Draw(g.rng); d < total; d += interval.Draw(g.rng) {
			pos := pointAlong(t, d)
			richness := 1 + parameter.ResourceNoiseInfluence*noise.Eval2(
				pos.X*parameter.ResourceNoiseFrequency, pos.Y*parameter.ResourceNoiseFrequency)
			g.level.PathPoints = append(g.level.PathPoints, &PathPoint{
				ID:                     fmt.Sprintf("%s-%d-%d", t.Type, t.Index, n),
				Position:               pos,
				ShouldContainResources: g.rng.Chance(chance * richness),
				TunnelType:             t.Type,
				Tunnel:                 t.Index,
			})
			n++
		}
	}
}

// pointAlong returns the point at arc length d along the tunnel polyline
func pointAlong(t *Tunnel, d float64) core.Vec2 {
	for i := 0; i < t.SegmentCount(); i++ {
		a, b := t.Segment(i)
		l := a.Distance(b)
		if d <= l && l > 0 {
			return a.Lerp(b, d/l)
		}
		d -= l
	}
	return t.Nodes[len(t.Nodes)-1].Vec()
}

// placeResources fills flagged path points with item clusters until the item budget runs out
// Fixed-quantity items go first, each at a randomly chosen flagged point
func (g *generator) placeResources() {
	p := g.params
	budget := p.ItemCount
	if budget <= 0 {
		return
	}

	var flagged []*PathPoint
	for _, pt := range g.level.PathPoints {
		if pt.ShouldContainResources {
			flagged = append(flagged, pt)
		}
	}
	if len(flagged) == 0 {
		return
	}

	levelType := string(g.level.Data.LevelTypeOrDefault())
	claimed := mapset.New[int]()
	reach := g.maxItemExtent() + parameter.ResourceNormalJitter

	for _, fe := range g.cat.FixedQuantity(levelType) {
		for k := 0; k < fe.Count && budget > 0; k++ {
			pt := flagged[g.rng.Intn(len(flagged))]
			loc, ok := g.findClusterLocation(pt, claimed, reach)
			if !ok {
				g.log.Printf("WARN: no location for fixed item %q at %s", fe.Item.ID, pt.ID)
				continue
			}
			claimed.Put(loc.Edge)
			if loc.Items = g.spreadItems(loc, fe.Item, 1); len(loc.Items) > 0 {
				pt.ClusterLocations = append(pt.ClusterLocations, loc)
				budget -= len(loc.Items)
			}
		}
	}

	resources := g.cat.ResourceItems()
	for _, pt := range flagged {
		if budget <= 0 {
			return
		}
		clusters := p.ClustersPerPoint.Draw(g.rng)
		var prev *catalog.Item
		for c := 0; c < clusters && budget > 0; c++ {
			loc, ok := g.findClusterLocation(pt, claimed, reach)
			if !ok {
				g.log.Printf("DEBUG: cluster %d at %s skipped, no free edge", c, pt.ID)
				break
			}
			claimed.Put(loc.Edge)

			item := g.chooseItem(resources, prev, levelType)
			if item == nil {
				return
			}
			n := min(p.ClusterSize.Draw(g.rng), budget)
			if loc.Items = g.spreadItems(loc, item, n); len(loc.Items) == 0 {
				continue
			}
			pt.ClusterLocations = append(pt.ClusterLocations, loc)
			budget -= len(loc.Items)
			prev = item
		}
	}
}

// findClusterLocation returns the nearest wall edge this point may claim
// The edge must carry the point's tunnel flag, lie closer to this point than
// to any other, keep its claim line from crossing other claims, keep the
// minimum resource interval to other points' locations and keep item
// footprints off wrecks, outposts and beacons
func (g *generator) findClusterLocation(pt *PathPoint, claimed mapset.Set[int], reach float64) (ClusterLocation, bool) {
	vg := g.level.Graph
	best, bestD := -1, math.MaxFloat64

	for _, ei := range vg.EdgesNear(pt.Position, parameter.ResourceSearchRadius) {
		e := &vg.Edges[ei]
		if !e.IsSolid || e.OutsideLevel || !edgeFlagged(e, pt.TunnelType) || claimed.Has(ei) {
			continue
		}
		c := e.Center()
		d := c.DistanceSq(pt.Position)
		if d > bestD || (d == bestD && ei > best) {
			continue
		}
		if !g.closestPathPoint(pt, c) || g.crossesClaims(pt, c) || g.nearOtherLocations(pt, c) {
			continue
		}
		if g.footprintBlocked(e, reach) {
			continue
		}
		best, bestD = ei, d
	}
	if best < 0 {
		return ClusterLocation{}, false
	}

	e := &vg.Edges[best]
	cell := e.Cell1
	if vg.Cells[cell].Type != voronoi.CellSolid {
		cell = e.Cell2
	}
	return ClusterLocation{Cell: cell, Edge: best}, true
}

func edgeFlagged(e *voronoi.Edge, t TunnelType) bool {
	switch t {
	case TunnelMainPath:
		return e.NextToMainPath
	case TunnelSidePath:
		return e.NextToSidePath
	case TunnelCave:
		return e.NextToCave
	}
	return false
}

func (g *generator) closestPathPoint(pt *PathPoint, c core.Vec2) bool {
	own := c.DistanceSq(pt.Position)
	for _, q := range g.level.PathPoints {
		if q != pt && c.DistanceSq(q.Position) < own {
			return false
		}
	}
	return true
}

func (g *generator) crossesClaims(pt *PathPoint, c core.Vec2) bool {
	vg := g.level.Graph
	for _, q := range g.level.PathPoints {
		if q == pt {
			continue
		}
		for _, loc := range q.ClusterLocations {
			if _, ok := vmath.SegmentsIntersect(pt.Position, c, q.Position, vg.Edges[loc.Edge].Center()); ok {
				return true
			}
		}
	}
	return false
}

func (g *generator) nearOtherLocations(pt *PathPoint, c core.Vec2) bool {
	vg := g.level.Graph
	for _, q := range g.level.PathPoints {
		if q == pt {
			continue
		}
		limit := minResourceInterval(g.params, pt.TunnelType, q.TunnelType)
		for _, loc := range q.ClusterLocations {
			if vg.Edges[loc.Edge].Center().DistanceSq(c) < limit*limit {
				return true
			}
		}
	}
	return false
}

// minResourceInterval returns the smaller minimum resource interval of two tunnel types
func minResourceInterval(p *GenerationParams, a, b TunnelType) float64 {
	iv := func(t TunnelType) float64 {
		if t == TunnelCave {
			return p.CaveResourceInterval.Min
		}
		return p.ResourceInterval.Min
	}
	return math.Min(iv(a), iv(b))
}

// footprintBlocked reports whether items along e could touch a wreck, outpost or beacon
func (g *generator) footprintBlocked(e *voronoi.Edge, reach float64) bool {
	box := edgeBox(e).Inflate(reach)
	for _, s := range g.level.Structures {
		if s.Kind == catalog.KindRuin {
			continue
		}
		if box.Intersects(s.Rect) {
			return true
		}
	}
	return false
}

func edgeBox(e *voronoi.Edge) core.Rect {
	x0, x1 := math.Min(e.Point1.X, e.Point2.X), math.Max(e.Point1.X, e.Point2.X)
	y0, y1 := math.Min(e.Point1.Y, e.Point2.Y), math.Max(e.Point1.Y, e.Point2.Y)
	return core.Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

func (g *generator) maxItemExtent() float64 {
	m := 0.0
	for i := range g.cat.Items {
		m = math.Max(m, math.Max(g.cat.Items[i].Width, g.cat.Items[i].Height))
	}
	return m
}

// chooseItem picks by commonness; after the first cluster only items sharing
// a tag with the previous one qualify
func (g *generator) chooseItem(resources []*catalog.Item, prev *catalog.Item, levelType string) *catalog.Item {
	cands := resources
	if prev != nil {
		var shared []*catalog.Item
		for _, it := range resources {
			for _, tag := range prev.Tags {
				if it.HasTag(tag) {
					shared = append(shared, it)
					break
				}
			}
		}
		if len(shared) > 0 {
			cands = shared
		}
	}

	weights := make([]float64, len(cands))
	for i, it := range cands {
		weights[i] = it.CommonnessFor(levelType)
	}
	if i := g.rng.Pick(weights); i >= 0 {
		return cands[i]
	}
	return prev
}

// spreadItems lines up to n items along the edge on its open side
// Spacing overlaps randomly and each item is jittered along the wall normal;
// the run is centered and never longer than the edge
func (g *generator) spreadItems(loc ClusterLocation, item *catalog.Item, n int) []PlacedItem {
	vg := g.level.Graph
	e := &vg.Edges[loc.Edge]
	length := e.Length()
	dir := e.Point2.Sub(e.Point1).Normalize()

	open := e.AdjacentCell(loc.Cell)
	normal := dir.Perpendicular()
	if open >= 0 && normal.Dot(vg.Cells[open].Site.Sub(e.Center())) < 0 {
		normal = normal.Scale(-1)
	}

	var offsets []float64
	off := item.Width / 2
	for len(offsets) < n && off+item.Width/2 <= length {
		offsets = append(offsets, off)
		off += item.Width * (1 - g.rng.Range(0, parameter.ResourceMaxOverlap))
	}
	if len(offsets) == 0 {
		return nil
	}

	shift := (length - (offsets[len(offsets)-1] + item.Width/2)) / 2
	rotation := normalizeAngle(math.Atan2(dir.Y, dir.X))
	items := make([]PlacedItem, len(offsets))
	for i, o := range offsets {
		jitter := g.rng.Range(-parameter.ResourceNormalJitter, parameter.ResourceNormalJitter)
		pos := e.Point1.Add(dir.Scale(o + shift)).Add(normal.Scale(item.Height/2 + jitter))
		items[i] = PlacedItem{Item: item, Position: pos, Rotation: rotation}
	}
	return items
}
