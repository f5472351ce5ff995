package level

import (
	"math"

	"github.com/zyedidia/generic/mapset"

	"github.com/lixenwraith/depthgen/catalog"
	"github.com/lixenwraith/depthgen/core"
	"github.com/lixenwraith/depthgen/parameter"
	"github.com/lixenwraith/depthgen/vmath"
	"github.com/lixenwraith/depthgen/voronoi"
)

// PlacedStructure is a prefab instance carved into the level
type PlacedStructure struct {
	Index  int
	Kind   catalog.StructureKind
	Prefab *catalog.Structure
	Rect   core.Rect

	// Straight passage from the pocket to the nearest spine cell
	ConnectorFrom core.Vec2
	ConnectorTo   core.Vec2

	Pocket    []int // Cells emptied around the rectangle
	Connector []int // Cells removed along the passage
}

// placeStructures runs the satellite placers in fixed order
func (g *generator) placeStructures() {
	p := g.params
	g.placeKind(catalog.KindRuin, p.Ruins.Draw(g.rng), p.RuinMinDistance, "")
	g.placeKind(catalog.KindWreck, p.Wrecks.Draw(g.rng), p.WreckMinDistance, "")
	g.placeKind(catalog.KindOutpost, p.Outposts.Draw(g.rng), p.OutpostMinDistance, p.OutpostLocationType)
	if g.level.Data.HasBeaconStation {
		g.placeKind(catalog.KindBeacon, 1, p.BeaconMinDistance, "")
	}
}

func (g *generator) placeKind(kind catalog.StructureKind, count int, minDist float64, location string) {
	for i := 0; i < count; i++ {
		prefab := g.choosePrefab(kind, location)
		if prefab == nil {
			g.log.Printf("WARN: no %s prefab in catalog", kind)
			return
		}
		s, ok := g.placeStructure(kind, prefab, minDist)
		if !ok {
			g.log.Printf("WARN: %s %q not placed after %d attempts", kind, prefab.ID, parameter.PlacementRetries)
			continue
		}
		s.Index = len(g.level.Structures)
		g.level.Structures = append(g.level.Structures, s)
		g.obs.StructurePlaced(s)
	}
}

// choosePrefab picks a prefab by commonness; a location type without a
// matching prefab falls back to every prefab of the kind
func (g *generator) choosePrefab(kind catalog.StructureKind, location string) *catalog.Structure {
	var cands []*catalog.Structure
	if location != "" {
		cands = g.cat.StructureForLocation(kind, location)
		if len(cands) == 0 {
			g.log.Printf("WARN: no %s prefab for location type %q, using any", kind, location)
		}
	}
	if len(cands) == 0 {
		cands = g.cat.StructuresOfKind(kind)
	}
	if len(cands) == 0 {
		return nil
	}
	weights := make([]float64, len(cands))
	for i, c := range cands {
		weights[i] = c.Commonness
	}
	if i := g.rng.Pick(weights); i >= 0 {
		return cands[i]
	}
	return cands[0]
}

func (g *generator) placeStructure(kind catalog.StructureKind, prefab *catalog.Structure, minDist float64) (*PlacedStructure, bool) {
	size := core.Vec2{X: prefab.Width, Y: prefab.Height}
	reject := func(c core.Vec2) bool {
		r := core.RectAround(c, size)
		return !g.insideBorders(r) || g.overlapsPlaced(r)
	}

	for attempt := 0; attempt < parameter.PlacementRetries; attempt++ {
		center, ok := g.field.FindPosition(g.rng, minDist, false, reject)
		if !ok {
			return nil, false
		}
		rect := core.RectAround(center, size)
		if !g.validatePlacement(rect) {
			continue
		}

		s := &PlacedStructure{Kind: kind, Prefab: prefab, Rect: rect}
		g.carvePocket(s)
		g.carveConnector(s)
		switch kind {
		case catalog.KindWreck, catalog.KindOutpost, catalog.KindBeacon:
			g.settle(s)
		}
		return s, true
	}
	return nil, false
}

func (g *generator) insideBorders(r core.Rect) bool {
	inner := g.level.Bounds.Inflate(-parameter.StructureMargin)
	return inner.Contains(r.Min()) && inner.Contains(r.Max())
}

func (g *generator) overlapsPlaced(r core.Rect) bool {
	for _, s := range g.level.Structures {
		if s.Rect.Inflate(parameter.StructureMargin).Intersects(r) {
			return true
		}
	}
	for _, c := range g.level.Caves {
		if c.Area.Intersects(r) {
			return true
		}
	}
	return false
}

// validatePlacement raycasts the outline and diagonals of r
// Placed structures block every ray; tunnel-flagged edges block the
// diagonals; a spine or enlarged path cell inside r rejects outright
func (g *generator) validatePlacement(r core.Rect) bool {
	vg := g.level.Graph
	placed := make([]core.Rect, len(g.level.Structures))
	for i, s := range g.level.Structures {
		placed[i] = s.Rect.Inflate(parameter.StructureMargin)
	}

	c := r.Corners()
	rays := [6][2]core.Vec2{
		{c[0], c[1]}, {c[1], c[2]}, {c[2], c[3]}, {c[3], c[0]},
		{c[0], c[2]}, {c[1], c[3]},
	}
	for _, ray := range rays {
		if _, hit := voronoi.RaycastRects(ray[0], ray[1], placed); hit {
			return false
		}
	}
	for _, diag := range rays[4:] {
		for _, ei := range vg.EdgesCrossing(diag[0], diag[1]) {
			e := &vg.Edges[ei]
			if e.NextToMainPath || e.NextToSidePath || e.NextToCave {
				return false
			}
		}
	}

	halfDiag := r.Size().Length() / 2
	for _, ci := range vg.CellsNear(r.Center(), halfDiag) {
		if vg.Cells[ci].Type == voronoi.CellPath && r.Contains(vg.Cells[ci].Site) {
			return false
		}
	}
	return true
}

// carvePocket empties every solid cell overlapping the structure rectangle
func (g *generator) carvePocket(s *PlacedStructure) {
	vg := g.level.Graph
	reach := s.Rect.Size().Length()/2 + 2*float64(g.params.VoronoiSiteInterval)
	for _, ci := range vg.CellsNear(s.Rect.Center(), reach) {
		if vg.Cells[ci].Type != voronoi.CellSolid {
			continue
		}
		if vmath.PolygonIntersectsRect(vg.Outline(ci), s.Rect) {
			vg.SetType(ci, voronoi.CellEmpty)
			s.Pocket = append(s.Pocket, ci)
		}
	}
}

// carveConnector removes solid cells along a straight line to the nearest spine cell
// Cells whose site lies within ConnectorMinWidth of the line are removed too
func (g *generator) carveConnector(s *PlacedStructure) {
	vg := g.level.Graph
	from := s.Rect.Center()
	to, ok := g.nearestSpineSite(from)
	if !ok {
		return
	}
	s.ConnectorFrom, s.ConnectorTo = from, to

	removed := mapset.New[int]()
	remove := func(ci int) {
		if ci < 0 || vg.Cells[ci].Type != voronoi.CellSolid || removed.Has(ci) {
			return
		}
		removed.Put(ci)
		vg.SetType(ci, voronoi.CellRemoved)
		s.Connector = append(s.Connector, ci)
	}

	for _, ei := range vg.EdgesCrossing(from, to) {
		remove(vg.Edges[ei].Cell1)
		remove(vg.Edges[ei].Cell2)
	}

	// Widen narrow gaps
	step := float64(g.params.VoronoiSiteInterval) / 2
	length := from.Distance(to)
	limitSq := parameter.ConnectorMinWidth * parameter.ConnectorMinWidth
	for d := 0.0; d <= length+step; d += step {
		pt := from.Lerp(to, math.Min(d/math.Max(length, 1), 1))
		for _, ci := range vg.CellsNear(pt, parameter.ConnectorMinWidth+step) {
			if vmath.PointSegmentDistanceSq(vg.Cells[ci].Site, from, to) <= limitSq {
				remove(ci)
			}
		}
	}
}

// nearestSpineSite returns the site of the spine cell closest to p over every tunnel
func (g *generator) nearestSpineSite(p core.Vec2) (core.Vec2, bool) {
	vg := g.level.Graph
	best, bestD := core.Vec2{}, math.MaxFloat64
	for _, t := range g.level.Tunnels {
		for _, ci := range t.Cells {
			if d := vg.Cells[ci].Site.DistanceSq(p); d < bestD {
				best, bestD = vg.Cells[ci].Site, d
			}
		}
	}
	return best, bestD < math.MaxFloat64
}

// settle drops the structure onto the floor below it and slides it away from
// a blocked side
func (g *generator) settle(s *PlacedStructure) {
	vg := g.level.Graph
	r := s.Rect

	drop := math.MaxFloat64
	for _, x := range [3]float64{r.X + r.Width*0.1, r.Center().X, r.Right() - r.Width*0.1} {
		from := core.Vec2{X: x, Y: r.Y}
		to := core.Vec2{X: x, Y: r.Y - parameter.SettleRayLength}
		if hit, ok := vg.Raycast(from, to, voronoi.SolidWalls); ok {
			drop = math.Min(drop, hit.Fraction*parameter.SettleRayLength)
		}
	}
	if drop < math.MaxFloat64 {
		r.Y -= drop
	}

	mid := r.Center()
	reach := r.Width/2 + parameter.SlideStep*parameter.MaxSlideSteps
	leftFree := g.freeSpan(mid, core.Vec2{X: -reach}) - r.Width/2
	rightFree := g.freeSpan(mid, core.Vec2{X: reach}) - r.Width/2
slide:
	for i := 0; i < parameter.MaxSlideSteps; i++ {
		switch {
		case leftFree < 0 && rightFree > parameter.SlideStep:
			r.X += parameter.SlideStep
			leftFree += parameter.SlideStep
			rightFree -= parameter.SlideStep
		case rightFree < 0 && leftFree > parameter.SlideStep:
			r.X -= parameter.SlideStep
			rightFree += parameter.SlideStep
			leftFree -= parameter.SlideStep
		default:
			break slide
		}
	}

	if g.insideBorders(r) && !g.overlapsPlaced(r) {
		s.Rect = r
	}
}

// freeSpan returns the open distance from p along dir before a wall
func (g *generator) freeSpan(p, dir core.Vec2) float64 {
	if hit, ok := g.level.Graph.Raycast(p, p.Add(dir), voronoi.SolidWalls); ok {
		return hit.Fraction * dir.Length()
	}
	return dir.Length()
}
