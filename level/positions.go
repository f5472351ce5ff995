package level

import (
	"github.com/lixenwraith/depthgen/catalog"
	"github.com/lixenwraith/depthgen/core"
)

// PositionType is a bit set describing a point of gameplay interest
type PositionType uint16

const (
	PositionMainPath PositionType = 1 << iota
	PositionSidePath
	PositionCave
	PositionRuin
	PositionWreck
	PositionOutpost
	PositionBeacon
)

// Has reports whether every bit of f is set
func (t PositionType) Has(f PositionType) bool { return t&f == f }

// InterestingPosition marks a candidate spawn location
// Structure and Cave are indices into the level, -1 when unset
type InterestingPosition struct {
	Position  core.Point
	Type      PositionType
	Structure int
	Cave      int
}

// collectPositions records tunnel nodes, cave centers and structure centers
func (g *generator) collectPositions() {
	l := g.level
	add := func(p core.Point, t PositionType, structure, cave int) {
		l.Positions = append(l.Positions, InterestingPosition{Position: p, Type: t, Structure: structure, Cave: cave})
	}

	for _, t := range l.Tunnels {
		if len(t.Nodes) < 3 {
			continue
		}
		switch t.Type {
		case TunnelMainPath:
			for _, n := range t.Nodes[1 : len(t.Nodes)-1] {
				add(n, PositionMainPath, -1, -1)
			}
		case TunnelSidePath:
			add(t.Nodes[len(t.Nodes)/2], PositionSidePath, -1, -1)
		}
	}
	for _, c := range l.Caves {
		add(c.Area.Center().Round(), PositionCave, -1, c.Index)
	}
	for _, s := range l.Structures {
		add(s.Rect.Center().Round(), structurePosition(s.Kind), s.Index, -1)
	}
}

func structurePosition(k catalog.StructureKind) PositionType {
	switch k {
	case catalog.KindRuin:
		return PositionRuin
	case catalog.KindWreck:
		return PositionWreck
	case catalog.KindOutpost:
		return PositionOutpost
	case catalog.KindBeacon:
		return PositionBeacon
	}
	return 0
}
