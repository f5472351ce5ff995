// Package level generates deterministic cave levels from a LevelData record
package level

import (
	"errors"

	"github.com/lixenwraith/depthgen/core"
	"github.com/lixenwraith/depthgen/navigation"
	"github.com/lixenwraith/depthgen/voronoi"
)

var (
	ErrInvalidSize        = errors.New("level: invalid level size")
	ErrBiomeNotFound      = errors.New("level: biome not found")
	ErrNoGenerationParams = errors.New("level: no generation params")
	ErrInvalidParams      = errors.New("level: invalid generation params")
)

// Level is the fully derived geometry of one LevelData record
type Level struct {
	Data   LevelData
	Params *GenerationParams
	Biome  *Biome
	Bounds core.Rect

	StartPosition core.Point
	EndPosition   core.Point

	Graph     *voronoi.Graph
	Tunnels   []*Tunnel // Tunnels[0] is the main path
	Caves     []*Cave
	Waypoints *navigation.WaypointGraph
	Field     *DistanceField

	Structures []*PlacedStructure
	Positions  []InterestingPosition
	PathPoints []*PathPoint
	Walls      *WallSet

	// Cells below this index come from the Voronoi build; the rest are extra walls
	BaseCellCount int

	EqualityChecks []EqualityCheck
	Mirrored       bool
}

// MainPath returns the root tunnel
func (l *Level) MainPath() *Tunnel {
	if len(l.Tunnels) == 0 {
		return nil
	}
	return l.Tunnels[0]
}

// TunnelsOfType returns tunnels of type t in generation order
func (l *Level) TunnelsOfType(t TunnelType) []*Tunnel {
	var out []*Tunnel
	for _, tn := range l.Tunnels {
		if tn.Type == t {
			out = append(out, tn)
		}
	}
	return out
}

// CellAt returns the cell containing p
func (l *Level) CellAt(p core.Vec2) (ci int, ok bool) {
	l.Walls.viewGraph(func() { ci, ok = l.Graph.CellContaining(p) })
	return ci, ok
}

// CellsNear returns cells whose site lies within radius of p
func (l *Level) CellsNear(p core.Vec2, radius float64) (cells []int) {
	l.Walls.viewGraph(func() { cells = l.Graph.CellsNear(p, radius) })
	return cells
}

// IsOpen reports whether p lies in navigable water
func (l *Level) IsOpen(p core.Vec2) (open bool) {
	l.Walls.viewGraph(func() { open = l.Graph.IsOpen(p) })
	return open
}

// Raycast returns the first solid wall between from and to
// Raycasts reuse the graph's visit stamps and run exclusively
func (l *Level) Raycast(from, to core.Vec2) (hit voronoi.RayHit, ok bool) {
	l.Walls.updateGraph(func() { hit, ok = l.Graph.Raycast(from, to, voronoi.SolidWalls) })
	return hit, ok
}

// ItemCount returns the number of resource items placed in the level
func (l *Level) ItemCount() int {
	n := 0
	for _, pt := range l.PathPoints {
		n += pt.ItemCount()
	}
	return n
}

// EqualityCheck returns the checksum recorded for phase
func (l *Level) EqualityCheck(phase Phase) (EqualityCheck, bool) {
	for _, c := range l.EqualityChecks {
		if c.Phase == phase {
			return c, true
		}
	}
	return EqualityCheck{}, false
}
