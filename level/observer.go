package level

import "github.com/lixenwraith/depthgen/voronoi"

// Observer receives pipeline checkpoints during generation
// Callbacks run synchronously on the generating goroutine and must not
// mutate the values they receive
type Observer interface {
	// CellsFinalized fires once edges are classified and bodies built
	CellsFinalized(g *voronoi.Graph)
	StructurePlaced(s *PlacedStructure)
	WallCreated(w ExtraWall)
	EqualityCheck(c EqualityCheck)
}

// NopObserver ignores every checkpoint; embed it to implement a subset
type NopObserver struct{}

func (NopObserver) CellsFinalized(*voronoi.Graph)    {}
func (NopObserver) StructurePlaced(*PlacedStructure) {}
func (NopObserver) WallCreated(ExtraWall)            {}
func (NopObserver) EqualityCheck(EqualityCheck)      {}
