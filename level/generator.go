package level

import (
	"fmt"
	"io"
	"log"

	"github.com/lixenwraith/depthgen/catalog"
	"github.com/lixenwraith/depthgen/core"
	"github.com/lixenwraith/depthgen/navigation"
	"github.com/lixenwraith/depthgen/parameter"
	"github.com/lixenwraith/depthgen/vmath"
	"github.com/lixenwraith/depthgen/voronoi"
)

// Option configures Generate
type Option func(*options)

type options struct {
	logger   *log.Logger
	mirror   bool
	observer Observer
}

// WithLogger routes warnings and debug output, discarded by default
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMirror reflects the finished level about its vertical midline
func WithMirror(mirror bool) Option {
	return func(o *options) { o.mirror = mirror }
}

// WithObserver subscribes o to pipeline checkpoints
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// generator carries the state of one generation pass
type generator struct {
	rng    *vmath.FastRand
	seed   uint64
	params *GenerationParams
	cat    *catalog.Catalog
	log    *log.Logger
	obs    Observer

	level    *Level
	field    *DistanceField
	area     core.Area // Level rectangle
	pathArea core.Area // Where tunnel nodes may go
}

// Generate derives the level described by data
//
// The pass is synchronous and consumes a single draw sequence seeded from
// data.Seed in this fixed order:
//
//	main path, side tunnels, caves           → check tunnels
//	sites, cells                             → check cells
//	carve, enlarge, waypoints                → check paths
//	ruins, wrecks, outposts, beacon, bodies,
//	floating ice, ice spires                 → check structures
//	path points, resources                   → check resources
//	mirror                                   → check final
//
// Any change to that order or to the draws inside a stage changes the level
// produced for every existing seed
func Generate(data LevelData, set *ParamsSet, cat *catalog.Catalog, opts ...Option) (*Level, error) {
	o := options{logger: log.New(io.Discard, "", 0), observer: NopObserver{}}
	for _, opt := range opts {
		opt(&o)
	}

	if err := data.Validate(); err != nil {
		return nil, err
	}
	if set == nil {
		return nil, ErrNoGenerationParams
	}
	params, biome, err := set.Resolve(data)
	if err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	if cat == nil {
		cat = &catalog.Catalog{}
	}

	seed := vmath.SeedFromString(data.Seed)
	w, h := data.Size.Width, data.Size.Height
	inset := parameter.PathBorderMinInset
	vInset := inset + int(params.MainPathMinWidth)

	g := &generator{
		rng:    vmath.NewFastRand(seed),
		seed:   seed,
		params: params,
		cat:    cat,
		log:    o.logger,
		obs:    o.observer,
		area:   core.Area{Width: w, Height: h},
		pathArea: core.Area{
			X:      inset,
			Y:      vInset,
			Width:  max(w-2*inset, 1),
			Height: max(h-2*vInset, 1),
		},
		level: &Level{
			Data:      data,
			Params:    params,
			Biome:     biome,
			Bounds:    core.Rect{Width: float64(w), Height: float64(h)},
			Waypoints: navigation.NewWaypointGraph(),
		},
	}

	g.log.Printf("Generating level %q: biome=%s params=%s size=%dx%d", data.Seed, biome.ID, params.ID, w, h)
	if err := g.run(o.mirror); err != nil {
		return nil, err
	}
	return g.level, nil
}

func (g *generator) run(mirror bool) error {
	l := g.level

	// --- Tunnels ---
	g.generateMainPath()
	g.generateSideTunnels()
	g.generateCaves()
	g.emitCheck(PhaseTunnels)

	// --- Cells ---
	g.rebuildField()
	l.Field = g.field
	vg, err := voronoi.Build(g.sampleSites(), l.Bounds, float64(g.params.VoronoiSiteInterval))
	if err != nil {
		return fmt.Errorf("build cells: %w", err)
	}
	l.Graph = vg
	l.Walls = newWallSet(vg)
	g.emitCheck(PhaseCells)

	// --- Paths ---
	for _, t := range l.Tunnels {
		g.carveTunnel(t)
	}
	for _, t := range l.Tunnels {
		g.enlargeTunnel(t)
	}
	for _, t := range l.Tunnels {
		g.markTunnelEdges(t)
	}
	g.buildWaypoints()
	g.emitCheck(PhasePaths)

	// --- Structures ---
	g.placeStructures()
	vg.FinalizeEdges()
	if n := vg.GenerateBodies(); n > 0 {
		g.log.Printf("DEBUG: detached %d cells without a closed body", n)
		vg.FinalizeEdges()
	}
	vg.MarkIslands()
	l.BaseCellCount = len(vg.Cells)
	g.obs.CellsFinalized(vg)

	g.placeFloatingIce()
	g.placeIceSpires()
	g.collectPositions()
	g.emitCheck(PhaseStructures)

	// --- Resources ---
	g.generatePathPoints()
	g.placeResources()
	g.emitCheck(PhaseResources)

	if mirror {
		l.Mirror()
	}
	g.emitCheck(PhaseFinal)

	g.log.Printf("Level %q done: %d tunnels, %d caves, %d structures, %d walls, %d items",
		l.Data.Seed, len(l.Tunnels), len(l.Caves), len(l.Structures), l.Walls.Len(), l.ItemCount())
	return nil
}
