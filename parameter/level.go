package parameter

// Spatial partitioning
const (
	// GridCellSize is the bucket edge length of the cell lookup grid (world units)
	GridCellSize = 2000.0

	// DistanceFieldDensity is the sample spacing of the tunnel distance field
	DistanceFieldDensity = 1000

	// MirrorEpsilon nudges coordinates off bucket boundaries before reflection
	MirrorEpsilon = 1e-4
)

// Voronoi site sampling
const (
	// SiteSparseKeepChance is the survival chance of a site far from every tunnel
	SiteSparseKeepChance = 0.1

	// SiteSparseDistanceFactor scales the site interval into the sparse threshold
	SiteSparseDistanceFactor = 3.0

	// SiteFrameMargin pushes the bounding frame sites outside the level (in site intervals)
	SiteFrameMargin = 2
)

// Tunnel generation
const (
	// PathBorderMinInset is the minimum distance between path nodes and level edges
	PathBorderMinInset = 1000

	// SideTunnelAttempts bounds regeneration of a side tunnel that crowds another tunnel
	SideTunnelAttempts = 8

	// SideTunnelMinNodeSpan is the minimum number of main path nodes a side tunnel spans
	SideTunnelMinNodeSpan = 2

	// PathWalkMaxSteps guards the greedy cell walk against degenerate diagrams
	PathWalkMaxSteps = 100000
)

// Satellite structures
const (
	// PlacementRetries is the attempt budget per structure
	PlacementRetries = 50

	// StructureMargin is the free space kept between placed structures
	StructureMargin = 500.0

	// ConnectorMinWidth widens structure connectors so they stay navigable
	ConnectorMinWidth = 600.0

	// SettleRayLength is how far wrecks and outposts look for the floor
	SettleRayLength = 20000.0

	// SlideStep is the sideways correction applied per blocked probe
	SlideStep = 100.0

	// MaxSlideSteps bounds sideways sliding
	MaxSlideSteps = 40

	// IceSpireLengthFactor limits spire length as a fraction of tunnel clearance
	IceSpireLengthFactor = 0.5

	// IceChunkClearance is the open space required around a floating ice chunk
	IceChunkClearance = 200.0
)

// Resources
const (
	// ResourceSearchRadius bounds the wall edge search around a path point
	ResourceSearchRadius = 4000.0

	// ResourceNormalJitter offsets items off the wall edge line
	ResourceNormalJitter = 20.0

	// ResourceMaxOverlap is the largest fraction two neighbouring items may overlap
	ResourceMaxOverlap = 0.3

	// ResourceNoiseFrequency scales world coordinates into the richness noise
	ResourceNoiseFrequency = 0.0002

	// ResourceNoiseInfluence is the richness noise weight on spawn chance
	ResourceNoiseInfluence = 0.5
)
