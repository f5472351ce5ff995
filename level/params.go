package level

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/depthgen/asset"
	"github.com/lixenwraith/depthgen/vmath"
)

// IntRange is an inclusive integer range drawn uniformly
type IntRange struct {
	Min int `toml:"min"`
	Max int `toml:"max"`
}

// Draw consumes one value from rng
func (r IntRange) Draw(rng *vmath.FastRand) int {
	return rng.IntRange(r.Min, r.Max+1)
}

func (r IntRange) valid() bool { return r.Min >= 0 && r.Min <= r.Max }

// FloatRange is a half-open float range drawn uniformly
type FloatRange struct {
	Min float64 `toml:"min"`
	Max float64 `toml:"max"`
}

// Draw consumes one value from rng
func (r FloatRange) Draw(rng *vmath.FastRand) float64 {
	return rng.Range(r.Min, r.Max)
}

func (r FloatRange) valid() bool { return r.Min > 0 && r.Min <= r.Max }

// GenerationParams tunes one family of levels
type GenerationParams struct {
	ID      string `toml:"id"`
	Default bool   `toml:"default"` // Fallback when neither record nor biome names a set

	MainPathNodeInterval IntRange `toml:"main_path_node_interval"`
	MainPathVariance     float64  `toml:"main_path_variance"`
	MainPathMinWidth     float64  `toml:"main_path_min_width"`

	SideTunnels        IntRange   `toml:"side_tunnels"`
	SideTunnelVariance float64    `toml:"side_tunnel_variance"`
	SideTunnelMinWidth FloatRange `toml:"side_tunnel_min_width"`

	Caves            IntRange `toml:"caves"`
	CaveWidth        IntRange `toml:"cave_width"`
	CaveHeight       IntRange `toml:"cave_height"`
	CaveMinDistance  float64  `toml:"cave_min_distance"`
	CaveBranches     IntRange `toml:"cave_branches"`
	CaveMinWidth     float64  `toml:"cave_min_width"`
	CaveNodeInterval IntRange `toml:"cave_node_interval"`

	VoronoiSiteInterval int `toml:"voronoi_site_interval"`
	VoronoiSiteVariance int `toml:"voronoi_site_variance"`

	Ruins               IntRange `toml:"ruins"`
	RuinMinDistance     float64  `toml:"ruin_min_distance"`
	Wrecks              IntRange `toml:"wrecks"`
	WreckMinDistance    float64  `toml:"wreck_min_distance"`
	Outposts            IntRange `toml:"outposts"`
	OutpostMinDistance  float64  `toml:"outpost_min_distance"`
	OutpostLocationType string   `toml:"outpost_location_type"`
	BeaconMinDistance   float64  `toml:"beacon_min_distance"`

	FloatingIce  IntRange   `toml:"floating_ice"`
	IceChunkSize FloatRange `toml:"ice_chunk_size"`
	IceSpires    IntRange   `toml:"ice_spires"`

	ItemCount            int        `toml:"item_count"`
	ResourceInterval     FloatRange `toml:"resource_interval"`
	CaveResourceInterval FloatRange `toml:"cave_resource_interval"`
	ResourceChance       float64    `toml:"resource_chance"`
	CaveResourceChance   float64    `toml:"cave_resource_chance"`
	ClusterSize          IntRange   `toml:"cluster_size"`
	ClustersPerPoint     IntRange   `toml:"clusters_per_point"`
}

// Validate checks ranges and widths
func (p *GenerationParams) Validate() error {
	switch {
	case p.ID == "":
		return errors.New("params: missing id")
	case !p.MainPathNodeInterval.valid() || p.MainPathNodeInterval.Min == 0:
		return fmt.Errorf("params %q: invalid main_path_node_interval", p.ID)
	case !p.CaveNodeInterval.valid() || p.CaveNodeInterval.Min == 0:
		return fmt.Errorf("params %q: invalid cave_node_interval", p.ID)
	case p.MainPathVariance < 0 || p.MainPathVariance > 1 || p.SideTunnelVariance < 0 || p.SideTunnelVariance > 1:
		return fmt.Errorf("params %q: variance must be within [0,1]", p.ID)
	case p.MainPathMinWidth <= 0 || p.CaveMinWidth <= 0 || !p.SideTunnelMinWidth.valid():
		return fmt.Errorf("params %q: tunnel widths must be positive", p.ID)
	case !p.SideTunnels.valid() || !p.Caves.valid() || !p.CaveBranches.valid():
		return fmt.Errorf("params %q: invalid tunnel counts", p.ID)
	case !p.CaveWidth.valid() || !p.CaveHeight.valid() || p.CaveWidth.Min == 0 || p.CaveHeight.Min == 0:
		return fmt.Errorf("params %q: invalid cave size", p.ID)
	case p.VoronoiSiteInterval <= 0 || p.VoronoiSiteVariance < 0 || p.VoronoiSiteVariance*2 >= p.VoronoiSiteInterval:
		return fmt.Errorf("params %q: site variance must be below half the site interval", p.ID)
	case !p.Ruins.valid() || !p.Wrecks.valid() || !p.Outposts.valid() || !p.FloatingIce.valid() || !p.IceSpires.valid():
		return fmt.Errorf("params %q: invalid structure counts", p.ID)
	case !p.IceChunkSize.valid():
		return fmt.Errorf("params %q: invalid ice_chunk_size", p.ID)
	case p.ItemCount < 0:
		return fmt.Errorf("params %q: item_count must not be negative", p.ID)
	case !p.ResourceInterval.valid() || !p.CaveResourceInterval.valid():
		return fmt.Errorf("params %q: invalid resource intervals", p.ID)
	case !p.ClusterSize.valid() || p.ClusterSize.Min == 0 || !p.ClustersPerPoint.valid():
		return fmt.Errorf("params %q: invalid cluster sizing", p.ID)
	}
	return nil
}

// Biome selects a parameter family for a region of the campaign map
type Biome struct {
	ID               string `toml:"id"`
	Name             string `toml:"name"`
	GenerationParams string `toml:"generation_params"`
}

// ParamsSet is the full set of parameter families and biomes, in file order
type ParamsSet struct {
	Params []GenerationParams `toml:"params"`
	Biomes []Biome            `toml:"biomes"`
}

// LoadParamsSet decodes and validates a TOML parameter document
func LoadParamsSet(data []byte) (*ParamsSet, error) {
	var s ParamsSet
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal generation params: %w", err)
	}
	seen := make(map[string]bool, len(s.Params))
	for i := range s.Params {
		if err := s.Params[i].Validate(); err != nil {
			return nil, err
		}
		if seen[s.Params[i].ID] {
			return nil, fmt.Errorf("params %q: duplicate id", s.Params[i].ID)
		}
		seen[s.Params[i].ID] = true
	}
	return &s, nil
}

// LoadParamsFile reads a TOML parameter document from disk
func LoadParamsFile(path string) (*ParamsSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadParamsSet(data)
}

// DefaultParamsSet returns the built-in parameter families
func DefaultParamsSet() (*ParamsSet, error) {
	return LoadParamsSet([]byte(asset.DefaultGenerationParams))
}

// Biome looks up a biome by id
func (s *ParamsSet) Biome(id string) (*Biome, bool) {
	for i := range s.Biomes {
		if s.Biomes[i].ID == id {
			return &s.Biomes[i], true
		}
	}
	return nil, false
}

// Lookup finds a parameter family by id
func (s *ParamsSet) Lookup(id string) (*GenerationParams, bool) {
	for i := range s.Params {
		if s.Params[i].ID == id {
			return &s.Params[i], true
		}
	}
	return nil, false
}

// Resolve picks the biome and parameter family for a record
// Order: the record's own params id, then the biome's, then the default family
func (s *ParamsSet) Resolve(data LevelData) (*GenerationParams, *Biome, error) {
	biome, ok := s.Biome(data.BiomeID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrBiomeNotFound, data.BiomeID)
	}
	for _, id := range [2]string{data.GenerationParamsID, biome.GenerationParams} {
		if id == "" {
			continue
		}
		if p, ok := s.Lookup(id); ok {
			return p, biome, nil
		}
	}
	for i := range s.Params {
		if s.Params[i].Default {
			return &s.Params[i], biome, nil
		}
	}
	return nil, biome, fmt.Errorf("%w: biome %q", ErrNoGenerationParams, biome.ID)
}
