package level

import "fmt"

// LevelType distinguishes connection levels from outpost levels
type LevelType string

const (
	LevelTypeConnection LevelType = "connection"
	LevelTypeOutpost    LevelType = "outpost"
)

// Size is the level rectangle in world units
type Size struct {
	Width  int `yaml:"width" toml:"width"`
	Height int `yaml:"height" toml:"height"`
}

// LevelData is the persisted identity of a level
// Geometry is derived from it and never stored; the same record always
// regenerates the same level
type LevelData struct {
	Seed               string    `yaml:"seed" toml:"seed"`
	BiomeID            string    `yaml:"biome_id" toml:"biome_id"`
	GenerationParamsID string    `yaml:"generation_params_id,omitempty" toml:"generation_params_id"`
	Type               LevelType `yaml:"type" toml:"type"`
	Size               Size      `yaml:"size" toml:"size"`
	Difficulty         float64   `yaml:"difficulty" toml:"difficulty"` // 0-100
	InitialDepth       int       `yaml:"initial_depth" toml:"initial_depth"`

	HasBeaconStation bool `yaml:"has_beacon_station" toml:"has_beacon_station"`
	IsBeaconActive   bool `yaml:"is_beacon_active" toml:"is_beacon_active"`

	EventHistory        []string `yaml:"event_history,omitempty" toml:"event_history"`
	NonRepeatableEvents []string `yaml:"non_repeatable_events,omitempty" toml:"non_repeatable_events"`
}

// NewLevelData builds a connection level record
func NewLevelData(seed, biomeID string, size Size, difficulty float64) LevelData {
	return LevelData{
		Seed:         seed,
		BiomeID:      biomeID,
		Type:         LevelTypeConnection,
		Size:         size,
		Difficulty:   difficulty,
		InitialDepth: 80,
	}
}

// Validate rejects records that cannot produce a level
func (d LevelData) Validate() error {
	if d.Size.Width <= 0 || d.Size.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, d.Size.Width, d.Size.Height)
	}
	switch d.Type {
	case LevelTypeConnection, LevelTypeOutpost, "":
	default:
		return fmt.Errorf("level: unknown level type %q", d.Type)
	}
	return nil
}

// LevelTypeOrDefault returns the record type, connection when unset
func (d LevelData) LevelTypeOrDefault() LevelType {
	if d.Type == "" {
		return LevelTypeConnection
	}
	return d.Type
}

// HasEvent reports whether id appears in the event history
func (d LevelData) HasEvent(id string) bool {
	for _, e := range d.EventHistory {
		if e == id {
			return true
		}
	}
	return false
}
