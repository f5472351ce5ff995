// Package config resolves generator settings from the environment and flags
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/lixenwraith/depthgen/asset"
	"github.com/lixenwraith/depthgen/catalog"
	"github.com/lixenwraith/depthgen/level"
)

// Generation holds everything needed to produce a level
// Environment supplies defaults; flags registered by RegisterFlags override them
type Generation struct {
	Seed       string  `env:"DEPTHGEN_SEED" envDefault:"depthgen"`
	Biome      string  `env:"DEPTHGEN_BIOME" envDefault:"cold_caverns"`
	ParamsID   string  `env:"DEPTHGEN_PARAMS_ID"`
	Width      int     `env:"DEPTHGEN_WIDTH" envDefault:"40000"`
	Height     int     `env:"DEPTHGEN_HEIGHT" envDefault:"20000"`
	Difficulty float64 `env:"DEPTHGEN_DIFFICULTY" envDefault:"50"`
	Outpost    bool    `env:"DEPTHGEN_OUTPOST"`
	Beacon     bool    `env:"DEPTHGEN_BEACON"`
	Mirror     bool    `env:"DEPTHGEN_MIRROR"`

	ParamsFile  string `env:"DEPTHGEN_PARAMS_FILE"`  // TOML parameter sets, built-in when empty
	CatalogFile string `env:"DEPTHGEN_CATALOG_FILE"` // TOML catalog, built-in when empty

	SaveDir string `env:"DEPTHGEN_SAVE_DIR" envDefault:"levels"`
	DBPath  string `env:"DEPTHGEN_DB"` // SQLite store, YAML files when empty
	Debug   bool   `env:"DEPTHGEN_DEBUG"`
}

// FromEnv loads defaults from DEPTHGEN_* variables
func FromEnv() (*Generation, error) {
	var g Generation
	if err := env.Parse(&g); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &g, nil
}

// RegisterFlags binds every field to fs using current values as defaults
func (g *Generation) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&g.Seed, "seed", g.Seed, "Level seed")
	fs.StringVar(&g.Biome, "biome", g.Biome, "Biome id")
	fs.StringVar(&g.ParamsID, "params", g.ParamsID, "Generation params id, overrides the biome's")
	fs.IntVar(&g.Width, "width", g.Width, "Level width")
	fs.IntVar(&g.Height, "height", g.Height, "Level height")
	fs.Float64Var(&g.Difficulty, "difficulty", g.Difficulty, "Difficulty 0-100")
	fs.BoolVar(&g.Outpost, "outpost", g.Outpost, "Generate an outpost level")
	fs.BoolVar(&g.Beacon, "beacon", g.Beacon, "Place a beacon station")
	fs.BoolVar(&g.Mirror, "mirror", g.Mirror, "Mirror the level horizontally")
	fs.StringVar(&g.ParamsFile, "params-file", g.ParamsFile, "TOML generation params file")
	fs.StringVar(&g.CatalogFile, "catalog-file", g.CatalogFile, "TOML catalog file")
	fs.StringVar(&g.SaveDir, "save-dir", g.SaveDir, "Directory for YAML level records")
	fs.StringVar(&g.DBPath, "db", g.DBPath, "SQLite level store path")
	fs.BoolVar(&g.Debug, "debug", g.Debug, "Write debug log to logs/")
}

// Record builds the level record these settings describe
func (g *Generation) Record() level.LevelData {
	d := level.NewLevelData(g.Seed, g.Biome, level.Size{Width: g.Width, Height: g.Height}, g.Difficulty)
	d.GenerationParamsID = g.ParamsID
	d.HasBeaconStation = g.Beacon
	if g.Outpost {
		d.Type = level.LevelTypeOutpost
	}
	return d
}

// Sources loads the parameter sets and catalog, falling back to built-ins
func (g *Generation) Sources() (*level.ParamsSet, *catalog.Catalog, error) {
	var (
		set *level.ParamsSet
		err error
	)
	if g.ParamsFile != "" {
		set, err = level.LoadParamsFile(g.ParamsFile)
	} else {
		set, err = level.DefaultParamsSet()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load params: %w", err)
	}

	var cat *catalog.Catalog
	if g.CatalogFile != "" {
		cat, err = catalog.LoadFile(g.CatalogFile)
	} else {
		cat, err = catalog.Load([]byte(asset.DefaultCatalog))
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load catalog: %w", err)
	}
	return set, cat, nil
}
