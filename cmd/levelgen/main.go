// Command levelgen generates a level from a record, prints its summary and
// equality checks, and saves or loads records as YAML files or in SQLite
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/lixenwraith/depthgen/config"
	"github.com/lixenwraith/depthgen/level"
	"github.com/lixenwraith/depthgen/persistence"
)

func main() {
	os.Exit(levelgen())
}

// levelgen returns the process exit code so deferred cleanup runs before exit
func levelgen() int {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "levelgen: %v\n", err)
		return 2
	}

	fs := flag.NewFlagSet("levelgen", flag.ExitOnError)
	cfg.RegisterFlags(fs)
	save := fs.String("save", "", "Save the record under this name")
	load := fs.String("load", "", "Load a saved record by name instead of using flags")
	list := fs.Bool("list", false, "List saved records and exit")
	_ = fs.Parse(os.Args[1:])

	if logFile := config.SetupLogging(cfg.Debug, "levelgen"); logFile != nil {
		defer logFile.Close()
	}

	if err := run(context.Background(), cfg, *save, *load, *list, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "levelgen: %v\n", err)
		return 1
	}
	return 0
}

// records abstracts the YAML manager and the SQLite store
type records interface {
	save(ctx context.Context, name string, d level.LevelData) error
	load(ctx context.Context, name string) (level.LevelData, error)
	names(ctx context.Context) ([]string, error)
	close() error
}

type fileRecords struct{ m *persistence.Manager }

func (r fileRecords) save(_ context.Context, name string, d level.LevelData) error {
	return r.m.Save(name, d)
}
func (r fileRecords) load(_ context.Context, name string) (level.LevelData, error) {
	return r.m.Load(name)
}
func (r fileRecords) names(context.Context) ([]string, error) { return r.m.List() }
func (r fileRecords) close() error                            { return nil }

type storeRecords struct{ s *persistence.Store }

func (r storeRecords) save(ctx context.Context, name string, d level.LevelData) error {
	return r.s.Put(ctx, name, d)
}
func (r storeRecords) load(ctx context.Context, name string) (level.LevelData, error) {
	sl, err := r.s.Get(ctx, name)
	return sl.Data, err
}
func (r storeRecords) names(ctx context.Context) ([]string, error) {
	all, err := r.s.ListByBiome(ctx, "")
	out := make([]string, len(all))
	for i, sl := range all {
		out[i] = sl.Name
	}
	return out, err
}
func (r storeRecords) close() error { return r.s.Close() }

func openRecords(cfg *config.Generation) (records, error) {
	if cfg.DBPath == "" {
		return fileRecords{m: persistence.NewManager(cfg.SaveDir)}, nil
	}
	s, err := persistence.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	return storeRecords{s: s}, nil
}

func run(ctx context.Context, cfg *config.Generation, save, load string, list bool, out io.Writer) error {
	recs, err := openRecords(cfg)
	if err != nil {
		return err
	}
	defer recs.close()

	if list {
		names, err := recs.names(ctx)
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Fprintln(out, n)
		}
		return nil
	}

	data := cfg.Record()
	if load != "" {
		if data, err = recs.load(ctx, load); err != nil {
			return err
		}
	}

	set, cat, err := cfg.Sources()
	if err != nil {
		return err
	}

	start := time.Now()
	l, err := level.Generate(data, set, cat,
		level.WithLogger(log.Default()),
		level.WithMirror(cfg.Mirror),
	)
	if err != nil {
		return err
	}
	printSummary(out, l, time.Since(start))

	if save != "" {
		if err := recs.save(ctx, save, data); err != nil {
			return err
		}
		fmt.Fprintf(out, "saved %q\n", save)
	}
	return nil
}

func printSummary(w io.Writer, l *level.Level, took time.Duration) {
	d := l.Data
	fmt.Fprintf(w, "seed %q biome %s params %s type %s size %dx%d difficulty %.0f\n",
		d.Seed, l.Biome.ID, l.Params.ID, d.LevelTypeOrDefault(), d.Size.Width, d.Size.Height, d.Difficulty)
	fmt.Fprintf(w, "generated in %v, mirrored=%v\n", took.Round(time.Millisecond), l.Mirrored)

	fmt.Fprintf(w, "tunnels: main %d, side %d, cave %d\n",
		len(l.TunnelsOfType(level.TunnelMainPath)),
		len(l.TunnelsOfType(level.TunnelSidePath)),
		len(l.TunnelsOfType(level.TunnelCave)))
	fmt.Fprintf(w, "cells: %d (+%d walls), edges %d, waypoints %d\n",
		l.BaseCellCount, len(l.Graph.Cells)-l.BaseCellCount, len(l.Graph.Edges), l.Waypoints.Len())
	fmt.Fprintf(w, "caves %d, structures %d, positions %d, path points %d, items %d\n",
		len(l.Caves), len(l.Structures), len(l.Positions), len(l.PathPoints), l.ItemCount())
	for _, s := range l.Structures {
		fmt.Fprintf(w, "  %-8s %-18s at (%.0f, %.0f)\n", s.Kind, s.Prefab.ID, s.Rect.X, s.Rect.Y)
	}

	fmt.Fprintln(w, "equality checks:")
	for _, c := range l.EqualityChecks {
		fmt.Fprintf(w, "  %-10s draws %-8d %016x\n", c.Phase, c.Draws, c.Value)
	}
}
