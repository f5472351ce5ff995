package level

import (
	"encoding/binary"
	"log"

	"github.com/cespare/xxhash/v2"

	"github.com/lixenwraith/depthgen/vmath"
)

// Phase identifies a generation checkpoint
type Phase uint8

const (
	PhaseTunnels Phase = iota + 1
	PhaseCells
	PhasePaths
	PhaseStructures
	PhaseResources
	PhaseFinal
)

func (p Phase) String() string {
	switch p {
	case PhaseTunnels:
		return "tunnels"
	case PhaseCells:
		return "cells"
	case PhasePaths:
		return "paths"
	case PhaseStructures:
		return "structures"
	case PhaseResources:
		return "resources"
	case PhaseFinal:
		return "final"
	}
	return "unknown"
}

// EqualityCheck is the checksum recorded after a phase
// Peers exchange these to detect a diverged draw sequence or geometry
type EqualityCheck struct {
	Phase Phase
	Draws uint64 // Draws consumed so far
	Value uint64
}

// checksum accumulates quantized values into an xxhash digest
type checksum struct {
	d   *xxhash.Digest
	buf [8]byte
}

func newChecksum() *checksum { return &checksum{d: xxhash.New()} }

func (c *checksum) u64(v uint64) {
	binary.LittleEndian.PutUint64(c.buf[:], v)
	_, _ = c.d.Write(c.buf[:])
}

func (c *checksum) int(v int)     { c.u64(uint64(int64(v))) }
func (c *checksum) f64(v float64) { c.u64(uint64(vmath.Quantize(v))) }
func (c *checksum) sum() uint64   { return c.d.Sum64() }

// emitCheck hashes the draw sequence position plus the geometry the phase produced
func (g *generator) emitCheck(phase Phase) {
	l := g.level
	c := newChecksum()
	c.u64(g.rng.State())
	c.u64(g.rng.Draws())

	switch phase {
	case PhaseTunnels:
		for _, t := range l.Tunnels {
			c.int(int(t.Type))
			for _, n := range t.Nodes {
				c.int(n.X)
				c.int(n.Y)
			}
		}
	case PhaseCells:
		c.int(len(l.Graph.Cells))
		c.int(len(l.Graph.Edges))
		for i := range l.Graph.Cells {
			c.f64(l.Graph.Cells[i].Site.X)
			c.f64(l.Graph.Cells[i].Site.Y)
		}
	case PhasePaths:
		for i := range l.Graph.Cells {
			c.int(int(l.Graph.Cells[i].Type))
		}
		c.int(l.Waypoints.Len())
	case PhaseStructures:
		for _, s := range l.Structures {
			c.f64(s.Rect.X)
			c.f64(s.Rect.Y)
		}
		for _, w := range l.Walls.All() {
			c.f64(w.Position.X)
			c.f64(w.Position.Y)
		}
	case PhaseResources:
		for _, pt := range l.PathPoints {
			for _, loc := range pt.ClusterLocations {
				c.int(loc.Edge)
				for _, it := range loc.Items {
					c.f64(it.Position.X)
					c.f64(it.Position.Y)
				}
			}
		}
	case PhaseFinal:
		for i := range l.Graph.Edges {
			e := &l.Graph.Edges[i]
			c.f64(e.Point1.X)
			c.f64(e.Point1.Y)
			c.f64(e.Point2.X)
			c.f64(e.Point2.Y)
		}
		for i := range l.Graph.Cells {
			c.int(int(l.Graph.Cells[i].Type))
		}
	}

	check := EqualityCheck{Phase: phase, Draws: g.rng.Draws(), Value: c.sum()}
	l.EqualityChecks = append(l.EqualityChecks, check)
	g.obs.EqualityCheck(check)
}

// CompareEqualityChecks returns the phases where local and remote disagree
// A phase present on one side only counts as a mismatch. Mismatches are
// logged as warnings; they never abort the session
func CompareEqualityChecks(local, remote []EqualityCheck, logger *log.Logger) []Phase {
	var mismatched []Phase
	for _, lc := range local {
		found := false
		for _, rc := range remote {
			if rc.Phase != lc.Phase {
				continue
			}
			found = true
			if rc.Value != lc.Value || rc.Draws != lc.Draws {
				mismatched = append(mismatched, lc.Phase)
				if logger != nil {
					logger.Printf("WARN: equality check %s mismatch: local %016x/%d, remote %016x/%d",
						lc.Phase, lc.Value, lc.Draws, rc.Value, rc.Draws)
				}
			}
			break
		}
		if !found {
			mismatched = append(mismatched, lc.Phase)
			if logger != nil {
				logger.Printf("WARN: equality check %s missing on remote", lc.Phase)
			}
		}
	}
	for _, rc := range remote {
		found := false
		for _, lc := range local {
			if lc.Phase == rc.Phase {
				found = true
				break
			}
		}
		if !found {
			mismatched = append(mismatched, rc.Phase)
			if logger != nil {
				logger.Printf("WARN: equality check %s missing locally", rc.Phase)
			}
		}
	}
	return mismatched
}
