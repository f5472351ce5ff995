package vmath

import "github.com/cespare/xxhash/v2"

// FastRand is the xorshift64 draw sequence shared by every generation stage
// Every method consumes exactly one draw regardless of its arguments, so the
// call order alone determines the sequence and peers stay in lockstep
type FastRand struct {
	state uint64
	draws uint64
}

func NewFastRand(seed uint64) *FastRand {
	if seed == 0 {
		seed = 1
	}
	return &FastRand{state: seed}
}

// SeedFromString hashes a textual level seed into the xorshift state
func SeedFromString(seed string) uint64 {
	return xxhash.Sum64String(seed)
}

func (r *FastRand) Next() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	r.draws++
	return x
}

// Draws returns how many values have been consumed
func (r *FastRand) Draws() uint64 {
	return r.draws
}

// State exposes the raw generator state for equality checks
func (r *FastRand) State() uint64 {
	return r.state
}

// Intn returns [0, n), 0 for n <= 0
func (r *FastRand) Intn(n int) int {
	x := r.Next()
	if n <= 0 {
		return 0
	}
	return int(x % uint64(n))
}

// IntRange returns [min, max), min when the range is empty
func (r *FastRand) IntRange(min, max int) int {
	if max <= min {
		r.Next()
		return min
	}
	return min + r.Intn(max-min)
}

// Float64 returns [0, 1) with 53 bits of precision
func (r *FastRand) Float64() float64 {
	return float64(r.Next()>>11) * (1.0 / (1 << 53))
}

// Range returns [min, max)
func (r *FastRand) Range(min, max float64) float64 {
	return min + r.Float64()*(max-min)
}

// Chance returns true with probability p
func (r *FastRand) Chance(p float64) bool {
	return r.Float64() < p
}

// Pick returns a weighted index, -1 when no weight is positive
func (r *FastRand) Pick(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	roll := r.Float64() * total
	if total <= 0 {
		return -1
	}
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if roll < w {
			return i
		}
		roll -= w
	}
	// Float residue lands on the last positive weight
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return i
		}
	}
	return -1
}
