package vmath

import "math/bits"

// Q32.32 Fixed Point constants
// Used for grid traversal where float stepping would drift across bucket boundaries
const (
	Shift = 32
	Scale = 1 << Shift
	Mask  = Scale - 1
	Half  = 1 << (Shift - 1)
)

// --- Arithmetic ---

func FromInt(i int) int64       { return int64(i) << Shift }
func ToInt(f int64) int         { return int(f >> Shift) }
func FromFloat(f float64) int64 { return int64(f * Scale) }
func ToFloat(f int64) float64   { return float64(f) / Scale }

func Mul(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	negative := (a < 0) != (b < 0)
	ua, ub := uint64(a), uint64(b)
	if a < 0 {
		ua = uint64(-a)
	}
	if b < 0 {
		ub = uint64(-b)
	}

	hi, lo := bits.Mul64(ua, ub)
	// Q32.32 * Q32.32 = Q64.64, shift right 32 for Q32.32
	result := int64((hi << 32) | (lo >> 32))

	if negative {
		return -result
	}
	return result
}

func Div(a, b int64) int64 {
	if b == 0 {
		return 0
	}
	negative := (a < 0) != (b < 0)
	ua, ub := uint64(a), uint64(b)
	if a < 0 {
		ua = uint64(-a)
	}
	if b < 0 {
		ub = uint64(-b)
	}

	hi := ua >> 32
	lo := ua << 32

	// Quotient would not fit in 64 bits
	if hi >= ub {
		if negative {
			return -(1<<63 - 1)
		}
		return 1<<63 - 1
	}

	quo, _ := bits.Div64(hi, lo, ub)
	if quo > 1<<63-1 {
		quo = 1<<63 - 1
	}
	if negative {
		return -int64(quo)
	}
	return int64(quo)
}

// Quantize rounds a world coordinate to a fixed-point grid, used for checksums
// so that equality values do not depend on float formatting
func Quantize(f float64) int64 {
	return FromFloat(f) >> 16
}
