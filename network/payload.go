package network

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/depthgen/core"
	"github.com/lixenwraith/depthgen/level"
)

// RotationSteps is the number of quantized wall rotations per full turn
const RotationSteps = 16

// NoWallIndex marks a damage update for a wall the sender could not resolve
const NoWallIndex = 0xFFFF

const wallStateSize = 9 // float32 x, float32 y, rotation byte

var ErrMalformedPayload = errors.New("network: malformed payload")

// QuantizeRotation maps radians onto [0, RotationSteps)
func QuantizeRotation(r float64) byte {
	turn := math.Mod(r/(2*math.Pi), 1)
	if turn < 0 {
		turn++
	}
	return byte(int(math.Round(turn*RotationSteps)) % RotationSteps)
}

// DequantizeRotation maps a step back to radians
func DequantizeRotation(b byte) float64 {
	return float64(b%RotationSteps) * 2 * math.Pi / RotationSteps
}

// --- Wall state ---

// EncodeWallState packs a snapshot as [count:2] then per wall [x:4][y:4][rot:1]
func EncodeWallState(states []level.WallState) ([]byte, error) {
	if 2+len(states)*wallStateSize > MaxPayloadSize {
		return nil, ErrPayloadTooLarge
	}
	buf := make([]byte, 2+len(states)*wallStateSize)
	binary.BigEndian.PutUint16(buf, uint16(len(states)))
	off := 2
	for _, s := range states {
		binary.BigEndian.PutUint32(buf[off:], math.Float32bits(float32(s.Position.X)))
		binary.BigEndian.PutUint32(buf[off+4:], math.Float32bits(float32(s.Position.Y)))
		buf[off+8] = QuantizeRotation(s.Rotation)
		off += wallStateSize
	}
	return buf, nil
}

// DecodeWallState unpacks a snapshot
func DecodeWallState(p []byte) ([]level.WallState, error) {
	if len(p) < 2 {
		return nil, fmt.Errorf("%w: wall state header", ErrMalformedPayload)
	}
	n := int(binary.BigEndian.Uint16(p))
	if len(p) != 2+n*wallStateSize {
		return nil, fmt.Errorf("%w: wall state has %d bytes for %d walls", ErrMalformedPayload, len(p), n)
	}
	out := make([]level.WallState, n)
	off := 2
	for i := range out {
		out[i] = level.WallState{
			Position: core.Vec2{
				X: float64(math.Float32frombits(binary.BigEndian.Uint32(p[off:]))),
				Y: float64(math.Float32frombits(binary.BigEndian.Uint32(p[off+4:]))),
			},
			Rotation: DequantizeRotation(p[off+8]),
		}
		off += wallStateSize
	}
	return out, nil
}

// --- Wall damage ---

// EncodeWallDamage packs [index:2][damage:1]; a negative or oversized index
// becomes NoWallIndex and damage is quantized down to 1/255
// Only a destroyed wall encodes as 255
func EncodeWallDamage(index int, damage float64) []byte {
	idx := uint16(NoWallIndex)
	if index >= 0 && index < NoWallIndex {
		idx = uint16(index)
	}
	buf := make([]byte, 3)
	binary.BigEndian.PutUint16(buf, idx)
	buf[2] = quantizeDamage(damage)
	return buf
}

func quantizeDamage(d float64) byte {
	if d >= 1 {
		return 255
	}
	return byte(math.Min(254, math.Floor(math.Max(0, d)*255)))
}

// DecodeWallDamage returns the wall index, -1 for NoWallIndex, and damage in [0, 1]
func DecodeWallDamage(p []byte) (int, float64, error) {
	if len(p) != 3 {
		return 0, 0, fmt.Errorf("%w: wall damage has %d bytes", ErrMalformedPayload, len(p))
	}
	idx := int(binary.BigEndian.Uint16(p))
	if idx == NoWallIndex {
		idx = -1
	}
	return idx, float64(p[2]) / 255, nil
}

// --- Equality checks ---

const equalityCheckSize = 17 // phase byte, draws uint64, value uint64

// EncodeEqualityChecks packs [count:1] then per check [phase:1][draws:8][value:8]
func EncodeEqualityChecks(checks []level.EqualityCheck) []byte {
	buf := make([]byte, 1+len(checks)*equalityCheckSize)
	buf[0] = byte(len(checks))
	off := 1
	for _, c := range checks {
		buf[off] = byte(c.Phase)
		binary.BigEndian.PutUint64(buf[off+1:], c.Draws)
		binary.BigEndian.PutUint64(buf[off+9:], c.Value)
		off += equalityCheckSize
	}
	return buf
}

// DecodeEqualityChecks unpacks per-phase checksums
func DecodeEqualityChecks(p []byte) ([]level.EqualityCheck, error) {
	if len(p) < 1 {
		return nil, fmt.Errorf("%w: equality check header", ErrMalformedPayload)
	}
	n := int(p[0])
	if len(p) != 1+n*equalityCheckSize {
		return nil, fmt.Errorf("%w: equality checks have %d bytes for %d entries", ErrMalformedPayload, len(p), n)
	}
	out := make([]level.EqualityCheck, n)
	off := 1
	for i := range out {
		out[i] = level.EqualityCheck{
			Phase: level.Phase(p[off]),
			Draws: binary.BigEndian.Uint64(p[off+1:]),
			Value: binary.BigEndian.Uint64(p[off+9:]),
		}
		off += equalityCheckSize
	}
	return out, nil
}

// --- Level record ---

// EncodeLevelData serializes the record the same way save files do
func EncodeLevelData(d level.LevelData) ([]byte, error) {
	raw, err := yaml.Marshal(d)
	if err != nil {
		return nil, err
	}
	if len(raw) > MaxPayloadSize {
		return nil, ErrPayloadTooLarge
	}
	return raw, nil
}

// DecodeLevelData parses and validates a record
func DecodeLevelData(p []byte) (level.LevelData, error) {
	var d level.LevelData
	if err := yaml.Unmarshal(p, &d); err != nil {
		return d, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return d, d.Validate()
}
