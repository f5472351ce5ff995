package network

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/lixenwraith/depthgen/core"
	"github.com/lixenwraith/depthgen/level"
)

func TestMessage_EncodeDecode(t *testing.T) {
	var buf bytes.Buffer
	in := &Message{Type: MsgWallDamage, Flags: FlagNeedAck, Seq: 7, Ack: 3, Payload: []byte{1, 2, 3}}
	if err := in.Encode(&buf); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if buf.Len() != HeaderSize+3 {
		t.Fatalf("Expected %d bytes, got %d", HeaderSize+3, buf.Len())
	}
	if err := NewAckMessage(7).Encode(&buf); err != nil {
		t.Fatalf("Encode ack failed: %v", err)
	}

	out, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if out.Type != in.Type || out.Flags != in.Flags || out.Seq != 7 || out.Ack != 3 || !bytes.Equal(out.Payload, in.Payload) {
		t.Errorf("Expected %+v, got %+v", in, out)
	}
	ack, err := Decode(&buf)
	if err != nil || ack.Type != MsgAck || ack.Ack != 7 || ack.Payload != nil {
		t.Errorf("Unexpected ack %+v (%v)", ack, err)
	}
}

func TestMessage_TooLarge(t *testing.T) {
	m := NewMessage(MsgWallState, make([]byte, MaxPayloadSize+1))
	if err := m.Encode(&bytes.Buffer{}); !errors.Is(err, ErrPayloadTooLarge) {
		t.Errorf("Expected ErrPayloadTooLarge, got %v", err)
	}
}

func TestRotationQuantization(t *testing.T) {
	tests := []struct {
		in   float64
		want byte
	}{
		{0, 0},
		{math.Pi / 2, 4},
		{math.Pi, 8},
		{-math.Pi / 2, 12},
		{2*math.Pi - 0.01, 0},
		{5 * math.Pi, 8},
	}
	for _, tt := range tests {
		if got := QuantizeRotation(tt.in); got != tt.want {
			t.Errorf("QuantizeRotation(%v): expected %d, got %d", tt.in, tt.want, got)
		}
	}
	if got := DequantizeRotation(4); math.Abs(got-math.Pi/2) > 1e-12 {
		t.Errorf("Expected π/2, got %v", got)
	}
}

func TestWallState_Codec(t *testing.T) {
	states := []level.WallState{
		{Position: core.Vec2{X: 1234.5, Y: -10}, Rotation: math.Pi},
		{Position: core.Vec2{X: 0, Y: 99999}, Rotation: 0.2},
	}
	p, err := EncodeWallState(states)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(p) != 2+2*9 {
		t.Errorf("Expected 20 bytes, got %d", len(p))
	}
	got, err := DecodeWallState(p)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got[0].Position != states[0].Position || math.Abs(got[0].Rotation-math.Pi) > 1e-12 {
		t.Errorf("Expected %+v, got %+v", states[0], got[0])
	}
	if step := 2 * math.Pi / RotationSteps; math.Abs(got[1].Rotation-0.2) > step/2 {
		t.Errorf("Rotation error beyond half a step: %v", got[1].Rotation)
	}

	if _, err := DecodeWallState(p[:5]); !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("Expected ErrMalformedPayload, got %v", err)
	}
}

func TestWallDamage_Codec(t *testing.T) {
	idx, dmg, err := DecodeWallDamage(EncodeWallDamage(12, 0.5))
	if err != nil || idx != 12 || math.Abs(dmg-0.5) > 1.0/255 {
		t.Errorf("Expected 12/0.5, got %d/%v (%v)", idx, dmg, err)
	}
	idx, _, _ = DecodeWallDamage(EncodeWallDamage(-1, 1))
	if idx != -1 {
		t.Errorf("Expected -1 for missing wall, got %d", idx)
	}
	if _, dmg, _ = DecodeWallDamage(EncodeWallDamage(0, 3)); dmg != 1 {
		t.Errorf("Expected clamped damage 1, got %v", dmg)
	}
	for _, d := range []float64{0.996, 0.999, 1 - 1e-12} {
		if _, dmg, _ = DecodeWallDamage(EncodeWallDamage(0, d)); dmg >= 1 || dmg > d {
			t.Errorf("Expected %v to decode below full damage and not above itself, got %v", d, dmg)
		}
	}
	if _, _, err := DecodeWallDamage([]byte{1}); !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("Expected ErrMalformedPayload, got %v", err)
	}
}

func TestEqualityChecks_Codec(t *testing.T) {
	in := []level.EqualityCheck{
		{Phase: level.PhaseTunnels, Draws: 12, Value: 0xdeadbeef},
		{Phase: level.PhaseFinal, Draws: 1 << 40, Value: math.MaxUint64},
	}
	out, err := DecodeEqualityChecks(EncodeEqualityChecks(in))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(out) != 2 || out[0] != in[0] || out[1] != in[1] {
		t.Errorf("Expected %v, got %v", in, out)
	}
	if _, err := DecodeEqualityChecks([]byte{2, 0}); !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("Expected ErrMalformedPayload, got %v", err)
	}
}

func TestLevelData_Codec(t *testing.T) {
	d := level.NewLevelData("abc", "cold_caverns", level.Size{Width: 20000, Height: 10000}, 40)
	p, err := EncodeLevelData(d)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	got, err := DecodeLevelData(p)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got.Seed != d.Seed || got.Size != d.Size || got.Difficulty != d.Difficulty {
		t.Errorf("Expected %+v, got %+v", d, got)
	}
}
