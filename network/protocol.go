package network

import (
	"encoding/binary"
	"errors"
	"io"
)

// MessageType identifies the semantic meaning of a message
type MessageType uint8

const (
	// Control messages
	MsgHeartbeat  MessageType = 0x01
	MsgConnect    MessageType = 0x02
	MsgDisconnect MessageType = 0x03
	MsgAck        MessageType = 0x04

	// Level messages
	MsgLevelData     MessageType = 0x10 // Host sends the level record on join
	MsgEqualityCheck MessageType = 0x11 // Per-phase generation checksums
	MsgWallState     MessageType = 0x12 // Periodic movable wall snapshot
	MsgWallDamage    MessageType = 0x13 // Single wall damage update
)

func (t MessageType) String() string {
	switch t {
	case MsgHeartbeat:
		return "heartbeat"
	case MsgConnect:
		return "connect"
	case MsgDisconnect:
		return "disconnect"
	case MsgAck:
		return "ack"
	case MsgLevelData:
		return "level_data"
	case MsgEqualityCheck:
		return "equality_check"
	case MsgWallState:
		return "wall_state"
	case MsgWallDamage:
		return "wall_damage"
	}
	return "unknown"
}

// Header precedes every message on the wire
// Fixed 12 bytes: [Type:1][Flags:1][Seq:4][Ack:4][Len:2]
const HeaderSize = 12

// MaxPayloadSize is bounded by the 16-bit length field
const MaxPayloadSize = 65535

// Header flags
const (
	FlagNone    uint8 = 0x00
	FlagNeedAck uint8 = 0x01 // Sender expects acknowledgment
)

var ErrPayloadTooLarge = errors.New("network: payload exceeds maximum size")

// Message represents a framed network message
type Message struct {
	Type    MessageType
	Flags   uint8
	Seq     uint32 // Sender's sequence number
	Ack     uint32 // Last received sequence from peer
	Payload []byte
}

// Encode writes header and payload in a single write
func (m *Message) Encode(w io.Writer) error {
	n := len(m.Payload)
	if n > MaxPayloadSize {
		return ErrPayloadTooLarge
	}

	buf := make([]byte, HeaderSize+n)
	buf[0] = byte(m.Type)
	buf[1] = m.Flags
	binary.BigEndian.PutUint32(buf[2:6], m.Seq)
	binary.BigEndian.PutUint32(buf[6:10], m.Ack)
	binary.BigEndian.PutUint16(buf[10:12], uint16(n))
	copy(buf[HeaderSize:], m.Payload)

	_, err := w.Write(buf)
	return err
}

// Decode reads one framed message
func Decode(r io.Reader) (*Message, error) {
	var header [HeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}

	m := &Message{
		Type:  MessageType(header[0]),
		Flags: header[1],
		Seq:   binary.BigEndian.Uint32(header[2:6]),
		Ack:   binary.BigEndian.Uint32(header[6:10]),
	}

	if n := binary.BigEndian.Uint16(header[10:12]); n > 0 {
		m.Payload = make([]byte, n)
		if _, err := io.ReadFull(r, m.Payload); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// NewMessage creates a message with the given type and payload
func NewMessage(t MessageType, payload []byte) *Message {
	return &Message{Type: t, Flags: FlagNone, Payload: payload}
}

// NewAckMessage creates an acknowledgment for a received sequence
func NewAckMessage(ackSeq uint32) *Message {
	return &Message{Type: MsgAck, Ack: ackSeq}
}
