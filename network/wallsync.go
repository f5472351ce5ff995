package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/lixenwraith/depthgen/level"
)

// WallSync streams movable wall state from the host to its peers
type WallSync struct {
	walls    *level.WallSet
	interval time.Duration
	log      *log.Logger
}

// NewWallSync creates a snapshot streamer; a nil logger discards output
func NewWallSync(walls *level.WallSet, interval time.Duration, logger *log.Logger) *WallSync {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &WallSync{walls: walls, interval: interval, log: logger}
}

// Run sends a snapshot every interval until ctx is done
// Ticks are skipped while this side lacks authority or has no movable walls
func (w *WallSync) Run(ctx context.Context, send func(*Message)) error {
	if w.interval <= 0 {
		return fmt.Errorf("wall sync: invalid interval %v", w.interval)
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			msg, err := w.Snapshot()
			if err != nil {
				w.log.Printf("WARN: wall snapshot dropped: %v", err)
				continue
			}
			if msg != nil {
				send(msg)
			}
		}
	}
}

// Snapshot builds one wall state message, nil when there is nothing to send
func (w *WallSync) Snapshot() (*Message, error) {
	if !w.walls.IsAuthority() {
		return nil, nil
	}
	states := w.walls.Snapshot()
	if len(states) == 0 {
		return nil, nil
	}
	payload, err := EncodeWallState(states)
	if err != nil {
		return nil, err
	}
	return NewMessage(MsgWallState, payload), nil
}

// DamageMessage builds a damage update carrying the wall's current damage
func (w *WallSync) DamageMessage(index int) *Message {
	wall, ok := w.walls.Wall(index)
	if !ok {
		return NewMessage(MsgWallDamage, EncodeWallDamage(-1, 0))
	}
	return NewMessage(MsgWallDamage, EncodeWallDamage(index, wall.Damage))
}

// ApplyWallState decodes a host snapshot onto a peer's walls
func ApplyWallState(walls *level.WallSet, payload []byte) error {
	if walls.IsAuthority() {
		return errors.New("wall sync: authority ignores remote wall state")
	}
	states, err := DecodeWallState(payload)
	if err != nil {
		return err
	}
	return walls.ApplyState(states)
}

// ApplyWallDamage decodes a host damage update; NoWallIndex updates are ignored
func ApplyWallDamage(walls *level.WallSet, payload []byte) error {
	if walls.IsAuthority() {
		return errors.New("wall sync: authority ignores remote wall damage")
	}
	index, damage, err := DecodeWallDamage(payload)
	if err != nil {
		return err
	}
	if index < 0 {
		return nil
	}
	return walls.ApplyDamage(index, damage)
}
