package network

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"

	"github.com/lixenwraith/depthgen/level"
)

var ErrNotHost = errors.New("network: operation requires the host role")

// Session shares one generated level between a host and its peers
// The host owns wall authority and streams snapshots; every side exchanges
// equality checks on connect so diverged generation is reported
type Session struct {
	config    *Config
	level     *level.Level
	transport *Transport
	walls     *WallSync
	log       *log.Logger

	mu         sync.Mutex
	mismatches map[PeerID][]level.Phase
	verified   map[PeerID]bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSession wires a transport to a level; a nil logger discards output
func NewSession(cfg *Config, l *level.Level, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Session{
		config:     cfg,
		level:      l,
		transport:  NewTransport(cfg),
		walls:      NewWallSync(l.Walls, cfg.SnapshotInterval, logger),
		log:        logger,
		mismatches: make(map[PeerID][]level.Phase),
		verified:   make(map[PeerID]bool),
	}
	s.transport.SetHandlers(s.onConnect, s.onDisconnect, s.onMessage)
	return s
}

// Start opens the transport; the host takes wall authority and starts streaming
func (s *Session) Start(ctx context.Context) error {
	if s.config.Role == RoleNone {
		return nil
	}
	s.level.Walls.SetAuthority(s.config.Role == RoleHost)
	if err := s.transport.Start(); err != nil {
		return err
	}

	if s.config.Role == RoleHost {
		ctx, cancel := context.WithCancel(ctx)
		s.cancel = cancel
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			_ = s.walls.Run(ctx, s.transport.Broadcast)
		}()
	}
	return nil
}

// Stop halts streaming and closes the transport
func (s *Session) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	return s.transport.Stop()
}

// Addr returns the host listener address, nil for peers
func (s *Session) Addr() string {
	if a := s.transport.Addr(); a != nil {
		return a.String()
	}
	return ""
}

// DamageWall applies damage on the host and broadcasts the result
func (s *Session) DamageWall(index int, amount float64) (bool, error) {
	if s.config.Role != RoleHost {
		return false, ErrNotHost
	}
	destroyed, err := s.level.Walls.AddDamage(index, amount)
	if err != nil {
		return false, err
	}
	s.transport.Broadcast(s.walls.DamageMessage(index))
	return destroyed, nil
}

// Verified reports whether peer id has sent equality checks
func (s *Session) Verified(id PeerID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verified[id]
}

// Mismatches returns the phases in which peer id diverged
func (s *Session) Mismatches(id PeerID) []level.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]level.Phase(nil), s.mismatches[id]...)
}

// PeerIDs returns connected peers in ascending order
func (s *Session) PeerIDs() []PeerID { return s.transport.peers.IDs() }

func (s *Session) onConnect(id PeerID) {
	s.log.Printf("DEBUG: peer %d connected as %s", id, s.config.Role)
	s.transport.Send(id, NewMessage(MsgEqualityCheck, EncodeEqualityChecks(s.level.EqualityChecks)))
	if s.config.Role != RoleHost {
		return
	}
	if payload, err := EncodeLevelData(s.level.Data); err == nil {
		s.transport.Send(id, NewMessage(MsgLevelData, payload))
	}
}

func (s *Session) onDisconnect(id PeerID) {
	s.log.Printf("DEBUG: peer %d disconnected", id)
	s.mu.Lock()
	delete(s.mismatches, id)
	delete(s.verified, id)
	s.mu.Unlock()
}

func (s *Session) onMessage(id PeerID, msg *Message) {
	var err error
	switch msg.Type {
	case MsgEqualityCheck:
		err = s.handleEqualityCheck(id, msg.Payload)
	case MsgLevelData:
		err = s.handleLevelData(msg.Payload)
	case MsgWallState:
		err = ApplyWallState(s.level.Walls, msg.Payload)
	case MsgWallDamage:
		err = ApplyWallDamage(s.level.Walls, msg.Payload)
	default:
		return
	}
	if err != nil {
		s.log.Printf("WARN: %s from peer %d: %v", msg.Type, id, err)
	}
}

func (s *Session) handleEqualityCheck(id PeerID, payload []byte) error {
	remote, err := DecodeEqualityChecks(payload)
	if err != nil {
		return err
	}
	mm := level.CompareEqualityChecks(s.level.EqualityChecks, remote, s.log)
	s.mu.Lock()
	s.verified[id] = true
	s.mismatches[id] = mm
	s.mu.Unlock()
	return nil
}

// handleLevelData confirms the host generated the same record
func (s *Session) handleLevelData(payload []byte) error {
	d, err := DecodeLevelData(payload)
	if err != nil {
		return err
	}
	local := s.level.Data
	if d.Seed != local.Seed || d.BiomeID != local.BiomeID || d.Size != local.Size {
		s.log.Printf("WARN: host level %q/%s differs from local %q/%s", d.Seed, d.BiomeID, local.Seed, local.BiomeID)
	}
	return nil
}
