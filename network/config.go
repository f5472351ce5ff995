package network

import (
	"crypto/tls"
	"time"
)

// Role defines the session topology role
type Role uint8

const (
	RoleNone Role = iota // Network disabled
	RoleHost             // Owns wall authority, accepts peers
	RolePeer             // Joins a host and mirrors its wall state
)

func (r Role) String() string {
	switch r {
	case RoleHost:
		return "host"
	case RolePeer:
		return "peer"
	}
	return "none"
}

// Config holds session configuration
type Config struct {
	// Role determines connection behavior
	Role Role

	// Address to bind (host) or connect to (peer)
	Address string

	// TLS configuration (nil = plaintext, debug only)
	TLS *tls.Config

	// Connection limits
	MaxPeers int

	// Timing
	ConnectTimeout    time.Duration
	ReadTimeout       time.Duration // Peer dropped after this long without traffic
	HeartbeatInterval time.Duration
	SnapshotInterval  time.Duration // Host wall snapshot cadence

	// Queue sizes
	SendQueueSize int
}

// DefaultConfig returns production-safe defaults
func DefaultConfig() *Config {
	return &Config{
		Role:              RoleNone,
		Address:           ":7777",
		TLS:               nil, // Must be explicitly configured for production
		MaxPeers:          16,
		ConnectTimeout:    5 * time.Second,
		ReadTimeout:       30 * time.Second,
		HeartbeatInterval: 10 * time.Second,
		SnapshotInterval:  100 * time.Millisecond,
		SendQueueSize:     256,
	}
}

// DebugConfig returns config with TLS disabled for local testing
func DebugConfig(role Role, addr string) *Config {
	cfg := DefaultConfig()
	cfg.Role = role
	cfg.Address = addr
	return cfg
}
