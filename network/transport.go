package network

import (
	"crypto/tls"
	"net"
	"sync"
	"sync/atomic"
)

// Transport owns the listener (host) or the single upstream connection (peer)
type Transport struct {
	config   *Config
	listener net.Listener
	peers    *PeerManager

	running atomic.Bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewTransport creates a transport with the given configuration
func NewTransport(cfg *Config) *Transport {
	return &Transport{
		config: cfg,
		peers:  NewPeerManager(cfg),
		stopCh: make(chan struct{}),
	}
}

// SetHandlers configures message and connection callbacks
func (t *Transport) SetHandlers(
	onConnect func(PeerID),
	onDisconnect func(PeerID),
	onMessage func(PeerID, *Message),
) {
	t.peers.SetHandlers(onConnect, onDisconnect, onMessage)
}

// Start begins listening (host) or connecting (peer)
func (t *Transport) Start() error {
	if !t.running.CompareAndSwap(false, true) {
		return nil
	}

	var err error
	switch t.config.Role {
	case RoleHost:
		err = t.listen()
	case RolePeer:
		err = t.connect()
	}
	if err != nil {
		t.running.Store(false)
	}
	return err
}

func (t *Transport) listen() error {
	var ln net.Listener
	var err error
	if t.config.TLS != nil {
		ln, err = tls.Listen("tcp", t.config.Address, t.config.TLS)
	} else {
		ln, err = net.Listen("tcp", t.config.Address)
	}
	if err != nil {
		return err
	}

	t.listener = ln
	t.wg.Add(1)
	go t.acceptLoop()
	return nil
}

func (t *Transport) acceptLoop() {
	defer t.wg.Done()

	for {
		conn, err := t.listener.Accept()
		if err != nil {
			select {
			case <-t.stopCh:
				return
			default:
				continue
			}
		}
		_, _ = t.peers.AddConnection(conn)
	}
}

func (t *Transport) connect() error {
	conn, err := dial(t.config.Address, t.config)
	if err != nil {
		return err
	}
	_, err = t.peers.AddConnection(conn)
	return err
}

// Addr returns the bound listener address, nil when not hosting
func (t *Transport) Addr() net.Addr {
	if t.listener == nil {
		return nil
	}
	return t.listener.Addr()
}

// Stop halts the transport and closes every peer
func (t *Transport) Stop() error {
	if !t.running.CompareAndSwap(true, false) {
		return nil
	}

	close(t.stopCh)
	if t.listener != nil {
		t.listener.Close()
	}
	t.peers.Close()
	t.wg.Wait()
	return nil
}

// Send transmits to a specific peer
func (t *Transport) Send(id PeerID, msg *Message) bool { return t.peers.Send(id, msg) }

// Broadcast sends to all peers
func (t *Transport) Broadcast(msg *Message) { t.peers.Broadcast(msg) }

// PeerCount returns connected peer count
func (t *Transport) PeerCount() int { return t.peers.PeerCount() }

// IsRunning returns transport state
func (t *Transport) IsRunning() bool { return t.running.Load() }
