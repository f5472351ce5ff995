package network

import (
	"bufio"
	"crypto/tls"
	"errors"
	"net"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

var ErrMaxPeers = errors.New("network: max peers reached")

// PeerID uniquely identifies a connected peer
type PeerID uint32

// Peer is one remote endpoint of a session
type Peer struct {
	ID       PeerID
	Addr     string
	LastSeen atomic.Int64 // UnixNano

	// Sequence tracking
	OutSeq atomic.Uint32 // Last outbound sequence
	InSeq  atomic.Uint32 // Last processed inbound sequence

	conn   net.Conn
	reader *bufio.Reader
	writer *bufio.Writer
	sendCh chan *Message

	closed    atomic.Bool
	closeCh   chan struct{}
	closeOnce sync.Once
}

func newPeer(id PeerID, conn net.Conn, sendQueueSize int) *Peer {
	p := &Peer{
		ID:      id,
		Addr:    conn.RemoteAddr().String(),
		conn:    conn,
		reader:  bufio.NewReaderSize(conn, 64*1024),
		writer:  bufio.NewWriterSize(conn, 64*1024),
		sendCh:  make(chan *Message, sendQueueSize),
		closeCh: make(chan struct{}),
	}
	p.LastSeen.Store(time.Now().UnixNano())
	return p
}

// Send queues a message for transmission
// Returns false if the peer is closed or its queue is full
func (p *Peer) Send(msg *Message) bool {
	if p.closed.Load() {
		return false
	}

	msg.Seq = p.OutSeq.Add(1)
	msg.Ack = p.InSeq.Load()

	select {
	case p.sendCh <- msg:
		return true
	default:
		return false
	}
}

// Close initiates shutdown; safe to call repeatedly
func (p *Peer) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.closeCh)
		p.conn.Close()
	})
}

// readLoop decodes messages until the connection fails or goes quiet
// Heartbeats refresh LastSeen and are not forwarded
func (p *Peer) readLoop(timeout time.Duration, handler func(PeerID, *Message)) {
	defer p.Close()

	for {
		if timeout > 0 {
			_ = p.conn.SetReadDeadline(time.Now().Add(timeout))
		}
		msg, err := Decode(p.reader)
		if err != nil {
			return
		}

		p.LastSeen.Store(time.Now().UnixNano())
		if msg.Seq > p.InSeq.Load() {
			p.InSeq.Store(msg.Seq)
		}
		if msg.Type == MsgHeartbeat {
			continue
		}

		handler(p.ID, msg)
	}
}

// writeLoop sends queued messages and a heartbeat when idle
func (p *Peer) writeLoop(heartbeat time.Duration) {
	defer p.Close()

	var tick <-chan time.Time
	if heartbeat > 0 {
		t := time.NewTicker(heartbeat)
		defer t.Stop()
		tick = t.C
	}

	for {
		var msg *Message
		select {
		case <-p.closeCh:
			return
		case msg = <-p.sendCh:
		case <-tick:
			msg = &Message{Type: MsgHeartbeat, Seq: p.OutSeq.Add(1), Ack: p.InSeq.Load()}
		}
		if err := msg.Encode(p.writer); err != nil {
			return
		}
		if err := p.writer.Flush(); err != nil {
			return
		}
	}
}

// PeerManager tracks the live connections of a transport
type PeerManager struct {
	mu     sync.RWMutex
	peers  map[PeerID]*Peer
	nextID atomic.Uint32
	config *Config

	onConnect    func(PeerID)
	onDisconnect func(PeerID)
	onMessage    func(PeerID, *Message)
}

// NewPeerManager creates a peer manager
func NewPeerManager(cfg *Config) *PeerManager {
	return &PeerManager{
		peers:  make(map[PeerID]*Peer),
		config: cfg,
	}
}

// SetHandlers configures event callbacks; call before the first connection
func (pm *PeerManager) SetHandlers(
	onConnect func(PeerID),
	onDisconnect func(PeerID),
	onMessage func(PeerID, *Message),
) {
	pm.onConnect = onConnect
	pm.onDisconnect = onDisconnect
	pm.onMessage = onMessage
}

// AddConnection registers a peer and starts its I/O loops
func (pm *PeerManager) AddConnection(conn net.Conn) (PeerID, error) {
	pm.mu.Lock()
	if len(pm.peers) >= pm.config.MaxPeers {
		pm.mu.Unlock()
		conn.Close()
		return 0, ErrMaxPeers
	}
	id := PeerID(pm.nextID.Add(1))
	peer := newPeer(id, conn, pm.config.SendQueueSize)
	pm.peers[id] = peer
	pm.mu.Unlock()

	go peer.readLoop(pm.config.ReadTimeout, pm.handleMessage)
	go peer.writeLoop(pm.config.HeartbeatInterval)
	go pm.monitorPeer(peer)

	if pm.onConnect != nil {
		pm.onConnect(id)
	}
	return id, nil
}

func (pm *PeerManager) handleMessage(id PeerID, msg *Message) {
	if pm.onMessage != nil {
		pm.onMessage(id, msg)
	}
}

// monitorPeer unregisters a peer once it closes
func (pm *PeerManager) monitorPeer(peer *Peer) {
	<-peer.closeCh

	pm.mu.Lock()
	_, live := pm.peers[peer.ID]
	delete(pm.peers, peer.ID)
	pm.mu.Unlock()

	if live && pm.onDisconnect != nil {
		pm.onDisconnect(peer.ID)
	}
}

// Send transmits a message to a specific peer
func (pm *PeerManager) Send(id PeerID, msg *Message) bool {
	pm.mu.RLock()
	peer, ok := pm.peers[id]
	pm.mu.RUnlock()

	if !ok {
		return false
	}
	return peer.Send(msg)
}

// Broadcast sends a copy of msg to every peer
func (pm *PeerManager) Broadcast(msg *Message) {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	for _, peer := range pm.peers {
		clone := *msg
		peer.Send(&clone)
	}
}

// IDs returns connected peer ids in ascending order
func (pm *PeerManager) IDs() []PeerID {
	pm.mu.RLock()
	ids := make([]PeerID, 0, len(pm.peers))
	for id := range pm.peers {
		ids = append(ids, id)
	}
	pm.mu.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// PeerCount returns current connected peer count
func (pm *PeerManager) PeerCount() int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return len(pm.peers)
}

// Close disconnects all peers
func (pm *PeerManager) Close() {
	pm.mu.Lock()
	peers := pm.peers
	pm.peers = make(map[PeerID]*Peer)
	pm.mu.Unlock()

	for _, peer := range peers {
		peer.Close()
	}
}

// dial establishes a connection with optional TLS
func dial(addr string, cfg *Config) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: cfg.ConnectTimeout}
	if cfg.TLS != nil {
		return tls.DialWithDialer(dialer, "tcp", addr, cfg.TLS)
	}
	return dialer.Dial("tcp", addr)
}
