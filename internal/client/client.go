// Package client defines the per-connection "entity": the bundle of state a
// pipeline phase reads and mutates for one TCP client, mirroring spec.md
// section 3's component list (Connection, RemoteAddress, SlabId, Encoder,
// Decoder, PacketQueue, CurrentState, and the optional identity/keep-alive
// fields acquired during login and Play).
package client

import (
	"net"
	"time"

	"github.com/google/uuid"

	"mcgate/internal/protocol"
	"mcgate/internal/state"
)

// KeepAliveState tracks the single in-flight keep-alive round trip for a
// Play client, per spec.md section 4.5.
type KeepAliveState struct {
	GotKeepAlive bool
	LastID       int64
	LastSend     time.Time
}

// Client is one connection's full entity state. The pipeline scheduler
// guarantees at most one goroutine mutates a given Client at a time (no
// concurrent writers on the same entity, per spec.md section 5), so no
// internal locking is needed here — callers serialize access by owning the
// per-tick phase loop.
type Client struct {
	Conn       net.Conn
	RemoteAddr net.IP
	SlabID     uint64

	Encoder *protocol.Encoder
	Decoder *protocol.Decoder
	Queue   []protocol.RawPacket

	State state.State

	// Acquired during login.
	UUID        uuid.UUID
	HasUUID     bool
	Username    string
	ProtocolID  int32
	ClientBrand string

	// Play marker plus keep-alive, both nil/false until Config→Play.
	InPlay    bool
	KeepAlive *KeepAliveState
}

// New wraps an accepted connection in its initial Handshake state.
func New(conn net.Conn, slabID uint64, remoteAddr net.IP) *Client {
	return &Client{
		Conn:       conn,
		RemoteAddr: remoteAddr,
		SlabID:     slabID,
		Encoder:    protocol.NewEncoder(),
		Decoder:    protocol.NewDecoder(),
		State:      state.Initial(),
	}
}

// EnterPlay transitions the client into Play: drops CurrentState (spec.md's
// "drop CurrentState from the entity and add the Play marker") and attaches
// a fresh KeepAliveState.
func (c *Client) EnterPlay(now time.Time) {
	c.State = state.State{Phase: state.PhasePlay}
	c.InPlay = true
	c.KeepAlive = &KeepAliveState{
		GotKeepAlive: true,
		LastID:       0,
		LastSend:     now,
	}
}
