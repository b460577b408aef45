// Package handler implements the per-state packet dispatchers spec.md
// section 4.4 describes: one function per CurrentState phase, each consuming
// the client's queued RawPackets and driving the state machine, encoder, and
// (during Login) the RSA/Velocity identity exchange.
package handler

import (
	"context"
	"fmt"
	"time"

	"mcgate/internal/client"
	"mcgate/internal/connerr"
	"mcgate/internal/protocol"
	"mcgate/internal/server"
	"mcgate/internal/state"
)

// ErrDisconnect is wrapped into any error that should tear the connection
// down. errors.Is(err, ErrDisconnect) lets the pipeline decide whether to
// log a disconnect at Info (expected) instead of Warn (protocol violation);
// every non-nil error from Dispatch destroys the entity regardless.
var ErrDisconnect = connerr.ErrDisconnect

func disconnectf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrDisconnect}, args...)...)
}

// Dispatch runs the handler for c's current phase over every packet queued
// this tick, in TCP byte order (spec.md section 5's ordering guarantee:
// queued packets are handled in the order they were received). The first
// error — whether a protocol violation or an explicit disconnect — stops
// processing immediately; the pipeline destroys the entity on any non-nil
// return.
func Dispatch(ctx context.Context, now time.Time, res *server.Resources, c *client.Client) error {
	for _, pkt := range c.Queue {
		r := pkt.Reader()
		var err error
		switch c.State.Phase {
		case state.PhaseHandshake:
			err = handleHandshake(c, pkt.ID, r)
		case state.PhaseStatus:
			err = handleStatus(res, c, pkt.ID, r)
		case state.PhaseLogin:
			err = handleLogin(ctx, res, c, pkt.ID, r, now)
		case state.PhaseTransfer:
			// spec.md section 9(b): Transfer has no handler; reject.
			err = disconnectf("transfer state has no handler")
		case state.PhaseConfig:
			err = handleConfig(ctx, res, c, pkt.ID, r, now)
		case state.PhasePlay:
			err = handlePlay(c, pkt.ID, r)
		default:
			err = disconnectf("unreachable phase %v", c.State.Phase)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// writePacket is a small helper every phase handler uses to serialize a
// typed packet through the client's encoder.
func writePacket(enc *protocol.Encoder, id int32, encode func(*protocol.Writer)) error {
	w := protocol.NewWriter()
	encode(w)
	return protocol.AppendPacket(enc, id, w.Bytes())
}
