// Package keepalive implements spec.md section 4.5's liveness protocol for
// Play-phase clients: a periodic CKeepAlive send paired with an SKeepAlive
// echo, and a timeout disconnect when the echo never arrives.
package keepalive

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"mcgate/internal/client"
	"mcgate/internal/connerr"
	"mcgate/internal/packets"
	"mcgate/internal/protocol"
)

// Tick runs one tick of the keep-alive protocol against c.KeepAlive. If the
// prior round trip never completed and period has elapsed since it was sent,
// the client is disconnected for timing out. Otherwise, once period has
// elapsed since the last send, a fresh CKeepAlive is queued and the round
// trip is reopened.
func Tick(now time.Time, period time.Duration, c *client.Client) error {
	ka := c.KeepAlive
	if ka == nil {
		return nil
	}

	elapsed := now.Sub(ka.LastSend)
	if elapsed < period {
		return nil
	}
	if !ka.GotKeepAlive {
		return fmt.Errorf("%w: keep-alive timed out after %s", connerr.ErrDisconnect, elapsed)
	}

	id := rand.Int63()
	err := protocol.AppendPacket(c.Encoder, packets.IDCKeepAlive, encodeKeepAlive(id))
	if err != nil {
		return err
	}

	ka.LastID = id
	ka.LastSend = now
	ka.GotKeepAlive = false
	return nil
}

func encodeKeepAlive(id int64) []byte {
	w := protocol.NewWriter()
	packets.WriteCKeepAlive(w, packets.CKeepAlive{ID: id})
	return w.Bytes()
}

// HandleSKeepAlive processes an inbound SKeepAlive against c.KeepAlive: an ID
// that doesn't match the most recently sent CKeepAlive disconnects the
// client; a duplicate echo (GotKeepAlive already true) is logged but
// tolerated; otherwise the round trip is marked complete.
func HandleSKeepAlive(c *client.Client, r *protocol.Reader) error {
	p, err := packets.ReadSKeepAlive(r)
	if err != nil {
		return fmt.Errorf("%w: decoding keep alive: %v", connerr.ErrDisconnect, err)
	}

	ka := c.KeepAlive
	if ka == nil {
		return fmt.Errorf("%w: keep alive received outside play", connerr.ErrDisconnect)
	}
	if ka.GotKeepAlive {
		slog.Warn("unexpected keep alive", "remote", c.RemoteAddr, "id", p.ID)
		return nil
	}
	if p.ID != ka.LastID {
		return fmt.Errorf("%w: keep alive id mismatch (got %d, want %d)", connerr.ErrDisconnect, p.ID, ka.LastID)
	}

	ka.GotKeepAlive = true
	return nil
}
