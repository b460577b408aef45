package handler

import (
	"encoding/json"
	"fmt"

	"mcgate/internal/client"
	"mcgate/internal/packets"
	"mcgate/internal/protocol"
	"mcgate/internal/state"
)

// outdatedClientReason returns the CLoginDisconnect JSON chat payload for a
// protocol-version mismatch, per spec.md section 4.4's exact wording.
func outdatedClientReason() string {
	b, _ := json.Marshal(map[string]string{
		"text": fmt.Sprintf("Outdated client! Please use %s", packets.CurrentMCVersion),
	})
	return string(b)
}

// handleHandshake implements spec.md section 4.4's Handshake state: the
// only accepted packet is id 0x00 (SHandshake).
func handleHandshake(c *client.Client, id int32, r *protocol.Reader) error {
	if id != packets.IDHandshake {
		return disconnectf("unexpected packet id 0x%02x in handshake", id)
	}

	hs, err := packets.ReadSHandshake(r)
	if err != nil {
		return disconnectf("decoding handshake: %v", err)
	}

	if hs.NextState == packets.NextLoginRequest && hs.ProtocolVersion != packets.CurrentMCProtocol {
		if werr := writePacket(c.Encoder, packets.IDLoginDisconnect, func(w *protocol.Writer) {
			packets.WriteCLoginDisconnect(w, packets.CLoginDisconnect{ReasonJSON: outdatedClientReason()})
		}); werr != nil {
			return werr
		}
		return disconnectf("outdated protocol version %d", hs.ProtocolVersion)
	}

	c.ProtocolID = hs.ProtocolVersion

	switch hs.NextState {
	case packets.NextStatusRequest:
		c.State = state.State{Phase: state.PhaseStatus}
	case packets.NextLoginRequest:
		c.State = state.State{Phase: state.PhaseLogin, LoginSub: state.LoginStart}
	case packets.NextTransfer:
		// spec.md section 9(b): Transfer is reserved, not implemented.
		return disconnectf("transfer next_state is not implemented")
	default:
		return disconnectf("unknown next_state %d", hs.NextState)
	}
	return nil
}
