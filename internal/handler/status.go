package handler

import (
	"encoding/json"
	"fmt"

	"mcgate/internal/client"
	"mcgate/internal/packets"
	"mcgate/internal/protocol"
	"mcgate/internal/server"
)

type statusVersion struct {
	Name     string `json:"name"`
	Protocol int    `json:"protocol"`
}

type statusPlayers struct {
	Max    int   `json:"max"`
	Online int64 `json:"online"`
	Sample []any `json:"sample"`
}

type statusDescription struct {
	Text string `json:"text"`
}

type statusResponse struct {
	Version             statusVersion      `json:"version"`
	Players             statusPlayers      `json:"players"`
	Description          statusDescription `json:"description"`
	Favicon              string             `json:"favicon,omitempty"`
	EnforcesSecureChat   bool               `json:"enforcesSecureChat"`
}

// handleStatus implements spec.md section 4.4's Status state: the two
// server-list-ping packets.
func handleStatus(res *server.Resources, c *client.Client, id int32, r *protocol.Reader) error {
	switch id {
	case packets.IDStatusRequest:
		if _, err := packets.ReadSStatusRequest(r); err != nil {
			return disconnectf("decoding status request: %v", err)
		}
		body := statusResponse{
			Version: statusVersion{Name: packets.CurrentMCVersion, Protocol: packets.CurrentMCProtocol},
			Players: statusPlayers{
				Max:    res.Config.MaxPlayers,
				Online: res.Storage.OnlinePlayers.Load(),
				Sample: []any{},
			},
			Description:        statusDescription{Text: res.Config.Description},
			Favicon:             res.Favicon,
			EnforcesSecureChat: false,
		}
		jsonBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling status response: %w", err)
		}
		return writePacket(c.Encoder, packets.IDStatusResponse, func(w *protocol.Writer) {
			packets.WriteCStatusResponse(w, packets.CStatusResponse{JSON: string(jsonBytes)})
		})

	case packets.IDStatusPingRequest:
		ping, err := packets.ReadSStatusPingRequest(r)
		if err != nil {
			return disconnectf("decoding status ping: %v", err)
		}
		return writePacket(c.Encoder, packets.IDPingResponse, func(w *protocol.Writer) {
			packets.WriteCPingResponse(w, packets.CPingResponse{Payload: ping.Payload})
		})

	default:
		return disconnectf("unknown packet id 0x%02x in status", id)
	}
}
