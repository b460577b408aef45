package handler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mcgate/internal/audit"
	"mcgate/internal/client"
	"mcgate/internal/packets"
	"mcgate/internal/protocol"
	"mcgate/internal/server"
	"mcgate/internal/state"
)

// handleConfig implements spec.md section 4.4's Config state. Plugin message
// and client information packets are accepted in either sub-state (a vanilla
// client sends both before replying to CKnownPacks); everything else is
// gated on the sub-state it belongs to, with out-of-order arrivals logged
// and dropped rather than disconnecting the client.
func handleConfig(ctx context.Context, res *server.Resources, c *client.Client, id int32, r *protocol.Reader, now time.Time) error {
	switch id {
	case packets.IDPluginMessageConfig:
		return handleConfigPluginMessage(c, r)

	case packets.IDClientInformationConfig:
		if _, err := packets.ReadSClientInformationConfig(r); err != nil {
			slog.Warn("decoding client information failed", "remote", c.RemoteAddr, "error", err)
		}
		return nil

	case packets.IDKnownPacksServerbound:
		if c.State.ConfigSub != state.ConfigKnownPacks {
			slog.Warn("known packs received out of order", "remote", c.RemoteAddr)
			return nil
		}
		return handleConfigKnownPacks(ctx, res, c, r)

	case packets.IDAcknowledgeFinishConfig:
		if c.State.ConfigSub != state.ConfigAckFinish {
			slog.Warn("finish config ack received out of order", "remote", c.RemoteAddr)
			return nil
		}
		return handleConfigAckFinish(ctx, res, c, r, now)

	default:
		slog.Warn("unknown packet id in config", "id", id, "remote", c.RemoteAddr)
		return nil
	}
}

func handleConfigPluginMessage(c *client.Client, r *protocol.Reader) error {
	p, err := packets.ReadSPluginMessage(r)
	if err != nil {
		slog.Warn("decoding plugin message failed", "remote", c.RemoteAddr, "error", err)
		return nil
	}
	if p.Channel == packets.MinecraftBrandChannel {
		c.ClientBrand = string(p.Data)
	}
	return nil
}

func handleConfigKnownPacks(ctx context.Context, res *server.Resources, c *client.Client, r *protocol.Reader) error {
	if _, err := packets.ReadSKnownPacks(r); err != nil {
		return disconnectf("decoding known packs: %v", err)
	}

	entries, err := res.Registry.Entries(ctx)
	if err != nil {
		return fmt.Errorf("loading registry entries: %w", err)
	}
	for _, e := range entries {
		entry := e
		if err := writePacket(c.Encoder, packets.IDRegistryData, func(w *protocol.Writer) {
			packets.WriteCRegistryData(w, packets.CRegistryData{ID: entry.ID, Entries: entry.Payload})
		}); err != nil {
			return err
		}
	}

	if err := writePacket(c.Encoder, packets.IDFinishConfig, func(w *protocol.Writer) {
		packets.WriteCFinishConfig(w, packets.CFinishConfig{})
	}); err != nil {
		return err
	}

	c.State.ConfigSub = state.ConfigAckFinish
	return nil
}

func handleConfigAckFinish(ctx context.Context, res *server.Resources, c *client.Client, r *protocol.Reader, now time.Time) error {
	if _, err := packets.ReadSAcknowledgeFinishConfig(r); err != nil {
		return disconnectf("decoding finish config ack: %v", err)
	}
	c.EnterPlay(now)

	res.Storage.OnlinePlayers.Add(1)
	res.Audit.RecordConnect(ctx, audit.Event{
		UUID:        c.UUID,
		Username:    c.Username,
		RemoteAddr:  c.RemoteAddr.String(),
		ConnectedAt: now,
	})

	return sendPlayEntryBurst(c)
}
