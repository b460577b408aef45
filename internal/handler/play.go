package handler

import (
	"log/slog"

	"mcgate/internal/client"
	"mcgate/internal/keepalive"
	"mcgate/internal/packets"
	"mcgate/internal/protocol"
)

// sendPlayEntryBurst writes the six-packet burst spec.md section 4.4's
// "Play entry" step requires, in order: CLogin, CPlayerAbilities,
// CSyncPlayerPosition, CPlayerInfoUpdate, CGameEvent, CCenterChunk. Play
// itself is a stub (no world, no other entities), so every value below is a
// fixed placeholder describing a single player alone in an empty overworld.
func sendPlayEntryBurst(c *client.Client) error {
	entityID := int32(c.SlabID)

	if err := writePacket(c.Encoder, packets.IDCLogin, func(w *protocol.Writer) {
		packets.WriteCLogin(w, packets.CLogin{
			EntityID:            entityID,
			IsHardcore:          false,
			Dimensions:          []string{"minecraft:overworld"},
			MaxPlayers:          0, // unused by vanilla clients, kept 0 like the reference server
			ViewDistance:        10,
			SimulationDistance:  10,
			ReducedDebugInfo:    false,
			EnableRespawnScreen: true,
			DoLimitedCrafting:   false,
			DimensionType:       0,
			DimensionName:       "minecraft:overworld",
			HashedSeed:          0,
			GameMode:            packets.GameModeCreative,
			PreviousGameMode:    -1,
			IsDebug:             false,
			IsFlat:              false,
			PortalCooldown:      0,
			EnforcesSecureChat:  false,
		})
	}); err != nil {
		return err
	}

	if err := writePacket(c.Encoder, packets.IDCPlayerAbilities, func(w *protocol.Writer) {
		packets.WriteCPlayerAbilities(w, packets.CPlayerAbilities{
			Flags:       packets.AbilityAllowFlying,
			FlySpeed:    0.05,
			FOVModifier: 0.1,
		})
	}); err != nil {
		return err
	}

	if err := writePacket(c.Encoder, packets.IDCSyncPlayerPosition, func(w *protocol.Writer) {
		packets.WriteCSyncPlayerPosition(w, packets.CSyncPlayerPosition{
			X: 0, Y: 64, Z: 0,
			Yaw: 0, Pitch: 0,
			Flags:      0,
			TeleportID: 0,
		})
	}); err != nil {
		return err
	}

	if err := writePacket(c.Encoder, packets.IDCPlayerInfoUpdate, func(w *protocol.Writer) {
		packets.WriteCPlayerInfoUpdate(w, packets.CPlayerInfoUpdate{
			Actions: 0x01 | 0x08,
			Entries: nil,
		})
	}); err != nil {
		return err
	}

	if err := writePacket(c.Encoder, packets.IDCGameEvent, func(w *protocol.Writer) {
		packets.WriteCGameEvent(w, packets.CGameEvent{Event: packets.GameEventStartWaitingChunks, Value: 0})
	}); err != nil {
		return err
	}

	return writePacket(c.Encoder, packets.IDCCenterChunk, func(w *protocol.Writer) {
		packets.WriteCCenterChunk(w, packets.CCenterChunk{ChunkX: 0, ChunkZ: 0})
	})
}

// handlePlay implements spec.md section 4.4's Play state. Play is a stub:
// the only packet it truly acts on is SKeepAlive (delegated to
// internal/keepalive); everything else is logged and ignored, never a
// disconnect, since a vanilla client sends plenty of Play packets this
// gateway has no gameplay behind.
func handlePlay(c *client.Client, id int32, r *protocol.Reader) error {
	switch id {
	case packets.IDSKeepAlive:
		return keepalive.HandleSKeepAlive(c, r)
	case packets.IDSPlayerPosition:
		slog.Debug("play packet ignored (stub)", "remote", c.RemoteAddr, "id", id)
		return nil
	default:
		slog.Debug("unrecognized play packet ignored", "remote", c.RemoteAddr, "id", id)
		return nil
	}
}
