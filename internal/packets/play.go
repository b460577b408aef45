package packets

import "mcgate/internal/protocol"

// GameMode mirrors the vanilla gamemode byte values CLogin/CPlayerInfoUpdate
// carry; only Creative is ever sent by this gateway (Play is a stub).
type GameMode int8

const (
	GameModeSurvival GameMode = iota
	GameModeCreative
	GameModeAdventure
	GameModeSpectator
)

// CLogin is the first packet sent on entering Play. spec.md 4.4 "Play entry"
// lists it first in the six-packet burst.
type CLogin struct {
	EntityID             int32
	IsHardcore           bool
	Dimensions           []string
	MaxPlayers           int32
	ViewDistance         int32
	SimulationDistance   int32
	ReducedDebugInfo     bool
	EnableRespawnScreen  bool
	DoLimitedCrafting    bool
	DimensionType        int32
	DimensionName        string
	HashedSeed           int64
	GameMode             GameMode
	PreviousGameMode     int8
	IsDebug              bool
	IsFlat               bool
	PortalCooldown       int32
	EnforcesSecureChat   bool
}

// WriteCLogin encodes p into w.
func WriteCLogin(w *protocol.Writer, p CLogin) {
	w.I32(p.EntityID)
	w.Bool(p.IsHardcore)
	protocol.WriteList(w, p.Dimensions, func(w *protocol.Writer, s string) { w.String(s) })
	w.VarInt(p.MaxPlayers)
	w.VarInt(p.ViewDistance)
	w.VarInt(p.SimulationDistance)
	w.Bool(p.ReducedDebugInfo)
	w.Bool(p.EnableRespawnScreen)
	w.Bool(p.DoLimitedCrafting)
	w.VarInt(p.DimensionType)
	w.String(p.DimensionName)
	w.I64(p.HashedSeed)
	w.I8(int8(p.GameMode))
	w.I8(p.PreviousGameMode)
	w.Bool(p.IsDebug)
	w.Bool(p.IsFlat)
	w.Bool(false) // has death location
	w.VarInt(p.PortalCooldown)
	w.Bool(p.EnforcesSecureChat)
}

// AbilityFlags bits for CPlayerAbilities.Flags.
const (
	AbilityInvulnerable = 0x01
	AbilityFlying       = 0x02
	AbilityAllowFlying  = 0x04
	AbilityCreativeMode = 0x08
)

// CPlayerAbilities sets the client's flight/invulnerability flags and HUD
// speed values.
type CPlayerAbilities struct {
	Flags      uint8
	FlySpeed   float32
	FOVModifier float32
}

// WriteCPlayerAbilities encodes p into w.
func WriteCPlayerAbilities(w *protocol.Writer, p CPlayerAbilities) {
	w.U8(p.Flags)
	w.F32(p.FlySpeed)
	w.F32(p.FOVModifier)
}

// CSyncPlayerPosition teleports the player to an absolute position and
// requests a teleport-confirm from the client.
type CSyncPlayerPosition struct {
	X, Y, Z       float64
	Yaw, Pitch    float32
	Flags         int8
	TeleportID    int32
}

// WriteCSyncPlayerPosition encodes p into w.
func WriteCSyncPlayerPosition(w *protocol.Writer, p CSyncPlayerPosition) {
	w.F64(p.X)
	w.F64(p.Y)
	w.F64(p.Z)
	w.F32(p.Yaw)
	w.F32(p.Pitch)
	w.I8(p.Flags)
	w.VarInt(p.TeleportID)
}

// PlayerInfoEntry is one player-info-update entry; always empty for this
// gateway (no other players are ever introduced — Play is a stub).
type PlayerInfoEntry struct {
	UUID [16]byte
}

// CPlayerInfoUpdate adds/updates tab-list entries. Actions is a bitmask
// (spec.md: 0x01 add-player | 0x08 update-listed).
type CPlayerInfoUpdate struct {
	Actions uint8
	Entries []PlayerInfoEntry
}

// WriteCPlayerInfoUpdate encodes p into w.
func WriteCPlayerInfoUpdate(w *protocol.Writer, p CPlayerInfoUpdate) {
	w.U8(p.Actions)
	protocol.WriteList(w, p.Entries, func(w *protocol.Writer, e PlayerInfoEntry) {
		w.RawBytes(e.UUID[:])
	})
}

// GameEvent values CGameEvent carries; only StartWaitingChunks is used here.
const (
	GameEventStartWaitingChunks = 13
)

// CGameEvent triggers a client-side world event; spec.md's login burst uses
// StartWaitingChunks with value 0.0 to tell the client chunk loading has
// begun.
type CGameEvent struct {
	Event int32
	Value float32
}

// WriteCGameEvent encodes p into w.
func WriteCGameEvent(w *protocol.Writer, p CGameEvent) {
	w.U8(uint8(p.Event))
	w.F32(p.Value)
}

// CCenterChunk tells the client which chunk column is the render-distance
// origin.
type CCenterChunk struct {
	ChunkX, ChunkZ int32
}

// WriteCCenterChunk encodes p into w.
func WriteCCenterChunk(w *protocol.Writer, p CCenterChunk) {
	w.VarInt(p.ChunkX)
	w.VarInt(p.ChunkZ)
}

// CKeepAlive is sent periodically; the client must echo the id back via
// SKeepAlive within the configured period.
type CKeepAlive struct {
	ID int64
}

// WriteCKeepAlive encodes p into w.
func WriteCKeepAlive(w *protocol.Writer, p CKeepAlive) {
	w.I64(p.ID)
}

// SKeepAlive is the client's keep-alive echo.
type SKeepAlive struct {
	ID int64
}

// ReadSKeepAlive decodes SKeepAlive from r.
func ReadSKeepAlive(r *protocol.Reader) (SKeepAlive, error) {
	v, err := r.I64()
	return SKeepAlive{ID: v}, err
}
