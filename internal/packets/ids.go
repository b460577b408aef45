// Package packets defines the typed packet payloads exchanged at each
// connection phase and their wire encode/decode functions, built on top of
// internal/protocol's Reader/Writer. Packet IDs below follow Minecraft Java
// Edition's actual numbering for the protocol version this gateway reports
// (CurrentMCProtocol below); they are not renumbered per spec.md, which leaves wire
// IDs to the implementation.
package packets

// Handshake phase.
const (
	IDHandshake = 0x00
)

// NextState values carried in SHandshake.
const (
	NextStatusRequest = 1
	NextLoginRequest  = 2
	NextTransfer      = 3
)

// Status phase.
const (
	IDStatusRequest     = 0x00
	IDStatusResponse    = 0x00
	IDStatusPingRequest = 0x01
	IDPingResponse      = 0x01
)

// Login phase.
const (
	IDLoginDisconnect      = 0x00
	IDLoginStart           = 0x00
	IDEncryptionRequest    = 0x01
	IDEncryptionResponse   = 0x01
	IDLoginSuccess         = 0x02
	IDLoginPluginResponse  = 0x02
	IDSetCompression       = 0x03
	IDLoginAcknowledged    = 0x03
	IDLoginPluginRequest   = 0x04
)

// Config phase.
const (
	IDClientInformationConfig = 0x00
	IDPluginMessageConfig     = 0x02
	IDAcknowledgeFinishConfig = 0x03
	IDFinishConfig            = 0x03
	IDKnownPacksServerbound   = 0x07
	IDRegistryData            = 0x07
	IDKnownPacksClientbound   = 0x0E

	VelocityPlayerInfoChannel = "velocity:player_info"
	MinecraftBrandChannel     = "minecraft:brand"
)

// Play phase (only the handful used by the login-burst and keep-alive).
const (
	IDCLogin              = 0x2B
	IDCPlayerAbilities    = 0x38
	IDCSyncPlayerPosition = 0x41
	IDCPlayerInfoUpdate   = 0x3F
	IDCGameEvent          = 0x22
	IDCCenterChunk        = 0x57
	IDCKeepAlive          = 0x26
	IDSKeepAlive          = 0x1A
	IDSPlayerPosition     = 0x1D
)

// CurrentMCVersion and CurrentMCProtocol are reported in the Status response
// and checked against the client's declared protocol at Handshake.
const (
	CurrentMCVersion  = "1.21.4"
	CurrentMCProtocol = 769
)

// VelocityMinSupportedVersion is the oldest Velocity forwarding payload
// version this gateway accepts.
const VelocityMinSupportedVersion = 1

// VelocityModernForwardingWithKeyV2 is the version at or above which
// Velocity's key-signed forwarding variant applies. Parsed and logged, never
// acted on — see Open Question (a) in spec.md section 9.
const VelocityModernForwardingWithKeyV2 = 3
