// Package state implements the per-client connection state machine: the
// tagged union of {Handshake, Status, Login(sub), Transfer, Config(sub),
// Play} that every handler dispatches on.
package state

import "github.com/google/uuid"

// Phase is the top-level connection phase.
type Phase uint8

const (
	PhaseHandshake Phase = iota
	PhaseStatus
	PhaseLogin
	PhaseTransfer
	PhaseConfig
	PhasePlay
)

func (p Phase) String() string {
	switch p {
	case PhaseHandshake:
		return "handshake"
	case PhaseStatus:
		return "status"
	case PhaseLogin:
		return "login"
	case PhaseTransfer:
		return "transfer"
	case PhaseConfig:
		return "config"
	case PhasePlay:
		return "play"
	default:
		return "unknown"
	}
}

// LoginSub is the Login phase's sub-state.
type LoginSub uint8

const (
	LoginStart LoginSub = iota
	LoginEncryptionResponse
	LoginVelocityResponse
	LoginAck
)

// ConfigSub is the Config phase's sub-state.
type ConfigSub uint8

const (
	ConfigKnownPacks ConfigSub = iota
	ConfigAckFinish
)

// EncryptionResponseData is carried while waiting for SEncryptionResponse.
type EncryptionResponseData struct {
	VerifyToken [4]byte
	UUID        uuid.UUID
	Username    string
}

// VelocityResponseData is carried while waiting for SLoginPluginResponse.
type VelocityResponseData struct {
	MessageID int32
	Username  string
}

// State is the full tagged-union connection state for one client. Only the
// field matching Phase (and, within Login, LoginSub) is meaningful; this
// mirrors the Rust source's enum-with-payload in a language without sum
// types, keeping exactly one State value per client rather than a
// constellation of optional components.
type State struct {
	Phase Phase

	LoginSub    LoginSub
	EncResponse EncryptionResponseData
	VelResponse VelocityResponseData

	ConfigSub ConfigSub
}

// Initial is the state a freshly accepted connection starts in.
func Initial() State {
	return State{Phase: PhaseHandshake}
}
