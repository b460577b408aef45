package packets

import (
	"github.com/google/uuid"

	"mcgate/internal/protocol"
)

// SLoginStart is the first packet of the Login phase.
type SLoginStart struct {
	Name     string
	UUIDHint uuid.UUID
}

// ReadSLoginStart decodes SLoginStart from r.
func ReadSLoginStart(r *protocol.Reader) (SLoginStart, error) {
	var p SLoginStart
	var err error
	if p.Name, err = r.String(16); err != nil {
		return p, err
	}
	if p.UUIDHint, err = r.UUID(); err != nil {
		return p, err
	}
	return p, nil
}

// CEncryptionRequest asks the client to generate and RSA-encrypt a shared
// secret under the server's public key.
type CEncryptionRequest struct {
	ServerID          string
	PublicKey         []byte
	VerifyToken       []byte
	ShouldAuthenticate bool
}

// WriteCEncryptionRequest encodes p into w.
func WriteCEncryptionRequest(w *protocol.Writer, p CEncryptionRequest) {
	w.String(p.ServerID)
	w.VarInt(int32(len(p.PublicKey)))
	w.RawBytes(p.PublicKey)
	w.VarInt(int32(len(p.VerifyToken)))
	w.RawBytes(p.VerifyToken)
	w.Bool(p.ShouldAuthenticate)
}

// SEncryptionResponse carries the client's RSA-encrypted shared secret and
// verify-token echo.
type SEncryptionResponse struct {
	SharedSecretEnc []byte
	VerifyTokenEnc  []byte
}

// ReadSEncryptionResponse decodes SEncryptionResponse from r.
func ReadSEncryptionResponse(r *protocol.Reader) (SEncryptionResponse, error) {
	var p SEncryptionResponse
	n, err := r.VarInt()
	if err != nil {
		return p, err
	}
	if p.SharedSecretEnc, err = r.Bytes(int(n)); err != nil {
		return p, err
	}
	if n, err = r.VarInt(); err != nil {
		return p, err
	}
	if p.VerifyTokenEnc, err = r.Bytes(int(n)); err != nil {
		return p, err
	}
	return p, nil
}

// Property is a single game-profile property, as carried by CLoginSuccess
// and parsed out of Velocity forwarding payloads.
type Property struct {
	Name      string
	Value     string
	Signature *string
}

func readProperty(r *protocol.Reader) (Property, error) {
	var p Property
	var err error
	if p.Name, err = r.String(protocol.DefaultMaxStringChars); err != nil {
		return p, err
	}
	if p.Value, err = r.String(protocol.DefaultMaxStringChars); err != nil {
		return p, err
	}
	p.Signature, err = protocol.ReadOptional(r, func(r *protocol.Reader) (string, error) {
		return r.String(protocol.DefaultMaxStringChars)
	})
	return p, err
}

func writeProperty(w *protocol.Writer, p Property) {
	w.String(p.Name)
	w.String(p.Value)
	protocol.WriteOptional(w, p.Signature, func(w *protocol.Writer, s string) {
		w.String(s)
	})
}

// CLoginSuccess completes the Login phase's identity exchange.
type CLoginSuccess struct {
	UUID               uuid.UUID
	Username           string
	Properties         []Property
	StrictErrorHandling bool
}

// WriteCLoginSuccess encodes p into w.
func WriteCLoginSuccess(w *protocol.Writer, p CLoginSuccess) {
	w.UUID(p.UUID)
	w.String(p.Username)
	protocol.WriteList(w, p.Properties, writeProperty)
	w.Bool(p.StrictErrorHandling)
}

// CSetCompression negotiates the minimum frame size the encoder/decoder
// compress from this point forward.
type CSetCompression struct {
	Threshold int32
}

// WriteCSetCompression encodes p into w.
func WriteCSetCompression(w *protocol.Writer, p CSetCompression) {
	w.VarInt(p.Threshold)
}

// CLoginDisconnect aborts the Login phase with a JSON chat reason.
type CLoginDisconnect struct {
	ReasonJSON string
}

// WriteCLoginDisconnect encodes p into w.
func WriteCLoginDisconnect(w *protocol.Writer, p CLoginDisconnect) {
	w.String(p.ReasonJSON)
}

// CLoginPluginRequest is used to run the Velocity forwarding exchange over a
// login plugin message.
type CLoginPluginRequest struct {
	MessageID int32
	Channel   string
	Data      []byte
}

// WriteCLoginPluginRequest encodes p into w.
func WriteCLoginPluginRequest(w *protocol.Writer, p CLoginPluginRequest) {
	w.VarInt(p.MessageID)
	w.String(p.Channel)
	w.RawBytes(p.Data)
}

// SLoginPluginResponse is the client's (here: the Velocity proxy's) reply to
// CLoginPluginRequest.
type SLoginPluginResponse struct {
	MessageID int32
	Data      []byte
}

// ReadSLoginPluginResponse decodes SLoginPluginResponse from r.
func ReadSLoginPluginResponse(r *protocol.Reader) (SLoginPluginResponse, error) {
	var p SLoginPluginResponse
	var err error
	if p.MessageID, err = r.VarInt(); err != nil {
		return p, err
	}
	present, err := r.Bool()
	if err != nil {
		return p, err
	}
	if present {
		p.Data = r.RemainingBytes()
	}
	return p, nil
}

// SLoginAcknowledged closes the Login phase; the server responds by sending
// CKnownPacks and transitioning to Config(KnownPacks).
type SLoginAcknowledged struct{}

// ReadSLoginAcknowledged exists for symmetry; the packet body is empty.
func ReadSLoginAcknowledged(_ *protocol.Reader) (SLoginAcknowledged, error) {
	return SLoginAcknowledged{}, nil
}

// VelocityForwardingPayload is the decoded body of a Velocity
// SLoginPluginResponse after signature verification strips the 32-byte HMAC
// prefix.
type VelocityForwardingPayload struct {
	Version    int32
	RemoteAddr string
	UUID       uuid.UUID
	Username   string
	Properties []Property
}

// ReadVelocityForwardingPayload decodes the signed body described in
// spec.md section 6 ("Velocity forwarding").
func ReadVelocityForwardingPayload(r *protocol.Reader) (VelocityForwardingPayload, error) {
	var p VelocityForwardingPayload
	var err error
	if p.Version, err = r.VarInt(); err != nil {
		return p, err
	}
	if p.RemoteAddr, err = r.String(protocol.DefaultMaxStringChars); err != nil {
		return p, err
	}
	if p.UUID, err = r.UUID(); err != nil {
		return p, err
	}
	if p.Username, err = r.String(16); err != nil {
		return p, err
	}
	p.Properties, err = protocol.ReadList(r, readProperty)
	return p, err
}
