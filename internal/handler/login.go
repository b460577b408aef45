package handler

import (
	"context"
	"crypto/md5"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/google/uuid"

	"mcgate/internal/client"
	"mcgate/internal/crypto"
	"mcgate/internal/packets"
	"mcgate/internal/protocol"
	"mcgate/internal/server"
	"mcgate/internal/state"
)

// compressionThreshold is the fixed threshold negotiated right after
// encryption setup, per spec.md section 4.4's Login EncryptionResponse and
// VelocityResponse steps.
const compressionThreshold = 256
const compressionLevel = 6

// handleLogin implements spec.md section 4.4's Login state, dispatching on
// the sub-state carried in c.State.LoginSub.
func handleLogin(ctx context.Context, res *server.Resources, c *client.Client, id int32, r *protocol.Reader, now time.Time) error {
	switch c.State.LoginSub {
	case state.LoginStart:
		return handleLoginStart(res, c, id, r)
	case state.LoginEncryptionResponse:
		return handleEncryptionResponse(res, c, id, r)
	case state.LoginVelocityResponse:
		return handleVelocityResponse(res, c, id, r)
	case state.LoginAck:
		return handleLoginAcknowledged(c, id, r)
	default:
		return disconnectf("unreachable login sub-state %v", c.State.LoginSub)
	}
}

func handleLoginStart(res *server.Resources, c *client.Client, id int32, r *protocol.Reader) error {
	if id != packets.IDLoginStart {
		return disconnectf("unexpected packet id 0x%02x in login_start", id)
	}
	p, err := packets.ReadSLoginStart(r)
	if err != nil {
		return disconnectf("decoding login start: %v", err)
	}

	switch res.Mode.Kind {
	case server.ConnectionVelocity:
		return loginVelocity(c, p.Name)
	default:
		return loginOffline(res, c, p.Name)
	}
}

func loginOffline(res *server.Resources, c *client.Client, username string) error {
	verifyToken := make([]byte, 4)
	if _, err := rand.Read(verifyToken); err != nil {
		return fmt.Errorf("generating verify token: %w", err)
	}

	err := writePacket(c.Encoder, packets.IDEncryptionRequest, func(w *protocol.Writer) {
		packets.WriteCEncryptionRequest(w, packets.CEncryptionRequest{
			ServerID:           "",
			PublicKey:          res.KeyPair.PublicDER,
			VerifyToken:        verifyToken,
			ShouldAuthenticate: false,
		})
	})
	if err != nil {
		return err
	}

	sum := md5.Sum([]byte(username))
	offlineUUID, _ := uuid.FromBytes(sum[:16])

	var vt [4]byte
	copy(vt[:], verifyToken)

	c.State.LoginSub = state.LoginEncryptionResponse
	c.State.EncResponse = state.EncryptionResponseData{
		VerifyToken: vt,
		UUID:        offlineUUID,
		Username:    username,
	}
	return nil
}

func loginVelocity(c *client.Client, username string) error {
	err := writePacket(c.Encoder, packets.IDLoginPluginRequest, func(w *protocol.Writer) {
		packets.WriteCLoginPluginRequest(w, packets.CLoginPluginRequest{
			MessageID: 0,
			Channel:   packets.VelocityPlayerInfoChannel,
			Data:      []byte{packets.VelocityMinSupportedVersion},
		})
	})
	if err != nil {
		return err
	}

	c.State.LoginSub = state.LoginVelocityResponse
	c.State.VelResponse = state.VelocityResponseData{MessageID: 0, Username: username}
	return nil
}

func handleEncryptionResponse(res *server.Resources, c *client.Client, id int32, r *protocol.Reader) error {
	if id != packets.IDEncryptionResponse {
		return disconnectf("unexpected packet id 0x%02x in encryption_response", id)
	}
	p, err := packets.ReadSEncryptionResponse(r)
	if err != nil {
		return disconnectf("decoding encryption response: %v", err)
	}

	sharedSecret, err := res.KeyPair.Decrypt(p.SharedSecretEnc)
	if err != nil {
		return disconnectf("rsa decrypt shared secret: %v", err)
	}
	clientToken, err := res.KeyPair.Decrypt(p.VerifyTokenEnc)
	if err != nil {
		return disconnectf("rsa decrypt verify token: %v", err)
	}

	expected := c.State.EncResponse.VerifyToken
	if subtle.ConstantTimeCompare(clientToken, expected[:]) != 1 {
		return disconnectf("invalid verify token")
	}
	if len(sharedSecret) != crypto.KeySize {
		return disconnectf("shared secret must be %d bytes, got %d", crypto.KeySize, len(sharedSecret))
	}

	var key [crypto.KeySize]byte
	copy(key[:], sharedSecret)

	if err := c.Encoder.SetEncryption(key); err != nil {
		return fmt.Errorf("installing encoder cipher: %w", err)
	}
	if err := c.Decoder.SetEncryption(key); err != nil {
		return fmt.Errorf("installing decoder cipher: %w", err)
	}

	if err := setupCompression(c); err != nil {
		return err
	}

	c.UUID = c.State.EncResponse.UUID
	c.HasUUID = true
	c.Username = c.State.EncResponse.Username

	if err := writeLoginSuccess(c); err != nil {
		return err
	}

	c.State.LoginSub = state.LoginAck
	return nil
}

func handleVelocityResponse(res *server.Resources, c *client.Client, id int32, r *protocol.Reader) error {
	if id != packets.IDLoginPluginResponse {
		return disconnectf("unexpected packet id 0x%02x in velocity_response", id)
	}
	p, err := packets.ReadSLoginPluginResponse(r)
	if err != nil {
		return disconnectf("decoding login plugin response: %v", err)
	}
	if p.MessageID != c.State.VelResponse.MessageID {
		return disconnectf("mismatched plugin response id (got %d, want %d)", p.MessageID, c.State.VelResponse.MessageID)
	}
	if len(p.Data) < crypto.SignatureSize {
		return disconnectf("velocity response data too short (%d bytes)", len(p.Data))
	}

	signature := p.Data[:crypto.SignatureSize]
	payload := p.Data[crypto.SignatureSize:]

	if !crypto.VerifyVelocity(res.Mode.VelocitySecret, signature, payload) {
		return disconnectf("velocity signature verification failed")
	}

	fwd, err := packets.ReadVelocityForwardingPayload(protocol.NewReader(payload))
	if err != nil {
		return disconnectf("decoding velocity forwarding payload: %v", err)
	}
	if fwd.Username != c.State.VelResponse.Username {
		return disconnectf("mismatched username (got %q, want %q)", fwd.Username, c.State.VelResponse.Username)
	}
	if fwd.Version >= packets.VelocityModernForwardingWithKeyV2 {
		// spec.md Open Question (a): key-based forwarding is a recognized
		// marker, not yet implemented.
		slog.Debug("velocity key-based forwarding requested but unimplemented", "version", fwd.Version)
	}

	ip := net.ParseIP(fwd.RemoteAddr)
	if ip == nil {
		return disconnectf("invalid velocity remote address %q", fwd.RemoteAddr)
	}

	c.UUID = fwd.UUID
	c.HasUUID = true
	c.Username = fwd.Username
	c.RemoteAddr = ip

	if err := setupCompression(c); err != nil {
		return err
	}
	if err := writeLoginSuccess(c); err != nil {
		return err
	}

	c.State.LoginSub = state.LoginAck
	return nil
}

func setupCompression(c *client.Client) error {
	if err := writePacket(c.Encoder, packets.IDSetCompression, func(w *protocol.Writer) {
		packets.WriteCSetCompression(w, packets.CSetCompression{Threshold: compressionThreshold})
	}); err != nil {
		return err
	}
	c.Encoder.SetCompression(&protocol.CompressionInfo{Threshold: compressionThreshold, Level: compressionLevel})
	c.Decoder.SetCompression(&protocol.CompressionInfo{Threshold: compressionThreshold})
	return nil
}

func writeLoginSuccess(c *client.Client) error {
	return writePacket(c.Encoder, packets.IDLoginSuccess, func(w *protocol.Writer) {
		packets.WriteCLoginSuccess(w, packets.CLoginSuccess{
			UUID:                c.UUID,
			Username:            c.Username,
			Properties:          nil,
			StrictErrorHandling: true,
		})
	})
}

func handleLoginAcknowledged(c *client.Client, id int32, r *protocol.Reader) error {
	if id != packets.IDLoginAcknowledged {
		return disconnectf("unexpected packet id 0x%02x in login_ack", id)
	}
	if _, err := packets.ReadSLoginAcknowledged(r); err != nil {
		return disconnectf("decoding login acknowledged: %v", err)
	}

	err := writePacket(c.Encoder, packets.IDKnownPacksClientbound, func(w *protocol.Writer) {
		packets.WriteCKnownPacks(w, packets.CKnownPacks{
			Packs: []packets.KnownPack{{Namespace: "minecraft:core", ID: "core", Version: "1.21"}},
		})
	})
	if err != nil {
		return err
	}

	c.State = state.State{Phase: state.PhaseConfig, ConfigSub: state.ConfigKnownPacks}
	return nil
}
