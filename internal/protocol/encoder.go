package protocol

import (
	"bytes"
	"compress/zlib"
	"fmt"

	mccrypto "mcgate/internal/crypto"
)

// CompressionInfo configures the encoder's compression behavior once a
// threshold has been negotiated during login.
type CompressionInfo struct {
	Threshold int
	Level     int
}

// Encoder serializes typed outbound packets into the pending write buffer:
// compress (if configured) then encrypt (if configured) then append. Both
// steps are optional and are enabled at most once per connection; the login
// handshake enables encryption first and compression second.
type Encoder struct {
	pending     []byte
	compression *CompressionInfo
	cipher      *mccrypto.CFB8
}

// NewEncoder returns an encoder with no compression or encryption configured.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// SetCompression enables or disables compression. info == nil disables it.
// Per the state-machine invariant, callers must not lower an already-set
// threshold; the encoder itself does not enforce that — the login handler
// does, since only it knows the negotiated order of events.
func (e *Encoder) SetCompression(info *CompressionInfo) {
	e.compression = info
}

// SetEncryption installs AES-128/CFB8 with key used as both key and IV. Must
// be called at most once per connection.
func (e *Encoder) SetEncryption(key [mccrypto.KeySize]byte) error {
	c, err := mccrypto.NewCFB8(key)
	if err != nil {
		return fmt.Errorf("installing encoder cipher: %w", err)
	}
	e.cipher = c
	return nil
}

// AppendPacket serializes id and body into a single framed, optionally
// compressed and encrypted, packet and appends it to the pending buffer.
func AppendPacket(e *Encoder, id int32, body []byte) error {
	inner := NewWriter()
	inner.VarInt(id)
	inner.RawBytes(body)
	innerBytes := inner.Bytes()

	var frame []byte
	if e.compression != nil {
		frame = e.compressFrame(innerBytes)
	} else {
		frame = innerBytes
	}

	out := NewWriter()
	out.VarInt(int32(len(frame)))
	out.RawBytes(frame)
	data := out.Bytes()

	if e.cipher != nil {
		e.cipher.Encrypt(data)
	}

	e.pending = append(e.pending, data...)
	return nil
}

func (e *Encoder) compressFrame(uncompressed []byte) []byte {
	w := NewWriter()
	if len(uncompressed) < e.compression.Threshold {
		w.VarInt(0)
		w.RawBytes(uncompressed)
		return w.Bytes()
	}

	var buf bytes.Buffer
	zw, _ := zlib.NewWriterLevel(&buf, e.compression.Level)
	_, _ = zw.Write(uncompressed)
	_ = zw.Close()

	w.VarInt(int32(len(uncompressed)))
	w.RawBytes(buf.Bytes())
	return w.Bytes()
}

// Take removes and returns all pending output bytes.
func (e *Encoder) Take() []byte {
	out := e.pending
	e.pending = nil
	return out
}
