package protocol

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"

	mccrypto "mcgate/internal/crypto"
)

// maxFrameLength is the recommended soft cap on a single frame's length: a
// 3-byte VarInt can address up to 2^21-1 bytes, which is the largest length
// the wire format is meant to carry.
const maxFrameLength = 1<<21 - 1

// Decoder streams inbound bytes through decryption, length framing,
// decompression, and packet-ID extraction. Bytes handed to QueueSlice are
// decrypted immediately (CFB8 is byte-streaming and must track every byte
// that crosses the wire, whether or not a full frame has arrived yet);
// everything else happens lazily in Decode.
type Decoder struct {
	in          []byte
	compression *CompressionInfo
	cipher      *mccrypto.CFB8
}

// NewDecoder returns a decoder with no compression or encryption configured.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// SetCompression installs the negotiated compression threshold. info == nil
// disables compression. Per the state-machine invariant, callers must not
// lower an already-set threshold; the decoder itself does not enforce that —
// the login handler does, since only it knows the negotiated order of
// events.
func (d *Decoder) SetCompression(info *CompressionInfo) {
	d.compression = info
}

// SetEncryption installs AES-128/CFB8 with key used as both key and IV. Must
// be called at most once per connection.
func (d *Decoder) SetEncryption(key [mccrypto.KeySize]byte) error {
	c, err := mccrypto.NewCFB8(key)
	if err != nil {
		return fmt.Errorf("installing decoder cipher: %w", err)
	}
	d.cipher = c
	return nil
}

// QueueSlice decrypts (if a cipher is installed) and appends bytes to the
// input buffer. Decryption happens in place on a private copy so the caller's
// slice is left untouched.
func (d *Decoder) QueueSlice(bytes []byte) {
	chunk := append([]byte(nil), bytes...)
	if d.cipher != nil {
		d.cipher.Decrypt(chunk)
	}
	d.in = append(d.in, chunk...)
}

// Decode attempts to extract one RawPacket from the front of the input
// buffer. It returns (nil, nil) when more bytes are needed — this is the
// normal "wait for the rest of the frame" case, not an error — and a
// *Error when the input is structurally invalid.
func (d *Decoder) Decode() (*RawPacket, error) {
	totalLen, prefixLen, err := DecodeVarInt(d.in)
	if err != nil {
		if err == errInsufficientBytes {
			return nil, nil
		}
		return nil, err
	}
	if totalLen < 0 || totalLen > maxFrameLength {
		return nil, newErr(KindFrameTooLarge, fmt.Sprintf("frame length %d exceeds cap", totalLen))
	}

	need := prefixLen + int(totalLen)
	if len(d.in) < need {
		return nil, nil
	}

	frame := d.in[prefixLen:need]
	d.in = d.in[need:]

	return d.decodeFrame(frame)
}

func (d *Decoder) decodeFrame(frame []byte) (*RawPacket, error) {
	if d.compression == nil {
		return d.decodeUncompressed(frame)
	}

	r := NewReader(frame)
	dataLen, err := r.VarInt()
	if err != nil {
		return nil, wrapErr(KindBadCompression, "reading data_length", err)
	}

	if dataLen == 0 {
		return d.decodeUncompressed(r.Remaining())
	}
	if dataLen < int32(d.compression.Threshold) {
		return nil, newErr(KindBadCompression,
			fmt.Sprintf("data_length %d below negotiated threshold %d", dataLen, d.compression.Threshold))
	}

	inflated, err := inflate(r.Remaining())
	if err != nil {
		return nil, wrapErr(KindBadCompression, "zlib inflate", err)
	}
	if int32(len(inflated)) != dataLen {
		return nil, newErr(KindBadCompression,
			fmt.Sprintf("inflated length %d != declared data_length %d", len(inflated), dataLen))
	}

	return d.decodeUncompressed(inflated)
}

func (d *Decoder) decodeUncompressed(payload []byte) (*RawPacket, error) {
	r := NewReader(payload)
	id, err := r.VarInt()
	if err != nil {
		return nil, wrapErr(KindTruncated, "reading packet id", err)
	}
	return &RawPacket{ID: id, Payload: r.RemainingBytes()}, nil
}

func inflate(compressed []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}
