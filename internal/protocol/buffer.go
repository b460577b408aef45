package protocol

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/google/uuid"
)

// DefaultMaxStringChars is the bound String reads apply when the caller
// doesn't impose a tighter one.
const DefaultMaxStringChars = 32767

// Reader consumes a byte slice front-to-back. Every method is fallible and
// never panics on short input; callers get errInsufficientBytes (input ended
// early) or a *Error (malformed) and must stop consuming on the first
// error, since the reader's position is only valid on the success path.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf for sequential reads starting at offset 0.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int { return len(r.buf) - r.pos }

// Remaining returns the unread tail of the buffer without consuming it.
func (r *Reader) Remaining() []byte { return r.buf[r.pos:] }

func (r *Reader) need(n int) error {
	if r.Len() < n {
		return errInsufficientBytes
	}
	return nil
}

// VarInt reads a VarInt at the current position.
func (r *Reader) VarInt() (int32, error) {
	v, n, err := DecodeVarInt(r.buf[r.pos:])
	if err != nil {
		return 0, err
	}
	r.pos += n
	return v, nil
}

// VarLong reads a VarLong at the current position.
func (r *Reader) VarLong() (int64, error) {
	v, n, err := DecodeVarLong(r.buf[r.pos:])
	if err != nil {
		return 0, err
	}
	r.pos += n
	return v, nil
}

// String reads a VarInt-length-prefixed UTF-8 string, bounded to maxChars
// decoded characters (use DefaultMaxStringChars when the protocol doesn't
// specify a tighter bound).
func (r *Reader) String(maxChars int) (string, error) {
	n, err := r.VarInt()
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", newErr(KindBadPacket, "negative string length")
	}
	if err := r.need(int(n)); err != nil {
		return "", err
	}
	raw := r.buf[r.pos : r.pos+int(n)]
	if !utf8.Valid(raw) {
		return "", newErr(KindBadPacket, "invalid utf-8 in string")
	}
	if utf8.RuneCount(raw) > maxChars {
		return "", newErr(KindBadPacket, fmt.Sprintf("string exceeds %d characters", maxChars))
	}
	r.pos += int(n)
	return string(raw), nil
}

// Bytes reads n raw bytes.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, newErr(KindBadPacket, "negative byte count")
	}
	if err := r.need(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

// RemainingBytes reads every unread byte as a single ByteArray, as used for
// packet payload trailers that have no explicit length prefix.
func (r *Reader) RemainingBytes() []byte {
	out := make([]byte, r.Len())
	copy(out, r.buf[r.pos:])
	r.pos = len(r.buf)
	return out
}

// UUID reads 16 big-endian bytes as a UUID.
func (r *Reader) UUID() (uuid.UUID, error) {
	b, err := r.Bytes(16)
	if err != nil {
		return uuid.UUID{}, err
	}
	var u uuid.UUID
	copy(u[:], b)
	return u, nil
}

// FixedBitSet reads ceil(bits/8) bytes verbatim.
func (r *Reader) FixedBitSet(bits int) ([]byte, error) {
	return r.Bytes((bits + 7) / 8)
}

// Bool reads a single boolean byte.
func (r *Reader) Bool() (bool, error) {
	b, err := r.Bytes(1)
	if err != nil {
		return false, err
	}
	return b[0] != 0, nil
}

func (r *Reader) U8() (uint8, error) {
	b, err := r.Bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) I8() (int8, error) {
	b, err := r.U8()
	return int8(b), err
}

func (r *Reader) U16() (uint16, error) {
	b, err := r.Bytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *Reader) I16() (int16, error) {
	v, err := r.U16()
	return int16(v), err
}

func (r *Reader) U32() (uint32, error) {
	b, err := r.Bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *Reader) I32() (int32, error) {
	v, err := r.U32()
	return int32(v), err
}

func (r *Reader) U64() (uint64, error) {
	b, err := r.Bytes(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (r *Reader) I64() (int64, error) {
	v, err := r.U64()
	return int64(v), err
}

func (r *Reader) F32() (float32, error) {
	v, err := r.U32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (r *Reader) F64() (float64, error) {
	v, err := r.U64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// Writer accumulates an outbound byte buffer.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// Bytes returns the accumulated buffer.
func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) VarInt(v int32) { w.buf = EncodeVarInt(w.buf, v) }
func (w *Writer) VarLong(v int64) { w.buf = EncodeVarLong(w.buf, v) }

// String writes a VarInt length prefix followed by the UTF-8 bytes.
func (w *Writer) String(s string) {
	w.VarInt(int32(len(s)))
	w.buf = append(w.buf, s...)
}

// RawBytes appends b verbatim, with no length prefix.
func (w *Writer) RawBytes(b []byte) { w.buf = append(w.buf, b...) }

// UUID writes 16 big-endian bytes.
func (w *Writer) UUID(u uuid.UUID) { w.buf = append(w.buf, u[:]...) }

func (w *Writer) Bool(v bool) {
	if v {
		w.buf = append(w.buf, 1)
	} else {
		w.buf = append(w.buf, 0)
	}
}

func (w *Writer) U8(v uint8)   { w.buf = append(w.buf, v) }
func (w *Writer) I8(v int8)    { w.U8(uint8(v)) }

func (w *Writer) U16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}
func (w *Writer) I16(v int16) { w.U16(uint16(v)) }

func (w *Writer) U32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}
func (w *Writer) I32(v int32) { w.U32(uint32(v)) }

func (w *Writer) U64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}
func (w *Writer) I64(v int64) { w.U64(uint64(v)) }

func (w *Writer) F32(v float32) { w.U32(math.Float32bits(v)) }
func (w *Writer) F64(v float64) { w.U64(math.Float64bits(v)) }
