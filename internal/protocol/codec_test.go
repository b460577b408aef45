package protocol

import (
	"bytes"
	"testing"

	mccrypto "mcgate/internal/crypto"
)

func TestEncodeDecodeFrameUncompressedUnencrypted(t *testing.T) {
	enc := NewEncoder()
	dec := NewDecoder()

	if err := AppendPacket(enc, 0x01, []byte("hello")); err != nil {
		t.Fatalf("AppendPacket: %v", err)
	}

	dec.QueueSlice(enc.Take())

	pkt, err := dec.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if pkt == nil {
		t.Fatal("Decode returned nil, want a packet")
	}
	if pkt.ID != 0x01 || !bytes.Equal(pkt.Payload, []byte("hello")) {
		t.Fatalf("got id=%d payload=%q", pkt.ID, pkt.Payload)
	}

	if pkt2, err := dec.Decode(); err != nil || pkt2 != nil {
		t.Fatalf("expected no further packets, got %v, %v", pkt2, err)
	}
}

func TestEncodeDecodeWaitsForPartialFrame(t *testing.T) {
	enc := NewEncoder()
	dec := NewDecoder()

	if err := AppendPacket(enc, 0x02, bytes.Repeat([]byte{0x42}, 50)); err != nil {
		t.Fatalf("AppendPacket: %v", err)
	}
	full := enc.Take()

	dec.QueueSlice(full[:len(full)-1])
	pkt, err := dec.Decode()
	if err != nil || pkt != nil {
		t.Fatalf("expected (nil, nil) on partial frame, got %v, %v", pkt, err)
	}

	dec.QueueSlice(full[len(full)-1:])
	pkt, err = dec.Decode()
	if err != nil {
		t.Fatalf("Decode after completing frame: %v", err)
	}
	if pkt == nil || pkt.ID != 0x02 {
		t.Fatalf("got %v", pkt)
	}
}

func TestCompressionBelowThresholdUsesZeroSentinel(t *testing.T) {
	enc := NewEncoder()
	enc.SetCompression(&CompressionInfo{Threshold: 256, Level: 6})
	dec := NewDecoder()
	dec.SetCompression(&CompressionInfo{Threshold: 256})

	small := bytes.Repeat([]byte{0x01}, 10)
	if err := AppendPacket(enc, 0x03, small); err != nil {
		t.Fatalf("AppendPacket: %v", err)
	}
	dec.QueueSlice(enc.Take())

	pkt, err := dec.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if pkt == nil || pkt.ID != 0x03 || !bytes.Equal(pkt.Payload, small) {
		t.Fatalf("got %v", pkt)
	}
}

func TestCompressionAboveThresholdCompresses(t *testing.T) {
	enc := NewEncoder()
	enc.SetCompression(&CompressionInfo{Threshold: 64, Level: 6})
	dec := NewDecoder()
	dec.SetCompression(&CompressionInfo{Threshold: 64})

	big := bytes.Repeat([]byte{0x07}, 500)
	if err := AppendPacket(enc, 0x04, big); err != nil {
		t.Fatalf("AppendPacket: %v", err)
	}
	dec.QueueSlice(enc.Take())

	pkt, err := dec.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if pkt == nil || pkt.ID != 0x04 || !bytes.Equal(pkt.Payload, big) {
		t.Fatalf("round trip failed, len(payload)=%d", len(pkt.Payload))
	}
}

func TestCompressionRejectsDataLengthBelowThreshold(t *testing.T) {
	dec := NewDecoder()
	dec.SetCompression(&CompressionInfo{Threshold: 256})

	inner := NewWriter()
	inner.VarInt(255) // below the 256-byte threshold but nonzero
	inner.RawBytes(bytes.Repeat([]byte{0x00}, 10))
	innerBytes := inner.Bytes()

	frame := NewWriter()
	frame.VarInt(int32(len(innerBytes)))
	frame.RawBytes(innerBytes)
	dec.QueueSlice(frame.Bytes())

	_, err := dec.Decode()
	perr, ok := err.(*Error)
	if !ok || perr.Kind != KindBadCompression {
		t.Fatalf("want KindBadCompression, got %v", err)
	}
}

func TestEncryptionSurvivesMultipleFrames(t *testing.T) {
	var key [mccrypto.KeySize]byte
	for i := range key {
		key[i] = byte(i + 1)
	}

	enc := NewEncoder()
	if err := enc.SetEncryption(key); err != nil {
		t.Fatalf("SetEncryption: %v", err)
	}
	dec := NewDecoder()
	if err := dec.SetEncryption(key); err != nil {
		t.Fatalf("SetEncryption: %v", err)
	}

	payloads := [][]byte{[]byte("first"), []byte("second, a bit longer"), []byte("3")}
	for i, p := range payloads {
		if err := AppendPacket(enc, int32(i), p); err != nil {
			t.Fatalf("AppendPacket: %v", err)
		}
	}
	dec.QueueSlice(enc.Take())

	for i, want := range payloads {
		pkt, err := dec.Decode()
		if err != nil {
			t.Fatalf("Decode frame %d: %v", i, err)
		}
		if pkt == nil {
			t.Fatalf("Decode frame %d: got nil", i)
		}
		if pkt.ID != int32(i) || !bytes.Equal(pkt.Payload, want) {
			t.Fatalf("frame %d: got id=%d payload=%q, want id=%d payload=%q", i, pkt.ID, pkt.Payload, i, want)
		}
	}
}

func TestFrameTooLarge(t *testing.T) {
	dec := NewDecoder()
	w := NewWriter()
	w.VarInt(1 << 22)
	dec.QueueSlice(w.Bytes())

	_, err := dec.Decode()
	perr, ok := err.(*Error)
	if !ok || perr.Kind != KindFrameTooLarge {
		t.Fatalf("want KindFrameTooLarge, got %v", err)
	}
}
