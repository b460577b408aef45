package protocol

import "testing"

func TestVarIntRoundTrip(t *testing.T) {
	cases := []int32{0, 1, -1, 127, 128, 255, 2097151, -2147483648, 2147483647, 25565}
	for _, v := range cases {
		enc := EncodeVarInt(nil, v)
		if len(enc) < 1 || len(enc) > 5 {
			t.Fatalf("encode(%d) has length %d, want 1-5", v, len(enc))
		}
		if len(enc) != SizeVarInt(v) {
			t.Fatalf("SizeVarInt(%d) = %d, encode produced %d bytes", v, SizeVarInt(v), len(enc))
		}
		got, n, err := DecodeVarInt(enc)
		if err != nil {
			t.Fatalf("decode(%v): %v", enc, err)
		}
		if n != len(enc) {
			t.Fatalf("decode(%v) consumed %d bytes, want %d", enc, n, len(enc))
		}
		if got != v {
			t.Fatalf("round trip %d -> %v -> %d", v, enc, got)
		}
	}
}

func TestVarIntTruncatedWaitsForMoreBytes(t *testing.T) {
	enc := EncodeVarInt(nil, 2097151) // multi-byte encoding
	_, _, err := DecodeVarInt(enc[:1])
	if err != errInsufficientBytes {
		t.Fatalf("want errInsufficientBytes, got %v", err)
	}
}

func TestVarIntTooBig(t *testing.T) {
	// Five bytes, all with continuation bit set: never terminates.
	malformed := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	_, _, err := DecodeVarInt(malformed)
	perr, ok := err.(*Error)
	if !ok || perr.Kind != KindVarIntTooBig {
		t.Fatalf("want KindVarIntTooBig, got %v", err)
	}
}

func TestVarLongRoundTrip(t *testing.T) {
	cases := []int64{0, 1, -1, 1 << 40, -(1 << 40), 9223372036854775807, -9223372036854775808}
	for _, v := range cases {
		enc := EncodeVarLong(nil, v)
		got, n, err := DecodeVarLong(enc)
		if err != nil {
			t.Fatalf("decode(%v): %v", enc, err)
		}
		if n != len(enc) || got != v {
			t.Fatalf("round trip %d -> %v -> %d (n=%d)", v, enc, got, n)
		}
	}
}
