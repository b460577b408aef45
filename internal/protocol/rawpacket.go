package protocol

// RawPacket is a decoded frame: a packet ID and its undecoded payload. Payload
// consumption is destructive — callers read it through a Reader once and
// discard it; a failed partial read invalidates the packet rather than
// leaving it re-readable.
type RawPacket struct {
	ID      int32
	Payload []byte
}

// Reader returns a Reader over the packet payload and detaches the payload
// from p, so the packet cannot be read a second time.
func (p *RawPacket) Reader() *Reader {
	r := NewReader(p.Payload)
	p.Payload = nil
	return r
}
