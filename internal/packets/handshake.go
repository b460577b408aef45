package packets

import "mcgate/internal/protocol"

// SHandshake is the only packet accepted in the Handshake phase.
type SHandshake struct {
	ProtocolVersion int32
	ServerAddress   string
	ServerPort      uint16
	NextState       int32
}

// ReadSHandshake decodes SHandshake from r.
func ReadSHandshake(r *protocol.Reader) (SHandshake, error) {
	var p SHandshake
	var err error
	if p.ProtocolVersion, err = r.VarInt(); err != nil {
		return p, err
	}
	if p.ServerAddress, err = r.String(255); err != nil {
		return p, err
	}
	if p.ServerPort, err = r.U16(); err != nil {
		return p, err
	}
	if p.NextState, err = r.VarInt(); err != nil {
		return p, err
	}
	return p, nil
}
