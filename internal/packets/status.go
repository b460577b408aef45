package packets

import "mcgate/internal/protocol"

// SStatusRequest carries no fields; the client simply asks for a status
// response.
type SStatusRequest struct{}

// ReadSStatusRequest exists for symmetry with the other Read* functions; the
// packet body is empty.
func ReadSStatusRequest(_ *protocol.Reader) (SStatusRequest, error) {
	return SStatusRequest{}, nil
}

// CStatusResponse carries the server-list-ping JSON document verbatim.
type CStatusResponse struct {
	JSON string
}

// WriteCStatusResponse encodes p into w.
func WriteCStatusResponse(w *protocol.Writer, p CStatusResponse) {
	w.String(p.JSON)
}

// SStatusPingRequest echoes an opaque payload back to the client.
type SStatusPingRequest struct {
	Payload int64
}

// ReadSStatusPingRequest decodes SStatusPingRequest from r.
func ReadSStatusPingRequest(r *protocol.Reader) (SStatusPingRequest, error) {
	v, err := r.I64()
	return SStatusPingRequest{Payload: v}, err
}

// CPingResponse is the echo of SStatusPingRequest's payload.
type CPingResponse struct {
	Payload int64
}

// WriteCPingResponse encodes p into w.
func WriteCPingResponse(w *protocol.Writer, p CPingResponse) {
	w.I64(p.Payload)
}
