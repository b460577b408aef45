package handler

import (
	"context"
	"testing"
	"time"

	"mcgate/internal/audit"
	"mcgate/internal/client"
	"mcgate/internal/config"
	"mcgate/internal/packets"
	"mcgate/internal/protocol"
	"mcgate/internal/registry"
	"mcgate/internal/server"
	"mcgate/internal/state"
)

func newTestResources(t *testing.T) *server.Resources {
	t.Helper()
	cfg := config.DefaultServerConfig()
	return &server.Resources{
		Clients: server.NewClientTable(),
		Config:  cfg,
		Mode:    server.ModeFromConfig(cfg),
		Storage: &server.Storage{},
		KeepAlive: server.DefaultKeepAliveSettings(),
		Exit:      &server.ExitSignal{},
		Registry:  registry.NewStaticProvider(),
		Audit:     audit.NoopSink{},
	}
}

func queuePacket(c *client.Client, id int32, body []byte) {
	c.Queue = append(c.Queue, protocol.RawPacket{ID: id, Payload: body})
}

func decodeOne(t *testing.T, out []byte) (int32, *protocol.Reader) {
	t.Helper()
	d := protocol.NewDecoder()
	d.QueueSlice(out)
	pkt, err := d.Decode()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if pkt == nil {
		t.Fatalf("expected a decoded packet, got none")
	}
	return pkt.ID, pkt.Reader()
}

func TestHandshakeToStatus(t *testing.T) {
	res := newTestResources(t)
	c := client.New(nil, 1, nil)

	w := protocol.NewWriter()
	w.VarInt(packets.CurrentMCProtocol)
	w.String("localhost")
	w.U16(25565)
	w.VarInt(packets.NextStatusRequest)

	queuePacket(c, packets.IDHandshake, w.Bytes())
	if err := Dispatch(context.Background(), time.Now(), res, c); err != nil {
		t.Fatalf("Dispatch handshake: %v", err)
	}
	if c.State.Phase != state.PhaseStatus {
		t.Fatalf("phase = %v, want Status", c.State.Phase)
	}
	c.Queue = nil

	queuePacket(c, packets.IDStatusRequest, nil)
	if err := Dispatch(context.Background(), time.Now(), res, c); err != nil {
		t.Fatalf("Dispatch status request: %v", err)
	}

	out := c.Encoder.Take()
	if len(out) == 0 {
		t.Fatalf("expected a status response to be queued")
	}
	id, _ := decodeOne(t, out)
	if id != packets.IDStatusResponse {
		t.Fatalf("response id = 0x%02x, want 0x%02x", id, packets.IDStatusResponse)
	}
}

func TestHandshakeOutdatedProtocolDisconnects(t *testing.T) {
	res := newTestResources(t)
	c := client.New(nil, 1, nil)

	w := protocol.NewWriter()
	w.VarInt(packets.CurrentMCProtocol - 1)
	w.String("localhost")
	w.U16(25565)
	w.VarInt(packets.NextLoginRequest)

	queuePacket(c, packets.IDHandshake, w.Bytes())
	err := Dispatch(context.Background(), time.Now(), res, c)
	if err == nil {
		t.Fatalf("expected a disconnect error for outdated protocol version")
	}

	out := c.Encoder.Take()
	if len(out) == 0 {
		t.Fatalf("expected a login disconnect packet before teardown")
	}
	id, _ := decodeOne(t, out)
	if id != packets.IDLoginDisconnect {
		t.Fatalf("response id = 0x%02x, want 0x%02x", id, packets.IDLoginDisconnect)
	}
}

func TestStatusPingEchoesPayload(t *testing.T) {
	res := newTestResources(t)
	c := client.New(nil, 1, nil)
	c.State = state.State{Phase: state.PhaseStatus}

	w := protocol.NewWriter()
	w.I64(123456789)
	queuePacket(c, packets.IDStatusPingRequest, w.Bytes())

	if err := Dispatch(context.Background(), time.Now(), res, c); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	out := c.Encoder.Take()
	id, r := decodeOne(t, out)
	if id != packets.IDPingResponse {
		t.Fatalf("response id = 0x%02x, want 0x%02x", id, packets.IDPingResponse)
	}
	payload, err := r.I64()
	if err != nil {
		t.Fatalf("reading echoed payload: %v", err)
	}
	if payload != 123456789 {
		t.Fatalf("payload = %d, want 123456789", payload)
	}
}
