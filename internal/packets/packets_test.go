package packets

import (
	"testing"

	"github.com/google/uuid"

	"mcgate/internal/protocol"
)

func TestSHandshakeRoundTrip(t *testing.T) {
	w := protocol.NewWriter()
	w.VarInt(CurrentMCProtocol)
	w.String("play.example.com")
	w.U16(25565)
	w.VarInt(NextLoginRequest)

	got, err := ReadSHandshake(protocol.NewReader(w.Bytes()))
	if err != nil {
		t.Fatalf("ReadSHandshake: %v", err)
	}
	if got.ProtocolVersion != CurrentMCProtocol || got.ServerAddress != "play.example.com" ||
		got.ServerPort != 25565 || got.NextState != NextLoginRequest {
		t.Fatalf("unexpected decode: %+v", got)
	}
}

func TestSLoginStartRoundTrip(t *testing.T) {
	id := uuid.New()
	w := protocol.NewWriter()
	w.String("Alice")
	w.UUID(id)

	got, err := ReadSLoginStart(protocol.NewReader(w.Bytes()))
	if err != nil {
		t.Fatalf("ReadSLoginStart: %v", err)
	}
	if got.Name != "Alice" || got.UUIDHint != id {
		t.Fatalf("unexpected decode: %+v", got)
	}
}

func TestCLoginSuccessRoundTrip(t *testing.T) {
	id := uuid.New()
	sig := "sig"
	w := protocol.NewWriter()
	WriteCLoginSuccess(w, CLoginSuccess{
		UUID:     id,
		Username: "Bob",
		Properties: []Property{
			{Name: "textures", Value: "abc", Signature: &sig},
		},
		StrictErrorHandling: true,
	})

	r := protocol.NewReader(w.Bytes())
	gotUUID, err := r.UUID()
	if err != nil || gotUUID != id {
		t.Fatalf("uuid mismatch: %v %v", gotUUID, err)
	}
	gotName, err := r.String(16)
	if err != nil || gotName != "Bob" {
		t.Fatalf("name mismatch: %v %v", gotName, err)
	}
	props, err := protocol.ReadList(r, readProperty)
	if err != nil || len(props) != 1 || props[0].Name != "textures" || *props[0].Signature != "sig" {
		t.Fatalf("properties mismatch: %+v %v", props, err)
	}
	strict, err := r.Bool()
	if err != nil || !strict {
		t.Fatalf("strict mismatch: %v %v", strict, err)
	}
}

func TestVelocityForwardingPayloadRoundTrip(t *testing.T) {
	id := uuid.New()
	w := protocol.NewWriter()
	w.VarInt(3)
	w.String("203.0.113.5")
	w.UUID(id)
	w.String("Bob")
	protocol.WriteList[Property](w, nil, writeProperty)

	got, err := ReadVelocityForwardingPayload(protocol.NewReader(w.Bytes()))
	if err != nil {
		t.Fatalf("ReadVelocityForwardingPayload: %v", err)
	}
	if got.Version != 3 || got.RemoteAddr != "203.0.113.5" || got.UUID != id || got.Username != "Bob" {
		t.Fatalf("unexpected decode: %+v", got)
	}
}

func TestCKnownPacksRoundTrip(t *testing.T) {
	w := protocol.NewWriter()
	WriteCKnownPacks(w, CKnownPacks{Packs: []KnownPack{{Namespace: "minecraft:core", ID: "core", Version: "1.21"}}})

	got, err := ReadSKnownPacks(protocol.NewReader(w.Bytes()))
	if err != nil {
		t.Fatalf("ReadSKnownPacks: %v", err)
	}
	if len(got.Packs) != 1 || got.Packs[0].ID != "core" {
		t.Fatalf("unexpected decode: %+v", got)
	}
}

func TestSPluginMessageBrand(t *testing.T) {
	w := protocol.NewWriter()
	w.String(MinecraftBrandChannel)
	w.RawBytes([]byte("fabric"))

	got, err := ReadSPluginMessage(protocol.NewReader(w.Bytes()))
	if err != nil {
		t.Fatalf("ReadSPluginMessage: %v", err)
	}
	if got.Channel != MinecraftBrandChannel || string(got.Data) != "fabric" {
		t.Fatalf("unexpected decode: %+v", got)
	}
}
