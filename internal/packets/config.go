package packets

import "mcgate/internal/protocol"

// KnownPack identifies one data pack the server or client claims to carry.
type KnownPack struct {
	Namespace string
	ID        string
	Version   string
}

func readKnownPack(r *protocol.Reader) (KnownPack, error) {
	var p KnownPack
	var err error
	if p.Namespace, err = r.String(protocol.DefaultMaxStringChars); err != nil {
		return p, err
	}
	if p.ID, err = r.String(protocol.DefaultMaxStringChars); err != nil {
		return p, err
	}
	p.Version, err = r.String(protocol.DefaultMaxStringChars)
	return p, err
}

func writeKnownPack(w *protocol.Writer, p KnownPack) {
	w.String(p.Namespace)
	w.String(p.ID)
	w.String(p.Version)
}

// CKnownPacks advertises the packs the server carries; the client replies
// with its own SKnownPacks list (spec.md requires no reconciliation beyond
// the reply triggering registry sync).
type CKnownPacks struct {
	Packs []KnownPack
}

// WriteCKnownPacks encodes p into w.
func WriteCKnownPacks(w *protocol.Writer, p CKnownPacks) {
	protocol.WriteList(w, p.Packs, writeKnownPack)
}

// SKnownPacks is the client's reply to CKnownPacks.
type SKnownPacks struct {
	Packs []KnownPack
}

// ReadSKnownPacks decodes SKnownPacks from r.
func ReadSKnownPacks(r *protocol.Reader) (SKnownPacks, error) {
	packs, err := protocol.ReadList(r, readKnownPack)
	return SKnownPacks{Packs: packs}, err
}

// SPluginMessage is a generic channel/payload message; only
// "minecraft:brand" is interpreted (spec.md 4.4 Config).
type SPluginMessage struct {
	Channel string
	Data    []byte
}

// ReadSPluginMessage decodes SPluginMessage from r.
func ReadSPluginMessage(r *protocol.Reader) (SPluginMessage, error) {
	channel, err := r.String(protocol.DefaultMaxStringChars)
	if err != nil {
		return SPluginMessage{}, err
	}
	return SPluginMessage{Channel: channel, Data: r.RemainingBytes()}, nil
}

// SClientInformationConfig carries client locale/render-distance settings.
// Fields are read for validation only; spec.md marks them "ignored for now".
type SClientInformationConfig struct {
	Locale             string
	ViewDistance       int8
	ChatMode           int32
	ChatColors         bool
	DisplayedSkinParts uint8
	MainHand           int32
	TextFiltering      bool
	AllowServerListing bool
}

// ReadSClientInformationConfig decodes SClientInformationConfig from r.
func ReadSClientInformationConfig(r *protocol.Reader) (SClientInformationConfig, error) {
	var p SClientInformationConfig
	var err error
	if p.Locale, err = r.String(16); err != nil {
		return p, err
	}
	if p.ViewDistance, err = r.I8(); err != nil {
		return p, err
	}
	if p.ChatMode, err = r.VarInt(); err != nil {
		return p, err
	}
	if p.ChatColors, err = r.Bool(); err != nil {
		return p, err
	}
	if p.DisplayedSkinParts, err = r.U8(); err != nil {
		return p, err
	}
	if p.MainHand, err = r.VarInt(); err != nil {
		return p, err
	}
	if p.TextFiltering, err = r.Bool(); err != nil {
		return p, err
	}
	p.AllowServerListing, err = r.Bool()
	return p, err
}

// CRegistryData ships one registry's opaque content verbatim, per the
// external registry-provider contract in spec.md section 6.
type CRegistryData struct {
	ID      string
	Entries []byte
}

// WriteCRegistryData encodes p into w.
func WriteCRegistryData(w *protocol.Writer, p CRegistryData) {
	w.String(p.ID)
	w.RawBytes(p.Entries)
}

// CFinishConfig closes out the KnownPacks exchange. No fields.
type CFinishConfig struct{}

// WriteCFinishConfig encodes p into w.
func WriteCFinishConfig(_ *protocol.Writer, _ CFinishConfig) {}

// SAcknowledgeFinishConfig is the client's reply to CFinishConfig; receiving
// it in Config(AckFinish) transitions the connection into Play.
type SAcknowledgeFinishConfig struct{}

// ReadSAcknowledgeFinishConfig exists for symmetry; the packet body is empty.
func ReadSAcknowledgeFinishConfig(_ *protocol.Reader) (SAcknowledgeFinishConfig, error) {
	return SAcknowledgeFinishConfig{}, nil
}
