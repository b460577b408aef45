package registry

import (
	"context"
	"testing"
)

func TestStaticProviderEntries(t *testing.T) {
	p := NewStaticProvider()

	entries, err := p.Entries(context.Background())
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != len(staticEntries) {
		t.Fatalf("got %d entries, want %d", len(entries), len(staticEntries))
	}

	entries[0].ID = "mutated"
	fresh, err := p.Entries(context.Background())
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if fresh[0].ID == "mutated" {
		t.Fatalf("Entries returned a shared backing array instead of a copy")
	}
}
