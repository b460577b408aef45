package server

import (
	"testing"

	"mcgate/internal/client"
)

func TestClientTableInsertGetRemove(t *testing.T) {
	table := NewClientTable()

	c := client.New(nil, 0, nil)
	id := table.Insert(c)
	if id == 0 {
		t.Fatalf("expected nonzero id")
	}
	if c.SlabID != id {
		t.Fatalf("client SlabID not set: got %d, want %d", c.SlabID, id)
	}

	got, ok := table.Get(id)
	if !ok || got != c {
		t.Fatalf("Get(%d) = (%v, %v), want (%v, true)", id, got, ok, c)
	}
	if n := table.Count(); n != 1 {
		t.Fatalf("Count() = %d, want 1", n)
	}

	table.Remove(id)
	if _, ok := table.Get(id); ok {
		t.Fatalf("expected client removed")
	}
	if n := table.Count(); n != 0 {
		t.Fatalf("Count() = %d, want 0", n)
	}
}

func TestClientTableRecyclesIDs(t *testing.T) {
	table := NewClientTable()

	first := table.Insert(client.New(nil, 0, nil))
	table.Remove(first)

	second := table.Insert(client.New(nil, 0, nil))
	if second != first {
		t.Fatalf("expected recycled id %d, got %d", first, second)
	}
}

func TestClientTableSnapshot(t *testing.T) {
	table := NewClientTable()
	for range 5 {
		table.Insert(client.New(nil, 0, nil))
	}
	if n := len(table.Snapshot()); n != 5 {
		t.Fatalf("Snapshot() len = %d, want 5", n)
	}
}
