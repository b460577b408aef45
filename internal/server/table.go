package server

import (
	"sync"
	"sync/atomic"

	"mcgate/internal/client"
)

// tableShards is the shard count for ClientTable. Sharding spreads insert and
// remove across 16 independently locked maps, reducing lock contention among
// the worker pool's goroutines compared with the teacher's single-mutex
// GameServerTable; ID allocation still goes through one shared free-list
// mutex.
const tableShards = 16

type shard struct {
	mu      sync.RWMutex
	clients map[uint64]*client.Client
}

// ClientTable is the dense slab of live clients keyed by a recyclable
// SlabId, per spec.md section 3: "a dense associative store keyed by a
// recyclable index, used to enumerate live clients cheaply." IDs are
// recycled through a free list so a long-running server's ID space stays
// bounded by peak concurrent connections, not total connections ever
// accepted.
type ClientTable struct {
	shards [tableShards]shard

	nextID   atomic.Uint64
	freeMu   sync.Mutex
	freeList []uint64
}

// NewClientTable returns an empty table.
func NewClientTable() *ClientTable {
	t := &ClientTable{}
	for i := range t.shards {
		t.shards[i].clients = make(map[uint64]*client.Client)
	}
	return t
}

func (t *ClientTable) shardFor(id uint64) *shard {
	return &t.shards[id%tableShards]
}

// Insert allocates a SlabId (reusing a freed one if available) and stores c
// under it. Returns the assigned id.
func (t *ClientTable) Insert(c *client.Client) uint64 {
	id := t.allocID()
	c.SlabID = id
	sh := t.shardFor(id)
	sh.mu.Lock()
	sh.clients[id] = c
	sh.mu.Unlock()
	return id
}

func (t *ClientTable) allocID() uint64 {
	t.freeMu.Lock()
	if n := len(t.freeList); n > 0 {
		id := t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		t.freeMu.Unlock()
		return id
	}
	t.freeMu.Unlock()
	return t.nextID.Add(1)
}

// Remove releases id's slot, making it eligible for reuse. Per spec.md's
// invariant, this must happen exactly once per client, precisely when the
// entity is destroyed.
func (t *ClientTable) Remove(id uint64) {
	sh := t.shardFor(id)
	sh.mu.Lock()
	_, ok := sh.clients[id]
	delete(sh.clients, id)
	sh.mu.Unlock()

	if ok {
		t.freeMu.Lock()
		t.freeList = append(t.freeList, id)
		t.freeMu.Unlock()
	}
}

// Get returns the client stored under id, if any.
func (t *ClientTable) Get(id uint64) (*client.Client, bool) {
	sh := t.shardFor(id)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	c, ok := sh.clients[id]
	return c, ok
}

// Snapshot returns every currently-registered client. The slice is a private
// copy; callers observe point-in-time membership, not a live view.
func (t *ClientTable) Snapshot() []*client.Client {
	out := make([]*client.Client, 0)
	for i := range t.shards {
		sh := &t.shards[i]
		sh.mu.RLock()
		for _, c := range sh.clients {
			out = append(out, c)
		}
		sh.mu.RUnlock()
	}
	return out
}

// Count returns the number of currently-registered clients.
func (t *ClientTable) Count() int {
	n := 0
	for i := range t.shards {
		sh := &t.shards[i]
		sh.mu.RLock()
		n += len(sh.clients)
		sh.mu.RUnlock()
	}
	return n
}
