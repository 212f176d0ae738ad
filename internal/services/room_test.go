package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/diewo77/hotel-backoffice/internal/models"
)

// genCache is an in-memory Cache with the same generation scheme as the
// Redis one. duringMiss runs once, right after the next lookup misses.
type genCache struct {
	mu         sync.Mutex
	gen        int64
	entries    map[string][]byte
	hits       int
	duringMiss func()
}

func newGenCache() *genCache {
	return &genCache{entries: map[string][]byte{}}
}

func (c *genCache) Get(_ context.Context, key string) ([]byte, int64, bool) {
	c.mu.Lock()
	gen := c.gen
	v, ok := c.entries[fmt.Sprintf("%d:%s", gen, key)]
	if ok {
		c.hits++
	}
	fn := c.duringMiss
	if !ok {
		c.duringMiss = nil
	}
	c.mu.Unlock()
	if !ok && fn != nil {
		fn()
	}
	return v, gen, ok
}

func (c *genCache) Set(_ context.Context, gen int64, key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[fmt.Sprintf("%d:%s", gen, key)] = value
}

func (c *genCache) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
}

func TestAvailableRoomsCache(t *testing.T) {
	f := newFixture(t)
	gc := newGenCache()
	rooms := NewRoomService(f.db, f.activity, gc)
	c := f.client(t, "Awa Diop")
	r := f.room(t, "101", 25000)
	from, to := day(2026, 3, 10), day(2026, 3, 12)

	got, err := rooms.AvailableRooms(f.ctx, from, to)
	if err != nil || len(got) != 1 {
		t.Fatalf("expected 1 room, got %+v (%v)", got, err)
	}
	if got, _ = rooms.AvailableRooms(f.ctx, from, to); len(got) != 1 || gc.hits != 1 {
		t.Fatalf("expected a cache hit, got %d hits %+v", gc.hits, got)
	}

	// A booking invalidates while the next lookup is still querying. Its
	// row is written through a service without the cache so the stale
	// result is what the lookup computed.
	gc.Invalidate(f.ctx)
	gc.duringMiss = func() { gc.Invalidate(f.ctx) }
	if got, _ = rooms.AvailableRooms(f.ctx, from, to); len(got) != 1 {
		t.Fatalf("expected the pre-booking result, got %+v", got)
	}
	f.reservation(t, c.ID, r.ID, "2026-03-10", "2026-03-12", models.ReservationConfirmed)

	got, err = rooms.AvailableRooms(f.ctx, from, to)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("result computed across an invalidation was served: %+v", got)
	}
	if gc.hits != 1 {
		t.Fatalf("expected no new hit, got %d", gc.hits)
	}
}

func TestNopCacheSkipsStore(t *testing.T) {
	var c nopCache
	_, gen, ok := c.Get(context.Background(), "k")
	if ok || gen >= 0 {
		t.Fatalf("nop cache returned gen=%d ok=%v", gen, ok)
	}
}
