package cache

import (
	"testing"
	"time"
)

// fakeClock lets tests advance the store's view of time.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClockedStore() (*Store, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	s := NewStore()
	s.now = clock.now
	return s, clock
}

func TestGetSetRoundTrip(t *testing.T) {
	s := NewStore()
	s.Set(ProductKey("sunny-pg-room"), "value", time.Minute)

	got, ok := s.Get(ProductKey("sunny-pg-room"))
	if !ok {
		t.Fatal("fresh entry reported as miss")
	}
	if got != "value" {
		t.Errorf("Get = %v, want %q", got, "value")
	}
}

func TestMissOnUnknownKey(t *testing.T) {
	s := NewStore()
	if _, ok := s.Get("product_missing"); ok {
		t.Error("unknown key reported as hit")
	}
}

func TestLazyExpiry(t *testing.T) {
	s, clock := newClockedStore()
	s.Set("product_abc", 5000, 15*time.Minute)

	clock.advance(2 * time.Minute)
	if v, ok := s.Get("product_abc"); !ok || v != 5000 {
		t.Fatalf("entry within TTL missed: ok=%v v=%v", ok, v)
	}

	clock.advance(14 * time.Minute)
	if _, ok := s.Get("product_abc"); ok {
		t.Error("expired entry reported as hit")
	}
	if s.Len() != 0 {
		t.Errorf("expired entry not dropped on read, Len = %d", s.Len())
	}
}

func TestSetOverwritesUnconditionally(t *testing.T) {
	s, clock := newClockedStore()
	s.Set("collection_rooms", "old", 30*time.Minute)
	s.Set("collection_rooms", "new", 30*time.Minute)

	if v, _ := s.Get("collection_rooms"); v != "new" {
		t.Errorf("Get = %v, want overwritten value", v)
	}

	// Overwriting also refreshes expiry.
	clock.advance(29 * time.Minute)
	s.Set("collection_rooms", "newer", 30*time.Minute)
	clock.advance(29 * time.Minute)
	if _, ok := s.Get("collection_rooms"); !ok {
		t.Error("refreshed entry expired on the old clock")
	}
}

// A write to the backing store without invalidation stays invisible until the
// old entry's TTL elapses; the read after expiry sees the new state.
func TestStalenessBound(t *testing.T) {
	s, clock := newClockedStore()

	// t=0: cache the old price.
	s.Set("product_abc", 5000, 15*time.Minute)

	// t=1m: underlying price becomes 6000; no invalidation happens.
	backing := 6000

	// t=2m: stale read is expected.
	clock.advance(2 * time.Minute)
	if v, ok := s.Get("product_abc"); !ok || v != 5000 {
		t.Fatalf("read at t=2m: got (%v, %v), want stale 5000", v, ok)
	}

	// t=16m: entry expired; the caller re-reads the store and repopulates.
	clock.advance(14 * time.Minute)
	if _, ok := s.Get("product_abc"); ok {
		t.Fatal("read at t=16m should miss")
	}
	s.Set("product_abc", backing, 15*time.Minute)
	if v, _ := s.Get("product_abc"); v != 6000 {
		t.Errorf("read after repopulate = %v, want 6000", v)
	}
}

func TestDeterministicKeys(t *testing.T) {
	if ProductKey("sunny-pg-room") != "product_sunny-pg-room" {
		t.Errorf("ProductKey = %q", ProductKey("sunny-pg-room"))
	}
	if CollectionKey("pg-rooms") != "collection_pg-rooms" {
		t.Errorf("CollectionKey = %q", CollectionKey("pg-rooms"))
	}
}
