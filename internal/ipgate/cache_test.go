package ipgate

import (
	"context"
	"errors"
	"sync"
	"testing"

	"mailroom/internal/domain"
)

func TestCacheListLoadsOnce(t *testing.T) {
	store := newFakeStore("203.0.113.0/24")
	cache := NewCache(store)

	for i := 0; i < 3; i++ {
		entries, err := cache.List(context.Background())
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(entries) != 1 || entries[0].CIDR != "203.0.113.0/24" {
			t.Fatalf("unexpected entries: %+v", entries)
		}
	}

	if store.listCalls != 1 {
		t.Fatalf("store was hit %d times, want 1", store.listCalls)
	}
}

func TestCacheInvalidateReloads(t *testing.T) {
	store := newFakeStore("203.0.113.0/24")
	cache := NewCache(store)

	if _, err := cache.List(context.Background()); err != nil {
		t.Fatal(err)
	}

	store.mu.Lock()
	store.entries[0].CIDR = "198.51.100.0/24"
	store.mu.Unlock()

	// Still the old snapshot until invalidation.
	entries, err := cache.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if entries[0].CIDR != "203.0.113.0/24" {
		t.Fatalf("snapshot changed without invalidation: %+v", entries)
	}

	cache.Invalidate()

	entries, err = cache.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if entries[0].CIDR != "198.51.100.0/24" {
		t.Fatalf("invalidation did not reload: %+v", entries)
	}
	if store.listCalls != 2 {
		t.Fatalf("store was hit %d times, want 2", store.listCalls)
	}
}

// gatedStore stalls its first load after reading the data so the test can
// land a mutation while the load is still in flight.
type gatedStore struct {
	*fakeStore
	gate    sync.Once
	reading chan struct{}
	resume  chan struct{}
}

func (s *gatedStore) ListEntries(ctx context.Context) ([]domain.WhitelistEntry, error) {
	entries, err := s.fakeStore.ListEntries(ctx)
	s.gate.Do(func() {
		close(s.reading)
		<-s.resume
	})
	return entries, err
}

func TestCacheInvalidateDuringLoad(t *testing.T) {
	store := &gatedStore{
		fakeStore: newFakeStore("203.0.113.0/24"),
		reading:   make(chan struct{}),
		resume:    make(chan struct{}),
	}
	cache := NewCache(store)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := cache.List(context.Background()); err != nil {
			t.Errorf("List: %v", err)
		}
	}()

	<-store.reading

	// A mutation commits and invalidates while the load is stalled.
	store.mu.Lock()
	store.entries = []domain.WhitelistEntry{entryWithID(2, "198.51.100.0/24")}
	store.mu.Unlock()
	cache.Invalidate()

	close(store.resume)
	<-done

	entries, err := cache.List(context.Background())
	if err != nil {
		t.Fatalf("List after invalidation: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != 2 {
		t.Fatalf("stale snapshot survived invalidation: %+v", entries)
	}
	if store.listCalls != 2 {
		t.Fatalf("store was hit %d times, want 2", store.listCalls)
	}
}

func TestCacheColdLoadErrorPropagates(t *testing.T) {
	store := newFakeStore("203.0.113.0/24")
	store.listErr = errors.New("connection refused")
	cache := NewCache(store)

	if _, err := cache.List(context.Background()); err == nil {
		t.Fatal("expected load error, got nil")
	}

	// A later successful load recovers.
	store.mu.Lock()
	store.listErr = nil
	store.mu.Unlock()

	entries, err := cache.List(context.Background())
	if err != nil {
		t.Fatalf("List after recovery: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("unexpected entries after recovery: %+v", entries)
	}
}

func TestCacheConcurrentReads(t *testing.T) {
	store := newFakeStore("203.0.113.0/24", "198.51.100.5/32")
	cache := NewCache(store)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entries, err := cache.List(context.Background())
			if err != nil {
				t.Errorf("List: %v", err)
				return
			}
			if len(entries) != 2 {
				t.Errorf("got %d entries, want 2", len(entries))
			}
		}()
	}
	wg.Wait()
}
