package ipgate

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"mailroom/internal/domain"
)

// Cache is the process-wide snapshot of the whitelist. Reads are lock-free
// against an atomically swapped slice; a cold or invalidated cache loads the
// full set from the store, with concurrent misses collapsed into one load.
// There is no TTL: staleness is bounded only by explicit invalidation.
type Cache struct {
	store    Store
	snapshot atomic.Value
	loadOnce singleflight.Group
}

type cacheState struct {
	entries []domain.WhitelistEntry
	loaded  bool
}

func NewCache(store Store) *Cache {
	c := &Cache{store: store}
	c.snapshot.Store(&cacheState{})
	return c
}

// List returns the cached entries, loading them from the store of record on a
// cold cache. A failed load propagates the store's error rather than serving
// an empty list.
func (c *Cache) List(ctx context.Context) ([]domain.WhitelistEntry, error) {
	if state := c.snapshot.Load().(*cacheState); state.loaded {
		return cloneEntries(state.entries), nil
	}

	result, err, _ := c.loadOnce.Do("load", func() (any, error) {
		prev := c.snapshot.Load().(*cacheState)
		if prev.loaded {
			return prev.entries, nil
		}
		entries, err := c.store.ListEntries(ctx)
		if err != nil {
			return nil, err
		}
		// Publish only if no invalidation landed while the store read was
		// in flight. Every Invalidate swaps in a fresh state pointer, so a
		// failed swap means the data just read may already be stale and the
		// next List must load again.
		c.snapshot.CompareAndSwap(prev, &cacheState{entries: entries, loaded: true})
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneEntries(result.([]domain.WhitelistEntry)), nil
}

// Invalidate drops the snapshot; the next List loads fresh data. Readers
// racing an invalidation see either the old or the new snapshot, never a
// partially updated one.
func (c *Cache) Invalidate() {
	c.snapshot.Store(&cacheState{})
}

func cloneEntries(entries []domain.WhitelistEntry) []domain.WhitelistEntry {
	if len(entries) == 0 {
		return nil
	}
	out := make([]domain.WhitelistEntry, len(entries))
	copy(out, entries)
	return out
}
