package ipgate

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"mailroom/internal/domain"
)

// EntityWhitelistEntry is the audit entity type under which whitelist
// mutations are recorded.
const EntityWhitelistEntry = "whitelist_entry"

// Guard wraps every whitelist mutation with the safety checks that keep the
// gate usable: the whitelist never becomes empty, and no change may exclude
// the address of the administrator making it. Validation runs against a fresh
// store read inside the mutating request, so two concurrent mutations cannot
// both pass their checks against the same stale snapshot.
type Guard struct {
	store  Store
	cache  *Cache
	audit  AuditSink
	notify func()
}

type GuardOption func(*Guard)

// WithInvalidationNotifier installs a hook run after each successful mutation,
// used to broadcast cache invalidation to other instances.
func WithInvalidationNotifier(notify func()) GuardOption {
	return func(g *Guard) {
		g.notify = notify
	}
}

func NewGuard(store Store, cache *Cache, audit AuditSink, opts ...GuardOption) *Guard {
	g := &Guard{store: store, cache: cache, audit: audit}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Create adds a whitelist entry. Adding can never narrow access, so only the
// input and the store's duplicate check gate it.
func (g *Guard) Create(ctx context.Context, cidrInput, description string, actorID uint, actorIP string) (*domain.WhitelistEntry, error) {
	canonical, err := NormalizeCIDR(cidrInput)
	if err != nil {
		return nil, err
	}

	entry := &domain.WhitelistEntry{
		CIDR:        canonical,
		Description: description,
		CreatedBy:   actorID,
		UpdatedBy:   actorID,
	}
	if err := g.store.InsertEntry(ctx, entry); err != nil {
		return nil, classifyStoreError(err)
	}

	g.afterMutation(ctx, actorID, "whitelist.create", entry.ID, map[string]any{
		"cidr":        canonical,
		"description": description,
	})
	return entry, nil
}

// Update changes an existing entry's CIDR and description.
func (g *Guard) Update(ctx context.Context, id uint64, cidrInput, description string, actorID uint, actorIP string) (*domain.WhitelistEntry, error) {
	canonical, err := NormalizeCIDR(cidrInput)
	if err != nil {
		return nil, err
	}

	entries, target, err := g.loadTarget(ctx, id)
	if err != nil {
		return nil, err
	}

	remaining := withoutEntry(entries, id)
	if locksOutActor(actorIP, entries, remaining) && !IPInCIDR(actorIP, canonical) {
		return nil, ErrSelfLockout
	}

	before := *target
	target.CIDR = canonical
	target.Description = description
	target.UpdatedBy = actorID
	if err := g.store.UpdateEntry(ctx, target); err != nil {
		return nil, classifyStoreError(err)
	}

	g.afterMutation(ctx, actorID, "whitelist.update", id, map[string]any{
		"cidr_before":        before.CIDR,
		"cidr_after":         canonical,
		"description_before": before.Description,
		"description_after":  description,
	})
	return target, nil
}

// Delete removes an entry, refusing to empty the whitelist or to drop the
// administrator's own covering entry.
func (g *Guard) Delete(ctx context.Context, id uint64, actorID uint, actorIP string) error {
	entries, target, err := g.loadTarget(ctx, id)
	if err != nil {
		return err
	}

	if len(entries) <= 1 {
		return ErrLastEntry
	}

	remaining := withoutEntry(entries, id)
	if locksOutActor(actorIP, entries, remaining) {
		return ErrSelfLockout
	}

	if err := g.store.DeleteEntry(ctx, id); err != nil {
		return classifyStoreError(err)
	}

	g.afterMutation(ctx, actorID, "whitelist.delete", id, map[string]any{
		"cidr":        target.CIDR,
		"description": target.Description,
	})
	return nil
}

// loadTarget reads the current entry set directly from the store, bypassing
// the cache so the guard validates against the freshest state.
func (g *Guard) loadTarget(ctx context.Context, id uint64) ([]domain.WhitelistEntry, *domain.WhitelistEntry, error) {
	entries, err := g.store.ListEntries(ctx)
	if err != nil {
		return nil, nil, classifyStoreError(err)
	}
	for i := range entries {
		if entries[i].ID == id {
			return entries, &entries[i], nil
		}
	}
	return nil, nil, ErrNotFound
}

// locksOutActor reports whether dropping down to the remaining set would
// exclude the acting administrator. An actor whose address matches nothing
// beforehand is not relying on the rule being changed, so the check is
// skipped for them.
func locksOutActor(actorIP string, current, remaining []domain.WhitelistEntry) bool {
	if actorIP == "" {
		return false
	}
	if len(MatchingEntryIDs(actorIP, current)) == 0 {
		return false
	}
	return len(MatchingEntryIDs(actorIP, remaining)) == 0
}

func withoutEntry(entries []domain.WhitelistEntry, id uint64) []domain.WhitelistEntry {
	remaining := make([]domain.WhitelistEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.ID != id {
			remaining = append(remaining, entry)
		}
	}
	return remaining
}

func (g *Guard) afterMutation(ctx context.Context, actorID uint, action string, entityID uint64, details map[string]any) {
	g.cache.Invalidate()
	if g.notify != nil {
		g.notify()
	}
	if g.audit == nil {
		return
	}
	if err := g.audit.Record(ctx, actorID, action, EntityWhitelistEntry, entityID, details); err != nil {
		log.Warn("Audit record failed", "action", action, "entity_id", entityID, "error", err)
	}
}

func classifyStoreError(err error) error {
	if errors.Is(err, ErrDuplicate) || errors.Is(err, ErrNotFound) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
