package ipgate

import (
	"context"

	"mailroom/internal/domain"
)

// Store is the whitelist store of record. Implementations classify their
// failures: a uniqueness violation is reported as ErrDuplicate and a missing
// row as ErrNotFound (wrapped is fine), so callers never inspect error text.
type Store interface {
	ListEntries(ctx context.Context) ([]domain.WhitelistEntry, error)
	InsertEntry(ctx context.Context, entry *domain.WhitelistEntry) error
	UpdateEntry(ctx context.Context, entry *domain.WhitelistEntry) error
	DeleteEntry(ctx context.Context, id uint64) error
}

// AuditSink records administrative actions. Recording is best-effort from the
// gate's point of view; errors are logged by the guard and never propagated.
type AuditSink interface {
	Record(ctx context.Context, actorID uint, action, entityType string, entityID uint64, details map[string]any) error
}
