package audit

import (
	"context"

	"mailroom/internal/database"
	"mailroom/internal/domain"
)

// Recorder writes administrative actions to the audit log. It satisfies
// ipgate.AuditSink; callers treat recording as best-effort.
type Recorder struct {
	store *database.AuditStore
}

func NewRecorder(store *database.AuditStore) *Recorder {
	return &Recorder{store: store}
}

func (r *Recorder) Record(ctx context.Context, actorID uint, action, entityType string, entityID uint64, details map[string]any) error {
	entry := &domain.AuditLog{
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    domain.NewAuditDetails(details),
	}
	return r.store.Insert(ctx, entry)
}
