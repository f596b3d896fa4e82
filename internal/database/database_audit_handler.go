package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"mailroom/internal/domain"
)

// AuditStore persists audit records.
type AuditStore struct {
	db *gorm.DB
}

func NewAuditStore(db *gorm.DB) *AuditStore {
	return &AuditStore{db: db}
}

func (s *AuditStore) Insert(ctx context.Context, entry *domain.AuditLog) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// ListByEntity returns the audit trail for one entity, newest first.
func (s *AuditStore) ListByEntity(ctx context.Context, entityType string, entityID uint64) ([]domain.AuditLog, error) {
	var logs []domain.AuditLog
	err := s.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("id DESC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return logs, nil
}
