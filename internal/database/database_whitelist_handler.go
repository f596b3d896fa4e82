package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"mailroom/internal/domain"
	"mailroom/internal/ipgate"
)

// WhitelistStore is the store of record for whitelist entries. It satisfies
// ipgate.Store and classifies gorm failures into the gate's error kinds, so
// the guard never has to inspect driver error text.
type WhitelistStore struct {
	db *gorm.DB
}

func NewWhitelistStore(db *gorm.DB) *WhitelistStore {
	return &WhitelistStore{db: db}
}

func (s *WhitelistStore) ListEntries(ctx context.Context) ([]domain.WhitelistEntry, error) {
	var entries []domain.WhitelistEntry
	if err := s.db.WithContext(ctx).Order("id").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list whitelist entries: %w", err)
	}
	return entries, nil
}

func (s *WhitelistStore) InsertEntry(ctx context.Context, entry *domain.WhitelistEntry) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return classify(err, "insert whitelist entry")
	}
	return nil
}

func (s *WhitelistStore) UpdateEntry(ctx context.Context, entry *domain.WhitelistEntry) error {
	result := s.db.WithContext(ctx).
		Model(&domain.WhitelistEntry{}).
		Where("id = ?", entry.ID).
		Updates(map[string]any{
			"cidr":        entry.CIDR,
			"description": entry.Description,
			"updated_by":  entry.UpdatedBy,
		})
	if result.Error != nil {
		return classify(result.Error, "update whitelist entry")
	}
	if result.RowsAffected == 0 {
		return ipgate.ErrNotFound
	}
	// Reload so the caller sees the timestamps the database just wrote.
	if err := s.db.WithContext(ctx).First(entry, entry.ID).Error; err != nil {
		return classify(err, "reload whitelist entry")
	}
	return nil
}

func (s *WhitelistStore) DeleteEntry(ctx context.Context, id uint64) error {
	result := s.db.WithContext(ctx).Delete(&domain.WhitelistEntry{}, id)
	if result.Error != nil {
		return classify(result.Error, "delete whitelist entry")
	}
	if result.RowsAffected == 0 {
		return ipgate.ErrNotFound
	}
	return nil
}

func classify(err error, op string) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ipgate.ErrDuplicate
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ipgate.ErrNotFound
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
