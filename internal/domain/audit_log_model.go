package domain

import "time"

// AuditLog records one administrative action against a whitelist entry.
type AuditLog struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"`

	ActorID    uint   `gorm:"index;not null"`
	Action     string `gorm:"size:64;not null"`
	EntityType string `gorm:"size:64;not null"`
	EntityID   uint64 `gorm:"index;not null"`

	Details AuditDetails `gorm:"type:json"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
