package domain

import "time"

// WhitelistEntry is one allowed address range for the admin surface.
type WhitelistEntry struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	// CIDR holds the canonical network string (e.g. 203.0.113.0/24).
	// IPv4 entries always carry an explicit prefix, IPv6 entries are
	// stored fully expanded with no "::" shorthand.
	CIDR string `gorm:"column:cidr;size:64;uniqueIndex;not null" json:"ip_cidr"`

	Description string `gorm:"size:512;not null;default:''" json:"description"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	CreatedBy uint      `gorm:"not null;default:0" json:"created_by"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	UpdatedBy uint      `gorm:"not null;default:0" json:"updated_by"`
}

func (WhitelistEntry) TableName() string {
	return "whitelist_entries"
}
