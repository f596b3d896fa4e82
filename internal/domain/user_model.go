package domain

import "time"

type User struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"`
	Email    string `gorm:"uniqueIndex;not null;size:255"`
	Password string `gorm:"not null;size:100;check:length(password) >= 8" json:"-"`
	Role     string `gorm:"not null;default:'staff';check:role IN ('staff', 'admin', 'owner')"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// IsAdmin reports whether the user may reach the admin surface.
func (u *User) IsAdmin() bool {
	return u.Role == "admin" || u.Role == "owner"
}
