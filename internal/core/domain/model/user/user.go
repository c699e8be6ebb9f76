// Package user provides the minimal account entity the order core needs:
// ownership of patients and orders, and resolution of import referrers.
// Full account management (roles, permissions, authentication) is an external
// collaborator and lives outside this core.
package user

import "time"

// User is a local account. ReferrerID is the identifier the external system
// of record uses to address this account in import payloads; it must resolve
// to exactly one local user.
type User struct {
	ID uint `gorm:"primaryKey"`

	Name       string `gorm:"size:255;not null"`
	Email      string `gorm:"size:255;not null;uniqueIndex"`
	ReferrerID string `gorm:"size:100;uniqueIndex"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM's default naming.
func (User) TableName() string {
	return "users"
}
