// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core account entity in the system.
// It owns exactly one cart and any number of orders and reviews.
type User struct {
	ID           uuid.UUID // The Global Unique Identifier (GUID) for the user.
	Email        string    // The user's login identifier; unique.
	Name         string    // The user's display name.
	PasswordHash string    // bcrypt hash of the user's password.
	Roles        Roles     // The roles granted to this account.
	IsActive     bool      // False when the account has been disabled.
	CreatedAt    time.Time // Timestamp of when this account was created.
	UpdatedAt    time.Time // Timestamp of the last modification to this account.
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role Role) bool {
	return u.Roles.Contains(role)
}
