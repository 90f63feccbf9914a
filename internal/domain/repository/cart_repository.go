// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrCartNotFound is a domain-specific error returned when a user has no cart yet.
var ErrCartNotFound = errors.New("cart not found")

// CartRepository defines the standard operations for cart persistence.
// A user owns at most one cart (unique index on the owning user), and the
// cart owns its item rows: Save replaces the whole aggregate in one
// transaction so every mutation is a single atomic write.
type CartRepository interface {
	// FindByUserID retrieves the cart owned by the given user.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Cart, error)

	// Create persists a new cart aggregate, items included.
	Create(ctx context.Context, cart *entity.Cart) error

	// Save replaces the persisted cart aggregate (header and items) with the
	// given state in a single transaction.
	Save(ctx context.Context, cart *entity.Cart) error
}
