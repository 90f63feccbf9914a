// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for catalog persistence.
var (
	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = errors.New("product not found")
	// ErrInsufficientStock is returned when a stock decrement would drive stock negative.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ProductRepository defines the standard operations for catalog persistence.
// Stock mutations are expressed as atomic counter operations so that concurrent
// checkouts and cancellations never lose updates (no read-then-write-back).
type ProductRepository interface {
	// FindByID retrieves a single product by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// List retrieves products ordered by creation time. Inactive products are
	// only included when includeInactive is set.
	List(ctx context.Context, includeInactive bool, limit, offset int) ([]*entity.Product, error)

	// Create persists a new product entity to the storage.
	Create(ctx context.Context, product *entity.Product) error

	// Update modifies an existing product entity in the storage.
	Update(ctx context.Context, product *entity.Product) error

	// DecrementStock atomically subtracts qty from the product's stock.
	// Returns ErrInsufficientStock when the remaining stock is smaller than qty,
	// and ErrProductNotFound when the product does not exist.
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) error

	// IncrementStock atomically adds qty back to the product's stock.
	IncrementStock(ctx context.Context, id uuid.UUID, qty int) error

	// UpdateRating writes the recomputed review aggregate onto the product.
	UpdateRating(ctx context.Context, id uuid.UUID, average float64, count int) error
}
