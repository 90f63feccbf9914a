// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for order persistence.
var (
	// ErrOrderNotFound is returned when an order is not found.
	ErrOrderNotFound = errors.New("order not found")
	// ErrDuplicateOrderNumber is returned when the generated order number collides.
	ErrDuplicateOrderNumber = errors.New("order number already exists")
)

// OrderRepository defines the standard operations for order persistence.
// Orders are write-once snapshots: Update only touches status bookkeeping
// (status, history, milestone timestamps, payment fields), never the item
// snapshots or totals.
type OrderRepository interface {
	// Create persists a new order aggregate, item snapshots and initial
	// status history included. Returns ErrDuplicateOrderNumber when the
	// order number violates the unique index.
	Create(ctx context.Context, order *entity.Order) error

	// FindByID retrieves a single order by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// FindByUserID retrieves a user's orders, most recent first.
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Order, error)

	// Update persists the order's current status bookkeeping.
	Update(ctx context.Context, order *entity.Order) error

	// Count returns the total number of orders ever created. Used as the
	// running count component of generated order numbers.
	Count(ctx context.Context) (int64, error)
}
