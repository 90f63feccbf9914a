// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for review persistence.
var (
	// ErrReviewNotFound is returned when a review is not found.
	ErrReviewNotFound = errors.New("review not found")
	// ErrDuplicateReview is returned when a user already reviewed the product.
	ErrDuplicateReview = errors.New("review already exists for this user and product")
)

// ReviewRepository defines the standard operations for review persistence.
type ReviewRepository interface {
	// Create persists a new review. Returns ErrDuplicateReview when the
	// (user, product) unique index is violated.
	Create(ctx context.Context, review *entity.Review) error

	// FindByID retrieves a single review by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)

	// FindByUserAndProduct retrieves the review a user wrote for a product.
	FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*entity.Review, error)

	// FindByProductID retrieves the active, approved reviews of a product,
	// most recent first.
	FindByProductID(ctx context.Context, productID uuid.UUID, limit, offset int) ([]*entity.Review, error)

	// Update modifies an existing review.
	Update(ctx context.Context, review *entity.Review) error

	// Delete removes a review by its ID.
	Delete(ctx context.Context, id uuid.UUID) error

	// AggregateForProduct computes the mean rating and count over the
	// product's active, approved reviews. Zero reviews yields (0, 0).
	AggregateForProduct(ctx context.Context, productID uuid.UUID) (average float64, count int, err error)
}
