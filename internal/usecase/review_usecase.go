// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// CreateReviewInput defines the data required to review a product.
type CreateReviewInput struct {
	ProductID uuid.UUID  `json:"productId" validate:"required"`
	Rating    int        `json:"rating" validate:"required,min=1,max=5"`
	Title     string     `json:"title"`
	Comment   string     `json:"comment"`
	OrderID   *uuid.UUID `json:"orderId"`
}

// UpdateReviewInput defines the updatable fields of a review.
// Nil fields are left unchanged.
type UpdateReviewInput struct {
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Title   *string `json:"title"`
	Comment *string `json:"comment"`
}

// ModerateReviewInput defines the moderation flags an admin can set.
type ModerateReviewInput struct {
	IsApproved bool `json:"isApproved"`
	IsActive   bool `json:"isActive"`
}

// ReviewUsecase defines the interface for review-related business operations.
// Every mutation triggers a full recompute of the product's rating aggregate.
type ReviewUsecase interface {
	// CreateReview records a user's review of a product. A user may review a
	// product at most once.
	CreateReview(ctx context.Context, userID uuid.UUID, input *CreateReviewInput) (*entity.Review, error)

	// UpdateReview modifies the caller's own review.
	UpdateReview(ctx context.Context, userID, reviewID uuid.UUID, input *UpdateReviewInput) (*entity.Review, error)

	// DeleteReview removes the caller's own review.
	DeleteReview(ctx context.Context, userID, reviewID uuid.UUID) error

	// ListProductReviews returns a product's visible reviews, most recent first.
	ListProductReviews(ctx context.Context, productID uuid.UUID, limit, offset int) ([]*entity.Review, error)

	// ModerateReview sets the moderation flags on any review. Admin operation.
	ModerateReview(ctx context.Context, reviewID uuid.UUID, input *ModerateReviewInput) (*entity.Review, error)
}
