// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidRating is returned when a rating falls outside the 1..5 range.
var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// Review is a user's rating of a product. Each (user, product) pair may hold
// at most one review; the uniqueness is enforced by the storage layer.
type Review struct {
	ID                 uuid.UUID
	ProductID          uuid.UUID
	UserID             uuid.UUID
	Rating             int    // 1..5.
	Title              string // Optional.
	Comment            string
	OrderID            *uuid.UUID // Optional link to the order that justifies the purchase.
	IsVerifiedPurchase bool       // True only when the linked order was delivered to this user with this product.
	IsActive           bool       // Soft-delete flag.
	IsApproved         bool       // Moderation flag; only approved reviews feed the rating aggregate.
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ValidateRating checks the 1..5 rating range.
func ValidateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}

	return nil
}
