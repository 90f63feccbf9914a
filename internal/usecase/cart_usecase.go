// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// AddItemInput defines the data required to add a product to the cart.
type AddItemInput struct {
	ProductID    uuid.UUID `json:"productId" validate:"required"`
	Quantity     int       `json:"quantity" validate:"required,min=1"`
	VariantName  string    `json:"variantName"`
	VariantValue string    `json:"variantValue"`
}

// UpdateItemInput defines the data required to change a cart line's quantity.
// A quantity of zero or less removes the line.
type UpdateItemInput struct {
	Quantity int `json:"quantity"`
}

// --- Output DTOs ---

// InvalidCartLine describes a cart line that no longer matches the catalog.
type InvalidCartLine struct {
	LineID    uuid.UUID `json:"lineId"`
	ProductID uuid.UUID `json:"productId"`
	Name      string    `json:"name"`
	Reason    string    `json:"reason"`
}

// CartUsecase defines the interface for cart-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type CartUsecase interface {
	// GetCart returns the user's cart, creating an empty one lazily on first use.
	GetCart(ctx context.Context, userID uuid.UUID) (*entity.Cart, error)

	// AddItem merges a product(+variant) selection into the user's cart after
	// checking catalog availability.
	AddItem(ctx context.Context, userID uuid.UUID, input *AddItemInput) (*entity.Cart, error)

	// UpdateItemQuantity sets a line's quantity; zero or less removes the line.
	UpdateItemQuantity(ctx context.Context, userID, lineID uuid.UUID, quantity int) (*entity.Cart, error)

	// RemoveItem deletes a line from the user's cart.
	RemoveItem(ctx context.Context, userID, lineID uuid.UUID) (*entity.Cart, error)

	// ClearCart empties the user's cart.
	ClearCart(ctx context.Context, userID uuid.UUID) error

	// ValidateCart re-checks each line against the current catalog and reports
	// the lines that could not be fulfilled. The cart itself is not mutated.
	ValidateCart(ctx context.Context, userID uuid.UUID) ([]InvalidCartLine, error)
}
