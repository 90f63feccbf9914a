// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// ShippingAddressInput defines the delivery address supplied at checkout.
type ShippingAddressInput struct {
	FullName   string `json:"fullName" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	Line1      string `json:"line1" validate:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

// CheckoutInput defines the data required to convert a cart into an order.
type CheckoutInput struct {
	Shipping      ShippingAddressInput `json:"shipping" validate:"required"`
	PaymentMethod string               `json:"paymentMethod" validate:"required,oneof=card cod bank_transfer"`
	Note          string               `json:"note"`
}

// ChangeStatusInput defines the data for an admin status advance.
type ChangeStatusInput struct {
	Status string `json:"status" validate:"required"`
	Note   string `json:"note"`
}

// OrderUsecase defines the interface for order-related business operations,
// including the checkout workflow that consumes the cart.
type OrderUsecase interface {
	// Checkout converts the user's non-empty cart into an order snapshot,
	// decrements catalog stock and clears the cart in one transaction.
	Checkout(ctx context.Context, userID uuid.UUID, input *CheckoutInput) (*entity.Order, error)

	// GetOrder returns one of the user's orders.
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*entity.Order, error)

	// ListOrders returns the user's orders, most recent first.
	ListOrders(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Order, error)

	// CancelOrder cancels one of the user's orders and restores the reserved
	// stock. Only pending and confirmed orders can be cancelled.
	CancelOrder(ctx context.Context, userID, orderID uuid.UUID, note string) (*entity.Order, error)

	// AdvanceStatus moves an order forward through the fulfilment state
	// machine. Admin operation.
	AdvanceStatus(ctx context.Context, orderID uuid.UUID, input *ChangeStatusInput) (*entity.Order, error)

	// MarkAsPaid records a successful payment with its external reference.
	MarkAsPaid(ctx context.Context, orderID uuid.UUID, paymentRef string) (*entity.Order, error)

	// OrderQR renders the PNG QR code of one of the user's order numbers.
	OrderQR(ctx context.Context, userID, orderID uuid.UUID) ([]byte, error)
}
