// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// VariantInput defines one product option in a create/update request.
type VariantInput struct {
	Name  string `json:"name" validate:"required"`
	Value string `json:"value" validate:"required"`
	Price *int64 `json:"price" validate:"omitempty,min=0"`
	Stock *int   `json:"stock" validate:"omitempty,min=0"`
}

// CreateProductInput defines the data required to create a catalog product.
type CreateProductInput struct {
	Name        string         `json:"name" validate:"required"`
	Description string         `json:"description"`
	Image       string         `json:"image"`
	Price       int64          `json:"price" validate:"required,min=0"`
	Stock       int            `json:"stock" validate:"min=0"`
	Variants    []VariantInput `json:"variants" validate:"dive"`
}

// UpdateProductInput defines the updatable fields of a product.
// Nil fields are left unchanged.
type UpdateProductInput struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Image       *string        `json:"image"`
	Price       *int64         `json:"price" validate:"omitempty,min=0"`
	Stock       *int           `json:"stock" validate:"omitempty,min=0"`
	Variants    []VariantInput `json:"variants" validate:"dive"`
	IsActive    *bool          `json:"isActive"`
}

// CatalogUsecase defines the interface for catalog management and browsing.
type CatalogUsecase interface {
	// GetProduct returns a single product by ID.
	GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// ListProducts returns catalog products. Inactive products are only
	// visible when includeInactive is set (admin listings).
	ListProducts(ctx context.Context, includeInactive bool, limit, offset int) ([]*entity.Product, error)

	// CreateProduct adds a product to the catalog. Admin operation.
	CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error)

	// UpdateProduct modifies a product. Admin operation.
	UpdateProduct(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error)

	// DeactivateProduct soft-deletes a product via its active flag so that
	// historical orders and reviews keep a valid reference. Admin operation.
	DeactivateProduct(ctx context.Context, id uuid.UUID) error
}
