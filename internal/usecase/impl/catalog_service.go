package impl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// catalogService implements the CatalogUsecase interface.
type catalogService struct {
	productRepo repository.ProductRepository
	logger      *slog.Logger
}

// CatalogServiceParams holds dependencies for catalogService, injected by Fx.
type CatalogServiceParams struct {
	fx.In

	ProductRepo repository.ProductRepository
	Logger      *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	return &catalogService{
		productRepo: params.ProductRepo,
		logger:      params.Logger,
	}
}

func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetProduct returns a single product by ID.
func (srv *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// ListProducts returns catalog products ordered by creation time.
func (srv *catalogService) ListProducts(ctx context.Context, includeInactive bool, limit, offset int) ([]*entity.Product, error) {
	products, err := srv.productRepo.List(ctx, includeInactive, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}

// CreateProduct adds a product to the catalog.
func (srv *catalogService) CreateProduct(ctx context.Context, input *usecase.CreateProductInput) (*entity.Product, error) {
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		Image:       input.Image,
		Price:       input.Price,
		Stock:       input.Stock,
		Variants:    variantsFromInput(input.Variants),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := srv.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	srv.log(ctx).Info("Product created",
		slog.Any("productID", product.ID),
		slog.String("name", product.Name),
	)

	return product, nil
}

// UpdateProduct modifies a product. Nil input fields are left unchanged;
// a non-nil Variants slice replaces the variant set wholesale.
func (srv *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, input *usecase.UpdateProductInput) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Image != nil {
		product.Image = *input.Image
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.Variants != nil {
		product.Variants = variantsFromInput(input.Variants)
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	product.UpdatedAt = time.Now()

	if err := srv.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// DeactivateProduct soft-deletes a product via its active flag. Existing
// orders and reviews keep referencing it; it simply stops being sellable.
func (srv *catalogService) DeactivateProduct(ctx context.Context, id uuid.UUID) error {
	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return domainerrors.ErrProductNotFound
		}

		return fmt.Errorf("failed to find product by ID: %w", err)
	}

	if !product.IsActive {
		return nil
	}

	product.IsActive = false
	product.UpdatedAt = time.Now()

	if err := srv.productRepo.Update(ctx, product); err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	srv.log(ctx).Info("Product deactivated", slog.Any("productID", id))

	return nil
}

func variantsFromInput(inputs []usecase.VariantInput) []entity.ProductVariant {
	variants := make([]entity.ProductVariant, 0, len(inputs))
	for _, v := range inputs {
		variants = append(variants, entity.ProductVariant{
			Name:  v.Name,
			Value: v.Value,
			Price: v.Price,
			Stock: v.Stock,
		})
	}

	return variants
}
