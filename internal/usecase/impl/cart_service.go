// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"fmt"
	"log/slog"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// cartService implements the CartUsecase interface.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	checkout    *config.CheckoutConfig
	limits      *config.CartConfig
	logger      *slog.Logger
}

// CartServiceParams holds dependencies for cartService, injected by Fx.
type CartServiceParams struct {
	fx.In

	CartRepo    repository.CartRepository
	ProductRepo repository.ProductRepository
	Config      *config.Config
	Logger      *slog.Logger
}

// NewCartService is the constructor for cartService. It receives all dependencies as interfaces.
func NewCartService(params CartServiceParams) usecase.CartUsecase {
	limits := params.Config.Cart
	if limits == nil {
		limits = &config.CartConfig{
			MaxLines:           50,
			MaxQuantityPerLine: 99,
		}
	}

	checkout := params.Config.Checkout
	if checkout == nil {
		checkout = &config.CheckoutConfig{}
	}

	return &cartService{
		cartRepo:    params.CartRepo,
		productRepo: params.ProductRepo,
		checkout:    checkout,
		limits:      limits,
		logger:      params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *cartService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetCart returns the user's cart. A user without a cart gets a fresh empty
// one, which is only persisted once the first item is added.
func (srv *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	cart, err := srv.cartRepo.FindByUserID(ctx, userID)
	if errors.Is(err, repository.ErrCartNotFound) {
		return entity.NewCart(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find cart by user: %w", err)
	}

	return cart, nil
}

// AddItem validates the selection against the catalog, merges it into the
// cart and persists the new cart state as one atomic write.
func (srv *cartService) AddItem(ctx context.Context, userID uuid.UUID, input *usecase.AddItemInput) (*entity.Cart, error) {
	product, err := srv.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	if !product.IsActive {
		return nil, domainerrors.ErrProductInactive
	}

	variant, err := resolveVariantSelection(product, input.VariantName, input.VariantValue)
	if err != nil {
		return nil, err
	}

	cart, created, err := srv.loadOrStartCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Availability is checked here, before the aggregate mutation: the cart
	// entity itself never consults stock.
	pending := input.Quantity + existingQuantity(cart, product.ID, variant)
	if product.AvailableStock(variant) < pending {
		return nil, domainerrors.ErrInsufficientStock.WithDetails(product.Name)
	}

	if srv.limits.MaxQuantityPerLine > 0 && pending > srv.limits.MaxQuantityPerLine {
		return nil, domainerrors.ErrValidationFailed.WithDetails(
			fmt.Sprintf("quantity per line is limited to %d", srv.limits.MaxQuantityPerLine))
	}
	if srv.limits.MaxLines > 0 && len(cart.Items) >= srv.limits.MaxLines && existingQuantity(cart, product.ID, variant) == 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails(
			fmt.Sprintf("cart is limited to %d lines", srv.limits.MaxLines))
	}

	if _, err := cart.AddItem(product.ID, product.Name, product.Image, product.EffectivePrice(variant), input.Quantity, variant); err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	srv.applyPricingPolicies(cart)

	if err := srv.persistCart(ctx, cart, created); err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("Cart item added",
		slog.Any("userID", userID),
		slog.Any("productID", product.ID),
		slog.Int("quantity", input.Quantity),
	)

	return cart, nil
}

// UpdateItemQuantity sets a line's quantity; zero or less removes the line.
func (srv *cartService) UpdateItemQuantity(ctx context.Context, userID, lineID uuid.UUID, quantity int) (*entity.Cart, error) {
	cart, err := srv.requireCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := cart.UpdateItemQuantity(lineID, quantity); err != nil {
		if errors.Is(err, entity.ErrCartLineNotFound) {
			return nil, domainerrors.ErrCartItemNotFound
		}

		return nil, fmt.Errorf("failed to update cart line: %w", err)
	}

	srv.applyPricingPolicies(cart)

	if err := srv.cartRepo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	return cart, nil
}

// RemoveItem deletes a line from the user's cart.
func (srv *cartService) RemoveItem(ctx context.Context, userID, lineID uuid.UUID) (*entity.Cart, error) {
	cart, err := srv.requireCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := cart.RemoveItem(lineID); err != nil {
		if errors.Is(err, entity.ErrCartLineNotFound) {
			return nil, domainerrors.ErrCartItemNotFound
		}

		return nil, fmt.Errorf("failed to remove cart line: %w", err)
	}

	srv.applyPricingPolicies(cart)

	if err := srv.cartRepo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	return cart, nil
}

// ClearCart empties the user's cart. A user without a cart is a no-op.
func (srv *cartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	cart, err := srv.cartRepo.FindByUserID(ctx, userID)
	if errors.Is(err, repository.ErrCartNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to find cart by user: %w", err)
	}

	cart.Clear()
	srv.applyPricingPolicies(cart)

	if err := srv.cartRepo.Save(ctx, cart); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}

	return nil
}

// ValidateCart re-checks each line against the current catalog without
// mutating the cart. Lines referencing missing or inactive products, or
// exceeding the available stock, are reported with a reason.
func (srv *cartService) ValidateCart(ctx context.Context, userID uuid.UUID) ([]usecase.InvalidCartLine, error) {
	cart, err := srv.requireCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	invalid := make([]usecase.InvalidCartLine, 0)
	for idx := range cart.Items {
		line := &cart.Items[idx]

		product, err := srv.productRepo.FindByID(ctx, line.ProductID)
		if errors.Is(err, repository.ErrProductNotFound) {
			invalid = append(invalid, usecase.InvalidCartLine{
				LineID:    line.ID,
				ProductID: line.ProductID,
				Name:      line.Name,
				Reason:    "product no longer exists",
			})

			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to find product by ID: %w", err)
		}

		if !product.IsActive {
			invalid = append(invalid, usecase.InvalidCartLine{
				LineID:    line.ID,
				ProductID: line.ProductID,
				Name:      line.Name,
				Reason:    "product is no longer available",
			})

			continue
		}

		if available := product.AvailableStock(line.Variant); available < line.Quantity {
			invalid = append(invalid, usecase.InvalidCartLine{
				LineID:    line.ID,
				ProductID: line.ProductID,
				Name:      line.Name,
				Reason:    fmt.Sprintf("only %d left in stock", available),
			})
		}
	}

	return invalid, nil
}

// requireCart loads the user's cart and maps a missing cart to the API error.
func (srv *cartService) requireCart(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	cart, err := srv.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil, domainerrors.ErrCartNotFound
		}

		return nil, fmt.Errorf("failed to find cart by user: %w", err)
	}

	return cart, nil
}

// loadOrStartCart returns the persisted cart or a fresh unpersisted one.
func (srv *cartService) loadOrStartCart(ctx context.Context, userID uuid.UUID) (cart *entity.Cart, created bool, err error) {
	cart, err = srv.cartRepo.FindByUserID(ctx, userID)
	if errors.Is(err, repository.ErrCartNotFound) {
		return entity.NewCart(userID), true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to find cart by user: %w", err)
	}

	return cart, false, nil
}

func (srv *cartService) persistCart(ctx context.Context, cart *entity.Cart, created bool) error {
	if created {
		if err := srv.cartRepo.Create(ctx, cart); err != nil {
			return fmt.Errorf("failed to create cart: %w", err)
		}

		return nil
	}

	if err := srv.cartRepo.Save(ctx, cart); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}

	return nil
}

// applyPricingPolicies re-derives the cart's shipping fee and discount from
// configuration. Runs before every save so both always match the current
// subtotal.
func (srv *cartService) applyPricingPolicies(cart *entity.Cart) {
	srv.applyShippingPolicy(cart)
	srv.applyDiscountPolicy(cart)
}

// applyShippingPolicy charges the flat shipping fee, waived above the
// free-shipping threshold.
func (srv *cartService) applyShippingPolicy(cart *entity.Cart) {
	if cart.IsEmpty() {
		cart.ApplyShippingFee(0)

		return
	}

	fee := srv.checkout.ShippingFlatFee
	if srv.checkout.FreeShippingThreshold > 0 && cart.Subtotal >= srv.checkout.FreeShippingThreshold {
		fee = 0
	}

	cart.ApplyShippingFee(fee)
}

// applyDiscountPolicy grants a percentage off the subtotal once it reaches
// the configured threshold. The discount is truncated to whole minor units.
func (srv *cartService) applyDiscountPolicy(cart *entity.Cart) {
	percent := srv.checkout.DiscountPercent
	if percent <= 0 || cart.IsEmpty() || cart.Subtotal < srv.checkout.DiscountThreshold {
		cart.ApplyDiscount(0)

		return
	}

	cart.ApplyDiscount(cart.Subtotal * int64(percent) / 100)
}

// resolveVariantSelection maps the request's variant fields onto the
// product's declared variants, snapshotting any price override.
func resolveVariantSelection(product *entity.Product, name, value string) (*entity.SelectedVariant, error) {
	if name == "" && value == "" {
		return nil, nil
	}

	variant := product.FindVariant(name, value)
	if variant == nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails(
			fmt.Sprintf("product has no variant %s=%s", name, value))
	}

	return &entity.SelectedVariant{
		Name:  variant.Name,
		Value: variant.Value,
		Price: variant.Price,
	}, nil
}

// existingQuantity returns the quantity already carried by the matching line.
func existingQuantity(cart *entity.Cart, productID uuid.UUID, variant *entity.SelectedVariant) int {
	for idx := range cart.Items {
		line := &cart.Items[idx]
		if line.ProductID == productID && line.Variant.Matches(variant) {
			return line.Quantity
		}
	}

	return 0
}
