package impl

import (
	"context"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	mockRepo "storefront/internal/mocks/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// cartServiceFixtures holds all test dependencies for cart service tests.
type cartServiceFixtures struct {
	service     usecase.CartUsecase
	cartRepo    *mockRepo.MockCartRepository
	productRepo *mockRepo.MockProductRepository
}

func createTestCartService(t *testing.T) cartServiceFixtures {
	cartRepo := mockRepo.NewMockCartRepository(t)
	productRepo := mockRepo.NewMockProductRepository(t)

	service := NewCartService(CartServiceParams{
		CartRepo:    cartRepo,
		ProductRepo: productRepo,
		Config:      newTestConfig(),
		Logger:      newDiscardLogger(),
	})

	return cartServiceFixtures{
		service:     service,
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func activeProduct(price int64, stock int) *entity.Product {
	return &entity.Product{
		ID:       uuid.New(),
		Name:     "Mechanical Keyboard",
		Price:    price,
		Stock:    stock,
		IsActive: true,
	}
}

func TestCartService_GetCart_NewUserGetsEmptyCart(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()

	fx.cartRepo.EXPECT().
		FindByUserID(ctx, userID).
		Return(nil, repository.ErrCartNotFound)

	cart, err := fx.service.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, cart.UserID)
	assert.True(t, cart.IsEmpty())
	assert.Zero(t, cart.GrandTotal)
}

func TestCartService_AddItem_FirstItemCreatesCart(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	product := activeProduct(2500, 10)

	fx.productRepo.EXPECT().
		FindByID(ctx, product.ID).
		Return(product, nil)

	fx.cartRepo.EXPECT().
		FindByUserID(ctx, userID).
		Return(nil, repository.ErrCartNotFound)

	fx.cartRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Cart")).
		Return(nil)

	cart, err := fx.service.AddItem(ctx, userID, &usecase.AddItemInput{
		ProductID: product.ID,
		Quantity:  2,
	})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, int64(5000), cart.Subtotal)
	assert.Equal(t, int64(500), cart.ShippingFee)
	assert.Equal(t, int64(5500), cart.GrandTotal)
}

func TestCartService_AddItem_ExistingCartSaves(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	product := activeProduct(2500, 10)
	cart := entity.NewCart(userID)
	_, err := cart.AddItem(product.ID, product.Name, product.Image, product.Price, 1, nil)
	require.NoError(t, err)

	fx.productRepo.EXPECT().
		FindByID(ctx, product.ID).
		Return(product, nil)

	fx.cartRepo.EXPECT().
		FindByUserID(ctx, userID).
		Return(cart, nil)

	fx.cartRepo.EXPECT().
		Save(ctx, cart).
		Return(nil)

	updated, err := fx.service.AddItem(ctx, userID, &usecase.AddItemInput{
		ProductID: product.ID,
		Quantity:  3,
	})
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, 4, updated.Items[0].Quantity)
}

func TestCartService_AddItem_ProductNotFound(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()

	fx.productRepo.EXPECT().
		FindByID(ctx, productID).
		Return(nil, repository.ErrProductNotFound)

	_, err := fx.service.AddItem(ctx, userID, &usecase.AddItemInput{
		ProductID: productID,
		Quantity:  1,
	})
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}

func TestCartService_AddItem_InactiveProductRejected(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	product := activeProduct(2500, 10)
	product.IsActive = false

	fx.productRepo.EXPECT().
		FindByID(ctx, product.ID).
		Return(product, nil)

	_, err := fx.service.AddItem(ctx, userID, &usecase.AddItemInput{
		ProductID: product.ID,
		Quantity:  1,
	})
	assert.ErrorIs(t, err, domainerrors.ErrProductInactive)
}

func TestCartService_AddItem_InsufficientStock(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	product := activeProduct(2500, 3)
	cart := entity.NewCart(userID)
	_, err := cart.AddItem(product.ID, product.Name, product.Image, product.Price, 2, nil)
	require.NoError(t, err)

	fx.productRepo.EXPECT().
		FindByID(ctx, product.ID).
		Return(product, nil)

	fx.cartRepo.EXPECT().
		FindByUserID(ctx, userID).
		Return(cart, nil)

	// 2 already in the cart + 2 requested > 3 in stock.
	_, err = fx.service.AddItem(ctx, userID, &usecase.AddItemInput{
		ProductID: product.ID,
		Quantity:  2,
	})
	assert.ErrorIs(t, err, domainerrors.ErrInsufficientStock)
}

func TestCartService_AddItem_UnknownVariantRejected(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	product := activeProduct(2500, 10)

	fx.productRepo.EXPECT().
		FindByID(ctx, product.ID).
		Return(product, nil)

	_, err := fx.service.AddItem(ctx, userID, &usecase.AddItemInput{
		ProductID:    product.ID,
		Quantity:     1,
		VariantName:  "size",
		VariantValue: "XL",
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestCartService_AddItem_VariantPriceSnapshot(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	override := int64(3200)
	product := activeProduct(2500, 10)
	product.Variants = []entity.ProductVariant{{Name: "size", Value: "XL", Price: &override}}

	fx.productRepo.EXPECT().
		FindByID(ctx, product.ID).
		Return(product, nil)

	fx.cartRepo.EXPECT().
		FindByUserID(ctx, userID).
		Return(nil, repository.ErrCartNotFound)

	fx.cartRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Cart")).
		Return(nil)

	cart, err := fx.service.AddItem(ctx, userID, &usecase.AddItemInput{
		ProductID:    product.ID,
		Quantity:     1,
		VariantName:  "size",
		VariantValue: "XL",
	})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(3200), cart.Items[0].LineTotal)
}

func TestCartService_AddItem_FreeShippingAboveThreshold(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	product := activeProduct(60000, 10)

	fx.productRepo.EXPECT().
		FindByID(ctx, product.ID).
		Return(product, nil)

	fx.cartRepo.EXPECT().
		FindByUserID(ctx, userID).
		Return(nil, repository.ErrCartNotFound)

	fx.cartRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Cart")).
		Return(nil)

	cart, err := fx.service.AddItem(ctx, userID, &usecase.AddItemInput{
		ProductID: product.ID,
		Quantity:  2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(120000), cart.Subtotal)
	assert.Zero(t, cart.ShippingFee)
	assert.Equal(t, int64(120000), cart.GrandTotal)
}

func TestCartService_AddItem_DiscountAboveThreshold(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	product := activeProduct(60000, 10)

	fx.productRepo.EXPECT().
		FindByID(ctx, product.ID).
		Return(product, nil)

	fx.cartRepo.EXPECT().
		FindByUserID(ctx, userID).
		Return(nil, repository.ErrCartNotFound)

	fx.cartRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Cart")).
		Return(nil)

	cart, err := fx.service.AddItem(ctx, userID, &usecase.AddItemInput{
		ProductID: product.ID,
		Quantity:  4,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(240000), cart.Subtotal)
	// 10% off the subtotal, shipping already free at this size.
	assert.Equal(t, int64(24000), cart.DiscountAmount)
	assert.Zero(t, cart.ShippingFee)
	assert.Equal(t, int64(216000), cart.GrandTotal)
}

func TestCartService_UpdateItemQuantity_DiscountRevokedBelowThreshold(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	product := activeProduct(60000, 10)
	cart := entity.NewCart(userID)
	line, err := cart.AddItem(product.ID, product.Name, product.Image, product.Price, 4, nil)
	require.NoError(t, err)
	cart.ApplyDiscount(24000)

	fx.cartRepo.EXPECT().
		FindByUserID(ctx, userID).
		Return(cart, nil)

	fx.cartRepo.EXPECT().
		Save(ctx, cart).
		Return(nil)

	updated, err := fx.service.UpdateItemQuantity(ctx, userID, line.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(60000), updated.Subtotal)
	assert.Zero(t, updated.DiscountAmount)
	assert.Equal(t, int64(60500), updated.GrandTotal)
}

func TestCartService_UpdateItemQuantity_LineNotFound(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	cart := entity.NewCart(userID)

	fx.cartRepo.EXPECT().
		FindByUserID(ctx, userID).
		Return(cart, nil)

	_, err := fx.service.UpdateItemQuantity(ctx, userID, uuid.New(), 2)
	assert.ErrorIs(t, err, domainerrors.ErrCartItemNotFound)
}

func TestCartService_UpdateItemQuantity_ZeroRemovesLine(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	product := activeProduct(2500, 10)
	cart := entity.NewCart(userID)
	line, err := cart.AddItem(product.ID, product.Name, product.Image, product.Price, 2, nil)
	require.NoError(t, err)

	fx.cartRepo.EXPECT().
		FindByUserID(ctx, userID).
		Return(cart, nil)

	fx.cartRepo.EXPECT().
		Save(ctx, cart).
		Return(nil)

	updated, err := fx.service.UpdateItemQuantity(ctx, userID, line.ID, 0)
	require.NoError(t, err)
	assert.True(t, updated.IsEmpty())
	assert.Zero(t, updated.GrandTotal)
}

func TestCartService_RemoveItem_NoCart(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()

	fx.cartRepo.EXPECT().
		FindByUserID(ctx, userID).
		Return(nil, repository.ErrCartNotFound)

	_, err := fx.service.RemoveItem(ctx, userID, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrCartNotFound)
}

func TestCartService_ClearCart_NoCartIsNoop(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()

	fx.cartRepo.EXPECT().
		FindByUserID(ctx, userID).
		Return(nil, repository.ErrCartNotFound)

	err := fx.service.ClearCart(ctx, userID)
	assert.NoError(t, err)
}

func TestCartService_ValidateCart_ReportsEveryBrokenLine(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()

	okProduct := activeProduct(2500, 10)
	goneProduct := activeProduct(1000, 10)
	inactiveProduct := activeProduct(1500, 10)
	lowStockProduct := activeProduct(2000, 1)

	cart := entity.NewCart(userID)
	for _, p := range []*entity.Product{okProduct, goneProduct, inactiveProduct, lowStockProduct} {
		_, err := cart.AddItem(p.ID, p.Name, p.Image, p.Price, 2, nil)
		require.NoError(t, err)
	}

	inactiveProduct.IsActive = false

	fx.cartRepo.EXPECT().
		FindByUserID(ctx, userID).
		Return(cart, nil)

	fx.productRepo.EXPECT().
		FindByID(ctx, okProduct.ID).
		Return(okProduct, nil)
	fx.productRepo.EXPECT().
		FindByID(ctx, goneProduct.ID).
		Return(nil, repository.ErrProductNotFound)
	fx.productRepo.EXPECT().
		FindByID(ctx, inactiveProduct.ID).
		Return(inactiveProduct, nil)
	fx.productRepo.EXPECT().
		FindByID(ctx, lowStockProduct.ID).
		Return(lowStockProduct, nil)

	invalid, err := fx.service.ValidateCart(ctx, userID)
	require.NoError(t, err)
	require.Len(t, invalid, 3)

	byProduct := map[uuid.UUID]usecase.InvalidCartLine{}
	for _, line := range invalid {
		byProduct[line.ProductID] = line
	}
	assert.Contains(t, byProduct[goneProduct.ID].Reason, "no longer exists")
	assert.Contains(t, byProduct[inactiveProduct.ID].Reason, "no longer available")
	assert.Contains(t, byProduct[lowStockProduct.ID].Reason, "left in stock")
}

func TestCartService_AddItem_SaveError(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	product := activeProduct(2500, 10)
	cart := entity.NewCart(userID)
	_, err := cart.AddItem(product.ID, product.Name, product.Image, product.Price, 1, nil)
	require.NoError(t, err)

	fx.productRepo.EXPECT().
		FindByID(ctx, product.ID).
		Return(product, nil)

	fx.cartRepo.EXPECT().
		FindByUserID(ctx, userID).
		Return(cart, nil)

	fx.cartRepo.EXPECT().
		Save(ctx, cart).
		Return(errors.New("database error"))

	_, err = fx.service.AddItem(ctx, userID, &usecase.AddItemInput{
		ProductID: product.ID,
		Quantity:  1,
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save cart")
}
