package impl

import (
	"context"
	"strings"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	mockRepo "storefront/internal/mocks/repository"
	mockSvc "storefront/internal/mocks/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// orderServiceFixtures holds all test dependencies for order service tests.
type orderServiceFixtures struct {
	service     usecase.OrderUsecase
	txManager   *mockRepo.MockTransactionManager
	factory     *mockRepo.MockRepositoryFactory
	cartRepo    *mockRepo.MockCartRepository
	orderRepo   *mockRepo.MockOrderRepository
	productRepo *mockRepo.MockProductRepository
	qrService   *mockSvc.MockQRCodeService
	publisher   *mockSvc.MockEventPublisher
}

func createTestOrderService(t *testing.T) orderServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	factory := mockRepo.NewMockRepositoryFactory(t)
	cartRepo := mockRepo.NewMockCartRepository(t)
	orderRepo := mockRepo.NewMockOrderRepository(t)
	productRepo := mockRepo.NewMockProductRepository(t)
	qrService := mockSvc.NewMockQRCodeService(t)
	publisher := mockSvc.NewMockEventPublisher(t)

	service := NewOrderService(OrderServiceParams{
		TxManager: txManager,
		CartRepo:  cartRepo,
		OrderRepo: orderRepo,
		QRService: qrService,
		Publisher: publisher,
		Config:    newTestConfig(),
		Logger:    newDiscardLogger(),
	})

	return orderServiceFixtures{
		service:     service,
		txManager:   txManager,
		factory:     factory,
		cartRepo:    cartRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		qrService:   qrService,
		publisher:   publisher,
	}
}

// expectTransaction wires the transaction manager mock to run the callback
// against the fixture's factory, which hands out the fixture repositories.
func (fx orderServiceFixtures) expectTransaction(ctx context.Context) {
	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(_ context.Context, fn func(repository.RepositoryFactory) error) error {
			return fn(fx.factory)
		})
}

func checkoutInput() *usecase.CheckoutInput {
	return &usecase.CheckoutInput{
		Shipping: usecase.ShippingAddressInput{
			FullName:   "Ada Chen",
			Phone:      "0912345678",
			Line1:      "No. 7, Lane 12",
			City:       "Taipei",
			PostalCode: "10617",
			Country:    "TW",
		},
		PaymentMethod: "card",
	}
}

func cartWithItems(userID uuid.UUID, products ...*entity.Product) *entity.Cart {
	cart := entity.NewCart(userID)
	for _, p := range products {
		if _, err := cart.AddItem(p.ID, p.Name, p.Image, p.Price, 2, nil); err != nil {
			panic(err)
		}
	}
	cart.ApplyShippingFee(500)

	return cart
}

func TestOrderService_Checkout_Success(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	userID := uuid.New()
	product := activeProduct(2500, 10)
	cart := cartWithItems(userID, product)

	fx.cartRepo.EXPECT().
		FindByUserID(ctx, userID).
		Return(cart, nil)

	fx.expectTransaction(ctx)
	fx.factory.EXPECT().NewOrderRepository().Return(fx.orderRepo)
	fx.factory.EXPECT().NewProductRepository().Return(fx.productRepo)
	fx.factory.EXPECT().NewCartRepository().Return(fx.cartRepo)

	fx.orderRepo.EXPECT().
		Count(ctx).
		Return(41, nil)

	fx.orderRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Order")).
		Return(nil)

	fx.productRepo.EXPECT().
		DecrementStock(ctx, product.ID, 2).
		Return(nil)

	fx.cartRepo.EXPECT().
		Save(ctx, cart).
		Return(nil)

	fx.publisher.EXPECT().
		PublishOrderEvent(ctx, mock.AnythingOfType("*service.OrderEvent")).
		Return(nil)

	order, err := fx.service.Checkout(ctx, userID, checkoutInput())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD"))
	assert.True(t, strings.HasSuffix(order.OrderNumber, "000042"))
	assert.Equal(t, entity.OrderStatusPending, order.Status)
	assert.Equal(t, entity.PaymentStatusPending, order.PaymentStatus)
	require.Len(t, order.Items, 1)
	assert.Equal(t, int64(5000), order.Subtotal)
	assert.Equal(t, int64(500), order.ShippingFee)
	// 18% of 5000, rounded half up.
	assert.Equal(t, int64(900), order.TaxAmount)
	assert.Equal(t, int64(6400), order.TotalAmount)
	require.Len(t, order.StatusHistory, 1)
	assert.Equal(t, entity.OrderStatusPending, order.StatusHistory[0].Status)

	// The cart was emptied as part of the same transaction, with no
	// leftover shipping fee inflating the persisted grand total.
	assert.True(t, cart.IsEmpty())
	assert.Zero(t, cart.ShippingFee)
	assert.Zero(t, cart.GrandTotal)
}

func TestOrderService_Checkout_EmptyCart(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	userID := uuid.New()

	fx.cartRepo.EXPECT().
		FindByUserID(ctx, userID).
		Return(entity.NewCart(userID), nil)

	_, err := fx.service.Checkout(ctx, userID, checkoutInput())
	assert.ErrorIs(t, err, domainerrors.ErrCartEmpty)
}

func TestOrderService_Checkout_NoCart(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	userID := uuid.New()

	fx.cartRepo.EXPECT().
		FindByUserID(ctx, userID).
		Return(nil, repository.ErrCartNotFound)

	_, err := fx.service.Checkout(ctx, userID, checkoutInput())
	assert.ErrorIs(t, err, domainerrors.ErrCartEmpty)
}

func TestOrderService_Checkout_InsufficientStockRollsBack(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	userID := uuid.New()
	product := activeProduct(2500, 1)
	cart := cartWithItems(userID, product)

	fx.cartRepo.EXPECT().
		FindByUserID(ctx, userID).
		Return(cart, nil)

	fx.expectTransaction(ctx)
	fx.factory.EXPECT().NewOrderRepository().Return(fx.orderRepo)
	fx.factory.EXPECT().NewProductRepository().Return(fx.productRepo)
	fx.factory.EXPECT().NewCartRepository().Return(fx.cartRepo)

	fx.orderRepo.EXPECT().
		Count(ctx).
		Return(0, nil)

	fx.orderRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Order")).
		Return(nil)

	fx.productRepo.EXPECT().
		DecrementStock(ctx, product.ID, 2).
		Return(repository.ErrInsufficientStock)

	_, err := fx.service.Checkout(ctx, userID, checkoutInput())
	assert.ErrorIs(t, err, domainerrors.ErrInsufficientStock)
}

func TestOrderService_Checkout_MissingProductSkipsDecrement(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	userID := uuid.New()
	product := activeProduct(2500, 10)
	vanished := activeProduct(1000, 10)
	cart := cartWithItems(userID, product, vanished)

	fx.cartRepo.EXPECT().
		FindByUserID(ctx, userID).
		Return(cart, nil)

	fx.expectTransaction(ctx)
	fx.factory.EXPECT().NewOrderRepository().Return(fx.orderRepo)
	fx.factory.EXPECT().NewProductRepository().Return(fx.productRepo)
	fx.factory.EXPECT().NewCartRepository().Return(fx.cartRepo)

	fx.orderRepo.EXPECT().
		Count(ctx).
		Return(0, nil)

	fx.orderRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Order")).
		Return(nil)

	fx.productRepo.EXPECT().
		DecrementStock(ctx, product.ID, 2).
		Return(nil)

	fx.productRepo.EXPECT().
		DecrementStock(ctx, vanished.ID, 2).
		Return(repository.ErrProductNotFound)

	fx.cartRepo.EXPECT().
		Save(ctx, cart).
		Return(nil)

	fx.publisher.EXPECT().
		PublishOrderEvent(ctx, mock.AnythingOfType("*service.OrderEvent")).
		Return(nil)

	order, err := fx.service.Checkout(ctx, userID, checkoutInput())
	require.NoError(t, err)
	// The vanished product stays on the order snapshot regardless.
	assert.Len(t, order.Items, 2)
}

func TestOrderService_Checkout_PublishFailureDoesNotFailCheckout(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	userID := uuid.New()
	product := activeProduct(2500, 10)
	cart := cartWithItems(userID, product)

	fx.cartRepo.EXPECT().
		FindByUserID(ctx, userID).
		Return(cart, nil)

	fx.expectTransaction(ctx)
	fx.factory.EXPECT().NewOrderRepository().Return(fx.orderRepo)
	fx.factory.EXPECT().NewProductRepository().Return(fx.productRepo)
	fx.factory.EXPECT().NewCartRepository().Return(fx.cartRepo)

	fx.orderRepo.EXPECT().Count(ctx).Return(0, nil)
	fx.orderRepo.EXPECT().Create(ctx, mock.AnythingOfType("*entity.Order")).Return(nil)
	fx.productRepo.EXPECT().DecrementStock(ctx, product.ID, 2).Return(nil)
	fx.cartRepo.EXPECT().Save(ctx, cart).Return(nil)

	fx.publisher.EXPECT().
		PublishOrderEvent(ctx, mock.AnythingOfType("*service.OrderEvent")).
		Return(errors.New("broker unavailable"))

	_, err := fx.service.Checkout(ctx, userID, checkoutInput())
	assert.NoError(t, err)
}

func TestOrderService_GetOrder_OtherUsersOrderHidden(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	orderID := uuid.New()
	order := &entity.Order{ID: orderID, UserID: uuid.New()}

	fx.orderRepo.EXPECT().
		FindByID(ctx, orderID).
		Return(order, nil)

	_, err := fx.service.GetOrder(ctx, uuid.New(), orderID)
	assert.ErrorIs(t, err, domainerrors.ErrOrderNotFound)
}

func TestOrderService_CancelOrder_RestoresStock(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	userID := uuid.New()
	orderID := uuid.New()
	productID := uuid.New()

	order := &entity.Order{
		ID:     orderID,
		UserID: userID,
		Items:  []entity.OrderItem{{ProductID: productID, Quantity: 3}},
	}
	order.InitializeStatus(order.CreatedAt)

	fx.expectTransaction(ctx)
	fx.factory.EXPECT().NewOrderRepository().Return(fx.orderRepo)
	fx.factory.EXPECT().NewProductRepository().Return(fx.productRepo)

	fx.orderRepo.EXPECT().
		FindByID(ctx, orderID).
		Return(order, nil)

	fx.orderRepo.EXPECT().
		Update(ctx, order).
		Return(nil)

	fx.productRepo.EXPECT().
		IncrementStock(ctx, productID, 3).
		Return(nil)

	fx.publisher.EXPECT().
		PublishOrderEvent(ctx, mock.AnythingOfType("*service.OrderEvent")).
		Return(nil)

	cancelled, err := fx.service.CancelOrder(ctx, userID, orderID, "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)
}

func TestOrderService_CancelOrder_ShippedOrderRejected(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	userID := uuid.New()
	orderID := uuid.New()

	order := &entity.Order{ID: orderID, UserID: userID, Status: entity.OrderStatusShipped}

	fx.expectTransaction(ctx)
	fx.factory.EXPECT().NewOrderRepository().Return(fx.orderRepo)
	fx.factory.EXPECT().NewProductRepository().Return(fx.productRepo)

	fx.orderRepo.EXPECT().
		FindByID(ctx, orderID).
		Return(order, nil)

	_, err := fx.service.CancelOrder(ctx, userID, orderID, "")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidOrderState)
}

func TestOrderService_AdvanceStatus_ValidTransition(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	orderID := uuid.New()
	order := &entity.Order{ID: orderID, UserID: uuid.New(), Status: entity.OrderStatusPending}

	fx.orderRepo.EXPECT().
		FindByID(ctx, orderID).
		Return(order, nil)

	fx.orderRepo.EXPECT().
		Update(ctx, order).
		Return(nil)

	fx.publisher.EXPECT().
		PublishOrderEvent(ctx, mock.AnythingOfType("*service.OrderEvent")).
		Return(nil)

	updated, err := fx.service.AdvanceStatus(ctx, orderID, &usecase.ChangeStatusInput{Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusConfirmed, updated.Status)
	assert.NotNil(t, updated.ConfirmedAt)
}

func TestOrderService_AdvanceStatus_SkippingStateRejected(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	orderID := uuid.New()
	order := &entity.Order{ID: orderID, UserID: uuid.New(), Status: entity.OrderStatusPending}

	fx.orderRepo.EXPECT().
		FindByID(ctx, orderID).
		Return(order, nil)

	_, err := fx.service.AdvanceStatus(ctx, orderID, &usecase.ChangeStatusInput{Status: "shipped"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidOrderState)
}

func TestOrderService_AdvanceStatus_UnknownStatus(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()

	_, err := fx.service.AdvanceStatus(ctx, uuid.New(), &usecase.ChangeStatusInput{Status: "teleported"})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestOrderService_AdvanceStatus_IdempotentReentryPublishesNothing(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	orderID := uuid.New()
	order := &entity.Order{ID: orderID, UserID: uuid.New()}
	order.InitializeStatus(order.CreatedAt)
	require.NoError(t, order.ChangeStatus(entity.OrderStatusConfirmed, ""))
	historyLen := len(order.StatusHistory)

	fx.orderRepo.EXPECT().
		FindByID(ctx, orderID).
		Return(order, nil)

	fx.orderRepo.EXPECT().
		Update(ctx, order).
		Return(nil)

	updated, err := fx.service.AdvanceStatus(ctx, orderID, &usecase.ChangeStatusInput{Status: "confirmed", Note: "re-confirmed"})
	require.NoError(t, err)
	assert.Len(t, updated.StatusHistory, historyLen)
	assert.Equal(t, "re-confirmed", updated.StatusHistory[historyLen-1].Note)
}

func TestOrderService_MarkAsPaid(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	orderID := uuid.New()
	order := &entity.Order{ID: orderID, UserID: uuid.New(), PaymentStatus: entity.PaymentStatusPending}

	fx.orderRepo.EXPECT().
		FindByID(ctx, orderID).
		Return(order, nil)

	fx.orderRepo.EXPECT().
		Update(ctx, order).
		Return(nil)

	paid, err := fx.service.MarkAsPaid(ctx, orderID, "pay_ref_8731")
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, paid.PaymentStatus)
	assert.Equal(t, "pay_ref_8731", paid.PaymentRef)
}

func TestOrderService_OrderQR(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	userID := uuid.New()
	orderID := uuid.New()
	order := &entity.Order{ID: orderID, UserID: userID, OrderNumber: "ORD20260901120000000001"}

	fx.orderRepo.EXPECT().
		FindByID(ctx, orderID).
		Return(order, nil)

	fx.qrService.EXPECT().
		GenerateOrderQR(order.OrderNumber).
		Return([]byte{0x89, 0x50, 0x4e, 0x47}, nil)

	png, err := fx.service.OrderQR(ctx, userID, orderID)
	require.NoError(t, err)
	assert.NotEmpty(t, png)
}
