package impl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const orderNumberTimeLayout = "20060102150405"

// orderService implements the OrderUsecase interface.
type orderService struct {
	txManager repository.TransactionManager
	cartRepo  repository.CartRepository
	orderRepo repository.OrderRepository
	qrSvc     service.QRCodeService
	publisher service.EventPublisher
	checkout  *config.CheckoutConfig
	logger    *slog.Logger
}

// OrderServiceParams holds dependencies for orderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	CartRepo  repository.CartRepository
	OrderRepo repository.OrderRepository
	QRService service.QRCodeService
	Publisher service.EventPublisher
	Config    *config.Config
	Logger    *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	checkout := params.Config.Checkout
	if checkout == nil {
		checkout = &config.CheckoutConfig{}
	}

	return &orderService{
		txManager: params.TxManager,
		cartRepo:  params.CartRepo,
		orderRepo: params.OrderRepo,
		qrSvc:     params.QRService,
		publisher: params.Publisher,
		checkout:  checkout,
		logger:    params.Logger,
	}
}

func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Checkout converts the user's cart into an order. Order creation, stock
// decrements and cart clearing run inside one transaction, so a failed stock
// reservation rolls back the order and leaves the cart intact.
func (srv *orderService) Checkout(ctx context.Context, userID uuid.UUID, input *usecase.CheckoutInput) (*entity.Order, error) {
	cart, err := srv.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil, domainerrors.ErrCartEmpty
		}

		return nil, fmt.Errorf("failed to find cart by user: %w", err)
	}
	if cart.IsEmpty() {
		return nil, domainerrors.ErrCartEmpty
	}

	order := srv.buildOrder(userID, cart, input)

	err = srv.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		txOrders := factory.NewOrderRepository()
		txProducts := factory.NewProductRepository()
		txCarts := factory.NewCartRepository()

		count, err := txOrders.Count(ctx)
		if err != nil {
			return fmt.Errorf("failed to count orders: %w", err)
		}
		order.OrderNumber = formatOrderNumber(order.CreatedAt, count+1)

		if err := txOrders.Create(ctx, order); err != nil {
			if errors.Is(err, repository.ErrDuplicateOrderNumber) {
				return domainerrors.ErrOrderNumberConflict
			}

			return fmt.Errorf("failed to create order: %w", err)
		}

		for idx := range order.Items {
			item := &order.Items[idx]

			err := txProducts.DecrementStock(ctx, item.ProductID, item.Quantity)
			if errors.Is(err, repository.ErrProductNotFound) {
				// The product vanished between cart validation and checkout.
				// The order keeps its snapshot; only the stock ledger is skipped.
				srv.log(ctx).Warn("Checkout stock decrement skipped for missing product",
					slog.Any("productID", item.ProductID),
					slog.String("orderNumber", order.OrderNumber),
				)

				continue
			}
			if errors.Is(err, repository.ErrInsufficientStock) {
				return domainerrors.ErrInsufficientStock.WithDetails(item.Name)
			}
			if err != nil {
				return fmt.Errorf("failed to decrement stock: %w", err)
			}
		}

		cart.Clear()
		if err := txCarts.Save(ctx, cart); err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.publishOrderEvent(ctx, service.EventTypeOrderCreated, order)

	srv.log(ctx).Info("Order created",
		slog.Any("userID", userID),
		slog.String("orderNumber", order.OrderNumber),
		slog.Int64("totalAmount", order.TotalAmount),
	)

	return order, nil
}

// GetOrder returns one of the user's orders. Orders owned by other users are
// reported as not found rather than forbidden.
func (srv *orderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*entity.Order, error) {
	return srv.findOwnedOrder(ctx, userID, orderID)
}

// ListOrders returns the user's orders, most recent first.
func (srv *orderService) ListOrders(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Order, error) {
	orders, err := srv.orderRepo.FindByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to find orders by user: %w", err)
	}

	return orders, nil
}

// CancelOrder cancels one of the user's orders and restores the reserved
// stock inside the same transaction as the status change.
func (srv *orderService) CancelOrder(ctx context.Context, userID, orderID uuid.UUID, note string) (*entity.Order, error) {
	var order *entity.Order

	err := srv.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		txOrders := factory.NewOrderRepository()
		txProducts := factory.NewProductRepository()

		found, err := txOrders.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return domainerrors.ErrOrderNotFound
			}

			return fmt.Errorf("failed to find order by ID: %w", err)
		}
		if found.UserID != userID {
			return domainerrors.ErrOrderNotFound
		}

		if err := found.Cancel(note); err != nil {
			if errors.Is(err, entity.ErrOrderNotCancellable) {
				return domainerrors.ErrInvalidOrderState
			}

			return fmt.Errorf("failed to cancel order: %w", err)
		}

		if err := txOrders.Update(ctx, found); err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		for idx := range found.Items {
			item := &found.Items[idx]

			err := txProducts.IncrementStock(ctx, item.ProductID, item.Quantity)
			if errors.Is(err, repository.ErrProductNotFound) {
				srv.log(ctx).Warn("Cancel stock restore skipped for missing product",
					slog.Any("productID", item.ProductID),
					slog.String("orderNumber", found.OrderNumber),
				)

				continue
			}
			if err != nil {
				return fmt.Errorf("failed to restore stock: %w", err)
			}
		}

		order = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.publishOrderEvent(ctx, service.EventTypeOrderStatusChanged, order)

	return order, nil
}

// AdvanceStatus moves an order through the fulfilment state machine.
func (srv *orderService) AdvanceStatus(ctx context.Context, orderID uuid.UUID, input *usecase.ChangeStatusInput) (*entity.Order, error) {
	target := entity.OrderStatus(input.Status)
	if !target.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails(
			fmt.Sprintf("unknown order status %q", input.Status))
	}

	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, domainerrors.ErrOrderNotFound
		}

		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	previous := order.Status
	if err := order.ChangeStatus(target, input.Note); err != nil {
		if errors.Is(err, entity.ErrInvalidStatusTransition) {
			return nil, domainerrors.ErrInvalidOrderState.WithDetails(
				fmt.Sprintf("cannot move from %s to %s", order.Status, target))
		}

		return nil, fmt.Errorf("failed to change order status: %w", err)
	}

	if err := srv.orderRepo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	if previous != order.Status {
		srv.publishOrderEvent(ctx, service.EventTypeOrderStatusChanged, order)
	}

	return order, nil
}

// MarkAsPaid records a successful payment with its external reference.
func (srv *orderService) MarkAsPaid(ctx context.Context, orderID uuid.UUID, paymentRef string) (*entity.Order, error) {
	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, domainerrors.ErrOrderNotFound
		}

		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	order.MarkAsPaid(paymentRef)

	if err := srv.orderRepo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	return order, nil
}

// OrderQR renders the PNG QR code of one of the user's order numbers.
func (srv *orderService) OrderQR(ctx context.Context, userID, orderID uuid.UUID) ([]byte, error) {
	order, err := srv.findOwnedOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	png, err := srv.qrSvc.GenerateOrderQR(order.OrderNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to generate order QR code: %w", err)
	}

	return png, nil
}

func (srv *orderService) findOwnedOrder(ctx context.Context, userID, orderID uuid.UUID) (*entity.Order, error) {
	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, domainerrors.ErrOrderNotFound
		}

		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}
	if order.UserID != userID {
		return nil, domainerrors.ErrOrderNotFound
	}

	return order, nil
}

// buildOrder assembles the immutable order snapshot from the cart. Totals are
// computed once here and never recomputed afterwards.
func (srv *orderService) buildOrder(userID uuid.UUID, cart *entity.Cart, input *usecase.CheckoutInput) *entity.Order {
	now := time.Now()

	items := make([]entity.OrderItem, 0, len(cart.Items))
	for idx := range cart.Items {
		line := &cart.Items[idx]
		items = append(items, entity.OrderItem{
			ID:          uuid.New(),
			ProductID:   line.ProductID,
			Name:        line.Name,
			Image:       line.Image,
			VariantName: variantDescriptor(line.Variant),
			UnitPrice:   line.EffectivePrice(),
			Quantity:    line.Quantity,
			LineTotal:   line.LineTotal,
		})
	}

	tax := taxAmount(cart.Subtotal, srv.checkout.TaxRatePercent)

	order := &entity.Order{
		ID:     uuid.New(),
		UserID: userID,
		Items:  items,
		Shipping: entity.ShippingAddress{
			FullName:   input.Shipping.FullName,
			Phone:      input.Shipping.Phone,
			Line1:      input.Shipping.Line1,
			Line2:      input.Shipping.Line2,
			City:       input.Shipping.City,
			PostalCode: input.Shipping.PostalCode,
			Country:    input.Shipping.Country,
		},
		Subtotal:       cart.Subtotal,
		DiscountAmount: cart.DiscountAmount,
		ShippingFee:    cart.ShippingFee,
		TaxAmount:      tax,
		TotalAmount:    cart.Subtotal - cart.DiscountAmount + cart.ShippingFee + tax,
		PaymentMethod:  input.PaymentMethod,
		PaymentStatus:  entity.PaymentStatusPending,
		Note:           input.Note,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	order.InitializeStatus(now)

	return order
}

func (srv *orderService) publishOrderEvent(ctx context.Context, eventType string, order *entity.Order) {
	event := &service.OrderEvent{
		RequestID:   deliverycontext.GetRequestIDFromContext(ctx),
		EventType:   eventType,
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID.String(),
		Status:      order.Status.String(),
		TotalAmount: order.TotalAmount,
		OccurredAt:  time.Now(),
	}

	if err := srv.publisher.PublishOrderEvent(ctx, event); err != nil {
		// Event delivery is best-effort; the order itself is already committed.
		srv.log(ctx).Error("Failed to publish order event",
			slog.String("eventType", eventType),
			slog.String("orderNumber", order.OrderNumber),
			slog.Any("error", err),
		)
	}
}

// formatOrderNumber builds the human-facing order number from the creation
// time and the running order count, e.g. ORD20260901120000000042.
func formatOrderNumber(createdAt time.Time, sequence int64) string {
	return fmt.Sprintf("ORD%s%06d", createdAt.Format(orderNumberTimeLayout), sequence)
}

// taxAmount computes the tax as a whole-percent share of the subtotal in
// minor currency units, rounding half up.
func taxAmount(subtotal int64, ratePercent int) int64 {
	if ratePercent <= 0 || subtotal <= 0 {
		return 0
	}

	return (subtotal*int64(ratePercent) + 50) / 100
}

// variantDescriptor flattens a selected variant into the snapshot's display
// string, e.g. "size: XL".
func variantDescriptor(variant *entity.SelectedVariant) string {
	if variant == nil {
		return ""
	}

	return fmt.Sprintf("%s: %s", variant.Name, variant.Value)
}
