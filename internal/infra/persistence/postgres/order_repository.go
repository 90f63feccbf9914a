package postgres

import (
	"context"
	"encoding/json"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// orderRepository implements the domain's OrderRepository interface using GORM.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

// Create persists a new order aggregate, item snapshots included.
func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)

	if err := repo.db.WithContext(ctx).Create(orderM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateOrderNumber
		}

		return errors.Wrap(err, "failed to create order")
	}

	order.CreatedAt = orderM.CreatedAt
	order.UpdatedAt = orderM.UpdatedAt

	return nil
}

// FindByID retrieves a single order by its unique ID, items included.
func (repo *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel
	err := repo.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_items.created_at ASC")
		}).
		First(&orderM, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by id")
	}

	return toOrderDomain(&orderM), nil
}

// FindByUserID retrieves a user's orders, most recent first.
func (repo *orderRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Order, error) {
	var orderMs []*model.OrderModel
	err := repo.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&orderMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find orders by user id")
	}

	orders := make([]*entity.Order, 0, len(orderMs))
	for _, orderM := range orderMs {
		orders = append(orders, toOrderDomain(orderM))
	}

	return orders, nil
}

// Update persists the order's status bookkeeping. Item snapshots and totals
// are write-once and deliberately excluded from the column list.
func (repo *orderRepository) Update(ctx context.Context, order *entity.Order) error {
	history, err := json.Marshal(order.StatusHistory)
	if err != nil {
		return errors.Wrap(err, "failed to marshal status history")
	}

	result := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ?", order.ID).
		Updates(map[string]any{
			"status":         order.Status.String(),
			"status_history": datatypes.JSON(history),
			"payment_status": string(order.PaymentStatus),
			"payment_ref":    order.PaymentRef,
			"confirmed_at":   order.ConfirmedAt,
			"shipped_at":     order.ShippedAt,
			"delivered_at":   order.DeliveredAt,
			"cancelled_at":   order.CancelledAt,
			"updated_at":     order.UpdatedAt,
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update order")
	}

	if result.RowsAffected == 0 {
		return repository.ErrOrderNotFound
	}

	return nil
}

// Count returns the total number of orders ever created.
func (repo *orderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&model.OrderModel{}).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count orders")
	}

	return count, nil
}

// toOrderDomain converts a GORM OrderModel to a pure domain Order aggregate.
func toOrderDomain(data *model.OrderModel) *entity.Order {
	if data == nil {
		return nil
	}

	var shipping entity.ShippingAddress
	if len(data.Shipping) > 0 {
		_ = json.Unmarshal(data.Shipping, &shipping)
	}

	var history []entity.StatusHistoryEntry
	if len(data.StatusHistory) > 0 {
		_ = json.Unmarshal(data.StatusHistory, &history)
	}

	items := make([]entity.OrderItem, 0, len(data.Items))
	for idx := range data.Items {
		itemM := &data.Items[idx]
		items = append(items, entity.OrderItem{
			ID:          itemM.ID,
			ProductID:   itemM.ProductID,
			Name:        itemM.Name,
			Image:       itemM.Image,
			VariantName: itemM.VariantName,
			UnitPrice:   itemM.UnitPrice,
			Quantity:    itemM.Quantity,
			LineTotal:   itemM.LineTotal,
		})
	}

	return &entity.Order{
		ID:             data.ID,
		OrderNumber:    data.OrderNumber,
		UserID:         data.UserID,
		Items:          items,
		Shipping:       shipping,
		Subtotal:       data.Subtotal,
		DiscountAmount: data.DiscountAmount,
		ShippingFee:    data.ShippingFee,
		TaxAmount:      data.TaxAmount,
		TotalAmount:    data.TotalAmount,
		PaymentMethod:  data.PaymentMethod,
		PaymentStatus:  entity.PaymentStatus(data.PaymentStatus),
		PaymentRef:     data.PaymentRef,
		Status:         entity.OrderStatus(data.Status),
		StatusHistory:  history,
		Note:           data.Note,
		ConfirmedAt:    data.ConfirmedAt,
		ShippedAt:      data.ShippedAt,
		DeliveredAt:    data.DeliveredAt,
		CancelledAt:    data.CancelledAt,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}

// fromOrderDomain converts a domain Order aggregate to a GORM OrderModel.
func fromOrderDomain(data *entity.Order) *model.OrderModel {
	if data == nil {
		return nil
	}

	shipping, _ := json.Marshal(data.Shipping)
	history, _ := json.Marshal(data.StatusHistory)

	items := make([]model.OrderItemModel, 0, len(data.Items))
	for idx := range data.Items {
		item := &data.Items[idx]
		items = append(items, model.OrderItemModel{
			ID:          item.ID,
			OrderID:     data.ID,
			ProductID:   item.ProductID,
			Name:        item.Name,
			Image:       item.Image,
			VariantName: item.VariantName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal,
		})
	}

	return &model.OrderModel{
		ID:             data.ID,
		OrderNumber:    data.OrderNumber,
		UserID:         data.UserID,
		Shipping:       datatypes.JSON(shipping),
		Subtotal:       data.Subtotal,
		DiscountAmount: data.DiscountAmount,
		ShippingFee:    data.ShippingFee,
		TaxAmount:      data.TaxAmount,
		TotalAmount:    data.TotalAmount,
		PaymentMethod:  data.PaymentMethod,
		PaymentStatus:  string(data.PaymentStatus),
		PaymentRef:     data.PaymentRef,
		Status:         data.Status.String(),
		StatusHistory:  datatypes.JSON(history),
		Note:           data.Note,
		ConfirmedAt:    data.ConfirmedAt,
		ShippedAt:      data.ShippedAt,
		DeliveredAt:    data.DeliveredAt,
		CancelledAt:    data.CancelledAt,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
		Items:          items,
	}
}
