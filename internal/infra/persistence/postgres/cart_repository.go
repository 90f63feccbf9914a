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

// cartRepository implements the domain's CartRepository interface using GORM.
type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository is the constructor for cartRepository.
func NewCartRepository(db *gorm.DB) repository.CartRepository {
	return &cartRepository{db: db}
}

// FindByUserID retrieves the cart owned by the given user, items included.
func (repo *cartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	var cartM model.CartModel
	err := repo.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.created_at ASC")
		}).
		First(&cartM, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCartNotFound
		}

		return nil, errors.Wrap(err, "failed to find cart by user id")
	}

	return toCartDomain(&cartM), nil
}

// Create persists a new cart aggregate, items included.
func (repo *cartRepository) Create(ctx context.Context, cart *entity.Cart) error {
	cartM := fromCartDomain(cart)

	if err := repo.db.WithContext(ctx).Create(cartM).Error; err != nil {
		return errors.Wrap(err, "failed to create cart")
	}

	cart.CreatedAt = cartM.CreatedAt
	cart.UpdatedAt = cartM.UpdatedAt

	return nil
}

// Save replaces the persisted cart aggregate with the given state. Header
// and item rows are written in one transaction so every cart mutation is a
// single atomic write.
func (repo *cartRepository) Save(ctx context.Context, cart *entity.Cart) error {
	cartM := fromCartDomain(cart)

	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cartM.ID).Delete(&model.CartItemModel{}).Error; err != nil {
			return errors.Wrap(err, "failed to delete cart items")
		}

		if err := tx.Omit("Items").Save(&model.CartModel{
			ID:             cartM.ID,
			UserID:         cartM.UserID,
			DiscountAmount: cartM.DiscountAmount,
			ShippingFee:    cartM.ShippingFee,
			IsActive:       cartM.IsActive,
			CreatedAt:      cartM.CreatedAt,
			UpdatedAt:      cartM.UpdatedAt,
		}).Error; err != nil {
			return errors.Wrap(err, "failed to save cart")
		}

		if len(cartM.Items) > 0 {
			if err := tx.Create(&cartM.Items).Error; err != nil {
				return errors.Wrap(err, "failed to save cart items")
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	return nil
}

// toCartDomain converts a GORM CartModel to a pure domain Cart aggregate.
// Derived totals are not stored; the entity rebuilds them from the lines.
func toCartDomain(data *model.CartModel) *entity.Cart {
	if data == nil {
		return nil
	}

	items := make([]entity.CartItem, 0, len(data.Items))
	for idx := range data.Items {
		itemM := &data.Items[idx]

		var variant *entity.SelectedVariant
		if len(itemM.Variant) > 0 {
			variant = &entity.SelectedVariant{}
			if err := json.Unmarshal(itemM.Variant, variant); err != nil {
				variant = nil
			}
		}

		items = append(items, entity.CartItem{
			ID:        itemM.ID,
			ProductID: itemM.ProductID,
			Name:      itemM.Name,
			Image:     itemM.Image,
			UnitPrice: itemM.UnitPrice,
			Quantity:  itemM.Quantity,
			Variant:   variant,
		})
	}

	cart := &entity.Cart{
		ID:             data.ID,
		UserID:         data.UserID,
		Items:          items,
		DiscountAmount: data.DiscountAmount,
	}
	cart.ApplyShippingFee(data.ShippingFee)

	// Rebuilding totals stamps UpdatedAt; restore the persisted timestamps.
	cart.CreatedAt = data.CreatedAt
	cart.UpdatedAt = data.UpdatedAt

	return cart
}

// fromCartDomain converts a domain Cart aggregate to a GORM CartModel.
func fromCartDomain(data *entity.Cart) *model.CartModel {
	if data == nil {
		return nil
	}

	items := make([]model.CartItemModel, 0, len(data.Items))
	for idx := range data.Items {
		item := &data.Items[idx]

		var variant datatypes.JSON
		if item.Variant != nil {
			raw, _ := json.Marshal(item.Variant)
			variant = datatypes.JSON(raw)
		}

		items = append(items, model.CartItemModel{
			ID:        item.ID,
			CartID:    data.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Variant:   variant,
		})
	}

	return &model.CartModel{
		ID:             data.ID,
		UserID:         data.UserID,
		DiscountAmount: data.DiscountAmount,
		ShippingFee:    data.ShippingFee,
		IsActive:       data.IsActive,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
		Items:          items,
	}
}
