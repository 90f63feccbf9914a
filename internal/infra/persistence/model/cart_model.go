package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CartModel mirrors the 'carts' table. A user owns at most one cart,
// enforced by the unique index on user_id. Derived totals are not stored;
// they are rebuilt from the item rows on load.
type CartModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID         uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	DiscountAmount int64     `gorm:"not null;default:0"`
	ShippingFee    int64     `gorm:"not null;default:0"`
	IsActive       bool      `gorm:"not null;default:false"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Items []CartItemModel `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (CartModel) TableName() string {
	return "carts"
}

// CartItemModel mirrors the 'cart_items' table. One row per cart line;
// the variant selection is stored as a JSON snapshot.
type CartItemModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	CartID    uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Image     string    `gorm:"type:varchar(512)"`
	UnitPrice int64     `gorm:"not null"`
	Quantity  int       `gorm:"not null;check:quantity > 0"`
	Variant   datatypes.JSON
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (CartItemModel) TableName() string {
	return "cart_items"
}
