package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// OrderModel mirrors the 'orders' table. Orders are write-once snapshots:
// after creation only the status bookkeeping and payment columns change.
type OrderModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	OrderNumber    string    `gorm:"type:varchar(32);uniqueIndex;not null"`
	UserID         uuid.UUID `gorm:"type:uuid;index;not null"`
	Shipping       datatypes.JSON
	Subtotal       int64  `gorm:"not null"`
	DiscountAmount int64  `gorm:"not null;default:0"`
	ShippingFee    int64  `gorm:"not null;default:0"`
	TaxAmount      int64  `gorm:"not null;default:0"`
	TotalAmount    int64  `gorm:"not null"`
	PaymentMethod  string `gorm:"type:varchar(32);not null"`
	PaymentStatus  string `gorm:"type:varchar(16);not null"`
	PaymentRef     string `gorm:"type:varchar(128)"`
	Status         string `gorm:"type:varchar(16);not null;index"`
	StatusHistory  datatypes.JSON
	Note           string `gorm:"type:text"`
	ConfirmedAt    *time.Time
	ShippedAt      *time.Time
	DeliveredAt    *time.Time
	CancelledAt    *time.Time
	CreatedAt      time.Time `gorm:"index"`
	UpdatedAt      time.Time

	Items []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel mirrors the 'order_items' table. Rows are immutable line
// snapshots; product_id is a weak reference that survives product deletion.
type OrderItemModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	OrderID     uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Image       string    `gorm:"type:varchar(512)"`
	VariantName string    `gorm:"type:varchar(128)"`
	UnitPrice   int64     `gorm:"not null"`
	Quantity    int       `gorm:"not null"`
	LineTotal   int64     `gorm:"not null"`
	CreatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (OrderItemModel) TableName() string {
	return "order_items"
}
