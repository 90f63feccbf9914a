package model

import (
	"time"

	"github.com/google/uuid"
)

// ReviewModel mirrors the 'reviews' table. The composite unique index on
// (user_id, product_id) enforces the one-review-per-user rule.
type ReviewModel struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	ProductID          uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_product;index"`
	UserID             uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_product"`
	Rating             int        `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Title              string     `gorm:"type:varchar(255)"`
	Comment            string     `gorm:"type:text"`
	OrderID            *uuid.UUID `gorm:"type:uuid"`
	IsVerifiedPurchase bool       `gorm:"not null;default:false"`
	IsActive           bool       `gorm:"not null;default:true"`
	IsApproved         bool       `gorm:"not null;default:true"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName explicitly sets the table name for GORM.
func (ReviewModel) TableName() string {
	return "reviews"
}
