// Package model contains the GORM persistence models mirroring the database schema.
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProductModel mirrors the 'products' table. PostgreSQL generates UUIDs via uuid_generate_v7().
// It is an exported type so it can be used by the GORM Gen tool from other packages.
type ProductModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	Image       string    `gorm:"type:varchar(512)"`
	Price       int64     `gorm:"not null"`
	Stock       int       `gorm:"not null;default:0;check:stock >= 0"`
	Variants    datatypes.JSON
	// Denormalized review aggregate, rebuilt by the review service.
	RatingAverage float64 `gorm:"not null;default:0"`
	RatingCount   int     `gorm:"not null;default:0"`
	IsActive      bool    `gorm:"not null;default:true;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}
