// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProductVariant is a named product option (e.g. size/color) that may
// override price and stock independently of the base product.
type ProductVariant struct {
	Name  string // Option name, e.g. "size".
	Value string // Option value, e.g. "XL".
	Price *int64 // Optional price override in minor currency units.
	Stock *int   // Optional stock override; nil means the base stock applies.
}

// RatingSummary is the denormalized review aggregate stored on a product.
// It is rebuilt in full by the review service after every review change.
type RatingSummary struct {
	Average float64 // Arithmetic mean rating, rounded to one decimal.
	Count   int     // Number of active, approved reviews.
}

// Product is a catalog entry. Stock is a plain counter that must only be
// mutated through atomic storage-level increments and decrements, never by
// read-modify-write in application code. Products referenced by orders are
// deactivated via IsActive rather than deleted.
type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	Image       string
	Price       int64 // Base price in minor currency units.
	Stock       int   // Invariant: never negative.
	Variants    []ProductVariant
	Rating      RatingSummary
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EffectivePrice returns the price for the given variant selection, falling
// back to the base price when the variant carries no override.
func (p *Product) EffectivePrice(variant *SelectedVariant) int64 {
	if variant == nil {
		return p.Price
	}

	for idx := range p.Variants {
		v := &p.Variants[idx]
		if v.Name == variant.Name && v.Value == variant.Value && v.Price != nil {
			return *v.Price
		}
	}

	return p.Price
}

// AvailableStock returns the stock for the given variant selection, falling
// back to the base stock when the variant carries no override.
func (p *Product) AvailableStock(variant *SelectedVariant) int {
	if variant == nil {
		return p.Stock
	}

	for idx := range p.Variants {
		v := &p.Variants[idx]
		if v.Name == variant.Name && v.Value == variant.Value && v.Stock != nil {
			return *v.Stock
		}
	}

	return p.Stock
}

// FindVariant returns the variant matching the selection, or nil.
func (p *Product) FindVariant(name, value string) *ProductVariant {
	for idx := range p.Variants {
		if p.Variants[idx].Name == name && p.Variants[idx].Value == value {
			return &p.Variants[idx]
		}
	}

	return nil
}
