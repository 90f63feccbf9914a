// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Cart-level sentinel errors. The usecase layer maps these to API errors.
var (
	// ErrCartLineNotFound is returned when a line ID does not exist in the cart.
	ErrCartLineNotFound = errors.New("cart line not found")
	// ErrInvalidQuantity is returned when an add operation receives a quantity below 1.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// SelectedVariant captures the variant choice a line was added with.
// Price, when set, overrides the product's base price for that line.
type SelectedVariant struct {
	Name  string // Option name, e.g. "size".
	Value string // Option value, e.g. "XL".
	Price *int64 // Optional price override in minor currency units.
}

// Matches reports whether two variant selections refer to the same option.
// Two nil selections match; price overrides do not participate in identity.
func (v *SelectedVariant) Matches(other *SelectedVariant) bool {
	if v == nil || other == nil {
		return v == nil && other == nil
	}

	return v.Name == other.Name && v.Value == other.Value
}

// CartItem is one line in a cart: a product(+variant) selection with a
// quantity and the price snapshot taken when the line was created.
type CartItem struct {
	ID        uuid.UUID        // The unique ID of this line within the cart.
	ProductID uuid.UUID        // Reference to the catalog product.
	Name      string           // Product name snapshot at add-time.
	Image     string           // Product image URL snapshot at add-time.
	UnitPrice int64            // Base product price snapshot, minor currency units.
	Quantity  int              // Always >= 1; zero or negative collapses to removal.
	Variant   *SelectedVariant // Selected variant, nil when the base product was added.
	LineTotal int64            // Derived: effective price x quantity.
}

// EffectivePrice returns the variant price override when present,
// otherwise the product's base price snapshot.
func (i *CartItem) EffectivePrice() int64 {
	if i.Variant != nil && i.Variant.Price != nil {
		return *i.Variant.Price
	}

	return i.UnitPrice
}

// Cart is a user's in-progress selection of products. There is exactly one
// cart per user. All monetary totals are derived values: they are recomputed
// after every mutation and must never be assigned directly.
type Cart struct {
	ID             uuid.UUID  // The unique ID of the cart.
	UserID         uuid.UUID  // The owning user; enforced unique in storage.
	Items          []CartItem // Ordered list of lines.
	Subtotal       int64      // Derived: sum of line totals.
	DiscountAmount int64      // Cart-level discount in minor units.
	ShippingFee    int64      // Flat shipping fee in minor units.
	GrandTotal     int64      // Derived: subtotal - discount + shipping.
	TotalQuantity  int        // Derived: sum of line quantities.
	IsActive       bool       // False once the cart has been emptied or consumed.
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewCart creates an empty, active cart for a user.
func NewCart(userID uuid.UUID) *Cart {
	now := time.Now()

	return &Cart{
		ID:        uuid.New(),
		UserID:    userID,
		Items:     []CartItem{},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddItem merges the given selection into the cart. A line matching the same
// product and variant accumulates quantity; otherwise a new line is appended
// with a price snapshot taken from the provided product fields. Stock is NOT
// checked here; the calling service validates availability beforehand.
func (c *Cart) AddItem(productID uuid.UUID, name, image string, unitPrice int64, quantity int, variant *SelectedVariant) (*CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	for idx := range c.Items {
		line := &c.Items[idx]
		if line.ProductID == productID && line.Variant.Matches(variant) {
			line.Quantity += quantity
			c.recomputeTotals()

			return line, nil
		}
	}

	c.Items = append(c.Items, CartItem{
		ID:        uuid.New(),
		ProductID: productID,
		Name:      name,
		Image:     image,
		UnitPrice: unitPrice,
		Quantity:  quantity,
		Variant:   variant,
	})
	c.recomputeTotals()

	return &c.Items[len(c.Items)-1], nil
}

// UpdateItemQuantity sets the quantity of an existing line. A quantity of
// zero or less removes the line instead.
func (c *Cart) UpdateItemQuantity(lineID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return c.RemoveItem(lineID)
	}

	for idx := range c.Items {
		if c.Items[idx].ID == lineID {
			c.Items[idx].Quantity = quantity
			c.recomputeTotals()

			return nil
		}
	}

	return ErrCartLineNotFound
}

// RemoveItem deletes the line with the given ID.
func (c *Cart) RemoveItem(lineID uuid.UUID) error {
	for idx := range c.Items {
		if c.Items[idx].ID == lineID {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			c.recomputeTotals()

			return nil
		}
	}

	return ErrCartLineNotFound
}

// Clear empties the cart, drops any shipping fee and discount, and marks it
// inactive. The checkout workflow calls this after the order snapshot has
// been persisted, so every total must read zero afterwards.
func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.ShippingFee = 0
	c.DiscountAmount = 0
	c.recomputeTotals()
}

// ApplyShippingFee sets the shipping fee and rebuilds the derived totals.
func (c *Cart) ApplyShippingFee(fee int64) {
	c.ShippingFee = fee
	c.recomputeTotals()
}

// ApplyDiscount sets the discount amount and rebuilds the derived totals.
func (c *Cart) ApplyDiscount(amount int64) {
	c.DiscountAmount = amount
	c.recomputeTotals()
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// recomputeTotals rebuilds every derived field from the current lines.
// It runs unconditionally after each mutation and is the only code path
// allowed to write Subtotal, GrandTotal, TotalQuantity and LineTotal.
func (c *Cart) recomputeTotals() {
	var subtotal int64
	var totalQuantity int

	for idx := range c.Items {
		line := &c.Items[idx]
		line.LineTotal = line.EffectivePrice() * int64(line.Quantity)
		subtotal += line.LineTotal
		totalQuantity += line.Quantity
	}

	c.Subtotal = subtotal
	c.TotalQuantity = totalQuantity
	c.GrandTotal = subtotal - c.DiscountAmount + c.ShippingFee
	c.IsActive = len(c.Items) > 0
	c.UpdatedAt = time.Now()
}
