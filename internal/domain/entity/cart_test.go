package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertDerivedTotals verifies the invariants that must hold after every mutation:
// subtotal equals the sum of line totals and grandTotal = subtotal - discount + shipping.
func assertDerivedTotals(t *testing.T, cart *Cart) {
	t.Helper()

	var subtotal int64
	var quantity int
	for idx := range cart.Items {
		line := &cart.Items[idx]
		assert.GreaterOrEqual(t, line.Quantity, 1)
		assert.Equal(t, line.EffectivePrice()*int64(line.Quantity), line.LineTotal)
		subtotal += line.LineTotal
		quantity += line.Quantity
	}

	assert.Equal(t, subtotal, cart.Subtotal)
	assert.Equal(t, quantity, cart.TotalQuantity)
	assert.Equal(t, cart.Subtotal-cart.DiscountAmount+cart.ShippingFee, cart.GrandTotal)
}

func TestCart_AddItem_NewLine(t *testing.T) {
	cart := NewCart(uuid.New())
	productID := uuid.New()

	line, err := cart.AddItem(productID, "Keyboard", "keyboard.png", 2500, 2, nil)
	require.NoError(t, err)
	require.NotNil(t, line)

	assert.Len(t, cart.Items, 1)
	assert.Equal(t, int64(5000), cart.Subtotal)
	assert.True(t, cart.IsActive)
	assertDerivedTotals(t, cart)
}

func TestCart_AddItem_MergesSameProductAndVariant(t *testing.T) {
	cart := NewCart(uuid.New())
	productID := uuid.New()
	variant := &SelectedVariant{Name: "size", Value: "XL"}

	_, err := cart.AddItem(productID, "Shirt", "", 1000, 2, variant)
	require.NoError(t, err)
	_, err = cart.AddItem(productID, "Shirt", "", 1000, 3, &SelectedVariant{Name: "size", Value: "XL"})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assertDerivedTotals(t, cart)
}

func TestCart_AddItem_DifferentVariantsStaySeparate(t *testing.T) {
	cart := NewCart(uuid.New())
	productID := uuid.New()

	_, err := cart.AddItem(productID, "Shirt", "", 1000, 1, &SelectedVariant{Name: "size", Value: "M"})
	require.NoError(t, err)
	_, err = cart.AddItem(productID, "Shirt", "", 1000, 1, &SelectedVariant{Name: "size", Value: "XL"})
	require.NoError(t, err)
	_, err = cart.AddItem(productID, "Shirt", "", 1000, 1, nil)
	require.NoError(t, err)

	assert.Len(t, cart.Items, 3)
	assertDerivedTotals(t, cart)
}

func TestCart_AddItem_VariantPriceOverridesBase(t *testing.T) {
	cart := NewCart(uuid.New())
	override := int64(1500)

	_, err := cart.AddItem(uuid.New(), "Shirt", "", 1000, 2, &SelectedVariant{Name: "size", Value: "XL", Price: &override})
	require.NoError(t, err)

	assert.Equal(t, int64(3000), cart.Subtotal)
	assertDerivedTotals(t, cart)
}

func TestCart_AddItem_RejectsZeroQuantity(t *testing.T) {
	cart := NewCart(uuid.New())

	_, err := cart.AddItem(uuid.New(), "Shirt", "", 1000, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Empty(t, cart.Items)
}

func TestCart_UpdateItemQuantity(t *testing.T) {
	cart := NewCart(uuid.New())
	line, err := cart.AddItem(uuid.New(), "Shirt", "", 1000, 2, nil)
	require.NoError(t, err)

	require.NoError(t, cart.UpdateItemQuantity(line.ID, 7))
	assert.Equal(t, 7, cart.Items[0].Quantity)
	assertDerivedTotals(t, cart)
}

func TestCart_UpdateItemQuantity_ZeroCollapsesToRemoval(t *testing.T) {
	cart := NewCart(uuid.New())
	line, err := cart.AddItem(uuid.New(), "Shirt", "", 1000, 2, nil)
	require.NoError(t, err)

	require.NoError(t, cart.UpdateItemQuantity(line.ID, 0))
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Subtotal)
	assert.False(t, cart.IsActive)
	assertDerivedTotals(t, cart)
}

func TestCart_UpdateItemQuantity_NotFoundLeavesCartUnchanged(t *testing.T) {
	cart := NewCart(uuid.New())
	_, err := cart.AddItem(uuid.New(), "Shirt", "", 1000, 2, nil)
	require.NoError(t, err)
	before := cart.Subtotal

	err = cart.UpdateItemQuantity(uuid.New(), 5)
	assert.ErrorIs(t, err, ErrCartLineNotFound)
	assert.Equal(t, before, cart.Subtotal)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestCart_RemoveItem(t *testing.T) {
	cart := NewCart(uuid.New())
	first, err := cart.AddItem(uuid.New(), "Shirt", "", 1000, 2, nil)
	require.NoError(t, err)
	_, err = cart.AddItem(uuid.New(), "Mug", "", 500, 1, nil)
	require.NoError(t, err)

	require.NoError(t, cart.RemoveItem(first.ID))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "Mug", cart.Items[0].Name)
	assertDerivedTotals(t, cart)
}

func TestCart_RemoveItem_NotFound(t *testing.T) {
	cart := NewCart(uuid.New())

	err := cart.RemoveItem(uuid.New())
	assert.ErrorIs(t, err, ErrCartLineNotFound)
}

func TestCart_Clear(t *testing.T) {
	cart := NewCart(uuid.New())
	cart.ApplyShippingFee(500)
	cart.ApplyDiscount(100)
	_, err := cart.AddItem(uuid.New(), "Shirt", "", 1000, 2, nil)
	require.NoError(t, err)

	cart.Clear()

	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Subtotal)
	assert.Zero(t, cart.TotalQuantity)
	assert.Zero(t, cart.ShippingFee)
	assert.Zero(t, cart.DiscountAmount)
	assert.Zero(t, cart.GrandTotal)
	assert.False(t, cart.IsActive)
	assertDerivedTotals(t, cart)
}

func TestCart_GrandTotalUsesDiscountAndShipping(t *testing.T) {
	cart := NewCart(uuid.New())
	cart.DiscountAmount = 100
	cart.ShippingFee = 50

	_, err := cart.AddItem(uuid.New(), "Shirt", "", 1000, 1, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(1000), cart.Subtotal)
	assert.Equal(t, int64(950), cart.GrandTotal)
	assertDerivedTotals(t, cart)
}
