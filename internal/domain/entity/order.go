// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Order-level sentinel errors. The usecase layer maps these to API errors.
var (
	// ErrInvalidStatusTransition is returned when a status change violates the
	// one-directional order state machine.
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
	// ErrOrderNotCancellable is returned when cancellation is requested after
	// the order has progressed beyond the confirmed state.
	ErrOrderNotCancellable = errors.New("order can no longer be cancelled")
)

// OrderStatus represents the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusReturned   OrderStatus = "returned"
)

// String returns the string representation of the OrderStatus.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid checks if the OrderStatus is a valid value.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled, OrderStatusReturned:
		return true
	default:
		return false
	}
}

// orderTransitions encodes the allowed forward moves of the state machine.
// cancelled is reachable only from pending/confirmed; returned only from delivered.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {OrderStatusReturned},
}

// PaymentStatus represents the payment state of an order.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// IsValid checks if the PaymentStatus is a valid value.
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	default:
		return false
	}
}

// ShippingAddress is the delivery address snapshot stored on the order.
type ShippingAddress struct {
	FullName   string
	Phone      string
	Line1      string
	Line2      string
	City       string
	PostalCode string
	Country    string
}

// OrderItem is the immutable snapshot of one cart line at checkout time.
// It deliberately carries its own copy of display data so that later catalog
// changes never alter historical orders.
type OrderItem struct {
	ID          uuid.UUID // The unique ID of this snapshot row.
	ProductID   uuid.UUID // Weak reference to the catalog product.
	Name        string    // Product name at checkout time.
	Image       string    // Product image URL at checkout time.
	VariantName string    // Selected variant descriptor, empty when none.
	UnitPrice   int64     // Effective price at checkout time, minor units.
	Quantity    int
	LineTotal   int64 // UnitPrice x Quantity.
}

// StatusHistoryEntry is one append-only record of a status change.
type StatusHistoryEntry struct {
	Status    OrderStatus
	Timestamp time.Time
	Note      string
}

// Order is an immutable-at-creation snapshot of a checked-out cart plus a
// one-directional fulfilment state machine. Orders are never deleted.
type Order struct {
	ID             uuid.UUID
	OrderNumber    string // Unique, generated once at creation.
	UserID         uuid.UUID
	Items          []OrderItem
	Shipping       ShippingAddress
	Subtotal       int64 // Cart subtotal at checkout, minor units.
	DiscountAmount int64
	ShippingFee    int64
	TaxAmount      int64 // Fixed percentage of subtotal, computed once at creation.
	TotalAmount    int64 // subtotal - discount + shipping + tax.
	PaymentMethod  string
	PaymentStatus  PaymentStatus
	PaymentRef     string // External payment reference, set by MarkAsPaid.
	Status         OrderStatus
	StatusHistory  []StatusHistoryEntry
	Note           string // Free-text note supplied at checkout.
	ConfirmedAt    *time.Time
	ShippedAt      *time.Time
	DeliveredAt    *time.Time
	CancelledAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// InitializeStatus sets the initial pending state and records it in the
// status history. Called exactly once, at creation.
func (o *Order) InitializeStatus(now time.Time) {
	o.Status = OrderStatusPending
	o.StatusHistory = []StatusHistoryEntry{{
		Status:    OrderStatusPending,
		Timestamp: now,
	}}
}

// CanTransitionTo reports whether the state machine allows moving from the
// current status to the target.
func (o *Order) CanTransitionTo(target OrderStatus) bool {
	for _, next := range orderTransitions[o.Status] {
		if next == target {
			return true
		}
	}

	return false
}

// ChangeStatus advances the order to the target status, appending a history
// entry and stamping the matching milestone timestamp on first occurrence.
//
// The operation is idempotent: requesting the current status appends no
// duplicate history entry and leaves already-set milestone timestamps
// untouched, but a non-empty note back-fills the latest history entry.
func (o *Order) ChangeStatus(target OrderStatus, note string) error {
	now := time.Now()

	if target == o.Status {
		if note != "" && len(o.StatusHistory) > 0 {
			o.StatusHistory[len(o.StatusHistory)-1].Note = note
		}

		return nil
	}

	if !o.CanTransitionTo(target) {
		return ErrInvalidStatusTransition
	}

	o.Status = target
	o.StatusHistory = append(o.StatusHistory, StatusHistoryEntry{
		Status:    target,
		Timestamp: now,
		Note:      note,
	})
	o.stampMilestone(target, now)
	o.UpdatedAt = now

	return nil
}

// Cancel moves the order to cancelled. Only permitted while the order is
// still pending or confirmed; the caller restores reserved stock afterwards.
func (o *Order) Cancel(note string) error {
	if o.Status != OrderStatusPending && o.Status != OrderStatusConfirmed {
		return ErrOrderNotCancellable
	}

	return o.ChangeStatus(OrderStatusCancelled, note)
}

// MarkAsPaid records a successful payment with its external reference.
func (o *Order) MarkAsPaid(paymentRef string) {
	o.PaymentStatus = PaymentStatusPaid
	o.PaymentRef = paymentRef
	o.UpdatedAt = time.Now()
}

// stampMilestone sets the single-value timestamp for the reached status.
// First occurrence only; re-entering a status never overwrites it.
func (o *Order) stampMilestone(status OrderStatus, now time.Time) {
	switch status {
	case OrderStatusConfirmed:
		if o.ConfirmedAt == nil {
			o.ConfirmedAt = &now
		}
	case OrderStatusShipped:
		if o.ShippedAt == nil {
			o.ShippedAt = &now
		}
	case OrderStatusDelivered:
		if o.DeliveredAt == nil {
			o.DeliveredAt = &now
		}
	case OrderStatusCancelled:
		if o.CancelledAt == nil {
			o.CancelledAt = &now
		}
	}
}
