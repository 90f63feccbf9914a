package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingOrder() *Order {
	order := &Order{}
	order.InitializeStatus(time.Now())

	return order
}

func TestOrder_InitializeStatus(t *testing.T) {
	order := newPendingOrder()

	assert.Equal(t, OrderStatusPending, order.Status)
	require.Len(t, order.StatusHistory, 1)
	assert.Equal(t, OrderStatusPending, order.StatusHistory[0].Status)
}

func TestOrder_ChangeStatus_HappyPath(t *testing.T) {
	order := newPendingOrder()

	for _, status := range []OrderStatus{
		OrderStatusConfirmed,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
	} {
		require.NoError(t, order.ChangeStatus(status, ""))
		assert.Equal(t, status, order.Status)
	}

	require.Len(t, order.StatusHistory, 5)
	assert.NotNil(t, order.ConfirmedAt)
	assert.NotNil(t, order.ShippedAt)
	assert.NotNil(t, order.DeliveredAt)
	assert.Nil(t, order.CancelledAt)
}

func TestOrder_ChangeStatus_RejectsBackwardMove(t *testing.T) {
	order := newPendingOrder()
	require.NoError(t, order.ChangeStatus(OrderStatusConfirmed, ""))
	require.NoError(t, order.ChangeStatus(OrderStatusProcessing, ""))

	err := order.ChangeStatus(OrderStatusPending, "")
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	assert.Equal(t, OrderStatusProcessing, order.Status)
}

func TestOrder_ChangeStatus_RejectsSkippedState(t *testing.T) {
	order := newPendingOrder()

	err := order.ChangeStatus(OrderStatusShipped, "")
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestOrder_ChangeStatus_SameStatusIsIdempotent(t *testing.T) {
	order := newPendingOrder()
	require.NoError(t, order.ChangeStatus(OrderStatusConfirmed, ""))
	stamped := order.ConfirmedAt
	require.NotNil(t, stamped)

	// Re-entering the current status must not duplicate history or move the milestone.
	require.NoError(t, order.ChangeStatus(OrderStatusConfirmed, "payment verified"))

	assert.Len(t, order.StatusHistory, 2)
	assert.Equal(t, stamped, order.ConfirmedAt)
	assert.Equal(t, "payment verified", order.StatusHistory[1].Note)
}

func TestOrder_Cancel_FromPendingAndConfirmed(t *testing.T) {
	pending := newPendingOrder()
	require.NoError(t, pending.Cancel("changed my mind"))
	assert.Equal(t, OrderStatusCancelled, pending.Status)
	assert.NotNil(t, pending.CancelledAt)

	confirmed := newPendingOrder()
	require.NoError(t, confirmed.ChangeStatus(OrderStatusConfirmed, ""))
	require.NoError(t, confirmed.Cancel(""))
	assert.Equal(t, OrderStatusCancelled, confirmed.Status)
}

func TestOrder_Cancel_RejectedAfterProcessing(t *testing.T) {
	order := newPendingOrder()
	require.NoError(t, order.ChangeStatus(OrderStatusConfirmed, ""))
	require.NoError(t, order.ChangeStatus(OrderStatusProcessing, ""))

	err := order.Cancel("")
	assert.ErrorIs(t, err, ErrOrderNotCancellable)
}

func TestOrder_Cancel_Twice(t *testing.T) {
	order := newPendingOrder()
	require.NoError(t, order.Cancel(""))

	err := order.Cancel("")
	assert.ErrorIs(t, err, ErrOrderNotCancellable)
	assert.Len(t, order.StatusHistory, 2)
}

func TestOrder_MarkAsPaid(t *testing.T) {
	order := newPendingOrder()
	order.PaymentStatus = PaymentStatusPending

	order.MarkAsPaid("txn_12345")

	assert.Equal(t, PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, "txn_12345", order.PaymentRef)
}

func TestOrderStatus_IsValid(t *testing.T) {
	assert.True(t, OrderStatusPending.IsValid())
	assert.True(t, OrderStatusReturned.IsValid())
	assert.False(t, OrderStatus("unknown").IsValid())
}
