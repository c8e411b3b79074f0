package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/storefront/pkg/apperr"
	"github.com/example/storefront/pkg/models"
	"github.com/example/storefront/pkg/payment"
)

func successResponse(orderID string) *payment.VerifyResponse {
	return &payment.VerifyResponse{
		Status: true,
		Data: payment.VerifyData{
			Status:    "success",
			Reference: "ref-123",
			Amount:    10748,
			Metadata:  payment.Metadata{OrderID: orderID},
		},
	}
}

func TestVerifyMarksOrderPaid(t *testing.T) {
	store := &fakeOrderStore{}
	seedOrder(store, "order-1", "user-1", models.OrderStatusPending)
	svc := NewPaymentService(&fakeGateway{resp: successResponse("order-1")}, store, nil, nil, zap.NewNop())

	order, err := svc.Verify(context.Background(), "ref-123")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, "ref-123", order.PaymentID)

	stored := store.find("order-1")
	assert.Equal(t, models.PaymentStatusPaid, stored.PaymentStatus)
	assert.Equal(t, "ref-123", stored.PaymentID)

	require.Len(t, store.notes, 1)
	assert.Equal(t, models.NoteTypeSystem, store.notes[0].Type)
}

func TestVerifyTwiceIsIdempotent(t *testing.T) {
	store := &fakeOrderStore{}
	seedOrder(store, "order-1", "user-1", models.OrderStatusPending)
	svc := NewPaymentService(&fakeGateway{resp: successResponse("order-1")}, store, nil, nil, zap.NewNop())

	first, err := svc.Verify(context.Background(), "ref-123")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, first.PaymentStatus)

	second, err := svc.Verify(context.Background(), "ref-123")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, second.PaymentStatus)

	// The second call is a no-op: one store write, one note.
	assert.Equal(t, 1, store.paymentUpdateCalls)
	assert.Len(t, store.notes, 1)
}

func TestVerifyGatewayUnreachable(t *testing.T) {
	store := &fakeOrderStore{}
	seedOrder(store, "order-1", "user-1", models.OrderStatusPending)
	svc := NewPaymentService(&fakeGateway{err: errors.New("connection refused")}, store, nil, nil, zap.NewNop())

	_, err := svc.Verify(context.Background(), "ref-123")
	require.Error(t, err)
	assert.Equal(t, apperr.Internal, apperr.KindOf(err))
	assert.Equal(t, models.PaymentStatusPending, store.find("order-1").PaymentStatus)
}

func TestVerifyDeclinedPayment(t *testing.T) {
	store := &fakeOrderStore{}
	seedOrder(store, "order-1", "user-1", models.OrderStatusPending)
	resp := successResponse("order-1")
	resp.Data.Status = "failed"
	svc := NewPaymentService(&fakeGateway{resp: resp}, store, nil, nil, zap.NewNop())

	_, err := svc.Verify(context.Background(), "ref-123")
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
	assert.Equal(t, models.PaymentStatusPending, store.find("order-1").PaymentStatus)
}

func TestVerifyRequiresReference(t *testing.T) {
	svc := NewPaymentService(&fakeGateway{}, &fakeOrderStore{}, nil, nil, zap.NewNop())

	_, err := svc.Verify(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	assert.Contains(t, apperr.FieldsOf(err), "reference")
}

func TestVerifyUnknownOrder(t *testing.T) {
	svc := NewPaymentService(&fakeGateway{resp: successResponse("missing")}, &fakeOrderStore{}, nil, nil, zap.NewNop())

	_, err := svc.Verify(context.Background(), "ref-123")
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestVerifyRefundedOrderCannotBePaid(t *testing.T) {
	store := &fakeOrderStore{}
	order := seedOrder(store, "order-1", "user-1", models.OrderStatusPending)
	order.PaymentStatus = models.PaymentStatusRefunded
	svc := NewPaymentService(&fakeGateway{resp: successResponse("order-1")}, store, nil, nil, zap.NewNop())

	_, err := svc.Verify(context.Background(), "ref-123")
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
}
