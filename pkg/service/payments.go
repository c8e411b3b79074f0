package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/example/storefront/pkg/apperr"
	"github.com/example/storefront/pkg/models"
	"github.com/example/storefront/pkg/payment"
)

// Gateway is the external payment collaborator. Implemented by
// payment.Client.
type Gateway interface {
	Verify(ctx context.Context, reference string) (*payment.VerifyResponse, error)
}

type PaymentService struct {
	gateway Gateway
	store   OrderStore
	cache   OrderCache
	audit   Auditor
	logger  *zap.Logger
}

func NewPaymentService(gateway Gateway, store OrderStore, cache OrderCache, audit Auditor, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		gateway: gateway,
		store:   store,
		cache:   cache,
		audit:   audit,
		logger:  logger,
	}
}

// Verify checks a payment reference against the gateway and marks the
// referenced order paid. Re-verifying an already-paid order is a
// no-op, so duplicate webhook deliveries are harmless.
func (s *PaymentService) Verify(ctx context.Context, reference string) (*models.Order, error) {
	if reference == "" {
		return nil, apperr.NewValidation(map[string]string{"reference": "payment reference is required"})
	}

	resp, err := s.gateway.Verify(ctx, reference)
	if err != nil {
		s.logger.Error("payment gateway call failed",
			zap.String("reference", reference), zap.Error(err))
		return nil, apperr.Wrap(err, "payment gateway unavailable")
	}
	if !resp.Succeeded() {
		s.logger.Warn("payment not successful",
			zap.String("reference", reference),
			zap.String("gateway_status", resp.Data.Status))
		return nil, apperr.Conflictf("payment %s was not successful", reference)
	}

	orderID := resp.Data.Metadata.OrderID
	if orderID == "" {
		return nil, apperr.Internalf("gateway response carries no order reference")
	}

	order, err := s.store.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.PaymentStatus == models.PaymentStatusPaid {
		s.logger.Info("order already marked paid",
			zap.String("order_id", order.ID), zap.String("reference", reference))
		return order, nil
	}
	if !order.PaymentStatus.CanTransition(models.PaymentStatusPaid) {
		return nil, apperr.Conflictf("cannot mark order paid from %s", order.PaymentStatus)
	}

	if err := s.store.UpdatePaymentStatus(ctx, order.ID, order.PaymentStatus, models.PaymentStatusPaid, reference); err != nil {
		return nil, err
	}
	order.PaymentStatus = models.PaymentStatusPaid
	order.PaymentID = reference

	s.appendVerificationNote(ctx, order.ID, reference)
	if s.cache != nil {
		if err := s.cache.InvalidateOrder(ctx, order.ID); err != nil {
			s.logger.Warn("failed to invalidate order cache",
				zap.String("order_id", order.ID), zap.Error(err))
		}
	}
	s.recordAudit("payment.verified", order.ID, "gateway", map[string]interface{}{
		"reference": reference,
		"amount":    resp.Data.Amount,
	})

	s.logger.Info("payment verified",
		zap.String("order_id", order.ID),
		zap.String("reference", reference))

	return order, nil
}

func (s *PaymentService) appendVerificationNote(ctx context.Context, orderID, reference string) {
	note := &models.OrderNote{
		OrderID: orderID,
		Author:  "payment-gateway",
		Type:    models.NoteTypeSystem,
		Body:    "payment verified with reference " + reference,
	}
	if err := s.store.AddNote(ctx, note); err != nil {
		s.logger.Warn("failed to append verification note",
			zap.String("order_id", orderID), zap.Error(err))
	}
}

func (s *PaymentService) recordAudit(action, entityID, actor string, data map[string]interface{}) {
	if s.audit == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
		defer cancel()
		if err := s.audit.Record(ctx, action, entityID, actor, data); err != nil {
			s.logger.Warn("audit record failed", zap.String("action", action), zap.Error(err))
		}
	}()
}
