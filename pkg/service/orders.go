// Package service holds the storefront business logic. Every method
// takes the authenticated principal explicitly so authorization is
// testable without any HTTP machinery.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"go.uber.org/zap"

	"github.com/example/storefront/pkg/apperr"
	"github.com/example/storefront/pkg/auth"
	"github.com/example/storefront/pkg/models"
	"github.com/example/storefront/pkg/repository"
)

// OrderStore is the relational persistence the order flow needs.
// Implemented by repository.OrderStore.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context, filter repository.OrderFilter) ([]models.Order, int64, error)
	UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus) error
	UpdatePaymentStatus(ctx context.Context, id string, from, to models.PaymentStatus, paymentID string) error
	AddNote(ctx context.Context, note *models.OrderNote) error
}

// OrderCache is the read cache for order aggregates. Implemented by
// repository.RedisCache; optional, a nil cache disables caching.
type OrderCache interface {
	CacheOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	InvalidateOrder(ctx context.Context, id string) error
}

// Auditor keeps the lifecycle event trail. Implemented by
// repository.AuditTrail; optional.
type Auditor interface {
	Record(ctx context.Context, action, entityID, actor string, data map[string]interface{}) error
	Entries(ctx context.Context, entityID string, limit int64) ([]*repository.AuditEntry, error)
}

// auditTimeout bounds the asynchronous audit write.
const auditTimeout = 5 * time.Second

// auditLogLimit caps how many trail entries one order exposes.
const auditLogLimit = 50

type OrderService struct {
	store  OrderStore
	cache  OrderCache
	audit  Auditor
	logger *zap.Logger
}

func NewOrderService(store OrderStore, cache OrderCache, audit Auditor, logger *zap.Logger) *OrderService {
	return &OrderService{
		store:  store,
		cache:  cache,
		audit:  audit,
		logger: logger,
	}
}

func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(shortuuid.New()[:6])
	return fmt.Sprintf("ORD-%s-%s", now.UTC().Format("20060102150405"), suffix)
}

// Create validates the cart payload and persists the order, its items
// and the stock decrements in one transaction. Totals are stored as
// submitted after range checks.
func (s *OrderService) Create(ctx context.Context, principal *auth.Principal, req CreateOrderRequest) (*models.Order, error) {
	if principal == nil {
		return nil, apperr.Unauthorizedf("authentication required")
	}
	if fields := req.validate(); fields != nil {
		return nil, apperr.NewValidation(fields)
	}

	order := req.toOrder(principal.ID)
	if err := s.store.Create(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("user_id", order.UserID),
		zap.Int("item_count", len(order.Items)))

	s.cacheOrder(ctx, order)
	s.recordAudit("order.created", order.ID, principal.Email, map[string]interface{}{
		"order_number": order.OrderNumber,
		"user_id":      order.UserID,
		"total":        order.Total.String(),
	})

	return order, nil
}

// Get returns one order with items and notes. Customers may only read
// their own orders.
func (s *OrderService) Get(ctx context.Context, principal *auth.Principal, id string) (*models.Order, error) {
	if principal == nil {
		return nil, apperr.Unauthorizedf("authentication required")
	}

	var order *models.Order
	if s.cache != nil {
		if cached, err := s.cache.GetOrder(ctx, id); err == nil {
			order = cached
		}
	}
	if order == nil {
		loaded, err := s.store.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		order = loaded
		s.cacheOrder(ctx, order)
	}

	if !principal.IsAdmin() && !principal.Owns(order.UserID) {
		return nil, apperr.Forbiddenf("not allowed to view this order")
	}
	return order, nil
}

// List returns a filtered, sorted page of orders. Non-admin callers
// are silently restricted to their own orders.
func (s *OrderService) List(ctx context.Context, principal *auth.Principal, q ListOrdersQuery) (*Page[models.Order], error) {
	if principal == nil {
		return nil, apperr.Unauthorizedf("authentication required")
	}

	fields := map[string]string{}
	if q.Status != "" && !models.OrderStatus(q.Status).Valid() {
		fields["status"] = "unknown order status"
	}
	if q.PaymentStatus != "" && !models.PaymentStatus(q.PaymentStatus).Valid() {
		fields["payment_status"] = "unknown payment status"
	}
	if len(fields) > 0 {
		return nil, apperr.NewValidation(fields)
	}

	page, limit := normalizePage(q.Page, q.Limit)
	filter := repository.OrderFilter{
		Status:        models.OrderStatus(q.Status),
		PaymentStatus: models.PaymentStatus(q.PaymentStatus),
		Search:        q.Search,
		From:          q.From,
		To:            q.To,
		Sort:          q.Sort,
		Page:          page,
		Limit:         limit,
	}
	if !principal.IsAdmin() {
		filter.UserID = principal.ID
	}

	orders, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return newPage(orders, total, page, limit), nil
}

// UpdateStatus transitions an order through the fulfilment lifecycle.
// Admin only; illegal transitions are rejected.
func (s *OrderService) UpdateStatus(ctx context.Context, principal *auth.Principal, id, status string) (*models.Order, error) {
	if principal == nil {
		return nil, apperr.Unauthorizedf("authentication required")
	}
	if !principal.IsAdmin() {
		return nil, apperr.Forbiddenf("only administrators may update order status")
	}

	target := models.OrderStatus(status)
	if !target.Valid() {
		return nil, apperr.NewValidation(map[string]string{"status": "unknown order status"})
	}

	order, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == target {
		return order, nil
	}
	if !order.Status.CanTransition(target) {
		return nil, apperr.Conflictf("cannot transition order from %s to %s", order.Status, target)
	}

	if err := s.store.UpdateStatus(ctx, id, order.Status, target); err != nil {
		return nil, err
	}

	previous := order.Status
	order.Status = target
	s.addSystemNote(ctx, id, principal.Email, fmt.Sprintf("status changed from %s to %s", previous, target))
	s.invalidateOrder(ctx, id)
	s.recordAudit("order.status_updated", id, principal.Email, map[string]interface{}{
		"from": string(previous),
		"to":   string(target),
	})

	s.logger.Info("order status updated",
		zap.String("order_id", id),
		zap.String("from", string(previous)),
		zap.String("to", string(target)))

	return order, nil
}

// UpdatePaymentStatus may be called by an administrator or by the
// order's owning customer.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, principal *auth.Principal, id, status string) (*models.Order, error) {
	if principal == nil {
		return nil, apperr.Unauthorizedf("authentication required")
	}

	target := models.PaymentStatus(status)
	if !target.Valid() {
		return nil, apperr.NewValidation(map[string]string{"payment_status": "unknown payment status"})
	}

	order, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !principal.IsAdmin() && !principal.Owns(order.UserID) {
		return nil, apperr.Forbiddenf("not allowed to update this order")
	}
	if order.PaymentStatus == target {
		return order, nil
	}
	if !order.PaymentStatus.CanTransition(target) {
		return nil, apperr.Conflictf("cannot transition payment from %s to %s", order.PaymentStatus, target)
	}

	if err := s.store.UpdatePaymentStatus(ctx, id, order.PaymentStatus, target, ""); err != nil {
		return nil, err
	}

	previous := order.PaymentStatus
	order.PaymentStatus = target
	s.addSystemNote(ctx, id, principal.Email, fmt.Sprintf("payment status changed from %s to %s", previous, target))
	s.invalidateOrder(ctx, id)
	s.recordAudit("order.payment_updated", id, principal.Email, map[string]interface{}{
		"from": string(previous),
		"to":   string(target),
	})

	return order, nil
}

// AuditLog returns the newest trail entries for an order. Admin only.
func (s *OrderService) AuditLog(ctx context.Context, principal *auth.Principal, id string) ([]*repository.AuditEntry, error) {
	if principal == nil {
		return nil, apperr.Unauthorizedf("authentication required")
	}
	if !principal.IsAdmin() {
		return nil, apperr.Forbiddenf("only administrators may view the audit trail")
	}

	if _, err := s.store.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if s.audit == nil {
		return []*repository.AuditEntry{}, nil
	}

	entries, err := s.audit.Entries(ctx, id, auditLogLimit)
	if err != nil {
		return nil, apperr.Wrap(err, "audit trail unavailable")
	}
	if entries == nil {
		entries = []*repository.AuditEntry{}
	}
	return entries, nil
}

// AddNote attaches a manual annotation to an order. Admin only.
func (s *OrderService) AddNote(ctx context.Context, principal *auth.Principal, id, body string) (*models.OrderNote, error) {
	if principal == nil {
		return nil, apperr.Unauthorizedf("authentication required")
	}
	if !principal.IsAdmin() {
		return nil, apperr.Forbiddenf("only administrators may add order notes")
	}
	if body == "" {
		return nil, apperr.NewValidation(map[string]string{"body": "note body is required"})
	}

	if _, err := s.store.GetByID(ctx, id); err != nil {
		return nil, err
	}

	note := &models.OrderNote{
		OrderID: id,
		Author:  principal.Email,
		Type:    models.NoteTypeManual,
		Body:    body,
	}
	if err := s.store.AddNote(ctx, note); err != nil {
		return nil, err
	}
	s.invalidateOrder(ctx, id)
	return note, nil
}

func (s *OrderService) addSystemNote(ctx context.Context, orderID, author, body string) {
	note := &models.OrderNote{
		OrderID: orderID,
		Author:  author,
		Type:    models.NoteTypeSystem,
		Body:    body,
	}
	if err := s.store.AddNote(ctx, note); err != nil {
		s.logger.Warn("failed to append system note",
			zap.String("order_id", orderID), zap.Error(err))
	}
}

func (s *OrderService) cacheOrder(ctx context.Context, order *models.Order) {
	if s.cache == nil {
		return
	}
	if err := s.cache.CacheOrder(ctx, order); err != nil {
		s.logger.Warn("failed to cache order", zap.String("order_id", order.ID), zap.Error(err))
	}
}

func (s *OrderService) invalidateOrder(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateOrder(ctx, id); err != nil {
		s.logger.Warn("failed to invalidate order cache", zap.String("order_id", id), zap.Error(err))
	}
}

func (s *OrderService) recordAudit(action, entityID, actor string, data map[string]interface{}) {
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
