package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/example/storefront/pkg/apperr"
	"github.com/example/storefront/pkg/models"
)

// Order sort keys accepted by OrderFilter.Sort.
const (
	SortNewest    = "newest"
	SortOldest    = "oldest"
	SortTotalHigh = "total_high"
	SortTotalLow  = "total_low"
)

type OrderFilter struct {
	UserID        string
	Status        models.OrderStatus
	PaymentStatus models.PaymentStatus
	Search        string
	From          *time.Time
	To            *time.Time
	Sort          string
	Page          int
	Limit         int
}

type OrderStore struct {
	db *gorm.DB
}

func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{db: db}
}

// Create persists the order with its items and decrements stock for
// every line inside one transaction. A shortfall on any line aborts the
// whole order.
func (s *OrderStore) Create(ctx context.Context, order *models.Order) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range order.Items {
			item := &order.Items[i]

			var product models.Product
			err := tx.Select("id", "quantity").Where("id = ?", item.ProductID).First(&product).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFoundf("product %s not found", item.ProductID)
			}
			if err != nil {
				return fmt.Errorf("load product %s: %w", item.ProductID, err)
			}

			// Guarded decrement: zero rows affected means another
			// checkout won the remaining stock.
			res := tx.Model(&models.Product{}).
				Where("id = ? AND quantity >= ?", item.ProductID, item.Quantity).
				UpdateColumn("quantity", gorm.Expr("quantity - ?", item.Quantity))
			if res.Error != nil {
				return fmt.Errorf("decrement stock for product %s: %w", item.ProductID, res.Error)
			}
			if res.RowsAffected == 0 {
				return apperr.Conflictf("insufficient stock for product %s", item.ProductID)
			}

			if err := tx.Model(&models.Product{}).
				Where("id = ? AND quantity = 0 AND status = ?", item.ProductID, models.ProductStatusActive).
				UpdateColumn("status", models.ProductStatusOutOfStock).Error; err != nil {
				return fmt.Errorf("flag product %s out of stock: %w", item.ProductID, err)
			}
		}

		if err := tx.Create(order).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflictf("order number %s already exists", order.OrderNumber)
			}
			return fmt.Errorf("create order: %w", err)
		}
		return nil
	})
}

func (s *OrderStore) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("Notes").
		Where("id = ?", id).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("order %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &order, nil
}

func (s *OrderStore) List(ctx context.Context, filter OrderFilter) ([]models.Order, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Order{})

	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("order_number LIKE ? OR payment_id LIKE ?", pattern, pattern)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	var orders []models.Order
	offset := (filter.Page - 1) * filter.Limit
	err := query.Order(orderBy(filter.Sort)).
		Offset(offset).
		Limit(filter.Limit).
		Preload("Items").
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return orders, total, nil
}

func orderBy(sort string) string {
	switch sort {
	case SortOldest:
		return "created_at ASC"
	case SortTotalHigh:
		return "total DESC"
	case SortTotalLow:
		return "total ASC"
	default:
		return "created_at DESC"
	}
}

// UpdateStatus moves an order from one status to another. The write is
// conditional on the row still holding the status the caller read, so
// two concurrent updates cannot interleave past the transition rules.
func (s *OrderStore) UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus) error {
	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("update order status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return s.staleOrder(ctx, id)
	}
	return nil
}

func (s *OrderStore) UpdatePaymentStatus(ctx context.Context, id string, from, to models.PaymentStatus, paymentID string) error {
	updates := map[string]interface{}{
		"payment_status": to,
		"updated_at":     time.Now(),
	}
	if paymentID != "" {
		updates["payment_id"] = paymentID
	}
	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND payment_status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update payment status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return s.staleOrder(ctx, id)
	}
	return nil
}

// staleOrder distinguishes a missing order from one whose status moved
// under a concurrent update.
func (s *OrderStore) staleOrder(ctx context.Context, id string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("check order %s: %w", id, err)
	}
	if count == 0 {
		return apperr.NotFoundf("order %s not found", id)
	}
	return apperr.Conflictf("order %s was updated concurrently", id)
}

func (s *OrderStore) AddNote(ctx context.Context, note *models.OrderNote) error {
	if err := s.db.WithContext(ctx).Create(note).Error; err != nil {
		return fmt.Errorf("create order note: %w", err)
	}
	return nil
}
