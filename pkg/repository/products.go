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

// Product sort keys accepted by ProductFilter.Sort.
const (
	SortPriceHigh = "price_high"
	SortPriceLow  = "price_low"
	SortName      = "name"
)

type ProductFilter struct {
	Status   models.ProductStatus
	Category string
	Brand    string
	Search   string
	Sort     string
	Page     int
	Limit    int
}

type ProductStore struct {
	db *gorm.DB
}

func NewProductStore(db *gorm.DB) *ProductStore {
	return &ProductStore{db: db}
}

func (s *ProductStore) Create(ctx context.Context, product *models.Product) error {
	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflictf("sku %s already exists", product.SKU)
		}
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (s *ProductStore) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("product %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &product, nil
}

func (s *ProductStore) Update(ctx context.Context, product *models.Product) error {
	err := s.db.WithContext(ctx).Save(product).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflictf("sku %s already exists", product.SKU)
	}
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// Discontinue retires a product without deleting the row so existing
// order items keep a valid reference.
func (s *ProductStore) Discontinue(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     models.ProductStatusDiscontinued,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("discontinue product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFoundf("product %s not found", id)
	}
	return nil
}

func (s *ProductStore) List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Product{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Brand != "" {
		query = query.Where("brand = ?", filter.Brand)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR sku LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	var products []models.Product
	offset := (filter.Page - 1) * filter.Limit
	err := query.Order(productOrderBy(filter.Sort)).
		Offset(offset).
		Limit(filter.Limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return products, total, nil
}

func productOrderBy(sort string) string {
	switch sort {
	case SortOldest:
		return "created_at ASC"
	case SortPriceHigh:
		return "price DESC"
	case SortPriceLow:
		return "price ASC"
	case SortName:
		return "name ASC"
	default:
		return "created_at DESC"
	}
}

// LowStock returns active products at or below their low-stock
// threshold, most depleted first.
func (s *ProductStore) LowStock(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Where("status IN ?", []models.ProductStatus{models.ProductStatusActive, models.ProductStatusOutOfStock}).
		Where("quantity <= low_stock").
		Order("quantity ASC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("list low stock products: %w", err)
	}
	return products, nil
}
