package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/example/storefront/pkg/apperr"
	"github.com/example/storefront/pkg/auth"
	"github.com/example/storefront/pkg/models"
	"github.com/example/storefront/pkg/repository"
)

// ProductStore is implemented by repository.ProductStore.
type ProductStore interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Discontinue(ctx context.Context, id string) error
	List(ctx context.Context, filter repository.ProductFilter) ([]models.Product, int64, error)
	LowStock(ctx context.Context) ([]models.Product, error)
}

// ProductCache is implemented by repository.RedisCache; optional.
type ProductCache interface {
	CacheProduct(ctx context.Context, product *models.Product) error
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	InvalidateProduct(ctx context.Context, id string) error
}

type ProductService struct {
	store  ProductStore
	cache  ProductCache
	logger *zap.Logger
}

func NewProductService(store ProductStore, cache ProductCache, logger *zap.Logger) *ProductService {
	return &ProductService{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

func (s *ProductService) Create(ctx context.Context, principal *auth.Principal, input ProductInput) (*models.Product, error) {
	if principal == nil {
		return nil, apperr.Unauthorizedf("authentication required")
	}
	if !principal.IsAdmin() {
		return nil, apperr.Forbiddenf("only administrators may create products")
	}
	if fields := input.validate(); fields != nil {
		return nil, apperr.NewValidation(fields)
	}

	product := &models.Product{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Description:  input.Description,
		Price:        decimal.NewFromFloat(input.Price),
		ComparePrice: decimal.NewFromFloat(input.ComparePrice),
		Category:     input.Category,
		Brand:        input.Brand,
		SKU:          input.SKU,
		Barcode:      input.Barcode,
		Weight:       input.Weight,
		Quantity:     input.Quantity,
		LowStock:     5,
		Status:       models.ProductStatusDraft,
		Images:       input.Images,
		Features:     input.Features,
	}
	if input.Status != "" {
		product.Status = models.ProductStatus(input.Status)
	}
	// A nil threshold keeps the default; an explicit 0 means never alert.
	if input.LowStock != nil {
		product.LowStock = *input.LowStock
	}

	if err := s.store.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID),
		zap.String("sku", product.SKU))

	return product, nil
}

func (s *ProductService) Update(ctx context.Context, principal *auth.Principal, id string, input ProductInput) (*models.Product, error) {
	if principal == nil {
		return nil, apperr.Unauthorizedf("authentication required")
	}
	if !principal.IsAdmin() {
		return nil, apperr.Forbiddenf("only administrators may update products")
	}
	if fields := input.validate(); fields != nil {
		return nil, apperr.NewValidation(fields)
	}

	product, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Price = decimal.NewFromFloat(input.Price)
	product.ComparePrice = decimal.NewFromFloat(input.ComparePrice)
	product.Category = input.Category
	product.Brand = input.Brand
	product.SKU = input.SKU
	product.Barcode = input.Barcode
	product.Weight = input.Weight
	product.Quantity = input.Quantity
	if input.LowStock != nil {
		product.LowStock = *input.LowStock
	}
	product.Images = input.Images
	product.Features = input.Features
	if input.Status != "" {
		product.Status = models.ProductStatus(input.Status)
	}

	if err := s.store.Update(ctx, product); err != nil {
		return nil, err
	}
	s.invalidateProduct(ctx, id)

	return product, nil
}

// Discontinue retires a product from the catalog. The row survives so
// historical order items keep resolving.
func (s *ProductService) Discontinue(ctx context.Context, principal *auth.Principal, id string) error {
	if principal == nil {
		return apperr.Unauthorizedf("authentication required")
	}
	if !principal.IsAdmin() {
		return apperr.Forbiddenf("only administrators may discontinue products")
	}
	if err := s.store.Discontinue(ctx, id); err != nil {
		return err
	}
	s.invalidateProduct(ctx, id)
	s.logger.Info("product discontinued", zap.String("product_id", id))
	return nil
}

// Get is public; no principal required.
func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetProduct(ctx, id); err == nil {
			return cached, nil
		}
	}

	product, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.CacheProduct(ctx, product); err != nil {
			s.logger.Warn("failed to cache product", zap.String("product_id", id), zap.Error(err))
		}
	}
	return product, nil
}

// List returns a page of catalog products. Anonymous and customer
// callers only ever see active products; admins may filter freely.
func (s *ProductService) List(ctx context.Context, principal *auth.Principal, q ListProductsQuery) (*Page[models.Product], error) {
	if q.Status != "" && !models.ProductStatus(q.Status).Valid() {
		return nil, apperr.NewValidation(map[string]string{"status": "unknown product status"})
	}

	page, limit := normalizePage(q.Page, q.Limit)
	filter := repository.ProductFilter{
		Status:   models.ProductStatus(q.Status),
		Category: q.Category,
		Brand:    q.Brand,
		Search:   q.Search,
		Sort:     q.Sort,
		Page:     page,
		Limit:    limit,
	}
	if !principal.IsAdmin() {
		filter.Status = models.ProductStatusActive
	}

	products, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return newPage(products, total, page, limit), nil
}

// LowStock lists products at or below their restock threshold. Admin only.
func (s *ProductService) LowStock(ctx context.Context, principal *auth.Principal) ([]models.Product, error) {
	if principal == nil {
		return nil, apperr.Unauthorizedf("authentication required")
	}
	if !principal.IsAdmin() {
		return nil, apperr.Forbiddenf("only administrators may view stock levels")
	}
	return s.store.LowStock(ctx)
}

func (s *ProductService) invalidateProduct(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateProduct(ctx, id); err != nil {
		s.logger.Warn("failed to invalidate product cache", zap.String("product_id", id), zap.Error(err))
	}
}
