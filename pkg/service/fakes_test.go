package service

import (
	"context"
	"sync"

	"github.com/example/storefront/pkg/apperr"
	"github.com/example/storefront/pkg/models"
	"github.com/example/storefront/pkg/payment"
	"github.com/example/storefront/pkg/repository"
)

type fakeOrderStore struct {
	mu                 sync.Mutex
	orders             []*models.Order
	notes              []*models.OrderNote
	createErr          error
	paymentUpdateCalls int
	// afterGet runs once a read has been copied out, simulating a
	// concurrent writer sneaking in between read and update.
	afterGet func()
}

func (f *fakeOrderStore) find(id string) *models.Order {
	for _, o := range f.orders {
		if o.ID == id {
			return o
		}
	}
	return nil
}

func (f *fakeOrderStore) Create(ctx context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.orders = append(f.orders, order)
	return nil
}

func (f *fakeOrderStore) GetByID(ctx context.Context, id string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o := f.find(id); o != nil {
		copied := *o
		if f.afterGet != nil {
			f.afterGet()
		}
		return &copied, nil
	}
	return nil, apperr.NotFoundf("order %s not found", id)
}

func (f *fakeOrderStore) List(ctx context.Context, filter repository.OrderFilter) ([]models.Order, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []models.Order
	for _, o := range f.orders {
		if filter.UserID != "" && o.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.PaymentStatus != "" && o.PaymentStatus != filter.PaymentStatus {
			continue
		}
		matched = append(matched, *o)
	}

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (f *fakeOrderStore) UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := f.find(id)
	if o == nil {
		return apperr.NotFoundf("order %s not found", id)
	}
	if o.Status != from {
		return apperr.Conflictf("order %s was updated concurrently", id)
	}
	o.Status = to
	return nil
}

func (f *fakeOrderStore) UpdatePaymentStatus(ctx context.Context, id string, from, to models.PaymentStatus, paymentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := f.find(id)
	if o == nil {
		return apperr.NotFoundf("order %s not found", id)
	}
	if o.PaymentStatus != from {
		return apperr.Conflictf("order %s was updated concurrently", id)
	}
	f.paymentUpdateCalls++
	o.PaymentStatus = to
	if paymentID != "" {
		o.PaymentID = paymentID
	}
	return nil
}

func (f *fakeOrderStore) AddNote(ctx context.Context, note *models.OrderNote) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notes = append(f.notes, note)
	return nil
}

type fakeProductStore struct {
	mu         sync.Mutex
	products   []*models.Product
	lastFilter repository.ProductFilter
}

func (f *fakeProductStore) find(id string) *models.Product {
	for _, p := range f.products {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (f *fakeProductStore) Create(ctx context.Context, product *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.SKU == product.SKU {
			return apperr.Conflictf("sku %s already exists", product.SKU)
		}
	}
	f.products = append(f.products, product)
	return nil
}

func (f *fakeProductStore) GetByID(ctx context.Context, id string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p := f.find(id); p != nil {
		copied := *p
		return &copied, nil
	}
	return nil, apperr.NotFoundf("product %s not found", id)
}

func (f *fakeProductStore) Update(ctx context.Context, product *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p := f.find(product.ID); p != nil {
		*p = *product
		return nil
	}
	return apperr.NotFoundf("product %s not found", product.ID)
}

func (f *fakeProductStore) Discontinue(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p := f.find(id); p != nil {
		p.Status = models.ProductStatusDiscontinued
		return nil
	}
	return apperr.NotFoundf("product %s not found", id)
}

func (f *fakeProductStore) List(ctx context.Context, filter repository.ProductFilter) ([]models.Product, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter = filter

	var matched []models.Product
	for _, p := range f.products {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		matched = append(matched, *p)
	}
	return matched, int64(len(matched)), nil
}

func (f *fakeProductStore) LowStock(ctx context.Context) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []models.Product
	for _, p := range f.products {
		if p.Quantity <= p.LowStock {
			matched = append(matched, *p)
		}
	}
	return matched, nil
}

type fakeUserStore struct {
	users []*models.User
}

func (f *fakeUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperr.NotFoundf("user %s not found", id)
}

func (f *fakeUserStore) List(ctx context.Context, filter repository.UserFilter) ([]models.User, int64, error) {
	var matched []models.User
	for _, u := range f.users {
		matched = append(matched, *u)
	}
	return matched, int64(len(matched)), nil
}

type fakeAuditor struct {
	mu      sync.Mutex
	entries []*repository.AuditEntry
}

func (f *fakeAuditor) Record(ctx context.Context, action, entityID, actor string, data map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, &repository.AuditEntry{
		Action:   action,
		EntityID: entityID,
		Actor:    actor,
	})
	return nil
}

func (f *fakeAuditor) Entries(ctx context.Context, entityID string, limit int64) ([]*repository.AuditEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []*repository.AuditEntry
	for _, e := range f.entries {
		if e.EntityID == entityID {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

type fakeGateway struct {
	resp *payment.VerifyResponse
	err  error
}

func (f *fakeGateway) Verify(ctx context.Context, reference string) (*payment.VerifyResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}
