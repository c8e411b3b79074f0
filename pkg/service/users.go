package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/example/storefront/pkg/apperr"
	"github.com/example/storefront/pkg/auth"
	"github.com/example/storefront/pkg/models"
	"github.com/example/storefront/pkg/repository"
)

// UserStore is implemented by repository.UserStore.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, filter repository.UserFilter) ([]models.User, int64, error)
}

type UserService struct {
	store  UserStore
	logger *zap.Logger
}

func NewUserService(store UserStore, logger *zap.Logger) *UserService {
	return &UserService{store: store, logger: logger}
}

// List pages through customers. Admin only.
func (s *UserService) List(ctx context.Context, principal *auth.Principal, q ListUsersQuery) (*Page[models.User], error) {
	if principal == nil {
		return nil, apperr.Unauthorizedf("authentication required")
	}
	if !principal.IsAdmin() {
		return nil, apperr.Forbiddenf("only administrators may list customers")
	}

	page, limit := normalizePage(q.Page, q.Limit)
	users, total, err := s.store.List(ctx, repository.UserFilter{
		Role:   q.Role,
		Search: q.Search,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}
	return newPage(users, total, page, limit), nil
}

// Get returns one customer profile. Admins may read anyone; customers
// only themselves.
func (s *UserService) Get(ctx context.Context, principal *auth.Principal, id string) (*models.User, error) {
	if principal == nil {
		return nil, apperr.Unauthorizedf("authentication required")
	}
	if !principal.IsAdmin() && !principal.Owns(id) {
		return nil, apperr.Forbiddenf("not allowed to view this customer")
	}
	return s.store.GetByID(ctx, id)
}
