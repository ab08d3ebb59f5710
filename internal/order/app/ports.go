package app

import (
	"context"

	"github.com/jcmexdev/guitarshop/internal/order/domain"
)

// Repository is the port for durable order storage. The service depends on
// this abstraction, not on SQLite directly, so it can be swapped for
// Postgres or an in-memory fake in tests.
type Repository interface {
	Insert(ctx context.Context, order *domain.Order) error
	// Update persists the mutable fields (status, updated_at) of an
	// existing order.
	Update(ctx context.Context, order *domain.Order) error
	// FindByID returns domain.ErrNotFound when no order matches.
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindAll(ctx context.Context) ([]domain.Order, error)
	// FindByCustomerID returns the customer's orders newest-created first.
	FindByCustomerID(ctx context.Context, customerID string) ([]domain.Order, error)
	FindByStatus(ctx context.Context, status domain.Status) ([]domain.Order, error)
	// FindByCheckoutRef returns domain.ErrNotFound when the checkout ref
	// has not been materialized yet.
	FindByCheckoutRef(ctx context.Context, ref string) (*domain.Order, error)
}
