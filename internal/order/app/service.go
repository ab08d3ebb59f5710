package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jcmexdev/guitarshop/internal/order/domain"
)

// Service owns the order lifecycle: creation, confirmation on checkout
// events, and explicit status transitions.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Create persists a caller-supplied draft. Any caller-supplied status is
// discarded: new orders always start PENDING. The server assigns identity
// and timestamps.
func (s *Service) Create(ctx context.Context, draft domain.Order) (*domain.Order, error) {
	now := s.now()
	draft.ID = uuid.NewString()
	draft.Status = domain.StatusPending
	draft.CreatedAt = now
	draft.UpdatedAt = now

	if err := s.repo.Insert(ctx, &draft); err != nil {
		return nil, fmt.Errorf("order: create: %w", err)
	}

	slog.InfoContext(ctx, "order created",
		"order_id", draft.ID, "customer_id", draft.CustomerID)
	return &draft, nil
}

// Get returns the order or domain.ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns all orders.
func (s *Service) List(ctx context.Context) ([]domain.Order, error) {
	return s.repo.FindAll(ctx)
}

// ListByCustomer returns a customer's orders, newest-created first.
func (s *Service) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	return s.repo.FindByCustomerID(ctx, customerID)
}

// ListByStatus returns all orders currently in the given state.
func (s *Service) ListByStatus(ctx context.Context, status domain.Status) ([]domain.Order, error) {
	return s.repo.FindByStatus(ctx, status)
}

// UpdateStatus moves an order to a new state. It fails with
// domain.ErrInvalidStatus for unknown tokens, domain.ErrNotFound for
// missing orders, and domain.ErrIllegalTransition for moves outside the
// transition table.
func (s *Service) UpdateStatus(ctx context.Context, id, rawStatus string) (*domain.Order, error) {
	status, err := domain.ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrIllegalTransition, order.Status, status)
	}

	order.Status = status
	order.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("order: update status of %q: %w", id, err)
	}

	slog.InfoContext(ctx, "order status updated", "order_id", id, "status", status)
	return order, nil
}

// ProcessCheckoutEvent materializes an order from the event feed. The status
// is forced to CONFIRMED, bypassing PENDING. When the candidate carries a
// checkout ref that was already materialized, the existing order is returned
// instead of creating a duplicate, so event redelivery is idempotent.
func (s *Service) ProcessCheckoutEvent(ctx context.Context, candidate domain.Order) (*domain.Order, error) {
	if candidate.CheckoutRef != "" {
		existing, err := s.repo.FindByCheckoutRef(ctx, candidate.CheckoutRef)
		if err == nil {
			slog.InfoContext(ctx, "checkout event replayed, returning existing order",
				"checkout_ref", candidate.CheckoutRef, "order_id", existing.ID)
			return existing, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("order: dedup lookup for %q: %w", candidate.CheckoutRef, err)
		}
	}

	now := s.now()
	candidate.ID = uuid.NewString()
	candidate.Status = domain.StatusConfirmed
	candidate.CreatedAt = now
	candidate.UpdatedAt = now

	if err := s.repo.Insert(ctx, &candidate); err != nil {
		return nil, fmt.Errorf("order: process checkout event: %w", err)
	}

	slog.InfoContext(ctx, "checkout event processed, order confirmed",
		"order_id", candidate.ID, "customer_id", candidate.CustomerID)
	return &candidate, nil
}
