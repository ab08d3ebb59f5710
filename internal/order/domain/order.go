// Package domain holds the order aggregate and its lifecycle state machine.
package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when no order matches the given ID.
	ErrNotFound = errors.New("order not found")
	// ErrInvalidStatus is returned when a caller supplies a status token
	// outside the closed enumeration.
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrIllegalTransition is returned when the requested status is not
	// reachable from the order's current status.
	ErrIllegalTransition = errors.New("illegal status transition")
)

// Status is the order lifecycle state. It only moves forward along the
// transition table below; DELIVERED and CANCELLED are terminal.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
)

var transitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// ParseStatus maps a caller-supplied token onto the enumeration,
// case-insensitively. Unknown tokens yield ErrInvalidStatus.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := transitions[s]; !ok {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// CanTransitionTo reports whether next is directly reachable from s.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderItem is a line-item snapshot copied at order time; it is never
// re-derived from the catalog afterwards.
type OrderItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	ImageURL  string          `json:"imageUrl"`
}

// Order is the durable record of a purchase. Line items are immutable after
// creation; only Status and UpdatedAt change afterwards.
type Order struct {
	ID         string
	CustomerID string
	Email      string
	FirstName  string
	LastName   string
	Address    string
	City       string
	Country    string
	PostalCode string
	Items      []OrderItem
	Subtotal   decimal.Decimal
	Shipping   decimal.Decimal
	Total      decimal.Decimal
	Status     Status

	// CheckoutRef is the upstream checkout id carried by the event feed.
	// Unique when set; used to deduplicate replayed checkout events.
	CheckoutRef string

	CreatedAt time.Time
	UpdatedAt time.Time
}
