package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jcmexdev/guitarshop/internal/cart/domain"
	"github.com/jcmexdev/guitarshop/internal/pkg/cache"
)

const keyPrefix = "cart:"

// DefaultTTL is the cart retention window. Every write resets it to the full
// window; reads never refresh it.
const DefaultTTL = 7 * 24 * time.Hour

// Service owns the read-merge-write protocol for cart mutation.
//
// Mutations for the same customer are serialized through a per-key mutex so
// two concurrent AddItem calls cannot lose each other's merge. The store
// itself stays last-write-wins, so only a single process instance should own
// a given customer's writes.
type Service struct {
	store cache.Cache
	ttl   time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(store cache.Cache, ttl time.Duration) *Service {
	return &Service{
		store: store,
		ttl:   ttl,
		locks: make(map[string]*sync.Mutex),
	}
}

// Get returns the stored cart, or a fresh empty cart when the key is absent
// or the stored value does not decode. Decode failure is deliberately not an
// error: the customer sees an empty cart, the corruption is only logged.
func (s *Service) Get(ctx context.Context, customerID string) (*domain.Cart, error) {
	return s.load(ctx, customerID)
}

// AddItem merges the incoming item into the cart. An existing line with the
// same product ID keeps all of its stored fields and only gains quantity;
// otherwise the item is appended as a new line.
func (s *Service) AddItem(ctx context.Context, customerID string, item domain.CartItem) (*domain.Cart, error) {
	lock := s.keyLock(customerID)
	lock.Lock()
	defer lock.Unlock()

	cart, err := s.load(ctx, customerID)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == item.ProductID {
			cart.Items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, item)
	}

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateItem sets the line's quantity to the given absolute value. A quantity
// of zero or less removes the line. A missing product ID is a no-op, but the
// cart is still persisted, so the call stays idempotent.
func (s *Service) UpdateItem(ctx context.Context, customerID, productID string, quantity int) (*domain.Cart, error) {
	lock := s.keyLock(customerID)
	lock.Lock()
	defer lock.Unlock()

	cart, err := s.load(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if quantity <= 0 {
		cart.Items = removeLine(cart.Items, productID)
	} else {
		for i := range cart.Items {
			if cart.Items[i].ProductID == productID {
				cart.Items[i].Quantity = quantity
				break
			}
		}
	}

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem drops the matching line. Removing an absent product is not an error.
func (s *Service) RemoveItem(ctx context.Context, customerID, productID string) (*domain.Cart, error) {
	lock := s.keyLock(customerID)
	lock.Lock()
	defer lock.Unlock()

	cart, err := s.load(ctx, customerID)
	if err != nil {
		return nil, err
	}

	cart.Items = removeLine(cart.Items, productID)

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear deletes the stored key entirely; a subsequent Get synthesizes a fresh
// empty cart indistinguishable from a never-used customer.
func (s *Service) Clear(ctx context.Context, customerID string) error {
	lock := s.keyLock(customerID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.store.Delete(ctx, cartKey(customerID)); err != nil {
		return fmt.Errorf("cart: clear %q: %w", customerID, err)
	}
	return nil
}

func (s *Service) load(ctx context.Context, customerID string) (*domain.Cart, error) {
	raw, err := s.store.Get(ctx, cartKey(customerID))
	if err != nil {
		return nil, fmt.Errorf("cart: load %q: %w", customerID, err)
	}
	if raw == nil {
		return domain.New(customerID), nil
	}

	var cart domain.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		slog.WarnContext(ctx, "stored cart does not decode, substituting empty cart",
			"customer_id", customerID, "error", err)
		return domain.New(customerID), nil
	}
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}
	return &cart, nil
}

func (s *Service) save(ctx context.Context, cart *domain.Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("cart: encode %q: %w", cart.CustomerID, err)
	}
	if err := s.store.Set(ctx, cartKey(cart.CustomerID), raw, s.ttl); err != nil {
		return fmt.Errorf("cart: save %q: %w", cart.CustomerID, err)
	}
	return nil
}

// keyLock returns the mutex serializing mutations for one customer key.
// Locks are allocated lazily and never reclaimed; the map grows with the
// number of distinct customers seen by this process.
func (s *Service) keyLock(customerID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[customerID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[customerID] = lock
	}
	return lock
}

func removeLine(items []domain.CartItem, productID string) []domain.CartItem {
	out := items[:0]
	for _, it := range items {
		if it.ProductID != productID {
			out = append(out, it)
		}
	}
	return out
}

func cartKey(customerID string) string {
	return keyPrefix + customerID
}
