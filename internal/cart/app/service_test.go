package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/guitarshop/internal/cart/domain"
)

// fakeStore is an in-memory cache.Cache recording the TTL of the last write.
type fakeStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	lastTTL time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string][]byte)}
}

func (f *fakeStore) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	val, ok := f.data[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (f *fakeStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	f.lastTTL = ttl
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

func item(productID string, price string, qty int) domain.CartItem {
	return domain.CartItem{
		ProductID: productID,
		Name:      "Stratocaster",
		Brand:     "Fender",
		Price:     decimal.RequireFromString(price),
		Quantity:  qty,
	}
}

func TestGetNeverUsedCustomer(t *testing.T) {
	svc := NewService(newFakeStore(), DefaultTTL)

	cart, err := svc.Get(context.Background(), "alice")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cart.CustomerID != "alice" {
		t.Errorf("expected customer alice, got %q", cart.CustomerID)
	}
	if len(cart.Items) != 0 {
		t.Errorf("expected empty cart, got %d items", len(cart.Items))
	}
	if !cart.Total().IsZero() {
		t.Errorf("expected zero total, got %s", cart.Total())
	}
	if cart.ItemCount() != 0 {
		t.Errorf("expected zero item count, got %d", cart.ItemCount())
	}
}

func TestAddItemMergesSameProduct(t *testing.T) {
	svc := NewService(newFakeStore(), DefaultTTL)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "alice", item("p1", "10.00", 2)); err != nil {
		t.Fatal(err)
	}

	// Same product with different price and name: quantity merges, the
	// stored line's other fields must win.
	incoming := item("p1", "99.99", 1)
	incoming.Name = "Telecaster"
	cart, err := svc.AddItem(ctx, "alice", incoming)
	if err != nil {
		t.Fatal(err)
	}

	if len(cart.Items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(cart.Items))
	}
	line := cart.Items[0]
	if line.Quantity != 3 {
		t.Errorf("expected quantity 3, got %d", line.Quantity)
	}
	if !line.Price.Equal(decimal.RequireFromString("10.00")) {
		t.Errorf("expected stored price 10.00 to win, got %s", line.Price)
	}
	if line.Name != "Stratocaster" {
		t.Errorf("expected stored name to win, got %q", line.Name)
	}
	if !cart.Total().Equal(decimal.RequireFromString("30.00")) {
		t.Errorf("expected total 30.00, got %s", cart.Total())
	}
}

func TestAddItemAppendsNewProduct(t *testing.T) {
	svc := NewService(newFakeStore(), DefaultTTL)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "alice", item("p1", "10.00", 1)); err != nil {
		t.Fatal(err)
	}
	cart, err := svc.AddItem(ctx, "alice", item("p2", "5.50", 2))
	if err != nil {
		t.Fatal(err)
	}

	if len(cart.Items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(cart.Items))
	}
	if cart.Items[0].ProductID != "p1" || cart.Items[1].ProductID != "p2" {
		t.Errorf("expected insertion order preserved, got %q then %q",
			cart.Items[0].ProductID, cart.Items[1].ProductID)
	}
	if !cart.Total().Equal(decimal.RequireFromString("21.00")) {
		t.Errorf("expected total 21.00, got %s", cart.Total())
	}
}

func TestUpdateItemAbsoluteQuantity(t *testing.T) {
	svc := NewService(newFakeStore(), DefaultTTL)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "alice", item("p1", "10.00", 2)); err != nil {
		t.Fatal(err)
	}
	cart, err := svc.UpdateItem(ctx, "alice", "p1", 5)
	if err != nil {
		t.Fatal(err)
	}

	if cart.Items[0].Quantity != 5 {
		t.Errorf("expected absolute set to 5, got %d", cart.Items[0].Quantity)
	}
}

func TestUpdateItemZeroRemovesLine(t *testing.T) {
	svc := NewService(newFakeStore(), DefaultTTL)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "alice", item("p1", "10.00", 2)); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.UpdateItem(ctx, "alice", "p1", 0); err != nil {
		t.Fatal(err)
	}

	cart, err := svc.Get(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(cart.Items) != 0 {
		t.Errorf("expected line removed, got %d items", len(cart.Items))
	}
}

func TestUpdateItemUnknownProductIsNoop(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, DefaultTTL)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "alice", item("p1", "10.00", 2)); err != nil {
		t.Fatal(err)
	}
	cart, err := svc.UpdateItem(ctx, "alice", "missing", 4)
	if err != nil {
		t.Fatal(err)
	}

	if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 {
		t.Errorf("expected cart unchanged, got %+v", cart.Items)
	}
	// The no-op still persists the cart.
	if _, ok := store.data["cart:alice"]; !ok {
		t.Error("expected cart to be persisted anyway")
	}
}

func TestRemoveItemIdempotent(t *testing.T) {
	svc := NewService(newFakeStore(), DefaultTTL)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "alice", item("p1", "10.00", 2)); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.RemoveItem(ctx, "alice", "p1"); err != nil {
		t.Fatal(err)
	}
	cart, err := svc.RemoveItem(ctx, "alice", "p1")
	if err != nil {
		t.Fatalf("removing an absent product must not error, got %v", err)
	}
	if len(cart.Items) != 0 {
		t.Errorf("expected empty cart, got %d items", len(cart.Items))
	}
}

func TestClearDeletesKey(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, DefaultTTL)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "alice", item("p1", "10.00", 2)); err != nil {
		t.Fatal(err)
	}
	if err := svc.Clear(ctx, "alice"); err != nil {
		t.Fatal(err)
	}

	if _, ok := store.data["cart:alice"]; ok {
		t.Error("expected key deleted, not emptied in place")
	}

	cart, err := svc.Get(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(cart.Items) != 0 || cart.ItemCount() != 0 {
		t.Errorf("expected cart indistinguishable from never-used, got %+v", cart)
	}
}

func TestDecodeFailureYieldsEmptyCart(t *testing.T) {
	store := newFakeStore()
	store.data["cart:alice"] = []byte("not json at all")
	svc := NewService(store, DefaultTTL)

	cart, err := svc.Get(context.Background(), "alice")
	if err != nil {
		t.Fatalf("decode failure must not surface, got %v", err)
	}
	if len(cart.Items) != 0 {
		t.Errorf("expected empty cart, got %+v", cart.Items)
	}
}

func TestWriteResetsTTLToFullWindow(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, DefaultTTL)

	if _, err := svc.AddItem(context.Background(), "alice", item("p1", "10.00", 1)); err != nil {
		t.Fatal(err)
	}
	if store.lastTTL != 7*24*time.Hour {
		t.Errorf("expected 7-day TTL on write, got %s", store.lastTTL)
	}
}

func TestConcurrentAddsDoNotLoseUpdates(t *testing.T) {
	svc := NewService(newFakeStore(), DefaultTTL)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if _, err := svc.AddItem(ctx, "alice", item("p1", "10.00", 1)); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	cart, err := svc.Get(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != n {
		t.Errorf("expected one line with quantity %d, got %+v", n, cart.Items)
	}
}

// The concrete scenario from the cart protocol walkthrough.
func TestAliceScenario(t *testing.T) {
	svc := NewService(newFakeStore(), DefaultTTL)
	ctx := context.Background()

	cart, err := svc.Get(ctx, "alice")
	if err != nil || len(cart.Items) != 0 {
		t.Fatalf("expected fresh empty cart, got %+v, %v", cart, err)
	}

	cart, err = svc.AddItem(ctx, "alice", item("p1", "10.00", 2))
	if err != nil {
		t.Fatal(err)
	}
	if !cart.Total().Equal(decimal.RequireFromString("20.00")) || cart.ItemCount() != 2 {
		t.Fatalf("expected total 20.00 count 2, got %s / %d", cart.Total(), cart.ItemCount())
	}

	cart, err = svc.AddItem(ctx, "alice", item("p1", "10.00", 1))
	if err != nil {
		t.Fatal(err)
	}
	if cart.Items[0].Quantity != 3 || !cart.Total().Equal(decimal.RequireFromString("30.00")) {
		t.Fatalf("expected quantity 3 total 30.00, got %d / %s", cart.Items[0].Quantity, cart.Total())
	}

	cart, err = svc.UpdateItem(ctx, "alice", "p1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected empty cart after zero-quantity update, got %+v", cart.Items)
	}
}
