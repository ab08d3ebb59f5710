package domain

import "github.com/shopspring/decimal"

// CartItem is a single line in a customer's cart. At most one line exists
// per distinct ProductID; adding the same product again merges quantities.
type CartItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	ImageURL  string          `json:"imageUrl"`
}

// Cart is a customer's transient, TTL-expiring selection prior to checkout.
// Line order is insertion order.
type Cart struct {
	CustomerID string     `json:"customerId"`
	Items      []CartItem `json:"items"`
}

// New returns an empty cart for the customer. Carts are created lazily:
// a customer with no stored cart gets one of these, not an error.
func New(customerID string) *Cart {
	return &Cart{CustomerID: customerID, Items: []CartItem{}}
}

// Total is the sum of price x quantity over all lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// ItemCount is the sum of line quantities.
func (c *Cart) ItemCount() int {
	count := 0
	for _, it := range c.Items {
		count += it.Quantity
	}
	return count
}
