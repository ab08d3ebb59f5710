package httpx

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/guitarshop/internal/order/domain"
)

type CreateOrderRequest struct {
	CustomerID string          `json:"customerId"`
	Email      string          `json:"email"`
	FirstName  string          `json:"firstName"`
	LastName   string          `json:"lastName"`
	Address    string          `json:"address"`
	City       string          `json:"city"`
	Country    string          `json:"country"`
	PostalCode string          `json:"postalCode"`
	Items      []OrderItemDTO  `json:"items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Shipping   decimal.Decimal `json:"shippingCost"`
	Total      decimal.Decimal `json:"total"`
	// Status is accepted but ignored: new orders always start PENDING.
	Status string `json:"status,omitempty"`
}

type OrderItemDTO struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	ImageURL  string          `json:"imageUrl"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type OrderResponse struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customerId"`
	Email      string          `json:"email"`
	FirstName  string          `json:"firstName,omitempty"`
	LastName   string          `json:"lastName,omitempty"`
	Address    string          `json:"address,omitempty"`
	City       string          `json:"city,omitempty"`
	Country    string          `json:"country,omitempty"`
	PostalCode string          `json:"postalCode,omitempty"`
	Items      []OrderItemDTO  `json:"items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Shipping   decimal.Decimal `json:"shippingCost"`
	Total      decimal.Decimal `json:"total"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func mapOrderToResponse(order *domain.Order) OrderResponse {
	items := make([]OrderItemDTO, len(order.Items))
	for i, it := range order.Items {
		items[i] = OrderItemDTO{
			ProductID: it.ProductID,
			Name:      it.Name,
			Brand:     it.Brand,
			Price:     it.Price,
			Quantity:  it.Quantity,
			ImageURL:  it.ImageURL,
		}
	}
	return OrderResponse{
		ID:         order.ID,
		CustomerID: order.CustomerID,
		Email:      order.Email,
		FirstName:  order.FirstName,
		LastName:   order.LastName,
		Address:    order.Address,
		City:       order.City,
		Country:    order.Country,
		PostalCode: order.PostalCode,
		Items:      items,
		Subtotal:   order.Subtotal,
		Shipping:   order.Shipping,
		Total:      order.Total,
		Status:     string(order.Status),
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.UpdatedAt,
	}
}

func mapRequestToDraft(req CreateOrderRequest) domain.Order {
	items := make([]domain.OrderItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = domain.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Brand:     it.Brand,
			Price:     it.Price,
			Quantity:  it.Quantity,
			ImageURL:  it.ImageURL,
		}
	}
	return domain.Order{
		CustomerID: req.CustomerID,
		Email:      req.Email,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Address:    req.Address,
		City:       req.City,
		Country:    req.Country,
		PostalCode: req.PostalCode,
		Items:      items,
		Subtotal:   req.Subtotal,
		Shipping:   req.Shipping,
		Total:      req.Total,
	}
}
