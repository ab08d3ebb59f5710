package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/guitarshop/internal/cart/app"
	"github.com/jcmexdev/guitarshop/internal/cart/domain"
	"github.com/jcmexdev/guitarshop/internal/pkg/httpmw"
)

// Handler handles incoming HTTP requests for the cart domain.
type Handler struct {
	carts *app.Service
}

func NewHandler(carts *app.Service) *Handler {
	return &Handler{carts: carts}
}

// GetCart returns the customer's cart; never-used customers get an empty cart.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerId")

	cart, err := h.carts.Get(r.Context(), customerID)
	if err != nil {
		writeError(w, http.StatusBadGateway, "cart_store_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, mapCartToResponse(cart))
}

// AddItem merges the posted item into the cart.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerId")

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.ProductID == "" || req.Quantity <= 0 || req.Price.IsNegative() {
		writeError(w, http.StatusBadRequest, "invalid_item",
			"productId is required, quantity must be positive, price must not be negative")
		return
	}

	slog.InfoContext(r.Context(), "adding cart item",
		"request_id", httpmw.RequestID(r.Context()),
		"customer_id", customerID,
		"product_id", req.ProductID,
	)

	cart, err := h.carts.AddItem(r.Context(), customerID, domain.CartItem{
		ProductID: req.ProductID,
		Name:      req.Name,
		Brand:     req.Brand,
		Price:     req.Price,
		Quantity:  req.Quantity,
		ImageURL:  req.ImageURL,
	})
	if err != nil {
		writeError(w, http.StatusBadGateway, "cart_store_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, mapCartToResponse(cart))
}

// UpdateItem sets an absolute quantity; zero or less removes the line.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerId")
	productID := chi.URLParam(r, "productId")

	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	cart, err := h.carts.UpdateItem(r.Context(), customerID, productID, req.Quantity)
	if err != nil {
		writeError(w, http.StatusBadGateway, "cart_store_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, mapCartToResponse(cart))
}

// RemoveItem drops a line; removing an absent product still returns 200.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerId")
	productID := chi.URLParam(r, "productId")

	cart, err := h.carts.RemoveItem(r.Context(), customerID, productID)
	if err != nil {
		writeError(w, http.StatusBadGateway, "cart_store_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, mapCartToResponse(cart))
}

// ClearCart deletes the stored cart key entirely.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerId")

	if err := h.carts.Clear(r.Context(), customerID); err != nil {
		writeError(w, http.StatusBadGateway, "cart_store_error", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "UP",
		"service": "guitarshop-cart",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
