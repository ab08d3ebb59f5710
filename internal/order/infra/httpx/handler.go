package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/guitarshop/internal/order/app"
	"github.com/jcmexdev/guitarshop/internal/order/domain"
	"github.com/jcmexdev/guitarshop/internal/pkg/httpmw"
)

// Handler handles incoming HTTP requests for the order domain.
type Handler struct {
	orders *app.Service
}

func NewHandler(orders *app.Service) *Handler {
	return &Handler{orders: orders}
}

// CreateOrder persists a PENDING order; any status on the request is ignored.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.CustomerID == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "customerId and email are required")
		return
	}

	slog.InfoContext(r.Context(), "creating order",
		"request_id", httpmw.RequestID(r.Context()),
		"idempotency_key", httpmw.IdempotencyKey(r.Context()),
		"customer_id", req.CustomerID,
	)

	order, err := h.orders.Create(r.Context(), mapRequestToDraft(req))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "order_store_error", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, mapOrderToResponse(order))
}

// GetOrder retrieves a single order by its ID.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	order, err := h.orders.Get(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "order_not_found", id)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "order_store_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, mapOrderToResponse(order))
}

// ListOrders returns all orders, optionally filtered by ?status=.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	var (
		orders []domain.Order
		err    error
	)

	if raw := r.URL.Query().Get("status"); raw != "" {
		status, perr := domain.ParseStatus(raw)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "invalid_status", raw)
			return
		}
		orders, err = h.orders.ListByStatus(r.Context(), status)
	} else {
		orders, err = h.orders.List(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "order_store_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, mapOrdersToResponse(orders))
}

// ListOrdersByCustomer returns a customer's orders, newest first.
func (h *Handler) ListOrdersByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerId")

	orders, err := h.orders.ListByCustomer(r.Context(), customerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "order_store_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, mapOrdersToResponse(orders))
}

// UpdateStatus moves an order along its lifecycle.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), id, req.Status)
	switch {
	case errors.Is(err, domain.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "invalid_status", req.Status)
		return
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "order_not_found", id)
		return
	case errors.Is(err, domain.ErrIllegalTransition):
		writeError(w, http.StatusConflict, "illegal_transition", err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "order_store_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, mapOrderToResponse(order))
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "UP",
		"service": "guitarshop-orders",
	})
}

func mapOrdersToResponse(orders []domain.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = mapOrderToResponse(&orders[i])
	}
	return out
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
