package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/guitarshop/internal/pkg/httpmw"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(httpmw.AttachRequestMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/orders", handler.ListOrders)
	r.Post("/orders", handler.CreateOrder)
	r.Get("/orders/{id}", handler.GetOrder)
	r.Get("/orders/customer/{customerId}", handler.ListOrdersByCustomer)
	r.Patch("/orders/{id}/status", handler.UpdateStatus)
	r.Get("/health", handler.Health)
	return r
}
