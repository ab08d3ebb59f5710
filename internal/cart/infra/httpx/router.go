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

	r.Get("/cart/{customerId}", handler.GetCart)
	r.Post("/cart/{customerId}/items", handler.AddItem)
	r.Put("/cart/{customerId}/items/{productId}", handler.UpdateItem)
	r.Delete("/cart/{customerId}/items/{productId}", handler.RemoveItem)
	r.Delete("/cart/{customerId}", handler.ClearCart)
	r.Get("/health", handler.Health)
	return r
}
