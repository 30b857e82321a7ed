package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ProductHandler serves the placeholder product resource.
type ProductHandler struct{}

func NewProductHandler() *ProductHandler {
	return &ProductHandler{}
}

func (h *ProductHandler) RegisterRoutes(router chi.Router) {
	router.Get("/product", h.handleProduct)
}

func (h *ProductHandler) handleProduct(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Hello, This is Product"))
}
