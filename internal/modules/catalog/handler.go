package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler exposes catalog HTTP endpoints.
type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/v1/catalog/products", h.listProducts)
	r.Post("/api/v1/catalog/products", h.createProduct)
	r.Get("/api/v1/catalog/products/{id}", h.getProduct)
	r.Put("/api/v1/catalog/products/{id}", h.updateProduct)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	activeOnly := r.URL.Query().Get("active") != "false"
	products, err := h.service.ListProducts(r.Context(), category, activeOnly)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, products)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.CreateProduct(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusCreated, p)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.UpdateProduct(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, p)
}

// StatusFor maps catalog errors to HTTP statuses. Zero means unknown.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, ErrMissingVendor), errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrProductNameRequired), errors.Is(err, ErrInvalidPrice):
		return http.StatusUnprocessableEntity
	}
	return 0
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	if status := StatusFor(err); status != 0 {
		respond(w, status, map[string]string{"error": err.Error()})
		return
	}
	h.logger.Error("catalog request failed", zap.Error(err))
	respond(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
