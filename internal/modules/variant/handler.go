package variant

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/georgemunganga/vendorhub-backend/internal/modules/catalog"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler exposes the variant HTTP endpoints.
type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/v1/catalog/products/{id}/variants", h.list)
	r.Post("/api/v1/catalog/products/{id}/variants", h.create)
	r.Post("/api/v1/catalog/products/{id}/variants/preview", h.preview)
	r.Post("/api/v1/catalog/products/{id}/variants/generate", h.generate)

	r.Get("/api/v1/variants/{id}", h.get)
	r.Put("/api/v1/variants/{id}", h.update)
	r.Delete("/api/v1/variants/{id}", h.delete)
	r.Post("/api/v1/variants/{id}/default", h.setDefault)
	r.Patch("/api/v1/variants/{id}/stock", h.updateStock)
}

type matrixResponse struct {
	Created  int        `json:"created"`
	Existing int        `json:"existing"`
	Total    int        `json:"total"`
	Message  string     `json:"message"`
	Variants []*Variant `json:"variants"`
	Skipped  []*Variant `json:"skipped"`
}

func newMatrixResponse(res *MatrixResult, verb string) matrixResponse {
	msg := fmt.Sprintf("%s %d new variants", verb, res.Created())
	if res.Created() == 0 {
		msg = fmt.Sprintf("All %d combinations already exist", res.Existing())
	}
	return matrixResponse{
		Created:  res.Created(),
		Existing: res.Existing(),
		Total:    res.Total(),
		Message:  msg,
		Variants: res.ToCreate,
		Skipped:  res.AlreadyExists,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	variants, err := h.service.List(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, variants)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateVariantRequest
	if !decode(w, r, &req) {
		return
	}
	v, err := h.service.Create(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusCreated, v)
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.service.Preview(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, newMatrixResponse(res, "Would generate"))
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.service.Generate(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	status := http.StatusCreated
	if res.Created() == 0 {
		status = http.StatusOK
	}
	respond(w, status, newMatrixResponse(res, "Generated"))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, v)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req UpdateVariantRequest
	if !decode(w, r, &req) {
		return
	}
	v, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, v)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setDefault(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.SetDefault(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, v)
}

func (h *Handler) updateStock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity *int `json:"inventory_quantity"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Quantity == nil {
		respond(w, http.StatusUnprocessableEntity, map[string]string{"error": "inventory_quantity is required"})
		return
	}
	v, err := h.service.UpdateStock(r.Context(), chi.URLParam(r, "id"), *req.Quantity)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, v)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	status := catalog.StatusFor(err)
	switch {
	case status != 0:
	case errors.Is(err, ErrInvalidID):
		status = http.StatusBadRequest
	case errors.Is(err, ErrVariantNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrVariantExists):
		status = http.StatusConflict
	case IsValidation(err), errors.Is(err, ErrInvalidAttributeSet):
		status = http.StatusUnprocessableEntity
	default:
		h.logger.Error("variant request failed", zap.Error(err))
		respond(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	respond(w, status, map[string]string{"error": err.Error()})
}

func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return false
	}
	return true
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
