package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterPublicRoutes mounts the routes that work without a token.
func (h *Handler) RegisterPublicRoutes(router chi.Router) {
	router.Post("/users/register", h.registerUser)
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/users/{id}", h.getUser)
}

func (h *Handler) registerUser(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	user, err := h.service.RegisterUser(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			respond(w, http.StatusConflict, map[string]string{"error": err.Error()})
		case errors.Is(err, ErrEmailRequired), errors.Is(err, ErrPasswordTooShort):
			respond(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		default:
			h.logger.Error("failed to register user", zap.Error(err))
			respond(w, http.StatusInternalServerError, map[string]string{"error": "failed to register user"})
		}
		return
	}

	respond(w, http.StatusCreated, user)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		h.logger.Error("failed to load user", zap.Error(err))
		respond(w, http.StatusInternalServerError, map[string]string{"error": "failed to load user"})
		return
	}

	respond(w, http.StatusOK, user)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
