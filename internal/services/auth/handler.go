package auth

import (
	"net/http"

	"restaurant-backend/internal/httpx"
	"restaurant-backend/internal/logger"
	"restaurant-backend/internal/models"
)

// Handler handles HTTP requests for registration, login and profiles
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new auth handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// Register handles POST /register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	requestID := RequestIDFromContext(r.Context())

	var req models.RegisterRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	// Role assignment is reserved for the admin employee flow
	req.RoleID = 0

	user, err := h.service.Register(r.Context(), &req, requestID)
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	httpx.JSON(w, http.StatusCreated, models.UserToResponse(user))
}

// Login handles POST /login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	requestID := RequestIDFromContext(r.Context())

	var req models.LoginRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	token, err := h.service.Login(r.Context(), &req, requestID)
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]string{"token": token})
}

// Logout handles POST /logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	requestID := RequestIDFromContext(r.Context())

	if err := h.service.Logout(r.Context(), TokenFromContext(r.Context())); err != nil {
		h.logger.Error("logout_failed", requestID, "Failed to revoke token", err)
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Profile handles GET /profile
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	httpx.JSON(w, http.StatusOK, models.UserToResponse(user))
}

// NewEmployee handles POST /employees (admin only): registration with an
// explicit role
func (h *Handler) NewEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := RequestIDFromContext(r.Context())

	var req models.RegisterRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	if req.RoleID == 0 {
		httpx.Error(w, http.StatusBadRequest, "role_id is required", requestID)
		return
	}

	user, err := h.service.Register(r.Context(), &req, requestID)
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	httpx.JSON(w, http.StatusCreated, models.UserToResponse(user))
}
