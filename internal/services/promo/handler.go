package promo

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"restaurant-backend/internal/apperr"
	"restaurant-backend/internal/httpx"
	"restaurant-backend/internal/logger"
	"restaurant-backend/internal/models"
	"restaurant-backend/internal/services/auth"
)

// Handler handles HTTP requests for promos
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new promo handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// GetPromos handles GET /promos?last=true
func (h *Handler) GetPromos(w http.ResponseWriter, r *http.Request) {
	requestID := auth.RequestIDFromContext(r.Context())

	if r.URL.Query().Get("last") == "true" {
		p, err := h.service.GetLastPromo(r.Context())
		if err != nil {
			httpx.ErrorFrom(w, err, requestID)
			return
		}
		httpx.JSON(w, http.StatusOK, p)
		return
	}

	promos, err := h.service.GetAllPromos(r.Context())
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	if promos == nil {
		promos = []models.Promo{}
	}
	httpx.JSON(w, http.StatusOK, promos)
}

// AddPromo handles POST /promos
func (h *Handler) AddPromo(w http.ResponseWriter, r *http.Request) {
	requestID := auth.RequestIDFromContext(r.Context())

	var req models.PromoRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	p, err := h.service.AddPromo(r.Context(), &req, requestID)
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	httpx.JSON(w, http.StatusCreated, p)
}

// EditPromo handles PUT /promos/{id}
func (h *Handler) EditPromo(w http.ResponseWriter, r *http.Request) {
	requestID := auth.RequestIDFromContext(r.Context())

	id, err := promoID(r)
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	var req models.PromoRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	if err := h.service.EditPromo(r.Context(), id, &req, requestID); err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeletePromo handles DELETE /promos/{id}
func (h *Handler) DeletePromo(w http.ResponseWriter, r *http.Request) {
	requestID := auth.RequestIDFromContext(r.Context())

	id, err := promoID(r)
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	if err := h.service.DeletePromo(r.Context(), id, requestID); err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func promoID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		return 0, apperr.Validation("invalid promo id")
	}
	return id, nil
}
