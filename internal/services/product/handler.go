package product

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

// Handler handles HTTP requests for the menu and the inventory ledger
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new product handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// GetMenu handles GET /menu
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	requestID := auth.RequestIDFromContext(r.Context())

	products, err := h.service.GetAllProducts(r.Context())
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	result := make([]models.ProductResponse, 0, len(products))
	for i := range products {
		result = append(result, models.ProductToResponse(&products[i]))
	}

	httpx.JSON(w, http.StatusOK, result)
}

// GetProduct handles GET /menu/{id}: a menu position with its recipe
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	requestID := auth.RequestIDFromContext(r.Context())

	id, err := productID(r)
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	p, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	resp := models.ProductToResponse(p)
	httpx.JSON(w, http.StatusOK, map[string]interface{}{
		"id":          resp.ID,
		"name":        resp.Name,
		"price":       resp.Price,
		"ingredients": p.Recipe,
	})
}

// AddProduct handles POST /menu
func (h *Handler) AddProduct(w http.ResponseWriter, r *http.Request) {
	requestID := auth.RequestIDFromContext(r.Context())

	var req models.ProductRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	p, err := h.service.AddProduct(r.Context(), &req, requestID)
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	httpx.JSON(w, http.StatusCreated, models.ProductToResponse(p))
}

// EditProduct handles PUT /menu/{id}
func (h *Handler) EditProduct(w http.ResponseWriter, r *http.Request) {
	requestID := auth.RequestIDFromContext(r.Context())

	id, err := productID(r)
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	var req models.ProductRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	if err := h.service.EditProduct(r.Context(), id, &req, requestID); err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteProduct handles DELETE /menu/{id}
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	requestID := auth.RequestIDFromContext(r.Context())

	id, err := productID(r)
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id, requestID); err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetIngredients handles GET /ingredients?available=true
func (h *Handler) GetIngredients(w http.ResponseWriter, r *http.Request) {
	requestID := auth.RequestIDFromContext(r.Context())

	var (
		ingredients []models.Ingredient
		err         error
	)
	if r.URL.Query().Get("available") == "true" {
		ingredients, err = h.service.GetAvailableIngredients(r.Context())
	} else {
		ingredients, err = h.service.GetAllIngredients(r.Context())
	}
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	if ingredients == nil {
		ingredients = []models.Ingredient{}
	}
	httpx.JSON(w, http.StatusOK, ingredients)
}

// ReplenishIngredients handles POST /ingredients/replenish
func (h *Handler) ReplenishIngredients(w http.ResponseWriter, r *http.Request) {
	requestID := auth.RequestIDFromContext(r.Context())

	var req models.ReplenishRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	if err := h.service.ReplenishIngredients(r.Context(), &req, requestID); err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func productID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		return 0, apperr.Validation("invalid product id")
	}
	return id, nil
}
