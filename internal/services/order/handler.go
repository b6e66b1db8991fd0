package order

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"restaurant-backend/internal/apperr"
	"restaurant-backend/internal/httpx"
	"restaurant-backend/internal/logger"
	"restaurant-backend/internal/models"
	"restaurant-backend/internal/services/auth"
)

// Handler handles HTTP requests for orders, bookings and tables
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new order handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// CreateOrder handles POST /orders
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	requestID := auth.RequestIDFromContext(r.Context())
	user := auth.UserFromContext(r.Context())

	var req models.CreateOrderRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	order, err := h.service.CreateOrder(r.Context(), user.ID, &req, requestID)
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	httpx.JSON(w, http.StatusCreated, models.OrderToResponse(order))
}

// GetOrders handles GET /orders?status=...&tables=1,2
func (h *Handler) GetOrders(w http.ResponseWriter, r *http.Request) {
	requestID := auth.RequestIDFromContext(r.Context())

	var status *models.OrderStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := models.OrderStatus(raw)
		status = &s
	}

	tableIDs, err := parseIDList(r.URL.Query().Get("tables"))
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	orders, err := h.service.GetOrders(r.Context(), status, tableIDs)
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	httpx.JSON(w, http.StatusOK, ordersToResponse(orders))
}

// GetUserOrders handles GET /orders/my
func (h *Handler) GetUserOrders(w http.ResponseWriter, r *http.Request) {
	requestID := auth.RequestIDFromContext(r.Context())
	user := auth.UserFromContext(r.Context())

	orders, err := h.service.GetUserOrders(r.Context(), user.ID)
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	httpx.JSON(w, http.StatusOK, ordersToResponse(orders))
}

// ChangeOrderStatus handles POST /orders/{id}/status
func (h *Handler) ChangeOrderStatus(w http.ResponseWriter, r *http.Request) {
	requestID := auth.RequestIDFromContext(r.Context())

	orderID, err := pathID(r, "id")
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	if err := h.service.ChangeOrderStatus(r.Context(), orderID, models.OrderStatus(req.Status), requestID); err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CancelOrder handles POST /orders/{id}/cancel
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	requestID := auth.RequestIDFromContext(r.Context())

	orderID, err := pathID(r, "id")
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	if err := h.service.CancelOrder(r.Context(), orderID, requestID); err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetDeliveryOrders handles GET /orders/delivery
func (h *Handler) GetDeliveryOrders(w http.ResponseWriter, r *http.Request) {
	requestID := auth.RequestIDFromContext(r.Context())

	orders, err := h.service.GetDeliveryOrders(r.Context())
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	httpx.JSON(w, http.StatusOK, ordersToResponse(orders))
}

// GetUnfinishedDeliveryOrders handles GET /orders/delivery/unassigned
func (h *Handler) GetUnfinishedDeliveryOrders(w http.ResponseWriter, r *http.Request) {
	requestID := auth.RequestIDFromContext(r.Context())

	orders, err := h.service.GetUnfinishedDeliveryOrders(r.Context())
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	httpx.JSON(w, http.StatusOK, ordersToResponse(orders))
}

// GetBooking handles GET /booking
func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	requestID := auth.RequestIDFromContext(r.Context())
	user := auth.UserFromContext(r.Context())

	booking, err := h.service.GetUserBooking(r.Context(), user.ID)
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	if booking == nil {
		httpx.JSON(w, http.StatusOK, nil)
		return
	}

	httpx.JSON(w, http.StatusOK, models.BookingResponse{
		ID:      booking.ID,
		TableID: *booking.TableID,
		Date:    models.FormatDateTime(booking.Date),
	})
}

// BookTable handles POST /booking
func (h *Handler) BookTable(w http.ResponseWriter, r *http.Request) {
	requestID := auth.RequestIDFromContext(r.Context())
	user := auth.UserFromContext(r.Context())

	var req models.BookTableRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}
	if req.TableID == 0 {
		httpx.Error(w, http.StatusBadRequest, "table is required", requestID)
		return
	}

	at, err := models.ParseDateTime(req.Date)
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	booking, err := h.service.BookTable(r.Context(), user.ID, at, req.TableID, requestID)
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	httpx.JSON(w, http.StatusCreated, models.BookingResponse{
		ID:      booking.ID,
		TableID: req.TableID,
		Date:    models.FormatDateTime(booking.Date),
	})
}

// CancelBooking handles POST /booking/cancel
func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	requestID := auth.RequestIDFromContext(r.Context())
	user := auth.UserFromContext(r.Context())

	booking, err := h.service.GetUserBooking(r.Context(), user.ID)
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}
	if booking == nil {
		httpx.Error(w, http.StatusBadRequest, "no active booking", requestID)
		return
	}

	if err := h.service.CancelOrder(r.Context(), booking.ID, requestID); err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetAllBookings handles GET /bookings
func (h *Handler) GetAllBookings(w http.ResponseWriter, r *http.Request) {
	requestID := auth.RequestIDFromContext(r.Context())

	bookings, err := h.service.GetAllBookings(r.Context())
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	result := make([]models.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		resp := models.BookingResponse{ID: b.ID, Date: models.FormatDateTime(b.Date)}
		if b.TableID != nil {
			resp.TableID = *b.TableID
		}
		result = append(result, resp)
	}

	httpx.JSON(w, http.StatusOK, result)
}

// GetAvailableTables handles GET /tables/available?time=DD.MM.YYYY
func (h *Handler) GetAvailableTables(w http.ResponseWriter, r *http.Request) {
	requestID := auth.RequestIDFromContext(r.Context())

	day, err := models.ParseDateTime(r.URL.Query().Get("time"))
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	tables, err := h.service.GetAvailableTables(r.Context(), day)
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	ids := make([]int, 0, len(tables))
	for _, t := range tables {
		ids = append(ids, t.ID)
	}

	httpx.JSON(w, http.StatusOK, ids)
}

// GetTables handles GET /tables: the floor overview with occupancy load
func (h *Handler) GetTables(w http.ResponseWriter, r *http.Request) {
	requestID := auth.RequestIDFromContext(r.Context())

	tables, err := h.service.store.GetTables(r.Context())
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	occupied := 0
	for _, t := range tables {
		if t.ClientID != nil {
			occupied++
		}
	}

	load := 0.0
	if len(tables) > 0 {
		load = float64(occupied) / float64(len(tables))
	}

	httpx.JSON(w, http.StatusOK, map[string]interface{}{
		"tables": tables,
		"load":   load,
	})
}

// AnalyzeSales handles GET /sales?from_date=DD.MM.YYYY&to_date=DD.MM.YYYY
func (h *Handler) AnalyzeSales(w http.ResponseWriter, r *http.Request) {
	requestID := auth.RequestIDFromContext(r.Context())

	from, to, err := dateRange(r)
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	sales, err := h.service.AnalyzeSales(r.Context(), from, to)
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	httpx.JSON(w, http.StatusOK, sales)
}

func ordersToResponse(orders []*models.Order) []models.OrderResponse {
	result := make([]models.OrderResponse, 0, len(orders))
	for _, o := range orders {
		result = append(result, models.OrderToResponse(o))
	}
	return result
}

func pathID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id < 1 {
		return 0, apperr.Validation("invalid %s", name)
	}
	return id, nil
}

func parseIDList(raw string) ([]int, error) {
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, apperr.Validation("invalid table id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func dateRange(r *http.Request) (from, to time.Time, err error) {
	from, err = models.ParseDate(r.URL.Query().Get("from_date"))
	if err != nil {
		return
	}
	to, err = models.ParseDate(r.URL.Query().Get("to_date"))
	return
}
