package employee

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

// Handler handles HTTP requests for staff management
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new employee handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// GetAllEmployees handles GET /employees
func (h *Handler) GetAllEmployees(w http.ResponseWriter, r *http.Request) {
	requestID := auth.RequestIDFromContext(r.Context())

	employees, err := h.service.GetAllEmployees(r.Context())
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	httpx.JSON(w, http.StatusOK, employees)
}

// AppointToShift handles POST /employees/{id}/shift
func (h *Handler) AppointToShift(w http.ResponseWriter, r *http.Request) {
	requestID := auth.RequestIDFromContext(r.Context())

	employeeID, err := pathID(r, "id")
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	var req struct {
		Date string `json:"date"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	date, err := models.ParseDate(req.Date)
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	if err := h.service.AppointEmployeeToShift(r.Context(), employeeID, date, requestID); err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AppointCourier handles POST /orders/{id}/courier
func (h *Handler) AppointCourier(w http.ResponseWriter, r *http.Request) {
	requestID := auth.RequestIDFromContext(r.Context())

	orderID, err := pathID(r, "id")
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	var req struct {
		CourierID int `json:"courier_id"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	if err := h.service.AppointCourierToOrder(r.Context(), orderID, req.CourierID, requestID); err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AppointWaiter handles POST /tables/{id}/waiter
func (h *Handler) AppointWaiter(w http.ResponseWriter, r *http.Request) {
	requestID := auth.RequestIDFromContext(r.Context())

	tableID, err := pathID(r, "id")
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	var req struct {
		WaiterID int `json:"waiter_id"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	if err := h.service.AppointWaiterToTable(r.Context(), tableID, req.WaiterID, requestID); err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetShifts handles GET /shifts: the full shift calendar
func (h *Handler) GetShifts(w http.ResponseWriter, r *http.Request) {
	requestID := auth.RequestIDFromContext(r.Context())

	calendar, err := h.service.GetShifts(r.Context())
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	httpx.JSON(w, http.StatusOK, calendar)
}

// GetMyShifts handles GET /employees/me/shifts
func (h *Handler) GetMyShifts(w http.ResponseWriter, r *http.Request) {
	requestID := auth.RequestIDFromContext(r.Context())
	user := auth.UserFromContext(r.Context())

	shifts, err := h.service.GetEmployeeShifts(r.Context(), user.ID)
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	httpx.JSON(w, http.StatusOK, shifts)
}

// GetMyTables handles GET /employees/me/tables: the waiter's assigned tables
func (h *Handler) GetMyTables(w http.ResponseWriter, r *http.Request) {
	requestID := auth.RequestIDFromContext(r.Context())
	user := auth.UserFromContext(r.Context())

	tables, err := h.service.GetWaiterAppointments(r.Context(), user.ID)
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	if tables == nil {
		tables = []int{}
	}
	httpx.JSON(w, http.StatusOK, tables)
}

// GetRoles handles GET /roles
func (h *Handler) GetRoles(w http.ResponseWriter, r *http.Request) {
	requestID := auth.RequestIDFromContext(r.Context())

	roles, err := h.service.GetRoles(r.Context())
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	httpx.JSON(w, http.StatusOK, roles)
}

func pathID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id < 1 {
		return 0, apperr.Validation("invalid %s", name)
	}
	return id, nil
}
