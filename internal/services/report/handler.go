package report

import (
	"fmt"
	"net/http"
	"time"

	"restaurant-backend/internal/httpx"
	"restaurant-backend/internal/logger"
	"restaurant-backend/internal/models"
	"restaurant-backend/internal/services/auth"
)

// Handler handles HTTP requests for reports
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new report handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// GetMyReport handles GET /reports/me: the caller's seven-day report
func (h *Handler) GetMyReport(w http.ResponseWriter, r *http.Request) {
	requestID := auth.RequestIDFromContext(r.Context())
	user := auth.UserFromContext(r.Context())

	report, err := h.service.EmployeeWeekReport(r.Context(), user)
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	httpx.JSON(w, http.StatusOK, report)
}

// GetSalesReport handles GET /reports/sales.pdf?from_date=&to_date=
func (h *Handler) GetSalesReport(w http.ResponseWriter, r *http.Request) {
	requestID := auth.RequestIDFromContext(r.Context())

	from, to, err := dateRange(r)
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	doc, err := h.service.SalesReportPDF(r.Context(), from, to, requestID)
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	writePDF(w, doc, fmt.Sprintf("sales_%s_%s.pdf",
		models.FormatDate(from), models.FormatDate(to)))
}

// GetEmployeesReport handles GET /reports/employees.pdf?from_date=&to_date=
func (h *Handler) GetEmployeesReport(w http.ResponseWriter, r *http.Request) {
	requestID := auth.RequestIDFromContext(r.Context())

	from, to, err := dateRange(r)
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	doc, err := h.service.EmployeesReportPDF(r.Context(), from, to, requestID)
	if err != nil {
		httpx.ErrorFrom(w, err, requestID)
		return
	}

	writePDF(w, doc, fmt.Sprintf("employees_%s_%s.pdf",
		models.FormatDate(from), models.FormatDate(to)))
}

func writePDF(w http.ResponseWriter, doc []byte, filename string) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

func dateRange(r *http.Request) (from, to time.Time, err error) {
	from, err = models.ParseDate(r.URL.Query().Get("from_date"))
	if err != nil {
		return
	}
	to, err = models.ParseDate(r.URL.Query().Get("to_date"))
	return
}
