// Package report builds the personal employee reports and the PDF
// documents for management.
package report

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"restaurant-backend/internal/apperr"
	"restaurant-backend/internal/logger"
	"restaurant-backend/internal/models"
)

// Service implements report generation
type Service struct {
	store  Store
	logger *logger.Logger
	now    func() time.Time
}

// NewService creates a new report service
func NewService(store Store, log *logger.Logger) *Service {
	return &Service{store: store, logger: log, now: time.Now}
}

// EmployeeWeekReport returns order count and revenue per day over the last
// seven days. Waiters are measured by orders at their tables, couriers by
// their deliveries.
func (s *Service) EmployeeWeekReport(ctx context.Context, user *models.User) ([]DayTotals, error) {
	var totals func(ctx context.Context, id int, day time.Time) (int, decimal.Decimal, error)
	switch user.RoleName {
	case models.RoleWaiter:
		totals = s.store.WaiterDayTotals
	case models.RoleCourier:
		totals = s.store.CourierDayTotals
	default:
		return nil, &apperr.RoleError{Role: user.RoleName, Action: "view a personal report"}
	}

	report := make([]DayTotals, 0, 7)
	for offset := 6; offset >= 0; offset-- {
		day := s.now().AddDate(0, 0, -offset)
		orders, revenue, err := totals(ctx, user.ID, day)
		if err != nil {
			return nil, err
		}
		report = append(report, DayTotals{
			Date:    models.FormatDate(day),
			Orders:  orders,
			Revenue: revenue.StringFixed(2),
		})
	}
	return report, nil
}

// SalesReportPDF renders the per-product sales over the inclusive date
// range, with the most popular product highlighted
func (s *Service) SalesReportPDF(ctx context.Context, from, to time.Time, requestID string) ([]byte, error) {
	if to.Before(from) {
		return nil, apperr.Validation("report period end precedes its start")
	}

	sales, err := s.store.SalesByProduct(ctx, from, to)
	if err != nil {
		return nil, err
	}

	best := -1
	for i, row := range sales {
		if best < 0 || row.Quantity > sales[best].Quantity {
			best = i
		}
	}

	pdf := newReportPDF(fmt.Sprintf("Sales report %s - %s",
		models.FormatDate(from), models.FormatDate(to)))

	pdf.SetFont("Helvetica", "B", 11)
	tableHeader(pdf, []colSpec{
		{"Product", 70}, {"Price", 30}, {"Quantity", 30}, {"Revenue", 40},
	})

	pdf.SetFont("Helvetica", "", 11)
	total := decimal.Zero
	for i, row := range sales {
		price, err := decimal.NewFromString(row.Price)
		if err != nil {
			return nil, fmt.Errorf("failed to parse price of %q: %w", row.Name, err)
		}
		revenue := price.Mul(decimal.NewFromInt(int64(row.Quantity)))
		total = total.Add(revenue)

		fill := i == best
		if fill {
			pdf.SetFillColor(255, 230, 150)
		}
		pdf.CellFormat(70, 8, row.Name, "1", 0, "L", fill, 0, "")
		pdf.CellFormat(30, 8, row.Price, "1", 0, "R", fill, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%d", row.Quantity), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(40, 8, revenue.StringFixed(2), "1", 1, "R", fill, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(130, 8, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, total.StringFixed(2), "1", 1, "R", false, 0, "")

	s.logger.Info("sales_report_built", requestID, "Sales report built",
		"rows", len(sales), "from", models.FormatDate(from), "to", models.FormatDate(to))

	return renderPDF(pdf)
}

// EmployeesReportPDF renders per-employee order counts and revenue over the
// inclusive date range, waiters and couriers in separate sections
func (s *Service) EmployeesReportPDF(ctx context.Context, from, to time.Time, requestID string) ([]byte, error) {
	if to.Before(from) {
		return nil, apperr.Validation("report period end precedes its start")
	}

	waiters, err := s.store.WaiterRangeTotals(ctx, from, to)
	if err != nil {
		return nil, err
	}
	couriers, err := s.store.CourierRangeTotals(ctx, from, to)
	if err != nil {
		return nil, err
	}

	pdf := newReportPDF(fmt.Sprintf("Employees report %s - %s",
		models.FormatDate(from), models.FormatDate(to)))

	for _, section := range []struct {
		title string
		rows  []EmployeeTotals
	}{
		{"Waiters", waiters},
		{"Couriers", couriers},
	} {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 10, section.title, "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "B", 11)
		tableHeader(pdf, []colSpec{
			{"Employee", 80}, {"Role", 30}, {"Orders", 25}, {"Revenue", 35},
		})

		pdf.SetFont("Helvetica", "", 11)
		for _, row := range section.rows {
			name := fmt.Sprintf("%s %s", row.FirstName, row.LastName)
			pdf.CellFormat(80, 8, name, "1", 0, "L", false, 0, "")
			pdf.CellFormat(30, 8, row.Role, "1", 0, "L", false, 0, "")
			pdf.CellFormat(25, 8, fmt.Sprintf("%d", row.Orders), "1", 0, "R", false, 0, "")
			pdf.CellFormat(35, 8, row.Revenue.StringFixed(2), "1", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}

	s.logger.Info("employees_report_built", requestID, "Employees report built",
		"waiters", len(waiters), "couriers", len(couriers))

	return renderPDF(pdf)
}

type colSpec struct {
	title string
	width float64
}

func newReportPDF(title string) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 12, title, "", 1, "C", false, 0, "")
	pdf.Ln(2)
	return pdf
}

func tableHeader(pdf *fpdf.Fpdf, cols []colSpec) {
	pdf.SetFillColor(220, 220, 220)
	for i, col := range cols {
		ln := 0
		if i == len(cols)-1 {
			ln = 1
		}
		pdf.CellFormat(col.width, 8, col.title, "1", ln, "C", true, 0, "")
	}
}

func renderPDF(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
