// Package server wires the HTTP surface: routes, middleware and role gates.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"restaurant-backend/internal/httpx"
	"restaurant-backend/internal/models"
	"restaurant-backend/internal/services/auth"
	"restaurant-backend/internal/services/employee"
	"restaurant-backend/internal/services/order"
	"restaurant-backend/internal/services/product"
	"restaurant-backend/internal/services/promo"
	"restaurant-backend/internal/services/report"
)

// Handlers bundles the per-service HTTP handlers
type Handlers struct {
	Auth     *auth.Handler
	Order    *order.Handler
	Product  *product.Handler
	Employee *employee.Handler
	Promo    *promo.Handler
	Report   *report.Handler
}

// staff is every non-client role
var staff = []string{
	models.RoleWaiter,
	models.RoleCourier,
	models.RoleFloorWorker,
	models.RoleKitchenWorker,
	models.RoleAdmin,
}

// NewRouter builds the router. authService provides the token middleware.
func NewRouter(h Handlers, authService *auth.Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(auth.RequestID)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/register", h.Auth.Register)
	r.Post("/login", h.Auth.Login)

	r.Group(func(r chi.Router) {
		r.Use(authService.Authenticator)

		r.Post("/logout", h.Auth.Logout)
		r.Get("/profile", h.Auth.Profile)

		r.Get("/menu", h.Product.GetMenu)
		r.Get("/menu/{id}", h.Product.GetProduct)
		r.Get("/promos", h.Promo.GetPromos)
		r.Get("/tables/available", h.Order.GetAvailableTables)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRoles(models.RoleClient, models.RoleWaiter, models.RoleAdmin))
			r.Post("/orders", h.Order.CreateOrder)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRoles(models.RoleClient))
			r.Get("/orders/my", h.Order.GetUserOrders)
			r.Get("/booking", h.Order.GetBooking)
			r.Post("/booking", h.Order.BookTable)
			r.Post("/booking/cancel", h.Order.CancelBooking)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRoles(staff...))
			r.Get("/orders", h.Order.GetOrders)
			r.Get("/employees/me/shifts", h.Employee.GetMyShifts)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRoles(models.RoleWaiter, models.RoleCourier,
				models.RoleKitchenWorker, models.RoleAdmin))
			r.Post("/orders/{id}/status", h.Order.ChangeOrderStatus)
			r.Post("/orders/{id}/cancel", h.Order.CancelOrder)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRoles(models.RoleCourier, models.RoleAdmin))
			r.Get("/orders/delivery", h.Order.GetDeliveryOrders)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRoles(models.RoleWaiter))
			r.Get("/employees/me/tables", h.Employee.GetMyTables)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRoles(models.RoleWaiter, models.RoleCourier))
			r.Get("/reports/me", h.Report.GetMyReport)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRoles(models.RoleFloorWorker, models.RoleAdmin))
			r.Get("/tables", h.Order.GetTables)
			r.Get("/bookings", h.Order.GetAllBookings)
			r.Get("/orders/delivery/unassigned", h.Order.GetUnfinishedDeliveryOrders)
			r.Post("/orders/{id}/courier", h.Employee.AppointCourier)
			r.Get("/shifts", h.Employee.GetShifts)
			r.Get("/sales", h.Order.AnalyzeSales)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRoles(models.RoleAdmin, models.RoleKitchenWorker))
			r.Get("/ingredients", h.Product.GetIngredients)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRoles(models.RoleAdmin))
			r.Post("/ingredients/replenish", h.Product.ReplenishIngredients)
			r.Post("/products", h.Product.AddProduct)
			r.Put("/products/{id}", h.Product.EditProduct)
			r.Delete("/products/{id}", h.Product.DeleteProduct)

			r.Get("/employees", h.Employee.GetAllEmployees)
			r.Post("/employees", h.Auth.NewEmployee)
			r.Post("/employees/{id}/shift", h.Employee.AppointToShift)
			r.Post("/tables/{id}/waiter", h.Employee.AppointWaiter)
			r.Get("/roles", h.Employee.GetRoles)

			r.Post("/promos", h.Promo.AddPromo)
			r.Put("/promos/{id}", h.Promo.EditPromo)
			r.Delete("/promos/{id}", h.Promo.DeletePromo)

			r.Get("/reports/sales.pdf", h.Report.GetSalesReport)
			r.Get("/reports/employees.pdf", h.Report.GetEmployeesReport)
		})
	})

	return r
}
