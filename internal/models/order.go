package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderKind discriminates bookings from placed orders. It is persisted at
// creation time; line-item emptiness is never used as the discriminant.
type OrderKind string

const (
	KindBooking OrderKind = "booking"
	KindOrder   OrderKind = "order"
)

// OrderStatus represents the lifecycle status of an order
type OrderStatus string

const (
	StatusAccepted         OrderStatus = "Accepted"
	StatusPreparing        OrderStatus = "Preparing"
	StatusServed           OrderStatus = "Served"
	StatusHandedToDelivery OrderStatus = "HandedToDelivery"
	StatusDelivered        OrderStatus = "Delivered"
	StatusCancelled        OrderStatus = "Cancelled"
)

// Valid reports whether s is one of the known status labels
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusAccepted, StatusPreparing, StatusServed, StatusHandedToDelivery, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed out of s
func (s OrderStatus) Terminal() bool {
	return s == StatusCancelled || s == StatusDelivered
}

// OrderLine is one (product, quantity) entry attached to an order
type OrderLine struct {
	ID          int             `json:"id,omitempty" db:"id"`
	OrderID     int             `json:"order_id,omitempty" db:"order_id"`
	ProductID   int             `json:"product_id" db:"product_id"`
	ProductName string          `json:"name" db:"name"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Count       int             `json:"count" db:"count"`
}

// Order represents either a table booking (KindBooking, no lines) or a
// placed order (KindOrder, at least one line)
type Order struct {
	ID        int         `json:"id,omitempty" db:"id"`
	Kind      OrderKind   `json:"kind" db:"kind"`
	Status    OrderStatus `json:"status" db:"status"`
	Date      time.Time   `json:"-" db:"date"`
	Address   *string     `json:"address,omitempty" db:"address"`
	ClientID  *int        `json:"client_id,omitempty" db:"client_id"`
	TableID   *int        `json:"table_id,omitempty" db:"table_id"`
	CourierID *int        `json:"courier_id,omitempty" db:"courier_id"`
	Items     []OrderLine `json:"items,omitempty"`
	CreatedAt time.Time   `json:"-" db:"created_at"`
}

// Table represents a dining table. Client is the current same-day occupant;
// a table can be booked for a future date while unoccupied now.
type Table struct {
	ID       int  `json:"id" db:"id"`
	ClientID *int `json:"client_id,omitempty" db:"client_id"`
	WaiterID *int `json:"waiter_id,omitempty" db:"waiter_id"`
}

// CreateOrderRequest represents the request to place an order
type CreateOrderRequest struct {
	TableID *int               `json:"table,omitempty"`
	Address *string            `json:"address,omitempty"`
	Items   []OrderItemRequest `json:"products"`
}

// OrderItemRequest is one requested line item
type OrderItemRequest struct {
	ProductID int `json:"id"`
	Count     int `json:"count"`
}

// BookTableRequest represents the request to book a table
type BookTableRequest struct {
	Date    string `json:"date"`
	TableID int    `json:"table"`
}

// BookingResponse represents an active booking over the wire
type BookingResponse struct {
	ID      int    `json:"id"`
	TableID int    `json:"table"`
	Date    string `json:"date"`
}

// OrderLineResponse is one line item over the wire
type OrderLineResponse struct {
	ProductID int    `json:"id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Count     int    `json:"count"`
}

// OrderResponse represents an order over the wire
type OrderResponse struct {
	ID       int                 `json:"id"`
	Date     string              `json:"date"`
	Address  *string             `json:"address,omitempty"`
	TableID  *int                `json:"table,omitempty"`
	Status   string              `json:"status"`
	Products []OrderLineResponse `json:"products"`
}

// OrderToResponse maps an order to its wire shape
func OrderToResponse(o *Order) OrderResponse {
	products := make([]OrderLineResponse, 0, len(o.Items))
	for _, line := range o.Items {
		products = append(products, OrderLineResponse{
			ProductID: line.ProductID,
			Name:      line.ProductName,
			Price:     line.Price.StringFixed(2),
			Count:     line.Count,
		})
	}
	return OrderResponse{
		ID:       o.ID,
		Date:     FormatDateTime(o.Date),
		Address:  o.Address,
		TableID:  o.TableID,
		Status:   string(o.Status),
		Products: products,
	}
}

// ProductSales is one row of the sales analysis: total quantity sold per product
type ProductSales struct {
	ProductID int    `json:"id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
}

// OrderEvent is published to the orders topic on creation and status changes
type OrderEvent struct {
	Event     string           `json:"event"`
	OrderID   int              `json:"order_id"`
	Kind      OrderKind        `json:"kind"`
	Status    OrderStatus      `json:"status"`
	OldStatus OrderStatus      `json:"old_status,omitempty"`
	Date      string           `json:"date"`
	TableID   *int             `json:"table,omitempty"`
	Address   *string          `json:"address,omitempty"`
	Items     []OrderEventItem `json:"items,omitempty"`
}

// OrderEventItem is one line item in an order event
type OrderEventItem struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
