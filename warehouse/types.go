// Package warehouse holds the domain records the store transport records map onto.
package warehouse

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a sellable item in the warehouse.
type Product struct {
	ID          int64
	SKU         string
	Name        string
	Description string
	PriceCents  int64
	Inventory   int
	Active      bool
}

// Order represents a customer's purchase.
type Order struct {
	ID          uuid.UUID
	CustomerID  uuid.UUID
	OrderNumber string
	Status      OrderStatus
	TotalCents  int64
	Currency    string
	Paid        bool
	OrderedAt   time.Time
	ShipWithin  time.Duration
	Items       []OrderItem // never mapped: nested shapes are out of scope
	Signature   string
	UpdatedAt   time.Time `mapper:",readonly"`
}

// OrderItem is a line item within an order.
type OrderItem struct {
	ProductID int64
	Quantity  int
	UnitPrice int64
}

// OrderStatus is a custom type for type-safe status handling.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// IsValid reports whether s is one of the known statuses.
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusShipped, StatusCancelled:
		return true
	default:
		return false
	}
}
