// Package store holds transport records as they arrive over the wire:
// identifiers and timestamps are text, flags are numbers.
package store

// Product represents an individual item available for sale.
// It mirrors warehouse.Product field for field and is the direct-copy case.
type Product struct {
	ID          int64  `json:"id"`
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	PriceCents  int64  `json:"price_cents"`
	Inventory   int    `json:"inventory_count"`
	Active      bool   `json:"active"`
}

// Order represents a transaction as submitted by a client.
type Order struct {
	ID          string      `json:"id"`          // UUID text
	CustomerID  string      `json:"customer_id"` // UUID text
	OrderNumber string      `json:"order_number"`
	Status      string      `json:"status"`
	TotalCents  string      `json:"total_cents"` // decimal text, e.g. "1250"
	Currency    string      `json:"currency"`
	Paid        int         `json:"paid"`        // 0 or 1
	OrderedAt   string      `json:"ordered_at"`  // RFC3339
	ShipWithin  string      `json:"ship_within"` // duration text, e.g. "48h"
	Items       []OrderItem `json:"items"`
	Signature   string      `json:"signature" mapper:"-"`
}

// OrderItem represents a specific product line within an order.
type OrderItem struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}
