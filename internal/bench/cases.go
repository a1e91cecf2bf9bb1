package bench

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"instant-mapper/mapper"
	"instant-mapper/store"
	"instant-mapper/warehouse"
)

// Setup creates a factory with the sample store to warehouse pairs registered.
func Setup(opts ...mapper.Option) (*mapper.Factory, error) {
	f, err := mapper.New(opts...)
	if err != nil {
		return nil, err
	}

	if err := mapper.Register[store.Product, warehouse.Product](f); err != nil {
		return nil, err
	}

	if err := mapper.Register[store.Order, warehouse.Order](f); err != nil {
		return nil, err
	}

	return f, nil
}

// SampleOrder returns the order record mapped by every case.
func SampleOrder() *store.Order {
	return &store.Order{
		ID:          "6f1c2a3b-4d5e-4f60-8a7b-9c0d1e2f3a4b",
		CustomerID:  "0b9e8d7c-6b5a-4f39-8e27-1d0c9b8a7f6e",
		OrderNumber: "SO-1001",
		Status:      "PAID",
		TotalCents:  "1250",
		Currency:    "EUR",
		Paid:        1,
		OrderedAt:   "2024-05-01T10:00:00Z",
		ShipWithin:  "48h",
		Items: []store.OrderItem{
			{ProductID: 7, Name: "Desk lamp", Quantity: 1, UnitPrice: 1250},
		},
	}
}

// ManualOrder is the hand-written equivalent of the registered
// store.Order to warehouse.Order plan.
func ManualOrder(src *store.Order) *warehouse.Order {
	if src == nil {
		return nil
	}

	dst := &warehouse.Order{
		OrderNumber: src.OrderNumber,
		Currency:    src.Currency,
		Paid:        src.Paid != 0,
	}

	dst.ID, _ = uuid.Parse(src.ID)
	dst.CustomerID, _ = uuid.Parse(src.CustomerID)

	if status := warehouse.OrderStatus(src.Status); status.IsValid() {
		dst.Status = status
	}

	dst.TotalCents, _ = strconv.ParseInt(src.TotalCents, 10, 64)
	dst.OrderedAt, _ = time.Parse(time.RFC3339Nano, src.OrderedAt)
	dst.ShipWithin, _ = time.ParseDuration(src.ShipWithin)

	return dst
}

// Cases returns the comparison set: the hand-written mapping first, then
// the typed and untyped factory entry points.
func Cases(f *mapper.Factory) []Case {
	order := SampleOrder()

	var untyped any = order

	return []Case{
		{
			Name: "manual",
			Fn: func() error {
				if ManualOrder(order) == nil {
					return fmt.Errorf("manual mapping returned nil")
				}

				return nil
			},
		},
		{
			Name: "typed",
			Fn: func() error {
				_, err := mapper.Map[store.Order, warehouse.Order](f, order)
				return err
			},
		},
		{
			Name: "untyped",
			Fn: func() error {
				_, err := mapper.MapAs[warehouse.Order](f, untyped)
				return err
			},
		},
		{
			Name: "into",
			Fn: func() error {
				var dst warehouse.Order
				return f.MapInto(untyped, &dst)
			},
		},
	}
}
