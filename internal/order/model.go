package order

import "time"

type OrderStatus string

const (
	StatusPending OrderStatus = "PENDING"
	StatusPaid    OrderStatus = "PAID"
	StatusFailed  OrderStatus = "FAILED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusFailed:
		return true
	}
	return false
}

type Order struct {
	ID            int64
	InvoiceNumber string
	Status        OrderStatus
	// Last provider status code applied to the order.
	PaymentStatusCode int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
