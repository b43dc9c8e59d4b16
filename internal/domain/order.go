package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPendingPayment OrderStatus = "pending_payment"
	OrderStatusReceived       OrderStatus = "received"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusReady          OrderStatus = "ready"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// Valid reports whether s is a known status. Transition legality between
// known statuses is deliberately not enforced: staff workflows include
// manually reverting a mistaken "delivered", so any status can be set from
// any other and the last write wins.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPendingPayment, OrderStatusReceived, OrderStatusPreparing,
		OrderStatusReady, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further status changes are expected.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

type CustomerInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
	Notes   string `json:"notes"`
}

// OrderItem is a frozen line snapshot. UnitPrice is the price that applied at
// assembly time; later catalog changes never touch it.
type OrderItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Wholesale bool   `json:"wholesale"`
}

// Order is immutable once assembled, except for Status and Notes which are
// owned by the back office.
type Order struct {
	ID        uuid.UUID    `json:"id"`
	ShortID   string       `json:"short_id"`
	Items     []OrderItem  `json:"items"`
	Customer  CustomerInfo `json:"customer"`
	Total     int64        `json:"total"`
	Status    OrderStatus  `json:"status"`
	Notes     string       `json:"notes,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}
