// Package order turns a cart snapshot into an immutable Order with frozen
// prices, and renders it into a customer-facing message.
package order

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/Frannkode/QuickOrder/internal/domain"
	"github.com/Frannkode/QuickOrder/internal/pricing"
	"github.com/google/uuid"
)

// ValidationError is the one hard failure in the core: an order with unusable
// contact info is worthless to the business, so assembly refuses it outright.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ValidateCustomerInfo is exposed for the checkout form to call before
// submitting. Assemble applies the same gate.
func ValidateCustomerInfo(info domain.CustomerInfo) *ValidationError {
	if len(strings.TrimSpace(info.Name)) <= 2 {
		return &ValidationError{Field: "name", Reason: "must be longer than 2 characters"}
	}
	if len(strings.TrimSpace(info.Phone)) <= 6 {
		return &ValidationError{Field: "phone", Reason: "must be longer than 6 characters"}
	}
	return nil
}

// Assemble freezes the cart into an Order: per-item unit prices and the total
// are snapshotted now and never recomputed, so later catalog price changes
// cannot alter a placed order.
func Assemble(lines []domain.CartLine, info domain.CustomerInfo, now time.Time) (*domain.Order, error) {
	if err := ValidateCustomerInfo(info); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, &ValidationError{Field: "cart", Reason: "cart is empty"}
	}

	items := make([]domain.OrderItem, len(lines))
	for i, line := range lines {
		items[i] = domain.OrderItem{
			ProductID: line.Product.ID,
			Name:      line.Product.Name,
			Quantity:  line.Quantity,
			UnitPrice: pricing.UnitPrice(line.Product, line.Quantity),
			Wholesale: pricing.Wholesale(line.Product, line.Quantity),
		}
	}

	return &domain.Order{
		ID:        uuid.New(),
		ShortID:   NewShortID(),
		Items:     items,
		Customer:  info,
		Total:     pricing.CartTotal(lines),
		Status:    domain.OrderStatusPendingPayment,
		CreatedAt: now.UTC(),
	}, nil
}

const shortIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewShortID returns a 5-character base-36 code for humans to reference an
// order by. Collisions are tolerated; the uuid is the real key.
func NewShortID() string {
	var b strings.Builder
	for i := 0; i < 5; i++ {
		b.WriteByte(shortIDAlphabet[rand.Intn(len(shortIDAlphabet))])
	}
	return b.String()
}
