// Package cart holds the per-session cart ledger: an order-preserving set of
// (product, quantity) lines with a durable store behind every mutation.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/Frannkode/QuickOrder/internal/domain"
	"github.com/Frannkode/QuickOrder/internal/localstore"
	"github.com/Frannkode/QuickOrder/internal/pricing"
	"go.uber.org/zap"
)

// Store is the durable key-value contract the ledger persists through.
// Consumers define this interface, not the storage implementation.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Ledger owns the cart lines for one shopping session. Insertion order is
// preserved for stable display; lookup is by product id, so one product never
// appears on two lines. Every mutation persists the full state before
// returning.
type Ledger struct {
	mu     sync.Mutex
	lines  []domain.CartLine
	index  map[string]int
	store  Store
	key    string
	logger *zap.Logger
}

// NewLedger restores the session's prior cart from the store, or starts
// empty when nothing is persisted yet.
func NewLedger(ctx context.Context, store Store, sessionID string, logger *zap.Logger) (*Ledger, error) {
	l := &Ledger{
		index:  make(map[string]int),
		store:  store,
		key:    storageKey(sessionID),
		logger: logger,
	}

	data, err := store.Get(ctx, l.key)
	if errors.Is(err, localstore.ErrKeyNotFound) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	if err := json.Unmarshal(data, &l.lines); err != nil {
		// A corrupt cart is not worth failing the session over; start fresh.
		logger.Warn("discarding unreadable cart state", zap.String("key", l.key), zap.Error(err))
		l.lines = nil
	}
	for i, line := range l.lines {
		l.index[line.Product.ID] = i
	}
	return l, nil
}

func storageKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}

// Add merges by product id: an existing line's quantity grows by 1, a new
// product gets a fresh line with quantity 1. The returned flag is an advisory
// stock warning; nothing is ever rejected at this layer.
func (l *Ledger) Add(ctx context.Context, p domain.Product) (stockExceeded bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if pricing.CheckPrices(p) {
		l.logger.Warn("wholesale price above retail",
			zap.String("product_id", p.ID),
			zap.Int64("retail", p.PriceRetail),
			zap.Int64("wholesale", p.PriceWholesale))
	}

	var qty int
	if i, ok := l.index[p.ID]; ok {
		l.lines[i].Quantity++
		qty = l.lines[i].Quantity
	} else {
		l.lines = append(l.lines, domain.CartLine{Product: p, Quantity: 1})
		l.index[p.ID] = len(l.lines) - 1
		qty = 1
	}

	if err := l.persist(ctx); err != nil {
		return false, err
	}
	return qty > p.Stock, nil
}

// UpdateQuantity applies delta with a floor of 0; a line that reaches 0 is
// deleted as part of this call, never left behind at zero. A missing product
// id is a no-op.
func (l *Ledger) UpdateQuantity(ctx context.Context, productID string, delta int) (stockExceeded bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, ok := l.index[productID]
	if !ok {
		return false, nil
	}

	stock := l.lines[i].Product.Stock
	qty := l.lines[i].Quantity + delta
	if qty <= 0 {
		qty = 0
		l.deleteLine(i)
	} else {
		l.lines[i].Quantity = qty
	}

	if err := l.persist(ctx); err != nil {
		return false, err
	}
	return qty > stock, nil
}

// Remove deletes the line if present. Removing an absent product is a no-op,
// so the call is idempotent.
func (l *Ledger) Remove(ctx context.Context, productID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, ok := l.index[productID]
	if !ok {
		return nil
	}
	l.deleteLine(i)
	return l.persist(ctx)
}

func (l *Ledger) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lines = nil
	l.index = make(map[string]int)
	return l.persist(ctx)
}

// Lines returns a snapshot copy in insertion order.
func (l *Ledger) Lines() []domain.CartLine {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.CartLine, len(l.lines))
	copy(out, l.lines)
	return out
}

// Total recomputes the cart total from live quantities on every call.
func (l *Ledger) Total() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return pricing.CartTotal(l.lines)
}

// ItemCount is the sum of quantities across all lines.
func (l *Ledger) ItemCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	count := 0
	for _, line := range l.lines {
		count += line.Quantity
	}
	return count
}

// deleteLine removes lines[i] preserving the order of the rest.
// Callers hold l.mu.
func (l *Ledger) deleteLine(i int) {
	delete(l.index, l.lines[i].Product.ID)
	l.lines = append(l.lines[:i], l.lines[i+1:]...)
	for j := i; j < len(l.lines); j++ {
		l.index[l.lines[j].Product.ID] = j
	}
}

// persist writes the full ledger state; the mutation is not complete until
// this succeeds. Callers hold l.mu.
func (l *Ledger) persist(ctx context.Context) error {
	data, err := json.Marshal(l.lines)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := l.store.Set(ctx, l.key, data); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}
