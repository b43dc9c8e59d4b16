package orders

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Frannkode/QuickOrder/internal/domain"
	"github.com/google/uuid"
)

// QueueStore is the durable local contract the fallback queue persists
// through. Consumers define this interface, not the storage implementation.
type QueueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) (map[string][]byte, error)
}

const queuePrefix = "orderqueue:"

// FallbackQueue keeps placed orders that could not reach the repository.
// From the customer's point of view such orders are placed; delivery to the
// backing store is best-effort and the display layer merges both sources.
type FallbackQueue struct {
	store QueueStore
}

func NewFallbackQueue(store QueueStore) *FallbackQueue {
	return &FallbackQueue{store: store}
}

func (q *FallbackQueue) Enqueue(ctx context.Context, order *domain.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("marshal queued order: %w", err)
	}
	if err := q.store.Set(ctx, queueKey(order.ID), data); err != nil {
		return fmt.Errorf("enqueue order: %w", err)
	}
	return nil
}

func (q *FallbackQueue) List(ctx context.Context) ([]*domain.Order, error) {
	entries, err := q.store.List(ctx, queuePrefix)
	if err != nil {
		return nil, fmt.Errorf("list queued orders: %w", err)
	}

	orders := make([]*domain.Order, 0, len(entries))
	for key, data := range entries {
		var order domain.Order
		if err := json.Unmarshal(data, &order); err != nil {
			return nil, fmt.Errorf("unmarshal queued order %s: %w", key, err)
		}
		orders = append(orders, &order)
	}
	return orders, nil
}

func (q *FallbackQueue) Remove(ctx context.Context, id uuid.UUID) error {
	if err := q.store.Delete(ctx, queueKey(id)); err != nil {
		return fmt.Errorf("remove queued order: %w", err)
	}
	return nil
}

func queueKey(id uuid.UUID) string {
	return queuePrefix + id.String()
}
