package orders

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/Frannkode/QuickOrder/internal/domain"
	"github.com/Frannkode/QuickOrder/internal/metrics"
	"github.com/Frannkode/QuickOrder/internal/order"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

var ErrInvalidStatus = errors.New("unknown order status")

// Service places and manages orders. Repository writes go through a circuit
// breaker; when the store is unreachable the order lands in the durable
// local queue and is still considered placed.
type Service struct {
	repo    Repository
	queue   *FallbackQueue
	breaker *gobreaker.CircuitBreaker[struct{}]
	metrics *metrics.Registry
	logger  *zap.Logger
}

func NewService(repo Repository, queue *FallbackQueue, m *metrics.Registry, logger *zap.Logger) *Service {
	breaker := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:    "order-repository",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
	return &Service{
		repo:    repo,
		queue:   queue,
		breaker: breaker,
		metrics: m,
		logger:  logger,
	}
}

// Place assembles the cart into an order and hands it off. Validation
// failures propagate; repository failures do not — the order falls back to
// the local queue and Place still succeeds. The caller clears the cart only
// after Place returns nil.
func (s *Service) Place(ctx context.Context, lines []domain.CartLine, info domain.CustomerInfo) (*domain.Order, error) {
	ord, err := order.Assemble(lines, info, time.Now())
	if err != nil {
		return nil, err
	}

	_, execErr := s.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, s.repo.CreateOrder(ctx, ord)
	})
	if execErr != nil {
		s.logger.Warn("order repository unavailable, queueing locally",
			zap.String("order_id", ord.ID.String()),
			zap.Error(execErr))
		if qErr := s.queue.Enqueue(ctx, ord); qErr != nil {
			// Both paths failed; the order genuinely cannot be placed.
			return nil, qErr
		}
		s.metrics.OrdersQueued.Inc()
	}

	s.metrics.OrdersPlaced.Inc()
	s.metrics.OrderTotal.Observe(float64(ord.Total))
	s.logger.Info("order placed",
		zap.String("order_id", ord.ID.String()),
		zap.String("short_id", ord.ShortID),
		zap.Int64("total", ord.Total))
	return ord, nil
}

// List merges repository orders with locally queued ones, newest first.
// A repository failure degrades to queued-only rather than erroring.
func (s *Service) List(ctx context.Context) (orders []*domain.Order, degraded bool, err error) {
	queued, err := s.queue.List(ctx)
	if err != nil {
		return nil, false, err
	}

	stored, repoErr := s.repo.ListOrders(ctx)
	if repoErr != nil {
		s.logger.Warn("order repository list failed, serving local queue only", zap.Error(repoErr))
		degraded = true
	}

	orders = append(stored, queued...)
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, degraded, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	// Known statuses are all settable from any other; staff workflows
	// include reverting a mistaken terminal state. Last write wins.
	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *Service) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) error {
	return s.repo.UpdateNotes(ctx, id, notes)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteOrder(ctx, id); !errors.Is(err, ErrOrderNotFound) {
		return err
	}
	// Not in the repository; it may be sitting in the local queue.
	return s.queue.Remove(ctx, id)
}

// Resync drains the local queue into the repository. Orders that still fail
// stay queued for the next pass.
func (s *Service) Resync(ctx context.Context) {
	queued, err := s.queue.List(ctx)
	if err != nil {
		s.logger.Warn("fallback queue list failed", zap.Error(err))
		return
	}

	for _, ord := range queued {
		createErr := s.repo.CreateOrder(ctx, ord)
		if createErr != nil && !errors.Is(createErr, ErrDuplicateID) {
			return
		}
		if err := s.queue.Remove(ctx, ord.ID); err != nil {
			s.logger.Warn("failed to remove re-synced order from queue",
				zap.String("order_id", ord.ID.String()),
				zap.Error(err))
			return
		}
		s.logger.Info("queued order re-synced", zap.String("order_id", ord.ID.String()))
	}
}
