package orders

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Frannkode/QuickOrder/internal/domain"
	"github.com/Frannkode/QuickOrder/internal/localstore"
	"github.com/Frannkode/QuickOrder/internal/metrics"
	"github.com/Frannkode/QuickOrder/internal/order"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRepository struct {
	mu        sync.Mutex
	orders    map[uuid.UUID]*domain.Order
	createErr error
	listErr   error
}

func newMockRepository() *mockRepository {
	return &mockRepository{orders: make(map[uuid.UUID]*domain.Order)}
}

func (m *mockRepository) CreateOrder(_ context.Context, o *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.orders[o.ID]; ok {
		return ErrDuplicateID
	}
	m.orders[o.ID] = o
	return nil
}

func (m *mockRepository) ListOrders(context.Context) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*domain.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, o)
	}
	return out, nil
}

func (m *mockRepository) UpdateStatus(_ context.Context, id uuid.UUID, status domain.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	o.Status = status
	return nil
}

func (m *mockRepository) UpdateNotes(_ context.Context, id uuid.UUID, notes string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	o.Notes = notes
	return nil
}

func (m *mockRepository) DeleteOrder(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		return ErrOrderNotFound
	}
	delete(m.orders, id)
	return nil
}

func (m *mockRepository) GetUnpublishedEvents(context.Context, int) ([]*OutboxEvent, error) {
	return nil, nil
}

func (m *mockRepository) MarkEventPublished(context.Context, int64) error { return nil }
func (m *mockRepository) RunMigrations(*Credentials) error                { return nil }
func (m *mockRepository) Close() error                                    { return nil }

type memQueueStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemQueueStore() *memQueueStore {
	return &memQueueStore{data: make(map[string][]byte)}
}

func (m *memQueueStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, localstore.ErrKeyNotFound
	}
	return v, nil
}

func (m *memQueueStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memQueueStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memQueueStore) List(_ context.Context, prefix string) (map[string][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string][]byte)
	for k, v := range m.data {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			out[k] = v
		}
	}
	return out, nil
}

func testLines() []domain.CartLine {
	p := domain.Product{ID: "p1", Name: "Thermos", PriceRetail: 1000, PriceWholesale: 800, WholesaleThreshold: 6, Stock: 50}
	return []domain.CartLine{{Product: p, Quantity: 6}}
}

func testCustomer() domain.CustomerInfo {
	return domain.CustomerInfo{Name: "Alice", Phone: "1234567"}
}

func newTestService(repo Repository) (*Service, *memQueueStore) {
	store := newMemQueueStore()
	return NewService(repo, NewFallbackQueue(store), metrics.NewRegistry(), zap.NewNop()), store
}

func TestPlace_StoresOrder(t *testing.T) {
	repo := newMockRepository()
	svc, store := newTestService(repo)

	ord, err := svc.Place(context.Background(), testLines(), testCustomer())
	require.NoError(t, err)

	assert.Equal(t, int64(4800), ord.Total)
	assert.Equal(t, domain.OrderStatusPendingPayment, ord.Status)
	assert.Contains(t, repo.orders, ord.ID)
	assert.Empty(t, store.data, "healthy repository must not queue locally")
}

func TestPlace_ValidationFailurePropagates(t *testing.T) {
	svc, _ := newTestService(newMockRepository())

	_, err := svc.Place(context.Background(), testLines(), domain.CustomerInfo{Name: "Al", Phone: "12345"})
	var verr *order.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestPlace_RepositoryDownFallsBackToQueue(t *testing.T) {
	repo := newMockRepository()
	repo.createErr = errors.New("connection refused")
	svc, _ := newTestService(repo)

	ord, err := svc.Place(context.Background(), testLines(), testCustomer())
	require.NoError(t, err, "a repository outage must not lose the order")

	queued, err := NewFallbackQueue(svc.queue.store).List(context.Background())
	require.NoError(t, err)
	require.Len(t, queued, 1)
	assert.Equal(t, ord.ID, queued[0].ID)
}

func TestPlace_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	repo := newMockRepository()
	repo.createErr = errors.New("connection refused")
	svc, store := newTestService(repo)

	for i := 0; i < 5; i++ {
		_, err := svc.Place(context.Background(), testLines(), testCustomer())
		require.NoError(t, err)
	}
	assert.Len(t, store.data, 5, "every order during the outage is queued")
}

func TestList_MergesQueuedAndStoredNewestFirst(t *testing.T) {
	repo := newMockRepository()
	svc, _ := newTestService(repo)
	ctx := context.Background()

	older, err := order.Assemble(testLines(), testCustomer(), time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.NoError(t, repo.CreateOrder(ctx, older))

	newer, err := order.Assemble(testLines(), testCustomer(), time.Now())
	require.NoError(t, err)
	require.NoError(t, svc.queue.Enqueue(ctx, newer))

	got, degraded, err := svc.List(ctx)
	require.NoError(t, err)
	assert.False(t, degraded)
	require.Len(t, got, 2)
	assert.Equal(t, newer.ID, got[0].ID)
	assert.Equal(t, older.ID, got[1].ID)
}

func TestList_RepositoryDownIsDegradedNotFatal(t *testing.T) {
	repo := newMockRepository()
	repo.listErr = errors.New("connection refused")
	svc, _ := newTestService(repo)
	ctx := context.Background()

	queued, err := order.Assemble(testLines(), testCustomer(), time.Now())
	require.NoError(t, err)
	require.NoError(t, svc.queue.Enqueue(ctx, queued))

	got, degraded, err := svc.List(ctx)
	require.NoError(t, err)
	assert.True(t, degraded)
	require.Len(t, got, 1)
	assert.Equal(t, queued.ID, got[0].ID)
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	svc, _ := newTestService(newMockRepository())

	err := svc.UpdateStatus(context.Background(), uuid.New(), domain.OrderStatus("shipped"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateStatus_AnyKnownTransitionAllowed(t *testing.T) {
	repo := newMockRepository()
	svc, _ := newTestService(repo)
	ctx := context.Background()

	ord, err := svc.Place(ctx, testLines(), testCustomer())
	require.NoError(t, err)

	// Staff may revert a terminal state; transitions are unconstrained.
	require.NoError(t, svc.UpdateStatus(ctx, ord.ID, domain.OrderStatusDelivered))
	require.NoError(t, svc.UpdateStatus(ctx, ord.ID, domain.OrderStatusPreparing))
	assert.Equal(t, domain.OrderStatusPreparing, repo.orders[ord.ID].Status)
}

func TestDelete_FallsBackToQueue(t *testing.T) {
	svc, store := newTestService(newMockRepository())
	ctx := context.Background()

	queued, err := order.Assemble(testLines(), testCustomer(), time.Now())
	require.NoError(t, err)
	require.NoError(t, svc.queue.Enqueue(ctx, queued))

	require.NoError(t, svc.Delete(ctx, queued.ID))
	assert.Empty(t, store.data)
}

func TestResync_DrainsQueueIntoRepository(t *testing.T) {
	repo := newMockRepository()
	repo.createErr = errors.New("connection refused")
	svc, store := newTestService(repo)
	ctx := context.Background()

	ord, err := svc.Place(ctx, testLines(), testCustomer())
	require.NoError(t, err)
	require.Len(t, store.data, 1)

	// Outage over.
	repo.mu.Lock()
	repo.createErr = nil
	repo.mu.Unlock()

	svc.Resync(ctx)
	assert.Empty(t, store.data)
	assert.Contains(t, repo.orders, ord.ID)
}

func TestFallbackQueue_SurvivesPebbleRestart(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := localstore.Open(dir)
	require.NoError(t, err)

	queued, err := order.Assemble(testLines(), testCustomer(), time.Now())
	require.NoError(t, err)
	require.NoError(t, NewFallbackQueue(store).Enqueue(ctx, queued))
	require.NoError(t, store.Close())

	reopened, err := localstore.Open(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := NewFallbackQueue(reopened).List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, queued.ID, got[0].ID)
	assert.Equal(t, queued.Total, got[0].Total)
}
