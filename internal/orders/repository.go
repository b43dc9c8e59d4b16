package orders

import (
	"context"
	"errors"
	"time"

	"github.com/Frannkode/QuickOrder/internal/domain"
	"github.com/google/uuid"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrDuplicateID   = errors.New("order with this id already exists")
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// OutboxEvent is a pending order event awaiting publication.
type OutboxEvent struct {
	ID          int64
	AggregateID string
	EventType   string
	Payload     []byte
	CreatedAt   time.Time
}

// Repository is the shared back-office order store. Status and notes updates
// are last-write-wins across staff sessions; no optimistic locking.
type Repository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
	UpdateNotes(ctx context.Context, id uuid.UUID, notes string) error
	DeleteOrder(ctx context.Context, id uuid.UUID) error
	GetUnpublishedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkEventPublished(ctx context.Context, eventID int64) error
	RunMigrations(cred *Credentials) error
	Close() error
}
