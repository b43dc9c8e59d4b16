package cart

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Manager hands out one Ledger per session id. Each ledger is single-writer
// by contract (one device, one session); the manager only guards the map.
type Manager struct {
	mu      sync.Mutex
	ledgers map[string]*Ledger
	store   Store
	logger  *zap.Logger
}

func NewManager(store Store, logger *zap.Logger) *Manager {
	return &Manager{
		ledgers: make(map[string]*Ledger),
		store:   store,
		logger:  logger,
	}
}

// Ledger returns the session's ledger, restoring persisted state on first use.
func (m *Manager) Ledger(ctx context.Context, sessionID string) (*Ledger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if l, ok := m.ledgers[sessionID]; ok {
		return l, nil
	}

	l, err := NewLedger(ctx, m.store, sessionID, m.logger)
	if err != nil {
		return nil, err
	}
	m.ledgers[sessionID] = l
	return l, nil
}
