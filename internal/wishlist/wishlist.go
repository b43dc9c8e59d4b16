// Package wishlist is the per-session saved-products list, persisted in the
// local durable store alongside the cart.
package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/Frannkode/QuickOrder/internal/localstore"
)

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type Service struct {
	mu    sync.Mutex
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Toggle adds the product id when absent and removes it when present,
// returning whether it is in the wishlist afterwards.
func (s *Service) Toggle(ctx context.Context, sessionID, productID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.load(ctx, sessionID)
	if err != nil {
		return false, err
	}

	for i, id := range ids {
		if id == productID {
			ids = append(ids[:i], ids[i+1:]...)
			return false, s.persist(ctx, sessionID, ids)
		}
	}

	ids = append(ids, productID)
	return true, s.persist(ctx, sessionID, ids)
}

func (s *Service) Contains(ctx context.Context, sessionID, productID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.load(ctx, sessionID)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == productID {
			return true, nil
		}
	}
	return false, nil
}

// List returns the saved product ids in the order they were added.
func (s *Service) List(ctx context.Context, sessionID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, sessionID)
}

func (s *Service) load(ctx context.Context, sessionID string) ([]string, error) {
	data, err := s.store.Get(ctx, storageKey(sessionID))
	if errors.Is(err, localstore.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load wishlist: %w", err)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("unmarshal wishlist: %w", err)
	}
	return ids, nil
}

func (s *Service) persist(ctx context.Context, sessionID string, ids []string) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshal wishlist: %w", err)
	}
	if err := s.store.Set(ctx, storageKey(sessionID), data); err != nil {
		return fmt.Errorf("persist wishlist: %w", err)
	}
	return nil
}

func storageKey(sessionID string) string {
	return fmt.Sprintf("wishlist:%s", sessionID)
}
