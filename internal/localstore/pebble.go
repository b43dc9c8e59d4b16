// Package localstore is a durable, device-local key-value store on PebbleDB.
// It backs the cart ledger, the wishlist and the order fallback queue, so a
// process restart restores the exact prior session state.
package localstore

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/pebble"
)

var ErrKeyNotFound = errors.New("key not found")

type PebbleStore struct {
	db *pebble.DB
}

func Open(dir string) (*PebbleStore, error) {
	db, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("pebble open: %w", err)
	}
	return &PebbleStore{db: db}, nil
}

func (s *PebbleStore) Close() error { return s.db.Close() }

func (s *PebbleStore) Get(_ context.Context, key string) ([]byte, error) {
	v, closer, err := s.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pebble get %q: %w", key, err)
	}
	defer closer.Close()

	out := append([]byte(nil), v...)
	return out, nil
}

// Set writes synchronously. Mutating cart operations are not complete until
// the state is durable, so the WAL sync cost is the contract, not overhead.
func (s *PebbleStore) Set(_ context.Context, key string, value []byte) error {
	if err := s.db.Set([]byte(key), value, pebble.Sync); err != nil {
		return fmt.Errorf("pebble set %q: %w", key, err)
	}
	return nil
}

func (s *PebbleStore) Delete(_ context.Context, key string) error {
	if err := s.db.Delete([]byte(key), pebble.Sync); err != nil {
		return fmt.Errorf("pebble delete %q: %w", key, err)
	}
	return nil
}

// List returns all key/value pairs whose key starts with prefix.
func (s *PebbleStore) List(_ context.Context, prefix string) (map[string][]byte, error) {
	lower := []byte(prefix)
	upper := upperBound(lower)

	it, err := s.db.NewIter(&pebble.IterOptions{LowerBound: lower, UpperBound: upper})
	if err != nil {
		return nil, fmt.Errorf("pebble iter: %w", err)
	}
	defer it.Close()

	out := make(map[string][]byte)
	for it.First(); it.Valid(); it.Next() {
		k := append([]byte(nil), it.Key()...)
		v := append([]byte(nil), it.Value()...)
		out[string(k)] = v
	}
	if err := it.Error(); err != nil {
		return nil, fmt.Errorf("pebble iter: %w", err)
	}
	return out, nil
}

// upperBound returns the smallest key greater than every key with the given
// prefix, or nil when the prefix is all 0xff bytes.
func upperBound(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
