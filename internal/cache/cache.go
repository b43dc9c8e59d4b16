package cache

import (
	"context"
	"errors"

	"github.com/Frannkode/QuickOrder/internal/domain"
)

// CatalogCache holds the full product list for the storefront read path.
type CatalogCache interface {
	Get(ctx context.Context) ([]domain.Product, error)
	Set(ctx context.Context, products []domain.Product) error
	Delete(ctx context.Context) error
}

var ErrCacheMiss = errors.New("cache miss")
