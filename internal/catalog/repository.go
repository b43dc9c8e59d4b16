package catalog

import (
	"context"
	"errors"

	"github.com/Frannkode/QuickOrder/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

// Repository is the catalog persistence contract. The storefront only reads;
// create/update/delete belong to the back office.
type Repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (domain.Product, error)
	Create(ctx context.Context, p domain.Product) error
	Update(ctx context.Context, p domain.Product) error
	Delete(ctx context.Context, id string) error
	RunMigrations(migrationsPath string) error
	Close() error
}
