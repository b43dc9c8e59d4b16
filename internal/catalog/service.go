package catalog

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/Frannkode/QuickOrder/internal/cache"
	"github.com/Frannkode/QuickOrder/internal/domain"
	"github.com/Frannkode/QuickOrder/internal/metrics"
	"github.com/Frannkode/QuickOrder/internal/pricing"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Service is the catalog read/write path: cache in front of the repository,
// singleflight to collapse concurrent misses, and the bundled snapshot when
// the repository is down.
type Service struct {
	repo     Repository
	cache    cache.CatalogCache
	sfg      singleflight.Group
	degraded atomic.Bool
	metrics  *metrics.Registry
	logger   *zap.Logger
}

func NewService(repo Repository, c cache.CatalogCache, m *metrics.Registry, logger *zap.Logger) *Service {
	return &Service{
		repo:    repo,
		cache:   c,
		metrics: m,
		logger:  logger,
	}
}

// List returns the current catalog. On repository failure it degrades to the
// embedded static snapshot instead of failing the storefront.
func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	v, err, _ := s.sfg.Do("catalog", func() (interface{}, error) {
		products, err := s.cache.Get(ctx)
		if err == nil {
			s.metrics.CatalogCacheHits.Inc()
			return products, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("catalog cache get failed", zap.Error(err))
		}
		s.metrics.CatalogCacheMiss.Inc()

		products, repoErr := s.repo.List(ctx)
		if repoErr != nil {
			s.logger.Error("catalog repository unavailable, serving bundled snapshot", zap.Error(repoErr))
			s.setDegraded(true)
			return StaticSnapshot()
		}
		s.setDegraded(false)

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := s.cache.Set(ctx, products); err != nil {
				s.logger.Warn("catalog cache set failed", zap.Error(err))
			}
		}()

		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

// Get bypasses the list cache; single-product reads are rare and cheap.
func (s *Service) Get(ctx context.Context, id string) (domain.Product, error) {
	p, err := s.repo.Get(ctx, id)
	if err == nil {
		return p, nil
	}
	if errors.Is(err, ErrProductNotFound) {
		return domain.Product{}, err
	}

	// Repository trouble: try the bundled snapshot before giving up.
	s.logger.Warn("catalog get failed, checking bundled snapshot", zap.String("id", id), zap.Error(err))
	snapshot, snapErr := StaticSnapshot()
	if snapErr != nil {
		return domain.Product{}, err
	}
	for _, sp := range snapshot {
		if sp.ID == id {
			s.setDegraded(true)
			return sp, nil
		}
	}
	return domain.Product{}, err
}

func (s *Service) Create(ctx context.Context, doc domain.ProductDocument) (domain.Product, error) {
	p, err := domain.ParseProduct(doc)
	if err != nil {
		return domain.Product{}, err
	}
	s.warnOnInvertedPrices(p)

	if err := s.repo.Create(ctx, p); err != nil {
		return domain.Product{}, err
	}
	s.invalidate()
	return p, nil
}

func (s *Service) Update(ctx context.Context, doc domain.ProductDocument) (domain.Product, error) {
	p, err := domain.ParseProduct(doc)
	if err != nil {
		return domain.Product{}, err
	}
	s.warnOnInvertedPrices(p)

	if err := s.repo.Update(ctx, p); err != nil {
		return domain.Product{}, err
	}
	s.invalidate()
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// Degraded reports whether the last repository read fell back to the
// bundled snapshot. The UI surfaces this as an offline-mode notice.
func (s *Service) Degraded() bool {
	return s.degraded.Load()
}

func (s *Service) setDegraded(v bool) {
	s.degraded.Store(v)
	if v {
		s.metrics.CatalogDegraded.Set(1)
	} else {
		s.metrics.CatalogDegraded.Set(0)
	}
}

func (s *Service) warnOnInvertedPrices(p domain.Product) {
	if pricing.CheckPrices(p) {
		s.logger.Warn("wholesale price above retail",
			zap.String("product_id", p.ID),
			zap.Int64("retail", p.PriceRetail),
			zap.Int64("wholesale", p.PriceWholesale))
	}
}

func (s *Service) invalidate() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx); err != nil {
		s.logger.Warn("catalog cache invalidate failed", zap.Error(err))
	}
}
