package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/fjod/go_cart/storefront/internal/cache"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// AllCategories selects the whole catalog.
const AllCategories = "All"

var DefaultCategories = []string{AllCategories, "Tops", "Outerwear", "Bottoms", "Dresses"}

type ProductSource interface {
	FeaturedProducts(ctx context.Context) ([]domain.Product, error)
	Seed(ctx context.Context) (json.RawMessage, error)
}

// Store holds the featured products fetched from the API.
// A successful fetch replaces the collection; a failed one leaves it as is.
type Store struct {
	source ProductSource
	cache  cache.CatalogCache
	log    *zap.Logger
	sfg    singleflight.Group

	mu       sync.RWMutex
	products []domain.Product
}

func NewStore(source ProductSource, snapshot cache.CatalogCache, log *zap.Logger) *Store {
	return &Store{
		source: source,
		cache:  snapshot,
		log:    log,
	}
}

// Load fetches the featured products. Concurrent calls share one request,
// which runs detached from the first caller's cancellation and is bounded by
// the API client timeout instead.
func (s *Store) Load(ctx context.Context) error {
	_, err, _ := s.sfg.Do("featured", func() (interface{}, error) {
		return nil, s.refresh(context.WithoutCancel(ctx))
	})
	return err
}

// SeedIfEmpty triggers the demo seed and then always reloads the catalog,
// whatever the seed call returned.
func (s *Store) SeedIfEmpty(ctx context.Context) (json.RawMessage, error) {
	res, seedErr := s.source.Seed(ctx)
	if seedErr != nil {
		logger.With(ctx, s.log).Warn("seed products failed", zap.Error(seedErr))
	}

	// Not routed through the singleflight group: a load that started before
	// the seed must not stand in for this one.
	if err := s.refresh(ctx); err != nil {
		return res, errors.Join(seedErr, err)
	}
	return res, seedErr
}

// Warm fills an empty store from the snapshot cache.
func (s *Store) Warm(ctx context.Context) bool {
	if s.cache == nil {
		return false
	}

	products, err := s.cache.Get(ctx)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			logger.With(ctx, s.log).Warn("catalog cache get error", zap.Error(err))
		}
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.products) > 0 {
		return false
	}
	s.products = products
	return true
}

// Filter returns the products in category, or all of them for "" and "All".
func (s *Store) Filter(category string) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if category == "" || category == AllCategories {
		return clone(s.products)
	}

	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

func (s *Store) Products() []domain.Product {
	return s.Filter(AllCategories)
}

// Find looks a product up by id, falling back to title.
func (s *Store) Find(id, title string) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if id != "" && p.ID == id {
			return p, true
		}
	}
	for _, p := range s.products {
		if title != "" && p.Title == title {
			return p, true
		}
	}
	return domain.Product{}, false
}

func (s *Store) Categories() []string {
	return append([]string(nil), DefaultCategories...)
}

func (s *Store) refresh(ctx context.Context) error {
	log := logger.With(ctx, s.log)

	products, err := s.source.FeaturedProducts(ctx)
	if err != nil {
		log.Error("failed to load products", zap.Error(err))
		return err
	}

	s.mu.Lock()
	s.products = products
	s.mu.Unlock()
	log.Info("products loaded", zap.Int("count", len(products)))

	s.snapshot(ctx, log, products)
	return nil
}

// snapshot stores a non-empty catalog for warm starts; an empty one drops
// the previous snapshot so a restart does not bring back withdrawn products.
func (s *Store) snapshot(ctx context.Context, log *zap.Logger, products []domain.Product) {
	if s.cache == nil {
		return
	}
	if len(products) == 0 {
		if err := s.cache.Delete(ctx); err != nil {
			log.Warn("catalog cache delete error", zap.Error(err))
		}
		return
	}
	if err := s.cache.Set(ctx, products); err != nil {
		log.Warn("catalog cache set error", zap.Error(err))
	}
}

func clone(products []domain.Product) []domain.Product {
	out := make([]domain.Product, len(products))
	copy(out, products)
	return out
}
