package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/Rifaiiii04/ims-inventory-sub001/pkg/cache"
	"github.com/Rifaiiii04/ims-inventory-sub001/pkg/catalog/domain/model"
	"github.com/Rifaiiii04/ims-inventory-sub001/pkg/common/domain"
)

// CatalogKey is the cache key the product catalog is stored under. It is
// invalidated only here, by the order service and the CRUD mutation boundary.
const CatalogKey = "catalog:products"

const DefaultRefreshInterval = 30 * time.Second

// Fetcher retrieves the catalog from the external API.
type Fetcher interface {
	FetchCatalog(ctx context.Context) ([]model.Product, error)
}

type Reader interface {
	Load(ctx context.Context, forceRefresh bool) ([]model.Product, error)
	Invalidate()
	Run(ctx context.Context) error
}

func NewReader(fetcher Fetcher, store *cache.Store, dispatcher domain.EventDispatcher, interval time.Duration, logger log.FieldLogger) Reader {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &reader{
		fetcher:    fetcher,
		store:      store,
		dispatcher: dispatcher,
		interval:   interval,
		logger:     logger,
	}
}

// reader serves the catalog cache-first and revalidates in the background, so
// callers only ever wait for the network on a cold start or a forced refresh.
type reader struct {
	fetcher    Fetcher
	store      *cache.Store
	dispatcher domain.EventDispatcher
	interval   time.Duration
	logger     log.FieldLogger

	mu         sync.Mutex
	products   []model.Product
	hasData    bool
	refreshing bool
}

func (r *reader) Load(ctx context.Context, forceRefresh bool) ([]model.Product, error) {
	if forceRefresh {
		return r.refresh(ctx)
	}

	r.mu.Lock()
	if !r.hasData {
		if data, ok := r.store.Get(CatalogKey); ok {
			var products []model.Product
			if err := json.Unmarshal(data, &products); err == nil {
				r.products = products
				r.hasData = true
			} else {
				r.logger.WithError(err).Warn("discarding undecodable cached catalog")
				r.store.Invalidate(CatalogKey)
			}
		}
	}
	if r.hasData {
		snapshot := r.products
		if !r.refreshing {
			r.refreshing = true
			go r.refreshInBackground()
		}
		r.mu.Unlock()
		return snapshot, nil
	}
	r.mu.Unlock()

	// Cold start: the caller waits for the network.
	return r.refresh(ctx)
}

func (r *reader) refresh(ctx context.Context) ([]model.Product, error) {
	products, err := r.fetcher.FetchCatalog(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "refresh catalog")
	}
	if data, err := json.Marshal(products); err == nil {
		r.store.Set(CatalogKey, data, 0)
	}
	r.mu.Lock()
	r.products = products
	r.hasData = true
	r.mu.Unlock()
	_ = r.dispatcher.Dispatch(model.CatalogRefreshed{Products: len(products)})
	return products, nil
}

func (r *reader) refreshInBackground() {
	defer func() {
		r.mu.Lock()
		r.refreshing = false
		r.mu.Unlock()
	}()
	ctx, cancel := context.WithTimeout(context.Background(), r.interval)
	defer cancel()
	if _, err := r.refresh(ctx); err != nil {
		// Stale data keeps being served; the next cycle tries again.
		r.logger.WithError(err).Warn("background catalog refresh failed")
	}
}

func (r *reader) Invalidate() {
	r.store.Invalidate(CatalogKey)
	_ = r.dispatcher.Dispatch(model.CatalogInvalidated{})
}

// Run revalidates the catalog on a fixed interval until ctx is cancelled.
// Failures never surface; the last known snapshot keeps being served.
func (r *reader) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := r.Load(ctx, false); err != nil {
				r.logger.WithError(err).Warn("periodic catalog refresh failed")
			}
		}
	}
}
