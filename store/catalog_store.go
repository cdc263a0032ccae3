package store

import (
	"context"
	"log"
	"slices"
	"sync"
	"time"

	"storefront/models"
	"storefront/repository"
)

// DefaultCatalogLoadDelay is the simulated latency before the catalog settles
const DefaultCatalogLoadDelay = time.Second

// CatalogStore loads the product catalog once per session and exposes its
// loading/ready/error state. Failure is terminal; there is no retry.
type CatalogStore struct {
	repository repository.CatalogRepositoryInterface
	delay      time.Duration

	once sync.Once
	done chan struct{}

	mu    sync.RWMutex
	state models.CatalogState
	index map[int]int // product id -> position in state.Products

	subs subscribers[models.CatalogState]
}

// NewCatalogStore creates a CatalogStore in the loading state
func NewCatalogStore(repo repository.CatalogRepositoryInterface, delay time.Duration) *CatalogStore {
	if delay < 0 {
		delay = 0
	}
	return &CatalogStore{
		repository: repo,
		delay:      delay,
		done:       make(chan struct{}),
		state:      models.CatalogState{Status: models.CatalogLoading},
	}
}

// Load starts the one-time catalog load in the background and returns immediately.
// Later calls are no-ops. The load ignores cancellation of ctx so it always settles.
func (s *CatalogStore) Load(ctx context.Context) {
	s.once.Do(func() {
		loadCtx := context.WithoutCancel(ctx)
		go s.run(loadCtx)
	})
}

func (s *CatalogStore) run(ctx context.Context) {
	log.Printf("⏳ CatalogStore: loading catalog (simulated delay %s)", s.delay)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	products, err := s.repository.LoadProducts(ctx)

	s.mu.Lock()
	if err != nil {
		s.state = models.CatalogState{Status: models.CatalogError, Message: err.Error()}
		log.Printf("❌ CatalogStore: load failed: %v", err)
	} else {
		s.index = make(map[int]int, len(products))
		for i, p := range products {
			s.index[p.ID] = i
		}
		s.state = models.CatalogState{Status: models.CatalogReady, Products: products}
		log.Printf("✅ CatalogStore: ready with %d products", len(products))
	}
	settled := s.cloneState()
	s.mu.Unlock()

	close(s.done)
	s.subs.notify(settled)
}

// cloneState copies the state; callers hold s.mu
func (s *CatalogStore) cloneState() models.CatalogState {
	out := s.state
	if out.Products != nil {
		out.Products = slices.Clone(out.Products)
	}
	return out
}

// State returns the current catalog state
func (s *CatalogStore) State() models.CatalogState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cloneState()
}

// Wait blocks until the catalog settles or ctx is done
func (s *CatalogStore) Wait(ctx context.Context) (models.CatalogState, error) {
	select {
	case <-s.done:
		return s.State(), nil
	case <-ctx.Done():
		return s.State(), ctx.Err()
	}
}

// Products returns the catalog, or ErrCatalogNotReady while loading or after a failure
func (s *CatalogStore) Products() ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state.Status != models.CatalogReady {
		return nil, models.ErrCatalogNotReady
	}
	return slices.Clone(s.state.Products), nil
}

// Product looks up a single product by id in a ready catalog
func (s *CatalogStore) Product(id int) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state.Status != models.CatalogReady {
		return models.Product{}, models.ErrCatalogNotReady
	}
	pos, ok := s.index[id]
	if !ok {
		return models.Product{}, models.ErrProductNotFound
	}
	return s.state.Products[pos], nil
}

// Subscribe registers fn to be called once when the catalog settles.
// If it already settled, fn is called immediately.
func (s *CatalogStore) Subscribe(fn func(models.CatalogState)) func() {
	s.mu.RLock()
	if s.state.Settled() {
		state := s.cloneState()
		s.mu.RUnlock()
		fn(state)
		return func() {}
	}
	// Registered under the read lock so run cannot settle in between.
	unsubscribe := s.subs.add(fn)
	s.mu.RUnlock()
	return unsubscribe
}
