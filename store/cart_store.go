package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"slices"
	"sync"

	"github.com/shopspring/decimal"

	"storefront/models"
	"storefront/repository"
)

// CartStorageKey is the fixed key the cart is persisted under
const CartStorageKey = "storefront:cart"

// CartStore holds the shopping cart: one line per product, in order of first add.
// Every mutation is persisted; persistence failures are logged and ignored.
type CartStore struct {
	mu      sync.Mutex
	storage repository.StorageInterface
	lines   []models.CartLine

	subs subscribers[models.CartSnapshot]
}

// NewCartStore creates a CartStore and rehydrates it from storage.
// Missing or malformed persisted data yields an empty cart.
func NewCartStore(ctx context.Context, storage repository.StorageInterface) *CartStore {
	s := &CartStore{
		storage: storage,
		lines:   []models.CartLine{},
	}

	raw, ok, err := storage.GetItem(ctx, CartStorageKey)
	if err != nil {
		log.Printf("⚠️  CartStore: could not read persisted cart, starting empty: %v",
			models.NewStoreError("cart.rehydrate", models.ErrPersistenceFailure, err))
		return s
	}
	if !ok {
		log.Printf("🛒 CartStore: no persisted cart, starting empty")
		return s
	}

	lines, err := UnmarshalCartLines([]byte(raw))
	if err != nil {
		log.Printf("⚠️  CartStore: discarding malformed persisted cart: %v", err)
		return s
	}
	s.lines = lines
	log.Printf("✓ CartStore: rehydrated %d lines", len(lines))
	return s
}

// MarshalCartLines serializes cart lines into the persisted layout
func MarshalCartLines(lines []models.CartLine) ([]byte, error) {
	if lines == nil {
		lines = []models.CartLine{}
	}
	return json.Marshal(lines)
}

// UnmarshalCartLines parses and validates the persisted layout
func UnmarshalCartLines(data []byte) ([]models.CartLine, error) {
	var lines []models.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	seen := make(map[int]bool, len(lines))
	for _, line := range lines {
		if line.ID <= 0 {
			return nil, fmt.Errorf("%w: invalid product id %d", models.ErrInvalidInput, line.ID)
		}
		if line.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity %d for product %d", models.ErrInvalidInput, line.Quantity, line.ID)
		}
		if line.Price.IsNegative() {
			return nil, fmt.Errorf("%w: negative price for product %d", models.ErrInvalidInput, line.ID)
		}
		if seen[line.ID] {
			return nil, fmt.Errorf("%w: duplicate product id %d", models.ErrInvalidInput, line.ID)
		}
		seen[line.ID] = true
	}

	if lines == nil {
		lines = []models.CartLine{}
	}
	return lines, nil
}

// find returns the position of the line for productID or -1; callers hold s.mu
func (s *CartStore) find(productID int) int {
	for i := range s.lines {
		if s.lines[i].ID == productID {
			return i
		}
	}
	return -1
}

// commit persists the current lines and notifies listeners. Called with s.mu
// held; releases it before notifying.
func (s *CartStore) commit(ctx context.Context, op string) {
	snapshot := s.snapshotLocked()

	data, err := MarshalCartLines(snapshot.Lines)
	if err == nil {
		err = s.storage.SetItem(ctx, CartStorageKey, string(data))
	}
	if err != nil {
		log.Printf("⚠️  CartStore: %v",
			models.NewStoreError("cart."+op, models.ErrPersistenceFailure, err))
	}

	s.mu.Unlock()
	s.subs.notify(snapshot)
}

// AddToCart adds one unit of product, creating its line with a snapshot if needed
func (s *CartStore) AddToCart(ctx context.Context, product models.Product) {
	s.mu.Lock()
	if i := s.find(product.ID); i >= 0 {
		s.lines[i].Quantity++
	} else {
		s.lines = append(s.lines, models.CartLine{
			ProductSnapshot: product.Snapshot(),
			Quantity:        1,
		})
	}
	s.commit(ctx, "add")
}

// RemoveFromCart deletes the line for productID regardless of quantity
func (s *CartStore) RemoveFromCart(ctx context.Context, productID int) {
	s.mu.Lock()
	i := s.find(productID)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.lines = slices.Delete(s.lines, i, i+1)
	s.commit(ctx, "remove")
}

// IncreaseQuantity adds one unit to an existing line
func (s *CartStore) IncreaseQuantity(ctx context.Context, productID int) {
	s.mu.Lock()
	i := s.find(productID)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.lines[i].Quantity++
	s.commit(ctx, "increase")
}

// DecreaseQuantity removes one unit; a line at quantity 1 is removed entirely
func (s *CartStore) DecreaseQuantity(ctx context.Context, productID int) {
	s.mu.Lock()
	i := s.find(productID)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	if s.lines[i].Quantity > 1 {
		s.lines[i].Quantity--
	} else {
		s.lines = slices.Delete(s.lines, i, i+1)
	}
	s.commit(ctx, "decrease")
}

// ClearCart empties the cart
func (s *CartStore) ClearCart(ctx context.Context) {
	s.mu.Lock()
	s.lines = []models.CartLine{}
	s.commit(ctx, "clear")
}

// snapshotLocked builds an immutable snapshot; callers hold s.mu
func (s *CartStore) snapshotLocked() models.CartSnapshot {
	lines := slices.Clone(s.lines)
	return models.CartSnapshot{
		Lines:      lines,
		TotalItems: totalItems(lines),
		TotalPrice: totalPrice(lines),
	}
}

// Snapshot returns the current cart state
func (s *CartStore) Snapshot() models.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Lines returns the cart lines in order of first add
func (s *CartStore) Lines() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.lines)
}

// Quantity returns the quantity for productID, 0 when absent
func (s *CartStore) Quantity(productID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.find(productID); i >= 0 {
		return s.lines[i].Quantity
	}
	return 0
}

// TotalItems returns the sum of quantities
func (s *CartStore) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalItems(s.lines)
}

// TotalPrice returns the sum of price × quantity rounded to 2 decimals
func (s *CartStore) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalPrice(s.lines)
}

// Subscribe registers fn to receive a snapshot after every mutation
func (s *CartStore) Subscribe(fn func(models.CartSnapshot)) func() {
	return s.subs.add(fn)
}

func totalItems(lines []models.CartLine) int {
	n := 0
	for _, line := range lines {
		n += line.Quantity
	}
	return n
}

func totalPrice(lines []models.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal())
	}
	return total.Round(2)
}
