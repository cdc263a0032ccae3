package store

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/models"
	"storefront/repository"
)

func newTestCart(t *testing.T) (*CartStore, *repository.MemoryStorage) {
	t.Helper()
	storage := repository.NewMemoryStorage()
	return NewCartStore(context.Background(), storage), storage
}

func lineIDs(lines []models.CartLine) []int {
	ids := make([]int, len(lines))
	for i, line := range lines {
		ids[i] = line.ID
	}
	return ids
}

func TestCartStore_AddTwiceScenario(t *testing.T) {
	cart, _ := newTestCart(t)
	catalog := scenarioCatalog()
	ctx := context.Background()

	cart.AddToCart(ctx, catalog[0])
	cart.AddToCart(ctx, catalog[0])

	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].ID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 2, cart.TotalItems())
	assert.Equal(t, "20.00", cart.TotalPrice().StringFixed(2))
}

func TestCartStore_InsertionOrder(t *testing.T) {
	cart, _ := newTestCart(t)
	catalog := scenarioCatalog()
	ctx := context.Background()

	cart.AddToCart(ctx, catalog[1])
	cart.AddToCart(ctx, catalog[0])
	cart.AddToCart(ctx, catalog[1])

	assert.Equal(t, []int{2, 1}, lineIDs(cart.Lines()))
	assert.Equal(t, 2, cart.Quantity(2))
	assert.Equal(t, 1, cart.Quantity(1))
}

func TestCartStore_DecreaseQuantity(t *testing.T) {
	cart, _ := newTestCart(t)
	catalog := scenarioCatalog()
	ctx := context.Background()

	cart.AddToCart(ctx, catalog[0])
	cart.AddToCart(ctx, catalog[0])
	cart.AddToCart(ctx, catalog[1])

	cart.DecreaseQuantity(ctx, 1)
	assert.Len(t, cart.Lines(), 2, "decrement above 1 keeps the line")
	assert.Equal(t, 1, cart.Quantity(1))

	cart.DecreaseQuantity(ctx, 1)
	assert.Equal(t, []int{2}, lineIDs(cart.Lines()), "decrement at 1 removes the line")

	cart.DecreaseQuantity(ctx, 42)
	assert.Equal(t, []int{2}, lineIDs(cart.Lines()))
}

func TestCartStore_IncreaseRemoveClear(t *testing.T) {
	cart, _ := newTestCart(t)
	catalog := scenarioCatalog()
	ctx := context.Background()

	cart.IncreaseQuantity(ctx, 1)
	assert.Empty(t, cart.Lines(), "increase on an absent line is a no-op")

	cart.AddToCart(ctx, catalog[0])
	cart.IncreaseQuantity(ctx, 1)
	assert.Equal(t, 2, cart.Quantity(1))

	cart.AddToCart(ctx, catalog[1])
	cart.RemoveFromCart(ctx, 1)
	assert.Equal(t, []int{2}, lineIDs(cart.Lines()))

	cart.RemoveFromCart(ctx, 1)
	assert.Equal(t, []int{2}, lineIDs(cart.Lines()))

	cart.ClearCart(ctx)
	assert.Empty(t, cart.Lines())
	assert.Equal(t, 0, cart.TotalItems())
	assert.True(t, cart.TotalPrice().IsZero())
}

func TestCartStore_TotalPriceRounding(t *testing.T) {
	cart, _ := newTestCart(t)
	ctx := context.Background()

	cart.AddToCart(ctx, product(1, "A", "0.333", "x", "b"))
	cart.AddToCart(ctx, product(1, "A", "0.333", "x", "b"))
	cart.AddToCart(ctx, product(2, "B", "19.99", "x", "b"))

	assert.True(t, decimal.RequireFromString("20.66").Equal(cart.TotalPrice()))
}

func TestCartStore_SnapshotIsTakenAtAdd(t *testing.T) {
	cart, _ := newTestCart(t)
	p := product(1, "A", "10", "x", "b1")
	p.Rating = floatPtr(4)

	cart.AddToCart(context.Background(), p)
	*p.Rating = 1
	p.Name = "renamed"

	line := cart.Lines()[0]
	assert.Equal(t, "A", line.Name)
	require.NotNil(t, line.Rating)
	assert.Equal(t, 4.0, *line.Rating)
}

func TestCartStore_PersistsEveryMutation(t *testing.T) {
	cart, storage := newTestCart(t)
	ctx := context.Background()

	cart.AddToCart(ctx, scenarioCatalog()[0])
	raw, ok, err := storage.GetItem(ctx, CartStorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":1,"name":"A","price":"10","category":"x","brand":"b1","image":"","quantity":1}]`, raw)

	cart.ClearCart(ctx)
	raw, _, err = storage.GetItem(ctx, CartStorageKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestCartStore_RoundTrip(t *testing.T) {
	cart, storage := newTestCart(t)
	ctx := context.Background()
	catalog := scenarioCatalog()

	withRating := catalog[1]
	withRating.Rating = floatPtr(3.5)
	withRating.Discount = floatPtr(10)

	cart.AddToCart(ctx, catalog[0])
	cart.AddToCart(ctx, withRating)
	cart.AddToCart(ctx, withRating)

	reloaded := NewCartStore(ctx, storage)
	assert.Equal(t, lineIDs(cart.Lines()), lineIDs(reloaded.Lines()))
	assert.Equal(t, cart.Quantity(2), reloaded.Quantity(2))
	assert.True(t, cart.TotalPrice().Equal(reloaded.TotalPrice()))

	before, err := MarshalCartLines(cart.Lines())
	require.NoError(t, err)
	after, err := MarshalCartLines(reloaded.Lines())
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestCartStore_RehydrateMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"bad json", `[{"id":1,`},
		{"not an array", `{"id":1}`},
		{"zero quantity", `[{"id":1,"name":"A","price":"10","quantity":0}]`},
		{"duplicate ids", `[{"id":1,"price":"1","quantity":1},{"id":1,"price":"1","quantity":2}]`},
		{"negative price", `[{"id":1,"price":"-1","quantity":1}]`},
		{"invalid id", `[{"id":0,"price":"1","quantity":1}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := repository.NewMemoryStorage()
			require.NoError(t, storage.SetItem(context.Background(), CartStorageKey, tt.raw))

			cart := NewCartStore(context.Background(), storage)
			assert.Empty(t, cart.Lines())
			assert.Equal(t, 0, cart.TotalItems())
		})
	}
}

func TestUnmarshalCartLines_InvalidInput(t *testing.T) {
	_, err := UnmarshalCartLines([]byte(`[{"id":1,"price":"1","quantity":-3}]`))
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	lines, err := UnmarshalCartLines([]byte(`[]`))
	require.NoError(t, err)
	assert.NotNil(t, lines)
	assert.Empty(t, lines)
}

func TestCartStore_PersistenceFailureIsSwallowed(t *testing.T) {
	cart := NewCartStore(context.Background(), failingStorage{})
	assert.Empty(t, cart.Lines(), "unreadable storage yields an empty cart")

	ctx := context.Background()
	cart.AddToCart(ctx, scenarioCatalog()[0])
	cart.AddToCart(ctx, scenarioCatalog()[0])

	assert.Equal(t, 2, cart.Quantity(1), "in-memory state stays authoritative")
}

func TestCartStore_Subscribe(t *testing.T) {
	cart, _ := newTestCart(t)
	ctx := context.Background()

	var snapshots []models.CartSnapshot
	unsubscribe := cart.Subscribe(func(s models.CartSnapshot) {
		snapshots = append(snapshots, s)
	})

	cart.AddToCart(ctx, scenarioCatalog()[0])
	cart.IncreaseQuantity(ctx, 1)
	cart.RemoveFromCart(ctx, 99) // no-op: no notification

	require.Len(t, snapshots, 2)
	assert.Equal(t, 1, snapshots[0].TotalItems)
	assert.Equal(t, 2, snapshots[1].TotalItems)
	assert.Equal(t, "20.00", snapshots[1].TotalPrice.StringFixed(2))

	// Snapshots are immutable copies
	snapshots[1].Lines[0].Quantity = 100
	assert.Equal(t, 2, cart.Quantity(1))

	unsubscribe()
	cart.ClearCart(ctx)
	assert.Len(t, snapshots, 2)
}
