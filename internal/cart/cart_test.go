package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytexshop/bytex-golang/internal/catalog"
	"github.com/bytexshop/bytex-golang/internal/models"
	"github.com/bytexshop/bytex-golang/internal/session"
)

type mockFinder struct {
	products map[int64]*models.Product
}

func (f *mockFinder) GetProduct(_ context.Context, id int64) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

// countingStore wraps a Store and counts writes, so tests can assert
// which operations persist and which are no-ops.
type countingStore struct {
	session.Store
	sets    int
	deletes int
}

func (s *countingStore) Set(ctx context.Context, sid string, data []byte) error {
	s.sets++
	return s.Store.Set(ctx, sid, data)
}

func (s *countingStore) Delete(ctx context.Context, sid string) error {
	s.deletes++
	return s.Store.Delete(ctx, sid)
}

func newTestCart(t *testing.T) (*Cart, *countingStore) {
	t.Helper()
	store := &countingStore{Store: session.NewMemoryStore()}
	c, err := New(context.Background(), store, "sid-1")
	require.NoError(t, err)
	return c, store
}

func testFinder() *mockFinder {
	return &mockFinder{products: map[int64]*models.Product{
		1: {ID: 1, Name: "Keyboard", Slug: "keyboard", Price: 10.00},
		2: {ID: 2, Name: "Mouse", Slug: "mouse", Price: 5.00},
	}}
}

func TestAddNewEntryStartsAtOne(t *testing.T) {
	c, store := newTestCart(t)
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, 1, 99, false))

	entry := c.Get(1)
	require.NotNil(t, entry)
	assert.Equal(t, 1, entry.Quantity)
	assert.Equal(t, "1", entry.ID)
	assert.Equal(t, 1, store.sets, "every Add persists the cart")
}

func TestAddWithUpdateQuantityAppliesSignedDelta(t *testing.T) {
	c, _ := newTestCart(t)
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, 1, 1, false))
	require.NoError(t, c.Add(ctx, 1, 3, true))
	assert.Equal(t, 4, c.Get(1).Quantity)

	require.NoError(t, c.Add(ctx, 1, -2, true))
	assert.Equal(t, 2, c.Get(1).Quantity)
}

func TestZeroSumUpdatesRemoveEntry(t *testing.T) {
	c, _ := newTestCart(t)
	ctx := context.Background()

	// Signed deltas summing to zero (past the initial insert at 1)
	// must leave no entry behind.
	require.NoError(t, c.Add(ctx, 1, 1, false)) // quantity 1
	require.NoError(t, c.Add(ctx, 1, 2, true))  // quantity 3
	require.NoError(t, c.Add(ctx, 1, -2, true)) // quantity 1
	require.NoError(t, c.Add(ctx, 1, -1, true)) // quantity 0 -> removed

	assert.Nil(t, c.Get(1))
	assert.Equal(t, 0, c.Len())
}

func TestLenSumsQuantitiesNotEntries(t *testing.T) {
	c, _ := newTestCart(t)
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, 1, 1, false))
	require.NoError(t, c.Add(ctx, 1, 4, true)) // product 1 -> qty 5
	require.NoError(t, c.Add(ctx, 2, 1, false))

	assert.Equal(t, 6, c.Len())
}

func TestRemoveAbsentIsNoOpWithoutWrite(t *testing.T) {
	c, store := newTestCart(t)
	ctx := context.Background()

	require.NoError(t, c.Remove(ctx, 42))
	assert.Equal(t, 0, store.sets)
	assert.Equal(t, 0, store.deletes)
}

func TestRemoveDeletesAndPersists(t *testing.T) {
	c, store := newTestCart(t)
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, 1, 1, false))
	require.NoError(t, c.Remove(ctx, 1))

	assert.Nil(t, c.Get(1))
	assert.Equal(t, 2, store.sets)
}

func TestClearDropsSlotAndNextLoadIsEmpty(t *testing.T) {
	store := &countingStore{Store: session.NewMemoryStore()}
	ctx := context.Background()

	c, err := New(ctx, store, "sid-1")
	require.NoError(t, err)
	require.NoError(t, c.Add(ctx, 1, 1, false))
	require.NoError(t, c.Clear(ctx))
	assert.Equal(t, 1, store.deletes)

	fresh, err := New(ctx, store, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, 0, fresh.Len())
}

func TestCartPersistsAcrossLoads(t *testing.T) {
	store := session.NewMemoryStore()
	ctx := context.Background()

	c, err := New(ctx, store, "sid-1")
	require.NoError(t, err)
	require.NoError(t, c.Add(ctx, 1, 1, false))
	require.NoError(t, c.Add(ctx, 1, 2, true))

	reloaded, err := New(ctx, store, "sid-1")
	require.NoError(t, err)
	require.NotNil(t, reloaded.Get(1))
	assert.Equal(t, 3, reloaded.Get(1).Quantity)
}

func TestItemsComputesLineTotalsFromLivePrices(t *testing.T) {
	c, _ := newTestCart(t)
	ctx := context.Background()
	finder := testFinder()

	require.NoError(t, c.Add(ctx, 1, 1, false))
	require.NoError(t, c.Add(ctx, 1, 1, true)) // product 1 -> qty 2
	require.NoError(t, c.Add(ctx, 2, 1, false))

	items, err := c.Items(ctx, finder)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, int64(1), items[0].Product.ID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 20.00, items[0].TotalPrice)
	assert.Equal(t, int64(2), items[1].Product.ID)
	assert.Equal(t, 5.00, items[1].TotalPrice)
}

func TestTotalCostTracksPriceChangesWithoutMutation(t *testing.T) {
	c, _ := newTestCart(t)
	ctx := context.Background()
	finder := testFinder()

	require.NoError(t, c.Add(ctx, 1, 1, false))
	require.NoError(t, c.Add(ctx, 1, 1, true)) // qty 2
	require.NoError(t, c.Add(ctx, 2, 1, false))

	total, err := c.TotalCost(ctx, finder)
	require.NoError(t, err)
	assert.Equal(t, 25.00, total)

	// Price change shows up on the next read with no cart mutation.
	finder.products[1].Price = 12.50
	total, err = c.TotalCost(ctx, finder)
	require.NoError(t, err)
	assert.Equal(t, 30.00, total)
}

func TestVanishedProductFailsIterationAndTotal(t *testing.T) {
	c, _ := newTestCart(t)
	ctx := context.Background()
	finder := testFinder()

	require.NoError(t, c.Add(ctx, 1, 1, false))
	delete(finder.products, 1)

	_, err := c.Items(ctx, finder)
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)

	_, err = c.TotalCost(ctx, finder)
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 0.30, Round2(0.1+0.2))
	assert.Equal(t, 19.99, Round2(19.994))
	assert.Equal(t, 20.00, Round2(19.996))
}
