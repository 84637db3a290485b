// Package cart implements the session-scoped shopping cart: a mapping
// from product ID (string form) to quantity, loaded from the session
// store on construction and written back after every mutation.
//
// The cart never caches product data. Line totals and the overall total
// are recomputed from the catalog on every read, so price changes show
// up immediately; only settled orders snapshot prices.
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/bytexshop/bytex-golang/internal/models"
	"github.com/bytexshop/bytex-golang/internal/session"
)

// ProductFinder resolves a cart entry's product against the catalog.
type ProductFinder interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
}

// Entry is one line of the stored cart mapping. The quantity is kept
// as-is after mutation; only an exact result of zero removes the entry.
type Entry struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// Item is an Entry enriched with live catalog data for presentation.
type Item struct {
	Product    *models.Product `json:"product"`
	Quantity   int             `json:"quantity"`
	TotalPrice float64         `json:"totalPrice"`
}

// Cart holds the in-memory view of one session's cart. It is not safe
// for concurrent use; each request builds its own Cart, and concurrent
// requests from the same session race on the read-modify-write cycle
// exactly as the session model allows.
type Cart struct {
	store   session.Store
	sid     string
	entries map[string]Entry
}

// New loads the cart for a session ID, starting empty when the session
// has no stored slot yet.
func New(ctx context.Context, store session.Store, sid string) (*Cart, error) {
	c := &Cart{store: store, sid: sid, entries: make(map[string]Entry)}

	data, err := store.Get(ctx, sid)
	if err == session.ErrNotFound {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return c, nil
}

// save writes the full mapping back into the session slot.
func (c *Cart) save(ctx context.Context) error {
	data, err := json.Marshal(c.entries)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := c.store.Set(ctx, c.sid, data); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// Add puts a product into the cart or adjusts its quantity.
//
// An absent product ID is inserted with quantity 1. When updateQuantity
// is true the signed quantity is added to the entry; a resulting
// quantity of exactly zero removes the entry. The cart is persisted
// after every call.
func (c *Cart) Add(ctx context.Context, productID int64, quantity int, updateQuantity bool) error {
	key := strconv.FormatInt(productID, 10)

	if _, ok := c.entries[key]; !ok {
		c.entries[key] = Entry{ID: key, Quantity: 1}
	}

	if updateQuantity {
		entry := c.entries[key]
		entry.Quantity += quantity

		if entry.Quantity == 0 {
			delete(c.entries, key)
		} else {
			c.entries[key] = entry
		}
	}

	return c.save(ctx)
}

// Remove deletes a product from the cart. Removing an absent product is
// a no-op and does not touch the session store.
func (c *Cart) Remove(ctx context.Context, productID int64) error {
	key := strconv.FormatInt(productID, 10)
	if _, ok := c.entries[key]; !ok {
		return nil
	}
	delete(c.entries, key)
	return c.save(ctx)
}

// Clear deletes the whole cart slot from the session store. The next
// access starts with a fresh empty cart.
func (c *Cart) Clear(ctx context.Context) error {
	c.entries = make(map[string]Entry)
	if err := c.store.Delete(ctx, c.sid); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// Get returns the raw entry for a product, or nil when absent.
func (c *Cart) Get(productID int64) *Entry {
	entry, ok := c.entries[strconv.FormatInt(productID, 10)]
	if !ok {
		return nil
	}
	return &entry
}

// Len is the total quantity across all entries, not the entry count.
func (c *Cart) Len() int {
	total := 0
	for _, entry := range c.entries {
		total += entry.Quantity
	}
	return total
}

// Items resolves every entry against the catalog and computes its line
// total. Each call re-fetches product data, so concurrent price changes
// are reflected immediately. A vanished product fails the whole read.
func (c *Cart) Items(ctx context.Context, finder ProductFinder) ([]Item, error) {
	items := make([]Item, 0, len(c.entries))

	for _, key := range c.sortedKeys() {
		entry := c.entries[key]
		id, err := strconv.ParseInt(entry.ID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("cart entry %q: %w", entry.ID, err)
		}

		product, err := finder.GetProduct(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("cart entry %q: %w", entry.ID, err)
		}

		items = append(items, Item{
			Product:    product,
			Quantity:   entry.Quantity,
			TotalPrice: Round2(product.Price * float64(entry.Quantity)),
		})
	}
	return items, nil
}

// TotalCost sums unit price times quantity over all entries, with its
// own catalog lookups independent of Items.
func (c *Cart) TotalCost(ctx context.Context, finder ProductFinder) (float64, error) {
	total := 0.0
	for _, entry := range c.entries {
		id, err := strconv.ParseInt(entry.ID, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("cart entry %q: %w", entry.ID, err)
		}

		product, err := finder.GetProduct(ctx, id)
		if err != nil {
			return 0, fmt.Errorf("cart entry %q: %w", entry.ID, err)
		}
		total += product.Price * float64(entry.Quantity)
	}
	return Round2(total), nil
}

// sortedKeys gives iteration a stable order (numeric product ID).
func (c *Cart) sortedKeys() []string {
	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, _ := strconv.ParseInt(keys[i], 10, 64)
		b, _ := strconv.ParseInt(keys[j], 10, 64)
		return a < b
	})
	return keys
}

// Round2 normalizes a money amount to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
