// Package session provides the storage backend for per-visitor state.
// The cart is the only tenant: one slot per session ID, holding the
// serialized cart mapping and nothing else.
package session

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a session has no stored slot.
var ErrNotFound = errors.New("session: slot not found")

// Store is the handle every cart operation receives explicitly. Carts
// never reach for hidden global session state.
type Store interface {
	// Get returns the raw serialized slot for a session ID.
	Get(ctx context.Context, sid string) ([]byte, error)
	// Set overwrites the slot for a session ID.
	Set(ctx context.Context, sid string, data []byte) error
	// Delete removes the slot entirely. Deleting an absent slot is not
	// an error.
	Delete(ctx context.Context, sid string) error
}
