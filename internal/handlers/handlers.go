package handlers

import (
	"database/sql"

	"github.com/bytexshop/bytex-golang/internal/catalog"
	"github.com/bytexshop/bytex-golang/internal/payment"
	"github.com/bytexshop/bytex-golang/internal/session"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	DB       *sql.DB         // Shared connection pool (orders, users)
	Catalog  *catalog.Store  // Product/category/review store
	Sessions session.Store   // Backing store for session carts
	Gateway  payment.Gateway // External payment processor

	// PublicBaseURL is where the gateway redirects the shopper after
	// payment, e.g. https://shop.example.com
	PublicBaseURL string
	Currency      string
}
