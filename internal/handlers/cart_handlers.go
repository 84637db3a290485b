package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bytexshop/bytex-golang/internal/cart"
	"github.com/bytexshop/bytex-golang/internal/catalog"
)

//
// --- Cart Handlers (session-scoped, no login required) ---
//

// loadCart builds the request's cart from the session ID placed into
// the context by the session middleware.
func (h *Handlers) loadCart(c *gin.Context) (*cart.Cart, error) {
	sid := c.GetString("sessionID")
	return cart.New(c.Request.Context(), h.Sessions, sid)
}

// GetCart is the handler for GET /cart/
// It renders the full cart: enriched items, live total and quantity count.
func (h *Handlers) GetCart(c *gin.Context) {
	userCart, err := h.loadCart(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}

	items, err := userCart.Items(c.Request.Context(), h.Catalog)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			// A cart entry points at a product that no longer exists.
			// That is an integrity failure, not something to skip over.
			c.JSON(http.StatusNotFound, gin.H{"error": "Product in cart no longer exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read cart items"})
		return
	}

	total, err := userCart.TotalCost(c.Request.Context(), h.Catalog)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute cart total"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":      items,
		"totalCost":  total,
		"totalItems": userCart.Len(),
	})
}

// AddToCart is the handler for POST /cart/add_to_cart/:product_id
// It adds one unit of the product and responds with the menu-cart
// summary fragment.
func (h *Handlers) AddToCart(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	// The product must exist before it can enter the cart; otherwise a
	// dangling entry would poison every later cart read.
	if _, err := h.Catalog.GetProduct(c.Request.Context(), productID); err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	userCart, err := h.loadCart(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}

	if err := userCart.Add(c.Request.Context(), productID, 1, false); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"totalItems": userCart.Len()})
}

// cartItemPayload mirrors the cart_item partial of the storefront UI.
type cartItemPayload struct {
	Product    productSummary `json:"product"`
	TotalPrice float64        `json:"totalPrice"`
	Quantity   int            `json:"quantity"`
}

type productSummary struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Slug      string  `json:"slug"`
	Thumbnail string  `json:"thumbnail"`
	Price     float64 `json:"price"`
}

// UpdateCart is the handler for POST /cart/update_cart/:product_id/:action
//
// 'increment' and 'decrement' adjust the quantity by ±1; any other
// action is rejected before the cart is touched. A decrement that lands
// on zero removes the entry and renders a null item. Success signals
// the client to refresh the menu-cart fragment via HX-Trigger.
func (h *Handlers) UpdateCart(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	var delta int
	switch c.Param("action") {
	case "increment":
		delta = 1
	case "decrement":
		delta = -1
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action"})
		return
	}

	userCart, err := h.loadCart(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := userCart.Add(c.Request.Context(), productID, delta, true); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	product, err := h.Catalog.GetProduct(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product does not exist"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// A nil entry means the decrement removed the last unit; the client
	// gets an empty item fragment, not an error.
	var item *cartItemPayload
	if entry := userCart.Get(productID); entry != nil {
		item = &cartItemPayload{
			Product: productSummary{
				ID:        product.ID,
				Name:      product.Name,
				Slug:      product.Slug,
				Thumbnail: product.Thumbnail(),
				Price:     product.Price,
			},
			TotalPrice: cart.Round2(product.Price * float64(entry.Quantity)),
			Quantity:   entry.Quantity,
		}
	}

	c.Header("HX-Trigger", "update-menu-cart")
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// MenuCart is the handler for GET /cart/hx_menu_cart/
// It backs the cart badge in the site header.
func (h *Handlers) MenuCart(c *gin.Context) {
	userCart, err := h.loadCart(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"totalItems": userCart.Len()})
}

// CartTotal is the handler for GET /cart/hx_cart_total/
// The total is recomputed from current catalog prices on every call.
func (h *Handlers) CartTotal(c *gin.Context) {
	userCart, err := h.loadCart(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}

	total, err := userCart.TotalCost(c.Request.Context(), h.Catalog)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product in cart no longer exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute cart total"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"totalCost": total})
}
