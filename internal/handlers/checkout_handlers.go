package handlers

import (
	"context"
	"database/sql"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bytexshop/bytex-golang/internal/cart"
	"github.com/bytexshop/bytex-golang/internal/payment"
)

//
// --- Checkout Handlers (login required) ---
//

// CheckoutInput defines the JSON for both checkout modes: the customer
// contact and shipping fields captured onto the order.
type CheckoutInput struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Address   string `json:"address" binding:"required"`
	Zipcode   string `json:"zipcode" binding:"required"`
	City      string `json:"city" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
}

// orderInsert carries everything insertOrder needs inside the
// transaction.
type orderInsert struct {
	userID        int64
	contact       CheckoutInput
	paid          bool
	paidAmount    *float64
	paymentIntent *string
}

func insertOrder(ctx context.Context, tx *sql.Tx, in orderInsert) (int64, error) {
	result, err := tx.ExecContext(ctx, `
		INSERT INTO orders (user_id, first_name, last_name, email, address, zipcode, city, phone,
		                    paid, paid_amount, status, payment_intent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'ordered', ?, ?)`,
		in.userID, in.contact.FirstName, in.contact.LastName, in.contact.Email,
		in.contact.Address, in.contact.Zipcode, in.contact.City, in.contact.Phone,
		in.paid, in.paidAmount, in.paymentIntent, time.Now())
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func insertOrderItems(ctx context.Context, tx *sql.Tx, orderID int64, items []cart.Item) error {
	query := `
		INSERT INTO order_items (order_id, product_id, price, quantity)
		VALUES (?, ?, ?, ?)`

	for _, item := range items {
		// Snapshot the line total at this instant; the order keeps the
		// price paid even when the catalog price moves later.
		if _, err := tx.ExecContext(ctx, query,
			orderID, item.Product.ID, item.TotalPrice, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// Checkout is the handler for POST /cart/checkout
//
// Payment-integrated mode: it prices the cart from the live catalog,
// opens a checkout session at the payment gateway, then creates the
// order (paid, with the payment intent attached) and its items in one
// transaction, and finally clears the cart. If the gateway call fails,
// nothing is written and the cart stays intact.
func (h *Handlers) Checkout(c *gin.Context) {
	userID := c.GetInt64("userID")

	var input CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	userCart, err := h.loadCart(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}
	if userCart.Len() == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty"})
		return
	}

	items, err := userCart.Items(c.Request.Context(), h.Catalog)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read cart items"})
		return
	}

	totalCost, err := userCart.TotalCost(c.Request.Context(), h.Catalog)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute cart total"})
		return
	}

	// Build the gateway line items: unit amounts in minor currency
	// units, quantities as counted by the cart.
	gatewayItems := make([]payment.LineItem, 0, len(items))
	for _, item := range items {
		gatewayItems = append(gatewayItems, payment.LineItem{
			Name:       item.Product.Name,
			UnitAmount: int64(math.Round(item.Product.Price * 100)),
			Quantity:   int64(item.Quantity),
		})
	}

	checkoutSession, err := h.Gateway.CreateCheckoutSession(c.Request.Context(), payment.CheckoutInput{
		Currency:   h.Currency,
		Items:      gatewayItems,
		SuccessURL: h.PublicBaseURL + "/cart/success/",
		CancelURL:  h.PublicBaseURL + "/cart/",
	})
	if err != nil {
		// No order rows exist yet and the cart has not been touched.
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment gateway error"})
		return
	}

	// Order + items are one atomic commit; a crash mid-checkout can
	// never leave an order without its items.
	tx, err := h.DB.BeginTx(c.Request.Context(), nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	orderID, err := insertOrder(c.Request.Context(), tx, orderInsert{
		userID:        userID,
		contact:       input,
		paid:          true,
		paidAmount:    &totalCost,
		paymentIntent: &checkoutSession.PaymentIntentID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	if err := insertOrderItems(c.Request.Context(), tx, orderID, items); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save order items"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	if err := userCart.Clear(c.Request.Context()); err != nil {
		// The order is already committed; losing the clear only leaves
		// a stale cart behind.
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Order placed but cart could not be cleared"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"orderId":       orderID,
		"session":       checkoutSession,
		"paymentIntent": checkoutSession.PaymentIntentID,
		"totalPaid":     totalCost,
	})
}

// StartOrder is the handler for POST /orders/start
//
// Simple mode: the order is created immediately, unpaid and 'ordered',
// with line totals snapshotted from the live catalog. The cart is
// cleared on success just like the payment-integrated mode.
func (h *Handlers) StartOrder(c *gin.Context) {
	userID := c.GetInt64("userID")

	var input CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	userCart, err := h.loadCart(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}
	if userCart.Len() == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty"})
		return
	}

	items, err := userCart.Items(c.Request.Context(), h.Catalog)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read cart items"})
		return
	}

	tx, err := h.DB.BeginTx(c.Request.Context(), nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	orderID, err := insertOrder(c.Request.Context(), tx, orderInsert{
		userID:  userID,
		contact: input,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	if err := insertOrderItems(c.Request.Context(), tx, orderID, items); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save order items"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	if err := userCart.Clear(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Order placed but cart could not be cleared"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"orderId": orderID,
		"status":  "ordered",
	})
}
