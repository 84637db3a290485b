package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bytexshop/bytex-golang/internal/models"
)

//
// --- Order Retrieval Handlers (login required) ---
//

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	var o models.Order
	var userID sql.NullInt64
	var paidAmount sql.NullFloat64
	var paymentIntent sql.NullString

	err := row.Scan(&o.ID, &userID, &o.FirstName, &o.LastName, &o.Email,
		&o.Address, &o.Zipcode, &o.City, &o.Phone,
		&o.Paid, &paidAmount, &o.Status, &paymentIntent, &o.CreatedAt)
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		o.UserID = &userID.Int64
	}
	if paidAmount.Valid {
		o.PaidAmount = &paidAmount.Float64
	}
	if paymentIntent.Valid {
		o.PaymentIntent = &paymentIntent.String
	}
	return &o, nil
}

const orderColumns = `id, user_id, first_name, last_name, email, address, zipcode, city, phone,
	paid, paid_amount, status, payment_intent, created_at`

// GetMyOrders is the handler for GET /myaccount/orders
func (h *Handlers) GetMyOrders(c *gin.Context) {
	userID := c.GetInt64("userID")

	rows, err := h.DB.QueryContext(c.Request.Context(),
		"SELECT "+orderColumns+" FROM orders WHERE user_id = ? ORDER BY created_at DESC", userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan order data"})
			return
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// OrderItemDetail extends the base OrderItem with product info for the
// order detail view.
type OrderItemDetail struct {
	models.OrderItem
	ProductName string `json:"productName"`
	ProductSlug string `json:"productSlug"`
}

// GetOrderDetails is the handler for GET /myaccount/orders/:id
func (h *Handlers) GetOrderDetails(c *gin.Context) {
	userID := c.GetInt64("userID")
	orderID := c.Param("id")

	row := h.DB.QueryRowContext(c.Request.Context(),
		"SELECT "+orderColumns+" FROM orders WHERE id = ? AND user_id = ?", orderID, userID)
	o, err := scanOrder(row)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	rows, err := h.DB.QueryContext(c.Request.Context(), `
		SELECT oi.id, oi.order_id, oi.product_id, oi.price, oi.quantity, p.name, p.slug
		FROM order_items oi
		JOIN products p ON oi.product_id = p.id
		WHERE oi.order_id = ?`, o.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order items"})
		return
	}
	defer rows.Close()

	items := []OrderItemDetail{}
	for rows.Next() {
		var item OrderItemDetail
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Price,
			&item.Quantity, &item.ProductName, &item.ProductSlug); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan order item"})
			return
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating order items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": o,
		"items": items,
	})
}
