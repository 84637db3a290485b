package models

import "time"

// Order status values. An order is created as 'ordered' and moves to
// 'shipped' during fulfilment (fulfilment is handled outside this API).
const (
	OrderStatusOrdered = "ordered"
	OrderStatusShipped = "shipped"
)

// Order is the model for the 'orders' table
type Order struct {
	ID            int64     `json:"id" db:"id"`
	UserID        *int64    `json:"userId,omitempty" db:"user_id"` // Use pointer for NULL
	FirstName     string    `json:"firstName" db:"first_name"`
	LastName      string    `json:"lastName" db:"last_name"`
	Email         string    `json:"email" db:"email"`
	Address       string    `json:"address" db:"address"`
	Zipcode       string    `json:"zipcode" db:"zipcode"`
	City          string    `json:"city" db:"city"`
	Phone         string    `json:"phone" db:"phone"`
	Paid          bool      `json:"paid" db:"paid"`
	PaidAmount    *float64  `json:"paidAmount,omitempty" db:"paid_amount"`
	Status        string    `json:"status" db:"status"`
	PaymentIntent *string   `json:"paymentIntent,omitempty" db:"payment_intent"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// OrderItem is the model for the 'order_items' table.
// Price is the line total (unit price * quantity) captured at the time
// of purchase; it never tracks later catalog price changes.
type OrderItem struct {
	ID        int64   `json:"id" db:"id"`
	OrderID   int64   `json:"orderId" db:"order_id"`
	ProductID int64   `json:"productId" db:"product_id"`
	Price     float64 `json:"price" db:"price"`
	Quantity  int     `json:"quantity" db:"quantity"`
}
