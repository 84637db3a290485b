package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytexshop/bytex-golang/internal/payment"
	"github.com/bytexshop/bytex-golang/internal/session"
)

func newCheckoutRouter(h *Handlers) *gin.Engine {
	router := gin.New()
	router.Use(testSessionMiddleware())
	router.Use(testAuthMiddleware(7))
	router.POST("/cart/checkout/", h.Checkout)
	router.POST("/orders/start", h.StartOrder)
	return router
}

func checkoutBody(t *testing.T) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(map[string]string{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"email":      "ada@example.com",
		"address":    "1 Analytical Way",
		"zipcode":    "12345",
		"city":       "London",
		"phone":      "555-0100",
	})
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func postJSON(router *gin.Engine, path string, body *bytes.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestCheckoutCreatesPaidOrderAndClearsCart(t *testing.T) {
	h, mock, gateway := newTestApp(t)
	router := newCheckoutRouter(h)

	// product A: qty 2 at 10.00, product B: qty 1 at 5.00 -> total 25.00
	seedCart(t, h, map[int64]int{1: 2, 2: 1})

	// Items and TotalCost each look every product up independently.
	expectProductLookup(mock, 1, "keyboard", 10.00)
	expectProductLookup(mock, 1, "keyboard", 10.00)
	expectProductLookup(mock, 2, "mouse", 5.00)
	expectProductLookup(mock, 2, "mouse", 5.00)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectExec("INSERT INTO order_items").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO order_items").WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	w := postJSON(router, "/cart/checkout/", checkoutBody(t))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body struct {
		OrderID       int64                    `json:"orderId"`
		Session       *payment.CheckoutSession `json:"session"`
		PaymentIntent string                   `json:"paymentIntent"`
		TotalPaid     float64                  `json:"totalPaid"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(10), body.OrderID)
	assert.Equal(t, 25.00, body.TotalPaid)
	require.NotNil(t, body.Session)
	assert.Equal(t, body.Session.PaymentIntentID, body.PaymentIntent)

	// The gateway saw minor-unit amounts and the cart's quantities.
	require.NotNil(t, gateway.LastInput)
	assert.Equal(t, "usd", gateway.LastInput.Currency)
	require.Len(t, gateway.LastInput.Items, 2)
	assert.Equal(t, payment.LineItem{Name: "keyboard", UnitAmount: 1000, Quantity: 2}, gateway.LastInput.Items[0])
	assert.Equal(t, payment.LineItem{Name: "mouse", UnitAmount: 500, Quantity: 1}, gateway.LastInput.Items[1])
	assert.Equal(t, "http://localhost:8080/cart/success/", gateway.LastInput.SuccessURL)

	// Cart slot is gone after a successful checkout.
	_, err := h.Sessions.Get(context.Background(), testSessionID)
	assert.ErrorIs(t, err, session.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutGatewayFailureLeavesNoOrderAndKeepsCart(t *testing.T) {
	h, mock, gateway := newTestApp(t)
	router := newCheckoutRouter(h)
	seedCart(t, h, map[int64]int{1: 2})

	expectProductLookup(mock, 1, "keyboard", 10.00)
	expectProductLookup(mock, 1, "keyboard", 10.00)

	gateway.Err = errors.New("gateway down")

	w := postJSON(router, "/cart/checkout/", checkoutBody(t))
	assert.Equal(t, http.StatusBadGateway, w.Code)

	// No order transaction was even started, and the cart is intact.
	assert.NoError(t, mock.ExpectationsWereMet())
	data, err := h.Sessions.Get(context.Background(), testSessionID)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestCheckoutEmptyCart(t *testing.T) {
	h, _, _ := newTestApp(t)
	router := newCheckoutRouter(h)

	w := postJSON(router, "/cart/checkout/", checkoutBody(t))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutInvalidInput(t *testing.T) {
	h, _, _ := newTestApp(t)
	router := newCheckoutRouter(h)
	seedCart(t, h, map[int64]int{1: 1})

	w := postJSON(router, "/cart/checkout/", bytes.NewReader([]byte(`{"first_name":"Ada"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStartOrderCreatesUnpaidOrderAndClearsCart(t *testing.T) {
	h, mock, gateway := newTestApp(t)
	router := newCheckoutRouter(h)
	seedCart(t, h, map[int64]int{1: 2, 2: 1})

	// Simple mode reads the items once; no gateway involved.
	expectProductLookup(mock, 1, "keyboard", 10.00)
	expectProductLookup(mock, 2, "mouse", 5.00)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec("INSERT INTO order_items").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO order_items").WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	w := postJSON(router, "/orders/start", checkoutBody(t))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body struct {
		OrderID int64  `json:"orderId"`
		Status  string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(11), body.OrderID)
	assert.Equal(t, "ordered", body.Status)

	assert.Nil(t, gateway.LastInput, "simple mode never touches the gateway")

	_, err := h.Sessions.Get(context.Background(), testSessionID)
	assert.ErrorIs(t, err, session.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
