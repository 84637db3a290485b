package routes

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/bytexshop/bytex-golang/internal/handlers"
	"github.com/bytexshop/bytex-golang/internal/middleware"
)

// CORSMiddleware allows the storefront frontend to call this API with
// credentials (the session cookie rides on every cart request).
func CORSMiddleware() gin.HandlerFunc {
	allowedOrigin := os.Getenv("CORS_ORIGIN")
	if allowedOrigin == "" {
		allowedOrigin = "http://localhost:5173"
	}

	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "HX-Trigger")

		// Preflight OPTIONS requests get an empty 204 reply.
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func SetupRouter(h *handlers.Handlers) *gin.Engine {
	router := gin.Default()

	router.Use(CORSMiddleware())
	// Every request gets a session ID; the cart hangs off it.
	router.Use(middleware.SessionMiddleware())

	// --- Ping Route (Public) ---
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong!"})
	})

	// --- Storefront (Public) ---
	router.GET("/", h.Frontpage)
	router.GET("/shop/", h.Shop)
	router.GET("/shop/:slug", h.GetProduct)

	// --- Catalog Management ---
	router.GET("/categories", h.GetAllCategories)
	router.POST("/categories", h.CreateCategory)
	router.POST("/products", h.CreateProduct)

	// --- Auth Routes (Public) ---
	router.POST("/signup", h.Signup)
	router.POST("/login", h.Login)

	// --- Cart Routes (session-scoped, no login needed) ---
	cart := router.Group("/cart")
	{
		cart.GET("/", h.GetCart)
		cart.POST("/add_to_cart/:product_id", h.AddToCart)
		cart.POST("/update_cart/:product_id/:action", h.UpdateCart)
		cart.GET("/hx_menu_cart/", h.MenuCart)
		cart.GET("/hx_cart_total/", h.CartTotal)

		// Checkout needs a logged-in user.
		cart.POST("/checkout/", middleware.AuthMiddleware(), h.Checkout)
	}

	// --- Protected Routes (Login Required) ---
	auth := router.Group("/")
	auth.Use(middleware.AuthMiddleware())
	{
		// Simple checkout fallback: order created unpaid, no gateway.
		auth.POST("/orders/start", h.StartOrder)

		auth.POST("/shop/:slug/reviews", h.CreateReview)

		auth.GET("/myaccount", h.MyAccount)
		auth.PUT("/myaccount/edit", h.EditAccount)
		auth.GET("/myaccount/orders", h.GetMyOrders)
		auth.GET("/myaccount/orders/:id", h.GetOrderDetails)
	}

	return router
}
