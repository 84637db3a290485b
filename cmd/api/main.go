package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/bytexshop/bytex-golang/internal/catalog"
	"github.com/bytexshop/bytex-golang/internal/database"
	"github.com/bytexshop/bytex-golang/internal/handlers"
	"github.com/bytexshop/bytex-golang/internal/payment"
	"github.com/bytexshop/bytex-golang/internal/routes"
	"github.com/bytexshop/bytex-golang/internal/session"
)

func main() {
	// --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	// --- Database Connection ---
	db, err := database.OpenDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// --- Session Store (Redis) ---
	// SESSION_STORE=memory swaps in the in-process store for local runs
	// without Redis.
	var sessions session.Store
	if os.Getenv("SESSION_STORE") == "memory" {
		log.Println("WARNING: Using in-memory session store; carts are lost on restart.")
		sessions = session.NewMemoryStore()
	} else {
		redisAddr := os.Getenv("REDIS_ADDR")
		if redisAddr == "" {
			redisAddr = "127.0.0.1:6379"
		}
		sessions = session.NewRedisStore(redis.NewClient(&redis.Options{Addr: redisAddr}))
		log.Printf("Session store: Redis at %s", redisAddr)
	}

	// --- Payment Gateway ---
	var gateway payment.Gateway
	if stripeKey := os.Getenv("STRIPE_SECRET_KEY"); stripeKey != "" {
		gateway = payment.NewStripeGateway(stripeKey)
	} else {
		log.Println("WARNING: STRIPE_SECRET_KEY is not set. Using mock payment gateway.")
		gateway = payment.NewMockGateway()
	}

	publicBaseURL := os.Getenv("PUBLIC_BASE_URL")
	if publicBaseURL == "" {
		publicBaseURL = "http://localhost:8080"
	}

	currency := os.Getenv("CURRENCY")
	if currency == "" {
		currency = "usd"
	}

	// --- Application Setup ---
	app := &handlers.Handlers{
		DB:            db,
		Catalog:       catalog.NewStore(db),
		Sessions:      sessions,
		Gateway:       gateway,
		PublicBaseURL: publicBaseURL,
		Currency:      currency,
	}

	// --- Router Setup ---
	router := routes.SetupRouter(app)

	// --- Start Server ---
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting byteX storefront API server on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
