package main

import (
	"log"
	"os"

	"github.com/dreamvault/dreamvault-golang/internal/billing"
	"github.com/dreamvault/dreamvault-golang/internal/database"
	"github.com/dreamvault/dreamvault-golang/internal/handlers"
	"github.com/dreamvault/dreamvault-golang/internal/routes"
	"github.com/joho/godotenv"
)

func main() {
	// 0. --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	// 1. --- Database Connection ---
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(127.0.0.1:3306)/dreamvault?parseTime=true"
	}
	db, err := database.OpenDB(dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// 2. --- Payments Provider Client ---
	// The key is read once at cold start. An empty key is tolerated:
	// checkout calls will then fail at request time instead of at boot.
	stripeKey := os.Getenv("STRIPE_SECRET_KEY")
	if stripeKey == "" {
		log.Println("WARNING: STRIPE_SECRET_KEY is not set. Checkout session creation will fail.")
	}
	stripeClient := billing.NewStripeClient(stripeKey)

	// --- Application Setup ---
	app := &handlers.Handlers{
		DB:      db,
		Billing: stripeClient,
	}

	// --- Router Setup ---
	router := routes.SetupRouter(app)

	// --- Start Server ---
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting DreamVault API server on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
