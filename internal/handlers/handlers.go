package handlers

import (
	"database/sql"

	"github.com/dreamvault/dreamvault-golang/internal/billing"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	DB      *sql.DB                // Primary Read/Write connection
	Billing billing.SessionCreator // Payments provider client (Stripe in production)
}
