package models

import "time"

// Entitlement defines the model for the 'entitlements' table.
// The only kind we grant today is the launch offer: a promotional
// premium-tier window given once, when a user finishes onboarding.
type Entitlement struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Reference string    `json:"reference" db:"reference"` // uuid, stable handle for support lookups
	Kind      string    `json:"kind" db:"kind"`           // "launch_offer"
	Tier      string    `json:"tier" db:"tier"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// LaunchOfferKind is the entitlements.kind value for the signup promotion.
const LaunchOfferKind = "launch_offer"
