package models

import "time"

// Dream defines the model for the 'dreams' table.
// A dream is a single experience the user wants to live
// (created during onboarding or from the dashboard's "New Dream" action).
type Dream struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"userId" db:"user_id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description,omitempty" db:"description"`
	Category    *string   `json:"category,omitempty" db:"category"`
	Status      string    `json:"status" db:"status"` // "open" | "in-progress" | "achieved"
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}
