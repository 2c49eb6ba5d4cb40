package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/dreamvault/dreamvault-golang/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Member Dashboard ---
//

type LaunchOfferStatus struct {
	Active    bool       `json:"active"`
	Tier      string     `json:"tier,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

type DashboardStats struct {
	DisplayName        string            `json:"displayName"`
	OnboardingComplete bool              `json:"onboardingComplete"`
	CanCreateDream     bool              `json:"canCreateDream"` // drives the "New Dream" button
	DreamCount         int               `json:"dreamCount"`
	Dreams             []*models.Dream   `json:"dreams"`
	LaunchOffer        LaunchOfferStatus `json:"launchOffer"`
}

// GetDashboard returns everything the member dashboard renders.
// GET /v1/dashboard
func (h *Handlers) GetDashboard(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	userID := userIDRaw.(int64)

	stats := DashboardStats{}

	// 1. User display name + onboarding progress
	var displayName sql.NullString
	var fullName string
	var step int
	err := h.DB.QueryRow(
		"SELECT display_name, full_name, onboarding_step FROM users WHERE id = ?", userID,
	).Scan(&displayName, &fullName, &step)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}
	stats.DisplayName = fullName
	if displayName.Valid {
		stats.DisplayName = displayName.String
	}
	stats.OnboardingComplete = step >= 4
	stats.CanCreateDream = stats.OnboardingComplete

	// 2. Dream list (newest first)
	query := `
		SELECT id, user_id, title, description, category, status, created_at, updated_at
		FROM dreams
		WHERE user_id = ?
		ORDER BY created_at DESC`
	rows, err := h.DB.Query(query, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dreams"})
		return
	}
	defer rows.Close()

	stats.Dreams = []*models.Dream{}
	for rows.Next() {
		var dream models.Dream
		if err := rows.Scan(
			&dream.ID,
			&dream.UserID,
			&dream.Title,
			&dream.Description,
			&dream.Category,
			&dream.Status,
			&dream.CreatedAt,
			&dream.UpdatedAt,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan dream row"})
			return
		}
		stats.Dreams = append(stats.Dreams, &dream)
	}
	if err = rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating dream rows"})
		return
	}
	stats.DreamCount = len(stats.Dreams)

	// 3. Launch offer (the newest unexpired one, if any)
	var tier string
	var expiresAt time.Time
	err = h.DB.QueryRow(`
		SELECT tier, expires_at
		FROM entitlements
		WHERE user_id = ? AND kind = ? AND expires_at > ?
		ORDER BY expires_at DESC
		LIMIT 1`, userID, models.LaunchOfferKind, time.Now(),
	).Scan(&tier, &expiresAt)
	if err != nil && err != sql.ErrNoRows {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load launch offer"})
		return
	}
	if err == nil {
		stats.LaunchOffer = LaunchOfferStatus{Active: true, Tier: tier, ExpiresAt: &expiresAt}
	}

	c.JSON(http.StatusOK, stats)
}
