package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/dreamvault/dreamvault-golang/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

//
// --- Onboarding Flow (4 steps) ---
//
// Steps are strictly ordered and tracked in users.onboarding_step:
//   0 = fresh signup
//   1 = personal info saved
//   2 = dream experiences picked
//   3 = privacy settings saved
//   4 = referral saved -> onboarding complete, launch offer granted
//

// launchOfferDuration is how long the signup promotion lasts.
const launchOfferDuration = 30 * 24 * time.Hour

// currentOnboardingStep reads the user's progress.
func (h *Handlers) currentOnboardingStep(userID int64) (int, error) {
	var step int
	err := h.DB.QueryRow("SELECT onboarding_step FROM users WHERE id = ?", userID).Scan(&step)
	return step, err
}

// requireStep enforces the step ordering. It writes the error response
// itself and returns false when the caller should bail out.
func (h *Handlers) requireStep(c *gin.Context, userID int64, want int) bool {
	step, err := h.currentOnboardingStep(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check onboarding progress"})
		return false
	}
	if step != want {
		if step >= 4 {
			c.JSON(http.StatusConflict, gin.H{"error": "Onboarding is already complete"})
		} else {
			c.JSON(http.StatusConflict, gin.H{"error": "Onboarding steps must be completed in order"})
		}
		return false
	}
	return true
}

// --- Step 1: Personal Info ---

type PersonalInfoInput struct {
	DisplayName string `json:"displayName" binding:"required"`
	Bio         string `json:"bio"`
}

// SavePersonalInfo is the handler for POST /v1/onboarding/personal-info.
func (h *Handlers) SavePersonalInfo(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	userID := userIDRaw.(int64)

	var input PersonalInfoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.requireStep(c, userID, 0) {
		return
	}

	query := `
		UPDATE users
		SET display_name = ?, bio = ?, onboarding_step = 1, updated_at = ?
		WHERE id = ?`
	if _, err := h.DB.Exec(query, input.DisplayName, nullableString(input.Bio), time.Now(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save personal info"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Personal info saved", "onboardingStep": 1})
}

// --- Step 2: Dream Experiences ---

type DreamExperiencesInput struct {
	Dreams []string `json:"dreams" binding:"required,min=1,max=10,dive,required"`
}

// SaveDreamExperiences is the handler for POST /v1/onboarding/dream-experiences.
// It seeds the user's first dream records.
func (h *Handlers) SaveDreamExperiences(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	userID := userIDRaw.(int64)

	var input DreamExperiencesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.requireStep(c, userID, 1) {
		return
	}

	// Seed the dreams and advance the step in one transaction,
	// so a failure half-way doesn't leave orphaned progress.
	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback() // Safety net

	now := time.Now()
	dreamQuery := `
		INSERT INTO dreams (user_id, title, status, created_at, updated_at)
		VALUES (?, ?, 'open', ?, ?)`
	for _, title := range input.Dreams {
		if _, err := tx.Exec(dreamQuery, userID, title, now, now); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save dream"})
			return
		}
	}

	if _, err := tx.Exec("UPDATE users SET onboarding_step = 2, updated_at = ? WHERE id = ?", now, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update onboarding progress"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Dream experiences saved",
		"dreamsCreated":  len(input.Dreams),
		"onboardingStep": 2,
	})
}

// --- Step 3: Privacy Settings ---

type PrivacySettingsInput struct {
	ProfileVisibility string `json:"profileVisibility" binding:"required,oneof=public friends private"`
	ShareDreams       *bool  `json:"shareDreams" binding:"required"`
}

// SavePrivacySettings is the handler for POST /v1/onboarding/privacy.
func (h *Handlers) SavePrivacySettings(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	userID := userIDRaw.(int64)

	var input PrivacySettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.requireStep(c, userID, 2) {
		return
	}

	query := `
		UPDATE users
		SET profile_visibility = ?, share_dreams = ?, onboarding_step = 3, updated_at = ?
		WHERE id = ?`
	if _, err := h.DB.Exec(query, input.ProfileVisibility, *input.ShareDreams, time.Now(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save privacy settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Privacy settings saved", "onboardingStep": 3})
}

// --- Step 4: Referral (completes onboarding) ---

type ReferralInput struct {
	Source       string `json:"source" binding:"required"`
	ReferralCode string `json:"referralCode"`
}

// SaveReferral is the handler for POST /v1/onboarding/referral.
// Completing this final step grants the launch offer exactly once.
func (h *Handlers) SaveReferral(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	userID := userIDRaw.(int64)

	var input ReferralInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.requireStep(c, userID, 3) {
		return
	}

	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback() // Safety net

	now := time.Now()

	// 1. Mark the user as fully onboarded.
	userQuery := `
		UPDATE users
		SET referral_source = ?, referral_code = ?, onboarding_step = 4, onboarded_at = ?, updated_at = ?
		WHERE id = ? AND onboarding_step = 3`
	result, err := tx.Exec(userQuery, input.Source, nullableString(input.ReferralCode), now, now, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete onboarding"})
		return
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check affected rows"})
		return
	}
	if rowsAffected == 0 {
		// Someone beat us to it (double submit); the offer was already granted.
		c.JSON(http.StatusConflict, gin.H{"error": "Onboarding is already complete"})
		return
	}

	// 2. Grant the launch offer: a 30-day premium entitlement.
	entitlement := &models.Entitlement{
		UserID:    userID,
		Reference: uuid.NewString(),
		Kind:      models.LaunchOfferKind,
		Tier:      "premium",
		ExpiresAt: now.Add(launchOfferDuration),
		CreatedAt: now,
	}
	entQuery := `
		INSERT INTO entitlements (user_id, reference, kind, tier, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := tx.Exec(entQuery,
		entitlement.UserID,
		entitlement.Reference,
		entitlement.Kind,
		entitlement.Tier,
		entitlement.ExpiresAt,
		entitlement.CreatedAt,
	); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to grant launch offer"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	// The grant is only announced after the commit actually lands.
	log.Printf("✅ Launch offer granted to user %d (ref %s, expires %s)",
		userID, entitlement.Reference, entitlement.ExpiresAt.Format(time.RFC3339))

	c.JSON(http.StatusOK, gin.H{
		"message":        "Onboarding complete! Your launch offer is active.",
		"onboardingStep": 4,
		"launchOffer": gin.H{
			"tier":      entitlement.Tier,
			"expiresAt": entitlement.ExpiresAt,
		},
	})
}

// nullableString converts "" to NULL for optional text columns.
func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
