package handlers

import (
	"net/http"
	"time"

	"github.com/dreamvault/dreamvault-golang/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Dream Handlers ---
//

// CreateDreamInput defines the JSON input for creating a dream.
type CreateDreamInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// CreateDream is the handler for POST /v1/dreams (the "New Dream" action).
func (h *Handlers) CreateDream(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	userID := userIDRaw.(int64)

	// 1. --- Bind & Validate JSON ---
	var input CreateDreamInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. --- Save to Database ---
	now := time.Now()
	query := `
		INSERT INTO dreams (user_id, title, description, category, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, 'open', ?, ?)`
	result, err := h.DB.Exec(query,
		userID,
		input.Title,
		nullableString(input.Description),
		nullableString(input.Category),
		now,
		now,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create dream"})
		return
	}

	id, err := result.LastInsertId()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get new dream ID"})
		return
	}

	// 3. --- Send Success Response ---
	c.JSON(http.StatusCreated, gin.H{
		"message": "Dream created successfully",
		"dreamId": id,
	})
}

// GetMyDreams is the handler for GET /v1/dreams.
func (h *Handlers) GetMyDreams(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	userID := userIDRaw.(int64)

	query := `
		SELECT id, user_id, title, description, category, status, created_at, updated_at
		FROM dreams
		WHERE user_id = ?
		ORDER BY created_at DESC`

	rows, err := h.DB.Query(query, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	dreams := []*models.Dream{}
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
		dreams = append(dreams, &dream)
	}
	if err = rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating dream rows"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"dreams": dreams})
}
