package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/dreamvault/dreamvault-golang/internal/auth"
	"github.com/dreamvault/dreamvault-golang/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
)

// --- User Registration ---

// RegisterUserInput defines the expected JSON data for registration.
// The 'binding' tags are used by Gin for automatic validation.
type RegisterUserInput struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// Register is the handler for POST /v1/register.
func (h *Handlers) Register(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input RegisterUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. --- Create User Model ---
	user := &models.User{
		Role:           "member",
		Status:         "active",
		Email:          input.Email,
		FullName:       input.FullName,
		OnboardingStep: 0,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
		Version:        1,
	}

	// 3. --- Hash the Password ---
	var password models.Password
	if err := password.Set(input.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}
	user.PasswordHash = password.Hash

	// 4. --- Save to Database ---
	query := `
		INSERT INTO users
		(role, status, email, password_hash, full_name, onboarding_step, created_at, updated_at, version)
		VALUES
		(?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := h.DB.Exec(query,
		user.Role,
		user.Status,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.OnboardingStep,
		user.CreatedAt,
		user.UpdatedAt,
		user.Version,
	)
	if err != nil {
		// 1062 = duplicate key, the email is already taken
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
		return
	}

	id, err := result.LastInsertId()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get new user ID"})
		return
	}
	user.ID = id

	// 5. --- Send Success Response ---
	// Gin respects the 'json:"-"' tags on the sensitive fields.
	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful. Welcome to DreamVault!",
		"user":    user,
	})
}

// --- User Login ---

// LoginInput defines the expected JSON for login.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login is the handler for POST /v1/login.
func (h *Handlers) Login(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. --- Look Up the User ---
	var user models.User
	query := `
		SELECT id, role, status, email, password_hash, full_name, onboarding_step
		FROM users
		WHERE email = ?`

	err := h.DB.QueryRow(query, input.Email).Scan(
		&user.ID,
		&user.Role,
		&user.Status,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.OnboardingStep,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			// Same message as a bad password so we don't leak which emails exist
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up user"})
		return
	}

	// 3. --- Check the Password ---
	password := models.Password{Hash: user.PasswordHash}
	matches, err := password.Matches(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify password"})
		return
	}
	if !matches {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if user.Status != "active" {
		c.JSON(http.StatusForbidden, gin.H{"error": "This account is not active"})
		return
	}

	// 4. --- Issue a Token ---
	token, err := auth.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	// 5. --- Send Success Response ---
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}
