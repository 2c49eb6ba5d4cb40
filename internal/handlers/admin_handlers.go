package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"github.com/dreamvault/dreamvault-golang/internal/adminauth"
	"github.com/dreamvault/dreamvault-golang/internal/auth"
	"github.com/dreamvault/dreamvault-golang/internal/middleware"
	"github.com/dreamvault/dreamvault-golang/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Admin Status (public) ---
//

// tokenAuthProvider adapts our JWT session to the adminauth.AuthProvider
// interface. A missing or invalid token resolves to anonymous, not an error.
type tokenAuthProvider struct {
	db    *sql.DB
	token string
}

func (p *tokenAuthProvider) CurrentUser(ctx context.Context) (*adminauth.User, error) {
	if p.token == "" {
		return nil, nil // anonymous
	}
	userID, err := auth.ValidateToken(p.token)
	if err != nil {
		return nil, nil // expired/garbage token = no session
	}

	var email string
	err = p.db.QueryRowContext(ctx, "SELECT email FROM users WHERE id = ?", userID).Scan(&email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // token for a deleted account
		}
		return nil, err
	}

	return &adminauth.User{ID: strconv.FormatInt(userID, 10), Email: email}, nil
}

// bearerToken pulls the raw token out of the Authorization header, if any.
func bearerToken(c *gin.Context) string {
	parts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// GetAdminStatus is the handler for GET /v1/auth/admin-status.
// It runs the two-step admin check and always answers 200 with the
// resolved status; failures land in the status's error field.
func (h *Handlers) GetAdminStatus(c *gin.Context) {
	provider := &tokenAuthProvider{db: h.DB, token: bearerToken(c)}

	lookup := func(ctx context.Context, userID string) (bool, error) {
		id, err := strconv.ParseInt(userID, 10, 64)
		if err != nil {
			return false, err
		}
		role, err := middleware.QueryUserRole(h.DB, id)
		if err != nil {
			return false, err
		}
		return role == "administrator", nil
	}

	status := adminauth.Resolve(c.Request.Context(), provider, lookup)
	c.JSON(http.StatusOK, status)
}

//
// --- Admin: User Listing ---
//

// ListUsers is the handler for GET /v1/admin/users.
func (h *Handlers) ListUsers(c *gin.Context) {
	query := `
		SELECT id, role, status, email, full_name, onboarding_step, created_at, updated_at
		FROM users
		ORDER BY created_at DESC`

	rows, err := h.DB.Query(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		var user models.User
		if err := rows.Scan(
			&user.ID,
			&user.Role,
			&user.Status,
			&user.Email,
			&user.FullName,
			&user.OnboardingStep,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan user row"})
			return
		}
		users = append(users, &user)
	}
	if err = rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating user rows"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}
