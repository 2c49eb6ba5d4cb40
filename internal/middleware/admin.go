package middleware

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
)

//
// --- Role-Based Middleware ---
//
// Designed to be USED *AFTER* the main AuthMiddleware(). It reads the
// 'userID' from the context, queries the DB for that user's role, and
// then enforces role permissions.
//

// QueryUserRole is a helper to get the user's role from the DB.
// It is also the role-lookup half of the admin-status endpoint.
func QueryUserRole(db *sql.DB, userID int64) (string, error) {
	var role string
	query := "SELECT role FROM users WHERE id = ?"
	err := db.QueryRow(query, userID).Scan(&role)
	if err != nil {
		return "", err
	}
	return role, nil
}

// AdminMiddleware takes the DB connection as an argument
// and *returns* the gin.HandlerFunc.
func AdminMiddleware(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get userID from AuthMiddleware
		userIDRaw, exists := c.Get("userID")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context (AuthMiddleware must run first)"})
			c.Abort()
			return
		}
		userID := userIDRaw.(int64)

		// 2. Query DB for user's role
		role, err := QueryUserRole(db, userID)
		if err != nil {
			if err == sql.ErrNoRows {
				// Generic message to avoid exposing user existence
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking role"})
			}
			c.Abort()
			return
		}

		// 3. Check permission
		if role != "administrator" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied: Admin role required"})
			c.Abort()
			return
		}

		// 4. Success! Add role to context and proceed.
		c.Set("userRole", role)
		c.Next()
	}
}
