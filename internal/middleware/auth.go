package middleware

import (
	"net/http"
	"strings"

	"github.com/dreamvault/dreamvault-golang/internal/auth"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware creates a gin.HandlerFunc that acts as our "security guard".
// It validates the Bearer token and puts the user ID into the gin context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. --- Get Authorization Header ---
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format (must be Bearer)"})
			c.Abort()
			return
		}
		tokenString := parts[1]

		// 2. --- Validate Token ---
		userID, err := auth.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		// 3. --- Success ---
		c.Set("userID", userID)
		c.Next()
	}
}
