package auth

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// jwtSecretKey signs our tokens. We read it from the environment,
// falling back to a development-only key so local setups still work.
var jwtSecretKey = func() []byte {
	if key := os.Getenv("JWT_SECRET"); key != "" {
		return []byte(key)
	}
	return []byte("DEV_ONLY_SECRET_REPLACE_IN_PRODUCTION")
}()

// GenerateToken creates a new JWT for a given user ID.
func GenerateToken(userID int64) (string, error) {
	// 1. Create the claims. "sub" carries the user ID, and the
	// token expires in 72 hours.
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(time.Hour * 72).Unix(),
		"iat": time.Now().Unix(),
	}

	// 2. Sign with HS256 and our secret key.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtSecretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateToken parses and validates a JWT token string.
// It returns the user ID (subject) if the token is valid.
func ValidateToken(tokenString string) (int64, error) {
	// 1. Parse the token string.
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// 2. Check the signing method matches what we issue.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecretKey, nil
	})
	if err != nil {
		return 0, err // Token parsing failed (e.g., expired, malformed)
	}

	// 3. Check validity and pull the user ID ("sub") out of the claims.
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		userIDFloat, ok := claims["sub"].(float64)
		if !ok {
			return 0, errors.New("invalid subject claim")
		}
		// JSON numbers arrive as float64; convert back to int64.
		return int64(userIDFloat), nil
	}

	return 0, errors.New("invalid token")
}
