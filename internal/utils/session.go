package utils

import (
	"crypto/rand" // Random session IDs
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library
	"tourism_system/internal/domain"
)

// SessionTTL bounds both the token lifetime and the Redis session record.
const SessionTTL = 24 * time.Hour

// SessionKeyPrefix namespaces session records in Redis.
const SessionKeyPrefix = "session:"

// SessionClaims carries the authenticated user through the session token.
type SessionClaims struct {
	UserID               uint   `json:"user_id"`
	Username             string `json:"username"`
	Role                 string `json:"role"`
	jwt.RegisteredClaims        // Standard claims; ID holds the revocable session id
}

// GenerateSessionToken mints a signed session token for a user. The returned
// session id must be recorded in Redis; a token whose id is absent there is
// treated as logged out.
func GenerateSessionToken(user *domain.User, secret string) (token string, sessionID string, err error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	sessionID = hex.EncodeToString(buf)
	claims := SessionClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(SessionTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err = t.SignedString([]byte(secret))
	return token, sessionID, err
}

// ParseSessionToken parses and validates a session token string
func ParseSessionToken(tokenStr, secret string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}
