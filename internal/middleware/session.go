package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"tourism_system/internal/domain"
	"tourism_system/internal/utils"

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// SessionCookie is the cookie carrying the session token for page flows.
// API clients may send the same token as a bearer Authorization header.
const SessionCookie = "session"

const currentUserKey = "currentUser"

// LookupSession resolves the request's session token to a user. Returns nil
// when there is no token, the token is invalid or expired, the session was
// revoked by logout, or the user row is gone.
func LookupSession(c *gin.Context, db *gorm.DB, rdb *redis.Client, secret string) *domain.User {
	tokenStr, err := c.Cookie(SessionCookie)
	if err != nil || tokenStr == "" {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return nil
		}
		tokenStr = strings.TrimPrefix(authHeader, "Bearer ")
	}
	claims, err := utils.ParseSessionToken(tokenStr, secret)
	if err != nil {
		return nil
	}
	// Logout deletes the Redis record, so a valid signature alone is not enough
	live, err := utils.CacheHas(c.Request.Context(), rdb, utils.SessionKeyPrefix+claims.ID)
	if err != nil || !live {
		return nil
	}
	// Re-read the user row so role changes take effect immediately
	var user domain.User
	if err := db.First(&user, claims.UserID).Error; err != nil {
		return nil
	}
	return &user
}

// SessionAuth requires an authenticated session. Browser requests are
// redirected to the login page; bearer-token clients get 401 JSON.
func SessionAuth(db *gorm.DB, rdb *redis.Client, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := LookupSession(c, db, rdb, secret)
		if user == nil {
			if strings.HasPrefix(c.GetHeader("Authorization"), "Bearer ") {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
				return
			}
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user stashed by SessionAuth, or nil.
func CurrentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.User)
	return user
}
