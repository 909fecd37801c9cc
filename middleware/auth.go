package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"CollabProject/global"
	"CollabProject/tools/security"
)

// CtxUserIDKey is where Auth stores the verified user ID.
const CtxUserIDKey = "userId"

// Auth verifies a Bearer token and stores the user ID in the context.
// Unlike the realtime channel, the REST surface rejects missing/invalid
// credentials outright.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader("Authorization"))
		if strings.HasPrefix(strings.ToLower(token), "bearer ") {
			token = strings.TrimSpace(token[len("bearer "):])
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
			return
		}
		userID, err := security.Verify(security.DefaultOptions(global.GetJwtSecret()), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		c.Set(CtxUserIDKey, userID)
		c.Next()
	}
}

// UserID reads the verified user ID set by Auth.
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserIDKey)
}
