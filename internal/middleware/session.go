package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pocket-chat/internal/storage"
)

// UserContextKey is where the session middleware stores the signed-in user.
const UserContextKey = "user"

// SessionMiddleware resolves the signed-in identity from the storage
// session slot and rejects requests without one.
func SessionMiddleware(store *storage.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := store.GetCurrentUser(c.Request.Context())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
			return
		}

		c.Set(UserContextKey, user)
		c.Next()
	}
}
