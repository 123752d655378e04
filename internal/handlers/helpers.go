package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pocket-chat/internal/middleware"
	"pocket-chat/internal/models"
)

const requestIDContextKey = "request_id"

func requestIDFromContext(c *gin.Context) string {
	if val, ok := c.Get(requestIDContextKey); ok {
		if id, ok := val.(string); ok && id != "" {
			return id
		}
	}

	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(requestIDContextKey, requestID)
	return requestID
}

// sessionUser returns the user placed in the context by the session
// middleware.
func sessionUser(c *gin.Context) (models.User, bool) {
	val, ok := c.Get(middleware.UserContextKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := val.(models.User)
	return user, ok
}
