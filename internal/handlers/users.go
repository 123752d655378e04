package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pocket-chat/internal/watch"
)

// UsersHandler serves the contact list.
type UsersHandler struct {
	store Projections
}

// NewUsersHandler builds a UsersHandler.
func NewUsersHandler(store Projections) *UsersHandler {
	return &UsersHandler{store: store}
}

// ListUsers returns every user except the signed-in one.
func (h *UsersHandler) ListUsers(c *gin.Context) {
	user, ok := sessionUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}

	users := watch.ProjectUsers(h.store.GetUsers(c.Request.Context()), user.ID)
	c.JSON(http.StatusOK, gin.H{"users": users})
}
