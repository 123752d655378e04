package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pocket-chat/internal/auth"
	"pocket-chat/internal/models"
)

// AuthService is the session orchestration surface the handler needs.
type AuthService interface {
	SignUp(ctx context.Context, email, displayName string) (models.User, error)
	SignIn(ctx context.Context, email string) (models.User, error)
	SignOut(ctx context.Context) error
}

// AuthHandler manages sign-up/sign-in/sign-out endpoints.
type AuthHandler struct {
	auth AuthService
}

// NewAuthHandler builds an AuthHandler.
func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// SignUp registers a new account and opens its session.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required,email"`
		DisplayName string `json:"display_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.SignUp(c.Request.Context(), req.Email, req.DisplayName)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not sign up"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// SignIn opens a session for an existing account.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.SignIn(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, auth.ErrUnknownUser) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no account for email"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not sign in"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// SignOut closes the current session.
func (h *AuthHandler) SignOut(c *gin.Context) {
	if err := h.auth.SignOut(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not sign out"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
