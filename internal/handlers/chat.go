package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pocket-chat/internal/chat"
	"pocket-chat/internal/models"
	"pocket-chat/internal/storage"
	"pocket-chat/internal/watch"
)

// ChatService is the mutation surface the handler needs.
type ChatService interface {
	StartChat(ctx context.Context, userID, friendID string) (string, error)
	SendMessage(ctx context.Context, chatID, senderID, receiverID, text, imageURL string) (models.Message, error)
}

// Projections is the read surface for list endpoints.
type Projections interface {
	GetUsers(ctx context.Context) []models.User
	GetChats(ctx context.Context) []models.Chat
	GetChatsByUserID(ctx context.Context, userID string) []models.Chat
	GetMessagesByChatID(ctx context.Context, chatID string) []models.Message
}

// ChatHandler manages chat endpoints.
type ChatHandler struct {
	chats ChatService
	store Projections
}

// NewChatHandler builds a ChatHandler.
func NewChatHandler(chats ChatService, store Projections) *ChatHandler {
	return &ChatHandler{chats: chats, store: store}
}

type chatResponse struct {
	ChatID               string          `json:"chat_id"`
	FriendID             string          `json:"friend_id"`
	FriendName           string          `json:"friend_name"`
	FriendPhoto          string          `json:"friend_photo,omitempty"`
	LastMessage          *models.Message `json:"last_message,omitempty"`
	LastMessageTimestamp time.Time       `json:"last_message_timestamp"`
}

// ListChats returns the signed-in user's chats, newest activity first,
// with the other participant's metadata resolved at read time.
func (h *ChatHandler) ListChats(c *gin.Context) {
	user, ok := sessionUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}

	ctx := c.Request.Context()
	projected := watch.ProjectChats(h.store.GetChats(ctx), h.store.GetUsers(ctx), user.ID)

	responses := make([]chatResponse, 0, len(projected))
	for _, ch := range projected {
		friendID := ch.OtherParticipant(user.ID)
		responses = append(responses, chatResponse{
			ChatID:               ch.ID,
			FriendID:             friendID,
			FriendName:           ch.ParticipantNames[friendID],
			FriendPhoto:          ch.ParticipantPhotos[friendID],
			LastMessage:          ch.LastMessage,
			LastMessageTimestamp: ch.LastMessageTimestamp,
		})
	}

	c.JSON(http.StatusOK, gin.H{"chats": responses})
}

// StartChat creates or returns the chat with another user.
func (h *ChatHandler) StartChat(c *gin.Context) {
	user, ok := sessionUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}

	var req struct {
		FriendID string `json:"friend_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chatID, err := h.chats.StartChat(c.Request.Context(), user.ID, req.FriendID)
	if err != nil {
		if errors.Is(err, chat.ErrSelfChat) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot chat with yourself"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create chat"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"chat_id": chatID})
}

// GetChatMessages returns one chat's messages, newest first.
func (h *ChatHandler) GetChatMessages(c *gin.Context) {
	user, ok := sessionUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}
	chatID := c.Param("chat_id")

	ctx := c.Request.Context()
	if _, ok := h.memberOf(ctx, user.ID, chatID); !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a chat member"})
		return
	}

	messages := watch.ProjectMessages(h.store.GetMessagesByChatID(ctx, chatID), chatID)
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// PostChatMessage sends a text or image message to a chat. The receiver
// is the chat's other participant.
func (h *ChatHandler) PostChatMessage(c *gin.Context) {
	user, ok := sessionUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}
	chatID := c.Param("chat_id")

	var req struct {
		Text     string `json:"text"`
		ImageURL string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	member, ok := h.memberOf(ctx, user.ID, chatID)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a chat member"})
		return
	}

	message, err := h.chats.SendMessage(ctx, chatID, user.ID, member.OtherParticipant(user.ID), req.Text, req.ImageURL)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyMessage), errors.Is(err, chat.ErrConflictingContent):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, storage.ErrChatNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
		default:
			log.Printf("send message request_id=%s: %v", requestIDFromContext(c), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not send message"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}

func (h *ChatHandler) memberOf(ctx context.Context, userID, chatID string) (models.Chat, bool) {
	for _, ch := range h.store.GetChatsByUserID(ctx, userID) {
		if ch.ID == chatID {
			return ch, true
		}
	}
	return models.Chat{}, false
}
