package ws

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"pocket-chat/internal/models"
	"pocket-chat/internal/observability"
	"pocket-chat/internal/storage"
	"pocket-chat/internal/watch"
)

// SyncEvent is one snapshot frame on the sync stream.
type SyncEvent struct {
	Type     string           `json:"type"`
	ChatID   string           `json:"chat_id,omitempty"`
	Users    []models.User    `json:"users,omitempty"`
	Chats    []models.Chat    `json:"chats,omitempty"`
	Messages []models.Message `json:"messages,omitempty"`
}

// SyncSocketHandler streams the signed-in user's projections over a
// websocket. Each projection is re-read on its own poll interval and a
// frame is sent only when the snapshot changed. With a chat_id query
// parameter the stream also carries that chat's message log.
type SyncSocketHandler struct {
	store            *storage.Service
	usersInterval    time.Duration
	chatsInterval    time.Duration
	messagesInterval time.Duration
}

// NewSyncSocketHandler constructs a SyncSocketHandler. Non-positive
// intervals fall back to the watch package defaults.
func NewSyncSocketHandler(store *storage.Service, usersInterval, chatsInterval, messagesInterval time.Duration) *SyncSocketHandler {
	return &SyncSocketHandler{
		store:            store,
		usersInterval:    usersInterval,
		chatsInterval:    chatsInterval,
		messagesInterval: messagesInterval,
	}
}

// Handle upgrades the connection and streams snapshot frames until the
// client goes away.
func (h *SyncSocketHandler) Handle(c *gin.Context) {
	ctx := c.Request.Context()

	user, err := h.store.GetCurrentUser(ctx)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}

	chatID := c.Query("chat_id")
	if chatID != "" {
		member := false
		for _, chat := range h.store.GetChatsByUserID(ctx, user.ID) {
			if chat.ID == chatID {
				member = true
				break
			}
		}
		if !member {
			c.JSON(http.StatusForbidden, gin.H{"error": "not authorized for chat"})
			return
		}
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	observability.IncWSActive("sync")
	observability.IncWSEvent("sync", "ws_connect")

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	go h.stream(conn, user.ID, chatID, closed)
}

func (h *SyncSocketHandler) stream(conn *websocket.Conn, userID, chatID string, closed <-chan struct{}) {
	users := watch.Users(h.store, userID, h.usersInterval)
	chats := watch.Chats(h.store, userID, h.chatsInterval)
	var messages *watch.Watcher[models.Message]
	if chatID != "" {
		messages = watch.Messages(h.store, chatID, h.messagesInterval)
	}

	defer func() {
		users.Stop()
		chats.Stop()
		if messages != nil {
			messages.Stop()
		}
		observability.DecWSActive("sync")
		observability.IncWSEvent("sync", "ws_disconnect")
		conn.Close()
	}()

	// Snapshot reads are cheap; one short tick drives every projection
	// and the per-watcher intervals bound how often snapshots move.
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	var lastUsers, lastChats, lastMessages []byte
	for {
		select {
		case <-closed:
			return
		case <-ticker.C:
		}

		if frame, ok := nextFrame(users, &lastUsers, SyncEvent{Type: "users"}, func(e *SyncEvent, data []models.User) { e.Users = data }); ok {
			if err := conn.WriteJSON(frame); err != nil {
				return
			}
			observability.IncWSEvent("sync", "users_snapshot")
		}
		if frame, ok := nextFrame(chats, &lastChats, SyncEvent{Type: "chats"}, func(e *SyncEvent, data []models.Chat) { e.Chats = data }); ok {
			if err := conn.WriteJSON(frame); err != nil {
				return
			}
			observability.IncWSEvent("sync", "chats_snapshot")
		}
		if messages != nil {
			if frame, ok := nextFrame(messages, &lastMessages, SyncEvent{Type: "messages", ChatID: chatID}, func(e *SyncEvent, data []models.Message) { e.Messages = data }); ok {
				if err := conn.WriteJSON(frame); err != nil {
					return
				}
				observability.IncWSEvent("sync", "messages_snapshot")
			}
		}
	}
}

// nextFrame returns a populated event when the watcher has finished its
// initial load and the snapshot differs from the last one sent.
func nextFrame[T any](w *watch.Watcher[T], last *[]byte, event SyncEvent, fill func(*SyncEvent, []T)) (SyncEvent, bool) {
	data, loading := w.Snapshot()
	if loading {
		return SyncEvent{}, false
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return SyncEvent{}, false
	}
	if bytes.Equal(encoded, *last) {
		return SyncEvent{}, false
	}
	*last = encoded
	fill(&event, data)
	return event, true
}
