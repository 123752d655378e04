package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"pocket-chat/internal/events"
	"pocket-chat/internal/models"
	"pocket-chat/internal/storage"
	"pocket-chat/internal/ws"
)

var (
	ErrSelfChat           = errors.New("cannot create chat with self")
	ErrEmptyMessage       = errors.New("message has neither text nor image")
	ErrConflictingContent = errors.New("message has both text and image")
)

// Options tune chat orchestration behavior.
type Options struct {
	// AutoReply simulates the peer answering greetings, for demo runs
	// without a second device.
	AutoReply      bool
	AutoReplyDelay time.Duration
}

// Service orchestrates chat and message mutations over the storage
// service, broadcasting to the websocket hub and publishing domain
// events after successful writes.
type Service struct {
	store     *storage.Service
	hub       *ws.Hub
	publisher events.Publisher
	opts      Options

	// Serializes find-or-create so concurrent StartChat calls for the
	// same pair cannot both miss the lookup and write duplicate chats.
	startMu sync.Mutex
}

// NewService builds a chat Service. hub and publisher may be nil.
func NewService(store *storage.Service, hub *ws.Hub, publisher events.Publisher, opts Options) *Service {
	if opts.AutoReplyDelay <= 0 {
		opts.AutoReplyDelay = 2 * time.Second
	}
	return &Service{store: store, hub: hub, publisher: publisher, opts: opts}
}

// StartChat returns the chat between the two users, creating it on first
// contact. Idempotent: the participant pair is unordered and at most one
// chat exists per pair.
func (s *Service) StartChat(ctx context.Context, userID, friendID string) (string, error) {
	if userID == friendID {
		return "", ErrSelfChat
	}

	s.startMu.Lock()
	defer s.startMu.Unlock()

	if existing, err := s.store.FindChatByParticipants(ctx, userID, friendID); err == nil {
		return existing.ID, nil
	}

	names := make(map[string]string, 2)
	photos := make(map[string]string, 2)
	byID := make(map[string]models.User)
	for _, user := range s.store.GetUsers(ctx) {
		byID[user.ID] = user
	}
	for _, id := range []string{userID, friendID} {
		if user, ok := byID[id]; ok {
			names[id] = user.DisplayName
			photos[id] = user.PhotoURL
		} else {
			names[id] = "Unknown"
			photos[id] = ""
		}
	}

	chat := models.Chat{
		ID:                   storage.GenerateID(),
		Participants:         []string{userID, friendID},
		LastMessageTimestamp: time.Now(),
		ParticipantNames:     names,
		ParticipantPhotos:    photos,
	}
	if err := s.store.AddChat(ctx, chat); err != nil {
		return "", fmt.Errorf("create chat: %w", err)
	}

	if s.hub != nil {
		s.hub.BroadcastChatCreated(chat.ID)
	}
	s.publish(ctx, events.KeyChatCreated, "chat_created", map[string]any{
		"chat_id":      chat.ID,
		"participants": chat.Participants,
	})
	return chat.ID, nil
}

// SendMessage appends a message to the chat's log and moves the chat's
// last-message pointer. Exactly one of text/imageURL must be supplied.
// When the chat update fails the already-persisted message stays valid;
// the stale pointer is corrected by the next successful send.
func (s *Service) SendMessage(ctx context.Context, chatID, senderID, receiverID, text, imageURL string) (models.Message, error) {
	msgType, err := contentType(text, imageURL)
	if err != nil {
		return models.Message{}, err
	}

	message := models.Message{
		ID:         storage.GenerateID(),
		Text:       text,
		ImageURL:   imageURL,
		SenderID:   senderID,
		ReceiverID: receiverID,
		ChatID:     chatID,
		Timestamp:  time.Now(),
		Type:       msgType,
	}
	if err := s.store.AddMessage(ctx, message); err != nil {
		return models.Message{}, fmt.Errorf("persist message: %w", err)
	}
	if err := s.store.UpdateChat(ctx, chatID, models.ChatPatch{
		LastMessage:          &message,
		LastMessageTimestamp: &message.Timestamp,
	}); err != nil {
		return models.Message{}, fmt.Errorf("update chat: %w", err)
	}

	if s.hub != nil {
		s.hub.BroadcastMessage(chatID, message)
	}
	s.publish(ctx, events.KeyMessageSent, "message_sent", map[string]any{
		"chat_id":    chatID,
		"message_id": message.ID,
		"sender_id":  senderID,
		"type":       message.Type,
	})

	if s.opts.AutoReply && msgType == models.MessageTypeText && strings.Contains(strings.ToLower(text), "hello") {
		go s.autoReply(chatID, receiverID, senderID)
	}
	return message, nil
}

func contentType(text, imageURL string) (models.MessageType, error) {
	switch {
	case text == "" && imageURL == "":
		return "", ErrEmptyMessage
	case text != "" && imageURL != "":
		return "", ErrConflictingContent
	case imageURL != "":
		return models.MessageTypeImage, nil
	default:
		return models.MessageTypeText, nil
	}
}

// autoReply synthesizes a delayed greeting from the receiver. Simulated
// peer behavior, best effort only.
func (s *Service) autoReply(chatID, senderID, receiverID string) {
	time.Sleep(s.opts.AutoReplyDelay)
	ctx := context.Background()

	reply := models.Message{
		ID:         storage.GenerateID(),
		Text:       "Hello! How are you doing?",
		SenderID:   senderID,
		ReceiverID: receiverID,
		ChatID:     chatID,
		Timestamp:  time.Now(),
		Type:       models.MessageTypeText,
	}
	if err := s.store.AddMessage(ctx, reply); err != nil {
		log.Printf("auto reply: persist message: %v", err)
		return
	}
	if err := s.store.UpdateChat(ctx, chatID, models.ChatPatch{
		LastMessage:          &reply,
		LastMessageTimestamp: &reply.Timestamp,
	}); err != nil {
		log.Printf("auto reply: update chat: %v", err)
		return
	}
	if s.hub != nil {
		s.hub.BroadcastMessage(chatID, reply)
	}
}

func (s *Service) publish(ctx context.Context, routingKey, eventType string, payload map[string]any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, routingKey, events.NewEnvelope(eventType, payload)); err != nil {
		log.Printf("publish %s: %v", routingKey, err)
	}
}
