package models

import "time"

// MessageType discriminates text and image messages.
type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
)

// Message is one entry in a chat's append-only log. Exactly one of
// Text/ImageURL is populated, consistent with Type.
type Message struct {
	ID         string      `json:"id"`
	Text       string      `json:"text,omitempty"`
	ImageURL   string      `json:"imageUrl,omitempty"`
	SenderID   string      `json:"senderId"`
	ReceiverID string      `json:"receiverId"`
	ChatID     string      `json:"chatId"`
	Timestamp  time.Time   `json:"timestamp"`
	Type       MessageType `json:"type"`
}

// ChatEvent is broadcasted through websockets.
type ChatEvent struct {
	Type    string   `json:"type"`
	ChatID  string   `json:"chat_id,omitempty"`
	Message *Message `json:"message,omitempty"`
}
