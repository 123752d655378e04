package models

import "time"

// Chat represents a private chat between exactly two users. Participant
// order carries no meaning; at most one chat exists per unordered pair.
type Chat struct {
	ID                   string            `json:"id"`
	Participants         []string          `json:"participants"`
	LastMessage          *Message          `json:"lastMessage,omitempty"`
	LastMessageTimestamp time.Time         `json:"lastMessageTimestamp"`
	ParticipantNames     map[string]string `json:"participantNames"`
	ParticipantPhotos    map[string]string `json:"participantPhotos"`
}

// HasParticipant reports whether userID is one of the two participants.
func (c Chat) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// OtherParticipant returns the participant that is not userID, or an
// empty string when userID is not in the chat.
func (c Chat) OtherParticipant(userID string) string {
	if !c.HasParticipant(userID) {
		return ""
	}
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}

// ChatPatch carries a partial update for a Chat. Nil fields are left
// untouched.
type ChatPatch struct {
	LastMessage          *Message
	LastMessageTimestamp *time.Time
	ParticipantNames     map[string]string
	ParticipantPhotos    map[string]string
}
