package watch

import (
	"sort"

	"pocket-chat/internal/models"
)

// fallbackName is shown when a participant's user record is missing.
const fallbackName = "Unknown"

// ProjectUsers returns all users except the caller's own record. An
// empty currentUserID keeps every record.
func ProjectUsers(users []models.User, currentUserID string) []models.User {
	if currentUserID == "" {
		return users
	}
	out := make([]models.User, 0, len(users))
	for _, user := range users {
		if user.ID != currentUserID {
			out = append(out, user)
		}
	}
	return out
}

// ProjectChats returns the chats that include userID, newest first by
// last-message timestamp. Participant names and photos are recomputed
// from the live users collection; the copies denormalized at write time
// are never trusted.
func ProjectChats(chats []models.Chat, users []models.User, userID string) []models.Chat {
	byID := make(map[string]models.User, len(users))
	for _, user := range users {
		byID[user.ID] = user
	}

	out := make([]models.Chat, 0, len(chats))
	for _, chat := range chats {
		if !chat.HasParticipant(userID) {
			continue
		}
		names := make(map[string]string, len(chat.Participants))
		photos := make(map[string]string, len(chat.Participants))
		for _, p := range chat.Participants {
			if user, ok := byID[p]; ok {
				names[p] = user.DisplayName
				photos[p] = user.PhotoURL
			} else {
				names[p] = fallbackName
				photos[p] = ""
			}
		}
		chat.ParticipantNames = names
		chat.ParticipantPhotos = photos
		out = append(out, chat)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastMessageTimestamp.After(out[j].LastMessageTimestamp)
	})
	return out
}

// ProjectMessages returns one chat's messages newest first, for
// inverted-list display.
func ProjectMessages(messages []models.Message, chatID string) []models.Message {
	out := make([]models.Message, 0, len(messages))
	for _, message := range messages {
		if message.ChatID == chatID {
			out = append(out, message)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}
