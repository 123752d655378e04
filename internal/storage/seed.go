package storage

import (
	"time"

	"pocket-chat/internal/models"
)

// seedUsers returns the bootstrap user list written on first run.
func seedUsers() []models.User {
	now := time.Now()
	return []models.User{
		{
			ID:          "user1",
			Email:       "alice@example.com",
			DisplayName: "Alice Johnson",
			PhotoURL:    "https://images.pexels.com/photos/774909/pexels-photo-774909.jpeg?auto=compress&cs=tinysrgb&w=150&h=150&dpr=2",
			IsOnline:    true,
			LastSeen:    now,
			CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          "user2",
			Email:       "bob@example.com",
			DisplayName: "Bob Smith",
			PhotoURL:    "https://images.pexels.com/photos/220453/pexels-photo-220453.jpeg?auto=compress&cs=tinysrgb&w=150&h=150&dpr=2",
			IsOnline:    false,
			LastSeen:    now.Add(-30 * time.Minute),
			CreatedAt:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          "user3",
			Email:       "carol@example.com",
			DisplayName: "Carol Davis",
			PhotoURL:    "https://images.pexels.com/photos/415829/pexels-photo-415829.jpeg?auto=compress&cs=tinysrgb&w=150&h=150&dpr=2",
			IsOnline:    true,
			LastSeen:    now,
			CreatedAt:   time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          "user4",
			Email:       "david@example.com",
			DisplayName: "David Wilson",
			PhotoURL:    "https://images.pexels.com/photos/1222271/pexels-photo-1222271.jpeg?auto=compress&cs=tinysrgb&w=150&h=150&dpr=2",
			IsOnline:    false,
			LastSeen:    now.Add(-2 * time.Hour),
			CreatedAt:   time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC),
		},
	}
}
