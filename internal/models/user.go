package models

import "time"

// User is a chat participant record.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	PhotoURL    string    `json:"photoURL,omitempty"`
	IsOnline    bool      `json:"isOnline"`
	LastSeen    time.Time `json:"lastSeen"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UserPatch carries a partial update for a User. Nil fields are left
// untouched.
type UserPatch struct {
	DisplayName *string
	PhotoURL    *string
	IsOnline    *bool
	LastSeen    *time.Time
}
