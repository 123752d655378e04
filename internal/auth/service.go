package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"pocket-chat/internal/events"
	"pocket-chat/internal/models"
	"pocket-chat/internal/storage"
)

var (
	ErrEmailTaken  = errors.New("email already registered")
	ErrUnknownUser = errors.New("no account for email")
)

// Service manages the local identity: the users collection plus the
// single-slot session record.
type Service struct {
	store     *storage.Service
	publisher events.Publisher
}

// NewService builds an auth Service. publisher may be nil.
func NewService(store *storage.Service, publisher events.Publisher) *Service {
	return &Service{store: store, publisher: publisher}
}

// SignUp registers a new user and opens a session for it. Email
// uniqueness is enforced by lookup before insert.
func (s *Service) SignUp(ctx context.Context, email, displayName string) (models.User, error) {
	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return models.User{}, ErrEmailTaken
	}

	now := time.Now()
	user := models.User{
		ID:          storage.GenerateID(),
		Email:       email,
		DisplayName: displayName,
		IsOnline:    true,
		LastSeen:    now,
		CreatedAt:   now,
	}
	if err := s.store.AddUser(ctx, user); err != nil {
		return models.User{}, fmt.Errorf("sign up: %w", err)
	}
	if err := s.store.SetCurrentUser(ctx, user); err != nil {
		return models.User{}, fmt.Errorf("open session: %w", err)
	}

	if s.publisher != nil {
		envelope := events.NewEnvelope("user_signed_up", map[string]any{"user_id": user.ID})
		if err := s.publisher.Publish(ctx, events.KeyUserSignedUp, envelope); err != nil {
			log.Printf("publish %s: %v", events.KeyUserSignedUp, err)
		}
	}
	return user, nil
}

// SignIn opens a session for an existing user and marks it online.
func (s *Service) SignIn(ctx context.Context, email string) (models.User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return models.User{}, ErrUnknownUser
	}

	now := time.Now()
	online := true
	if err := s.store.UpdateUser(ctx, user.ID, models.UserPatch{IsOnline: &online, LastSeen: &now}); err != nil {
		return models.User{}, fmt.Errorf("mark online: %w", err)
	}
	user.IsOnline = true
	user.LastSeen = now
	if err := s.store.SetCurrentUser(ctx, user); err != nil {
		return models.User{}, fmt.Errorf("open session: %w", err)
	}
	return user, nil
}

// SignOut marks the current user offline and clears the session. Signing
// out without a session is not an error.
func (s *Service) SignOut(ctx context.Context) error {
	user, err := s.store.GetCurrentUser(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNoSession) {
			return nil
		}
		return err
	}

	now := time.Now()
	offline := false
	if err := s.store.UpdateUser(ctx, user.ID, models.UserPatch{IsOnline: &offline, LastSeen: &now}); err != nil {
		return fmt.Errorf("mark offline: %w", err)
	}
	return s.store.ClearCurrentUser(ctx)
}

// CurrentUser returns the session record, or storage.ErrNoSession.
func (s *Service) CurrentUser(ctx context.Context) (models.User, error) {
	return s.store.GetCurrentUser(ctx)
}
