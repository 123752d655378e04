package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pocket-chat/internal/models"
)

// ChatServiceMock mocks the chat mutation surface.
type ChatServiceMock struct {
	mock.Mock
}

func (m *ChatServiceMock) StartChat(ctx context.Context, userID, friendID string) (string, error) {
	args := m.Called(ctx, userID, friendID)
	return args.String(0), args.Error(1)
}

func (m *ChatServiceMock) SendMessage(ctx context.Context, chatID, senderID, receiverID, text, imageURL string) (models.Message, error) {
	args := m.Called(ctx, chatID, senderID, receiverID, text, imageURL)
	return args.Get(0).(models.Message), args.Error(1)
}

// AuthServiceMock mocks the session orchestration surface.
type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) SignUp(ctx context.Context, email, displayName string) (models.User, error) {
	args := m.Called(ctx, email, displayName)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *AuthServiceMock) SignIn(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *AuthServiceMock) SignOut(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
