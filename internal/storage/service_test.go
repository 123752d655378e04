package storage

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pocket-chat/internal/kvstore"
	"pocket-chat/internal/models"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(kvstore.NewMemory())
	require.NoError(t, svc.Initialize(context.Background()))
	return svc
}

func TestInitializeSeedsOnce(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	users := svc.GetUsers(ctx)
	require.Len(t, users, 4)
	require.Empty(t, svc.GetMessages(ctx))
	require.Empty(t, svc.GetChats(ctx))

	extra := models.User{ID: "user9", Email: "eve@example.com", DisplayName: "Eve"}
	require.NoError(t, svc.AddUser(ctx, extra))

	// A second initialize must not wipe existing data.
	require.NoError(t, svc.Initialize(ctx))
	require.Len(t, svc.GetUsers(ctx), 5)
}

func TestUpdateUserMergesPatch(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	offline := false
	seen := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, svc.UpdateUser(ctx, "user1", models.UserPatch{IsOnline: &offline, LastSeen: &seen}))

	user, err := svc.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.False(t, user.IsOnline)
	require.True(t, seen.Equal(user.LastSeen))
	// Untouched fields survive.
	require.Equal(t, "Alice Johnson", user.DisplayName)
}

func TestUpdateUserUnknownID(t *testing.T) {
	svc := newTestService(t)
	online := true
	err := svc.UpdateUser(context.Background(), "ghost", models.UserPatch{IsOnline: &online})
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetUserByEmailMissing(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.GetUserByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestMessagesByChatID(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	for _, m := range []models.Message{
		{ID: "m1", ChatID: "c1", Text: "a", Type: models.MessageTypeText},
		{ID: "m2", ChatID: "c2", Text: "b", Type: models.MessageTypeText},
		{ID: "m3", ChatID: "c1", Text: "c", Type: models.MessageTypeText},
	} {
		require.NoError(t, svc.AddMessage(ctx, m))
	}

	messages := svc.GetMessagesByChatID(ctx, "c1")
	require.Len(t, messages, 2)
	require.Equal(t, "m1", messages[0].ID)
	require.Equal(t, "m3", messages[1].ID)
	require.Empty(t, svc.GetMessagesByChatID(ctx, "c3"))
}

func TestFindChatByParticipantsUnordered(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	chat := models.Chat{ID: "c1", Participants: []string{"user1", "user2"}}
	require.NoError(t, svc.AddChat(ctx, chat))

	found, err := svc.FindChatByParticipants(ctx, "user1", "user2")
	require.NoError(t, err)
	require.Equal(t, "c1", found.ID)

	reversed, err := svc.FindChatByParticipants(ctx, "user2", "user1")
	require.NoError(t, err)
	require.Equal(t, "c1", reversed.ID)

	_, err = svc.FindChatByParticipants(ctx, "user1", "user3")
	require.ErrorIs(t, err, ErrChatNotFound)
}

func TestUpdateChatLastMessage(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	require.NoError(t, svc.AddChat(ctx, models.Chat{ID: "c1", Participants: []string{"user1", "user2"}}))

	msg := models.Message{ID: "m1", ChatID: "c1", Text: "hi", SenderID: "user1", ReceiverID: "user2", Type: models.MessageTypeText, Timestamp: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, svc.UpdateChat(ctx, "c1", models.ChatPatch{
		LastMessage:          &msg,
		LastMessageTimestamp: &msg.Timestamp,
	}))

	chats := svc.GetChats(ctx)
	require.Len(t, chats, 1)
	require.NotNil(t, chats[0].LastMessage)
	require.Equal(t, "hi", chats[0].LastMessage.Text)
	require.True(t, msg.Timestamp.Equal(chats[0].LastMessageTimestamp))

	require.ErrorIs(t, svc.UpdateChat(ctx, "nope", models.ChatPatch{}), ErrChatNotFound)
}

func TestGetChatsByUserID(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	require.NoError(t, svc.AddChat(ctx, models.Chat{ID: "c1", Participants: []string{"user1", "user2"}}))
	require.NoError(t, svc.AddChat(ctx, models.Chat{ID: "c2", Participants: []string{"user2", "user3"}}))

	require.Len(t, svc.GetChatsByUserID(ctx, "user2"), 2)
	require.Len(t, svc.GetChatsByUserID(ctx, "user1"), 1)
	require.Empty(t, svc.GetChatsByUserID(ctx, "user4"))
}

func TestSessionSlotLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.GetCurrentUser(ctx)
	require.ErrorIs(t, err, ErrNoSession)

	me := models.User{ID: "user1", Email: "alice@example.com", DisplayName: "Alice Johnson"}
	require.NoError(t, svc.SetCurrentUser(ctx, me))

	got, err := svc.GetCurrentUser(ctx)
	require.NoError(t, err)
	require.Equal(t, me.ID, got.ID)

	require.NoError(t, svc.ClearCurrentUser(ctx))
	_, err = svc.GetCurrentUser(ctx)
	require.ErrorIs(t, err, ErrNoSession)
}

func TestCorruptCollectionReadsEmpty(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	svc := NewService(store)
	require.NoError(t, svc.Initialize(ctx))

	require.NoError(t, store.Set(ctx, "messages", []byte(`{"garbage`)))
	require.Empty(t, svc.GetMessages(ctx))

	// Other collections stay readable.
	require.Len(t, svc.GetUsers(ctx), 4)
}

func TestInterleavedAddsBothSurvive(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	var wg sync.WaitGroup
	for _, id := range []string{"m1", "m2"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_ = svc.AddMessage(ctx, models.Message{ID: id, ChatID: "c1", Text: id, Type: models.MessageTypeText})
		}(id)
	}
	wg.Wait()

	require.Len(t, svc.GetMessages(ctx), 2)
}

func TestGenerateIDUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		id := GenerateID()
		require.NotEmpty(t, id)
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}
