package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"pocket-chat/internal/kvstore"
	"pocket-chat/internal/storage"
)

func newTestService(t *testing.T) (*Service, *storage.Service) {
	t.Helper()
	store := storage.NewService(kvstore.NewMemory())
	require.NoError(t, store.Initialize(context.Background()))
	return NewService(store, nil), store
}

func TestSignUpOpensSession(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	user, err := svc.SignUp(ctx, "eve@example.com", "Eve Adams")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.True(t, user.IsOnline)

	current, err := store.GetCurrentUser(ctx)
	require.NoError(t, err)
	require.Equal(t, user.ID, current.ID)

	require.Len(t, store.GetUsers(ctx), 5)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.SignUp(context.Background(), "alice@example.com", "Alice Again")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignInMarksOnline(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	// bob is seeded offline.
	user, err := svc.SignIn(ctx, "bob@example.com")
	require.NoError(t, err)
	require.True(t, user.IsOnline)

	stored, err := store.GetUserByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	require.True(t, stored.IsOnline)

	current, err := store.GetCurrentUser(ctx)
	require.NoError(t, err)
	require.Equal(t, user.ID, current.ID)
}

func TestSignInUnknownEmail(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.SignIn(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, ErrUnknownUser)
}

func TestSignOutClearsSessionAndMarksOffline(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	_, err := svc.SignIn(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NoError(t, svc.SignOut(ctx))

	_, err = store.GetCurrentUser(ctx)
	require.ErrorIs(t, err, storage.ErrNoSession)

	stored, err := store.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.False(t, stored.IsOnline)
}

func TestSignOutWithoutSession(t *testing.T) {
	svc, _ := newTestService(t)
	require.NoError(t, svc.SignOut(context.Background()))
}
