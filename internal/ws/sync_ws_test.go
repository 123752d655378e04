package ws

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocket-chat/internal/kvstore"
	"pocket-chat/internal/models"
	"pocket-chat/internal/storage"
	"pocket-chat/internal/watch"
)

func TestNextFrameSkipsWhileLoading(t *testing.T) {
	svc := storage.NewService(kvstore.NewMemory())
	require.NoError(t, svc.Initialize(context.Background()))

	w := watch.Users(svc, "user1", time.Hour)
	defer w.Stop()

	require.Eventually(t, func() bool {
		_, loading := w.Snapshot()
		return !loading
	}, time.Second, 10*time.Millisecond)

	var last []byte
	frame, ok := nextFrame(w, &last, SyncEvent{Type: "users"}, func(e *SyncEvent, data []models.User) { e.Users = data })
	require.True(t, ok)
	assert.Equal(t, "users", frame.Type)
	assert.Len(t, frame.Users, 3)
}

func TestNextFrameSuppressesUnchangedSnapshot(t *testing.T) {
	svc := storage.NewService(kvstore.NewMemory())
	require.NoError(t, svc.Initialize(context.Background()))

	w := watch.Users(svc, "user1", time.Hour)
	defer w.Stop()

	require.Eventually(t, func() bool {
		_, loading := w.Snapshot()
		return !loading
	}, time.Second, 10*time.Millisecond)

	var last []byte
	_, ok := nextFrame(w, &last, SyncEvent{Type: "users"}, func(e *SyncEvent, data []models.User) { e.Users = data })
	require.True(t, ok)

	_, ok = nextFrame(w, &last, SyncEvent{Type: "users"}, func(e *SyncEvent, data []models.User) { e.Users = data })
	assert.False(t, ok)
}

func TestNextFrameEmitsOnChange(t *testing.T) {
	svc := storage.NewService(kvstore.NewMemory())
	ctx := context.Background()
	require.NoError(t, svc.Initialize(ctx))

	w := watch.Users(svc, "user1", 20*time.Millisecond)
	defer w.Stop()

	require.Eventually(t, func() bool {
		_, loading := w.Snapshot()
		return !loading
	}, time.Second, 10*time.Millisecond)

	var last []byte
	_, ok := nextFrame(w, &last, SyncEvent{Type: "users"}, func(e *SyncEvent, data []models.User) { e.Users = data })
	require.True(t, ok)

	require.NoError(t, svc.AddUser(ctx, models.User{ID: "user9", Email: "eve@example.com", DisplayName: "Eve"}))

	require.Eventually(t, func() bool {
		frame, changed := nextFrame(w, &last, SyncEvent{Type: "users"}, func(e *SyncEvent, data []models.User) { e.Users = data })
		return changed && len(frame.Users) == 4
	}, time.Second, 10*time.Millisecond)
}
