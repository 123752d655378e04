package watch

import (
	"context"
	"sync"
	"time"

	"pocket-chat/internal/models"
	"pocket-chat/internal/observability"
)

// Poll intervals, chosen to balance staleness against read cost.
const (
	DefaultUsersInterval    = 5 * time.Second
	DefaultChatsInterval    = 3 * time.Second
	DefaultMessagesInterval = 2 * time.Second
)

// Storage is the read surface watchers consume.
type Storage interface {
	GetUsers(ctx context.Context) []models.User
	GetChats(ctx context.Context) []models.Chat
	GetMessagesByChatID(ctx context.Context, chatID string) []models.Message
}

// Watcher re-reads one projection from storage on a fixed interval and
// holds the latest result. Consumers that need a different parameter
// (another chat, another user) must Stop the old watcher and start a new
// one; Stop cancels the timer and a load still in flight is discarded.
type Watcher[T any] struct {
	name     string
	interval time.Duration
	load     func(ctx context.Context) []T

	mu     sync.RWMutex
	data   []T
	loaded bool

	cancel context.CancelFunc
	done   chan struct{}
}

func newWatcher[T any](name string, interval time.Duration, load func(ctx context.Context) []T) *Watcher[T] {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher[T]{
		name:     name,
		interval: interval,
		load:     load,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go w.run(ctx)
	return w
}

func (w *Watcher[T]) run(ctx context.Context) {
	defer close(w.done)

	w.poll(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

func (w *Watcher[T]) poll(ctx context.Context) {
	observability.IncWatcherPoll(w.name)
	data := w.load(ctx)
	if ctx.Err() != nil {
		// Stopped while the read was in flight.
		return
	}
	w.mu.Lock()
	w.data = data
	w.loaded = true
	w.mu.Unlock()
}

// Snapshot returns the latest projection and whether the initial load is
// still in flight. The flag latches to false after the first completed
// load and never becomes true again.
func (w *Watcher[T]) Snapshot() ([]T, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.data, !w.loaded
}

// Stop cancels the poll timer and waits for the loop to exit. No load
// result is published after Stop returns.
func (w *Watcher[T]) Stop() {
	w.cancel()
	<-w.done
}

// Users watches all users except the caller's own record. A
// non-positive interval selects the default.
func Users(svc Storage, currentUserID string, interval time.Duration) *Watcher[models.User] {
	if interval <= 0 {
		interval = DefaultUsersInterval
	}
	return newWatcher("users", interval, func(ctx context.Context) []models.User {
		return ProjectUsers(svc.GetUsers(ctx), currentUserID)
	})
}

// Chats watches the caller's chat list with participant metadata
// resolved at read time.
func Chats(svc Storage, userID string, interval time.Duration) *Watcher[models.Chat] {
	if interval <= 0 {
		interval = DefaultChatsInterval
	}
	return newWatcher("chats", interval, func(ctx context.Context) []models.Chat {
		return ProjectChats(svc.GetChats(ctx), svc.GetUsers(ctx), userID)
	})
}

// Messages watches one chat's message log, newest first.
func Messages(svc Storage, chatID string, interval time.Duration) *Watcher[models.Message] {
	if interval <= 0 {
		interval = DefaultMessagesInterval
	}
	return newWatcher("messages", interval, func(ctx context.Context) []models.Message {
		return ProjectMessages(svc.GetMessagesByChatID(ctx, chatID), chatID)
	})
}
