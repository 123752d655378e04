package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"pocket-chat/internal/kvstore"
	"pocket-chat/internal/models"
	"pocket-chat/internal/observability"
)

// Store key namespace. Each collection lives under a single key as one
// JSON array; the session slot holds a single record.
const (
	keyUsers       = "users"
	keyMessages    = "messages"
	keyChats       = "chats"
	keyCurrentUser = "currentUser"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrChatNotFound = errors.New("chat not found")
	ErrNoSession    = errors.New("no current user")
)

// Service is the sole reader and writer of the persisted collections.
// Every read-modify-write span on a collection is serialized by that
// collection's mutex, so interleaved writers cannot lose updates. Reads
// fail soft (logged, empty result); writes propagate their error.
type Service struct {
	store kvstore.Store

	usersMu    sync.Mutex
	messagesMu sync.Mutex
	chatsMu    sync.Mutex
}

// NewService builds a Service over any key-value store.
func NewService(store kvstore.Store) *Service {
	return &Service{store: store}
}

// Initialize seeds the store on first run. Seeding is idempotent: an
// existing users collection is never overwritten.
func (s *Service) Initialize(ctx context.Context) error {
	if _, err := s.store.Get(ctx, keyUsers); errors.Is(err, kvstore.ErrNotFound) {
		if err := writeCollection(ctx, s, keyUsers, seedUsers()); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("check users: %w", err)
	}

	if _, err := s.store.Get(ctx, keyMessages); errors.Is(err, kvstore.ErrNotFound) {
		if err := writeCollection(ctx, s, keyMessages, []models.Message{}); err != nil {
			return fmt.Errorf("seed messages: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("check messages: %w", err)
	}

	if _, err := s.store.Get(ctx, keyChats); errors.Is(err, kvstore.ErrNotFound) {
		if err := writeCollection(ctx, s, keyChats, []models.Chat{}); err != nil {
			return fmt.Errorf("seed chats: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("check chats: %w", err)
	}

	return nil
}

// readCollection loads and decodes one collection, failing soft: a
// missing key, I/O error, or corrupt blob all yield an empty slice.
func readCollection[T any](ctx context.Context, s *Service, key string) []T {
	observability.IncStorageOp(key, "read")
	blob, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			observability.IncStorageError(key, "read")
			log.Printf("storage: read %s: %v", key, err)
		}
		return nil
	}
	records, err := decodeRecords[T](blob)
	if err != nil {
		observability.IncStorageError(key, "decode")
		log.Printf("storage: decode %s: %v", key, err)
		return nil
	}
	return records
}

func writeCollection[T any](ctx context.Context, s *Service, key string, records []T) error {
	observability.IncStorageOp(key, "write")
	blob, err := encodeRecords(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.store.Set(ctx, key, blob); err != nil {
		observability.IncStorageError(key, "write")
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Users

// GetUsers returns the full users collection.
func (s *Service) GetUsers(ctx context.Context) []models.User {
	return readCollection[models.User](ctx, s, keyUsers)
}

// AddUser appends a user to the collection.
func (s *Service) AddUser(ctx context.Context, user models.User) error {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()
	users := append(s.GetUsers(ctx), user)
	return writeCollection(ctx, s, keyUsers, users)
}

// UpdateUser merges patch into the user with the given id.
func (s *Service) UpdateUser(ctx context.Context, userID string, patch models.UserPatch) error {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()
	users := s.GetUsers(ctx)
	found := false
	for i, user := range users {
		if user.ID == userID {
			users[i] = applyUserPatch(user, patch)
			found = true
			break
		}
	}
	if !found {
		return ErrUserNotFound
	}
	return writeCollection(ctx, s, keyUsers, users)
}

// GetUserByEmail finds a user by email.
func (s *Service) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	for _, user := range s.GetUsers(ctx) {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, ErrUserNotFound
}

func applyUserPatch(user models.User, patch models.UserPatch) models.User {
	if patch.DisplayName != nil {
		user.DisplayName = *patch.DisplayName
	}
	if patch.PhotoURL != nil {
		user.PhotoURL = *patch.PhotoURL
	}
	if patch.IsOnline != nil {
		user.IsOnline = *patch.IsOnline
	}
	if patch.LastSeen != nil {
		user.LastSeen = *patch.LastSeen
	}
	return user
}

// Messages

// GetMessages returns the full messages collection.
func (s *Service) GetMessages(ctx context.Context) []models.Message {
	return readCollection[models.Message](ctx, s, keyMessages)
}

// AddMessage appends to the append-only message log.
func (s *Service) AddMessage(ctx context.Context, message models.Message) error {
	s.messagesMu.Lock()
	defer s.messagesMu.Unlock()
	messages := append(s.GetMessages(ctx), message)
	return writeCollection(ctx, s, keyMessages, messages)
}

// GetMessagesByChatID returns all messages belonging to one chat.
func (s *Service) GetMessagesByChatID(ctx context.Context, chatID string) []models.Message {
	var out []models.Message
	for _, message := range s.GetMessages(ctx) {
		if message.ChatID == chatID {
			out = append(out, message)
		}
	}
	return out
}

// Chats

// GetChats returns the full chats collection.
func (s *Service) GetChats(ctx context.Context) []models.Chat {
	return readCollection[models.Chat](ctx, s, keyChats)
}

// AddChat appends a chat to the collection.
func (s *Service) AddChat(ctx context.Context, chat models.Chat) error {
	s.chatsMu.Lock()
	defer s.chatsMu.Unlock()
	chats := append(s.GetChats(ctx), chat)
	return writeCollection(ctx, s, keyChats, chats)
}

// UpdateChat merges patch into the chat with the given id.
func (s *Service) UpdateChat(ctx context.Context, chatID string, patch models.ChatPatch) error {
	s.chatsMu.Lock()
	defer s.chatsMu.Unlock()
	chats := s.GetChats(ctx)
	found := false
	for i, chat := range chats {
		if chat.ID == chatID {
			chats[i] = applyChatPatch(chat, patch)
			found = true
			break
		}
	}
	if !found {
		return ErrChatNotFound
	}
	return writeCollection(ctx, s, keyChats, chats)
}

// GetChatsByUserID returns chats that include the user.
func (s *Service) GetChatsByUserID(ctx context.Context, userID string) []models.Chat {
	var out []models.Chat
	for _, chat := range s.GetChats(ctx) {
		if chat.HasParticipant(userID) {
			out = append(out, chat)
		}
	}
	return out
}

// FindChatByParticipants finds the chat between two users. The pair is
// unordered: (a,b) and (b,a) resolve to the same chat.
func (s *Service) FindChatByParticipants(ctx context.Context, userID1, userID2 string) (models.Chat, error) {
	for _, chat := range s.GetChats(ctx) {
		if chat.HasParticipant(userID1) && chat.HasParticipant(userID2) {
			return chat, nil
		}
	}
	return models.Chat{}, ErrChatNotFound
}

func applyChatPatch(chat models.Chat, patch models.ChatPatch) models.Chat {
	if patch.LastMessage != nil {
		chat.LastMessage = patch.LastMessage
	}
	if patch.LastMessageTimestamp != nil {
		chat.LastMessageTimestamp = *patch.LastMessageTimestamp
	}
	if patch.ParticipantNames != nil {
		chat.ParticipantNames = patch.ParticipantNames
	}
	if patch.ParticipantPhotos != nil {
		chat.ParticipantPhotos = patch.ParticipantPhotos
	}
	return chat
}

// Session

// SetCurrentUser stores the locally authenticated identity.
func (s *Service) SetCurrentUser(ctx context.Context, user models.User) error {
	observability.IncStorageOp(keyCurrentUser, "write")
	blob, err := encodeRecord(user)
	if err != nil {
		return fmt.Errorf("encode %s: %w", keyCurrentUser, err)
	}
	if err := s.store.Set(ctx, keyCurrentUser, blob); err != nil {
		observability.IncStorageError(keyCurrentUser, "write")
		return fmt.Errorf("write %s: %w", keyCurrentUser, err)
	}
	return nil
}

// GetCurrentUser loads the session record, or ErrNoSession when absent
// or unreadable.
func (s *Service) GetCurrentUser(ctx context.Context) (models.User, error) {
	observability.IncStorageOp(keyCurrentUser, "read")
	blob, err := s.store.Get(ctx, keyCurrentUser)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			observability.IncStorageError(keyCurrentUser, "read")
			log.Printf("storage: read %s: %v", keyCurrentUser, err)
		}
		return models.User{}, ErrNoSession
	}
	user, err := decodeRecord[models.User](blob)
	if err != nil {
		observability.IncStorageError(keyCurrentUser, "decode")
		log.Printf("storage: decode %s: %v", keyCurrentUser, err)
		return models.User{}, ErrNoSession
	}
	return user, nil
}

// ClearCurrentUser removes the session record.
func (s *Service) ClearCurrentUser(ctx context.Context) error {
	return s.store.Delete(ctx, keyCurrentUser)
}

// GenerateID produces an identifier unique within a process run with
// very high probability: epoch millis plus random bits.
func GenerateID() string {
	buf := make([]byte, 5)
	if _, err := rand.Read(buf); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 10)
	}
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + hex.EncodeToString(buf)
}
