package kvstore

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// Store is the durable key-value primitive the storage service consumes.
// Each call is atomic with respect to itself only; there is no atomicity
// across keys or across concurrent calls on the same key, and any call
// may fail with an I/O error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
