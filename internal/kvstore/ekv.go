package kvstore

import (
	"context"

	"gitlab.com/elixxir/ekv"
)

// EKV adapts an elixxir encrypted key-value store to the Store contract.
// Backed by a Filestore it provides encrypted-at-rest on-device storage.
type EKV struct {
	kv ekv.KeyValue
}

// NewEKV opens (or creates) an encrypted filestore rooted at baseDir.
func NewEKV(baseDir, password string) (*EKV, error) {
	fs, err := ekv.NewFilestore(baseDir, password)
	if err != nil {
		return nil, err
	}
	return &EKV{kv: fs}, nil
}

// WrapEKV adapts an existing ekv.KeyValue, e.g. an ekv.Memstore in tests.
func WrapEKV(kv ekv.KeyValue) *EKV {
	return &EKV{kv: kv}
}

func (s *EKV) Get(_ context.Context, key string) ([]byte, error) {
	value, err := s.kv.GetBytes(key)
	if err != nil {
		if !ekv.Exists(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return value, nil
}

func (s *EKV) Set(_ context.Context, key string, value []byte) error {
	return s.kv.SetBytes(key, value)
}

func (s *EKV) Delete(_ context.Context, key string) error {
	err := s.kv.Delete(key)
	if err != nil && !ekv.Exists(err) {
		return nil
	}
	return err
}
