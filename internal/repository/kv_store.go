//go:generate mockery --name KVStore --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"flashcard_study/internal/model"
)

// Keys of the independent documents kept in a KVStore. Each key is
// read and written on its own; there are no cross-key transactions.
const (
	KeyUsers       = "flashcard-users"
	KeyCurrentUser = "flashcard-current-user"
	KeyFeedback    = "flashcard-feedback"
	KeySettings    = "flashcard-settings"
)

// KVStore is the local key/value storage every logical store is built on.
// Get returns model.ErrNotFound for a missing key.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// ErrMalformed marks a persisted document that could not be decoded.
var ErrMalformed = errors.New("malformed persisted document")

func getJSON[T any](ctx context.Context, kv KVStore, key string) (T, error) {
	var v T
	raw, err := kv.Get(ctx, key)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("%s: %w: %v", key, ErrMalformed, err)
	}
	return v, nil
}

func putJSON(ctx context.Context, kv KVStore, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%s: encode: %w", key, err)
	}
	if err := kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

// IsMissing reports whether err means there was nothing usable stored.
func IsMissing(err error) bool {
	return errors.Is(err, model.ErrNotFound) || errors.Is(err, ErrMalformed)
}
