package repository

import (
	"context"

	"flashcard_study/internal/model"
)

// SettingsRepository stores the settings document. Merging with defaults
// is the caller's job, so Load hands back the raw document.
type SettingsRepository interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, s model.Settings) error
}

type kvSettingsRepository struct {
	kv KVStore
}

func NewSettingsRepository(kv KVStore) SettingsRepository {
	return &kvSettingsRepository{kv: kv}
}

// Load returns model.ErrNotFound on first run.
func (r *kvSettingsRepository) Load(ctx context.Context) ([]byte, error) {
	return r.kv.Get(ctx, KeySettings)
}

func (r *kvSettingsRepository) Save(ctx context.Context, s model.Settings) error {
	return putJSON(ctx, r.kv, KeySettings, s)
}
