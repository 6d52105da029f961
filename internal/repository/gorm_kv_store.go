package repository

import (
	"context"
	"errors"
	"fmt"

	"flashcard_study/internal/middleware"
	"flashcard_study/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormKVStore struct {
	db *gorm.DB
}

// NewGormKVStore returns a KVStore on the kv_entries table of db.
func NewGormKVStore(db *gorm.DB) KVStore {
	return &gormKVStore{db: db}
}

// Migrate creates the tables the GORM backed stores need.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.KVEntry{}); err != nil {
		return fmt.Errorf("repository.Migrate: %w", err)
	}
	return nil
}

func (s *gormKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	logger := middleware.GetLogger(ctx)
	var entry model.KVEntry
	result := s.db.WithContext(ctx).Where("doc_key = ?", key).First(&entry)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error reading kv entry from DB", "error", result.Error, "key", key)
		return nil, fmt.Errorf("gormKVStore.Get: %w", result.Error)
	}
	return []byte(entry.Value), nil
}

func (s *gormKVStore) Set(ctx context.Context, key string, value []byte) error {
	logger := middleware.GetLogger(ctx)
	entry := model.KVEntry{Key: key, Value: string(value)}
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "doc_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"doc_value", "updated_at"}),
	}).Create(&entry)
	if result.Error != nil {
		logger.Error("Error writing kv entry to DB", "error", result.Error, "key", key)
		return fmt.Errorf("gormKVStore.Set: %w", result.Error)
	}
	return nil
}

func (s *gormKVStore) Delete(ctx context.Context, key string) error {
	logger := middleware.GetLogger(ctx)
	result := s.db.WithContext(ctx).Where("doc_key = ?", key).Delete(&model.KVEntry{})
	if result.Error != nil {
		logger.Error("Error deleting kv entry from DB", "error", result.Error, "key", key)
		return fmt.Errorf("gormKVStore.Delete: %w", result.Error)
	}
	return nil
}
