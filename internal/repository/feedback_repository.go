package repository

import (
	"context"
	"errors"

	"flashcard_study/internal/model"
)

// FeedbackRepository owns the append-only feedback list.
type FeedbackRepository interface {
	List(ctx context.Context) ([]model.FeedbackEntry, error)
	Save(ctx context.Context, entries []model.FeedbackEntry) error
	Clear(ctx context.Context) error
}

type kvFeedbackRepository struct {
	kv KVStore
}

func NewFeedbackRepository(kv KVStore) FeedbackRepository {
	return &kvFeedbackRepository{kv: kv}
}

func (r *kvFeedbackRepository) List(ctx context.Context) ([]model.FeedbackEntry, error) {
	entries, err := getJSON[[]model.FeedbackEntry](ctx, r.kv, KeyFeedback)
	if errors.Is(err, model.ErrNotFound) {
		return []model.FeedbackEntry{}, nil
	}
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []model.FeedbackEntry{}
	}
	return entries, nil
}

func (r *kvFeedbackRepository) Save(ctx context.Context, entries []model.FeedbackEntry) error {
	if entries == nil {
		entries = []model.FeedbackEntry{}
	}
	return putJSON(ctx, r.kv, KeyFeedback, entries)
}

func (r *kvFeedbackRepository) Clear(ctx context.Context) error {
	return r.kv.Delete(ctx, KeyFeedback)
}
