package repository

import (
	"context"
	"errors"

	"flashcard_study/internal/model"
)

// UserRepository owns the users list and the current-user record.
type UserRepository interface {
	List(ctx context.Context) ([]model.User, error)
	Save(ctx context.Context, users []model.User) error
	Clear(ctx context.Context) error

	GetCurrent(ctx context.Context) (*model.CurrentUser, error)
	SaveCurrent(ctx context.Context, u model.CurrentUser) error
	ClearCurrent(ctx context.Context) error
}

type kvUserRepository struct {
	kv KVStore
}

func NewUserRepository(kv KVStore) UserRepository {
	return &kvUserRepository{kv: kv}
}

// List returns an empty list when nothing is stored yet. A malformed
// document is reported with ErrMalformed.
func (r *kvUserRepository) List(ctx context.Context) ([]model.User, error) {
	users, err := getJSON[[]model.User](ctx, r.kv, KeyUsers)
	if errors.Is(err, model.ErrNotFound) {
		return []model.User{}, nil
	}
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}

func (r *kvUserRepository) Save(ctx context.Context, users []model.User) error {
	if users == nil {
		users = []model.User{}
	}
	return putJSON(ctx, r.kv, KeyUsers, users)
}

func (r *kvUserRepository) Clear(ctx context.Context) error {
	return r.kv.Delete(ctx, KeyUsers)
}

// GetCurrent returns model.ErrNotFound when nobody is logged in.
func (r *kvUserRepository) GetCurrent(ctx context.Context) (*model.CurrentUser, error) {
	cu, err := getJSON[model.CurrentUser](ctx, r.kv, KeyCurrentUser)
	if err != nil {
		return nil, err
	}
	return &cu, nil
}

func (r *kvUserRepository) SaveCurrent(ctx context.Context, u model.CurrentUser) error {
	return putJSON(ctx, r.kv, KeyCurrentUser, u)
}

func (r *kvUserRepository) ClearCurrent(ctx context.Context) error {
	return r.kv.Delete(ctx, KeyCurrentUser)
}
