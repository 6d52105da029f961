package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"flashcard_study/internal/middleware"
	"flashcard_study/internal/model"
	"flashcard_study/internal/repository"

	"github.com/google/uuid"
)

// AuthService is a local demo login. It checks plain text passwords
// against the persisted users list and is not a security boundary.
type AuthService interface {
	EnsureDemoUsers(ctx context.Context) error
	Login(ctx context.Context, req *model.LoginRequest) (*model.UserSummary, error)
	Register(ctx context.Context, req *model.RegisterRequest) (*model.UserSummary, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*model.CurrentUser, error)
}

type authService struct {
	userRepo repository.UserRepository
	latency  time.Duration
	now      func() time.Time

	mu sync.Mutex // serializes read-modify-write of the users list
}

func NewAuthService(userRepo repository.UserRepository, latency time.Duration, now func() time.Time) AuthService {
	if now == nil {
		now = time.Now
	}
	return &authService{userRepo: userRepo, latency: latency, now: now}
}

// DemoUsers are seeded into an empty users store.
func DemoUsers(createdAt time.Time) []model.User {
	return []model.User{
		{ID: "1", Username: "admin", Email: "admin@example.com", Password: "password123", CreatedAt: createdAt},
		{ID: "2", Username: "user", Email: "user@example.com", Password: "password123", CreatedAt: createdAt},
		{ID: "3", Username: "demo", Email: "demo@example.com", Password: "demo123", CreatedAt: createdAt},
	}
}

// EnsureDemoUsers writes the demo accounts when no users are stored. A
// malformed users document is replaced.
func (s *authService) EnsureDemoUsers(ctx context.Context) error {
	logger := middleware.GetLogger(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.userRepo.List(ctx)
	if err != nil && !errors.Is(err, repository.ErrMalformed) {
		logger.Error("Failed to read users", "error", err)
		return err
	}
	if err == nil && len(users) > 0 {
		return nil
	}
	if err != nil {
		logger.Warn("Users document is malformed, reseeding demo users", "error", err)
	}

	if err := s.userRepo.Save(ctx, DemoUsers(s.now())); err != nil {
		logger.Error("Failed to seed demo users", "error", err)
		return err
	}
	logger.Info("Demo users seeded", "count", 3)
	return nil
}

func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.UserSummary, error) {
	logger := middleware.GetLogger(ctx).With("username", req.Username)

	if err := simulateLatency(ctx, s.latency); err != nil {
		return nil, err
	}

	users, err := s.listUsers(ctx)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		if u.Username != req.Username || u.Password != req.Password {
			continue
		}
		current := model.CurrentUser{Username: u.Username, Email: u.Email, LoginTime: s.now()}
		if err := s.userRepo.SaveCurrent(ctx, current); err != nil {
			logger.Error("Failed to persist current user", "error", err)
			return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Could not save the login session.", "", err)
		}
		logger.Info("User logged in")
		summary := u.Summary()
		return &summary, nil
	}

	logger.Warn("Login failed")
	return nil, model.NewAppError("INVALID_CREDENTIALS", "Invalid username or password.", "", model.ErrInvalidCredentials)
}

func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.UserSummary, error) {
	logger := middleware.GetLogger(ctx).With("username", req.Username)

	if err := simulateLatency(ctx, s.latency); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.listUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Username == req.Username {
			logger.Warn("Username already exists")
			return nil, model.NewAppError("DUPLICATE_USERNAME", "That username is already taken.", "username", model.ErrConflict)
		}
		if strings.EqualFold(u.Email, req.Email) {
			logger.Warn("Email already exists")
			return nil, model.NewAppError("DUPLICATE_EMAIL", "That email address is already registered.", "email", model.ErrConflict)
		}
	}

	now := s.now()
	user := model.User{
		ID:        uuid.NewString(),
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		CreatedAt: now,
	}
	if err := s.userRepo.Save(ctx, append(users, user)); err != nil {
		logger.Error("Failed to save users", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Could not create the account.", "", err)
	}
	if err := s.userRepo.SaveCurrent(ctx, model.CurrentUser{Username: user.Username, Email: user.Email, LoginTime: now}); err != nil {
		logger.Error("Failed to persist current user", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Could not save the login session.", "", err)
	}

	logger.Info("User registered", "user_id", user.ID)
	summary := user.Summary()
	return &summary, nil
}

func (s *authService) Logout(ctx context.Context) error {
	if err := s.userRepo.ClearCurrent(ctx); err != nil {
		middleware.GetLogger(ctx).Error("Failed to clear current user", "error", err)
		return err
	}
	return nil
}

// CurrentUser returns nil when nobody is logged in. A malformed record is
// deleted and treated as absent.
func (s *authService) CurrentUser(ctx context.Context) (*model.CurrentUser, error) {
	logger := middleware.GetLogger(ctx)

	cu, err := s.userRepo.GetCurrent(ctx)
	switch {
	case err == nil:
		return cu, nil
	case errors.Is(err, model.ErrNotFound):
		return nil, nil
	case errors.Is(err, repository.ErrMalformed):
		logger.Warn("Current user record is malformed, removing it", "error", err)
		if err := s.userRepo.ClearCurrent(ctx); err != nil {
			logger.Error("Failed to remove malformed current user", "error", err)
		}
		return nil, nil
	default:
		logger.Error("Failed to read current user", "error", err)
		return nil, err
	}
}

// listUsers treats a malformed users document as empty.
func (s *authService) listUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.List(ctx)
	if errors.Is(err, repository.ErrMalformed) {
		middleware.GetLogger(ctx).Warn("Users document is malformed, treating as empty", "error", err)
		return []model.User{}, nil
	}
	if err != nil {
		middleware.GetLogger(ctx).Error("Failed to read users", "error", err)
		return nil, err
	}
	return users, nil
}
