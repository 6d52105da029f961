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

type FeedbackService interface {
	Submit(ctx context.Context, req *model.SubmitFeedbackRequest) (*model.FeedbackEntry, error)
	List(ctx context.Context) ([]model.FeedbackEntry, error)
}

type feedbackService struct {
	repo    repository.FeedbackRepository
	latency time.Duration
	now     func() time.Time

	// Appends are read-modify-write on one document. Writers in other
	// processes are last write wins.
	mu sync.Mutex
}

func NewFeedbackService(repo repository.FeedbackRepository, latency time.Duration, now func() time.Time) FeedbackService {
	if now == nil {
		now = time.Now
	}
	return &feedbackService{repo: repo, latency: latency, now: now}
}

// Submit expects a request that already passed validation.
func (s *feedbackService) Submit(ctx context.Context, req *model.SubmitFeedbackRequest) (*model.FeedbackEntry, error) {
	logger := middleware.GetLogger(ctx)

	if err := simulateLatency(ctx, s.latency); err != nil {
		return nil, err
	}

	entry := model.FeedbackEntry{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Rating:    req.Rating,
		Category:  req.Category,
		Comment:   strings.TrimSpace(req.Comment),
		Timestamp: s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, append(entries, entry)); err != nil {
		logger.Error("Failed to save feedback", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Could not save the feedback.", "", err)
	}

	logger.Info("Feedback submitted", "feedback_id", entry.ID, "category", entry.Category, "rating", entry.Rating)
	return &entry, nil
}

// List returns entries in submission order.
func (s *feedbackService) List(ctx context.Context) ([]model.FeedbackEntry, error) {
	return s.list(ctx)
}

func (s *feedbackService) list(ctx context.Context) ([]model.FeedbackEntry, error) {
	entries, err := s.repo.List(ctx)
	if errors.Is(err, repository.ErrMalformed) {
		middleware.GetLogger(ctx).Warn("Feedback document is malformed, treating as empty", "error", err)
		return []model.FeedbackEntry{}, nil
	}
	if err != nil {
		middleware.GetLogger(ctx).Error("Failed to read feedback", "error", err)
		return nil, err
	}
	return entries, nil
}
