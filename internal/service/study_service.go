package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"flashcard_study/internal/middleware"
	"flashcard_study/internal/model"
	"flashcard_study/internal/repository"
	"flashcard_study/internal/study"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const sessionIDLength = 12

// StudyService runs study sessions. Sessions live in memory only and are
// lost on restart.
type StudyService interface {
	Start(ctx context.Context, req *model.StartSessionRequest) (*model.SessionResponse, error)
	Get(ctx context.Context, id string) (*model.SessionResponse, error)
	Rate(ctx context.Context, id string, d model.Difficulty) (*model.SessionResponse, error)
	Next(ctx context.Context, id string) (*model.SessionResponse, error)
	Previous(ctx context.Context, id string) (*model.SessionResponse, error)
	Reset(ctx context.Context, id string) (*model.SessionResponse, error)
	Discard(ctx context.Context, id string) error
}

type studyService struct {
	cards    repository.CardStore
	settings SettingsService
	now      func() time.Time
	shuffle  func([]model.Flashcard)

	mu       sync.Mutex
	sessions map[string]study.State
}

func NewStudyService(cards repository.CardStore, settings SettingsService, now func() time.Time) StudyService {
	if now == nil {
		now = time.Now
	}
	return &studyService{
		cards:    cards,
		settings: settings,
		now:      now,
		shuffle: func(cs []model.Flashcard) {
			rand.Shuffle(len(cs), func(i, j int) { cs[i], cs[j] = cs[j], cs[i] })
		},
		sessions: map[string]study.State{},
	}
}

// Start opens a session over the whole deck or one category. Study mode
// settings decide the card order and the time limit.
func (s *studyService) Start(ctx context.Context, req *model.StartSessionRequest) (*model.SessionResponse, error) {
	logger := middleware.GetLogger(ctx)

	category := ""
	if req != nil {
		category = req.Category
	}
	cards := s.cards.ListByCategory(category)
	if len(cards) == 0 {
		logger.Warn("No cards to study", "category", category)
		return nil, model.NewAppError("EMPTY_DECK", "There are no flashcards to study.", "category", model.ErrEmptyDeck)
	}

	mode := s.settings.Get(ctx).StudyMode
	if mode.ShuffleCards {
		s.shuffle(cards)
	}
	var limit time.Duration
	if mode.TimerEnabled {
		limit = time.Duration(mode.TimerDuration) * time.Minute
	}

	now := s.now()
	state, err := study.New(cards, now, limit)
	if err != nil {
		return nil, err
	}
	id, err := gonanoid.New(sessionIDLength)
	if err != nil {
		logger.Error("Failed to generate session id", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Could not start a session.", "", err)
	}

	s.mu.Lock()
	s.sessions[id] = state
	s.mu.Unlock()

	logger.Info("Study session started",
		"session_id", id,
		"category", category,
		"cards", len(cards),
		"shuffled", mode.ShuffleCards,
		"time_limit", limit,
	)
	return toSessionResponse(id, state, now), nil
}

func (s *studyService) Get(ctx context.Context, id string) (*model.SessionResponse, error) {
	return s.dispatch(ctx, id, nil)
}

func (s *studyService) Rate(ctx context.Context, id string, d model.Difficulty) (*model.SessionResponse, error) {
	return s.dispatch(ctx, id, func(at time.Time) study.Action { return study.Rate(d, at) })
}

func (s *studyService) Next(ctx context.Context, id string) (*model.SessionResponse, error) {
	return s.dispatch(ctx, id, study.Advance)
}

func (s *studyService) Previous(ctx context.Context, id string) (*model.SessionResponse, error) {
	return s.dispatch(ctx, id, study.Retreat)
}

func (s *studyService) Reset(ctx context.Context, id string) (*model.SessionResponse, error) {
	return s.dispatch(ctx, id, study.Reset)
}

func (s *studyService) Discard(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return sessionNotFound()
	}
	delete(s.sessions, id)
	middleware.GetLogger(ctx).Info("Study session discarded", "session_id", id)
	return nil
}

// dispatch expires the session if its timer ran out, then applies the
// action built by mk. A nil mk only checks the timer.
func (s *studyService) dispatch(ctx context.Context, id string, mk func(time.Time) study.Action) (*model.SessionResponse, error) {
	logger := middleware.GetLogger(ctx).With("session_id", id)

	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[id]
	if !ok {
		return nil, sessionNotFound()
	}
	now := s.now()

	if state.Status == study.Active {
		expired, err := study.Reduce(state, study.Expire(now))
		if err != nil {
			return nil, err
		}
		s.store(ctx, id, state, expired)
		state = expired
	}

	if mk != nil {
		action := mk(now)
		next, err := study.Reduce(state, action)
		if err != nil {
			logger.Warn("Session action rejected", "action", action.Type, "error", err)
			return nil, actionError(err)
		}
		s.store(ctx, id, state, next)
		state = next
	}

	return toSessionResponse(id, state, now), nil
}

// store saves next under id and logs the summary when prev -> next
// completed the session. Callers hold s.mu.
func (s *studyService) store(ctx context.Context, id string, prev, next study.State) {
	s.sessions[id] = next
	if prev.Status != study.Active || next.Status != study.Completed || next.Summary == nil {
		return
	}
	sum := next.Summary
	middleware.GetLogger(ctx).Info("Session completed",
		"session_id", id,
		"total_cards", sum.TotalCards,
		"studied_cards", sum.StudiedCards,
		"correct", sum.CorrectAnswers,
		"incorrect", sum.IncorrectAnswers,
		"accuracy", sum.Accuracy,
		"time_spent", sum.TimeSpent,
	)
}

func toSessionResponse(id string, st study.State, now time.Time) *model.SessionResponse {
	resp := &model.SessionResponse{
		SessionID:      id,
		Status:         st.Status.String(),
		CurrentIndex:   st.Cursor,
		TotalCards:     len(st.Cards),
		StudiedCards:   st.Studied(),
		CorrectCount:   st.CorrectCount,
		IncorrectCount: st.IncorrectCount,
		StartedAt:      st.StartedAt,
		TimerMode:      st.TimeLimit > 0,
		TimeLimit:      int(st.TimeLimit / time.Second),
		Stats:          study.Stats(st, now),
	}
	if st.Status == study.Active {
		if card, ok := st.Current(); ok {
			resp.CurrentCard = &card
		}
	}
	if st.Summary != nil {
		summary := *st.Summary
		resp.Summary = &summary
	}
	return resp
}

func sessionNotFound() error {
	return model.NewAppError("SESSION_NOT_FOUND", "Study session not found.", "session_id", model.ErrNotFound)
}

func actionError(err error) error {
	switch {
	case errors.Is(err, model.ErrSessionCompleted):
		return model.NewAppError("SESSION_COMPLETED", "The session is complete. Reset it to study again.", "", err)
	case errors.Is(err, model.ErrInvalidDifficulty):
		return model.NewAppError("INVALID_DIFFICULTY", "Difficulty must be easy, medium or hard.", "difficulty", err)
	default:
		return err
	}
}
