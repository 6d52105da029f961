package service

import (
	"encoding/json"
	"slices"
	"testing"
	"time"

	"flashcard_study/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudyService_ThreeCardSession(t *testing.T) {
	ctx := testCtx()
	env := newTestEnv(t, testDeck(3))

	sess, err := env.study.Start(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, sess.SessionID, sessionIDLength)
	assert.Equal(t, "active", sess.Status)
	assert.Equal(t, 3, sess.TotalCards)
	require.NotNil(t, sess.CurrentCard)
	assert.Equal(t, "card-1", sess.CurrentCard.ID)
	assert.False(t, sess.TimerMode)

	for _, d := range []model.Difficulty{model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard} {
		env.clock.Advance(3 * time.Second)
		sess, err = env.study.Rate(ctx, sess.SessionID, d)
		require.NoError(t, err)
	}

	assert.Equal(t, "completed", sess.Status)
	assert.Nil(t, sess.CurrentCard)
	require.NotNil(t, sess.Summary)
	assert.Equal(t, model.Progress{
		TotalCards:       3,
		StudiedCards:     3,
		CorrectAnswers:   2,
		IncorrectAnswers: 1,
		Accuracy:         66.67,
		TimeSpent:        9,
	}, *sess.Summary)

	_, err = env.study.Next(ctx, sess.SessionID)
	assert.ErrorIs(t, err, model.ErrSessionCompleted)

	sess, err = env.study.Reset(ctx, sess.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "active", sess.Status)
	assert.Zero(t, sess.StudiedCards)
	assert.Nil(t, sess.Summary)
	assert.Equal(t, t0.Add(9*time.Second), sess.StartedAt)
}

func TestStudyService_Navigation(t *testing.T) {
	ctx := testCtx()
	env := newTestEnv(t, testDeck(3))

	sess, err := env.study.Start(ctx, &model.StartSessionRequest{})
	require.NoError(t, err)
	id := sess.SessionID

	sess, err = env.study.Previous(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, sess.CurrentIndex, "previous on the first card stays put")

	sess, err = env.study.Next(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, sess.CurrentIndex)
	assert.Zero(t, sess.StudiedCards, "skipping does not count as studying")

	sess, err = env.study.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "card-2", sess.CurrentCard.ID)

	_, err = env.study.Rate(ctx, id, model.Difficulty("impossible"))
	assert.ErrorIs(t, err, model.ErrInvalidDifficulty)
}

func TestStudyService_CategoryFilterAndEmptyDeck(t *testing.T) {
	ctx := testCtx()
	env := newTestEnv(t, testDeck(6, "Go", "SQL", "HTTP"))

	sess, err := env.study.Start(ctx, &model.StartSessionRequest{Category: "SQL"})
	require.NoError(t, err)
	assert.Equal(t, 2, sess.TotalCards)
	assert.Equal(t, "SQL", sess.CurrentCard.Category)

	_, err = env.study.Start(ctx, &model.StartSessionRequest{Category: "Rust"})
	assert.ErrorIs(t, err, model.ErrEmptyDeck)

	empty := newTestEnv(t, nil)
	_, err = empty.study.Start(ctx, nil)
	assert.ErrorIs(t, err, model.ErrEmptyDeck)
}

func TestStudyService_ShuffleSetting(t *testing.T) {
	ctx := testCtx()
	env := newTestEnv(t, testDeck(4))
	env.study.shuffle = func(cs []model.Flashcard) { slices.Reverse(cs) }

	sess, err := env.study.Start(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "card-1", sess.CurrentCard.ID, "shuffle is off by default")

	_, err = env.settings.Set(ctx, model.SectionStudyMode, "shuffleCards", json.RawMessage(`true`))
	require.NoError(t, err)

	sess, err = env.study.Start(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "card-4", sess.CurrentCard.ID)
}

func TestStudyService_TimerExpires(t *testing.T) {
	ctx := testCtx()
	env := newTestEnv(t, testDeck(5))

	_, err := env.settings.Set(ctx, model.SectionStudyMode, "timerEnabled", json.RawMessage(`true`))
	require.NoError(t, err)
	_, err = env.settings.Set(ctx, model.SectionStudyMode, "timerDuration", json.RawMessage(`1`))
	require.NoError(t, err)

	sess, err := env.study.Start(ctx, nil)
	require.NoError(t, err)
	assert.True(t, sess.TimerMode)
	assert.Equal(t, 60, sess.TimeLimit)

	env.clock.Advance(10 * time.Second)
	sess, err = env.study.Rate(ctx, sess.SessionID, model.DifficultyEasy)
	require.NoError(t, err)
	assert.Equal(t, "active", sess.Status)

	env.clock.Advance(time.Minute)
	_, err = env.study.Rate(ctx, sess.SessionID, model.DifficultyEasy)
	assert.ErrorIs(t, err, model.ErrSessionCompleted, "the timer ends the session before the rating applies")

	sess, err = env.study.Get(ctx, sess.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "completed", sess.Status)
	require.NotNil(t, sess.Summary)
	assert.Equal(t, 1, sess.Summary.StudiedCards)
	assert.Equal(t, 70, sess.Summary.TimeSpent)
	assert.Equal(t, 20.0, sess.Summary.Accuracy)
}

func TestStudyService_Discard(t *testing.T) {
	ctx := testCtx()
	env := newTestEnv(t, testDeck(2))

	sess, err := env.study.Start(ctx, nil)
	require.NoError(t, err)

	require.NoError(t, env.study.Discard(ctx, sess.SessionID))
	_, err = env.study.Get(ctx, sess.SessionID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.ErrorIs(t, env.study.Discard(ctx, sess.SessionID), model.ErrNotFound)
}

func TestStudyService_SessionsAreIndependent(t *testing.T) {
	ctx := testCtx()
	env := newTestEnv(t, testDeck(2))

	a, err := env.study.Start(ctx, nil)
	require.NoError(t, err)
	b, err := env.study.Start(ctx, nil)
	require.NoError(t, err)
	require.NotEqual(t, a.SessionID, b.SessionID)

	_, err = env.study.Rate(ctx, a.SessionID, model.DifficultyHard)
	require.NoError(t, err)

	got, err := env.study.Get(ctx, b.SessionID)
	require.NoError(t, err)
	assert.Zero(t, got.StudiedCards)
}
