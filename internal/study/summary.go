package study

import (
	"math"
	"time"

	"flashcard_study/internal/model"
)

// Accuracy returns 100*correct/total rounded half up to two decimals, and
// 0 for an empty deck.
func Accuracy(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return round2(float64(correct) / float64(total) * 100)
}

// Summarize builds the completion summary of s as of at.
func Summarize(s State, at time.Time) model.Progress {
	return model.Progress{
		TotalCards:       len(s.Cards),
		StudiedCards:     s.Studied(),
		CorrectAnswers:   s.CorrectCount,
		IncorrectAnswers: s.IncorrectCount,
		Accuracy:         Accuracy(s.CorrectCount, len(s.Cards)),
		TimeSpent:        elapsedSeconds(s.StartedAt, at),
	}
}

// Stats returns running figures for s. For a completed session the clock
// stops at CompletedAt.
func Stats(s State, now time.Time) model.StudyStats {
	if s.Status == Completed {
		now = s.CompletedAt
	}
	elapsed := now.Sub(s.StartedAt)

	var perMinute float64
	if elapsed >= time.Second {
		perMinute = round2(float64(s.Studied()) / elapsed.Minutes())
	}

	return model.StudyStats{
		SessionTime:    elapsedSeconds(s.StartedAt, now),
		CardsPerMinute: perMinute,
		Accuracy:       Accuracy(s.CorrectCount, len(s.Cards)),
		Streak:         longestStreak(s),
	}
}

// longestStreak is the longest run of correct ratings in card order.
// Cards that were never rated neither extend nor break a run.
func longestStreak(s State) int {
	best, run := 0, 0
	for _, c := range s.Cards {
		d, ok := s.Ratings[c.ID]
		if !ok {
			continue
		}
		if !d.IsCorrect() {
			run = 0
			continue
		}
		run++
		best = max(best, run)
	}
	return best
}

func elapsedSeconds(from, to time.Time) int {
	d := to.Sub(from)
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
