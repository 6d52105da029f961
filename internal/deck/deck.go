// Package deck loads flashcard decks from YAML.
package deck

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"flashcard_study/internal/model"

	"gopkg.in/yaml.v3"
)

//go:embed sample_deck.yaml
var sampleDeck []byte

type deckFile struct {
	Cards []model.Flashcard `yaml:"cards"`
}

// Sample returns the deck bundled with the binary.
func Sample(now time.Time) ([]model.Flashcard, error) {
	return Parse(bytes.NewReader(sampleDeck), now)
}

// LoadFile reads a deck from path. An empty path yields the sample deck.
func LoadFile(path string, now time.Time) ([]model.Flashcard, error) {
	if path == "" {
		return Sample(now)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("deck.LoadFile: %w", err)
	}
	defer f.Close()
	return Parse(f, now)
}

// Parse decodes and validates a deck. Cards without timestamps are stamped
// with now.
func Parse(r io.Reader, now time.Time) ([]model.Flashcard, error) {
	var df deckFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&df); err != nil {
		return nil, fmt.Errorf("deck.Parse: %w", err)
	}

	seen := make(map[string]bool, len(df.Cards))
	for i := range df.Cards {
		c := &df.Cards[i]
		c.ID = strings.TrimSpace(c.ID)
		switch {
		case c.ID == "":
			return nil, fmt.Errorf("deck.Parse: card %d has no id: %w", i, model.ErrInvalidInput)
		case seen[c.ID]:
			return nil, fmt.Errorf("deck.Parse: duplicate card id %q: %w", c.ID, model.ErrInvalidInput)
		case strings.TrimSpace(c.Question) == "" || strings.TrimSpace(c.Answer) == "":
			return nil, fmt.Errorf("deck.Parse: card %q needs a question and an answer: %w", c.ID, model.ErrInvalidInput)
		case !c.Difficulty.Valid():
			return nil, fmt.Errorf("deck.Parse: card %q has difficulty %q: %w", c.ID, c.Difficulty, model.ErrInvalidInput)
		}
		seen[c.ID] = true
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		if c.UpdatedAt.IsZero() {
			c.UpdatedAt = c.CreatedAt
		}
	}
	return df.Cards, nil
}
