package domain

import (
	"strings"
	"time"

	"github.com/conorfennell/flashdrill/internal/knol"
)

// Flashcard is a single question/answer pair.
// ID is assigned by the store and is zero until the card has been persisted.
type Flashcard struct {
	ID        int64
	Question  string `validate:"required,max=255"`
	Answer    string `validate:"required,max=255"`
	Hash      string
	CreatedAt time.Time
}

// NewFlashcard builds an unsaved flashcard from user input.
// Both fields are trimmed and must be non-empty and at most MaxFieldLength characters.
func NewFlashcard(question, answer string) (*Flashcard, error) {
	card := &Flashcard{
		Question:  strings.TrimSpace(question),
		Answer:    strings.TrimSpace(answer),
		CreatedAt: time.Now().UTC(),
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	card.Hash = knol.Hash(card.Question, card.Answer)
	return card, nil
}

// Validate checks the question and answer constraints.
func (c *Flashcard) Validate() error {
	if err := validate.Struct(c); err != nil {
		return translate("flashcard", err)
	}
	return nil
}
