package domain

import (
	"fmt"
	"time"

	"github.com/conorfennell/flashdrill/internal/knol"
)

// ProgressRecord is the latest outcome for one (flashcard, username) pair.
// A store keeps at most one record per pair.
type ProgressRecord struct {
	FlashcardID int64  `validate:"gt=0"`
	Username    string `validate:"required,max=255"`
	Status      Status
	UpdatedAt   time.Time
}

// NewProgressRecord builds a record with the username in canonical (lowercase) form.
func NewProgressRecord(flashcardID int64, username string, status Status) (*ProgressRecord, error) {
	rec := &ProgressRecord{
		FlashcardID: flashcardID,
		Username:    knol.Username(username),
		Status:      status,
		UpdatedAt:   time.Now().UTC(),
	}

	if err := validate.Struct(rec); err != nil {
		return nil, translate("progress", err)
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %w: %d", ErrValidation, ErrInvalidStatus, int(status))
	}

	return rec, nil
}
