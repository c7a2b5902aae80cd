// Package progress resolves a user's status for flashcards.
//
// Two read modes are offered and the caller picks one explicitly: Resolve performs a
// single lookup for one card, Prefetch loads every record of a user once and returns a
// Snapshot for rendering whole lists. Neither mode caches or mutates anything.
package progress

import (
	"context"
	"fmt"

	"github.com/conorfennell/flashdrill/internal/domain"
	"github.com/conorfennell/flashdrill/internal/knol"
)

// Lookup finds the progress record for one (flashcard, username) pair, or nil if none exists.
type Lookup interface {
	Find(ctx context.Context, flashcardID int64, username string) (*domain.ProgressRecord, error)
}

// Lister returns every progress record of one user.
type Lister interface {
	ListForUser(ctx context.Context, username string) ([]domain.ProgressRecord, error)
}

// Resolve returns the user's status for card. A user who never attempted the card
// is NotAnswered; no record is created for them.
func Resolve(ctx context.Context, card domain.Flashcard, username string, lookup Lookup) (domain.Status, error) {
	rec, err := lookup.Find(ctx, card.ID, knol.Username(username))
	if err != nil {
		return domain.NotAnswered, fmt.Errorf("resolve status of flashcard %d: %w", card.ID, err)
	}
	if rec == nil {
		return domain.NotAnswered, nil
	}
	return rec.Status, nil
}

// Snapshot is the status of every card one user has attempted, read in one batch.
type Snapshot struct {
	username string
	statuses map[int64]domain.Status
}

// Prefetch reads all of a user's records once.
func Prefetch(ctx context.Context, username string, lister Lister) (*Snapshot, error) {
	name := knol.Username(username)
	records, err := lister.ListForUser(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("prefetch progress for %s: %w", name, err)
	}
	return NewSnapshot(name, records), nil
}

// NewSnapshot builds a snapshot from already loaded records.
// Records belonging to other users are ignored.
func NewSnapshot(username string, records []domain.ProgressRecord) *Snapshot {
	s := &Snapshot{
		username: knol.Username(username),
		statuses: make(map[int64]domain.Status, len(records)),
	}
	for _, rec := range records {
		if knol.Username(rec.Username) != s.username {
			continue
		}
		s.statuses[rec.FlashcardID] = rec.Status
	}
	return s
}

// Username is the canonical user the snapshot was taken for.
func (s *Snapshot) Username() string {
	return s.username
}

// Status returns the user's status for card.
func (s *Snapshot) Status(card domain.Flashcard) domain.Status {
	if status, ok := s.statuses[card.ID]; ok {
		return status
	}
	return domain.NotAnswered
}

// Count returns how many of cards currently have the given status.
func (s *Snapshot) Count(cards []domain.Flashcard, status domain.Status) int {
	n := 0
	for _, c := range cards {
		if s.Status(c) == status {
			n++
		}
	}
	return n
}
