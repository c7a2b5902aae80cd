// Package storage persists flashcards and per-user progress.
//
// Two families of operations are exposed: CardStore owns the flashcards and
// ProgressStore owns the (flashcard, username) status records. Implementations
// return domain.ErrNotFound for missing flashcards and wrap every backend failure
// in a *StoreError, which callers treat as fatal.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/conorfennell/flashdrill/internal/domain"
)

// CardStore owns the flashcard collection.
type CardStore interface {
	// Create validates and stores a new flashcard.
	// Returns an error wrapping domain.ErrValidation for empty or overlong fields.
	Create(ctx context.Context, question, answer string) (*domain.Flashcard, error)

	// List returns every flashcard in insertion order.
	List(ctx context.Context) ([]domain.Flashcard, error)

	// Get returns the flashcard with the given id or an error wrapping domain.ErrNotFound.
	Get(ctx context.Context, id int64) (*domain.Flashcard, error)

	// FindByHash returns the first flashcard with the given content hash, or nil if none.
	FindByHash(ctx context.Context, hash string) (*domain.Flashcard, error)

	// Delete removes a flashcard and every progress record that references it.
	Delete(ctx context.Context, id int64) error

	// Exists reports whether at least one flashcard is stored.
	Exists(ctx context.Context) (bool, error)

	// Count returns the number of stored flashcards.
	Count(ctx context.Context) (int, error)
}

// ProgressStore owns the per-user progress records.
// Usernames are canonicalized to lowercase on every call.
type ProgressStore interface {
	// Upsert creates or overwrites the single record for (flashcardID, username).
	Upsert(ctx context.Context, flashcardID int64, username string, status domain.Status) error

	// Find returns the record for (flashcardID, username), or nil if none exists.
	Find(ctx context.Context, flashcardID int64, username string) (*domain.ProgressRecord, error)

	// ListForUser returns every record of one user ordered by flashcard id.
	ListForUser(ctx context.Context, username string) ([]domain.ProgressRecord, error)

	// DeleteAllForUser removes every record of one user and returns how many were removed.
	DeleteAllForUser(ctx context.Context, username string) (int64, error)

	// CountForUser counts one user's records with the given status.
	CountForUser(ctx context.Context, username string, status domain.Status) (int, error)
}

// Store is a complete backend.
type Store interface {
	CardStore
	ProgressStore
	Close() error
}

// StoreError reports a failure of the storage backend itself.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("storage: failed to %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Fail wraps a backend error for the given operation.
func Fail(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

// IsStoreError reports whether err is, or wraps, a *StoreError.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

// CardNotFound returns the error used by every backend for a missing flashcard id.
func CardNotFound(id int64) error {
	return fmt.Errorf("%w: flashcard %d", domain.ErrNotFound, id)
}
