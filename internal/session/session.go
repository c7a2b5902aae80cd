// Package session runs one interactive flashcard session: it asks for a username,
// then loops over the main menu until the user exits or input ends.
package session

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/conorfennell/flashdrill/internal/knol"
)

// UI is the presentation boundary a Controller talks through.
// Prompt methods return io.EOF once input is exhausted.
type UI interface {
	Prompt(message string) (string, error)
	PromptWithDefault(message, def string) (string, error)
	Confirm(message string, def bool) (bool, error)
	Table(headers []string, rows [][]string)
	Info(message string)
	Error(message string)
	Warn(message string)
	Line(message string)
}

// Session is the context of one run for one user. It is passed to every action.
type Session struct {
	ID       uuid.UUID
	Username string
	Logger   *slog.Logger
}

func newSession(username string, logger *slog.Logger) *Session {
	id := uuid.New()
	name := knol.Username(username)
	return &Session{
		ID:       id,
		Username: name,
		Logger:   logger.With("session_id", id.String(), "username", name),
	}
}
