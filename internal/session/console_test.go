package session

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/flashdrill/internal/console"
	"github.com/conorfennell/flashdrill/internal/domain"
	"github.com/conorfennell/flashdrill/internal/storage"
)

func TestRun_WithConsole(t *testing.T) {
	store, err := storage.Open(t.TempDir()+"/flashdrill.db", slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	input := strings.Join([]string{
		"Payam",
		"1", "2+2?", "4",
		"3", "1", "5", "1", "4", "1", "0",
		"4",
		"",
	}, "\n") + "\n"

	var out bytes.Buffer
	ui := console.New(strings.NewReader(input), &out, true)
	ctrl := New(store, store, ui, slog.New(slog.DiscardHandler))

	require.NoError(t, ctrl.Run(context.Background()))

	got := out.String()
	for _, want := range []string{
		"Flashcard created successfully.",
		"Practice Progress:",
		"Incorrect answer!",
		"Correct answer!",
		"You have already answered this flashcard correctly. Please choose another one.",
		"Correct Percentage: 100%",
		"│ 1  │ 2+2?     │ Correct │",
		"│ 1               │ 100%       │ 100%      │",
	} {
		assert.Contains(t, got, want)
	}

	rec, err := store.Find(context.Background(), 1, "payam")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, domain.Correct, rec.Status)
}
