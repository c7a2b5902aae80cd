package importer

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/flashdrill/internal/domain"
	"github.com/conorfennell/flashdrill/internal/storage"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func quiet() Options {
	return Options{Logger: slog.New(slog.DiscardHandler)}
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	dir := writeFiles(t, map[string]string{
		"maths.md":          "Q: 2+2?\nA: 4\n\nQ: 3*3?\nA: 9\n",
		"geo/europe.MD":     "Q: Capital of France?\nA: Paris\nC: Europe\n",
		"geo/duplicate.md":  "Q:  2+2? \nA: 4\n",
		"notes.txt":         "Q: Ignored?\nA: yes\n",
		".hidden/secret.md": "Q: Hidden?\nA: yes\n",
		"broken.md":         "Q: No answer\n---\nQ: " + strings.Repeat("x", 256) + "\nA: long\n",
	})
	store := storage.NewMemory()

	res, err := Run(ctx, store, dir, quiet())
	require.NoError(t, err)

	assert.Equal(t, 4, res.Files)
	assert.Equal(t, 6, res.Parsed)
	assert.Equal(t, 3, res.Created)
	assert.Equal(t, 1, res.Existing)
	require.Len(t, res.Problems, 2)
	for _, p := range res.Problems {
		assert.ErrorIs(t, p.Err, domain.ErrValidation)
		assert.Equal(t, filepath.Join(dir, "broken.md"), p.File)
	}
	assert.Equal(t, 1, res.Problems[0].Line)
	assert.Equal(t, 3, res.Problems[1].Line)

	cards, err := store.List(ctx)
	require.NoError(t, err)
	var questions []string
	for _, c := range cards {
		questions = append(questions, c.Question)
	}
	assert.ElementsMatch(t, []string{"2+2?", "3*3?", "Capital of France?"}, questions)
}

func TestRun_Twice(t *testing.T) {
	ctx := context.Background()
	dir := writeFiles(t, map[string]string{
		"cards.md": "Q: 2+2?\nA: 4\n---\nQ: 3*3?\nA: 9\n",
	})
	store := storage.NewMemory()

	first, err := Run(ctx, store, dir, quiet())
	require.NoError(t, err)
	assert.Equal(t, 2, first.Created)

	second, err := Run(ctx, store, dir, quiet())
	require.NoError(t, err)
	assert.Zero(t, second.Created)
	assert.Equal(t, 2, second.Existing)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRun_ManualCardIsNotImportedAgain(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	_, err := store.Create(ctx, "2+2?", "4")
	require.NoError(t, err)

	dir := writeFiles(t, map[string]string{"cards.md": "Q: 2+2?\nA: 4\n"})
	res, err := Run(ctx, store, dir, quiet())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Existing)
	assert.Zero(t, res.Created)
}

func TestRun_BadSource(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()

	_, err := Run(ctx, store, filepath.Join(t.TempDir(), "missing"), quiet())
	assert.Error(t, err)

	dir := writeFiles(t, map[string]string{"cards.md": "Q: 2+2?\nA: 4\n"})
	_, err = Run(ctx, store, filepath.Join(dir, "cards.md"), quiet())
	assert.Error(t, err)

	_, err = Run(ctx, store, "https://example.com/", quiet())
	assert.Error(t, err)
	assert.False(t, storage.IsStoreError(err))
}

type failingCards struct{}

func (failingCards) FindByHash(context.Context, string) (*domain.Flashcard, error) {
	return nil, storage.Fail("find flashcard by hash", errors.New("disk I/O error"))
}

func (failingCards) Create(context.Context, string, string) (*domain.Flashcard, error) {
	return nil, errors.New("unexpected create")
}

func TestRun_StoreFailureAborts(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.md": "Q: 2+2?\nA: 4\n",
		"b.md": "Q: 3*3?\nA: 9\n",
	})

	res, err := Run(context.Background(), failingCards{}, dir, quiet())
	require.Error(t, err)
	assert.True(t, storage.IsStoreError(err))
	assert.Equal(t, 1, res.Files)
}

func TestProblem_String(t *testing.T) {
	p := Problem{File: "cards.md", Line: 3, Err: domain.ErrEmptyField}
	assert.Equal(t, "cards.md:3: cannot be empty", p.String())

	p = Problem{File: "cards.md", Err: errors.New("permission denied")}
	assert.Equal(t, "cards.md: permission denied", p.String())
}
