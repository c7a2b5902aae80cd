// Package importer loads flashcards from markdown notes in a directory or a git repository.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/conorfennell/flashdrill/internal/domain"
	"github.com/conorfennell/flashdrill/internal/gitsource"
	"github.com/conorfennell/flashdrill/internal/parser"
)

// Cards is the part of the card store an import writes to.
type Cards interface {
	FindByHash(ctx context.Context, hash string) (*domain.Flashcard, error)
	Create(ctx context.Context, question, answer string) (*domain.Flashcard, error)
}

// Problem is a card or file that could not be imported.
type Problem struct {
	File string
	Line int
	Err  error
}

func (p Problem) String() string {
	if p.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", p.File, p.Line, p.Err)
	}
	return fmt.Sprintf("%s: %v", p.File, p.Err)
}

// Result summarises one import.
type Result struct {
	Source   string
	Files    int
	Parsed   int
	Created  int
	Existing int
	Problems []Problem
}

// Options configures Run. The zero value imports local directories only into "repos".
type Options struct {
	// ReposDir is where git sources are cloned.
	ReposDir string
	// Progress receives git clone and pull output. May be nil.
	Progress io.Writer
	Logger   *slog.Logger
}

// Run imports every card found in source. Cards whose content hash is already stored
// are skipped and cards failing validation are reported in Result.Problems. A store
// failure stops the import and is returned.
func Run(ctx context.Context, cards Cards, source string, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "importer", "source", source)
	if opts.ReposDir == "" {
		opts.ReposDir = "repos"
	}

	root, err := resolve(ctx, source, opts, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("starting import", "path", root)
	res := &Result{Source: source}

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}
		return importFile(ctx, cards, path, res, logger)
	})
	if walkErr != nil {
		return res, fmt.Errorf("failed to import %s: %w", source, walkErr)
	}

	logger.Info("import complete",
		"files", res.Files,
		"parsed_cards", res.Parsed,
		"created", res.Created,
		"existing", res.Existing,
		"problems", len(res.Problems),
	)
	return res, nil
}

// resolve returns the local directory holding the source, syncing git sources first.
func resolve(ctx context.Context, source string, opts Options, logger *slog.Logger) (string, error) {
	if gitsource.IsURL(source) {
		localPath, err := gitsource.LocalPath(opts.ReposDir, source)
		if err != nil {
			return "", err
		}
		if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
			return "", fmt.Errorf("failed to create repos directory: %w", err)
		}
		if err := gitsource.Sync(ctx, source, localPath, opts.Progress, logger); err != nil {
			return "", err
		}
		return localPath, nil
	}

	info, err := os.Stat(source)
	if err != nil {
		return "", fmt.Errorf("failed to open source %s: %w", source, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("source %s is not a directory", source)
	}
	return source, nil
}

func importFile(ctx context.Context, cards Cards, path string, res *Result, logger *slog.Logger) error {
	drafts, err := parser.ParseFile(path)
	if err != nil {
		res.Problems = append(res.Problems, Problem{File: path, Err: err})
		logger.Warn("failed to parse file", "file", path, "error", err)
		return nil
	}
	res.Files++
	res.Parsed += len(drafts)

	for _, d := range drafts {
		card, err := domain.NewFlashcard(d.Question, d.Answer)
		if err != nil {
			res.Problems = append(res.Problems, Problem{File: path, Line: d.Line, Err: err})
			logger.Warn("skipping invalid card", "file", path, "line", d.Line, "error", err)
			continue
		}

		existing, err := cards.FindByHash(ctx, card.Hash)
		if err != nil {
			return err
		}
		if existing != nil {
			res.Existing++
			continue
		}

		created, err := cards.Create(ctx, card.Question, card.Answer)
		if err != nil {
			if errors.Is(err, domain.ErrValidation) {
				res.Problems = append(res.Problems, Problem{File: path, Line: d.Line, Err: err})
				continue
			}
			return err
		}
		res.Created++
		logger.Debug("new card inserted", "flashcard_id", created.ID, "hash", created.Hash)
	}
	return nil
}
