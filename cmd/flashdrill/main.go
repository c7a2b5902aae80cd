package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/conorfennell/flashdrill/internal/config"
	"github.com/conorfennell/flashdrill/internal/console"
	"github.com/conorfennell/flashdrill/internal/importer"
	"github.com/conorfennell/flashdrill/internal/logging"
	"github.com/conorfennell/flashdrill/internal/session"
	"github.com/conorfennell/flashdrill/internal/storage"
	"github.com/conorfennell/flashdrill/internal/storage/postgres"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run wires the program together and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := config.NewFlagSet("flashdrill")
	flags.SetOutput(stderr)

	cfg, err := config.Load(flags, args)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "flashdrill: %v\n", err)
		return 1
	}

	logger, err := logging.Setup(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format}, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "flashdrill: %v\n", err)
		return 1
	}
	slog.SetDefault(logger)

	store, err := openStore(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Error("failed to open storage", "driver", cfg.Storage.Driver, "error", err)
		return 1
	}
	defer store.Close()

	ui := console.New(stdin, stdout, cfg.Console.NoColor)

	if err := importSources(ctx, store, cfg.Import, ui, logger); err != nil {
		logger.Error("import failed", "error", err)
		return 1
	}

	ctrl := session.New(store, store, ui, logger)
	if err := ctrl.Run(ctx); err != nil {
		logger.Error("session failed", "error", err)
		return 1
	}
	return 0
}

func openStore(ctx context.Context, cfg config.Storage, logger *slog.Logger) (storage.Store, error) {
	switch cfg.Driver {
	case "sqlite":
		db, err := storage.Open(cfg.DSN, logger)
		if err != nil {
			return nil, err
		}
		return db, nil
	case "postgres":
		pg, err := postgres.New(ctx, cfg.DSN, logger)
		if err != nil {
			return nil, err
		}
		return pg, nil
	case "memory":
		return storage.NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

// importSources loads every configured source before the session starts.
// A source that cannot be read is reported and skipped; a store failure is returned.
func importSources(ctx context.Context, cards importer.Cards, cfg config.Import, ui *console.Console, logger *slog.Logger) error {
	for _, source := range cfg.Sources {
		res, err := importer.Run(ctx, cards, source, importer.Options{
			ReposDir: cfg.ReposDir,
			Logger:   logger,
		})
		if err != nil {
			if storage.IsStoreError(err) {
				return err
			}
			ui.Error(fmt.Sprintf("Could not import %s: %v", source, err))
			continue
		}

		ui.Info(fmt.Sprintf("Imported %d new flashcards from %s (%d already present).", res.Created, source, res.Existing))
		for _, p := range res.Problems {
			ui.Warn("Skipped " + p.String())
		}
	}
	return nil
}
