// Package postgres implements storage.Store on PostgreSQL using a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/conorfennell/flashdrill/internal/domain"
	"github.com/conorfennell/flashdrill/internal/knol"
	"github.com/conorfennell/flashdrill/internal/storage"
)

// foreignKeyViolationCode is the PostgreSQL error code for foreign key violations.
const foreignKeyViolationCode = "23503"

// Store implements storage.Store against PostgreSQL.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

var _ storage.Store = (*Store)(nil)

// New connects to dsn, applies pending migrations and returns the store.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	// goose runs on database/sql; borrow a *sql.DB view of the same pool.
	// Its connections return to the pool, which is closed by Store.Close.
	sqlDB := stdlib.OpenDBFromPool(pool)
	if err := storage.Migrate(sqlDB, storage.DialectPostgres, logger); err != nil {
		pool.Close()
		return nil, err
	}

	return &Store{pool: pool, logger: logger.With("component", "postgres_store")}, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) Create(ctx context.Context, question, answer string) (*domain.Flashcard, error) {
	card, err := domain.NewFlashcard(question, answer)
	if err != nil {
		return nil, err
	}

	err = s.pool.QueryRow(ctx, `
		INSERT INTO flashcards (question, answer, hash, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, card.Question, card.Answer, card.Hash, card.CreatedAt).Scan(&card.ID)
	if err != nil {
		return nil, storage.Fail("insert flashcard", err)
	}

	s.logger.Debug("flashcard created", "id", card.ID, "hash", card.Hash)
	return card, nil
}

func (s *Store) List(ctx context.Context) ([]domain.Flashcard, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, question, answer, hash, created_at
		FROM flashcards ORDER BY id
	`)
	if err != nil {
		return nil, storage.Fail("list flashcards", err)
	}
	defer rows.Close()

	var cards []domain.Flashcard
	for rows.Next() {
		var c domain.Flashcard
		if err := rows.Scan(&c.ID, &c.Question, &c.Answer, &c.Hash, &c.CreatedAt); err != nil {
			return nil, storage.Fail("scan flashcard row", err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Fail("list flashcards", err)
	}
	return cards, nil
}

func (s *Store) Get(ctx context.Context, id int64) (*domain.Flashcard, error) {
	var c domain.Flashcard
	err := s.pool.QueryRow(ctx, `
		SELECT id, question, answer, hash, created_at
		FROM flashcards WHERE id = $1
	`, id).Scan(&c.ID, &c.Question, &c.Answer, &c.Hash, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.CardNotFound(id)
		}
		return nil, storage.Fail(fmt.Sprintf("get flashcard %d", id), err)
	}
	return &c, nil
}

func (s *Store) FindByHash(ctx context.Context, hash string) (*domain.Flashcard, error) {
	var c domain.Flashcard
	err := s.pool.QueryRow(ctx, `
		SELECT id, question, answer, hash, created_at
		FROM flashcards WHERE hash = $1 ORDER BY id LIMIT 1
	`, hash).Scan(&c.ID, &c.Question, &c.Answer, &c.Hash, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storage.Fail(fmt.Sprintf("find flashcard by hash %s", hash), err)
	}
	return &c, nil
}

// Delete relies on ON DELETE CASCADE to remove the flashcard's progress.
func (s *Store) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM flashcards WHERE id = $1`, id)
	if err != nil {
		return storage.Fail(fmt.Sprintf("delete flashcard %d", id), err)
	}
	if tag.RowsAffected() == 0 {
		return storage.CardNotFound(id)
	}
	s.logger.Debug("flashcard deleted", "id", id)
	return nil
}

func (s *Store) Exists(ctx context.Context) (bool, error) {
	var exists bool
	if err := s.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM flashcards)`).Scan(&exists); err != nil {
		return false, storage.Fail("check flashcards exist", err)
	}
	return exists, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM flashcards`).Scan(&n); err != nil {
		return 0, storage.Fail("count flashcards", err)
	}
	return n, nil
}

func (s *Store) Upsert(ctx context.Context, flashcardID int64, username string, status domain.Status) error {
	rec, err := domain.NewProgressRecord(flashcardID, username, status)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, `
		INSERT INTO flashcard_progress (flashcard_id, username, status, created_at, updated_at)
		SELECT $1::bigint, $2::varchar, $3::smallint, $4::timestamptz, $4::timestamptz
		WHERE EXISTS (SELECT 1 FROM flashcards WHERE id = $1)
		ON CONFLICT (flashcard_id, username)
		DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at
	`, rec.FlashcardID, rec.Username, int16(rec.Status), rec.UpdatedAt)
	if err != nil {
		// A concurrent delete can still slip between the EXISTS check and the insert.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode {
			return storage.CardNotFound(flashcardID)
		}
		return storage.Fail(fmt.Sprintf("upsert progress for flashcard %d", flashcardID), err)
	}
	if tag.RowsAffected() == 0 {
		return storage.CardNotFound(flashcardID)
	}

	s.logger.Debug("progress saved", "flashcard_id", flashcardID, "username", rec.Username, "status", rec.Status)
	return nil
}

func (s *Store) Find(ctx context.Context, flashcardID int64, username string) (*domain.ProgressRecord, error) {
	var (
		rec    domain.ProgressRecord
		status int16
	)
	err := s.pool.QueryRow(ctx, `
		SELECT flashcard_id, username, status, updated_at
		FROM flashcard_progress WHERE flashcard_id = $1 AND username = $2
	`, flashcardID, knol.Username(username)).Scan(&rec.FlashcardID, &rec.Username, &status, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storage.Fail(fmt.Sprintf("find progress for flashcard %d", flashcardID), err)
	}

	if rec.Status, err = domain.ParseStatus(int(status)); err != nil {
		return nil, storage.Fail(fmt.Sprintf("decode progress for flashcard %d", flashcardID), err)
	}
	return &rec, nil
}

func (s *Store) ListForUser(ctx context.Context, username string) ([]domain.ProgressRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT flashcard_id, username, status, updated_at
		FROM flashcard_progress WHERE username = $1 ORDER BY flashcard_id
	`, knol.Username(username))
	if err != nil {
		return nil, storage.Fail("list progress", err)
	}
	defer rows.Close()

	var records []domain.ProgressRecord
	for rows.Next() {
		var (
			rec    domain.ProgressRecord
			status int16
		)
		if err := rows.Scan(&rec.FlashcardID, &rec.Username, &status, &rec.UpdatedAt); err != nil {
			return nil, storage.Fail("scan progress row", err)
		}
		if rec.Status, err = domain.ParseStatus(int(status)); err != nil {
			return nil, storage.Fail("decode progress row", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Fail("list progress", err)
	}
	return records, nil
}

func (s *Store) DeleteAllForUser(ctx context.Context, username string) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM flashcard_progress WHERE username = $1`, knol.Username(username))
	if err != nil {
		return 0, storage.Fail("reset progress", err)
	}
	s.logger.Info("progress reset", "username", knol.Username(username), "deleted", tag.RowsAffected())
	return tag.RowsAffected(), nil
}

func (s *Store) CountForUser(ctx context.Context, username string, status domain.Status) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM flashcard_progress WHERE username = $1 AND status = $2
	`, knol.Username(username), int16(status)).Scan(&n)
	if err != nil {
		return 0, storage.Fail("count progress", err)
	}
	return n, nil
}
