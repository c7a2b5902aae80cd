package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/conorfennell/flashdrill/internal/domain"
	"github.com/conorfennell/flashdrill/internal/knol"
	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// DB is the SQLite implementation of Store.
type DB struct {
	conn   *sql.DB
	logger *slog.Logger
}

var _ Store = (*DB)(nil)

// Open creates a new database connection and applies pending migrations.
// Foreign keys are enabled so deleting a flashcard cascades to its progress.
func Open(dsn string, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := sql.Open("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One session at a time; a single connection also keeps ":memory:" databases shared.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(conn, DialectSQLite, logger); err != nil {
		conn.Close()
		return nil, err
	}

	return &DB{conn: conn, logger: logger.With("component", "sqlite_store")}, nil
}

func withPragmas(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Create inserts a new flashcard after validating it.
func (db *DB) Create(ctx context.Context, question, answer string) (*domain.Flashcard, error) {
	card, err := domain.NewFlashcard(question, answer)
	if err != nil {
		return nil, err
	}

	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO flashcards (question, answer, hash, created_at)
		VALUES (?, ?, ?, ?)
	`, card.Question, card.Answer, card.Hash, card.CreatedAt)
	if err != nil {
		return nil, Fail("insert flashcard", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, Fail("get last insert ID for flashcard", err)
	}
	card.ID = id

	db.logger.Debug("flashcard created", "id", id, "hash", card.Hash)
	return card, nil
}

// List retrieves all flashcards in insertion order.
func (db *DB) List(ctx context.Context) ([]domain.Flashcard, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, question, answer, hash, created_at
		FROM flashcards ORDER BY id
	`)
	if err != nil {
		return nil, Fail("list flashcards", err)
	}
	defer rows.Close()

	var cards []domain.Flashcard
	for rows.Next() {
		var c domain.Flashcard
		if err := rows.Scan(&c.ID, &c.Question, &c.Answer, &c.Hash, &c.CreatedAt); err != nil {
			return nil, Fail("scan flashcard row", err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, Fail("list flashcards", err)
	}
	return cards, nil
}

// Get retrieves a flashcard by id.
func (db *DB) Get(ctx context.Context, id int64) (*domain.Flashcard, error) {
	var c domain.Flashcard
	err := db.conn.QueryRowContext(ctx, `
		SELECT id, question, answer, hash, created_at
		FROM flashcards WHERE id = ?
	`, id).Scan(&c.ID, &c.Question, &c.Answer, &c.Hash, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, CardNotFound(id)
		}
		return nil, Fail(fmt.Sprintf("get flashcard %d", id), err)
	}
	return &c, nil
}

// FindByHash retrieves the oldest flashcard with the given content hash.
func (db *DB) FindByHash(ctx context.Context, hash string) (*domain.Flashcard, error) {
	var c domain.Flashcard
	err := db.conn.QueryRowContext(ctx, `
		SELECT id, question, answer, hash, created_at
		FROM flashcards WHERE hash = ? ORDER BY id LIMIT 1
	`, hash).Scan(&c.ID, &c.Question, &c.Answer, &c.Hash, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Card not found
		}
		return nil, Fail(fmt.Sprintf("find flashcard by hash %s", hash), err)
	}
	return &c, nil
}

// Delete removes a flashcard together with its progress records.
func (db *DB) Delete(ctx context.Context, id int64) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return Fail("begin delete transaction", err)
	}
	defer tx.Rollback()

	// Explicit so the cascade holds even for a DSN that disabled foreign keys.
	if _, err := tx.ExecContext(ctx, `DELETE FROM flashcard_progress WHERE flashcard_id = ?`, id); err != nil {
		return Fail(fmt.Sprintf("delete progress of flashcard %d", id), err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM flashcards WHERE id = ?`, id)
	if err != nil {
		return Fail(fmt.Sprintf("delete flashcard %d", id), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Fail(fmt.Sprintf("delete flashcard %d", id), err)
	}
	if n == 0 {
		return CardNotFound(id)
	}

	if err := tx.Commit(); err != nil {
		return Fail(fmt.Sprintf("commit delete of flashcard %d", id), err)
	}
	db.logger.Debug("flashcard deleted", "id", id)
	return nil
}

// Exists reports whether any flashcard is stored.
func (db *DB) Exists(ctx context.Context) (bool, error) {
	var exists bool
	if err := db.conn.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM flashcards)`).Scan(&exists); err != nil {
		return false, Fail("check flashcards exist", err)
	}
	return exists, nil
}

// Count returns the number of flashcards.
func (db *DB) Count(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM flashcards`).Scan(&n); err != nil {
		return 0, Fail("count flashcards", err)
	}
	return n, nil
}

// Upsert creates or overwrites the progress record for (flashcardID, username).
// The insert is conditional on the flashcard existing, so no dangling record can be written.
func (db *DB) Upsert(ctx context.Context, flashcardID int64, username string, status domain.Status) error {
	rec, err := domain.NewProgressRecord(flashcardID, username, status)
	if err != nil {
		return err
	}

	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO flashcard_progress (flashcard_id, username, status, created_at, updated_at)
		SELECT ?, ?, ?, ?, ?
		WHERE EXISTS (SELECT 1 FROM flashcards WHERE id = ?)
		ON CONFLICT (flashcard_id, username)
		DO UPDATE SET status = excluded.status, updated_at = excluded.updated_at
	`,
		rec.FlashcardID,
		rec.Username,
		int(rec.Status),
		rec.UpdatedAt,
		rec.UpdatedAt,
		rec.FlashcardID,
	)
	if err != nil {
		return Fail(fmt.Sprintf("upsert progress for flashcard %d", flashcardID), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Fail(fmt.Sprintf("upsert progress for flashcard %d", flashcardID), err)
	}
	if n == 0 {
		return CardNotFound(flashcardID)
	}

	db.logger.Debug("progress saved", "flashcard_id", flashcardID, "username", rec.Username, "status", rec.Status)
	return nil
}

// Find retrieves the progress record for (flashcardID, username).
func (db *DB) Find(ctx context.Context, flashcardID int64, username string) (*domain.ProgressRecord, error) {
	var (
		rec    domain.ProgressRecord
		status int
	)
	err := db.conn.QueryRowContext(ctx, `
		SELECT flashcard_id, username, status, updated_at
		FROM flashcard_progress WHERE flashcard_id = ? AND username = ?
	`, flashcardID, knol.Username(username)).Scan(&rec.FlashcardID, &rec.Username, &status, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // No progress yet
		}
		return nil, Fail(fmt.Sprintf("find progress for flashcard %d", flashcardID), err)
	}

	if rec.Status, err = domain.ParseStatus(status); err != nil {
		return nil, Fail(fmt.Sprintf("decode progress for flashcard %d", flashcardID), err)
	}
	return &rec, nil
}

// ListForUser retrieves all progress records of one user.
func (db *DB) ListForUser(ctx context.Context, username string) ([]domain.ProgressRecord, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT flashcard_id, username, status, updated_at
		FROM flashcard_progress WHERE username = ? ORDER BY flashcard_id
	`, knol.Username(username))
	if err != nil {
		return nil, Fail("list progress", err)
	}
	defer rows.Close()

	var records []domain.ProgressRecord
	for rows.Next() {
		var (
			rec    domain.ProgressRecord
			status int
		)
		if err := rows.Scan(&rec.FlashcardID, &rec.Username, &status, &rec.UpdatedAt); err != nil {
			return nil, Fail("scan progress row", err)
		}
		if rec.Status, err = domain.ParseStatus(status); err != nil {
			return nil, Fail("decode progress row", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, Fail("list progress", err)
	}
	return records, nil
}

// DeleteAllForUser removes every progress record of one user.
func (db *DB) DeleteAllForUser(ctx context.Context, username string) (int64, error) {
	res, err := db.conn.ExecContext(ctx, `
		DELETE FROM flashcard_progress WHERE username = ?
	`, knol.Username(username))
	if err != nil {
		return 0, Fail("reset progress", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, Fail("reset progress", err)
	}

	db.logger.Info("progress reset", "username", knol.Username(username), "deleted", n)
	return n, nil
}

// CountForUser counts the records of one user with the given status.
func (db *DB) CountForUser(ctx context.Context, username string, status domain.Status) (int, error) {
	var n int
	err := db.conn.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM flashcard_progress WHERE username = ? AND status = ?
	`, knol.Username(username), int(status)).Scan(&n)
	if err != nil {
		return 0, Fail("count progress", err)
	}
	return n, nil
}
