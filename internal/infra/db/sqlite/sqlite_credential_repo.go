package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"telegram-shape-relay/internal/domain"
	"telegram-shape-relay/internal/domain/model"
	"telegram-shape-relay/internal/domain/ports/repository"
)

var _ repository.CredentialRepository = (*SQLiteCredentialRepo)(nil)

// SQLiteCredentialRepo stores credentials in a local SQLite file, the
// zero-dependency deployment option. Schema is created on open.
type SQLiteCredentialRepo struct {
	db  *sql.DB
	log *zerolog.Logger
}

func NewSQLiteCredentialRepo(path string, logger *zerolog.Logger) (*SQLiteCredentialRepo, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// WAL keeps concurrent handler reads from blocking on writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	const schema = `
CREATE TABLE IF NOT EXISTS credentials (
    telegram_id INTEGER PRIMARY KEY,
    api_key     TEXT NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info().Str("path", path).Msg("sqlite credential store initialized")
	return &SQLiteCredentialRepo{db: db, log: logger}, nil
}

func (r *SQLiteCredentialRepo) Put(ctx context.Context, cred *model.UserCredential) error {
	const q = `INSERT OR REPLACE INTO credentials (telegram_id, api_key) VALUES (?, ?);`
	if _, err := r.db.ExecContext(ctx, q, cred.TelegramID, cred.APIKey); err != nil {
		r.log.Error().Str("op", "put").Err(err).Msg("credential store error")
		return err
	}
	return nil
}

func (r *SQLiteCredentialRepo) Get(ctx context.Context, telegramID int64) (*model.UserCredential, error) {
	const q = `SELECT telegram_id, api_key FROM credentials WHERE telegram_id = ?;`
	var c model.UserCredential
	if err := r.db.QueryRowContext(ctx, q, telegramID).Scan(&c.TelegramID, &c.APIKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.log.Error().Str("op", "get").Err(err).Msg("credential store error")
		return nil, err
	}
	return &c, nil
}

func (r *SQLiteCredentialRepo) Delete(ctx context.Context, telegramID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM credentials WHERE telegram_id = ?;`, telegramID)
	if err != nil {
		r.log.Error().Str("op", "delete").Err(err).Msg("credential store error")
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *SQLiteCredentialRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM credentials;`).Scan(&n); err != nil {
		r.log.Error().Str("op", "count").Err(err).Msg("credential store error")
		return 0, err
	}
	return n, nil
}

func (r *SQLiteCredentialRepo) Close() error { return r.db.Close() }
