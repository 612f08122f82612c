package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog"

	"telegram-shape-relay/internal/domain"
	"telegram-shape-relay/internal/domain/model"
	"telegram-shape-relay/internal/domain/ports/repository"
)

var _ repository.CredentialRepository = (*PostgresCredentialRepo)(nil)

type PostgresCredentialRepo struct {
	pool *pgxpool.Pool
	log  *zerolog.Logger
}

func NewPostgresCredentialRepo(pool *pgxpool.Pool, logger *zerolog.Logger) *PostgresCredentialRepo {
	return &PostgresCredentialRepo{pool: pool, log: logger}
}

func (r *PostgresCredentialRepo) Put(ctx context.Context, cred *model.UserCredential) error {
	const q = `
INSERT INTO credentials (telegram_id, api_key)
VALUES ($1, $2)
ON CONFLICT (telegram_id) DO UPDATE SET api_key = EXCLUDED.api_key;`
	if _, err := r.pool.Exec(ctx, q, cred.TelegramID, cred.APIKey); err != nil {
		r.logStoreError("put", err)
		return err
	}
	return nil
}

func (r *PostgresCredentialRepo) Get(ctx context.Context, telegramID int64) (*model.UserCredential, error) {
	const q = `SELECT telegram_id, api_key FROM credentials WHERE telegram_id = $1;`
	var c model.UserCredential
	if err := r.pool.QueryRow(ctx, q, telegramID).Scan(&c.TelegramID, &c.APIKey); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logStoreError("get", err)
		return nil, err
	}
	return &c, nil
}

func (r *PostgresCredentialRepo) Delete(ctx context.Context, telegramID int64) (bool, error) {
	const q = `DELETE FROM credentials WHERE telegram_id = $1;`
	ct, err := r.pool.Exec(ctx, q, telegramID)
	if err != nil {
		r.logStoreError("delete", err)
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *PostgresCredentialRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM credentials;`).Scan(&n); err != nil {
		r.logStoreError("count", err)
		return 0, err
	}
	return n, nil
}

// logStoreError surfaces the SQLSTATE when the driver reports one.
func (r *PostgresCredentialRepo) logStoreError(op string, err error) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		r.log.Error().Str("op", op).Str("sqlstate", pgErr.Code).Msg("credential store error")
		return
	}
	r.log.Error().Str("op", op).Err(err).Msg("credential store error")
}
