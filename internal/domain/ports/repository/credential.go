package repository

import (
	"context"

	"telegram-shape-relay/internal/domain/model"
)

// -----------------------------
// Credentials
// -----------------------------

// CredentialRepository persists per-user Shapes API keys.
// Put is an idempotent upsert (last writer wins). Get returns
// domain.ErrNotFound when the user never registered; callers treat that as
// the "please register" branch, not as a failure.
type CredentialRepository interface {
	Put(ctx context.Context, cred *model.UserCredential) error
	Get(ctx context.Context, telegramID int64) (*model.UserCredential, error)
	// Delete reports whether a credential existed. No bot command calls it
	// today; it is part of the store contract for tooling and tests.
	Delete(ctx context.Context, telegramID int64) (bool, error)
	Count(ctx context.Context) (int, error)
}
