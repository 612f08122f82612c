package usecase

import (
	"context"
	"errors"
	"fmt"

	"telegram-shape-relay/internal/domain"
	"telegram-shape-relay/internal/domain/model"
	"telegram-shape-relay/internal/domain/ports/repository"
	"telegram-shape-relay/internal/infra/logging"
	"telegram-shape-relay/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ CredentialUseCase = (*credentialUC)(nil)

// CredentialUseCase exposes the per-user API key operations used by the
// registration dialog and the admin surface.
type CredentialUseCase interface {
	// Register validates and upserts the key. Registering again overwrites.
	Register(ctx context.Context, tgID int64, apiKey string) error
	// Lookup returns domain.ErrNotRegistered when no key is stored.
	Lookup(ctx context.Context, tgID int64) (*model.UserCredential, error)
	// Forget reports whether a key existed. Not wired to any bot command.
	Forget(ctx context.Context, tgID int64) (bool, error)
	Count(ctx context.Context) (int, error)
}

type credentialUC struct {
	creds   repository.CredentialRepository
	log     *zerolog.Logger
	devMode bool
}

func NewCredentialUseCase(creds repository.CredentialRepository, logger *zerolog.Logger, devMode bool) *credentialUC {
	return &credentialUC{creds: creds, log: logger, devMode: devMode}
}

func (c *credentialUC) Register(ctx context.Context, tgID int64, apiKey string) error {
	defer logging.TraceDuration(c.log, "CredentialUC.Register")()

	cred, err := model.NewUserCredential(tgID, apiKey)
	if err != nil {
		return err
	}
	if err := c.creds.Put(ctx, cred); err != nil {
		// The caller must treat the user as still unregistered.
		c.log.Error().Err(err).Int64("tg_id", tgID).Msg("store api key failed")
		return fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}
	metrics.IncUsersRegistered()
	c.log.Info().Int64("tg_id", tgID).
		Str("api_key", logging.Redact(cred.APIKey, c.devMode)).
		Msg("api key registered")
	return nil
}

func (c *credentialUC) Lookup(ctx context.Context, tgID int64) (*model.UserCredential, error) {
	defer logging.TraceDuration(c.log, "CredentialUC.Lookup")()

	cred, err := c.creds.Get(ctx, tgID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotRegistered
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}
	return cred, nil
}

func (c *credentialUC) Forget(ctx context.Context, tgID int64) (bool, error) {
	defer logging.TraceDuration(c.log, "CredentialUC.Forget")()

	existed, err := c.creds.Delete(ctx, tgID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}
	if existed {
		c.log.Info().Int64("tg_id", tgID).Msg("api key deleted")
	}
	return existed, nil
}

func (c *credentialUC) Count(ctx context.Context) (int, error) {
	return c.creds.Count(ctx)
}
