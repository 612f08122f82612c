package redis

import (
	"context"
	"fmt"
	"time"

	"telegram-shape-relay/internal/domain/model"
	"telegram-shape-relay/internal/domain/ports/repository"
	"telegram-shape-relay/internal/infra/metrics"
)

var _ repository.CredentialRepository = (*CachedCredentialRepo)(nil)

// CachedCredentialRepo wraps a CredentialRepository with a redis
// read-through cache. The key is looked up on every inbound message, so a
// hit saves one store round trip per relay. Writes and deletes invalidate.
type CachedCredentialRepo struct {
	inner  repository.CredentialRepository
	client Client
	ttl    time.Duration
}

func NewCachedCredentialRepo(inner repository.CredentialRepository, client Client, ttl time.Duration) *CachedCredentialRepo {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachedCredentialRepo{inner: inner, client: client, ttl: ttl}
}

func credKey(tgID int64) string { return fmt.Sprintf("cred:%d", tgID) }

func (c *CachedCredentialRepo) Get(ctx context.Context, telegramID int64) (*model.UserCredential, error) {
	if v, err := c.client.Get(ctx, credKey(telegramID)); err == nil {
		metrics.IncCacheHit("credentials")
		return &model.UserCredential{TelegramID: telegramID, APIKey: v}, nil
	} else if !IsNil(err) {
		// Redis being down must not break lookups; fall through to the store.
		metrics.IncCacheMiss("credentials")
		return c.inner.Get(ctx, telegramID)
	}
	metrics.IncCacheMiss("credentials")

	cred, err := c.inner.Get(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	_ = c.client.Set(ctx, credKey(telegramID), cred.APIKey, c.ttl)
	return cred, nil
}

func (c *CachedCredentialRepo) Put(ctx context.Context, cred *model.UserCredential) error {
	if err := c.inner.Put(ctx, cred); err != nil {
		return err
	}
	_ = c.client.Del(ctx, credKey(cred.TelegramID))
	return nil
}

func (c *CachedCredentialRepo) Delete(ctx context.Context, telegramID int64) (bool, error) {
	existed, err := c.inner.Delete(ctx, telegramID)
	if err != nil {
		return false, err
	}
	_ = c.client.Del(ctx, credKey(telegramID))
	return existed, nil
}

func (c *CachedCredentialRepo) Count(ctx context.Context) (int, error) {
	return c.inner.Count(ctx)
}
