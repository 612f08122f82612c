//go:build !integration

package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"telegram-shape-relay/internal/domain"
	"telegram-shape-relay/internal/domain/model"
	"telegram-shape-relay/internal/infra/db/sqlite"
)

func newTestRepo(t *testing.T) *sqlite.SQLiteCredentialRepo {
	t.Helper()
	logger := zerolog.Nop()
	repo, err := sqlite.NewSQLiteCredentialRepo(filepath.Join(t.TempDir(), "test.db"), &logger)
	if err != nil {
		t.Fatalf("opening sqlite repo failed: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteCredentialRepo(t *testing.T) {
	ctx := context.Background()

	t.Run("get before put returns not found", func(t *testing.T) {
		repo := newTestRepo(t)
		_, err := repo.Get(ctx, 1)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("put then get round-trips the key", func(t *testing.T) {
		repo := newTestRepo(t)
		if err := repo.Put(ctx, &model.UserCredential{TelegramID: 1, APIKey: "sk-0123456789"}); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		cred, err := repo.Get(ctx, 1)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if cred.APIKey != "sk-0123456789" {
			t.Errorf("APIKey = %q", cred.APIKey)
		}
	})

	t.Run("put is an upsert", func(t *testing.T) {
		repo := newTestRepo(t)
		repo.Put(ctx, &model.UserCredential{TelegramID: 1, APIKey: "first-key-00"})
		repo.Put(ctx, &model.UserCredential{TelegramID: 1, APIKey: "second-key-1"})

		cred, err := repo.Get(ctx, 1)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if cred.APIKey != "second-key-1" {
			t.Errorf("APIKey = %q, want the second key", cred.APIKey)
		}
		n, _ := repo.Count(ctx)
		if n != 1 {
			t.Errorf("Count = %d, want 1", n)
		}
	})

	t.Run("delete reports prior existence", func(t *testing.T) {
		repo := newTestRepo(t)
		repo.Put(ctx, &model.UserCredential{TelegramID: 1, APIKey: "sk-0123456789"})

		existed, err := repo.Delete(ctx, 1)
		if err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if !existed {
			t.Error("expected existed = true")
		}

		existed, err = repo.Delete(ctx, 1)
		if err != nil {
			t.Fatalf("second Delete failed: %v", err)
		}
		if existed {
			t.Error("expected existed = false for a missing row")
		}
	})

	t.Run("count tracks distinct users", func(t *testing.T) {
		repo := newTestRepo(t)
		for i := int64(1); i <= 3; i++ {
			repo.Put(ctx, &model.UserCredential{TelegramID: i, APIKey: "sk-0123456789"})
		}
		n, err := repo.Count(ctx)
		if err != nil {
			t.Fatalf("Count failed: %v", err)
		}
		if n != 3 {
			t.Errorf("Count = %d, want 3", n)
		}
	})
}
