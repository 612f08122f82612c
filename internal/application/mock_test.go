//go:build !integration

package application_test

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"telegram-shape-relay/internal/domain"
	"telegram-shape-relay/internal/domain/model"
	"telegram-shape-relay/internal/domain/ports/repository"
)

type MockCredentialRepo struct {
	mu    sync.Mutex
	store map[int64]string

	GetErr error
}

var _ repository.CredentialRepository = (*MockCredentialRepo)(nil)

func NewMockCredentialRepo() *MockCredentialRepo {
	return &MockCredentialRepo{store: make(map[int64]string)}
}

func (m *MockCredentialRepo) Put(ctx context.Context, cred *model.UserCredential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[cred.TelegramID] = cred.APIKey
	return nil
}

func (m *MockCredentialRepo) Get(ctx context.Context, telegramID int64) (*model.UserCredential, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key, ok := m.store[telegramID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &model.UserCredential{TelegramID: telegramID, APIKey: key}, nil
}

func (m *MockCredentialRepo) Delete(ctx context.Context, telegramID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.store[telegramID]
	delete(m.store, telegramID)
	return ok, nil
}

func (m *MockCredentialRepo) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.store), nil
}

type MockShapeAdapter struct {
	mu    sync.Mutex
	calls []string

	Reply string
	Err   error
}

func NewMockShapeAdapter() *MockShapeAdapter {
	return &MockShapeAdapter{Reply: "shape says hi"}
}

func (m *MockShapeAdapter) Complete(ctx context.Context, apiKey, text string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, text)
	m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	return m.Reply, nil
}

func (m *MockShapeAdapter) CountTokens(text string) int { return len(text) / 4 }

func (m *MockShapeAdapter) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}
