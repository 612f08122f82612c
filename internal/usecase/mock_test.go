//go:build !integration

package usecase_test

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"telegram-shape-relay/internal/domain"
	"telegram-shape-relay/internal/domain/model"
	"telegram-shape-relay/internal/domain/ports/repository"
)

// ===== Credential repository mock =====

type MockCredentialRepo struct {
	mu    sync.Mutex
	store map[int64]string

	PutErr error
	GetErr error
}

var _ repository.CredentialRepository = (*MockCredentialRepo)(nil)

func NewMockCredentialRepo() *MockCredentialRepo {
	return &MockCredentialRepo{store: make(map[int64]string)}
}

func (m *MockCredentialRepo) Put(ctx context.Context, cred *model.UserCredential) error {
	if m.PutErr != nil {
		return m.PutErr
	}
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

// ===== Dialog state repository mock =====

type MockStateRepo struct {
	mu     sync.Mutex
	states map[int64]*model.DialogState
}

var _ repository.DialogStateRepository = (*MockStateRepo)(nil)

func NewMockStateRepo() *MockStateRepo {
	return &MockStateRepo{states: make(map[int64]*model.DialogState)}
}

func (m *MockStateRepo) SetState(ctx context.Context, telegramID int64, st *model.DialogState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[telegramID] = st
	return nil
}

func (m *MockStateRepo) GetState(ctx context.Context, telegramID int64) (*model.DialogState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.states[telegramID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return st, nil
}

func (m *MockStateRepo) ClearState(ctx context.Context, telegramID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, telegramID)
	return nil
}

// ===== Shape adapter mock =====

// MockShapeAdapter records every payload and replies from a script keyed by
// payload, falling back to Reply.
type MockShapeAdapter struct {
	mu    sync.Mutex
	calls []string

	Replies map[string]string
	Reply   string
	Err     error
}

func NewMockShapeAdapter() *MockShapeAdapter {
	return &MockShapeAdapter{Reply: "ok", Replies: make(map[string]string)}
}

func (m *MockShapeAdapter) Complete(ctx context.Context, apiKey, text string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, text)
	m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	if r, ok := m.Replies[text]; ok {
		return r, nil
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
