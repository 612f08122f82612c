package state

import (
	"context"
	"sync"

	"telegram-shape-relay/internal/domain"
	"telegram-shape-relay/internal/domain/model"
	"telegram-shape-relay/internal/domain/ports/repository"
)

var _ repository.DialogStateRepository = (*MemoryStateRepo)(nil)

// MemoryStateRepo keeps dialog state in process memory, guarded by a
// mutex so concurrent update handlers stay safe. There is no TTL: an
// abandoned dialog lives until overwritten, cancelled, or the process
// restarts.
type MemoryStateRepo struct {
	mu     sync.RWMutex
	states map[int64]*model.DialogState
}

func NewMemoryStateRepo() *MemoryStateRepo {
	return &MemoryStateRepo{states: make(map[int64]*model.DialogState)}
}

func (m *MemoryStateRepo) SetState(ctx context.Context, tgID int64, st *model.DialogState) error {
	if st == nil {
		return domain.ErrInvalidArgument
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *st
	m.states[tgID] = &cp
	return nil
}

func (m *MemoryStateRepo) GetState(ctx context.Context, tgID int64) (*model.DialogState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.states[tgID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *st
	return &cp, nil
}

func (m *MemoryStateRepo) ClearState(ctx context.Context, tgID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, tgID)
	return nil
}
