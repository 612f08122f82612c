package repository

import (
	"context"

	"telegram-shape-relay/internal/domain/model"
)

// DialogStateRepository tracks the user's progress in any multi-step
// exchange. State is keyed by Telegram user id only, not by chat.
// GetState returns domain.ErrNotFound when the user is idle.
type DialogStateRepository interface {
	SetState(ctx context.Context, tgID int64, state *model.DialogState) error
	GetState(ctx context.Context, tgID int64) (*model.DialogState, error)
	ClearState(ctx context.Context, tgID int64) error
}
