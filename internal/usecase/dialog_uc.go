package usecase

import (
	"context"
	"errors"
	"strings"

	"telegram-shape-relay/internal/domain"
	"telegram-shape-relay/internal/domain/model"
	"telegram-shape-relay/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

// MinImagePromptLength is the shortest description accepted by the image
// dialog; anything below is re-prompted.
const MinImagePromptLength = 3

// Compile-time check
var _ DialogUseCase = (*dialogUC)(nil)

// DialogUseCase drives the two linear dialogs: collect-credential and
// collect-image-prompt. Only one dialog can be active per user; starting a
// new one replaces whatever was pending.
type DialogUseCase interface {
	BeginRegistration(ctx context.Context, tgID int64) error
	BeginImagePrompt(ctx context.Context, tgID int64) error

	// Pending returns the active dialog state, if any.
	Pending(ctx context.Context, tgID int64) (*model.DialogState, bool)
	// Cancel reports whether a dialog was actually open.
	Cancel(ctx context.Context, tgID int64) bool

	// SubmitAPIKey stores the key and closes the dialog. On
	// domain.ErrInputTooShort or domain.ErrStorageFailure the dialog stays
	// open so the user can try again.
	SubmitAPIKey(ctx context.Context, tgID int64, text string) error
	// SubmitImagePrompt validates the prompt, closes the dialog and
	// dispatches the generation request. A too-short prompt keeps the
	// dialog open; an upstream failure ends it (the user re-invokes).
	SubmitImagePrompt(ctx context.Context, tgID int64, text string) (string, error)
}

type dialogUC struct {
	states repository.DialogStateRepository
	creds  CredentialUseCase
	relay  RelayUseCase
	log    *zerolog.Logger
}

func NewDialogUseCase(states repository.DialogStateRepository, creds CredentialUseCase, relay RelayUseCase, logger *zerolog.Logger) *dialogUC {
	return &dialogUC{states: states, creds: creds, relay: relay, log: logger}
}

func (d *dialogUC) BeginRegistration(ctx context.Context, tgID int64) error {
	return d.states.SetState(ctx, tgID, &model.DialogState{Step: model.StepAwaitingAPIKey})
}

func (d *dialogUC) BeginImagePrompt(ctx context.Context, tgID int64) error {
	return d.states.SetState(ctx, tgID, &model.DialogState{Step: model.StepAwaitingImagePrompt})
}

func (d *dialogUC) Pending(ctx context.Context, tgID int64) (*model.DialogState, bool) {
	st, err := d.states.GetState(ctx, tgID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			d.log.Warn().Err(err).Int64("tg_id", tgID).Msg("dialog state read failed")
		}
		return nil, false
	}
	return st, true
}

func (d *dialogUC) Cancel(ctx context.Context, tgID int64) bool {
	if _, open := d.Pending(ctx, tgID); !open {
		return false
	}
	_ = d.states.ClearState(ctx, tgID)
	return true
}

func (d *dialogUC) SubmitAPIKey(ctx context.Context, tgID int64, text string) error {
	if err := d.creds.Register(ctx, tgID, text); err != nil {
		// Dialog stays open; the user retries or cancels.
		return err
	}
	_ = d.states.ClearState(ctx, tgID)
	return nil
}

func (d *dialogUC) SubmitImagePrompt(ctx context.Context, tgID int64, text string) (string, error) {
	prompt := strings.TrimSpace(text)
	if len(prompt) < MinImagePromptLength {
		return "", domain.ErrInputTooShort
	}
	_ = d.states.ClearState(ctx, tgID)
	return d.relay.GenerateImage(ctx, tgID, prompt)
}
