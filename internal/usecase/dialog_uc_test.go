//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"telegram-shape-relay/internal/domain"
	"telegram-shape-relay/internal/domain/model"
	"telegram-shape-relay/internal/usecase"
)

func newDialogFixture() (usecase.DialogUseCase, *MockCredentialRepo, *MockShapeAdapter) {
	credRepo := NewMockCredentialRepo()
	adapterMock := NewMockShapeAdapter()
	credUC := usecase.NewCredentialUseCase(credRepo, newTestLogger(), false)
	relayUC := usecase.NewRelayUseCase(credRepo, adapterMock, newTestLogger())
	return usecase.NewDialogUseCase(NewMockStateRepo(), credUC, relayUC, newTestLogger()), credRepo, adapterMock
}

func TestDialogUseCase_Registration(t *testing.T) {
	ctx := context.Background()

	t.Run("a valid key closes the dialog and stores the credential", func(t *testing.T) {
		uc, credRepo, _ := newDialogFixture()

		if err := uc.BeginRegistration(ctx, 1); err != nil {
			t.Fatalf("BeginRegistration failed: %v", err)
		}
		if _, open := uc.Pending(ctx, 1); !open {
			t.Fatal("expected a pending dialog after BeginRegistration")
		}

		if err := uc.SubmitAPIKey(ctx, 1, "sk-0123456789ab"); err != nil {
			t.Fatalf("SubmitAPIKey failed: %v", err)
		}
		if _, open := uc.Pending(ctx, 1); open {
			t.Error("expected the dialog to be closed after a valid key")
		}
		if cred, err := credRepo.Get(ctx, 1); err != nil || cred.APIKey != "sk-0123456789ab" {
			t.Errorf("stored credential = %v, %v", cred, err)
		}
	})

	t.Run("a short key keeps the dialog open", func(t *testing.T) {
		uc, _, _ := newDialogFixture()

		if err := uc.BeginRegistration(ctx, 1); err != nil {
			t.Fatalf("BeginRegistration failed: %v", err)
		}
		err := uc.SubmitAPIKey(ctx, 1, "abcde")
		if !errors.Is(err, domain.ErrInputTooShort) {
			t.Fatalf("expected ErrInputTooShort, got %v", err)
		}
		st, open := uc.Pending(ctx, 1)
		if !open {
			t.Fatal("expected the dialog to stay open for a retry")
		}
		if st.Step != model.StepAwaitingAPIKey {
			t.Errorf("Step = %q, want %q", st.Step, model.StepAwaitingAPIKey)
		}
	})

	t.Run("cancel reports whether a dialog was open", func(t *testing.T) {
		uc, _, _ := newDialogFixture()

		if uc.Cancel(ctx, 1) {
			t.Error("expected Cancel to return false with no dialog open")
		}
		if err := uc.BeginRegistration(ctx, 1); err != nil {
			t.Fatalf("BeginRegistration failed: %v", err)
		}
		if !uc.Cancel(ctx, 1) {
			t.Error("expected Cancel to return true for an open dialog")
		}
		if _, open := uc.Pending(ctx, 1); open {
			t.Error("expected no pending dialog after Cancel")
		}
	})
}

func TestDialogUseCase_ImagePrompt(t *testing.T) {
	ctx := context.Background()

	t.Run("a short prompt keeps the dialog open", func(t *testing.T) {
		uc, _, adapterMock := newDialogFixture()

		if err := uc.BeginImagePrompt(ctx, 2); err != nil {
			t.Fatalf("BeginImagePrompt failed: %v", err)
		}
		_, err := uc.SubmitImagePrompt(ctx, 2, "ab")
		if !errors.Is(err, domain.ErrInputTooShort) {
			t.Fatalf("expected ErrInputTooShort, got %v", err)
		}
		if _, open := uc.Pending(ctx, 2); !open {
			t.Error("expected the dialog to stay open for a retry")
		}
		if n := len(adapterMock.Calls()); n != 0 {
			t.Errorf("expected zero upstream calls, got %d", n)
		}
	})

	t.Run("a valid prompt closes the dialog and dispatches", func(t *testing.T) {
		uc, credRepo, adapterMock := newDialogFixture()
		seedCredential(t, credRepo, 2, "sk-0123456789")
		adapterMock.Reply = "here is your image"

		if err := uc.BeginImagePrompt(ctx, 2); err != nil {
			t.Fatalf("BeginImagePrompt failed: %v", err)
		}
		reply, err := uc.SubmitImagePrompt(ctx, 2, "a red fox")
		if err != nil {
			t.Fatalf("SubmitImagePrompt failed: %v", err)
		}
		if reply != "here is your image" {
			t.Errorf("reply = %q", reply)
		}
		if _, open := uc.Pending(ctx, 2); open {
			t.Error("expected the dialog to be closed")
		}
		calls := adapterMock.Calls()
		if len(calls) != 1 || calls[0] != "!imagine a red fox" {
			t.Errorf("upstream calls = %v, want [!imagine a red fox]", calls)
		}
	})

	t.Run("an upstream failure still ends the dialog", func(t *testing.T) {
		uc, credRepo, adapterMock := newDialogFixture()
		seedCredential(t, credRepo, 2, "sk-0123456789")
		adapterMock.Err = errors.New("timeout")

		if err := uc.BeginImagePrompt(ctx, 2); err != nil {
			t.Fatalf("BeginImagePrompt failed: %v", err)
		}
		_, err := uc.SubmitImagePrompt(ctx, 2, "a red fox")
		if !errors.Is(err, domain.ErrUpstreamFailure) {
			t.Fatalf("expected ErrUpstreamFailure, got %v", err)
		}
		if _, open := uc.Pending(ctx, 2); open {
			t.Error("expected the dialog to be closed after dispatch")
		}
	})
}
