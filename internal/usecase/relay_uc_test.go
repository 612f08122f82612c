//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"telegram-shape-relay/internal/domain"
	"telegram-shape-relay/internal/usecase"
)

func TestRelayUseCase_Route(t *testing.T) {
	uc := usecase.NewRelayUseCase(NewMockCredentialRepo(), NewMockShapeAdapter(), newTestLogger())

	tests := []struct {
		name          string
		in            usecase.Inbound
		wantText      string
		wantAddressed bool
	}{
		{
			name:          "private chat passes through verbatim",
			in:            usecase.Inbound{Kind: usecase.ChatPrivate, Text: "hello there"},
			wantText:      "hello there",
			wantAddressed: true,
		},
		{
			name:          "group mention strips the leading handle",
			in:            usecase.Inbound{Kind: usecase.ChatGroup, Text: "@shapebot hello"},
			wantText:      "hello",
			wantAddressed: true,
		},
		{
			name:          "mention matching is case-insensitive",
			in:            usecase.Inbound{Kind: usecase.ChatGroup, Text: "@ShapeBot what's up"},
			wantText:      "what's up",
			wantAddressed: true,
		},
		{
			name:          "unaddressed group chatter is ignored",
			in:            usecase.Inbound{Kind: usecase.ChatGroup, Text: "just chatting"},
			wantAddressed: false,
		},
		{
			name:          "longer token starting with the handle does not count",
			in:            usecase.Inbound{Kind: usecase.ChatGroup, Text: "@shapebotfan hello"},
			wantAddressed: false,
		},
		{
			name:          "reply to the bot is addressed and left unmodified",
			in:            usecase.Inbound{Kind: usecase.ChatGroup, Text: "and you?", ReplyToBot: true},
			wantText:      "and you?",
			wantAddressed: true,
		},
		{
			name:          "mid-text mention addresses but only a leading one is stripped",
			in:            usecase.Inbound{Kind: usecase.ChatGroup, Text: "hey @shapebot hello"},
			wantText:      "hey @shapebot hello",
			wantAddressed: true,
		},
		{
			name:          "bare mention forwards an empty string",
			in:            usecase.Inbound{Kind: usecase.ChatGroup, Text: "@shapebot"},
			wantText:      "",
			wantAddressed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, addressed := uc.Route(tt.in, "shapebot")
			if addressed != tt.wantAddressed {
				t.Fatalf("addressed = %v, want %v", addressed, tt.wantAddressed)
			}
			if addressed && text != tt.wantText {
				t.Errorf("text = %q, want %q", text, tt.wantText)
			}
		})
	}
}

func TestRelayUseCase_Relay(t *testing.T) {
	ctx := context.Background()

	t.Run("unregistered user never reaches upstream", func(t *testing.T) {
		adapterMock := NewMockShapeAdapter()
		uc := usecase.NewRelayUseCase(NewMockCredentialRepo(), adapterMock, newTestLogger())

		_, err := uc.Relay(ctx, 42, "hi")
		if !errors.Is(err, domain.ErrNotRegistered) {
			t.Fatalf("expected ErrNotRegistered, got %v", err)
		}
		if n := len(adapterMock.Calls()); n != 0 {
			t.Errorf("expected zero upstream calls, got %d", n)
		}
	})

	t.Run("registered user gets the upstream reply", func(t *testing.T) {
		repo := NewMockCredentialRepo()
		adapterMock := NewMockShapeAdapter()
		adapterMock.Replies["hi"] = "hey!"
		uc := usecase.NewRelayUseCase(repo, adapterMock, newTestLogger())

		seedCredential(t, repo, 42, "sk-1234567890")

		reply, err := uc.Relay(ctx, 42, "hi")
		if err != nil {
			t.Fatalf("Relay failed: %v", err)
		}
		if reply != "hey!" {
			t.Errorf("reply = %q, want %q", reply, "hey!")
		}
	})

	t.Run("upstream failure is wrapped", func(t *testing.T) {
		repo := NewMockCredentialRepo()
		adapterMock := NewMockShapeAdapter()
		adapterMock.Err = errors.New("503 from gateway")
		uc := usecase.NewRelayUseCase(repo, adapterMock, newTestLogger())

		seedCredential(t, repo, 42, "sk-1234567890")

		_, err := uc.Relay(ctx, 42, "hi")
		if !errors.Is(err, domain.ErrUpstreamFailure) {
			t.Fatalf("expected ErrUpstreamFailure, got %v", err)
		}
	})

	t.Run("storage failure is wrapped", func(t *testing.T) {
		repo := NewMockCredentialRepo()
		repo.GetErr = errors.New("connection refused")
		uc := usecase.NewRelayUseCase(repo, NewMockShapeAdapter(), newTestLogger())

		_, err := uc.Relay(ctx, 42, "hi")
		if !errors.Is(err, domain.ErrStorageFailure) {
			t.Fatalf("expected ErrStorageFailure, got %v", err)
		}
	})
}

func TestRelayUseCase_ControlPayloads(t *testing.T) {
	ctx := context.Background()

	repo := NewMockCredentialRepo()
	adapterMock := NewMockShapeAdapter()
	uc := usecase.NewRelayUseCase(repo, adapterMock, newTestLogger())

	seedCredential(t, repo, 7, "sk-abcdefghij")

	if _, err := uc.Restart(ctx, 7); err != nil {
		t.Fatalf("Restart failed: %v", err)
	}
	if _, err := uc.SaveMemory(ctx, 7); err != nil {
		t.Fatalf("SaveMemory failed: %v", err)
	}
	if _, err := uc.ClearMemories(ctx, 7); err != nil {
		t.Fatalf("ClearMemories failed: %v", err)
	}
	if _, err := uc.GenerateImage(ctx, 7, "a cat in a hat"); err != nil {
		t.Fatalf("GenerateImage failed: %v", err)
	}

	want := []string{"!wack", "!sleep", "!reset", "!imagine a cat in a hat"}
	got := adapterMock.Calls()
	if len(got) != len(want) {
		t.Fatalf("upstream calls = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func seedCredential(t *testing.T, repo *MockCredentialRepo, tgID int64, key string) {
	t.Helper()
	uc := usecase.NewCredentialUseCase(repo, newTestLogger(), false)
	if err := uc.Register(context.Background(), tgID, key); err != nil {
		t.Fatalf("seeding credential failed: %v", err)
	}
}
