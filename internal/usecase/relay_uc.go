// File: internal/usecase/relay_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"telegram-shape-relay/internal/domain"
	"telegram-shape-relay/internal/domain/ports/adapter"
	"telegram-shape-relay/internal/domain/ports/repository"
	"telegram-shape-relay/internal/infra/logging"
	"telegram-shape-relay/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// ChatKind distinguishes one-to-one chats from multi-party groups.
type ChatKind string

const (
	ChatPrivate ChatKind = "private"
	ChatGroup   ChatKind = "group"
)

// Inbound is one text message as delivered by the chat transport.
type Inbound struct {
	SenderID   int64
	Kind       ChatKind
	Text       string
	ReplyToBot bool // the message directly replies to one of the bot's messages
}

// Control payloads the Shapes API understands as commands.
const (
	payloadRestart = "!wack"
	payloadSleep   = "!sleep"
	payloadReset   = "!reset"
	payloadImagine = "!imagine"
)

// Compile-time check
var _ RelayUseCase = (*relayUC)(nil)

// RelayUseCase routes inbound messages and dispatches them to the Shapes
// API under the sender's stored credential.
type RelayUseCase interface {
	// Route decides whether the message is addressed to the bot and what
	// text to forward. Pure classification; no I/O.
	Route(in Inbound, botHandle string) (text string, addressed bool)

	Relay(ctx context.Context, tgID int64, text string) (string, error)
	Restart(ctx context.Context, tgID int64) (string, error)
	SaveMemory(ctx context.Context, tgID int64) (string, error)
	ClearMemories(ctx context.Context, tgID int64) (string, error)
	GenerateImage(ctx context.Context, tgID int64, prompt string) (string, error)
}

type relayUC struct {
	creds repository.CredentialRepository
	ai    adapter.ShapeAdapter
	log   *zerolog.Logger
}

func NewRelayUseCase(creds repository.CredentialRepository, ai adapter.ShapeAdapter, logger *zerolog.Logger) *relayUC {
	return &relayUC{creds: creds, ai: ai, log: logger}
}

// Route implements the addressing rules:
//   - private chat: always addressed, text passes through unmodified
//   - group chat: addressed only via an @handle token or a reply to the bot
//   - a leading mention token is stripped before forwarding; a message that
//     is empty after stripping is still forwarded as an empty string
func (r *relayUC) Route(in Inbound, botHandle string) (string, bool) {
	if in.Kind == ChatPrivate {
		return in.Text, true
	}
	if botHandle != "" && containsMentionToken(in.Text, botHandle) {
		return stripLeadingMention(in.Text, botHandle), true
	}
	if in.ReplyToBot {
		return in.Text, true
	}
	return "", false
}

func (r *relayUC) Relay(ctx context.Context, tgID int64, text string) (string, error) {
	return r.dispatch(ctx, tgID, text, "relay")
}

func (r *relayUC) Restart(ctx context.Context, tgID int64) (string, error) {
	return r.dispatch(ctx, tgID, payloadRestart, "restart")
}

func (r *relayUC) SaveMemory(ctx context.Context, tgID int64) (string, error) {
	return r.dispatch(ctx, tgID, payloadSleep, "sleep")
}

func (r *relayUC) ClearMemories(ctx context.Context, tgID int64) (string, error) {
	return r.dispatch(ctx, tgID, payloadReset, "reset")
}

func (r *relayUC) GenerateImage(ctx context.Context, tgID int64, prompt string) (string, error) {
	return r.dispatch(ctx, tgID, payloadImagine+" "+prompt, "imagine")
}

// dispatch looks up the caller's credential and performs one synchronous
// upstream call. There is no retry: any upstream error ends the interaction.
func (r *relayUC) dispatch(ctx context.Context, tgID int64, payload, kind string) (string, error) {
	defer logging.TraceDuration(r.log, "RelayUC."+kind)()

	cred, err := r.creds.Get(ctx, tgID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.IncRelay(kind, "not_registered")
			return "", domain.ErrNotRegistered
		}
		metrics.IncRelay(kind, "storage_error")
		logging.With(ctx, r.log).Error().Err(err).Str("kind", kind).Msg("credential lookup failed")
		return "", fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}

	start := time.Now()
	reply, err := r.ai.Complete(ctx, cred.APIKey, payload)
	latencyMs := float64(time.Since(start).Milliseconds())
	if err != nil {
		metrics.ObserveUpstream(kind, latencyMs, false)
		metrics.IncRelay(kind, "upstream_error")
		logging.With(ctx, r.log).Error().Err(err).Str("kind", kind).Msg("upstream call failed")
		return "", fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}
	metrics.ObserveUpstream(kind, latencyMs, true)
	metrics.AddTokensRelayed(r.ai.CountTokens(payload))
	metrics.IncRelay(kind, "ok")
	return reply, nil
}

// containsMentionToken reports whether the bot's handle appears as a
// whitespace-delimited @token anywhere in the text (case-insensitive).
func containsMentionToken(text, handle string) bool {
	needle := "@" + strings.ToLower(handle)
	for _, f := range strings.Fields(text) {
		if strings.ToLower(f) == needle {
			return true
		}
	}
	return false
}

// stripLeadingMention removes a leading @handle token plus the whitespace
// after it. Mentions elsewhere in the text are left alone.
func stripLeadingMention(text, handle string) string {
	mention := "@" + handle
	if len(text) < len(mention) || !strings.EqualFold(text[:len(mention)], mention) {
		return text
	}
	rest := text[len(mention):]
	if rest != "" && !strings.ContainsRune(" \t\n", rune(rest[0])) {
		// Longer token that merely starts with the handle, e.g. @handleX.
		return text
	}
	return strings.TrimLeft(rest, " \t\n")
}
