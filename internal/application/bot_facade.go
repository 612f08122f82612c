package application

import (
	"context"
	"errors"
	"fmt"

	"telegram-shape-relay/internal/domain"
	"telegram-shape-relay/internal/domain/model"
	"telegram-shape-relay/internal/domain/ports/adapter"
	"telegram-shape-relay/internal/usecase"

	"github.com/rs/zerolog"
)

// Fixed user-facing strings. Every failure path resolves to one of these;
// nothing upstream-specific ever leaks into a chat.
const (
	msgNotRegistered = "❌ You don't have an API key registered yet.\nPlease use /register to set up your key first."
	msgUpstreamDown  = "😔 Sorry, I had trouble reaching your Shape. Please try again in a moment."
	msgStorageDown   = "⚠️ Something went wrong on my side. Please try again later."

	msgRegisterDMOnly = "🔒 For security reasons, please send me a direct message to register your API key."
	msgRegisterPrompt = "🔑 Please send me your Shapes API key.\n\nI'll store it securely to connect you to your Shape.\nYou can cancel anytime with /cancel."
	msgKeyTooShort    = "⚠️ That doesn't look like a valid API key. Please try again or use /cancel."
	msgRegistered     = "✅ Your API key has been registered successfully!\n\nYou can now use me in any chat by:\n- Mentioning me\n- Replying to my messages\n- Sending me direct messages\n\nTry it out with a simple message!"

	msgImaginePrompt   = "🎨 What should I draw? Send me a short description, or /cancel."
	msgPromptTooShort  = "⚠️ That description is a bit too short. Give me a little more to work with, or /cancel."
	msgResetConfirm    = "🧹 This will clear all of your Shape's memories. Are you sure?"
	msgResetCancelled  = "👍 Okay, your Shape's memories are safe."
	msgCancelled       = "🚫 Cancelled. You can use /register or /imagine anytime to try again."
	msgNothingToCancel = "Nothing to cancel."

	msgStartupNotice = "🤖 Shape relay bot started."
)

// BotFacade composes the usecases into high-level bot commands.
// Keep the facade methods returning strings so the Telegram adapter just
// forwards them to the chat.
type BotFacade struct {
	CredUC   usecase.CredentialUseCase
	RelayUC  usecase.RelayUseCase
	DialogUC usecase.DialogUseCase

	log *zerolog.Logger
}

func NewBotFacade(
	credUC usecase.CredentialUseCase,
	relayUC usecase.RelayUseCase,
	dialogUC usecase.DialogUseCase,
	logger *zerolog.Logger,
) *BotFacade {
	return &BotFacade{
		CredUC:   credUC,
		RelayUC:  relayUC,
		DialogUC: dialogUC,
		log:      logger,
	}
}

// HandleStart returns the /start welcome text.
func (b *BotFacade) HandleStart(botHandle string) string {
	return fmt.Sprintf(
		"👋 Hey there! I'm your Shapes connector bot.\n\n"+
			"To use me, you'll need to register your Shapes API key first.\n"+
			"Use /register to do that in a private message.\n\n"+
			"After registering, you can use me in any chat by:\n"+
			"1. Mentioning me (@%s your question)\n"+
			"2. Replying to my messages\n"+
			"3. DMing me directly\n\n"+
			"Type /help for more info.", botHandle)
}

// HandleHelp returns the /help text.
func (b *BotFacade) HandleHelp(botHandle string) string {
	return fmt.Sprintf(
		"🔍 Shape Bot Help\n\n"+
			"I connect you to your Shapes API. Here's what I can do:\n\n"+
			"🔑 /register - Register your Shapes API key (DM only)\n"+
			"🔄 /wack - Restart your Shape\n"+
			"💾 /sleep - Save a long-term memory\n"+
			"🧹 /reset - Clear your Shape's memories\n"+
			"🎨 /imagine - Generate an image\n"+
			"🚫 /cancel - Cancel a pending registration or image request\n"+
			"❓ /help - Show this help message\n\n"+
			"Once registered, talk to me in any chat by:\n"+
			"- Mentioning me: @%s hello there\n"+
			"- Replying to my messages\n"+
			"- Sending me direct messages", botHandle)
}

// HandleRegister opens the registration dialog. Registration is restricted
// to private chats so keys never appear in a group.
func (b *BotFacade) HandleRegister(ctx context.Context, tgID int64, private bool) string {
	if !private {
		return msgRegisterDMOnly
	}
	if err := b.DialogUC.BeginRegistration(ctx, tgID); err != nil {
		return msgStorageDown
	}
	return msgRegisterPrompt
}

func (b *BotFacade) HandleCancel(ctx context.Context, tgID int64) string {
	if b.DialogUC.Cancel(ctx, tgID) {
		return msgCancelled
	}
	return msgNothingToCancel
}

func (b *BotFacade) HandleRestart(ctx context.Context, tgID int64) string {
	return b.replyOrFallback(b.RelayUC.Restart(ctx, tgID))
}

func (b *BotFacade) HandleSleep(ctx context.Context, tgID int64) string {
	return b.replyOrFallback(b.RelayUC.SaveMemory(ctx, tgID))
}

// HandleResetRequest checks the precondition and asks for confirmation.
// The bool is true when the confirm/cancel buttons should be shown.
func (b *BotFacade) HandleResetRequest(ctx context.Context, tgID int64) (string, bool) {
	if _, err := b.CredUC.Lookup(ctx, tgID); err != nil {
		return fallbackFor(err), false
	}
	return msgResetConfirm, true
}

func (b *BotFacade) HandleResetConfirmed(ctx context.Context, tgID int64) string {
	return b.replyOrFallback(b.RelayUC.ClearMemories(ctx, tgID))
}

func (b *BotFacade) HandleResetCancelled() string {
	return msgResetCancelled
}

// HandleImagine opens the image dialog; it aborts immediately when the
// sender has no stored credential.
func (b *BotFacade) HandleImagine(ctx context.Context, tgID int64) string {
	if _, err := b.CredUC.Lookup(ctx, tgID); err != nil {
		return fallbackFor(err)
	}
	if err := b.DialogUC.BeginImagePrompt(ctx, tgID); err != nil {
		return msgStorageDown
	}
	return msgImaginePrompt
}

// HandleText processes a non-command text message. A pending dialog
// captures the text first, regardless of which chat it arrived from
// (dialog state is keyed by user, not by chat). Otherwise the message is
// routed: unaddressed group chatter is ignored (ok=false), everything else
// is relayed under the sender's credential.
func (b *BotFacade) HandleText(ctx context.Context, in usecase.Inbound, botHandle string) (string, bool) {
	if st, open := b.DialogUC.Pending(ctx, in.SenderID); open {
		return b.continueDialog(ctx, in.SenderID, st, in.Text), true
	}

	text, addressed := b.RelayUC.Route(in, botHandle)
	if !addressed {
		return "", false
	}
	return b.replyOrFallback(b.RelayUC.Relay(ctx, in.SenderID, text)), true
}

func (b *BotFacade) continueDialog(ctx context.Context, tgID int64, st *model.DialogState, text string) string {
	switch st.Step {
	case model.StepAwaitingAPIKey:
		err := b.DialogUC.SubmitAPIKey(ctx, tgID, text)
		switch {
		case err == nil:
			return msgRegistered
		case errors.Is(err, domain.ErrInputTooShort):
			return msgKeyTooShort
		default:
			return msgStorageDown
		}
	case model.StepAwaitingImagePrompt:
		reply, err := b.DialogUC.SubmitImagePrompt(ctx, tgID, text)
		if errors.Is(err, domain.ErrInputTooShort) {
			return msgPromptTooShort
		}
		return b.replyOrFallback(reply, err)
	default:
		// Unknown step means stale state; drop it.
		b.DialogUC.Cancel(ctx, tgID)
		return msgNothingToCancel
	}
}

// NotifyStartup pings the configured admins once the bot is polling.
func (b *BotFacade) NotifyStartup(ctx context.Context, bot adapter.TelegramBotAdapter, adminIDs []int64) {
	for _, id := range adminIDs {
		if err := bot.SendMessage(ctx, id, msgStartupNotice); err != nil {
			b.log.Warn().Err(err).Int64("tg_id", id).Msg("startup notice failed")
		}
	}
}

func (b *BotFacade) replyOrFallback(reply string, err error) string {
	if err != nil {
		return fallbackFor(err)
	}
	return reply
}

// fallbackFor maps a dispatch error to its fixed user-facing string.
func fallbackFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotRegistered):
		return msgNotRegistered
	case errors.Is(err, domain.ErrStorageFailure):
		return msgStorageDown
	default:
		return msgUpstreamDown
	}
}
