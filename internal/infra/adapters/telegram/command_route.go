package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-shape-relay/internal/domain/ports/adapter"
)

type commandHandler func(ctx context.Context, m *tgbotapi.Message) error

// commandRoutes maps bare command names to handlers. Unknown commands fall
// through and are silently ignored.
func (r *RealTelegramBotAdapter) commandRoutes() map[string]commandHandler {
	return map[string]commandHandler{
		"start": func(ctx context.Context, m *tgbotapi.Message) error {
			return r.SendMessage(ctx, m.Chat.ID, r.facade.HandleStart(r.handle()))
		},
		"help": func(ctx context.Context, m *tgbotapi.Message) error {
			return r.SendMessage(ctx, m.Chat.ID, r.facade.HandleHelp(r.handle()))
		},
		"register": func(ctx context.Context, m *tgbotapi.Message) error {
			return r.SendMessage(ctx, m.Chat.ID, r.facade.HandleRegister(ctx, m.From.ID, isPrivate(m)))
		},
		"cancel": func(ctx context.Context, m *tgbotapi.Message) error {
			return r.SendMessage(ctx, m.Chat.ID, r.facade.HandleCancel(ctx, m.From.ID))
		},
		"wack": func(ctx context.Context, m *tgbotapi.Message) error {
			return r.SendMessage(ctx, m.Chat.ID, r.facade.HandleRestart(ctx, m.From.ID))
		},
		"sleep": func(ctx context.Context, m *tgbotapi.Message) error {
			return r.SendMessage(ctx, m.Chat.ID, r.facade.HandleSleep(ctx, m.From.ID))
		},
		"reset": func(ctx context.Context, m *tgbotapi.Message) error {
			reply, confirm := r.facade.HandleResetRequest(ctx, m.From.ID)
			if !confirm {
				return r.SendMessage(ctx, m.Chat.ID, reply)
			}
			rows := [][]adapter.InlineButton{{
				{Text: "✅ Yes, clear memories", Data: "reset:confirm"},
				{Text: "🚫 Cancel", Data: "reset:cancel"},
			}}
			return r.SendButtons(ctx, m.Chat.ID, reply, rows)
		},
		"imagine": func(ctx context.Context, m *tgbotapi.Message) error {
			return r.SendMessage(ctx, m.Chat.ID, r.facade.HandleImagine(ctx, m.From.ID))
		},
	}
}
