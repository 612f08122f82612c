package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-shape-relay/internal/infra/logging"
)

type cbHandler func(ctx context.Context, chatID, actorID int64) error

// cbRoutes maps callback data to handlers. Every button the bot sends must
// have an entry here.
func (r *RealTelegramBotAdapter) cbRoutes() map[string]cbHandler {
	return map[string]cbHandler{
		"reset:confirm": func(ctx context.Context, chatID, actorID int64) error {
			return r.SendMessage(ctx, chatID, r.facade.HandleResetConfirmed(ctx, actorID))
		},
		"reset:cancel": func(ctx context.Context, chatID, actorID int64) error {
			return r.SendMessage(ctx, chatID, r.facade.HandleResetCancelled())
		},
	}
}

func (r *RealTelegramBotAdapter) handleQuery(ctx context.Context, q *tgbotapi.CallbackQuery) error {
	// Always answer the query so Telegram stops the button spinner.
	defer func() {
		cb := tgbotapi.NewCallback(q.ID, "")
		if _, err := r.bot.Request(cb); err != nil {
			r.log.Warn().Err(err).Msg("callback ack failed")
		}
	}()

	if q.From == nil {
		return nil
	}

	chatID := q.From.ID
	if q.Message != nil && q.Message.Chat != nil {
		chatID = q.Message.Chat.ID
	}

	ctx = logging.WithTgID(ctx, q.From.ID)

	fn, ok := r.cbRoutes()[q.Data]
	if !ok {
		return fmt.Errorf("unknown callback data %q", q.Data)
	}
	return fn(ctx, chatID, q.From.ID)
}
