package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telegram-shape-relay/internal/application"
	"telegram-shape-relay/internal/config"
	"telegram-shape-relay/internal/domain/ports/adapter"
	"telegram-shape-relay/internal/infra/logging"
	"telegram-shape-relay/internal/infra/metrics"
	red "telegram-shape-relay/internal/infra/redis"
	"telegram-shape-relay/internal/usecase"
)

var _ adapter.TelegramBotAdapter = (*RealTelegramBotAdapter)(nil)

// RealTelegramBotAdapter uses tgbotapi to poll updates and delegates to
// BotFacade. Handlers for different users run concurrently on a small
// worker pool so one slow upstream call never blocks unrelated chats.
type RealTelegramBotAdapter struct {
	bot    *tgbotapi.BotAPI
	cfg    *config.BotConfig
	facade *application.BotFacade
	log    *zerolog.Logger

	// rateLimiter may be nil: limiting is skipped when redis is not configured.
	rateLimiter *red.RateLimiter

	updateWorkers int
	cancelPolling context.CancelFunc
}

func NewRealTelegramBotAdapter(cfg *config.BotConfig, facade *application.BotFacade, rateLimiter *red.RateLimiter, logger *zerolog.Logger) (*RealTelegramBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if facade == nil {
		return nil, errors.New("bot facade is nil")
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 5
	}

	return &RealTelegramBotAdapter{
		bot:           bot,
		cfg:           cfg,
		facade:        facade,
		rateLimiter:   rateLimiter,
		updateWorkers: workers,
		log:           logger,
	}, nil
}

// handle is the bot's mention handle without the leading @.
func (r *RealTelegramBotAdapter) handle() string {
	if r.cfg.Username != "" {
		return r.cfg.Username
	}
	return r.bot.Self.UserName
}

func (r *RealTelegramBotAdapter) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < r.updateWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case up := <-updateChan:
					if err := r.handleUpdate(ctx, up); err != nil {
						r.log.Error().Err(err).Int("worker", id).Msg("update handling failed")
					}
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			close(updateChan)
			wg.Wait()
			return ctx.Err()
		case up := <-updates:
			updateChan <- up
		}
	}
}

func (r *RealTelegramBotAdapter) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

func (r *RealTelegramBotAdapter) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	// ----- Inline button callbacks -----
	if update.CallbackQuery != nil {
		return r.handleQuery(ctx, update.CallbackQuery)
	}

	// ----- Regular messages -----
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Text == "" {
		return nil
	}

	ctx = logging.WithTraceID(ctx, uuid.NewString())
	ctx = logging.WithTgID(ctx, msg.From.ID)

	cmd := commandName(msg.Text)
	metricName := "message"
	if cmd != "" {
		metricName = "/" + cmd
	}
	metrics.IncTelegramCommand(metricName)

	if r.rateLimiter != nil {
		allowed, err := r.rateLimiter.Allow(ctx, red.UserCommandKey(msg.From.ID, metricName), 20, time.Minute)
		if err != nil {
			r.log.Warn().Err(err).Msg("rate limit check failed")
		} else if !allowed {
			metrics.IncRateLimitTriggered()
			return r.SendMessage(ctx, msg.Chat.ID, "Rate limit exceeded. Please try again later.")
		}
	}

	if cmd != "" {
		if fn, ok := r.commandRoutes()[cmd]; ok {
			return fn(ctx, msg)
		}
		// Unknown commands are ignored, same as other bots' commands in a group.
		return nil
	}

	in := usecase.Inbound{
		SenderID:   msg.From.ID,
		Kind:       chatKind(msg.Chat),
		Text:       msg.Text,
		ReplyToBot: repliesToBot(msg, r.bot.Self.ID),
	}
	reply, ok := r.facade.HandleText(ctx, in, r.handle())
	if !ok {
		return nil
	}
	logging.With(ctx, r.log).Debug().Str("kind", string(in.Kind)).Msg("relayed message")
	return r.SendMessage(ctx, msg.Chat.ID, reply)
}

// SendMessage sends a plain text reply to the chat.
func (r *RealTelegramBotAdapter) SendMessage(ctx context.Context, tgID int64, text string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	msg := tgbotapi.NewMessage(tgID, text)
	_, err := r.bot.Send(msg)
	return err
}

// SendButtons sends a message with inline buttons.
// - If btn.URL is set, the button opens a link
// - Else if btn.Data is set, the button sends callback data
// - Else a safe fallback uses btn.Text as callback data
func (r *RealTelegramBotAdapter) SendButtons(
	ctx context.Context,
	telegramID int64,
	text string,
	rows [][]adapter.InlineButton,
) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	kbRows := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		kbRow := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			label := strings.TrimSpace(btn.Text)
			if label == "" {
				label = "•"
			}
			var kb tgbotapi.InlineKeyboardButton
			switch {
			case btn.URL != "":
				kb = tgbotapi.NewInlineKeyboardButtonURL(label, btn.URL)
			case btn.Data != "":
				kb = tgbotapi.NewInlineKeyboardButtonData(label, btn.Data)
			default:
				kb = tgbotapi.NewInlineKeyboardButtonData(label, label)
			}
			kbRow = append(kbRow, kb)
		}
		kbRows = append(kbRows, kbRow)
	}

	markup := tgbotapi.NewInlineKeyboardMarkup(kbRows...)
	msg := tgbotapi.NewMessage(telegramID, text)
	msg.ReplyMarkup = markup
	_, err := r.bot.Send(msg)
	return err
}

// commandName extracts the bare command from the first token, tolerating
// the /cmd@BotName form Telegram uses in groups. Empty for plain text.
func commandName(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return ""
	}
	name := strings.TrimPrefix(fields[0], "/")
	if i := strings.Index(name, "@"); i >= 0 {
		name = name[:i]
	}
	return strings.ToLower(name)
}

func chatKind(chat *tgbotapi.Chat) usecase.ChatKind {
	if chat != nil && chat.IsPrivate() {
		return usecase.ChatPrivate
	}
	return usecase.ChatGroup
}

func repliesToBot(msg *tgbotapi.Message, botID int64) bool {
	return msg.ReplyToMessage != nil &&
		msg.ReplyToMessage.From != nil &&
		msg.ReplyToMessage.From.ID == botID
}

func isPrivate(msg *tgbotapi.Message) bool {
	return msg.Chat != nil && msg.Chat.IsPrivate()
}
