package telegram

import (
	"context"
	"sync"

	"telegram-shape-relay/internal/domain/ports/adapter"
)

var _ adapter.TelegramBotAdapter = (*NoopBotAdapter)(nil)

// SentMessage records one outbound message for assertions.
type SentMessage struct {
	TelegramID int64
	Text       string
}

// NoopBotAdapter collects outbound messages instead of talking to Telegram.
type NoopBotAdapter struct {
	mu   sync.Mutex
	Sent []SentMessage
}

func NewNoopBotAdapter() *NoopBotAdapter { return &NoopBotAdapter{} }

func (n *NoopBotAdapter) SendMessage(ctx context.Context, telegramID int64, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Sent = append(n.Sent, SentMessage{TelegramID: telegramID, Text: text})
	return nil
}

func (n *NoopBotAdapter) SendButtons(ctx context.Context, telegramID int64, text string, rows [][]adapter.InlineButton) error {
	return n.SendMessage(ctx, telegramID, text)
}
