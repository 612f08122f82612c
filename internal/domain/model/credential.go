package model

import (
	"strings"

	"telegram-shape-relay/internal/domain"
)

// MinAPIKeyLength is the only validation applied to a key during
// registration. Shapes keys are opaque strings; anything shorter is
// assumed to be a typo and re-prompted.
const MinAPIKeyLength = 10

// UserCredential maps a Telegram user to the Shapes API key they
// registered. At most one credential exists per user; re-registering
// silently overwrites.
type UserCredential struct {
	TelegramID int64
	APIKey     string
}

func NewUserCredential(tgID int64, apiKey string) (*UserCredential, error) {
	if tgID <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	apiKey = strings.TrimSpace(apiKey)
	if len(apiKey) < MinAPIKeyLength {
		return nil, domain.ErrInputTooShort
	}
	return &UserCredential{TelegramID: tgID, APIKey: apiKey}, nil
}
