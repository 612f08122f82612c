package ai

import (
	"context"
	"errors"
	"time"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/pkoukk/tiktoken-go"

	"telegram-shape-relay/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.ShapeAdapter = (*ShapesAdapter)(nil)

// ShapesAdapter implements adapter.ShapeAdapter against the Shapes
// OpenAI-compatible gateway. Base URL defaults to
// https://api.shapes.inc/v1 (configurable).
// Chat completions path is the same as OpenAI: /chat/completions
// Authorization: Bearer <the user's own SHAPES_API_KEY>
//
// The adapter is constructed without a credential; a client is built per
// call with the caller's key, so every user talks to their own Shape.
type ShapesAdapter struct {
	base  string
	model string
	enc   *tiktoken.Tiktoken
}

func NewShapesAdapter(base, model string) (*ShapesAdapter, error) {
	if base == "" {
		base = "https://api.shapes.inc/v1"
	}
	if model == "" {
		return nil, errors.New("shapes model empty")
	}
	// Token counting is best effort; the encoder may be unavailable offline.
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		enc = nil
	}
	return &ShapesAdapter{base: base, model: model, enc: enc}, nil
}

func (s *ShapesAdapter) Complete(ctx context.Context, apiKey, text string) (string, error) {
	if apiKey == "" {
		return "", errors.New("empty api key")
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(s.base),
		option.WithRequestTimeout(30*time.Second),
	)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(text),
		},
	})
	if err != nil {
		return "", err
	}
	for _, c := range resp.Choices {
		if c.Message.Content != "" {
			return c.Message.Content, nil
		}
	}
	return "", errors.New("no choice content")
}

func (s *ShapesAdapter) CountTokens(text string) int {
	if s.enc == nil {
		// ~4 chars per token is close enough for a counter.
		return len(text) / 4
	}
	return len(s.enc.Encode(text, nil, nil))
}
