package adapter

import "context"

// ShapeAdapter is the port for the upstream Shapes API. The adapter holds
// no credential of its own: every call carries the caller's stored API key,
// so each user talks to their own Shape.
type ShapeAdapter interface {
	// Complete sends one user message and returns the assistant text.
	// A single synchronous round trip; no retry on failure.
	Complete(ctx context.Context, apiKey, text string) (string, error)

	// CountTokens estimates prompt tokens for the given text
	// (best-effort when exact counting is not available).
	CountTokens(text string) int
}
