package ai

import (
	"context"
	"sync"

	"telegram-shape-relay/internal/domain/ports/adapter"
)

var _ adapter.ShapeAdapter = (*NoopShapeAdapter)(nil)

// NoopShapeAdapter returns canned replies and records calls; used for dry
// runs and tests that must not reach the network.
type NoopShapeAdapter struct {
	Reply string
	Err   error

	mu    sync.Mutex
	calls []string
}

func NewNoopShapeAdapter(reply string) *NoopShapeAdapter {
	if reply == "" {
		reply = "ok"
	}
	return &NoopShapeAdapter{Reply: reply}
}

func (n *NoopShapeAdapter) Complete(ctx context.Context, apiKey, text string) (string, error) {
	n.mu.Lock()
	n.calls = append(n.calls, text)
	n.mu.Unlock()
	if n.Err != nil {
		return "", n.Err
	}
	return n.Reply, nil
}

func (n *NoopShapeAdapter) CountTokens(text string) int { return len(text) / 4 }

// Calls returns a copy of the payloads sent so far.
func (n *NoopShapeAdapter) Calls() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.calls))
	copy(out, n.calls)
	return out
}
