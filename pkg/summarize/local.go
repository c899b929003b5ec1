package summarize

import (
	"context"
	"fmt"
)

// LocalProvider reserves the "local" kind for self-hosted models. It is not wired to a backend.
type LocalProvider struct{}

func (LocalProvider) Summarize(context.Context, Request) (string, error) {
	return "", fmt.Errorf("%w: local LLM integration", ErrNotImplemented)
}
