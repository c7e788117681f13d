package llm

import (
	"context"
	"fmt"
)

// Client produces a completion for a single prompt.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// StatusError reports an upstream HTTP failure from the provider.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("llm: provider returned status %d", e.Status)
}
