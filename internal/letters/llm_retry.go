package letters

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/yugant99/TaylorAI/internal/llm"
)

var retryBackoff = 2 * time.Second

// completeWithRetry calls the client once and retries a single time on a
// transient failure (timeout or upstream 5xx). The caller's context still
// bounds the whole attempt.
func completeWithRetry(ctx context.Context, client llm.Client, prompt string) (string, error) {
	out, err := client.Complete(ctx, prompt)
	if err == nil || !isTransient(err) {
		return out, err
	}

	select {
	case <-ctx.Done():
		return "", err
	case <-time.After(retryBackoff):
	}

	return client.Complete(ctx, prompt)
}

func isTransient(err error) bool {
	var statusErr *llm.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Status >= 500 || statusErr.Status == 429
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
