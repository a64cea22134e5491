package firebase

import (
	"context"
	"time"

	"firebase.google.com/go/v4/errorutils"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const initialBackoff = 200 * time.Millisecond

// Retry runs op, retrying transient backend failures with exponential
// backoff up to the configured attempt limit. Only reads and idempotent
// writes go through here; everything else calls the SDK directly.
func (c *Client) Retry(ctx context.Context, op func() error) error {
	return retry(ctx, c.retryAttempts, op)
}

func retry(ctx context.Context, attempts int, op func() error) error {
	delay := initialBackoff
	var err error
	for attempt := 0; ; attempt++ {
		err = op()
		if err == nil || attempt >= attempts || !Transient(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(delay):
		}
		delay *= 2
	}
}

// Transient reports whether a failure is worth retrying: the backend was
// unreachable, overloaded, or the call timed out.
func Transient(err error) bool {
	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted:
			return true
		}
	}
	return errorutils.IsUnavailable(err)
}
