package stream

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RetryHandler retries a fallible operation with exponential backoff
// and jitter, pushing the original message fields to a dead-letter
// stream once the attempt budget is exhausted.
type RetryHandler struct {
	client        *redis.Client
	deadLetterKey string
	maxAttempts   int
	baseDelay     time.Duration
	maxDelay      time.Duration
}

// NewRetryHandler builds a handler writing to deadLetterKey on
// exhaustion.
func NewRetryHandler(client *redis.Client, deadLetterKey string) *RetryHandler {
	return &RetryHandler{
		client:        client,
		deadLetterKey: deadLetterKey,
		maxAttempts:   5,
		baseDelay:     200 * time.Millisecond,
		maxDelay:      10 * time.Second,
	}
}

// RetryWithBackoff calls fn until it succeeds, the context is
// cancelled, or the attempt budget runs out; on final exhaustion the
// original fields are pushed to the dead-letter stream and the last
// error is returned.
func (r *RetryHandler) RetryWithBackoff(ctx context.Context, fn func() error, messageID string, fields map[string]interface{}) error {
	var lastErr error

	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		log.Warn().
			Err(lastErr).
			Str("message_id", messageID).
			Int("attempt", attempt+1).
			Msg("Processing attempt failed, will retry")

		if attempt == r.maxAttempts-1 {
			break
		}

		delay := r.backoffDelay(attempt)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	if err := r.sendToDeadLetter(ctx, messageID, fields, lastErr); err != nil {
		log.Error().Err(err).Str("message_id", messageID).Msg("Failed to write to dead letter stream")
	}

	return lastErr
}

func (r *RetryHandler) backoffDelay(attempt int) time.Duration {
	exp := math.Pow(2, float64(attempt))
	delay := time.Duration(float64(r.baseDelay) * exp)
	if delay > r.maxDelay {
		delay = r.maxDelay
	}
	jitter := time.Duration(rand.Int63n(int64(delay) / 2))
	return delay/2 + jitter
}

func (r *RetryHandler) sendToDeadLetter(ctx context.Context, messageID string, fields map[string]interface{}, cause error) error {
	values := map[string]interface{}{
		"originalMessageId": messageID,
		"error":             cause.Error(),
	}
	for k, v := range fields {
		values[k] = v
	}

	return r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: r.deadLetterKey,
		Values: values,
	}).Err()
}
