package stream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffDelay_NeverExceedsMaxDelay(t *testing.T) {
	r := NewRetryHandler(nil, "dlq")

	for attempt := 0; attempt < 10; attempt++ {
		delay := r.backoffDelay(attempt)
		assert.LessOrEqual(t, delay, r.maxDelay)
		assert.GreaterOrEqual(t, delay, time.Duration(0))
	}
}

func TestBackoffDelay_GrowsWithAttemptUntilCapped(t *testing.T) {
	r := NewRetryHandler(nil, "dlq")

	// backoffDelay is random, but attempt 0 always lands in [100ms, 200ms)
	// and attempt 3 in [800ms, 1.6s), so any two samples compare.
	small := r.backoffDelay(0)
	large := r.backoffDelay(3)

	assert.Greater(t, large, small)
	assert.LessOrEqual(t, small, r.maxDelay)
	assert.LessOrEqual(t, large, r.maxDelay)
}
