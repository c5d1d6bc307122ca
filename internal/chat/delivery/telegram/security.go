package telegram

import (
	"crypto/hmac"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// secretHeader carries the secret_token registered with setWebhook.
const secretHeader = "X-Telegram-Bot-Api-Secret-Token"

// validSecret compares the header with the configured secret in constant time.
// An empty configured secret accepts every request.
func validSecret(configured, got string) bool {
	if configured == "" {
		return true
	}
	return hmac.Equal([]byte(configured), []byte(got))
}

// minBurst lets a user send a short run of messages before throttling applies.
const minBurst = 10

// rateLimiter is a per-user token bucket with auto-cleanup of idle users.
type rateLimiter struct {
	mu       sync.Mutex
	limiters *expirable.LRU[int64, *rate.Limiter]
	rate     rate.Limit
	burst    int
}

// newRateLimiter returns nil when requestsPerMin is not positive, which disables limiting.
func newRateLimiter(requestsPerMin int) *rateLimiter {
	if requestsPerMin <= 0 {
		return nil
	}
	burst := max(requestsPerMin/10, minBurst)
	return &rateLimiter{
		limiters: expirable.NewLRU[int64, *rate.Limiter](
			10000,
			nil,
			time.Minute*5,
		),
		rate:  rate.Limit(float64(requestsPerMin) / 60.0),
		burst: burst,
	}
}

func (rl *rateLimiter) Allow(userID int64) bool {
	if rl == nil {
		return true
	}
	return rl.limiter(userID).Allow()
}

func (rl *rateLimiter) limiter(userID int64) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, ok := rl.limiters.Get(userID)
	if !ok {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters.Add(userID, limiter)
	}
	return limiter
}
