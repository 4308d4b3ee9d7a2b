// middleware/ratelimit.go - Per-Identity Request Throttling
//
// Token-bucket limiters behind named presets. The guard runs before any
// state mutation and short-circuits with 429 plus a retry-after hint. The
// backing store is an in-process map; the engine only ever sees the
// Throttle handler, so a shared cache can replace the map for multi-instance
// deployments without touching the call sites.
package middleware

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Token bucket rate limiter implementation
type TokenBucket struct {
	tokens         float64
	maxTokens      float64
	refillRate     float64 // tokens per second
	lastRefillTime time.Time
	mu             sync.Mutex
}

func NewTokenBucket(maxTokens, refillRate float64) *TokenBucket {
	return &TokenBucket{
		tokens:         maxTokens,
		maxTokens:      maxTokens,
		refillRate:     refillRate,
		lastRefillTime: time.Now(),
	}
}

func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefillTime).Seconds()
	tb.tokens += elapsed * tb.refillRate
	if tb.tokens > tb.maxTokens {
		tb.tokens = tb.maxTokens
	}
	tb.lastRefillTime = now

	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}

// RetryAfter reports how long until the bucket refills one token
func (tb *TokenBucket) RetryAfter() time.Duration {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	if tb.tokens >= 1 {
		return 0
	}
	missing := 1 - tb.tokens
	seconds := missing / tb.refillRate
	return time.Duration(math.Ceil(seconds)) * time.Second
}

// RateLimiter stores one bucket per key
type RateLimiter struct {
	buckets map[string]*TokenBucket
	mu      sync.RWMutex

	maxRequests   int
	windowSeconds int
}

func NewRateLimiter(maxRequests, windowSeconds int) *RateLimiter {
	return &RateLimiter{
		buckets:       make(map[string]*TokenBucket),
		maxRequests:   maxRequests,
		windowSeconds: windowSeconds,
	}
}

func (rl *RateLimiter) getBucket(key string) *TokenBucket {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	bucket, exists := rl.buckets[key]
	if !exists {
		refillRate := float64(rl.maxRequests) / float64(rl.windowSeconds) // tokens/sec
		bucket = NewTokenBucket(float64(rl.maxRequests), refillRate)
		rl.buckets[key] = bucket
	}
	return bucket
}

func (rl *RateLimiter) Allow(key string) bool {
	return rl.getBucket(key).Allow()
}

func (rl *RateLimiter) RetryAfter(key string) time.Duration {
	return rl.getBucket(key).RetryAfter()
}

// Named presets. "challenge" guards creation-style mutations,
// "challengeGameplay" allows high-frequency polling and score updates,
// "public" is IP-keyed for anonymous leaderboard reads.
type preset struct {
	limiter *RateLimiter
	byIP    bool
}

var (
	presets   map[string]*preset
	presetsMu sync.RWMutex
)

func init() {
	presets = map[string]*preset{
		"challenge": {
			limiter: NewRateLimiter(getEnvInt("RATE_LIMIT_CHALLENGE_MAX", 20), getEnvInt("RATE_LIMIT_CHALLENGE_WINDOW_S", 60)),
		},
		"challengeGameplay": {
			limiter: NewRateLimiter(getEnvInt("RATE_LIMIT_GAMEPLAY_MAX", 120), getEnvInt("RATE_LIMIT_GAMEPLAY_WINDOW_S", 60)),
		},
		"public": {
			limiter: NewRateLimiter(getEnvInt("RATE_LIMIT_PUBLIC_MAX", 60), getEnvInt("RATE_LIMIT_PUBLIC_WINDOW_S", 60)),
			byIP:    true,
		},
		"auth": {
			limiter: NewRateLimiter(getEnvInt("RATE_LIMIT_AUTH_MAX", 5), getEnvInt("RATE_LIMIT_AUTH_WINDOW_S", 300)),
			byIP:    true,
		},
	}

	// Cleanup idle buckets every 10 minutes
	go startCleanupRoutine()
}

// Throttle returns a Fiber handler enforcing the named preset. User-keyed
// presets fall back to the client IP when no identity is on the request.
func Throttle(name string) fiber.Handler {
	presetsMu.RLock()
	p, ok := presets[name]
	presetsMu.RUnlock()
	if !ok {
		panic("unknown rate limit preset: " + name)
	}

	return func(c *fiber.Ctx) error {
		if rateLimitDisabled() {
			return c.Next()
		}

		key := c.IP()
		if !p.byIP {
			if uid, err := userIDFromLocals(c); err == nil {
				key = fmt.Sprintf("u:%d", uid)
			}
		}

		if !p.limiter.Allow(key) {
			retryAfter := int(p.limiter.RetryAfter(key).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Set("Retry-After", strconv.Itoa(retryAfter))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success":     false,
				"error":       "Too many requests. Please slow down.",
				"retry_after": retryAfter,
			})
		}
		return c.Next()
	}
}

// Cleanup old buckets periodically
func startCleanupRoutine() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		presetsMu.RLock()
		for _, p := range presets {
			cleanupOldBuckets(p.limiter)
		}
		presetsMu.RUnlock()
	}
}

func cleanupOldBuckets(rl *RateLimiter) {
	if rl == nil {
		return
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for key, bucket := range rl.buckets {
		bucket.mu.Lock()
		// Remove buckets that haven't been accessed in 30 minutes
		if now.Sub(bucket.lastRefillTime) > 30*time.Minute {
			delete(rl.buckets, key)
		}
		bucket.mu.Unlock()
	}
}

// Helper functions

func getEnvInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return def
}

func rateLimitDisabled() bool {
	// RATE_LIMIT_ENABLED=false disables the guard (dev/test only)
	val := strings.ToLower(strings.TrimSpace(os.Getenv("RATE_LIMIT_ENABLED")))
	return val == "false" || val == "0" || val == "no"
}
