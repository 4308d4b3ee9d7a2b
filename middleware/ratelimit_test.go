package middleware

import (
	"testing"
	"time"
)

func TestTokenBucketExhaustion(t *testing.T) {
	tb := NewTokenBucket(3, 0.001) // refill slow enough to be irrelevant

	for i := 0; i < 3; i++ {
		if !tb.Allow() {
			t.Fatalf("request %d denied with tokens remaining", i+1)
		}
	}
	if tb.Allow() {
		t.Error("request allowed on empty bucket")
	}
}

func TestTokenBucketRetryAfter(t *testing.T) {
	tb := NewTokenBucket(1, 1) // one token per second

	if got := tb.RetryAfter(); got != 0 {
		t.Errorf("RetryAfter() on full bucket = %v, want 0", got)
	}

	if !tb.Allow() {
		t.Fatal("first request denied on full bucket")
	}
	if tb.Allow() {
		t.Fatal("second request allowed on empty bucket")
	}

	retry := tb.RetryAfter()
	if retry <= 0 || retry > 2*time.Second {
		t.Errorf("RetryAfter() = %v, want a positive hint around one second", retry)
	}
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter(2, 60)

	if !rl.Allow("u:1") || !rl.Allow("u:1") {
		t.Fatal("first caller denied within limit")
	}
	if rl.Allow("u:1") {
		t.Error("first caller allowed over limit")
	}

	// A different key gets its own bucket
	if !rl.Allow("u:2") {
		t.Error("second caller denied by first caller's bucket")
	}
}

func TestThrottleUnknownPresetPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Throttle() with unknown preset did not panic")
		}
	}()
	Throttle("no-such-preset")
}

func TestKnownPresetsExist(t *testing.T) {
	for _, name := range []string{"challenge", "challengeGameplay", "public", "auth"} {
		if Throttle(name) == nil {
			t.Errorf("preset %q returned nil handler", name)
		}
	}
}
