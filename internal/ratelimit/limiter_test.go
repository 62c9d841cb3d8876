package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestLimiterAllow(t *testing.T) {
	l := NewLimiter("test", 600)
	if !l.Allow() {
		t.Error("first request should be allowed")
	}
	if l.Name() != "test" {
		t.Errorf("name = %q", l.Name())
	}
}

func TestLimiterWaitCancelled(t *testing.T) {
	// One request a minute with the burst already consumed: Wait must
	// return promptly on cancellation rather than blocking
	l := NewLimiter("slow", 1)
	l.Allow()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx); err == nil {
		t.Error("expected a context error from Wait")
	}
}

func TestBackoffGrowsAndResets(t *testing.T) {
	l := NewLimiter("test", 60)
	base := l.GetBackoff()

	l.SignalRateLimited()
	l.SignalRateLimited()
	if got := l.GetBackoff(); got != base*4 {
		t.Errorf("backoff after two 429s = %v, want %v", got, base*4)
	}

	// Caps at the maximum wait
	for i := 0; i < 20; i++ {
		l.SignalRateLimited()
	}
	if got := l.GetBackoff(); got > 2*time.Minute {
		t.Errorf("backoff %v exceeds the cap", got)
	}

	l.ResetBackoff()
	if got := l.GetBackoff(); got != base {
		t.Errorf("backoff after reset = %v, want %v", got, base)
	}
}
