package http

import (
	"sync"
	"testing"
	"time"
)

func TestRateLimiterCapsFrames(t *testing.T) {
	r := newRateLimiter(3)
	for i := 0; i < 3; i++ {
		if !r.allow() {
			t.Fatalf("frame %d should be allowed", i+1)
		}
	}
	if r.allow() {
		t.Fatal("frame over the limit should be rejected")
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	var nilLimiter *rateLimiter
	if !nilLimiter.allow() {
		t.Fatal("nil limiter must allow everything")
	}
	r := newRateLimiter(0)
	for i := 0; i < 100; i++ {
		if !r.allow() {
			t.Fatal("zero limit must disable the cap")
		}
	}
}

// Hammers allow from several goroutines while the reset goroutine keeps
// clearing the window, so the race detector sees both sides at once.
func TestRateLimiterConcurrentResets(t *testing.T) {
	r := &rateLimiter{limit: 8, reset: time.NewTicker(time.Millisecond)}
	stop := make(chan struct{})
	r.startReset(stop)
	defer close(stop)

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 5000; i++ {
				r.allow()
			}
		}()
	}
	wg.Wait()

	// A later tick reopens the window.
	deadline := time.Now().Add(2 * time.Second)
	for !r.allow() {
		if time.Now().After(deadline) {
			t.Fatal("window never reset")
		}
		time.Sleep(time.Millisecond)
	}
}
