package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterAllow(t *testing.T) {
	limiter := NewRateLimiter(3, 1*time.Second)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("192.168.1.1") {
			t.Errorf("request %d should be allowed", i+1)
		}
	}

	if limiter.Allow("192.168.1.1") {
		t.Error("4th request should be blocked")
	}

	if !limiter.Allow("192.168.1.2") {
		t.Error("request from different address should be allowed")
	}
}

func TestRateLimiterWindowExpiration(t *testing.T) {
	limiter := NewRateLimiter(2, 200*time.Millisecond)

	limiter.Allow("192.168.1.1")
	limiter.Allow("192.168.1.1")

	if limiter.Allow("192.168.1.1") {
		t.Error("request should be blocked before window expires")
	}

	time.Sleep(250 * time.Millisecond)

	if !limiter.Allow("192.168.1.1") {
		t.Error("request should be allowed after window expires")
	}
}
