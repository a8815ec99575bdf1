package ratelimit

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestLimiterAllowsUpToMax(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := NewLimiter(client, 3, time.Minute)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, "user-1")
		if err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}
		if !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	ok, err := limiter.Allow(ctx, "user-1")
	if err != nil {
		t.Fatalf("allow over limit: %v", err)
	}
	if ok {
		t.Fatalf("request over the limit should be rejected")
	}
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := NewLimiter(client, 1, time.Minute)

	ctx := context.Background()
	if ok, _ := limiter.Allow(ctx, "user-1"); !ok {
		t.Fatalf("first request for user-1 should be allowed")
	}
	if ok, _ := limiter.Allow(ctx, "user-1"); ok {
		t.Fatalf("second request for user-1 should be rejected")
	}
	if ok, _ := limiter.Allow(ctx, "user-2"); !ok {
		t.Fatalf("user-2 should not be affected by user-1's counter")
	}
}
