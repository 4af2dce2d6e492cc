package gateway

import (
	"context"
	"testing"
	"time"
)

func TestTokenBucketBurst(t *testing.T) {
	b := NewTokenBucket(1, 3)
	ctx := context.Background()
	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := b.Acquire(ctx); err != nil {
			t.Fatalf("acquire %d: %v", i, err)
		}
	}
	if time.Since(start) > 100*time.Millisecond {
		t.Fatal("burst tokens should not block")
	}
}

func TestTokenBucketBlocksThenRefills(t *testing.T) {
	b := NewTokenBucket(20, 1)
	ctx := context.Background()
	_ = b.Acquire(ctx)
	start := time.Now()
	if err := b.Acquire(ctx); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if time.Since(start) < 20*time.Millisecond {
		t.Fatal("second acquire should have waited for refill")
	}
}

func TestTokenBucketCancel(t *testing.T) {
	b := NewTokenBucket(0.001, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_ = b.Acquire(context.Background())
	if err := b.Acquire(ctx); err == nil {
		t.Fatal("expected context error while waiting for token")
	}
}
