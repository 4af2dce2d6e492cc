package gateway

import (
	"context"
	"sync"
	"time"
)

// RateLimiter 控制出站请求速率，避免触发交易所限流。
type RateLimiter interface {
	Acquire(ctx context.Context) error
}

// TokenBucket 令牌桶限流器；Acquire 在无可用令牌时阻塞到补足或 ctx 取消。
type TokenBucket struct {
	mu       sync.Mutex
	perSec   float64
	capacity float64
	tokens   float64
	refillAt time.Time
}

func NewTokenBucket(perSec float64, burst int) *TokenBucket {
	if perSec <= 0 {
		perSec = 1
	}
	if burst < 1 {
		burst = 1
	}
	return &TokenBucket{
		perSec:   perSec,
		capacity: float64(burst),
		tokens:   float64(burst),
		refillAt: time.Now(),
	}
}

// Acquire 消耗一枚令牌；必要时等待补充。
func (b *TokenBucket) Acquire(ctx context.Context) error {
	for {
		b.mu.Lock()
		b.refill(time.Now())
		if b.tokens >= 1 {
			b.tokens--
			b.mu.Unlock()
			return nil
		}
		wait := time.Duration((1 - b.tokens) / b.perSec * float64(time.Second))
		b.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (b *TokenBucket) refill(now time.Time) {
	elapsed := now.Sub(b.refillAt).Seconds()
	if elapsed > 0 {
		b.tokens += elapsed * b.perSec
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
	}
	b.refillAt = now
}
