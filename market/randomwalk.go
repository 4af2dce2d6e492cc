package market

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// RandomWalk 纸面行情源：围绕上一中间价做简单随机游走。
// 每步漂移在 ±0.05% 内均匀分布，mid 最低 0.01，盘口宽度按 spreadBps 对称展开。
// 实盘请替换为交易所行情 Feed。
type RandomWalk struct {
	mu        sync.Mutex
	mid       float64
	spreadBps float64
	rng       *rand.Rand
	now       func() time.Time
}

// NewRandomWalk 以起始 mid 与盘口宽度（bps）构造纸面行情源。
// seed 固定时序列可复现，供测试/回放使用；seed=0 表示按时间播种。
func NewRandomWalk(startMid, spreadBps float64, seed int64) *RandomWalk {
	if startMid <= 0 {
		startMid = 150.0
	}
	if spreadBps <= 0 {
		spreadBps = 2.0
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomWalk{
		mid:       startMid,
		spreadBps: spreadBps,
		rng:       rand.New(rand.NewSource(seed)),
		now:       time.Now,
	}
}

// Snapshot 推进一步随机游走并返回对称盘口。
func (w *RandomWalk) Snapshot(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	drift := (w.rng.Float64()*0.1 - 0.05) // 百分比
	w.mid = w.mid * (1 + drift/100)
	if w.mid < 0.01 {
		w.mid = 0.01
	}
	half := w.mid * (w.spreadBps / 10000)
	return Snapshot{
		Bid: w.mid - half,
		Ask: w.mid + half,
		Ts:  w.now(),
	}, nil
}
