package inventory

import (
	"sync"
	"time"

	"grid-maker-go/order"
)

// qtyEpsilon 以下的仓位视为已平：数值噪声不残留成本价。
const qtyEpsilon = 1e-12

// Tracker 维护单一交易对的净仓位与加权平均入场价。
// 仅做多：卖出超过持仓按平至零处理，不产生空头。
// 唯一写入口是 UpdateOnFill，其余组件只读。
type Tracker struct {
	mu       sync.RWMutex
	qty      float64
	avgEntry float64
	lastFill time.Time
	now      func() time.Time
}

func NewTracker() *Tracker {
	return &Tracker{now: time.Now}
}

// UpdateOnFill 按一笔成交更新仓位。
// 买入：加权平均成本；卖出：减仓，降至 epsilon 以下时仓位与成本价同时清零。
// lastFill 记录成交处理时间，而非订单创建时间。
func (t *Tracker) UpdateOnFill(side order.Side, price, qty float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.now == nil {
		t.now = time.Now
	}
	if side == order.SideBuy {
		newNotional := t.qty*t.avgEntry + qty*price
		t.qty += qty
		if t.qty > qtyEpsilon {
			t.avgEntry = newNotional / t.qty
		} else {
			t.avgEntry = 0
		}
	} else {
		t.qty -= qty
		if t.qty <= qtyEpsilon {
			t.qty = 0
			t.avgEntry = 0
		}
	}
	t.lastFill = t.now()
}

// Qty 返回净持仓数量（基础资产）。
func (t *Tracker) Qty() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.qty
}

// AvgEntry 返回加权平均入场价；空仓时为 0。
func (t *Tracker) AvgEntry() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.avgEntry
}

// LastFill 返回最近一次成交的处理时间。
func (t *Tracker) LastFill() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastFill
}

// Notional 按给定 mid 返回持仓名义价值（USD）。
func (t *Tracker) Notional(mid float64) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.qty * mid
}

// UnrealizedPnL 按给定 mid 返回浮动盈亏。
func (t *Tracker) UnrealizedPnL(mid float64) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.qty <= qtyEpsilon {
		return 0
	}
	return t.qty * (mid - t.avgEntry)
}
