package market

import (
	"errors"
	"fmt"
	"time"
)

// ErrBadSnapshot 表示快照缺失或不合法（bid/ask 非正、倒挂等）。
// 调度层收到该错误应跳过本周期而不是退出。
var ErrBadSnapshot = errors.New("bad market snapshot")

// Snapshot represents a single bid/ask observation.
// Immutable once produced; components only read it.
type Snapshot struct {
	Bid float64
	Ask float64
	Ts  time.Time
}

// Mid 返回中间价。
func (s Snapshot) Mid() float64 {
	return (s.Bid + s.Ask) / 2
}

// Spread 返回盘口宽度（绝对价格）。
func (s Snapshot) Spread() float64 {
	return s.Ask - s.Bid
}

// Validate 校验快照是否可用于一个交易周期。
func (s Snapshot) Validate() error {
	if s.Bid <= 0 || s.Ask <= 0 {
		return fmt.Errorf("%w: bid=%f ask=%f must be positive", ErrBadSnapshot, s.Bid, s.Ask)
	}
	if s.Ask < s.Bid {
		return fmt.Errorf("%w: crossed book bid=%f > ask=%f", ErrBadSnapshot, s.Bid, s.Ask)
	}
	if s.Ts.IsZero() {
		return fmt.Errorf("%w: zero timestamp", ErrBadSnapshot)
	}
	return nil
}
