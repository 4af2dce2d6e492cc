package risk

import "fmt"

// Notional 提供当前持仓名义价值（USD）。
type Notional interface {
	Notional(mid float64) float64
}

// NotionalLimit 在买单提交前校验持仓名义上限；卖单（减仓）不受限。
// 对应配置 grid.maxPositionUSD；0 表示关闭。
type NotionalLimit struct {
	MaxUSD float64
	Pos    Notional
}

func (l *NotionalLimit) PreOrder(mid, deltaNotional float64) error {
	if l == nil || l.MaxUSD <= 0 || deltaNotional <= 0 {
		return nil
	}
	current := 0.0
	if l.Pos != nil {
		current = l.Pos.Notional(mid)
	}
	if current+deltaNotional > l.MaxUSD {
		return fmt.Errorf("%w: %.2f + %.2f > %.2f", ErrMaxPositionExceed, current, deltaNotional, l.MaxUSD)
	}
	return nil
}
