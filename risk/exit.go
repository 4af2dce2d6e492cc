package risk

import (
	"time"

	"grid-maker-go/market"
)

// ExitReason 标注触发平仓的原因。
type ExitReason string

const (
	ReasonTakeProfit ExitReason = "take_profit"
	ReasonMaxHold    ExitReason = "max_hold"
)

// Position 是 ExitPolicy 需要的只读仓位视图。
type Position interface {
	Qty() float64
	AvgEntry() float64
	LastFill() time.Time
}

// Exit 描述一次全额平仓决定：数量为当前全部持仓，价格为触发价。
type Exit struct {
	Reason ExitReason
	Price  float64
	Qty    float64
}

// ExitPolicy 评估止盈与最大持仓时长两个独立的离场条件。
// 只做全额平仓，不做分批止盈。
type ExitPolicy struct {
	TakeProfitPct float64       // 止盈百分比
	TPOffsetBps   float64       // 止盈目标的额外偏移（bps），抵御滑点
	MaxHold       time.Duration // 最长持仓时间；<=0 表示关闭该检查
	Clock         Clock
}

// Target 返回给定均价对应的止盈触发价。
func (p *ExitPolicy) Target(avgEntry float64) float64 {
	return avgEntry * (1 + p.TakeProfitPct/100) * (1 + p.TPOffsetBps/10000)
}

// Evaluate 返回平仓决定；空仓或条件未满足时返回 (nil, false)。
// 止盈：ask 触达目标价即按目标价（而非现价）全平。
// 超时：持仓超过 MaxHold 则无条件按 bid 全平。
// 上游曾把 MaxHold 配置成死参数从不评估；这里按设计要求真正执行。
func (p *ExitPolicy) Evaluate(snap market.Snapshot, pos Position) (*Exit, bool) {
	qty := pos.Qty()
	if qty <= 0 {
		return nil, false
	}

	target := p.Target(pos.AvgEntry())
	if snap.Ask >= target {
		return &Exit{Reason: ReasonTakeProfit, Price: target, Qty: qty}, true
	}

	if p.MaxHold > 0 {
		clock := p.Clock
		if clock == nil {
			clock = SystemClock
		}
		last := pos.LastFill()
		if !last.IsZero() && clock.Now().Sub(last) >= p.MaxHold {
			return &Exit{Reason: ReasonMaxHold, Price: snap.Bid, Qty: qty}, true
		}
	}
	return nil, false
}
