package strategy

import (
	"math"
	"time"

	"grid-maker-go/market"
	"grid-maker-go/order"
)

// GridConfig 控制网格铺单的全部参数；运行期不可变。
type GridConfig struct {
	StepBps       float64 // 相邻档位间距（bps）
	BidLevels     int     // 买侧档位数
	AskLevels     int     // 卖侧档位数
	OrderUSD      float64 // 每档名义金额（所有档位等额）
	MaxDevBps     float64 // 相对 mid 允许的最大偏离（bps）
	TopChaseTicks int     // join-best 时向盘口推进的 tick 数
	EnableBids    bool
	EnableAsks    bool
	JoinBest      bool // 最内档向对手盘口靠拢（不越过）
	StrictMaker   bool // 丢弃任何会立即吃单的档位
}

// PlanLadder 根据一张快照计算期望的双边网格。
// 纯函数：相同输入得到相同价格序列，便于测试与回放。
// now 仅用于填充订单创建时间。
func PlanLadder(snap market.Snapshot, cfg GridConfig, now time.Time) (bids, asks []order.Order) {
	mid := snap.Mid()
	step := cfg.StepBps / 10000 * mid

	nBids, nAsks := 0, 0
	if cfg.EnableBids {
		nBids = cfg.BidLevels
	}
	if cfg.EnableAsks {
		nAsks = cfg.AskLevels
	}

	for i := 1; i <= nBids; i++ {
		price := mid - float64(i)*step
		if deviationBps(price, mid) > cfg.MaxDevBps {
			continue
		}
		bids = append(bids, order.New(order.SideBuy, roundPrice(price), cfg.OrderUSD, now))
	}
	for i := 1; i <= nAsks; i++ {
		price := mid + float64(i)*step
		if deviationBps(price, mid) > cfg.MaxDevBps {
			continue
		}
		asks = append(asks, order.New(order.SideSell, roundPrice(price), cfg.OrderUSD, now))
	}

	// join-best：最内档向盘口推进 1/4 步长 × ticks，但买不越 bid、卖不越 ask。
	if cfg.JoinBest {
		nudge := float64(cfg.TopChaseTicks) * step * 0.25
		if len(bids) > 0 {
			bids[0].Price = math.Min(bids[0].Price+nudge, snap.Bid)
		}
		if len(asks) > 0 {
			asks[0].Price = math.Max(asks[0].Price-nudge, snap.Ask)
		}
	}

	// strict-maker：吃单价一律丢弃，保证全部挂单都是 maker。
	if cfg.StrictMaker {
		bids = dropCrossing(bids, order.SideBuy, snap)
		asks = dropCrossing(asks, order.SideSell, snap)
	}

	return bids, asks
}

func deviationBps(price, mid float64) float64 {
	return math.Abs((price-mid)/mid) * 10000
}

// roundPrice 统一保留 6 位小数，避免浮点尾数进入下游比较。
func roundPrice(p float64) float64 {
	return math.Round(p*1e6) / 1e6
}

func dropCrossing(orders []order.Order, side order.Side, snap market.Snapshot) []order.Order {
	res := orders[:0]
	for _, o := range orders {
		if side == order.SideBuy && o.Price >= snap.Ask {
			continue
		}
		if side == order.SideSell && o.Price <= snap.Bid {
			continue
		}
		res = append(res, o)
	}
	return res
}
