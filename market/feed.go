package market

import "context"

// Feed 行情来源抽象：纸面模式用随机游走，实盘模式用交易所 WS/REST。
// 每个周期调用一次；实现必须返回满足 Validate 的快照或错误。
type Feed interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}
