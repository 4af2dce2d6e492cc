package sim

import (
	"grid-maker-go/market"
	"grid-maker-go/order"
)

// Fill 描述一笔纸面成交。Qty 为按成交时 mid 折算的基础资产数量。
type Fill struct {
	Order order.Order
	Price float64
	Qty   float64
}

// Fills 对当前快照模拟穿价成交：买单价格 >= ask、卖单价格 <= bid 即全额成交
// （模拟对手方主动吃掉我们的挂单），不建模部分成交。
// 遍历的是 book 的拷贝，成交订单从 book 移除且每单只上报一次。
func Fills(book *order.Book, snap market.Snapshot) []Fill {
	mid := snap.Mid()
	if mid <= 0 {
		return nil
	}
	var fills []Fill
	for _, o := range book.List() {
		crossed := (o.Side == order.SideBuy && o.Price >= snap.Ask) ||
			(o.Side == order.SideSell && o.Price <= snap.Bid)
		if !crossed {
			continue
		}
		if !book.Remove(o.ID) {
			// 已被其他路径移除，跳过避免重复记账
			continue
		}
		fills = append(fills, Fill{
			Order: o,
			Price: o.Price,
			Qty:   o.NotionalUSD / mid,
		})
	}
	return fills
}
