package order

import (
	"time"

	"github.com/google/uuid"
)

// Side 表示订单方向。
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Order 是本地维护的挂单视图。notional 以计价货币（USD）表示，
// 成交数量在撮合时按当时 mid 折算。
type Order struct {
	ID          string
	Side        Side
	Price       float64
	NotionalUSD float64
	CreatedAt   time.Time
	ReduceOnly  bool
}

// New 构造一张带唯一 ID 的订单。
func New(side Side, price, notionalUSD float64, now time.Time) Order {
	return Order{
		ID:          uuid.NewString(),
		Side:        side,
		Price:       price,
		NotionalUSD: notionalUSD,
		CreatedAt:   now,
	}
}

// Age 返回订单自创建以来的存活时长。
func (o Order) Age(now time.Time) time.Duration {
	return now.Sub(o.CreatedAt)
}
