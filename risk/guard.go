package risk

// Guard 是下单前校验的通用接口。
// mid 为当前中间价，deltaNotional 为本次订单名义金额（正买负卖，USD）。
type Guard interface {
	PreOrder(mid, deltaNotional float64) error
}

// MultiGuard 顺序执行多个 Guard，只要有一个返回错误则中止。
type MultiGuard struct {
	Guards []Guard
}

func (m MultiGuard) PreOrder(mid, deltaNotional float64) error {
	for _, g := range m.Guards {
		if g == nil {
			continue
		}
		if err := g.PreOrder(mid, deltaNotional); err != nil {
			return err
		}
	}
	return nil
}
