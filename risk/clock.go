package risk

import "time"

// Clock 抽象时间，离场判定（持仓时长）据此计算，测试注入假时钟。
type Clock interface {
	Now() time.Time
}

type utcClock struct{}

func (utcClock) Now() time.Time { return time.Now().UTC() }

// SystemClock 默认时钟，统一输出 UTC。
var SystemClock Clock = utcClock{}
