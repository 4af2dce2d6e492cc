package risk

import "errors"

var (
	// ErrMaxPositionExceed 新增买单会使持仓名义价值超过上限。
	ErrMaxPositionExceed = errors.New("max position notional exceed")
)
