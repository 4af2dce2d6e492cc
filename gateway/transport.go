package gateway

import (
	"context"
	"errors"

	"grid-maker-go/order"
)

var (
	// ErrSignerRequired 实盘路径未配置签名能力。必须在首次使用时响亮失败，
	// 绝不允许未签名请求静默发出。
	ErrSignerRequired = errors.New("live transport requires a request signer")
)

// Transport 下单通道抽象。认证/签名完全是 Transport 的内部职责，核心不感知。
// Submit 失败时调用方必须视该订单为"不存在"，不做乐观登记。
type Transport interface {
	Submit(ctx context.Context, o order.Order) (handle string, err error)
	Cancel(ctx context.Context, handle string) error
	Close() error
}

// Paper 纸面通道：本地确认，不触网。订单状态完全由本地 Book 维护。
type Paper struct{}

func (Paper) Submit(ctx context.Context, o order.Order) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return o.ID, nil
}

func (Paper) Cancel(ctx context.Context, handle string) error { return ctx.Err() }

func (Paper) Close() error { return nil }
