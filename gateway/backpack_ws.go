package gateway

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"grid-maker-go/market"
)

// BackpackWSEndpoint 行情流默认地址。
const BackpackWSEndpoint = "wss://ws.backpack.exchange"

// WSFeed 通过 bookTicker 流维护最新盘口，作为实盘 market.Feed 实现。
// 连接由 Run 持有；Snapshot 只读最新值，过旧数据视为无效快照。
type WSFeed struct {
	Endpoint string
	Symbol   string
	Dialer   *websocket.Dialer
	// MaxAge 超过该时长未更新的盘口视为失效；默认 5s。
	MaxAge time.Duration

	mu      sync.RWMutex
	bid     float64
	ask     float64
	updated time.Time
}

func NewWSFeed(symbol string) *WSFeed {
	return &WSFeed{
		Endpoint: BackpackWSEndpoint,
		Symbol:   symbol,
		Dialer:   websocket.DefaultDialer,
		MaxAge:   5 * time.Second,
	}
}

type wsEnvelope struct {
	Data struct {
		Symbol string `json:"s"`
		Bid    string `json:"b"`
		Ask    string `json:"a"`
	} `json:"data"`
}

// Run 连接并持续读取 bookTicker；连接断开时返回错误，由调用方决定重连策略。
func (f *WSFeed) Run(ctx context.Context) error {
	conn, _, err := f.Dialer.DialContext(ctx, f.Endpoint, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", f.Endpoint, err)
	}
	defer conn.Close()

	sub := map[string]interface{}{
		"method": "SUBSCRIBE",
		"params": []string{"bookTicker." + f.Symbol},
	}
	if err := conn.WriteJSON(sub); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		var env wsEnvelope
		if err := conn.ReadJSON(&env); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read: %w", err)
		}
		bid, err1 := strconv.ParseFloat(env.Data.Bid, 64)
		ask, err2 := strconv.ParseFloat(env.Data.Ask, 64)
		if err1 != nil || err2 != nil {
			continue
		}
		f.mu.Lock()
		f.bid, f.ask = bid, ask
		f.updated = time.Now()
		f.mu.Unlock()
	}
}

// Snapshot 返回最近一次盘口；数据缺失或过旧返回 ErrBadSnapshot，
// 调度层按坏快照跳过本周期。
func (f *WSFeed) Snapshot(ctx context.Context) (market.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return market.Snapshot{}, err
	}
	f.mu.RLock()
	snap := market.Snapshot{Bid: f.bid, Ask: f.ask, Ts: f.updated}
	f.mu.RUnlock()

	maxAge := f.MaxAge
	if maxAge <= 0 {
		maxAge = 5 * time.Second
	}
	if snap.Ts.IsZero() || time.Since(snap.Ts) > maxAge {
		return market.Snapshot{}, fmt.Errorf("%w: book ticker stale", market.ErrBadSnapshot)
	}
	if err := snap.Validate(); err != nil {
		return market.Snapshot{}, err
	}
	return snap, nil
}
