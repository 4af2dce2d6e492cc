package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"grid-maker-go/gateway"
	"grid-maker-go/infrastructure/logger"
	"grid-maker-go/inventory"
	"grid-maker-go/market"
	"grid-maker-go/monitor"
	"grid-maker-go/order"
	"grid-maker-go/risk"
	"grid-maker-go/sim"
	"grid-maker-go/strategy"
)

// Config 引擎配置；启动后不可变。
type Config struct {
	Symbol            string
	Window            time.Duration // 周期间隔
	OrderTTL          time.Duration // 挂单存活时间
	Grid              strategy.GridConfig
	ReduceOnlyTPGuard bool // 平仓单打 reduce-only 标记
}

// FillFn 决定当前快照下哪些挂单已成交。纸面模式用 sim.Fills；
// 实盘由交易所回报驱动的实现替换。
type FillFn func(book *order.Book, snap market.Snapshot) []sim.Fill

// Components 引擎依赖组件。
type Components struct {
	Feed      market.Feed
	Book      *order.Book
	Position  *inventory.Tracker
	Transport gateway.Transport
	Guard     risk.Guard
	Exit      *risk.ExitPolicy
	Fills     FillFn
	Logger    *logger.Logger
	Metrics   *monitor.Metrics
}

// Engine 单线程控制循环：一次一个周期，周期之间才等待，
// 周期内不存在并发写，Book/Position 严格单写者。
type Engine struct {
	config Config

	feed      market.Feed
	book      *order.Book
	pos       *inventory.Tracker
	transport gateway.Transport
	guard     risk.Guard
	exit      *risk.ExitPolicy
	fills     FillFn
	logger    *logger.Logger
	metrics   *monitor.Metrics

	mu      sync.RWMutex
	state   CycleState
	running bool
	handles map[string]string // 本地订单 ID -> 交易所 handle

	stopChan chan struct{}
	doneChan chan struct{}

	// onCycle 每个周期结束后回调（watchdog/测试钩子）。
	onCycle func(Statistics)

	stats Statistics
}

// Statistics 引擎统计信息。
type Statistics struct {
	StartTime    time.Time
	Cycles       int64
	Skipped      int64
	Placed       int64
	Expired      int64
	Filled       int64
	Rejected     int64
	SubmitErrors int64
	Exits        int64
}

// New 创建引擎。
func New(cfg Config, comps Components) (*Engine, error) {
	if cfg.Window <= 0 {
		return nil, errors.New("window must be > 0")
	}
	if cfg.OrderTTL <= 0 {
		return nil, errors.New("order ttl must be > 0")
	}
	if comps.Feed == nil || comps.Book == nil || comps.Position == nil {
		return nil, errors.New("feed/book/position are required")
	}
	if comps.Transport == nil {
		return nil, errors.New("transport is required")
	}
	if comps.Exit == nil {
		return nil, errors.New("exit policy is required")
	}
	if comps.Logger == nil {
		return nil, errors.New("logger is required")
	}
	fills := comps.Fills
	if fills == nil {
		fills = sim.Fills
	}
	return &Engine{
		config:    cfg,
		feed:      comps.Feed,
		book:      comps.Book,
		pos:       comps.Position,
		transport: comps.Transport,
		guard:     comps.Guard,
		exit:      comps.Exit,
		fills:     fills,
		logger:    comps.Logger,
		metrics:   comps.Metrics,
		state:     StateIdle,
		handles:   make(map[string]string),
		stopChan:  make(chan struct{}),
		doneChan:  make(chan struct{}),
	}, nil
}

// SetCycleListener 注册周期完成回调；须在 Start 之前调用。
func (e *Engine) SetCycleListener(fn func(Statistics)) {
	e.onCycle = fn
}

// State 返回当前周期阶段（观测用）。
func (e *Engine) State() CycleState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Stats 返回统计快照。
func (e *Engine) Stats() Statistics {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stats
}

// Start 启动主循环。
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return fmt.Errorf("engine already running")
	}
	e.running = true
	e.stats.StartTime = time.Now()
	e.mu.Unlock()

	e.logger.Info("engine starting",
		zap.String("symbol", e.config.Symbol),
		zap.Duration("window", e.config.Window),
		zap.Duration("order_ttl", e.config.OrderTTL))

	go e.run(ctx)
	return nil
}

// Stop 停止主循环并释放通道资源：撤销全部挂单、关闭 Transport。
func (e *Engine) Stop() error {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return nil
	}
	e.running = false
	e.mu.Unlock()

	select {
	case <-e.stopChan:
	default:
		close(e.stopChan)
	}

	select {
	case <-e.doneChan:
	case <-time.After(10 * time.Second):
		e.logger.Warn("timeout waiting for engine to stop")
	}

	e.cancelAll()
	if err := e.transport.Close(); err != nil {
		e.logger.Error("transport close failed", zap.Error(err))
	}
	e.logger.Info("engine stopped")
	return nil
}

// run 主循环：周期之间等待，等待可被停止信号打断，周期本身从不被打断。
func (e *Engine) run(ctx context.Context) {
	defer close(e.doneChan)

	ticker := time.NewTicker(e.config.Window)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("context done, stopping engine")
			return
		case <-e.stopChan:
			e.logger.Info("stop signal received")
			return
		case <-ticker.C:
			e.runCycle(ctx)
		}
	}
}

// runCycle 按固定顺序执行一个完整周期，任何阶段不跳过。
func (e *Engine) runCycle(ctx context.Context) {
	start := time.Now()
	defer func() {
		e.setState(StateIdle)
		e.mu.Lock()
		e.stats.Cycles++
		stats := e.stats
		e.mu.Unlock()
		if e.metrics != nil {
			e.metrics.Cycles.Inc()
			e.metrics.CycleDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000)
		}
		if e.onCycle != nil {
			e.onCycle(stats)
		}
	}()

	// Snapshotting：坏快照跳过本周期，不退出。
	e.setState(StateSnapshotting)
	snap, err := e.feed.Snapshot(ctx)
	if err == nil {
		err = snap.Validate()
	}
	if err != nil {
		e.mu.Lock()
		e.stats.Skipped++
		e.mu.Unlock()
		if e.metrics != nil {
			e.metrics.SkippedSnaps.Inc()
		}
		e.logger.Warn("snapshot unusable, skipping cycle", zap.Error(err))
		return
	}
	now := snap.Ts
	mid := snap.Mid()

	// Maintaining：先清理过期挂单再铺新单。
	e.setState(StateMaintaining)
	if expired := e.book.Expire(now, e.config.OrderTTL); expired > 0 {
		e.mu.Lock()
		e.stats.Expired += int64(expired)
		e.mu.Unlock()
		if e.metrics != nil {
			e.metrics.OrdersExpired.Add(float64(expired))
		}
		e.logger.Debug("expired stale orders", zap.Int("count", expired))
	}

	// Planning：纯函数，无副作用。
	e.setState(StatePlanning)
	bids, asks := strategy.PlanLadder(snap, e.config.Grid, now)

	// Submitting：风控放行后经 Transport 提交；提交失败的订单视为不存在。
	e.setState(StateSubmitting)
	for _, o := range bids {
		e.submit(ctx, o, mid, o.NotionalUSD)
	}
	for _, o := range asks {
		e.submit(ctx, o, mid, -o.NotionalUSD)
	}

	// Reconciling：撮合成交、更新仓位、评估离场。
	e.setState(StateReconciling)
	for _, f := range e.fills(e.book, snap) {
		e.pos.UpdateOnFill(f.Order.Side, f.Price, f.Qty)
		e.mu.Lock()
		e.stats.Filled++
		e.mu.Unlock()
		delete(e.handles, f.Order.ID)
		if e.metrics != nil {
			e.metrics.OrdersFilled.Inc()
		}
		e.logger.LogFill(string(f.Order.Side), f.Price, f.Qty, "")
	}
	e.evaluateExit(ctx, snap)

	// Reporting：只读状态投影。
	e.setState(StateReporting)
	e.report(snap, mid)
}

// submit 单笔提交：guard -> transport -> book。deltaNotional 正买负卖。
func (e *Engine) submit(ctx context.Context, o order.Order, mid, deltaNotional float64) {
	if e.guard != nil {
		if err := e.guard.PreOrder(mid, deltaNotional); err != nil {
			e.mu.Lock()
			e.stats.Rejected++
			e.mu.Unlock()
			if e.metrics != nil {
				e.metrics.OrdersRejected.Inc()
			}
			e.logger.Debug("order rejected by guard",
				zap.String("side", string(o.Side)), zap.Float64("price", o.Price), zap.Error(err))
			return
		}
	}
	handle, err := e.transport.Submit(ctx, o)
	if err != nil {
		// 提交结果未知/失败：不登记，绝不乐观入账。
		e.mu.Lock()
		e.stats.SubmitErrors++
		e.mu.Unlock()
		if e.metrics != nil {
			e.metrics.SubmitErrors.Inc()
		}
		e.logger.Warn("submit failed, order not booked",
			zap.String("side", string(o.Side)), zap.Float64("price", o.Price), zap.Error(err))
		return
	}
	e.book.Add(o)
	e.handles[o.ID] = handle
	e.mu.Lock()
	e.stats.Placed++
	e.mu.Unlock()
	if e.metrics != nil {
		e.metrics.OrdersPlaced.Inc()
	}
}

// evaluateExit 评估止盈/超时离场；触发则全额平仓并记账。
func (e *Engine) evaluateExit(ctx context.Context, snap market.Snapshot) {
	exit, ok := e.exit.Evaluate(snap, e.pos)
	if !ok {
		return
	}
	closeOrder := order.New(order.SideSell, exit.Price, exit.Qty*exit.Price, snap.Ts)
	closeOrder.ReduceOnly = e.config.ReduceOnlyTPGuard
	if _, err := e.transport.Submit(ctx, closeOrder); err != nil {
		// 平仓单未确认：仓位保持原样，下个周期重试。
		e.mu.Lock()
		e.stats.SubmitErrors++
		e.mu.Unlock()
		if e.metrics != nil {
			e.metrics.SubmitErrors.Inc()
		}
		e.logger.Warn("exit submit failed, position unchanged",
			zap.String("reason", string(exit.Reason)), zap.Error(err))
		return
	}
	e.pos.UpdateOnFill(order.SideSell, exit.Price, exit.Qty)
	e.mu.Lock()
	e.stats.Exits++
	e.mu.Unlock()
	if e.metrics != nil {
		e.metrics.Exits.WithLabelValues(string(exit.Reason)).Inc()
	}
	e.logger.LogFill(string(order.SideSell), exit.Price, exit.Qty, string(exit.Reason))
}

// report 每周期输出一次只读投影：快照、mid、挂单数、仓位、均价。
func (e *Engine) report(snap market.Snapshot, mid float64) {
	open := e.book.Len()
	qty := e.pos.Qty()
	avg := e.pos.AvgEntry()
	if e.metrics != nil {
		e.metrics.OpenOrders.Set(float64(open))
		e.metrics.PositionQty.Set(qty)
		e.metrics.AvgEntry.Set(avg)
		e.metrics.MidPrice.Set(mid)
		e.metrics.UnrealizedPnL.Set(e.pos.UnrealizedPnL(mid))
	}
	e.logger.LogStatus(snap.Bid, snap.Ask, mid, open, qty, avg)
}

// cancelAll 停机时撤销全部挂单；撤单失败只记日志，不阻塞退出。
func (e *Engine) cancelAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, o := range e.book.List() {
		handle, ok := e.handles[o.ID]
		if !ok {
			handle = o.ID
		}
		if err := e.transport.Cancel(ctx, handle); err != nil {
			e.logger.Warn("cancel on shutdown failed",
				zap.String("order_id", o.ID), zap.Error(err))
			continue
		}
		e.book.Remove(o.ID)
		delete(e.handles, o.ID)
	}
}

func (e *Engine) setState(s CycleState) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}
