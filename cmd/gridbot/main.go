package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"go.uber.org/zap"

	"grid-maker-go/config"
	"grid-maker-go/gateway"
	"grid-maker-go/infrastructure/logger"
	"grid-maker-go/internal/engine"
	"grid-maker-go/inventory"
	"grid-maker-go/market"
	"grid-maker-go/monitor"
	"grid-maker-go/order"
	"grid-maker-go/risk"
	"grid-maker-go/strategy"
)

func main() {
	cfgPath := flag.String("config", "", "配置文件路径（留空使用默认值）")
	flag.Parse()

	cfg, err := config.LoadWithEnvOverrides(*cfgPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	lg, err := logger.New(logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Outputs: []string{"stdout"},
	})
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer lg.Close()

	metrics := monitor.New()
	monitor.Serve(cfg.MetricsAddr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 行情源与下单通道：纸面 or 实盘
	var feed market.Feed
	var transport gateway.Transport
	if cfg.Live {
		signer, err := gateway.NewEd25519Signer(cfg.APIKey, cfg.APISecret)
		if err != nil {
			lg.Fatal("构造签名器失败", zap.Error(err))
		}
		transport = gateway.NewRESTClient(cfg.APIBase, cfg.Symbol, signer, gateway.NewTokenBucket(5, 10))
		ws := gateway.NewWSFeed(cfg.Symbol)
		go runFeed(ctx, ws, lg)
		feed = ws
	} else {
		feed = market.NewRandomWalk(cfg.Feed.StartMid, cfg.Feed.SpreadBps, cfg.Feed.Seed)
		transport = gateway.Paper{}
	}

	pos := inventory.NewTracker()
	eng, err := engine.New(engine.Config{
		Symbol:   cfg.Symbol,
		Window:   time.Duration(cfg.Timing.WindowMs) * time.Millisecond,
		OrderTTL: time.Duration(cfg.Timing.OrderTTLSec) * time.Second,
		Grid: strategy.GridConfig{
			StepBps:       cfg.Grid.StepBps,
			BidLevels:     cfg.Grid.BidLevels,
			AskLevels:     cfg.Grid.AskLevels,
			OrderUSD:      cfg.Grid.OrderUSD,
			MaxDevBps:     cfg.Grid.MaxDevBps,
			TopChaseTicks: cfg.Grid.TopChaseTicks,
			EnableBids:    cfg.Grid.EnableBids,
			EnableAsks:    cfg.Grid.EnableAsks,
			JoinBest:      cfg.Grid.JoinBest,
			StrictMaker:   cfg.Grid.StrictMaker,
		},
		ReduceOnlyTPGuard: cfg.Exit.ReduceOnlyTPGuard,
	}, engine.Components{
		Feed:      feed,
		Book:      order.NewBook(),
		Position:  pos,
		Transport: transport,
		Guard: risk.MultiGuard{Guards: []risk.Guard{
			&risk.NotionalLimit{MaxUSD: cfg.Grid.MaxPositionUSD, Pos: pos},
		}},
		Exit: &risk.ExitPolicy{
			TakeProfitPct: cfg.Exit.TakeProfitPct,
			TPOffsetBps:   cfg.Exit.TPOffsetBps,
			MaxHold:       time.Duration(cfg.Exit.MaxHoldSec) * time.Second,
		},
		Logger:  lg,
		Metrics: metrics,
	})
	if err != nil {
		lg.Fatal("初始化引擎失败", zap.Error(err))
	}

	// systemd watchdog：每个周期喂一次狗
	if interval, werr := daemon.SdWatchdogEnabled(false); werr == nil && interval > 0 {
		eng.SetCycleListener(func(engine.Statistics) {
			_, _ = daemon.SdNotify(false, daemon.SdNotifyWatchdog)
		})
	}

	// 配置运行期不可变：文件变更只提示，不热加载
	if *cfgPath != "" {
		go func() {
			_ = config.Watcher{Path: *cfgPath}.Start(ctx, func(path string) {
				lg.Warn("配置文件已变更，重启后生效", zap.String("path", path))
			})
		}()
	}

	if err := eng.Start(ctx); err != nil {
		lg.Fatal("启动引擎失败", zap.Error(err))
	}
	_, _ = daemon.SdNotify(false, daemon.SdNotifyReady)
	lg.Info("gridbot running",
		zap.String("symbol", cfg.Symbol),
		zap.Bool("live", cfg.Live),
		zap.Int("window_ms", cfg.Timing.WindowMs))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
	cancel()
	if err := eng.Stop(); err != nil {
		lg.Error("停机异常", zap.Error(err))
		os.Exit(1)
	}
	lg.Info("clean shutdown")
}

// runFeed 维持 WS 行情连接，断线退避重连；期间 Snapshot 返回过期错误，
// 引擎按坏快照跳过周期。
func runFeed(ctx context.Context, ws *gateway.WSFeed, lg *logger.Logger) {
	backoff := time.Second
	for {
		err := ws.Run(ctx)
		if ctx.Err() != nil {
			return
		}
		lg.Warn("行情流断开，准备重连", zap.Error(err), zap.Duration("backoff", backoff))
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}
