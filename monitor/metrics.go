package monitor

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 网格机器人的 Prometheus 指标集合。
type Metrics struct {
	Cycles          prometheus.Counter
	SkippedSnaps    prometheus.Counter
	OrdersPlaced    prometheus.Counter
	OrdersExpired   prometheus.Counter
	OrdersFilled    prometheus.Counter
	OrdersRejected  prometheus.Counter
	SubmitErrors    prometheus.Counter
	Exits           *prometheus.CounterVec
	OpenOrders      prometheus.Gauge
	PositionQty     prometheus.Gauge
	AvgEntry        prometheus.Gauge
	MidPrice        prometheus.Gauge
	UnrealizedPnL   prometheus.Gauge
	CycleDurationMs prometheus.Histogram
}

// New 注册并返回全部指标。
func New() *Metrics {
	return &Metrics{
		Cycles: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gridbot_cycles_total",
			Help: "完成的控制周期数",
		}),
		SkippedSnaps: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gridbot_skipped_snapshots_total",
			Help: "因快照缺失/非法而跳过的周期数",
		}),
		OrdersPlaced: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gridbot_orders_placed_total",
			Help: "成功登记的挂单数",
		}),
		OrdersExpired: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gridbot_orders_expired_total",
			Help: "TTL 过期移除的挂单数",
		}),
		OrdersFilled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gridbot_orders_filled_total",
			Help: "模拟/回报成交的挂单数",
		}),
		OrdersRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gridbot_orders_rejected_total",
			Help: "被风控拒绝的挂单数",
		}),
		SubmitErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gridbot_submit_errors_total",
			Help: "提交通道错误数（该单视为不存在）",
		}),
		Exits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "gridbot_exits_total",
			Help: "全额平仓次数",
		}, []string{"reason"}),
		OpenOrders: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "gridbot_open_orders",
			Help: "当前挂单数量",
		}),
		PositionQty: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "gridbot_position_qty",
			Help: "当前净持仓数量",
		}),
		AvgEntry: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "gridbot_avg_entry",
			Help: "加权平均入场价",
		}),
		MidPrice: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "gridbot_mid_price",
			Help: "最近一次快照的 mid 价",
		}),
		UnrealizedPnL: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "gridbot_unrealized_pnl",
			Help: "按 mid 计的浮动盈亏",
		}),
		CycleDurationMs: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "gridbot_cycle_duration_ms",
			Help:    "单个控制周期耗时（毫秒）",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 50, 100, 500},
		}),
	}
}

// Serve 启动 /metrics HTTP 服务；addr 为空则不启动。
func Serve(addr string) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		_ = http.ListenAndServe(addr, mux)
	}()
}
