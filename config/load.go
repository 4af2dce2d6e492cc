package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppConfig 是启动时读取一次的全量配置；运行期不可变，
// 以值传入各组件，绝不在周期中途重读。
type AppConfig struct {
	Symbol      string        `yaml:"symbol"`
	Live        bool          `yaml:"live"`
	APIBase     string        `yaml:"apiBase"`
	MetricsAddr string        `yaml:"metricsAddr"`
	Grid        GridSection   `yaml:"grid"`
	Timing      TimingSection `yaml:"timing"`
	Exit        ExitSection   `yaml:"exit"`
	Feed        FeedSection   `yaml:"feed"`
	Log         LogSection    `yaml:"log"`

	// 实盘密钥只从环境变量读取，不落配置文件。
	APIKey    string `yaml:"-"`
	APISecret string `yaml:"-"`
}

type GridSection struct {
	StepBps        float64 `yaml:"stepBps"`        // 档位间距（bps）
	BidLevels      int     `yaml:"bidLevels"`      // 买侧档位数
	AskLevels      int     `yaml:"askLevels"`      // 卖侧档位数
	OrderUSD       float64 `yaml:"orderUSD"`       // 每档名义金额
	MaxPositionUSD float64 `yaml:"maxPositionUSD"` // 持仓名义上限
	MaxDevBps      float64 `yaml:"maxDevBps"`      // 相对 mid 最大偏离
	TopChaseTicks  int     `yaml:"topChaseTicks"`  // join-best 推进 tick 数
	EnableBids     bool    `yaml:"enableBids"`
	EnableAsks     bool    `yaml:"enableAsks"`
	JoinBest       bool    `yaml:"joinBest"`
	StrictMaker    bool    `yaml:"strictMaker"`
}

type TimingSection struct {
	WindowMs    int `yaml:"windowMs"`    // 周期间隔
	OrderTTLSec int `yaml:"orderTTLSec"` // 挂单存活时间
}

type ExitSection struct {
	TakeProfitPct     float64 `yaml:"takeProfitPct"`
	TPOffsetBps       float64 `yaml:"tpOffsetBps"`
	MaxHoldSec        int     `yaml:"maxHoldSec"` // 最长持仓时间；0 关闭
	ReduceOnlyTPGuard bool    `yaml:"reduceOnlyTPGuard"`
}

type FeedSection struct {
	StartMid  float64 `yaml:"startMid"`
	SpreadBps float64 `yaml:"spreadBps"`
	Seed      int64   `yaml:"seed"` // 0 表示按时间播种
}

type LogSection struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default 返回纸面模式可直接运行的默认配置。
func Default() AppConfig {
	return AppConfig{
		Symbol:      "SOL_USDC_PERP",
		APIBase:     "https://api.backpack.exchange",
		MetricsAddr: ":9100",
		Grid: GridSection{
			StepBps:        10,
			BidLevels:      5,
			AskLevels:      5,
			OrderUSD:       10,
			MaxPositionUSD: 1000,
			MaxDevBps:      25,
			TopChaseTicks:  1,
			EnableBids:     true,
			EnableAsks:     true,
			JoinBest:       true,
			StrictMaker:    true,
		},
		Timing: TimingSection{WindowMs: 1200, OrderTTLSec: 10},
		Exit: ExitSection{
			TakeProfitPct:     1.0,
			TPOffsetBps:       3,
			MaxHoldSec:        3600,
			ReduceOnlyTPGuard: true,
		},
		Feed: FeedSection{StartMid: 150.0, SpreadBps: 2.0},
		Log:  LogSection{Level: "info", Format: "json"},
	}
}

// Load 从 YAML 读取配置并校验；path 为空时返回默认配置。
func Load(path string) (AppConfig, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse yaml: %w", err)
		}
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadWithEnvOverrides 读取 .env（存在时）并用环境变量覆盖密钥等敏感字段。
func LoadWithEnvOverrides(path string) (AppConfig, error) {
	_ = godotenv.Load() // .env 不存在不算错误
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if v := os.Getenv("GRID_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("GRID_API_SECRET"); v != "" {
		cfg.APISecret = v
	}
	if v := os.Getenv("GRID_LIVE"); v == "1" || v == "true" {
		cfg.Live = true
	}
	return cfg, Validate(cfg)
}
