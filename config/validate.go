package config

import (
	"errors"
	"fmt"
)

// ErrMissingCredentials 实盘模式缺少密钥，属于致命配置错误，阻止启动。
var ErrMissingCredentials = errors.New("live mode requires GRID_API_KEY/GRID_API_SECRET")

// Validate ensures required fields are present and bounds are sane.
func Validate(cfg AppConfig) error {
	if cfg.Symbol == "" {
		return errors.New("symbol is required")
	}
	if cfg.Live && (cfg.APIKey == "" || cfg.APISecret == "") {
		return ErrMissingCredentials
	}
	if cfg.Live && cfg.APIBase == "" {
		return errors.New("apiBase is required in live mode")
	}
	if cfg.Grid.StepBps <= 0 {
		return fmt.Errorf("grid.stepBps must be > 0, got %f", cfg.Grid.StepBps)
	}
	if cfg.Grid.BidLevels < 0 || cfg.Grid.AskLevels < 0 {
		return errors.New("grid level counts must be >= 0")
	}
	if cfg.Grid.OrderUSD <= 0 {
		return fmt.Errorf("grid.orderUSD must be > 0, got %f", cfg.Grid.OrderUSD)
	}
	if cfg.Grid.MaxPositionUSD < 0 {
		return errors.New("grid.maxPositionUSD must be >= 0")
	}
	if cfg.Grid.MaxDevBps <= 0 {
		return fmt.Errorf("grid.maxDevBps must be > 0, got %f", cfg.Grid.MaxDevBps)
	}
	if cfg.Grid.TopChaseTicks < 0 {
		return errors.New("grid.topChaseTicks must be >= 0")
	}
	if cfg.Timing.WindowMs <= 0 {
		return fmt.Errorf("timing.windowMs must be > 0, got %d", cfg.Timing.WindowMs)
	}
	if cfg.Timing.OrderTTLSec <= 0 {
		return fmt.Errorf("timing.orderTTLSec must be > 0, got %d", cfg.Timing.OrderTTLSec)
	}
	if cfg.Exit.TakeProfitPct <= 0 {
		return fmt.Errorf("exit.takeProfitPct must be > 0, got %f", cfg.Exit.TakeProfitPct)
	}
	if cfg.Exit.TPOffsetBps < 0 {
		return errors.New("exit.tpOffsetBps must be >= 0")
	}
	if cfg.Exit.MaxHoldSec < 0 {
		return errors.New("exit.maxHoldSec must be >= 0")
	}
	if !cfg.Live {
		if cfg.Feed.StartMid <= 0 {
			return fmt.Errorf("feed.startMid must be > 0, got %f", cfg.Feed.StartMid)
		}
		if cfg.Feed.SpreadBps <= 0 {
			return fmt.Errorf("feed.spreadBps must be > 0, got %f", cfg.Feed.SpreadBps)
		}
	}
	return nil
}
