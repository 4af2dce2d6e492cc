package logger

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger 封装 zap，提供结构化日志与交易域快捷方法。
type Logger struct {
	*zap.Logger
}

// Config 日志配置。
type Config struct {
	Level      string   `yaml:"level"`       // debug, info, warn, error
	Format     string   `yaml:"format"`      // json 或 console
	Outputs    []string `yaml:"outputs"`     // stdout, file
	OutputFile string   `yaml:"output_file"` // 日志文件路径
}

// DefaultConfig 返回默认配置。
func DefaultConfig() Config {
	return Config{
		Level:   "info",
		Format:  "json",
		Outputs: []string{"stdout"},
	}
}

// New 创建 Logger 实例。
func New(cfg Config) (*Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %s: %w", cfg.Level, err)
	}

	var encoderConfig zapcore.EncoderConfig
	if cfg.Format == "console" {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encoderConfig = zap.NewProductionEncoderConfig()
	}
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var cores []zapcore.Core
	if contains(cfg.Outputs, "stdout") || len(cfg.Outputs) == 0 {
		var encoder zapcore.Encoder
		if cfg.Format == "console" {
			encoder = zapcore.NewConsoleEncoder(encoderConfig)
		} else {
			encoder = zapcore.NewJSONEncoder(encoderConfig)
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level))
	}
	if contains(cfg.Outputs, "file") && cfg.OutputFile != "" {
		f, err := os.OpenFile(cfg.OutputFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file failed: %w", err)
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(f), level))
	}

	zl := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return &Logger{Logger: zl}, nil
}

// LogFill 记录一笔成交。
func (l *Logger) LogFill(side string, price, qty float64, reason string) {
	fields := []zap.Field{
		zap.String("side", side),
		zap.Float64("price", price),
		zap.Float64("qty", qty),
		zap.String("ts", time.Now().UTC().Format(time.RFC3339Nano)),
	}
	if reason != "" {
		fields = append(fields, zap.String("reason", reason))
	}
	l.Info("fill", fields...)
}

// LogStatus 每周期输出一次只读状态投影。
func (l *Logger) LogStatus(bid, ask, mid float64, openOrders int, qty, avgEntry float64) {
	l.Info("status",
		zap.Float64("bid", bid),
		zap.Float64("ask", ask),
		zap.Float64("mid", mid),
		zap.Int("open_orders", openOrders),
		zap.Float64("pos_qty", qty),
		zap.Float64("avg_entry", avgEntry),
	)
}

// Close 关闭日志器。
func (l *Logger) Close() error {
	return l.Sync()
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
