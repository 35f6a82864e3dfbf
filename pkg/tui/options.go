// Package tui 选项模式支持
package tui

import (
	"log/slog"
	"time"

	"github.com/Kevin-Rudy/pingplot/pkg/core"
	"github.com/Kevin-Rudy/pingplot/pkg/metrics"
	"github.com/Kevin-Rudy/pingplot/pkg/plot"
)

// Option TUI配置选项函数类型
type Option func(*Config)

// WithRefreshInterval 设置UI刷新间隔
func WithRefreshInterval(interval time.Duration) Option {
	return func(c *Config) {
		c.RefreshInterval = interval
	}
}

// WithHistorySize 设置历史缓冲区大小和截断长度
func WithHistorySize(size, truncateTo int) Option {
	return func(c *Config) {
		c.HistorySize = size
		c.TruncateTo = truncateTo
	}
}

// WithZoom 设置y轴留白百分比和调整步长
func WithZoom(pct, step float64) Option {
	return func(c *Config) {
		c.ZoomPct = pct
		c.ZoomStep = step
	}
}

// WithDefaultCeiling 设置默认天花板值
func WithDefaultCeiling(ceiling float64) Option {
	return func(c *Config) {
		c.Ceiling = ceiling
	}
}

// WithBridgeAlpha 设置缺失区间连线的透明度
func WithBridgeAlpha(alpha float64) Option {
	return func(c *Config) {
		c.BridgeAlpha = alpha
	}
}

// WithChartSize 设置图表尺寸
func WithChartSize(width, height int) Option {
	return func(c *Config) {
		c.MinChartWidth = width
		c.MinChartHeight = height
	}
}

// WithOrientation 设置添加子图的默认方向
func WithOrientation(o plot.Orientation) Option {
	return func(c *Config) {
		c.Orientation = o
	}
}

// WithFormatter 设置y轴格式化器
func WithFormatter(kind plot.FormatKind) Option {
	return func(c *Config) {
		c.Formatter = kind
	}
}

// WithFormatterAxis 设置格式化器作用的坐标轴
func WithFormatterAxis(which plot.AxisSelector) Option {
	return func(c *Config) {
		c.FormatterAxis = which
	}
}

// WithLogger 设置日志
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithSampleObserver 设置样本观察者，例如指标收集器
func WithSampleObserver(f func(core.Sample)) Option {
	return func(c *Config) {
		c.SampleObserver = f
	}
}

// WithMetricsTotals 在状态行显示已导出到Prometheus的计数
func WithMetricsTotals(f func() map[string]metrics.Totals) Option {
	return func(c *Config) {
		c.MetricsTotals = f
	}
}

// NewConfigWithOptions 使用选项模式创建TUI配置
func NewConfigWithOptions(opts ...Option) *Config {
	config := DefaultConfig()

	// 应用所有选项
	for _, opt := range opts {
		opt(config)
	}

	return config
}
