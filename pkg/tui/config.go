// Package tui 配置定义
package tui

import (
	"errors"
	"log/slog"
	"time"

	"github.com/Kevin-Rudy/pingplot/pkg/core"
	"github.com/Kevin-Rudy/pingplot/pkg/metrics"
	"github.com/Kevin-Rudy/pingplot/pkg/plot"
)

// Config TUI组件的配置结构
type Config struct {
	RefreshInterval time.Duration // 完整重绘间隔
	HistorySize     int           // 每个目标保留的样本数
	TruncateTo      int           // 每次追加后保留的样本数，0表示不截断
	ZoomPct         float64       // y轴上方留白百分比
	ZoomStep        float64       // 每次缩放调整的百分比
	Ceiling         float64       // 默认天花板值(ms)
	BridgeAlpha     float64       // 缺失区间连线和超时标记的透明度
	MinChartWidth   int           // 最小图表宽度
	MinChartHeight  int           // 最小图表高度

	Orientation    plot.Orientation  // 添加子图的默认方向
	Formatter      plot.FormatKind   // 刻度格式化器
	FormatterAxis  plot.AxisSelector // 格式化器作用的坐标轴
	SecondaryLabel string            // 次y轴（抖动）标签

	Logger         *slog.Logger      // 为nil时使用slog.Default()
	SampleObserver func(core.Sample) // 每个样本到达时在监控goroutine中调用

	// MetricsTotals 返回已导出的各目标计数，非nil时显示在状态行
	MetricsTotals func() map[string]metrics.Totals
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		RefreshInterval: 200 * time.Millisecond, // 默认200ms刷新
		HistorySize:     150,                    // 默认150个历史点
		ZoomPct:         20,
		ZoomStep:        10,
		Ceiling:         100, // 默认天花板100ms
		BridgeAlpha:     0.3,
		MinChartWidth:   20,
		MinChartHeight:  5,
		Orientation:     plot.Vertical,
		Formatter:       plot.FormatLatency,
		FormatterAxis:   plot.AxisY,
		SecondaryLabel:  "抖动 (ms)",
	}
}

// Validate 验证配置的合理性
func (c *Config) Validate() error {
	if c.RefreshInterval <= 0 {
		return errors.New("UI刷新间隔必须大于0")
	}

	if c.RefreshInterval < 10*time.Millisecond {
		return errors.New("UI刷新间隔不能小于10ms")
	}

	if c.HistorySize < 10 {
		return errors.New("历史缓冲区大小不能小于10")
	}

	if c.HistorySize > 1000 {
		return errors.New("历史缓冲区大小不能超过1000")
	}

	if c.TruncateTo < 0 || c.TruncateTo > c.HistorySize {
		return errors.New("截断长度必须在0和历史缓冲区大小之间")
	}

	if c.ZoomPct < 0 {
		return errors.New("缩放百分比不能为负数")
	}

	if c.ZoomStep <= 0 {
		return errors.New("缩放步长必须大于0")
	}

	if c.Ceiling <= 0 {
		return errors.New("天花板值必须大于0")
	}

	if c.BridgeAlpha <= 0 || c.BridgeAlpha > 1 {
		return errors.New("透明度必须在(0, 1]之间")
	}

	if c.MinChartWidth <= 0 {
		return errors.New("最小图表宽度必须大于0")
	}

	if c.MinChartHeight <= 0 {
		return errors.New("最小图表高度必须大于0")
	}

	if _, err := plot.NewFormatter(c.Formatter); err != nil {
		return err
	}

	if c.FormatterAxis < plot.AxisAll || c.FormatterAxis > plot.AxisY {
		return errors.New("格式化器坐标轴必须是all、x或y")
	}

	return nil
}

func (c *Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}
