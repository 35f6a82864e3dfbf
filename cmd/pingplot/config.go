package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/Kevin-Rudy/pingplot/pkg/pinger"
	"github.com/Kevin-Rudy/pingplot/pkg/plot"
	"github.com/Kevin-Rudy/pingplot/pkg/tui"
)

// AppConfig 应用层配置聚合
type AppConfig struct {
	PingerConfig *pinger.Config
	TUIConfig    *tui.Config
	Targets      []string

	LogFile     string
	LogLevel    slog.Level
	MetricsAddr string
}

// buildConfigFromCLI 从命令行参数（以及YAML配置文件）构建配置
func buildConfigFromCLI(c *cli.Context) (*AppConfig, error) {
	// 构建 pinger 配置
	pingerConfig := pinger.DefaultConfig()
	if c.Bool("6") {
		pingerConfig.IPVersion = 6
	}
	pingerConfig.Interval = c.Duration("watch-interval")
	pingerConfig.Timeout = c.Duration("timeout")
	if c.Bool("system-ping") {
		pingerConfig.SystemPing = true
		pingerConfig.PingPath = c.String("ping-path")
	}

	// 构建 TUI 配置
	orientation, err := plot.ParseOrientation(c.String("orientation"))
	if err != nil {
		return nil, err
	}

	formatterAxis, err := plot.ParseAxisSelector(c.String("formatter-axis"))
	if err != nil {
		return nil, err
	}

	tuiConfig := tui.DefaultConfig()
	tuiConfig.HistorySize = c.Int("buffer")
	tuiConfig.TruncateTo = c.Int("truncate")
	tuiConfig.RefreshInterval = c.Duration("refresh-rate")
	tuiConfig.MinChartWidth = c.Int("chart-width")
	tuiConfig.MinChartHeight = c.Int("chart-height")
	tuiConfig.Ceiling = c.Float64("ceiling")
	tuiConfig.ZoomPct = c.Float64("zoom")
	tuiConfig.BridgeAlpha = c.Float64("bridge-alpha")
	tuiConfig.Orientation = orientation
	tuiConfig.Formatter = plot.FormatKind(c.String("formatter"))
	tuiConfig.FormatterAxis = formatterAxis

	level, err := parseLevel(c.String("log-level"))
	if err != nil {
		return nil, err
	}

	return &AppConfig{
		PingerConfig: pingerConfig,
		TUIConfig:    tuiConfig,
		Targets:      c.Args().Slice(),
		LogFile:      c.String("log-file"),
		LogLevel:     level,
		MetricsAddr:  c.String("metrics-addr"),
	}, nil
}

// validateConfig 验证配置的合理性
func validateConfig(config *AppConfig) error {
	// 验证 pinger 配置
	if err := config.PingerConfig.Validate(); err != nil {
		return fmt.Errorf("pinger配置错误: %w", err)
	}

	// 验证 TUI 配置
	if err := config.TUIConfig.Validate(); err != nil {
		return fmt.Errorf("tui配置错误: %w", err)
	}

	if config.LogFile == "" {
		return errors.New("日志文件路径不能为空")
	}

	return nil
}
