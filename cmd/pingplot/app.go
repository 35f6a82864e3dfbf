package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Kevin-Rudy/pingplot/pkg/metrics"
	"github.com/Kevin-Rudy/pingplot/pkg/pinger"
	"github.com/Kevin-Rudy/pingplot/pkg/tui"
)

// runApp 主要应用逻辑处理函数
func runApp(c *cli.Context) error {
	// 验证命令行参数
	targets := c.Args().Slice()
	if len(targets) == 0 {
		return cli.Exit("错误: 必须指定至少一个要ping的目标地址\n使用方法: pingplot <目标主机...>", 1)
	}

	// IP版本冲突检查
	explicitIPv4 := c.IsSet("4")
	ipv6 := c.Bool("6")
	if explicitIPv4 && ipv6 {
		return cli.Exit("错误: -4 和 -6 选项不能同时使用", 1)
	}

	// 构建并验证配置
	appConfig, err := buildConfigFromCLI(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("配置错误: %v", err), 1)
	}
	if err := validateConfig(appConfig); err != nil {
		return cli.Exit(fmt.Sprintf("配置验证失败: %v", err), 1)
	}

	console := newConsoleLogger(os.Stderr, appConfig.LogLevel)

	logger, logFile, err := newFileLogger(appConfig.LogFile, appConfig.LogLevel)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer logFile.Close()
	appConfig.PingerConfig.Logger = logger
	appConfig.TUIConfig.Logger = logger

	printRunningConfig(console, appConfig)
	showSystemInfo(console, appConfig.PingerConfig.SystemPing)

	console.Info("正在初始化ping引擎...")
	source, err := pinger.NewPinger(appConfig.Targets, appConfig.PingerConfig)
	if err != nil {
		return cli.Exit(fmt.Sprintf("无法创建ping引擎: %v", err), 1)
	}

	// 可选的Prometheus指标服务，样本在进入界面之前计数
	var server *metrics.Server
	if appConfig.MetricsAddr != "" {
		collector := metrics.NewCollector()
		registry, err := metrics.NewRegistry(collector)
		if err != nil {
			return cli.Exit(fmt.Sprintf("无法注册指标: %v", err), 1)
		}
		server, err = metrics.Listen(appConfig.MetricsAddr, registry, logger.With("component", "metrics"))
		if err != nil {
			return cli.Exit(fmt.Sprintf("无法启动指标服务: %v", err), 1)
		}
		appConfig.TUIConfig.SampleObserver = collector.Observe
		appConfig.TUIConfig.MetricsTotals = collector.Snapshot
		console.Info("指标服务已启动", "url", fmt.Sprintf("http://%s/metrics", server.Addr()))
	}

	ui, err := tui.NewTUI(source, appConfig.Targets, appConfig.TUIConfig, appConfig.PingerConfig)
	if err != nil {
		return cli.Exit(fmt.Sprintf("无法创建TUI界面: %v", err), 1)
	}

	console.Info("正在启动TUI界面...")
	printUsageInstructions()

	// 界面退出（包括按q）时取消上下文，指标服务随之关闭
	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return ui.Run(ctx)
	})
	if server != nil {
		g.Go(func() error {
			return server.Serve(ctx)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("程序异常退出", "error", err)
		return cli.Exit(fmt.Sprintf("运行出错: %v", err), 1)
	}

	logger.Info("程序已退出")
	fmt.Println("\n程序已退出")
	return nil
}
