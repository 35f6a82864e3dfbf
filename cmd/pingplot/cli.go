package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
	"github.com/urfave/cli/v2/altsrc"

	"github.com/Kevin-Rudy/pingplot/pkg/pinger"
)

// createCliApp 创建CLI应用实例
func createCliApp() *cli.App {
	flags := createCliFlags()

	app := &cli.App{
		Name:    AppName,
		Version: AppVersion,
		Usage:   AppDesc,
		Flags:   flags,
		Action:  runApp,
		// 命令行参数优先，其余从 --config 指定的YAML文件读取
		Before:    altsrc.InitInputSourceWithContext(flags, altsrc.NewYamlSourceFromFlagFunc("config")),
		ArgsUsage: "<目标主机...>",
	}

	// 添加版本子命令
	app.Commands = createCommands()

	return app
}

// createCliFlags 创建CLI参数定义
// 除 config、4、6 外的参数都可以写在YAML配置文件中，键名与参数名相同
func createCliFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML配置文件路径",
		},
		&cli.BoolFlag{
			Name:  "4",
			Usage: "使用IPv4进行域名解析（默认）",
			Value: true,
		},
		&cli.BoolFlag{
			Name:  "6",
			Usage: "使用IPv6进行域名解析",
		},
		altsrc.NewDurationFlag(&cli.DurationFlag{
			Name:    "watch-interval",
			Aliases: []string{"n"},
			Value:   200 * time.Millisecond,
			Usage:   "ping间隔时间 (例如: 100ms, 1s)",
		}),
		altsrc.NewDurationFlag(&cli.DurationFlag{
			Name:    "timeout",
			Aliases: []string{"t"},
			Value:   3 * time.Second,
			Usage:   "ping超时时间 (例如: 3s, 1000ms)",
		}),
		altsrc.NewBoolFlag(&cli.BoolFlag{
			Name:  "system-ping",
			Usage: "使用系统ping命令代替ICMP套接字",
		}),
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:  "ping-path",
			Usage: "系统ping命令路径，默认在PATH中查找",
		}),
		altsrc.NewIntFlag(&cli.IntFlag{
			Name:    "buffer",
			Aliases: []string{"b"},
			Value:   150,
			Usage:   "图表历史缓冲区大小",
		}),
		altsrc.NewIntFlag(&cli.IntFlag{
			Name:  "truncate",
			Usage: "缓冲区满时截断保留的样本数，0表示滑动窗口",
		}),
		altsrc.NewDurationFlag(&cli.DurationFlag{
			Name:    "refresh-rate",
			Aliases: []string{"r"},
			Value:   200 * time.Millisecond,
			Usage:   "UI刷新频率 (例如: 100ms, 500ms)",
		}),
		altsrc.NewIntFlag(&cli.IntFlag{
			Name:  "chart-width",
			Value: 20,
			Usage: "最小图表宽度",
		}),
		altsrc.NewIntFlag(&cli.IntFlag{
			Name:  "chart-height",
			Value: 5,
			Usage: "最小图表高度",
		}),
		altsrc.NewFloat64Flag(&cli.Float64Flag{
			Name:  "ceiling",
			Value: 100.0,
			Usage: "图表默认上限值 (ms)",
		}),
		altsrc.NewFloat64Flag(&cli.Float64Flag{
			Name:  "zoom",
			Value: 20,
			Usage: "y轴上下留白百分比",
		}),
		altsrc.NewFloat64Flag(&cli.Float64Flag{
			Name:  "bridge-alpha",
			Value: 0.3,
			Usage: "超时区间连线和未选中目标的透明度 (0, 1]",
		}),
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:  "orientation",
			Value: "vertical",
			Usage: "添加子图的默认方向 (vertical, horizontal)",
		}),
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:  "formatter",
			Value: "latency",
			Usage: "y轴刻度格式 (latency, plain, sci, log)",
		}),
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:  "formatter-axis",
			Value: "y",
			Usage: "刻度格式作用的坐标轴 (all, x, y)",
		}),
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:  "log-file",
			Value: "pingplot.log",
			Usage: "日志文件路径",
		}),
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:  "log-level",
			Value: "info",
			Usage: "日志级别 (debug, info, warn, error)",
		}),
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:  "metrics-addr",
			Usage: "Prometheus指标监听地址，为空时不启动 (例如: 127.0.0.1:9101)",
		}),
	}
}

// createCommands 创建子命令
func createCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:    "version",
			Aliases: []string{"v"},
			Usage:   "显示详细版本信息",
			Action: func(c *cli.Context) error {
				info := pinger.GetSystemInfo(false)
				fmt.Printf("%s v%s\n", AppName, AppVersion)
				fmt.Printf("描述: %s\n", AppDesc)
				fmt.Printf("系统: %s\n", info.OS)
				fmt.Printf("实现: %s\n", info.Implementation)
				return nil
			},
		},
	}
}
