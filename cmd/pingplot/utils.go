package main

import (
	"fmt"
	"log/slog"

	"github.com/Kevin-Rudy/pingplot/pkg/pinger"
)

// 程序信息常量
const (
	AppName    = "pingplot"
	AppVersion = "0.2.0"
	AppDesc    = "多目标实时延迟图表，支持多子图布局"
)

// showSystemInfo 显示系统环境信息
func showSystemInfo(l *slog.Logger, systemPing bool) {
	info := pinger.GetSystemInfo(systemPing)
	l.Info("系统信息", "os", info.OS, "privilege", info.Privilege, "implementation", info.Implementation)
}

// printRunningConfig 打印运行配置信息
func printRunningConfig(l *slog.Logger, config *AppConfig) {
	l.Info("运行配置",
		"targets", config.Targets,
		"interval", config.PingerConfig.Interval,
		"timeout", config.PingerConfig.Timeout,
		"history", config.TUIConfig.HistorySize,
		"log_file", config.LogFile,
	)
}

// printUsageInstructions 显示TUI操作说明
func printUsageInstructions() {
	fmt.Println("操作说明:")
	fmt.Println("  ↑/↓ 方向键  - 导航选择目标，在边界继续按切换到全选")
	fmt.Println("  a / h       - 纵向 / 横向添加子图，d 删除最后一个子图")
	fmt.Println("  g / m       - 切换网格 / 标记当前坐标范围")
	fmt.Println("  + / -       - 调整y轴留白，s 添加抖动次y轴，f 切换刻度格式")
	fmt.Println("  q 或 Ctrl+C - 退出程序")
	fmt.Println("========================================")
}
