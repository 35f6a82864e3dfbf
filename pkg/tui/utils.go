// Package tui 工具函数和辅助类型
package tui

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/Kevin-Rudy/pingplot/pkg/core"
	"github.com/Kevin-Rudy/pingplot/pkg/metrics"
	"github.com/Kevin-Rudy/pingplot/pkg/plot"
)

// colorSequence 目标颜色序列，按命令行顺序分配，保证颜色稳定
var colorSequence = []string{
	"green", "yellow", "blue", "magenta", "cyan", "orange",
	"purple", "lime", "pink",
	"darkcyan", "darkgreen", "darkblue", "darkmagenta",
}

// targetColor 返回第i个目标的颜色
func targetColor(i int) string {
	return colorSequence[i%len(colorSequence)]
}

// formatterCycle 按f键时循环切换的y轴格式化器
var formatterCycle = []plot.FormatKind{
	plot.FormatLatency,
	plot.FormatPlain,
	plot.FormatSci,
	plot.FormatLog,
}

func formatterIndex(kind plot.FormatKind) int {
	for i, k := range formatterCycle {
		if k == kind {
			return i
		}
	}
	return 0
}

// formatValue 格式化可能缺失的延迟
func formatValue(v core.Value) string {
	f, ok := v.Get()
	if !ok {
		return "N/A"
	}
	return plot.LatencyLabel(f)
}

// formatCount 以千分位格式化包计数
func formatCount(n int) string {
	return humanize.Comma(int64(n))
}

// formatLoss 格式化丢包率
func formatLoss(stats *core.Stats) string {
	if stats.PacketsSent == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%%", stats.LossRate())
}

// formatExported 汇总所有目标已导出的计数
func formatExported(totals map[string]metrics.Totals) string {
	var sum metrics.Totals
	for _, t := range totals {
		sum.Sent += t.Sent
		sum.Lost += t.Lost
	}
	return fmt.Sprintf("已导出 %s 丢失 %s (%.1f%%)",
		humanize.Comma(int64(sum.Sent)), humanize.Comma(int64(sum.Lost)), sum.LossRate())
}

// formatExtreme 格式化最小/最大延迟，还没有收到回复时为N/A
func formatExtreme(stats *core.Stats, v float64) string {
	if stats.PacketsRecv == 0 {
		return "N/A"
	}
	return plot.LatencyLabel(v)
}
