// Package tui 时间管理模块
package tui

import (
	"time"
)

// nowSeconds 返回当前时间的Unix秒，与core.Sample.Seconds使用同一时间基准
func nowSeconds() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}

// windowDuration 返回x轴显示的时间窗口
// 窗口长度 = 历史缓冲区大小 * 采样间隔，最新的样本位于x=0
func (t *TUI) windowDuration() time.Duration {
	return time.Duration(t.window * float64(time.Second)).Round(time.Millisecond)
}
