// Package tui 交互控制模块
package tui

import (
	"errors"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/Kevin-Rudy/pingplot/pkg/plot"
)

// navigationThrottle 导航事件频率控制：连续threshold次事件后休息rest
type navigationThrottle struct {
	counter   int
	threshold int
	rest      time.Duration
	resting   bool
	last      time.Time
}

// allow 判断是否应该处理导航事件
func (n *navigationThrottle) allow(now time.Time) bool {
	if !n.resting {
		return true
	}
	// 休息够了，重置状态
	if now.Sub(n.last) >= n.rest {
		n.resting = false
		n.counter = 0
		return true
	}
	return false
}

// record 记录导航事件
func (n *navigationThrottle) record(now time.Time) {
	n.counter++
	n.last = now

	if n.counter >= n.threshold {
		n.resting = true
	}
}

// setupKeyBindings 设置键盘绑定
func (t *TUI) setupKeyBindings() {
	t.nav.threshold = 5
	t.nav.rest = 100 * time.Millisecond
	t.app.SetInputCapture(t.handleKey)
}

// handleKey 处理全局按键，返回nil表示事件已处理
func (t *TUI) handleKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyCtrlC:
		t.Stop()
		return nil
	case tcell.KeyTab, tcell.KeyBacktab:
		if t.app.GetFocus() == t.gridBox {
			t.app.SetFocus(t.markBtn)
		} else {
			t.app.SetFocus(t.gridBox)
		}
		return nil
	case tcell.KeyUp, tcell.KeyDown:
		now := time.Now()
		if t.nav.allow(now) {
			if event.Key() == tcell.KeyUp {
				t.navigateUp()
			} else {
				t.navigateDown()
			}
			t.nav.record(now)
		}
		return nil
	case tcell.KeyRune:
		return t.handleRune(event)
	}
	return event
}

func (t *TUI) handleRune(event *tcell.EventKey) *tcell.EventKey {
	switch event.Rune() {
	case 'q', 'Q':
		t.Stop()
	case 'g', 'G':
		show := !t.graph.GridShown()
		t.gridBox.SetChecked(show)
		t.graph.ShowGrid(show)
	case 'm', 'M':
		t.toggleSelection()
	case 'a', 'A':
		t.addSubplot(plot.Vertical)
	case 'h', 'H':
		t.addSubplot(plot.Horizontal)
	case 'd', 'D':
		t.removeSubplot()
	case '+', '=':
		t.setZoom(t.zoom + t.tuiConfig.ZoomStep)
	case '-', '_':
		t.setZoom(t.zoom - t.tuiConfig.ZoomStep)
	case 's', 'S':
		if err := t.graph.AddSecondaryYAxis(t.tuiConfig.SecondaryLabel); err != nil {
			t.logger.Warn("添加次y轴失败", "error", err)
		}
		t.redrawAll()
	case 'f', 'F':
		t.cycleFormatter()
	default:
		return event
	}
	return nil
}

// toggleSelection 标记或取消当前坐标范围的选区
func (t *TUI) toggleSelection() {
	if err := t.graph.ToggleSelection(); err != nil {
		t.logger.Warn("标记选区失败", "error", err)
	}
}

// addSubplot 添加子图并重新分配目标
func (t *TUI) addSubplot(o plot.Orientation) {
	i, err := t.graph.AddSubplot("", o)
	if err != nil {
		t.logger.Warn("添加子图失败", "error", err)
		return
	}
	t.logger.Debug("已添加子图", "index", i, "layout", t.graph.Layout().String())
	t.limits = make(map[int]plot.Limits)
	t.retitle()
	t.redrawAll()
}

// removeSubplot 删除最后一个子图，至少保留一个
func (t *TUI) removeSubplot() {
	if t.graph.Len() <= 1 {
		return
	}
	if err := t.graph.RemoveSubplot(); err != nil {
		if !errors.Is(err, plot.ErrNoSubplot) {
			t.logger.Warn("删除子图失败", "error", err)
		}
		return
	}
	t.limits = make(map[int]plot.Limits)
	t.retitle()
	t.redrawAll()
}

// setZoom 调整y轴留白，不小于0
func (t *TUI) setZoom(pct float64) {
	t.zoom = max(0, pct)
	t.redrawAll()
}

// cycleFormatter 切换格式化器
func (t *TUI) cycleFormatter() {
	t.formatter = (t.formatter + 1) % len(formatterCycle)
	if err := t.graph.SetFormatter(formatterCycle[t.formatter], t.tuiConfig.FormatterAxis); err != nil {
		t.logger.Warn("设置格式化器失败", "error", err)
	}
	t.updateStatus()
}

// navigateUp 向上导航
func (t *TUI) navigateUp() {
	if len(t.targets) == 0 {
		return
	}

	if t.selectedRow == -1 {
		// 从全选状态按上键，选择最后一个条目
		t.selectedRow = len(t.targets) - 1
	} else if t.selectedRow > 0 {
		// 向上移动到上一个条目
		t.selectedRow--
	} else {
		// 在第一个条目时按上键，返回全选状态
		t.selectedRow = -1
	}

	t.updateSelection()
	t.redrawAll()
}

// navigateDown 向下导航
func (t *TUI) navigateDown() {
	if len(t.targets) == 0 {
		return
	}

	if t.selectedRow == -1 {
		// 从全选状态按下键，选择第一个条目
		t.selectedRow = 0
	} else if t.selectedRow < len(t.targets)-1 {
		// 向下移动到下一个条目
		t.selectedRow++
	} else {
		// 在最后一个条目时按下键，返回全选状态
		t.selectedRow = -1
	}

	t.updateSelection()
	t.redrawAll()
}
