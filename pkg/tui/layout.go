// Package tui 布局管理模块
package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/Kevin-Rudy/pingplot/pkg/plot"
)

const (
	xLabel = "时间 (s)"
	yLabel = "延迟 (ms)"
)

// summaryHeaders 统计表的列
var summaryHeaders = []string{"目标", "发送", "接收", "丢包率", "最新", "平均", "最小", "最大", "标准差"}

// setupUI 设置用户界面布局
// 状态行、工具栏、子图网格、统计表自上而下排列
func (t *TUI) setupUI() error {
	t.status = tview.NewTextView()
	t.status.SetDynamicColors(true)
	t.status.SetText("[green]pingplot 已启动[white] - [yellow]正在连接目标...[white]")

	t.gridBox = tview.NewCheckbox()
	t.gridBox.SetLabel("Show Grid ")
	t.gridBox.SetChecked(true)
	t.gridBox.SetChangedFunc(func(checked bool) {
		t.graph.ShowGrid(checked)
	})

	t.markBtn = tview.NewButton("Mark selection")
	t.markBtn.SetSelectedFunc(t.toggleSelection)

	help := tview.NewTextView()
	help.SetDynamicColors(true)
	help.SetText("[gray]q 退出  g 网格  m 选区  a/h 添加子图  d 删除子图  +/- 缩放  s 抖动  f 格式  ↑/↓ 选择目标[white]")

	toolbar := tview.NewFlex()
	toolbar.SetDirection(tview.FlexColumn)
	toolbar.AddItem(t.gridBox, 14, 0, true)
	toolbar.AddItem(nil, 2, 0, false)
	toolbar.AddItem(t.markBtn, 16, 0, false)
	toolbar.AddItem(nil, 2, 0, false)
	toolbar.AddItem(help, 0, 1, false)

	t.panels = tview.NewGrid()
	t.canvas = newChartCanvas(t.panels, t.tuiConfig.MinChartWidth, t.tuiConfig.MinChartHeight)

	graph, err := plot.NewGraph("",
		plot.WithOrientation(t.tuiConfig.Orientation),
		plot.WithLabels(xLabel, yLabel),
		plot.WithCanvas(t.canvas),
	)
	if err != nil {
		return err
	}
	t.graph = graph
	if err := t.graph.SetFormatter(t.tuiConfig.Formatter, t.tuiConfig.FormatterAxis); err != nil {
		return err
	}
	t.retitle()

	t.table = tview.NewTable()
	t.table.SetBorders(false)
	t.table.SetFixed(1, 1)
	for col, header := range summaryHeaders {
		align := tview.AlignRight
		if col == 0 {
			align = tview.AlignLeft
		}
		t.table.SetCell(0, col, tview.NewTableCell(header).
			SetTextColor(tcell.ColorYellow).
			SetAlign(align).
			SetExpansion(1).
			SetSelectable(false))
	}
	for i := range t.targets {
		t.updateSummaryRow(i)
	}

	t.root = tview.NewFlex()
	t.root.SetDirection(tview.FlexRow)
	t.root.AddItem(t.status, 1, 0, false)
	t.root.AddItem(toolbar, 1, 0, true)
	t.root.AddItem(t.panels, 0, 1, false)
	t.root.AddItem(t.table, len(t.targets)+1, 0, false)

	t.app.SetRoot(t.root, true)
	t.app.SetFocus(t.gridBox)
	t.app.SetBeforeDrawFunc(t.canvas.captureScreen)

	return nil
}

// updateSummaryRow 刷新统计表中第i个目标的一行
func (t *TUI) updateSummaryRow(i int) {
	if i < 0 || i >= len(t.targets) {
		return
	}
	ts := t.series[t.targets[i]]
	stats := ts.stats

	values := []string{
		tview.Escape(ts.name),
		formatCount(stats.PacketsSent),
		formatCount(stats.PacketsRecv),
		formatLoss(stats),
		formatValue(stats.Last),
		formatValue(stats.Mean()),
		formatExtreme(stats, stats.MinLatency),
		formatExtreme(stats, stats.MaxLatency),
		formatValue(stats.StdDev()),
	}

	bg := tcell.ColorDefault
	if t.selectedRow == i {
		bg = tcell.ColorDarkCyan
	}

	for col, text := range values {
		cell := tview.NewTableCell(text).
			SetExpansion(1).
			SetBackgroundColor(bg)
		if col == 0 {
			cell.SetTextColor(tcell.GetColor(ts.color))
		} else {
			cell.SetAlign(tview.AlignRight)
		}
		t.table.SetCell(i+1, col, cell)
	}
}

// updateSelection 更新行选择状态
func (t *TUI) updateSelection() {
	for i := range t.targets {
		t.updateSummaryRow(i)
	}
}

// updateStatus 刷新状态行
func (t *TUI) updateStatus() {
	kind := formatterCycle[t.formatter]
	text := fmt.Sprintf(
		"[green]pingplot[white]  布局 %s  窗口 %s  留白 %.0f%%  格式 %s",
		t.graph.Layout(), t.windowDuration(), t.zoom, kind,
	)
	if totals := t.tuiConfig.MetricsTotals; totals != nil {
		text += "  " + formatExported(totals())
	}
	t.status.SetText(text)
}

// retitle 按目标分配更新所有子图标题
func (t *TUI) retitle() {
	titles := make([]string, t.graph.Len())
	for i := range titles {
		titles[i] = t.panelTitle(i)
	}
	if err := t.graph.SetTitles(titles); err != nil {
		t.logger.Warn("设置子图标题失败", "error", err)
	}
}
