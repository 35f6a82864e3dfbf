// Package tui 数据处理模块
package tui

import (
	"errors"
	"math"
	"strings"

	"github.com/Kevin-Rudy/pingplot/pkg/core"
	"github.com/Kevin-Rudy/pingplot/pkg/plot"
	"github.com/Kevin-Rudy/pingplot/pkg/series"
)

const (
	gapLabel     = "_gap"
	timeoutLabel = "_timeout"
	timeoutColor = "red"
	jitterLabel  = "_jitter"
)

// targetSeries 单个目标的滚动窗口和统计
type targetSeries struct {
	name   string
	color  string
	times  *series.Buffer[core.Value] // 发送时间（Unix秒）
	values *series.Buffer[core.Value] // 延迟(ms)，超时为Missing
	stats  *core.Stats
	line   *plot.Line // 最近一次完整重绘时的实线
}

func newTargetSeries(name, color string, cfg *Config) *targetSeries {
	return &targetSeries{
		name:   name,
		color:  color,
		times:  series.NewBuffer[core.Value](cfg.HistorySize, cfg.TruncateTo),
		values: series.NewBuffer[core.Value](cfg.HistorySize, cfg.TruncateTo),
		stats:  core.NewStats(name),
	}
}

// ingest 记录一个样本并只重绘所属子图的线条
func (t *TUI) ingest(sample core.Sample) {
	ts, ok := t.series[sample.Target]
	if !ok {
		t.logger.Warn("收到未知目标的样本", "target", sample.Target)
		return
	}

	ts.times.Push(core.Some(sample.Seconds()))
	ts.values.Push(sample.Value)
	ts.stats.Observe(sample.Value)
	t.updateSummaryRow(t.targetIndex(sample.Target))

	if ts.line == nil || ts.line.Axes() == nil {
		return
	}

	x := series.Shift(ts.times.Values(), nowSeconds())
	if err := ts.line.SetData(x, ts.values.Values()); err != nil {
		t.logger.Warn("更新线条失败", "target", ts.name, "error", err)
		return
	}

	panel := t.panelOf(t.targetIndex(sample.Target))
	lines, err := t.panelLines(panel)
	if err != nil {
		return
	}
	if err := t.graph.UpdatePlotOnly(lines, panel); err != nil {
		t.logger.Debug("部分重绘失败", "panel", panel, "error", err)
	}
}

// redrawAll 按当前时间完整重绘所有子图
func (t *TUI) redrawAll() {
	now := nowSeconds()
	for i := 0; i < t.graph.Len(); i++ {
		t.redrawPanel(i, now)
	}
	if err := t.graph.RefreshSelection(); err != nil {
		t.logger.Warn("重绘选区失败", "error", err)
	}
	t.graph.Update()
	t.updateStatus()
}

// redrawPanel 重绘一个子图中的所有目标
func (t *TUI) redrawPanel(i int, now float64) {
	targets := t.panelTargets(i)

	var window []core.Value
	for _, ts := range targets {
		window = append(window, ts.values.Values()...)
	}
	lim := t.panelLimits(i, window)

	hold := false
	for _, ts := range targets {
		y := ts.values.Values()
		if len(y) == 0 {
			continue
		}
		x := series.Shift(ts.times.Values(), now)

		opts := []plot.RedrawOption{
			plot.WithIndex(i),
			plot.WithLimits(lim),
			plot.WithStyle(plot.Style{Color: ts.color, Label: ts.name}),
			plot.WithAlpha(t.alphaFor(ts.name)),
			plot.WithoutDraw(),
		}
		if hold {
			opts = append(opts, plot.WithHold())
		}
		lines, err := t.graph.Redraw(x, y, opts...)
		if err != nil {
			t.logger.Warn("重绘失败", "panel", i, "target", ts.name, "error", err)
			continue
		}
		hold = true
		ts.line = lines[0]

		t.drawGaps(i, ts, x, y, lim)
	}

	if !hold {
		if err := t.graph.ClearLines(i); err == nil {
			_ = t.graph.SetLimits(lim, i)
		}
	}

	t.drawJitter(i, targets, now)
}

// drawGaps 用暗色直线连接缺失区间两侧的有效点，并在每段超时的末尾画出竖线
func (t *TUI) drawGaps(i int, ts *targetSeries, x, y []core.Value, lim plot.Limits) {
	alpha := min(t.tuiConfig.BridgeAlpha, t.alphaFor(ts.name))

	bx, by, err := series.Bridge(x, y)
	if err != nil {
		t.logger.Warn("计算缺失区间失败", "target", ts.name, "error", err)
		return
	}
	if len(bx) > 0 {
		_, err = t.graph.Redraw(bx, by,
			plot.WithIndex(i), plot.WithHold(), plot.WithLimits(lim),
			plot.WithStyle(plot.Style{Color: ts.color, Label: gapLabel}),
			plot.WithAlpha(alpha), plot.WithoutDraw())
		if err != nil {
			t.logger.Warn("绘制缺失区间失败", "target", ts.name, "error", err)
		}
	}

	ends := series.TrimRuns(series.MissingIndices(y))
	if len(ends) == 0 {
		return
	}
	mx := make([]core.Value, 0, 2*len(ends))
	my := make([]core.Value, 0, 2*len(ends))
	for _, k := range ends {
		mx = append(mx, x[k], x[k])
		my = append(my, core.Some(lim.Y1), core.Some(lim.Y2))
	}
	_, err = t.graph.Redraw(series.InjectMissing(mx, 2), series.InjectMissing(my, 2),
		plot.WithIndex(i), plot.WithHold(), plot.WithLimits(lim),
		plot.WithStyle(plot.Style{Color: timeoutColor, Label: timeoutLabel}),
		plot.WithAlpha(alpha), plot.WithoutDraw())
	if err != nil {
		t.logger.Warn("绘制超时标记失败", "target", ts.name, "error", err)
	}
}

// drawJitter 子图有次y轴时绘制相邻样本的延迟差
func (t *TUI) drawJitter(i int, targets []*targetSeries, now float64) {
	p, err := t.graph.Panel(i)
	if err != nil || p.Secondary() == nil {
		return
	}
	y2 := p.Secondary()
	y2.ClearLines()

	for _, ts := range targets {
		y := ts.values.Values()
		if len(y) < 2 {
			continue
		}
		x := series.Shift(ts.times.Values(), now)
		style := plot.Style{Color: ts.color, Label: jitterLabel, Alpha: t.tuiConfig.BridgeAlpha}
		if _, err := t.graph.RedrawSecondaryY(x, jitter(y), i, style); err != nil {
			t.logger.Warn("绘制抖动失败", "panel", i, "error", err)
		}
	}
}

// jitter 返回相邻两个样本延迟差的绝对值，第一个元素和任一侧缺失时为Missing
func jitter(y []core.Value) []core.Value {
	out := make([]core.Value, len(y))
	out[0] = core.Missing
	for k := 1; k < len(y); k++ {
		prev, ok1 := y[k-1].Get()
		cur, ok2 := y[k].Get()
		if ok1 && ok2 {
			out[k] = core.Some(math.Abs(cur - prev))
		} else {
			out[k] = core.Missing
		}
	}
	return out
}

// panelLimits 计算子图的坐标范围
// 窗口内数据全部缺失时沿用上一次的有效范围
func (t *TUI) panelLimits(i int, window []core.Value) plot.Limits {
	fixed := [2]float64{-t.window, 0}

	a, err := series.AxisLimitsWithCeiling(fixed, t.zoom, t.tuiConfig.Ceiling, window)
	if err == nil {
		if lim := plot.LimitsFrom(a); lim.Valid() {
			t.limits[i] = lim
			return lim
		}
	} else if !errors.Is(err, series.ErrAllMissing) {
		t.logger.Warn("计算坐标范围失败", "panel", i, "error", err)
	}

	if prev, ok := t.limits[i]; ok {
		return prev
	}
	return plot.Limits{X1: fixed[0], X2: fixed[1], Y1: 0, Y2: t.tuiConfig.Ceiling}
}

// panelTargets 返回分配到子图i的目标，目标按顺序轮流分配到各子图
func (t *TUI) panelTargets(i int) []*targetSeries {
	var out []*targetSeries
	for j, name := range t.targets {
		if t.panelOf(j) == i {
			out = append(out, t.series[name])
		}
	}
	return out
}

// panelOf 返回第j个目标所在的子图
func (t *TUI) panelOf(j int) int {
	n := t.graph.Len()
	if n == 0 {
		return 0
	}
	return j % n
}

// panelTitle 由子图中的目标名组成标题
func (t *TUI) panelTitle(i int) string {
	names := make([]string, 0, len(t.targets))
	for _, ts := range t.panelTargets(i) {
		names = append(names, ts.name)
	}
	return strings.Join(names, ", ")
}

// panelLines 返回子图主坐标系和次y轴上的所有线条
func (t *TUI) panelLines(i int) ([]*plot.Line, error) {
	p, err := t.graph.Panel(i)
	if err != nil {
		return nil, err
	}
	lines := p.Lines()
	if y2 := p.Secondary(); y2 != nil {
		lines = append(lines, y2.Lines()...)
	}
	return lines, nil
}

// targetIndex 返回目标在命令行中的顺序
func (t *TUI) targetIndex(name string) int {
	for i, target := range t.targets {
		if target == name {
			return i
		}
	}
	return -1
}

// alphaFor 选中某个目标时其它目标以暗色绘制
func (t *TUI) alphaFor(name string) float64 {
	if t.selectedRow < 0 || t.targets[t.selectedRow] == name {
		return 1
	}
	return t.tuiConfig.BridgeAlpha
}
