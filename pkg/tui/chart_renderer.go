// Package tui 图表渲染模块
package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/Kevin-Rudy/pingplot/pkg/plot"
)

// axesView 在tview中显示一个坐标系
type axesView struct {
	*tview.Box
	ax *plot.Axes
}

func newAxesView(ax *plot.Axes) *axesView {
	return &axesView{Box: tview.NewBox(), ax: ax}
}

// Draw 实现tview.Primitive，完整渲染坐标系
func (v *axesView) Draw(screen tcell.Screen) {
	v.Box.DrawForSubclass(screen, v)
	_, _, width, height := v.GetInnerRect()
	v.print(screen, v.ax.Render(width, height).Rows)
}

// print 把渲染结果逐行输出到组件区域
func (v *axesView) print(screen tcell.Screen, rows []string) {
	x, y, width, height := v.GetInnerRect()
	for i, row := range rows {
		if i >= height {
			break
		}
		tview.Print(screen, row, x, y+i, width, tview.AlignLeft, tcell.ColorWhite)
	}
}

// chartCanvas 实现plot.Canvas：把Figure中的坐标系放进tview网格
type chartCanvas struct {
	grid       *tview.Grid
	views      map[*plot.Axes]*axesView
	generation uint64
	built      bool
	minWidth   int
	minHeight  int

	// 最近一次绘制使用的屏幕，部分重绘直接写入该屏幕
	screen tcell.Screen
}

func newChartCanvas(grid *tview.Grid, minWidth, minHeight int) *chartCanvas {
	return &chartCanvas{
		grid:      grid,
		views:     make(map[*plot.Axes]*axesView),
		minWidth:  minWidth,
		minHeight: minHeight,
	}
}

// Draw 实现plot.Canvas
// 坐标系集合变化时重建网格，实际绘制由tview在事件处理之后完成
func (c *chartCanvas) Draw(fig *plot.Figure) {
	if c.built && fig.Generation() == c.generation {
		return
	}
	c.rebuild(fig)
}

// Blit 实现plot.Canvas，只重绘一个坐标系的图表主体
func (c *chartCanvas) Blit(ax *plot.Axes, lines []*plot.Line) {
	v, ok := c.views[ax]
	if !ok || c.screen == nil {
		return
	}
	frame, ok := ax.RenderPlotOnly(lines)
	if !ok {
		return
	}
	v.print(c.screen, frame.Rows)
	c.screen.Show()
}

// rebuild 按子图位置重新布置网格
// 不同子图所在的子网格列数不同，网格列数取它们的最小公倍数
func (c *chartCanvas) rebuild(fig *plot.Figure) {
	c.grid.Clear()
	c.views = make(map[*plot.Axes]*axesView)
	c.generation = fig.Generation()
	c.built = true

	axes := fig.Axes()
	rows, cols := 1, 1
	for _, ax := range axes {
		spec, ok := fig.Spec(ax)
		if !ok {
			continue
		}
		rows = max(rows, spec.Rows)
		cols = lcm(cols, spec.Cols)
	}
	c.grid.SetRows(make([]int, rows)...)
	c.grid.SetColumns(make([]int, cols)...)

	for _, ax := range axes {
		spec, ok := fig.Spec(ax)
		if !ok {
			continue
		}
		row, col := spec.Cell()
		span := cols / spec.Cols
		rowSpan := rows / spec.Rows

		v := newAxesView(ax)
		c.views[ax] = v
		c.grid.AddItem(v, row*rowSpan, col*span, rowSpan, span, c.minHeight, c.minWidth, false)
	}
}

// captureScreen 在每次完整绘制前记录屏幕
func (c *chartCanvas) captureScreen(screen tcell.Screen) bool {
	c.screen = screen
	return false
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm(a, b int) int {
	return a / gcd(a, b) * b
}
