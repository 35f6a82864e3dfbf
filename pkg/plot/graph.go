package plot

import (
	"errors"
	"fmt"

	"github.com/Kevin-Rudy/pingplot/pkg/core"
)

// ErrNoSecondaryAxis 子图没有次y轴
var ErrNoSecondaryAxis = errors.New("子图没有次y轴")

// selectionStyle 选区框线条的样式，标签以"_"开头因此不出现在图例中
var selectionStyle = Style{Color: "white", Label: "_selection"}

// Graph 多子图图表
// 所有方法都必须在同一个goroutine（界面事件循环）中调用
type Graph struct {
	figure      *Figure
	plots       *Collection
	layout      Layout
	orientation Orientation
}

// GraphOption Graph配置选项
type GraphOption func(*Graph)

// WithOrientation 设置添加子图时的默认扩展方向
func WithOrientation(o Orientation) GraphOption {
	return func(g *Graph) {
		g.orientation = o
	}
}

// WithLabels 设置默认的x、y轴标签
func WithLabels(xLabel, yLabel string) GraphOption {
	return func(g *Graph) {
		g.plots.XLabel = xLabel
		g.plots.YLabel = yLabel
	}
}

// WithCanvas 设置显示外壳
func WithCanvas(c Canvas) GraphOption {
	return func(g *Graph) {
		g.figure.SetCanvas(c)
	}
}

// WithDefaultFormatter 设置新子图使用的格式化器
func WithDefaultFormatter(f Formatter) GraphOption {
	return func(g *Graph) {
		g.plots.SetDefaultFormatter(f, AxisAll)
	}
}

// NewGraph 创建只有一个子图的图表，title为第一个子图的标题
func NewGraph(title string, opts ...GraphOption) (*Graph, error) {
	fig := NewFigure()
	g := &Graph{
		figure: fig,
		plots:  NewCollection(fig, "", ""),
		layout: Layout{Rows: 1, Cols: 1, Count: 1},
	}
	for _, opt := range opts {
		opt(g)
	}

	ax, err := fig.AddSubplot(SubplotSpec{Rows: 1, Cols: 1, Index: 1})
	if err != nil {
		return nil, err
	}
	if _, err := g.plots.Append(ax, title); err != nil {
		return nil, err
	}
	return g, nil
}

// Figure 返回底层Figure
func (g *Graph) Figure() *Figure { return g.figure }

// Collection 返回子图集合
func (g *Graph) Collection() *Collection { return g.plots }

// Layout 返回当前布局
func (g *Graph) Layout() Layout { return g.layout }

// Len 返回子图数量
func (g *Graph) Len() int { return g.plots.Len() }

// Panel 返回指定索引的子图
func (g *Graph) Panel(i int) (*Panel, error) { return g.plots.Panel(i) }

// SetCanvas 设置显示外壳
func (g *Graph) SetCanvas(c Canvas) { g.figure.SetCanvas(c) }

// AddSubplot 添加一个子图并重建所有坐标系，返回新子图的索引
// 最后一行未填满时，该行的子图会被拉伸以占满整行
func (g *Graph) AddSubplot(title string, orientation ...Orientation) (int, error) {
	o := g.orientation
	if len(orientation) > 0 {
		o = orientation[0]
	}

	g.layout = g.layout.Grow(o)
	g.plots.ClearAxes()

	for i, spec := range g.layout.Placements() {
		ax, err := g.figure.AddSubplot(spec)
		if err != nil {
			return -1, err
		}
		if i == g.layout.Count-1 {
			_, err = g.plots.Append(ax, title)
		} else {
			err = g.plots.SetAxes(ax, i)
		}
		if err != nil {
			return -1, err
		}
	}

	g.figure.Draw()
	return g.layout.Count - 1, nil
}

// RemoveSubplot 移除最后一个子图
// 只有网格几何形状变化时才重建所有坐标系
func (g *Graph) RemoveSubplot() error {
	next, changed, err := g.layout.Shrink()
	if err != nil {
		return err
	}
	if err := g.plots.RemoveLast(); err != nil {
		return err
	}
	g.layout = next

	if changed {
		g.plots.ClearAxes()
		for i, spec := range g.layout.Placements() {
			ax, err := g.figure.AddSubplot(spec)
			if err != nil {
				return err
			}
			if err := g.plots.SetAxes(ax, i); err != nil {
				return err
			}
		}
	}

	g.figure.Draw()
	return nil
}

// panels 解析索引列表，没有索引表示全部子图
// 任何一个索引越界都会在修改之前返回错误
func (g *Graph) panels(indices []int) ([]*Panel, error) {
	if len(indices) == 0 {
		return g.plots.Panels(), nil
	}
	out := make([]*Panel, 0, len(indices))
	for _, i := range indices {
		p, err := g.plots.Panel(i)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// boundAxes 返回指定子图的坐标系
func (g *Graph) boundAxes(index int) (*Panel, *Axes, error) {
	p, err := g.plots.Panel(index)
	if err != nil {
		return nil, nil, err
	}
	ax := p.Axes()
	if ax == nil {
		return nil, nil, fmt.Errorf("子图 %d: %w", index, ErrPanelUnbound)
	}
	return p, ax, nil
}

// redrawConfig Redraw的可选参数
type redrawConfig struct {
	index    int
	hold     bool
	xmin     *float64
	ymin     *float64
	limits   *Limits
	selector func(x1, x2, y1, y2 float64) Limits
	alpha    float64
	draw     bool
	style    Style
}

// RedrawOption Redraw的可选参数
type RedrawOption func(*redrawConfig)

// WithIndex 指定子图索引（默认0）
func WithIndex(i int) RedrawOption {
	return func(c *redrawConfig) { c.index = i }
}

// WithHold 保留已有的线条
func WithHold() RedrawOption {
	return func(c *redrawConfig) { c.hold = true }
}

// WithXMin 固定x轴下限
func WithXMin(v float64) RedrawOption {
	return func(c *redrawConfig) { c.xmin = &v }
}

// WithYMin 固定y轴下限
func WithYMin(v float64) RedrawOption {
	return func(c *redrawConfig) { c.ymin = &v }
}

// WithLimits 设置坐标范围，覆盖WithXMin和WithYMin
func WithLimits(l Limits) RedrawOption {
	return func(c *redrawConfig) { c.limits = &l }
}

// WithLimitSelector 根据自动计算的范围选择最终范围，覆盖其它范围选项
func WithLimitSelector(f func(x1, x2, y1, y2 float64) Limits) RedrawOption {
	return func(c *redrawConfig) { c.selector = f }
}

// WithAlpha 设置线条透明度
func WithAlpha(a float64) RedrawOption {
	return func(c *redrawConfig) { c.alpha = a }
}

// WithoutDraw 不立即重绘，由调用方在一批更新后调用Update
func WithoutDraw() RedrawOption {
	return func(c *redrawConfig) { c.draw = false }
}

// WithStyle 设置线条颜色和标签
func WithStyle(s Style) RedrawOption {
	return func(c *redrawConfig) { c.style = s }
}

// Redraw 在子图中绘制新线条并返回线条句柄
func (g *Graph) Redraw(x, y []core.Value, opts ...RedrawOption) ([]*Line, error) {
	cfg := redrawConfig{alpha: 1, draw: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	p, ax, err := g.boundAxes(cfg.index)
	if err != nil {
		return nil, err
	}

	if !cfg.hold {
		ax.ClearLines()
		p.selection = nil
	}

	style := cfg.style
	style.Alpha = cfg.alpha
	line, err := ax.Plot(x, y, style)
	if err != nil {
		return nil, err
	}

	auto := ax.Axis()
	lim := auto
	if cfg.xmin != nil {
		lim.X1 = *cfg.xmin
	}
	if cfg.ymin != nil {
		lim.Y1 = *cfg.ymin
	}
	ax.SetAxis(lim)
	if cfg.limits != nil {
		ax.SetAxis(*cfg.limits)
	}
	if cfg.selector != nil {
		ax.SetAxis(cfg.selector(auto.X1, auto.X2, auto.Y1, auto.Y2))
	}

	p.Reload()
	if cfg.draw {
		g.figure.Draw()
	}
	return []*Line{line}, nil
}

// RedrawSecondaryY 在子图的次y轴上绘制新线条
func (g *Graph) RedrawSecondaryY(x, y []core.Value, index int, style Style) ([]*Line, error) {
	p, err := g.plots.Panel(index)
	if err != nil {
		return nil, err
	}
	y2 := p.Secondary()
	if y2 == nil {
		return nil, fmt.Errorf("子图 %d: %w", index, ErrNoSecondaryAxis)
	}
	if style.Color == "" {
		style.Color = "red"
	}

	line, err := y2.Plot(x, y, style)
	if err != nil {
		return nil, err
	}
	g.figure.Draw()
	return []*Line{line}, nil
}

// UpdatePlotOnly 只重绘子图的背景、给定线条和网格线
func (g *Graph) UpdatePlotOnly(lines []*Line, index int) error {
	_, ax, err := g.boundAxes(index)
	if err != nil {
		return err
	}
	g.figure.Blit(ax, lines)
	return nil
}

// Update 完整重绘
func (g *Graph) Update() {
	g.figure.Draw()
}

// SetLimits 设置子图的坐标范围
func (g *Graph) SetLimits(l Limits, indices ...int) error {
	panels, err := g.panels(indices)
	if err != nil {
		return err
	}
	for _, p := range panels {
		if ax := p.Axes(); ax != nil {
			ax.SetAxis(l)
		}
	}
	g.figure.Draw()
	return nil
}

// SetLabel 设置子图的坐标轴标签
func (g *Graph) SetLabel(xLabel, yLabel string, indices ...int) error {
	if len(indices) == 0 {
		indices = make([]int, g.plots.Len())
		for i := range indices {
			indices[i] = i
		}
	}
	if _, err := g.panels(indices); err != nil {
		return err
	}
	for _, i := range indices {
		if err := g.plots.SetLabel(xLabel, yLabel, i); err != nil {
			return err
		}
	}
	g.figure.Draw()
	return nil
}

// SetTitle 设置子图标题
func (g *Graph) SetTitle(title string, indices ...int) error {
	panels, err := g.panels(indices)
	if err != nil {
		return err
	}
	for _, p := range panels {
		p.SetTitle(title)
	}
	g.figure.Draw()
	return nil
}

// SetTitles 依次设置前len(titles)个子图的标题
func (g *Graph) SetTitles(titles []string) error {
	if len(titles) > g.plots.Len() {
		return &IndexError{Index: g.plots.Len()}
	}
	for i, title := range titles {
		g.plots.panels[i].SetTitle(title)
	}
	g.figure.Draw()
	return nil
}

// SetFormatter 设置子图的格式化器；不指定索引时同时更新默认格式化器
func (g *Graph) SetFormatter(kind FormatKind, which AxisSelector, indices ...int) error {
	f, err := NewFormatter(kind)
	if err != nil {
		return err
	}
	panels, err := g.panels(indices)
	if err != nil {
		return err
	}
	for _, p := range panels {
		p.SetFormatter(f, which)
	}
	if len(indices) == 0 {
		g.plots.SetDefaultFormatter(f, which)
	}
	g.figure.Draw()
	return nil
}

// AddSecondaryYAxis 为子图创建次y轴，已存在时只更新标签
// 不指定索引时之后添加的子图也会带有次y轴
func (g *Graph) AddSecondaryYAxis(label string, indices ...int) error {
	panels, err := g.panels(indices)
	if err != nil {
		return err
	}
	for _, p := range panels {
		p.CreateOrRelabelSecondaryAxis(label)
	}
	if len(indices) == 0 {
		g.plots.SecondaryYAxis = true
		g.plots.Y2Label = label
	}
	g.figure.Draw()
	return nil
}

// ShowGrid 设置所有子图是否显示网格
func (g *Graph) ShowGrid(show bool) {
	g.plots.ShowGrid(show)
	g.figure.Draw()
}

// GridShown 报告是否显示网格
func (g *Graph) GridShown() bool {
	return g.plots.Grid
}

// GetLines 返回子图主坐标系上的所有线条
func (g *Graph) GetLines(index int) ([]*Line, error) {
	p, err := g.plots.Panel(index)
	if err != nil {
		return nil, err
	}
	return p.Lines(), nil
}

// ClearLines 移除子图上的所有线条
func (g *Graph) ClearLines(index int) error {
	p, err := g.plots.Panel(index)
	if err != nil {
		return err
	}
	p.ClearLines()
	return nil
}

// RemoveLines 从子图中移除给定的线条
func (g *Graph) RemoveLines(lines []*Line, index int) error {
	p, err := g.plots.Panel(index)
	if err != nil {
		return err
	}
	for _, l := range lines {
		p.RemoveLine(l)
	}
	g.figure.Draw()
	return nil
}

// ToggleSelection 在所有子图上绘制或移除当前坐标范围的选区框
func (g *Graph) ToggleSelection() error {
	if g.plots.HasSelection {
		g.clearSelection()
		g.plots.HasSelection = false
		g.figure.Draw()
		return nil
	}

	if err := g.markSelection(); err != nil {
		return err
	}
	g.plots.HasSelection = true
	g.figure.Draw()
	return nil
}

// RefreshSelection 按当前坐标范围重新绘制选区框，不会触发重绘
// 没有选区时什么也不做
func (g *Graph) RefreshSelection() error {
	if !g.plots.HasSelection {
		return nil
	}
	g.clearSelection()
	return g.markSelection()
}

func (g *Graph) clearSelection() {
	for _, p := range g.plots.panels {
		for _, l := range p.Selection() {
			p.RemoveLine(l)
		}
	}
}

func (g *Graph) markSelection() error {
	for i, p := range g.plots.panels {
		ax := p.Axes()
		if ax == nil {
			continue
		}
		lim := ax.Axis()
		x := core.Values(lim.X1, lim.X2, lim.X2, lim.X1, lim.X1)
		y := core.Values(lim.Y1, lim.Y1, lim.Y2, lim.Y2, lim.Y1)
		lines, err := g.Redraw(x, y,
			WithIndex(i), WithHold(), WithLimits(lim), WithStyle(selectionStyle), WithoutDraw())
		if err != nil {
			return err
		}
		p.selection = lines
	}
	return nil
}
