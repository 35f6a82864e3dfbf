package plot

import "fmt"

// IndexError 指定索引处不存在子图
type IndexError struct {
	Index int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("no sub-plot exists at index: %d", e.Index)
}

// Collection 有序的子图集合以及所有子图共享的默认配置
// 默认配置属于每个集合实例，从不跨实例共享
type Collection struct {
	Grid           bool
	HasSelection   bool
	SecondaryYAxis bool
	XLabel         string
	YLabel         string
	Y2Label        string

	defaultFormatters [2]Formatter

	figure *Figure
	panels []*Panel
}

// NewCollection 创建空的子图集合
func NewCollection(fig *Figure, xLabel, yLabel string) *Collection {
	sci := ScalarFormatter{Scientific: true, PowerLimits: DefaultPowerLimits}
	return &Collection{
		Grid:              true,
		XLabel:            xLabel,
		YLabel:            yLabel,
		defaultFormatters: [2]Formatter{sci, sci},
		figure:            fig,
	}
}

// Panel 返回指定索引的子图
func (c *Collection) Panel(i int) (*Panel, error) {
	if i < 0 || i >= len(c.panels) {
		return nil, &IndexError{Index: i}
	}
	return c.panels[i], nil
}

// Panels 返回所有子图
func (c *Collection) Panels() []*Panel {
	out := make([]*Panel, len(c.panels))
	copy(out, c.panels)
	return out
}

// Len 返回子图数量
func (c *Collection) Len() int {
	return len(c.panels)
}

// Append 把新的坐标系作为新子图追加到集合末尾
func (c *Collection) Append(ax *Axes, title string) (*Panel, error) {
	p := newPanel(c, title)
	if err := p.Bind(ax); err != nil {
		return nil, err
	}
	c.panels = append(c.panels, p)
	return p, nil
}

// ClearAxes 解除所有子图的坐标系并清空Figure
// 线条和选区无法迁移到新坐标系，因此一并清除
func (c *Collection) ClearAxes() {
	for _, p := range c.panels {
		if ax := p.Axes(); ax != nil {
			_ = c.figure.DelAxes(ax)
		}
		p.Unbind()
	}
	c.figure.Clear()
	c.HasSelection = false
}

// RemoveLast 移除最后一个子图
func (c *Collection) RemoveLast() error {
	if len(c.panels) == 0 {
		return ErrNoSubplot
	}
	last := c.panels[len(c.panels)-1]
	if ax := last.Axes(); ax != nil {
		if err := c.figure.DelAxes(ax); err != nil {
			return err
		}
	}
	last.Unbind()
	c.panels = c.panels[:len(c.panels)-1]
	return nil
}

// SetAxes 把新坐标系绑定到指定子图
func (c *Collection) SetAxes(ax *Axes, i int) error {
	p, err := c.Panel(i)
	if err != nil {
		return err
	}
	if p.State() == Bound {
		p.Unbind()
	}
	return p.Bind(ax)
}

// SetDefaultFormatter 设置新子图使用的默认格式化器
func (c *Collection) SetDefaultFormatter(f Formatter, which AxisSelector) {
	c.defaultFormatters = which.apply(c.defaultFormatters, f)
}

// DefaultFormatters 返回默认格式化器对
func (c *Collection) DefaultFormatters() [2]Formatter {
	return c.defaultFormatters
}

// SetLabel 设置指定子图的坐标轴标签，并把它们保存为默认标签
func (c *Collection) SetLabel(xLabel, yLabel string, i int) error {
	p, err := c.Panel(i)
	if err != nil {
		return err
	}
	c.XLabel = xLabel
	c.YLabel = yLabel
	if ax := p.Axes(); ax != nil {
		ax.SetXLabel(xLabel)
		ax.SetYLabel(yLabel)
	}
	return nil
}

// ShowGrid 设置所有子图是否显示网格
func (c *Collection) ShowGrid(show bool) {
	c.Grid = show
	for _, p := range c.panels {
		if ax := p.Axes(); ax != nil {
			ax.SetGrid(show)
		}
	}
}
