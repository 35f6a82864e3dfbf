package plot

import "errors"

// ErrPanelBound 子图已绑定到坐标系
var ErrPanelBound = errors.New("子图已绑定坐标系")

// ErrPanelUnbound 子图未绑定坐标系
var ErrPanelUnbound = errors.New("子图未绑定坐标系")

// PanelState 子图的绑定状态
type PanelState int

const (
	Unbound PanelState = iota // 没有坐标系，仅在重新布局期间出现
	Bound                     // 拥有可绘制的坐标系
)

// String 实现fmt.Stringer
func (s PanelState) String() string {
	if s == Bound {
		return "bound"
	}
	return "unbound"
}

// Panel 一个子图
// 坐标系可以被替换，标题、格式化器和次y轴配置在替换后通过Reload重新应用
type Panel struct {
	axes  *Axes
	title string

	formatters [2]Formatter

	secondary      bool
	secondaryLabel string
	y2             *Axes

	selection []*Line

	owner *Collection
}

func newPanel(owner *Collection, title string) *Panel {
	p := &Panel{
		owner:      owner,
		title:      title,
		formatters: owner.defaultFormatters,
	}
	if owner.SecondaryYAxis {
		p.secondary = true
		p.secondaryLabel = owner.Y2Label
	}
	return p
}

// State 返回绑定状态
func (p *Panel) State() PanelState {
	if p.axes == nil {
		return Unbound
	}
	return Bound
}

// Axes 返回当前坐标系，未绑定时为nil
func (p *Panel) Axes() *Axes {
	return p.axes
}

// Secondary 返回次y轴，没有时为nil
func (p *Panel) Secondary() *Axes {
	return p.y2
}

// SecondaryLabel 返回次y轴标签
func (p *Panel) SecondaryLabel() string {
	return p.secondaryLabel
}

// HasSecondary 报告是否配置了次y轴
func (p *Panel) HasSecondary() bool {
	return p.secondary
}

// Title 返回标题
func (p *Panel) Title() string {
	return p.title
}

// SetTitle 设置标题并应用到当前坐标系
func (p *Panel) SetTitle(title string) {
	p.title = title
	if p.axes != nil {
		p.axes.SetTitle(title)
	}
}

// Formatters 返回x、y轴格式化器
func (p *Panel) Formatters() [2]Formatter {
	return p.formatters
}

// Selection 返回选区框线条
func (p *Panel) Selection() []*Line {
	out := make([]*Line, len(p.selection))
	copy(out, p.selection)
	return out
}

// Bind 绑定新的坐标系并重新应用配置
func (p *Panel) Bind(ax *Axes) error {
	if p.axes != nil {
		return ErrPanelBound
	}
	if ax == nil {
		return errors.New("坐标系不能为空")
	}
	p.axes = ax
	p.Reload()
	return nil
}

// Unbind 解除坐标系绑定
// 线条、选区和次y轴坐标系被丢弃，次y轴的配置保留
func (p *Panel) Unbind() {
	if p.axes != nil {
		p.axes.ClearLines()
	}
	p.axes = nil
	p.y2 = nil
	p.selection = nil
}

// Reload 把存储的配置重新应用到当前坐标系
func (p *Panel) Reload() {
	if p.axes == nil {
		return
	}
	p.axes.SetGrid(p.owner.Grid)
	p.axes.SetTitle(p.title)
	p.axes.SetXLabel(p.owner.XLabel)
	p.axes.SetYLabel(p.owner.YLabel)
	p.axes.SetFormatters(p.formatters[0], p.formatters[1])
	if p.secondary {
		p.CreateOrRelabelSecondaryAxis(p.secondaryLabel)
	}
}

// CreateOrRelabelSecondaryAxis 创建次y轴，已存在时只更新标签
// 未绑定时只记录配置，绑定后创建
func (p *Panel) CreateOrRelabelSecondaryAxis(label string) {
	p.secondary = true
	p.secondaryLabel = label
	if p.axes == nil {
		return
	}
	if p.y2 == nil {
		p.y2 = p.axes.TwinX()
	}
	p.y2.SetYLabel(label)
	p.y2.SetFormatters(nil, p.formatters[1])
}

// SetFormatter 更新格式化器对中的一个或两个，并应用到当前坐标系
func (p *Panel) SetFormatter(f Formatter, which AxisSelector) {
	p.formatters = which.apply(p.formatters, f)
	if p.axes != nil {
		p.axes.SetFormatters(p.formatters[0], p.formatters[1])
	}
	if p.y2 != nil {
		p.y2.SetFormatters(nil, p.formatters[1])
	}
}

// Lines 返回主坐标系上的线条
func (p *Panel) Lines() []*Line {
	if p.axes == nil {
		return nil
	}
	return p.axes.Lines()
}

// RemoveLine 从子图中移除线条，包括选区框
func (p *Panel) RemoveLine(line *Line) {
	for i, l := range p.selection {
		if l == line {
			p.selection = append(p.selection[:i], p.selection[i+1:]...)
			break
		}
	}
	if p.axes == nil {
		return
	}
	if !p.axes.RemoveLine(line) && p.y2 != nil {
		p.y2.RemoveLine(line)
	}
}

// ClearLines 移除所有线条（包括次y轴和选区框）
func (p *Panel) ClearLines() {
	p.selection = nil
	if p.axes != nil {
		p.axes.ClearLines()
	}
	if p.y2 != nil {
		p.y2.ClearLines()
	}
}
