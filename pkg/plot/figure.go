package plot

import (
	"errors"
	"fmt"
)

// SubplotSpec 子图在网格中的位置，Index从1开始按行优先编号
type SubplotSpec struct {
	Rows  int
	Cols  int
	Index int
}

// Cell 返回子图所在的行和列（从0开始）
func (s SubplotSpec) Cell() (row, col int) {
	return (s.Index - 1) / s.Cols, (s.Index - 1) % s.Cols
}

// Validate 检查位置是否在网格之内
func (s SubplotSpec) Validate() error {
	if s.Rows < 1 || s.Cols < 1 {
		return fmt.Errorf("无效的网格: %dx%d", s.Rows, s.Cols)
	}
	if s.Index < 1 || s.Index > s.Rows*s.Cols {
		return fmt.Errorf("子图位置 %d 超出网格 %dx%d", s.Index, s.Rows, s.Cols)
	}
	return nil
}

// Canvas 把Figure显示到屏幕上的外壳
type Canvas interface {
	// Draw 完整重绘整个Figure
	Draw(fig *Figure)
	// Blit 只重绘一个坐标系的背景、给定线条和网格线
	Blit(ax *Axes, lines []*Line)
}

// Figure 坐标系的集合，每个坐标系占据网格中的一个位置
type Figure struct {
	axes       []*Axes
	specs      map[*Axes]SubplotSpec
	canvas     Canvas
	generation uint64
}

// NewFigure 创建空的Figure
func NewFigure() *Figure {
	return &Figure{specs: make(map[*Axes]SubplotSpec)}
}

// AddSubplot 在指定位置创建新的坐标系
func (f *Figure) AddSubplot(spec SubplotSpec) (*Axes, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	ax := newAxes()
	f.axes = append(f.axes, ax)
	f.specs[ax] = spec
	f.generation++
	return ax, nil
}

// DelAxes 从Figure中删除坐标系，不存在时返回错误
func (f *Figure) DelAxes(ax *Axes) error {
	for i, a := range f.axes {
		if a == ax {
			f.axes = append(f.axes[:i], f.axes[i+1:]...)
			delete(f.specs, ax)
			f.generation++
			return nil
		}
	}
	return errors.New("坐标系不属于该Figure")
}

// Clear 删除所有坐标系
func (f *Figure) Clear() {
	f.axes = nil
	f.specs = make(map[*Axes]SubplotSpec)
	f.generation++
}

// Axes 按创建顺序返回所有坐标系
func (f *Figure) Axes() []*Axes {
	out := make([]*Axes, len(f.axes))
	copy(out, f.axes)
	return out
}

// Spec 返回坐标系的网格位置
func (f *Figure) Spec(ax *Axes) (SubplotSpec, bool) {
	spec, ok := f.specs[ax]
	return spec, ok
}

// Generation 每次坐标系集合变化时递增，外壳据此判断是否需要重建视图
func (f *Figure) Generation() uint64 {
	return f.generation
}

// SetCanvas 设置显示外壳，nil表示不显示
func (f *Figure) SetCanvas(c Canvas) {
	f.canvas = c
}

// Draw 请求外壳完整重绘
func (f *Figure) Draw() {
	if f.canvas != nil {
		f.canvas.Draw(f)
	}
}

// Blit 请求外壳只重绘一个坐标系
func (f *Figure) Blit(ax *Axes, lines []*Line) {
	if f.canvas != nil {
		f.canvas.Blit(ax, lines)
	}
}
