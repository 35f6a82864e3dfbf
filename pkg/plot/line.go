package plot

import (
	"fmt"
	"math"
	"strings"

	"github.com/Kevin-Rudy/pingplot/pkg/core"
)

// Style 线条样式
type Style struct {
	Color string  // tview颜色名，例如 "green"
	Label string  // 图例标签，以"_"开头或为空时不显示图例
	Alpha float64 // 透明度，小于0.5时以暗色绘制
}

// tag 返回tview颜色标签
func (s Style) tag() string {
	color := s.Color
	if color == "" {
		color = "white"
	}
	if s.Alpha > 0 && s.Alpha < 0.5 {
		return "[" + color + "::d]"
	}
	return "[" + color + "]"
}

// hasLegend 报告该样式是否需要出现在图例中
func (s Style) hasLegend() bool {
	return s.Label != "" && !strings.HasPrefix(s.Label, "_")
}

// Limits 坐标轴范围 [X1, X2, Y1, Y2]
type Limits struct {
	X1, X2, Y1, Y2 float64
}

// LimitsFrom 由 [xmin, xmax, ymin, ymax] 数组构造Limits
func LimitsFrom(a [4]float64) Limits {
	return Limits{X1: a[0], X2: a[1], Y1: a[2], Y2: a[3]}
}

// Valid 报告范围是否有限且非空
func (l Limits) Valid() bool {
	for _, v := range []float64{l.X1, l.X2, l.Y1, l.Y2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return l.X2 > l.X1 && l.Y2 > l.Y1
}

// String 实现fmt.Stringer
func (l Limits) String() string {
	return fmt.Sprintf("[%g, %g, %g, %g]", l.X1, l.X2, l.Y1, l.Y2)
}

// Line 是绘制在某个Axes上的一条折线，缺失值处断开
type Line struct {
	x, y  []core.Value
	style Style
	axes  *Axes
}

// Data 返回线条数据
func (l *Line) Data() (x, y []core.Value) {
	return l.x, l.y
}

// SetData 替换线条数据，长度不一致时返回错误
func (l *Line) SetData(x, y []core.Value) error {
	if len(x) != len(y) {
		return fmt.Errorf("x与y长度不一致: %d != %d", len(x), len(y))
	}
	l.x, l.y = x, y
	return nil
}

// Style 返回线条样式
func (l *Line) Style() Style {
	return l.style
}

// Label 返回图例标签
func (l *Line) Label() string {
	return l.style.Label
}

// Axes 返回线条所在的坐标系，已移除时为nil
func (l *Line) Axes() *Axes {
	return l.axes
}
