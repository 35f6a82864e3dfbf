package plot

import (
	"errors"
	"fmt"
)

// ErrNoSubplot 没有可移除的子图
var ErrNoSubplot = errors.New("没有可移除的子图")

// Orientation 添加子图时网格扩展的方向
type Orientation int

const (
	Vertical   Orientation = iota // 增加一行
	Horizontal                    // 增加一列
)

// String 实现fmt.Stringer
func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// ParseOrientation 解析 "vertical" / "horizontal"
func ParseOrientation(s string) (Orientation, error) {
	switch s {
	case "", "vertical", "v":
		return Vertical, nil
	case "horizontal", "h":
		return Horizontal, nil
	default:
		return Vertical, fmt.Errorf("未知的方向: %q", s)
	}
}

// Layout 子图网格的几何形状
type Layout struct {
	Rows  int
	Cols  int
	Count int
}

// Size 返回网格容量
func (l Layout) Size() int {
	return l.Rows * l.Cols
}

// Grow 计算增加一个子图后的布局
// 容量足够时只增加计数，否则按方向扩展一个维度：纵向加一行，横向加一列
func (l Layout) Grow(o Orientation) Layout {
	next := Layout{Rows: max(l.Rows, 1), Cols: max(l.Cols, 1), Count: l.Count + 1}
	if next.Size() >= next.Count {
		return next
	}

	if o == Horizontal {
		next.Cols++
	} else {
		next.Rows++
	}
	return next
}

// Shrink 计算移除最后一个子图后的布局
// 两个维度都大于1时先尝试缩小较大的维度，再尝试较小的维度；
// 否则缩小较大的维度。返回的changed表示几何形状是否变化
func (l Layout) Shrink() (next Layout, changed bool, err error) {
	count := l.Count - 1
	if count < 0 {
		return l, false, ErrNoSubplot
	}

	next = Layout{Rows: l.Rows, Cols: l.Cols, Count: count}
	if count == 0 {
		return next, false, nil
	}

	if next.Rows > 1 && next.Cols > 1 {
		rowsLarger := next.Rows >= next.Cols
		if shrunk, ok := next.shrinkDim(rowsLarger, count); ok {
			return shrunk, true, nil
		}
		if shrunk, ok := next.shrinkDim(!rowsLarger, count); ok {
			return shrunk, true, nil
		}
		return next, false, nil
	}

	if next.Rows > next.Cols {
		next.Rows--
	} else if next.Cols > 1 {
		next.Cols--
	} else {
		return next, false, nil
	}
	return next, true, nil
}

// shrinkDim 尝试把行（rows为true）或列减一，容量不足时返回false
func (l Layout) shrinkDim(rows bool, count int) (Layout, bool) {
	if rows {
		if (l.Rows-1)*l.Cols >= count {
			l.Rows--
			return l, true
		}
		return l, false
	}
	if l.Rows*(l.Cols-1) >= count {
		l.Cols--
		return l, true
	}
	return l, false
}

// Placements 返回每个子图的网格位置
// 最后一行未填满时，该行的子图放入一个列数更少的子网格中以占满整行
func (l Layout) Placements() []SubplotSpec {
	specs := make([]SubplotSpec, 0, l.Count)
	size := l.Size()
	for i := 1; i <= l.Count; i++ {
		if l.Count < size && i > l.Cols*(l.Rows-1) {
			expCols := l.Cols - (size - l.Count)
			specs = append(specs, SubplotSpec{
				Rows:  l.Rows,
				Cols:  expCols,
				Index: l.Rows*expCols - (l.Count - i),
			})
			continue
		}
		specs = append(specs, SubplotSpec{Rows: l.Rows, Cols: l.Cols, Index: i})
	}
	return specs
}

// String 实现fmt.Stringer
func (l Layout) String() string {
	return fmt.Sprintf("%dx%d (%d)", l.Rows, l.Cols, l.Count)
}
