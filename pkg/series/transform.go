package series

import (
	"errors"
	"fmt"

	"github.com/Kevin-Rudy/pingplot/pkg/core"
)

// ErrLengthMismatch x与y序列长度不一致
var ErrLengthMismatch = errors.New("x与y序列长度不一致")

// DefaultPeriod InjectMissing的默认周期
const DefaultPeriod = 2

// MissingIndices 返回所有缺失值的下标，保持原有顺序
func MissingIndices(seq []core.Value) []int {
	indices := make([]int, 0)
	for i, v := range seq {
		if v.IsMissing() {
			indices = append(indices, i)
		}
	}
	return indices
}

// Shift 对每个元素减去offset，缺失值保持不变
func Shift(seq []core.Value, offset float64) []core.Value {
	out := make([]core.Value, len(seq))
	for i, v := range seq {
		out[i] = v.Sub(offset)
	}
	return out
}

// InjectMissing 每period个元素之后插入一个缺失值标记，末尾不追加
// 输出长度为 L + (L-1)/period
func InjectMissing(seq []core.Value, period int) []core.Value {
	if period <= 0 {
		period = DefaultPeriod
	}
	if len(seq) == 0 {
		return []core.Value{}
	}

	out := make([]core.Value, 0, len(seq)+(len(seq)-1)/period)
	for i, v := range seq {
		if i > 0 && i%period == 0 {
			out = append(out, core.Missing)
		}
		out = append(out, v)
	}
	return out
}

// Bridge 为序列中的每段连续缺失值生成一条跨越缺口的两点线段
// 线段从缺口前最后一个有效点连到缺口后第一个有效点，相邻线段之间用一个缺失值隔开
// 开头的缺口用缺口起点的x和之后第一个有效值；结尾的缺口用缺口终点的x和之前最后一个有效值
// 全部缺失时返回空序列
func Bridge(x, y []core.Value) ([]core.Value, []core.Value, error) {
	if len(x) != len(y) {
		return nil, nil, fmt.Errorf("%w: x=%d, y=%d", ErrLengthMismatch, len(x), len(y))
	}

	xOut := make([]core.Value, 0)
	yOut := make([]core.Value, 0)
	prev := -1

	for i := 0; i < len(y); {
		if !y[i].IsMissing() {
			prev = i
			i++
			continue
		}

		start := i
		for i < len(y) && y[i].IsMissing() {
			i++
		}
		end, next := i-1, i
		if next >= len(y) {
			next = -1
		}

		var x0, y0, x1, y1 core.Value
		switch {
		case prev < 0 && next < 0:
			// 没有任何有效值
			return []core.Value{}, []core.Value{}, nil
		case prev < 0:
			x0, y0 = x[start], y[next]
			x1, y1 = x[next], y[next]
		case next < 0:
			x0, y0 = x[prev], y[prev]
			x1, y1 = x[end], y[prev]
		default:
			x0, y0 = x[prev], y[prev]
			x1, y1 = x[next], y[next]
		}

		if len(xOut) > 0 {
			xOut = append(xOut, core.Missing)
			yOut = append(yOut, core.Missing)
		}
		xOut = append(xOut, x0, x1)
		yOut = append(yOut, y0, y1)
	}

	return xOut, yOut, nil
}

// TrimRuns 把每段连续递增的下标收缩为该段的最后一个下标
// 例如 [1,2,3,5,6,9] -> [3,6,9]，配合MissingIndices可以找到每次中断的结束位置
func TrimRuns(indices []int) []int {
	out := make([]int, 0, len(indices))
	for i, v := range indices {
		if i+1 < len(indices) && indices[i+1] == v+1 {
			continue
		}
		out = append(out, v)
	}
	return out
}
