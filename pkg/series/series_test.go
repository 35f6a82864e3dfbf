package series

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kevin-Rudy/pingplot/pkg/core"
)

// M 测试里缺失值的简写
var M = core.Missing

func v(f float64) core.Value { return core.Some(f) }

func intRange(lo, hi int) []int {
	out := make([]int, 0, hi-lo)
	for i := lo; i < hi; i++ {
		out = append(out, i)
	}
	return out
}

func TestAppendBounded(t *testing.T) {
	t.Run("AppendBelowMax", func(t *testing.T) {
		out := AppendBounded(intRange(0, 99), 99, 100, 0)
		assert.Equal(t, intRange(0, 100), out)
	})

	t.Run("DefaultMax", func(t *testing.T) {
		out := AppendBounded(intRange(0, 100), 5, 0, 0)
		assert.Len(t, out, DefaultMaxLen)
	})

	t.Run("PopOldest", func(t *testing.T) {
		in := intRange(0, 50)
		out := AppendBounded(in, 50, 50, 0)
		assert.Equal(t, intRange(1, 51), out)

		// 输入保持不变
		assert.Equal(t, intRange(0, 50), in)
	})

	t.Run("Truncate", func(t *testing.T) {
		out := AppendBounded(intRange(0, 50), 50, 100, 25)
		assert.Equal(t, intRange(26, 51), out)
	})

	t.Run("FIFOValueByValue", func(t *testing.T) {
		buf := []int{}
		for i := 0; i < 30; i++ {
			buf = AppendBounded(buf, i, 10, 0)
			assert.LessOrEqual(t, len(buf), 10)
		}
		require.Len(t, buf, 10)
		for i, got := range buf {
			assert.Equal(t, 20+i, got)
		}
	})

	t.Run("MaxShrunk", func(t *testing.T) {
		out := AppendBounded(intRange(0, 20), 20, 5, 0)
		assert.Equal(t, []int{16, 17, 18, 19, 20}, out)
	})
}

func TestBuffer(t *testing.T) {
	b := NewBuffer[core.Value](3, 0)
	for i := 0; i < 5; i++ {
		b.Push(v(float64(i)))
	}
	assert.Equal(t, 3, b.Len())
	assert.Equal(t, []core.Value{v(2), v(3), v(4)}, b.Values())

	b.Reset()
	assert.Zero(t, b.Len())
}

func TestMissingIndices(t *testing.T) {
	data := []core.Value{v(3), M, v(1), v(2), M, v(78), M}
	assert.Equal(t, []int{1, 4, 6}, MissingIndices(data))
	assert.Empty(t, MissingIndices(core.Values(1, 2)))
}

func TestShift(t *testing.T) {
	assert.Equal(t, core.Values(0, 1, 2), Shift(core.Values(1, 2, 3), 1))
	assert.Equal(t, []core.Value{v(0), M}, Shift([]core.Value{v(1), M}, 1))
}

func TestInjectMissing(t *testing.T) {
	in := core.Values(0, 1, 2, 3, 4, 5, 6, 7, 8, 9)
	expected := []core.Value{v(0), v(1), M, v(2), v(3), M, v(4), v(5), M, v(6), v(7), M, v(8), v(9)}
	assert.Equal(t, expected, InjectMissing(in, 2))
	assert.Equal(t, expected, InjectMissing(in, 0))

	for l := 1; l < 12; l++ {
		out := InjectMissing(indices(l), 3)
		assert.Len(t, out, l+(l-1)/3)
		assert.False(t, out[len(out)-1].IsMissing())
	}

	assert.Empty(t, InjectMissing(nil, 2))
}

func TestBridge(t *testing.T) {
	for name, tc := range map[string]struct {
		y    []core.Value
		xOut []core.Value
		yOut []core.Value
	}{
		"Simple": {
			y:    []core.Value{v(1), M, v(3), v(1), v(2)},
			xOut: []core.Value{v(0), v(2)},
			yOut: []core.Value{v(1), v(3)},
		},
		"FirstAndLast": {
			y:    []core.Value{M, v(4), v(3), v(1), M},
			xOut: []core.Value{v(0), v(1), M, v(3), v(4)},
			yOut: []core.Value{v(4), v(4), M, v(1), v(1)},
		},
		"ConsecutiveRuns": {
			y:    []core.Value{v(3), M, M, M, v(2), M, M, v(5)},
			xOut: []core.Value{v(0), v(4), M, v(4), v(7)},
			yOut: []core.Value{v(3), v(2), M, v(2), v(5)},
		},
		"RunsAtStartAndEnd": {
			y:    []core.Value{M, M, M, M, v(2), M, M, v(5), M, M},
			xOut: []core.Value{v(0), v(4), M, v(4), v(7), M, v(7), v(9)},
			yOut: []core.Value{v(2), v(2), M, v(2), v(5), M, v(5), v(5)},
		},
		"NoGaps": {
			y:    core.Values(1, 2, 3),
			xOut: []core.Value{},
			yOut: []core.Value{},
		},
		"SingleMissing": {
			y:    []core.Value{M},
			xOut: []core.Value{},
			yOut: []core.Value{},
		},
	} {
		t.Run(name, func(t *testing.T) {
			xOut, yOut, err := Bridge(indices(len(tc.y)), tc.y)
			require.NoError(t, err)
			assert.Equal(t, tc.xOut, xOut)
			assert.Equal(t, tc.yOut, yOut)
		})
	}

	_, _, err := Bridge(indices(2), core.Values(1))
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestTrimRuns(t *testing.T) {
	assert.Equal(t, []int{3, 6, 9}, TrimRuns([]int{1, 2, 3, 5, 6, 9}))
	assert.Equal(t, []int{0}, TrimRuns([]int{0}))
	assert.Empty(t, TrimRuns(nil))
	assert.Equal(t, []int{2, 4}, TrimRuns([]int{2, 4}))
}

func TestAxisLimits(t *testing.T) {
	got, err := AxisLimits([2]float64{-100, 0}, 70, []core.Value{M, v(30), v(10), v(90)})
	require.NoError(t, err)
	assert.Equal(t, [4]float64{-100, 0, 0, 95}, got)

	got, err = AxisLimits([2]float64{-100, 0}, 70, []core.Value{M, v(30), v(10), v(50)})
	require.NoError(t, err)
	assert.Equal(t, [4]float64{-100, 0, 0, 75}, got)

	// 峰值高于天花板时只按百分比放大
	got, err = AxisLimits([2]float64{-10, 0}, 10, core.Values(200))
	require.NoError(t, err)
	assert.InDelta(t, 220, got[3], 1e-9)

	_, err = AxisLimits([2]float64{-100, 0}, 70, []core.Value{M, M})
	assert.ErrorIs(t, err, ErrAllMissing)
}

// indices 生成 0..n-1 的x轴序列
func indices(n int) []core.Value {
	out := make([]core.Value, n)
	for i := range out {
		out[i] = v(float64(i))
	}
	return out
}

func TestMax(t *testing.T) {
	hi, ok := Max([]core.Value{M, v(3), v(7), M})
	require.True(t, ok)
	assert.Equal(t, 7.0, hi)

	_, ok = Max(nil)
	assert.False(t, ok)
}
