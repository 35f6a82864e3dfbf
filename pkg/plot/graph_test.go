package plot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kevin-Rudy/pingplot/pkg/core"
)

// recordingCanvas 记录重绘请求的Canvas
type recordingCanvas struct {
	draws int
	blits []*Axes
	lines [][]*Line
}

func (c *recordingCanvas) Draw(*Figure) { c.draws++ }

func (c *recordingCanvas) Blit(ax *Axes, lines []*Line) {
	c.blits = append(c.blits, ax)
	c.lines = append(c.lines, lines)
}

func newTestGraph(t *testing.T, opts ...GraphOption) (*Graph, *recordingCanvas) {
	t.Helper()
	canvas := &recordingCanvas{}
	g, err := NewGraph("first", append([]GraphOption{WithCanvas(canvas)}, opts...)...)
	require.NoError(t, err)
	return g, canvas
}

func TestNewGraph(t *testing.T) {
	g, _ := newTestGraph(t, WithLabels("time", "latency"))

	assert.Equal(t, 1, g.Len())
	assert.Equal(t, Layout{Rows: 1, Cols: 1, Count: 1}, g.Layout())

	p, err := g.Panel(0)
	require.NoError(t, err)
	assert.Equal(t, Bound, p.State())
	assert.Equal(t, "first", p.Axes().Title())
	assert.Equal(t, "time", p.Axes().XLabel())
	assert.Equal(t, "latency", p.Axes().YLabel())
	assert.True(t, p.Axes().Grid())
}

func TestIndexError(t *testing.T) {
	g, _ := newTestGraph(t)

	_, err := g.Panel(5)
	var idxErr *IndexError
	require.True(t, errors.As(err, &idxErr))
	assert.Equal(t, 5, idxErr.Index)
	assert.EqualError(t, err, "no sub-plot exists at index: 5")

	_, err = g.Panel(-1)
	assert.True(t, errors.As(err, &idxErr))

	// 任何索引越界都不会修改其它子图
	err = g.SetTitle("changed", 0, 7)
	require.True(t, errors.As(err, &idxErr))
	assert.Equal(t, 7, idxErr.Index)
	p, _ := g.Panel(0)
	assert.Equal(t, "first", p.Title())

	assert.Error(t, g.SetTitles([]string{"a", "b"}))
	_, err = g.Redraw(core.Values(1), core.Values(1), WithIndex(3))
	assert.True(t, errors.As(err, &idxErr))
	assert.True(t, errors.As(g.UpdatePlotOnly(nil, 2), &idxErr))
}

func TestAddSubplotRebindsPanels(t *testing.T) {
	g, canvas := newTestGraph(t)

	idx, err := g.AddSubplot("second")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, Layout{Rows: 2, Cols: 1, Count: 2}, g.Layout())
	assert.Equal(t, 1, canvas.draws)

	idx, err = g.AddSubplot("third", Horizontal)
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
	assert.Equal(t, Layout{Rows: 2, Cols: 2, Count: 3}, g.Layout())

	titles := []string{"first", "second", "third"}
	for i, title := range titles {
		p, err := g.Panel(i)
		require.NoError(t, err)
		assert.Equal(t, title, p.Axes().Title())
	}

	// 最后一行的子图占满整行
	p, _ := g.Panel(2)
	spec, ok := g.Figure().Spec(p.Axes())
	require.True(t, ok)
	assert.Equal(t, SubplotSpec{Rows: 2, Cols: 1, Index: 2}, spec)
}

func TestRemoveSubplot(t *testing.T) {
	g, _ := newTestGraph(t)

	_, err := g.AddSubplot("second")
	require.NoError(t, err)

	require.NoError(t, g.RemoveSubplot())
	assert.Equal(t, Layout{Rows: 1, Cols: 1, Count: 1}, g.Layout())
	p, _ := g.Panel(0)
	assert.Equal(t, "first", p.Axes().Title())

	require.NoError(t, g.RemoveSubplot())
	assert.Zero(t, g.Len())
	assert.Empty(t, g.Figure().Axes())
	assert.ErrorIs(t, g.RemoveSubplot(), ErrNoSubplot)

	idx, err := g.AddSubplot("again")
	require.NoError(t, err)
	assert.Zero(t, idx)
}

func TestRedraw(t *testing.T) {
	x := core.Values(0, 1, 2, 3)
	y := core.Values(10, 20, 15, 12)

	t.Run("ReplaceAndHold", func(t *testing.T) {
		g, canvas := newTestGraph(t)

		lines, err := g.Redraw(x, y)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, 1, canvas.draws)

		_, err = g.Redraw(x, y)
		require.NoError(t, err)
		got, err := g.GetLines(0)
		require.NoError(t, err)
		assert.Len(t, got, 1)

		_, err = g.Redraw(x, y, WithHold(), WithoutDraw())
		require.NoError(t, err)
		got, _ = g.GetLines(0)
		assert.Len(t, got, 2)
		assert.Equal(t, 2, canvas.draws)
	})

	t.Run("MinOverrides", func(t *testing.T) {
		g, _ := newTestGraph(t)

		_, err := g.Redraw(x, y, WithYMin(0), WithXMin(-5))
		require.NoError(t, err)
		p, _ := g.Panel(0)
		lim := p.Axes().Axis()
		assert.Equal(t, 0.0, lim.Y1)
		assert.Equal(t, -5.0, lim.X1)
		assert.Greater(t, lim.Y2, 20.0)
	})

	t.Run("LimitsOverrideMin", func(t *testing.T) {
		g, _ := newTestGraph(t)

		want := Limits{X1: -100, X2: 0, Y1: 0, Y2: 95}
		_, err := g.Redraw(x, y, WithYMin(3), WithLimits(want))
		require.NoError(t, err)
		p, _ := g.Panel(0)
		assert.Equal(t, want, p.Axes().Axis())
	})

	t.Run("SelectorOverridesAll", func(t *testing.T) {
		g, _ := newTestGraph(t)

		var auto Limits
		sel := func(x1, x2, y1, y2 float64) Limits {
			auto = Limits{X1: x1, X2: x2, Y1: y1, Y2: y2}
			return Limits{X1: x1, X2: x2, Y1: 0, Y2: 100}
		}
		_, err := g.Redraw(x, y, WithLimits(Limits{X1: 1, X2: 2, Y1: 1, Y2: 2}), WithLimitSelector(sel))
		require.NoError(t, err)

		p, _ := g.Panel(0)
		lim := p.Axes().Axis()
		assert.Equal(t, 100.0, lim.Y2)
		assert.Equal(t, auto.X1, lim.X1)
		assert.Less(t, auto.Y1, 10.0)
	})

	t.Run("StyleAndAlpha", func(t *testing.T) {
		g, _ := newTestGraph(t)

		lines, err := g.Redraw(x, y, WithStyle(Style{Color: "green", Label: "host"}), WithAlpha(0.3))
		require.NoError(t, err)
		style := lines[0].Style()
		assert.Equal(t, "green", style.Color)
		assert.Equal(t, "host", lines[0].Label())
		assert.Equal(t, 0.3, style.Alpha)
		assert.Equal(t, "[green::d]", style.tag())
	})

	t.Run("LengthMismatch", func(t *testing.T) {
		g, _ := newTestGraph(t)
		_, err := g.Redraw(core.Values(1, 2), core.Values(1))
		assert.Error(t, err)
	})
}

func TestSecondaryAxis(t *testing.T) {
	g, canvas := newTestGraph(t)

	_, err := g.RedrawSecondaryY(core.Values(1), core.Values(1), 0, Style{})
	assert.ErrorIs(t, err, ErrNoSecondaryAxis)

	require.NoError(t, g.AddSecondaryYAxis("loss", 0))
	p, _ := g.Panel(0)
	first := p.Secondary()
	require.NotNil(t, first)

	require.NoError(t, g.AddSecondaryYAxis("loss %", 0))
	assert.Same(t, first, p.Secondary())
	assert.Same(t, first, p.Axes().Twin())
	assert.Equal(t, "loss %", p.Secondary().YLabel())
	assert.Equal(t, "loss %", p.SecondaryLabel())

	lines, err := g.RedrawSecondaryY(core.Values(0, 1), core.Values(5, 6), 0, Style{})
	require.NoError(t, err)
	assert.Equal(t, "red", lines[0].Style().Color)
	assert.Same(t, first, lines[0].Axes())
	assert.Positive(t, canvas.draws)

	// 重新布局后次y轴按配置重建
	_, err = g.AddSubplot("second")
	require.NoError(t, err)
	p, _ = g.Panel(0)
	require.NotNil(t, p.Secondary())
	assert.NotSame(t, first, p.Secondary())
	assert.Equal(t, "loss %", p.Secondary().YLabel())

	second, _ := g.Panel(1)
	assert.Nil(t, second.Secondary())

	// 对全部子图设置后，新子图也带有次y轴
	require.NoError(t, g.AddSecondaryYAxis("y2"))
	_, err = g.AddSubplot("third")
	require.NoError(t, err)
	third, _ := g.Panel(2)
	require.NotNil(t, third.Secondary())
	assert.Equal(t, "y2", third.Secondary().YLabel())
}

func TestToggleSelection(t *testing.T) {
	g, _ := newTestGraph(t)
	_, err := g.AddSubplot("second")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := g.Redraw(core.Values(0, 1, 2), core.Values(3, 4, 5), WithIndex(i))
		require.NoError(t, err)
	}

	require.NoError(t, g.ToggleSelection())
	assert.True(t, g.Collection().HasSelection)
	for i := 0; i < 2; i++ {
		p, _ := g.Panel(i)
		require.Len(t, p.Selection(), 1)
		assert.Len(t, p.Lines(), 2)

		x, y := p.Selection()[0].Data()
		assert.Len(t, x, 5)
		assert.Equal(t, x[0], x[4])
		assert.Equal(t, y[0], y[4])
	}

	require.NoError(t, g.ToggleSelection())
	assert.False(t, g.Collection().HasSelection)
	for i := 0; i < 2; i++ {
		p, _ := g.Panel(i)
		assert.Empty(t, p.Selection())
		assert.Len(t, p.Lines(), 1)
	}
}

func TestRefreshSelection(t *testing.T) {
	g, canvas := newTestGraph(t)

	require.NoError(t, g.RefreshSelection())
	p, _ := g.Panel(0)
	assert.Empty(t, p.Selection())

	_, err := g.Redraw(core.Values(0, 1, 2), core.Values(3, 4, 5))
	require.NoError(t, err)
	require.NoError(t, g.ToggleSelection())

	// 不保留旧线条的重绘会丢弃选区框
	_, err = g.Redraw(core.Values(0, 1, 2), core.Values(3, 4, 50), WithLimits(Limits{0, 2, 0, 60}))
	require.NoError(t, err)
	assert.Empty(t, p.Selection())

	draws := canvas.draws
	require.NoError(t, g.RefreshSelection())
	assert.Equal(t, draws, canvas.draws)
	require.Len(t, p.Selection(), 1)

	_, y := p.Selection()[0].Data()
	assert.Equal(t, core.Values(0, 0, 60, 60, 0), y)
	assert.Len(t, p.Lines(), 2)
}

func TestSetFormatter(t *testing.T) {
	g, _ := newTestGraph(t)
	_, err := g.AddSubplot("second")
	require.NoError(t, err)

	require.NoError(t, g.SetFormatter(FormatLatency, AxisY, 1))
	p0, _ := g.Panel(0)
	p1, _ := g.Panel(1)
	assert.IsType(t, ScalarFormatter{}, p0.Formatters()[1])
	assert.Equal(t, LatencyFormatter{}, p1.Formatters()[1])
	assert.IsType(t, ScalarFormatter{}, p1.Formatters()[0])

	require.NoError(t, g.SetFormatter(FormatLog, AxisAll))
	assert.Equal(t, [2]Formatter{LogFormatter{Base: 10}, LogFormatter{Base: 10}}, g.Collection().DefaultFormatters())

	// 重新布局后保留格式化器
	_, err = g.AddSubplot("third")
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		p, _ := g.Panel(i)
		xf, yf := p.Axes().Formatters()
		assert.Equal(t, LogFormatter{Base: 10}, xf)
		assert.Equal(t, LogFormatter{Base: 10}, yf)
	}

	assert.Error(t, g.SetFormatter("bogus", AxisAll))
	var idxErr *IndexError
	assert.True(t, errors.As(g.SetFormatter(FormatSci, AxisX, 9), &idxErr))
}

func TestGridAndLabels(t *testing.T) {
	g, _ := newTestGraph(t)

	g.ShowGrid(false)
	assert.False(t, g.GridShown())

	require.NoError(t, g.SetLabel("t", "ms"))
	_, err := g.AddSubplot("second")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		p, _ := g.Panel(i)
		assert.False(t, p.Axes().Grid())
		assert.Equal(t, "t", p.Axes().XLabel())
		assert.Equal(t, "ms", p.Axes().YLabel())
	}

	require.NoError(t, g.SetLimits(Limits{X1: 0, X2: 1, Y1: 0, Y2: 2}, 1))
	p, _ := g.Panel(1)
	assert.Equal(t, 2.0, p.Axes().Axis().Y2)
}

func TestLinesManagement(t *testing.T) {
	g, canvas := newTestGraph(t)

	a, err := g.Redraw(core.Values(0, 1), core.Values(1, 2))
	require.NoError(t, err)
	b, err := g.Redraw(core.Values(0, 1), core.Values(3, 4), WithHold())
	require.NoError(t, err)

	require.NoError(t, g.RemoveLines(a, 0))
	lines, _ := g.GetLines(0)
	assert.Equal(t, b, lines)
	assert.Nil(t, a[0].Axes())

	require.NoError(t, g.UpdatePlotOnly(b, 0))
	require.Len(t, canvas.blits, 1)
	p, _ := g.Panel(0)
	assert.Same(t, p.Axes(), canvas.blits[0])
	assert.Equal(t, b, canvas.lines[0])

	require.NoError(t, g.ClearLines(0))
	lines, _ = g.GetLines(0)
	assert.Empty(t, lines)
}

func TestPanelStateMachine(t *testing.T) {
	fig := NewFigure()
	c := NewCollection(fig, "x", "y")
	ax, err := fig.AddSubplot(SubplotSpec{Rows: 1, Cols: 1, Index: 1})
	require.NoError(t, err)

	p, err := c.Append(ax, "p")
	require.NoError(t, err)
	assert.Equal(t, Bound, p.State())
	assert.ErrorIs(t, p.Bind(ax), ErrPanelBound)

	p.CreateOrRelabelSecondaryAxis("y2")
	p.Unbind()
	assert.Equal(t, Unbound, p.State())
	assert.Nil(t, p.Secondary())
	assert.True(t, p.HasSecondary())

	// 未绑定时只记录配置
	p.SetTitle("renamed")
	p.CreateOrRelabelSecondaryAxis("y2b")
	assert.Nil(t, p.Secondary())

	ax2, err := fig.AddSubplot(SubplotSpec{Rows: 1, Cols: 1, Index: 1})
	require.NoError(t, err)
	require.NoError(t, p.Bind(ax2))
	assert.Equal(t, "renamed", ax2.Title())
	require.NotNil(t, p.Secondary())
	assert.Equal(t, "y2b", p.Secondary().YLabel())
	assert.Equal(t, "x", ax2.XLabel())

	require.NoError(t, c.RemoveLast())
	assert.ErrorIs(t, c.RemoveLast(), ErrNoSubplot)
}
