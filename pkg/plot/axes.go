package plot

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/rivo/tview"

	"github.com/Kevin-Rudy/pingplot/pkg/core"
)

const (
	maxYTicks = 5
	maxXTicks = 5

	// 标题行 + x轴线 + x刻度行 + x标签行
	decorationRows = 4

	minBodyWidth = 4
)

// Frame 一次渲染的结果，每行都可能包含tview颜色标签
type Frame struct {
	Rows   []string
	Width  int
	Height int
}

// frameLayout 缓存上一次完整渲染的布局，供只重绘线条时复用
type frameLayout struct {
	width, height int
	bodyW, bodyH  int
	limits        Limits
	twinLimits    Limits
	leftLabels    []string // 每个图表行左侧的y刻度前缀
	rightLabels   []string // 每个图表行右侧的次y轴刻度后缀
	gridRows      map[int]bool
	gridCols      map[int]bool
	rows          []string
}

// Axes 终端上的一个绘图区域（渲染表面）
// 负责线条、坐标范围、标签、格式化器和可选的次y轴
type Axes struct {
	title  string
	xlabel string
	ylabel string
	grid   bool
	xfmt   Formatter
	yfmt   Formatter

	lines  []*Line
	limits *Limits

	twin   *Axes // 共享x轴的次y轴
	parent *Axes // 作为次y轴时指向主坐标系

	cache *frameLayout
}

func newAxes() *Axes {
	plain := ScalarFormatter{PowerLimits: DefaultPowerLimits}
	return &Axes{xfmt: plain, yfmt: plain}
}

// SetTitle 设置标题
func (a *Axes) SetTitle(title string) { a.title = title }

// Title 返回标题
func (a *Axes) Title() string { return a.title }

// SetXLabel 设置x轴标签
func (a *Axes) SetXLabel(label string) { a.xlabel = label }

// XLabel 返回x轴标签
func (a *Axes) XLabel() string { return a.xlabel }

// SetYLabel 设置y轴标签
func (a *Axes) SetYLabel(label string) { a.ylabel = label }

// YLabel 返回y轴标签
func (a *Axes) YLabel() string { return a.ylabel }

// SetGrid 设置是否显示网格
func (a *Axes) SetGrid(show bool) { a.grid = show }

// Grid 报告是否显示网格
func (a *Axes) Grid() bool { return a.grid }

// SetFormatters 设置x、y轴格式化器，nil表示保持不变
func (a *Axes) SetFormatters(x, y Formatter) {
	if x != nil {
		a.xfmt = x
	}
	if y != nil {
		a.yfmt = y
	}
}

// Formatters 返回x、y轴格式化器
func (a *Axes) Formatters() (Formatter, Formatter) {
	return a.xfmt, a.yfmt
}

// Plot 添加一条线
func (a *Axes) Plot(x, y []core.Value, style Style) (*Line, error) {
	line := &Line{style: style, axes: a}
	if err := line.SetData(x, y); err != nil {
		return nil, err
	}
	a.lines = append(a.lines, line)
	return line, nil
}

// Lines 返回该坐标系上的所有线条
func (a *Axes) Lines() []*Line {
	out := make([]*Line, len(a.lines))
	copy(out, a.lines)
	return out
}

// RemoveLine 移除一条线，线条不在该坐标系上时返回false
func (a *Axes) RemoveLine(line *Line) bool {
	for i, l := range a.lines {
		if l == line {
			a.lines = append(a.lines[:i], a.lines[i+1:]...)
			line.axes = nil
			return true
		}
	}
	return false
}

// ClearLines 移除所有线条并恢复自动缩放
func (a *Axes) ClearLines() {
	for _, l := range a.lines {
		l.axes = nil
	}
	a.lines = nil
	a.limits = nil
}

// SetAxis 固定坐标范围，关闭自动缩放
func (a *Axes) SetAxis(l Limits) {
	a.limits = &l
}

// Axis 返回当前坐标范围：固定范围或由数据自动计算
func (a *Axes) Axis() Limits {
	if a.limits != nil {
		return *a.limits
	}

	lim := dataLimits(a.lines)
	if a.parent != nil {
		p := a.parent.Axis()
		lim.X1, lim.X2 = p.X1, p.X2
	}
	return lim
}

// TwinX 创建（或返回已有的）共享x轴的次y轴
func (a *Axes) TwinX() *Axes {
	if a.twin == nil {
		a.twin = newAxes()
		a.twin.parent = a
		a.twin.xfmt = a.xfmt
	}
	return a.twin
}

// Twin 返回次y轴，没有时为nil
func (a *Axes) Twin() *Axes {
	return a.twin
}

// dataLimits 计算所有线条有效点的范围，两侧各留5%
func dataLimits(lines []*Line) Limits {
	var (
		lim   Limits
		found bool
	)
	for _, l := range lines {
		for i := range l.x {
			x, okX := l.x[i].Get()
			y, okY := l.y[i].Get()
			if !okX || !okY {
				continue
			}
			if !found {
				lim = Limits{X1: x, X2: x, Y1: y, Y2: y}
				found = true
				continue
			}
			lim.X1, lim.X2 = math.Min(lim.X1, x), math.Max(lim.X2, x)
			lim.Y1, lim.Y2 = math.Min(lim.Y1, y), math.Max(lim.Y2, y)
		}
	}
	if !found {
		return Limits{X1: 0, X2: 1, Y1: 0, Y2: 1}
	}

	lim.X1, lim.X2 = expand(lim.X1, lim.X2)
	lim.Y1, lim.Y2 = expand(lim.Y1, lim.Y2)
	return lim
}

func expand(lo, hi float64) (float64, float64) {
	if lo == hi {
		return lo - 0.5, hi + 0.5
	}
	margin := (hi - lo) * 0.05
	return lo - margin, hi + margin
}

// Render 完整渲染坐标系到width x height的字符区域
func (a *Axes) Render(width, height int) Frame {
	frame := Frame{Width: width, Height: height}

	bodyH := height - decorationRows
	if bodyH < 1 {
		a.cache = nil
		frame.Rows = []string{"[red]可绘制区域过小[white]"}
		return frame
	}

	lim := a.Axis()
	ly := &frameLayout{width: width, height: height, bodyH: bodyH, limits: lim}

	yTicks := tickFractions(min(maxYTicks, bodyH))
	leftText := make([]string, bodyH)
	leftW := 0
	ly.gridRows = make(map[int]bool)
	for _, frac := range yTicks {
		row := int(math.Round(frac * float64(bodyH-1)))
		label := a.yfmt.Format(lim.Y2 - frac*(lim.Y2-lim.Y1))
		leftText[row] = label
		ly.gridRows[row] = true
		leftW = max(leftW, utf8.RuneCountInString(label))
	}

	rightText := make([]string, bodyH)
	rightW := 0
	if a.twin != nil {
		ly.twinLimits = a.twin.Axis()
		for _, frac := range yTicks {
			row := int(math.Round(frac * float64(bodyH-1)))
			label := a.twin.yfmt.Format(ly.twinLimits.Y2 - frac*(ly.twinLimits.Y2-ly.twinLimits.Y1))
			rightText[row] = label
			rightW = max(rightW, utf8.RuneCountInString(label))
		}
		rightW++ // 分隔符
	}

	// 左侧: 标签 + 空格 + │
	ly.bodyW = width - (leftW + 2) - rightW
	if ly.bodyW < minBodyWidth {
		a.cache = nil
		frame.Rows = []string{"[red]可绘制区域过小[white]"}
		return frame
	}

	ly.leftLabels = make([]string, bodyH)
	ly.rightLabels = make([]string, bodyH)
	for i := 0; i < bodyH; i++ {
		ly.leftLabels[i] = fmt.Sprintf("[gray]%*s │[white]", leftW, escape(leftText[i]))
		if a.twin != nil {
			ly.rightLabels[i] = fmt.Sprintf("[gray]│%-*s[white]", rightW-1, escape(rightText[i]))
		}
	}

	xTicks := tickFractions(max(2, min(maxXTicks, ly.bodyW/10+1)))
	ly.gridCols = make(map[int]bool)
	tickCols := make([]int, len(xTicks))
	tickLabels := make([]string, len(xTicks))
	for i, frac := range xTicks {
		col := int(math.Round(frac * float64(ly.bodyW-1)))
		tickCols[i] = col
		tickLabels[i] = a.xfmt.Format(lim.X1 + frac*(lim.X2-lim.X1))
		ly.gridCols[col] = true
	}

	rows := make([]string, 0, height)
	rows = append(rows, a.header(width))
	rows = append(rows, a.body(ly, a.allLines())...)

	axisLine := strings.Repeat(" ", leftW+1) + "└" + strings.Repeat("─", ly.bodyW)
	if a.twin != nil {
		axisLine += "┘"
	}
	rows = append(rows, "[gray]"+axisLine+"[white]")
	rows = append(rows, "[gray]"+escape(placeLabels(leftW+2, ly.bodyW, tickCols, tickLabels))+"[white]")
	rows = append(rows, escape(center(a.xlabel, width)))

	ly.rows = rows
	a.cache = ly
	frame.Rows = rows
	return frame
}

// RenderPlotOnly 只重绘背景、给定线条和网格线，复用上一次完整渲染的布局
// 从未完整渲染过时返回false
func (a *Axes) RenderPlotOnly(lines []*Line) (Frame, bool) {
	ly := a.cache
	if ly == nil {
		return Frame{}, false
	}

	rows := make([]string, len(ly.rows))
	copy(rows, ly.rows)
	copy(rows[1:1+ly.bodyH], a.body(ly, lines))
	return Frame{Rows: rows, Width: ly.width, Height: ly.height}, true
}

// allLines 返回主坐标系和次y轴上的全部线条
func (a *Axes) allLines() []*Line {
	lines := a.Lines()
	if a.twin != nil {
		lines = append(lines, a.twin.lines...)
	}
	return lines
}

// body 渲染图表主体的各行
func (a *Axes) body(ly *frameLayout, lines []*Line) []string {
	canvas := newBrailleCanvas(ly.bodyW, ly.bodyH)
	for _, l := range lines {
		lim := ly.limits
		if l.axes != nil && l.axes == a.twin {
			lim.Y1, lim.Y2 = ly.twinLimits.Y1, ly.twinLimits.Y2
		}
		drawLine(canvas, l, lim)
	}

	rows := make([]string, ly.bodyH)
	var sb strings.Builder
	for r := 0; r < ly.bodyH; r++ {
		sb.Reset()
		sb.WriteString(ly.leftLabels[r])
		for c := 0; c < ly.bodyW; c++ {
			cell := canvas.at(c, r)
			switch {
			case cell.char != 0:
				sb.WriteString(cell.color)
				sb.WriteRune(cell.rune())
				sb.WriteString("[white]")
			case a.grid && (ly.gridRows[r] || ly.gridCols[c]):
				sb.WriteString("[gray]·[white]")
			default:
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(ly.rightLabels[r])
		rows[r] = sb.String()
	}
	return rows
}

// drawLine 把一条线映射到子像素坐标并绘制，缺失值处断开
func drawLine(canvas *brailleCanvas, l *Line, lim Limits) {
	pw, ph := canvas.pixels()
	if lim.X2 == lim.X1 || lim.Y2 == lim.Y1 {
		return
	}

	color := l.style.tag()
	lastX, lastY, hasLast := 0, 0, false
	for i := range l.x {
		x, okX := l.x[i].Get()
		y, okY := l.y[i].Get()
		if !okX || !okY {
			hasLast = false
			continue
		}

		px := clampPixel((x-lim.X1)/(lim.X2-lim.X1)*float64(pw-1), pw)
		py := clampPixel((1-(y-lim.Y1)/(lim.Y2-lim.Y1))*float64(ph-1), ph)

		if hasLast {
			canvas.line(lastX, lastY, px, py, color)
		} else {
			canvas.set(px, py, color)
		}
		lastX, lastY, hasLast = px, py, true
	}
}

// clampPixel 限制远离画布的坐标，避免布雷森汉姆循环过长
func clampPixel(v float64, size int) int {
	limit := float64(size * 4)
	return int(math.Round(math.Max(-limit, math.Min(limit, v))))
}

// header 渲染标题行：左侧y轴标签，中间标题和图例，右侧次y轴标签
func (a *Axes) header(width int) string {
	var legend []string
	legendW := 0
	for _, l := range a.allLines() {
		if l.style.hasLegend() {
			legend = append(legend, l.style.tag()+"●"+escape(l.style.Label)+"[white]")
			legendW += utf8.RuneCountInString(l.style.Label) + 2
		}
	}

	left := a.ylabel
	right := ""
	if a.twin != nil {
		right = a.twin.ylabel
	}

	titleW := width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right) - legendW
	if titleW < 0 {
		titleW = 0
	}

	var sb strings.Builder
	sb.WriteString("[gray]" + escape(left) + "[white]")
	sb.WriteString("[::b]" + escape(center(a.title, titleW)) + "[::-]")
	for _, item := range legend {
		sb.WriteString(" " + item)
	}
	sb.WriteString("[gray]" + escape(right) + "[white]")
	return sb.String()
}

// tickFractions 在[0,1]上均匀分布n个刻度
func tickFractions(n int) []float64 {
	if n <= 1 {
		return []float64{0}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) / float64(n-1)
	}
	return out
}

// placeLabels 把刻度标签居中放到对应的列上，重叠的标签被跳过
func placeLabels(offset, width int, cols []int, labels []string) string {
	line := []rune(strings.Repeat(" ", offset+width))
	next := 0
	for i, label := range labels {
		r := []rune(label)
		start := offset + cols[i] - len(r)/2
		start = max(start, offset)
		if start+len(r) > len(line) {
			start = len(line) - len(r)
		}
		if start < next || start < 0 {
			continue
		}
		copy(line[start:], r)
		next = start + len(r) + 1
	}
	return strings.TrimRight(string(line), " ")
}

// center 把文本居中到width宽度，过长时截断
func center(s string, width int) string {
	r := []rune(s)
	if len(r) >= width {
		return string(r[:max(width, 0)])
	}
	pad := (width - len(r)) / 2
	return strings.Repeat(" ", pad) + s + strings.Repeat(" ", width-len(r)-pad)
}

// escape 防止用户文本被解析为颜色标签
func escape(s string) string {
	return tview.Escape(s)
}
