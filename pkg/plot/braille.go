package plot

// brailleDotMap 盲文点阵的映射关系 (2x4 grid)
var brailleDotMap = [4][2]int{
	{0b00000001, 0b00001000}, // (y:0, x:0), (y:0, x:1)
	{0b00000010, 0b00010000}, // (y:1, x:0), (y:1, x:1)
	{0b00000100, 0b00100000}, // (y:2, x:0), (y:2, x:1)
	{0b01000000, 0b10000000}, // (y:3, x:0), (y:3, x:1)
}

// brailleCell 定义盲文字符的cell结构
type brailleCell struct {
	char  int
	color string
}

// rune 返回该cell对应的盲文字符
func (c brailleCell) rune() rune {
	return rune(0x2800 + c.char)
}

// brailleCanvas 每个字符覆盖2x4个子像素的画布
type brailleCanvas struct {
	cells  [][]brailleCell // [列][行]
	width  int             // 字符列数
	height int             // 字符行数
}

func newBrailleCanvas(width, height int) *brailleCanvas {
	cells := make([][]brailleCell, width)
	for i := range cells {
		cells[i] = make([]brailleCell, height)
	}
	return &brailleCanvas{cells: cells, width: width, height: height}
}

// pixels 返回子像素尺寸
func (c *brailleCanvas) pixels() (int, int) {
	return c.width * 2, c.height * 4
}

// set 点亮一个子像素，越界时忽略
func (c *brailleCanvas) set(x, y int, color string) {
	pw, ph := c.pixels()
	if x < 0 || x >= pw || y < 0 || y >= ph {
		return
	}
	cell := &c.cells[x/2][y/4]
	cell.char |= brailleDotMap[y%4][x%2]
	cell.color = color
}

// line 使用布雷森汉姆算法在盲文画布上绘制线段
func (c *brailleCanvas) line(x1, y1, x2, y2 int, color string) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy

	x, y := x1, y1
	for {
		c.set(x, y, color)

		if x == x2 && y == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

// at 返回指定字符位置的cell
func (c *brailleCanvas) at(col, row int) brailleCell {
	return c.cells[col][row]
}

// abs 返回整数的绝对值
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
