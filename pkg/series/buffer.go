// Package series 提供针对有序数值序列的纯函数：
// 定长滑动窗口、缺失值检测、时间平移、缺失值插入与跨缺口连线
package series

// DefaultMaxLen 滑动窗口的默认最大长度
const DefaultMaxLen = 100

// AppendBounded 向有界序列追加一个元素并返回新序列，输入切片不会被修改
// 长度达到maxLen时先弹出最旧的元素再追加（FIFO）
// truncateTo > 0 时，结果再截断为最近的truncateTo个元素
func AppendBounded[T any](buf []T, v T, maxLen, truncateTo int) []T {
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}

	start := 0
	if len(buf) >= maxLen {
		start = len(buf) - maxLen + 1
	}

	n := len(buf) - start + 1
	if truncateTo > 0 && n > truncateTo {
		start += n - truncateTo
		n = truncateTo
	}

	out := make([]T, 0, n)
	out = append(out, buf[start:]...)
	return append(out, v)
}

// Buffer 带上限的滚动缓冲区
type Buffer[T any] struct {
	Max      int // 最大长度，0表示DefaultMaxLen
	Truncate int // 截断长度，0表示不截断
	values   []T
}

// NewBuffer 创建一个滚动缓冲区
func NewBuffer[T any](max, truncate int) *Buffer[T] {
	return &Buffer[T]{Max: max, Truncate: truncate}
}

// Push 追加一个元素
func (b *Buffer[T]) Push(v T) {
	b.values = AppendBounded(b.values, v, b.Max, b.Truncate)
}

// Values 返回当前内容，调用者不应修改返回的切片
func (b *Buffer[T]) Values() []T {
	return b.values
}

// Len 返回当前长度
func (b *Buffer[T]) Len() int {
	return len(b.values)
}

// Reset 清空缓冲区
func (b *Buffer[T]) Reset() {
	b.values = nil
}
