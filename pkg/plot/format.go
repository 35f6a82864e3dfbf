package plot

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Formatter 把坐标轴刻度值格式化为标签
type Formatter interface {
	Format(v float64) string
}

// FormatKind 格式化器类型
type FormatKind string

const (
	FormatSci     FormatKind = "sci"     // 超出幂次范围时使用科学计数法
	FormatPlain   FormatKind = "plain"   // 普通小数
	FormatLog     FormatKind = "log"     // 对数刻度标签
	FormatLatency FormatKind = "latency" // 自适应的 µs/ms/s
)

// DefaultPowerLimits 科学计数法的默认幂次范围
var DefaultPowerLimits = [2]int{-3, 3}

// NewFormatter 按类型创建格式化器
func NewFormatter(kind FormatKind) (Formatter, error) {
	switch FormatKind(strings.ToLower(string(kind))) {
	case FormatSci:
		return ScalarFormatter{Scientific: true, PowerLimits: DefaultPowerLimits}, nil
	case FormatPlain:
		return ScalarFormatter{PowerLimits: DefaultPowerLimits}, nil
	case FormatLog:
		return LogFormatter{Base: 10}, nil
	case FormatLatency:
		return LatencyFormatter{}, nil
	default:
		return nil, fmt.Errorf("未知的格式化器类型: %q", kind)
	}
}

// ScalarFormatter 普通数值格式化器
type ScalarFormatter struct {
	Scientific  bool   // 是否允许科学计数法
	PowerLimits [2]int // 指数落在该范围之外时使用科学计数法
}

// Format 实现Formatter
func (f ScalarFormatter) Format(v float64) string {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return trimFloat(v, 0)
	}

	exp := int(math.Floor(math.Log10(math.Abs(v))))
	if f.Scientific && (exp < f.PowerLimits[0] || exp > f.PowerLimits[1]) {
		return strconv.FormatFloat(v, 'e', 1, 64)
	}

	// 保留两位有效小数
	decimals := 0
	if exp < 2 {
		decimals = 2 - exp
		if decimals > 6 {
			decimals = 6
		}
	}
	return trimFloat(v, decimals)
}

// LogFormatter 对数刻度格式化器，整数幂显示为 base^n
type LogFormatter struct {
	Base float64
}

// Format 实现Formatter
func (f LogFormatter) Format(v float64) string {
	base := f.Base
	if base <= 1 {
		base = 10
	}
	if v <= 0 {
		return "0"
	}

	exp := math.Log(v) / math.Log(base)
	if math.Abs(exp-math.Round(exp)) < 1e-9 {
		return fmt.Sprintf("%g^%d", base, int(math.Round(exp)))
	}
	return strconv.FormatFloat(v, 'g', 2, 64)
}

// LatencyFormatter 提供自适应的延迟格式化（输入单位为ms）
type LatencyFormatter struct{}

// Format 实现Formatter
func (LatencyFormatter) Format(latency float64) string {
	return LatencyLabel(latency)
}

// LatencyLabel 把毫秒延迟格式化为自适应的 µs/ms/s 标签
func LatencyLabel(latency float64) string {
	if math.IsNaN(latency) {
		return "N/A"
	}

	switch {
	case latency == 0:
		return "0ms"
	case latency < 1.0:
		// 小于1ms，显示为微秒
		return fmt.Sprintf("%.0fµs", latency*1000)
	case latency < 1000.0:
		return fmt.Sprintf("%.1fms", latency)
	default:
		return fmt.Sprintf("%.2fs", latency/1000)
	}
}

func trimFloat(v float64, decimals int) string {
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		s = "0"
	}
	return s
}

// AxisSelector 选择格式化器作用的坐标轴
type AxisSelector int

const (
	AxisAll AxisSelector = iota
	AxisX
	AxisY
)

// ParseAxisSelector 解析 "all"、"x"、"y"
func ParseAxisSelector(s string) (AxisSelector, error) {
	switch strings.ToLower(s) {
	case "", "all":
		return AxisAll, nil
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	default:
		return AxisAll, fmt.Errorf("未知的坐标轴: %q", s)
	}
}

// apply 按选择更新格式化器对，f为nil时保持不变
func (a AxisSelector) apply(pair [2]Formatter, f Formatter) [2]Formatter {
	if f == nil {
		return pair
	}
	switch a {
	case AxisX:
		pair[0] = f
	case AxisY:
		pair[1] = f
	default:
		pair = [2]Formatter{f, f}
	}
	return pair
}
