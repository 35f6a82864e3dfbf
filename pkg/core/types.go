// Package core 定义了监控框架的核心接口和数据结构
// 这些接口保证了图表核心与具体采样器的完全解耦
package core

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrNoSamples 数据源在产出任何样本之前就结束了
	ErrNoSamples = errors.New("数据源未产出任何样本")

	// ErrStreamEnded 数据源在没有被要求停止时关闭了数据流
	ErrStreamEnded = errors.New("数据流已结束")

	// ErrMalformedSample 采样器无法解析的输出，与超时不同，它是致命错误
	ErrMalformedSample = errors.New("无法解析的采样输出")
)

// Value 是一个带标签的可选数值：要么是有效延迟，要么是Missing
// 用它代替NaN哨兵值，避免缺失值在运算中悄悄传播
type Value struct {
	v  float64
	ok bool
}

// Missing 表示超时、不可达或失败的测量
var Missing = Value{}

// Some 构造一个有效值
func Some(v float64) Value {
	return Value{v: v, ok: true}
}

// FromFloat 把可能为NaN/Inf的浮点数转换为Value
func FromFloat(v float64) Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Missing
	}
	return Some(v)
}

// Values 把一组浮点数包装为有效值
func Values(vs ...float64) []Value {
	out := make([]Value, len(vs))
	for i, v := range vs {
		out[i] = Some(v)
	}
	return out
}

// IsMissing 报告该值是否缺失
func (v Value) IsMissing() bool {
	return !v.ok
}

// Get 返回数值以及它是否有效
func (v Value) Get() (float64, bool) {
	return v.v, v.ok
}

// Float 返回数值，缺失时返回NaN，仅供渲染层做坐标计算
func (v Value) Float() float64 {
	if !v.ok {
		return math.NaN()
	}
	return v.v
}

// Sub 减去偏移量，Missing保持为Missing
func (v Value) Sub(offset float64) Value {
	if !v.ok {
		return Missing
	}
	return Some(v.v - offset)
}

// String 实现fmt.Stringer
func (v Value) String() string {
	if !v.ok {
		return "Missing"
	}
	return fmt.Sprintf("%g", v.v)
}

// Sample 表示单次探测的原子结果
// 同一目标的样本按时间戳严格递增产出，创建后不再修改
type Sample struct {
	Target    string    // 目标标识符（如IP地址、域名等）
	Value     Value     // 延迟(ms)，超时或失败时为Missing
	Timestamp time.Time // 探测发送时间
}

// Seconds 返回以秒为单位的时间戳
func (s Sample) Seconds() float64 {
	return float64(s.Timestamp.UnixNano()) / 1e9
}

// Stats 表示某个目标的全局统计累加器
type Stats struct {
	// Identifier 数据源的唯一标识符（如IP地址、URL等）
	Identifier string

	PacketsSent int // 总发包数
	PacketsRecv int // 总收包数

	// Welford's Online Algorithm 所需的累加器
	WelfordCount int64
	WelfordMean  float64
	WelfordM2    float64

	// 全局最大/最小值
	MinLatency float64
	MaxLatency float64

	// Last 最近一次样本
	Last Value
}

// NewStats 创建一个新的Stats实例
func NewStats(identifier string) *Stats {
	return &Stats{
		Identifier: identifier,
		MinLatency: math.Inf(1),
		MaxLatency: math.Inf(-1),
		Last:       Missing,
	}
}

// Observe 累加一个样本
func (s *Stats) Observe(v Value) {
	s.PacketsSent++
	s.Last = v

	latency, ok := v.Get()
	if !ok {
		return
	}
	s.PacketsRecv++

	s.WelfordCount++
	delta := latency - s.WelfordMean
	s.WelfordMean += delta / float64(s.WelfordCount)
	s.WelfordM2 += delta * (latency - s.WelfordMean)

	if latency < s.MinLatency {
		s.MinLatency = latency
	}
	if latency > s.MaxLatency {
		s.MaxLatency = latency
	}
}

// LossRate 返回丢包率（百分比）
func (s *Stats) LossRate() float64 {
	if s.PacketsSent == 0 {
		return 0
	}
	return float64(s.PacketsSent-s.PacketsRecv) / float64(s.PacketsSent) * 100
}

// StdDev 返回样本标准差，样本不足两个时返回Missing
func (s *Stats) StdDev() Value {
	if s.WelfordCount < 2 {
		return Missing
	}
	return Some(math.Sqrt(s.WelfordM2 / float64(s.WelfordCount-1)))
}

// Mean 返回平均延迟
func (s *Stats) Mean() Value {
	if s.WelfordCount == 0 {
		return Missing
	}
	return Some(s.WelfordMean)
}

// DataSource 定义了样本生产者的标准接口
// 任何探测执行器（如ICMP Pinger、系统ping进程等）都应该实现这个接口
type DataSource interface {
	// DataStream 返回一个只读通道，用于接收实时样本
	// 实现者在独立的goroutine中持续发送，结束时关闭通道
	DataStream() <-chan Sample

	// Start 启动数据收集，非阻塞
	Start()

	// Stop 停止数据收集并清理资源，调用后DataStream()返回的通道会被关闭
	Stop()

	// Err 返回导致数据流结束的致命错误，正常停止时返回nil
	// 只有在通道关闭后调用才有意义
	Err() error
}
