// Package pinger 实现了core.DataSource接口，提供ping功能
// 根据操作系统和用户权限自动选择最合适的底层实现
package pinger

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Kevin-Rudy/pingplot/pkg/core"
)

// basePinger 定义了所有pinger实现的基本结构
type basePinger struct {
	targets   []string         // ping目标列表
	config    *Config          // 配置信息
	logger    *slog.Logger     // 日志
	dataChan  chan core.Sample // 数据输出通道
	stopChan  chan struct{}    // 停止信号通道
	wg        sync.WaitGroup   // 等待组，用于优雅关闭
	running   bool             // 运行状态
	runningMu sync.RWMutex     // 保护running状态的锁

	errMu sync.Mutex
	err   error // 导致数据流结束的致命错误
}

// newBasePinger 创建基础pinger结构
func newBasePinger(targets []string, config *Config) *basePinger {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &basePinger{
		targets:  targets,
		config:   config,
		logger:   logger.With("component", "pinger"),
		dataChan: make(chan core.Sample, config.BufferSize),
		stopChan: make(chan struct{}),
	}
}

// DataStream 实现core.DataSource接口
func (bp *basePinger) DataStream() <-chan core.Sample {
	return bp.dataChan
}

// Err 实现core.DataSource接口
func (bp *basePinger) Err() error {
	bp.errMu.Lock()
	defer bp.errMu.Unlock()
	return bp.err
}

// Stop 实现core.DataSource接口
func (bp *basePinger) Stop() {
	bp.runningMu.Lock()
	if !bp.running {
		bp.runningMu.Unlock()
		return
	}
	bp.running = false
	bp.runningMu.Unlock()

	// 发送停止信号
	close(bp.stopChan)

	// 等待所有goroutine结束
	bp.wg.Wait()

	// 关闭数据通道
	close(bp.dataChan)
}

// fail 记录致命错误并异步停止数据流，只保留第一个错误
// 在探测goroutine中调用，因此不能同步等待wg
func (bp *basePinger) fail(err error) {
	bp.errMu.Lock()
	if bp.err == nil {
		bp.err = err
	}
	bp.errMu.Unlock()

	bp.logger.Error("数据源失败", "error", err)
	go bp.Stop()
}

// isRunning 检查是否正在运行
func (bp *basePinger) isRunning() bool {
	bp.runningMu.RLock()
	defer bp.runningMu.RUnlock()
	return bp.running
}

// setRunning 设置运行状态
func (bp *basePinger) setRunning(running bool) {
	bp.runningMu.Lock()
	defer bp.runningMu.Unlock()
	bp.running = running
}

// sendSample 以当前时间发送样本
func (bp *basePinger) sendSample(target string, value core.Value) {
	bp.sendSampleAt(target, value, time.Now())
}

// sendSampleAt 发送带发送时间戳的样本到数据通道
func (bp *basePinger) sendSampleAt(target string, value core.Value, sendTime time.Time) {
	if !bp.isRunning() {
		return
	}

	sample := core.Sample{
		Target:    target,
		Value:     value,
		Timestamp: sendTime,
	}

	select {
	case bp.dataChan <- sample:
	case <-bp.stopChan:
		return
	default:
		// 通道满了，丢弃这个数据点
		// 在高频ping场景中这是可以接受的
		bp.logger.Debug("数据通道已满，丢弃样本", "target", target)
	}
}

// latencyMs 把往返时间转换为毫秒
func latencyMs(rtt time.Duration) core.Value {
	return core.Some(float64(rtt.Nanoseconds()) / 1e6)
}

// NewPinger 创建新的Pinger实例
func NewPinger(targets []string, config *Config) (core.DataSource, error) {
	if len(targets) == 0 {
		return nil, errors.New("必须指定至少一个目标")
	}

	// 验证配置
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// 验证目标地址
	if err := config.ValidateTargets(targets); err != nil {
		return nil, err
	}

	// 显式要求使用系统ping命令
	if config.SystemPing {
		return newSystemPinger(targets, config)
	}

	// 获取当前平台的能力实现
	platform := getPlatformCapability()

	// 优先尝试特权模式（所有平台统一用raw socket）
	if platform.hasPrivilegedAccess() {
		return platform.createPrivilegedPinger(targets, config)
	}

	// 降级到非特权模式（各平台不同的实现）
	return platform.createUnprivilegedPinger(targets, config)
}

// SystemInfo 描述当前平台和所选的ping实现
type SystemInfo struct {
	OS             string
	Privilege      string
	Implementation string
}

// GetSystemInfo 获取完整的系统信息
func GetSystemInfo(systemPing bool) SystemInfo {
	platform := getPlatformCapability()

	var info SystemInfo
	info.OS, info.Privilege, info.Implementation = platform.describe(platform.hasPrivilegedAccess())
	if systemPing {
		info.Implementation = "系统ping命令"
	}
	return info
}

// HasPrivilegedAccess 检查是否有特权访问能力
func HasPrivilegedAccess() bool {
	return getPlatformCapability().hasPrivilegedAccess()
}
