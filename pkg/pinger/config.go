// Package pinger 配置定义
package pinger

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"
)

// Config pinger组件的配置结构
type Config struct {
	IPVersion  int           // IP版本，4或6
	Interval   time.Duration // ping间隔时间
	Timeout    time.Duration // ping超时时间
	BufferSize int           // 数据通道缓冲区大小
	SystemPing bool          // 使用系统ping命令代替ICMP套接字
	PingPath   string        // 系统ping命令路径，空表示在PATH中查找"ping"
	Logger     *slog.Logger  // 日志，nil时使用slog.Default()
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		IPVersion:  4,
		Interval:   200 * time.Millisecond,
		Timeout:    3 * time.Second,
		BufferSize: 100,
	}
}

// GetIPProtocol 获取IP协议字符串，用于网络操作
func (c *Config) GetIPProtocol() string {
	if c.IPVersion == 6 {
		return "ip6"
	}
	return "ip4"
}

// ValidateTargets 验证目标地址是否符合当前IP版本配置
func (c *Config) ValidateTargets(targets []string) error {
	protocol := c.GetIPProtocol()

	for _, target := range targets {
		if target == "" {
			return errors.New("目标地址不能为空")
		}

		if _, err := net.ResolveIPAddr(protocol, target); err != nil {
			return fmt.Errorf("无法将 '%s' 解析为IPv%d地址: %w", target, c.IPVersion, err)
		}
	}
	return nil
}

// Validate 验证配置的合理性
func (c *Config) Validate() error {
	if c.IPVersion != 4 && c.IPVersion != 6 {
		return errors.New("IP版本必须是4或6")
	}

	if c.Interval <= 0 {
		return errors.New("ping间隔必须大于0")
	}

	if c.Interval < 10*time.Millisecond {
		return errors.New("ping间隔不能小于10ms")
	}

	if c.Timeout <= 0 {
		return errors.New("超时时间必须大于0")
	}

	if c.Timeout < 100*time.Millisecond {
		return errors.New("超时时间不能小于100ms")
	}

	if c.BufferSize <= 0 {
		return errors.New("缓冲区大小必须大于0")
	}

	return nil
}
