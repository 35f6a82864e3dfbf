// Package pinger 选项模式支持
package pinger

import (
	"log/slog"
	"time"

	"github.com/Kevin-Rudy/pingplot/pkg/core"
)

// Option 配置选项函数类型
type Option func(*Config)

// WithIPVersion 设置IP版本
func WithIPVersion(version int) Option {
	return func(c *Config) {
		c.IPVersion = version
	}
}

// WithInterval 设置ping间隔
func WithInterval(interval time.Duration) Option {
	return func(c *Config) {
		c.Interval = interval
	}
}

// WithTimeout 设置超时时间
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithBufferSize 设置缓冲区大小
func WithBufferSize(size int) Option {
	return func(c *Config) {
		c.BufferSize = size
	}
}

// WithSystemPing 使用系统ping命令，path为空时在PATH中查找
func WithSystemPing(path string) Option {
	return func(c *Config) {
		c.SystemPing = true
		c.PingPath = path
	}
}

// WithLogger 设置日志
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// NewPingerWithOptions 使用选项模式创建Pinger
func NewPingerWithOptions(targets []string, opts ...Option) (core.DataSource, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}
	return NewPinger(targets, config)
}
