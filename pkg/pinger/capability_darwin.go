//go:build darwin

package pinger

import (
	"os"

	"github.com/Kevin-Rudy/pingplot/pkg/core"
)

// darwinCapability macOS平台能力实现
type darwinCapability struct{}

// hasPrivilegedAccess 检查macOS root权限
func (d *darwinCapability) hasPrivilegedAccess() bool {
	return os.Geteuid() == 0
}

// createPrivilegedPinger 创建特权模式pinger（使用raw socket）
func (d *darwinCapability) createPrivilegedPinger(targets []string, config *Config) (core.DataSource, error) {
	return newPrivilegedPinger(targets, config)
}

// createUnprivilegedPinger macOS的ping命令自带setuid，非特权时使用它
func (d *darwinCapability) createUnprivilegedPinger(targets []string, config *Config) (core.DataSource, error) {
	return newSystemPinger(targets, config)
}

func (d *darwinCapability) describe(privileged bool) (string, string, string) {
	if privileged {
		return "macOS", "特权模式 (Root权限)", "macOS Raw Socket"
	}
	return "macOS", "非特权模式", "系统ping命令"
}

// getPlatformCapability 获取macOS平台的能力实现
func getPlatformCapability() platformCapability {
	return &darwinCapability{}
}
