//go:build linux

package pinger

import (
	"net"
	"os"

	"github.com/Kevin-Rudy/pingplot/pkg/core"
)

// linuxCapability Linux平台能力实现
type linuxCapability struct{}

// hasPrivilegedAccess 检查Linux权限（CAP_NET_RAW或root）
func (l *linuxCapability) hasPrivilegedAccess() bool {
	return checkLinuxCapNetRaw()
}

// createPrivilegedPinger 创建特权模式pinger（使用raw socket）
func (l *linuxCapability) createPrivilegedPinger(targets []string, config *Config) (core.DataSource, error) {
	return newPrivilegedPinger(targets, config)
}

// createUnprivilegedPinger 创建Linux DGRAM pinger
func (l *linuxCapability) createUnprivilegedPinger(targets []string, config *Config) (core.DataSource, error) {
	return newLinuxDgramPinger(targets, config)
}

func (l *linuxCapability) describe(privileged bool) (string, string, string) {
	if privileged {
		return "Linux", "特权模式 (Raw Socket)", "Linux Raw Socket"
	}
	return "Linux", "非特权模式 (DGRAM Socket)", "Linux DGRAM Socket"
}

// checkLinuxCapNetRaw 检查Linux系统的CAP_NET_RAW权限或root权限
func checkLinuxCapNetRaw() bool {
	if os.Geteuid() == 0 {
		return true
	}

	// 尝试创建原始套接字来检测CAP_NET_RAW权限
	conn, err := net.Dial("ip4:icmp", "127.0.0.1")
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// getPlatformCapability 获取Linux平台的能力实现
func getPlatformCapability() platformCapability {
	return &linuxCapability{}
}
