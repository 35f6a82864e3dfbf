//go:build !linux && !darwin && !windows

package pinger

import (
	"os"
	"runtime"

	"github.com/Kevin-Rudy/pingplot/pkg/core"
)

// genericCapability 其它Unix平台：root时使用raw socket，否则使用系统ping命令
type genericCapability struct{}

func (g *genericCapability) hasPrivilegedAccess() bool {
	return os.Geteuid() == 0
}

func (g *genericCapability) createPrivilegedPinger(targets []string, config *Config) (core.DataSource, error) {
	return newPrivilegedPinger(targets, config)
}

func (g *genericCapability) createUnprivilegedPinger(targets []string, config *Config) (core.DataSource, error) {
	return newSystemPinger(targets, config)
}

func (g *genericCapability) describe(privileged bool) (string, string, string) {
	if privileged {
		return runtime.GOOS, "特权模式", "通用Raw Socket"
	}
	return runtime.GOOS, "非特权模式", "系统ping命令"
}

func getPlatformCapability() platformCapability {
	return &genericCapability{}
}
