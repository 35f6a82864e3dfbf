//go:build windows

// Package pinger - Windows非特权模式实现
// 通过Icmp.dll的IcmpSendEcho发送回显请求，不需要管理员权限
package pinger

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/Kevin-Rudy/pingplot/pkg/core"
)

var (
	icmpDLL         = windows.NewLazySystemDLL("Icmp.dll")
	icmpCreateFile  = icmpDLL.NewProc("IcmpCreateFile")
	icmpCloseHandle = icmpDLL.NewProc("IcmpCloseHandle")
	icmpSendEcho    = icmpDLL.NewProc("IcmpSendEcho")
)

// ipSuccess IcmpSendEcho回复状态：成功
const ipSuccess = 0

// echoReply 对应Windows的ICMP_ECHO_REPLY
type echoReply struct {
	Address       uint32
	Status        uint32
	RoundTripTime uint32
	DataSize      uint16
	Reserved      uint16
	Data          uintptr
	Options       ipOptionInformation
}

// ipOptionInformation 对应Windows的IP_OPTION_INFORMATION
type ipOptionInformation struct {
	TTL         uint8
	TOS         uint8
	Flags       uint8
	OptionsSize uint8
	OptionsData uintptr
}

// windowsPinger Windows非特权模式的ping实现
// 所有目标共享一个ICMP句柄，Stop之后句柄被关闭
type windowsPinger struct {
	*basePinger

	handleMu sync.RWMutex
	handle   windows.Handle
}

// newWindowsPinger 创建Windows非特权模式的pinger实例
func newWindowsPinger(targets []string, config *Config) (core.DataSource, error) {
	if config.IPVersion == 6 {
		return nil, errors.New("Windows ICMP API模式仅支持IPv4，请以管理员身份运行或使用 --system-ping")
	}

	ret, _, err := icmpCreateFile.Call()
	if handle := windows.Handle(ret); handle == 0 || handle == windows.InvalidHandle {
		return nil, fmt.Errorf("IcmpCreateFile失败: %w", err)
	}

	return &windowsPinger{
		basePinger: newBasePinger(targets, config),
		handle:     windows.Handle(ret),
	}, nil
}

// Start 实现core.DataSource接口，每个目标一个goroutine
func (p *windowsPinger) Start() {
	p.setRunning(true)

	for _, target := range p.targets {
		p.wg.Add(1)
		go p.pingTarget(target)
	}
}

// pingTarget 按间隔向单个目标发送回显请求
func (p *windowsPinger) pingTarget(target string) {
	defer p.wg.Done()

	dst, err := net.ResolveIPAddr(p.config.GetIPProtocol(), target)
	if err != nil {
		p.fail(fmt.Errorf("解析 %s 失败: %w", target, err))
		return
	}
	addr, ok := ipv4Addr(dst.IP)
	if !ok {
		p.fail(fmt.Errorf("%s 不是IPv4地址", target))
		return
	}

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopChan:
			return
		case <-ticker.C:
			sent := time.Now()
			p.sendSampleAt(target, p.echo(addr, sent), sent)
		}
	}
}

// echo 发送一次回显请求并等待回复，失败或超时返回core.Missing
func (p *windowsPinger) echo(addr uint32, sent time.Time) core.Value {
	p.handleMu.RLock()
	defer p.handleMu.RUnlock()
	if p.handle == windows.InvalidHandle {
		return core.Missing
	}

	// 回复缓冲区要放得下echoReply、回显数据和一个ICMP错误消息
	reply := make([]byte, unsafe.Sizeof(echoReply{})+uintptr(len(echoPayload))+8)

	ret, _, _ := icmpSendEcho.Call(
		uintptr(p.handle),
		uintptr(addr),
		uintptr(unsafe.Pointer(&echoPayload[0])),
		uintptr(len(echoPayload)),
		0,
		uintptr(unsafe.Pointer(&reply[0])),
		uintptr(len(reply)),
		uintptr(p.config.Timeout.Milliseconds()),
	)
	if ret == 0 {
		return core.Missing
	}

	return replyLatency((*echoReply)(unsafe.Pointer(&reply[0])), time.Since(sent))
}

// replyLatency 把回复转换为延迟样本
// 系统报告的往返时间只有毫秒精度，为0时使用本地测量值
func replyLatency(r *echoReply, measured time.Duration) core.Value {
	if r.Status != ipSuccess {
		return core.Missing
	}
	if r.RoundTripTime > 0 {
		return latencyMs(time.Duration(r.RoundTripTime) * time.Millisecond)
	}
	return latencyMs(measured)
}

// ipv4Addr 把IPv4地址转换为IcmpSendEcho使用的网络字节序整数
func ipv4Addr(ip net.IP) (uint32, bool) {
	v4 := ip.To4()
	if v4 == nil {
		return 0, false
	}
	return *(*uint32)(unsafe.Pointer(&v4[0])), true
}

// Stop 停止发送并关闭ICMP句柄
func (p *windowsPinger) Stop() {
	p.basePinger.Stop()

	p.handleMu.Lock()
	defer p.handleMu.Unlock()
	if p.handle != windows.InvalidHandle {
		icmpCloseHandle.Call(uintptr(p.handle))
		p.handle = windows.InvalidHandle
	}
}

// checkWindowsAdmin 检查当前进程是否属于管理员组
func checkWindowsAdmin() bool {
	var sid *windows.SID
	err := windows.AllocateAndInitializeSid(
		&windows.SECURITY_NT_AUTHORITY,
		2,
		windows.SECURITY_BUILTIN_DOMAIN_RID,
		windows.DOMAIN_ALIAS_RID_ADMINS,
		0, 0, 0, 0, 0, 0,
		&sid)
	if err != nil {
		return false
	}
	defer windows.FreeSid(sid)

	isMember, err := windows.Token(0).IsMember(sid)
	if err != nil {
		return false
	}
	return isMember
}
