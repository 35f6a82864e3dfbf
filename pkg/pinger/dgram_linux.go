//go:build linux

// Package pinger - Linux非特权模式实现
// 使用SOCK_DGRAM类型的ICMP套接字，仅适用于Linux系统
package pinger

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"syscall"
	"time"

	"github.com/Kevin-Rudy/pingplot/pkg/core"
)

// dgramPinger Linux非特权模式的ping实现
type dgramPinger struct {
	*basePinger
	sock4  int        // IPv4 DGRAM socket
	sockMu sync.Mutex // 多个目标共享同一个socket，发送和接收需串行
}

// newLinuxDgramPinger 创建Linux非特权模式的pinger实例
func newLinuxDgramPinger(targets []string, config *Config) (core.DataSource, error) {
	if config.IPVersion == 6 {
		return nil, errors.New("非特权DGRAM模式仅支持IPv4，请使用特权模式或 --system-ping")
	}

	p := &dgramPinger{
		basePinger: newBasePinger(targets, config),
	}

	sock, err := syscall.Socket(syscall.AF_INET, syscall.SOCK_DGRAM, syscall.IPPROTO_ICMP)
	if err != nil {
		return nil, fmt.Errorf("创建DGRAM ICMP套接字失败: %w", err)
	}
	p.sock4 = sock

	return p, nil
}

// Start 实现core.DataSource接口，启动ping操作
func (p *dgramPinger) Start() {
	p.setRunning(true)

	for _, target := range p.targets {
		p.wg.Add(1)
		go p.pingTarget(target)
	}
}

// pingTarget 对单个目标进行ping操作
func (p *dgramPinger) pingTarget(target string) {
	defer p.wg.Done()

	dst, err := net.ResolveIPAddr(p.config.GetIPProtocol(), target)
	if err != nil {
		p.fail(fmt.Errorf("解析 %s 失败: %w", target, err))
		return
	}

	seq := 0
	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopChan:
			return
		case <-ticker.C:
			seq++
			p.sendPing(dst, seq, target)
		}
	}
}

// sendPing 发送单个ping包并等待回复
func (p *dgramPinger) sendPing(dst *net.IPAddr, seq int, target string) {
	startTime := time.Now()

	data, err := echoRequest(4, seq).Marshal(nil)
	if err != nil {
		p.sendSampleAt(target, core.Missing, startTime)
		return
	}

	sockaddr := &syscall.SockaddrInet4{}
	copy(sockaddr.Addr[:], dst.IP.To4())

	p.sockMu.Lock()
	defer p.sockMu.Unlock()

	if err := syscall.Sendto(p.sock4, data, 0, sockaddr); err != nil {
		p.sendSampleAt(target, core.Missing, startTime)
		return
	}

	tv := syscall.NsecToTimeval(p.config.Timeout.Nanoseconds())
	if err := syscall.SetsockoptTimeval(p.sock4, syscall.SOL_SOCKET, syscall.SO_RCVTIMEO, &tv); err != nil {
		p.fail(fmt.Errorf("设置接收超时失败: %w", err))
		return
	}

	reply := make([]byte, 1500)
	deadline := startTime.Add(p.config.Timeout)
	for time.Now().Before(deadline) {
		n, from, err := syscall.Recvfrom(p.sock4, reply, 0)
		if err != nil {
			// 超时或其他错误
			p.sendSampleAt(target, core.Missing, startTime)
			return
		}

		if fromAddr, ok := from.(*syscall.SockaddrInet4); ok {
			fromIP := net.IPv4(fromAddr.Addr[0], fromAddr.Addr[1], fromAddr.Addr[2], fromAddr.Addr[3])
			if !fromIP.Equal(dst.IP) {
				continue
			}
		}

		if isDgramEchoReply(reply[:n], seq) {
			p.sendSampleAt(target, latencyMs(time.Since(startTime)), startTime)
			return
		}
	}
	p.sendSampleAt(target, core.Missing, startTime)
}

// Stop 停止Linux DGRAM模式的pinger
func (p *dgramPinger) Stop() {
	p.basePinger.Stop()

	p.sockMu.Lock()
	defer p.sockMu.Unlock()
	if p.sock4 > 0 {
		syscall.Close(p.sock4)
		p.sock4 = -1
	}
}
