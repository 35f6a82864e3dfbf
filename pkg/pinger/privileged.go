// Package pinger - 特权模式实现
// 使用原始套接字，需要管理员/root权限，但支持所有操作系统
package pinger

import (
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"

	"github.com/Kevin-Rudy/pingplot/pkg/core"
)

const (
	protocolICMP     = 1  // IPv4 ICMP协议号
	protocolIPv6ICMP = 58 // IPv6 ICMP协议号
)

// echoPayload 回显请求的负载
var echoPayload = []byte("pingplot")

// privilegedPinger 特权模式的ping实现
type privilegedPinger struct {
	*basePinger
}

// newPrivilegedPinger 创建特权模式的pinger实例
func newPrivilegedPinger(targets []string, config *Config) (core.DataSource, error) {
	p := &privilegedPinger{
		basePinger: newBasePinger(targets, config),
	}
	return p, nil
}

// Start 实现core.DataSource接口，启动ping操作
func (p *privilegedPinger) Start() {
	p.setRunning(true)

	// 为每个目标启动一个goroutine
	for _, target := range p.targets {
		p.wg.Add(1)
		go p.pingTarget(target)
	}
}

// echoRequest 按IP版本构造回显请求
func echoRequest(ipVersion, seq int) *icmp.Message {
	var typ icmp.Type = ipv4.ICMPTypeEcho
	if ipVersion == 6 {
		typ = ipv6.ICMPTypeEchoRequest
	}
	return &icmp.Message{
		Type: typ,
		Code: 0,
		Body: &icmp.Echo{
			ID:   os.Getpid() & 0xffff,
			Seq:  seq,
			Data: echoPayload,
		},
	}
}

// isEchoReply 检查回复是否对应本进程的指定序列号
func isEchoReply(ipVersion int, data []byte, seq int) bool {
	proto := protocolICMP
	if ipVersion == 6 {
		proto = protocolIPv6ICMP
	}
	msg, err := icmp.ParseMessage(proto, data)
	if err != nil {
		return false
	}
	if msg.Type != ipv4.ICMPTypeEchoReply && msg.Type != ipv6.ICMPTypeEchoReply {
		return false
	}
	echo, ok := msg.Body.(*icmp.Echo)
	return ok && echo.ID == (os.Getpid()&0xffff) && echo.Seq == seq
}

// isDgramEchoReply 检查DGRAM套接字收到的回复，内核会改写ID，因此只校验序列号
func isDgramEchoReply(data []byte, seq int) bool {
	msg, err := icmp.ParseMessage(protocolICMP, data)
	if err != nil || msg.Type != ipv4.ICMPTypeEchoReply {
		return false
	}
	echo, ok := msg.Body.(*icmp.Echo)
	return ok && echo.Seq == seq
}

// pingTarget 对单个目标进行ping操作
func (p *privilegedPinger) pingTarget(target string) {
	defer p.wg.Done()

	// 地址已在NewPinger中预验证，此处失败意味着无法进行探测
	dst, err := net.ResolveIPAddr(p.config.GetIPProtocol(), target)
	if err != nil {
		p.fail(fmt.Errorf("解析 %s 失败: %w", target, err))
		return
	}

	// 创建原始套接字
	protocol := "ip4:icmp"
	if p.config.IPVersion == 6 {
		protocol = "ip6:ipv6-icmp"
	}
	conn, err := net.Dial(protocol, dst.String())
	if err != nil {
		p.fail(fmt.Errorf("创建原始套接字失败: %w", err))
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	seq := 0
	for {
		select {
		case <-p.stopChan:
			return
		case <-ticker.C:
			seq++
			p.sendPing(conn, target, seq)
		}
	}
}

// sendPing 发送单个ping包，超时或任何失败都记为缺失样本
func (p *privilegedPinger) sendPing(conn net.Conn, target string, seq int) {
	startTime := time.Now()

	data, err := echoRequest(p.config.IPVersion, seq).Marshal(nil)
	if err != nil {
		p.sendSampleAt(target, core.Missing, startTime)
		return
	}

	conn.SetDeadline(startTime.Add(p.config.Timeout))

	if _, err := conn.Write(data); err != nil {
		p.sendSampleAt(target, core.Missing, startTime)
		return
	}

	reply := make([]byte, 1500)
	for {
		n, err := conn.Read(reply)
		if err != nil {
			p.sendSampleAt(target, core.Missing, startTime)
			return
		}
		if isEchoReply(p.config.IPVersion, reply[:n], seq) {
			p.sendSampleAt(target, latencyMs(time.Since(startTime)), startTime)
			return
		}
	}
}
