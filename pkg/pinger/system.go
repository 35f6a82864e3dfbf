package pinger

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/Kevin-Rudy/pingplot/pkg/core"
)

var (
	// latencyPattern 匹配 "time=12.3 ms"、"time<1ms"、"Zeit=5ms" 等
	latencyPattern = regexp.MustCompile(`[<>=]\s*(\d+(?:[.,]\d+)?)\s*ms`)

	// timeoutPattern 匹配超时、不可达、ICMP错误和发送失败等可恢复的失败
	timeoutPattern = regexp.MustCompile(`(?i)(time(d|out)|unreachable|general failure|no answer|100% packet loss|` +
		`no route to host|host is down|time to live exceeded|ttl expired|prohibited|send(to|msg):)`)

	// infoPattern 匹配不代表一次探测结果的提示行，例如ICMP重定向
	infoPattern = regexp.MustCompile(`(?i)\bredirect\b`)
)

// ParseLine 解析系统ping命令输出的一行
// 超时和不可达返回Missing，无法识别的行返回core.ErrMalformedSample
func ParseLine(line string) (core.Value, error) {
	if m := latencyPattern.FindStringSubmatch(line); m != nil {
		v, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
		if err != nil {
			return core.Missing, fmt.Errorf("%w: %q", core.ErrMalformedSample, line)
		}
		return core.Some(v), nil
	}
	if timeoutPattern.MatchString(line) {
		return core.Missing, nil
	}
	return core.Missing, fmt.Errorf("%w: %q", core.ErrMalformedSample, line)
}

// isTrailer 报告是否到达统计信息部分（数据流结束）
func isTrailer(line string) bool {
	return strings.HasPrefix(line, "---") || strings.Contains(strings.ToLower(line), "statisti")
}

// isInformational 报告该行是否只是提示信息，不产生样本
func isInformational(line string) bool {
	return !latencyPattern.MatchString(line) && infoPattern.MatchString(line)
}

// lineReader 读取ping输出的样本行，跳过表头，遇到统计信息时结束
type lineReader struct {
	scanner     *bufio.Scanner
	headerLines int
}

func newLineReader(r io.Reader, headerLines int) *lineReader {
	return &lineReader{scanner: bufio.NewScanner(r), headerLines: headerLines}
}

// each 对每个样本调用emit，返回样本数
// 没有任何样本时返回core.ErrNoSamples
func (lr *lineReader) each(emit func(core.Value)) (int, error) {
	count := 0
	skipped := 0
	for lr.scanner.Scan() {
		line := strings.TrimSpace(lr.scanner.Text())
		if skipped < lr.headerLines {
			skipped++
			continue
		}
		if line == "" {
			continue
		}
		if isTrailer(line) {
			break
		}
		if isInformational(line) {
			continue
		}

		v, err := ParseLine(line)
		if err != nil {
			return count, err
		}
		emit(v)
		count++
	}
	if err := lr.scanner.Err(); err != nil {
		return count, fmt.Errorf("读取ping输出失败: %w", err)
	}
	if count == 0 {
		return 0, core.ErrNoSamples
	}
	return count, nil
}

// pingCommand 返回在给定平台上持续ping目标的命令行和表头行数
func pingCommand(goos, path, target string, cfg *Config) (string, []string, int) {
	if path == "" {
		path = "ping"
	}
	timeoutMs := int(cfg.Timeout.Milliseconds())

	switch goos {
	case "windows":
		args := []string{"-t", "-w", strconv.Itoa(timeoutMs)}
		if cfg.IPVersion == 6 {
			args = append(args, "-6")
		}
		// 空行 + "Pinging ..." 两行表头
		return path, append(args, target), 2
	case "darwin", "freebsd", "netbsd", "openbsd":
		args := []string{"-i", formatSeconds(cfg.Interval), "-W", strconv.Itoa(timeoutMs)}
		if cfg.IPVersion == 6 {
			path = "ping6"
		}
		return path, append(args, target), 1
	default:
		args := []string{
			"-O",
			"-i", formatSeconds(cfg.Interval),
			"-W", formatSeconds(cfg.Timeout),
		}
		if cfg.IPVersion == 6 {
			args = append(args, "-6")
		}
		return path, append(args, target), 1
	}
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}

// systemPinger 通过系统ping命令采样，每个目标一个子进程
type systemPinger struct {
	*basePinger
	ctx    context.Context
	cancel context.CancelFunc
}

// newSystemPinger 创建系统ping命令的pinger实例
func newSystemPinger(targets []string, config *Config) (core.DataSource, error) {
	path := config.PingPath
	if path == "" {
		path = "ping"
	}
	if _, err := exec.LookPath(path); err != nil {
		return nil, fmt.Errorf("找不到ping命令: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &systemPinger{
		basePinger: newBasePinger(targets, config),
		ctx:        ctx,
		cancel:     cancel,
	}, nil
}

// Start 实现core.DataSource接口，为每个目标启动一个ping进程
func (p *systemPinger) Start() {
	p.setRunning(true)

	// 数据流因失败而停止时也要结束其它ping进程
	go func() {
		<-p.stopChan
		p.cancel()
	}()

	for _, target := range p.targets {
		p.wg.Add(1)
		go p.run(target)
	}
}

// run 运行ping进程并把输出转换为样本
func (p *systemPinger) run(target string) {
	defer p.wg.Done()

	name, args, header := pingCommand(runtime.GOOS, p.config.PingPath, target, p.config)
	cmd := exec.CommandContext(p.ctx, name, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		p.fail(fmt.Errorf("%s: %w", target, err))
		return
	}
	if err := cmd.Start(); err != nil {
		p.fail(fmt.Errorf("启动ping进程失败: %w", err))
		return
	}
	p.logger.Info("ping进程已启动", "target", target, "cmd", cmd.String())

	_, err = newLineReader(stdout, header).each(func(v core.Value) {
		p.sendSample(target, v)
	})
	if err != nil && cmd.Process != nil {
		_ = cmd.Process.Kill()
	}

	// 被Stop取消时进程退出属于正常结束
	waitErr := cmd.Wait()
	if p.ctx.Err() != nil {
		return
	}
	switch {
	case err != nil:
		p.fail(fmt.Errorf("%s: %w", target, err))
	case waitErr != nil:
		p.fail(fmt.Errorf("ping进程异常退出 (%s): %w", target, waitErr))
	default:
		p.fail(fmt.Errorf("ping进程已结束 (%s): %w", target, core.ErrStreamEnded))
	}
}

// Stop 结束所有ping进程
func (p *systemPinger) Stop() {
	p.cancel()
	p.basePinger.Stop()
}
