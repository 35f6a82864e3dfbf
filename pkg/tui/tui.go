// Package tui 提供基于tview的实时延迟图表界面
// 支持多目标监控、多子图布局和部分重绘
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/Kevin-Rudy/pingplot/pkg/core"
	"github.com/Kevin-Rudy/pingplot/pkg/pinger"
	"github.com/Kevin-Rudy/pingplot/pkg/plot"
)

// TUI 主界面结构
type TUI struct {
	app     *tview.Application
	root    *tview.Flex
	status  *tview.TextView
	gridBox *tview.Checkbox
	markBtn *tview.Button
	panels  *tview.Grid
	table   *tview.Table

	canvas *chartCanvas
	graph  *plot.Graph

	dataSource core.DataSource
	tuiConfig  *Config
	logger     *slog.Logger
	window     float64 // x轴显示的时间窗口（秒）

	// 以下状态只在tview事件goroutine中访问
	targets     []string
	series      map[string]*targetSeries
	limits      map[int]plot.Limits // 每个子图最近一次有效的坐标范围
	zoom        float64
	formatter   int
	selectedRow int
	nav         navigationThrottle

	// dispatch 替换向事件goroutine投递更新的方式，测试时同步执行
	dispatch func(f func())

	// 控制
	stopOnce sync.Once
	stopChan chan struct{}
	doneChan chan struct{}

	errMu sync.Mutex
	err   error
}

// NewTUI 创建新的TUI实例
func NewTUI(dataSource core.DataSource, targets []string, tuiConfig *Config, pingerConfig *pinger.Config) (*TUI, error) {
	if err := tuiConfig.Validate(); err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, errors.New("必须指定至少一个目标")
	}

	t := &TUI{
		app:         tview.NewApplication(),
		dataSource:  dataSource,
		tuiConfig:   tuiConfig,
		logger:      tuiConfig.logger().With("component", "tui"),
		window:      float64(tuiConfig.HistorySize) * pingerConfig.Interval.Seconds(),
		targets:     targets,
		series:      make(map[string]*targetSeries, len(targets)),
		limits:      make(map[int]plot.Limits),
		zoom:        tuiConfig.ZoomPct,
		formatter:   formatterIndex(tuiConfig.Formatter),
		selectedRow: -1, // 默认全选状态
		stopChan:    make(chan struct{}),
		doneChan:    make(chan struct{}),
	}

	for i, target := range targets {
		t.series[target] = newTargetSeries(target, targetColor(i), tuiConfig)
	}

	if err := t.setupUI(); err != nil {
		return nil, err
	}
	t.setupKeyBindings()

	return t, nil
}

// NewTUIForTest 创建绘制到给定屏幕（通常是tcell.SimulationScreen）的TUI实例
func NewTUIForTest(dataSource core.DataSource, targets []string, tuiConfig *Config, pingerConfig *pinger.Config, screen tcell.Screen) (*TUI, error) {
	t, err := NewTUI(dataSource, targets, tuiConfig, pingerConfig)
	if err != nil {
		return nil, err
	}
	t.app.SetScreen(screen)
	return t, nil
}

// Run 启动TUI界面，ctx取消时退出
// 数据流的致命错误会作为返回值
func (t *TUI) Run(ctx context.Context) error {
	// 启动数据源
	t.dataSource.Start()

	// 启动数据处理goroutine
	go t.processData()

	go func() {
		select {
		case <-ctx.Done():
			t.Stop()
		case <-t.stopChan:
		}
	}()

	// 运行应用
	err := t.app.Run()

	// 确保清理工作完成
	t.Stop()
	<-t.doneChan

	if err != nil {
		return err
	}
	return t.Err()
}

// Stop 停止TUI界面，可以重复调用
func (t *TUI) Stop() {
	t.stopOnce.Do(func() {
		// 先发送停止信号，让processData退出
		close(t.stopChan)

		// 停止数据源
		t.dataSource.Stop()

		// 停止应用
		t.app.Stop()
	})
}

// Err 返回导致界面退出的数据流错误
func (t *TUI) Err() error {
	t.errMu.Lock()
	defer t.errMu.Unlock()
	return t.err
}

// Graph 返回图表布局管理器，只能在事件goroutine中使用
func (t *TUI) Graph() *plot.Graph {
	return t.graph
}

// processData 接收样本并把界面更新投递到事件goroutine
func (t *TUI) processData() {
	defer close(t.doneChan)

	dataChan := t.dataSource.DataStream()
	uiTicker := time.NewTicker(t.tuiConfig.RefreshInterval)
	defer uiTicker.Stop()

	received := 0
	for {
		select {
		case sample, ok := <-dataChan:
			if !ok {
				t.handleStreamClosed(received)
				return
			}
			received++
			if obs := t.tuiConfig.SampleObserver; obs != nil {
				obs(sample)
			}
			t.queueUpdate(func() {
				t.ingest(sample)
			}, false)

		case <-uiTicker.C:
			t.queueUpdate(t.redrawAll, true)

		case <-t.stopChan:
			return
		}
	}
}

// queueUpdate 把f投递到事件goroutine执行，draw为true时执行后重绘
// 界面已经停止时放弃投递，避免阻塞监控goroutine
func (t *TUI) queueUpdate(f func(), draw bool) {
	post := t.dispatch
	if post == nil {
		post = func(f func()) {
			if draw {
				t.app.QueueUpdateDraw(f)
			} else {
				t.app.QueueUpdate(f)
			}
		}
	}

	// 停止后事件循环不再消费队列，投递goroutine会阻塞到进程退出。
	// 调用方在stopChan关闭后立即返回并结束循环，所以每个监控goroutine最多遗留一个
	queued := make(chan struct{})
	go func() {
		defer close(queued)
		post(f)
	}()

	select {
	case <-queued:
	case <-t.stopChan:
	}
}

// handleStreamClosed 处理数据通道关闭
// 除了主动停止之外，数据流关闭都是致命的：
// 数据源报告的错误优先，其次是没有任何样本，否则为数据流耗尽
func (t *TUI) handleStreamClosed(received int) {
	select {
	case <-t.stopChan:
		// 主动停止
		return
	default:
	}

	err := t.dataSource.Err()
	switch {
	case err != nil:
	case received == 0:
		err = core.ErrNoSamples
	default:
		err = core.ErrStreamEnded
	}

	t.errMu.Lock()
	t.err = fmt.Errorf("数据流中断: %w", err)
	t.errMu.Unlock()

	t.logger.Error("数据流中断", "error", err, "samples", received)
	t.Stop()
}
