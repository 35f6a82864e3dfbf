package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// parseLevel 解析日志级别（debug, info, warn, error）
func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("无效的日志级别 %q: %w", s, err)
	}
	return level, nil
}

// newConsoleLogger 创建TUI启动前使用的终端日志，输出到终端时带颜色
func newConsoleLogger(f *os.File, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(f, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    !isatty.IsTerminal(f.Fd()),
	}))
}

// newFileLogger 创建写入日志文件的日志
// TUI运行期间占用终端，所有日志都写入文件
func newFileLogger(path string, level slog.Level) (*slog.Logger, io.Closer, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("无法打开日志文件: %w", err)
	}

	logger := slog.New(tint.NewHandler(file, &tint.Options{
		Level:      level,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		NoColor:    true,
	}))
	return logger, file, nil
}
