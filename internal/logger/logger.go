// 包 logger：统一初始化与获取日志器，避免各模块重复配置；通过环境变量控制日志级别与输出格式
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// 默认日志器：进程级复用，避免多处初始化导致输出不一致
var defaultLogger *slog.Logger

// parseLevel：解析环境变量中的级别文本，未识别时回退 Info
func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Setup：初始化默认日志器
// 背景：集中化日志配置，便于按环境统一调整级别与格式
// 约束：输出目标固定为标准错误；LOG_FORMAT=json 时输出 JSON，否则文本
func Setup() *slog.Logger {
	lvl := parseLevel(os.Getenv("LOG_LEVEL"))
	var h slog.Handler
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		h = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	} else {
		h = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	}
	defaultLogger = slog.New(h)
	return defaultLogger
}

// L：获取默认日志器；未初始化则就地初始化
func L() *slog.Logger {
	if defaultLogger == nil {
		return Setup()
	}
	return defaultLogger
}
