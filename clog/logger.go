// Package clog 提供基于 slog 的结构化日志组件，供 webmetrics 各组件使用。
//
// 特性：
//   - 抽象接口，不向调用方暴露底层实现（slog）
//   - 支持层级命名空间，便于区分组件来源
//   - 零外部依赖（仅依赖 Go 标准库）
//   - 函数式选项模式的构造方式
//
// 基本使用：
//
//	logger, _ := clog.New(&clog.Config{
//	    Level:  "info",
//	    Format: "console",
//	    Output: "stdout",
//	})
//	logger.Info("server started", clog.String("addr", ":8080"))
//
// 组件内部通常通过选项注入：
//
//	sm, _ := httpmetrics.New(meter, cfg, httpmetrics.WithLogger(logger))
package clog

import "context"

// Logger 日志接口，提供结构化日志记录功能
//
// 支持五个日志级别：Debug、Info、Warn、Error、Fatal，
// 每个级别都有带 Context 和不带 Context 的版本。
//
// 基本使用：
//
//	logger.Info("request finished", clog.String("route", "/orders/:id"))
//
// 创建子 Logger：
//
//	child := logger.With(clog.String("component", "emitter"))
//	scoped := logger.WithNamespace("httpmetrics")
type Logger interface {
	// 基础日志级别方法
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	// 带 Context 的日志级别方法，Context 会透传给底层 Handler
	DebugContext(ctx context.Context, msg string, fields ...Field)
	InfoContext(ctx context.Context, msg string, fields ...Field)
	WarnContext(ctx context.Context, msg string, fields ...Field)
	ErrorContext(ctx context.Context, msg string, fields ...Field)
	FatalContext(ctx context.Context, msg string, fields ...Field)

	// With 创建一个带有预设字段的子 Logger，预设字段出现在后续所有日志中
	With(fields ...Field) Logger

	// WithNamespace 创建一个扩展命名空间的子 Logger
	//
	// 命名空间以 "." 连接并作为日志中的 namespace 字段输出：
	//
	//	base := logger.WithNamespace("metrics")
	//	child := base.WithNamespace("gin")
	//	// 最终命名空间为 "metrics.gin"
	WithNamespace(parts ...string) Logger

	// SetLevel 在运行时调整日志级别
	SetLevel(level Level) error

	// Flush 将缓冲中的日志同步到输出目标
	Flush()
}
