package clog

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"
)

// loggerImpl 是 Logger 接口的具体实现
type loggerImpl struct {
	handler        slog.Handler
	namespaceParts []string
	baseAttrs      []slog.Attr
}

// newLogger 创建 Logger 实例（内部使用）
func newLogger(config *Config, options *options) (Logger, error) {
	handler, err := newHandler(config, options)
	if err != nil {
		return nil, err
	}

	return &loggerImpl{
		handler:        handler,
		namespaceParts: options.namespaceParts,
	}, nil
}

func (l *loggerImpl) Debug(msg string, fields ...Field) {
	l.log(context.Background(), DebugLevel, msg, fields...)
}

func (l *loggerImpl) Info(msg string, fields ...Field) {
	l.log(context.Background(), InfoLevel, msg, fields...)
}

func (l *loggerImpl) Warn(msg string, fields ...Field) {
	l.log(context.Background(), WarnLevel, msg, fields...)
}

func (l *loggerImpl) Error(msg string, fields ...Field) {
	l.log(context.Background(), ErrorLevel, msg, fields...)
}

func (l *loggerImpl) Fatal(msg string, fields ...Field) {
	l.log(context.Background(), FatalLevel, msg, fields...)
}

func (l *loggerImpl) DebugContext(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, DebugLevel, msg, fields...)
}

func (l *loggerImpl) InfoContext(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, InfoLevel, msg, fields...)
}

func (l *loggerImpl) WarnContext(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, WarnLevel, msg, fields...)
}

func (l *loggerImpl) ErrorContext(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, ErrorLevel, msg, fields...)
}

func (l *loggerImpl) FatalContext(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, FatalLevel, msg, fields...)
}

func (l *loggerImpl) With(fields ...Field) Logger {
	attrs := make([]slog.Attr, 0, len(l.baseAttrs)+len(fields))
	attrs = append(attrs, l.baseAttrs...)
	attrs = append(attrs, fields...)

	return &loggerImpl{
		handler:        l.handler,
		namespaceParts: l.namespaceParts,
		baseAttrs:      attrs,
	}
}

func (l *loggerImpl) WithNamespace(parts ...string) Logger {
	ns := make([]string, 0, len(l.namespaceParts)+len(parts))
	ns = append(ns, l.namespaceParts...)
	ns = append(ns, parts...)

	return &loggerImpl{
		handler:        l.handler,
		namespaceParts: ns,
		baseAttrs:      l.baseAttrs,
	}
}

// log 组装属性并交给 handler 处理（内部使用）
func (l *loggerImpl) log(ctx context.Context, level Level, msg string, fields ...Field) {
	slogLvl := slogLevel(level.String())

	// 先做级别检查，避免为被过滤的日志组装属性
	if !l.handler.Enabled(ctx, slogLvl) {
		return
	}

	attrs := make([]slog.Attr, 0, len(l.baseAttrs)+len(fields)+1)
	attrs = append(attrs, l.baseAttrs...)
	attrs = append(attrs, fields...)
	if ns := strings.Join(l.namespaceParts, "."); ns != "" {
		attrs = append(attrs, slog.String(NamespaceKey, ns))
	}

	// 获取调用方 PC，保证 AddSource 输出正确的源码位置
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:]) // skip: runtime.Callers, log, Debug/Info/Error 等
	record := slog.NewRecord(time.Now(), slogLvl, msg, pcs[0])
	record.AddAttrs(attrs...)

	if err := l.handler.Handle(ctx, record); err != nil {
		return
	}

	if level == FatalLevel {
		l.Flush()
		os.Exit(1)
	}
}

// SetLevel 动态调整日志级别
func (l *loggerImpl) SetLevel(level Level) error {
	if h, ok := l.handler.(interface{ SetLevel(Level) error }); ok {
		return h.SetLevel(level)
	}
	return nil
}

// Flush 强制同步所有缓冲区的日志
func (l *loggerImpl) Flush() {
	if h, ok := l.handler.(interface{ Flush() }); ok {
		h.Flush()
	}
}

// NamespaceKey 是日志中命名空间的字段名
const NamespaceKey = "namespace"
