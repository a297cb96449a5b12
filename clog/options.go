package clog

import "io"

// Option 函数式选项，用于配置 Logger 实例
type Option func(*options)

// options 内部选项结构
type options struct {
	namespaceParts []string
	writer         io.Writer // 覆盖 Config.Output，主要用于测试
}

// WithNamespace 设置日志命名空间，支持多级命名空间
//
// 命名空间以 "." 连接，作为日志中的 namespace 字段：
//
//	// namespace="webmetrics.gin"
//	clog.New(cfg, clog.WithNamespace("webmetrics", "gin"))
func WithNamespace(parts ...string) Option {
	return func(o *options) {
		o.namespaceParts = append(o.namespaceParts, parts...)
	}
}

// WithWriter 将日志输出重定向到指定 writer，优先级高于 Config.Output
//
// 测试中常配合 bytes.Buffer 使用：
//
//	var buf bytes.Buffer
//	logger, _ := clog.New(&clog.Config{Format: "json"}, clog.WithWriter(&buf))
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		o.writer = w
	}
}

// applyOptions 应用所有选项并返回配置（内部使用）
func applyOptions(opts ...Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
