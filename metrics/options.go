package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ceyewan/webmetrics/clog"
)

// Option 配置 Meter 实例的选项函数类型
type Option func(*options)

// options 内部选项结构，存储 Meter 的配置信息
type options struct {
	// logger 日志记录器，用于记录指标系统的内部事件
	// 未设置时使用 clog.Discard()
	logger clog.Logger

	// registry 自定义的 Prometheus Registry
	// 未设置时使用 prometheus.DefaultRegisterer
	registry *prometheus.Registry
}

// WithLogger 注入日志记录器
// 组件会自动为 logger 添加 "metrics" 命名空间
//
// 使用示例：
//
//	logger, _ := clog.New(&clog.Config{Level: "info"})
//	meter, err := metrics.New(cfg, metrics.WithLogger(logger))
func WithLogger(logger clog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger.WithNamespace("metrics")
		}
	}
}

// WithRegistry 注入自定义的 Prometheus Registry
//
// 默认情况下 exporter 注册到 prometheus.DefaultRegisterer。注入独立的
// Registry 可以隔离多个 Meter 实例，测试中配合 testutil 抓取也依赖它：
//
//	reg := prometheus.NewRegistry()
//	meter, err := metrics.New(cfg, metrics.WithRegistry(reg))
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) {
		if reg != nil {
			o.registry = reg
		}
	}
}
