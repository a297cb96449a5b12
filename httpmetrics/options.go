package httpmetrics

import (
	"github.com/ceyewan/webmetrics/clog"
)

// Option 组件配置选项
type Option func(*options)

type options struct {
	logger clog.Logger
}

// WithLogger 注入日志器
// 上报失败等内部异常会通过该日志器记录，自动添加 httpmetrics 命名空间
// 不注入时内部异常静默丢弃
func WithLogger(logger clog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger.WithNamespace("httpmetrics")
		}
	}
}
