package clog

import "fmt"

// New 创建一个新的 Logger 实例
//
// config - 日志配置，为 nil 时使用默认配置
// opts   - 函数式选项，用于命名空间、输出重定向等
func New(config *Config, opts ...Option) (Logger, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	options := applyOptions(opts...)

	return newLogger(config, options)
}
