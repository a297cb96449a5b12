package config

import (
	"strings"

	"github.com/ceyewan/webmetrics/clog"
)

// Option 配置选项模式
type Option func(*options)

type options struct {
	name      string   // 配置文件名称（不含扩展名）
	paths     []string // 配置文件搜索路径
	fileType  string   // 配置文件类型 (yaml, json, etc.)
	envPrefix string   // 环境变量前缀
	logger    clog.Logger
}

func defaultOptions() *options {
	return &options{
		name:      "config",
		paths:     []string{".", "./config"},
		fileType:  "yaml",
		envPrefix: "WEBMETRICS",
		logger:    clog.Discard(),
	}
}

// WithConfigName 设置配置文件名称（不带扩展名）
func WithConfigName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithConfigPath 追加一个配置文件搜索路径
func WithConfigPath(path string) Option {
	return func(o *options) {
		o.paths = append(o.paths, path)
	}
}

// WithConfigPaths 设置配置文件搜索路径（覆盖默认值）
func WithConfigPaths(paths ...string) Option {
	return func(o *options) {
		o.paths = paths
	}
}

// WithConfigType 设置配置文件类型 (yaml, json, etc.)
func WithConfigType(typ string) Option {
	return func(o *options) {
		if typ != "" {
			o.fileType = typ
		}
	}
}

// WithEnvPrefix 设置环境变量前缀
// 带前缀的环境变量覆盖文件配置，点号映射为下划线：
// WEBMETRICS_HTTP_METRICS_NAMESPACE 覆盖 http_metrics.namespace
func WithEnvPrefix(prefix string) Option {
	return func(o *options) {
		if prefix != "" {
			o.envPrefix = strings.ToUpper(prefix)
		}
	}
}

// WithLogger 注入日志器，自动添加 config 命名空间
func WithLogger(logger clog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger.WithNamespace("config")
		}
	}
}
