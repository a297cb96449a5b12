// Package config 为 webmetrics 服务提供统一的配置加载能力。
// 支持多源配置加载、热更新和配置验证，基于 Viper 实现。
//
// 特性：
//   - 多源配置加载：YAML/JSON 文件、环境变量、.env 文件
//   - 配置优先级：环境变量 > .env > 环境特定配置 > 基础配置
//   - 热更新支持：监听配置文件变化，通过 channel 通知应用
//
// 基本使用：
//
//	loader := config.MustLoad(context.Background(),
//	    config.WithConfigName("config"),
//	    config.WithConfigPaths("./config"),
//	    config.WithEnvPrefix("WEBMETRICS"),
//	)
//
//	var cfg httpmetrics.Config
//	if err := loader.UnmarshalKey("http_metrics", &cfg); err != nil {
//	    panic(err)
//	}
package config

import (
	"context"
	"time"
)

// Loader 定义配置加载器的核心行为
type Loader interface {
	// Load 加载配置并初始化内部状态
	Load(ctx context.Context) error

	// Get 获取原始配置值
	Get(key string) any

	// Unmarshal 将整个配置反序列化到结构体
	Unmarshal(v any) error

	// UnmarshalKey 将指定 Key 的配置反序列化到结构体
	UnmarshalKey(key string, v any) error

	// Watch 监听配置变化，通过 context 取消监听
	Watch(ctx context.Context, key string) (<-chan Event, error)

	// Validate 验证当前配置的有效性
	Validate() error
}

// Event 配置变更事件
type Event struct {
	Key       string // 配置 key
	Value     any    // 新值
	OldValue  any    // 旧值
	Source    string // "file" | "env"
	Timestamp time.Time
}

// New 创建配置加载器，不触发加载
func New(opts ...Option) (Loader, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return newLoader(o), nil
}

// MustLoad 创建加载器并立即加载，失败时 panic
// 适合在 main 函数的初始化阶段使用
func MustLoad(ctx context.Context, opts ...Option) Loader {
	l, err := New(opts...)
	if err != nil {
		panic(err)
	}
	if err := l.Load(ctx); err != nil {
		panic(err)
	}
	return l
}
