package config

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ceyewan/webmetrics/clog"
	"github.com/ceyewan/webmetrics/xerrors"
)

// loader 实现 Loader 接口
type loader struct {
	v      *viper.Viper
	opts   *options
	logger clog.Logger

	mu        sync.RWMutex
	watches   map[string][]chan Event
	oldValues map[string]any
}

func newLoader(opts *options) *loader {
	return &loader{
		v:         viper.New(),
		opts:      opts,
		logger:    opts.logger,
		watches:   make(map[string][]chan Event),
		oldValues: make(map[string]any),
	}
}

// Load 初始化并从所有来源加载配置
// 加载顺序决定优先级：环境变量 > .env > 环境特定配置 > 基础配置
func (l *loader) Load(ctx context.Context) error {
	l.v.SetConfigName(l.opts.name)
	l.v.SetConfigType(l.opts.fileType)
	for _, path := range l.opts.paths {
		l.v.AddConfigPath(path)
	}

	// 环境变量最先生效，保证能覆盖所有文件来源
	l.v.SetEnvPrefix(l.opts.envPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	if err := l.loadDotEnv(); err != nil {
		l.logger.Warn("load .env file failed", clog.Error(err))
	}

	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return xerrors.Wrapf(err, "read config file %s", l.opts.name)
		}
		l.logger.Warn("no configuration file found", clog.String("name", l.opts.name))
	}

	if err := l.loadEnvironmentConfig(); err != nil {
		return err
	}

	if err := l.Validate(); err != nil {
		return err
	}

	l.captureCurrentValues()

	l.v.OnConfigChange(func(e fsnotify.Event) {
		if err := l.loadEnvironmentConfig(); err != nil {
			l.logger.Error("reload environment config failed", clog.Error(err))
		}
		if err := l.loadDotEnv(); err != nil {
			l.logger.Warn("reload .env file failed", clog.Error(err))
		}
		l.notifyWatches()
	})
	l.v.WatchConfig()

	return nil
}

// loadDotEnv 尝试从搜索路径加载 .env 文件
// 所有候选位置都不存在时不算错误
func (l *loader) loadDotEnv() error {
	loaded := false
	var lastErr error

	if err := godotenv.Load(); err == nil {
		loaded = true
	} else if !os.IsNotExist(err) {
		lastErr = err
	}

	for _, path := range l.opts.paths {
		envPath := filepath.Join(path, ".env")
		if err := godotenv.Load(envPath); err == nil {
			loaded = true
		} else if !os.IsNotExist(err) {
			lastErr = err
		}
	}

	if !loaded && lastErr != nil {
		return lastErr
	}
	return nil
}

// loadEnvironmentConfig 按 {PREFIX}_ENV 合并环境特定配置文件
// 如 WEBMETRICS_ENV=prod 时额外合并 config.prod.yaml
func (l *loader) loadEnvironmentConfig() error {
	env := os.Getenv(l.opts.envPrefix + "_ENV")
	if env == "" {
		return nil
	}

	envConfigName := l.opts.name + "." + env
	l.v.SetConfigName(envConfigName)
	defer l.v.SetConfigName(l.opts.name)

	if err := l.v.MergeInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return xerrors.Wrapf(err, "merge environment config %s", envConfigName)
		}
		l.logger.Debug("no environment configuration file", clog.String("env", env))
		return nil
	}

	l.logger.Info("environment configuration merged", clog.String("env", env))
	return nil
}

// captureCurrentValues 保存当前配置值，作为变更检测的基线
func (l *loader) captureCurrentValues() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key := range l.watches {
		l.oldValues[key] = l.v.Get(key)
	}
}

// Get 根据 key 获取配置值
func (l *loader) Get(key string) any {
	return l.v.Get(key)
}

// Unmarshal 将整个配置反序列化到结构体
func (l *loader) Unmarshal(v any) error {
	return l.v.Unmarshal(v)
}

// UnmarshalKey 将特定配置 key 反序列化到结构体
func (l *loader) UnmarshalKey(key string, v any) error {
	return l.v.UnmarshalKey(key, v)
}

// Watch 订阅特定配置 key 的变更
func (l *loader) Watch(ctx context.Context, key string) (<-chan Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch := make(chan Event, 10)
	l.watches[key] = append(l.watches[key], ch)
	l.oldValues[key] = l.v.Get(key)

	go func() {
		<-ctx.Done()
		l.removeWatch(key, ch)
	}()

	return ch, nil
}

// removeWatch 注销监听通道并关闭
func (l *loader) removeWatch(key string, ch chan Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	chans, ok := l.watches[key]
	if !ok {
		return
	}
	for i, c := range chans {
		if c == ch {
			l.watches[key] = append(chans[:i], chans[i+1:]...)
			close(ch)
			break
		}
	}
	if len(l.watches[key]) == 0 {
		delete(l.watches, key)
		delete(l.oldValues, key)
	}
}

// Validate 验证配置
func (l *loader) Validate() error {
	if len(l.v.AllSettings()) == 0 {
		return ErrEmptyConfig
	}
	return nil
}

// notifyWatches 比较基线并向监听者推送变更事件
func (l *loader) notifyWatches() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, channels := range l.watches {
		newValue := l.v.Get(key)
		oldValue := l.oldValues[key]
		if reflect.DeepEqual(oldValue, newValue) {
			continue
		}

		event := Event{
			Key:       key,
			Value:     newValue,
			OldValue:  oldValue,
			Source:    "file",
			Timestamp: time.Now(),
		}
		l.oldValues[key] = newValue

		for _, ch := range channels {
			select {
			case ch <- event:
			default:
				l.logger.Warn("watch channel is full, event dropped", clog.String("key", key))
			}
		}
	}
}
