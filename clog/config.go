package clog

import (
	"fmt"
	"strings"
)

// TimeFormat 日志时间戳的输出格式
const TimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Config 日志配置结构，定义日志的基本行为
//
// 支持的配置项：
//
//	Level: 日志级别 (debug|info|warn|error|fatal)
//	Format: 输出格式 (json|console)
//	Output: 输出目标 (stdout|stderr|文件路径)
//	AddSource: 是否附带调用位置信息
//
// 示例：
//
//	config := &clog.Config{
//	    Level:     "info",
//	    Format:    "json",
//	    Output:    "stdout",
//	    AddSource: true,
//	}
type Config struct {
	Level     string `mapstructure:"level" json:"level"`   // debug|info|warn|error|fatal
	Format    string `mapstructure:"format" json:"format"` // json|console
	Output    string `mapstructure:"output" json:"output"` // stdout|stderr|<file path>
	AddSource bool   `mapstructure:"add_source" json:"add_source"`
}

// DefaultConfig 返回面向开发环境的默认配置：info 级别、console 格式、stdout 输出
func DefaultConfig() *Config {
	return &Config{
		Level:  "info",
		Format: "console",
		Output: "stdout",
	}
}

// validate 验证配置并为空值填充默认值（内部使用）
func (c *Config) validate() error {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "console"
	}
	if c.Output == "" {
		c.Output = "stdout"
	}

	if _, err := ParseLevel(c.Level); err != nil {
		return err
	}
	format := strings.ToLower(c.Format)
	if format != "json" && format != "console" {
		return fmt.Errorf("invalid format: %s, must be json or console", c.Format)
	}
	// Output 可以是 stdout、stderr 或文件路径，不做严格校验
	return nil
}
