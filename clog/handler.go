package clog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// clogHandler 封装 slog.Handler，提供动态级别和 Flush 能力。
type clogHandler struct {
	slog.Handler
	levelVar *slog.LevelVar
	out      io.Writer
}

// newHandler 创建并返回一个适配 clog 配置的 slog.Handler（内部使用）。
//
// 构造顺序：writer -> handler options -> base handler -> wrapper。
func newHandler(config *Config, options *options) (slog.Handler, error) {
	w, err := resolveWriter(config, options)
	if err != nil {
		return nil, err
	}

	levelVar := new(slog.LevelVar)
	levelVar.Set(slogLevel(config.Level))

	opts := &slog.HandlerOptions{
		AddSource:   config.AddSource,
		Level:       levelVar,
		ReplaceAttr: replaceAttr,
	}

	var handler slog.Handler
	if strings.ToLower(config.Format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return &clogHandler{Handler: handler, levelVar: levelVar, out: w}, nil
}

// resolveWriter 根据配置与选项确定输出 writer。
func resolveWriter(config *Config, options *options) (io.Writer, error) {
	if options.writer != nil {
		return options.writer, nil
	}
	switch strings.ToLower(config.Output) {
	case "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		f, err := os.OpenFile(config.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
}

// slogLevel 将配置的级别字符串映射为 slog.Level。
func slogLevel(level string) slog.Level {
	l, err := ParseLevel(level)
	if err != nil {
		return slog.LevelInfo
	}
	switch l {
	case DebugLevel:
		return slog.LevelDebug
	case InfoLevel:
		return slog.LevelInfo
	case WarnLevel:
		return slog.LevelWarn
	case ErrorLevel:
		return slog.LevelError
	case FatalLevel:
		return slog.LevelError + 4
	default:
		return slog.LevelInfo
	}
}

// replaceAttr 统一处理 Level/Time/Source 字段的展示。
func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.LevelKey:
		level, ok := a.Value.Any().(slog.Level)
		if !ok {
			return a
		}
		var levelStr string
		switch {
		case level <= slog.LevelDebug:
			levelStr = "DEBUG"
		case level <= slog.LevelInfo:
			levelStr = "INFO"
		case level <= slog.LevelWarn:
			levelStr = "WARN"
		case level <= slog.LevelError:
			levelStr = "ERROR"
		default:
			levelStr = "FATAL"
		}
		a.Value = slog.StringValue(levelStr)
	case slog.TimeKey:
		if a.Value.Kind() == slog.KindTime {
			a.Value = slog.StringValue(a.Value.Time().Format(TimeFormat))
		}
	case slog.SourceKey:
		if source, ok := a.Value.Any().(*slog.Source); ok {
			fileName := source.File
			if idx := strings.LastIndexByte(fileName, '/'); idx != -1 {
				fileName = fileName[idx+1:]
			}
			return slog.String("caller", fmt.Sprintf("%s:%d", fileName, source.Line))
		}
	}
	return a
}

// SetLevel 动态调整日志级别。
func (h *clogHandler) SetLevel(level Level) error {
	switch level {
	case DebugLevel:
		h.levelVar.Set(slog.LevelDebug)
	case InfoLevel:
		h.levelVar.Set(slog.LevelInfo)
	case WarnLevel:
		h.levelVar.Set(slog.LevelWarn)
	case ErrorLevel:
		h.levelVar.Set(slog.LevelError)
	case FatalLevel:
		h.levelVar.Set(slog.LevelError + 4)
	default:
		return fmt.Errorf("unknown log level: %d", int(level))
	}
	return nil
}

// Flush 将底层文件输出同步到磁盘。
func (h *clogHandler) Flush() {
	if f, ok := h.out.(*os.File); ok {
		_ = f.Sync()
	}
}
