package clog

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func newBufferLogger(t *testing.T, cfg *Config, opts ...Option) (Logger, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	opts = append(opts, WithWriter(&buf))
	logger, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return logger, &buf
}

func TestNewWithNilConfig(t *testing.T) {
	logger, err := New(nil, WithWriter(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("New(nil) error = %v", err)
	}
	if logger == nil {
		t.Fatal("New(nil) returned nil logger")
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	// 非法配置在构造期报错
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"invalid level", &Config{Level: "verbose"}},
		{"invalid format", &Config{Format: "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); err == nil {
				t.Fatalf("New(%+v) expected error, got nil", tt.cfg)
			}
		})
	}
}

func TestJSONOutputContainsFieldsAndNamespace(t *testing.T) {
	logger, buf := newBufferLogger(t,
		&Config{Level: "info", Format: "json"},
		WithNamespace("webmetrics", "test"),
	)

	logger.Info("request finished", String("route", "/orders/:id"), Int("status", 200))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v\noutput: %s", err, buf.String())
	}

	if entry["msg"] != "request finished" {
		t.Errorf("msg = %v, want %q", entry["msg"], "request finished")
	}
	if entry["route"] != "/orders/:id" {
		t.Errorf("route = %v, want %q", entry["route"], "/orders/:id")
	}
	if entry["level"] != "INFO" {
		t.Errorf("level = %v, want INFO", entry["level"])
	}
	if entry[NamespaceKey] != "webmetrics.test" {
		t.Errorf("namespace = %v, want %q", entry[NamespaceKey], "webmetrics.test")
	}
}

func TestLevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(t, &Config{Level: "warn", Format: "json"})

	logger.Debug("should be dropped")
	logger.Info("should be dropped too")
	logger.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be dropped") {
		t.Errorf("low-level logs leaked through: %s", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Errorf("warn log missing from output: %s", out)
	}
}

func TestSetLevelTakesEffect(t *testing.T) {
	logger, buf := newBufferLogger(t, &Config{Level: "error", Format: "json"})

	logger.Info("before")
	if err := logger.SetLevel(DebugLevel); err != nil {
		t.Fatalf("SetLevel() error = %v", err)
	}
	logger.Info("after")

	out := buf.String()
	if strings.Contains(out, "before") {
		t.Errorf("info log before SetLevel should be filtered: %s", out)
	}
	if !strings.Contains(out, "after") {
		t.Errorf("info log after SetLevel should appear: %s", out)
	}
}

func TestWithPresetsFields(t *testing.T) {
	logger, buf := newBufferLogger(t, &Config{Level: "info", Format: "json"})

	child := logger.With(String("component", "emitter"))
	child.Info("hello")

	if !strings.Contains(buf.String(), `"component":"emitter"`) {
		t.Errorf("preset field missing: %s", buf.String())
	}
}

func TestWithNamespaceAppends(t *testing.T) {
	logger, buf := newBufferLogger(t, &Config{Level: "info", Format: "json"})

	logger.WithNamespace("metrics").WithNamespace("gin").Info("hello")

	if !strings.Contains(buf.String(), `"namespace":"metrics.gin"`) {
		t.Errorf("namespace not joined as expected: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", DebugLevel, false},
		{"INFO", InfoLevel, false},
		{"Warn", WarnLevel, false},
		{"error", ErrorLevel, false},
		{"fatal", FatalLevel, false},
		{"trace", InfoLevel, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDiscardIsSilent(t *testing.T) {
	logger := Discard()

	// 所有方法调用都不应 panic
	logger.Debug("a")
	logger.Info("b", String("k", "v"))
	logger.Error("c")
	logger.With(String("k", "v")).Warn("d")
	logger.WithNamespace("x").Info("e")
	if err := logger.SetLevel(DebugLevel); err != nil {
		t.Errorf("Discard().SetLevel() error = %v", err)
	}
	logger.Flush()
}
