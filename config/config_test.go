package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// TestLoaderLoad 测试配置加载的完整流程：基础文件、环境文件、环境变量
func TestLoaderLoad(t *testing.T) {
	tmpDir := t.TempDir()

	writeFile(t, filepath.Join(tmpDir, "config.yaml"), `
service:
  name: "blog-api"
  version: "1.0.0"
http_metrics:
  namespace: "blog"
  unmatched_route_policy: "mask"
  exclude_paths:
    - /healthz
clog:
  level: "info"
  format: "json"
`)

	writeFile(t, filepath.Join(tmpDir, "config.dev.yaml"), `
clog:
  level: "debug"
`)

	t.Setenv("WEBMETRICS_ENV", "dev")
	t.Setenv("WEBMETRICS_SERVICE_NAME", "env-api")

	ctx := context.Background()
	loader, err := New(
		WithConfigName("config"),
		WithConfigPaths(tmpDir),
		WithEnvPrefix("WEBMETRICS"),
	)
	if err != nil {
		t.Fatalf("Failed to create loader: %v", err)
	}
	if err := loader.Load(ctx); err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// 环境变量优先级最高
	if got := loader.Get("service.name"); got != "env-api" {
		t.Errorf("service.name = %v, want env-api", got)
	}

	// 环境特定配置覆盖基础配置
	if got := loader.Get("clog.level"); got != "debug" {
		t.Errorf("clog.level = %v, want debug", got)
	}

	// 基础配置中未覆盖的值保持不变
	if got := loader.Get("clog.format"); got != "json" {
		t.Errorf("clog.format = %v, want json", got)
	}
}

// TestLoaderUnmarshalKey 测试配置段反序列化
func TestLoaderUnmarshalKey(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "config.yaml"), `
http_metrics:
  namespace: "shop"
  request_duration_name: "api_latency"
  unmatched_route_policy: "passthrough"
  duration_buckets: [0.1, 1, 10]
  exclude_status: [404]
`)

	loader, err := New(WithConfigPaths(tmpDir))
	if err != nil {
		t.Fatalf("Failed to create loader: %v", err)
	}
	if err := loader.Load(context.Background()); err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	var section struct {
		Namespace            string    `mapstructure:"namespace"`
		RequestDurationName  string    `mapstructure:"request_duration_name"`
		UnmatchedRoutePolicy string    `mapstructure:"unmatched_route_policy"`
		DurationBuckets      []float64 `mapstructure:"duration_buckets"`
		ExcludeStatus        []int     `mapstructure:"exclude_status"`
	}
	if err := loader.UnmarshalKey("http_metrics", &section); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	if section.Namespace != "shop" {
		t.Errorf("Namespace = %q, want shop", section.Namespace)
	}
	if section.RequestDurationName != "api_latency" {
		t.Errorf("RequestDurationName = %q, want api_latency", section.RequestDurationName)
	}
	if section.UnmatchedRoutePolicy != "passthrough" {
		t.Errorf("UnmatchedRoutePolicy = %q, want passthrough", section.UnmatchedRoutePolicy)
	}
	if len(section.DurationBuckets) != 3 || section.DurationBuckets[0] != 0.1 {
		t.Errorf("DurationBuckets = %v, want [0.1 1 10]", section.DurationBuckets)
	}
	if len(section.ExcludeStatus) != 1 || section.ExcludeStatus[0] != 404 {
		t.Errorf("ExcludeStatus = %v, want [404]", section.ExcludeStatus)
	}
}

// TestLoaderDotEnv 测试 .env 文件加载
func TestLoaderDotEnv(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "config.yaml"), `
service:
  name: "file-api"
`)
	writeFile(t, filepath.Join(tmpDir, ".env"), "WEBMETRICS_SERVICE_NAME=dotenv-api\n")

	// godotenv 设置的进程级环境变量需要清理
	defer os.Unsetenv("WEBMETRICS_SERVICE_NAME")

	loader, err := New(WithConfigPaths(tmpDir))
	if err != nil {
		t.Fatalf("Failed to create loader: %v", err)
	}
	if err := loader.Load(context.Background()); err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if got := loader.Get("service.name"); got != "dotenv-api" {
		t.Errorf("service.name = %v, want dotenv-api", got)
	}
}

// TestLoaderEmptyConfig 测试空配置返回错误
func TestLoaderEmptyConfig(t *testing.T) {
	loader, err := New(WithConfigPaths(t.TempDir()))
	if err != nil {
		t.Fatalf("Failed to create loader: %v", err)
	}

	err = loader.Load(context.Background())
	if err == nil {
		t.Fatal("Load() = nil, want error for empty config")
	}
}

// TestLoaderWatch 测试监听通道在取消后关闭
func TestLoaderWatch(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "config.yaml"), `
service:
  name: "watch-api"
`)

	loader, err := New(WithConfigPaths(tmpDir))
	if err != nil {
		t.Fatalf("Failed to create loader: %v", err)
	}
	if err := loader.Load(context.Background()); err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := loader.Watch(ctx, "service.name")
	if err != nil {
		t.Fatalf("Failed to watch: %v", err)
	}

	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected closed channel after cancel, got event")
		}
	case <-time.After(2 * time.Second):
		t.Error("watch channel not closed after cancel")
	}
}

// TestMustLoad 测试 MustLoad 的 panic 行为
func TestMustLoad(t *testing.T) {
	t.Run("配置存在时正常返回", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeFile(t, filepath.Join(tmpDir, "config.yaml"), "service:\n  name: ok\n")

		loader := MustLoad(context.Background(), WithConfigPaths(tmpDir))
		if loader.Get("service.name") != "ok" {
			t.Error("MustLoad did not load configuration")
		}
	})

	t.Run("配置缺失时 panic", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("MustLoad should panic on empty config")
			}
		}()
		MustLoad(context.Background(), WithConfigPaths(t.TempDir()))
	})
}
