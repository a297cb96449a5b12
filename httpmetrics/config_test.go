package httpmetrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, MetricRequestDuration, cfg.RequestDurationName)
	assert.Equal(t, MetricRequestBodySize, cfg.RequestBodySizeName)
	assert.Equal(t, MetricResponseBodySize, cfg.ResponseBodySizeName)
	assert.Equal(t, MetricActiveRequests, cfg.ActiveRequestsName)
	assert.Equal(t, UnmatchedPolicyMask, cfg.UnmatchedRoutePolicy)
	assert.Equal(t, DefaultUnmatchedRouteLabel, cfg.UnmatchedRouteLabel)
	assert.NoError(t, cfg.withDefaults().validate())
}

func TestConfigWithDefaults(t *testing.T) {
	t.Run("空白名称回退到默认值", func(t *testing.T) {
		cfg := (&Config{RequestDurationName: "  "}).withDefaults()
		assert.Equal(t, MetricRequestDuration, cfg.RequestDurationName)
	})

	t.Run("显式名称保持不变", func(t *testing.T) {
		cfg := (&Config{RequestDurationName: "my_duration"}).withDefaults()
		assert.Equal(t, "my_duration", cfg.RequestDurationName)
	})

	t.Run("名称前后空白被裁剪", func(t *testing.T) {
		cfg := (&Config{RequestDurationName: " my_duration ", Namespace: " shop "}).withDefaults()
		assert.Equal(t, "my_duration", cfg.RequestDurationName)
		assert.Equal(t, "shop", cfg.Namespace)
	})

	t.Run("空桶回退到默认桶", func(t *testing.T) {
		cfg := (&Config{}).withDefaults()
		assert.Equal(t, defaultDurationBuckets, cfg.DurationBuckets)
		assert.Equal(t, defaultSizeBuckets, cfg.SizeBuckets)
	})

	t.Run("原配置不被修改", func(t *testing.T) {
		cfg := &Config{}
		_ = cfg.withDefaults()
		assert.Empty(t, cfg.RequestDurationName)
		assert.Nil(t, cfg.DurationBuckets)
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "默认配置合法",
			mutate:  func(c *Config) {},
			wantErr: nil,
		},
		{
			name:    "数字开头的指标名",
			mutate:  func(c *Config) { c.ActiveRequestsName = "1st_metric" },
			wantErr: ErrInvalidMetricName,
		},
		{
			name:    "含空格的指标名",
			mutate:  func(c *Config) { c.RequestBodySizeName = "body size" },
			wantErr: ErrInvalidMetricName,
		},
		{
			name: "两个直方图共用名称",
			mutate: func(c *Config) {
				c.RequestBodySizeName = "http_body_size"
				c.ResponseBodySizeName = "http_body_size"
			},
			wantErr: ErrDuplicateMetricName,
		},
		{
			name:    "未知策略",
			mutate:  func(c *Config) { c.UnmatchedRoutePolicy = "reject" },
			wantErr: ErrInvalidPolicy,
		},
		{
			name:    "大小桶非严格递增",
			mutate:  func(c *Config) { c.SizeBuckets = []float64{1024, 512} },
			wantErr: ErrInvalidBuckets,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.withDefaults().validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestConfigMetricName(t *testing.T) {
	t.Run("无命名空间", func(t *testing.T) {
		cfg := &Config{}
		assert.Equal(t, "http.server.request.duration", cfg.metricName("http.server.request.duration"))
	})

	t.Run("有命名空间", func(t *testing.T) {
		cfg := &Config{Namespace: "blog"}
		assert.Equal(t, "blog_http.server.request.duration", cfg.metricName("http.server.request.duration"))
	})
}

func TestCompileExcludes(t *testing.T) {
	t.Run("空列表返回空", func(t *testing.T) {
		res, err := compileExcludes(nil)
		require.NoError(t, err)
		assert.Nil(t, res)
	})

	t.Run("合法正则全部编译", func(t *testing.T) {
		res, err := compileExcludes([]string{"^/internal/", "/healthz$"})
		require.NoError(t, err)
		require.Len(t, res, 2)
		assert.True(t, res[0].MatchString("/internal/debug"))
		assert.False(t, res[0].MatchString("/public"))
	})

	t.Run("非法正则返回错误", func(t *testing.T) {
		_, err := compileExcludes([]string{"["})
		assert.Error(t, err)
	})
}
