package httpmetrics

import (
	"regexp"
	"strings"

	"github.com/ceyewan/webmetrics/metrics"
	"github.com/ceyewan/webmetrics/xerrors"
)

// 默认指标名称，遵循 OpenTelemetry HTTP 语义约定
const (
	// MetricRequestDuration 请求耗时直方图的默认名称
	MetricRequestDuration = "http.server.request.duration"

	// MetricRequestBodySize 请求体大小直方图的默认名称
	MetricRequestBodySize = "http.server.request.body.size"

	// MetricResponseBodySize 响应体大小直方图的默认名称
	MetricResponseBodySize = "http.server.response.body.size"

	// MetricActiveRequests 在途请求数仪表盘的默认名称
	MetricActiveRequests = "http.server.active_requests"
)

// 未匹配路由策略的合法取值
const (
	// UnmatchedPolicyMask 未匹配请求的路由标签收敛为统一占位值
	UnmatchedPolicyMask = "mask"

	// UnmatchedPolicyPassthrough 未匹配请求的路由标签使用原始路径
	// 注意：原始路径可能携带 ID 等高基数内容，谨慎在公网服务上使用
	UnmatchedPolicyPassthrough = "passthrough"
)

// DefaultUnmatchedRouteLabel mask 策略下路由标签的默认占位值
const DefaultUnmatchedRouteLabel = "UNKNOWN"

var (
	// defaultDurationBuckets 请求耗时的默认桶边界（秒）
	defaultDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

	// defaultSizeBuckets 请求体/响应体大小的默认桶边界（字节）
	defaultSizeBuckets = []float64{256, 1024, 4096, 16384, 65536, 262144, 1048576, 4194304}
)

// metricNamePattern OpenTelemetry 仪器命名规则：字母开头，
// 后续允许字母、数字、下划线、点、连字符和斜杠，总长不超过 255
var metricNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_./\-]{0,254}$`)

// Config HTTP 服务端指标中间件的配置结构体
// 所有字段都有合理的默认值，零值配置即可工作
//
// 这个结构体支持 mapstructure 标签，可以从配置文件中加载：
//
//	cfg := httpmetrics.DefaultConfig()
//	viper.UnmarshalKey("http_metrics", cfg)
//
// 典型配置示例（YAML）：
//
//	http_metrics:
//	  namespace: "api"
//	  unmatched_route_policy: "mask"
//	  exclude_paths:
//	    - /healthz
//	  exclude_path_regex:
//	    - ^/internal/
type Config struct {
	// Namespace 指标名称的统一前缀
	// 非空时，所有指标名都会变为 "<namespace>_<name>" 的形式
	// 用于在同一个 Prometheus 里区分多个服务的指标
	Namespace string `mapstructure:"namespace"`

	// RequestDurationName 请求耗时直方图的名称
	// 为空时使用 MetricRequestDuration
	RequestDurationName string `mapstructure:"request_duration_name"`

	// RequestBodySizeName 请求体大小直方图的名称
	// 为空时使用 MetricRequestBodySize
	RequestBodySizeName string `mapstructure:"request_body_size_name"`

	// ResponseBodySizeName 响应体大小直方图的名称
	// 为空时使用 MetricResponseBodySize
	ResponseBodySizeName string `mapstructure:"response_body_size_name"`

	// ActiveRequestsName 在途请求数仪表盘的名称
	// 为空时使用 MetricActiveRequests
	ActiveRequestsName string `mapstructure:"active_requests_name"`

	// UnmatchedRoutePolicy 未匹配任何路由的请求的标签策略
	// 可选值：
	//   - "mask"：路由标签统一为 UnmatchedRouteLabel（默认）
	//   - "passthrough"：路由标签使用请求的原始路径
	UnmatchedRoutePolicy string `mapstructure:"unmatched_route_policy"`

	// UnmatchedRouteLabel mask 策略下使用的占位标签值
	// 为空时使用 DefaultUnmatchedRouteLabel
	UnmatchedRouteLabel string `mapstructure:"unmatched_route_label"`

	// DurationBuckets 请求耗时直方图的桶边界（秒），必须严格递增
	// 为空时使用默认桶
	DurationBuckets []float64 `mapstructure:"duration_buckets"`

	// SizeBuckets 请求体/响应体大小直方图的桶边界（字节），必须严格递增
	// 为空时使用默认桶
	SizeBuckets []float64 `mapstructure:"size_buckets"`

	// StaticLabels 附加到每次指标上报的固定标签
	// 典型用途：环境、集群、部署单元等常量维度
	StaticLabels []metrics.Label `mapstructure:"static_labels"`

	// ExcludePaths 不上报观测指标的路径（精确匹配路由标签）
	// 常见用途：排除 /healthz、/metrics 等探测路径
	ExcludePaths []string `mapstructure:"exclude_paths"`

	// ExcludePathRegex 不上报观测指标的路径（正则匹配路由标签）
	ExcludePathRegex []string `mapstructure:"exclude_path_regex"`

	// ExcludeStatus 不上报观测指标的响应状态码
	ExcludeStatus []int `mapstructure:"exclude_status"`
}

// DefaultConfig 返回默认配置
// 标准指标名、mask 策略和默认桶边界
func DefaultConfig() *Config {
	return &Config{
		RequestDurationName:  MetricRequestDuration,
		RequestBodySizeName:  MetricRequestBodySize,
		ResponseBodySizeName: MetricResponseBodySize,
		ActiveRequestsName:   MetricActiveRequests,
		UnmatchedRoutePolicy: UnmatchedPolicyMask,
		UnmatchedRouteLabel:  DefaultUnmatchedRouteLabel,
	}
}

// withDefaults 返回裁剪空白并补齐默认值后的配置副本，原配置不被修改
func (c *Config) withDefaults() *Config {
	out := *c
	out.Namespace = strings.TrimSpace(out.Namespace)
	out.RequestDurationName = strings.TrimSpace(out.RequestDurationName)
	out.RequestBodySizeName = strings.TrimSpace(out.RequestBodySizeName)
	out.ResponseBodySizeName = strings.TrimSpace(out.ResponseBodySizeName)
	out.ActiveRequestsName = strings.TrimSpace(out.ActiveRequestsName)
	out.UnmatchedRoutePolicy = strings.TrimSpace(out.UnmatchedRoutePolicy)
	if out.RequestDurationName == "" {
		out.RequestDurationName = MetricRequestDuration
	}
	if out.RequestBodySizeName == "" {
		out.RequestBodySizeName = MetricRequestBodySize
	}
	if out.ResponseBodySizeName == "" {
		out.ResponseBodySizeName = MetricResponseBodySize
	}
	if out.ActiveRequestsName == "" {
		out.ActiveRequestsName = MetricActiveRequests
	}
	if out.UnmatchedRoutePolicy == "" {
		out.UnmatchedRoutePolicy = UnmatchedPolicyMask
	}
	if out.UnmatchedRouteLabel == "" {
		out.UnmatchedRouteLabel = DefaultUnmatchedRouteLabel
	}
	if len(out.DurationBuckets) == 0 {
		out.DurationBuckets = defaultDurationBuckets
	}
	if len(out.SizeBuckets) == 0 {
		out.SizeBuckets = defaultSizeBuckets
	}
	return &out
}

// validate 校验补齐默认值后的配置
// 所有错误会聚合返回，一次暴露全部配置问题
func (c *Config) validate() error {
	var errs []error

	names := []struct {
		field string
		value string
	}{
		{"request_duration_name", c.RequestDurationName},
		{"request_body_size_name", c.RequestBodySizeName},
		{"response_body_size_name", c.ResponseBodySizeName},
		{"active_requests_name", c.ActiveRequestsName},
	}

	seen := make(map[string]string, len(names))
	for _, n := range names {
		if !metricNamePattern.MatchString(n.value) {
			errs = append(errs, xerrors.Wrapf(ErrInvalidMetricName, "%s %q", n.field, n.value))
			continue
		}
		if prev, ok := seen[n.value]; ok {
			errs = append(errs, xerrors.Wrapf(ErrDuplicateMetricName, "%s and %s are both %q", prev, n.field, n.value))
			continue
		}
		seen[n.value] = n.field
	}

	if c.Namespace != "" && !metricNamePattern.MatchString(c.Namespace) {
		errs = append(errs, xerrors.Wrapf(ErrInvalidMetricName, "namespace %q", c.Namespace))
	}

	switch c.UnmatchedRoutePolicy {
	case UnmatchedPolicyMask, UnmatchedPolicyPassthrough:
	default:
		errs = append(errs, xerrors.Wrapf(ErrInvalidPolicy, "%q", c.UnmatchedRoutePolicy))
	}

	if !strictlyIncreasing(c.DurationBuckets) {
		errs = append(errs, xerrors.Wrap(ErrInvalidBuckets, "duration_buckets"))
	}
	if !strictlyIncreasing(c.SizeBuckets) {
		errs = append(errs, xerrors.Wrap(ErrInvalidBuckets, "size_buckets"))
	}

	return xerrors.Combine(errs...)
}

// metricName 拼接命名空间前缀后的最终指标名
func (c *Config) metricName(name string) string {
	if c.Namespace == "" {
		return name
	}
	return c.Namespace + "_" + name
}

func strictlyIncreasing(buckets []float64) bool {
	for i := 1; i < len(buckets); i++ {
		if buckets[i] <= buckets[i-1] {
			return false
		}
	}
	return true
}

// compileExcludes 编译路径排除正则
func compileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, xerrors.Wrapf(err, "httpmetrics: compile exclude regex %q", p)
		}
		out = append(out, re)
	}
	return out, nil
}
