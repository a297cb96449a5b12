// Package httpmetrics 提供 HTTP 服务端指标中间件。
// 按 OpenTelemetry HTTP 语义约定采集四个服务端指标：
//
//   - 请求耗时直方图（秒）
//   - 请求体大小直方图（字节）
//   - 响应体大小直方图（字节）
//   - 在途请求数仪表盘
//
// 观测指标携带 http.route、http.request.method、http.response.status_code、
// network.protocol.name、network.protocol.version 标签；在途请求数只携带
// http.request.method 和 url.scheme。路由标签使用路由模板而不是原始路径，
// 保证标签基数可控；需要更细粒度时用 SetCardinalityOverride 按请求放开。
//
// 内置 Gin、net/http ServeMux 和 chi 三种路由器的适配；
// 指标上报的任何内部失败都不会影响业务请求的处理。
//
// 快速开始：
//
//	meter := metrics.Must(&metrics.Config{
//	    Enabled:     true,
//	    ServiceName: "blog-api",
//	    Port:        9090,
//	})
//	defer meter.Shutdown(context.Background())
//
//	sm, err := httpmetrics.New(meter, httpmetrics.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	r := gin.New()
//	r.Use(httpmetrics.GinMiddleware(sm))
package httpmetrics

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/ceyewan/webmetrics/clog"
	"github.com/ceyewan/webmetrics/metrics"
	"github.com/ceyewan/webmetrics/xerrors"
)

// ServerMetrics HTTP 服务端指标发射器
// 持有四个预创建的指标实例，可在多个路由器/中间件间共享，并发安全
type ServerMetrics struct {
	logger clog.Logger

	active       metrics.Gauge
	duration     metrics.Histogram
	requestSize  metrics.Histogram
	responseSize metrics.Histogram

	staticLabels  []metrics.Label
	maskUnmatched bool
	maskLabel     string

	excludePaths  map[string]struct{}
	excludeRe     []*regexp.Regexp
	excludeStatus map[int]struct{}
}

// New 创建 HTTP 服务端指标发射器
//
// 参数:
//   - meter: 指标工厂，通常来自 metrics.New
//   - cfg: 中间件配置，nil 时使用 DefaultConfig()
//   - opts: 可选项，支持 WithLogger
//
// 四个指标实例在此一次性创建并注册；配置非法时聚合所有问题一次返回
func New(meter metrics.Meter, cfg *Config, opts ...Option) (*ServerMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	conf := cfg.withDefaults()
	if err := conf.validate(); err != nil {
		return nil, err
	}

	excludeRe, err := compileExcludes(conf.ExcludePathRegex)
	if err != nil {
		return nil, err
	}

	o := &options{logger: clog.Discard()}
	for _, opt := range opts {
		opt(o)
	}

	duration, err := meter.Histogram(
		conf.metricName(conf.RequestDurationName),
		"HTTP request duration in seconds.",
		metrics.WithUnit("s"),
		metrics.WithBuckets(conf.DurationBuckets),
	)
	if err != nil {
		return nil, xerrors.Wrap(err, "create request duration histogram")
	}

	requestSize, err := meter.Histogram(
		conf.metricName(conf.RequestBodySizeName),
		"HTTP request body size in bytes.",
		metrics.WithUnit("By"),
		metrics.WithBuckets(conf.SizeBuckets),
	)
	if err != nil {
		return nil, xerrors.Wrap(err, "create request body size histogram")
	}

	responseSize, err := meter.Histogram(
		conf.metricName(conf.ResponseBodySizeName),
		"HTTP response body size in bytes.",
		metrics.WithUnit("By"),
		metrics.WithBuckets(conf.SizeBuckets),
	)
	if err != nil {
		return nil, xerrors.Wrap(err, "create response body size histogram")
	}

	active, err := meter.Gauge(
		conf.metricName(conf.ActiveRequestsName),
		"Number of active HTTP server requests.",
	)
	if err != nil {
		return nil, xerrors.Wrap(err, "create active requests gauge")
	}

	static := make([]metrics.Label, len(conf.StaticLabels))
	copy(static, conf.StaticLabels)

	sm := &ServerMetrics{
		logger:        o.logger,
		active:        active,
		duration:      duration,
		requestSize:   requestSize,
		responseSize:  responseSize,
		staticLabels:  static,
		maskUnmatched: conf.UnmatchedRoutePolicy == UnmatchedPolicyMask,
		maskLabel:     conf.UnmatchedRouteLabel,
		excludeRe:     excludeRe,
	}
	if len(conf.ExcludePaths) > 0 {
		sm.excludePaths = make(map[string]struct{}, len(conf.ExcludePaths))
		for _, p := range conf.ExcludePaths {
			sm.excludePaths[p] = struct{}{}
		}
	}
	if len(conf.ExcludeStatus) > 0 {
		sm.excludeStatus = make(map[int]struct{}, len(conf.ExcludeStatus))
		for _, code := range conf.ExcludeStatus {
			sm.excludeStatus[code] = struct{}{}
		}
	}
	return sm, nil
}

// RequestInfo 一次已完成请求的观测数据
type RequestInfo struct {
	// Route 路由匹配结果，未命中任何路由时保持零值
	Route RouteMatch

	// Path 请求的原始路径
	Path string

	// Method HTTP 方法
	Method string

	// Status 最终响应状态码；handler 异常终止时由中间件合成
	Status int

	// Proto 协议串，如 "HTTP/1.1"
	Proto string

	// Elapsed 从进入中间件到请求结束的耗时
	Elapsed time.Duration

	// RequestBodyBytes handler 实际消费的请求体字节数
	RequestBodyBytes int64

	// ResponseBodyBytes 已写出的响应体字节数
	ResponseBodyBytes int64

	// KeepParams 本次请求生效的路由标签粒度覆盖
	KeepParams []string
}

// IncActiveRequests 在请求进入时增加在途请求数
func (s *ServerMetrics) IncActiveRequests(ctx context.Context, method, scheme string) {
	if s == nil {
		return
	}
	defer s.guard()
	s.active.Inc(ctx, s.activeLabels(method, scheme)...)
}

// DecActiveRequests 在请求结束时减少在途请求数
// 与 IncActiveRequests 使用完全相同的标签，保证两者严格配对
func (s *ServerMetrics) DecActiveRequests(ctx context.Context, method, scheme string) {
	if s == nil {
		return
	}
	defer s.guard()
	s.active.Dec(ctx, s.activeLabels(method, scheme)...)
}

// Observe 上报一次已完成请求的观测指标
// 路由标签的计算顺序：参数替换、排除检查、404/405 回退、未匹配策略
func (s *ServerMetrics) Observe(ctx context.Context, info RequestInfo) {
	if s == nil {
		return
	}
	defer s.guard()

	mixed, fallback, matched := routeLabelParts(info.Route, info.Path, info.KeepParams)

	// 排除检查针对替换后的标签进行，早于回退和掩码
	if s.excludedPath(mixed) || s.excludedStatus(info.Status) {
		return
	}

	route := mixed
	switch {
	case !matched:
		if s.maskUnmatched {
			route = s.maskLabel
		}
	case route != fallback && (info.Status == http.StatusNotFound || info.Status == http.StatusMethodNotAllowed):
		// 替换过参数的标签在 404/405 下回退到原模板，避免探测流量撑爆基数
		route = fallback
	}

	protoName, protoVersion := splitProtocol(info.Proto)
	labels := make([]metrics.Label, 0, len(s.staticLabels)+5)
	labels = append(labels, s.staticLabels...)
	labels = append(labels,
		metrics.L(LabelRoute, route),
		metrics.L(LabelMethod, safeMethod(info.Method)),
		metrics.L(LabelStatus, strconv.Itoa(info.Status)),
		metrics.L(LabelProtocolName, protoName),
		metrics.L(LabelProtocolVersion, protoVersion),
	)

	s.duration.Record(ctx, info.Elapsed.Seconds(), labels...)
	s.requestSize.Record(ctx, nonNegative(info.RequestBodyBytes), labels...)
	s.responseSize.Record(ctx, nonNegative(info.ResponseBodyBytes), labels...)
}

// guard 吞掉指标上报自身的 panic，观测链路绝不反噬业务请求
func (s *ServerMetrics) guard() {
	if r := recover(); r != nil {
		s.logger.Error("metrics emission panicked", clog.Any("panic", r))
	}
}

func (s *ServerMetrics) activeLabels(method, scheme string) []metrics.Label {
	labels := make([]metrics.Label, 0, len(s.staticLabels)+2)
	labels = append(labels, s.staticLabels...)
	labels = append(labels,
		metrics.L(LabelMethod, safeMethod(method)),
		metrics.L(LabelScheme, scheme),
	)
	return labels
}

func (s *ServerMetrics) excludedPath(route string) bool {
	if _, ok := s.excludePaths[route]; ok {
		return true
	}
	for _, re := range s.excludeRe {
		if re.MatchString(route) {
			return true
		}
	}
	return false
}

func (s *ServerMetrics) excludedStatus(status int) bool {
	_, ok := s.excludeStatus[status]
	return ok
}

func nonNegative(n int64) float64 {
	if n < 0 {
		return 0
	}
	return float64(n)
}
