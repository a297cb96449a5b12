// Package metrics 为 webmetrics 提供统一的指标收集能力。
// 基于 OpenTelemetry 标准构建，提供简洁的 Counter、Gauge、Histogram 指标接口。
//
// 设计说明：
//   - 上层组件只依赖本包的抽象接口，不直接接触 OpenTelemetry SDK
//   - 生产实现桥接 OpenTelemetry SDK 与 Prometheus Exporter
//   - 禁用时返回 noop 实现，调用方无需做空值判断
//   - 内置可选的 Prometheus HTTP 服务器，支持指标自动暴露
//
// 快速开始：
//
//	cfg := &metrics.Config{
//	    Enabled:     true,
//	    ServiceName: "order-service",
//	    Version:     "v1.0.0",
//	    Port:        9090,
//	    Path:        "/metrics",
//	}
//
//	meter, err := metrics.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer meter.Shutdown(ctx)
//
//	// 创建并使用指标
//	counter, _ := meter.Counter("orders_created_total", "订单创建总数")
//	counter.Inc(ctx, metrics.L("region", "cn-east"))
package metrics

import "context"

// Counter 计数器接口
// 用于记录只能增加的累计值，例如 HTTP 请求数、错误次数等
//
// 使用示例：
//
//	counter, _ := meter.Counter("http_requests_total", "HTTP 请求总数")
//	// 增加 1
//	counter.Inc(ctx, metrics.L("method", "GET"))
//	// 增加指定值
//	counter.Add(ctx, 5, metrics.L("endpoint", "/api/batch"))
type Counter interface {
	// Inc 将计数器增加 1
	//
	// 参数：
	//   ctx    - 上下文，用于传递截止时间、取消信号等
	//   labels - 可选的标签，用于指标分组和筛选
	Inc(ctx context.Context, labels ...Label)

	// Add 将计数器增加给定的值
	// 注意：如果传入负数，大部分监控系统会忽略或报错
	Add(ctx context.Context, val float64, labels ...Label)
}

// Gauge 仪表盘接口
// 用于记录可以任意增减的瞬时值，例如在途请求数、连接数、队列长度等
//
// 使用示例：
//
//	gauge, _ := meter.Gauge("http_server_active_requests", "在途 HTTP 请求数")
//	gauge.Inc(ctx, metrics.L("method", "GET"))  // 请求进入
//	gauge.Dec(ctx, metrics.L("method", "GET"))  // 请求完成
type Gauge interface {
	// Set 将 gauge 设置为给定的值，覆盖之前的值
	//
	// 参数：
	//   ctx    - 上下文，用于传递截止时间、取消信号等
	//   val    - 要设置的值，可以是任意浮点数
	//   labels - 可选的标签，用于指标分组和筛选
	Set(ctx context.Context, val float64, labels ...Label)

	// Inc 将 gauge 增加 1，等价于 Set(currentValue + 1)
	Inc(ctx context.Context, labels ...Label)

	// Dec 将 gauge 减少 1，等价于 Set(currentValue - 1)
	Dec(ctx context.Context, labels ...Label)
}

// Histogram 直方图接口
// 用于记录值的分布情况，例如请求耗时、请求/响应体大小等
// 直方图可进一步聚合出分位数（如 P95、P99）和总计数
//
// 使用示例：
//
//	histogram, _ := meter.Histogram(
//	    "http.server.request.duration",
//	    "HTTP 请求耗时（秒）",
//	    metrics.WithUnit("s"),
//	    metrics.WithBuckets([]float64{0.005, 0.05, 0.5, 5}),
//	)
//	histogram.Record(ctx, 0.123, metrics.L("http.route", "/api/users"))
type Histogram interface {
	// Record 在直方图中记录一个值
	// 该值会被自动归类到相应的桶中
	Record(ctx context.Context, val float64, labels ...Label)
}

// Meter 指标创建工厂接口
// 是所有指标类型的创建入口，负责管理指标的生命周期
//
// 一个 Meter 实例通常对应一个服务进程；通过 Meter 创建的指标是线程安全的，
// 可以在多个 goroutine 中并发使用。
type Meter interface {
	// Counter 创建计数器实例
	//
	// 参数：
	//   name - 指标名称，如 http_requests_total 或 http.server.request.duration
	//   desc - 指标描述，用于说明指标的用途和含义
	//   opts - 指标选项，支持 WithUnit
	Counter(name string, desc string, opts ...MetricOption) (Counter, error)

	// Gauge 创建仪表盘实例
	Gauge(name string, desc string, opts ...MetricOption) (Gauge, error)

	// Histogram 创建直方图实例
	//
	// 参数：
	//   opts - 指标选项，支持 WithUnit 和 WithBuckets
	Histogram(name string, desc string, opts ...MetricOption) (Histogram, error)

	// Shutdown 关闭 Meter，刷新所有指标
	// 通常在应用程序退出时调用
	Shutdown(ctx context.Context) error
}

// MetricOption 指标配置选项函数类型
// 用于在创建指标时进行额外配置
type MetricOption func(*MetricOptions)

// MetricOptions 指标选项结构体
type MetricOptions struct {
	// Unit 指标的单位，建议使用 UCUM 单位代码
	// 常用单位："s"（秒）、"By"（字节）
	Unit string

	// Buckets 直方图的显式桶边界，单位与指标一致
	// 仅对 Histogram 生效，为空时使用后端默认桶
	Buckets []float64
}

// WithUnit 设置指标的单位
//
// 使用示例：
//
//	meter.Histogram("http.server.request.duration", "请求耗时", metrics.WithUnit("s"))
func WithUnit(unit string) MetricOption {
	return func(o *MetricOptions) {
		o.Unit = unit
	}
}

// WithBuckets 设置直方图的显式桶边界
//
// 边界必须单调递增。对 Counter 和 Gauge 无效果。
//
// 使用示例：
//
//	meter.Histogram("http.server.response.body.size", "响应体大小",
//	    metrics.WithUnit("By"),
//	    metrics.WithBuckets([]float64{256, 1024, 4096, 16384}),
//	)
func WithBuckets(buckets []float64) MetricOption {
	return func(o *MetricOptions) {
		o.Buckets = buckets
	}
}
