package httpmetrics

import "github.com/ceyewan/webmetrics/xerrors"

// 错误定义
var (
	// ErrMeterNil 指标工厂为空
	ErrMeterNil = xerrors.New("httpmetrics: meter is nil")

	// ErrInvalidMetricName 指标名不符合命名规则
	ErrInvalidMetricName = xerrors.New("httpmetrics: invalid metric name")

	// ErrDuplicateMetricName 多个指标配置了相同的名称
	ErrDuplicateMetricName = xerrors.New("httpmetrics: duplicate metric name")

	// ErrInvalidPolicy 未匹配路由策略取值非法
	ErrInvalidPolicy = xerrors.New("httpmetrics: invalid unmatched route policy")

	// ErrInvalidBuckets 直方图桶边界非法
	ErrInvalidBuckets = xerrors.New("httpmetrics: bucket boundaries must be strictly increasing")
)
