package metrics

// Label 指标标签结构体
// 用于为指标添加维度信息，实现指标的细粒度分组和筛选
//
// 标签使用建议：
//   - 控制标签数量：每个指标的标签不宜过多（建议 < 10 个）
//   - 标签值相对稳定：避免高基数标签，如用户 ID、请求 ID、未归一的 URL 路径等
//   - 路由类标签应使用路由模板（/orders/:id）而非真实路径（/orders/42）
//
// 使用示例：
//
//	counter.Inc(ctx, metrics.L("http.request.method", "GET"))
type Label struct {
	// Key 标签键，表示指标的维度名称
	Key string

	// Value 标签值，表示该维度的具体值
	// 注意：高基数（大量唯一值）的标签会影响后端存储与查询性能
	Value string
}

// L 便捷构造函数，创建一个 Label 实例
//
// 使用示例：
//
//	// 方式1：使用便捷函数
//	counter.Inc(ctx, metrics.L("method", "GET"))
//
//	// 方式2：直接创建结构体
//	counter.Inc(ctx, metrics.Label{Key: "method", Value: "GET"})
func L(key, value string) Label {
	return Label{
		Key:   key,
		Value: value,
	}
}
