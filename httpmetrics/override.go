package httpmetrics

import (
	"context"
	"sync"
)

// CardinalityOverride 单次请求的路由标签粒度覆盖
// 默认情况下路由标签使用完整的路由模板（低基数）；
// 通过覆盖可以让指定的路径参数以实际值出现在标签中
type CardinalityOverride struct {
	// KeepParams 需要以实际值出现在路由标签中的路径参数名
	// 名字在当前路由模板中不存在时静默忽略
	KeepParams []string
}

type contextKey struct{}

var overrideKey contextKey

// overrideHolder 由中间件注入请求上下文
// 业务代码在处理期间写入，中间件在收尾阶段读取；
// 共享同一个指针，内层 handler 的写入对外层中间件可见
type overrideHolder struct {
	mu   sync.Mutex
	keep []string
}

func (h *overrideHolder) set(o CardinalityOverride) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.keep = o.KeepParams
}

func (h *overrideHolder) keepParams() []string {
	if h == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.keep
}

// newOverrideContext 在 ctx 中安装覆盖占位并返回新的 ctx
func newOverrideContext(ctx context.Context) (context.Context, *overrideHolder) {
	holder := &overrideHolder{}
	return context.WithValue(ctx, overrideKey, holder), holder
}

// SetCardinalityOverride 为当前请求设置路由标签粒度覆盖
// 重复设置时后一次覆盖前一次
//
// 返回 false 表示上下文中没有指标中间件（覆盖被丢弃），
// 常见原因是 handler 没有挂在中间件之后
//
// 使用示例：
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    httpmetrics.SetCardinalityOverride(r.Context(), httpmetrics.CardinalityOverride{
//	        KeepParams: []string{"language"},
//	    })
//	    // ...
//	}
func SetCardinalityOverride(ctx context.Context, override CardinalityOverride) bool {
	holder, ok := ctx.Value(overrideKey).(*overrideHolder)
	if !ok {
		return false
	}
	holder.set(override)
	return true
}
