package httpmetrics

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ChiMiddleware 返回 chi 路由器的指标中间件
// 请求生命周期与 Middleware 完全一致，仅路由模板来源不同：
// 模板从 chi 的路由上下文读取，使用 "{param}" 语法
//
// 使用示例:
//
//	r := chi.NewRouter()
//	r.Use(httpmetrics.ChiMiddleware(sm))
//	r.Get("/posts/{language}/{slug}", postHandler)
func ChiMiddleware(sm *ServerMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if sm == nil {
			return next
		}
		return sm.instrument(next, chiRoute)
	}
}

// chiRoute 从 chi 的路由上下文提取路由匹配结果
// RoutePattern 会把挂载的子路由拼接成完整模板
func chiRoute(r *http.Request) RouteMatch {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return RouteMatch{}
	}
	template := rctx.RoutePattern()
	if template == "" {
		return RouteMatch{}
	}
	var params []Param
	for i, k := range rctx.URLParams.Keys {
		// "*" 是通配符的占位键，不是具名参数
		if k == "*" || i >= len(rctx.URLParams.Values) {
			continue
		}
		params = append(params, Param{Name: k, Value: rctx.URLParams.Values[i]})
	}
	return RouteMatch{Template: template, Params: params}
}
