package httpmetrics

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GinMiddleware 创建 Gin 指标中间件
// 请求的完整生命周期与 Middleware 一致：进入时累加在途请求数，
// 结束时上报观测指标并扣减在途请求数；handler panic 时收尾照常执行，
// panic 原样向外传播，交给 gin.Recovery 或其他恢复中间件处理
//
// 使用示例:
//
//	r := gin.New()
//	r.Use(httpmetrics.GinMiddleware(sm), gin.Recovery())
//	r.GET("/posts/:language/:slug", postHandler)
func GinMiddleware(sm *ServerMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sm == nil {
			c.Next()
			return
		}

		start := time.Now()
		method := c.Request.Method
		scheme := requestScheme(c.Request)

		ctx, holder := newOverrideContext(c.Request.Context())
		c.Request = c.Request.WithContext(ctx)
		body := wrapBody(c.Request)

		sm.IncActiveRequests(ctx, method, scheme)

		completed := false
		defer func() {
			status := c.Writer.Status()
			if !completed && !c.Writer.Written() {
				status = http.StatusInternalServerError
			}
			respBytes := int64(c.Writer.Size())
			if respBytes < 0 {
				// 尚未写出任何响应时 gin 返回 -1
				respBytes = 0
			}
			sm.Observe(ctx, RequestInfo{
				Route:             ginRoute(c),
				Path:              c.Request.URL.Path,
				Method:            method,
				Status:            status,
				Proto:             c.Request.Proto,
				Elapsed:           time.Since(start),
				RequestBodyBytes:  body.bytes(),
				ResponseBodyBytes: respBytes,
				KeepParams:        holder.keepParams(),
			})
			sm.DecActiveRequests(ctx, method, scheme)
		}()

		c.Next()
		completed = true
	}
}

// ginRoute 从 gin.Context 提取路由匹配结果
// FullPath 返回 ":param" 语法的路由模板，未匹配任何路由时为空串
func ginRoute(c *gin.Context) RouteMatch {
	template := c.FullPath()
	if template == "" {
		return RouteMatch{}
	}
	params := make([]Param, 0, len(c.Params))
	for _, p := range c.Params {
		params = append(params, Param{Name: p.Key, Value: p.Value})
	}
	return RouteMatch{Template: template, Params: params}
}

// KeepParams 创建一个路由级中间件，声明这些路径参数以实际值进入路由标签
// 等价于在 handler 里调用 SetCardinalityOverride，作为路由注册时的便捷写法
//
// 使用示例:
//
//	// 路由标签形如 /posts/en/:slug 而不是 /posts/:language/:slug
//	r.GET("/posts/:language/:slug", httpmetrics.KeepParams("language"), postHandler)
func KeepParams(names ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		SetCardinalityOverride(c.Request.Context(), CardinalityOverride{KeepParams: names})
		c.Next()
	}
}
