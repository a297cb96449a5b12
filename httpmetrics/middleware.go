package httpmetrics

import (
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"
)

// Middleware 返回标准库 net/http 的指标中间件
// 路由模板从 Request.Pattern 读取，由 Go 1.22+ 的 ServeMux 在匹配后填充
//
// 使用示例:
//
//	mux := http.NewServeMux()
//	mux.HandleFunc("GET /posts/{language}/{slug}", postHandler)
//	handler := httpmetrics.Middleware(sm)(mux)
//	http.ListenAndServe(":8080", handler)
func Middleware(sm *ServerMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if sm == nil {
			return next
		}
		return sm.instrument(next, muxRoute)
	}
}

// routeFunc 在请求结束时从请求中提取路由匹配结果
// 在 handler 运行之后调用，此时路由器已经完成匹配
type routeFunc func(r *http.Request) RouteMatch

// instrument 包装 handler，实现完整的请求观测生命周期：
// 进入时累加在途请求数；结束时上报三个观测直方图并扣减在途请求数。
// 收尾通过 defer 执行，handler panic 时同样完成且 panic 原样向外传播
func (s *ServerMetrics) instrument(next http.Handler, route routeFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		method := r.Method
		scheme := requestScheme(r)

		ctx, holder := newOverrideContext(r.Context())
		r = r.WithContext(ctx)
		body := wrapBody(r)
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		s.IncActiveRequests(ctx, method, scheme)

		completed := false
		defer func() {
			status := rw.status
			if !completed && !rw.written {
				// handler 异常终止且未写出任何响应，合成错误状态
				status = http.StatusInternalServerError
			}
			s.Observe(ctx, RequestInfo{
				Route:             route(r),
				Path:              r.URL.Path,
				Method:            method,
				Status:            status,
				Proto:             r.Proto,
				Elapsed:           time.Since(start),
				RequestBodyBytes:  body.bytes(),
				ResponseBodyBytes: rw.bytes,
				KeepParams:        holder.keepParams(),
			})
			s.DecActiveRequests(ctx, method, scheme)
		}()

		next.ServeHTTP(rw, r)
		completed = true
	})
}

// muxRoute 从 ServeMux 填充的 Request.Pattern 提取路由匹配结果
// 形如 "GET example.com/posts/{id}" 的模式会剥离方法前缀；
// 参数名取自模板本身，参数值通过 Request.PathValue 读取
func muxRoute(r *http.Request) RouteMatch {
	if r.Pattern == "" {
		return RouteMatch{}
	}
	template := r.Pattern
	if i := strings.IndexByte(template, ' '); i >= 0 {
		template = template[i+1:]
	}
	var params []Param
	for _, name := range templateParamNames(template) {
		if v := r.PathValue(name); v != "" {
			params = append(params, Param{Name: name, Value: v})
		}
	}
	return RouteMatch{Template: template, Params: params}
}

// requestScheme 返回请求的方案标签值
func requestScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

// countingReadCloser 包装请求体，统计 handler 实际读取的字节数
type countingReadCloser struct {
	rc io.ReadCloser
	n  atomic.Int64
}

// wrapBody 在请求上安装计数请求体
// 没有请求体的请求不做包装，计数保持为零
func wrapBody(r *http.Request) *countingReadCloser {
	crc := &countingReadCloser{}
	if r.Body != nil && r.Body != http.NoBody {
		crc.rc = r.Body
		r.Body = crc
	}
	return crc
}

func (c *countingReadCloser) Read(p []byte) (int, error) {
	if c.rc == nil {
		return 0, io.EOF
	}
	n, err := c.rc.Read(p)
	if n > 0 {
		c.n.Add(int64(n))
	}
	return n, err
}

func (c *countingReadCloser) Close() error {
	if c.rc == nil {
		return nil
	}
	return c.rc.Close()
}

func (c *countingReadCloser) bytes() int64 {
	return c.n.Load()
}

// responseWriter 包装 http.ResponseWriter，捕获状态码和写出字节数
type responseWriter struct {
	http.ResponseWriter
	status  int
	bytes   int64
	written bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.written {
		return
	}
	rw.written = true
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		// 未显式调用 WriteHeader 时，首次写入隐含 200
		rw.written = true
		rw.status = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += int64(n)
	return n, err
}

// Unwrap 暴露底层 ResponseWriter，支持 http.ResponseController
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
