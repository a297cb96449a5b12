package httpmetrics

import (
	"strings"
)

// 标签键沿用 OpenTelemetry HTTP 语义约定
const (
	// LabelRoute 路由标签：低基数的路由模板，而不是原始路径
	LabelRoute = "http.route"

	// LabelMethod 请求方法标签，如 GET、POST
	LabelMethod = "http.request.method"

	// LabelStatus 响应状态码标签，如 200、404
	LabelStatus = "http.response.status_code"

	// LabelProtocolName 应用协议名标签，如 http
	LabelProtocolName = "network.protocol.name"

	// LabelProtocolVersion 应用协议版本标签，如 1.1、2
	LabelProtocolVersion = "network.protocol.version"

	// LabelScheme 请求方案标签：http 或 https
	LabelScheme = "url.scheme"
)

// splitProtocol 把 Request.Proto（如 "HTTP/1.1"）拆成协议名和版本
// 协议名统一转为小写；无法解析时版本为空
func splitProtocol(proto string) (name, version string) {
	if proto == "" {
		return "http", ""
	}
	if i := strings.IndexByte(proto, '/'); i >= 0 {
		return strings.ToLower(proto[:i]), proto[i+1:]
	}
	return strings.ToLower(proto), ""
}

// safeMethod 规范化 HTTP 方法标签值：统一大写，缺失时归入 GET
func safeMethod(method string) string {
	m := strings.ToUpper(strings.TrimSpace(method))
	if m == "" {
		return "GET"
	}
	return m
}
