package httpmetrics

import (
	"strings"
)

// Param 路由匹配得到的一个路径参数
type Param struct {
	Name  string
	Value string
}

// RouteMatch 路由器对单个请求的匹配结果
// Template 为空表示请求没有命中任何已注册路由
type RouteMatch struct {
	// Template 命中的路由模板，如 "/posts/{language}/{slug}"
	Template string

	// Params 模板参数的实际取值
	Params []Param
}

// ResolveRoute 把 keep 中列出的路径参数的实际值替换进路由模板
// 不在 keep 中的占位符保持原样；keep 中的名字在模板里不存在时静默忽略
// 替换按参数名进行，与占位符在模板中的位置无关
//
// 支持的占位符语法：
//   - "{name}"、"{name...}"、"{name:regex}"（net/http ServeMux、chi）
//   - ":name"、"*name"（gin，占据整个路径段）
//
// 使用示例：
//
//	ResolveRoute("/posts/{language}/{slug}",
//	    []Param{{"language", "en"}, {"slug", "hello"}},
//	    []string{"language"})
//	// 返回 "/posts/en/{slug}"
func ResolveRoute(template string, params []Param, keep []string) string {
	if template == "" || len(keep) == 0 || len(params) == 0 {
		return template
	}

	keepSet := make(map[string]struct{}, len(keep))
	for _, k := range keep {
		keepSet[k] = struct{}{}
	}
	values := make(map[string]string, len(params))
	for _, p := range params {
		values[p.Name] = p.Value
	}
	lookup := func(name string) (string, bool) {
		if _, ok := keepSet[name]; !ok {
			return "", false
		}
		v, ok := values[name]
		return v, ok
	}

	segments := strings.Split(template, "/")
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		// gin 风格的参数占据整个路径段
		if seg[0] == ':' || seg[0] == '*' {
			if v, ok := lookup(seg[1:]); ok {
				segments[i] = v
			}
			continue
		}
		segments[i] = substituteBraces(seg, lookup)
	}
	return strings.Join(segments, "/")
}

// substituteBraces 替换一个路径段中命中的花括号占位符
// chi 允许段内多个占位符（如 "date-{year}-{month}"），逐个处理
func substituteBraces(segment string, lookup func(string) (string, bool)) string {
	if !strings.ContainsRune(segment, '{') {
		return segment
	}
	var b strings.Builder
	for i := 0; i < len(segment); {
		if segment[i] != '{' {
			b.WriteByte(segment[i])
			i++
			continue
		}
		end := matchingBrace(segment, i)
		if end < 0 {
			// 花括号未闭合，剩余部分原样保留
			b.WriteString(segment[i:])
			break
		}
		span := segment[i : end+1]
		if v, ok := lookup(placeholderParam(span)); ok {
			b.WriteString(v)
		} else {
			b.WriteString(span)
		}
		i = end + 1
	}
	return b.String()
}

// matchingBrace 返回与 s[open] 处 '{' 配对的 '}' 下标，未闭合返回 -1
// 正则约束里的嵌套花括号（如 "{id:\d{4}}"）会被当作整体跳过
func matchingBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// placeholderParam 从 "{name}"、"{name...}"、"{name:regex}" 提取参数名
func placeholderParam(span string) string {
	inner := span[1 : len(span)-1]
	if i := strings.IndexByte(inner, ':'); i >= 0 {
		inner = inner[:i]
	}
	return strings.TrimSuffix(inner, "...")
}

// templateParamNames 按出现顺序列出模板中的全部参数名
func templateParamNames(template string) []string {
	var names []string
	for _, seg := range strings.Split(template, "/") {
		if seg == "" {
			continue
		}
		if seg[0] == ':' || seg[0] == '*' {
			if len(seg) > 1 {
				names = append(names, seg[1:])
			}
			continue
		}
		for i := 0; i < len(seg); {
			if seg[i] != '{' {
				i++
				continue
			}
			end := matchingBrace(seg, i)
			if end < 0 {
				break
			}
			if name := placeholderParam(seg[i : end+1]); name != "" && name != "$" {
				names = append(names, name)
			}
			i = end + 1
		}
	}
	return names
}

// routeLabelParts 计算一次请求的路由标签候选值
// mixed 是按 keep 替换后的模板，fallback 是未替换的原模板；
// 未匹配路由时两者都是原始路径
func routeLabelParts(match RouteMatch, rawPath string, keep []string) (mixed, fallback string, matched bool) {
	if match.Template == "" {
		return rawPath, rawPath, false
	}
	mixed = match.Template
	if len(keep) > 0 {
		mixed = ResolveRoute(match.Template, match.Params, keep)
	}
	return mixed, match.Template, true
}
