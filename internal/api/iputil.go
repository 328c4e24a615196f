package api

import (
	"net/http"
	"strings"
)

// 文档注释：获取访问者 IP（用于访客去重统计）
// 背景：常见反向代理头优先，回退远端地址；部署于未经信任的代理链路时需配合网关过滤
func getVisitorIP(r *http.Request) string {
	h := r.Header
	if x := h.Get("x-forwarded-for"); x != "" {
		return strings.TrimSpace(strings.Split(x, ",")[0])
	}
	if x := h.Get("x-real-ip"); x != "" {
		return x
	}
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i > 0 {
		return host[:i]
	}
	return host
}
