package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KedarDamale/MarksMania/internal/api/middleware"
	"github.com/KedarDamale/MarksMania/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(middleware.CtxUserID)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// tokenInfo 当前 Token 的 JTI 与过期时间（登出时使用）
func tokenInfo(c *gin.Context) (jti string, exp time.Time) {
	if v, ok := c.Get(middleware.CtxTokenJTI); ok {
		jti, _ = v.(string)
	}
	if v, ok := c.Get(middleware.CtxTokenExp); ok {
		exp, _ = v.(time.Time)
	}
	return jti, exp
}
