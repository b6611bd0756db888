package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KedarDamale/MarksMania/pkg/response"
)

// BodyLimit 全局请求体大小限制中间件
// 超限时 http.MaxBytesReader 使后续读取失败，绑定错误由各 Handler 返回 400
// Content-Length 已知且超限的请求直接返回 413
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()
	}
}
