package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KedarDamale/MarksMania/pkg/metrics"
)

// Metrics 记录请求数与耗时（按路由模板聚合）
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metrics.ObserveHTTP(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
