package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KedarDamale/MarksMania/pkg/redis"
	"github.com/KedarDamale/MarksMania/pkg/response"
)

// WriteRateLimit 写接口限流：仅对 POST/PUT/PATCH/DELETE 计数
// limit 为每分钟允许的请求数，limit<=0 或 rdb 为 nil 时不限流
func WriteRateLimit(rdb *redis.Client, limit int) gin.HandlerFunc {
	return RateLimit(rdb, limit, time.Minute, isWrite)
}

// RateLimit 基于 Redis 滑动窗口的速率限制中间件
// match 为 nil 时对所有请求计数
func RateLimit(rdb *redis.Client, limit int, window time.Duration, match func(*http.Request) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || limit <= 0 || (match != nil && !match(c.Request)) {
			c.Next()
			return
		}

		key := fmt.Sprintf("%s:%s", clientKey(c), c.FullPath())
		allowed, err := rdb.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			// Redis 出错时降级放行
			c.Next()
			return
		}

		if !allowed {
			response.Error(c, http.StatusTooManyRequests, 10004, "请求过于频繁，请稍后再试")
			c.Abort()
			return
		}

		c.Next()
	}
}

// clientKey 已认证用户按用户计数，否则按 IP
func clientKey(c *gin.Context) string {
	if uid, ok := c.Get(CtxUserID); ok {
		if s, _ := uid.(string); s != "" {
			return "user:" + s
		}
	}
	return "ip:" + c.ClientIP()
}

func isWrite(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
