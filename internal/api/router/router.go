package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/KedarDamale/MarksMania/config"
	"github.com/KedarDamale/MarksMania/internal/api/handler"
	"github.com/KedarDamale/MarksMania/internal/api/middleware"
	"github.com/KedarDamale/MarksMania/internal/model"
	"github.com/KedarDamale/MarksMania/pkg/jwt"
	"github.com/KedarDamale/MarksMania/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 可为 nil（不启用黑名单与限流）
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 / 指标 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		// 认证模块（无需认证）
		api.POST("/auth/login", h.Auth.Login)

		// 需要认证的路由；关闭认证时仅用于本地开发
		authorized := api.Group("")
		if cfg.Feature.RequireAuth {
			authorized.Use(middleware.JWTAuth(jwtMgr, rdb, logger))
		}
		authorized.Use(middleware.WriteRateLimit(rdb, cfg.Feature.WriteRateLimit))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// 学生模块
			students := authorized.Group("/students")
			{
				students.POST("", h.Student.Create)
				students.GET("", h.Student.List)
				students.PUT("/:id", h.Student.Update)
				students.DELETE("/:id", h.Student.Delete)
				students.POST("/import", adminOnly(cfg), h.Student.Import)
			}

			// 科目模块
			subjects := authorized.Group("/subjects")
			{
				subjects.POST("", h.Subject.Create)
				subjects.GET("", h.Subject.List)
				subjects.PUT("/:id", h.Subject.Update)
				subjects.DELETE("/:id", h.Subject.Delete)
			}

			// 成绩模块
			marks := authorized.Group("/marks")
			{
				marks.POST("", h.Marks.Create)
				marks.POST("/batch", h.Marks.CreateBatch)
				marks.GET("/:studentId", h.Marks.ListByStudent)
				marks.PUT("/:id", h.Marks.Update)
				marks.DELETE("/:id", h.Marks.Delete)
			}

			// 成绩单与统计
			authorized.GET("/results", h.Stats.Results)
			authorized.GET("/stats", h.Stats.Summary)

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/results", h.Export.ExportResults)
				export.GET("/students", h.Export.ExportStudents)
				export.GET("/subjects", h.Export.ExportSubjects)
			}
		}
	}

	return r
}

// adminOnly 认证开启时要求管理员角色
func adminOnly(cfg *config.Config) gin.HandlerFunc {
	if !cfg.Feature.RequireAuth {
		return func(c *gin.Context) { c.Next() }
	}
	return middleware.RoleAuth(model.RoleAdmin)
}
