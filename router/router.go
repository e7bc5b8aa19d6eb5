package router

import (
	"time"

	"financetracker/api"
	"financetracker/config"
	_ "financetracker/docs"
	"financetracker/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	// CORS 中间件
	r.Use(CORSMiddleware())

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiGroup := r.Group("/api")
	{
		// 认证相关路由（无需登录，带限流）
		authHandler := api.NewAuthHandler(cfg)
		auth := apiGroup.Group("/auth")
		auth.Use(middleware.LoginRateLimit(10, time.Minute))
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// 需要 JWT 认证的路由
		authorized := apiGroup.Group("")
		authorized.Use(middleware.JWTAuth())
		{
			authorized.GET("/auth/profile", authHandler.GetProfile)

			// 档案相关
			profileHandler := api.NewProfileHandler()
			profiles := authorized.Group("/profiles")
			{
				profiles.POST("", profileHandler.Create)
				profiles.GET("", profileHandler.List)
				profiles.PUT("/:id", profileHandler.Update)
				profiles.DELETE("/:id", profileHandler.Delete)

				// 档案下的资产快照
				entryHandler := api.NewEntryHandler()
				entries := profiles.Group("/:id/entries")
				{
					entries.GET("", entryHandler.List)
					entries.POST("", entryHandler.Create)
					entries.GET("/latest", entryHandler.Latest)
					entries.GET("/dates", entryHandler.Dates)
					entries.GET("/by-date", entryHandler.ByDate)
					entries.GET("/before-date", entryHandler.BeforeDate)

					exportHandler := api.NewExportHandler()
					entries.GET("/export/csv", exportHandler.ExportCSV)
					entries.GET("/export/excel", exportHandler.ExportExcel)
				}
			}

			// 用户审批（仅管理员）
			adminHandler := api.NewAdminHandler(cfg)
			admin := authorized.Group("/admin")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/users/pending", adminHandler.PendingUsers)
				admin.GET("/profiles", adminHandler.AllProfiles)
				admin.POST("/users/:id/approve", adminHandler.Approve)
				admin.POST("/users/:id/reject", adminHandler.Reject)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
