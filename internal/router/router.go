package router

import (
	"fmt"
	"strings"

	"github.com/fintechful/agent-portal/internal/cache"
	"github.com/fintechful/agent-portal/internal/config"
	"github.com/fintechful/agent-portal/internal/constants"
	adminhandlers "github.com/fintechful/agent-portal/internal/http/handlers/admin"
	portalhandlers "github.com/fintechful/agent-portal/internal/http/handlers/portal"
	publichandlers "github.com/fintechful/agent-portal/internal/http/handlers/public"
	"github.com/fintechful/agent-portal/internal/logger"
	"github.com/fintechful/agent-portal/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按公开/门户/后台分组）
	publicHandler := publichandlers.New(c)
	portalHandler := portalhandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = constants.RedisPrefixDefault
	}
	redisClient := cache.Client()
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "登录尝试过于频繁",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	r.Use(TenantMiddleware(cfg.Tenant))

	api := r.Group("/api")
	{
		// 公开接口：门店主页按子域解析，无需登录
		api.GET("/healthz", publicHandler.Healthz)
		api.GET("/storefront", publicHandler.GetStorefront)
		api.GET("/storefront/:subdomain", publicHandler.GetStorefrontBySubdomain)

		// 代理门户接口（需 Clerk 会话）
		portal := api.Group("/portal")
		portal.Use(ClerkSessionMiddleware(c.SessionVerifier))
		{
			portal.GET("/me", portalHandler.GetMe)
			portal.PUT("/me", portalHandler.UpdateMe)
			portal.GET("/dashboard", portalHandler.GetDashboard)
			portal.GET("/commissions", portalHandler.GetCommissions)
			portal.GET("/earnings", portalHandler.GetEarnings)
			portal.GET("/earnings/monthly", portalHandler.GetMonthlyEarnings)
			portal.GET("/referrals", portalHandler.GetReferrals)
			portal.GET("/smbs", portalHandler.GetSMBs)
			portal.POST("/smbs", portalHandler.RegisterSMB)
			portal.GET("/payouts", portalHandler.GetPayouts)
		}

		// 管理员接口
		admin := api.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIPAndJSONField("username")), adminHandler.AdminLogin)

			// 需要鉴权的接口
			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo), AdminRBACMiddleware(c.AuthzService))
			{
				authorized.POST("/logout", adminHandler.AdminLogout)
				authorized.PUT("/password", adminHandler.AdminChangePassword)

				// 平台概览
				authorized.GET("/overview", adminHandler.GetAdminOverview)

				// 代理管理
				authorized.GET("/agents", adminHandler.GetAdminAgents)
				authorized.GET("/agents/:id", adminHandler.GetAdminAgent)
				authorized.POST("/agents", adminHandler.CreateAdminAgent)
				authorized.PUT("/agents/:id", adminHandler.UpdateAdminAgent)

				// 佣金管理
				authorized.GET("/commissions", adminHandler.GetAdminCommissions)
				authorized.GET("/commissions/export", adminHandler.ExportAdminCommissions)
				authorized.GET("/commissions/:id", adminHandler.GetAdminCommission)
				authorized.POST("/commissions", adminHandler.CreateAdminCommission)
				authorized.PUT("/commissions/:id", adminHandler.UpdateAdminCommission)
				authorized.PATCH("/commissions/:id/status", adminHandler.UpdateAdminCommissionStatus)
				authorized.POST("/commissions/bulk-status", adminHandler.BulkUpdateAdminCommissionStatus)
				authorized.POST("/commissions/bulk-delete", adminHandler.BulkDeleteAdminCommissions)
				authorized.POST("/commissions/import", adminHandler.ImportAdminCommissions)

				// 商户管理
				authorized.GET("/smbs", adminHandler.GetAdminSMBs)
				authorized.PUT("/smbs/:id", adminHandler.UpdateAdminSMB)

				// 打款记录
				authorized.GET("/payouts", adminHandler.GetAdminPayouts)
				authorized.POST("/payouts", adminHandler.CreateAdminPayout)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
