package router

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"

	"CommunitySpaces/config"
	"CommunitySpaces/internal/handler"
	"CommunitySpaces/internal/middleware"
)

func Register(h *server.Hertz) {
	h.Use(middleware.RecoverMiddleware())
	h.Use(middleware.CORSMiddleware())
	h.Use(middleware.OpenTelemetryMiddleware())
	h.Use(middleware.SessionMiddleware())
	if config.Cfg.CSRFEnabled {
		h.Use(middleware.CSRFMiddleware())
	}
	if config.Cfg.RateLimitEnabled {
		h.Use(middleware.GeneralRateLimitMiddleware())
	}

	h.GET("/healthz", func(ctx context.Context, c *app.RequestContext) {
		c.String(200, "ok")
	})

	v1 := h.Group("/v1")

	// 新用户引导，完成前无需登录
	onboarding := v1.Group("/onboarding")
	{
		onboarding.POST("", middleware.OnboardingStartRateLimitMiddleware(), handler.StartOnboarding)
		onboarding.GET("/:session_id", handler.GetOnboardingProgress)
		onboarding.PATCH("/:session_id/draft", handler.MergeOnboardingDraft)
		onboarding.POST("/:session_id/interests/toggle", handler.ToggleOnboardingInterest)
		onboarding.POST("/:session_id/spaces/toggle", handler.ToggleOnboardingSpace)
		onboarding.POST("/:session_id/advance", handler.AdvanceOnboarding)
		onboarding.POST("/:session_id/retreat", handler.RetreatOnboarding)
		onboarding.POST("/:session_id/cancel", handler.CancelOnboarding)
		onboarding.POST("/:session_id/cancel/confirm", handler.ConfirmCancelOnboarding)
		onboarding.POST("/:session_id/cancel/dismiss", handler.DismissCancelOnboarding)
		onboarding.POST("/:session_id/finish", handler.FinishOnboarding)
	}

	// 认证相关路由
	auth := v1.Group("/auth")
	{
		auth.POST("/token/refresh", middleware.AuthRateLimitMiddleware(), handler.RefreshToken)
		auth.POST("/logout", middleware.AuthMiddleware(), handler.Logout)
	}

	// 公开目录
	v1.GET("/spaces", handler.ListSpaces)
	v1.GET("/spaces/:space_id", handler.GetSpace)
	v1.GET("/interests", handler.ListInterests)
	v1.GET("/profiles/:handle", handler.GetProfile)
	v1.GET("/projects", handler.ListProjects)
	v1.GET("/projects/:project_id", handler.GetProject)

	// 需要登录
	me := v1.Group("/me")
	me.Use(middleware.AuthMiddleware())
	{
		me.GET("", handler.GetMyProfile)
		me.PUT("", handler.UpdateMyProfile)
		me.GET("/projects", handler.ListMyProjects)
		me.POST("/projects", middleware.ProjectWriteRateLimitMiddleware(), handler.CreateProject)
		me.PUT("/projects/:project_id", middleware.ProjectWriteRateLimitMiddleware(), handler.UpdateProject)
		me.DELETE("/projects/:project_id", handler.DeleteProject)
	}
}
