// internal/api/router.go
package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Corphon/ScenarioBuilder/internal/config"
	"github.com/Corphon/ScenarioBuilder/internal/di"
	"github.com/Corphon/ScenarioBuilder/internal/services"
)

// SetupRouter 设置API路由
// 只从容器中获取服务，不创建服务
func SetupRouter() (*gin.Engine, error) {
	container := di.GetContainer()

	sessionService, ok := container.Get("session").(*services.SessionService)
	if !ok || sessionService == nil {
		return nil, fmt.Errorf("会话服务未注册或类型错误")
	}

	projectService, ok := container.Get("project").(*services.ProjectService)
	if !ok || projectService == nil {
		return nil, fmt.Errorf("项目服务未注册或类型错误")
	}

	configService, ok := container.Get("config").(*services.ConfigService)
	if !ok || configService == nil {
		return nil, fmt.Errorf("配置服务未注册或类型错误")
	}

	llmService, ok := container.Get("llm").(*services.LLMService)
	if !ok || llmService == nil {
		return nil, fmt.Errorf("LLM服务未注册或类型错误")
	}

	handler := NewHandler(sessionService, projectService, configService, llmService)

	cfg := config.GetCurrentConfig()
	if cfg != nil && !cfg.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(corsMiddleware())
	router.Use(RequestIDMiddleware())

	return setupRoutes(router, handler), nil
}

// setupRoutes 注册全部路由
func setupRoutes(router *gin.Engine, handler *Handler) *gin.Engine {
	router.GET("/api/health", handler.HealthCheck)

	// WebSocket 事件流
	router.GET("/ws/sessions/:id", handler.SessionWebSocket)
	router.GET("/api/ws/status", handler.GetWebSocketStatus)

	api := router.Group("/api")
	api.Use(DefaultRateLimit())
	{
		sessions := api.Group("/sessions")
		{
			sessions.POST("", handler.CreateSession)
			sessions.GET("/:id", handler.GetSession)
			sessions.DELETE("/:id", handler.DeleteSession)

			// 向导步进
			sessions.POST("/:id/mode", handler.ChooseMode)
			sessions.POST("/:id/next", handler.NextStep)
			sessions.POST("/:id/back", handler.BackStep)
			sessions.POST("/:id/reset", handler.ResetSession)

			// 表单数据
			sessions.POST("/:id/project", handler.UpdateProject)
			sessions.POST("/:id/optional", handler.ApplyOptional)
			sessions.POST("/:id/load-existing", handler.LoadExisting)

			// 情景生成（LLM调用单独限流）
			scenario := sessions.Group("/:id/scenario")
			scenario.Use(GenerationRateLimit())
			{
				scenario.POST("/options", handler.GenerateScenarioOptions)
				scenario.POST("/select", handler.SelectScenario)
				scenario.POST("/description", handler.SetScenarioDescription)
				scenario.POST("/refine", handler.RefineScenario)
				scenario.POST("/vibe", handler.GenerateVibe)
			}

			// 屏幕管理
			sessions.POST("/:id/screens", handler.PopulateScreens)
			sessions.POST("/:id/screens/add", handler.AddScreen)
			sessions.PUT("/:id/screens/:number", handler.UpdateScreen)
			sessions.DELETE("/:id/screens/:number", handler.RemoveScreen)
			sessions.POST("/:id/screens/:number/image-description", handler.GenerateImageDescription)

			// 导出
			sessions.POST("/:id/export", handler.ExportSession)
		}

		// 课程浏览
		api.GET("/courses", handler.ListCourses)
		api.GET("/courses/:course/modules", handler.ListModules)

		// 设置
		api.GET("/settings", handler.GetSettings)
		api.POST("/settings", handler.UpdateSettings)

		// LLM 状态
		api.GET("/llm/status", handler.GetLLMStatus)
		api.GET("/llm/models", handler.GetLLMModels)
	}

	return router
}

// corsMiddleware CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
