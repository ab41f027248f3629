// internal/app/app.go
package app

import (
	"fmt"

	"github.com/Corphon/ScenarioBuilder/internal/api"
	"github.com/Corphon/ScenarioBuilder/internal/config"
	"github.com/Corphon/ScenarioBuilder/internal/di"
	"github.com/Corphon/ScenarioBuilder/internal/services"
	"github.com/Corphon/ScenarioBuilder/internal/storage"
	"github.com/Corphon/ScenarioBuilder/internal/utils"

	// 注册LLM提供商
	_ "github.com/Corphon/ScenarioBuilder/internal/llm/providers/anthropic"
	_ "github.com/Corphon/ScenarioBuilder/internal/llm/providers/openai"
)

// InitServices 按依赖顺序初始化所有服务并注册到容器
// 必须在 config.InitConfig 之后调用
func InitServices() error {
	cfg := config.GetCurrentConfig()
	if cfg == nil {
		return fmt.Errorf("配置系统未初始化")
	}

	container := di.GetContainer()
	logger := utils.GetLogger()

	// 1. 存储层
	fileStorage, err := storage.NewFileStorage(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("初始化文件存储失败: %w", err)
	}
	container.Register("storage", fileStorage)

	// 2. 项目数据服务
	projectService := services.NewProjectService(fileStorage)
	container.Register("project", projectService)

	// 3. LLM服务（配置缺失时降级为未就绪，不阻塞启动）
	llmService, err := services.NewLLMService()
	if err != nil || llmService == nil {
		logger.Warnf("LLM服务初始化异常，使用后备服务: %v", err)
		llmService = services.NewEmptyLLMService()
	}
	if !llmService.IsReady() {
		logger.Warnf("LLM服务未就绪: %s", llmService.GetReadyState())
	}
	container.Register("llm", llmService)

	// 4. 情景生成服务
	scenarioService := services.NewScenarioService(llmService)
	container.Register("scenario", scenarioService)

	// 5. 导出服务
	exportService := services.NewExportService(projectService)
	container.Register("export", exportService)

	// 6. 会话服务，挂接WebSocket事件推送
	sessionService := services.NewSessionService(projectService, scenarioService, exportService)
	sessionService.SetNotifier(api.NewSessionEventHub())
	container.Register("session", sessionService)

	// 7. 配置服务，LLM服务订阅提供商变更
	configService := services.NewConfigService()
	configService.Subscribe(llmService)
	container.Register("config", configService)

	logger.Infof("服务初始化完成，共注册 %d 个服务", len(container.GetNames()))
	return nil
}
