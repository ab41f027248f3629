// internal/api/handlers.go
package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Corphon/ScenarioBuilder/internal/llm"
	"github.com/Corphon/ScenarioBuilder/internal/models"
	"github.com/Corphon/ScenarioBuilder/internal/services"
	"github.com/Corphon/ScenarioBuilder/internal/wizard"
)

// Handler API处理器结构
type Handler struct {
	SessionService *services.SessionService
	ProjectService *services.ProjectService
	ConfigService  *services.ConfigService
	LLMService     *services.LLMService

	Response *ResponseHelper
}

// NewHandler 创建API处理器
func NewHandler(
	sessionService *services.SessionService,
	projectService *services.ProjectService,
	configService *services.ConfigService,
	llmService *services.LLMService,
) *Handler {
	return &Handler{
		SessionService: sessionService,
		ProjectService: projectService,
		ConfigService:  configService,
		LLMService:     llmService,
		Response:       NewResponseHelper(),
	}
}

// handleSessionError 把会话层错误映射为HTTP响应
func (h *Handler) handleSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		h.Response.Error(c, http.StatusNotFound, ErrCodeSessionNotFound, err.Error())
	case errors.Is(err, services.ErrLLMNotReady):
		h.Response.Error(c, http.StatusServiceUnavailable, ErrCodeLLMNotReady, "AI服务未就绪，请先在设置中配置API密钥")
	case errors.Is(err, services.ErrEmptyInstructions):
		h.Response.Error(c, http.StatusBadRequest, ErrCodeEmptyInstruction, err.Error())
	default:
		h.Response.Error(c, http.StatusBadGateway, ErrCodeGenerationFailed, err.Error())
	}
}

// transitionData 把状态机转移结果和最新快照打包进响应
func transitionData(snapshot *services.SessionSnapshot, result wizard.TransitionResult) gin.H {
	return gin.H{
		"transition": result,
		"session":    snapshot,
	}
}

// === 会话生命周期 ===

// CreateSession 创建新的向导会话
// POST /api/sessions
func (h *Handler) CreateSession(c *gin.Context) {
	var req struct {
		Mode models.WorkflowMode `json:"mode"`
	}
	// 请求体可为空：默认停在初始选择步骤
	_ = c.ShouldBindJSON(&req)

	snapshot := h.SessionService.CreateSession()

	if req.Mode != models.ModeUnset {
		updated, result, err := h.SessionService.ChooseMode(snapshot.SessionID, req.Mode)
		if err != nil {
			h.handleSessionError(c, err)
			return
		}
		h.Response.Created(c, transitionData(updated, result), "会话创建成功")
		return
	}

	h.Response.Created(c, gin.H{"session": snapshot}, "会话创建成功")
}

// GetSession 获取会话快照
// GET /api/sessions/:id
func (h *Handler) GetSession(c *gin.Context) {
	snapshot, err := h.SessionService.GetSession(c.Param("id"))
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	h.Response.Success(c, snapshot)
}

// DeleteSession 删除会话
// DELETE /api/sessions/:id
func (h *Handler) DeleteSession(c *gin.Context) {
	h.SessionService.DeleteSession(c.Param("id"))
	h.Response.Success(c, nil, "会话已删除")
}

// ChooseMode 在初始选择步骤选定工作模式
// POST /api/sessions/:id/mode
func (h *Handler) ChooseMode(c *gin.Context) {
	var req struct {
		Mode models.WorkflowMode `json:"mode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "无效的请求数据: "+err.Error())
		return
	}

	snapshot, result, err := h.SessionService.ChooseMode(c.Param("id"), req.Mode)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	h.Response.Success(c, transitionData(snapshot, result))
}

// NextStep 向导前进一步（校验当前步骤）
// POST /api/sessions/:id/next
func (h *Handler) NextStep(c *gin.Context) {
	snapshot, result, err := h.SessionService.Next(c.Param("id"))
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	// 校验失败不是HTTP错误：保持200，由 rejected 标志和字段错误说明原因
	h.Response.Success(c, transitionData(snapshot, result))
}

// BackStep 向导后退一步
// POST /api/sessions/:id/back
func (h *Handler) BackStep(c *gin.Context) {
	snapshot, result, err := h.SessionService.Back(c.Param("id"))
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	h.Response.Success(c, transitionData(snapshot, result))
}

// ResetSession 重置会话回初始选择步骤
// POST /api/sessions/:id/reset
func (h *Handler) ResetSession(c *gin.Context) {
	snapshot, err := h.SessionService.Reset(c.Param("id"))
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	h.Response.Success(c, snapshot, "会话已重置")
}

// === 表单数据 ===

// UpdateProject 写入项目设置步骤的表单字段
// POST /api/sessions/:id/project
func (h *Handler) UpdateProject(c *gin.Context) {
	var form models.FormData
	if err := c.ShouldBindJSON(&form); err != nil {
		h.Response.BadRequest(c, "无效的表单数据: "+err.Error())
		return
	}

	snapshot, err := h.SessionService.UpdateProjectFields(c.Param("id"), &form)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	h.Response.Success(c, snapshot, "表单已更新")
}

// ApplyOptional 应用可选字段的侧通道编辑（不改变当前步骤）
// POST /api/sessions/:id/optional
func (h *Handler) ApplyOptional(c *gin.Context) {
	var edits wizard.OptionalUpdates
	if err := c.ShouldBindJSON(&edits); err != nil {
		h.Response.BadRequest(c, "无效的编辑数据: "+err.Error())
		return
	}

	snapshot, err := h.SessionService.ApplyOptional(c.Param("id"), edits)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			h.handleSessionError(c, err)
			return
		}
		h.Response.Error(c, http.StatusConflict, ErrCodeStepBlocked, err.Error())
		return
	}

	h.Response.Success(c, snapshot, "可选信息已保存")
}

// LoadExisting 既有内容模式：加载已保存的课程/模块数据
// POST /api/sessions/:id/load-existing
func (h *Handler) LoadExisting(c *gin.Context) {
	var req struct {
		Course string `json:"course" binding:"required"`
		Module string `json:"module" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "必须同时指定课程和模块目录: "+err.Error())
		return
	}

	snapshot, err := h.SessionService.LoadExisting(c.Param("id"), req.Course, req.Module)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			h.handleSessionError(c, err)
			return
		}
		h.Response.Error(c, http.StatusNotFound, ErrCodeProjectNotFound, err.Error())
		return
	}

	h.Response.Success(c, snapshot, "已加载既有内容")
}

// === 情景生成 ===

// GenerateScenarioOptions 生成三个候选情景描述
// POST /api/sessions/:id/scenario/options
func (h *Handler) GenerateScenarioOptions(c *gin.Context) {
	snapshot, err := h.SessionService.GenerateScenarioOptions(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	h.Response.Success(c, snapshot, "候选情景生成完成")
}

// SelectScenario 选中候选情景，可附带手工编辑后的文本
// POST /api/sessions/:id/scenario/select
func (h *Handler) SelectScenario(c *gin.Context) {
	var req struct {
		Index      int    `json:"index"`
		EditedText string `json:"edited_text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "无效的请求数据: "+err.Error())
		return
	}

	snapshot, err := h.SessionService.SelectScenarioOption(c.Param("id"), req.Index, req.EditedText)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			h.handleSessionError(c, err)
			return
		}
		h.Response.Error(c, http.StatusBadRequest, ErrCodeInvalidOption, err.Error())
		return
	}

	h.Response.Success(c, snapshot, "情景已选定")
}

// SetScenarioDescription 直接覆写情景描述文本（手工编辑路径）
// POST /api/sessions/:id/scenario/description
func (h *Handler) SetScenarioDescription(c *gin.Context) {
	var req struct {
		Description string `json:"description" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "情景描述不能为空: "+err.Error())
		return
	}

	snapshot, err := h.SessionService.SelectScenarioOption(c.Param("id"), -1, req.Description)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	h.Response.Success(c, snapshot, "情景描述已更新")
}

// RefineScenario 按修改说明用AI改写当前情景描述
// POST /api/sessions/:id/scenario/refine
func (h *Handler) RefineScenario(c *gin.Context) {
	var req struct {
		Instructions string `json:"instructions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "无效的请求数据: "+err.Error())
		return
	}

	snapshot, err := h.SessionService.RefineScenario(c.Request.Context(), c.Param("id"), req.Instructions)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	h.Response.Success(c, snapshot, "情景改写完成")
}

// GenerateVibe 生成整体视觉基调
// POST /api/sessions/:id/scenario/vibe
func (h *Handler) GenerateVibe(c *gin.Context) {
	snapshot, err := h.SessionService.GenerateVibe(c.Param("id"))
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	h.Response.Success(c, snapshot, "视觉基调已生成")
}

// === 屏幕管理 ===

// PopulateScreens 填充屏幕序列
// POST /api/sessions/:id/screens
// num_screens > 0 时用AI重新生成；否则仅在无屏幕时填充默认序列
func (h *Handler) PopulateScreens(c *gin.Context) {
	var req struct {
		NumScreens int `json:"num_screens"`
	}
	_ = c.ShouldBindJSON(&req)

	var (
		snapshot *services.SessionSnapshot
		err      error
	)
	if req.NumScreens > 0 {
		snapshot, err = h.SessionService.GenerateScreens(c.Request.Context(), c.Param("id"), req.NumScreens)
	} else {
		snapshot, err = h.SessionService.EnsureScreens(c.Param("id"))
	}
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	h.Response.Success(c, snapshot, "屏幕序列已就绪")
}

// AddScreen 追加一个屏幕
// POST /api/sessions/:id/screens/add
func (h *Handler) AddScreen(c *gin.Context) {
	var req struct {
		Title   string `json:"title"`
		Caption string `json:"caption"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "无效的请求数据: "+err.Error())
		return
	}

	snapshot, err := h.SessionService.AddScreen(c.Param("id"), req.Title, req.Caption)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	h.Response.Success(c, snapshot, "屏幕已添加")
}

// UpdateScreen 编辑屏幕标题/说明文字
// PUT /api/sessions/:id/screens/:number
func (h *Handler) UpdateScreen(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		h.Response.BadRequest(c, "无效的屏幕编号")
		return
	}

	var req struct {
		Title   string `json:"title"`
		Caption string `json:"caption"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "无效的请求数据: "+err.Error())
		return
	}

	snapshot, err := h.SessionService.UpdateScreen(c.Param("id"), number, req.Title, req.Caption)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			h.handleSessionError(c, err)
			return
		}
		h.Response.Error(c, http.StatusNotFound, ErrCodeScreenNotFound, err.Error())
		return
	}

	h.Response.Success(c, snapshot, "屏幕已更新")
}

// RemoveScreen 删除屏幕并保持编号连续
// DELETE /api/sessions/:id/screens/:number
func (h *Handler) RemoveScreen(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		h.Response.BadRequest(c, "无效的屏幕编号")
		return
	}

	snapshot, err := h.SessionService.RemoveScreen(c.Param("id"), number)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			h.handleSessionError(c, err)
			return
		}
		h.Response.Error(c, http.StatusNotFound, ErrCodeScreenNotFound, err.Error())
		return
	}

	h.Response.Success(c, snapshot, "屏幕已删除")
}

// GenerateImageDescription 为指定屏幕生成图像提示词
// POST /api/sessions/:id/screens/:number/image-description
func (h *Handler) GenerateImageDescription(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		h.Response.BadRequest(c, "无效的屏幕编号")
		return
	}

	snapshot, err := h.SessionService.GenerateImageDescription(c.Param("id"), number)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			h.handleSessionError(c, err)
			return
		}
		h.Response.Error(c, http.StatusNotFound, ErrCodeScreenNotFound, err.Error())
		return
	}

	h.Response.Success(c, snapshot, "图像提示词已生成")
}

// === 导出 ===

// ExportSession 最终审阅步骤的导出动作
// POST /api/sessions/:id/export
func (h *Handler) ExportSession(c *gin.Context) {
	result, err := h.SessionService.Export(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			h.handleSessionError(c, err)
			return
		}
		h.Response.Error(c, http.StatusConflict, ErrCodeExportFailed, err.Error())
		return
	}

	h.Response.Success(c, result, "导出完成")
}

// === 课程浏览 ===

// ListCourses 列出数据目录下已保存的课程
// GET /api/courses
func (h *Handler) ListCourses(c *gin.Context) {
	courses, err := h.ProjectService.ListCourses()
	if err != nil {
		h.Response.Error(c, http.StatusInternalServerError, ErrCodeLoadFailed, err.Error())
		return
	}

	h.Response.Success(c, gin.H{"courses": courses, "count": len(courses)})
}

// ListModules 列出指定课程下的模块
// GET /api/courses/:course/modules
func (h *Handler) ListModules(c *gin.Context) {
	modules, err := h.ProjectService.ListModules(c.Param("course"))
	if err != nil {
		h.Response.Error(c, http.StatusNotFound, ErrCodeCourseNotFound, err.Error())
		return
	}

	h.Response.Success(c, gin.H{"modules": modules, "count": len(modules)})
}

// === 设置与LLM状态 ===

// GetSettings 获取当前LLM设置（不回传密钥）
// GET /api/settings
func (h *Handler) GetSettings(c *gin.Context) {
	cfg := h.ConfigService.GetCurrentConfig()

	llmConfig := make(map[string]string)
	for key, value := range cfg.LLMConfig {
		if key == "api_key" {
			if value != "" {
				llmConfig[key] = "sk-***"
			}
			continue
		}
		llmConfig[key] = value
	}

	h.Response.Success(c, gin.H{
		"provider":   cfg.LLMProvider,
		"llm_config": llmConfig,
		"debug_mode": cfg.DebugMode,
	})
}

// UpdateSettings 更新LLM提供商配置
// POST /api/settings
func (h *Handler) UpdateSettings(c *gin.Context) {
	var req struct {
		Provider string            `json:"provider" binding:"required"`
		Config   map[string]string `json:"config"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "无效的配置数据: "+err.Error())
		return
	}
	if req.Config == nil {
		req.Config = make(map[string]string)
	}

	if err := h.ConfigService.UpdateLLMConfig(req.Provider, req.Config); err != nil {
		h.Response.Error(c, http.StatusBadRequest, ErrCodeConfigError, err.Error())
		return
	}

	h.Response.Success(c, gin.H{
		"provider": req.Provider,
		"status":   h.LLMService.GetReadyState(),
	}, "配置已更新")
}

// GetLLMStatus 获取LLM服务就绪状态
// GET /api/llm/status
func (h *Handler) GetLLMStatus(c *gin.Context) {
	ready, state := h.LLMService.GetProviderStatus()

	h.Response.Success(c, gin.H{
		"ready":         ready,
		"state":         state,
		"provider":      h.LLMService.GetProviderName(),
		"default_model": h.LLMService.GetDefaultModel(),
	})
}

// GetLLMModels 列出已注册提供商及其支持的模型
// GET /api/llm/models
func (h *Handler) GetLLMModels(c *gin.Context) {
	providers := make(map[string][]string)
	for _, name := range llm.ListProviders() {
		providers[name] = llm.GetSupportedModelsForProvider(name)
	}

	h.Response.Success(c, gin.H{"providers": providers})
}

// HealthCheck 健康检查
// GET /api/health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"llm_ready": h.LLMService.IsReady(),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
