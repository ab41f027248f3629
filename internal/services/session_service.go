// internal/services/session_service.go
package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Corphon/ScenarioBuilder/internal/models"
	"github.com/Corphon/ScenarioBuilder/internal/wizard"
)

var ErrSessionNotFound = errors.New("会话不存在")

// SessionNotifier 会话事件通知（WebSocket事件中心实现）
type SessionNotifier interface {
	NotifySession(sessionID, event string, payload interface{})
}

// Session 一次向导会话：状态机、表单与情景数据的唯一属主
// 单线程交互语义由 mu 保证：同一时刻只有一个请求能修改会话
type Session struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	mu        sync.Mutex
	sequencer *wizard.Sequencer
	form      *models.FormData
	scenario  *models.ScenarioData
	options   []string

	// 既有内容模式下加载来源的目录名
	loadedCourseDir string
	loadedModuleDir string
}

// SessionSnapshot 会话状态快照（对外只读）
type SessionSnapshot struct {
	SessionID   string               `json:"session_id"`
	CurrentStep models.Step          `json:"current_step"`
	StepName    string               `json:"step_name"`
	Mode        models.WorkflowMode  `json:"mode"`
	Form        *models.FormData     `json:"form_data"`
	Scenario    *models.ScenarioData `json:"scenario_data,omitempty"`
	Options     []string             `json:"scenario_options,omitempty"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// SessionService 管理全部活动会话并编排各领域服务
type SessionService struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	projects  *ProjectService
	scenarios *ScenarioService
	exports   *ExportService
	notifier  SessionNotifier
}

// NewSessionService 创建会话服务
func NewSessionService(projects *ProjectService, scenarios *ScenarioService, exports *ExportService) *SessionService {
	return &SessionService{
		sessions:  make(map[string]*Session),
		projects:  projects,
		scenarios: scenarios,
		exports:   exports,
	}
}

// SetNotifier 注册会话事件通知器
func (s *SessionService) SetNotifier(notifier SessionNotifier) {
	s.notifier = notifier
}

func (s *SessionService) notify(sessionID, event string, payload interface{}) {
	if s.notifier != nil {
		s.notifier.NotifySession(sessionID, event, payload)
	}
}

// CreateSession 创建新会话，位于初始选择步骤
func (s *SessionService) CreateSession() *SessionSnapshot {
	session := &Session{
		ID:        newSessionID(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		sequencer: wizard.NewSequencer(),
		form:      models.NewFormData(),
		scenario:  models.NewScenarioData(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	return snapshot(session)
}

// GetSession 返回会话状态快照
func (s *SessionService) GetSession(sessionID string) (*SessionSnapshot, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	return snapshot(session), nil
}

// ChooseMode 初始选择步骤选取工作模式
func (s *SessionService) ChooseMode(sessionID string, mode models.WorkflowMode) (*SessionSnapshot, wizard.TransitionResult, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, wizard.TransitionResult{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	var result wizard.TransitionResult
	switch mode {
	case models.ModeNewProject:
		result = session.sequencer.StartNewProject()
	case models.ModeUseExisting:
		result = session.sequencer.StartExisting()
	default:
		return nil, wizard.TransitionResult{}, fmt.Errorf("未知工作模式: %s", mode)
	}

	s.afterTransition(session, result)
	return snapshot(session), result, nil
}

// Next 前进一步（带校验）
func (s *SessionService) Next(sessionID string) (*SessionSnapshot, wizard.TransitionResult, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, wizard.TransitionResult{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	// 审阅保存步骤的前进伴随一次配置落盘，保存失败时停留原地
	if session.sequencer.Current() == models.StepReviewSave && session.form.IsComplete() {
		if _, err := s.exports.ExportProject(session.form); err != nil {
			return nil, wizard.TransitionResult{}, err
		}
	}

	result := session.sequencer.Next(wizard.StepContext{Form: session.form, Scenario: session.scenario})
	s.afterTransition(session, result)
	return snapshot(session), result, nil
}

// Back 后退一步
func (s *SessionService) Back(sessionID string) (*SessionSnapshot, wizard.TransitionResult, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, wizard.TransitionResult{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	result := session.sequencer.Back()
	s.afterTransition(session, result)
	return snapshot(session), result, nil
}

// Reset 重置会话到初始选择，清空已收集的数据
func (s *SessionService) Reset(sessionID string) (*SessionSnapshot, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	session.sequencer.Reset()
	session.form = models.NewFormData()
	session.scenario = models.NewScenarioData()
	session.options = nil
	session.loadedCourseDir = ""
	session.loadedModuleDir = ""
	session.UpdatedAt = time.Now()

	s.notify(session.ID, "session_reset", nil)
	return snapshot(session), nil
}

// UpdateProjectFields 写入项目设置步骤采集的字段
func (s *SessionService) UpdateProjectFields(sessionID string, form *models.FormData) (*SessionSnapshot, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.sequencer.Current() != models.StepProjectSetup {
		return nil, fmt.Errorf("当前步骤 %s 不接受项目字段写入", session.sequencer.Current().String())
	}

	updated := form.Clone()
	updated.ApplyDefaults()
	session.form = updated
	session.UpdatedAt = time.Now()
	return snapshot(session), nil
}

// ApplyOptional 任意时刻补充可选细节（初始选择与既有内容步骤除外）
func (s *SessionService) ApplyOptional(sessionID string, edits wizard.OptionalUpdates) (*SessionSnapshot, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if !wizard.CanEditOptional(session.sequencer.Current()) {
		return nil, fmt.Errorf("当前步骤 %s 不接受可选细节编辑", session.sequencer.Current().String())
	}

	session.form = wizard.ApplyOptionalUpdates(session.form, edits)
	session.UpdatedAt = time.Now()
	return snapshot(session), nil
}

// LoadExisting 既有内容步骤：加载指定课程/模块并检测可恢复的步骤
// 加载失败是阻断性错误，不采用任何部分状态
func (s *SessionService) LoadExisting(sessionID, courseDir, moduleDir string) (*SessionSnapshot, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.sequencer.Current() != models.StepExistingContent {
		return nil, fmt.Errorf("当前步骤 %s 不能加载既有内容", session.sequencer.Current().String())
	}

	form, err := s.projects.LoadFormData(courseDir, moduleDir)
	if err != nil {
		return nil, err
	}

	session.form = form
	session.loadedCourseDir = courseDir
	session.loadedModuleDir = moduleDir

	// 恢复点检测：已有情景数据时直接定位到对应的子步骤
	resume := models.StepNextPhase
	if s.projects.HasScenarioData(courseDir, moduleDir) {
		if scenario, err := s.projects.LoadScenarioData(courseDir, moduleDir); err == nil {
			session.scenario = scenario
			switch {
			case len(scenario.Screens) > 0 && scenario.AllScreensComplete():
				resume = models.StepImageDesc
			case len(scenario.Screens) > 0:
				resume = models.StepScreenMgmt
			case scenario.ScenarioDescription != "":
				resume = models.StepScenarioDesc
			}
		}
	}

	session.sequencer.ResumeAt(resume)
	session.UpdatedAt = time.Now()

	s.notify(session.ID, "step_changed", session.sequencer.State())
	return snapshot(session), nil
}

// GenerateScenarioOptions 生成三个候选情景描述
func (s *SessionService) GenerateScenarioOptions(ctx context.Context, sessionID string) (*SessionSnapshot, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	options, err := s.scenarios.GenerateOptions(ctx, session.form)
	if err != nil {
		return nil, err
	}

	session.options = options
	session.UpdatedAt = time.Now()

	s.notify(session.ID, "generation_finished", map[string]interface{}{"artifact": "scenario_options"})
	return snapshot(session), nil
}

// SelectScenarioOption 选中候选情景（index 从 0 开始），可附带手工编辑后的文本
func (s *SessionService) SelectScenarioOption(sessionID string, index int, editedText string) (*SessionSnapshot, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	text := strings.TrimSpace(editedText)
	if text == "" {
		if index < 0 || index >= len(session.options) {
			return nil, fmt.Errorf("候选编号 %d 超出范围", index)
		}
		text = session.options[index]
	}

	if err := s.scenarios.SelectDescription(session.scenario, text); err != nil {
		return nil, err
	}

	session.UpdatedAt = time.Now()
	return snapshot(session), nil
}

// RefineScenario 按修改说明用AI改写当前情景描述
func (s *SessionService) RefineScenario(ctx context.Context, sessionID, instructions string) (*SessionSnapshot, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if err := s.scenarios.RefineDescription(ctx, session.form, session.scenario, instructions); err != nil {
		return nil, err
	}

	session.UpdatedAt = time.Now()
	s.notify(session.ID, "generation_finished", map[string]interface{}{"artifact": "scenario_description"})
	return snapshot(session), nil
}

// GenerateVibe 生成总体视觉基调
func (s *SessionService) GenerateVibe(sessionID string) (*SessionSnapshot, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	s.scenarios.GenerateVibe(session.form, session.scenario)
	session.UpdatedAt = time.Now()
	return snapshot(session), nil
}

// EnsureScreens 进入屏幕管理时填充默认屏幕（已有屏幕时无操作）
func (s *SessionService) EnsureScreens(sessionID string) (*SessionSnapshot, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	s.scenarios.EnsureDefaultScreens(session.form, session.scenario)
	session.UpdatedAt = time.Now()
	return snapshot(session), nil
}

// GenerateScreens 用AI重新生成屏幕序列（覆盖现有屏幕）
func (s *SessionService) GenerateScreens(ctx context.Context, sessionID string, numScreens int) (*SessionSnapshot, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if err := s.scenarios.GenerateScreens(ctx, session.form, session.scenario, numScreens); err != nil {
		return nil, err
	}

	session.UpdatedAt = time.Now()
	s.notify(session.ID, "generation_finished", map[string]interface{}{"artifact": "screens"})
	return snapshot(session), nil
}

// AddScreen 追加屏幕（编号自动取下一个连续值）
func (s *SessionService) AddScreen(sessionID, title, caption string) (*SessionSnapshot, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	session.scenario.AddScreen(title, caption)
	session.UpdatedAt = time.Now()
	return snapshot(session), nil
}

// RemoveScreen 删除屏幕并保持编号从1连续
func (s *SessionService) RemoveScreen(sessionID string, number int) (*SessionSnapshot, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if !session.scenario.RemoveScreen(number) {
		return nil, fmt.Errorf("屏幕 %d 不存在", number)
	}

	session.UpdatedAt = time.Now()
	return snapshot(session), nil
}

// UpdateScreen 编辑屏幕标题/说明文字
func (s *SessionService) UpdateScreen(sessionID string, number int, title, caption string) (*SessionSnapshot, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	screen := session.scenario.FindScreen(number)
	if screen == nil {
		return nil, fmt.Errorf("屏幕 %d 不存在", number)
	}

	if title != "" {
		screen.Title = title
	}
	screen.CaptionDescription = caption
	session.UpdatedAt = time.Now()
	return snapshot(session), nil
}

// GenerateImageDescription 为指定屏幕生成图像提示词
func (s *SessionService) GenerateImageDescription(sessionID string, number int) (*SessionSnapshot, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if err := s.scenarios.GenerateImageDescription(session.form, session.scenario, number); err != nil {
		return nil, err
	}

	session.UpdatedAt = time.Now()
	return snapshot(session), nil
}

// Export 最终审阅步骤的导出动作，成功后会话回到初始选择
func (s *SessionService) Export(sessionID string) (*models.ExportResult, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.sequencer.Current() != models.StepFinalReview {
		return nil, fmt.Errorf("当前步骤 %s 不能执行最终导出", session.sequencer.Current().String())
	}

	result, err := s.exports.ExportAll(session.form, session.scenario)
	if err != nil {
		return nil, err
	}

	session.sequencer.CompleteExport()
	session.form = models.NewFormData()
	session.scenario = models.NewScenarioData()
	session.options = nil
	session.UpdatedAt = time.Now()

	s.notify(session.ID, "export_finished", result)
	return result, nil
}

// DeleteSession 删除会话
func (s *SessionService) DeleteSession(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

func (s *SessionService) lookup(sessionID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, exists := s.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// afterTransition 成功转移后更新时间戳并推送事件
func (s *SessionService) afterTransition(session *Session, result wizard.TransitionResult) {
	if result.Rejected {
		return
	}
	session.UpdatedAt = time.Now()
	s.notify(session.ID, "step_changed", result)
}

// snapshot 构造只读快照（调用方需持有会话锁）
func snapshot(session *Session) *SessionSnapshot {
	return &SessionSnapshot{
		SessionID:   session.ID,
		CurrentStep: session.sequencer.Current(),
		StepName:    session.sequencer.Current().String(),
		Mode:        session.sequencer.Mode(),
		Form:        session.form.Clone(),
		Scenario:    session.scenario.Clone(),
		Options:     append([]string(nil), session.options...),
		UpdatedAt:   session.UpdatedAt,
	}
}

// newSessionID 生成随机会话ID
func newSessionID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("session_%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}
