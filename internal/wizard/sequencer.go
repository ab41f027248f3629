// internal/wizard/sequencer.go
package wizard

import (
	"github.com/Corphon/ScenarioBuilder/internal/models"
)

// StepContext 步骤转移所需的上下文
// 显式传入，向导核心不依赖任何全局状态
type StepContext struct {
	Form     *models.FormData
	Scenario *models.ScenarioData
}

// TransitionResult 一次转移的结果
// Rejected 为 true 时表示停留原地，FieldErrors/Reason 说明原因
type TransitionResult struct {
	From        models.Step       `json:"from"`
	To          models.Step       `json:"to"`
	Rejected    bool              `json:"rejected"`
	Reason      string            `json:"reason,omitempty"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
}

// Sequencer 向导步骤状态机
// 每个会话独占一个实例，转移由用户动作逐一触发
type Sequencer struct {
	state models.WizardState
}

// NewSequencer 创建位于初始选择步骤的状态机
func NewSequencer() *Sequencer {
	return &Sequencer{state: models.NewWizardState()}
}

// State 返回当前向导状态的副本
func (s *Sequencer) State() models.WizardState {
	return s.state
}

// Current 返回当前步骤
func (s *Sequencer) Current() models.Step {
	return s.state.CurrentStep
}

// Mode 返回当前工作模式
func (s *Sequencer) Mode() models.WorkflowMode {
	return s.state.Mode
}

// StartNewProject 初始选择：创建新项目
func (s *Sequencer) StartNewProject() TransitionResult {
	if s.state.CurrentStep != models.StepInitialSelection {
		return s.reject("只能在初始选择步骤选取工作模式")
	}

	from := s.state.CurrentStep
	s.state.Mode = models.ModeNewProject
	s.state.CurrentStep = models.StepProjectSetup
	return TransitionResult{From: from, To: s.state.CurrentStep}
}

// StartExisting 初始选择：使用既有内容
func (s *Sequencer) StartExisting() TransitionResult {
	if s.state.CurrentStep != models.StepInitialSelection {
		return s.reject("只能在初始选择步骤选取工作模式")
	}

	from := s.state.CurrentStep
	s.state.Mode = models.ModeUseExisting
	s.state.CurrentStep = models.StepExistingContent
	return TransitionResult{From: from, To: s.state.CurrentStep}
}

// Next 处理"下一步"动作
// PROJECT_SETUP 的前进在必填字段缺失时被拒绝并给出字段级提示；
// SCREEN_MGMT 的前进在任一画面未完成时被拒绝；
// EXISTING_CONTENT 加载成功后直接跳到 NEXT_PHASE
func (s *Sequencer) Next(ctx StepContext) TransitionResult {
	from := s.state.CurrentStep

	switch from {
	case models.StepInitialSelection:
		return s.reject("请先选择工作模式")

	case models.StepExistingContent:
		if ctx.Form == nil || !ctx.Form.IsComplete() {
			return s.reject("尚未加载既有内容")
		}
		return s.advanceTo(models.StepNextPhase)

	case models.StepProjectSetup:
		if ctx.Form == nil {
			return s.reject("表单数据缺失")
		}
		if errs := ctx.Form.RequiredFieldErrors(); len(errs) > 0 {
			return TransitionResult{
				From:        from,
				To:          from,
				Rejected:    true,
				Reason:      "必填字段未填写完整",
				FieldErrors: errs,
			}
		}
		return s.advanceTo(models.StepReviewSave)

	case models.StepReviewSave:
		return s.advanceTo(models.StepNextPhase)

	case models.StepNextPhase:
		return s.advanceTo(models.StepScenarioGen)

	case models.StepScenarioGen:
		return s.advanceTo(models.StepScenarioDesc)

	case models.StepScenarioDesc:
		if ctx.Scenario == nil || ctx.Scenario.ScenarioDescription == "" {
			return s.reject("场景描述尚未生成")
		}
		return s.advanceTo(models.StepScreenMgmt)

	case models.StepScreenMgmt:
		if ctx.Scenario == nil || !ctx.Scenario.AllScreensComplete() {
			return s.reject("所有画面的说明文字填写完毕后才能继续")
		}
		return s.advanceTo(models.StepImageDesc)

	case models.StepImageDesc:
		return s.advanceTo(models.StepFinalReview)

	case models.StepFinalReview:
		return s.reject("最终审阅通过导出动作结束会话")
	}

	return s.reject("未知步骤")
}

// Back 处理"上一步"动作
// 既有内容模式下 NEXT_PHASE 回退到 EXISTING_CONTENT（跳过的步骤不回放）
func (s *Sequencer) Back() TransitionResult {
	from := s.state.CurrentStep

	switch from {
	case models.StepInitialSelection:
		return s.reject("已在初始步骤")

	case models.StepExistingContent, models.StepProjectSetup:
		s.state.Mode = models.ModeUnset
		return s.advanceTo(models.StepInitialSelection)

	case models.StepReviewSave:
		return s.advanceTo(models.StepProjectSetup)

	case models.StepNextPhase:
		if s.state.Mode == models.ModeUseExisting {
			return s.advanceTo(models.StepExistingContent)
		}
		return s.advanceTo(models.StepReviewSave)

	case models.StepScenarioGen:
		return s.advanceTo(models.StepNextPhase)

	case models.StepScenarioDesc:
		return s.advanceTo(models.StepScenarioGen)

	case models.StepScreenMgmt:
		return s.advanceTo(models.StepScenarioDesc)

	case models.StepImageDesc:
		return s.advanceTo(models.StepScreenMgmt)

	case models.StepFinalReview:
		return s.advanceTo(models.StepImageDesc)
	}

	return s.reject("未知步骤")
}

// CompleteExport 最终审阅的导出动作完成后，会话回到初始选择
func (s *Sequencer) CompleteExport() TransitionResult {
	if s.state.CurrentStep != models.StepFinalReview {
		return s.reject("只有最终审阅步骤可以执行导出收尾")
	}

	from := s.state.CurrentStep
	s.state = models.NewWizardState()
	return TransitionResult{From: from, To: s.state.CurrentStep}
}

// Reset 无条件回到初始选择步骤
func (s *Sequencer) Reset() {
	s.state = models.NewWizardState()
}

// ResumeAt 既有内容加载后直接定位到检测出的步骤
// 仅允许恢复到场景阶段之内的步骤
func (s *Sequencer) ResumeAt(step models.Step) bool {
	switch step {
	case models.StepNextPhase, models.StepScenarioGen, models.StepScenarioDesc,
		models.StepScreenMgmt, models.StepImageDesc, models.StepFinalReview:
		s.state.CurrentStep = step
		return true
	}
	return false
}

// advanceTo 执行一次成功转移
func (s *Sequencer) advanceTo(to models.Step) TransitionResult {
	from := s.state.CurrentStep
	s.state.CurrentStep = to
	return TransitionResult{From: from, To: to}
}

// reject 停留原地并返回原因
func (s *Sequencer) reject(reason string) TransitionResult {
	return TransitionResult{
		From:     s.state.CurrentStep,
		To:       s.state.CurrentStep,
		Rejected: true,
		Reason:   reason,
	}
}
