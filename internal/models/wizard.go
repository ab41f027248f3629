// internal/models/wizard.go
package models

// Step 向导步骤标识
// 采用规范枚举（0, 0.5, 1, 2, 3, 4, 7~10）；历史上的六步编号方案已废弃
type Step float64

const (
	StepInitialSelection Step = 0   // 选择工作模式
	StepExistingContent  Step = 0.5 // 选择既有课程/模块
	StepProjectSetup     Step = 1   // 填写项目信息（必填字段校验）
	StepReviewSave       Step = 2   // 审阅并保存配置
	StepNextPhase        Step = 3   // 进入生成阶段的过渡页
	StepScenarioGen      Step = 4   // 场景生成入口
	StepScenarioDesc     Step = 7   // 场景描述生成
	StepScreenMgmt       Step = 8   // 画面管理
	StepImageDesc        Step = 9   // 图像描述生成
	StepFinalReview      Step = 10  // 最终审阅与导出
)

// String 返回步骤的可读名称
func (s Step) String() string {
	switch s {
	case StepInitialSelection:
		return "INITIAL_SELECTION"
	case StepExistingContent:
		return "EXISTING_CONTENT"
	case StepProjectSetup:
		return "PROJECT_SETUP"
	case StepReviewSave:
		return "REVIEW_SAVE"
	case StepNextPhase:
		return "NEXT_PHASE"
	case StepScenarioGen:
		return "SCENARIO_GEN"
	case StepScenarioDesc:
		return "SCENARIO_DESC"
	case StepScreenMgmt:
		return "SCREEN_MGMT"
	case StepImageDesc:
		return "IMAGE_DESC"
	case StepFinalReview:
		return "FINAL_REVIEW"
	default:
		return "UNKNOWN"
	}
}

// IsValid 检查是否为已定义的步骤
func (s Step) IsValid() bool {
	switch s {
	case StepInitialSelection, StepExistingContent, StepProjectSetup,
		StepReviewSave, StepNextPhase, StepScenarioGen,
		StepScenarioDesc, StepScreenMgmt, StepImageDesc, StepFinalReview:
		return true
	}
	return false
}

// WorkflowMode 会话的工作模式
type WorkflowMode string

const (
	ModeUnset       WorkflowMode = ""
	ModeNewProject  WorkflowMode = "new_project"
	ModeUseExisting WorkflowMode = "use_existing"
)

// WizardState 向导状态
type WizardState struct {
	CurrentStep Step         `json:"current_step"`
	Mode        WorkflowMode `json:"mode"`
}

// NewWizardState 创建初始向导状态
func NewWizardState() WizardState {
	return WizardState{
		CurrentStep: StepInitialSelection,
		Mode:        ModeUnset,
	}
}
