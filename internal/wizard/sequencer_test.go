// internal/wizard/sequencer_test.go
package wizard

import (
	"testing"

	"github.com/Corphon/ScenarioBuilder/internal/models"
)

// completeForm 构造五个必填字段齐全的表单
func completeForm() *models.FormData {
	form := models.NewFormData()
	form.Course.CourseTitle = "Intro to Biology"
	form.Project.ModuleTitle = "Cells"
	form.Project.ProjectTitle = "Build a Cell Model"
	form.Project.ProjectGoal = "Understand organelle function"
	form.Audience.StudentDescription = "10th grade biology students"
	return form
}

// completeScenario 构造全部画面完成的场景数据
func completeScenario() *models.ScenarioData {
	sd := models.NewScenarioData()
	sd.ScenarioDescription = "A realistic classroom challenge."
	sd.AddScreen("Intro", "Welcome screen")
	sd.AddScreen("Problem", "The core problem")
	return sd
}

// TestNewSequencer 测试初始状态
func TestNewSequencer(t *testing.T) {
	seq := NewSequencer()

	if seq.Current() != models.StepInitialSelection {
		t.Errorf("初始步骤应为 INITIAL_SELECTION，实际: %s", seq.Current())
	}
	if seq.Mode() != models.ModeUnset {
		t.Errorf("初始模式应为空，实际: %s", seq.Mode())
	}
}

// TestStartNewProject 测试新建项目入口
func TestStartNewProject(t *testing.T) {
	seq := NewSequencer()

	result := seq.StartNewProject()
	if result.Rejected {
		t.Fatalf("新建项目不应被拒绝: %s", result.Reason)
	}
	if seq.Current() != models.StepProjectSetup {
		t.Errorf("新建项目应进入 PROJECT_SETUP，实际: %s", seq.Current())
	}
	if seq.Mode() != models.ModeNewProject {
		t.Errorf("模式应为 new_project，实际: %s", seq.Mode())
	}

	// 已离开初始步骤后不允许再次选择模式
	result = seq.StartNewProject()
	if !result.Rejected {
		t.Error("离开初始步骤后选择模式应被拒绝")
	}
}

// TestStartExisting 测试既有内容入口及其跳步路径
func TestStartExisting(t *testing.T) {
	seq := NewSequencer()

	result := seq.StartExisting()
	if result.Rejected {
		t.Fatalf("使用既有内容不应被拒绝: %s", result.Reason)
	}
	if seq.Current() != models.StepExistingContent {
		t.Errorf("应进入 EXISTING_CONTENT，实际: %s", seq.Current())
	}

	// 未加载内容时前进被拒绝
	result = seq.Next(StepContext{})
	if !result.Rejected {
		t.Error("内容未加载时前进应被拒绝")
	}
	if seq.Current() != models.StepExistingContent {
		t.Error("被拒绝的转移不应改变当前步骤")
	}

	// 加载成功后直接跳到 NEXT_PHASE，越过 PROJECT_SETUP 和 REVIEW_SAVE
	result = seq.Next(StepContext{Form: completeForm()})
	if result.Rejected {
		t.Fatalf("加载完成后前进不应被拒绝: %s", result.Reason)
	}
	if seq.Current() != models.StepNextPhase {
		t.Errorf("既有内容应直达 NEXT_PHASE，实际: %s", seq.Current())
	}
}

// TestProjectSetupValidation 测试必填字段门禁
// 任意必填字段缺失的组合都应被拒绝
func TestProjectSetupValidation(t *testing.T) {
	clearField := map[string]func(*models.FormData){
		"course_title":        func(f *models.FormData) { f.Course.CourseTitle = "" },
		"module_title":        func(f *models.FormData) { f.Project.ModuleTitle = "" },
		"project_title":       func(f *models.FormData) { f.Project.ProjectTitle = "" },
		"project_goal":        func(f *models.FormData) { f.Project.ProjectGoal = "" },
		"student_description": func(f *models.FormData) { f.Audience.StudentDescription = "" },
	}
	fields := []string{"course_title", "module_title", "project_title", "project_goal", "student_description"}

	// 枚举所有非空缺失子集（2^5-1 种）
	for mask := 1; mask < 1<<len(fields); mask++ {
		form := completeForm()
		var missing []string
		for i, name := range fields {
			if mask&(1<<i) != 0 {
				clearField[name](form)
				missing = append(missing, name)
			}
		}

		seq := NewSequencer()
		seq.StartNewProject()

		result := seq.Next(StepContext{Form: form})
		if !result.Rejected {
			t.Fatalf("缺失字段 %v 时前进应被拒绝", missing)
		}
		if seq.Current() != models.StepProjectSetup {
			t.Fatalf("被拒绝后应停留在 PROJECT_SETUP，实际: %s", seq.Current())
		}
		if len(result.FieldErrors) != len(missing) {
			t.Fatalf("字段级错误数量不符，期望 %d，实际 %d (%v)",
				len(missing), len(result.FieldErrors), result.FieldErrors)
		}
		for _, name := range missing {
			if _, ok := result.FieldErrors[name]; !ok {
				t.Errorf("缺失字段 %s 应出现在错误信息中", name)
			}
		}
	}

	// 全部填写后前进成功
	seq := NewSequencer()
	seq.StartNewProject()
	result := seq.Next(StepContext{Form: completeForm()})
	if result.Rejected {
		t.Fatalf("必填字段齐全时前进不应被拒绝: %v", result.FieldErrors)
	}
	if seq.Current() != models.StepReviewSave {
		t.Errorf("应进入 REVIEW_SAVE，实际: %s", seq.Current())
	}
}

// TestWhitespaceOnlyRequiredField 纯空白字符视为未填写
func TestWhitespaceOnlyRequiredField(t *testing.T) {
	form := completeForm()
	form.Project.ProjectGoal = "   "

	seq := NewSequencer()
	seq.StartNewProject()

	result := seq.Next(StepContext{Form: form})
	if !result.Rejected {
		t.Error("纯空白的必填字段应被视为缺失")
	}
	if _, ok := result.FieldErrors["project_goal"]; !ok {
		t.Error("project_goal 应出现在字段级错误中")
	}
}

// TestFullForwardPath 测试新建项目的完整前进路径
func TestFullForwardPath(t *testing.T) {
	seq := NewSequencer()
	ctx := StepContext{Form: completeForm(), Scenario: completeScenario()}

	seq.StartNewProject()

	expected := []models.Step{
		models.StepReviewSave,
		models.StepNextPhase,
		models.StepScenarioGen,
		models.StepScenarioDesc,
		models.StepScreenMgmt,
		models.StepImageDesc,
		models.StepFinalReview,
	}

	for _, want := range expected {
		result := seq.Next(ctx)
		if result.Rejected {
			t.Fatalf("前往 %s 的转移被拒绝: %s", want, result.Reason)
		}
		if seq.Current() != want {
			t.Fatalf("步骤不符，期望 %s，实际 %s", want, seq.Current())
		}
	}

	// 最终审阅不再前进
	result := seq.Next(ctx)
	if !result.Rejected {
		t.Error("FINAL_REVIEW 的前进应被拒绝")
	}
}

// TestScreenCompletionGate 测试画面完成度门禁
func TestScreenCompletionGate(t *testing.T) {
	sd := models.NewScenarioData()
	sd.ScenarioDescription = "desc"
	sd.AddScreen("Intro", "caption one")
	sd.AddScreen("Middle", "") // 未完成

	seq := NewSequencer()
	seq.StartNewProject()
	ctx := StepContext{Form: completeForm(), Scenario: sd}
	for seq.Current() != models.StepScreenMgmt {
		if r := seq.Next(ctx); r.Rejected {
			t.Fatalf("铺垫转移被拒绝: %s", r.Reason)
		}
	}

	result := seq.Next(ctx)
	if !result.Rejected {
		t.Error("存在未完成画面时应禁止进入 IMAGE_DESC")
	}

	// 补齐说明文字后放行
	sd.Screens[1].CaptionDescription = "caption two"
	result = seq.Next(ctx)
	if result.Rejected {
		t.Fatalf("画面补齐后前进不应被拒绝: %s", result.Reason)
	}
	if seq.Current() != models.StepImageDesc {
		t.Errorf("应进入 IMAGE_DESC，实际: %s", seq.Current())
	}

	// 没有任何画面同样视为未完成
	empty := models.NewScenarioData()
	empty.ScenarioDescription = "desc"
	seq2 := NewSequencer()
	seq2.StartNewProject()
	ctx2 := StepContext{Form: completeForm(), Scenario: empty}
	for seq2.Current() != models.StepScreenMgmt {
		seq2.Next(ctx2)
	}
	if r := seq2.Next(ctx2); !r.Rejected {
		t.Error("画面列表为空时应禁止进入 IMAGE_DESC")
	}
}

// TestBackTransitions 测试回退动作
func TestBackTransitions(t *testing.T) {
	tests := []struct {
		name string
		mode models.WorkflowMode
		at   models.Step
		want models.Step
	}{
		{"审阅回到项目信息", models.ModeNewProject, models.StepReviewSave, models.StepProjectSetup},
		{"新建模式下过渡页回到审阅", models.ModeNewProject, models.StepNextPhase, models.StepReviewSave},
		{"既有模式下过渡页回到内容选择", models.ModeUseExisting, models.StepNextPhase, models.StepExistingContent},
		{"场景描述回到生成入口", models.ModeNewProject, models.StepScenarioDesc, models.StepScenarioGen},
		{"画面管理回到场景描述", models.ModeNewProject, models.StepScreenMgmt, models.StepScenarioDesc},
		{"最终审阅回到图像描述", models.ModeNewProject, models.StepFinalReview, models.StepImageDesc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq := &Sequencer{state: models.WizardState{CurrentStep: tt.at, Mode: tt.mode}}

			result := seq.Back()
			if result.Rejected {
				t.Fatalf("回退被拒绝: %s", result.Reason)
			}
			if seq.Current() != tt.want {
				t.Errorf("回退目标不符，期望 %s，实际 %s", tt.want, seq.Current())
			}
		})
	}

	// 初始步骤没有上一步
	seq := NewSequencer()
	if r := seq.Back(); !r.Rejected {
		t.Error("初始步骤的回退应被拒绝")
	}
}

// TestCompleteExport 测试导出收尾后的会话重置
func TestCompleteExport(t *testing.T) {
	seq := &Sequencer{state: models.WizardState{
		CurrentStep: models.StepFinalReview,
		Mode:        models.ModeNewProject,
	}}

	result := seq.CompleteExport()
	if result.Rejected {
		t.Fatalf("导出收尾不应被拒绝: %s", result.Reason)
	}
	if seq.Current() != models.StepInitialSelection {
		t.Errorf("导出后应回到 INITIAL_SELECTION，实际: %s", seq.Current())
	}
	if seq.Mode() != models.ModeUnset {
		t.Error("导出后模式应被清空")
	}

	// 非最终审阅步骤不能执行导出收尾
	seq2 := NewSequencer()
	seq2.StartNewProject()
	if r := seq2.CompleteExport(); !r.Rejected {
		t.Error("PROJECT_SETUP 的导出收尾应被拒绝")
	}
}

// TestResumeAt 测试既有内容的断点恢复
func TestResumeAt(t *testing.T) {
	seq := NewSequencer()
	seq.StartExisting()

	if !seq.ResumeAt(models.StepScreenMgmt) {
		t.Fatal("恢复到 SCREEN_MGMT 应被允许")
	}
	if seq.Current() != models.StepScreenMgmt {
		t.Errorf("恢复后步骤不符: %s", seq.Current())
	}

	// 不允许恢复到表单阶段的步骤
	if seq.ResumeAt(models.StepProjectSetup) {
		t.Error("不应允许恢复到 PROJECT_SETUP")
	}
}
