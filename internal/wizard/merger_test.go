// internal/wizard/merger_test.go
package wizard

import (
	"reflect"
	"testing"

	"github.com/Corphon/ScenarioBuilder/internal/models"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

// TestApplyEmptyUpdates 空编辑集是幂等的
func TestApplyEmptyUpdates(t *testing.T) {
	form := completeForm()
	form.Course.CourseObjectives = "objectives"
	form.Audience.Prerequisites = []string{"algebra"}

	merged := ApplyOptionalUpdates(form, OptionalUpdates{})

	if !reflect.DeepEqual(form, merged) {
		t.Errorf("空编辑集应返回不变的表单\n原值: %+v\n结果: %+v", form, merged)
	}
}

// TestApplyPartialUpdates 只覆盖提交的字段，其余保留原值
func TestApplyPartialUpdates(t *testing.T) {
	form := completeForm()
	form.Course.CourseObjectives = "old objectives"
	form.Audience.EducationLevel = "undergrad_intro"

	edits := OptionalUpdates{
		CourseObjectives: strPtr("new objectives"),
		ClassSize:        intPtr(40),
		Palette:          strPtr("teal"),
	}

	merged := ApplyOptionalUpdates(form, edits)

	if merged.Course.CourseObjectives != "new objectives" {
		t.Errorf("course_objectives 应被覆盖，实际: %q", merged.Course.CourseObjectives)
	}
	if merged.Audience.ClassSize != 40 {
		t.Errorf("class_size 应被覆盖，实际: %d", merged.Audience.ClassSize)
	}
	if merged.StylePack.Palette != "teal" {
		t.Errorf("palette 应被覆盖，实际: %q", merged.StylePack.Palette)
	}

	// 未提交的字段保留原值
	if merged.Audience.EducationLevel != "undergrad_intro" {
		t.Errorf("education_level 不应被修改，实际: %q", merged.Audience.EducationLevel)
	}
	if merged.Course.CourseTitle != form.Course.CourseTitle {
		t.Error("必填字段不应被可选编辑触及")
	}

	// 原始表单不被修改
	if form.Course.CourseObjectives != "old objectives" {
		t.Error("合并不应修改原始表单")
	}
}

// TestApplyExplicitEmptyValue 提交空字符串是合法的覆盖（与省略不同）
func TestApplyExplicitEmptyValue(t *testing.T) {
	form := completeForm()
	form.Project.ModuleDescription = "something"

	merged := ApplyOptionalUpdates(form, OptionalUpdates{
		ModuleDescription: strPtr(""),
	})

	if merged.Project.ModuleDescription != "" {
		t.Errorf("显式提交的空值应覆盖原值，实际: %q", merged.Project.ModuleDescription)
	}
}

// TestApplyPrerequisites 先修列表整体替换且不共享底层数组
func TestApplyPrerequisites(t *testing.T) {
	form := completeForm()
	form.Audience.Prerequisites = []string{"algebra"}

	prereqs := []string{"chemistry", "lab safety"}
	merged := ApplyOptionalUpdates(form, OptionalUpdates{Prerequisites: &prereqs})

	if !reflect.DeepEqual(merged.Audience.Prerequisites, prereqs) {
		t.Errorf("先修列表应被替换，实际: %v", merged.Audience.Prerequisites)
	}

	prereqs[0] = "mutated"
	if merged.Audience.Prerequisites[0] == "mutated" {
		t.Error("合并结果不应与调用方共享底层数组")
	}
}

// TestIsEmpty 编辑集判空
func TestIsEmpty(t *testing.T) {
	if !(OptionalUpdates{}).IsEmpty() {
		t.Error("零值编辑集应为空")
	}
	if (OptionalUpdates{Vibe: strPtr("flat_illustration")}).IsEmpty() {
		t.Error("带字段的编辑集不应为空")
	}
}

// TestCanEditOptional 可选编辑的步骤准入
func TestCanEditOptional(t *testing.T) {
	blocked := []models.Step{models.StepInitialSelection, models.StepExistingContent}
	for _, step := range blocked {
		if CanEditOptional(step) {
			t.Errorf("%s 不应允许可选编辑", step)
		}
	}

	allowed := []models.Step{
		models.StepProjectSetup, models.StepReviewSave, models.StepNextPhase,
		models.StepScenarioGen, models.StepScenarioDesc, models.StepScreenMgmt,
		models.StepImageDesc, models.StepFinalReview,
	}
	for _, step := range allowed {
		if !CanEditOptional(step) {
			t.Errorf("%s 应允许可选编辑", step)
		}
	}

	if CanEditOptional(models.Step(99)) {
		t.Error("未定义步骤不应允许可选编辑")
	}
}

// TestMergeDoesNotTouchStep 合并不改变向导步骤
func TestMergeDoesNotTouchStep(t *testing.T) {
	seq := NewSequencer()
	seq.StartNewProject()
	before := seq.State()

	form := completeForm()
	ApplyOptionalUpdates(form, OptionalUpdates{Vibe: strPtr("watercolor")})

	if seq.State() != before {
		t.Error("可选编辑不应影响向导状态")
	}
}
