// internal/wizard/merger.go
package wizard

import (
	"github.com/Corphon/ScenarioBuilder/internal/models"
)

// OptionalUpdates 侧边栏可选字段的部分编辑集
// 指针为 nil 表示该字段未提交，保留原值（含默认值）
type OptionalUpdates struct {
	CourseObjectives          *string   `json:"course_objectives,omitempty"`
	ModuleDescription         *string   `json:"module_description,omitempty"`
	ProjectLearningObjectives *string   `json:"project_learning_objectives,omitempty"`
	EducationLevel            *string   `json:"education_level,omitempty"`
	Prerequisites             *[]string `json:"prerequisites,omitempty"`
	ClassSize                 *int      `json:"class_size,omitempty"`
	Palette                   *string   `json:"palette,omitempty"`
	Vibe                      *string   `json:"vibe,omitempty"`
	AspectRatio               *string   `json:"aspect_ratio,omitempty"`
}

// IsEmpty 检查编辑集是否为空
func (u OptionalUpdates) IsEmpty() bool {
	return u.CourseObjectives == nil &&
		u.ModuleDescription == nil &&
		u.ProjectLearningObjectives == nil &&
		u.EducationLevel == nil &&
		u.Prerequisites == nil &&
		u.ClassSize == nil &&
		u.Palette == nil &&
		u.Vibe == nil &&
		u.AspectRatio == nil
}

// CanEditOptional 可选字段编辑的准入：除两个选择类步骤外均允许
// 编辑从不改变 current_step
func CanEditOptional(step models.Step) bool {
	switch step {
	case models.StepInitialSelection, models.StepExistingContent:
		return false
	}
	return step.IsValid()
}

// ApplyOptionalUpdates 把部分编辑集合并进表单数据
// 只覆盖提交的字段；返回合并后的新副本，原数据不被修改
func ApplyOptionalUpdates(current *models.FormData, edits OptionalUpdates) *models.FormData {
	merged := current.Clone()

	if edits.CourseObjectives != nil {
		merged.Course.CourseObjectives = *edits.CourseObjectives
	}
	if edits.ModuleDescription != nil {
		merged.Project.ModuleDescription = *edits.ModuleDescription
	}
	if edits.ProjectLearningObjectives != nil {
		merged.Project.ProjectLearningObjectives = *edits.ProjectLearningObjectives
	}
	if edits.EducationLevel != nil {
		merged.Audience.EducationLevel = *edits.EducationLevel
	}
	if edits.Prerequisites != nil {
		merged.Audience.Prerequisites = append([]string{}, (*edits.Prerequisites)...)
	}
	if edits.ClassSize != nil {
		merged.Audience.ClassSize = *edits.ClassSize
	}
	if edits.Palette != nil {
		merged.StylePack.Palette = *edits.Palette
	}
	if edits.Vibe != nil {
		merged.StylePack.Vibe = *edits.Vibe
	}
	if edits.AspectRatio != nil {
		merged.StylePack.AspectRatio = *edits.AspectRatio
	}

	return merged
}
