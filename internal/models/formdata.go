// internal/models/formdata.go
package models

import (
	"strings"
)

// DefaultClassSize 班级人数默认值
const DefaultClassSize = 25

// NotSpecified 审阅页面展示用的缺省占位文本（不会被持久化）
const NotSpecified = "Not specified"

// CourseInfo 课程信息区块
type CourseInfo struct {
	CourseTitle      string `json:"course_title"`
	CourseObjectives string `json:"course_objectives"`
}

// ProjectInfo 项目/模块信息区块
type ProjectInfo struct {
	ModuleTitle               string `json:"module_title"`
	ModuleDescription         string `json:"module_description"`
	ProjectTitle              string `json:"project_title"`
	ProjectGoal               string `json:"project_goal"`
	ProjectLearningObjectives string `json:"project_learning_objectives"`
}

// AudienceInfo 受众信息区块
type AudienceInfo struct {
	StudentDescription string   `json:"student_description"`
	EducationLevel     string   `json:"education_level"`
	Prerequisites      []string `json:"prerequisites"`
	ClassSize          int      `json:"class_size"`
}

// StylePack 视觉偏好组合（调色板、风格、宽高比）
type StylePack struct {
	Palette     string `json:"palette"`
	Vibe        string `json:"vibe"`
	AspectRatio string `json:"aspect_ratio"`
}

// FormData 一次会话收集的全部项目元数据
type FormData struct {
	Course    CourseInfo   `json:"course"`
	Project   ProjectInfo  `json:"project"`
	Audience  AudienceInfo `json:"audience"`
	StylePack StylePack    `json:"style_pack"`
}

// NewFormData 创建带默认值的表单数据
func NewFormData() *FormData {
	return &FormData{
		Audience: AudienceInfo{
			Prerequisites: []string{},
			ClassSize:     DefaultClassSize,
		},
	}
}

// ApplyDefaults 为缺失的可选字段填充文档化默认值
// 用于加载旧配置文件（向后兼容要求）
func (f *FormData) ApplyDefaults() {
	if f.Audience.Prerequisites == nil {
		f.Audience.Prerequisites = []string{}
	}
	if f.Audience.ClassSize <= 0 {
		f.Audience.ClassSize = DefaultClassSize
	}
}

// RequiredFieldErrors 返回缺失的必填字段及对应提示
// 五个必填字段：course_title, module_title, project_title, project_goal, student_description
func (f *FormData) RequiredFieldErrors() map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(f.Course.CourseTitle) == "" {
		errs["course_title"] = "课程名称不能为空"
	}
	if strings.TrimSpace(f.Project.ModuleTitle) == "" {
		errs["module_title"] = "模块名称不能为空"
	}
	if strings.TrimSpace(f.Project.ProjectTitle) == "" {
		errs["project_title"] = "项目名称不能为空"
	}
	if strings.TrimSpace(f.Project.ProjectGoal) == "" {
		errs["project_goal"] = "项目目标不能为空"
	}
	if strings.TrimSpace(f.Audience.StudentDescription) == "" {
		errs["student_description"] = "学习者描述不能为空"
	}

	return errs
}

// IsComplete 检查五个必填字段是否全部非空
func (f *FormData) IsComplete() bool {
	return len(f.RequiredFieldErrors()) == 0
}

// Clone 返回表单数据的深拷贝
func (f *FormData) Clone() *FormData {
	cp := *f
	cp.Audience.Prerequisites = append([]string(nil), f.Audience.Prerequisites...)
	if f.Audience.Prerequisites != nil && len(f.Audience.Prerequisites) == 0 {
		cp.Audience.Prerequisites = []string{}
	}
	return &cp
}

// DisplayOr 审阅页面展示辅助：空值显示占位文本
func DisplayOr(value string) string {
	if strings.TrimSpace(value) == "" {
		return NotSpecified
	}
	return value
}
