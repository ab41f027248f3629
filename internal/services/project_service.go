// internal/services/project_service.go
package services

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Corphon/ScenarioBuilder/internal/models"
	"github.com/Corphon/ScenarioBuilder/internal/storage"
	"github.com/Corphon/ScenarioBuilder/internal/utils"
)

const (
	// ConfigFileName 项目配置文件名
	ConfigFileName = "module_generation_information.json"
	// ScenarioFileName 情景数据文件名
	ScenarioFileName = "scenario_data.json"
	// TextOutputsDir 文本输出子目录
	TextOutputsDir = "text_outputs"
)

// ProjectService 负责项目配置与情景数据的落盘、加载与发现
type ProjectService struct {
	storage *storage.FileStorage
}

// NewProjectService 创建项目服务
func NewProjectService(fs *storage.FileStorage) *ProjectService {
	return &ProjectService{storage: fs}
}

// CourseDirName 课程目录名（清洗后，空值回退）
func CourseDirName(form *models.FormData) string {
	name := utils.SanitizeDirName(form.Course.CourseTitle)
	if name == "" {
		name = "course"
	}
	return name
}

// ModuleDirName 模块目录名（清洗后，空值回退）
func ModuleDirName(form *models.FormData) string {
	name := utils.SanitizeDirName(form.Project.ModuleTitle)
	if name == "" {
		name = "module"
	}
	return name
}

// textOutputsPath 返回 {course}/{module}/text_outputs 相对路径
func (s *ProjectService) textOutputsPath(courseDir, moduleDir string) string {
	return filepath.Join(courseDir, moduleDir, TextOutputsDir)
}

// SaveFormData 保存项目配置到 module_generation_information.json
func (s *ProjectService) SaveFormData(form *models.FormData) (string, error) {
	courseDir := CourseDirName(form)
	moduleDir := ModuleDirName(form)
	dir := s.textOutputsPath(courseDir, moduleDir)

	if err := s.storage.SaveJSONFile(dir, ConfigFileName, form); err != nil {
		return "", fmt.Errorf("保存项目配置失败: %w", err)
	}
	return filepath.Join(s.storage.BaseDir, dir, ConfigFileName), nil
}

// LoadFormData 从指定课程/模块目录加载项目配置
// 旧版文件缺失的可选字段会回填文档化默认值
func (s *ProjectService) LoadFormData(courseDir, moduleDir string) (*models.FormData, error) {
	dir := s.textOutputsPath(courseDir, moduleDir)

	form := &models.FormData{}
	if err := s.storage.LoadJSONFile(dir, ConfigFileName, form); err != nil {
		return nil, fmt.Errorf("加载项目配置失败: %w", err)
	}

	form.ApplyDefaults()
	return form, nil
}

// SaveScenarioData 保存情景数据到 scenario_data.json（与配置同目录）
func (s *ProjectService) SaveScenarioData(form *models.FormData, scenario *models.ScenarioData) (string, error) {
	courseDir := CourseDirName(form)
	moduleDir := ModuleDirName(form)
	dir := s.textOutputsPath(courseDir, moduleDir)

	if err := s.storage.SaveJSONFile(dir, ScenarioFileName, scenario); err != nil {
		return "", fmt.Errorf("保存情景数据失败: %w", err)
	}
	return filepath.Join(s.storage.BaseDir, dir, ScenarioFileName), nil
}

// LoadScenarioData 从指定课程/模块目录加载情景数据
func (s *ProjectService) LoadScenarioData(courseDir, moduleDir string) (*models.ScenarioData, error) {
	dir := s.textOutputsPath(courseDir, moduleDir)

	scenario := &models.ScenarioData{}
	if err := s.storage.LoadJSONFile(dir, ScenarioFileName, scenario); err != nil {
		return nil, fmt.Errorf("加载情景数据失败: %w", err)
	}
	return scenario, nil
}

// HasScenarioData 检查指定模块是否已有情景数据
func (s *ProjectService) HasScenarioData(courseDir, moduleDir string) bool {
	return s.storage.FileExists(s.textOutputsPath(courseDir, moduleDir), ScenarioFileName)
}

// HasFormData 检查指定模块是否已有项目配置
func (s *ProjectService) HasFormData(courseDir, moduleDir string) bool {
	return s.storage.FileExists(s.textOutputsPath(courseDir, moduleDir), ConfigFileName)
}

// CourseEntry 现有课程条目
type CourseEntry struct {
	DirName     string `json:"dir_name"`
	DisplayName string `json:"display_name"`
}

// ListCourses 列出数据目录下已有的课程
func (s *ProjectService) ListCourses() ([]CourseEntry, error) {
	dirs, err := s.storage.ListDirs(".")
	if err != nil {
		return nil, fmt.Errorf("列举课程目录失败: %w", err)
	}

	entries := make([]CourseEntry, 0, len(dirs))
	for _, d := range dirs {
		entries = append(entries, CourseEntry{DirName: d, DisplayName: displayName(d)})
	}
	return entries, nil
}

// ListModules 列出课程下已有的模块
func (s *ProjectService) ListModules(courseDir string) ([]CourseEntry, error) {
	dirs, err := s.storage.ListDirs(courseDir)
	if err != nil {
		return nil, fmt.Errorf("列举模块目录失败: %w", err)
	}

	entries := make([]CourseEntry, 0, len(dirs))
	for _, d := range dirs {
		entries = append(entries, CourseEntry{DirName: d, DisplayName: displayName(d)})
	}
	return entries, nil
}

// displayName 目录名转展示名：下划线还原为空格
func displayName(dirName string) string {
	return strings.ReplaceAll(dirName, "_", " ")
}
