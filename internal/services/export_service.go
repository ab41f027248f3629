// internal/services/export_service.go
package services

import (
	"fmt"
	"time"

	"github.com/Corphon/ScenarioBuilder/internal/models"
)

// ExportService 负责最终导出：把表单与情景数据写入固定JSON结构
// 导出是只读操作，不修改内存中的向导状态
type ExportService struct {
	projects *ProjectService
}

// NewExportService 创建导出服务
func NewExportService(projects *ProjectService) *ExportService {
	return &ExportService{projects: projects}
}

// ExportProject 导出项目配置（审阅保存步骤）
func (s *ExportService) ExportProject(form *models.FormData) (*models.ExportResult, error) {
	if !form.IsComplete() {
		return nil, fmt.Errorf("必填字段未填写完整，无法导出")
	}

	configPath, err := s.projects.SaveFormData(form)
	if err != nil {
		return nil, err
	}

	return &models.ExportResult{
		CourseDir:  CourseDirName(form),
		ModuleDir:  ModuleDirName(form),
		ConfigPath: configPath,
		ExportedAt: time.Now(),
	}, nil
}

// ExportAll 最终导出：同时写入项目配置与情景数据
func (s *ExportService) ExportAll(form *models.FormData, scenario *models.ScenarioData) (*models.ExportResult, error) {
	result, err := s.ExportProject(form)
	if err != nil {
		return nil, err
	}

	if scenario != nil && scenario.ScenarioDescription != "" {
		scenarioPath, err := s.projects.SaveScenarioData(form, scenario)
		if err != nil {
			return nil, err
		}
		result.ScenarioPath = scenarioPath
	}

	return result, nil
}
