// internal/models/export.go
package models

import "time"

// ExportResult 导出结果：项目配置与情景数据的落盘位置
type ExportResult struct {
	CourseDir    string    `json:"course_dir"`
	ModuleDir    string    `json:"module_dir"`
	ConfigPath   string    `json:"config_path"`
	ScenarioPath string    `json:"scenario_path"`
	ExportedAt   time.Time `json:"exported_at"`
}

// ExportBundle 导出内容快照（写入磁盘的两份JSON）
type ExportBundle struct {
	Form     *FormData     `json:"form_data"`
	Scenario *ScenarioData `json:"scenario_data"`
}
