// internal/services/export_service_test.go
package services

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/Corphon/ScenarioBuilder/internal/models"
	"github.com/Corphon/ScenarioBuilder/internal/storage"
)

func newTestExportService(t *testing.T) (*ExportService, *ProjectService) {
	t.Helper()

	fs, err := storage.NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("创建文件存储失败: %v", err)
	}
	projects := NewProjectService(fs)
	return NewExportService(projects), projects
}

// TestExportProjectRequiresCompleteForm 必填字段不全时拒绝导出
func TestExportProjectRequiresCompleteForm(t *testing.T) {
	svc, _ := newTestExportService(t)

	if _, err := svc.ExportProject(models.NewFormData()); err == nil {
		t.Error("不完整表单导出应返回错误")
	}
}

// TestExportAllWritesBothFiles 最终导出写入两份文件
func TestExportAllWritesBothFiles(t *testing.T) {
	svc, _ := newTestExportService(t)
	form := completeForm()
	scenario := &models.ScenarioData{
		ScenarioDescription: "A scenario",
		GeneratedAt:         time.Now(),
	}

	result, err := svc.ExportAll(form, scenario)
	if err != nil {
		t.Fatalf("导出失败: %v", err)
	}

	if _, err := os.Stat(result.ConfigPath); err != nil {
		t.Errorf("配置文件应存在: %v", err)
	}
	if _, err := os.Stat(result.ScenarioPath); err != nil {
		t.Errorf("情景文件应存在: %v", err)
	}
	if result.CourseDir != "Intro_to_Biology" || result.ModuleDir != "Cells" {
		t.Errorf("目录名不符: %+v", result)
	}
}

// TestExportAllSkipsEmptyScenario 无情景描述时只写配置
func TestExportAllSkipsEmptyScenario(t *testing.T) {
	svc, _ := newTestExportService(t)

	result, err := svc.ExportAll(completeForm(), models.NewScenarioData())
	if err != nil {
		t.Fatalf("导出失败: %v", err)
	}
	if result.ScenarioPath != "" {
		t.Error("空情景不应写入情景文件")
	}
}

// TestExportIsIdempotent 重复导出内容一致（generated_at 除外）
func TestExportIsIdempotent(t *testing.T) {
	svc, _ := newTestExportService(t)
	form := completeForm()

	first, err := svc.ExportProject(form)
	if err != nil {
		t.Fatalf("首次导出失败: %v", err)
	}
	firstData, _ := os.ReadFile(first.ConfigPath)

	second, err := svc.ExportProject(form)
	if err != nil {
		t.Fatalf("二次导出失败: %v", err)
	}
	secondData, _ := os.ReadFile(second.ConfigPath)

	if string(firstData) != string(secondData) {
		t.Error("重复导出的配置内容应一致")
	}
}

// TestExportedConfigShape 导出文件符合固定JSON结构
func TestExportedConfigShape(t *testing.T) {
	svc, _ := newTestExportService(t)
	form := completeForm()
	form.Audience.Prerequisites = []string{"algebra"}

	result, err := svc.ExportProject(form)
	if err != nil {
		t.Fatalf("导出失败: %v", err)
	}

	data, _ := os.ReadFile(result.ConfigPath)
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("导出文件不是合法JSON: %v", err)
	}
	for _, key := range []string{"course", "project", "audience", "style_pack"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("导出文件缺少顶层字段: %s", key)
		}
	}
}
