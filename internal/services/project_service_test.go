// internal/services/project_service_test.go
package services

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Corphon/ScenarioBuilder/internal/models"
	"github.com/Corphon/ScenarioBuilder/internal/storage"
)

func newTestProjectService(t *testing.T) *ProjectService {
	t.Helper()

	fs, err := storage.NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("创建文件存储失败: %v", err)
	}
	return NewProjectService(fs)
}

// TestSaveAndLoadFormData 配置落盘与重新加载无损（导出/加载往返）
func TestSaveAndLoadFormData(t *testing.T) {
	svc := newTestProjectService(t)
	form := completeForm()
	form.Audience.Prerequisites = []string{"basic chemistry"}
	form.StylePack.Palette = "warm earth tones"

	path, err := svc.SaveFormData(form)
	if err != nil {
		t.Fatalf("保存失败: %v", err)
	}
	if filepath.Base(path) != ConfigFileName {
		t.Errorf("配置文件名不符: %s", path)
	}
	if filepath.Base(filepath.Dir(path)) != TextOutputsDir {
		t.Errorf("配置应写入 text_outputs 目录: %s", path)
	}

	loaded, err := svc.LoadFormData("Intro_to_Biology", "Cells")
	if err != nil {
		t.Fatalf("加载失败: %v", err)
	}
	if loaded.Course.CourseTitle != form.Course.CourseTitle {
		t.Errorf("课程名称不符: %q", loaded.Course.CourseTitle)
	}
	if loaded.StylePack.Palette != "warm earth tones" {
		t.Errorf("风格组合不符: %q", loaded.StylePack.Palette)
	}
	if len(loaded.Audience.Prerequisites) != 1 || loaded.Audience.Prerequisites[0] != "basic chemistry" {
		t.Errorf("前置知识不符: %v", loaded.Audience.Prerequisites)
	}
}

// TestLoadLegacyConfigFillsDefaults 旧版配置缺失字段回填默认值
func TestLoadLegacyConfigFillsDefaults(t *testing.T) {
	svc := newTestProjectService(t)

	// 手工写入缺少 class_size 与 prerequisites 的旧版文件
	legacy := map[string]interface{}{
		"course":  map[string]string{"course_title": "Old Course"},
		"project": map[string]string{"module_title": "Old Module"},
		"audience": map[string]string{
			"student_description": "adults",
		},
	}
	data, _ := json.MarshalIndent(legacy, "", "  ")
	dir := filepath.Join(svc.storage.BaseDir, "Old_Course", "Old_Module", TextOutputsDir)
	os.MkdirAll(dir, 0755)
	os.WriteFile(filepath.Join(dir, ConfigFileName), data, 0644)

	loaded, err := svc.LoadFormData("Old_Course", "Old_Module")
	if err != nil {
		t.Fatalf("加载旧版配置失败: %v", err)
	}
	if loaded.Audience.ClassSize != models.DefaultClassSize {
		t.Errorf("班级人数应回填默认值: %d", loaded.Audience.ClassSize)
	}
	if loaded.Audience.Prerequisites == nil {
		t.Error("前置知识应回填空切片")
	}
}

// TestScenarioDataRoundTrip 情景数据与配置同目录往返
func TestScenarioDataRoundTrip(t *testing.T) {
	svc := newTestProjectService(t)
	form := completeForm()
	scenario := &models.ScenarioData{
		ScenarioDescription: "A scenario",
		GeneratedAt:         time.Now(),
		Screens: []models.Screen{
			{ScreenNumber: 1, Title: "Intro", CaptionDescription: "Opening"},
		},
	}

	if _, err := svc.SaveScenarioData(form, scenario); err != nil {
		t.Fatalf("保存情景数据失败: %v", err)
	}
	if !svc.HasScenarioData("Intro_to_Biology", "Cells") {
		t.Error("保存后 HasScenarioData 应为 true")
	}

	loaded, err := svc.LoadScenarioData("Intro_to_Biology", "Cells")
	if err != nil {
		t.Fatalf("加载情景数据失败: %v", err)
	}
	if loaded.ScenarioDescription != "A scenario" || len(loaded.Screens) != 1 {
		t.Errorf("往返结果不符: %+v", loaded)
	}
}

// TestListCoursesAndModules 课程/模块发现与展示名
func TestListCoursesAndModules(t *testing.T) {
	svc := newTestProjectService(t)

	form := completeForm()
	if _, err := svc.SaveFormData(form); err != nil {
		t.Fatalf("保存失败: %v", err)
	}

	courses, err := svc.ListCourses()
	if err != nil {
		t.Fatalf("列举课程失败: %v", err)
	}
	if len(courses) != 1 || courses[0].DirName != "Intro_to_Biology" {
		t.Fatalf("课程列表不符: %+v", courses)
	}
	if courses[0].DisplayName != "Intro to Biology" {
		t.Errorf("展示名应还原空格: %q", courses[0].DisplayName)
	}

	modules, err := svc.ListModules("Intro_to_Biology")
	if err != nil {
		t.Fatalf("列举模块失败: %v", err)
	}
	if len(modules) != 1 || modules[0].DirName != "Cells" {
		t.Errorf("模块列表不符: %+v", modules)
	}
}

// TestDirNameFallback 空名称回退
func TestDirNameFallback(t *testing.T) {
	form := models.NewFormData()
	if CourseDirName(form) != "course" {
		t.Errorf("空课程名应回退为 course: %q", CourseDirName(form))
	}
	if ModuleDirName(form) != "module" {
		t.Errorf("空模块名应回退为 module: %q", ModuleDirName(form))
	}
}
