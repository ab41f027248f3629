// internal/models/scenario_test.go
package models

import "testing"

func sampleScenario() *ScenarioData {
	return &ScenarioData{
		ScenarioDescription: "Students run a cell factory",
		Screens: []Screen{
			{ScreenNumber: 1, Title: "Intro", CaptionDescription: "Welcome", ImageDescription: "factory gate"},
			{ScreenNumber: 2, Title: "Task", CaptionDescription: "Assemble", ImageDescription: "assembly line"},
			{ScreenNumber: 3, Title: "Wrap", CaptionDescription: "Review", ImageDescription: "control room"},
		},
	}
}

// TestRemoveScreenRenumbers 删除屏幕后编号保持从1连续
func TestRemoveScreenRenumbers(t *testing.T) {
	s := sampleScenario()

	if !s.RemoveScreen(2) {
		t.Fatal("删除存在的屏幕应返回 true")
	}
	if len(s.Screens) != 2 {
		t.Fatalf("删除后应剩2个屏幕，实际: %d", len(s.Screens))
	}
	for i, sc := range s.Screens {
		if sc.ScreenNumber != i+1 {
			t.Errorf("屏幕编号应连续，位置 %d 编号为 %d", i, sc.ScreenNumber)
		}
	}
	if s.Screens[1].Title != "Wrap" {
		t.Errorf("删除后顺序不符: %s", s.Screens[1].Title)
	}
}

// TestRemoveMissingScreen 删除不存在的编号
func TestRemoveMissingScreen(t *testing.T) {
	s := sampleScenario()

	if s.RemoveScreen(9) {
		t.Error("删除不存在的屏幕应返回 false")
	}
	if len(s.Screens) != 3 {
		t.Errorf("屏幕数量不应变化: %d", len(s.Screens))
	}
}

// TestAddScreenAppendsNextNumber 新增屏幕追加到末尾
func TestAddScreenAppendsNextNumber(t *testing.T) {
	s := sampleScenario()
	s.AddScreen("Extra", "More work")

	last := s.Screens[len(s.Screens)-1]
	if last.ScreenNumber != 4 {
		t.Errorf("新增屏幕编号应为4: %d", last.ScreenNumber)
	}
	if last.Title != "Extra" {
		t.Errorf("新增屏幕标题不符: %s", last.Title)
	}
}

// TestAllScreensComplete 完整性判定
func TestAllScreensComplete(t *testing.T) {
	s := sampleScenario()
	if !s.AllScreensComplete() {
		t.Error("全部屏幕有描述时应判定完整")
	}

	s.Screens[1].CaptionDescription = ""
	if s.AllScreensComplete() {
		t.Error("存在空描述屏幕时应判定不完整")
	}

	empty := &ScenarioData{}
	if empty.AllScreensComplete() {
		t.Error("空屏幕列表应判定不完整")
	}
}

// TestScenarioClone 克隆不共享屏幕切片
func TestScenarioClone(t *testing.T) {
	s := sampleScenario()
	clone := s.Clone()
	clone.Screens[0].Title = "Changed"

	if s.Screens[0].Title != "Intro" {
		t.Error("克隆后修改不应影响原数据")
	}
}

// TestStepString 步骤名称
func TestStepString(t *testing.T) {
	cases := []struct {
		step Step
		name string
	}{
		{StepInitialSelection, "INITIAL_SELECTION"},
		{StepExistingContent, "EXISTING_CONTENT"},
		{StepProjectSetup, "PROJECT_SETUP"},
		{StepFinalReview, "FINAL_REVIEW"},
	}
	for _, c := range cases {
		if got := c.step.String(); got != c.name {
			t.Errorf("步骤 %v 名称应为 %s，实际: %s", float64(c.step), c.name, got)
		}
	}
	if StepInitialSelection.IsValid() != true || Step(5).IsValid() != false {
		t.Error("步骤有效性判定不符")
	}
}
