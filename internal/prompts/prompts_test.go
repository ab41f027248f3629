// internal/prompts/prompts_test.go
package prompts

import (
	"strings"
	"testing"

	"github.com/Corphon/ScenarioBuilder/internal/models"
)

func testForm() *models.FormData {
	form := models.NewFormData()
	form.Course.CourseTitle = "Intro to Biology"
	form.Project.ModuleTitle = "Cells"
	form.Project.ProjectTitle = "Build a Cell Model"
	form.Project.ProjectGoal = "Understand organelle function"
	form.Audience.StudentDescription = "10th grade biology students"
	return form
}

// TestScenarioOptionsIncludesInputs 候选情景提示词包含关键输入
func TestScenarioOptionsIncludesInputs(t *testing.T) {
	prompt := ScenarioOptions(testForm())

	for _, want := range []string{"Intro to Biology", "Cells", "Build a Cell Model", "Understand organelle function", "SCENARIO 1:"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("提示词应包含 %q", want)
		}
	}
}

// TestRefinePromptIncludesInstructions 改写提示词包含当前情景与修改说明
func TestRefinePromptIncludesInstructions(t *testing.T) {
	prompt := RefineScenario(testForm(), "current text", "make it more technical")

	if !strings.Contains(prompt, "current text") {
		t.Error("提示词应包含当前情景")
	}
	if !strings.Contains(prompt, "make it more technical") {
		t.Error("提示词应包含修改说明")
	}
}

// TestScreensPromptRequestsJSON 屏幕生成提示词要求JSON格式
func TestScreensPromptRequestsJSON(t *testing.T) {
	prompt := Screens(testForm(), "a scenario", 5)

	if !strings.Contains(prompt, "Create 5 sequential screens") {
		t.Error("提示词应声明屏幕数量")
	}
	if !strings.Contains(prompt, `"caption_description"`) {
		t.Error("提示词应给出JSON字段示例")
	}
}

// TestImageDescriptionDefaults 风格字段缺省时使用文档化默认值
func TestImageDescriptionDefaults(t *testing.T) {
	prompt := ImageDescription("a welcome screen", models.StylePack{})

	for _, want := range []string{"a welcome screen", "flat illustration", "blue", "4:3"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("图像提示词应包含 %q，实际:\n%s", want, prompt)
		}
	}
}

// TestImageVibeUsesStylePack 视觉基调使用风格组合
func TestImageVibeUsesStylePack(t *testing.T) {
	vibe := ImageVibe(models.StylePack{Palette: "warm earth tones", Vibe: "watercolor", AspectRatio: "16:9"})

	for _, want := range []string{"warm earth tones", "watercolor", "16:9"} {
		if !strings.Contains(vibe, want) {
			t.Errorf("视觉基调应包含 %q", want)
		}
	}
}

// TestParseScenarioOptions 解析三个候选
func TestParseScenarioOptions(t *testing.T) {
	content := `SCENARIO 1: First scenario text
spanning two lines.

SCENARIO 2: Second scenario text.
SCENARIO 3: Third scenario text.`

	scenarios := ParseScenarioOptions(content)
	if len(scenarios) != 3 {
		t.Fatalf("应解析出3个候选: %d", len(scenarios))
	}
	if scenarios[0] != "First scenario text spanning two lines." {
		t.Errorf("多行候选拼接不符: %q", scenarios[0])
	}
	if scenarios[2] != "Third scenario text." {
		t.Errorf("第三个候选不符: %q", scenarios[2])
	}
}

// TestParseScenarioOptionsPadsShortOutput 输出不足三个时补齐
func TestParseScenarioOptionsPadsShortOutput(t *testing.T) {
	scenarios := ParseScenarioOptions("SCENARIO 1: Only one.")
	if len(scenarios) != 3 {
		t.Fatalf("应补齐到3个候选: %d", len(scenarios))
	}
	if scenarios[1] == "" || scenarios[2] == "" {
		t.Error("补齐的候选不应为空")
	}
}
