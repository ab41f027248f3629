// internal/services/scenario_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Corphon/ScenarioBuilder/internal/models"
	"github.com/Corphon/ScenarioBuilder/internal/prompts"
)

// DefaultScreenCount 首次进入屏幕管理时自动填充的屏幕数量
const DefaultScreenCount = 5

var ErrEmptyInstructions = errors.New("修改说明不能为空")

// ScenarioService 情景生成驱动：构建提示词、调用生成能力、写入结果
// 生成失败时对应产物保持未设置，向导状态不受影响
type ScenarioService struct {
	generator TextGenerator
}

// NewScenarioService 创建情景生成服务
func NewScenarioService(generator TextGenerator) *ScenarioService {
	return &ScenarioService{generator: generator}
}

// GenerateOptions 一次生成三个候选情景描述
func (s *ScenarioService) GenerateOptions(ctx context.Context, form *models.FormData) ([]string, error) {
	text, err := s.generator.GenerateText(ctx, prompts.ScenarioOptions(form), prompts.SystemAssistant)
	if err != nil {
		return nil, fmt.Errorf("生成候选情景失败: %w", err)
	}

	return prompts.ParseScenarioOptions(text), nil
}

// SelectDescription 将选中的候选写入情景数据
func (s *ScenarioService) SelectDescription(scenario *models.ScenarioData, description string) error {
	if strings.TrimSpace(description) == "" {
		return errors.New("情景描述不能为空")
	}

	scenario.ScenarioDescription = strings.TrimSpace(description)
	scenario.GeneratedAt = time.Now()
	return nil
}

// RefineDescription 按修改说明改写当前情景描述，覆盖旧值
func (s *ScenarioService) RefineDescription(ctx context.Context, form *models.FormData, scenario *models.ScenarioData, instructions string) error {
	if strings.TrimSpace(instructions) == "" {
		return ErrEmptyInstructions
	}
	if scenario.ScenarioDescription == "" {
		return errors.New("尚无情景描述可供改写")
	}

	prompt := prompts.RefineScenario(form, scenario.ScenarioDescription, instructions)
	text, err := s.generator.GenerateText(ctx, prompt, prompts.SystemAssistant)
	if err != nil {
		return fmt.Errorf("改写情景描述失败: %w", err)
	}

	scenario.ScenarioDescription = strings.TrimSpace(text)
	scenario.GeneratedAt = time.Now()
	return nil
}

// GenerateVibe 根据风格组合生成总体视觉基调（模板生成，无需模型调用）
func (s *ScenarioService) GenerateVibe(form *models.FormData, scenario *models.ScenarioData) {
	scenario.ImageVibe = prompts.ImageVibe(form.StylePack)
	scenario.GeneratedAt = time.Now()
}

// EnsureDefaultScreens 首次进入屏幕管理时填充五个默认屏幕
// 已有屏幕时不做任何修改
func (s *ScenarioService) EnsureDefaultScreens(form *models.FormData, scenario *models.ScenarioData) {
	if len(scenario.Screens) > 0 {
		return
	}

	projectTitle := form.Project.ProjectTitle
	if projectTitle == "" {
		projectTitle = "Project"
	}

	scenario.Screens = []models.Screen{
		{ScreenNumber: 1, Title: fmt.Sprintf("Introduction to %s", projectTitle),
			CaptionDescription: "Welcome screen introducing the project and its objectives"},
		{ScreenNumber: 2, Title: "Problem Statement",
			CaptionDescription: "Presenting the main challenge or problem to be solved"},
		{ScreenNumber: 3, Title: "Solution Approach",
			CaptionDescription: "Outlining the methodology and approach to solve the problem"},
		{ScreenNumber: 4, Title: "Implementation Steps",
			CaptionDescription: "Detailed steps for implementing the solution"},
		{ScreenNumber: 5, Title: "Results and Outcomes",
			CaptionDescription: "Expected results and learning outcomes from the project"},
	}
	scenario.GeneratedAt = time.Now()
}

// GenerateScreens 用模型生成屏幕序列，成功后覆盖现有屏幕
func (s *ScenarioService) GenerateScreens(ctx context.Context, form *models.FormData, scenario *models.ScenarioData, numScreens int) error {
	if scenario.ScenarioDescription == "" {
		return errors.New("需要先确定情景描述")
	}
	if numScreens <= 0 {
		numScreens = DefaultScreenCount
	}

	prompt := prompts.Screens(form, scenario.ScenarioDescription, numScreens)
	text, err := s.generator.GenerateText(ctx, prompt, prompts.SystemScreenJSON)
	if err != nil {
		return fmt.Errorf("生成屏幕序列失败: %w", err)
	}

	screens, err := parseScreensJSON(text)
	if err != nil {
		return fmt.Errorf("解析屏幕序列失败: %w", err)
	}

	scenario.Screens = screens
	scenario.Renumber()
	scenario.GeneratedAt = time.Now()
	return nil
}

// GenerateImageDescription 为指定屏幕生成图像提示词并写入
func (s *ScenarioService) GenerateImageDescription(form *models.FormData, scenario *models.ScenarioData, screenNumber int) error {
	screen := scenario.FindScreen(screenNumber)
	if screen == nil {
		return fmt.Errorf("屏幕 %d 不存在", screenNumber)
	}
	if screen.CaptionDescription == "" {
		return fmt.Errorf("屏幕 %d 尚无说明文字", screenNumber)
	}

	screen.ImageDescription = prompts.ImageDescription(screen.CaptionDescription, form.StylePack)
	scenario.GeneratedAt = time.Now()
	return nil
}

// parseScreensJSON 从模型回复中提取屏幕JSON
// 回复可能带有前后缀文本，截取最外层大括号之间的内容
func parseScreensJSON(content string) ([]models.Screen, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, errors.New("回复中未找到JSON对象")
	}

	var payload struct {
		Screens []models.Screen `json:"screens"`
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &payload); err != nil {
		return nil, err
	}
	if len(payload.Screens) == 0 {
		return nil, errors.New("屏幕列表为空")
	}
	return payload.Screens, nil
}
