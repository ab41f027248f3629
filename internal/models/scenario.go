// internal/models/scenario.go
package models

import (
	"time"
)

// Screen 场景中的一个画面
type Screen struct {
	ScreenNumber       int    `json:"screen_number"`
	Title              string `json:"title"`
	ImageDescription   string `json:"image_description"`
	CaptionDescription string `json:"caption_description"`
}

// IsComplete 画面完成的判定：说明文字非空
func (s *Screen) IsComplete() bool {
	return s.CaptionDescription != ""
}

// ScenarioData 基础配置完成后生成的叙事内容
type ScenarioData struct {
	ScenarioDescription string    `json:"scenario_description"`
	ImageVibe           string    `json:"image_vibe"`
	Screens             []Screen  `json:"screens"`
	GeneratedAt         time.Time `json:"generated_at"`
}

// NewScenarioData 创建空的场景数据
func NewScenarioData() *ScenarioData {
	return &ScenarioData{
		Screens:     []Screen{},
		GeneratedAt: time.Now(),
	}
}

// AllScreensComplete 检查所有画面是否都已完成
// 没有任何画面视为未完成（无法进入图像描述阶段）
func (sd *ScenarioData) AllScreensComplete() bool {
	if len(sd.Screens) == 0 {
		return false
	}
	for i := range sd.Screens {
		if !sd.Screens[i].IsComplete() {
			return false
		}
	}
	return true
}

// Renumber 重排画面编号，保持从1开始连续
func (sd *ScenarioData) Renumber() {
	for i := range sd.Screens {
		sd.Screens[i].ScreenNumber = i + 1
	}
}

// AddScreen 追加一个画面，编号取下一个连续值
func (sd *ScenarioData) AddScreen(title, caption string) *Screen {
	screen := Screen{
		ScreenNumber:       len(sd.Screens) + 1,
		Title:              title,
		CaptionDescription: caption,
	}
	sd.Screens = append(sd.Screens, screen)
	return &sd.Screens[len(sd.Screens)-1]
}

// RemoveScreen 按编号移除画面并重排剩余编号
// 编号不存在时返回false
func (sd *ScenarioData) RemoveScreen(number int) bool {
	idx := -1
	for i := range sd.Screens {
		if sd.Screens[i].ScreenNumber == number {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	sd.Screens = append(sd.Screens[:idx], sd.Screens[idx+1:]...)
	sd.Renumber()
	return true
}

// FindScreen 按编号查找画面
func (sd *ScenarioData) FindScreen(number int) *Screen {
	for i := range sd.Screens {
		if sd.Screens[i].ScreenNumber == number {
			return &sd.Screens[i]
		}
	}
	return nil
}

// Clone 返回场景数据的深拷贝
func (sd *ScenarioData) Clone() *ScenarioData {
	cp := *sd
	cp.Screens = append([]Screen(nil), sd.Screens...)
	if cp.Screens == nil {
		cp.Screens = []Screen{}
	}
	return &cp
}
