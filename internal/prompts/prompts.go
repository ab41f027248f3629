// internal/prompts/prompts.go
package prompts

import (
	"fmt"
	"strings"

	"github.com/Corphon/ScenarioBuilder/internal/models"
)

// SystemDesigner 情景生成使用的系统提示词
const SystemDesigner = "You are an expert instructional designer and learning experience designer " +
	"who creates short, realistic, and motivating learning scenarios for higher education " +
	"and professional audiences. Each scenario should connect the key concept to real-world " +
	"practice, reflect the learners' context, and feel authentic to their field."

// SystemAssistant 通用助理系统提示词
const SystemAssistant = "You are a helpful assistant that follows the provided task instructions carefully."

// SystemScreenJSON 屏幕生成系统提示词（要求JSON输出）
const SystemScreenJSON = SystemDesigner + " Generate screen content in valid JSON format."

// ScenarioOptions 构建"生成三个候选情景"的提示词
func ScenarioOptions(form *models.FormData) string {
	var b strings.Builder

	b.WriteString(SystemDesigner)
	b.WriteString("\n\nUsing the information below, generate exactly 3 short scenario summaries ")
	b.WriteString("(2-3 sentences each) that will help learners see the relevance and value of this project.\n")
	b.WriteString("Inputs:\n")
	fmt.Fprintf(&b, "- Course: %s\n", form.Course.CourseTitle)
	fmt.Fprintf(&b, "- Course Objectives: %s\n", form.Course.CourseObjectives)
	fmt.Fprintf(&b, "- Module: %s\n", form.Project.ModuleTitle)
	fmt.Fprintf(&b, "- Module Description: %s\n", form.Project.ModuleDescription)
	fmt.Fprintf(&b, "- Project: %s\n", form.Project.ProjectTitle)
	fmt.Fprintf(&b, "- Project Goal: %s\n", form.Project.ProjectGoal)
	fmt.Fprintf(&b, "- Learning Objectives: %s\n", form.Project.ProjectLearningObjectives)
	fmt.Fprintf(&b, "- Learner Profile: %s\n", form.Audience.StudentDescription)
	fmt.Fprintf(&b, "- Education Level: %s\n", form.Audience.EducationLevel)
	fmt.Fprintf(&b, "- Prerequisites: %s\n", strings.Join(form.Audience.Prerequisites, ", "))

	b.WriteString(`
Your task:

Create 3 distinct scenario summaries that:
1. Are realistic and relevant to the learner profile and course context.
2. Clearly illustrate how the project goal applies in practice.
3. Present a situation or challenge that encourages critical thinking or decision-making.
4. Use authentic, inclusive examples (diverse names, roles, and settings).
5. Specify a clear setting or context (e.g., workplace, community, field site, or classroom).
6. Feel motivating and purposeful.

Format your response as:
SCENARIO 1: [summary with realistic context, diverse characters, and clear challenge]
SCENARIO 2: [summary with realistic context, diverse characters, and clear challenge]
SCENARIO 3: [summary with realistic context, diverse characters, and clear challenge]

IMPORTANT: Write in plain, professional language suitable for the stated education level.
Keep tone practical, motivational, and grounded in real-world settings.
Avoid jargon or overly academic phrasing.
`)

	return b.String()
}

// RefineScenario 构建"按修改说明改写当前情景"的提示词
func RefineScenario(form *models.FormData, current, instructions string) string {
	var b strings.Builder

	b.WriteString(SystemDesigner)
	b.WriteString("\n\nBased on the following inputs, update the current scenario according to the update instructions:\n")
	fmt.Fprintf(&b, "Current scenario: %s\n", current)
	fmt.Fprintf(&b, "Update instructions: %s\n\n", instructions)
	b.WriteString("Inputs:\n")
	fmt.Fprintf(&b, "- Course: %s\n", form.Course.CourseTitle)
	fmt.Fprintf(&b, "- Module: %s\n", form.Project.ModuleTitle)
	fmt.Fprintf(&b, "- Project Goal: %s\n", form.Project.ProjectGoal)
	fmt.Fprintf(&b, "- Learner Profile: %s\n", form.Audience.StudentDescription)

	b.WriteString(`
The updated scenario should:
1. Be realistic and relevant to the learner profile and course context.
2. Clearly illustrate how the project goal applies in practice.
3. Be 2-3 sentences long. Do not add any other text or formatting.

CRITICAL: Your response must contain ONLY the scenario text. No prefixes, no labels,
no metadata, no explanations - just the scenario itself.
`)

	return b.String()
}

// Screens 构建屏幕序列生成提示词（JSON输出）
func Screens(form *models.FormData, scenarioDescription string, numScreens int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Goal: Create %d sequential screens that visually tell the story described below. ", numScreens)
	fmt.Fprintf(&b, "The PRIMARY focus should be on clearly depicting and reinforcing the project goal: %s. ", form.Project.ProjectGoal)
	b.WriteString("Each screen should directly connect to how this goal is applied, learned, or demonstrated in the scenario.\n")

	b.WriteString(`
Story Arc:
Follow the traditional story structure of:
1. Beginning - Introduce the context, characters, and the inciting incident.
2. Rising Action - Build tension or challenge as the main event unfolds.
3. Climax - Present the turning point or key decision moment.
4. Falling Action - Show the outcome or consequence of that moment.
5. Resolution - End with an insight, learning, or call to action that ties back to the learning goal.
`)

	fmt.Fprintf(&b, "\nScenario:\n%s\n", scenarioDescription)
	fmt.Fprintf(&b, "\nCourse: %s\nModule: %s\n", form.Course.CourseTitle, form.Project.ModuleTitle)

	b.WriteString(`
Guidelines:
1. Each screen should advance the story in a logical and emotionally engaging way.
2. Write image_description as if it will be sent directly to a generative image model.
   Use vivid, cinematic visual language describing the setting, mood, lighting,
   character expressions, gestures, positions, props and atmosphere.
3. Avoid elements that generative AI renders poorly: no text, labels, symbols,
   charts, diagrams, or complex abstractions. Focus only on scenes, people,
   environments, and objects that can be realistically photographed or illustrated.
4. Write caption_description as a short motivational or descriptive text that
   connects the visual to the story and learning objective.

Format as JSON:
{
  "screens": [
    {"screen_number": 1, "title": "", "image_description": "", "caption_description": ""},
    {"screen_number": 2, "title": "", "image_description": "", "caption_description": ""}
  ]
}
`)

	return b.String()
}

// ImageDescription 由屏幕说明文字生成图像提示词
func ImageDescription(caption string, style models.StylePack) string {
	palette := style.Palette
	if palette == "" {
		palette = "blue"
	}
	vibe := style.Vibe
	if vibe == "" {
		vibe = "flat_illustration"
	}
	aspectRatio := style.AspectRatio
	if aspectRatio == "" {
		aspectRatio = "4:3"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create an image for: %s\n\n", caption)
	fmt.Fprintf(&b, "Style: %s\n", strings.ReplaceAll(vibe, "_", " "))
	fmt.Fprintf(&b, "Color palette: %s\n", palette)
	fmt.Fprintf(&b, "Aspect ratio: %s\n", aspectRatio)
	b.WriteString("Educational content style\nProfessional and engaging\nClear visual elements\nSuitable for learning materials")

	return b.String()
}

// ImageVibe 由风格组合生成总体视觉基调描述
func ImageVibe(style models.StylePack) string {
	palette := style.Palette
	if palette == "" {
		palette = "blue"
	}
	vibe := style.Vibe
	if vibe == "" {
		vibe = "flat_illustration"
	}
	aspectRatio := style.AspectRatio
	if aspectRatio == "" {
		aspectRatio = "4:3"
	}
	vibeWords := strings.ReplaceAll(vibe, "_", " ")

	var b strings.Builder
	b.WriteString("Visual Style Guidelines:\n\n")
	fmt.Fprintf(&b, "Color Palette: %s\n", palette)
	fmt.Fprintf(&b, "Visual Style: %s\n", vibeWords)
	fmt.Fprintf(&b, "Aspect Ratio: %s\n\n", aspectRatio)
	b.WriteString("Image Characteristics:\n")
	fmt.Fprintf(&b, "- Consistent with the %s aesthetic\n", vibeWords)
	fmt.Fprintf(&b, "- Colors should follow the %s palette\n", palette)
	fmt.Fprintf(&b, "- Maintain %s aspect ratio for all images\n", aspectRatio)
	b.WriteString("- Professional yet engaging visual presentation\n")
	b.WriteString("- Clear, readable elements suitable for educational content")

	return b.String()
}

// ParseScenarioOptions 从模型回复中解析三个候选情景
func ParseScenarioOptions(content string) []string {
	var scenarios []string
	var current strings.Builder

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			scenarios = append(scenarios, s)
		}
		current.Reset()
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if rest, ok := stripScenarioLabel(line); ok {
			flush()
			current.WriteString(rest)
		} else if current.Len() > 0 && line != "" {
			current.WriteString(" ")
			current.WriteString(line)
		}
	}
	flush()

	// 保证恰好三个候选
	for len(scenarios) < 3 {
		scenarios = append(scenarios, "Additional scenario could not be generated.")
	}
	return scenarios[:3]
}

func stripScenarioLabel(line string) (string, bool) {
	for _, label := range []string{"SCENARIO 1:", "SCENARIO 2:", "SCENARIO 3:"} {
		if strings.HasPrefix(line, label) {
			return strings.TrimSpace(strings.TrimPrefix(line, label)), true
		}
	}
	return "", false
}
