// Package prompts builds the stage-specific prompts sent to generation
// providers. Each builder takes typed upstream records and renders them into
// a prompt plus a JSON output contract for the model.
package prompts

import (
	"fmt"
	"strings"

	"github.com/cinelens-ai/cinelens-engine/pkg/models"
)

// maxScriptChars bounds how much raw script is embedded in a single prompt.
// Long scripts are truncated rather than chunked; extraction quality on the
// tail is the fallback parser's job when this matters.
const maxScriptChars = 60000

// SceneExtractionSystem is the system message for the scene-extraction stage.
const SceneExtractionSystem = `You are a screenplay breakdown expert. You segment scripts into scenes and
extract production-relevant structure from each one.
Respond ONLY with valid JSON. No markdown, no explanations.`

// BuildSceneExtractionPrompt creates the prompt for segmenting a raw script
// into structured scenes.
func BuildSceneExtractionPrompt(script string) string {
	if len(script) > maxScriptChars {
		script = script[:maxScriptChars]
	}

	var prompt strings.Builder

	prompt.WriteString("# Scene Extraction\n\n")
	prompt.WriteString("Segment the following screenplay into scenes. A scene starts at a slugline (INT./EXT.).\n\n")
	prompt.WriteString("## Screenplay\n\n")
	prompt.WriteString(script)
	prompt.WriteString("\n\n## Output Format\n\n")
	prompt.WriteString(`Respond with a JSON array, one object per scene:
[
  {
    "scene_number": 1,
    "location": "OFFICE",
    "time_of_day": "DAY",
    "description": "One-sentence summary of what happens",
    "characters": ["NAME", "NAME"],
    "content": "Full scene text",
    "page_start": 1,
    "page_end": 2,
    "duration_minutes": 3,
    "vfx_needs": ["tag"],
    "product_placements": ["tag"]
  }
]`)

	return prompt.String()
}

// writeSceneDigest renders a compact per-scene digest shared by the
// downstream stage prompts. contentLimit truncates scene content; pass 0 to
// omit content entirely.
func writeSceneDigest(prompt *strings.Builder, scenes []*models.Scene, contentLimit int) {
	for _, scene := range scenes {
		fmt.Fprintf(prompt, "### Scene %d (id: %s): %s - %s\n", scene.SceneNumber, scene.ID, scene.Location, scene.TimeOfDay)
		if scene.Description != "" {
			fmt.Fprintf(prompt, "%s\n", scene.Description)
		}
		if len(scene.Characters) > 0 {
			fmt.Fprintf(prompt, "Characters: %s\n", strings.Join(scene.Characters, ", "))
		}
		if contentLimit > 0 && scene.Content != "" {
			content := scene.Content
			if len(content) > contentLimit {
				content = content[:contentLimit] + "..."
			}
			fmt.Fprintf(prompt, "```\n%s\n```\n", content)
		}
		prompt.WriteString("\n")
	}
}
