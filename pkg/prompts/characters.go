package prompts

import (
	"strings"

	"github.com/cinelens-ai/cinelens-engine/pkg/models"
)

// CharacterAnalysisSystem is the system message for the character-analysis stage.
const CharacterAnalysisSystem = `You are a script analyst specializing in character work. You profile every
named character in a screenplay: who they are, how much screen presence they
carry, and how they relate to each other.
Respond ONLY with valid JSON. No markdown, no explanations.`

// BuildCharacterAnalysisPrompt creates the prompt for analyzing characters
// across the extracted scenes.
func BuildCharacterAnalysisPrompt(scenes []*models.Scene) string {
	var prompt strings.Builder

	prompt.WriteString("# Character Analysis\n\n")
	prompt.WriteString("Analyze every named character appearing in the scenes below.\n\n")
	prompt.WriteString("## Scenes\n\n")
	writeSceneDigest(&prompt, scenes, 2000)

	prompt.WriteString(`## Output Format

Respond with a JSON array, one object per character:
[
  {
    "name": "NAME",
    "description": "Who this character is",
    "age": "30s",
    "gender": "unspecified if unclear",
    "personality_traits": ["trait"],
    "importance": "lead" | "supporting" | "minor",
    "screen_time_minutes": 40,
    "relationships": [
      {"character_name": "OTHER", "relationship": "rival", "strength": 7}
    ],
    "character_arc": "How the character changes across the script"
  }
]

Relationship strength runs 1-10. Include every character that speaks or is
named in action lines.`)

	return prompt.String()
}
