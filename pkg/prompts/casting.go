package prompts

import (
	"fmt"
	"strings"

	"github.com/cinelens-ai/cinelens-engine/pkg/models"
)

// CastingSystem is the system message for the casting-suggestion stage.
const CastingSystem = `You are a casting director with deep knowledge of working actors, their
typical fee ranges, and their professional relationships.
Respond ONLY with valid JSON. No markdown, no explanations.`

// BuildCastingPrompt creates the prompt for suggesting actors per character.
func BuildCastingPrompt(characters []*models.Character) string {
	var prompt strings.Builder

	prompt.WriteString("# Casting Suggestions\n\n")
	prompt.WriteString("Suggest 3-5 candidate actors for each character below, best fit first.\n\n")
	prompt.WriteString("## Characters\n\n")
	for _, character := range characters {
		fmt.Fprintf(&prompt, "### %s (%s)\n", character.Name, character.Importance)
		if character.Description != "" {
			fmt.Fprintf(&prompt, "%s\n", character.Description)
		}
		if character.Age != "" || character.Gender != "" {
			fmt.Fprintf(&prompt, "Age: %s, Gender: %s\n", character.Age, character.Gender)
		}
		if len(character.PersonalityTraits) > 0 {
			fmt.Fprintf(&prompt, "Traits: %s\n", strings.Join(character.PersonalityTraits, ", "))
		}
		if character.CharacterArc != "" {
			fmt.Fprintf(&prompt, "Arc: %s\n", character.CharacterArc)
		}
		prompt.WriteString("\n")
	}

	prompt.WriteString(`## Output Format

Respond with a JSON array, one object per character:
[
  {
    "character_name": "NAME",
    "candidates": [
      {
        "name": "Actor Name",
        "reasoning": "Why this actor fits",
        "fit_score": 85,
        "availability": "Known scheduling considerations",
        "fee_estimate": "$2-4M",
        "working_relationships": ["Other suggested actor they have worked with"]
      }
    ]
  }
]

Fit score runs 1-100. Order candidates best fit first.`)

	return prompt.String()
}
