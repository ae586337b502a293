package prompts

import (
	"strings"

	"github.com/cinelens-ai/cinelens-engine/pkg/models"
)

// VFXAnalysisSystem is the system message for the VFX-needs stage.
const VFXAnalysisSystem = `You are a VFX supervisor estimating effects work from a script breakdown.
Respond ONLY with valid JSON. No markdown, no explanations.`

// BuildVFXAnalysisPrompt creates the prompt for identifying VFX needs per scene.
func BuildVFXAnalysisPrompt(scenes []*models.Scene) string {
	var prompt strings.Builder

	prompt.WriteString("# VFX Needs Analysis\n\n")
	prompt.WriteString("Identify every visual effect the scenes below require. Reference scenes by their id.\n\n")
	prompt.WriteString("## Scenes\n\n")
	writeSceneDigest(&prompt, scenes, 1500)

	prompt.WriteString(`## Output Format

Respond with a JSON array, one object per effect:
[
  {
    "scene_id": "scene id from above",
    "effect_type": "e.g. compositing, CG creature, fire simulation",
    "complexity": "low" | "medium" | "high" | "extreme",
    "estimated_cost": 50000,
    "description": "What the effect involves",
    "reference_images": ["label"]
  }
]

Estimated cost is in whole US dollars. Scenes with no effects need no entry.`)

	return prompt.String()
}

// PlacementSystem is the system message for the product-placement stage.
const PlacementSystem = `You are a brand-integration specialist evaluating product-placement
opportunities in a screenplay.
Respond ONLY with valid JSON. No markdown, no explanations.`

// BuildPlacementPrompt creates the prompt for finding placement opportunities per scene.
func BuildPlacementPrompt(scenes []*models.Scene) string {
	var prompt strings.Builder

	prompt.WriteString("# Product Placement Analysis\n\n")
	prompt.WriteString("Find natural product-placement opportunities in the scenes below. Reference scenes by their id.\n\n")
	prompt.WriteString("## Scenes\n\n")
	writeSceneDigest(&prompt, scenes, 1500)

	prompt.WriteString(`## Output Format

Respond with a JSON array, one object per opportunity:
[
  {
    "scene_id": "scene id from above",
    "brand": "Brand name",
    "product": "Specific product",
    "placement": "How the product appears in the scene",
    "naturalness_score": 8,
    "visibility": "background" | "featured" | "hero",
    "estimated_value": 100000
  }
]

Naturalness score runs 1-10 (10 = seamless). Estimated value is whole US dollars.
Only suggest placements that do not undermine the scene.`)

	return prompt.String()
}

// LocationSystem is the system message for the location-suggestion stage.
const LocationSystem = `You are a location manager with knowledge of shooting locations worldwide,
their costs, logistics, and regional tax incentives.
Respond ONLY with valid JSON. No markdown, no explanations.`

// BuildLocationPrompt creates the prompt for suggesting shooting locations per scene.
func BuildLocationPrompt(scenes []*models.Scene) string {
	var prompt strings.Builder

	prompt.WriteString("# Location Suggestions\n\n")
	prompt.WriteString("Suggest 2-3 real shooting locations for each distinct scripted location below. Reference scenes by their id.\n\n")
	prompt.WriteString("## Scenes\n\n")
	writeSceneDigest(&prompt, scenes, 0)

	prompt.WriteString(`## Output Format

Respond with a JSON array, one object per scene that needs a location:
[
  {
    "scene_id": "scene id from above",
    "location_type": "e.g. corporate office, desert highway",
    "candidates": [
      {
        "name": "Specific place",
        "city": "City",
        "state": "State/region or empty",
        "country": "Country",
        "tax_incentive_percent": 25.0,
        "estimated_cost": 80000,
        "logistics": "Access, permits, crew base",
        "weather": "Seasonal considerations"
      }
    ]
  }
]

Estimated cost is whole US dollars for the scene's shooting days.`)

	return prompt.String()
}
