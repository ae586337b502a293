package prompts

import (
	"fmt"
	"strings"

	"github.com/cinelens-ai/cinelens-engine/pkg/models"
)

// FinancialPlanSystem is the system message for the financial-plan stage.
const FinancialPlanSystem = `You are a film-finance analyst producing a coherent budget and revenue plan
from a completed script breakdown. Your numbers must be internally
self-consistent: budget buckets should sum to the total budget.
Respond ONLY with valid JSON. No markdown, no explanations.`

// BuildFinancialPlanPrompt creates the prompt for synthesizing the financial
// plan from all cost/revenue-bearing upstream outputs.
func BuildFinancialPlanPrompt(
	scenes []*models.Scene,
	characters []*models.Character,
	vfxNeeds []*models.VFXNeed,
	castings []*models.ActorSuggestion,
	locations []*models.LocationSuggestion,
	placements []*models.ProductPlacement,
) string {
	var prompt strings.Builder

	prompt.WriteString("# Financial Plan\n\n")
	prompt.WriteString("Produce a production budget and revenue projection from the breakdown below.\n\n")

	totalDuration := 0
	for _, scene := range scenes {
		totalDuration += scene.DurationMinutes
	}
	fmt.Fprintf(&prompt, "## Scope\n\n%d scenes, estimated runtime %d minutes, %d characters.\n\n",
		len(scenes), totalDuration, len(characters))

	totalVFX := 0
	for _, need := range vfxNeeds {
		totalVFX += need.EstimatedCost
	}
	fmt.Fprintf(&prompt, "## VFX\n\n%d effects, estimated total $%d.\n\n", len(vfxNeeds), totalVFX)

	if len(castings) > 0 {
		prompt.WriteString("## Cast Fee Estimates\n\n")
		for _, casting := range castings {
			if len(casting.Candidates) == 0 {
				continue
			}
			top := casting.Candidates[0]
			fmt.Fprintf(&prompt, "- %s: %s (%s)\n", casting.CharacterName, top.Name, top.FeeEstimate)
		}
		prompt.WriteString("\n")
	}

	if len(locations) > 0 {
		prompt.WriteString("## Locations\n\n")
		for _, suggestion := range locations {
			for _, candidate := range suggestion.Candidates {
				fmt.Fprintf(&prompt, "- %s (%s): $%d, tax incentive %.1f%%\n",
					candidate.Name, candidate.Country, candidate.EstimatedCost, candidate.TaxIncentivePercent)
			}
		}
		prompt.WriteString("\n")
	}

	totalPlacement := 0
	for _, placement := range placements {
		totalPlacement += placement.EstimatedValue
	}
	fmt.Fprintf(&prompt, "## Product Placement\n\n%d opportunities, estimated total value $%d.\n\n",
		len(placements), totalPlacement)

	prompt.WriteString(`## Output Format

Respond with a single JSON object:
{
  "total_budget": 25000000,
  "budget": {
    "above_the_line": 6000000,
    "production": 12000000,
    "post_production": 4000000,
    "marketing": 2000000,
    "contingency": 1000000
  },
  "revenue": {
    "domestic_box_office": 30000000,
    "international_box_office": 25000000,
    "streaming": 10000000,
    "home_entertainment": 3000000,
    "product_placement": 500000
  },
  "roi": 1.7,
  "break_even_budget": 27000000
}

All amounts are whole US dollars. Budget buckets must sum to total_budget.`)

	return prompt.String()
}

// ExecutiveSummarySystem is the system message for the executive-summary stage.
const ExecutiveSummarySystem = `You are a studio development executive writing a concise greenlight memo.
Write plain prose. Do not use JSON or markdown headers.`

// BuildExecutiveSummaryPrompt creates the prompt for the closing prose summary.
func BuildExecutiveSummaryPrompt(
	project *models.Project,
	scenes []*models.Scene,
	characters []*models.Character,
	vfxNeeds []*models.VFXNeed,
	castings []*models.ActorSuggestion,
	locations []*models.LocationSuggestion,
	placements []*models.ProductPlacement,
	plan *models.FinancialPlan,
) string {
	var prompt strings.Builder

	prompt.WriteString("# Executive Summary\n\n")
	fmt.Fprintf(&prompt, "Write an executive summary for the project %q covering story scope, cast, production complexity, and financial outlook.\n\n", project.Title)

	fmt.Fprintf(&prompt, "Breakdown: %d scenes, %d characters, %d VFX needs, %d casting suggestions, %d location suggestions, %d placement opportunities.\n\n",
		len(scenes), len(characters), len(vfxNeeds), len(castings), len(locations), len(placements))

	leads := make([]string, 0, 4)
	for _, character := range characters {
		if character.Importance == models.ImportanceLead {
			leads = append(leads, character.Name)
		}
	}
	if len(leads) > 0 {
		fmt.Fprintf(&prompt, "Leads: %s.\n\n", strings.Join(leads, ", "))
	}

	if plan != nil {
		fmt.Fprintf(&prompt, "Financials: total budget $%d, projected ROI %.2f, break-even at $%d.\n\n",
			plan.TotalBudget, plan.ROI, plan.BreakEvenBudget)
	}

	prompt.WriteString("Keep it under 500 words. Respond with prose only.")

	return prompt.String()
}
