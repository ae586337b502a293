package services

import (
	"regexp"
	"strings"

	"github.com/cinelens-ai/cinelens-engine/pkg/models"
)

// Fallback parser constants. Page and duration figures are estimates from
// industry rules of thumb (a screenplay page runs about a minute).
const (
	fallbackLinesPerPage       = 55
	fallbackLinesPerMinute     = 8
	fallbackMaxCharacterCueLen = 30
)

// sluglinePattern matches scene headers: "INT. OFFICE - DAY",
// "EXT. STREET - NIGHT", "INT/EXT. CAR - CONTINUOUS".
var sluglinePattern = regexp.MustCompile(`^\s*(INT\.|EXT\.|INT/EXT\.|I/E\.)\s+(.+?)(?:\s+-\s+(.+?))?\s*$`)

// characterCuePattern matches lines consisting solely of capitalized words,
// optionally with a parenthetical extension like "(V.O.)".
var characterCuePattern = regexp.MustCompile(`^\s*([A-Z][A-Z0-9 .'-]*[A-Z0-9.'])\s*(\(.*\))?\s*$`)

// transitionWords are all-caps screenplay directives that look like character
// cues but are not.
var transitionWords = map[string]bool{
	"FADE IN":       true,
	"FADE OUT":      true,
	"FADE TO BLACK": true,
	"CUT TO":        true,
	"SMASH CUT TO":  true,
	"DISSOLVE TO":   true,
	"MATCH CUT TO":  true,
	"THE END":       true,
	"CONTINUED":     true,
	"TITLE":         true,
	"SUPER":         true,
}

// ParseScenesBasic is the deterministic fallback for the scene-extraction
// stage: regex-driven segmentation with no external calls, used when the
// generation capability is unavailable or returns unusable output. A script
// with no recognizable sluglines yields zero scenes, which callers must treat
// as a legitimate (if degenerate) result.
func ParseScenesBasic(script string) []*models.Scene {
	lines := strings.Split(script, "\n")

	var scenes []*models.Scene
	var current *models.Scene
	var contentLines []string
	seenCharacters := map[string]bool{}
	sceneStartLine := 0

	closeScene := func(endLine int) {
		if current == nil {
			return
		}
		current.Content = strings.Join(contentLines, "\n")
		current.PageStart = sceneStartLine/fallbackLinesPerPage + 1
		current.PageEnd = endLine/fallbackLinesPerPage + 1
		current.DurationMinutes = len(contentLines) / fallbackLinesPerMinute
		if current.DurationMinutes < 1 {
			current.DurationMinutes = 1
		}
		scenes = append(scenes, current)
	}

	for i, line := range lines {
		if match := sluglinePattern.FindStringSubmatch(line); match != nil {
			closeScene(i)

			current = &models.Scene{
				SceneNumber: len(scenes) + 1,
				Location:    strings.TrimSpace(match[2]),
				TimeOfDay:   strings.TrimSpace(match[3]),
				Description: strings.TrimSpace(line),
				Characters:  []string{},
			}
			contentLines = contentLines[:0]
			seenCharacters = map[string]bool{}
			sceneStartLine = i
			continue
		}

		if current == nil {
			continue
		}

		contentLines = append(contentLines, line)

		if name, ok := matchCharacterCue(line); ok && !seenCharacters[name] {
			seenCharacters[name] = true
			current.Characters = append(current.Characters, name)
		}
	}

	closeScene(len(lines))

	return scenes
}

// matchCharacterCue reports whether a line is a character cue and returns the
// bare character name. Sluglines and transitions ("CUT TO:") do not qualify.
func matchCharacterCue(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || len(trimmed) > fallbackMaxCharacterCueLen {
		return "", false
	}
	if strings.HasSuffix(trimmed, ":") {
		return "", false
	}
	if sluglinePattern.MatchString(trimmed) {
		return "", false
	}

	match := characterCuePattern.FindStringSubmatch(trimmed)
	if match == nil {
		return "", false
	}

	name := strings.TrimSpace(match[1])
	// Single letters and pure numbers are layout noise, not names.
	if len(name) < 2 || !strings.ContainsFunc(name, func(r rune) bool { return r >= 'A' && r <= 'Z' }) {
		return "", false
	}
	if transitionWords[strings.TrimRight(name, ".:")] {
		return "", false
	}
	return name, true
}
