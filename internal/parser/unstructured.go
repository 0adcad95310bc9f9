package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/litwatch/research-digest/internal/model"
)

// contextRadius is the number of bytes inspected on each side of a number.
const contextRadius = 50

var (
	integerToken = regexp.MustCompile(`\b\d+\b`)

	researchKeywords = []string{"research", "innovation", "methodolog", "rigor", "data"}
	socialKeywords   = []string{"social", "impact", "public", "policy", "society"}
)

type occurrence struct {
	value      int
	start, end int
}

// parseUnstructured salvages scores from free text. Numbers are first
// attributed by nearby keywords, then by position. It always matches.
func parseUnstructured(text string) (model.ScoreResult, bool) {
	var valid []occurrence
	for _, loc := range integerToken.FindAllStringIndex(text, -1) {
		v, err := strconv.Atoi(text[loc[0]:loc[1]])
		if err != nil || v < model.MinScore || v > model.MaxScore {
			continue
		}
		valid = append(valid, occurrence{value: v, start: loc[0], end: loc[1]})
	}

	used := make([]bool, len(valid))
	research, social := -1, -1
	seen := make(map[int]bool, len(valid))

	for i, occ := range valid {
		if seen[occ.value] {
			continue
		}
		seen[occ.value] = true

		window := strings.ToLower(contextWindow(text, occ.start, occ.end))
		switch {
		case research < 0 && containsAny(window, researchKeywords):
			research = i
			used[i] = true
		case social < 0 && containsAny(window, socialKeywords):
			social = i
			used[i] = true
		}
	}

	if len(valid) == 1 {
		if research < 0 {
			research = 0
		}
		if social < 0 {
			social = 0
		}
	} else {
		if research < 0 {
			research = nextUnused(used)
		}
		if social < 0 {
			social = nextUnused(used)
		}
	}

	return model.ScoreResult{
		Research:              scoreAt(valid, research),
		SocialImpact:          scoreAt(valid, social),
		ResearchJustification: model.ExtractedJustification,
		SocialJustification:   model.ExtractedJustification,
	}, true
}

func contextWindow(text string, start, end int) string {
	from := max(0, start-contextRadius)
	to := min(len(text), end+contextRadius)
	return text[from:to]
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// nextUnused claims the first unused occurrence, or returns -1.
func nextUnused(used []bool) int {
	for i, u := range used {
		if !u {
			used[i] = true
			return i
		}
	}
	return -1
}

func scoreAt(valid []occurrence, idx int) model.ScoreValue {
	if idx < 0 || idx >= len(valid) {
		return model.Unknown()
	}
	return model.Numeric(valid[idx].value)
}
