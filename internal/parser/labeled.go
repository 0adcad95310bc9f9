package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/litwatch/research-digest/internal/model"
)

type labelField int

const (
	fieldResearchScore labelField = iota
	fieldSocialScore
	fieldResearchJustification
	fieldSocialJustification
)

type label struct {
	prefix string
	field  labelField
}

// labels are matched in order against the start of each trimmed line.
var labels = []label{
	{"Research Score:", fieldResearchScore},
	{"Social Impact Score:", fieldSocialScore},
	{"Social Score:", fieldSocialScore},
	{"Research Justification:", fieldResearchJustification},
	{"Research:", fieldResearchJustification},
	{"Social Justification:", fieldSocialJustification},
	{"Social:", fieldSocialJustification},
}

var digitRun = regexp.MustCompile(`\d+`)

// lineMarkers are markdown list and emphasis characters some models put
// before a label ("- Research Score:", "**Research Score:**").
const lineMarkers = "*-#> \t"

// parseLabeled reads "Label: value" lines. Both scores must be found for a
// match; justifications keep their defaults when absent or empty.
func parseLabeled(text string) (model.ScoreResult, bool) {
	res := model.ScoreResult{
		ResearchJustification: model.NoJustification,
		SocialJustification:   model.NoJustification,
	}
	var haveResearch, haveSocial bool

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimLeft(strings.TrimSpace(line), lineMarkers)

		for _, l := range labels {
			if !strings.HasPrefix(line, l.prefix) {
				continue
			}
			rest := strings.TrimSpace(strings.TrimLeft(line[len(l.prefix):], lineMarkers))

			switch l.field {
			case fieldResearchScore:
				if v, ok := firstScore(rest); ok {
					res.Research = v
					haveResearch = true
				}
			case fieldSocialScore:
				if v, ok := firstScore(rest); ok {
					res.SocialImpact = v
					haveSocial = true
				}
			case fieldResearchJustification:
				if rest != "" {
					res.ResearchJustification = rest
				}
			case fieldSocialJustification:
				if rest != "" {
					res.SocialJustification = rest
				}
			}
			break
		}
	}

	if !haveResearch || !haveSocial {
		return model.ScoreResult{}, false
	}
	return res, true
}

// firstScore parses the first digit run in s. Out-of-range values are discarded.
func firstScore(s string) (model.ScoreValue, bool) {
	digits := digitRun.FindString(s)
	if digits == "" {
		return model.Unknown(), false
	}
	v, err := strconv.Atoi(digits)
	if err != nil || v < model.MinScore || v > model.MaxScore {
		return model.Unknown(), false
	}
	return model.Numeric(v), true
}
