package parser

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/litwatch/research-digest/internal/model"
)

// JSON keys expected from the structured prompt.
const (
	keyResearchScore         = "research_score"
	keySocialImpactScore     = "social_impact_score"
	keyResearchJustification = "research_justification"
	keySocialJustification   = "social_justification"
)

// parseStructured decodes the text between the first "{" and the last "}".
// It matches only when the object carries at least one score key.
func parseStructured(text string) (model.ScoreResult, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < 0 || end <= start {
		return model.ScoreResult{}, false
	}

	dec := json.NewDecoder(strings.NewReader(text[start : end+1]))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return model.ScoreResult{}, false
	}

	research, hasResearch := raw[keyResearchScore]
	social, hasSocial := raw[keySocialImpactScore]
	if !hasResearch && !hasSocial {
		return model.ScoreResult{}, false
	}

	return model.ScoreResult{
		Research:              jsonScore(research),
		SocialImpact:          jsonScore(social),
		ResearchJustification: jsonJustification(raw[keyResearchJustification]),
		SocialJustification:   jsonJustification(raw[keySocialJustification]),
	}, true
}

// jsonScore accepts integral numbers and integer strings within range.
func jsonScore(v any) model.ScoreValue {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			if i < model.MinScore || i > model.MaxScore {
				return model.Unknown()
			}
			return model.Numeric(int(i))
		}
		f, err := val.Float64()
		if err != nil || f != math.Trunc(f) || f < model.MinScore || f > model.MaxScore {
			return model.Unknown()
		}
		return model.Numeric(int(f))
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return model.Unknown()
		}
		return model.Numeric(i)
	default:
		return model.Unknown()
	}
}

func jsonJustification(v any) string {
	s, ok := v.(string)
	if !ok {
		return model.NoJustification
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return model.NoJustification
	}
	return s
}
