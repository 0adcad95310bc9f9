// Package parser turns free-form language model responses into bounded score results.
//
// Parsing is a cascade of increasingly permissive strategies (structured JSON,
// labeled lines, numeric salvage). The cascade is total: every input string
// yields a well-formed model.ScoreResult.
package parser

import (
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/litwatch/research-digest/internal/model"
)

// Strategy identifies one parsing strategy in the cascade.
type Strategy int

const (
	Structured Strategy = iota
	Labeled
	Unstructured
)

// String returns the strategy name recorded on results.
func (s Strategy) String() string {
	switch s {
	case Structured:
		return "structured"
	case Labeled:
		return "labeled"
	case Unstructured:
		return "unstructured"
	default:
		return "unknown"
	}
}

// Hint tells the parser which response format the prompt asked for.
type Hint int

const (
	// StructuredFirst is used for responses to the JSON-format prompt.
	StructuredFirst Hint = iota
	// LabelFirst is used for responses to the labeled-line prompt.
	LabelFirst
)

// String returns the flag spelling of the hint.
func (h Hint) String() string {
	if h == LabelFirst {
		return "labeled"
	}
	return "structured"
}

// ParseHint converts a flag value ("structured" or "labeled") into a Hint.
func ParseHint(s string) (Hint, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "structured", "json":
		return StructuredFirst, nil
	case "labeled", "label", "text":
		return LabelFirst, nil
	default:
		return StructuredFirst, eris.Errorf("parser: unknown hint %q", s)
	}
}

// Order returns the strategies tried for the hint, most specific first.
// Unstructured is always last because it never fails.
func (h Hint) Order() []Strategy {
	if h == LabelFirst {
		return []Strategy{Labeled, Structured, Unstructured}
	}
	return []Strategy{Structured, Labeled, Unstructured}
}

type strategyFunc func(text string) (model.ScoreResult, bool)

var strategyFuncs = [...]strategyFunc{
	Structured:   parseStructured,
	Labeled:      parseLabeled,
	Unstructured: parseUnstructured,
}

// Parse extracts scores and justifications from a model response.
// It never fails: blank text yields model.EmptyResult and text without any
// usable number yields Unknown scores.
func Parse(text string, hint Hint) model.ScoreResult {
	if strings.TrimSpace(text) == "" {
		return model.EmptyResult()
	}

	for _, s := range hint.Order() {
		res, ok := strategyFuncs[s](text)
		if !ok {
			zap.L().Debug("parser: strategy did not match", zap.Stringer("strategy", s))
			continue
		}
		res.Strategy = s.String()
		zap.L().Debug("parser: strategy matched",
			zap.Stringer("strategy", s),
			zap.Stringer("research_score", res.Research),
			zap.Stringer("social_impact_score", res.SocialImpact),
		)
		return res
	}

	// parseUnstructured always matches; kept for completeness.
	res, _ := parseUnstructured(text)
	res.Strategy = Unstructured.String()
	return res
}
