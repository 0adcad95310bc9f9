package model

import (
	"encoding/json"
	"strconv"
)

// Score bounds for a Numeric ScoreValue.
const (
	MinScore = 0
	MaxScore = 100
)

// Fixed justifications used when no model text could be attributed.
const (
	NoJustification        = "No justification provided"
	ExtractedJustification = "Extracted from response text"
	EmptyResponseMessage   = "Empty model response"
	FailedJustification    = "All API calls failed"
)

// ScoreKind tags the variant held by a ScoreValue.
type ScoreKind int

const (
	ScoreUnknown ScoreKind = iota
	ScoreNumeric
	ScoreError
)

// String returns the lowercase kind name.
func (k ScoreKind) String() string {
	switch k {
	case ScoreNumeric:
		return "numeric"
	case ScoreError:
		return "error"
	default:
		return "unknown"
	}
}

// ScoreValue is the outcome of obtaining one 0-100 quality score: a number,
// an unknown (nothing usable was found), or an error (the model never answered).
// The zero value is Unknown.
type ScoreValue struct {
	kind  ScoreKind
	value int
}

// Numeric returns a numeric score. Values outside [MinScore, MaxScore] are
// discarded and yield Unknown.
func Numeric(v int) ScoreValue {
	if v < MinScore || v > MaxScore {
		return Unknown()
	}
	return ScoreValue{kind: ScoreNumeric, value: v}
}

// Unknown returns the score used when no value could be extracted.
func Unknown() ScoreValue {
	return ScoreValue{kind: ScoreUnknown}
}

// ErrorScore returns the score used when every model attempt failed.
func ErrorScore() ScoreValue {
	return ScoreValue{kind: ScoreError}
}

// Kind reports which variant s holds.
func (s ScoreValue) Kind() ScoreKind {
	return s.kind
}

// Value returns the numeric value and true for Numeric scores.
func (s ScoreValue) Value() (int, bool) {
	if s.kind != ScoreNumeric {
		return 0, false
	}
	return s.value, true
}

// IsNumeric reports whether s carries a number.
func (s ScoreValue) IsNumeric() bool {
	return s.kind == ScoreNumeric
}

// Coerce maps the score onto an integer for filtering and sorting.
// Unknown and Error both coerce to 0.
func (s ScoreValue) Coerce() int {
	if s.kind != ScoreNumeric {
		return 0
	}
	return s.value
}

// String renders the score as it appears in reports.
func (s ScoreValue) String() string {
	switch s.kind {
	case ScoreNumeric:
		return strconv.Itoa(s.value)
	case ScoreError:
		return "Error"
	default:
		return "N/A"
	}
}

// MarshalJSON encodes Numeric scores as numbers and the sentinels as strings.
func (s ScoreValue) MarshalJSON() ([]byte, error) {
	if s.kind == ScoreNumeric {
		return json.Marshal(s.value)
	}
	return json.Marshal(s.String())
}

// MarshalYAML mirrors MarshalJSON for yaml.v3.
func (s ScoreValue) MarshalYAML() (interface{}, error) {
	if s.kind == ScoreNumeric {
		return s.value, nil
	}
	return s.String(), nil
}

// ScoreResult is the parsed outcome for one candidate item.
type ScoreResult struct {
	Research              ScoreValue `json:"research_score" yaml:"research_score"`
	SocialImpact          ScoreValue `json:"social_impact_score" yaml:"social_impact_score"`
	ResearchJustification string     `json:"research_justification" yaml:"research_justification"`
	SocialJustification   string     `json:"social_justification" yaml:"social_justification"`
	// Strategy names the parsing strategy that produced the result, if any.
	Strategy string `json:"strategy,omitempty" yaml:"strategy,omitempty"`
}

// FailedResult is returned when every model attempt failed or came back empty.
func FailedResult() ScoreResult {
	return ScoreResult{
		Research:              ErrorScore(),
		SocialImpact:          ErrorScore(),
		ResearchJustification: FailedJustification,
		SocialJustification:   FailedJustification,
	}
}

// EmptyResult is returned by the parser for blank response text.
func EmptyResult() ScoreResult {
	return ScoreResult{
		Research:              ErrorScore(),
		SocialImpact:          ErrorScore(),
		ResearchJustification: EmptyResponseMessage,
		SocialJustification:   EmptyResponseMessage,
	}
}
