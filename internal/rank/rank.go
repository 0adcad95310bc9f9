// Package rank coerces scores to integers, applies the quality threshold and
// orders the surviving items. Everything here is pure.
package rank

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/litwatch/research-digest/internal/model"
)

// Threshold is the minimum coerced value one axis must reach for an item to pass.
const Threshold = 70

// DefaultMinBodyChars is the shortest body worth sending to the model.
const DefaultMinBodyChars = 50

// Eligible reports whether the item's body is long enough to be scored.
// Length is counted in characters, not bytes.
func Eligible(item model.CandidateItem, minChars int) bool {
	return utf8.RuneCountInString(item.Body) >= minChars
}

// Coerce maps a score to its ordering value. Unknown and Error both count as 0.
func Coerce(v model.ScoreValue) int {
	return v.Coerce()
}

// Passes reports whether either axis reaches Threshold.
func Passes(item model.RankedItem) bool {
	return item.ResearchValue >= Threshold || item.SocialValue >= Threshold
}

// NewRankedItem computes the coerced and combined values for a scored item.
func NewRankedItem(s model.ScoredItem) model.RankedItem {
	r := model.RankedItem{
		CandidateItem: s.Item,
		Score:         s.Score,
		ResearchValue: Coerce(s.Score.Research),
		SocialValue:   Coerce(s.Score.SocialImpact),
	}
	r.CombinedValue = r.ResearchValue + r.SocialValue
	return r
}

// Rank filters scored items by Passes, drops repeated identities keeping the
// first, and sorts by CombinedValue descending. Ties keep input order.
func Rank(items []model.ScoredItem) []model.RankedItem {
	seen := make(map[string]bool, len(items))
	out := make([]model.RankedItem, 0, len(items))

	for _, s := range items {
		key := identity(s.Item)
		if seen[key] {
			continue
		}
		seen[key] = true

		r := NewRankedItem(s)
		if !Passes(r) {
			continue
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CombinedValue > out[j].CombinedValue
	})
	return out
}

// identity keys an item by its identifier, or by title when it has none.
func identity(item model.CandidateItem) string {
	if id := strings.TrimSpace(item.Identifier); id != "" {
		return "id:" + id
	}
	return "title:" + strings.TrimSpace(item.Title)
}
