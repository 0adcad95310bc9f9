// Package model defines the article, score and ranking types shared by the digest pipeline.
package model

import "time"

// CandidateItem is one feed entry inside the lookback window, before scoring.
type CandidateItem struct {
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Identifier string    `json:"identifier"`
	Published  time.Time `json:"published"`
}

// ScoredItem pairs a candidate with its extracted scores.
type ScoredItem struct {
	Item  CandidateItem
	Score ScoreResult
}

// RankedItem is a scored item with coerced integer values used for ordering.
type RankedItem struct {
	CandidateItem
	Score         ScoreResult
	ResearchValue int
	SocialValue   int
	CombinedValue int
}
