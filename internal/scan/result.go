// Package scan orchestrates pattern recognition across symbols and reduces
// the findings to ranked results and summary statistics.
package scan

import (
	"example.com/stock-pattern-scanner/internal/pattern"
)

// Result is one pattern occurrence found during a scan. Immutable once
// created; handed to downstream collaborators as a read-only snapshot.
type Result struct {
	Symbol         string     `json:"symbol"`
	Pattern        pattern.ID `json:"pattern_type"`
	Date           string     `json:"pattern_date"` // ISO date of the occurrence bar
	Strength       int        `json:"pattern_strength"`
	Confidence     int        `json:"confidence_score"`
	Recommendation string     `json:"recommendation"`
	Close          float64    `json:"close_price"`
	Volume         int64      `json:"volume"`
	High           float64    `json:"high"`
	Low            float64    `json:"low"`
	DaysAgo        int        `json:"days_ago"`
}

// PatternBreakdown summarizes one pattern's contribution to a scan.
type PatternBreakdown struct {
	Found         int     `json:"total_found"`
	Passed        int     `json:"high_confidence"`
	AvgConfidence float64 `json:"avg_confidence"`
}
