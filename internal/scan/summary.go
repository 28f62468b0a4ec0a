package scan

import (
	"gonum.org/v1/gonum/stat"

	"example.com/stock-pattern-scanner/internal/pattern"
)

// ConfidenceBuckets counts results by confidence band.
type ConfidenceBuckets struct {
	High   int `json:"high"`   // confidence >= 70
	Medium int `json:"medium"` // 50 <= confidence < 70
	Low    int `json:"low"`    // confidence < 50
}

// Summary condenses a merged result list into scan-level statistics.
type Summary struct {
	TotalPatterns  int                             `json:"total_patterns"`
	ByConfidence   ConfidenceBuckets               `json:"patterns_by_confidence"`
	ByStrength     map[int]int                     `json:"patterns_by_strength"`
	AvgConfidence  float64                         `json:"average_confidence"`
	AvgVolume      float64                         `json:"average_volume"`
	AvgPrice       float64                         `json:"average_price"`
	HighConfidence int                             `json:"high_confidence_count"`
	Symbols        []string                        `json:"symbols_found"`
	Breakdown      map[pattern.ID]PatternBreakdown `json:"pattern_breakdown"`
}

// Summarize computes statistics over a merged result list. An empty list
// yields a zeroed summary with non-nil collections so encoders emit {} and []
// rather than null.
func Summarize(results []Result, breakdown map[pattern.ID]PatternBreakdown) Summary {
	s := Summary{
		ByStrength: make(map[int]int),
		Symbols:    []string{},
		Breakdown:  breakdown,
	}
	if s.Breakdown == nil {
		s.Breakdown = map[pattern.ID]PatternBreakdown{}
	}
	if len(results) == 0 {
		return s
	}

	confidences := make([]float64, len(results))
	volumes := make([]float64, len(results))
	prices := make([]float64, len(results))
	seen := make(map[string]bool)

	for i, r := range results {
		confidences[i] = float64(r.Confidence)
		volumes[i] = float64(r.Volume)
		prices[i] = float64(r.Close)

		switch {
		case r.Confidence >= 70:
			s.ByConfidence.High++
		case r.Confidence >= 50:
			s.ByConfidence.Medium++
		default:
			s.ByConfidence.Low++
		}
		s.ByStrength[r.Strength]++

		if !seen[r.Symbol] {
			seen[r.Symbol] = true
			s.Symbols = append(s.Symbols, r.Symbol)
		}
	}

	s.TotalPatterns = len(results)
	s.HighConfidence = s.ByConfidence.High
	s.AvgConfidence = stat.Mean(confidences, nil)
	s.AvgVolume = stat.Mean(volumes, nil)
	s.AvgPrice = stat.Mean(prices, nil)
	return s
}
