package scan

import (
	"example.com/stock-pattern-scanner/internal/pattern"
)

// volumeLookback is the number of bars preceding an occurrence used for
// volume confirmation.
const volumeLookback = 10

// Scorer combines base pattern reliability, signal strength and volume
// confirmation into a bounded confidence score. Stateless and deterministic.
type Scorer struct {
	catalog *pattern.Catalog
}

// NewScorer creates a scorer backed by the given catalog.
func NewScorer(catalog *pattern.Catalog) *Scorer {
	return &Scorer{catalog: catalog}
}

// Score returns a confidence in [0, 100] for an occurrence of id with the
// given raw strength at index idx of the window whose volume series is
// volumes. Fewer than volumeLookback preceding bars leave the volume factor
// neutral.
func (s *Scorer) Score(id pattern.ID, strength int, volumes []int64, idx int) int {
	base := float64(s.catalog.Reliability(id))

	abs := strength
	if abs < 0 {
		abs = -abs
	}
	strengthFactor := 0.6
	switch {
	case abs == 100:
		strengthFactor = 1.0
	case abs >= 50:
		strengthFactor = 0.8
	}

	volumeFactor := 1.0
	if idx >= volumeLookback && idx < len(volumes) {
		var sum float64
		for _, v := range volumes[idx-volumeLookback : idx] {
			sum += float64(v)
		}
		avg := sum / volumeLookback
		current := float64(volumes[idx])
		switch {
		case current > avg*1.5:
			volumeFactor = 1.1
		case current < avg*0.5:
			volumeFactor = 0.9
		}
	}

	score := int(base * strengthFactor * volumeFactor)
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}
