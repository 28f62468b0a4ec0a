package scan

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"example.com/stock-pattern-scanner/internal/pattern"
)

func flatVolumes(n int, v int64) []int64 {
	vols := make([]int64, n)
	for i := range vols {
		vols[i] = v
	}
	return vols
}

func TestScorer_StrengthFactor(t *testing.T) {
	scorer := NewScorer(pattern.DefaultCatalog())
	vols := flatVolumes(15, 1000)

	// morning_star base reliability is 74
	tests := []struct {
		name     string
		strength int
		want     int
	}{
		{"full strength", 100, 74},
		{"full bearish strength", -100, 74},
		{"half strength", 50, 59}, // 74 * 0.8
		{"weak strength", 30, 44}, // 74 * 0.6
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scorer.Score(pattern.MorningStar, tt.strength, vols, 14); got != tt.want {
				t.Errorf("Score() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScorer_VolumeFactor(t *testing.T) {
	scorer := NewScorer(pattern.DefaultCatalog())

	// 10 bars of volume 1000 precede the occurrence
	high := append(flatVolumes(10, 1000), 2000) // > 1.5x average
	low := append(flatVolumes(10, 1000), 400)   // < 0.5x average
	flat := append(flatVolumes(10, 1000), 1100)

	if got := scorer.Score(pattern.MorningStar, 100, high, 10); got != 81 { // 74 * 1.1
		t.Errorf("high volume Score() = %d, want 81", got)
	}
	if got := scorer.Score(pattern.MorningStar, 100, low, 10); got != 66 { // 74 * 0.9
		t.Errorf("low volume Score() = %d, want 66", got)
	}
	if got := scorer.Score(pattern.MorningStar, 100, flat, 10); got != 74 {
		t.Errorf("flat volume Score() = %d, want 74", got)
	}
}

func TestScorer_NeutralWithoutHistory(t *testing.T) {
	scorer := NewScorer(pattern.DefaultCatalog())

	// Occurrence at index 5 has fewer than 10 preceding bars, so even a
	// huge spike leaves the volume factor neutral.
	vols := append(flatVolumes(5, 100), 100000)
	if got := scorer.Score(pattern.MorningStar, 100, vols, 5); got != 74 {
		t.Errorf("Score() = %d, want 74 with short volume history", got)
	}
}

func TestScorer_ClampsToHundred(t *testing.T) {
	catalog := pattern.NewCatalog([]pattern.Definition{
		{ID: pattern.ID("ultra"), Name: "Ultra", Direction: pattern.DirectionBullish, Reliability: 95},
	})
	scorer := NewScorer(catalog)

	vols := append(flatVolumes(10, 1000), 2000)
	if got := scorer.Score(pattern.ID("ultra"), 100, vols, 10); got != 100 { // 95 * 1.1 clamped
		t.Errorf("Score() = %d, want 100", got)
	}
}

func TestScorer_UnknownPatternUsesDefaultReliability(t *testing.T) {
	scorer := NewScorer(pattern.DefaultCatalog())

	vols := flatVolumes(15, 1000)
	if got := scorer.Score(pattern.ID("no_such_pattern"), 100, vols, 14); got != pattern.DefaultReliability {
		t.Errorf("Score() = %d, want %d", got, pattern.DefaultReliability)
	}
}

// Property test: scores are always within bounds
func TestProperty_ScoreBounds(t *testing.T) {
	properties := gopter.NewProperties(nil)

	scorer := NewScorer(pattern.DefaultCatalog())
	ids := pattern.DefaultCatalog().IDs()

	properties.Property("Score stays in [0, 100]", prop.ForAll(
		func(idIdx, strength int, volumes []int64, idx int) bool {
			got := scorer.Score(ids[idIdx], strength, volumes, idx)
			return got >= 0 && got <= 100
		},
		gen.IntRange(0, len(ids)-1),
		gen.IntRange(-100, 100),
		gen.SliceOf(gen.Int64Range(0, 1_000_000_000)),
		gen.IntRange(0, 200),
	))

	properties.TestingRun(t)
}
