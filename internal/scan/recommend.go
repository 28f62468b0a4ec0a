package scan

import (
	"fmt"
	"strings"

	"example.com/stock-pattern-scanner/internal/pattern"
)

// Keyword lists deciding whether a directional signal warrants a firm or a
// tentative action. Empirical constants, matched against the pattern id.
var (
	buyKeywords  = []string{"morning", "hammer", "piercing", "white", "engulfing"}
	sellKeywords = []string{"evening", "shooting", "hanging", "dark", "black"}
)

// Recommend maps signal direction and confidence to a human-readable action
// label of the form "<tier> <action> Signal". A heuristic label, not a
// profitability guarantee.
func Recommend(id pattern.ID, strength, confidence int) string {
	tier := "Weak"
	switch {
	case confidence >= 70:
		tier = "Strong"
	case confidence >= 60:
		tier = "Moderate"
	}

	var action string
	if strength > 0 {
		action = "CONSIDER BUY"
		if containsAny(string(id), buyKeywords) {
			action = "BUY"
		}
	} else {
		action = "CONSIDER SELL"
		if containsAny(string(id), sellKeywords) {
			action = "SELL"
		}
	}

	return fmt.Sprintf("%s %s Signal", tier, action)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
