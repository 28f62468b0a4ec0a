// Package symbols loads and validates stock ticker lists.
package symbols

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ParseList splits a comma-separated ticker list, normalizing to upper case
// and dropping empty entries.
func ParseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		sym := strings.ToUpper(strings.TrimSpace(part))
		if sym == "" {
			continue
		}
		out = append(out, sym)
	}
	return out
}

// LoadFile reads one ticker per line. Blank lines and lines starting with #
// are skipped; invalid tickers fail the load.
func LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening symbol file: %w", err)
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		sym := strings.ToUpper(text)
		if !IsValid(sym) {
			return nil, fmt.Errorf("%s:%d: invalid symbol %q", path, line, text)
		}
		out = append(out, sym)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading symbol file: %w", err)
	}
	return out, nil
}

// IsValid reports whether sym looks like a standard US ticker: 1 to 5
// letters, optionally followed by a dot and a share-class letter (BRK.B).
func IsValid(sym string) bool {
	base, class, hasClass := strings.Cut(sym, ".")
	if hasClass && (len(class) != 1 || !isLetters(class)) {
		return false
	}
	if len(base) == 0 || len(base) > 5 {
		return false
	}
	return isLetters(base)
}

func isLetters(s string) bool {
	for _, c := range s {
		if !((c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')) {
			return false
		}
	}
	return true
}

// Defaults returns the built-in scan universe of liquid large caps, used when
// no symbol file or flag is given.
func Defaults() []string {
	return []string{
		"AAPL", "MSFT", "GOOGL", "AMZN", "META", "NVDA", "TSLA", "AMD",
		"INTC", "CRM", "ORCL", "ADBE", "CSCO", "AVGO", "QCOM",
		"JPM", "BAC", "WFC", "GS", "MS", "V", "MA",
		"JNJ", "UNH", "PFE", "ABBV", "MRK", "LLY",
		"WMT", "HD", "PG", "KO", "PEP", "COST", "NKE", "MCD",
		"CAT", "BA", "HON", "UPS", "GE",
		"XOM", "CVX", "COP",
		"DIS", "NFLX", "CMCSA", "VZ", "T",
	}
}
