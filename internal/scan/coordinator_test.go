package scan

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"example.com/stock-pattern-scanner/internal/bar"
	"example.com/stock-pattern-scanner/internal/pattern"
)

// lastBarDelegate flags the last bar of every window with a fixed strength
// per pattern. Patterns absent from the map produce a zero series.
type lastBarDelegate struct {
	strength map[pattern.ID]int
}

func (d *lastBarDelegate) Recognize(id pattern.ID, bars []bar.Bar, _ float64) ([]int, error) {
	signals := make([]int, len(bars))
	if s, ok := d.strength[id]; ok && len(bars) > 0 {
		signals[len(bars)-1] = s
	}
	return signals, nil
}

var testBase = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func makeSeries(n int) []bar.Bar {
	bars := make([]bar.Bar, n)
	for i := range bars {
		bars[i] = bar.Bar{
			Date:   testBase.AddDate(0, 0, i),
			Open:   100,
			High:   105,
			Low:    95,
			Close:  102,
			Volume: 1000,
		}
	}
	return bars
}

func newTestCoordinator(delegate pattern.Delegate, cfg Config) *Coordinator {
	recognizer := pattern.NewRecognizer(delegate, pattern.DefaultRecognizerConfig(), zerolog.Nop())
	c := NewCoordinator(pattern.DefaultCatalog(), recognizer, cfg, zerolog.Nop())
	c.Now = func() time.Time { return testBase.AddDate(0, 0, 17) }
	return c
}

func TestCoordinator_EmptyInputs(t *testing.T) {
	c := newTestCoordinator(&lastBarDelegate{}, DefaultConfig())

	if _, _, err := c.Scan(nil, []pattern.ID{pattern.Doji}); err == nil {
		t.Error("Expected error for empty symbol set")
	}

	series := map[string][]bar.Bar{"AAPL": makeSeries(15)}
	if _, _, err := c.Scan(series, nil); err == nil {
		t.Error("Expected error for empty pattern set")
	}
}

func TestCoordinator_FiltersAndBreakdown(t *testing.T) {
	// morning_star scores 74 (reliability 74 x full strength), doji scores
	// 48 (60 x 0.8) and falls below the threshold of 60.
	delegate := &lastBarDelegate{strength: map[pattern.ID]int{
		pattern.MorningStar: 100,
		pattern.Doji:        50,
	}}
	c := newTestCoordinator(delegate, DefaultConfig())

	series := map[string][]bar.Bar{
		"MSFT": makeSeries(15),
		"AAPL": makeSeries(15),
	}
	results, breakdown, err := c.Scan(series, []pattern.ID{pattern.MorningStar, pattern.Doji})
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	// Symbols are visited in sorted order within a pattern
	if results[0].Symbol != "AAPL" || results[1].Symbol != "MSFT" {
		t.Errorf("result order = %s, %s; want AAPL, MSFT", results[0].Symbol, results[1].Symbol)
	}
	for _, r := range results {
		if r.Pattern != pattern.MorningStar {
			t.Errorf("result pattern = %q, want morning_star", r.Pattern)
		}
		if r.Confidence != 74 {
			t.Errorf("confidence = %d, want 74", r.Confidence)
		}
		if r.Recommendation != "Strong BUY Signal" {
			t.Errorf("recommendation = %q", r.Recommendation)
		}
	}

	ms := breakdown[pattern.MorningStar]
	if ms.Found != 2 || ms.Passed != 2 || ms.AvgConfidence != 74 {
		t.Errorf("morning_star breakdown = %+v", ms)
	}
	doji := breakdown[pattern.Doji]
	if doji.Found != 2 || doji.Passed != 0 || doji.AvgConfidence != 48 {
		t.Errorf("doji breakdown = %+v", doji)
	}
}

func TestCoordinator_ResultFields(t *testing.T) {
	delegate := &lastBarDelegate{strength: map[pattern.ID]int{pattern.Hammer: 100}}
	c := newTestCoordinator(delegate, DefaultConfig())

	series := map[string][]bar.Bar{"AAPL": makeSeries(15)}
	results, _, err := c.Scan(series, []pattern.ID{pattern.Hammer})
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}

	r := results[0]
	// Last bar is 14 days after the base date; Now is 17 days after
	if r.Date != "2024-03-15" {
		t.Errorf("Date = %q, want 2024-03-15", r.Date)
	}
	if r.DaysAgo != 3 {
		t.Errorf("DaysAgo = %d, want 3", r.DaysAgo)
	}
	if r.Close != 102 || r.High != 105 || r.Low != 95 || r.Volume != 1000 {
		t.Errorf("bar snapshot = %+v", r)
	}
	if r.Strength != 100 {
		t.Errorf("Strength = %d, want 100", r.Strength)
	}
}

func TestCoordinator_SkipsShortSeries(t *testing.T) {
	delegate := &lastBarDelegate{strength: map[pattern.ID]int{pattern.Hammer: 100}}
	c := newTestCoordinator(delegate, DefaultConfig())

	series := map[string][]bar.Bar{
		"AAPL": makeSeries(15),
		"TINY": makeSeries(2),
	}
	results, breakdown, err := c.Scan(series, []pattern.ID{pattern.Hammer})
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if len(results) != 1 || results[0].Symbol != "AAPL" {
		t.Errorf("results = %+v, want AAPL only", results)
	}
	if breakdown[pattern.Hammer].Found != 1 {
		t.Errorf("Found = %d, want 1", breakdown[pattern.Hammer].Found)
	}
}

func TestCoordinator_SkipsUnsupportedPatterns(t *testing.T) {
	delegate := &lastBarDelegate{strength: map[pattern.ID]int{pattern.Hammer: 100}}
	c := newTestCoordinator(delegate, DefaultConfig())

	series := map[string][]bar.Bar{"AAPL": makeSeries(15)}
	results, breakdown, err := c.Scan(series, []pattern.ID{pattern.ID("no_such_pattern"), pattern.Hammer})
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("len(results) = %d, want 1", len(results))
	}
	if _, ok := breakdown[pattern.ID("no_such_pattern")]; ok {
		t.Error("unsupported pattern appeared in breakdown")
	}
}

func TestCoordinator_SortsByConfidenceDescending(t *testing.T) {
	delegate := &lastBarDelegate{strength: map[pattern.ID]int{
		pattern.Doji:            100,  // 60
		pattern.ThreeBlackCrows: -100, // 78
		pattern.Hammer:          100,  // 68
	}}
	cfg := DefaultConfig()
	cfg.MinConfidence = 0
	c := newTestCoordinator(delegate, cfg)

	series := map[string][]bar.Bar{"AAPL": makeSeries(15), "MSFT": makeSeries(15)}
	results, _, err := c.Scan(series, []pattern.ID{pattern.Doji, pattern.ThreeBlackCrows, pattern.Hammer})
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	for i := 1; i < len(results); i++ {
		if results[i].Confidence > results[i-1].Confidence {
			t.Fatalf("results not sorted: %d before %d", results[i-1].Confidence, results[i].Confidence)
		}
	}
	// Ties keep unit order: AAPL before MSFT for the same pattern
	for i := 1; i < len(results); i++ {
		prev, curr := results[i-1], results[i]
		if prev.Confidence == curr.Confidence && prev.Pattern == curr.Pattern && prev.Symbol > curr.Symbol {
			t.Errorf("tie order broken: %s before %s", prev.Symbol, curr.Symbol)
		}
	}
}

func TestCoordinator_WorkersMatchSequential(t *testing.T) {
	delegate := &lastBarDelegate{strength: map[pattern.ID]int{
		pattern.MorningStar: 100,
		pattern.Hammer:      50,
		pattern.Doji:        100,
	}}
	ids := []pattern.ID{pattern.MorningStar, pattern.Hammer, pattern.Doji}
	series := map[string][]bar.Bar{
		"AAPL": makeSeries(15),
		"MSFT": makeSeries(15),
		"NVDA": makeSeries(15),
	}

	seqCfg := DefaultConfig()
	seqCfg.MinConfidence = 0
	parCfg := seqCfg
	parCfg.Workers = 8

	seq := newTestCoordinator(delegate, seqCfg)
	par := newTestCoordinator(delegate, parCfg)

	seqResults, _, err := seq.Scan(series, ids)
	if err != nil {
		t.Fatalf("sequential Scan() error: %v", err)
	}
	parResults, _, err := par.Scan(series, ids)
	if err != nil {
		t.Fatalf("parallel Scan() error: %v", err)
	}

	if len(seqResults) != len(parResults) {
		t.Fatalf("result counts differ: %d vs %d", len(seqResults), len(parResults))
	}
	for i := range seqResults {
		if seqResults[i] != parResults[i] {
			t.Errorf("results[%d] differ: %+v vs %+v", i, seqResults[i], parResults[i])
		}
	}
}

func TestCoordinator_Idempotent(t *testing.T) {
	delegate := &lastBarDelegate{strength: map[pattern.ID]int{
		pattern.MorningStar: 100,
		pattern.Doji:        50,
	}}
	c := newTestCoordinator(delegate, DefaultConfig())

	series := map[string][]bar.Bar{"AAPL": makeSeries(15), "MSFT": makeSeries(15)}
	ids := []pattern.ID{pattern.MorningStar, pattern.Doji}

	first, _, err := c.Scan(series, ids)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	second, _, err := c.Scan(series, ids)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("result counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("results[%d] differ: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestCoordinator_LookbackTrimsWindow(t *testing.T) {
	// The delegate flags the last bar, so the occurrence is always within
	// the trimmed window; a 5-bar lookback over 100 bars must still report
	// the final bar's date.
	delegate := &lastBarDelegate{strength: map[pattern.ID]int{pattern.Hammer: 100}}
	cfg := DefaultConfig()
	cfg.Lookback = 5
	c := newTestCoordinator(delegate, cfg)

	full := makeSeries(100)
	series := map[string][]bar.Bar{"AAPL": full}
	results, _, err := c.Scan(series, []pattern.ID{pattern.Hammer})
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	want := full[99].Date.Format("2006-01-02")
	if results[0].Date != want {
		t.Errorf("Date = %q, want %q", results[0].Date, want)
	}
}
