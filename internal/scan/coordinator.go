package scan

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"example.com/stock-pattern-scanner/internal/bar"
	"example.com/stock-pattern-scanner/internal/pattern"
)

// Config holds scan settings.
type Config struct {
	Lookback      int // trailing bars examined per symbol
	MinConfidence int // merged-output filter threshold (0-100)
	Workers       int // parallel scan units; <= 1 runs synchronously
}

// DefaultConfig returns the default scan settings.
func DefaultConfig() Config {
	return Config{
		Lookback:      30,
		MinConfidence: 60,
		Workers:       1,
	}
}

// minWindow is the smallest trimmed window worth recognizing over.
const minWindow = 3

// Coordinator runs pattern recognition across symbols × patterns, scores and
// labels each occurrence, and merges the findings into a single ranked list.
type Coordinator struct {
	catalog    *pattern.Catalog
	recognizer *pattern.Recognizer
	scorer     *Scorer
	config     Config
	logger     zerolog.Logger

	// Now supplies the scan's reference time for days_ago.
	Now func() time.Time
}

// NewCoordinator creates a scan coordinator.
func NewCoordinator(catalog *pattern.Catalog, recognizer *pattern.Recognizer, cfg Config, logger zerolog.Logger) *Coordinator {
	if cfg.Lookback <= 0 {
		cfg.Lookback = DefaultConfig().Lookback
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Coordinator{
		catalog:    catalog,
		recognizer: recognizer,
		scorer:     NewScorer(catalog),
		config:     cfg,
		logger:     logger,
		Now:        time.Now,
	}
}

type scanUnit struct {
	id     pattern.ID
	symbol string
}

// Scan runs every requested pattern over every symbol series. It returns the
// merged result list, filtered to confidence >= MinConfidence and sorted
// non-increasing by confidence with insertion order preserved on ties, plus
// the per-pattern breakdown over the unfiltered findings. Unsupported
// patterns and per-unit failures are logged and skipped; the scan itself
// fails only on an empty symbol set or an empty pattern set.
func (c *Coordinator) Scan(series map[string][]bar.Bar, ids []pattern.ID) ([]Result, map[pattern.ID]PatternBreakdown, error) {
	if len(series) == 0 {
		return nil, nil, errors.New("scan: empty symbol set")
	}
	if len(ids) == 0 {
		return nil, nil, errors.New("scan: empty pattern set")
	}

	symbols := make([]string, 0, len(series))
	for sym := range series {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	var units []scanUnit
	scanned := make([]pattern.ID, 0, len(ids))
	for _, id := range ids {
		if !c.catalog.IsSupported(id) {
			err := &pattern.UnsupportedPatternError{Pattern: id}
			c.logger.Warn().Err(err).Msg("skipping pattern")
			continue
		}
		scanned = append(scanned, id)
		for _, sym := range symbols {
			units = append(units, scanUnit{id: id, symbol: sym})
		}
	}

	// Each unit reads only shared immutable inputs and writes only its own
	// slot, so units can run in parallel and merge deterministically after
	// all complete.
	slots := make([]*Result, len(units))
	run := func(i int) {
		slots[i] = c.runUnit(units[i].id, units[i].symbol, series[units[i].symbol])
	}
	if c.config.Workers > 1 && len(units) > 1 {
		jobs := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < c.config.Workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					run(i)
				}
			}()
		}
		for i := range units {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
	} else {
		for i := range units {
			run(i)
		}
	}

	breakdown := make(map[pattern.ID]PatternBreakdown, len(scanned))
	sums := make(map[pattern.ID]float64, len(scanned))
	for _, id := range scanned {
		breakdown[id] = PatternBreakdown{}
	}

	var merged []Result
	for i, u := range units {
		if slots[i] == nil {
			continue
		}
		r := *slots[i]
		b := breakdown[u.id]
		b.Found++
		sums[u.id] += float64(r.Confidence)
		if r.Confidence >= c.config.MinConfidence {
			b.Passed++
			merged = append(merged, r)
		}
		breakdown[u.id] = b
	}
	for id, b := range breakdown {
		if b.Found > 0 {
			b.AvgConfidence = sums[id] / float64(b.Found)
			breakdown[id] = b
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Confidence > merged[j].Confidence
	})

	c.logger.Info().
		Int("symbols", len(symbols)).
		Int("patterns", len(scanned)).
		Int("results", len(merged)).
		Msg("scan complete")

	return merged, breakdown, nil
}

// runUnit isolates one (pattern, symbol) unit: a failure is logged and
// yields no result instead of aborting the scan.
func (c *Coordinator) runUnit(id pattern.ID, symbol string, full []bar.Bar) (res *Result) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error().
				Str("pattern", string(id)).
				Str("symbol", symbol).
				Interface("panic", r).
				Msg("scan unit failed")
			res = nil
		}
	}()
	return c.scanOne(id, symbol, full)
}

func (c *Coordinator) scanOne(id pattern.ID, symbol string, full []bar.Bar) *Result {
	window := bar.Tail(full, c.config.Lookback)
	if len(window) < minWindow {
		return nil
	}

	out := c.recognizer.Recognize(id, window)

	idx := -1
	for i := len(out.Signals) - 1; i >= 0; i-- {
		if out.Signals[i] != 0 {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	strength := out.Signals[idx]
	confidence := c.scorer.Score(id, strength, bar.Volumes(window), idx)

	occurrence := full[len(full)-len(window)+idx]
	return &Result{
		Symbol:         symbol,
		Pattern:        id,
		Date:           occurrence.Date.Format("2006-01-02"),
		Strength:       strength,
		Confidence:     confidence,
		Recommendation: Recommend(id, strength, confidence),
		Close:          occurrence.Close,
		Volume:         occurrence.Volume,
		High:           occurrence.High,
		Low:            occurrence.Low,
		DaysAgo:        calendarDaysBetween(c.Now(), occurrence.Date),
	}
}

// calendarDaysBetween returns whole calendar days from then to now, ignoring
// the time of day.
func calendarDaysBetween(now, then time.Time) int {
	nowDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	thenDate := time.Date(then.Year(), then.Month(), then.Day(), 0, 0, 0, 0, time.UTC)
	return int(nowDate.Sub(thenDate).Hours() / 24)
}
