package pattern

import (
	"sync"

	"github.com/rs/zerolog"

	"example.com/stock-pattern-scanner/internal/bar"
)

// Source identifies which strategy produced a signal series.
type Source string

const (
	// SourceDelegate marks series produced by the recognition delegate.
	SourceDelegate Source = "delegate"
	// SourceFallback marks series produced by the manual fallback rules.
	SourceFallback Source = "fallback"
	// SourceNone marks constant-zero series emitted in place of a result.
	SourceNone Source = "none"
)

// Outcome is the discriminated result of one recognition attempt. Signals is
// always aligned 1:1 with the input window; Reason is set whenever the
// delegate did not produce the series.
type Outcome struct {
	Signals []int
	Source  Source
	Reason  string
}

// DefaultPenetration is the body penetration ratio applied to three-candle
// reversal patterns unless configured otherwise.
const DefaultPenetration = 0.3

// RecognizerConfig holds recognition settings.
type RecognizerConfig struct {
	// Penetration controls how deeply the confirming candle must close
	// into the initial candle's body for three-candle reversals.
	Penetration float64
}

// DefaultRecognizerConfig returns the default recognition settings.
func DefaultRecognizerConfig() RecognizerConfig {
	return RecognizerConfig{Penetration: DefaultPenetration}
}

// Recognizer produces raw signal series for pattern ids over OHLC windows.
// A nil delegate puts the recognizer in degraded mode: doji, hammer and
// morning star fall back to manual rules, everything else degrades to a
// constant-zero series.
type Recognizer struct {
	delegate     Delegate
	penetration  float64
	logger       zerolog.Logger
	degradedOnce sync.Once
}

// NewRecognizer creates a recognizer backed by the given delegate.
func NewRecognizer(delegate Delegate, cfg RecognizerConfig, logger zerolog.Logger) *Recognizer {
	if cfg.Penetration <= 0 {
		cfg.Penetration = DefaultPenetration
	}
	return &Recognizer{
		delegate:    delegate,
		penetration: cfg.Penetration,
		logger:      logger,
	}
}

// Recognize returns the raw signal series for id over bars. It never fails:
// delegate errors are logged and reported as a zero series so the caller's
// scan can continue.
func (r *Recognizer) Recognize(id ID, bars []bar.Bar) Outcome {
	if r.delegate == nil {
		return r.recognizeFallback(id, bars)
	}

	signals, err := r.delegate.Recognize(id, bars, r.penetration)
	if err != nil {
		r.logger.Warn().Err(err).Str("pattern", string(id)).
			Msg("recognition failed, treating as zero signal series")
		return Outcome{Signals: make([]int, len(bars)), Source: SourceNone, Reason: err.Error()}
	}
	if len(signals) != len(bars) {
		r.logger.Warn().Str("pattern", string(id)).
			Int("got", len(signals)).Int("want", len(bars)).
			Msg("delegate returned misaligned series, treating as zero signal series")
		return Outcome{Signals: make([]int, len(bars)), Source: SourceNone, Reason: "misaligned signal series"}
	}
	return Outcome{Signals: signals, Source: SourceDelegate}
}

func (r *Recognizer) recognizeFallback(id ID, bars []bar.Bar) Outcome {
	r.degradedOnce.Do(func() {
		r.logger.Warn().Msg("recognition delegate unavailable, using manual fallback rules")
	})

	if fn, ok := fallbackRecognizers[id]; ok {
		return Outcome{Signals: fn(bars), Source: SourceFallback, Reason: "delegate unavailable"}
	}

	r.logger.Warn().Str("pattern", string(id)).
		Msg("no manual rule for pattern, emitting zero signal series")
	return Outcome{Signals: make([]int, len(bars)), Source: SourceNone, Reason: "no manual rule"}
}
