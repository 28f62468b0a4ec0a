package pattern

import (
	"errors"
	"fmt"

	talibcdl "github.com/iwat/talib-cdl-go"

	"example.com/stock-pattern-scanner/internal/bar"
)

// ErrNoRecognizer is returned by a delegate for pattern ids it does not cover.
var ErrNoRecognizer = errors.New("no recognizer for pattern")

// UnsupportedPatternError reports a pattern id absent from the catalog.
type UnsupportedPatternError struct {
	Pattern ID
}

func (e *UnsupportedPatternError) Error() string {
	return fmt.Sprintf("pattern %q is not in the catalog", e.Pattern)
}

// RecognitionError reports a delegate failure for one pattern over one
// window. The scan treats it as an all-zero signal series.
type RecognitionError struct {
	Pattern ID
	Err     error
}

func (e *RecognitionError) Error() string {
	return fmt.Sprintf("recognizing %q: %v", e.Pattern, e.Err)
}

func (e *RecognitionError) Unwrap() error { return e.Err }

// Delegate produces a raw signal series for one pattern over an OHLC window.
// The series is aligned 1:1 with the input bars; values are in [-100, 100]
// with 0 meaning absent, the sign encoding direction and the magnitude the
// recognizer's confidence in the geometric match.
type Delegate interface {
	Recognize(id ID, bars []bar.Bar, penetration float64) ([]int, error)
}

// recognizeFunc evaluates one pattern over a window. The penetration ratio
// controls how deeply a confirming candle must close into the initial
// candle's body for the three-candle reversals that use it.
type recognizeFunc func(bars []bar.Bar, penetration float64) []int

func geometric(fn func([]bar.Bar) []int) recognizeFunc {
	return func(bars []bar.Bar, _ float64) []int {
		return fn(bars)
	}
}

// libraryRecognizers is the closed dispatch table of the primary recognition
// strategy: talib-cdl-go where the library exports the pattern, geometric
// rules for the rest.
var libraryRecognizers = map[ID]recognizeFunc{
	// Library-backed patterns
	Doji: func(bars []bar.Bar, _ float64) []int {
		return talibcdl.Doji(toSeries(bars))
	},
	DojiStar: func(bars []bar.Bar, _ float64) []int {
		return talibcdl.DojiStar(toSeries(bars))
	},
	EveningStar: func(bars []bar.Bar, penetration float64) []int {
		return talibcdl.EveningStar(toSeries(bars), penetration)
	},
	AbandonedBaby: func(bars []bar.Bar, penetration float64) []int {
		return talibcdl.AbandonedBaby(toSeries(bars), penetration)
	},
	Piercing: func(bars []bar.Bar, _ float64) []int {
		return talibcdl.Piercing(toSeries(bars))
	},
	ThreeBlackCrows: func(bars []bar.Bar, _ float64) []int {
		return talibcdl.ThreeBlackCrows(toSeries(bars))
	},
	ThreeWhiteSoldiers: func(bars []bar.Bar, _ float64) []int {
		return talibcdl.ThreeWhiteSoldiers(toSeries(bars))
	},
	ThreeInside: func(bars []bar.Bar, _ float64) []int {
		return talibcdl.ThreeInside(toSeries(bars))
	},
	ThreeOutside: func(bars []bar.Bar, _ float64) []int {
		return talibcdl.ThreeOutside(toSeries(bars))
	},
	ThreeLineStrike: func(bars []bar.Bar, _ float64) []int {
		return talibcdl.ThreeLineStrike(toSeries(bars))
	},
	ThreeStarsInSouth: func(bars []bar.Bar, _ float64) []int {
		return talibcdl.ThreeStarsInSouth(toSeries(bars))
	},
	AdvanceBlock: func(bars []bar.Bar, _ float64) []int {
		return talibcdl.AdvanceBlock(toSeries(bars))
	},
	BeltHold: func(bars []bar.Bar, _ float64) []int {
		return talibcdl.BeltHold(toSeries(bars))
	},
	BreakAway: func(bars []bar.Bar, _ float64) []int {
		return talibcdl.BreakAway(toSeries(bars))
	},
	ClosingMarubozu: func(bars []bar.Bar, _ float64) []int {
		return talibcdl.ClosingMarubozu(toSeries(bars))
	},
	TwoCrows: func(bars []bar.Bar, _ float64) []int {
		return talibcdl.TwoCrows(toSeries(bars))
	},
	MatchingLow: func(bars []bar.Bar, _ float64) []int {
		return talibcdl.MatchingLow(toSeries(bars))
	},
	StickSandwich: func(bars []bar.Bar, _ float64) []int {
		return talibcdl.StickSandwich(toSeries(bars))
	},
	ConcealBabySwall: func(bars []bar.Bar, _ float64) []int {
		return talibcdl.ConcealBabySwall(toSeries(bars))
	},

	// Geometric rules for patterns the library does not export
	Marubozu:        geometric(recognizeMarubozu),
	SpinningTop:     geometric(recognizeSpinningTop),
	LongLeggedDoji:  geometric(recognizeLongLeggedDoji),
	DragonflyDoji:   geometric(recognizeDragonflyDoji),
	GravestoneDoji:  geometric(recognizeGravestoneDoji),
	Hammer:          geometric(recognizeHammer),
	HangingMan:      geometric(recognizeHangingMan),
	ShootingStar:    geometric(recognizeShootingStar),
	InvertedHammer:  geometric(recognizeInvertedHammer),
	Engulfing:       geometric(recognizeEngulfing),
	Harami:          geometric(recognizeHarami),
	HaramiCross:     geometric(recognizeHaramiCross),
	MorningStar:     geometric(manualMorningStar),
	MorningDojiStar: recognizeMorningDojiStar,
	EveningDojiStar: recognizeEveningDojiStar,
	DarkCloudCover:  recognizeDarkCloudCover,
}

// LibraryDelegate is the default recognition delegate. Panics raised by a
// recognizer are recovered and reported as a RecognitionError so a single
// (pattern, symbol) unit can never take down a scan.
type LibraryDelegate struct{}

// NewLibraryDelegate returns the default delegate.
func NewLibraryDelegate() *LibraryDelegate {
	return &LibraryDelegate{}
}

// Recognize implements Delegate.
func (d *LibraryDelegate) Recognize(id ID, bars []bar.Bar, penetration float64) (signals []int, err error) {
	fn, ok := libraryRecognizers[id]
	if !ok {
		return nil, &RecognitionError{Pattern: id, Err: ErrNoRecognizer}
	}
	defer func() {
		if r := recover(); r != nil {
			signals = nil
			err = &RecognitionError{Pattern: id, Err: fmt.Errorf("recognizer panic: %v", r)}
		}
	}()
	return fn(bars, penetration), nil
}

// toSeries converts bars to the talib-cdl-go series format. Bars must be in
// time order, oldest first.
func toSeries(bars []bar.Bar) talibcdl.SimpleSeries {
	n := len(bars)
	series := talibcdl.SimpleSeries{
		Opens:  make([]float64, n),
		Highs:  make([]float64, n),
		Lows:   make([]float64, n),
		Closes: make([]float64, n),
	}
	for i, b := range bars {
		series.Opens[i] = b.Open
		series.Highs[i] = b.High
		series.Lows[i] = b.Low
		series.Closes[i] = b.Close
	}
	return series
}
