// Package bar provides daily OHLCV bar data structures for candlestick pattern recognition.
package bar

import (
	"math"
	"time"
)

// Bar represents a single daily OHLCV bar.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Body returns the absolute size of the bar body (|Close - Open|).
func (b *Bar) Body() float64 {
	return math.Abs(b.Close - b.Open)
}

// UpperShadow returns the length of the upper shadow.
func (b *Bar) UpperShadow() float64 {
	if b.Close > b.Open {
		return b.High - b.Close
	}
	return b.High - b.Open
}

// LowerShadow returns the length of the lower shadow.
func (b *Bar) LowerShadow() float64 {
	if b.Close > b.Open {
		return b.Open - b.Low
	}
	return b.Close - b.Low
}

// IsBullish returns true if the bar is bullish (Close > Open).
func (b *Bar) IsBullish() bool {
	return b.Close > b.Open
}

// IsBearish returns true if the bar is bearish (Close < Open).
func (b *Bar) IsBearish() bool {
	return b.Close < b.Open
}

// Range returns the total range of the bar (High - Low).
func (b *Bar) Range() float64 {
	return b.High - b.Low
}

// Midpoint returns the midpoint of the bar body.
func (b *Bar) Midpoint() float64 {
	return (b.Open + b.Close) / 2
}

// Tail returns the trailing n bars. The whole slice is returned when
// n >= len(bars); the view aliases the source slice.
func Tail(bars []Bar, n int) []Bar {
	if n >= len(bars) {
		return bars
	}
	return bars[len(bars)-n:]
}

// Volumes extracts the volume series of bars.
func Volumes(bars []Bar) []int64 {
	vols := make([]int64, len(bars))
	for i, b := range bars {
		vols[i] = b.Volume
	}
	return vols
}
