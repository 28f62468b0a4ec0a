package pattern

import (
	"example.com/stock-pattern-scanner/internal/bar"
)

// Geometric recognition rules for patterns the recognition library does not
// export. Each produces a raw signal series aligned 1:1 with the input bars;
// magnitudes grade how cleanly the window matches the pattern geometry.

// isDoji checks for a very small body. Zero-range bars are excluded to avoid
// false positives in low-liquidity data.
func isDoji(b *bar.Bar) bool {
	if b.Range() == 0 {
		return false
	}
	return b.Body()/b.Range() < 0.1
}

// isDowntrend checks closing prices decreasing OR at least 2/3 bearish bars.
func isDowntrend(bars []bar.Bar) bool {
	if len(bars) < 2 {
		return false
	}

	decreasing := true
	for i := 1; i < len(bars); i++ {
		if bars[i].Close >= bars[i-1].Close {
			decreasing = false
			break
		}
	}
	if decreasing {
		return true
	}

	bearish := 0
	for i := range bars {
		if bars[i].IsBearish() {
			bearish++
		}
	}
	return bearish >= (len(bars)*2)/3
}

// isUptrend checks closing prices increasing OR at least 2/3 bullish bars.
func isUptrend(bars []bar.Bar) bool {
	if len(bars) < 2 {
		return false
	}

	increasing := true
	for i := 1; i < len(bars); i++ {
		if bars[i].Close <= bars[i-1].Close {
			increasing = false
			break
		}
	}
	if increasing {
		return true
	}

	bullish := 0
	for i := range bars {
		if bars[i].IsBullish() {
			bullish++
		}
	}
	return bullish >= (len(bars)*2)/3
}

// recognizeMarubozu flags bars whose body fills nearly the whole range.
func recognizeMarubozu(bars []bar.Bar) []int {
	signals := make([]int, len(bars))
	for i := range bars {
		b := &bars[i]
		rng := b.Range()
		if rng <= 0 || b.Body() < rng*0.95 {
			continue
		}
		if b.IsBullish() {
			signals[i] = 100
		} else if b.IsBearish() {
			signals[i] = -100
		}
	}
	return signals
}

// recognizeSpinningTop flags bars with a small body and shadows on both
// sides at least as long as the body.
func recognizeSpinningTop(bars []bar.Bar) []int {
	signals := make([]int, len(bars))
	for i := range bars {
		b := &bars[i]
		rng := b.Range()
		body := b.Body()
		if rng <= 0 || body <= 0 || body >= rng*0.3 {
			continue
		}
		if b.UpperShadow() < body || b.LowerShadow() < body {
			continue
		}
		if b.IsBullish() {
			signals[i] = 50
		} else {
			signals[i] = -50
		}
	}
	return signals
}

// recognizeLongLeggedDoji flags dojis with long shadows on both sides.
func recognizeLongLeggedDoji(bars []bar.Bar) []int {
	signals := make([]int, len(bars))
	for i := range bars {
		b := &bars[i]
		if !isDoji(b) {
			continue
		}
		rng := b.Range()
		if b.UpperShadow() >= rng*0.3 && b.LowerShadow() >= rng*0.3 {
			signals[i] = 100
		}
	}
	return signals
}

// recognizeDragonflyDoji flags dojis with a long lower shadow and almost no
// upper shadow.
func recognizeDragonflyDoji(bars []bar.Bar) []int {
	signals := make([]int, len(bars))
	for i := range bars {
		b := &bars[i]
		if !isDoji(b) {
			continue
		}
		rng := b.Range()
		if b.LowerShadow() >= rng*0.6 && b.UpperShadow() <= rng*0.1 {
			signals[i] = 65
		}
	}
	return signals
}

// recognizeGravestoneDoji flags dojis with a long upper shadow and almost no
// lower shadow.
func recognizeGravestoneDoji(bars []bar.Bar) []int {
	signals := make([]int, len(bars))
	for i := range bars {
		b := &bars[i]
		if !isDoji(b) {
			continue
		}
		rng := b.Range()
		if b.UpperShadow() >= rng*0.6 && b.LowerShadow() <= rng*0.1 {
			signals[i] = -65
		}
	}
	return signals
}

// recognizeHammer flags long lower shadows after a downtrend. The three bars
// preceding the candidate establish the trend.
func recognizeHammer(bars []bar.Bar) []int {
	signals := make([]int, len(bars))
	for _, w := range bar.Windows(bars, 4) {
		b := &w.Bars[3]
		body := b.Body()
		if body <= 0 || b.Range() <= 0 {
			continue
		}
		lower, upper := b.LowerShadow(), b.UpperShadow()
		if lower < body*2 || upper > body*0.3 {
			continue
		}
		if !isDowntrend(w.Bars[:3]) {
			continue
		}
		if lower >= body*3 {
			signals[w.End] = 85
		} else {
			signals[w.End] = 70
		}
	}
	return signals
}

// recognizeHangingMan is the hammer geometry after an uptrend.
func recognizeHangingMan(bars []bar.Bar) []int {
	signals := make([]int, len(bars))
	for _, w := range bar.Windows(bars, 4) {
		b := &w.Bars[3]
		body := b.Body()
		if body <= 0 || b.Range() <= 0 {
			continue
		}
		lower, upper := b.LowerShadow(), b.UpperShadow()
		if lower < body*2 || upper > body*0.3 {
			continue
		}
		if !isUptrend(w.Bars[:3]) {
			continue
		}
		if lower >= body*3 {
			signals[w.End] = -85
		} else {
			signals[w.End] = -70
		}
	}
	return signals
}

// recognizeShootingStar flags long upper shadows after an uptrend.
func recognizeShootingStar(bars []bar.Bar) []int {
	signals := make([]int, len(bars))
	for _, w := range bar.Windows(bars, 4) {
		b := &w.Bars[3]
		body := b.Body()
		if body <= 0 || b.Range() <= 0 {
			continue
		}
		upper, lower := b.UpperShadow(), b.LowerShadow()
		if upper < body*2 || lower > body*0.3 {
			continue
		}
		if !isUptrend(w.Bars[:3]) {
			continue
		}
		if upper >= body*3 {
			signals[w.End] = -85
		} else {
			signals[w.End] = -70
		}
	}
	return signals
}

// recognizeInvertedHammer flags long upper shadows after a downtrend.
func recognizeInvertedHammer(bars []bar.Bar) []int {
	signals := make([]int, len(bars))
	for _, w := range bar.Windows(bars, 4) {
		b := &w.Bars[3]
		body := b.Body()
		if body <= 0 || b.Range() <= 0 {
			continue
		}
		upper, lower := b.UpperShadow(), b.LowerShadow()
		if upper < body*2 || lower > body*0.3 {
			continue
		}
		if !isDowntrend(w.Bars[:3]) {
			continue
		}
		if upper >= body*3 {
			signals[w.End] = 80
		} else {
			signals[w.End] = 65
		}
	}
	return signals
}

// recognizeEngulfing flags bars whose body contains the previous body with
// opposite color.
func recognizeEngulfing(bars []bar.Bar) []int {
	signals := make([]int, len(bars))
	for _, w := range bar.Windows(bars, 2) {
		prev, curr := &w.Bars[0], &w.Bars[1]

		if prev.IsBearish() && curr.IsBullish() &&
			curr.Open <= prev.Close && curr.Close >= prev.Open {
			if curr.Body() > prev.Body()*1.5 {
				signals[w.End] = 90
			} else {
				signals[w.End] = 75
			}
			continue
		}

		if prev.IsBullish() && curr.IsBearish() &&
			curr.Open >= prev.Close && curr.Close <= prev.Open {
			if curr.Body() > prev.Body()*1.5 {
				signals[w.End] = -90
			} else {
				signals[w.End] = -75
			}
		}
	}
	return signals
}

// recognizeHarami flags small bodies contained inside a significant
// previous body. Direction is the reversal of the previous candle.
func recognizeHarami(bars []bar.Bar) []int {
	signals := make([]int, len(bars))
	for _, w := range bar.Windows(bars, 2) {
		prev, curr := &w.Bars[0], &w.Bars[1]
		if prev.Range() == 0 || prev.Body() < prev.Range()*0.5 {
			continue
		}
		if !bodyInside(curr, prev) || curr.Body() > prev.Body()*0.5 {
			continue
		}
		if prev.IsBearish() {
			signals[w.End] = 65
		} else {
			signals[w.End] = -65
		}
	}
	return signals
}

// recognizeHaramiCross is a harami whose second bar is a doji. The doji's
// shadows may extend beyond the previous body; only the body must be inside.
func recognizeHaramiCross(bars []bar.Bar) []int {
	signals := make([]int, len(bars))
	for _, w := range bar.Windows(bars, 2) {
		prev, curr := &w.Bars[0], &w.Bars[1]
		if prev.Range() == 0 || prev.Body() < prev.Range()*0.5 {
			continue
		}
		if !isDoji(curr) || !bodyInside(curr, prev) {
			continue
		}
		if prev.IsBearish() {
			signals[w.End] = 70
		} else {
			signals[w.End] = -70
		}
	}
	return signals
}

// recognizeDarkCloudCover flags a bearish candle opening at or above the
// previous bullish close and penetrating at least the given fraction into
// its body. A full gap above the previous high strengthens the signal.
func recognizeDarkCloudCover(bars []bar.Bar, penetration float64) []int {
	signals := make([]int, len(bars))
	for _, w := range bar.Windows(bars, 2) {
		prev, curr := &w.Bars[0], &w.Bars[1]
		if !prev.IsBullish() || prev.Range() == 0 || prev.Body() < prev.Range()*0.6 {
			continue
		}
		if !curr.IsBearish() || curr.Open < prev.Close {
			continue
		}
		if curr.Close > prev.Close-penetration*prev.Body() {
			continue
		}
		if curr.Open > prev.High {
			signals[w.End] = -85
		} else {
			signals[w.End] = -70
		}
	}
	return signals
}

// recognizeMorningDojiStar is a morning star whose middle bar is a doji. The
// closing bar must recover at least the penetration fraction into the first
// candle's body.
func recognizeMorningDojiStar(bars []bar.Bar, penetration float64) []int {
	signals := make([]int, len(bars))
	for _, w := range bar.Windows(bars, 3) {
		first, second, third := &w.Bars[0], &w.Bars[1], &w.Bars[2]
		if !first.IsBearish() || first.Range() == 0 || first.Body() < first.Range()*0.6 {
			continue
		}
		if !isDoji(second) {
			continue
		}
		if !third.IsBullish() || third.Range() == 0 || third.Body() < third.Range()*0.6 {
			continue
		}
		if third.Close < first.Close+penetration*first.Body() {
			continue
		}
		signals[w.End] = 78
	}
	return signals
}

// recognizeEveningDojiStar is the bearish mirror of the morning doji star.
func recognizeEveningDojiStar(bars []bar.Bar, penetration float64) []int {
	signals := make([]int, len(bars))
	for _, w := range bar.Windows(bars, 3) {
		first, second, third := &w.Bars[0], &w.Bars[1], &w.Bars[2]
		if !first.IsBullish() || first.Range() == 0 || first.Body() < first.Range()*0.6 {
			continue
		}
		if !isDoji(second) {
			continue
		}
		if !third.IsBearish() || third.Range() == 0 || third.Body() < third.Range()*0.6 {
			continue
		}
		if third.Close > first.Close-penetration*first.Body() {
			continue
		}
		signals[w.End] = -78
	}
	return signals
}

// bodyInside reports whether inner's body lies within outer's body.
func bodyInside(inner, outer *bar.Bar) bool {
	outerHigh := max(outer.Open, outer.Close)
	outerLow := min(outer.Open, outer.Close)
	innerHigh := max(inner.Open, inner.Close)
	innerLow := min(inner.Open, inner.Close)
	return innerHigh <= outerHigh && innerLow >= outerLow
}
