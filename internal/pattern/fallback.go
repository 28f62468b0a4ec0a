package pattern

import (
	"example.com/stock-pattern-scanner/internal/bar"
)

// Manual recognition rules used when the recognition delegate is
// unavailable. Only doji, hammer and morning star are covered; every other
// pattern degrades to a constant-zero series in that mode.
var fallbackRecognizers = map[ID]func([]bar.Bar) []int{
	Doji:        manualDoji,
	Hammer:      manualHammer,
	MorningStar: manualMorningStar,
}

// manualDoji flags bars whose body is small relative to the total range:
// body/range < 0.1 scores 100, < 0.2 scores 50. Zero-range bars never match.
func manualDoji(bars []bar.Bar) []int {
	signals := make([]int, len(bars))
	for i := range bars {
		b := &bars[i]
		rng := b.Range()
		if rng <= 0 {
			continue
		}
		switch ratio := b.Body() / rng; {
		case ratio < 0.1:
			signals[i] = 100
		case ratio < 0.2:
			signals[i] = 50
		}
	}
	return signals
}

// manualHammer flags bars with a long lower shadow (more than twice the
// body) and an upper shadow smaller than the body.
func manualHammer(bars []bar.Bar) []int {
	signals := make([]int, len(bars))
	for i := range bars {
		b := &bars[i]
		body := b.Body()
		if body <= 0 {
			continue
		}
		if b.LowerShadow() > body*2 && b.UpperShadow() < body {
			signals[i] = 100
		}
	}
	return signals
}

// manualMorningStar evaluates six conditions over each three-bar window:
// a large bearish first candle, a small middle body gapping down, and a
// large bullish third candle gapping up and closing above the first body's
// midpoint. All six score 100 at the window's last bar, four or five score
// 50, fewer score 0.
func manualMorningStar(bars []bar.Bar) []int {
	signals := make([]int, len(bars))
	for _, w := range bar.Windows(bars, 3) {
		first, second, third := &w.Bars[0], &w.Bars[1], &w.Bars[2]

		body1 := first.Body()
		body2 := second.Body()
		body3 := third.Body()
		avgBody := (body1 + body2 + body3) / 3

		conditions := []bool{
			first.IsBearish() && body1 > avgBody*0.7,
			body2 < body1*0.3,
			second.High < first.Close,
			third.IsBullish() && body3 > avgBody*0.7,
			third.Close > first.Midpoint(),
			third.Open > second.High,
		}

		met := 0
		for _, ok := range conditions {
			if ok {
				met++
			}
		}

		switch {
		case met == len(conditions):
			signals[w.End] = 100
		case met >= 4:
			signals[w.End] = 50
		}
	}
	return signals
}
