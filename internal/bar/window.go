package bar

// Window is a fixed-size view over consecutive bars. End is the index of the
// window's last bar in the source slice.
type Window struct {
	Bars []Bar
	End  int
}

// Windows returns every sliding window of the given size over bars, oldest
// first. The views alias the source slice; callers must not mutate them.
// Returns nil when size is not positive or bars is shorter than size.
func Windows(bars []Bar, size int) []Window {
	if size <= 0 || len(bars) < size {
		return nil
	}
	windows := make([]Window, 0, len(bars)-size+1)
	for end := size - 1; end < len(bars); end++ {
		windows = append(windows, Window{
			Bars: bars[end-size+1 : end+1],
			End:  end,
		})
	}
	return windows
}
