package main

import "strings"

var levels = []rune(" ▁▂▃▄▅▆▇█")

// spectrumLine draws byte magnitudes as width block characters. Bins are
// grouped linearly and each column shows the loudest bin of its group.
func spectrumLine(bins []byte, width int) string {
	if width <= 0 || len(bins) == 0 {
		return ""
	}
	var b strings.Builder
	for c := range width {
		lo := c * len(bins) / width
		hi := max((c+1)*len(bins)/width, lo+1)
		var peak byte
		for _, v := range bins[lo:min(hi, len(bins))] {
			peak = max(peak, v)
		}
		b.WriteRune(levels[int(peak)*(len(levels)-1)/255])
	}
	return b.String()
}
