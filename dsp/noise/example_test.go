package noise_test

import (
	"fmt"

	"github.com/cwbudde/algo-tinnitus/dsp/noise"
)

func ExampleGenerator() {
	g := noise.New(noise.WithType(noise.Brown), noise.WithSeed(7))

	buf := make([]float64, 4096)
	g.Fill(buf)

	inRange := true
	for _, v := range buf {
		if v < -1 || v > 1 {
			inRange = false
		}
	}
	fmt.Println(g.Type(), inRange)
	// Output:
	// brown true
}
