package spectrum_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tinnitus/dsp/spectrum"
)

func ExampleAnalyser() {
	a, err := spectrum.NewAnalyser(spectrum.WithFFTSize(1024), spectrum.WithSmoothing(0))
	if err != nil {
		panic(err)
	}

	sig := make([]float64, 1024)
	for i := range sig {
		sig[i] = math.Sin(2 * math.Pi * 100 * float64(i) / 1024)
	}
	a.Write(sig)

	db := make([]float64, a.FrequencyBinCount())
	a.FloatFrequencyData(db)
	fmt.Printf("bin 100: %.1f dB\n", db[100])
	// Output:
	// bin 100: -13.6 dB
}
