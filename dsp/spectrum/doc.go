// Package spectrum holds the live analyser tap behind the spectrum meter and
// a few power-spectrum helpers.
//
// An [Analyser] keeps the most recent FFTSize mono samples in a ring. Each
// read windows them with a periodic Blackman taper, transforms them and
// averages the bin magnitudes exponentially before mapping them to dB.
package spectrum
