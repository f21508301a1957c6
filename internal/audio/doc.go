// Package audio provides output drivers for the synth engine: an oto
// backed real-time driver for the local sound device and a headless driver
// that pulls blocks on its own goroutine and optionally writes them to an
// io.Writer.
//
// Both drivers deliver interleaved stereo float32 little-endian PCM.
package audio
