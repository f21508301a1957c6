// Package design provides digital IIR filter coefficient designers.
//
// The functions in this package produce biquad coefficients consumable by
// dsp/filter/biquad for runtime processing. The designers follow the RBJ
// audio-EQ cookbook with the parameter conventions of the Web Audio
// BiquadFilterNode (shelves with slope 1, Q as bandwidth control for
// peaking, notch and allpass), so settings tuned in a browser map 1:1.
//
// [Design] dispatches on a [Kind]; [Supports] reports which kinds this build
// of the primitive can realise, letting callers pick a fallback once at
// start-up instead of checking on every parameter update.
package design
