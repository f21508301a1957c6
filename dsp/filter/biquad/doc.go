// Package biquad runs the second-order IIR sections behind the tinnitus
// filters: the noise shelf, the tone notch and the peaking fallback.
//
// A [Section] keeps its delay line across [Section.SetCoefficients], so a
// filter whose frequency is ramped once per render quantum never clicks.
// Coefficient design lives in dsp/filter/design.
package biquad
