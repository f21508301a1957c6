// Package synth is the tinnitus-matching synthesis engine.
//
// A fixed signal graph combines a colored-noise path (high shelf, band
// emphasis, notch, gain, balance) with a tone path (carrier with optional
// FM, 2nd and 3rd harmonics and a beat partial, gain, balance) into a
// stereo panner. [Settings] snapshots are turned into node parameters by
// [Derive] and applied by a [Controller], either immediately or with 50 ms
// linear ramps.
//
// [Render] produces an offline buffer; [Engine] drives the same graph from
// a real-time audio driver. Both share the derivation, so a given snapshot
// yields identical node parameters in either context.
package synth
