package synth

import "errors"

var (
	// ErrInvalidSampleRate is returned for non-positive or non-finite rates.
	ErrInvalidSampleRate = errors.New("synth: sample rate must be > 0 and finite")
	// ErrInvalidDuration is returned by Render for non-positive durations.
	ErrInvalidDuration = errors.New("synth: duration must be > 0")
	// ErrInvalidChannels is returned by Render for channel counts other than 1 or 2.
	ErrInvalidChannels = errors.New("synth: channels must be 1 or 2")
	// ErrNoAudioDriver is returned by Engine.Start when no driver is configured.
	ErrNoAudioDriver = errors.New("synth: no audio driver")
	// ErrEngineClosed is returned when a closed engine is started again.
	ErrEngineClosed = errors.New("synth: engine closed")
)
