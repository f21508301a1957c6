package main

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-tinnitus/dsp/noise"
	"github.com/cwbudde/algo-tinnitus/synth"
)

type action int

const (
	actionNone action = iota
	actionUpdate
	actionToggle
	actionQuit
)

// Step sizes of the keyboard controls.
const (
	freqStep    = 100.0
	levelStep   = 1.0
	routingStep = 0.1
)

// session is the live control state of the play command.
type session struct {
	settings synth.Settings
	slots    map[byte]*slot
	active   byte
}

type slot struct {
	name     string
	settings synth.Settings
}

func newSession(initial synth.Settings) *session {
	return &session{settings: initial.Clamp(), slots: make(map[byte]*slot)}
}

// setSlot registers an A/B comparison slot.
func (s *session) setSlot(key byte, name string, settings synth.Settings) {
	s.slots[key] = &slot{name: name, settings: settings.Clamp()}
}

// handle applies a key press. Edits made while a slot is active are kept
// in that slot, so switching back and forth compares the edited versions.
func (s *session) handle(key byte) action {
	st := &s.settings
	switch key {
	case 'q', 'Q', 'x', 3:
		return actionQuit
	case ' ':
		return actionToggle
	case 'a', 'b':
		sl, ok := s.slots[key]
		if !ok || s.active == key {
			return actionNone
		}
		if cur, ok := s.slots[s.active]; ok {
			cur.settings = s.settings
		}
		s.active = key
		s.settings = sl.settings
		return actionUpdate
	case '+', '=':
		st.Tone.FreqHz += freqStep
	case '-', '_':
		st.Tone.FreqHz -= freqStep
	case '.':
		st.Tone.GainDB += levelStep
	case ',':
		st.Tone.GainDB -= levelStep
	case ']':
		st.Noise.LevelDB += levelStep
	case '[':
		st.Noise.LevelDB -= levelStep
	case 'k':
		st.Routing.Balance += routingStep
	case 'j':
		st.Routing.Balance -= routingStep
	case 'l':
		st.Routing.Pan += routingStep
	case 'h':
		st.Routing.Pan -= routingStep
	case '1':
		st.Master.NoiseEnabled = !st.Master.NoiseEnabled
	case '2':
		st.Master.ToneEnabled = !st.Master.ToneEnabled
	case 'n':
		st.Noise.NotchEnabled = !st.Noise.NotchEnabled
	case 'f':
		st.Tone.FMEnabled = !st.Tone.FMEnabled
	case 'm':
		st.Tone.HarmonicsEnabled = !st.Tone.HarmonicsEnabled
	case 'w':
		st.Tone.BeatEnabled = !st.Tone.BeatEnabled
	case 't':
		st.Noise.Type = nextNoiseType(st.Noise.Type)
	default:
		return actionNone
	}
	s.settings = s.settings.Clamp()
	return actionUpdate
}

func nextNoiseType(t noise.Type) noise.Type {
	types := noise.Types()
	for i, v := range types {
		if v == t {
			return types[(i+1)%len(types)]
		}
	}
	return types[0]
}

func (s *session) slotName() string {
	if sl, ok := s.slots[s.active]; ok {
		return fmt.Sprintf("[%c] %s", s.active-'a'+'A', sl.name)
	}
	return ""
}

// status renders a one-line summary of the current snapshot.
func (s *session) status() string {
	st := s.settings
	var b strings.Builder

	if st.Master.NoiseEnabled {
		fmt.Fprintf(&b, "noise %-6s %4.0f dB", st.Noise.Type, st.Noise.LevelDB)
	} else {
		b.WriteString("noise off           ")
	}
	b.WriteString(" | ")
	if st.Master.ToneEnabled {
		fmt.Fprintf(&b, "tone %5.0f Hz %4.0f dB", st.Tone.FreqHz, st.Tone.GainDB)
	} else {
		b.WriteString("tone off             ")
	}
	fmt.Fprintf(&b, " | bal %+.1f pan %+.1f |", st.Routing.Balance, st.Routing.Pan)

	for _, f := range []struct {
		on   bool
		name string
	}{
		{st.Noise.NotchEnabled, "notch"},
		{st.Tone.FMEnabled, "fm"},
		{st.Tone.HarmonicsEnabled, "harm"},
		{st.Tone.BeatEnabled, "beat"},
	} {
		if f.on {
			b.WriteString(" " + f.name)
		}
	}
	if name := s.slotName(); name != "" {
		b.WriteString(" | " + name)
	}
	return b.String()
}

const helpLine = "space play/pause  +/- tone Hz  ,/. tone dB  [/] noise dB  j/k balance  h/l pan  " +
	"1 noise  2 tone  n notch  f fm  m harmonics  w beat  t type  a/b slots  q quit"
