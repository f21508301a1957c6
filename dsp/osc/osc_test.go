package osc

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-tinnitus/internal/testutil"
)

func TestNewSine_Validation(t *testing.T) {
	for _, sr := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := NewSine(sr); err == nil {
			t.Fatalf("NewSine(%v) should fail", sr)
		}
	}
}

func TestSine_MatchesReference(t *testing.T) {
	const sr = 48000.0
	s, err := NewSine(sr)
	if err != nil {
		t.Fatal(err)
	}

	got := make([]float64, 480)
	s.Fill(got, 1000)

	want := testutil.Sine(1000, sr, 1, 480)
	testutil.RequireClose(t, got, want, 1e-9)
}

func TestSine_FrequencyChangeKeepsPhase(t *testing.T) {
	const sr = 44100.0
	s, err := NewSine(sr)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 100; i++ {
		s.Next(6500)
	}
	before := s.Phase()
	want := math.Sin(before)

	// The retuned sample continues from the accumulated phase.
	if got := s.Next(8000); math.Abs(got-want) > 1e-12 {
		t.Fatalf("sample after retune = %v, want %v", got, want)
	}

	step := 2 * math.Pi * 8000 / sr
	diff := math.Mod(s.Phase()-before+2*math.Pi, 2*math.Pi)
	if math.Abs(diff-step) > 1e-9 {
		t.Fatalf("phase advanced by %v, want %v", diff, step)
	}
}

func TestSine_PhaseWrapAndOptions(t *testing.T) {
	s, err := NewSine(1000, WithPhase(-math.Pi/2))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(s.Phase()-1.5*math.Pi) > 1e-12 {
		t.Fatalf("phase = %v, want 3π/2", s.Phase())
	}
	if v := s.Next(250); math.Abs(v+1) > 1e-12 {
		t.Fatalf("first sample = %v, want -1", v)
	}

	// Negative frequency spins backwards without leaving [0, 2π).
	for i := 0; i < 10; i++ {
		s.Next(-250)
		if p := s.Phase(); p < 0 || p >= 2*math.Pi {
			t.Fatalf("phase %v out of range", p)
		}
	}

	p := s.Phase()
	s.Next(math.NaN())
	if s.Phase() != p {
		t.Fatal("NaN frequency should hold phase")
	}

	s.Reset()
	if s.Phase() != 0 || s.SampleRate() != 1000 {
		t.Fatalf("Reset phase=%v sr=%v", s.Phase(), s.SampleRate())
	}
}
