package design

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-tinnitus/dsp/filter/biquad"
)

const tol = 1e-9

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestBiquadDesigners_BasicResponseShape(t *testing.T) {
	sr := 44100.0
	f := 4000.0
	q := 8.0

	n := Notch(f, q, sr)
	if mag(n, f, sr) > 1e-6 {
		t.Fatalf("notch center magnitude = %v, want ~0", mag(n, f, sr))
	}
	for _, hz := range []float64{500, 1000, 12000} {
		if db := 20 * math.Log10(mag(n, hz, sr)); db < -1 {
			t.Fatalf("notch at %v Hz = %.2f dB, want near 0 dB", hz, db)
		}
	}

	ap := Allpass(f, q, sr)
	for _, hz := range []float64{100, 500, 1000, 5000, 10000} {
		if !almostEqual(mag(ap, hz, sr), 1, 1e-6) {
			t.Fatalf("allpass magnitude at %v Hz = %v, want ~1", hz, mag(ap, hz, sr))
		}
	}
}

func TestEQDesigners_BasicBehavior(t *testing.T) {
	sr := 44100.0
	f := 8000.0
	q := 20.0

	peakUp := Peak(f, 6, q, sr)
	peakDown := Peak(f, -6, q, sr)
	if !(mag(peakUp, f, sr) > 1 && mag(peakDown, f, sr) < 1) {
		t.Fatal("peak filter gain check failed")
	}
	if db := 20 * math.Log10(mag(peakUp, f, sr)); !almostEqual(db, 6, 1e-6) {
		t.Fatalf("peak center gain = %.6f dB, want 6 dB", db)
	}

	deep := Peak(4000, -40, 8, sr)
	if db := 20 * math.Log10(mag(deep, 4000, sr)); !almostEqual(db, -40, 1e-6) {
		t.Fatalf("-40 dB peak center gain = %.6f dB", db)
	}

	flat := Peak(f, 0, q, sr)
	for _, hz := range []float64{100, 1000, 8000, 15000} {
		if !almostEqual(mag(flat, hz, sr), 1, 1e-9) {
			t.Fatalf("0 dB peak magnitude at %v Hz = %v, want 1", hz, mag(flat, hz, sr))
		}
	}

	ls := LowShelf(500, 6, defaultQ, sr)
	if !(mag(ls, 100, sr) > mag(ls, 10000, sr)) {
		t.Fatal("low shelf tilt check failed")
	}

	hs := HighShelf(4000, 6, defaultQ, sr)
	if !(mag(hs, 15000, sr) > mag(hs, 100, sr)) {
		t.Fatal("high shelf tilt check failed")
	}
	if db := 20 * math.Log10(mag(hs, 20000, sr)); !almostEqual(db, 6, 0.3) {
		t.Fatalf("high shelf plateau = %.3f dB, want ~6 dB", db)
	}
	if db := 20 * math.Log10(mag(hs, 20, sr)); !almostEqual(db, 0, 0.05) {
		t.Fatalf("high shelf low band = %.3f dB, want ~0 dB", db)
	}
}

func TestDesigners_ValidateAcrossSampleRates(t *testing.T) {
	for _, sr := range []float64{22050, 44100, 48000, 96000} {
		for _, c := range []biquad.Coefficients{
			Notch(4000, 8, sr),
			Notch(2000, 1e-4, sr),
			Allpass(4000, 20, sr),
			Peak(8000, 12, 30, sr),
			Peak(4000, -40, 8, sr),
			LowShelf(300, 6, defaultQ, sr),
			HighShelf(5000, -12, defaultQ, sr),
		} {
			assertFiniteCoefficients(t, c)
			assertStableSection(t, c)
		}
	}
}

func TestDesign_Dispatch(t *testing.T) {
	sr := 44100.0
	tests := []struct {
		kind Kind
		want biquad.Coefficients
	}{
		{KindAllpass, Allpass(4000, 8, sr)},
		{KindPeaking, Peak(4000, -6, 8, sr)},
		{KindHighShelf, HighShelf(4000, -6, defaultQ, sr)},
		{KindLowShelf, LowShelf(4000, -6, defaultQ, sr)},
		{KindNotch, Notch(4000, 8, sr)},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if !Supports(tt.kind) {
				t.Fatalf("Supports(%s) = false", tt.kind)
			}
			got, err := Design(tt.kind, 4000, 8, -6, sr)
			if err != nil {
				t.Fatalf("Design() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("Design() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDesign_Errors(t *testing.T) {
	if _, err := Design(Kind(99), 1000, 1, 0, 44100); !errors.Is(err, ErrUnsupportedKind) {
		t.Fatalf("unknown kind error = %v, want ErrUnsupportedKind", err)
	}
	if Supports(Kind(99)) {
		t.Fatal("Supports(unknown) = true")
	}
	if _, err := Design(KindNotch, 30000, 1, 0, 44100); !errors.Is(err, ErrInvalidFrequency) {
		t.Fatalf("above nyquist error = %v, want ErrInvalidFrequency", err)
	}
	if _, err := Design(KindPeaking, 1000, 1, 0, 0); !errors.Is(err, ErrInvalidFrequency) {
		t.Fatalf("zero sample rate error = %v, want ErrInvalidFrequency", err)
	}
}

func TestInvalidInputs(t *testing.T) {
	if got := Notch(1000, 1, 0); got != (biquad.Coefficients{}) {
		t.Fatalf("expected zero coefficients for invalid sample rate, got %#v", got)
	}
	if got := Peak(0, 3, 1, 48000); got != (biquad.Coefficients{}) {
		t.Fatalf("expected zero coefficients for invalid frequency, got %#v", got)
	}
	if got := HighShelf(math.NaN(), 3, 1, 48000); got != (biquad.Coefficients{}) {
		t.Fatalf("expected zero coefficients for NaN frequency, got %#v", got)
	}
	assertFiniteCoefficients(t, Notch(1000, -1, 48000))  // q<=0 path uses defaultQ
	assertFiniteCoefficients(t, Allpass(1000, 0, 48000)) // q<=0 path uses defaultQ
	assertFiniteCoefficients(t, Peak(1000, 3, math.Inf(1), 48000))
}

func TestKind_String(t *testing.T) {
	if KindNotch.String() != "notch" {
		t.Fatalf("KindNotch.String() = %q", KindNotch.String())
	}
	if Kind(42).String() != "Kind(42)" {
		t.Fatalf("Kind(42).String() = %q", Kind(42).String())
	}
}

func mag(c biquad.Coefficients, freq, sr float64) float64 {
	h := c.Response(freq, sr)
	return cmplx.Abs(h)
}

func assertFiniteCoefficients(t *testing.T, c biquad.Coefficients) {
	t.Helper()
	if !c.IsFinite() {
		t.Fatalf("invalid coefficients %#v", c)
	}
}

func assertStableSection(t *testing.T, c biquad.Coefficients) {
	t.Helper()
	r1, r2 := sectionRoots(c)
	if cmplx.Abs(r1) >= 1+tol || cmplx.Abs(r2) >= 1+tol {
		t.Fatalf("unstable poles: |r1|=%v |r2|=%v coeff=%#v", cmplx.Abs(r1), cmplx.Abs(r2), c)
	}
}

func sectionRoots(c biquad.Coefficients) (complex128, complex128) {
	disc := complex(c.A1*c.A1-4*c.A2, 0)
	sqrtDisc := cmplx.Sqrt(disc)
	r1 := (-complex(c.A1, 0) + sqrtDisc) / 2
	r2 := (-complex(c.A1, 0) - sqrtDisc) / 2
	return r1, r2
}
