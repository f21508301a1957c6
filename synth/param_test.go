package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParam_Set(t *testing.T) {
	var p Param
	p.Set(3)
	assert.Equal(t, 3.0, p.Value())
	assert.Equal(t, 3.0, p.Target())
	assert.False(t, p.Ramping())
	assert.Equal(t, 3.0, p.Next())
	assert.Equal(t, 3.0, p.Next())
}

func TestParam_LinearRamp(t *testing.T) {
	var p Param
	p.Set(0)
	p.RampTo(1, 4)

	assert.True(t, p.Ramping())
	assert.Equal(t, 1.0, p.Target())

	got := make([]float64, 6)
	p.Fill(got)
	assert.InDeltaSlice(t, []float64{0, 0.25, 0.5, 0.75, 1, 1}, got, 1e-12)
	assert.False(t, p.Ramping())
}

func TestParam_RetargetMidRamp(t *testing.T) {
	var p Param
	p.Set(0)
	p.RampTo(10, 10)
	p.Advance(5)
	assert.InDelta(t, 5.0, p.Value(), 1e-12)

	// A new ramp starts from the in-flight value.
	p.RampTo(0, 5)
	p.Advance(1)
	assert.InDelta(t, 4.0, p.Value(), 1e-12)
	p.Advance(100)
	assert.Equal(t, 0.0, p.Value())
}

func TestParam_DegenerateRamps(t *testing.T) {
	var p Param
	p.Set(2)
	p.RampTo(5, 0)
	assert.Equal(t, 5.0, p.Value())
	assert.False(t, p.Ramping())

	p.RampTo(5, 100)
	assert.False(t, p.Ramping(), "ramping to the current value is a no-op")

	p.RampTo(6, 3)
	p.Advance(0)
	p.Advance(-1)
	assert.Equal(t, 5.0, p.Value())
}
