package audio

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeFloat32LE(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out
}

func TestPutFloat32LE(t *testing.T) {
	dst := make([]byte, 3*BytesPerFrame)
	n := PutFloat32LE(dst, []float64{0.5, -1, 0.25}, []float64{-0.5, 1, 0})
	require.Equal(t, 24, n)
	assert.Equal(t, []float32{0.5, -0.5, -1, 1, 0.25, 0}, decodeFloat32LE(dst))
}

func TestPutFloat32LE_Truncates(t *testing.T) {
	dst := make([]byte, 2*BytesPerFrame+3)
	n := PutFloat32LE(dst, []float64{1, 1, 1}, []float64{1, 1, 1})
	assert.Equal(t, 2*BytesPerFrame, n)

	n = PutFloat32LE(dst, []float64{1}, []float64{1, 1})
	assert.Equal(t, BytesPerFrame, n)
}

func TestPuller_Fill(t *testing.T) {
	calls := 0
	p := newPuller(func(left, right []float64) {
		calls++
		for i := range left {
			left[i] = float64(i)
			right[i] = -float64(i)
		}
	})

	dst := make([]byte, 2*BytesPerFrame)
	require.Equal(t, 16, p.fill(dst))
	assert.Equal(t, []float32{0, 0, 1, -1}, decodeFloat32LE(dst))

	assert.Zero(t, p.fill(make([]byte, 5)), "partial frame")
	assert.Equal(t, 1, calls)
}
