package audio

import (
	"encoding/binary"
	"math"
)

// BytesPerFrame is the size of one interleaved stereo float32 frame.
const BytesPerFrame = 8

// PutFloat32LE interleaves left and right into dst as float32 little-endian
// samples and returns the number of bytes written. It stops at the shortest
// of the channels or the capacity of dst.
func PutFloat32LE(dst []byte, left, right []float64) int {
	frames := min(len(left), len(right), len(dst)/BytesPerFrame)
	for i := range frames {
		off := i * BytesPerFrame
		binary.LittleEndian.PutUint32(dst[off:], math.Float32bits(float32(left[i])))
		binary.LittleEndian.PutUint32(dst[off+4:], math.Float32bits(float32(right[i])))
	}
	return frames * BytesPerFrame
}

// puller adapts a planar pull function to io.Reader. Reads after stop
// produce silence and do not call pull.
type puller struct {
	pull  func(left, right []float64)
	left  []float64
	right []float64
}

func newPuller(pull func(left, right []float64)) *puller {
	return &puller{pull: pull}
}

func (p *puller) fill(dst []byte) int {
	frames := len(dst) / BytesPerFrame
	if frames == 0 {
		return 0
	}
	if cap(p.left) < frames {
		p.left = make([]float64, frames)
		p.right = make([]float64, frames)
	}
	l, r := p.left[:frames], p.right[:frames]
	p.pull(l, r)
	return PutFloat32LE(dst, l, r)
}
