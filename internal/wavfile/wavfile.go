// Package wavfile writes and reads rendered buffers as 16-bit PCM WAV.
package wavfile

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-tinnitus/synth"
)

// BitDepth is the sample width of written files.
const BitDepth = 16

// DefaultName is the export file name used when none is given.
const DefaultName = "tinnitus_match.wav"

const (
	pcmFormat   = 1
	chunkFrames = 4096
	fullScale   = 32767
)

var (
	errEmptyBuffer = errors.New("wavfile: empty buffer")
	errNotWAV      = errors.New("wavfile: not a valid WAV file")
)

// Encode writes buf to w. Samples are clamped to [-1, 1] and rounded to the
// nearest 16-bit step.
func Encode(w io.WriteSeeker, buf *synth.Buffer) error {
	frames := buf.Frames()
	if frames == 0 {
		return errEmptyBuffer
	}
	nch := len(buf.Channels)
	rate := int(math.Round(buf.SampleRate))

	enc := wav.NewEncoder(w, rate, BitDepth, nch, pcmFormat)
	ib := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: nch, SampleRate: rate},
		Data:           make([]int, 0, chunkFrames*nch),
		SourceBitDepth: BitDepth,
	}

	for off := 0; off < frames; off += chunkFrames {
		end := min(off+chunkFrames, frames)
		ib.Data = ib.Data[:0]
		for i := off; i < end; i++ {
			for _, ch := range buf.Channels {
				ib.Data = append(ib.Data, quantize(ch[i]))
			}
		}
		if err := enc.Write(ib); err != nil {
			return fmt.Errorf("wavfile: write samples: %w", err)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("wavfile: finalize: %w", err)
	}
	return nil
}

func quantize(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	v = math.Max(-1, math.Min(1, v))
	return int(math.Round(v * fullScale))
}

// WriteFile encodes buf into the file at path, replacing it.
func WriteFile(path string, buf *synth.Buffer) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavfile: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("wavfile: %w", cerr)
		}
	}()
	return Encode(f, buf)
}

// Decode reads a PCM WAV stream into a planar buffer scaled to [-1, 1].
func Decode(r io.ReadSeeker) (*synth.Buffer, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, errNotWAV
	}

	ib, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wavfile: decode: %w", err)
	}

	nch := ib.Format.NumChannels
	if nch <= 0 {
		return nil, errNotWAV
	}
	scale := 1 / float64(int(1)<<(ib.SourceBitDepth-1)-1)
	frames := len(ib.Data) / nch

	out := &synth.Buffer{
		Channels:   make([][]float64, nch),
		SampleRate: float64(ib.Format.SampleRate),
	}
	for ch := range out.Channels {
		out.Channels[ch] = make([]float64, frames)
	}
	for i := range frames {
		for ch := range nch {
			out.Channels[ch][i] = float64(ib.Data[i*nch+ch]) * scale
		}
	}
	return out, nil
}

// ReadFile decodes the WAV file at path.
func ReadFile(path string) (*synth.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wavfile: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
