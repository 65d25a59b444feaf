// Package source provides the sample sources the equalizer reads from.
package source

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidChannels = errors.New("source: channel count must be 1 or 2")
	ErrEmptySource     = errors.New("source: no samples")
	ErrRaggedFrames    = errors.New("source: sample count is not a multiple of the channel count")
)

const fullScale = 1 << 15

// Loop replays an interleaved 16-bit buffer endlessly. It is owned by the
// audio goroutine and is not safe for concurrent use.
type Loop struct {
	samples  []int16
	channels int
	frames   int
	index    int
}

func NewLoop(samples []int16, channels int) (*Loop, error) {
	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidChannels, channels)
	}
	if len(samples) == 0 {
		return nil, ErrEmptySource
	}
	if len(samples)%channels != 0 {
		return nil, fmt.Errorf("%w: %d samples, %d channels", ErrRaggedFrames, len(samples), channels)
	}
	return &Loop{
		samples:  samples,
		channels: channels,
		frames:   len(samples) / channels,
	}, nil
}

// FromFloat quantizes samples in [-1, 1] to 16 bits and wraps them in a Loop.
func FromFloat(samples []float64, channels int) (*Loop, error) {
	return NewLoop(ToPCM16(samples), channels)
}

func (l *Loop) Channels() int { return l.channels }

func (l *Loop) Frames() int { return l.frames }

// Position is the index of the frame Sample currently reads.
func (l *Loop) Position() int { return l.index }

// Sample returns the current frame's sample for channel ch, scaled to [-1, 1).
func (l *Loop) Sample(ch int) float64 {
	return float64(l.samples[l.index*l.channels+ch]) / fullScale
}

// Advance moves to the next frame, wrapping at the end of the buffer.
func (l *Loop) Advance() {
	l.index++
	if l.index == l.frames {
		l.index = 0
	}
}

// ToPCM16 converts float samples to int16, saturating out-of-range values.
func ToPCM16(samples []float64) []int16 {
	out := make([]int16, len(samples))
	for i, s := range samples {
		v := math.Round(s * (fullScale - 1))
		out[i] = int16(math.Max(-fullScale, math.Min(fullScale-1, v)))
	}
	return out
}

// Tone renders an interleaved sine with the same signal on every channel.
func Tone(freq, sampleRate, amplitude float64, frames, channels int) []float64 {
	out := make([]float64, frames*channels)
	step := 2 * math.Pi * freq / sampleRate
	for i := 0; i < frames; i++ {
		s := amplitude * math.Sin(step*float64(i))
		for c := 0; c < channels; c++ {
			out[i*channels+c] = s
		}
	}
	return out
}
