// Package filter implements first- and second-order Butterworth low-pass and
// high-pass sections whose cutoff can be retuned while audio is flowing.
//
// SetFrequency may be called from any goroutine. Process and Reset belong to
// the goroutine that owns the filter's sample history (normally the audio
// callback).
package filter

import (
	"fmt"
	"math"
)

// FrequencyFilter is a recursive filter with a tunable cutoff.
type FrequencyFilter interface {
	SetFrequency(hz float64)
	Process(x float64) float64

	Frequency() float64
	SampleRate() float64
	Coefficients() Coefficients
	Order() int
	Reset()
}

type Kind int

const (
	LowPass1 Kind = iota
	LowPass2
	HighPass1
	HighPass2
)

func (k Kind) String() string {
	switch k {
	case LowPass1:
		return "lowpass1"
	case LowPass2:
		return "lowpass2"
	case HighPass1:
		return "highpass1"
	case HighPass2:
		return "highpass2"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MinFrequency replaces cutoffs at or below zero. Any positive cutoff below
// Nyquist is used as given.
const MinFrequency = 1e-3

// nyquistMargin scales Nyquist for cutoffs at or above it, where
// tan(pi*f/fs) diverges.
const nyquistMargin = 1 - 1e-6

// Outputs smaller than this are flushed to zero; decays end in true
// silence instead of lingering as subnormals.
const denormal = 1e-30

// New returns a filter of the given kind tuned to cutoff.
func New(kind Kind, cutoff, sampleRate float64) FrequencyFilter {
	switch kind {
	case LowPass2:
		return NewTwoPoleLowPass(cutoff, sampleRate)
	case HighPass1:
		return NewOnePoleHighPass(cutoff, sampleRate)
	case HighPass2:
		return NewTwoPoleHighPass(cutoff, sampleRate)
	default:
		return NewOnePoleLowPass(cutoff, sampleRate)
	}
}

// ClampFrequency maps invalid cutoffs into (0, sampleRate/2): zero, negative
// and NaN become MinFrequency, and anything at or above Nyquist lands just
// under it.
func ClampFrequency(hz, sampleRate float64) float64 {
	if math.IsNaN(hz) || hz <= 0 {
		return MinFrequency
	}
	if nyquist := sampleRate / 2; hz >= nyquist {
		return nyquist * nyquistMargin
	}
	return hz
}

// prewarp returns the bilinear-transform frequency constant tan(pi*f/fs).
func prewarp(hz, sampleRate float64) float64 {
	return math.Tan(math.Pi * hz / sampleRate)
}

func flush(y float64) float64 {
	if math.Abs(y) < denormal {
		return 0
	}
	return y
}
