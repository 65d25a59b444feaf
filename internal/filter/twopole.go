package filter

import "math"

// butterworth returns the shared denominator of the second-order sections
// (Q = 1/sqrt(2)) together with the normalization factor 1/a0.
func butterworth(k float64) (a1, a2, norm float64) {
	k2 := k * k
	norm = 1 / (1 + math.Sqrt2*k + k2)
	a1 = 2 * (k2 - 1) * norm
	a2 = (1 - math.Sqrt2*k + k2) * norm
	return a1, a2, norm
}

// TwoPoleLowPass is a second-order (12 dB/oct) Butterworth low-pass.
type TwoPoleLowPass struct {
	section
}

func NewTwoPoleLowPass(cutoff, sampleRate float64) *TwoPoleLowPass {
	f := &TwoPoleLowPass{section: section{sampleRate: sampleRate}}
	f.SetFrequency(cutoff)
	return f
}

// SetFrequency retunes the filter without touching its history.
func (f *TwoPoleLowPass) SetFrequency(hz float64) {
	hz = ClampFrequency(hz, f.sampleRate)
	k := prewarp(hz, f.sampleRate)
	a1, a2, norm := butterworth(k)
	b0 := k * k * norm
	f.publish(hz, Coefficients{
		B0: b0,
		B1: 2 * b0,
		B2: b0,
		A1: a1,
		A2: a2,
	})
}

func (f *TwoPoleLowPass) Process(x float64) float64 {
	return f.secondOrder(x)
}

func (f *TwoPoleLowPass) Order() int { return 2 }

// TwoPoleHighPass is a second-order (12 dB/oct) Butterworth high-pass.
type TwoPoleHighPass struct {
	section
}

func NewTwoPoleHighPass(cutoff, sampleRate float64) *TwoPoleHighPass {
	f := &TwoPoleHighPass{section: section{sampleRate: sampleRate}}
	f.SetFrequency(cutoff)
	return f
}

// SetFrequency retunes the filter without touching its history.
func (f *TwoPoleHighPass) SetFrequency(hz float64) {
	hz = ClampFrequency(hz, f.sampleRate)
	k := prewarp(hz, f.sampleRate)
	a1, a2, norm := butterworth(k)
	f.publish(hz, Coefficients{
		B0: norm,
		B1: -2 * norm,
		B2: norm,
		A1: a1,
		A2: a2,
	})
}

func (f *TwoPoleHighPass) Process(x float64) float64 {
	return f.secondOrder(x)
}

func (f *TwoPoleHighPass) Order() int { return 2 }
