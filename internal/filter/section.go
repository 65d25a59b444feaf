package filter

import (
	"math"
	"math/cmplx"
	"sync/atomic"
)

// Coefficients of a section normalized so that a0 == 1:
//
//	y = B0*x + B1*x1 + B2*x2 - A1*y1 - A2*y2
//
// First-order sections leave B2 and A2 at zero.
type Coefficients struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// Response computes H(e^jw) at freqHz.
func (c Coefficients) Response(freqHz, sampleRate float64) complex128 {
	w := 2 * math.Pi * freqHz / sampleRate
	z1 := cmplx.Exp(complex(0, -w))
	z2 := cmplx.Exp(complex(0, -2*w))

	num := complex(c.B0, 0) + complex(c.B1, 0)*z1 + complex(c.B2, 0)*z2
	den := 1 + complex(c.A1, 0)*z1 + complex(c.A2, 0)*z2
	return num / den
}

func (c Coefficients) MagnitudeSquared(freqHz, sampleRate float64) float64 {
	h := c.Response(freqHz, sampleRate)
	return real(h)*real(h) + imag(h)*imag(h)
}

// MagnitudeDB returns 10*log10(|H(f)|^2).
func (c Coefficients) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return 10 * math.Log10(c.MagnitudeSquared(freqHz, sampleRate))
}

// tuning is an immutable cutoff/coefficient pair. It is swapped in whole so
// Process never sees coefficients from one cutoff mixed with another.
type tuning struct {
	cutoff float64
	Coefficients
}

// section carries the pieces shared by every filter: the fixed sample rate,
// the atomically published tuning and the sample history.
type section struct {
	sampleRate float64
	tuning     atomic.Pointer[tuning]

	x1, x2 float64
	y1, y2 float64
}

func (s *section) publish(cutoff float64, c Coefficients) {
	s.tuning.Store(&tuning{cutoff: cutoff, Coefficients: c})
}

func (s *section) Frequency() float64 {
	return s.tuning.Load().cutoff
}

func (s *section) SampleRate() float64 {
	return s.sampleRate
}

func (s *section) Coefficients() Coefficients {
	return s.tuning.Load().Coefficients
}

// Reset clears the sample history. It must not race with Process.
func (s *section) Reset() {
	s.x1, s.x2 = 0, 0
	s.y1, s.y2 = 0, 0
}

func (s *section) firstOrder(x float64) float64 {
	c := s.tuning.Load()
	y := flush(c.B0*x + c.B1*s.x1 - c.A1*s.y1)
	s.x1 = x
	s.y1 = y
	return y
}

func (s *section) secondOrder(x float64) float64 {
	c := s.tuning.Load()
	y := flush(c.B0*x + c.B1*s.x1 + c.B2*s.x2 - c.A1*s.y1 - c.A2*s.y2)
	s.x2 = s.x1
	s.x1 = x
	s.y2 = s.y1
	s.y1 = y
	return y
}
