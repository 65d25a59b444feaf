package filter

// OnePoleLowPass is a first-order (6 dB/oct) Butterworth low-pass.
type OnePoleLowPass struct {
	section
}

func NewOnePoleLowPass(cutoff, sampleRate float64) *OnePoleLowPass {
	f := &OnePoleLowPass{section: section{sampleRate: sampleRate}}
	f.SetFrequency(cutoff)
	return f
}

// SetFrequency retunes the filter without touching its history.
func (f *OnePoleLowPass) SetFrequency(hz float64) {
	hz = ClampFrequency(hz, f.sampleRate)
	k := prewarp(hz, f.sampleRate)
	norm := 1 / (1 + k)
	f.publish(hz, Coefficients{
		B0: k * norm,
		B1: k * norm,
		A1: (k - 1) * norm,
	})
}

func (f *OnePoleLowPass) Process(x float64) float64 {
	return f.firstOrder(x)
}

func (f *OnePoleLowPass) Order() int { return 1 }

// OnePoleHighPass is a first-order (6 dB/oct) Butterworth high-pass. With the
// same cutoff it is the exact complement of OnePoleLowPass.
type OnePoleHighPass struct {
	section
}

func NewOnePoleHighPass(cutoff, sampleRate float64) *OnePoleHighPass {
	f := &OnePoleHighPass{section: section{sampleRate: sampleRate}}
	f.SetFrequency(cutoff)
	return f
}

// SetFrequency retunes the filter without touching its history.
func (f *OnePoleHighPass) SetFrequency(hz float64) {
	hz = ClampFrequency(hz, f.sampleRate)
	k := prewarp(hz, f.sampleRate)
	norm := 1 / (1 + k)
	f.publish(hz, Coefficients{
		B0: norm,
		B1: -norm,
		A1: (k - 1) * norm,
	})
}

func (f *OnePoleHighPass) Process(x float64) float64 {
	return f.firstOrder(x)
}

func (f *OnePoleHighPass) Order() int { return 1 }
