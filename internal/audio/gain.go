package audio

import (
	"math"
	"sync/atomic"

	vecmath "github.com/cwbudde/algo-vecmath"
)

// Smoothing is the per-frame step of the volume envelope towards its target.
const Smoothing = 0.001

// Gain is the master volume and power stage applied after rendering. Volume
// and power are set from any goroutine; the envelope itself is owned by the
// audio goroutine.
type Gain struct {
	volume  atomic.Uint64
	power   atomic.Bool
	current float64
}

// NewGain starts from silence so the first frames fade in.
func NewGain(volume float64, power bool) *Gain {
	g := &Gain{}
	g.SetVolume(volume)
	g.SetPower(power)
	return g
}

// SetVolume sets the target volume, clamped to [0, 1].
func (g *Gain) SetVolume(v float64) {
	if math.IsNaN(v) {
		v = 0
	}
	g.volume.Store(math.Float64bits(math.Max(0, math.Min(1, v))))
}

func (g *Gain) Volume() float64 {
	return math.Float64frombits(g.volume.Load())
}

func (g *Gain) SetPower(on bool) { g.power.Store(on) }

func (g *Gain) Power() bool { return g.power.Load() }

func (g *Gain) target() float64 {
	if !g.power.Load() {
		return 0
	}
	return g.Volume()
}

// Apply scales interleaved samples by the smoothed envelope, writing the
// envelope into env, and clamps the result to [-1, 1]. env must be at least
// as long as samples.
func (g *Gain) Apply(samples, env []float64, channels int) {
	target := g.target()
	n := len(samples) - len(samples)%channels
	env = env[:n]
	for i := 0; i < n; i += channels {
		g.current += (target - g.current) * Smoothing
		for c := 0; c < channels; c++ {
			env[i+c] = g.current
		}
	}
	vecmath.MulBlockInPlace(samples[:n], env)
	clear(samples[n:])
	for i, s := range samples {
		samples[i] = math.Max(-1, math.Min(1, s))
	}
}
