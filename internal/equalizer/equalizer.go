// Package equalizer implements a two-band shelving equalizer: a low-pass band
// and a high-pass band split at a shared cutoff, each with its own gain.
//
// Parameters are changed from a host goroutine (UI, MQTT) while Render runs on
// the audio goroutine. Every value the audio side reads is published through
// a single atomic store, so Render never blocks and never sees a half-applied
// change.
package equalizer

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/agusx1211/two-band-eq/internal/filter"
)

const DefaultCutoff = 200.0

var (
	ErrChannelCountMismatch = errors.New("equalizer: source channel count does not match configuration")
	ErrNoSource             = errors.New("equalizer: no sample source")
	ErrInvalidSampleRate    = errors.New("equalizer: sample rate must be positive")
)

// Status is returned from Render to tell the stream driver whether to keep
// pulling frames.
type Status int

const (
	Continue Status = iota
	Complete
)

// Source yields one sample per channel per frame, looping forever. It is
// only touched from the audio goroutine.
type Source interface {
	Channels() int
	Sample(ch int) float64
	Advance()
}

// Control is the parameter panel the equalizer publishes to.
type Control interface {
	SetLabel(index int, text string)
	SetRange(index, min, max int)
	SetValue(index, value int) error
	OnValueChanged(fn func(index, value int))
}

type Config struct {
	SampleRate    float64
	InitialCutoff float64
	Stereo        bool
}

func (c Config) Channels() int {
	if c.Stereo {
		return 2
	}
	return 1
}

// channelFilters holds both orders of each band for one channel; the active
// pair is picked by the equalizer's order index.
type channelFilters struct {
	lowPass  [2]filter.FrequencyFilter
	highPass [2]filter.FrequencyFilter
}

func newChannelFilters(cutoff, sampleRate float64) channelFilters {
	return channelFilters{
		lowPass: [2]filter.FrequencyFilter{
			filter.NewOnePoleLowPass(cutoff, sampleRate),
			filter.NewTwoPoleLowPass(cutoff, sampleRate),
		},
		highPass: [2]filter.FrequencyFilter{
			filter.NewOnePoleHighPass(cutoff, sampleRate),
			filter.NewTwoPoleHighPass(cutoff, sampleRate),
		},
	}
}

// mix runs x through the active pair. The high band is subtracted.
func (cf *channelFilters) mix(order Order, gLP, gHP, x float64) float64 {
	return gLP*cf.lowPass[order].Process(x) - gHP*cf.highPass[order].Process(x)
}

type Equalizer struct {
	sampleRate    float64
	initialCutoff float64
	channels      []channelFilters
	src           Source

	gainLowPass  atomic.Uint64
	gainHighPass atomic.Uint64
	order        atomic.Int32
	stopped      atomic.Bool
	seeding      atomic.Bool

	control Control
}

func New(cfg Config, src Source) (*Equalizer, error) {
	if !(cfg.SampleRate > 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSampleRate, cfg.SampleRate)
	}
	if src == nil {
		return nil, ErrNoSource
	}
	if got, want := src.Channels(), cfg.Channels(); got != want {
		return nil, fmt.Errorf("%w: source has %d, configured for %d", ErrChannelCountMismatch, got, want)
	}

	cutoff := cfg.InitialCutoff
	if cutoff <= 0 {
		cutoff = DefaultCutoff
	}

	e := &Equalizer{
		sampleRate:    cfg.SampleRate,
		initialCutoff: cutoff,
		channels:      make([]channelFilters, cfg.Channels()),
		src:           src,
	}
	for i := range e.channels {
		e.channels[i] = newChannelFilters(cutoff, cfg.SampleRate)
	}
	storeFloat(&e.gainLowPass, 1)
	storeFloat(&e.gainHighPass, 1)
	e.order.Store(int32(FirstOrder))
	return e, nil
}

// Attach declares the parameter ranges on ctrl, subscribes to its changes and
// seeds the defaults, which also publishes the initial labels. The seeded
// cutoff slider is the nearest raw step to the configured cutoff; the filters
// stay at the configured value until the slider is moved.
func (e *Equalizer) Attach(ctrl Control) error {
	e.control = ctrl
	for _, p := range Params {
		ctrl.SetRange(p.Index, p.Min, p.Max)
	}
	ctrl.OnValueChanged(e.OnParameterChanged)

	e.seeding.Store(true)
	defer e.seeding.Store(false)
	for i, v := range e.Defaults() {
		if err := ctrl.SetValue(i, v); err != nil {
			return fmt.Errorf("equalizer: seeding %s: %w", Params[i].Key, err)
		}
	}
	return nil
}

// Defaults are the raw panel values matching the construction state.
func (e *Equalizer) Defaults() [NumParams]int {
	var d [NumParams]int
	for _, p := range Params {
		d[p.Index] = p.Default
	}
	d[ParamCutoff] = RawFromCutoff(e.initialCutoff)
	return d
}

// OnParameterChanged applies a validated raw panel value. It runs on the host
// goroutine; unknown indices are ignored.
func (e *Equalizer) OnParameterChanged(index, raw int) {
	switch index {
	case ParamCutoff:
		if e.seeding.Load() {
			if e.control != nil {
				e.control.SetLabel(index, CutoffLabel(e.Cutoff()))
			}
			return
		}
		hz := CutoffFromRaw(raw)
		// Both orders track the cutoff, active or not.
		for i := range e.channels {
			cf := &e.channels[i]
			for o := range cf.lowPass {
				cf.lowPass[o].SetFrequency(hz)
				cf.highPass[o].SetFrequency(hz)
			}
		}
	case ParamBass:
		storeFloat(&e.gainLowPass, DBToGain(GainDBFromRaw(raw)))
	case ParamTreble:
		storeFloat(&e.gainHighPass, DBToGain(GainDBFromRaw(raw)))
	case ParamRolloff:
		e.order.Store(int32(OrderFromRaw(raw)))
	default:
		return
	}

	if e.control != nil {
		e.control.SetLabel(index, Label(index, raw))
	}
}

// ProcessFrame filters one frame: in and out hold one sample per channel.
func (e *Equalizer) ProcessFrame(in, out []float64) {
	order := Order(e.order.Load())
	gLP := loadFloat(&e.gainLowPass)
	gHP := loadFloat(&e.gainHighPass)
	for c := range e.channels {
		out[c] = e.channels[c].mix(order, gLP, gHP, in[c])
	}
}

// Render fills out with interleaved frames pulled from the source. It is the
// stream callback: no locks, no allocation. After Stop it writes silence and
// reports Complete.
func (e *Equalizer) Render(out []float64) Status {
	if e.stopped.Load() {
		clear(out)
		return Complete
	}

	order := Order(e.order.Load())
	gLP := loadFloat(&e.gainLowPass)
	gHP := loadFloat(&e.gainHighPass)

	n := len(e.channels)
	frames := len(out) / n
	for i := 0; i < frames; i++ {
		frame := out[i*n : i*n+n]
		for c := range frame {
			frame[c] = e.channels[c].mix(order, gLP, gHP, e.src.Sample(c))
		}
		e.src.Advance()
	}
	clear(out[frames*n:])
	return Continue
}

// Stop makes subsequent Render calls return Complete.
func (e *Equalizer) Stop() {
	e.stopped.Store(true)
}

func (e *Equalizer) SampleRate() float64 { return e.sampleRate }

func (e *Equalizer) Channels() int { return len(e.channels) }

// Cutoff is the cutoff the filters are currently tuned to.
func (e *Equalizer) Cutoff() float64 {
	return e.channels[0].lowPass[FirstOrder].Frequency()
}

func (e *Equalizer) BassGain() float64 { return loadFloat(&e.gainLowPass) }

func (e *Equalizer) TrebleGain() float64 { return loadFloat(&e.gainHighPass) }

func (e *Equalizer) Order() Order { return Order(e.order.Load()) }

// Response returns the equalizer's complex transfer function at freqHz for
// the current settings.
func (e *Equalizer) Response(freqHz float64) complex128 {
	order := e.Order()
	cf := &e.channels[0]
	lp := cf.lowPass[order].Coefficients().Response(freqHz, e.sampleRate)
	hp := cf.highPass[order].Coefficients().Response(freqHz, e.sampleRate)
	return complex(e.BassGain(), 0)*lp - complex(e.TrebleGain(), 0)*hp
}

func storeFloat(v *atomic.Uint64, f float64) {
	v.Store(math.Float64bits(f))
}

func loadFloat(v *atomic.Uint64) float64 {
	return math.Float64frombits(v.Load())
}
