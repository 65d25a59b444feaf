package equalizer

import (
	"fmt"
	"math"
)

// Parameter indices as exposed on the control panel.
const (
	ParamCutoff = iota
	ParamBass
	ParamTreble
	ParamRolloff
	NumParams
)

// ParamSpec describes one panel parameter.
type ParamSpec struct {
	Index   int
	Key     string
	Min     int
	Max     int
	Default int
}

var Params = [NumParams]ParamSpec{
	{Index: ParamCutoff, Key: "cutoff", Min: 0, Max: 1000, Default: 500},
	{Index: ParamBass, Key: "bass", Min: 0, Max: 1000, Default: 500},
	{Index: ParamTreble, Key: "treble", Min: 0, Max: 1000, Default: 500},
	{Index: ParamRolloff, Key: "rolloff", Min: 0, Max: 1, Default: 0},
}

// Order is the rolloff order shared by both bands.
type Order int32

const (
	FirstOrder Order = iota
	SecondOrder
)

func (o Order) String() string {
	if o == SecondOrder {
		return "12 dB/oct"
	}
	return "6 dB/oct"
}

// OrderFromRaw maps the rolloff control: 0 is first order, anything else second.
func OrderFromRaw(raw int) Order {
	if raw == 0 {
		return FirstOrder
	}
	return SecondOrder
}

// CutoffFromRaw maps 0..1000 onto 20..2000 Hz on a log scale.
func CutoffFromRaw(raw int) float64 {
	return 20 * math.Pow(10, 0.002*float64(raw))
}

// RawFromCutoff is the inverse of CutoffFromRaw, rounded and clamped to 0..1000.
func RawFromCutoff(hz float64) int {
	if hz <= 0 || math.IsNaN(hz) {
		return 0
	}
	raw := math.Round(500 * math.Log10(hz/20))
	return int(math.Max(0, math.Min(1000, raw)))
}

// GainDBFromRaw maps 0..1000 linearly onto -24..+24 dB.
func GainDBFromRaw(raw int) float64 {
	return -24 + float64(raw)*48/1000
}

func DBToGain(db float64) float64 {
	return math.Pow(10, db/20)
}

func CutoffLabel(hz float64) string {
	return fmt.Sprintf("Cutoff frequency: %.1f Hz", hz)
}

// Label renders the panel text for parameter index at raw value.
func Label(index, raw int) string {
	switch index {
	case ParamCutoff:
		return CutoffLabel(CutoffFromRaw(raw))
	case ParamBass:
		return fmt.Sprintf("Bass gain: %.1f dB", GainDBFromRaw(raw))
	case ParamTreble:
		return fmt.Sprintf("Treble gain: %.1f dB", GainDBFromRaw(raw))
	case ParamRolloff:
		return "Filter rolloff: " + OrderFromRaw(raw).String()
	default:
		return ""
	}
}
