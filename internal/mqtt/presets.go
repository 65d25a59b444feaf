package mqtt

import "github.com/agusx1211/two-band-eq/internal/equalizer"

// CustomPreset names any panel state that matches no preset.
const CustomPreset = "Custom"

// Preset is a full set of raw panel values, indexed like equalizer.Params.
type Preset struct {
	Name   string
	Values [equalizer.NumParams]int
}

var Presets = []Preset{
	{"Flat", [equalizer.NumParams]int{500, 500, 500, 0}},
	{"Bass Boost", [equalizer.NumParams]int{500, 700, 500, 1}},
	{"Treble Boost", [equalizer.NumParams]int{800, 500, 700, 1}},
	{"Loudness", [equalizer.NumParams]int{600, 650, 625, 0}},
	{"Warm", [equalizer.NumParams]int{550, 600, 400, 0}},
	{"Bright", [equalizer.NumParams]int{700, 450, 625, 0}},
	{"Telephone", [equalizer.NumParams]int{850, 200, 700, 1}},
}

func FindPreset(name string) *Preset {
	for i := range Presets {
		if Presets[i].Name == name {
			return &Presets[i]
		}
	}
	return nil
}

// MatchPreset returns the name of the preset whose values equal values, or
// CustomPreset.
func MatchPreset(values []int) string {
	if len(values) != int(equalizer.NumParams) {
		return CustomPreset
	}
	for _, p := range Presets {
		match := true
		for i, v := range p.Values {
			if values[i] != v {
				match = false
				break
			}
		}
		if match {
			return p.Name
		}
	}
	return CustomPreset
}

// PresetNames lists every preset plus CustomPreset, in select order.
func PresetNames() []string {
	names := make([]string, 0, len(Presets)+1)
	for _, p := range Presets {
		names = append(names, p.Name)
	}
	return append(names, CustomPreset)
}
