package mqtt

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/agusx1211/two-band-eq/internal/equalizer"
)

const (
	ActionSetParam  = "set_param"
	ActionSetPreset = "set_preset"
	ActionSetVolume = "set_volume"
	ActionPowerOn   = "set_power_on"
	ActionPowerOff  = "set_power_off"
)

var ErrBadPayload = errors.New("mqtt: bad payload")

// Command is a request received over MQTT, applied by the host loop.
type Command struct {
	Action string
	Index  int
	Value  int
	Volume float64
	Preset string
}

// ParseParam turns a payload for parameter index into a raw panel value.
// The rolloff parameter also accepts its option labels.
func ParseParam(index int, payload string) (int, error) {
	payload = strings.TrimSpace(payload)
	if index == equalizer.ParamRolloff {
		switch payload {
		case equalizer.FirstOrder.String():
			return 0, nil
		case equalizer.SecondOrder.String():
			return 1, nil
		}
	}
	v, err := strconv.ParseFloat(payload, 64)
	if err != nil || math.IsNaN(v) || math.Abs(v) > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %q", ErrBadPayload, payload)
	}
	return int(math.Round(v)), nil
}

// ParseVolume reads a 0..100 percentage as a 0..1 volume.
func ParseVolume(payload string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(payload), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadPayload, payload)
	}
	return v / 100.0, nil
}

func ParsePower(payload string) string {
	if strings.TrimSpace(payload) == "ON" {
		return ActionPowerOn
	}
	return ActionPowerOff
}
