package main

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"github.com/agusx1211/two-band-eq/internal/audio"
	"github.com/agusx1211/two-band-eq/internal/mqtt"
	"github.com/agusx1211/two-band-eq/internal/panel"
)

type PersistedState struct {
	Values []int   `json:"values"`
	Preset string  `json:"preset"`
	Volume float64 `json:"volume"`
	Power  bool    `json:"power"`
}

func saveState(pnl *panel.Panel, gain *audio.Gain, path string) {
	values := pnl.Values()
	state := PersistedState{
		Values: values,
		Preset: mqtt.MatchPreset(values),
		Volume: gain.Volume(),
		Power:  gain.Power(),
	}

	data, err := json.Marshal(state)
	if err != nil {
		log.Printf("Failed to marshal state: %v", err)
		return
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.Printf("Failed to create state directory: %v", err)
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Printf("Failed to save state: %v", err)
	}
}

// restoreState replays saved values through the panel so the equalizer and
// labels follow. Values the panel rejects are skipped.
func restoreState(pnl *panel.Panel, gain *audio.Gain, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	var state PersistedState
	if err := json.Unmarshal(data, &state); err != nil {
		log.Printf("Failed to parse saved state: %v", err)
		return
	}

	for i, v := range state.Values {
		if err := pnl.SetValue(i, v); err != nil {
			log.Printf("Skipping saved value: %v", err)
		}
	}
	gain.SetVolume(state.Volume)
	gain.SetPower(state.Power)

	log.Printf("Restored state: power=%v, volume=%.0f%%, preset=%s",
		state.Power, state.Volume*100, mqtt.MatchPreset(pnl.Values()))
}
