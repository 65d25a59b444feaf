package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/agusx1211/two-band-eq/internal/audio"
	"github.com/agusx1211/two-band-eq/internal/equalizer"
	"github.com/agusx1211/two-band-eq/internal/mqtt"
	"github.com/agusx1211/two-band-eq/internal/panel"
	"github.com/agusx1211/two-band-eq/internal/source"
)

func newAttached(t *testing.T) (*equalizer.Equalizer, *panel.Panel) {
	t.Helper()
	loop, err := source.FromFloat(source.Tone(440, 48000, 0.5, 480, 1), 1)
	if err != nil {
		t.Fatal(err)
	}
	eq, err := equalizer.New(equalizer.Config{SampleRate: 48000}, loop)
	if err != nil {
		t.Fatal(err)
	}
	pnl := panel.New("test", equalizer.NumParams)
	if err := eq.Attach(pnl); err != nil {
		t.Fatal(err)
	}
	return eq, pnl
}

func TestBuildSource(t *testing.T) {
	tests := []struct {
		name     string
		cli      CLI
		channels int
		frames   int
		wantErr  bool
	}{
		{"pink mono", CLI{Color: "pink", Seconds: 0.5}, 1, 22050, false},
		{"white stereo", CLI{Color: "white", Seconds: 0.1}, 2, 4410, false},
		{"tone", CLI{Color: "pink", Tone: 1000, Seconds: 1}, 2, 44100, false},
		{"unknown colour", CLI{Color: "green", Seconds: 1}, 1, 0, true},
		{"too short", CLI{Color: "pink", Seconds: 0}, 1, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loop, err := buildSource(&tt.cli, 44100, tt.channels, 1)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if loop.Frames() != tt.frames || loop.Channels() != tt.channels {
				t.Errorf("frames=%d channels=%d", loop.Frames(), loop.Channels())
			}
		})
	}
}

func TestApplyCommand(t *testing.T) {
	eq, pnl := newAttached(t)
	gain := audio.NewGain(0.5, true)

	if out, err := applyCommand(pnl, gain, mqtt.Command{Action: mqtt.ActionSetVolume, Volume: 0.2}); !out || err != nil || gain.Volume() != 0.2 {
		t.Errorf("set_volume: out=%v err=%v volume=%v", out, err, gain.Volume())
	}
	if _, err := applyCommand(pnl, gain, mqtt.Command{Action: mqtt.ActionPowerOff}); err != nil || gain.Power() {
		t.Errorf("power off: err=%v power=%v", err, gain.Power())
	}

	if _, err := applyCommand(pnl, gain, mqtt.Command{Action: mqtt.ActionSetParam, Index: equalizer.ParamRolloff, Value: 1}); err != nil {
		t.Fatal(err)
	}
	if eq.Order() != equalizer.SecondOrder {
		t.Errorf("order = %v", eq.Order())
	}
	if _, err := applyCommand(pnl, gain, mqtt.Command{Action: mqtt.ActionSetParam, Index: equalizer.ParamBass, Value: 2000}); err == nil {
		t.Error("out-of-range value accepted")
	}

	if _, err := applyCommand(pnl, gain, mqtt.Command{Action: mqtt.ActionSetPreset, Preset: "Telephone"}); err != nil {
		t.Fatal(err)
	}
	want := mqtt.FindPreset("Telephone").Values
	for i, v := range pnl.Values() {
		if v != want[i] {
			t.Errorf("param %d = %d, want %d", i, v, want[i])
		}
	}
	if got, hz := eq.Cutoff(), equalizer.CutoffFromRaw(want[equalizer.ParamCutoff]); math.Abs(got-hz) > 1e-9 {
		t.Errorf("cutoff = %v, want %v", got, hz)
	}
	prm, _ := pnl.Param(equalizer.ParamBass)
	if prm.Label != "Bass gain: -14.4 dB" {
		t.Errorf("bass label = %q", prm.Label)
	}

	if _, err := applyCommand(pnl, gain, mqtt.Command{Action: mqtt.ActionSetPreset, Preset: "Nope"}); err == nil {
		t.Error("unknown preset accepted")
	}
	if _, err := applyCommand(pnl, gain, mqtt.Command{Action: "explode"}); err == nil {
		t.Error("unknown action accepted")
	}
}

func TestStateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	_, pnl := newAttached(t)
	gain := audio.NewGain(0.3, false)
	_ = pnl.SetValue(equalizer.ParamCutoff, 640)
	_ = pnl.SetValue(equalizer.ParamTreble, 900)
	saveState(pnl, gain, path)

	eq2, pnl2 := newAttached(t)
	gain2 := audio.NewGain(1, true)
	restoreState(pnl2, gain2, path)

	if got := pnl2.Values(); got[equalizer.ParamCutoff] != 640 || got[equalizer.ParamTreble] != 900 {
		t.Errorf("restored values = %v", got)
	}
	if gain2.Volume() != 0.3 || gain2.Power() {
		t.Errorf("restored volume=%v power=%v", gain2.Volume(), gain2.Power())
	}
	if want := equalizer.DBToGain(equalizer.GainDBFromRaw(900)); math.Abs(eq2.TrebleGain()-want) > 1e-12 {
		t.Errorf("treble gain = %v, want %v", eq2.TrebleGain(), want)
	}
}

func TestRestoreSkipsBadState(t *testing.T) {
	dir := t.TempDir()
	_, pnl := newAttached(t)
	gain := audio.NewGain(0.5, true)
	before := pnl.Values()

	restoreState(pnl, gain, filepath.Join(dir, "missing.json"))

	garbage := filepath.Join(dir, "garbage.json")
	if err := os.WriteFile(garbage, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	restoreState(pnl, gain, garbage)

	partial := filepath.Join(dir, "partial.json")
	if err := os.WriteFile(partial, []byte(`{"values":[5000,100],"volume":0.5,"power":true}`), 0644); err != nil {
		t.Fatal(err)
	}
	restoreState(pnl, gain, partial)

	got := pnl.Values()
	if got[equalizer.ParamCutoff] != before[equalizer.ParamCutoff] {
		t.Errorf("out-of-range cutoff restored: %d", got[equalizer.ParamCutoff])
	}
	if got[equalizer.ParamBass] != 100 {
		t.Errorf("bass = %d, want 100", got[equalizer.ParamBass])
	}
}
