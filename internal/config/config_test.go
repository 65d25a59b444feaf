package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"SAMPLE_RATE", "BUFFER_SIZE", "INITIAL_CUTOFF", "VOLUME", "LOG_FILE", "MQTT_BROKER", "MQTT_PORT", "MQTT_TOPIC"} {
		t.Setenv(k, "")
	}
	t.Setenv("STATE_FILE", "/tmp/state.json")

	cfg := Load()
	if cfg.SampleRate != 44100 || cfg.BufferSize != 1024 {
		t.Errorf("rate=%d buffer=%d", cfg.SampleRate, cfg.BufferSize)
	}
	if cfg.InitialCutoff != 200 || cfg.Volume != 0.5 {
		t.Errorf("cutoff=%v volume=%v", cfg.InitialCutoff, cfg.Volume)
	}
	if cfg.StateFile != "/tmp/state.json" || cfg.LogFile != "two-band-eq.log" {
		t.Errorf("state=%q log=%q", cfg.StateFile, cfg.LogFile)
	}
	if cfg.MQTTEnabled() {
		t.Errorf("MQTT enabled with no broker: %q", cfg.MQTTBroker)
	}
	if cfg.MQTTPort != 1883 || cfg.MQTTTopic != "homeassistant/two_band_eq" {
		t.Errorf("port=%d topic=%q", cfg.MQTTPort, cfg.MQTTTopic)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SAMPLE_RATE", "48000")
	t.Setenv("BUFFER_SIZE", "not-a-number")
	t.Setenv("INITIAL_CUTOFF", "350.5")
	t.Setenv("VOLUME", "0.8")

	cfg := Load()
	if cfg.SampleRate != 48000 {
		t.Errorf("SampleRate = %d", cfg.SampleRate)
	}
	if cfg.BufferSize != 1024 {
		t.Errorf("BufferSize = %d, want default for unparsable value", cfg.BufferSize)
	}
	if cfg.InitialCutoff != 350.5 || cfg.Volume != 0.8 {
		t.Errorf("cutoff=%v volume=%v", cfg.InitialCutoff, cfg.Volume)
	}
}

func TestBrokerScheme(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"localhost", "tcp://localhost"},
		{"tcp://broker", "tcp://broker"},
		{"ssl://broker", "ssl://broker"},
	}
	for _, tt := range tests {
		t.Setenv("MQTT_BROKER", tt.in)
		cfg := Load()
		if cfg.MQTTBroker != tt.want || !cfg.MQTTEnabled() {
			t.Errorf("MQTT_BROKER=%q: broker = %q", tt.in, cfg.MQTTBroker)
		}
	}
}
