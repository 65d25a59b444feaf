package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Config struct {
	SampleRate    int
	BufferSize    int
	InitialCutoff float64
	Volume        float64
	StateFile     string
	LogFile       string

	MQTTBroker   string
	MQTTPort     int
	MQTTUser     string
	MQTTPassword string
	MQTTTopic    string
}

// MQTTEnabled reports whether a broker was configured.
func (c *Config) MQTTEnabled() bool { return c.MQTTBroker != "" }

func Load() *Config {
	broker := getEnv("MQTT_BROKER", "")
	if broker != "" && !strings.HasPrefix(broker, "tcp://") && !strings.HasPrefix(broker, "ssl://") {
		broker = "tcp://" + broker
	}

	cfg := &Config{
		SampleRate:    getEnvInt("SAMPLE_RATE", 44100),
		BufferSize:    getEnvInt("BUFFER_SIZE", 1024),
		InitialCutoff: getEnvFloat("INITIAL_CUTOFF", 200),
		Volume:        getEnvFloat("VOLUME", 0.5),
		StateFile:     getEnv("STATE_FILE", defaultStateFile()),
		LogFile:       getEnv("LOG_FILE", "two-band-eq.log"),
		MQTTBroker:    broker,
		MQTTPort:      getEnvInt("MQTT_PORT", 1883),
		MQTTUser:      getEnv("MQTT_USER", ""),
		MQTTPassword:  getEnv("MQTT_PASSWORD", ""),
		MQTTTopic:     getEnv("MQTT_TOPIC", "homeassistant/two_band_eq"),
	}

	if cfg.MQTTEnabled() {
		log.Printf("Config: rate=%d, buffer=%d, MQTT=%s:%d, Topic=%s", cfg.SampleRate, cfg.BufferSize, cfg.MQTTBroker, cfg.MQTTPort, cfg.MQTTTopic)
	} else {
		log.Printf("Config: rate=%d, buffer=%d, MQTT disabled", cfg.SampleRate, cfg.BufferSize)
	}
	return cfg
}

func defaultStateFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "two-band-eq-state.json"
	}
	return filepath.Join(home, ".local", "state", "two-band-eq", "state.json")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
