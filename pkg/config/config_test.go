package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	if cfg.MQTTBroker != "localhost" || cfg.MQTTPort != 1883 {
		t.Errorf("Unexpected MQTT defaults: %s:%d", cfg.MQTTBroker, cfg.MQTTPort)
	}
	if cfg.Curve != "physics" {
		t.Errorf("Expected default curve physics, got %s", cfg.Curve)
	}
	if cfg.CCTMinK != 1700 || cfg.CCTMaxK != 5500 {
		t.Errorf("Unexpected CCT defaults: %d-%d", cfg.CCTMinK, cfg.CCTMaxK)
	}
	if cfg.IntensityMinPct != 5 || cfg.IntensityMaxPct != 100 {
		t.Errorf("Unexpected intensity defaults: %f-%f", cfg.IntensityMinPct, cfg.IntensityMaxPct)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config must validate: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LUMEN_MQTT_BROKER", "broker.local")
	t.Setenv("LUMEN_LATITUDE", "51.5072")
	t.Setenv("LUMEN_CURVE", "hann")
	t.Setenv("LUMEN_CCT_MAX_K", "6500")
	t.Setenv("LUMEN_ENABLE_HISTORY", "true")
	t.Setenv("LUMEN_LUX_CALIBRATION", "2700:8000,5600:10000")

	cfg := NewConfig()
	cfg.LoadFromEnv()

	if cfg.MQTTBroker != "broker.local" {
		t.Errorf("MQTT broker not overridden: %s", cfg.MQTTBroker)
	}
	if cfg.Latitude != 51.5072 {
		t.Errorf("Latitude not overridden: %f", cfg.Latitude)
	}
	if cfg.Curve != "hann" {
		t.Errorf("Curve not overridden: %s", cfg.Curve)
	}
	if cfg.CCTMaxK != 6500 {
		t.Errorf("CCT max not overridden: %d", cfg.CCTMaxK)
	}
	if !cfg.EnableHistory {
		t.Error("History not enabled")
	}
	if cfg.LuxCalibration != "2700:8000,5600:10000" {
		t.Errorf("Lux calibration not overridden: %s", cfg.LuxCalibration)
	}
}

func TestLoadFromEnv_IgnoresUnparseable(t *testing.T) {
	t.Setenv("LUMEN_MQTT_PORT", "not-a-port")
	t.Setenv("LUMEN_LATITUDE", "north")

	cfg := NewConfig()
	cfg.LoadFromEnv()

	if cfg.MQTTPort != 1883 {
		t.Errorf("Bad port overrode default: %d", cfg.MQTTPort)
	}
	if cfg.Latitude != 60.1695 {
		t.Errorf("Bad latitude overrode default: %f", cfg.Latitude)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("mqtt_broker: file.local\ncurve: cie_daylight\nintensity_min_pct: 12.5\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewConfig()
	if err := cfg.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.MQTTBroker != "file.local" {
		t.Errorf("Broker not loaded from file: %s", cfg.MQTTBroker)
	}
	if cfg.Curve != "cie_daylight" {
		t.Errorf("Curve not loaded from file: %s", cfg.Curve)
	}
	if cfg.IntensityMinPct != 12.5 {
		t.Errorf("Intensity min not loaded from file: %f", cfg.IntensityMinPct)
	}
	// Untouched keys keep their defaults
	if cfg.RedisPort != 6379 {
		t.Errorf("Redis port changed unexpectedly: %d", cfg.RedisPort)
	}
}

func TestLoadFromFile_MissingIsNotAnError(t *testing.T) {
	cfg := NewConfig()
	if err := cfg.LoadFromFile("/nonexistent/config.yaml"); err != nil {
		t.Errorf("Missing file must not error: %v", err)
	}
	if err := cfg.LoadFromFile(""); err != nil {
		t.Errorf("Empty path must not error: %v", err)
	}
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty broker", func(c *Config) { c.MQTTBroker = "" }},
		{"bad mqtt port", func(c *Config) { c.MQTTPort = 70000 }},
		{"bad latitude", func(c *Config) { c.Latitude = 91 }},
		{"bad longitude", func(c *Config) { c.Longitude = -181 }},
		{"cct min too low", func(c *Config) { c.CCTMinK = 900 }},
		{"cct max too high", func(c *Config) { c.CCTMaxK = 30000 }},
		{"negative intensity", func(c *Config) { c.IntensityMinPct = -1 }},
		{"zero update interval", func(c *Config) { c.UpdateIntervalSec = 0 }},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := NewConfig()
			c.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestAddressHelpers(t *testing.T) {
	cfg := NewConfig()
	cfg.MQTTBroker = "mqtt.local"
	cfg.MQTTPort = 8883
	cfg.RedisHost = "redis.local"
	cfg.RedisPort = 6380

	if got := cfg.MQTTAddress(); got != "tcp://mqtt.local:8883" {
		t.Errorf("MQTTAddress = %s", got)
	}
	if got := cfg.RedisAddress(); got != "redis.local:6380" {
		t.Errorf("RedisAddress = %s", got)
	}
}
