package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dice_config.txt")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
# broker on the Pi
MQTT_BROKER=tcp://pi.local:1883
TOPIC_RESULT = table/result
STEP_RADIANS=0.15
TICK_INTERVAL=33
SEED=42
SERIAL_PORT=/dev/ttyUSB0
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MQTTBroker != "tcp://pi.local:1883" {
		t.Fatalf("MQTTBroker = %q", cfg.MQTTBroker)
	}
	if cfg.TopicResult != "table/result" {
		t.Fatalf("TopicResult = %q", cfg.TopicResult)
	}
	if cfg.StepRadians != 0.15 || cfg.TickInterval != 33 || cfg.Seed != 42 {
		t.Fatalf("animation = %v/%d/%d, want 0.15/33/42", cfg.StepRadians, cfg.TickInterval, cfg.Seed)
	}
	if cfg.TopicPose != "dice/pose" {
		t.Fatalf("TopicPose = %q, want default", cfg.TopicPose)
	}
	if cfg.SerialBaudRate != 9600 {
		t.Fatalf("SerialBaudRate = %d, want default 9600", cfg.SerialBaudRate)
	}
}

func TestLoadRejectsBadLines(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing equals", "MQTT_BROKER\n", "invalid config line 1"},
		{"unknown key", "WHEELS=4\n", "unknown config key"},
		{"bad step", "STEP_RADIANS=fast\n", "invalid STEP_RADIANS"},
		{"negative step", "STEP_RADIANS=-1\n", "must be positive"},
		{"zero tick", "TICK_INTERVAL=0\n", "TICK_INTERVAL must be positive"},
		{"empty broker", "MQTT_BROKER=\n", "MQTT_BROKER is required"},
		{"zero display interval", "DISPLAY_UPDATE_INTERVAL=0\n", "DISPLAY_UPDATE_INTERVAL must be positive"},
		{"negative debounce", "BUTTON_DEBOUNCE=-5\n", "BUTTON_DEBOUNCE must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "MQTT_BROKER=tcp://file:1883\nTICK_INTERVAL=20\n")
	t.Setenv("DICE_MQTT_BROKER", "tcp://env:1883")
	t.Setenv("DICE_STEP_RADIANS", "0.5")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MQTTBroker != "tcp://env:1883" {
		t.Fatalf("MQTTBroker = %q, want env value", cfg.MQTTBroker)
	}
	if cfg.StepRadians != 0.5 {
		t.Fatalf("StepRadians = %v, want 0.5", cfg.StepRadians)
	}
	if cfg.TickInterval != 20 {
		t.Fatalf("TickInterval = %d, want file value 20", cfg.TickInterval)
	}
}

func TestEnvParseError(t *testing.T) {
	t.Setenv("DICE_TICK_INTERVAL", "soon")
	_, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestLoadOrDefaultWithoutFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.txt"))
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if cfg.StepRadians != 0.3 || cfg.TopicRollRequest != "dice/roll/request" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadOrDefaultKeepsParseErrors(t *testing.T) {
	if _, err := LoadOrDefault(writeConfig(t, "NOPE=1\n")); err == nil {
		t.Fatal("expected error for a broken file")
	}
}

func TestEnvOverridesAreValidated(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"DICE_DISPLAY_UPDATE_INTERVAL", "0", "DISPLAY_UPDATE_INTERVAL must be positive"},
		{"DICE_BUTTON_DEBOUNCE", "-1", "BUTTON_DEBOUNCE must not be negative"},
		{"DICE_TICK_INTERVAL", "-16", "TICK_INTERVAL must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load(writeConfig(t, "MQTT_BROKER=tcp://pi.local:1883\n"))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}
