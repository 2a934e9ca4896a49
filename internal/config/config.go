// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration values.
//
// Values come from a KEY=VALUE file and may then be overridden by DICE_*
// environment variables.
type Config struct {
	// MQTT
	MQTTBroker          string `env:"DICE_MQTT_BROKER"`
	MQTTClientIDRoller  string `env:"DICE_MQTT_CLIENT_ID_ROLLER"`
	MQTTClientIDConsole string `env:"DICE_MQTT_CLIENT_ID_CONSOLE"`
	MQTTClientIDWeb     string `env:"DICE_MQTT_CLIENT_ID_WEB"`
	MQTTClientIDDisplay string `env:"DICE_MQTT_CLIENT_ID_DISPLAY"`
	MQTTClientIDButton  string `env:"DICE_MQTT_CLIENT_ID_BUTTON"`

	// Topics
	TopicRollRequest string `env:"DICE_TOPIC_ROLL_REQUEST"`
	TopicPose        string `env:"DICE_TOPIC_POSE"`
	TopicResult      string `env:"DICE_TOPIC_RESULT"`
	TopicState       string `env:"DICE_TOPIC_STATE"`

	// Animation
	StepRadians  float64 `env:"DICE_STEP_RADIANS"`  // rotation per tick
	TickInterval int     `env:"DICE_TICK_INTERVAL"` // milliseconds
	Seed         int64   `env:"DICE_SEED"`          // 0 picks a random seed

	// Web Server
	WebServerPort int    `env:"DICE_WEB_SERVER_PORT"`
	WebStaticDir  string `env:"DICE_WEB_STATIC_DIR"`

	// History
	HistoryDBPath string `env:"DICE_HISTORY_DB_PATH"` // empty disables history

	// Display
	DisplayI2CBus         string `env:"DICE_DISPLAY_I2C_BUS"`
	DisplayUpdateInterval int    `env:"DICE_DISPLAY_UPDATE_INTERVAL"` // milliseconds

	// Serial annunciator
	SerialPort     string `env:"DICE_SERIAL_PORT"` // empty disables it
	SerialBaudRate int    `env:"DICE_SERIAL_BAUD_RATE"`

	// Roll button
	ButtonGPIOPin  string `env:"DICE_BUTTON_GPIO_PIN"`
	ButtonDebounce int    `env:"DICE_BUTTON_DEBOUNCE"` // milliseconds
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		MQTTBroker:          "tcp://localhost:1883",
		MQTTClientIDRoller:  "dice-roller",
		MQTTClientIDConsole: "dice-console-subscriber",
		MQTTClientIDWeb:     "dice-web-subscriber",
		MQTTClientIDDisplay: "dice-display",
		MQTTClientIDButton:  "dice-button",

		TopicRollRequest: "dice/roll/request",
		TopicPose:        "dice/pose",
		TopicResult:      "dice/result",
		TopicState:       "dice/state",

		StepRadians:  0.3,
		TickInterval: 16,

		WebServerPort: 8080,
		WebStaticDir:  "web",

		DisplayUpdateInterval: 100,

		SerialBaudRate: 9600,

		ButtonGPIOPin:  "GPIO17",
		ButtonDebounce: 200,
	}
}

// Package-level singleton: InitGlobal sets it once, Get reads it under a
// read lock.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file on top of Default, applies environment
// overrides and validates the result.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := Default()
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault behaves like Load, but falls back to Default (plus
// environment overrides) when the file does not exist.
func LoadOrDefault(configPath string) (*Config, error) {
	cfg, err := Load(configPath)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	cfg = Default()
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields whose DICE_* environment variable is set.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_ROLLER":
		c.MQTTClientIDRoller = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value
	case "MQTT_CLIENT_ID_BUTTON":
		c.MQTTClientIDButton = value

	// Topics
	case "TOPIC_ROLL_REQUEST":
		c.TopicRollRequest = value
	case "TOPIC_POSE":
		c.TopicPose = value
	case "TOPIC_RESULT":
		c.TopicResult = value
	case "TOPIC_STATE":
		c.TopicState = value

	// Animation
	case "STEP_RADIANS":
		step, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid STEP_RADIANS %q: %w", value, err)
		}
		if step <= 0 {
			return fmt.Errorf("STEP_RADIANS must be positive, got %v", step)
		}
		c.StepRadians = step
	case "TICK_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid TICK_INTERVAL %q: %w", value, err)
		}
		c.TickInterval = interval
	case "SEED":
		seed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid SEED %q: %w", value, err)
		}
		c.Seed = seed

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port
	case "WEB_STATIC_DIR":
		c.WebStaticDir = value

	// History
	case "HISTORY_DB_PATH":
		c.HistoryDBPath = value

	// Display
	case "DISPLAY_I2C_BUS":
		c.DisplayI2CBus = value
	case "DISPLAY_UPDATE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_UPDATE_INTERVAL %q: %w", value, err)
		}
		c.DisplayUpdateInterval = interval

	// Serial annunciator
	case "SERIAL_PORT":
		c.SerialPort = value
	case "SERIAL_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SERIAL_BAUD_RATE %q: %w", value, err)
		}
		c.SerialBaudRate = rate

	// Roll button
	case "BUTTON_GPIO_PIN":
		c.ButtonGPIOPin = value
	case "BUTTON_DEBOUNCE":
		ms, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid BUTTON_DEBOUNCE %q: %w", value, err)
		}
		c.ButtonDebounce = ms

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.TopicRollRequest == "" || c.TopicPose == "" || c.TopicResult == "" || c.TopicState == "" {
		return fmt.Errorf("TOPIC_ROLL_REQUEST, TOPIC_POSE, TOPIC_RESULT and TOPIC_STATE are required")
	}
	if c.StepRadians <= 0 {
		return fmt.Errorf("STEP_RADIANS must be positive")
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("TICK_INTERVAL must be positive")
	}
	if c.DisplayUpdateInterval <= 0 {
		return fmt.Errorf("DISPLAY_UPDATE_INTERVAL must be positive")
	}
	if c.ButtonDebounce < 0 {
		return fmt.Errorf("BUTTON_DEBOUNCE must not be negative")
	}
	if c.SerialPort != "" && c.SerialBaudRate <= 0 {
		return fmt.Errorf("SERIAL_BAUD_RATE is required when SERIAL_PORT is set")
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
