// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package event defines the JSON payloads exchanged over MQTT and the
// websocket stream.
package event

import (
	"time"

	"github.com/relabs-tech/rolling_die/internal/die"
	"github.com/relabs-tech/rolling_die/internal/orientation"
	"github.com/relabs-tech/rolling_die/internal/roll"
)

// RollRequest asks the roller to start a roll, or with Cancel set to drop
// the roll in flight. Axis and angle are always picked by the roller.
type RollRequest struct {
	Source string    `json:"source"` // "web", "button", "console", ...
	Cancel bool      `json:"cancel,omitempty"`
	Time   time.Time `json:"time"`
}

// Pose is one animation frame.
type Pose struct {
	Seq      uint64           `json:"seq"` // roll number since the roller started
	Pose     orientation.Pose `json:"pose"`
	Progress float64          `json:"progress"` // 0..1
	Time     time.Time        `json:"time"`
}

// Result is published once per resolved roll.
type Result struct {
	Seq      uint64           `json:"seq"`
	Face     die.Face         `json:"face"`
	Pose     orientation.Pose `json:"pose"`
	Ticks    int              `json:"ticks"`
	RolledAt time.Time        `json:"rolled_at"`
}

// State announces session lifecycle changes.
type State struct {
	Seq     uint64       `json:"seq"`
	State   roll.State   `json:"state"`
	Session roll.Session `json:"session"`
	Reason  string       `json:"reason,omitempty"` // set when a roll was cancelled
	Time    time.Time    `json:"time"`
}
