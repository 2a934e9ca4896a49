// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package roll drives a single die roll: the controller picks a random
// axis and total angle, Tick advances the pose frame by frame and, on the
// frame that completes the roll, snaps to a rest pose and reports the face.
package roll

import (
	"fmt"

	"github.com/relabs-tech/rolling_die/internal/die"
	"github.com/relabs-tech/rolling_die/internal/orientation"
)

// State is the lifecycle of a roll session.
type State int

const (
	Idle State = iota
	Rolling
	Resolved
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Rolling:
		return "rolling"
	case Resolved:
		return "resolved"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(b []byte) error {
	switch string(b) {
	case "idle":
		*s = Idle
	case "rolling":
		*s = Rolling
	case "resolved":
		*s = Resolved
	default:
		return fmt.Errorf("unknown roll state %q", string(b))
	}
	return nil
}

// Session is one roll from request to resolution.
type Session struct {
	Axis             orientation.Vec3 `json:"axis"`
	TargetAngle      float64          `json:"target_angle"`
	AccumulatedAngle float64          `json:"accumulated_angle"`
	State            State            `json:"state"`
}

// Result is what a resolved roll reports.
type Result struct {
	Face die.Face         `json:"face"`
	Pose orientation.Pose `json:"pose"`
}

// Progress returns how far the roll has come, in [0, 1].
func (s Session) Progress() float64 {
	if s.State == Resolved {
		return 1
	}
	if s.State != Rolling || s.TargetAngle <= 0 {
		return 0
	}
	if p := s.AccumulatedAngle / s.TargetAngle; p < 1 {
		return p
	}
	return 1
}

// Cancel discards a rolling session. No face is produced.
func (s Session) Cancel() Session {
	if s.State != Rolling {
		return s
	}
	return Session{}
}

// Consume returns a resolved session to idle once its result was reported.
func (s Session) Consume() Session {
	if s.State != Resolved {
		return s
	}
	return Session{}
}
