// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package roll

import (
	"math"
	"math/rand"
	"time"

	"github.com/relabs-tech/rolling_die/internal/orientation"
)

const (
	// DefaultStep is the angular increment per frame, in radians.
	DefaultStep = 0.3

	// MaxTargetAngle bounds the total rotation of one roll (two full turns).
	MaxTargetAngle = 4 * math.Pi

	maxAxisAttempts = 8
)

// DefaultAxis replaces a sampled axis that has no usable direction.
var DefaultAxis = orientation.Vec3{X: 0, Y: 1, Z: 0}

// Float64Source yields uniform values in [0, 1). *rand.Rand satisfies it.
type Float64Source interface {
	Float64() float64
}

// Controller supplies the randomness of each roll.
type Controller struct {
	rng Float64Source
}

func NewController(src Float64Source) *Controller {
	return &Controller{rng: src}
}

// NewSeededController returns a controller whose rolls are reproducible
// for a given seed.
func NewSeededController(seed int64) *Controller {
	return NewController(rand.New(rand.NewSource(seed)))
}

// RequestRoll starts a new session with a random unit axis and a target
// angle in (0, 4π].
func (c *Controller) RequestRoll() Session {
	return Session{
		Axis:        c.sampleAxis(),
		TargetAngle: MaxTargetAngle * (1 - c.rng.Float64()),
		State:       Rolling,
	}
}

func (c *Controller) sampleAxis() orientation.Vec3 {
	for i := 0; i < maxAxisAttempts; i++ {
		v := orientation.Vec3{
			X: 2*c.rng.Float64() - 1,
			Y: 2*c.rng.Float64() - 1,
			Z: 2*c.rng.Float64() - 1,
		}
		if n, ok := v.Normalize(); ok {
			return n
		}
	}
	return DefaultAxis
}

// StepFor converts an angular speed in rad/s into the step for a frame
// that took elapsed. Hosts with a variable frame rate use it instead of
// DefaultStep.
func StepFor(speed float64, elapsed time.Duration) float64 {
	if speed <= 0 || elapsed <= 0 {
		return 0
	}
	return speed * elapsed.Seconds()
}
