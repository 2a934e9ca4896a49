// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package roll

import (
	"github.com/relabs-tech/rolling_die/internal/die"
	"github.com/relabs-tech/rolling_die/internal/orientation"
)

// Tick advances a rolling session by one frame of step radians.
//
// The step is added to each Euler angle scaled by the session axis, and to
// the accumulated angle. On the frame where the accumulated angle reaches
// the target the session becomes Resolved, the pose is snapped to the
// nearest rest pose and the face pointing at the viewer is returned with
// done set. Sessions that are not rolling, and non-positive steps, leave
// everything unchanged.
func Tick(p orientation.Pose, s Session, step float64) (orientation.Pose, Session, Result, bool) {
	if s.State != Rolling || step <= 0 {
		return p, s, Result{}, false
	}

	p = p.Add(s.Axis.Scale(step))
	s.AccumulatedAngle += step
	if s.AccumulatedAngle < s.TargetAngle {
		return p, s, Result{}, false
	}

	s.State = Resolved
	_, p = die.Snap(p)
	return p, s, Result{Face: die.TopFace(p), Pose: p}, true
}
