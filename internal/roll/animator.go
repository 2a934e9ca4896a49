// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package roll

import "github.com/relabs-tech/rolling_die/internal/orientation"

// Animator is the host-side state of one die: the live pose and the
// current session. It is not safe for concurrent use; hosts call it from
// their frame loop only.
type Animator struct {
	ctrl     *Controller
	pose     orientation.Pose
	session  Session
	onResult func(Result)
}

// NewAnimator returns an idle die at the rest pose of face 1. onResult,
// if non-nil, is called once per resolved roll.
func NewAnimator(ctrl *Controller, onResult func(Result)) *Animator {
	return &Animator{ctrl: ctrl, onResult: onResult}
}

// Roll starts a new roll. A roll already in flight is left alone and
// false is returned.
func (a *Animator) Roll() (Session, bool) {
	if a.session.State == Rolling {
		return a.session, false
	}
	a.session = a.ctrl.RequestRoll()
	return a.session, true
}

// Step advances the die by one frame. When the frame completes the roll,
// the result is reported, the session returns to idle and done is true.
func (a *Animator) Step(step float64) (res Result, done bool) {
	a.pose, a.session, res, done = Tick(a.pose, a.session, step)
	if !done {
		return Result{}, false
	}
	a.session = a.session.Consume()
	if a.onResult != nil {
		a.onResult(res)
	}
	return res, true
}

// Cancel drops a roll in flight. The pose stays where it is and no face
// is reported.
func (a *Animator) Cancel() bool {
	if a.session.State != Rolling {
		return false
	}
	a.session = a.session.Cancel()
	return true
}

func (a *Animator) Pose() orientation.Pose { return a.pose }

func (a *Animator) Session() Session { return a.session }

func (a *Animator) Rolling() bool { return a.session.State == Rolling }
