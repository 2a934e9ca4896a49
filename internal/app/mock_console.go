// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"io"
	"time"

	"github.com/relabs-tech/rolling_die/internal/random"
	"github.com/relabs-tech/rolling_die/internal/roll"
)

// rollLocally runs n complete rolls without a broker, printing every
// frame and result to w. A zero interval runs as fast as possible.
func rollLocally(w io.Writer, ctrl *roll.Controller, step float64, interval time.Duration, n int) []roll.Result {
	var results []roll.Result
	anim := roll.NewAnimator(ctrl, func(res roll.Result) {
		results = append(results, res)
	})

	for i := 1; i <= n; i++ {
		s, _ := anim.Roll()
		fmt.Fprintf(w, "roll %d: axis=(%.3f, %.3f, %.3f) target=%.3f rad\n",
			i, s.Axis.X, s.Axis.Y, s.Axis.Z, s.TargetAngle)

		for anim.Rolling() {
			res, done := anim.Step(step)
			if done {
				fmt.Fprintf(w, "roll %d: face %v\n", i, res.Face)
				break
			}
			r, p, y := anim.Pose().Degrees()
			fmt.Fprintf(w,
				"ROLL=%8.2f  PITCH=%8.2f  YAW=%8.2f\n",
				r, p, y,
			)
			if interval > 0 {
				time.Sleep(interval)
			}
		}
	}
	return results
}

// RunMockConsole rolls the die n times in-process.
func RunMockConsole(n int, seed int64, step float64, interval time.Duration, w io.Writer) error {
	seed, err := random.Resolve(seed)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "seed %d\n", seed)
	rollLocally(w, roll.NewSeededController(seed), step, interval, n)
	return nil
}
