// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package die

import (
	"math"

	"gonum.org/v1/gonum/num/quat"

	"github.com/relabs-tech/rolling_die/internal/orientation"
)

// Nearest returns the face whose rest pose is closest to p in rotation
// space, and the angular distance to it. Ties go to the lower face number.
func Nearest(p orientation.Pose) (Face, float64) {
	q := p.Quaternion()
	best, bestDist := NoFace, math.Inf(1)
	for i := range faces {
		d := orientation.AngleBetween(q, faces[i].quat)
		if d < bestDist {
			best, bestDist = Face(i+1), d
		}
	}
	return best, bestDist
}

// Snap replaces p with the nearest rest pose, exactly.
func Snap(p orientation.Pose) (Face, orientation.Pose) {
	f, _ := Nearest(p)
	return f, f.Pose()
}

// TopFace returns the face pointing at the viewer for pose p.
func TopFace(p orientation.Pose) Face {
	return TopFaceFrom(p.Quaternion(), orientation.ViewAxis)
}

// TopFaceFrom returns the face whose normal, rotated by q, has the
// largest projection on view. Ties go to the lower face number.
func TopFaceFrom(q quat.Number, view orientation.Vec3) Face {
	best, bestDot := NoFace, math.Inf(-1)
	for i := range faces {
		d := orientation.RotateVec(q, faces[i].normal).Dot(view)
		if d > bestDot {
			best, bestDot = Face(i+1), d
		}
	}
	return best
}
