// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import "math"

// zeroLength is the magnitude below which a vector has no usable direction.
const zeroLength = 1e-9

// Vec3 is a 3D vector in die-local or world space.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ViewAxis points from the die towards the viewer.
var ViewAxis = Vec3{X: 0, Y: 0, Z: 1}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize returns the unit vector along v. ok is false when v is too
// short to have a direction; the returned vector is then zero.
func (v Vec3) Normalize() (Vec3, bool) {
	n := v.Norm()
	if n < zeroLength || math.IsNaN(n) || math.IsInf(n, 0) {
		return Vec3{}, false
	}
	return v.Scale(1 / n), true
}
