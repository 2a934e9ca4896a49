// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// Pose is the canonical representation of the die's orientation.
//
// Angles are in radians and applied in XYZ order (roll about X, then
// pitch about Y, then yaw about Z), the same convention the renderers use.
type Pose struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// Add composes a per-axis angular delta into the pose.
func (p Pose) Add(d Vec3) Pose {
	return Pose{
		Roll:  p.Roll + d.X,
		Pitch: p.Pitch + d.Y,
		Yaw:   p.Yaw + d.Z,
	}
}

// Quaternion converts the Euler angles to a unit quaternion.
func (p Pose) Quaternion() quat.Number {
	c1, s1 := math.Cos(p.Roll/2), math.Sin(p.Roll/2)
	c2, s2 := math.Cos(p.Pitch/2), math.Sin(p.Pitch/2)
	c3, s3 := math.Cos(p.Yaw/2), math.Sin(p.Yaw/2)

	return quat.Number{
		Real: c1*c2*c3 - s1*s2*s3,
		Imag: s1*c2*c3 + c1*s2*s3,
		Jmag: c1*s2*c3 - s1*c2*s3,
		Kmag: c1*c2*s3 + s1*s2*c3,
	}
}

// AngleTo returns the angular distance in radians between two poses,
// in [0, π]. Euler differences are not a distance near the ±π wrap, so
// this always goes through the quaternions.
func (p Pose) AngleTo(o Pose) float64 {
	return AngleBetween(p.Quaternion(), o.Quaternion())
}

// Rotate rotates v from the die's local space into world space.
func (p Pose) Rotate(v Vec3) Vec3 {
	return RotateVec(p.Quaternion(), v)
}

// Degrees returns roll, pitch and yaw in degrees, for display.
func (p Pose) Degrees() (roll, pitch, yaw float64) {
	return p.Roll * 180.0 / math.Pi, p.Pitch * 180.0 / math.Pi, p.Yaw * 180.0 / math.Pi
}

// AngleBetween returns the rotation angle between two unit quaternions.
// It equals 2·acos(|a·b|), evaluated as 4·atan2(|a-b|, |a+b|) so that
// identical rotations give exactly zero. q and -q describe the same
// rotation.
func AngleBetween(a, b quat.Number) float64 {
	if a.Real*b.Real+a.Imag*b.Imag+a.Jmag*b.Jmag+a.Kmag*b.Kmag < 0 {
		b = quat.Scale(-1, b)
	}
	return 4 * math.Atan2(quat.Abs(quat.Sub(a, b)), quat.Abs(quat.Add(a, b)))
}

// RotateVec applies the unit quaternion q to v (q·v·q*).
func RotateVec(q quat.Number, v Vec3) Vec3 {
	r := quat.Mul(quat.Mul(q, quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}), quat.Conj(q))
	return Vec3{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// FromQuaternion converts a unit quaternion back to XYZ Euler angles.
func FromQuaternion(q quat.Number) Pose {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	m11 := 1 - 2*(y*y+z*z)
	m12 := 2 * (x*y - w*z)
	m13 := 2 * (x*z + w*y)
	m22 := 1 - 2*(x*x+z*z)
	m23 := 2 * (y*z - w*x)
	m32 := 2 * (y*z + w*x)
	m33 := 1 - 2*(x*x+y*y)

	p := Pose{Pitch: math.Asin(math.Max(-1, math.Min(1, m13)))}
	if math.Abs(m13) < 0.9999999 {
		p.Roll = math.Atan2(-m23, m33)
		p.Yaw = math.Atan2(-m12, m11)
	} else {
		// gimbal lock: fold all of the remaining rotation into roll
		p.Roll = math.Atan2(m32, m22)
	}
	return p
}

// FromAxisAngle builds the unit quaternion rotating by angle radians
// around axis. The axis is normalized first.
func FromAxisAngle(axis Vec3, angle float64) quat.Number {
	n, ok := axis.Normalize()
	if !ok {
		return quat.Number{Real: 1}
	}
	s := math.Sin(angle / 2)
	return quat.Number{Real: math.Cos(angle / 2), Imag: n.X * s, Jmag: n.Y * s, Kmag: n.Z * s}
}
