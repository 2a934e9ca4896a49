// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package die holds the geometry of the six-sided die: the rest pose of
// every face, the outward normals, nearest-pose snapping and top-face
// inference. Everything here is a pure function of its arguments.
package die

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/num/quat"

	"github.com/relabs-tech/rolling_die/internal/orientation"
)

// Face is a face number in 1..6.
type Face int

const (
	NoFace    Face = 0
	FaceCount      = 6
)

// restPoses is the single source of truth for the face numbering: entry
// i is the pose that presents face i+1 to the viewer. Normals are
// derived from it in init.
var restPoses = [FaceCount]orientation.Pose{
	{},
	{Pitch: math.Pi},
	{Pitch: math.Pi / 2},
	{Pitch: -math.Pi / 2},
	{Roll: math.Pi / 2},
	{Roll: -math.Pi / 2},
}

type faceDef struct {
	pose   orientation.Pose
	quat   quat.Number
	normal orientation.Vec3
}

var faces [FaceCount]faceDef

func init() {
	for i, p := range restPoses {
		q := p.Quaternion()
		faces[i] = faceDef{
			pose:   p,
			quat:   q,
			normal: outwardNormal(q),
		}
	}
}

// outwardNormal is the local direction that the rest pose q turns onto
// the view axis. Rest poses are quarter turns, so the result is an exact
// unit axis once rounding noise is removed.
func outwardNormal(q quat.Number) orientation.Vec3 {
	v := orientation.RotateVec(quat.Conj(q), orientation.ViewAxis)
	return orientation.Vec3{X: math.Round(v.X), Y: math.Round(v.Y), Z: math.Round(v.Z)}
}

// Faces returns all faces in numbering order.
func Faces() []Face {
	out := make([]Face, 0, FaceCount)
	for f := Face(1); f <= FaceCount; f++ {
		out = append(out, f)
	}
	return out
}

func (f Face) Valid() bool {
	return f >= 1 && f <= FaceCount
}

// Pose returns the rest pose that shows f to the viewer.
func (f Face) Pose() orientation.Pose {
	if !f.Valid() {
		return orientation.Pose{}
	}
	return faces[f-1].pose
}

// Normal returns the outward normal of f in die-local space.
func (f Face) Normal() orientation.Vec3 {
	if !f.Valid() {
		return orientation.Vec3{}
	}
	return faces[f-1].normal
}

func (f Face) String() string {
	if !f.Valid() {
		return "none"
	}
	return fmt.Sprintf("%d", int(f))
}
