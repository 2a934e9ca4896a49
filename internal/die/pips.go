// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package die

// Pip is the centre of one pip on a face, in face coordinates where
// both axes run from -1 to 1 and Y points up.
type Pip struct {
	X, Y float64
}

const pipOffset = 0.5

var pipLayouts = [FaceCount][]Pip{
	{{0, 0}},
	{{-pipOffset, pipOffset}, {pipOffset, -pipOffset}},
	{{-pipOffset, pipOffset}, {0, 0}, {pipOffset, -pipOffset}},
	{{-pipOffset, pipOffset}, {pipOffset, pipOffset}, {-pipOffset, -pipOffset}, {pipOffset, -pipOffset}},
	{{-pipOffset, pipOffset}, {pipOffset, pipOffset}, {0, 0}, {-pipOffset, -pipOffset}, {pipOffset, -pipOffset}},
	{{-pipOffset, pipOffset}, {pipOffset, pipOffset}, {-pipOffset, 0}, {pipOffset, 0}, {-pipOffset, -pipOffset}, {pipOffset, -pipOffset}},
}

// Pips returns the pip layout for f. The slice must not be modified.
func (f Face) Pips() []Pip {
	if !f.Valid() {
		return nil
	}
	return pipLayouts[f-1]
}
