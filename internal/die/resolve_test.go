package die

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/num/quat"

	"github.com/relabs-tech/rolling_die/internal/orientation"
)

func TestRestPosesSnapToThemselves(t *testing.T) {
	for _, f := range Faces() {
		got, dist := Nearest(f.Pose())
		if got != f {
			t.Fatalf("Nearest(rest pose of %v) = %v, want %v", f, got, f)
		}
		if dist != 0 {
			t.Fatalf("distance from face %v to its own rest pose = %v, want 0", f, dist)
		}
	}
}

func TestSnapIsIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		p := orientation.Pose{
			Roll:  (rng.Float64()*2 - 1) * 2 * math.Pi,
			Pitch: (rng.Float64()*2 - 1) * 2 * math.Pi,
			Yaw:   (rng.Float64()*2 - 1) * 2 * math.Pi,
		}
		f1, snapped := Snap(p)
		f2, again := Snap(snapped)
		if f1 != f2 || again != snapped {
			t.Fatalf("Snap not idempotent: %v/%v then %v/%v", f1, snapped, f2, again)
		}
	}
}

func TestNormalsMatchRestPoses(t *testing.T) {
	want := map[Face]orientation.Vec3{
		1: {Z: 1},
		2: {Z: -1},
		3: {X: -1},
		4: {X: 1},
		5: {Y: 1},
		6: {Y: -1},
	}
	for f, n := range want {
		if got := f.Normal(); got != n {
			t.Fatalf("Normal(%v) = %v, want %v", f, got, n)
		}
	}
}

// Snapping to face N and then inferring the top face must report N, or the
// die would display one face and announce another.
func TestPoseAndNormalTablesAgree(t *testing.T) {
	for _, f := range Faces() {
		if got := TopFace(f.Pose()); got != f {
			t.Fatalf("TopFace(rest pose of %v) = %v", f, got)
		}
		up := f.Pose().Rotate(f.Normal())
		if up.Dot(orientation.ViewAxis) < 1-1e-9 {
			t.Fatalf("face %v normal rotated by its rest pose = %v, want view axis", f, up)
		}
	}
}

func TestTopFaceIsRotationInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	randomQuat := func() quat.Number {
		axis := orientation.Vec3{X: rng.Float64()*2 - 1, Y: rng.Float64()*2 - 1, Z: rng.Float64()*2 - 1}
		return orientation.FromAxisAngle(axis, rng.Float64()*2*math.Pi)
	}
	for i := 0; i < 500; i++ {
		q := randomQuat()
		r := randomQuat()
		want := TopFaceFrom(q, orientation.ViewAxis)
		got := TopFaceFrom(quat.Mul(r, q), orientation.RotateVec(r, orientation.ViewAxis))
		if got != want {
			t.Fatalf("iteration %d: rotated frame gives %v, want %v", i, got, want)
		}
	}
}

func TestTopFaceTieGoesToLowerFace(t *testing.T) {
	// Equally between +Z (face 1) and -X (face 3).
	view, _ := orientation.Vec3{X: -1, Z: 1}.Normalize()
	if got := TopFaceFrom(quat.Number{Real: 1}, view); got != 1 {
		t.Fatalf("TopFaceFrom on a tie = %v, want 1", got)
	}
}

func TestNearestFace3RotatedNearlyHalfTurn(t *testing.T) {
	base := Face(3).Pose().Quaternion()
	// Face 3 rests after a pitch about Y; X and Z are orthogonal to it.
	for _, axis := range []orientation.Vec3{{X: 1}, {Z: 1}, {X: 1, Z: 1}} {
		r := orientation.FromAxisAngle(axis, 179*math.Pi/180)
		p := orientation.FromQuaternion(quat.Mul(base, r))

		got, gotDist := Nearest(p)

		want, wantDist := NoFace, math.Inf(1)
		for _, f := range Faces() {
			d := p.AngleTo(f.Pose())
			if d < wantDist {
				want, wantDist = f, d
			}
		}
		if got != want || math.Abs(gotDist-wantDist) > 1e-9 {
			t.Fatalf("axis %v: Nearest = %v (%v), brute force = %v (%v)", axis, got, gotDist, want, wantDist)
		}
	}
}

func TestNearestSmallPerturbationKeepsFace(t *testing.T) {
	for _, f := range Faces() {
		q := quat.Mul(f.Pose().Quaternion(), orientation.FromAxisAngle(orientation.Vec3{X: 1, Y: 2, Z: 3}, 0.2))
		if got, _ := Nearest(orientation.FromQuaternion(q)); got != f {
			t.Fatalf("perturbed rest pose of %v snapped to %v", f, got)
		}
	}
}

func TestInvalidFace(t *testing.T) {
	if NoFace.Valid() || Face(7).Valid() {
		t.Fatal("faces outside 1..6 reported valid")
	}
	if Face(9).Pips() != nil {
		t.Fatal("invalid face has pips")
	}
	if NoFace.String() != "none" {
		t.Fatalf("NoFace.String() = %q", NoFace.String())
	}
}

func TestPipCounts(t *testing.T) {
	for _, f := range Faces() {
		if got := len(f.Pips()); got != int(f) {
			t.Fatalf("face %v has %d pips", f, got)
		}
	}
}
