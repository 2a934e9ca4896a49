package orientation

import (
	"math"
	"testing"
)

const eps = 1e-9

func vecClose(a, b Vec3) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps && math.Abs(a.Z-b.Z) < eps
}

func TestQuaternionIdentity(t *testing.T) {
	q := Pose{}.Quaternion()
	if q.Real != 1 || q.Imag != 0 || q.Jmag != 0 || q.Kmag != 0 {
		t.Fatalf("identity quaternion = %v, want 1+0i+0j+0k", q)
	}
}

func TestRotateSingleAxis(t *testing.T) {
	tests := []struct {
		name string
		pose Pose
		in   Vec3
		want Vec3
	}{
		{"yaw quarter turn", Pose{Yaw: math.Pi / 2}, Vec3{X: 1}, Vec3{Y: 1}},
		{"pitch quarter turn", Pose{Pitch: math.Pi / 2}, Vec3{Z: 1}, Vec3{X: 1}},
		{"roll quarter turn", Pose{Roll: math.Pi / 2}, Vec3{Y: 1}, Vec3{Z: 1}},
		{"pitch half turn", Pose{Pitch: math.Pi}, Vec3{Z: 1}, Vec3{Z: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.pose.Rotate(tt.in)
			if !vecClose(got, tt.want) {
				t.Fatalf("Rotate(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRotateAppliesXThenYThenZ(t *testing.T) {
	// Intrinsic XYZ: the matrix is Rx·Ry, so Ry acts on the vector first.
	// +Y is unchanged by Ry, then Rx maps +Y to +Z.
	p := Pose{Roll: math.Pi / 2, Pitch: math.Pi / 2}
	got := p.Rotate(Vec3{Y: 1})
	if !vecClose(got, Vec3{Z: 1}) {
		t.Fatalf("Rotate = %v, want (0,0,1)", got)
	}
}

func TestAngleToHandlesWraparound(t *testing.T) {
	a := Pose{Yaw: math.Pi - 0.01}
	b := Pose{Yaw: -math.Pi + 0.01}
	if got := a.AngleTo(b); math.Abs(got-0.02) > 1e-9 {
		t.Fatalf("AngleTo = %v, want 0.02", got)
	}
}

func TestAngleToIsSymmetricAndZeroOnSelf(t *testing.T) {
	a := Pose{Roll: 0.3, Pitch: -1.2, Yaw: 2.5}
	b := Pose{Roll: -2.1, Pitch: 0.4, Yaw: 0.9}
	if d := a.AngleTo(a); d > 1e-6 {
		t.Fatalf("AngleTo(self) = %v, want 0", d)
	}
	if math.Abs(a.AngleTo(b)-b.AngleTo(a)) > eps {
		t.Fatalf("AngleTo not symmetric: %v vs %v", a.AngleTo(b), b.AngleTo(a))
	}
}

func TestAngleToFullTurnIsZero(t *testing.T) {
	a := Pose{Pitch: 0.5}
	b := Pose{Pitch: 0.5 + 2*math.Pi}
	if d := a.AngleTo(b); d > 1e-6 {
		t.Fatalf("AngleTo across a full turn = %v, want 0", d)
	}
}

func TestFromAxisAngleMatchesPose(t *testing.T) {
	q := FromAxisAngle(Vec3{Y: 2}, 0.7)
	p := Pose{Pitch: 0.7}.Quaternion()
	if AngleBetween(q, p) > 1e-6 {
		t.Fatalf("FromAxisAngle differs from Pose by %v rad", AngleBetween(q, p))
	}
}

func TestFromAxisAngleZeroAxisIsIdentity(t *testing.T) {
	q := FromAxisAngle(Vec3{}, 1)
	if q.Real != 1 {
		t.Fatalf("FromAxisAngle(zero) = %v, want identity", q)
	}
}

func TestNormalize(t *testing.T) {
	v, ok := Vec3{X: 3, Y: 4}.Normalize()
	if !ok {
		t.Fatal("Normalize reported a zero vector")
	}
	if math.Abs(v.Norm()-1) > eps || math.Abs(v.X-0.6) > eps || math.Abs(v.Y-0.8) > eps {
		t.Fatalf("Normalize = %v, want (0.6,0.8,0)", v)
	}
	if _, ok := (Vec3{X: 1e-12}).Normalize(); ok {
		t.Fatal("Normalize accepted a near-zero vector")
	}
}

func TestDegrees(t *testing.T) {
	r, p, y := Pose{Roll: math.Pi, Pitch: math.Pi / 2, Yaw: -math.Pi / 4}.Degrees()
	if math.Abs(r-180) > eps || math.Abs(p-90) > eps || math.Abs(y+45) > eps {
		t.Fatalf("Degrees = %v %v %v, want 180 90 -45", r, p, y)
	}
}

func TestFromQuaternionRoundTrip(t *testing.T) {
	poses := []Pose{
		{},
		{Roll: 0.4, Pitch: -0.9, Yaw: 2.2},
		{Roll: -2.8, Pitch: 1.1, Yaw: -0.3},
		{Pitch: math.Pi / 2},
	}
	for _, p := range poses {
		got := FromQuaternion(p.Quaternion())
		if d := got.AngleTo(p); d > 1e-6 {
			t.Fatalf("FromQuaternion(%v) = %v, off by %v rad", p, got, d)
		}
	}
}
