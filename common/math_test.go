package common

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestEulerRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		x, y, z float64
	}{
		{"Identity", 0, 0, 0},
		{"Yaw only", 0, 0, 1.2},
		{"Pitch only", -0.7, 0, 0},
		{"Negative yaw", 0, 0, -2.5},
		{"Mixed", 0.4, 0.1, -1.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := FromEuler(tt.x, tt.y, tt.z)
			got := m.EulerAngles()
			want := Vector3{tt.x, tt.y, tt.z}
			if !got.NearlyEqual(want, 1e-9) {
				t.Errorf("Expected euler %+v, got %+v", want, got)
			}
		})
	}
}

func TestLookAtForward(t *testing.T) {
	tests := []struct {
		name string
		dir  Vector3
	}{
		{"Forward", Vector3{0, 1, 0}},
		{"Right", Vector3{1, 0, 0}},
		{"Up and ahead", Vector3{0, 1, 1}},
		{"Arbitrary", Vector3{-3, 2, 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := LookAt(tt.dir)
			got := m.Forward()
			want := tt.dir.Normalize()
			if !got.NearlyEqual(want, 1e-9) {
				t.Errorf("Expected forward %+v, got %+v", want, got)
			}
		})
	}

	if LookAt(Vector3{}) != Identity33() {
		t.Errorf("Expected zero direction to give identity")
	}
}

func TestYawNormalizationRoundTrip(t *testing.T) {
	v := Vector3{3, 4, 5}
	yaw := 0.8
	back := AxisZ(-yaw).Transform(AxisZ(yaw).Transform(v))
	if !back.NearlyEqual(v, eps) {
		t.Errorf("Expected %+v after round trip, got %+v", v, back)
	}
}

func TestRenormalizeKeepsOrthonormal(t *testing.T) {
	m := FromEuler(0.3, 0.2, 1.0)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] *= 1.001
		}
	}
	m = m.Renormalize()
	p := m.Multiply(m.Transpose())
	if !p.NearlyEqual(Identity33(), 1e-9) {
		t.Errorf("Expected M*Mt to be identity, got %+v", p)
	}
}

func TestInterpolateEndpoints(t *testing.T) {
	a := FromEuler(0, 0, 0.2)
	b := FromEuler(0, 0, 1.2)

	if got := a.Interpolate(b, 0); got != a {
		t.Errorf("Expected ratio 0 to return the start matrix")
	}
	if got := a.Interpolate(b, 1); got != b {
		t.Errorf("Expected ratio 1 to return the end matrix")
	}

	mid := a.Interpolate(b, 0.5).EulerAngles()
	if math.Abs(mid.Z-0.7) > 1e-9 {
		t.Errorf("Expected mid yaw 0.7, got %f", mid.Z)
	}
}

func TestTransformTranslate(t *testing.T) {
	tr := Transform{
		Position: Vector3{10, 0, 0},
		Rotation: FromEuler(0, 0, math.Pi/2),
		Scale:    1,
	}
	got := tr.Translate(Vector3{0, 5, 0})
	want := Vector3{15, 0, 0}
	if !got.NearlyEqual(want, 1e-9) {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}

func TestClampToPi(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"In range", 1, 1},
		{"Above pi", math.Pi + 0.5, -math.Pi + 0.5},
		{"Below minus pi", -math.Pi - 0.5, math.Pi - 0.5},
		{"Several turns", 4*math.Pi + 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampToPi(tt.in); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Expected %f, got %f", tt.want, got)
			}
		})
	}
}

func TestParseKeyCode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want KeyCode
		ok   bool
	}{
		{"Empty", "", KeyNone, true},
		{"Letter", "k", 75, true},
		{"Digit", "7", 55, true},
		{"Function", "F12", KeyF1 + 11, true},
		{"Named", "Home", KeyHome, true},
		{"Unknown", "mouse4", KeyNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseKeyCode(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Expected (%d, %v), got (%d, %v)", tt.want, tt.ok, got, ok)
			}
		})
	}
}
