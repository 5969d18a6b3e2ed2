package common

import "math"

// Vector3 is a 3D point or direction in double precision.
// The camera pipeline treats +Y as forward, +Z as up, matching the host skeleton space.
type Vector3 struct {
	X, Y, Z float64
}

// Add returns the component-wise sum v + o.
//
// Parameters:
//   - o: the vector to add
//
// Returns:
//   - Vector3: the sum
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns the component-wise difference v - o.
//
// Parameters:
//   - o: the vector to subtract
//
// Returns:
//   - Vector3: the difference
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v multiplied by a scalar.
//
// Parameters:
//   - s: the scale factor
//
// Returns:
//   - Vector3: the scaled vector
func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and o.
func (v Vector3) Dot(o Vector3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product v × o.
func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Length returns the Euclidean length of v.
func (v Vector3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize returns v scaled to unit length.
// A zero vector is returned unchanged.
//
// Returns:
//   - Vector3: the unit vector, or the zero vector
func (v Vector3) Normalize() Vector3 {
	l := v.Length()
	if l <= 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Lerp linearly interpolates from v toward o.
//
// Parameters:
//   - o: the end point
//   - t: interpolation ratio, not clamped
//
// Returns:
//   - Vector3: v + (o - v) * t
func (v Vector3) Lerp(o Vector3, t float64) Vector3 {
	return Vector3{
		v.X + (o.X-v.X)*t,
		v.Y + (o.Y-v.Y)*t,
		v.Z + (o.Z-v.Z)*t,
	}
}

// IsZero reports whether all components are exactly zero.
func (v Vector3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// NearlyEqual reports whether every component of v is within eps of o.
//
// Parameters:
//   - o: the vector to compare against
//   - eps: absolute tolerance per component
//
// Returns:
//   - bool: true if the vectors match within tolerance
func (v Vector3) NearlyEqual(o Vector3, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps && math.Abs(v.Y-o.Y) <= eps && math.Abs(v.Z-o.Z) <= eps
}

// Matrix33 is a row-major 3x3 rotation matrix.
// Column 1 is the local forward (+Y) axis expressed in world space.
type Matrix33 [3][3]float64

// Identity33 returns the identity rotation.
func Identity33() Matrix33 {
	return Matrix33{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// AxisX returns a rotation of angle radians about the X axis.
func AxisX(angle float64) Matrix33 {
	s, c := math.Sincos(angle)
	return Matrix33{{1, 0, 0}, {0, c, -s}, {0, s, c}}
}

// AxisY returns a rotation of angle radians about the Y axis.
func AxisY(angle float64) Matrix33 {
	s, c := math.Sincos(angle)
	return Matrix33{{c, 0, s}, {0, 1, 0}, {-s, 0, c}}
}

// AxisZ returns a rotation of angle radians about the Z axis.
func AxisZ(angle float64) Matrix33 {
	s, c := math.Sincos(angle)
	return Matrix33{{c, -s, 0}, {s, c, 0}, {0, 0, 1}}
}

// Multiply returns m * o.
//
// Parameters:
//   - o: the right-hand matrix
//
// Returns:
//   - Matrix33: the product
func (m Matrix33) Multiply(o Matrix33) Matrix33 {
	var out Matrix33
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[r][c] = m[r][0]*o[0][c] + m[r][1]*o[1][c] + m[r][2]*o[2][c]
		}
	}
	return out
}

// RotateX applies a rotation about the world X axis after m.
//
// Parameters:
//   - angle: rotation in radians
//
// Returns:
//   - Matrix33: AxisX(angle) * m
func (m Matrix33) RotateX(angle float64) Matrix33 {
	return AxisX(angle).Multiply(m)
}

// RotateY applies a rotation about the world Y axis after m.
func (m Matrix33) RotateY(angle float64) Matrix33 {
	return AxisY(angle).Multiply(m)
}

// RotateZ applies a rotation about the world Z axis after m.
//
// Parameters:
//   - angle: rotation in radians
//
// Returns:
//   - Matrix33: AxisZ(angle) * m
func (m Matrix33) RotateZ(angle float64) Matrix33 {
	return AxisZ(angle).Multiply(m)
}

// Transform rotates v by m.
func (m Matrix33) Transform(v Vector3) Vector3 {
	return Vector3{
		m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Transpose returns the transpose of m, which is its inverse for a pure rotation.
func (m Matrix33) Transpose() Matrix33 {
	return Matrix33{
		{m[0][0], m[1][0], m[2][0]},
		{m[0][1], m[1][1], m[2][1]},
		{m[0][2], m[1][2], m[2][2]},
	}
}

// Forward returns the local +Y axis in world space.
func (m Matrix33) Forward() Vector3 {
	return Vector3{m[0][1], m[1][1], m[2][1]}
}

// FromEuler builds a rotation from pitch (x), roll (y) and yaw (z) as Rz(-z) * Rx(x) * Ry(y).
// Positive yaw turns the forward axis toward +X, positive pitch turns it toward +Z.
//
// Parameters:
//   - x: pitch in radians
//   - y: roll in radians
//   - z: yaw in radians
//
// Returns:
//   - Matrix33: the composed rotation
func FromEuler(x, y, z float64) Matrix33 {
	return AxisZ(-z).Multiply(AxisX(x)).Multiply(AxisY(y))
}

// EulerAngles extracts pitch, roll and yaw such that FromEuler(x, y, z) reproduces m.
//
// Returns:
//   - Vector3: X = pitch, Y = roll, Z = yaw, all in radians
func (m Matrix33) EulerAngles() Vector3 {
	sx := Clamp(m[2][1], -1, 1)
	x := math.Asin(sx)
	if math.Abs(sx) > 0.999999 {
		// Looking straight up or down: roll folds into yaw.
		return Vector3{x, 0, math.Atan2(-m[1][0], m[0][0])}
	}
	y := math.Atan2(-m[2][0], m[2][2])
	z := math.Atan2(m[0][1], m[1][1])
	return Vector3{x, y, z}
}

// LookAt returns a roll-free rotation whose forward axis points along dir.
// A zero direction yields the identity.
//
// Parameters:
//   - dir: the direction to face, need not be normalized
//
// Returns:
//   - Matrix33: the facing rotation
func LookAt(dir Vector3) Matrix33 {
	if dir.IsZero() {
		return Identity33()
	}
	d := dir.Normalize()
	pitch := math.Asin(Clamp(d.Z, -1, 1))
	yaw := math.Atan2(d.X, d.Y)
	return FromEuler(pitch, 0, yaw)
}

// Renormalize re-orthonormalizes m with Gram-Schmidt on the forward and up columns.
// Chained multiplies drift; the pipeline renormalizes after each composed stage.
func (m Matrix33) Renormalize() Matrix33 {
	fwd := Vector3{m[0][1], m[1][1], m[2][1]}.Normalize()
	up := Vector3{m[0][2], m[1][2], m[2][2]}
	up = up.Sub(fwd.Scale(fwd.Dot(up))).Normalize()
	right := fwd.Cross(up)
	return Matrix33{
		{right.X, fwd.X, up.X},
		{right.Y, fwd.Y, up.Y},
		{right.Z, fwd.Z, up.Z},
	}
}

// NearlyEqual reports whether every element of m is within eps of o.
func (m Matrix33) NearlyEqual(o Matrix33, eps float64) bool {
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			if math.Abs(m[r][c]-o[r][c]) > eps {
				return false
			}
		}
	}
	return true
}

// Quaternion is a unit rotation quaternion (W + Xi + Yj + Zk).
type Quaternion struct {
	W, X, Y, Z float64
}

// ToQuaternion converts a rotation matrix to a unit quaternion.
func (m Matrix33) ToQuaternion() Quaternion {
	var q Quaternion
	trace := m[0][0] + m[1][1] + m[2][2]
	switch {
	case trace > 0:
		s := math.Sqrt(trace+1) * 2
		q = Quaternion{0.25 * s, (m[2][1] - m[1][2]) / s, (m[0][2] - m[2][0]) / s, (m[1][0] - m[0][1]) / s}
	case m[0][0] > m[1][1] && m[0][0] > m[2][2]:
		s := math.Sqrt(1+m[0][0]-m[1][1]-m[2][2]) * 2
		q = Quaternion{(m[2][1] - m[1][2]) / s, 0.25 * s, (m[0][1] + m[1][0]) / s, (m[0][2] + m[2][0]) / s}
	case m[1][1] > m[2][2]:
		s := math.Sqrt(1+m[1][1]-m[0][0]-m[2][2]) * 2
		q = Quaternion{(m[0][2] - m[2][0]) / s, (m[0][1] + m[1][0]) / s, 0.25 * s, (m[1][2] + m[2][1]) / s}
	default:
		s := math.Sqrt(1+m[2][2]-m[0][0]-m[1][1]) * 2
		q = Quaternion{(m[1][0] - m[0][1]) / s, (m[0][2] + m[2][0]) / s, (m[1][2] + m[2][1]) / s, 0.25 * s}
	}
	return q.normalize()
}

// Matrix converts q back to a rotation matrix.
func (q Quaternion) Matrix() Matrix33 {
	w, x, y, z := q.W, q.X, q.Y, q.Z
	return Matrix33{
		{1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y)},
		{2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x)},
		{2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y)},
	}
}

func (q Quaternion) normalize() Quaternion {
	l := math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
	if l == 0 {
		return Quaternion{W: 1}
	}
	return Quaternion{q.W / l, q.X / l, q.Y / l, q.Z / l}
}

// Slerp spherically interpolates from q toward o along the shortest arc.
//
// Parameters:
//   - o: the end rotation
//   - t: interpolation ratio in [0, 1]
//
// Returns:
//   - Quaternion: the interpolated unit quaternion
func (q Quaternion) Slerp(o Quaternion, t float64) Quaternion {
	dot := q.W*o.W + q.X*o.X + q.Y*o.Y + q.Z*o.Z
	if dot < 0 {
		o = Quaternion{-o.W, -o.X, -o.Y, -o.Z}
		dot = -dot
	}
	if dot > 0.9995 {
		return Quaternion{
			q.W + (o.W-q.W)*t,
			q.X + (o.X-q.X)*t,
			q.Y + (o.Y-q.Y)*t,
			q.Z + (o.Z-q.Z)*t,
		}.normalize()
	}
	theta := math.Acos(dot)
	sinTheta := math.Sin(theta)
	a := math.Sin((1-t)*theta) / sinTheta
	b := math.Sin(t*theta) / sinTheta
	return Quaternion{
		q.W*a + o.W*b,
		q.X*a + o.X*b,
		q.Y*a + o.Y*b,
		q.Z*a + o.Z*b,
	}
}

// Interpolate blends m toward o by ratio using quaternion slerp.
// Ratios at or beyond the ends return a copy of the nearer matrix.
//
// Parameters:
//   - o: the end rotation
//   - ratio: blend amount, 0 = m, 1 = o
//
// Returns:
//   - Matrix33: the blended orthonormal rotation
func (m Matrix33) Interpolate(o Matrix33, ratio float64) Matrix33 {
	if ratio <= 0 {
		return m
	}
	if ratio >= 1 {
		return o
	}
	return m.ToQuaternion().Slerp(o.ToQuaternion(), ratio).Matrix()
}

// Transform is a node transform: translation, rotation and uniform scale.
type Transform struct {
	Position Vector3
	Rotation Matrix33
	Scale    float64
}

// IdentityTransform returns a transform at the origin with no rotation and unit scale.
func IdentityTransform() Transform {
	return Transform{Rotation: Identity33(), Scale: 1}
}

// Translate maps a point in t's local frame into the parent frame.
//
// Parameters:
//   - local: the point in local coordinates
//
// Returns:
//   - Vector3: Position + Rotation * (local * Scale)
func (t Transform) Translate(local Vector3) Vector3 {
	return t.Position.Add(t.Rotation.Transform(local.Scale(t.Scale)))
}

// Multiply composes t with a child transform, returning the child's transform in t's parent frame.
//
// Parameters:
//   - child: the child's local transform
//
// Returns:
//   - Transform: the combined transform
func (t Transform) Multiply(child Transform) Transform {
	return Transform{
		Position: t.Translate(child.Position),
		Rotation: t.Rotation.Multiply(child.Rotation),
		Scale:    t.Scale * child.Scale,
	}
}
