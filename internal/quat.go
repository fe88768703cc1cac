package internal

import (
	"math"

	"github.com/ungerik/go3d/float64/vec3"
)

// Quat is a unit quaternion in (w, x, y, z) order, matching the
// convention the mesh compiler's refquat/quat_volume/quat_surface fields
// use. Hand-rolled as a thin wrapper rather than imported from
// go3d/float64/quaternion.
type Quat struct {
	W, X, Y, Z float64
}

// Identity is the no-rotation quaternion.
var Identity = Quat{W: 1}

// Normalized returns q scaled to unit length. A near-zero quaternion
// returns Identity.
func (q Quat) Normalized() Quat {
	n := math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
	if n < MinVal {
		return Identity
	}
	return Quat{q.W / n, q.X / n, q.Y / n, q.Z / n}
}

// Len2 returns the squared norm.
func (q Quat) Len2() float64 {
	return q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z
}

// IsIdentity reports whether q equals the no-rotation quaternion exactly.
func (q Quat) IsIdentity() bool {
	return q.W == 1 && q.X == 0 && q.Y == 0 && q.Z == 0
}

// Mat3 returns the 3x3 rotation matrix equivalent to q, stored row-major.
func (q Quat) Mat3() [3][3]float64 {
	w, x, y, z := q.W, q.X, q.Y, q.Z
	return [3][3]float64{
		{1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y)},
		{2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x)},
		{2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y)},
	}
}

// Conjugate returns the inverse rotation of a unit quaternion.
func (q Quat) Conjugate() Quat {
	return Quat{q.W, -q.X, -q.Y, -q.Z}
}

// RotateVec3 rotates v by q.
func (q Quat) RotateVec3(v vec3.T) vec3.T {
	m := q.Mat3()
	return vec3.T{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

// RotateVec3ByTranspose rotates v by the transpose of q's matrix, i.e. by
// q's inverse rotation without explicitly conjugating q first.
func (q Quat) RotateVec3ByTranspose(v vec3.T) vec3.T {
	m := q.Mat3()
	return vec3.T{
		m[0][0]*v[0] + m[1][0]*v[1] + m[2][0]*v[2],
		m[0][1]*v[0] + m[1][1]*v[1] + m[2][1]*v[2],
		m[0][2]*v[0] + m[1][2]*v[1] + m[2][2]*v[2],
	}
}

// QuatFromMat3 builds the unit quaternion corresponding to the given
// orthonormal rotation matrix (row-major), using the standard
// largest-diagonal-term branch to avoid cancellation.
func QuatFromMat3(m [3][3]float64) Quat {
	trace := m[0][0] + m[1][1] + m[2][2]

	var q Quat
	switch {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		q = Quat{
			W: 0.25 / s,
			X: (m[2][1] - m[1][2]) * s,
			Y: (m[0][2] - m[2][0]) * s,
			Z: (m[1][0] - m[0][1]) * s,
		}
	case m[0][0] > m[1][1] && m[0][0] > m[2][2]:
		s := 2 * math.Sqrt(1+m[0][0]-m[1][1]-m[2][2])
		q = Quat{
			W: (m[2][1] - m[1][2]) / s,
			X: 0.25 * s,
			Y: (m[0][1] + m[1][0]) / s,
			Z: (m[0][2] + m[2][0]) / s,
		}
	case m[1][1] > m[2][2]:
		s := 2 * math.Sqrt(1+m[1][1]-m[0][0]-m[2][2])
		q = Quat{
			W: (m[0][2] - m[2][0]) / s,
			X: (m[0][1] + m[1][0]) / s,
			Y: 0.25 * s,
			Z: (m[1][2] + m[2][1]) / s,
		}
	default:
		s := 2 * math.Sqrt(1+m[2][2]-m[0][0]-m[1][1])
		q = Quat{
			W: (m[1][0] - m[0][1]) / s,
			X: (m[0][2] + m[2][0]) / s,
			Y: (m[1][2] + m[2][1]) / s,
			Z: 0.25 * s,
		}
	}
	return q.Normalized()
}
