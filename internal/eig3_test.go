package internal

import (
	"math"
	"testing"
)

func TestEig3Diagonal(t *testing.T) {
	res := Eig3(Sym3{Xx: 3, Yy: 1, Zz: 2})

	want := [3]float64{1, 2, 3}
	for i, w := range want {
		if math.Abs(res.Eigenvalues[i]-w) > 1e-9 {
			t.Fatalf("eigenvalues = %v, want ascending %v", res.Eigenvalues, want)
		}
	}
}

func TestEig3OffDiagonal(t *testing.T) {
	// A 2D rotation-coupled case embedded in 3D: eigenvalues of
	// [[2,1],[1,2]] are 1 and 3.
	res := Eig3(Sym3{Xx: 2, Yy: 2, Zz: 5, Xy: 1})

	if math.Abs(res.Eigenvalues[0]-1) > 1e-9 {
		t.Errorf("smallest eigenvalue = %v, want 1", res.Eigenvalues[0])
	}
	if math.Abs(res.Eigenvalues[2]-5) > 1e-9 && math.Abs(res.Eigenvalues[1]-5) > 1e-9 {
		t.Errorf("expected one eigenvalue near 5, got %v", res.Eigenvalues)
	}

	// eigenvectors must be orthonormal
	for i := 0; i < 3; i++ {
		norm := 0.0
		for j := 0; j < 3; j++ {
			norm += res.Eigenvectors[j][i] * res.Eigenvectors[j][i]
		}
		if math.Abs(norm-1) > 1e-6 {
			t.Errorf("eigenvector %d not unit length: %v", i, norm)
		}
	}

	if math.Abs(res.Quat.Len2()-1) > 1e-6 {
		t.Errorf("quat not unit length: %v", res.Quat)
	}
}

func TestQuatFromMat3Identity(t *testing.T) {
	m := [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	q := QuatFromMat3(m)
	if !q.IsIdentity() {
		t.Errorf("identity matrix should map to identity quat, got %+v", q)
	}
}

func TestQuatRotateVec3RoundTrip(t *testing.T) {
	q := Quat{W: math.Cos(0.3), X: 0, Y: math.Sin(0.3), Z: 0}.Normalized()
	v := [3]float64{1, 2, 3}
	rotated := q.RotateVec3(v)
	back := q.Conjugate().RotateVec3(rotated)

	for i := range v {
		if math.Abs(back[i]-v[i]) > 1e-9 {
			t.Errorf("round trip mismatch at %d: got %v want %v", i, back[i], v[i])
		}
	}
}
