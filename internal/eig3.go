package internal

import "math"

// Sym3 is a symmetric 3x3 matrix stored as its six distinct entries, in the
// order the mass-properties engine accumulates them: Ixx, Iyy, Izz, Ixy,
// Ixz, Iyz.
type Sym3 struct {
	Xx, Yy, Zz, Xy, Xz, Yz float64
}

// Eig3Result holds the outcome of a symmetric 3x3 eigendecomposition:
// eigenvalues in ascending order, their orthonormal eigenvectors (as matrix
// columns, row-major storage), and the equivalent principal-frame
// quaternion.
type Eig3Result struct {
	Eigenvalues [3]float64
	Eigenvectors [3][3]float64
	Quat        Quat
}

// Eig3 diagonalizes a symmetric 3x3 matrix with the cyclic Jacobi
// eigenvalue algorithm, hand-rolled as package-local dense linear algebra
// rather than pulled in from an external solver.
func Eig3(m Sym3) Eig3Result {
	a := [3][3]float64{
		{m.Xx, m.Xy, m.Xz},
		{m.Xy, m.Yy, m.Yz},
		{m.Xz, m.Yz, m.Zz},
	}

	v := [3][3]float64{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}

	const maxSweeps = 64
	for sweep := 0; sweep < maxSweeps; sweep++ {
		off := math.Abs(a[0][1]) + math.Abs(a[0][2]) + math.Abs(a[1][2])
		if off < 1e-14 {
			break
		}

		for p := 0; p < 2; p++ {
			for q := p + 1; q < 3; q++ {
				jacobiRotate(&a, &v, p, q)
			}
		}
	}

	eigvals := [3]float64{a[0][0], a[1][1], a[2][2]}
	idx := [3]int{0, 1, 2}

	// insertion sort ascending, carrying eigenvector columns along
	for i := 1; i < 3; i++ {
		j := i
		for j > 0 && eigvals[idx[j-1]] > eigvals[idx[j]] {
			idx[j-1], idx[j] = idx[j], idx[j-1]
			j--
		}
	}

	var sorted Eig3Result
	for col, src := range idx {
		sorted.Eigenvalues[col] = eigvals[src]
		for row := 0; row < 3; row++ {
			sorted.Eigenvectors[row][col] = v[row][src]
		}
	}

	if determinant3(sorted.Eigenvectors) < 0 {
		for row := 0; row < 3; row++ {
			sorted.Eigenvectors[row][2] = -sorted.Eigenvectors[row][2]
		}
	}

	sorted.Quat = QuatFromMat3(sorted.Eigenvectors)
	return sorted
}

// jacobiRotate zeroes a[p][q] (and a[q][p]) with a single Jacobi rotation,
// accumulating the rotation into v.
func jacobiRotate(a, v *[3][3]float64, p, q int) {
	apq := a[p][q]
	if math.Abs(apq) < 1e-300 {
		return
	}

	app, aqq := a[p][p], a[q][q]
	theta := (aqq - app) / (2 * apq)

	var t float64
	if theta >= 0 {
		t = 1 / (theta + math.Sqrt(1+theta*theta))
	} else {
		t = -1 / (-theta + math.Sqrt(1+theta*theta))
	}

	c := 1 / math.Sqrt(1+t*t)
	s := t * c

	for k := 0; k < 3; k++ {
		akp, akq := a[k][p], a[k][q]
		a[k][p] = c*akp - s*akq
		a[k][q] = s*akp + c*akq
	}
	for k := 0; k < 3; k++ {
		apk, aqk := a[p][k], a[q][k]
		a[p][k] = c*apk - s*aqk
		a[q][k] = s*apk + c*aqk
	}

	for k := 0; k < 3; k++ {
		vkp, vkq := v[k][p], v[k][q]
		v[k][p] = c*vkp - s*vkq
		v[k][q] = s*vkp + c*vkq
	}
}

func determinant3(m [3][3]float64) float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}
