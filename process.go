package mesh

import (
	"math"

	"github.com/ungerik/go3d/float64/vec3"

	"github.com/LHTXQ/mujoco-deepmind/internal"
)

// process runs the mass-properties engine twice, once per Type, against
// the given density and exact-mesh-inertia flag from the scene graph's
// defaults.
func (m *Mesh) process(density float64, exactMeshInertia bool) error {
	for _, t := range [2]Type{Volume, Shell} {
		if err := m.processOne(t, density, exactMeshInertia); err != nil {
			return err
		}
		if !m.ValidArea || !m.ValidVolume || !m.ValidEigenvalue || !m.ValidInequality {
			return nil
		}
	}
	return nil
}

func (m *Mesh) processOne(t Type, density float64, exactMeshInertia bool) error {
	var facecen vec3.T

	if t == Volume {
		m.volumePrePass()

		var area float64
		for fi, f := range m.Face {
			if int(f[0]) >= len(m.Vert) || int(f[1]) >= len(m.Vert) || int(f[2]) >= len(m.Vert) {
				return newErr(IndexOutOfRange, m.ID, "face %d references vertex outside [0,%d)", fi, len(m.Vert))
			}
			a, c, _ := triangleAreaCenterNormal(m.Vert[f[0]], m.Vert[f[1]], m.Vert[f[2]])
			weighted := c.Scaled(a)
			facecen.Add(&weighted)
			area += a
		}

		if area < internal.MinVal {
			m.ValidArea = false
			return nil
		}
		facecen.Scale(1 / area)
	}

	// volume/CoM integration
	var totalVol float64
	var com vec3.T
	for _, f := range m.Face {
		a, c, n := triangleAreaCenterNormal(m.Vert[f[0]], m.Vert[f[1]], m.Vert[f[2]])
		vol := pyramidVolume(t, a, c, n, facecen, exactMeshInertia)

		totalVol += vol
		weighted := vec3.T{
			c[0]*0.75 + facecen[0]*0.25,
			c[1]*0.75 + facecen[1]*0.25,
			c[2]*0.75 + facecen[2]*0.25,
		}.Scaled(vol)
		com.Add(&weighted)
	}

	if totalVol < internal.MinVal {
		m.ValidVolume = false
		return nil
	}
	com.Scale(1 / totalVol)

	if t == Volume {
		m.PosVolume = com
		for i := range m.Vert {
			m.Vert[i].Sub(&com)
		}
	} else {
		m.PosSurface = com
	}

	// inertia integration, on now-(possibly)centered geometry
	var P [6]float64
	var finalVol float64

	for _, f := range m.Face {
		D, E, F := m.Vert[f[0]], m.Vert[f[1]], m.Vert[f[2]]
		a, c, n := triangleAreaCenterNormal(D, E, F)
		// The apex here is the origin, not facecen: by this point the
		// volume pass has already recentered m.Vert on the CoM, so the
		// P[k] products-of-inertia formula below (valid only for a
		// tetrahedron apexed at the origin of D,E,F) requires the matching
		// apex-at-origin volume.
		vol := pyramidVolume(t, a, c, n, vec3.T{}, exactMeshInertia)
		finalVol += vol

		divisor := 20.0
		if t == Shell {
			divisor = 12.0
		}
		coeff := density * vol / divisor

		for k, pair := range inertiaPairs {
			i, j := pair[0], pair[1]
			P[k] += coeff * (2*(D[i]*D[j]+E[i]*E[j]+F[i]*F[j]) +
				D[i]*E[j] + D[j]*E[i] +
				D[i]*F[j] + D[j]*F[i] +
				E[i]*F[j] + E[j]*F[i])
		}
	}

	if t == Volume {
		m.VolumeTotal = finalVol
	} else {
		m.SurfaceTotal = finalVol
	}

	inertia := internal.Sym3{
		Xx: P[1] + P[2],
		Yy: P[0] + P[2],
		Zz: P[0] + P[1],
		Xy: -P[3],
		Xz: -P[4],
		Yz: -P[5],
	}

	eig := internal.Eig3(inertia)
	lambda := eig.Eigenvalues

	// "SHOULD NOT OCCUR" per the original compiler: the largest
	// eigenvalue of a genuine mass distribution is positive whenever the
	// volume/area check above already passed.
	if lambda[2] <= 0 {
		m.ValidEigenvalue = false
		return nil
	}
	if lambda[0]+lambda[1] < lambda[2] ||
		lambda[0]+lambda[2] < lambda[1] ||
		lambda[1]+lambda[2] < lambda[0] {
		m.ValidInequality = false
		return nil
	}

	mass := finalVol * density
	boxsz := vec3.T{
		math.Sqrt(6*(lambda[1]+lambda[2]-lambda[0])/mass) / 2,
		math.Sqrt(6*(lambda[0]+lambda[2]-lambda[1])/mass) / 2,
		math.Sqrt(6*(lambda[0]+lambda[1]-lambda[2])/mass) / 2,
	}

	if t == Volume {
		m.BoxSzVolume = boxsz
		m.QuatVolume = eig.Quat
		m.QuatSurface = eig.Quat
		m.rotateIntoPrincipalFrame(eig.Quat)
	} else {
		m.BoxSzSurface = boxsz
		// quat_surface always mirrors quat_volume; the shell pass never
		// re-rotates the geometry.
		m.QuatSurface = m.QuatVolume
	}

	return nil
}

// inertiaPairs are the six (i,j) index pairs products of inertia are
// accumulated over: (0,0),(1,1),(2,2),(0,1),(0,2),(1,2).
var inertiaPairs = [6][2]int{{0, 0}, {1, 1}, {2, 2}, {0, 1}, {0, 2}, {1, 2}}

// pyramidVolume computes a single triangle's contribution to the running
// volume/area total: full area for Shell, signed tetrahedral volume with
// apex at facecen for Volume, optionally made unsigned for legacy
// (non-exact) mesh inertia.
func pyramidVolume(t Type, area float64, center, normal, facecen vec3.T, exact bool) float64 {
	if t == Shell {
		return area
	}

	diff := vec3.Sub(&center, &facecen)
	vol := vec3.Dot(&diff, &normal) * area / 3
	if !exact {
		vol = math.Abs(vol)
	}
	return vol
}

// volumePrePass applies refpos/refquat/scale to the volume interpretation
// only, then re-normalizes every normal.
func (m *Mesh) volumePrePass() {
	if m.RefPos != (vec3.T{}) {
		for i := range m.Vert {
			m.Vert[i].Sub(&m.RefPos)
		}
	}

	if !m.RefQuat.IsIdentity() {
		q := m.RefQuat.Normalized()
		m.RefQuat = q
		for i := range m.Vert {
			m.Vert[i] = q.RotateVec3ByTranspose(m.Vert[i])
		}
		for i := range m.Normal {
			m.Normal[i] = q.RotateVec3ByTranspose(m.Normal[i])
		}
	}

	if m.Scale != (vec3.T{1, 1, 1}) {
		for i := range m.Vert {
			m.Vert[i][0] *= m.Scale[0]
			m.Vert[i][1] *= m.Scale[1]
			m.Vert[i][2] *= m.Scale[2]
		}
		for i := range m.Normal {
			m.Normal[i][0] *= m.Scale[0]
			m.Normal[i][1] *= m.Scale[1]
			m.Normal[i][2] *= m.Scale[2]
		}
	}

	for i := range m.Normal {
		n := m.Normal[i]
		length2 := n[0]*n[0] + n[1]*n[1] + n[2]*n[2]
		if length2 > internal.MinVal {
			scl := 1 / math.Sqrt(length2)
			m.Normal[i] = vec3.T{n[0] * scl, n[1] * scl, n[2] * scl}
		} else {
			m.Normal[i] = vec3.T{0, 0, 1}
		}
	}
}

// rotateIntoPrincipalFrame rotates every vertex and normal by q_v⁻¹, and
// recomputes the AABB while doing so.
func (m *Mesh) rotateIntoPrincipalFrame(qv internal.Quat) {
	inv := qv.Conjugate()

	first := true
	for i, v := range m.Vert {
		r := inv.RotateVec3(v)
		m.Vert[i] = r

		if first {
			m.AABBMin, m.AABBMax = r, r
			first = false
			continue
		}
		for k := 0; k < 3; k++ {
			if r[k] < m.AABBMin[k] {
				m.AABBMin[k] = r[k]
			}
			if r[k] > m.AABBMax[k] {
				m.AABBMax[k] = r[k]
			}
		}
	}

	for i, n := range m.Normal {
		m.Normal[i] = inv.RotateVec3(n)
	}
}
