package mesh

import (
	"github.com/ungerik/go3d/float64/vec3"

	"github.com/LHTXQ/mujoco-deepmind/internal"
)

// creaseDot is the fixed crease-preservation threshold (~37 degrees).
// Not exposed as a tunable.
const creaseDot = 0.8

// makeNormal does area-weighted face-normal averaging at each vertex,
// with an optional crease-preservation pass.
func (m *Mesh) makeNormal() error {
	nvert := len(m.Vert)
	m.Normal = make([]vec3.T, nvert)
	m.FaceNormal = make([]Tri, len(m.Face))

	for fi, f := range m.Face {
		a, b, c := f[0], f[1], f[2]
		if int(a) >= nvert || int(b) >= nvert || int(c) >= nvert {
			return newErr(IndexOutOfRange, m.ID, "face %d references vertex outside [0,%d)", fi, nvert)
		}

		area, _, n := triangleAreaCenterNormal(m.Vert[a], m.Vert[b], m.Vert[c])
		weighted := n.Scaled(area)

		m.Normal[a].Add(&weighted)
		m.Normal[b].Add(&weighted)
		m.Normal[c].Add(&weighted)

		// face-normal indices alias vertex indices: facenormal[i] = (a,b,c).
		m.FaceNormal[fi] = f
	}

	if !m.SmoothNormal {
		m.applyCreasePreservation()
	}

	for i := range m.Normal {
		n := m.Normal[i]
		length := n.Length()
		if length <= internal.MinVal {
			m.Normal[i] = vec3.T{0, 0, 1}
			continue
		}
		m.Normal[i] = n.Scaled(1 / length)
	}

	return nil
}

// applyCreasePreservation runs a second pass that accumulates, into a
// scratch array, the contribution of each face to each of its vertices
// if the face normal dotted with the vertex's current normalized normal
// is less than creaseDot. After the pass, normal -= nremove.
func (m *Mesh) applyCreasePreservation() {
	// vertex-normalized copy used only for the dot-product test, so the
	// removal pass doesn't see its own partial subtraction.
	unit := make([]vec3.T, len(m.Normal))
	for i, n := range m.Normal {
		length := n.Length()
		if length > internal.MinVal {
			unit[i] = n.Scaled(1 / length)
		}
	}

	nremove := make([]vec3.T, len(m.Normal))

	for _, f := range m.Face {
		a, b, c := f[0], f[1], f[2]
		area, _, n := triangleAreaCenterNormal(m.Vert[a], m.Vert[b], m.Vert[c])
		weighted := n.Scaled(area)

		for _, v := range [3]int32{a, b, c} {
			dot := vec3.Dot(&n, &unit[v])
			if dot < creaseDot {
				nremove[v].Add(&weighted)
			}
		}
	}

	for i := range m.Normal {
		m.Normal[i].Sub(&nremove[i])
	}
}
