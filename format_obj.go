package mesh

import (
	"github.com/ungerik/go3d/float64/vec3"

	"github.com/LHTXQ/mujoco-deepmind/objparser"
)

// loadOBJ delegates the text scan to objparser, consumes only the first
// shape, splits quads into two triangles, swaps winding for left-handed
// scale exactly as in the STL/MSH readers, and flips the second texcoord
// component (v <- 1-v) starting from the second pair to match legacy
// behavior.
func (m *Mesh) loadOBJ(buf []byte) error {
	res, err := objparser.Parse(buf)
	if err != nil {
		return wrapErr(FormatInvalid, m.ID, err, "OBJ parse failed")
	}
	if len(res.Shapes) == 0 {
		return newErr(FormatInvalid, m.ID, "OBJ file has no shapes")
	}
	if len(res.Vertices) < 4 {
		return newErr(FormatInvalid, m.ID, "OBJ nvert %d is below the minimum of 4", len(res.Vertices))
	}

	vert := make([]vec3.T, len(res.Vertices))
	for i, v := range res.Vertices {
		vert[i] = vec3.T(v)
	}

	var normal []vec3.T
	if len(res.Normals) > 0 {
		normal = make([]vec3.T, len(res.Normals))
		for i, n := range res.Normals {
			normal[i] = vec3.T(n)
		}
	}

	var texcoord []UV
	if len(res.Texcoords) > 0 {
		texcoord = make([]UV, len(res.Texcoords))
		for i, t := range res.Texcoords {
			texcoord[i] = UV{t[0], t[1]}
		}
		// The second texcoord component is flipped starting from the
		// second pair: index 0 is left as parsed, matching the off-by-one
		// this reader preserves from legacy behavior.
		for i := 1; i < len(texcoord); i++ {
			texcoord[i][1] = 1 - texcoord[i][1]
		}
	}

	lefthanded := m.Scale[0]*m.Scale[1]*m.Scale[2] < 0

	shape := res.Shapes[0]
	faces := make([]Tri, 0, len(shape.Faces)*2)
	var faceNormal, faceTexcoord []Tri

	for _, f := range shape.Faces {
		tris := triangulate(f)
		for _, t := range tris {
			a, b, c := int32(t[0].Vertex), int32(t[1].Vertex), int32(t[2].Vertex)
			if a < 0 || int(a) >= len(vert) || b < 0 || int(b) >= len(vert) || c < 0 || int(c) >= len(vert) {
				return newErr(IndexOutOfRange, m.ID, "OBJ face references a vertex index outside [0,%d)", len(vert))
			}
			if lefthanded {
				a, b = b, a
				t[0], t[1] = t[1], t[0]
			}
			faces = append(faces, Tri{a, b, c})

			if normal != nil && t[0].Normal >= 0 && t[1].Normal >= 0 && t[2].Normal >= 0 {
				faceNormal = append(faceNormal, Tri{int32(t[0].Normal), int32(t[1].Normal), int32(t[2].Normal)})
			}
			if texcoord != nil && t[0].Texcoord >= 0 && t[1].Texcoord >= 0 && t[2].Texcoord >= 0 {
				faceTexcoord = append(faceTexcoord, Tri{int32(t[0].Texcoord), int32(t[1].Texcoord), int32(t[2].Texcoord)})
			}
		}
	}

	m.Vert = vert
	m.Normal = normal
	m.Texcoord = texcoord
	m.Face = faces
	if len(faceNormal) == len(faces) {
		m.FaceNormal = faceNormal
	}
	if len(faceTexcoord) == len(faces) {
		m.FaceTexcoord = faceTexcoord
	}

	return nil
}

// triangulate splits a triangle or quad face record into one or two
// triangles, fan-style from corner 0.
func triangulate(f []objparser.FaceVertex) [][3]objparser.FaceVertex {
	if len(f) == 3 {
		return [][3]objparser.FaceVertex{{f[0], f[1], f[2]}}
	}
	return [][3]objparser.FaceVertex{
		{f[0], f[1], f[2]},
		{f[0], f[2], f[3]},
	}
}
