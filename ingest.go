package mesh

import "github.com/ungerik/go3d/float64/vec3"

// ingestUserArrays ingests any user-staging arrays with full size and
// index checks: each user* array is rejected if the matching canonical
// array is already populated, or if its size is not a multiple of the
// expected stride (3 for verts/normals/faces, 2 for texcoords). userface
// indices are range-checked against nvert.
func (m *Mesh) ingestUserArrays() error {
	if err := ingestVec3(&m.Vert, m.user.vert, m.ID, "vert"); err != nil {
		return err
	}
	if err := ingestVec3(&m.Normal, m.user.normal, m.ID, "normal"); err != nil {
		return err
	}
	if err := ingestUV(&m.Texcoord, m.user.texcoord, m.ID); err != nil {
		return err
	}
	if err := m.ingestFaces(); err != nil {
		return err
	}
	return nil
}

func ingestVec3(dst *[]vec3.T, raw []float64, id, name string) error {
	if raw == nil {
		return nil
	}
	if len(*dst) > 0 {
		return newErr(RepeatedSpecification, id, "both user%s and a file-loaded %s array were supplied", name, name)
	}
	if len(raw)%3 != 0 {
		return newErr(SizeMismatch, id, "user%s length %d is not a multiple of 3", name, len(raw))
	}
	out := make([]vec3.T, len(raw)/3)
	for i := range out {
		out[i] = vec3.T{raw[3*i], raw[3*i+1], raw[3*i+2]}
	}
	*dst = out
	return nil
}

func ingestUV(dst *[]UV, raw []float64, id string) error {
	if raw == nil {
		return nil
	}
	if len(*dst) > 0 {
		return newErr(RepeatedSpecification, id, "both usertexcoord and a file-loaded texcoord array were supplied")
	}
	if len(raw)%2 != 0 {
		return newErr(SizeMismatch, id, "usertexcoord length %d is not a multiple of 2", len(raw))
	}
	out := make([]UV, len(raw)/2)
	for i := range out {
		out[i] = UV{raw[2*i], raw[2*i+1]}
	}
	*dst = out
	return nil
}

func (m *Mesh) ingestFaces() error {
	raw := m.user.face
	if raw == nil {
		return nil
	}
	if len(m.Face) > 0 {
		return newErr(RepeatedSpecification, m.ID, "both userface and a file-loaded face array were supplied")
	}
	if len(raw)%3 != 0 {
		return newErr(SizeMismatch, m.ID, "userface length %d is not a multiple of 3", len(raw))
	}

	nvert := len(m.Vert)
	out := make([]Tri, len(raw)/3)
	for i := range out {
		for k := 0; k < 3; k++ {
			idx := raw[3*i+k]
			if idx < 0 || int(idx) >= nvert {
				return newErr(IndexOutOfRange, m.ID, "userface %d references vertex %d outside [0,%d)", i, idx, nvert)
			}
			out[i][k] = idx
		}
	}
	m.Face = out
	return nil
}

// ingestUserFaceIndirection validates that userfacenormal and
// userfacetexcoord, when supplied, are each exactly 3*nface in length.
func (m *Mesh) ingestUserFaceIndirection() error {
	nface := len(m.Face)

	if m.user.faceNormal != nil {
		if len(m.FaceNormal) > 0 {
			return newErr(RepeatedSpecification, m.ID, "both userfacenormal and a synthesized facenormal array were supplied")
		}
		if len(m.user.faceNormal) != 3*nface {
			return newErr(SizeMismatch, m.ID, "userfacenormal length %d does not equal 3*nface (%d)", len(m.user.faceNormal), 3*nface)
		}
		m.FaceNormal = trisFromFlat(m.user.faceNormal)
	}

	if m.user.faceTexcoord != nil {
		if len(m.FaceTexcoord) > 0 {
			return newErr(RepeatedSpecification, m.ID, "both userfacetexcoord and a prior facetexcoord array were supplied")
		}
		if len(m.user.faceTexcoord) != 3*nface {
			return newErr(SizeMismatch, m.ID, "userfacetexcoord length %d does not equal 3*nface (%d)", len(m.user.faceTexcoord), 3*nface)
		}
		m.FaceTexcoord = trisFromFlat(m.user.faceTexcoord)
	}

	return nil
}

func trisFromFlat(flat []int32) []Tri {
	out := make([]Tri, len(flat)/3)
	for i := range out {
		out[i] = Tri{flat[3*i], flat[3*i+1], flat[3*i+2]}
	}
	return out
}
