package mesh

import (
	"encoding/binary"
	"math"

	"github.com/ungerik/go3d/float64/vec3"
)

// loadMSH reads a custom binary MSH buffer: a four int32 little-endian
// header (nvert, nnormal, ntexcoord, nface), strict size validation, then
// verbatim float32/int32 arrays.
func (m *Mesh) loadMSH(buf []byte) error {
	if len(buf) < 16 {
		return newErr(FormatInvalid, m.ID, "MSH buffer too small for header (%d bytes)", len(buf))
	}

	nvert := int32(binary.LittleEndian.Uint32(buf[0:4]))
	nnormal := int32(binary.LittleEndian.Uint32(buf[4:8]))
	ntexcoord := int32(binary.LittleEndian.Uint32(buf[8:12]))
	nface := int32(binary.LittleEndian.Uint32(buf[12:16]))

	if nvert < 4 {
		return newErr(FormatInvalid, m.ID, "MSH nvert %d is below the minimum of 4", nvert)
	}
	if nnormal < 0 || ntexcoord < 0 || nface < 0 {
		return newErr(FormatInvalid, m.ID, "MSH header has a negative count")
	}
	if nnormal != 0 && nnormal != nvert {
		return newErr(FormatInvalid, m.ID, "MSH nnormal %d must be 0 or equal nvert %d", nnormal, nvert)
	}
	if ntexcoord != 0 && ntexcoord != nvert {
		return newErr(FormatInvalid, m.ID, "MSH ntexcoord %d must be 0 or equal nvert %d", ntexcoord, nvert)
	}

	want := 16 + 12*int(nvert) + 12*int(nnormal) + 8*int(ntexcoord) + 12*int(nface)
	if len(buf) != want {
		return newErr(SizeMismatch, m.ID, "MSH buffer size %d does not match expected %d", len(buf), want)
	}

	off := 16

	m.Vert = readVec3Array(buf, &off, int(nvert))

	if nnormal > 0 {
		m.Normal = readVec3Array(buf, &off, int(nnormal))
	}

	if ntexcoord > 0 {
		m.Texcoord = readUVArray(buf, &off, int(ntexcoord))
	}

	faces := make([]Tri, nface)
	lefthanded := m.Scale[0]*m.Scale[1]*m.Scale[2] < 0
	for i := 0; i < int(nface); i++ {
		a := int32(binary.LittleEndian.Uint32(buf[off:]))
		off += 4
		b := int32(binary.LittleEndian.Uint32(buf[off:]))
		off += 4
		c := int32(binary.LittleEndian.Uint32(buf[off:]))
		off += 4
		if lefthanded {
			faces[i] = Tri{a, c, b}
		} else {
			faces[i] = Tri{a, b, c}
		}
	}
	m.Face = faces

	// facenormal is seeded from face; facetexcoord likewise when
	// texcoords are present.
	m.FaceNormal = append([]Tri(nil), m.Face...)
	if ntexcoord > 0 {
		m.FaceTexcoord = append([]Tri(nil), m.Face...)
	}

	return nil
}

func readVec3Array(buf []byte, off *int, n int) []vec3.T {
	out := make([]vec3.T, n)
	for i := 0; i < n; i++ {
		out[i] = vec3.T{
			readFloat32(buf, off),
			readFloat32(buf, off),
			readFloat32(buf, off),
		}
	}
	return out
}

func readUVArray(buf []byte, off *int, n int) []UV {
	out := make([]UV, n)
	for i := 0; i < n; i++ {
		out[i] = UV{readFloat32(buf, off), readFloat32(buf, off)}
	}
	return out
}

func readFloat32(buf []byte, off *int) float64 {
	bits := binary.LittleEndian.Uint32(buf[*off:])
	*off += 4
	return float64(math.Float32frombits(bits))
}
