package mesh

import (
	"encoding/binary"
	"math"

	"github.com/ungerik/go3d/float64/vec3"
)

const (
	stlHeaderSize  = 80
	stlTriSize     = 50
	stlMinFaces    = 1
	stlMaxFaces    = 200000
	stlComponentBound = 1 << 30
)

// loadSTL reads a binary STL buffer: skip an 80-byte header, read a
// little-endian uint32 face count at offset 80 (rejecting counts outside
// [1, 200000] as likely ASCII input), verify the exact buffer size, and
// decode each 50-byte triangle record.
func (m *Mesh) loadSTL(buf []byte) error {
	if len(buf) < stlHeaderSize+4 {
		return newErr(FormatInvalid, m.ID, "STL buffer too small for header (%d bytes)", len(buf))
	}

	nface := binary.LittleEndian.Uint32(buf[stlHeaderSize : stlHeaderSize+4])
	if nface < stlMinFaces || nface > stlMaxFaces {
		return newErr(FormatInvalid, m.ID,
			"STL face count %d outside [%d,%d]; this is likely an ASCII STL", nface, stlMinFaces, stlMaxFaces)
	}

	want := stlHeaderSize + 4 + stlTriSize*int(nface)
	if len(buf) != want {
		return newErr(SizeMismatch, m.ID, "STL buffer size %d does not match expected %d for %d faces", len(buf), want, nface)
	}

	vert := make([]vec3.T, 0, 3*nface)
	faces := make([]Tri, nface)

	lefthanded := m.Scale[0]*m.Scale[1]*m.Scale[2] < 0

	off := stlHeaderSize + 4
	for i := 0; i < int(nface); i++ {
		rec := buf[off : off+stlTriSize]
		off += stlTriSize

		// bytes 0..12 are the file's own face normal; ignored, the
		// compiler synthesizes its own normals later.
		var tri [3]vec3.T
		for v := 0; v < 3; v++ {
			base := 12 + 12*v
			x := math.Float32frombits(binary.LittleEndian.Uint32(rec[base:]))
			y := math.Float32frombits(binary.LittleEndian.Uint32(rec[base+4:]))
			z := math.Float32frombits(binary.LittleEndian.Uint32(rec[base+8:]))

			for _, comp := range [3]float64{float64(x), float64(y), float64(z)} {
				if !stlComponentValid(comp) {
					return newErr(FormatInvalid, m.ID, "triangle %d vertex %d has a NaN/Inf or oversized component", i, v)
				}
			}

			tri[v] = vec3.T{float64(x), float64(y), float64(z)}
		}
		// final 2 bytes (attribute) ignored.

		base := int32(3 * i)
		vert = append(vert, tri[0], tri[1], tri[2])

		if lefthanded {
			faces[i] = Tri{base, base + 2, base + 1}
		} else {
			faces[i] = Tri{base, base + 1, base + 2}
		}
	}

	m.Vert = vert
	m.Face = faces

	// STL vertex streams are highly redundant; always dedup.
	return m.canonicalize()
}

func stlComponentValid(x float64) bool {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return false
	}
	return math.Abs(x) <= stlComponentBound
}
