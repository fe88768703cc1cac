// Package skin reads binary SKN skin-deformation records, resolves each
// bone's body reference against a scene graph, and renormalizes
// per-vertex bone weights.
package skin

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/LHTXQ/mujoco-deepmind/internal"
	"github.com/LHTXQ/mujoco-deepmind/scene"
)

// Kind enumerates the errors skin compilation can raise.
type Kind int

const (
	FormatInvalid Kind = iota
	SizeMismatch
	IndexOutOfRange
	MissingData
	UnknownReference
)

func (k Kind) String() string {
	switch k {
	case FormatInvalid:
		return "FormatInvalid"
	case SizeMismatch:
		return "SizeMismatch"
	case IndexOutOfRange:
		return "IndexOutOfRange"
	case MissingData:
		return "MissingData"
	case UnknownReference:
		return "UnknownReference"
	default:
		return "Unknown"
	}
}

// Error mirrors the root mesh package's typed error shape.
type Error struct {
	Kind  Kind
	ID    string
	Msg   string
	cause error
}

func (e *Error) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("skin %q: %s: %s", e.ID, e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.cause }

func newErr(kind Kind, id, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, ID: id, Msg: fmt.Sprintf(format, args...)}
}

// Bone is one named influence record: a bind-pose reference frame plus the
// vertex indices and normalized weights it influences.
type Bone struct {
	BodyName string
	BodyID   int
	BindPos  [3]float64
	BindQuat internal.Quat
	VertID   []int32
	Weight   []float64
}

// UV is a 2-D texture coordinate, mirroring the root mesh package's type.
type UV [2]float64

// Tri is a triangle's three vertex indices.
type Tri [3]int32

// Skin is a skin-deformation compile input/output: geometry shared with
// the root mesh package's shape, plus a parallel set of bones.
type Skin struct {
	ID string

	Vert     [][3]float64
	Texcoord []UV
	Face     []Tri
	Bones    []Bone

	MaterialName string
	MaterialID   int

	Compiled bool
}

const minVal = internal.MinVal

// Compile consumes a raw SKN buffer, decodes it into s's geometry and
// bone records, resolves each bone's body name and the skin's material
// name against graph, and renormalizes per-vertex weights so every
// covered vertex's bone weights sum to 1.
func (s *Skin) Compile(buf []byte, graph scene.Graph) error {
	if err := s.decode(buf); err != nil {
		return err
	}
	return s.resolve(graph)
}

// UserArrays stages a caller-supplied skin in place of an SKN file: one
// flat array per channel, plus one bone-name/vertid/vertweight triple per
// bone. Supplying both a file and UserArrays on the same Skin is the
// caller's mistake, not this package's to detect — Compile and
// CompileArrays are mutually exclusive entry points.
type UserArrays struct {
	Vert     []float64 // flattened x,y,z triples
	Texcoord []float64 // flattened u,v pairs, optional
	Face     []int32   // flattened vertex triples, optional

	BoneName   []string
	BindPos    []float64 // flattened x,y,z triples, one per bone
	BindQuat   []float64 // flattened w,x,y,z quadruples, one per bone
	VertID     [][]int32
	VertWeight [][]float64

	MaterialName string
}

// CompileArrays consumes caller-supplied arrays in place of an SKN file:
// it validates array sizes the way decode validates the binary layout,
// then runs the same resolve/renormalize pass Compile does.
func (s *Skin) CompileArrays(u UserArrays, graph scene.Graph) error {
	if err := s.ingestArrays(u); err != nil {
		return err
	}
	return s.resolve(graph)
}

func (s *Skin) ingestArrays(u UserArrays) error {
	if len(u.Vert)%3 != 0 {
		return newErr(SizeMismatch, s.ID, "vert length %d is not a multiple of 3", len(u.Vert))
	}
	nvert := len(u.Vert) / 3

	if u.Texcoord != nil && len(u.Texcoord) != 2*nvert {
		return newErr(SizeMismatch, s.ID, "texcoord length %d does not equal 2*nvert (%d)", len(u.Texcoord), 2*nvert)
	}
	if len(u.Face)%3 != 0 {
		return newErr(SizeMismatch, s.ID, "face length %d is not a multiple of 3", len(u.Face))
	}

	nbone := len(u.BoneName)
	if len(u.BindPos) != 3*nbone {
		return newErr(SizeMismatch, s.ID, "bindpos length %d does not equal 3*nbone (%d)", len(u.BindPos), 3*nbone)
	}
	if len(u.BindQuat) != 4*nbone {
		return newErr(SizeMismatch, s.ID, "bindquat length %d does not equal 4*nbone (%d)", len(u.BindQuat), 4*nbone)
	}
	if len(u.VertID) != nbone || len(u.VertWeight) != nbone {
		return newErr(SizeMismatch, s.ID, "vertid/vertweight have %d/%d entries, want %d (one per bone)", len(u.VertID), len(u.VertWeight), nbone)
	}

	vert := make([][3]float64, nvert)
	for i := range vert {
		vert[i] = [3]float64{u.Vert[3*i], u.Vert[3*i+1], u.Vert[3*i+2]}
	}

	var texcoord []UV
	if u.Texcoord != nil {
		texcoord = make([]UV, nvert)
		for i := range texcoord {
			texcoord[i] = UV{u.Texcoord[2*i], u.Texcoord[2*i+1]}
		}
	}

	face := make([]Tri, len(u.Face)/3)
	for i := range face {
		for k := 0; k < 3; k++ {
			idx := u.Face[3*i+k]
			if idx < 0 || int(idx) >= nvert {
				return newErr(IndexOutOfRange, s.ID, "face %d references vertex %d outside [0,%d)", i, idx, nvert)
			}
			face[i][k] = idx
		}
	}

	bones := make([]Bone, nbone)
	for i := range bones {
		bones[i].BodyName = u.BoneName[i]
		bones[i].BindPos = [3]float64{u.BindPos[3*i], u.BindPos[3*i+1], u.BindPos[3*i+2]}
		bones[i].BindQuat = internal.Quat{
			W: u.BindQuat[4*i], X: u.BindQuat[4*i+1], Y: u.BindQuat[4*i+2], Z: u.BindQuat[4*i+3],
		}.Normalized()

		vertID := u.VertID[i]
		weight := u.VertWeight[i]
		if len(vertID) == 0 || len(vertID) != len(weight) {
			return newErr(MissingData, s.ID, "bone %d has mismatched vertid/vertweight lengths", i)
		}
		for _, id := range vertID {
			if id < 0 || int(id) >= nvert {
				return newErr(IndexOutOfRange, s.ID, "bone %d references vertex %d outside [0,%d)", i, id, nvert)
			}
		}
		bones[i].VertID = append([]int32(nil), vertID...)
		bones[i].Weight = append([]float64(nil), weight...)
	}

	s.Vert = vert
	s.Texcoord = texcoord
	s.Face = face
	s.Bones = bones
	s.MaterialName = u.MaterialName
	return nil
}

func (s *Skin) decode(buf []byte) error {
	if len(buf) < 16 {
		return newErr(FormatInvalid, s.ID, "SKN buffer too small for header (%d bytes)", len(buf))
	}

	nvert := int32(binary.LittleEndian.Uint32(buf[0:4]))
	ntexcoord := int32(binary.LittleEndian.Uint32(buf[4:8]))
	nface := int32(binary.LittleEndian.Uint32(buf[8:12]))
	nbone := int32(binary.LittleEndian.Uint32(buf[12:16]))

	if nvert < 0 || ntexcoord < 0 || nface < 0 || nbone < 0 {
		return newErr(FormatInvalid, s.ID, "SKN header has a negative count")
	}

	minSize := 16 + 12*int(nvert) + 8*int(ntexcoord) + 12*int(nface)
	if len(buf) < minSize {
		return newErr(SizeMismatch, s.ID, "SKN buffer size %d is below the minimum %d", len(buf), minSize)
	}

	off := 16

	vert := make([][3]float64, nvert)
	for i := range vert {
		vert[i] = [3]float64{readFloat32(buf, &off), readFloat32(buf, &off), readFloat32(buf, &off)}
	}

	var texcoord []UV
	if ntexcoord > 0 {
		texcoord = make([]UV, ntexcoord)
		for i := range texcoord {
			texcoord[i] = UV{readFloat32(buf, &off), readFloat32(buf, &off)}
		}
	}

	face := make([]Tri, nface)
	for i := range face {
		a := int32(binary.LittleEndian.Uint32(buf[off:]))
		off += 4
		b := int32(binary.LittleEndian.Uint32(buf[off:]))
		off += 4
		c := int32(binary.LittleEndian.Uint32(buf[off:]))
		off += 4
		for _, idx := range [3]int32{a, b, c} {
			if idx < 0 || idx >= nvert {
				return newErr(IndexOutOfRange, s.ID, "SKN face references vertex %d outside [0,%d)", idx, nvert)
			}
		}
		face[i] = Tri{a, b, c}
	}

	bones := make([]Bone, nbone)
	for i := range bones {
		if off+40 > len(buf) {
			return newErr(SizeMismatch, s.ID, "SKN buffer truncated in bone %d name", i)
		}
		nameBytes := buf[off : off+40]
		off += 40
		bones[i].BodyName = cString(nameBytes)

		if off+12 > len(buf) {
			return newErr(SizeMismatch, s.ID, "SKN buffer truncated in bone %d bindpos", i)
		}
		bones[i].BindPos = [3]float64{readFloat32(buf, &off), readFloat32(buf, &off), readFloat32(buf, &off)}

		if off+16 > len(buf) {
			return newErr(SizeMismatch, s.ID, "SKN buffer truncated in bone %d bindquat", i)
		}
		w := readFloat32(buf, &off)
		x := readFloat32(buf, &off)
		y := readFloat32(buf, &off)
		z := readFloat32(buf, &off)
		bones[i].BindQuat = internal.Quat{W: w, X: x, Y: y, Z: z}.Normalized()

		if off+4 > len(buf) {
			return newErr(SizeMismatch, s.ID, "SKN buffer truncated in bone %d vertex count", i)
		}
		vcount := int32(binary.LittleEndian.Uint32(buf[off:]))
		off += 4
		if vcount < 1 {
			return newErr(FormatInvalid, s.ID, "bone %d has vertex count %d, want >= 1", i, vcount)
		}

		need := 4*int(vcount) + 4*int(vcount)
		if off+need > len(buf) {
			return newErr(SizeMismatch, s.ID, "SKN buffer truncated in bone %d vertex/weight arrays", i)
		}

		vertID := make([]int32, vcount)
		for j := range vertID {
			id := int32(binary.LittleEndian.Uint32(buf[off:]))
			off += 4
			if id < 0 || id >= nvert {
				return newErr(IndexOutOfRange, s.ID, "bone %d references vertex %d outside [0,%d)", i, id, nvert)
			}
			vertID[j] = id
		}
		weight := make([]float64, vcount)
		for j := range weight {
			weight[j] = readFloat32(buf, &off)
		}

		bones[i].VertID = vertID
		bones[i].Weight = weight
	}

	if off != len(buf) {
		return newErr(SizeMismatch, s.ID, "SKN buffer size %d does not match the %d bytes consumed", len(buf), off)
	}

	s.Vert = vert
	s.Texcoord = texcoord
	s.Face = face
	s.Bones = bones
	return nil
}

// resolve handles bone/material name resolution and weight
// renormalization.
func (s *Skin) resolve(graph scene.Graph) error {
	for i := range s.Bones {
		b, ok := graph.FindBody(s.Bones[i].BodyName)
		if !ok {
			return newErr(UnknownReference, s.ID, "bone %d references unknown body %q", i, s.Bones[i].BodyName)
		}
		s.Bones[i].BodyID = b.ID
	}

	s.MaterialID = -1
	if s.MaterialName != "" {
		m, ok := graph.FindMaterial(s.MaterialName)
		if !ok {
			return newErr(UnknownReference, s.ID, "skin references unknown material %q", s.MaterialName)
		}
		s.MaterialID = m.ID
	}

	totalWeight := make(map[int32]float64, len(s.Vert))
	for _, b := range s.Bones {
		for j, v := range b.VertID {
			totalWeight[v] += b.Weight[j]
		}
	}

	for v := range s.Vert {
		if totalWeight[int32(v)] <= minVal {
			return newErr(MissingData, s.ID, "vertex %d has near-zero total bone weight", v)
		}
	}
	for i, b := range s.Bones {
		if len(b.VertID) == 0 || len(b.VertID) != len(b.Weight) {
			return newErr(MissingData, s.ID, "bone %d has mismatched vertid/vertweight lengths", i)
		}
		for j, v := range b.VertID {
			total := totalWeight[v]
			if total <= minVal {
				return newErr(MissingData, s.ID, "vertex %d has near-zero total bone weight", v)
			}
			s.Bones[i].Weight[j] = b.Weight[j] / total
		}
	}

	s.Compiled = true
	return nil
}

func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

func readFloat32(buf []byte, off *int) float64 {
	bits := binary.LittleEndian.Uint32(buf[*off:])
	*off += 4
	return float64(math.Float32frombits(bits))
}
