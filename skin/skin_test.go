package skin

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/LHTXQ/mujoco-deepmind/scene"
)

func putFloat32(buf []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
}

// buildSKN assembles a binary SKN buffer with four vertices, no
// texcoords/faces, and two bones: bone A weights {0:1, 1:2}, bone B
// weights {2:1, 3:3, 1:2}.
func buildSKN() []byte {
	nvert, ntexcoord, nface, nbone := 4, 0, 0, 2

	boneA := struct {
		vertID []int32
		weight []float32
	}{vertID: []int32{0, 1}, weight: []float32{1, 2}}
	boneB := struct {
		vertID []int32
		weight []float32
	}{vertID: []int32{2, 3, 1}, weight: []float32{1, 3, 2}}

	size := 16 + 12*nvert + 8*ntexcoord + 12*nface
	size += 40 + 12 + 16 + 4 + 8*len(boneA.vertID) // name+bindpos+bindquat+count+(id+weight)
	size += 40 + 12 + 16 + 4 + 8*len(boneB.vertID)

	buf := make([]byte, size)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(nvert))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(ntexcoord))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(nface))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(nbone))

	off := 16
	verts := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	for _, v := range verts {
		putFloat32(buf, off, v[0])
		putFloat32(buf, off+4, v[1])
		putFloat32(buf, off+8, v[2])
		off += 12
	}

	writeBone := func(name string, bone struct {
		vertID []int32
		weight []float32
	}) {
		copy(buf[off:off+40], name)
		off += 40
		putFloat32(buf, off, 0) // bindpos
		putFloat32(buf, off+4, 0)
		putFloat32(buf, off+8, 0)
		off += 12
		putFloat32(buf, off, 1) // bindquat identity
		putFloat32(buf, off+4, 0)
		putFloat32(buf, off+8, 0)
		putFloat32(buf, off+12, 0)
		off += 16
		binary.LittleEndian.PutUint32(buf[off:], uint32(len(bone.vertID)))
		off += 4
		for _, id := range bone.vertID {
			binary.LittleEndian.PutUint32(buf[off:], uint32(id))
			off += 4
		}
		for _, w := range bone.weight {
			putFloat32(buf, off, w)
			off += 4
		}
	}

	writeBone("boneA", boneA)
	writeBone("boneB", boneB)

	return buf
}

func TestSkinCompileTwoBoneNormalization(t *testing.T) {
	graph := scene.NewStatic()
	graph.AddBody("boneA")
	graph.AddBody("boneB")

	s := &Skin{ID: "skn0"}
	if err := s.Compile(buildSKN(), graph); err != nil {
		t.Fatalf("Compile failed: %+v", err)
	}

	if len(s.Bones) != 2 {
		t.Fatalf("len(Bones) = %d, want 2", len(s.Bones))
	}

	want := map[string]map[int32]float64{
		"boneA": {0: 1.0, 1: 0.5},
		"boneB": {2: 1.0, 3: 1.0, 1: 0.5},
	}

	for _, b := range s.Bones {
		wantWeights := want[b.BodyName]
		if wantWeights == nil {
			t.Fatalf("unexpected bone %q", b.BodyName)
		}
		for j, v := range b.VertID {
			if math.Abs(b.Weight[j]-wantWeights[v]) > 1e-9 {
				t.Errorf("bone %q vertex %d weight = %v, want %v", b.BodyName, v, b.Weight[j], wantWeights[v])
			}
		}
	}
}

// TestSkinCompileArraysTwoBoneNormalization exercises CompileArrays with
// the same two-bone weight scenario as TestSkinCompileTwoBoneNormalization,
// since caller-supplied arrays and an SKN file are meant to produce
// identical normalization behavior.
func TestSkinCompileArraysTwoBoneNormalization(t *testing.T) {
	graph := scene.NewStatic()
	graph.AddBody("boneA")
	graph.AddBody("boneB")

	u := UserArrays{
		Vert:     []float64{0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1},
		BoneName: []string{"boneA", "boneB"},
		BindPos:  []float64{0, 0, 0, 0, 0, 0},
		BindQuat: []float64{1, 0, 0, 0, 1, 0, 0, 0},
		VertID:   [][]int32{{0, 1}, {2, 3, 1}},
		VertWeight: [][]float64{
			{1, 2},
			{1, 3, 2},
		},
	}

	s := &Skin{ID: "skn-arrays"}
	if err := s.CompileArrays(u, graph); err != nil {
		t.Fatalf("CompileArrays failed: %+v", err)
	}

	want := map[string]map[int32]float64{
		"boneA": {0: 1.0, 1: 0.5},
		"boneB": {2: 1.0, 3: 1.0, 1: 0.5},
	}
	for _, b := range s.Bones {
		wantWeights := want[b.BodyName]
		for j, v := range b.VertID {
			if math.Abs(b.Weight[j]-wantWeights[v]) > 1e-9 {
				t.Errorf("bone %q vertex %d weight = %v, want %v", b.BodyName, v, b.Weight[j], wantWeights[v])
			}
		}
	}
}

// TestSkinCompileArraysSizeMismatch checks that a bindquat array of the
// wrong length is rejected before any resolution is attempted.
func TestSkinCompileArraysSizeMismatch(t *testing.T) {
	graph := scene.NewStatic()
	u := UserArrays{
		Vert:       []float64{0, 0, 0, 1, 0, 0},
		BoneName:   []string{"boneA"},
		BindPos:    []float64{0, 0, 0},
		BindQuat:   []float64{1, 0, 0}, // wrong: want 4
		VertID:     [][]int32{{0}},
		VertWeight: [][]float64{{1}},
	}

	s := &Skin{ID: "skn-bad"}
	err := s.CompileArrays(u, graph)
	if err == nil {
		t.Fatal("CompileArrays() = nil, want SizeMismatch error")
	}
	if e, ok := err.(*Error); !ok || e.Kind != SizeMismatch {
		t.Fatalf("CompileArrays() = %v, want SizeMismatch", err)
	}
}

func TestSkinCompileUnknownBody(t *testing.T) {
	graph := scene.NewStatic()
	s := &Skin{ID: "skn1"}
	err := s.Compile(buildSKN(), graph)
	if err == nil {
		t.Fatal("Compile() = nil, want UnknownReference error")
	}
	if e, ok := err.(*Error); !ok || e.Kind != UnknownReference {
		t.Fatalf("Compile() = %v, want UnknownReference", err)
	}
}
