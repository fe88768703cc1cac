package mesh

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/LHTXQ/mujoco-deepmind/scene"
	"github.com/LHTXQ/mujoco-deepmind/vfs"
)

// buildSTL assembles a binary STL buffer from raw triangles, following
// the 80-byte-header + uint32-count + 50-byte-record layout.
func buildSTL(tris [][3][3]float32) []byte {
	buf := make([]byte, 80+4+50*len(tris))
	binary.LittleEndian.PutUint32(buf[80:84], uint32(len(tris)))

	off := 84
	for _, tri := range tris {
		off += 12 // skip the file's own face normal; zero is fine
		for _, v := range tri {
			binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v[0]))
			binary.LittleEndian.PutUint32(buf[off+4:], math.Float32bits(v[1]))
			binary.LittleEndian.PutUint32(buf[off+8:], math.Float32bits(v[2]))
			off += 12
		}
		off += 2 // attribute byte count
	}
	return buf
}

// unitCubeTriangles returns the 12 outward-wound triangles of the unit
// cube with corners in {0,1}^3, duplicating vertices per-triangle the way
// a raw STL stream does.
func unitCubeTriangles() [][3][3]float32 {
	v := func(x, y, z float32) [3]float32 { return [3]float32{x, y, z} }
	v000, v100, v110, v010 := v(0, 0, 0), v(1, 0, 0), v(1, 1, 0), v(0, 1, 0)
	v001, v101, v111, v011 := v(0, 0, 1), v(1, 0, 1), v(1, 1, 1), v(0, 1, 1)

	return [][3][3]float32{
		{v000, v010, v110}, {v000, v110, v100}, // bottom, -Z
		{v001, v101, v111}, {v001, v111, v011}, // top, +Z
		{v000, v100, v101}, {v000, v101, v001}, // front, -Y
		{v010, v011, v111}, {v010, v111, v110}, // back, +Y
		{v000, v001, v011}, {v000, v011, v010}, // left, -X
		{v100, v110, v111}, {v100, v111, v101}, // right, +X
	}
}

func compileSTL(t *testing.T, id string, data []byte) *Mesh {
	t.Helper()
	fs := vfs.Memory{id + ".stl": data}
	graph := scene.NewStatic()
	m := New(id)
	m.File = id + ".stl"
	if err := m.Compile(fs, graph, nil, nil); err != nil {
		t.Fatalf("Compile failed: %+v", err)
	}
	return m
}

func TestCompileUnitCube(t *testing.T) {
	m := compileSTL(t, "cube", buildSTL(unitCubeTriangles()))

	if got := m.NVert(); got != 8 {
		t.Fatalf("NVert() = %d, want 8", got)
	}

	vol, ok := m.VolumeRef(Volume)
	if !ok || math.Abs(vol-1) > 1e-6 {
		t.Fatalf("VolumeRef(Volume) = %v, ok=%v, want ~1", vol, ok)
	}

	surf, ok := m.VolumeRef(Shell)
	if !ok || math.Abs(surf-6) > 1e-6 {
		t.Fatalf("VolumeRef(Shell) = %v, ok=%v, want ~6", surf, ok)
	}

	box, err := m.InertiaBoxPtr(Volume)
	if err != nil {
		t.Fatalf("InertiaBoxPtr(Volume): %+v", err)
	}
	for i, want := range [3]float64{0.5, 0.5, 0.5} {
		if math.Abs(box[i]-want) > 1e-4 {
			t.Errorf("box[%d] = %v, want ~%v", i, box[i], want)
		}
	}

	// After the volume pass recenters the mesh on its CoM and rotates it
	// into its principal frame, the AABB should be symmetric about the
	// origin with half-extent 0.5 on every axis.
	for k := 0; k < 3; k++ {
		if math.Abs(m.AABBMin[k]+0.5) > 1e-4 || math.Abs(m.AABBMax[k]-0.5) > 1e-4 {
			t.Errorf("AABB axis %d = [%v,%v], want [-0.5,0.5]", k, m.AABBMin[k], m.AABBMax[k])
		}
	}
}

// scaleneTetrahedronTriangles returns the 4 outward-wound faces of a
// tetrahedron with three different edge lengths along each axis from the
// origin, translated by off. Unlike the unit cube, this shape has no
// symmetry about its own center of mass, so its area-weighted facecen and
// its volume-weighted center of mass land at different points — exactly
// the condition that distinguishes a correct apex-at-origin inertia
// integration from one that mistakenly reuses the pre-centering facecen.
func scaleneTetrahedronTriangles(off [3]float32) [][3][3]float32 {
	v := func(x, y, z float32) [3]float32 {
		return [3]float32{x + off[0], y + off[1], z + off[2]}
	}
	p0 := v(0, 0, 0)
	p1 := v(3, 0, 0)
	p2 := v(0, 2, 0)
	p3 := v(0, 0, 1)

	return [][3][3]float32{
		{p0, p2, p1},
		{p0, p1, p3},
		{p0, p3, p2},
		{p1, p2, p3},
	}
}

// TestCompileInertiaBoxTranslationInvariant checks that InertiaBoxPtr
// doesn't depend on where a mesh sits before compilation: the same shape
// translated in space must yield the same equivalent-box half-extents,
// since the inertia tensor is computed about the mesh's own center of
// mass. A stale apex left over from before recentering would leak the
// pre-translation offset into the result.
func TestCompileInertiaBoxTranslationInvariant(t *testing.T) {
	base := compileSTL(t, "tetra0", buildSTL(scaleneTetrahedronTriangles([3]float32{0, 0, 0})))
	moved := compileSTL(t, "tetra1", buildSTL(scaleneTetrahedronTriangles([3]float32{5, -7, 2})))

	boxBase, err := base.InertiaBoxPtr(Volume)
	if err != nil {
		t.Fatalf("InertiaBoxPtr(Volume) on base: %+v", err)
	}
	boxMoved, err := moved.InertiaBoxPtr(Volume)
	if err != nil {
		t.Fatalf("InertiaBoxPtr(Volume) on moved: %+v", err)
	}

	for i := range boxBase {
		if math.Abs(boxBase[i]-boxMoved[i]) > 1e-6 {
			t.Errorf("box[%d] = %v for untranslated mesh, %v for translated mesh, want equal", i, boxBase[i], boxMoved[i])
		}
	}
}

func TestCompileCoincidentVerticesDedup(t *testing.T) {
	tris := unitCubeTriangles()
	// Replicate the cube's 12 triangles many times over with their own
	// private vertex copies, simulating a raw STL stream where every
	// triangle carries independent, coincident vertex data.
	var expanded [][3][3]float32
	for i := 0; i < 9; i++ {
		expanded = append(expanded, tris...)
	}
	if len(expanded) != 108 {
		t.Fatalf("expected 108 triangles, got %d", len(expanded))
	}

	m := compileSTL(t, "dup", buildSTL(expanded))

	if got := m.NVert(); got != 8 {
		t.Fatalf("NVert() = %d, want 8 distinct points after dedup", got)
	}
}

func TestCompileInconsistentWinding(t *testing.T) {
	// Two triangles sharing edge (0,1), both emitting the same directed
	// half-edge (0,1): a flipped-normal neighbor.
	tris := []Tri{{0, 1, 2}, {0, 1, 3}}
	vert := []float32{
		0, 0, 0,
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}

	buf := make([]byte, 16+12*4+12*2)
	binary.LittleEndian.PutUint32(buf[0:4], 4)
	binary.LittleEndian.PutUint32(buf[4:8], 0)
	binary.LittleEndian.PutUint32(buf[8:12], 0)
	binary.LittleEndian.PutUint32(buf[12:16], 2)

	off := 16
	for i := 0; i < 4*3; i++ {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(vert[i]))
		off += 4
	}
	for _, tri := range tris {
		for _, idx := range tri {
			binary.LittleEndian.PutUint32(buf[off:], uint32(idx))
			off += 4
		}
	}

	fs := vfs.Memory{"bad.msh": buf}
	graph := scene.NewStatic()
	m := New("bad")
	m.File = "bad.msh"
	if err := m.Compile(fs, graph, nil, nil); err != nil {
		t.Fatalf("Compile failed: %+v", err)
	}

	if m.InvalidOrientation[0] != 1 || m.InvalidOrientation[1] != 2 {
		t.Fatalf("InvalidOrientation = %v, want [1 2]", m.InvalidOrientation)
	}

	if err := m.CheckMesh(); err == nil {
		t.Fatal("CheckMesh() = nil, want InconsistentOrientation")
	} else if e, ok := err.(*Error); !ok || e.Kind != InconsistentOrientation {
		t.Fatalf("CheckMesh() = %v, want InconsistentOrientation", err)
	}
}
