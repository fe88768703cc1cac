package mesh

import (
	"testing"

	"github.com/LHTXQ/mujoco-deepmind/scene"
	"github.com/LHTXQ/mujoco-deepmind/vfs"
)

// TestLoadOBJQuadSplit checks that a single quad face is split into two
// triangles (v0,v1,v2) and (v0,v2,v3) under positive scale.
func TestLoadOBJQuadSplit(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`
	m := New("quad")
	if err := m.loadOBJ([]byte(src)); err != nil {
		t.Fatalf("loadOBJ failed: %+v", err)
	}

	if len(m.Face) != 2 {
		t.Fatalf("Face count = %d, want 2", len(m.Face))
	}
	if m.Face[0] != (Tri{0, 1, 2}) {
		t.Errorf("Face[0] = %v, want {0 1 2}", m.Face[0])
	}
	if m.Face[1] != (Tri{0, 2, 3}) {
		t.Errorf("Face[1] = %v, want {0 2 3}", m.Face[1])
	}
}

// TestCompileOBJQuad compiles the two triangles a quad (v0,v1,v2,v3)
// splits into, given as two triangle records with v3 lifted off the
// plane, through the full compile pipeline to confirm the mesh package's
// dispatch picks loadOBJ for a .obj extension and produces a usable mesh
// end to end. Quad splitting itself is covered by TestLoadOBJQuadSplit.
func TestCompileOBJQuad(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 1
f 1 2 3
f 1 3 4
`
	fs := vfs.Memory{"quad.obj": []byte(src)}
	graph := scene.NewStatic()
	m := New("quad")
	m.File = "quad.obj"
	if err := m.Compile(fs, graph, nil, nil); err != nil {
		t.Fatalf("Compile failed: %+v", err)
	}
	if m.NVert() != 4 {
		t.Fatalf("NVert() = %d, want 4", m.NVert())
	}
}
