// Package mesh implements the mesh-compilation core of the simulation
// pipeline: ingestion of triangular surface meshes from STL/OBJ/MSH or
// caller-supplied arrays, vertex deduplication, orientation auditing,
// convex-hull construction, normal synthesis, and rigid-body
// mass-property computation under both volumetric and shell
// interpretations.
package mesh

import (
	"github.com/ungerik/go3d/float64/vec3"

	"github.com/LHTXQ/mujoco-deepmind/internal"
)

// Type selects which physical interpretation Process computes inertia
// under.
type Type int

const (
	// Volume treats the mesh as a solid with uniform volumetric density.
	Volume Type = iota
	// Shell treats the mesh as a thin surface with surface density.
	Shell
)

// Tri is a triangle's three vertex indices.
type Tri [3]int32

// UV is a 2-D texture coordinate.
type UV [2]float64

// userArrays stages unvalidated caller-supplied geometry prior to ingest.
// Every field mirrors a canonical array one-to-one but has not yet been
// size/index checked.
type userArrays struct {
	vert         []float64
	normal       []float64
	texcoord     []float64
	face         []int32
	faceNormal   []int32
	faceTexcoord []int32
}

// Mesh is a single mesh's compile input and output: staged arrays or a
// source file on one side, canonical geometry and mass properties on the
// other.
type Mesh struct {
	// ID names the mesh for diagnostics and error messages.
	ID string

	// File is the source path when the mesh is loaded from a file;
	// empty when populated entirely from caller-supplied arrays.
	File string

	// Pre-transform applied at Process.
	RefPos  vec3.T
	RefQuat internal.Quat
	Scale   vec3.T

	// SmoothNormal disables crease preservation in normal synthesis.
	SmoothNormal bool

	user userArrays

	// Canonical geometry.
	Vert         []vec3.T
	Normal       []vec3.T
	Texcoord     []UV
	Face         []Tri
	FaceNormal   []Tri
	FaceTexcoord []Tri

	// Edge audit list: directed half-edges (a, b) in the order they were
	// emitted by the reader or synthesized from faces.
	edges []edge

	// Graph is the packed convex-hull description, or nil if no hull was
	// built.
	Graph *HullGraph

	// Mass-property outputs, valid only after Processed.
	PosVolume, PosSurface     vec3.T
	QuatVolume, QuatSurface   internal.Quat
	BoxSzVolume, BoxSzSurface vec3.T
	VolumeTotal, SurfaceTotal float64
	AABBMin, AABBMax          vec3.T

	// Validity flags, set during mass-property processing.
	InvalidOrientation [2]int // 1-indexed vertex pair, zero when absent
	ValidArea          bool
	ValidVolume        bool
	ValidEigenvalue    bool
	ValidInequality    bool

	// Processed gates post-compile accessors that depend on inertia
	// fields.
	Processed bool

	wantHull bool
}

type edge struct {
	a, b int32
}

// New constructs a mesh with identity reference pose, unit scale, and
// smooth-normal disabled (crease preservation on).
func New(id string) *Mesh {
	return &Mesh{
		ID:              id,
		RefQuat:         internal.Identity,
		Scale:           vec3.T{1, 1, 1},
		ValidArea:       true,
		ValidVolume:     true,
		ValidEigenvalue: true,
		ValidInequality: true,
	}
}

// RequestHull marks that Compile should build a convex-hull graph even
// when faces are already present.
func (m *Mesh) RequestHull() {
	m.wantHull = true
}

// NVert returns the number of canonical vertices.
func (m *Mesh) NVert() int { return len(m.Vert) }

// NFace returns the number of canonical faces.
func (m *Mesh) NFace() int { return len(m.Face) }

// SetUserVert stages caller-supplied vertex positions (flattened x,y,z
// triples) ahead of Compile.
func (m *Mesh) SetUserVert(flat []float64) { m.user.vert = flat }

// SetUserNormal stages caller-supplied normals (flattened x,y,z triples).
func (m *Mesh) SetUserNormal(flat []float64) { m.user.normal = flat }

// SetUserTexcoord stages caller-supplied texture coordinates (flattened
// u,v pairs).
func (m *Mesh) SetUserTexcoord(flat []float64) { m.user.texcoord = flat }

// SetUserFace stages caller-supplied face indices (flattened vertex
// triples).
func (m *Mesh) SetUserFace(flat []int32) { m.user.face = flat }

// SetUserFaceNormal stages caller-supplied per-corner normal indices.
func (m *Mesh) SetUserFaceNormal(flat []int32) { m.user.faceNormal = flat }

// SetUserFaceTexcoord stages caller-supplied per-corner texcoord indices.
func (m *Mesh) SetUserFaceTexcoord(flat []int32) { m.user.faceTexcoord = flat }

// PosPtr returns the center of mass under the given interpretation.
// Accessing this before Compile succeeds returns the zero vector and
// ok=false rather than erroring.
func (m *Mesh) PosPtr(t Type) (vec3.T, bool) {
	if !m.Processed {
		return vec3.T{}, false
	}
	if t == Volume {
		return m.PosVolume, true
	}
	return m.PosSurface, true
}

// QuatPtr returns the principal-frame quaternion. See PosPtr for
// pre-processed semantics.
func (m *Mesh) QuatPtr(t Type) (internal.Quat, bool) {
	if !m.Processed {
		return internal.Quat{}, false
	}
	if t == Volume {
		return m.QuatVolume, true
	}
	return m.QuatSurface, true
}

// InertiaBoxPtr returns the equivalent inertia box half-extents. Before
// Compile succeeds it returns the zero vector and a nil error;
// post-processed access additionally runs CheckMesh, surfacing any
// lazily-raised degeneracy/orientation error.
func (m *Mesh) InertiaBoxPtr(t Type) (vec3.T, error) {
	if !m.Processed {
		return vec3.T{}, nil
	}
	if err := m.CheckMesh(); err != nil {
		return vec3.T{}, err
	}
	if t == Volume {
		return m.BoxSzVolume, nil
	}
	return m.BoxSzSurface, nil
}

// VolumeRef returns the total volume (Volume) or surface area (Shell).
// See PosPtr for pre-processed semantics.
func (m *Mesh) VolumeRef(t Type) (float64, bool) {
	if !m.Processed {
		return 0, false
	}
	if t == Volume {
		return m.VolumeTotal, true
	}
	return m.SurfaceTotal, true
}

// CheckMesh raises DegenerateGeometry and InconsistentOrientation: these
// are detected during Compile but only reported the first time a caller
// tries to read an inertia-dependent field.
func (m *Mesh) CheckMesh() error {
	if m.InvalidOrientation[0] != 0 {
		return newErr(InconsistentOrientation, m.ID,
			"directed edge from vertex %d to vertex %d appears twice in the same winding direction",
			m.InvalidOrientation[0], m.InvalidOrientation[1])
	}
	if !m.ValidArea {
		return newErr(DegenerateGeometry, m.ID, "total face area is degenerate")
	}
	if !m.ValidVolume {
		return newErr(DegenerateGeometry, m.ID, "total volume is degenerate")
	}
	if !m.ValidEigenvalue {
		return newErr(DegenerateGeometry, m.ID, "inertia tensor has a non-positive eigenvalue")
	}
	if !m.ValidInequality {
		return newErr(DegenerateGeometry, m.ID, "inertia eigenvalues violate the triangle inequality")
	}
	return nil
}
