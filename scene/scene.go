// Package scene is a minimal stand-in for an owning scene graph: it
// resolves body/material names and owns default parameters. It exposes
// just enough surface for skin compilation to resolve bone/material
// references and for the mesh compiler to read its caller-tunable
// defaults.
package scene

// Body is a named rigid-body reference frame. The skin compiler resolves
// bone names against a Graph's bodies.
type Body struct {
	ID   int
	Name string
}

// Material is a named surface material. Skin faces may reference one;
// empty names resolve to no material (matid = -1).
type Material struct {
	ID   int
	Name string
}

// Defaults carries the caller-tunable knobs a model and its default geom
// class contribute: ModelFileDir/MeshDir feed VFS path resolution,
// Density and ExactMeshInertia feed the mass-properties engine, and
// FitAABB feeds FitGeom.
type Defaults struct {
	ModelFileDir     string
	MeshDir          string
	Density          float64
	ExactMeshInertia bool
	FitAABB          bool
}

// DefaultDefaults mirrors the original compiler's built-in defaults: a
// density of 1000, legacy (inexact, absolute-value) mesh inertia, and inertia-box
// fitting rather than AABB fitting.
func DefaultDefaults() Defaults {
	return Defaults{
		Density:          1000,
		ExactMeshInertia: false,
		FitAABB:          false,
	}
}

// Graph is the collaborator surface the mesh and skin compilers consume
// from the owning scene graph: object-name resolution plus the shared
// default parameters.
type Graph interface {
	FindBody(name string) (Body, bool)
	FindMaterial(name string) (Material, bool)
	Defaults() Defaults
}

// Static is a trivial in-memory Graph for tests and for standalone use of
// the compiler outside a full scene.
type Static struct {
	Bodies    map[string]Body
	Materials map[string]Material
	Def       Defaults
}

// NewStatic builds a Static graph with the compiler's default parameters
// and empty name tables.
func NewStatic() *Static {
	return &Static{
		Bodies:    make(map[string]Body),
		Materials: make(map[string]Material),
		Def:       DefaultDefaults(),
	}
}

// FindBody implements Graph.
func (s *Static) FindBody(name string) (Body, bool) {
	b, ok := s.Bodies[name]
	return b, ok
}

// FindMaterial implements Graph.
func (s *Static) FindMaterial(name string) (Material, bool) {
	m, ok := s.Materials[name]
	return m, ok
}

// Defaults implements Graph.
func (s *Static) Defaults() Defaults {
	return s.Def
}

// AddBody registers a body under name, assigning it the next id.
func (s *Static) AddBody(name string) Body {
	b := Body{ID: len(s.Bodies), Name: name}
	s.Bodies[name] = b
	return b
}

// AddMaterial registers a material under name, assigning it the next id.
func (s *Static) AddMaterial(name string) Material {
	m := Material{ID: len(s.Materials), Name: name}
	s.Materials[name] = m
	return m
}
