package mesh

import (
	"go.uber.org/zap"

	gohull "github.com/LHTXQ/mujoco-deepmind/hull"
)

// HullGraph is a packed convex-hull description: per hull-vertex
// neighbor runs and triangular facets, over a subset of the mesh's own
// vertices (their original indices are kept in VertGlobalID).
type HullGraph struct {
	NumVert int
	NumFace int

	// VertEdgeAdr[i] is the starting offset into EdgeLocalID for hull
	// vertex i's neighbor run.
	VertEdgeAdr []int32
	// VertGlobalID[i] is hull vertex i's index in the owning Mesh.Vert.
	VertGlobalID []int32
	// EdgeLocalID holds the per-vertex neighbor runs, each terminated by
	// -1, with neighbor ids expressed in hull-local numbering.
	EdgeLocalID []int32
	// Face holds NumFace triples of local hull-vertex ids.
	Face []Tri
}

// Size returns the packed integer length of the graph: 2 + 3*numvert +
// 6*numface.
func (g *HullGraph) Size() int {
	return 2 + 3*g.NumVert + 6*g.NumFace
}

// facesAsTri copies the hull's faces, translated from hull-local to
// mesh-global vertex ids, for use as a mesh's own Face array when faces
// are missing.
func (g *HullGraph) facesAsTri() []Tri {
	out := make([]Tri, g.NumFace)
	for i, f := range g.Face {
		out[i] = Tri{
			g.VertGlobalID[f[0]],
			g.VertGlobalID[f[1]],
			g.VertGlobalID[f[2]],
		}
	}
	return out
}

// buildHull invokes the external hull kernel and packs hull vertices,
// per-vertex neighbor lists, and hull faces into a HullGraph, which keeps
// each of these in its own slice. The hull is a pure function of Vert at the
// moment of invocation, so callers must build it before Process
// translates/rotates Vert in place.
func (m *Mesh) buildHull(kernel gohull.Kernel, log *zap.Logger) error {
	result, err := kernel.Hull(m.Vert)
	if err != nil {
		return wrapErr(HullFailure, m.ID, err, "convex hull construction failed")
	}

	for _, f := range result.Facets {
		if f.A == f.B || f.B == f.C || f.A == f.C {
			return newErr(InternalConsistency, m.ID, "hull kernel produced a degenerate facet")
		}
	}

	g, err := packGraph(result)
	if err != nil {
		// A rejected graph is discarded and logged; compilation continues
		// without a hull rather than failing outright.
		log.Warn("hull graph rejected; compiling without a hull",
			zap.String("mesh", m.ID), zap.Error(err))
		return nil
	}

	m.Graph = g
	return nil
}

// packGraph builds the packed graph layout from a kernel Result. Edges
// are emitted in hull-local numbering: facet vertex ids arrive as indices
// into the mesh's vertex slice and are translated to hull-local ids
// through a global->local table before the faces are stored, and the
// neighbor runs are then built from those already-local faces.
func packGraph(result gohull.Result) (*HullGraph, error) {
	numVert := len(result.HullVertices)
	numFace := len(result.Facets)
	if numVert == 0 || numFace == 0 {
		return nil, newErr(InternalConsistency, "", "hull kernel returned an empty hull")
	}

	globalToLocal := make(map[int]int32, numVert)
	for local, global := range result.HullVertices {
		globalToLocal[global] = int32(local)
	}

	g := &HullGraph{
		NumVert:      numVert,
		NumFace:      numFace,
		VertEdgeAdr:  make([]int32, numVert),
		VertGlobalID: make([]int32, numVert),
		Face:         make([]Tri, numFace),
	}

	for local, global := range result.HullVertices {
		g.VertGlobalID[local] = int32(global)
	}

	for fi, f := range result.Facets {
		a, ok1 := globalToLocal[f.A]
		b, ok2 := globalToLocal[f.B]
		c, ok3 := globalToLocal[f.C]
		if !ok1 || !ok2 || !ok3 {
			return nil, newErr(InternalConsistency, "", "hull facet references a non-hull vertex")
		}
		if f.Flipped {
			a, b = b, a
		}
		g.Face[fi] = Tri{a, b, c}
	}

	// build per-vertex neighbor runs from facet adjacency: for each hull
	// vertex, the set of vertices it shares a facet edge with.
	neighborSets := make([]map[int32]bool, numVert)
	for i := range neighborSets {
		neighborSets[i] = make(map[int32]bool)
	}
	for _, f := range g.Face {
		addNeighbor(neighborSets, f[0], f[1])
		addNeighbor(neighborSets, f[1], f[2])
		addNeighbor(neighborSets, f[2], f[0])
	}

	edges := make([]int32, 0, 3*numVert+numVert)
	for i := 0; i < numVert; i++ {
		g.VertEdgeAdr[i] = int32(len(edges))
		for n := range neighborSets[i] {
			edges = append(edges, n)
		}
		edges = append(edges, -1)
	}
	g.EdgeLocalID = edges

	return g, nil
}

func addNeighbor(sets []map[int32]bool, a, b int32) {
	sets[a][b] = true
	sets[b][a] = true
}
