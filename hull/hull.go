// Package hull exposes a pluggable convex-hull kernel interface, with a
// from-scratch incremental hull builder, DefaultKernel, as its only
// implementation.
package hull

import (
	"fmt"
	"math"
	"sync"

	"github.com/ungerik/go3d/float64/vec3"
)

// Facet is a triangular hull face, given as indices into the point slice
// passed to Hull, plus a bit marking whether it needed reorientation to
// face outward.
type Facet struct {
	A, B, C int
	Flipped bool
}

// Result is what a Kernel returns on success: the hull's facets, and the
// index (into the original point slice) of every point that survived as a
// hull vertex, together with the set of facets incident to it.
type Result struct {
	HullVertices   []int   // original indices of points that are hull vertices
	VertexFacets   [][]int // per hull vertex (same order as HullVertices): facet indices
	Facets         []Facet
}

// Kernel computes the convex hull of a point cloud.
type Kernel interface {
	Hull(points []vec3.T) (Result, error)
}

// ErrKernel wraps any failure of the underlying hull computation,
// including a recovered panic. DefaultKernel.Hull recovers from panics
// and returns ErrKernel so a kernel failure always surfaces as a typed
// error rather than a crash.
type ErrKernel struct {
	Err error
}

func (e *ErrKernel) Error() string { return fmt.Sprintf("hull kernel failure: %v", e.Err) }
func (e *ErrKernel) Unwrap() error { return e.Err }

// kernelMu serializes hull invocations, modeling the contract a
// non-reentrant external kernel implementation would require even
// though DefaultKernel itself is reentrant.
var kernelMu sync.Mutex

// DefaultKernel is a from-scratch incremental 3-D convex hull builder over
// double-precision points: it seeds a tetrahedron, then inserts the
// remaining points one at a time, replacing the faces each point can see
// with new faces fanned from the horizon.
type DefaultKernel struct{}

// Hull implements Kernel.
func (DefaultKernel) Hull(points []vec3.T) (result Result, err error) {
	kernelMu.Lock()
	defer kernelMu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err = &ErrKernel{Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if len(points) < 4 {
		return Result{}, &ErrKernel{Err: fmt.Errorf("need at least 4 points, got %d", len(points))}
	}

	h, buildErr := buildHull(points)
	if buildErr != nil {
		return Result{}, &ErrKernel{Err: buildErr}
	}
	return h.toResult(), nil
}

// incremental hull state: a set of faces over the current hull vertex set,
// built by adding points one at a time and patching the horizon.
type face struct {
	a, b, c int // indices into the shared points slice
	normal  vec3.T
}

type incHull struct {
	points []vec3.T
	faces  []face
}

func buildHull(points []vec3.T) (*incHull, error) {
	i0, i1, i2, i3, err := initialTetrahedron(points)
	if err != nil {
		return nil, err
	}

	h := &incHull{points: points}
	h.addFace(i0, i1, i2)
	h.addFace(i0, i3, i1)
	h.addFace(i0, i2, i3)
	h.addFace(i1, i3, i2)
	h.fixOrientation(centroidOf(points, []int{i0, i1, i2, i3}))

	used := map[int]bool{i0: true, i1: true, i2: true, i3: true}

	for i := range points {
		if used[i] {
			continue
		}
		h.addPoint(i)
	}

	return h, nil
}

func (h *incHull) addFace(a, b, c int) {
	h.faces = append(h.faces, face{a, b, c, h.faceNormal(a, b, c)})
}

func (h *incHull) faceNormal(a, b, c int) vec3.T {
	pa, pb, pc := h.points[a], h.points[b], h.points[c]
	e1 := vec3.Sub(&pb, &pa)
	e2 := vec3.Sub(&pc, &pa)
	n := vec3.Cross(&e1, &e2)
	if n.Length() > 1e-300 {
		n.Normalize()
	}
	return n
}

// fixOrientation flips any face whose normal points toward interior,
// given a point known to be inside the hull.
func (h *incHull) fixOrientation(interior vec3.T) {
	for i, f := range h.faces {
		pa := h.points[f.a]
		toInterior := vec3.Sub(&interior, &pa)
		if vec3.Dot(&f.normal, &toInterior) > 0 {
			h.faces[i] = face{f.b, f.a, f.c, h.faceNormal(f.b, f.a, f.c)}
		}
	}
}

func centroidOf(points []vec3.T, idx []int) vec3.T {
	var c vec3.T
	for _, i := range idx {
		c.Add(&points[i])
	}
	c.Scale(1 / float64(len(idx)))
	return c
}

// addPoint inserts points[p] into the hull, removing faces visible from p
// and stitching new faces across the horizon.
func (h *incHull) addPoint(p int) {
	pt := h.points[p]

	visible := make([]bool, len(h.faces))
	anyVisible := false
	for i, f := range h.faces {
		pa := h.points[f.a]
		dir := vec3.Sub(&pt, &pa)
		if vec3.Dot(&f.normal, &dir) > 1e-9 {
			visible[i] = true
			anyVisible = true
		}
	}
	if !anyVisible {
		return // p is inside (or on) the current hull
	}

	// horizon edges: edges of visible faces shared with a non-visible
	// face (or unshared at all, which cannot happen for a closed hull).
	type edgeKey struct{ a, b int }
	edgeOwner := make(map[edgeKey]int) // directed edge -> face index

	for i, f := range h.faces {
		edgeOwner[edgeKey{f.a, f.b}] = i
		edgeOwner[edgeKey{f.b, f.c}] = i
		edgeOwner[edgeKey{f.c, f.a}] = i
	}

	var horizon []edgeKey
	for i, f := range h.faces {
		if !visible[i] {
			continue
		}
		for _, e := range [][2]int{{f.a, f.b}, {f.b, f.c}, {f.c, f.a}} {
			opp := edgeKey{e[1], e[0]}
			if owner, ok := edgeOwner[opp]; ok && !visible[owner] {
				horizon = append(horizon, edgeKey{e[0], e[1]})
			}
		}
	}

	kept := h.faces[:0:0]
	for i, f := range h.faces {
		if !visible[i] {
			kept = append(kept, f)
		}
	}
	h.faces = kept

	for _, e := range horizon {
		h.addFace(e.a, e.b, p)
	}
}

// toResult collapses the working face list into the Kernel Result shape:
// deduplicated hull vertices in first-seen order, per-vertex facet
// incidence, and the facet list itself (orientation bit left false —
// DefaultKernel always emits consistently wound faces, so no facet needs
// flipping by its caller).
func (h *incHull) toResult() Result {
	vertexFacetIdx := make(map[int][]int)
	order := make([]int, 0)
	seen := make(map[int]bool)

	register := func(v, faceIdx int) {
		if !seen[v] {
			seen[v] = true
			order = append(order, v)
		}
		vertexFacetIdx[v] = append(vertexFacetIdx[v], faceIdx)
	}

	facets := make([]Facet, len(h.faces))
	for i, f := range h.faces {
		facets[i] = Facet{A: f.a, B: f.b, C: f.c}
		register(f.a, i)
		register(f.b, i)
		register(f.c, i)
	}

	result := Result{
		HullVertices: order,
		VertexFacets: make([][]int, len(order)),
		Facets:       facets,
	}
	for i, v := range order {
		result.VertexFacets[i] = vertexFacetIdx[v]
	}
	return result
}

// initialTetrahedron finds four non-coplanar points to seed the hull,
// preferring extreme points along each axis for numerical robustness.
func initialTetrahedron(points []vec3.T) (i0, i1, i2, i3 int, err error) {
	minX, maxX := 0, 0
	for i, p := range points {
		if p[0] < points[minX][0] {
			minX = i
		}
		if p[0] > points[maxX][0] {
			maxX = i
		}
	}
	if minX == maxX {
		return 0, 0, 0, 0, fmt.Errorf("degenerate point set: no spread along x")
	}
	i0, i1 = minX, maxX

	p0, p1 := points[i0], points[i1]
	dir := vec3.Sub(&p1, &p0)

	best, bestDist := -1, -1.0
	for i, p := range points {
		d := distToLine(p, p0, dir)
		if d > bestDist {
			bestDist = d
			best = i
		}
	}
	if best < 0 || bestDist < 1e-12 {
		return 0, 0, 0, 0, fmt.Errorf("degenerate point set: collinear")
	}
	i2 = best

	n := planeNormal(points[i0], points[i1], points[i2])
	best, bestDist = -1, -1.0
	for i, p := range points {
		d := math.Abs(distToPlane(p, points[i0], n))
		if d > bestDist {
			bestDist = d
			best = i
		}
	}
	if best < 0 || bestDist < 1e-12 {
		return 0, 0, 0, 0, fmt.Errorf("degenerate point set: coplanar")
	}
	i3 = best

	return i0, i1, i2, i3, nil
}

func distToLine(p, origin vec3.T, dir vec3.T) float64 {
	d := dir
	d.Normalize()
	diff := vec3.Sub(&p, &origin)
	proj := vec3.Dot(&diff, &d)
	scaled := d.Scaled(proj)
	closest := vec3.Add(&origin, &scaled)
	return vec3.Distance(&p, &closest)
}

func planeNormal(a, b, c vec3.T) vec3.T {
	e1 := vec3.Sub(&b, &a)
	e2 := vec3.Sub(&c, &a)
	n := vec3.Cross(&e1, &e2)
	n.Normalize()
	return n
}

func distToPlane(p, origin, normal vec3.T) float64 {
	diff := vec3.Sub(&p, &origin)
	return vec3.Dot(&diff, &normal)
}
