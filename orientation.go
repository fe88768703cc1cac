package mesh

import "sort"

// addEdges appends the three directed half-edges of triangle (a,b,c) to
// the audit list, but only when the triangle's area exceeds the
// degenerate-triangle threshold: degenerate faces contribute nothing to
// the orientation audit.
func (m *Mesh) addEdges(a, b, c int32) {
	area, _, _ := triangleAreaCenterNormal(m.Vert[a], m.Vert[b], m.Vert[c])
	if area <= sqrtMinVal {
		return
	}
	m.edges = append(m.edges, edge{a, b}, edge{b, c}, edge{c, a})
}

// synthesizeEdgesFromFaces synthesizes edges from non-degenerate
// triangles when faces were supplied by the caller without edges.
func (m *Mesh) synthesizeEdgesFromFaces() {
	for _, f := range m.Face {
		m.addEdges(f[0], f[1], f[2])
	}
}

// auditOrientation sorts the edge list and detects the first duplicate
// adjacent pair — a directed half-edge that appears twice in the same
// direction indicates inconsistent face winding.
func (m *Mesh) auditOrientation() {
	if len(m.edges) == 0 {
		return
	}

	sorted := append([]edge(nil), m.edges...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].a != sorted[j].a {
			return sorted[i].a < sorted[j].a
		}
		return sorted[i].b < sorted[j].b
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			m.InvalidOrientation[0] = int(sorted[i].a) + 1
			m.InvalidOrientation[1] = int(sorted[i].b) + 1
			return
		}
	}
}
