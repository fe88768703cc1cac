package mesh

import (
	"sort"

	"github.com/ungerik/go3d/float64/vec3"
)

// canonicalize does a lexicographic-ish sort plus collision-detecting
// dedup that rewrites face indices through a union-find-style redirect
// chain.
//
// Equality uses bit-exact float comparison — there is no epsilon. The
// sort key is deliberately not a total order: it only needs to place
// exactly-equal vertices adjacently, which is all the algorithm requires.
func (m *Mesh) canonicalize() error {
	nvert := len(m.Vert)
	if nvert == 0 {
		return nil
	}

	keys := make([]float64, nvert)
	for i, v := range m.Vert {
		keys[i] = v[0] + 1e-2*v[1] + 1e-4*v[2]
	}

	order := make([]int, nvert)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return keys[order[i]] < keys[order[j]] })

	redirect := make([]int, nvert)
	for i := range redirect {
		redirect[i] = i
	}

	repeated := 0
	for i := 1; i < nvert; i++ {
		cur, prev := order[i], order[i-1]
		if m.Vert[cur] == m.Vert[prev] {
			redirect[cur] = redirect[prev]
			repeated++
		}
	}

	if repeated == 0 {
		return nil
	}

	// path-compress redirects so every slot points to its root
	for i := 0; i < nvert; i++ {
		root := i
		for redirect[root] != root {
			root = redirect[root]
		}
		redirect[i] = root
	}

	// compact survivors, recording each survivor's new index
	newIndex := make([]int, nvert)
	for i := range newIndex {
		newIndex[i] = -1
	}

	newVert := make([]vec3.T, 0, nvert-repeated)
	for i := 0; i < nvert; i++ {
		if redirect[i] != i {
			continue
		}
		newIndex[i] = len(newVert)
		newVert = append(newVert, m.Vert[i])
	}
	m.Vert = newVert

	remap := func(idx int32) (int32, error) {
		root := redirect[idx]
		ni := newIndex[root]
		if ni < 0 || ni >= len(m.Vert) {
			return 0, newErr(InternalConsistency, m.ID,
				"vertex redirect for %d resolved to out-of-range index %d", idx, ni)
		}
		return int32(ni), nil
	}

	for fi, f := range m.Face {
		for k := 0; k < 3; k++ {
			ni, err := remap(f[k])
			if err != nil {
				return err
			}
			m.Face[fi][k] = ni
		}
	}

	return nil
}
