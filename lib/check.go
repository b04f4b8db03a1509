package lib

import "github.com/spakin/disjoint"

// CheckSol verifies that a returned mapping is a valid common induced
// subgraph: injective on both sides, label compatible, and preserving the
// full adjacency word between every pair of matched vertices.
func CheckSol(g0, g1 *Graph, solution []VtxPair) bool {
	usedLeft := make([]bool, g0.N)
	usedRight := make([]bool, g1.N)
	for i, p0 := range solution {
		if usedLeft[p0.V] || usedRight[p0.W] {
			return false
		}
		usedLeft[p0.V] = true
		usedRight[p0.W] = true
		if g0.Label[p0.V] != g1.Label[p0.W] {
			return false
		}
		for _, p1 := range solution[i+1:] {
			if g0.AdjMat[p0.V][p1.V] != g1.AdjMat[p0.W][p1.W] {
				return false
			}
		}
	}

	return true
}

// CheckConnected verifies that the image of the mapping induces a weakly
// connected subgraph of g1, via union-find over the matched vertices.
// Empty and single-pair mappings are trivially connected.
func CheckConnected(g1 *Graph, solution []VtxPair) bool {
	if len(solution) <= 1 {
		return true
	}

	elems := make(map[int]*disjoint.Element, len(solution))
	for _, p := range solution {
		elems[p.W] = disjoint.NewElement()
	}
	for _, p0 := range solution {
		for _, p1 := range solution {
			if p0.W != p1.W && g1.AdjMat[p0.W][p1.W] != 0 {
				disjoint.Union(elems[p0.W], elems[p1.W])
			}
		}
	}

	root := elems[solution[0].W].Find()
	for _, e := range elems {
		if e.Find() != root {
			return false
		}
	}

	return true
}
