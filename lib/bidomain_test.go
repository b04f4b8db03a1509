package lib

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBidomainsUnlabelled(t *testing.T) {
	g0 := NewGraph(3)
	g1 := NewGraph(4)

	domains, left, right := NewBidomains(&g0, &g1)

	require.Len(t, domains, 1)
	assert.Equal(t, Bidomain{0, 0, 3, 4, false}, domains[0])
	assert.Equal(t, []int{0, 1, 2}, left)
	assert.Equal(t, []int{0, 1, 2, 3}, right)
}

func TestNewBidomainsByLabel(t *testing.T) {
	g0 := NewGraph(3)
	g0.Label = []uint32{2, 1, 2}
	g1 := NewGraph(3)
	g1.Label = []uint32{2, 2, 3}

	domains, left, right := NewBidomains(&g0, &g1)

	// only label 2 occurs on both sides; labels 1 and 3 are one-sided
	require.Len(t, domains, 1)
	assert.Equal(t, Bidomain{0, 0, 2, 2, false}, domains[0])
	assert.Equal(t, []int{0, 2}, left)
	assert.Equal(t, []int{0, 1}, right)
}

func TestNewBidomainsLoopClass(t *testing.T) {
	g0 := NewGraph(2)
	g0.AddEdge(0, 0, false, 1)
	g1 := NewGraph(2)
	g1.AddEdge(1, 1, false, 1)

	domains, left, right := NewBidomains(&g0, &g1)

	// loop and non-loop vertices form separate classes, plain label first
	require.Len(t, domains, 2)
	assert.Equal(t, []int{1, 0}, left)
	assert.Equal(t, []int{0, 1}, right)
	assert.Equal(t, Bidomain{0, 0, 1, 1, false}, domains[0])
	assert.Equal(t, Bidomain{1, 1, 1, 1, false}, domains[1])
}

func TestCalcBound(t *testing.T) {
	domains := []Bidomain{
		{0, 0, 3, 5, false},
		{3, 5, 2, 1, true},
	}
	assert.Equal(t, 4, CalcBound(domains))
	assert.Equal(t, 0, CalcBound(nil))
}

func TestSelectBidomain(t *testing.T) {
	left := []int{4, 5, 0, 1, 2}
	domains := []Bidomain{
		{0, 0, 2, 2, false},
		{2, 2, 3, 1, true},
	}

	// min_max: scores are 2 and 3
	assert.Equal(t, 0, SelectBidomain(domains, left, HeuristicMinMax, false, 0))
	// min_product: scores are 4 and 3
	assert.Equal(t, 1, SelectBidomain(domains, left, HeuristicMinProduct, false, 0))

	// connected with a non-empty mapping only considers adjacent bidomains
	assert.Equal(t, 1, SelectBidomain(domains, left, HeuristicMinMax, true, 1))
	// with an empty mapping everything is still eligible
	assert.Equal(t, 0, SelectBidomain(domains, left, HeuristicMinMax, true, 0))

	adjacentless := []Bidomain{{0, 0, 2, 2, false}}
	assert.Equal(t, -1, SelectBidomain(adjacentless, left, HeuristicMinMax, true, 1))
}

func TestSelectBidomainTieBreak(t *testing.T) {
	left := []int{7, 8, 3, 9}
	domains := []Bidomain{
		{0, 0, 2, 2, false},
		{2, 2, 2, 2, false},
	}

	// equal scores; the second holds the smaller left vertex 3
	assert.Equal(t, 1, SelectBidomain(domains, left, HeuristicMinMax, false, 0))
}

func TestFilterDomainsSimple(t *testing.T) {
	// triangle 0-1-2 plus isolated 3, on both sides
	g0 := NewGraph(4)
	g0.AddEdge(0, 1, false, 1)
	g0.AddEdge(0, 2, false, 1)
	g0.AddEdge(1, 2, false, 1)
	g1 := g0.InducedSubgraph([]int{0, 1, 2, 3})

	domains, left, right := NewBidomains(&g0, &g1)

	newD := FilterDomains(domains, left, right, &g0, &g1, 0, 0, false)

	require.Len(t, newD, 2)
	// non-edge slice first, then the edge slice flagged adjacent
	assert.False(t, newD[0].IsAdjacent)
	assert.Equal(t, 2, newD[0].LeftLen)
	assert.True(t, newD[1].IsAdjacent)
	assert.Equal(t, 2, newD[1].LeftLen)

	// the neighbours of the matched pair sit at the front of the buffers
	assert.ElementsMatch(t, []int{1, 2}, left[newD[1].L:newD[1].L+newD[1].LeftLen])
}

func TestFilterDomainsDropsEmptySides(t *testing.T) {
	// star centre 0 in g0; g1 has no edges, so no edge slice survives
	g0 := NewGraph(3)
	g0.AddEdge(0, 1, false, 1)
	g0.AddEdge(0, 2, false, 1)
	g1 := NewGraph(3)

	domains, left, right := NewBidomains(&g0, &g1)
	newD := FilterDomains(domains, left, right, &g0, &g1, 0, 0, false)

	// the edge slice has an empty right side and is dropped; only the
	// non-edge slice survives
	require.Len(t, newD, 1)
	assert.False(t, newD[0].IsAdjacent)
	assert.Equal(t, 1, newD[0].LeftLen)
	assert.Equal(t, 3, newD[0].RightLen)
}

func TestFilterDomainsMultiway(t *testing.T) {
	// two arcs with distinct labels out of vertex 0 on both sides
	g0 := NewGraph(3)
	g0.AddEdge(0, 1, false, 2)
	g0.AddEdge(0, 2, false, 5)
	g1 := NewGraph(3)
	g1.AddEdge(0, 1, false, 5)
	g1.AddEdge(0, 2, false, 2)

	domains := []Bidomain{{0, 0, 2, 2, false}}
	left := []int{1, 2}
	right := []int{1, 2}

	newD := FilterDomains(domains, left, right, &g0, &g1, 0, 0, true)

	// one sub-bidomain per shared arc key, ascending
	require.Len(t, newD, 2)
	if diff := cmp.Diff([]Bidomain{{0, 0, 1, 1, true}, {1, 1, 1, 1, true}}, newD); diff != "" {
		t.Errorf("bidomain mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []int{1, 2}, left, "sorted by arc key to v")
	assert.Equal(t, []int{2, 1}, right, "sorted by arc key to w")
}

func TestRemoveVtxFromLeftDomain(t *testing.T) {
	left := []int{4, 7, 9}
	bd := Bidomain{L: 0, R: 0, LeftLen: 3, RightLen: 3}

	RemoveVtxFromLeftDomain(left, &bd, 7)

	assert.Equal(t, 2, bd.LeftLen)
	assert.ElementsMatch(t, []int{4, 9}, left[:2])
	assert.Equal(t, 7, left[2], "removed vertex parked past the end")
}

func TestRemoveBidomain(t *testing.T) {
	domains := []Bidomain{{L: 0}, {L: 1}, {L: 2}}
	domains = RemoveBidomain(domains, 0)

	require.Len(t, domains, 2)
	assert.Equal(t, 2, domains[0].L, "last bidomain moved into the gap")
}

func TestIndexOfNextSmallest(t *testing.T) {
	arr := []int{5, 2, 9, 4}
	assert.Equal(t, 1, IndexOfNextSmallest(arr, 0, 4, -1))
	assert.Equal(t, 3, IndexOfNextSmallest(arr, 0, 4, 2))
	assert.Equal(t, 2, IndexOfNextSmallest(arr, 0, 4, 5))
}

func TestFindMinValue(t *testing.T) {
	assert.Equal(t, 2, FindMinValue([]int{5, 2, 9}, 0, 3))
	assert.Equal(t, 5, FindMinValue([]int{5, 2, 9}, 0, 1))
}
