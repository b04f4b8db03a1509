package lib

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddEdgeUndirected(t *testing.T) {
	g := NewGraph(3)
	g.AddEdge(0, 1, false, 1)

	assert.Equal(t, uint32(1), g.AdjMat[0][1])
	assert.Equal(t, uint32(1), g.AdjMat[1][0])
	assert.Equal(t, uint32(0), g.AdjMat[0][2])
}

func TestAddEdgeDirectedArcKey(t *testing.T) {
	g := NewGraph(2)
	g.AddEdge(0, 1, true, 3)
	g.AddEdge(1, 0, true, 5)

	// forward label in the low half, reverse label shifted into the high half
	assert.Equal(t, uint32(3|5<<16), g.AdjMat[0][1])
	assert.Equal(t, uint32(5|3<<16), g.AdjMat[1][0])
}

func TestAddEdgeLoopBit(t *testing.T) {
	g := NewGraph(2)
	g.AddEdge(0, 0, false, 1)

	assert.Equal(t, LoopBit, g.Label[0])
	assert.Equal(t, uint32(0), g.AdjMat[0][0], "diagonal must stay empty")
}

func TestInducedSubgraph(t *testing.T) {
	g := NewGraph(4)
	g.AddEdge(0, 1, false, 1)
	g.AddEdge(1, 2, false, 1)
	g.Label[2] = 7

	sub := g.InducedSubgraph([]int{2, 1, 0})

	assert.Equal(t, 3, sub.N)
	assert.Equal(t, uint32(7), sub.Label[0])
	assert.Equal(t, uint32(1), sub.AdjMat[0][1], "edge 2-1 survives as 0-1")
	assert.Equal(t, uint32(1), sub.AdjMat[1][2], "edge 1-0 survives as 1-2")
	assert.Equal(t, uint32(0), sub.AdjMat[0][2])
}

func TestDegreesDirected(t *testing.T) {
	g := NewGraph(3)
	g.AddEdge(0, 1, true, 1)
	g.AddEdge(2, 0, true, 1)

	// vertex 0 has one outgoing and one incoming arc
	assert.Equal(t, []int{2, 1, 1}, g.Degrees())
}

func TestDense(t *testing.T) {
	assert.False(t, Dense([]int{2, 2, 2}, 3), "triangle is exactly at the threshold")
	assert.True(t, Dense([]int{3, 3, 3}, 3))
	assert.False(t, Dense(nil, 0))
}
