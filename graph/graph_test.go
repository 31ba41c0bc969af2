package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/vspace/errors"
)

func TestTopoSortEmpty(t *testing.T) {
	order, err := New(0).TopoSort()
	require.NoError(t, err)
	assert.Empty(t, order)
}

func TestTopoSortNoEdges(t *testing.T) {
	order, err := New(4).TopoSort()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, order)
}

func TestTopoSortChain(t *testing.T) {
	g := New(3)
	g.AddEdge(2, 1)
	g.AddEdge(1, 0)

	order, err := g.TopoSort()
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 0}, order)
}

func TestTopoSortDiamondIsDeterministic(t *testing.T) {
	g := New(4)
	g.AddEdge(0, 1)
	g.AddEdge(0, 2)
	g.AddEdge(1, 3)
	g.AddEdge(2, 3)

	for i := 0; i < 10; i++ {
		order, err := g.TopoSort()
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 2, 3}, order)
	}
}

func TestTopoSortDuplicateEdges(t *testing.T) {
	g := New(2)
	g.AddEdge(0, 1)
	g.AddEdge(0, 1)

	order, err := g.TopoSort()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, order)
}

func TestTopoSortCycle(t *testing.T) {
	g := New(3)
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	g.AddEdge(2, 0)

	_, err := g.TopoSort()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDependencyCycle))
	assert.Contains(t, err.Error(), "[0 1 2]")
}

func TestTopoSortSelfLoop(t *testing.T) {
	g := New(1)
	g.AddEdge(0, 0)

	_, err := g.TopoSort()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDependencyCycle))
}

func TestTopoSortPartialCycle(t *testing.T) {
	// Acyclic nodes around a cycle still fail the whole sort: ordering is
	// all-or-nothing.
	g := New(4)
	g.AddEdge(0, 1)
	g.AddEdge(2, 3)
	g.AddEdge(3, 2)

	_, err := g.TopoSort()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDependencyCycle))
}
