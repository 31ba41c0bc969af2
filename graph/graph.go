// Package graph provides the dependency graph used to order virtual-space
// updates. Nodes are space indices; an edge A -> B means A must be applied
// before B, i.e. B references A as a subspace.
//
// The graph is rebuilt from pending declarations on every update call, never
// persisted.
package graph

import (
	"sort"

	"github.com/teranos/vspace/errors"
)

// Graph is a directed graph over the node ids 0..n-1.
type Graph struct {
	n     int
	succs [][]int // successors per node
}

// New creates a graph with n nodes and no edges.
func New(n int) *Graph {
	return &Graph{
		n:     n,
		succs: make([][]int, n),
	}
}

// Len returns the node count.
func (g *Graph) Len() int { return g.n }

// AddEdge records that from must be ordered before to. Duplicate edges are
// allowed and do not change the result.
func (g *Graph) AddEdge(from, to int) {
	g.succs[from] = append(g.succs[from], to)
}

// TopoSort returns a topological order of all nodes, or ErrDependencyCycle
// if none exists. The order is deterministic: among ready nodes the lowest
// id always comes first.
func (g *Graph) TopoSort() ([]int, error) {
	indegree := make([]int, g.n)
	for _, succs := range g.succs {
		for _, to := range succs {
			indegree[to]++
		}
	}

	ready := make([]int, 0, g.n)
	for id := 0; id < g.n; id++ {
		if indegree[id] == 0 {
			ready = append(ready, id)
		}
	}

	order := make([]int, 0, g.n)
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)
		var unlocked []int
		for _, to := range g.succs[id] {
			indegree[to]--
			if indegree[to] == 0 {
				unlocked = append(unlocked, to)
			}
		}
		sort.Ints(unlocked)
		ready = mergeSorted(ready, unlocked)
	}

	if len(order) != g.n {
		var stuck []int
		for id := 0; id < g.n; id++ {
			if indegree[id] > 0 {
				stuck = append(stuck, id)
			}
		}
		return nil, errors.Wrapf(errors.ErrDependencyCycle, "nodes %v", stuck)
	}
	return order, nil
}

// mergeSorted merges two ascending id slices into one.
func mergeSorted(a, b []int) []int {
	if len(b) == 0 {
		return a
	}
	out := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i] <= b[j] {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}
