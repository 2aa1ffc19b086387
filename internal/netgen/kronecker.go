package netgen

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/mat"
)

// DefaultKroneckerSeed returns the 2x2 initiator matrix used when no
// custom seed is supplied: a core-periphery initiator that keeps the
// sampled graph mostly connected.
func DefaultKroneckerSeed() *mat.Dense {
	return mat.NewDense(2, 2, []float64{0.9, 0.6, 0.6, 0.3})
}

// KroneckerPow raises a square probability matrix to the k-th
// Kronecker power. The result for an m x m seed has m^k rows.
func KroneckerPow(seed *mat.Dense, k int) (*mat.Dense, error) {
	r, c := seed.Dims()
	if r != c {
		return nil, fmt.Errorf("seed matrix must be square, got %dx%d", r, c)
	}
	if k < 1 {
		return nil, fmt.Errorf("kronecker power must be >= 1, got %d", k)
	}
	out := mat.DenseCopyOf(seed)
	for i := 1; i < k; i++ {
		var next mat.Dense
		next.Kronecker(out, seed)
		out = &next
	}
	return out, nil
}

// Kronecker samples a stochastic Kronecker graph: the seed matrix is
// raised to the k-th Kronecker power, each off-diagonal cell is
// treated as an independent edge probability, and the result is
// reduced to its largest connected component. Node IDs from the full
// probability matrix are preserved through the reduction.
func Kronecker(seed *mat.Dense, k int, rng *rand.Rand) (*simple.UndirectedGraph, error) {
	probs, err := KroneckerPow(seed, k)
	if err != nil {
		return nil, err
	}

	n, _ := probs.Dims()
	g := withNodes(n)
	// Both (i,j) and (j,i) cells roll independently, so an asymmetric
	// seed still yields an undirected edge from either direction.
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j || g.HasEdgeBetween(int64(i), int64(j)) {
				continue
			}
			if rng.Float64() < probs.At(i, j) {
				g.SetEdge(g.NewEdge(simple.Node(i), simple.Node(j)))
			}
		}
	}
	return largestComponent(g), nil
}

// largestComponent restricts a graph to its largest connected
// component, keeping the original node IDs.
func largestComponent(g *simple.UndirectedGraph) *simple.UndirectedGraph {
	components := topo.ConnectedComponents(g)
	if len(components) <= 1 {
		return g
	}

	largest := components[0]
	for _, c := range components[1:] {
		if len(c) > len(largest) {
			largest = c
		}
	}

	kept := simple.NewUndirectedGraph()
	in := make(map[int64]bool, len(largest))
	for _, node := range largest {
		kept.AddNode(node)
		in[node.ID()] = true
	}
	edges := g.Edges()
	for edges.Next() {
		e := edges.Edge()
		if in[e.From().ID()] && in[e.To().ID()] {
			kept.SetEdge(e)
		}
	}
	return kept
}
