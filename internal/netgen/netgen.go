// Package netgen builds the network topologies the simulation runs on
// and exports them in a form the NetLogo model can ingest.
package netgen

import (
	"fmt"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// ErdosRenyi builds a G(n, p) random graph: every node pair is
// connected independently with probability p.
func ErdosRenyi(n int, p float64, rng *rand.Rand) (*simple.UndirectedGraph, error) {
	if n <= 0 {
		return nil, fmt.Errorf("node count must be positive, got %d", n)
	}
	if p < 0 || p > 1 {
		return nil, fmt.Errorf("edge probability must be in [0,1], got %v", p)
	}

	g := withNodes(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if rng.Float64() < p {
				g.SetEdge(g.NewEdge(simple.Node(i), simple.Node(j)))
			}
		}
	}
	return g, nil
}

// WattsStrogatz builds a small-world graph: a ring lattice where each
// node links to its k nearest neighbors, with each edge rewired to a
// random target with probability p.
func WattsStrogatz(n, k int, p float64, rng *rand.Rand) (*simple.UndirectedGraph, error) {
	if n <= 0 {
		return nil, fmt.Errorf("node count must be positive, got %d", n)
	}
	if k < 2 || k%2 != 0 || k >= n {
		return nil, fmt.Errorf("neighbor count must be even, >= 2 and < n, got %d", k)
	}
	if p < 0 || p > 1 {
		return nil, fmt.Errorf("rewiring probability must be in [0,1], got %v", p)
	}

	g := withNodes(n)
	for i := 0; i < n; i++ {
		for d := 1; d <= k/2; d++ {
			g.SetEdge(g.NewEdge(simple.Node(i), simple.Node((i+d)%n)))
		}
	}

	// Rewire the lattice edges in a deterministic order.
	for i := 0; i < n; i++ {
		for d := 1; d <= k/2; d++ {
			j := (i + d) % n
			if rng.Float64() >= p {
				continue
			}
			target := rng.Intn(n)
			// Keep the graph simple: no self loops, no parallel edges.
			if target == i || g.HasEdgeBetween(int64(i), int64(target)) {
				continue
			}
			g.RemoveEdge(int64(i), int64(j))
			g.SetEdge(g.NewEdge(simple.Node(i), simple.Node(target)))
		}
	}
	return g, nil
}

// BarabasiAlbert builds a preferential-attachment graph: nodes arrive
// one at a time and connect m edges to existing nodes with probability
// proportional to their degree.
func BarabasiAlbert(n, m int, rng *rand.Rand) (*simple.UndirectedGraph, error) {
	if m < 1 || m >= n {
		return nil, fmt.Errorf("attachment count must be >= 1 and < n, got m=%d n=%d", m, n)
	}

	g := withNodes(n)

	// Degree-weighted sampling via a repeated-endpoint list.
	var endpoints []int
	for i := 0; i < m; i++ {
		// Seed clique over the first m+1 nodes.
		for j := i + 1; j <= m; j++ {
			g.SetEdge(g.NewEdge(simple.Node(i), simple.Node(j)))
			endpoints = append(endpoints, i, j)
		}
	}

	for v := m + 1; v < n; v++ {
		chosen := make(map[int]bool)
		for len(chosen) < m {
			u := endpoints[rng.Intn(len(endpoints))]
			if u == v || chosen[u] {
				continue
			}
			chosen[u] = true
		}
		for u := range chosen {
			g.SetEdge(g.NewEdge(simple.Node(v), simple.Node(u)))
			endpoints = append(endpoints, v, u)
		}
	}
	return g, nil
}

// Complete builds K(n).
func Complete(n int) (*simple.UndirectedGraph, error) {
	if n <= 0 {
		return nil, fmt.Errorf("node count must be positive, got %d", n)
	}
	g := withNodes(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			g.SetEdge(g.NewEdge(simple.Node(i), simple.Node(j)))
		}
	}
	return g, nil
}

// Generate dispatches on the graph type named in a condition key.
// The graph parameter is interpreted per type: edge probability for er,
// rewiring probability for ws (with k fixed at 4 as in the study),
// attachment count for ba, Kronecker power for kron (n is ignored;
// the size follows from the seed matrix), ignored for complete.
func Generate(graphType string, n int, param float64, rng *rand.Rand) (*simple.UndirectedGraph, error) {
	switch graphType {
	case "er":
		return ErdosRenyi(n, param, rng)
	case "ws":
		return WattsStrogatz(n, 4, param, rng)
	case "ba":
		return BarabasiAlbert(n, int(param), rng)
	case "kron":
		return Kronecker(DefaultKroneckerSeed(), int(param), rng)
	case "complete":
		return Complete(n)
	default:
		return nil, fmt.Errorf("unknown graph type %q", graphType)
	}
}

func withNodes(n int) *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()
	for i := 0; i < n; i++ {
		g.AddNode(simple.Node(i))
	}
	return g
}

// Undirected is an undirected graph that can enumerate its edges, as
// *simple.UndirectedGraph does; graph.Undirected alone does not expose
// the Edges method this package needs.
type Undirected interface {
	graph.Undirected
	Edges() graph.Edges
}

// NodeEdgeList is the NetLogo-safe graph representation: plain node IDs
// and edge pairs, JSON-encodable for handoff to the model.
type NodeEdgeList struct {
	Nodes []int64    `json:"nodes"`
	Edges [][2]int64 `json:"edges"`
}

// NodesEdges flattens a graph for NetLogo. With bidirected set, each
// undirected edge appears in both directions, matching the model's
// directed link loading.
func NodesEdges(g Undirected, bidirected bool) NodeEdgeList {
	var out NodeEdgeList

	nodes := g.Nodes()
	for nodes.Next() {
		out.Nodes = append(out.Nodes, nodes.Node().ID())
	}
	sort.Slice(out.Nodes, func(i, j int) bool { return out.Nodes[i] < out.Nodes[j] })

	edges := g.Edges()
	for edges.Next() {
		e := edges.Edge()
		u, v := e.From().ID(), e.To().ID()
		if u > v {
			u, v = v, u
		}
		out.Edges = append(out.Edges, [2]int64{u, v})
	}
	sort.Slice(out.Edges, func(i, j int) bool {
		if out.Edges[i][0] != out.Edges[j][0] {
			return out.Edges[i][0] < out.Edges[j][0]
		}
		return out.Edges[i][1] < out.Edges[j][1]
	})

	if bidirected {
		n := len(out.Edges)
		for i := 0; i < n; i++ {
			e := out.Edges[i]
			out.Edges = append(out.Edges, [2]int64{e[1], e[0]})
		}
	}
	return out
}
