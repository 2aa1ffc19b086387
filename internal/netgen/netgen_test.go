package netgen

import (
	"math/rand"
	"testing"
)

func TestErdosRenyiExtremes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	g, err := ErdosRenyi(10, 0, rng)
	if err != nil {
		t.Fatalf("ErdosRenyi: %v", err)
	}
	if n := len(NodesEdges(g, false).Edges); n != 0 {
		t.Errorf("p=0 produced %d edges", n)
	}

	g, err = ErdosRenyi(10, 1, rng)
	if err != nil {
		t.Fatalf("ErdosRenyi: %v", err)
	}
	if n := len(NodesEdges(g, false).Edges); n != 45 {
		t.Errorf("p=1 produced %d edges, want 45", n)
	}
}

func TestErdosRenyiDeterministic(t *testing.T) {
	a, err := ErdosRenyi(30, 0.2, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatal(err)
	}
	b, err := ErdosRenyi(30, 0.2, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatal(err)
	}
	ea, eb := NodesEdges(a, false).Edges, NodesEdges(b, false).Edges
	if len(ea) != len(eb) {
		t.Fatalf("same seed produced %d vs %d edges", len(ea), len(eb))
	}
	for i := range ea {
		if ea[i] != eb[i] {
			t.Fatalf("same seed diverged at edge %d: %v vs %v", i, ea[i], eb[i])
		}
	}
}

func TestWattsStrogatzNoRewiring(t *testing.T) {
	g, err := WattsStrogatz(10, 4, 0, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("WattsStrogatz: %v", err)
	}
	// Pure ring lattice: n*k/2 edges.
	if n := len(NodesEdges(g, false).Edges); n != 20 {
		t.Errorf("lattice has %d edges, want 20", n)
	}
}

func TestWattsStrogatzValidation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, tc := range []struct{ n, k int }{{10, 3}, {10, 0}, {4, 4}} {
		if _, err := WattsStrogatz(tc.n, tc.k, 0.1, rng); err == nil {
			t.Errorf("WattsStrogatz(%d, %d) accepted invalid k", tc.n, tc.k)
		}
	}
}

func TestBarabasiAlbert(t *testing.T) {
	g, err := BarabasiAlbert(50, 3, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("BarabasiAlbert: %v", err)
	}
	list := NodesEdges(g, false)
	if len(list.Nodes) != 50 {
		t.Errorf("nodes = %d, want 50", len(list.Nodes))
	}
	// Seed clique of m+1 nodes plus m edges per later arrival.
	want := 3*4/2 + (50-4)*3
	if len(list.Edges) != want {
		t.Errorf("edges = %d, want %d", len(list.Edges), want)
	}
}

func TestComplete(t *testing.T) {
	g, err := Complete(5)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(NodesEdges(g, false).Edges); n != 10 {
		t.Errorf("K5 has %d edges, want 10", n)
	}
}

func TestGenerateDispatch(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, graphType := range []string{"er", "ws", "ba", "complete"} {
		param := 0.2
		if graphType == "ba" {
			param = 2
		}
		g, err := Generate(graphType, 20, param, rng)
		if err != nil {
			t.Errorf("Generate(%s): %v", graphType, err)
			continue
		}
		if len(NodesEdges(g, false).Nodes) != 20 {
			t.Errorf("Generate(%s) node count wrong", graphType)
		}
	}
	if _, err := Generate("torus", 20, 0, rng); err == nil {
		t.Error("Generate accepted unknown graph type")
	}
}

func TestNodesEdgesBidirected(t *testing.T) {
	g, err := Complete(3)
	if err != nil {
		t.Fatal(err)
	}
	uni := NodesEdges(g, false)
	bi := NodesEdges(g, true)
	if len(bi.Edges) != 2*len(uni.Edges) {
		t.Errorf("bidirected edges = %d, want %d", len(bi.Edges), 2*len(uni.Edges))
	}
	// First half is the canonical low-to-high list.
	for i, e := range uni.Edges {
		if bi.Edges[i] != e {
			t.Errorf("edge %d = %v, want %v", i, bi.Edges[i], e)
		}
	}
}
