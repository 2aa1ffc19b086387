package netgen

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/graph"
)

// Homophily measures first-level neighbor distance on a node attribute:
// for each non-isolated node, the mean absolute attribute difference to
// its neighbors, averaged over those nodes. Lower values mean more
// homophilous networks. Rabb et al. 2022, Eq (9).
func Homophily(g graph.Undirected, attrs map[int64]float64) (float64, error) {
	var total float64
	var counted int

	nodes := g.Nodes()
	for nodes.Next() {
		id := nodes.Node().ID()
		a, ok := attrs[id]
		if !ok {
			return 0, fmt.Errorf("node %d has no attribute value", id)
		}

		var sum float64
		var degree int
		neighbors := g.From(id)
		for neighbors.Next() {
			nid := neighbors.Node().ID()
			b, ok := attrs[nid]
			if !ok {
				return 0, fmt.Errorf("node %d has no attribute value", nid)
			}
			sum += math.Abs(b - a)
			degree++
		}
		if degree == 0 {
			continue // isolated nodes have no neighbor distance
		}
		total += sum / float64(degree)
		counted++
	}
	if counted == 0 {
		return 0, fmt.Errorf("graph has no edges")
	}
	return total / float64(counted), nil
}

// Polarization measures global polarization following Musco et al.
// 2018: attributes are scaled to [0,1] by maxAttr, mean-centered, and
// the squared norm of the centered vector is returned.
func Polarization(g graph.Undirected, attrs map[int64]float64, maxAttr float64) (float64, error) {
	if maxAttr <= 0 {
		return 0, fmt.Errorf("maximum attribute value must be positive, got %v", maxAttr)
	}

	var scaled []float64
	var mean float64
	nodes := g.Nodes()
	for nodes.Next() {
		id := nodes.Node().ID()
		a, ok := attrs[id]
		if !ok {
			return 0, fmt.Errorf("node %d has no attribute value", id)
		}
		v := a / maxAttr
		scaled = append(scaled, v)
		mean += v
	}
	if len(scaled) == 0 {
		return 0, fmt.Errorf("graph has no nodes")
	}
	mean /= float64(len(scaled))

	var total float64
	for _, v := range scaled {
		d := v - mean
		total += d * d
	}
	return total, nil
}

// Disagreement measures local disagreement following Musco et al. 2018:
// the sum of squared scaled attribute differences across edges.
func Disagreement(g Undirected, attrs map[int64]float64, maxAttr float64) (float64, error) {
	if maxAttr <= 0 {
		return 0, fmt.Errorf("maximum attribute value must be positive, got %v", maxAttr)
	}

	var total float64
	edges := g.Edges()
	for edges.Next() {
		e := edges.Edge()
		a, ok := attrs[e.From().ID()]
		if !ok {
			return 0, fmt.Errorf("node %d has no attribute value", e.From().ID())
		}
		b, ok := attrs[e.To().ID()]
		if !ok {
			return 0, fmt.Errorf("node %d has no attribute value", e.To().ID())
		}
		d := (a - b) / maxAttr
		total += d * d
	}
	return total, nil
}
