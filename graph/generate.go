package graph

import "math/rand"

// ErdosRenyi samples G(n, p): every pair of distinct vertices is joined
// independently with probability p.
func ErdosRenyi(n int, p float64, rng *rand.Rand) *Graph {
	g := NewGraph(n)
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			if rng.Float64() < p {
				g.AddEdge(u, v)
			}
		}
	}
	return g
}

func Cycle(n int) *Graph {
	g := NewGraph(n)
	if n < 3 {
		return g
	}
	for v := 0; v < n; v++ {
		g.AddEdge(v, (v+1)%n)
	}
	return g
}

func Path(n int) *Graph {
	g := NewGraph(n)
	for v := 0; v+1 < n; v++ {
		g.AddEdge(v, v+1)
	}
	return g
}

func Complete(n int) *Graph {
	g := NewGraph(n)
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			g.AddEdge(u, v)
		}
	}
	return g
}

// FromEdges builds a graph from vertex pairs, as in [][2]int{{0, 1}, {1, 2}}.
func FromEdges(edges ...[2]int) *Graph {
	g := NewGraph(0)
	for _, e := range edges {
		g.AddEdge(e[0], e[1])
	}
	return g
}
