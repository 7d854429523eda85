package graph

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
)

// Edge is an undirected edge kept in the orientation it was first added with.
type Edge struct {
	U, V int
}

func (e Edge) String() string {
	return fmt.Sprintf("(%d, %d)", e.U, e.V)
}

func (e Edge) key() Edge {
	if e.U > e.V {
		return Edge{e.V, e.U}
	}
	return e
}

// DefaultMaxVertices bounds the graphs read from files and requests. The
// ordering encodings grow cubically in the number of vertices.
const DefaultMaxVertices = 1 << 14

// Graph is a simple undirected graph over the vertices 0..N-1, where N is one
// more than the largest vertex id ever added.
type Graph struct {
	adj     [][]int
	edges   []Edge
	seen    mapset.Set[Edge]
	present mapset.Set[int]
}

func NewGraph(n int) *Graph {
	g := &Graph{
		adj:     make([][]int, n),
		seen:    mapset.NewThreadUnsafeSet[Edge](),
		present: mapset.NewThreadUnsafeSet[int](),
	}
	for v := 0; v < n; v++ {
		g.present.Add(v)
	}
	return g
}

func (g *Graph) grow(v int) {
	if v < 0 {
		panic(fmt.Sprintf("vertex id cannot be negative: %d", v))
	}
	for len(g.adj) <= v {
		g.adj = append(g.adj, nil)
	}
}

// AddVertex declares v, possibly isolated.
func (g *Graph) AddVertex(v int) {
	g.grow(v)
	g.present.Add(v)
}

// AddEdge adds the undirected edge {u, v}. Adding an edge twice, in either
// orientation, is a no-op.
func (g *Graph) AddEdge(u, v int) {
	if u == v {
		panic(fmt.Sprintf("self-loop on vertex %d", u))
	}
	g.AddVertex(u)
	g.AddVertex(v)
	e := Edge{u, v}
	if !g.seen.Add(e.key()) {
		return
	}
	g.edges = append(g.edges, e)
	g.adj[u] = append(g.adj[u], v)
	g.adj[v] = append(g.adj[v], u)
}

func (g *Graph) NumVertices() int {
	return len(g.adj)
}

func (g *Graph) NumEdges() int {
	return len(g.edges)
}

// Edges returns every edge once, in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

func (g *Graph) HasEdge(u, v int) bool {
	return g.seen.Contains(Edge{u, v}.key())
}

func (g *Graph) Neighbours(v int) []int {
	if v < 0 || v >= len(g.adj) {
		return nil
	}
	return g.adj[v]
}

// Missing lists the ids below NumVertices that were never added explicitly.
// They still belong to the vertex domain as isolated vertices.
func (g *Graph) Missing() []int {
	var missing []int
	for v := 0; v < len(g.adj); v++ {
		if !g.present.Contains(v) {
			missing = append(missing, v)
		}
	}
	return missing
}

func (g *Graph) CountAndGetConnectedComponents() (int, map[int][]int) {
	n := len(g.adj)
	visited := make([]bool, n)
	componentMap := make(map[int][]int)

	var dfs func(int, int)
	dfs = func(v, component int) {
		visited[v] = true
		componentMap[component] = append(componentMap[component], v)
		for _, w := range g.adj[v] {
			if !visited[w] {
				dfs(w, component)
			}
		}
	}

	count := 0
	for i := 0; i < n; i++ {
		if !visited[i] {
			count++
			dfs(i, count)
		}
	}

	return count, componentMap
}
