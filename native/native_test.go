package native

import (
	"context"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graphclass/graph"
	"graphclass/lp"
	"graphclass/solver"
)

var (
	chordal  = []lp.Pattern{{Edges: [][]int{{0, 1}, {0, 2}}, NonEdges: [][]int{{1, 2}}}}
	interval = []lp.Pattern{{Edges: [][]int{{0, 2}}, NonEdges: [][]int{{0, 1}}}}
	noEdge   = []lp.Pattern{{Edges: [][]int{{0, 1}}, NonEdges: [][]int{}}}
)

func solvers() []*Solver {
	return []*Solver{NewGini(nil), NewGophersat(nil)}
}

func member(t *testing.T, s *Solver, g *graph.Graph, patterns []lp.Pattern) bool {
	t.Helper()
	constraints, err := lp.CompilePatterns(patterns)
	require.NoError(t, err)
	res, err := s.Solve(context.Background(), lp.EncodeGraph(g).Extend(constraints))
	require.NoError(t, err)
	require.NotEqual(t, solver.Unknown, res.Verdict)
	assert.Equal(t, s.Name(), res.Backend)
	return res.Verdict == solver.Satisfiable
}

func TestMembershipScenarios(t *testing.T) {
	for _, s := range solvers() {
		t.Run(s.Name(), func(t *testing.T) {
			assert.False(t, member(t, s, graph.Cycle(4), chordal), "C4 is not chordal")
			assert.True(t, member(t, s, graph.Complete(3), chordal), "a triangle is chordal")
			assert.False(t, member(t, s, graph.FromEdges([2]int{0, 1}), noEdge))
			assert.True(t, member(t, s, graph.NewGraph(2), noEdge))

			assert.False(t, member(t, s, graph.Cycle(5), chordal))
			assert.True(t, member(t, s, graph.Complete(5), chordal))
			assert.True(t, member(t, s, graph.Path(4), interval))
			assert.False(t, member(t, s, graph.Cycle(4), interval))
			assert.True(t, member(t, s, graph.NewGraph(0), chordal))
		})
	}
}

func TestEdgeOrientationDoesNotMatter(t *testing.T) {
	s := NewGini(nil)
	a := graph.FromEdges([2]int{0, 1}, [2]int{1, 2}, [2]int{2, 3}, [2]int{3, 0})
	b := graph.FromEdges([2]int{1, 0}, [2]int{2, 1}, [2]int{3, 2}, [2]int{0, 3})
	assert.Equal(t, member(t, s, a, chordal), member(t, s, b, chordal))
}

func TestModelIsAnOrder(t *testing.T) {
	s := NewGini(nil)
	constraints, err := lp.CompilePatterns(chordal)
	require.NoError(t, err)
	g := graph.Path(5)
	res, err := s.Solve(context.Background(), lp.EncodeGraph(g).Extend(constraints))
	require.NoError(t, err)
	require.Equal(t, solver.Satisfiable, res.Verdict)
	require.Len(t, res.Model, 4)

	seen := make(map[lp.Term]bool)
	for i, a := range res.Model {
		assert.Equal(t, "order", a.Predicate)
		if i > 0 {
			assert.Equal(t, res.Model[i-1].Args[1], a.Args[0])
		}
		seen[a.Args[0]] = true
		seen[a.Args[1]] = true
	}
	assert.Len(t, seen, 5)
}

// bruteForce checks every permutation of the vertices for a chain realising
// one of the patterns.
func bruteForce(g *graph.Graph, patterns []lp.Pattern) bool {
	n := g.NumVertices()
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	var tuples [][]int
	for _, p := range patterns {
		tuples = append(tuples, enumerate(g, p)...)
	}
	var permute func(int) bool
	permute = func(k int) bool {
		if k == n {
			rank := make([]int, n)
			for pos, v := range perm {
				rank[v] = pos
			}
			for _, tuple := range tuples {
				increasing := true
				for j := 0; j+1 < len(tuple); j++ {
					if rank[tuple[j]] > rank[tuple[j+1]] {
						increasing = false
						break
					}
				}
				if increasing {
					return false
				}
			}
			return true
		}
		for i := k; i < n; i++ {
			perm[k], perm[i] = perm[i], perm[k]
			ok := permute(k + 1)
			perm[k], perm[i] = perm[i], perm[k]
			if ok {
				return true
			}
		}
		return false
	}
	return permute(0)
}

func enumerate(g *graph.Graph, p lp.Pattern) [][]int {
	var out [][]int
	tuple := make([]int, p.Size())
	used := make([]bool, g.NumVertices())
	var fill func(int)
	fill = func(i int) {
		if i == len(tuple) {
			for _, e := range p.Edges {
				if !g.HasEdge(tuple[e[0]], tuple[e[1]]) {
					return
				}
			}
			for _, ne := range p.NonEdges {
				if g.HasEdge(tuple[ne[0]], tuple[ne[1]]) {
					return
				}
			}
			out = append(out, append([]int(nil), tuple...))
			return
		}
		for v := range used {
			if used[v] {
				continue
			}
			used[v] = true
			tuple[i] = v
			fill(i + 1)
			used[v] = false
		}
	}
	fill(0)
	return out
}

func TestAgreesWithBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	classes := map[string][]lp.Pattern{
		"chordal":  chordal,
		"interval": interval,
		"proper interval": {
			{Edges: [][]int{{0, 2}}, NonEdges: [][]int{{0, 1}}},
			{Edges: [][]int{{0, 2}}, NonEdges: [][]int{{1, 2}}},
		},
	}
	for i := 0; i < 15; i++ {
		g := graph.ErdosRenyi(3+rng.Intn(4), 0.5, rng)
		for name, patterns := range classes {
			expect := bruteForce(g, patterns)
			for _, s := range solvers() {
				assert.Equal(t, expect, member(t, s, g, patterns), "%s on %v with %s", name, g.Edges(), s.Name())
			}
		}
	}
}

func TestUnsupportedPrograms(t *testing.T) {
	s := NewGini(nil)
	facts := lp.EncodeGraph(graph.Cycle(4))

	raw := facts.Extend(lp.NewProgram(lp.Raw{Name: "chordal.lp", Text: ":- a."}))
	_, err := s.Solve(context.Background(), raw)
	assert.True(t, errors.Is(err, ErrUnsupported))

	other := facts.Extend(lp.NewProgram(lp.Fact{Head: lp.NewAtom("colour", lp.Int(0))}))
	_, err = s.Solve(context.Background(), other)
	assert.True(t, errors.Is(err, ErrUnsupported))

	_, err = s.Solve(context.Background(), lp.NewProgram(lp.OrderAxioms()...))
	assert.True(t, errors.Is(err, ErrUnsupported))
}

func TestPhantomVerticesJoinTheDomain(t *testing.T) {
	g := graph.FromEdges([2]int{0, 4})
	constraints, err := lp.CompilePatterns([]lp.Pattern{{NonEdges: [][]int{{0, 1}}}})
	require.NoError(t, err)
	res, err := NewGini(nil).Solve(context.Background(), lp.EncodeGraph(g).Extend(constraints))
	require.NoError(t, err)
	assert.Equal(t, solver.Unsatisfiable, res.Verdict)
}
