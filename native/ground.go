package native

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ichiban/prolog"
	"github.com/pkg/errors"

	"graphclass/graph"
	"graphclass/lp"
)

// Grounder enumerates the vertex tuples that realise a pattern, ignoring the
// order. The graph is consulted once as vertex/1 and edge/2 facts.
type Grounder struct {
	prolog *prolog.Interpreter
}

func NewGrounder(nbVertices int, edges []graph.Edge) (*Grounder, error) {
	var b strings.Builder
	b.WriteString(":- dynamic(vertex/1).\n:- dynamic(edge/2).\n")
	for v := 0; v < nbVertices; v++ {
		fmt.Fprintf(&b, "vertex(%d).\n", v)
	}
	for _, e := range edges {
		fmt.Fprintf(&b, "edge(%d, %d).\nedge(%d, %d).\n", e.U, e.V, e.V, e.U)
	}
	p := prolog.New(nil, nil)
	if err := p.Exec(b.String()); err != nil {
		return nil, errors.Wrap(err, "consulting graph facts")
	}
	return &Grounder{prolog: p}, nil
}

// Goal is the Prolog query matching p on distinct vertices. Edge goals come
// first so that they bind variables before the vertex/1 generators, and the
// negated goals come last when everything is ground.
func Goal(p lp.Pattern) string {
	var goals []string
	for _, e := range p.Edges {
		goals = append(goals, fmt.Sprintf("edge(%s, %s)", lp.X(e[0]), lp.X(e[1])))
	}
	for i := 0; i < p.Size(); i++ {
		goals = append(goals, fmt.Sprintf("vertex(%s)", lp.X(i)))
	}
	for i := 0; i < p.Size(); i++ {
		for j := i + 1; j < p.Size(); j++ {
			goals = append(goals, fmt.Sprintf("%s \\== %s", lp.X(i), lp.X(j)))
		}
	}
	for _, ne := range p.NonEdges {
		goals = append(goals, fmt.Sprintf("\\+ edge(%s, %s)", lp.X(ne[0]), lp.X(ne[1])))
	}
	return strings.Join(goals, ", ") + "."
}

// Matches returns every tuple (v0, ..., vk-1) of distinct vertices such that
// vi and vj are adjacent for each pattern edge [i, j] and not adjacent for
// each non-edge.
func (g *Grounder) Matches(ctx context.Context, p lp.Pattern) ([][]int, error) {
	solutions, err := g.prolog.QueryContext(ctx, Goal(p))
	if err != nil {
		return nil, errors.Wrap(err, "querying pattern")
	}
	defer func() {
		_ = solutions.Close()
	}()

	var matches [][]int
	for solutions.Next() {
		var s = make(map[string]prolog.TermString)
		if err := solutions.Scan(&s); err != nil {
			return nil, errors.Wrap(err, "reading pattern match")
		}
		tuple := make([]int, p.Size())
		for i := range tuple {
			v, err := strconv.Atoi(string(s[lp.X(i).String()]))
			if err != nil {
				return nil, errors.Wrapf(err, "pattern position %d", i)
			}
			tuple[i] = v
		}
		matches = append(matches, tuple)
	}
	if err := solutions.Err(); err != nil {
		return nil, errors.Wrap(err, "enumerating pattern matches")
	}
	return matches, nil
}
