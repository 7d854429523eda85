package oracle

import (
	"context"
	"slices"

	"github.com/pkg/errors"

	"graphclass/graph"
	"graphclass/lp"
	"graphclass/marco"
)

// Explanation groups the pattern indices (0-based) that jointly exclude a
// graph. Each MUS is a minimal set of patterns that no vertex order can avoid
// together; removing one MCS from the pattern list would admit the graph.
type Explanation struct {
	MUSs     [][]int
	MCSs     [][]int
	Patterns []int
}

// Explain runs MARCO over the pattern list. A graph that belongs to the class
// yields no explanations.
func (o *Oracle) Explain(ctx context.Context, g *graph.Graph, patterns []lp.Pattern) ([]Explanation, error) {
	if len(patterns) == 0 {
		return nil, lp.ErrNoPatterns
	}
	for i, p := range patterns {
		if err := p.Validate(); err != nil {
			return nil, &lp.PatternError{Index: i, Msg: err.Error()}
		}
	}
	facts := lp.EncodeGraph(g)
	// Subsets are solved without persisting their programs.
	inner := *o
	inner.constraintsFile = ""
	sat := func(rules []int) (bool, error) {
		if len(rules) == 0 {
			return true, nil
		}
		subset := make([]lp.Pattern, len(rules))
		for i, id := range rules {
			subset[i] = patterns[id-1]
		}
		return inner.InClass(ctx, facts, Query{Patterns: subset})
	}

	ids := make([]int, len(patterns))
	for i := range ids {
		ids[i] = i + 1
	}
	mc := marco.NewMarco(ids, sat)
	mc.Logger = o.logger
	if err := mc.Run(); err != nil {
		return nil, errors.Wrap(err, "enumerating conflicting patterns")
	}

	var out []Explanation
	for _, c := range mc.Analysis() {
		out = append(out, Explanation{
			MUSs:     toIndices(c.MUSs),
			MCSs:     toIndices(c.MCSs),
			Patterns: shift(c.CriticalNodes),
		})
	}
	return out, nil
}

func toIndices(sets []marco.IntSet) [][]int {
	out := make([][]int, len(sets))
	for i, s := range sets {
		ids := s.ToSlice()
		out[i] = shift(ids)
	}
	return out
}

func shift(ids []int) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = id - 1
	}
	slices.Sort(out)
	return out
}
