package lp

import (
	"fmt"
	"os"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
)

var ErrNoPatterns = errors.New("at least one forbidden pattern is required")

// Pattern is a forbidden ordered subgraph over positions 0..Size()-1. Edges
// lists the position pairs that must be adjacent and NonEdges those that
// must not be.
type Pattern struct {
	Edges    [][]int `json:"edges"`
	NonEdges [][]int `json:"nonedges"`
}

type PatternError struct {
	Index int
	Msg   string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("pattern %d: %s", e.Index, e.Msg)
}

// Size is one more than the largest position used by either set.
func (p Pattern) Size() int {
	largest := -1
	for _, set := range [][][]int{p.Edges, p.NonEdges} {
		for _, pair := range set {
			for _, i := range pair {
				if i > largest {
					largest = i
				}
			}
		}
	}
	return largest + 1
}

type pairKey struct{ a, b int }

func unordered(a, b int) pairKey {
	if a > b {
		return pairKey{b, a}
	}
	return pairKey{a, b}
}

// Validate rejects patterns whose constraint would be vacuous or silently
// wrong: malformed or negative pairs, self pairs, a pattern with no pairs at
// all, and a pair required to be both an edge and a non-edge.
func (p Pattern) Validate() error {
	if len(p.Edges) == 0 && len(p.NonEdges) == 0 {
		return errors.New("edges and nonedges are both empty")
	}
	edges := mapset.NewThreadUnsafeSet[pairKey]()
	sets := []struct {
		name  string
		pairs [][]int
	}{{"edges", p.Edges}, {"nonedges", p.NonEdges}}
	for _, set := range sets {
		name := set.name
		for _, pair := range set.pairs {
			if len(pair) != 2 {
				return errors.Errorf("%s entry %v is not a pair", name, pair)
			}
			if pair[0] < 0 || pair[1] < 0 {
				return errors.Errorf("%s entry %v has a negative position", name, pair)
			}
			if pair[0] == pair[1] {
				return errors.Errorf("%s entry %v joins a position to itself", name, pair)
			}
		}
	}
	for _, pair := range p.Edges {
		edges.Add(unordered(pair[0], pair[1]))
	}
	for _, pair := range p.NonEdges {
		if edges.Contains(unordered(pair[0], pair[1])) {
			return errors.Errorf("pair %v is both an edge and a non-edge", pair)
		}
	}
	return nil
}

// OrderAxioms make order/2 a strict total order over vertex/1.
func OrderAxioms() []Statement {
	return []Statement{
		Constraint{Body: []Literal{Pos("order", varX, varY), Pos("order", varY, varZ), Not("order", varX, varZ)}},
		Constraint{Body: []Literal{Pos("order", varX, varY), Pos("order", varY, varX)}},
		Choice{
			Lower:    1,
			Upper:    1,
			Elements: []Atom{NewAtom("order", varX, varY), NewAtom("order", varY, varX)},
			Body:     []Literal{Pos("vertex", varX), Pos("vertex", varY), Cmp(varX, "!=", varY)},
		},
	}
}

// ChainConstraint forbids any chain X0 < X1 < ... < Xk-1 of the order that
// realises p. Only the chain is constrained by order literals; transitivity
// then keeps the k vertices pairwise distinct.
func ChainConstraint(p Pattern) Constraint {
	var body []Literal
	for i := 0; i+1 < p.Size(); i++ {
		body = append(body, Pos("order", X(i), X(i+1)))
	}
	for _, e := range p.Edges {
		body = append(body, Pos("edge", X(e[0]), X(e[1])))
	}
	for _, ne := range p.NonEdges {
		body = append(body, Not("edge", X(ne[0]), X(ne[1])))
	}
	return Constraint{Body: body}
}

// CompilePatterns turns forbidden patterns into a program that, joined with a
// graph encoding, is satisfiable iff some vertex order avoids all of them.
func CompilePatterns(patterns []Pattern) (*Program, error) {
	if len(patterns) == 0 {
		return nil, ErrNoPatterns
	}
	p := NewProgram(OrderAxioms()...)
	for i, pattern := range patterns {
		if err := pattern.Validate(); err != nil {
			return nil, &PatternError{Index: i, Msg: err.Error()}
		}
		p.Add(ChainConstraint(pattern))
	}
	p.Add(EdgeSymmetryRule())
	return p, nil
}

// PatternFromConstraint recovers the pattern of a constraint built by
// ChainConstraint. Positions are numbered along the order chain, so variable
// names do not matter. It reports false for any other constraint.
func PatternFromConstraint(c Constraint) (Pattern, bool) {
	pos := make(map[Term]int)
	var chainEnd Term
	var p Pattern
	for _, l := range c.Body {
		if l.Cmp != nil || len(l.Atom.Args) != 2 {
			return Pattern{}, false
		}
		a, b := l.Atom.Args[0], l.Atom.Args[1]
		if _, ok := a.(Var); !ok {
			return Pattern{}, false
		}
		if _, ok := b.(Var); !ok {
			return Pattern{}, false
		}
		switch {
		case l.Atom.Predicate == "order" && !l.Negated:
			if chainEnd == nil {
				pos[a] = 0
			} else if a != chainEnd {
				return Pattern{}, false
			}
			if _, seen := pos[b]; seen {
				return Pattern{}, false
			}
			pos[b] = len(pos)
			chainEnd = b
		case l.Atom.Predicate == "edge":
			i, ok1 := pos[a]
			j, ok2 := pos[b]
			if !ok1 || !ok2 {
				return Pattern{}, false
			}
			if l.Negated {
				p.NonEdges = append(p.NonEdges, []int{i, j})
			} else {
				p.Edges = append(p.Edges, []int{i, j})
			}
		default:
			return Pattern{}, false
		}
	}
	if chainEnd == nil || p.Validate() != nil {
		return Pattern{}, false
	}
	return p, true
}

// LoadPatterns decodes a JSON array of patterns. YAML is accepted as well.
func LoadPatterns(data []byte) ([]Pattern, error) {
	var patterns []Pattern
	if err := yaml.Unmarshal(data, &patterns); err != nil {
		return nil, errors.Wrap(err, "decoding patterns")
	}
	return patterns, nil
}

func LoadPatternsFile(path string) ([]Pattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading constraints file")
	}
	patterns, err := LoadPatterns(data)
	if err != nil {
		return nil, errors.Wrapf(err, "in %s", path)
	}
	return patterns, nil
}
