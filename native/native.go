package native

import (
	"context"
	"io"
	"sort"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"graphclass/graph"
	"graphclass/lp"
	"graphclass/solver"
)

var ErrUnsupported = errors.New("program is outside the forbidden-pattern fragment")

// Solver decides programs made of a graph encoding and compiled forbidden
// patterns without an external answer-set solver. Pattern matches are
// grounded with Prolog and the vertex order is searched with a SAT solver.
type Solver struct {
	name   string
	newSAT func(nbVars int) SAT
	logger logrus.FieldLogger
}

func NewGini(logger logrus.FieldLogger) *Solver {
	return newSolver("gini", NewGiniSolver, logger)
}

func NewGophersat(logger logrus.FieldLogger) *Solver {
	return newSolver("gophersat", NewGopherSolver, logger)
}

func newSolver(name string, newSAT func(int) SAT, logger logrus.FieldLogger) *Solver {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Solver{name: name, newSAT: newSAT, logger: logger}
}

func (s *Solver) Name() string {
	return s.name
}

// instance is the part of a program the native backend understands.
type instance struct {
	nbVertices int
	edges      []graph.Edge
	patterns   []lp.Pattern
}

func theory() mapset.Set[string] {
	t := mapset.NewThreadUnsafeSet[string]()
	for _, s := range lp.SymmetrizationRules() {
		t.Add(s.String())
	}
	for _, s := range lp.OrderAxioms() {
		t.Add(s.String())
	}
	t.Add(lp.VertexDomainRule().String())
	t.Add(lp.EdgeSymmetryRule().String())
	return t
}

func intArgs(a lp.Atom) ([]int, bool) {
	out := make([]int, len(a.Args))
	for i, t := range a.Args {
		v, ok := t.(lp.Int)
		if !ok {
			return nil, false
		}
		out[i] = int(v)
	}
	return out, true
}

func extract(p *lp.Program) (*instance, error) {
	known := theory()
	inst := &instance{nbVertices: -1}
	var pedges []graph.Edge
	for _, st := range p.Statements {
		if known.Contains(st.String()) {
			continue
		}
		switch st := st.(type) {
		case lp.Fact:
			args, ok := intArgs(st.Head)
			switch {
			case ok && st.Head.Predicate == "pedge" && len(args) == 2:
				pedges = append(pedges, graph.Edge{U: args[0], V: args[1]})
			case ok && st.Head.Predicate == "nbVertices" && len(args) == 1:
				inst.nbVertices = args[0] + 1
			default:
				return nil, errors.Wrapf(ErrUnsupported, "fact %s", st)
			}
		case lp.Constraint:
			pattern, ok := lp.PatternFromConstraint(st)
			if !ok {
				return nil, errors.Wrapf(ErrUnsupported, "constraint %s", st)
			}
			inst.patterns = append(inst.patterns, pattern)
		default:
			return nil, errors.Wrapf(ErrUnsupported, "statement %s", st)
		}
	}
	if inst.nbVertices < 0 {
		return nil, errors.Wrap(ErrUnsupported, "no nbVertices fact")
	}
	// Edges need both endpoints in the vertex domain, as in the encoding rules.
	for _, e := range pedges {
		if e.U >= 0 && e.V >= 0 && e.U < inst.nbVertices && e.V < inst.nbVertices && e.U != e.V {
			inst.edges = append(inst.edges, e)
		}
	}
	return inst, nil
}

// orderVars numbers one variable per unordered pair {a, b}; it is true when
// min(a, b) comes first.
type orderVars struct {
	n int
}

func (o orderVars) count() int {
	return o.n * (o.n - 1) / 2
}

func (o orderVars) pairVar(a, b int) int {
	return a*o.n - a*(a+1)/2 + (b - a - 1) + 1
}

// before is the literal "a precedes b".
func (o orderVars) before(a, b int) int {
	if a < b {
		return o.pairVar(a, b)
	}
	return -o.pairVar(b, a)
}

func (s *Solver) Solve(ctx context.Context, p *lp.Program) (*solver.Result, error) {
	start := time.Now()
	inst, err := extract(p)
	if err != nil {
		return nil, err
	}
	n := inst.nbVertices
	vars := orderVars{n: n}
	if vars.count() == 0 {
		// Patterns span at least two vertices, so they cannot match.
		return &solver.Result{Verdict: solver.Satisfiable, Backend: s.name, Elapsed: time.Since(start)}, nil
	}
	sat := s.newSAT(vars.count())

	for a := 0; a < n; a++ {
		for b := 0; b < n; b++ {
			for c := 0; c < n; c++ {
				if a == b || b == c || a == c {
					continue
				}
				sat.AddClause(-vars.before(a, b), -vars.before(b, c), vars.before(a, c))
			}
		}
	}

	grounder, err := NewGrounder(n, inst.edges)
	if err != nil {
		return nil, err
	}
	for i, pattern := range inst.patterns {
		matches, err := grounder.Matches(ctx, pattern)
		if err != nil {
			if ctx.Err() != nil {
				return &solver.Result{Verdict: solver.Unknown, Backend: s.name, Elapsed: time.Since(start)}, nil
			}
			return nil, errors.Wrapf(err, "grounding pattern %d", i)
		}
		s.logger.WithFields(logrus.Fields{"pattern": i, "matches": len(matches)}).Debug("grounded pattern")
		for _, m := range matches {
			clause := make([]int, 0, len(m)-1)
			for j := 0; j+1 < len(m); j++ {
				clause = append(clause, -vars.before(m[j], m[j+1]))
			}
			sat.AddClause(clause...)
		}
	}

	res := &solver.Result{Backend: s.name}
	switch sat.Solve(ctx) {
	case satisfiable:
		res.Verdict = solver.Satisfiable
		res.Model = orderModel(sat, vars)
	case unsatisfiable:
		res.Verdict = solver.Unsatisfiable
	default:
		res.Verdict = solver.Unknown
	}
	res.Elapsed = time.Since(start)
	return res, nil
}

// orderModel reads the vertex order off a model as order/2 atoms between
// consecutive vertices.
func orderModel(sat SAT, vars orderVars) []lp.Atom {
	n := vars.n
	rank := make([]int, n)
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			if sat.Value(vars.pairVar(a, b)) {
				rank[b]++
			} else {
				rank[a]++
			}
		}
	}
	order := make([]int, n)
	for v := range order {
		order[v] = v
	}
	sort.Slice(order, func(i, j int) bool { return rank[order[i]] < rank[order[j]] })

	atoms := make([]lp.Atom, 0, n)
	for i := 0; i+1 < n; i++ {
		atoms = append(atoms, lp.NewAtom("order", lp.Int(order[i]), lp.Int(order[i+1])))
	}
	return atoms
}
