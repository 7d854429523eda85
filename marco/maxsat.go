package marco

import (
	"strconv"

	"github.com/crillab/gophersat/maxsat"
)

// MapSolver proposes seeds: subsets of the rule universe not yet covered by a
// known MSS or MUS.
type MapSolver interface {
	Solve() bool
	Model() IntSet
	AddClause(IntSet)
}

// MaxSatSolver prefers the largest unexplored seed, so that every seed is
// either an MSS already or shrinks into a MUS quickly.
type MaxSatSolver struct {
	clauses []maxsat.Constr
	vars    IntSet
	model   map[string]bool
}

func NewMaxsatSolver(vars IntSet) *MaxSatSolver {
	softClauses := make([]maxsat.Constr, 0, vars.Cardinality())
	for _, v := range vars.ToSlice() {
		softClauses = append(softClauses, maxsat.SoftClause(maxsat.Var(strconv.Itoa(v))))
	}

	return &MaxSatSolver{
		clauses: softClauses,
		vars:    vars,
		model:   make(map[string]bool),
	}
}

func (s *MaxSatSolver) Solve() bool {
	pb := maxsat.New(s.clauses...)
	model, _ := pb.Solve()
	s.model = model
	return model != nil
}

func (s *MaxSatSolver) Model() IntSet {
	model := NewIntSet()
	for v := range s.vars.Iter() {
		if s.model[strconv.Itoa(v)] {
			model.Add(v)
		}
	}
	return model
}

// AddClause adds a hard clause. Positive ids require the rule and negative
// ids exclude it.
func (s *MaxSatSolver) AddClause(vars IntSet) {
	lits := make([]maxsat.Lit, 0, vars.Cardinality())
	for _, v := range vars.ToSlice() {
		if v > 0 {
			lits = append(lits, maxsat.Var(strconv.Itoa(v)))
		} else if v < 0 {
			lits = append(lits, maxsat.Var(strconv.Itoa(-v)).Negation())
		} else {
			panic("propositional variable cannot be zero")
		}
	}
	s.clauses = append(s.clauses, maxsat.HardClause(lits...))
}
