package native

import (
	"context"
	"time"

	"github.com/crillab/gophersat/solver"
	"github.com/irifrance/gini"
	"github.com/irifrance/gini/z"
)

const (
	satisfiable   = 1
	unsatisfiable = -1
)

// SAT is an incremental CNF solver over variables 1..n. Literals are signed
// variable numbers, as in DIMACS.
type SAT interface {
	AddClause(lits ...int)
	// Solve returns 1 (satisfiable), -1 (unsatisfiable) or 0 when the
	// search was cancelled.
	Solve(ctx context.Context) int
	Value(v int) bool
}

const pollInterval = 10 * time.Millisecond

type GiniSolver struct {
	solver *gini.Gini
}

func NewGiniSolver(nbVars int) SAT {
	return &GiniSolver{solver: gini.NewV(nbVars)}
}

func (s *GiniSolver) AddClause(lits ...int) {
	for _, v := range lits {
		if v < 0 {
			s.solver.Add(z.Var(-v).Neg())
		} else if v > 0 {
			s.solver.Add(z.Var(v).Pos())
		} else {
			panic("propositional variable cannot be zero")
		}
	}
	s.solver.Add(0)
}

func (s *GiniSolver) Solve(ctx context.Context) int {
	if ctx.Done() == nil {
		return s.solver.Solve()
	}
	run := s.solver.GoSolve()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		if res, ok := run.Test(); ok {
			return res
		}
		select {
		case <-ctx.Done():
			return run.Stop()
		case <-ticker.C:
		}
	}
}

func (s *GiniSolver) Value(v int) bool {
	return s.solver.Value(z.Var(v).Pos())
}

// GopherSolver buffers clauses and hands them to gophersat on Solve. It
// cannot be interrupted once the search has started.
type GopherSolver struct {
	clauses [][]int
	model   []bool
}

func NewGopherSolver(nbVars int) SAT {
	clauses := make([][]int, 0, nbVars)
	// Mention every variable so that the model covers all of them.
	for v := 1; v <= nbVars; v++ {
		clauses = append(clauses, []int{v, -v})
	}
	return &GopherSolver{clauses: clauses}
}

func (s *GopherSolver) AddClause(lits ...int) {
	for _, v := range lits {
		if v == 0 {
			panic("propositional variable cannot be zero")
		}
	}
	s.clauses = append(s.clauses, append([]int(nil), lits...))
}

func (s *GopherSolver) Solve(ctx context.Context) int {
	if ctx.Err() != nil {
		return 0
	}
	pb := solver.ParseSlice(s.clauses)
	sv := solver.New(pb)
	switch sv.Solve() {
	case solver.Sat:
		s.model = sv.Model()
		return satisfiable
	case solver.Unsat:
		return unsatisfiable
	default:
		return 0
	}
}

func (s *GopherSolver) Value(v int) bool {
	if v < 1 || v > len(s.model) {
		return false
	}
	return s.model[v-1]
}
