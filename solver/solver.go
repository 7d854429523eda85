package solver

import (
	"context"
	"time"

	"graphclass/lp"
)

type Verdict int

const (
	Unknown Verdict = iota
	Satisfiable
	Unsatisfiable
)

func (v Verdict) String() string {
	switch v {
	case Satisfiable:
		return "SATISFIABLE"
	case Unsatisfiable:
		return "UNSATISFIABLE"
	default:
		return "UNKNOWN"
	}
}

type Result struct {
	Verdict Verdict
	// Model holds the atoms of the first answer set found, if the backend
	// reports one.
	Model   []lp.Atom
	Backend string
	Elapsed time.Duration
}

// Solver decides whether a logic program has an answer set. Backends only
// turn the program into text at their own boundary.
type Solver interface {
	Name() string
	Solve(ctx context.Context, p *lp.Program) (*Result, error)
}
