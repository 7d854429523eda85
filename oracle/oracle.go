package oracle

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"graphclass/graph"
	"graphclass/lp"
	"graphclass/solver"
)

var (
	ErrNoClass        = errors.New("one of constraints or predefined class must be given")
	ErrAmbiguousClass = errors.New("constraints and predefined class are mutually exclusive")
	// ErrIndeterminate means the solver gave up without a verdict. The
	// encodings are decidable on finite graphs, so this is never a normal
	// outcome.
	ErrIndeterminate = errors.New("solver returned neither satisfiable nor unsatisfiable")
)

// Query names the class to test: either forbidden patterns or the path of a
// predefined class encoding.
type Query struct {
	Patterns  []lp.Pattern
	ClassFile string
}

func (q Query) validate() error {
	hasPatterns := q.Patterns != nil
	hasClass := q.ClassFile != ""
	switch {
	case hasPatterns && hasClass:
		return ErrAmbiguousClass
	case !hasPatterns && !hasClass:
		return ErrNoClass
	}
	return nil
}

type Oracle struct {
	solver          solver.Solver
	logger          logrus.FieldLogger
	constraintsFile string
	timeout         time.Duration
}

type Option func(*Oracle)

func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *Oracle) {
		o.logger = logger
	}
}

// WithConstraintsFile persists every compiled constraint program to path.
func WithConstraintsFile(path string) Option {
	return func(o *Oracle) {
		o.constraintsFile = path
	}
}

// WithTimeout bounds each solver call. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(o *Oracle) {
		o.timeout = d
	}
}

func New(s solver.Solver, opts ...Option) *Oracle {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	o := &Oracle{solver: s, logger: logger}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Program joins the graph facts with the compiled patterns or the class
// encoding named by q.
func (o *Oracle) Program(facts *lp.Program, q Query) (*lp.Program, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	if q.ClassFile != "" {
		raw, err := lp.ReadRaw(q.ClassFile)
		if err != nil {
			return nil, err
		}
		return facts.Extend(lp.NewProgram(raw)), nil
	}
	constraints, err := lp.CompilePatterns(q.Patterns)
	if err != nil {
		return nil, err
	}
	if o.constraintsFile != "" {
		if err := lp.WriteProgram(o.constraintsFile, constraints); err != nil {
			return nil, err
		}
		o.logger.WithField("path", o.constraintsFile).Debug("wrote constraint program")
	}
	return facts.Extend(constraints), nil
}

// Solve runs the solver on the combined program. An Unknown verdict is
// reported together with the result: as the context error when the call was
// cancelled or timed out, as ErrIndeterminate otherwise.
func (o *Oracle) Solve(ctx context.Context, facts *lp.Program, q Query) (*solver.Result, error) {
	program, err := o.Program(facts, q)
	if err != nil {
		return nil, err
	}
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := o.solver.Solve(ctx, program)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", o.solver.Name())
	}
	log := o.logger.WithFields(logrus.Fields{
		"backend": o.solver.Name(),
		"verdict": res.Verdict,
		"elapsed": time.Since(start),
	})
	log.Debug("solved")
	if len(res.Model) > 0 {
		log.Debugf("first model: %v", res.Model)
	}
	if res.Verdict == solver.Unknown {
		if ctx.Err() != nil {
			return res, errors.Wrapf(ctx.Err(), "%s gave no verdict", o.solver.Name())
		}
		return res, ErrIndeterminate
	}
	return res, nil
}

// InClass reports whether the encoded graph belongs to the class: true when
// the combined program is satisfiable.
func (o *Oracle) InClass(ctx context.Context, facts *lp.Program, q Query) (bool, error) {
	res, err := o.Solve(ctx, facts, q)
	if err != nil {
		return false, err
	}
	return res.Verdict == solver.Satisfiable, nil
}

func (o *Oracle) Check(ctx context.Context, g *graph.Graph, q Query) (*solver.Result, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	o.logger.WithFields(logrus.Fields{
		"vertices": g.NumVertices(),
		"edges":    g.NumEdges(),
	}).Debugf("edges: %v", g.Edges())
	if missing := g.Missing(); len(missing) > 0 {
		o.logger.WithField("ids", missing).Warn("vertex ids are not dense, missing ids become isolated vertices")
	}
	return o.Solve(ctx, lp.EncodeGraph(g), q)
}
