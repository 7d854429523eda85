package oracle

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graphclass/graph"
	"graphclass/lp"
	"graphclass/native"
	"graphclass/solver"
)

type mockSolver struct {
	verdict  solver.Verdict
	err      error
	calls    int
	programs []string
	deadline bool
	// block makes Solve wait for the context and give up.
	block bool
}

func (m *mockSolver) Name() string { return "mock" }

func (m *mockSolver) Solve(ctx context.Context, p *lp.Program) (*solver.Result, error) {
	m.calls++
	m.programs = append(m.programs, p.String())
	_, m.deadline = ctx.Deadline()
	if m.block {
		<-ctx.Done()
		return &solver.Result{Verdict: solver.Unknown, Backend: m.Name()}, nil
	}
	if m.err != nil {
		return nil, m.err
	}
	return &solver.Result{Verdict: m.verdict, Backend: m.Name()}, nil
}

var (
	chordal = []lp.Pattern{{Edges: [][]int{{0, 1}, {0, 2}}, NonEdges: [][]int{{1, 2}}}}
	noEdge  = []lp.Pattern{{Edges: [][]int{{0, 1}}, NonEdges: [][]int{}}}
)

func TestQueryMustNameExactlyOneClass(t *testing.T) {
	m := &mockSolver{verdict: solver.Satisfiable}
	o := New(m)
	facts := lp.EncodeGraph(graph.Cycle(4))
	ctx := context.Background()

	_, err := o.InClass(ctx, facts, Query{})
	assert.ErrorIs(t, err, ErrNoClass)

	_, err = o.InClass(ctx, facts, Query{Patterns: chordal, ClassFile: "chordal.lp"})
	assert.ErrorIs(t, err, ErrAmbiguousClass)

	_, err = o.Check(ctx, graph.Cycle(4), Query{})
	assert.ErrorIs(t, err, ErrNoClass)

	assert.Equal(t, 0, m.calls)
}

func TestEmptyPatternListIsRejected(t *testing.T) {
	m := &mockSolver{verdict: solver.Satisfiable}
	_, err := New(m).InClass(context.Background(), lp.EncodeGraph(graph.Cycle(4)), Query{Patterns: []lp.Pattern{}})
	assert.ErrorIs(t, err, lp.ErrNoPatterns)
	assert.Equal(t, 0, m.calls)
}

func TestInvalidPatternIsRejected(t *testing.T) {
	m := &mockSolver{verdict: solver.Satisfiable}
	bad := []lp.Pattern{{Edges: [][]int{{0, 1}}, NonEdges: [][]int{{0, 1}}}}
	_, err := New(m).InClass(context.Background(), lp.EncodeGraph(graph.Cycle(4)), Query{Patterns: bad})
	var perr *lp.PatternError
	assert.True(t, errors.As(err, &perr))
	assert.Equal(t, 0, m.calls)
}

func TestVerdictMapping(t *testing.T) {
	facts := lp.EncodeGraph(graph.Cycle(4))
	ctx := context.Background()

	ok, err := New(&mockSolver{verdict: solver.Satisfiable}).InClass(ctx, facts, Query{Patterns: chordal})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = New(&mockSolver{verdict: solver.Unsatisfiable}).InClass(ctx, facts, Query{Patterns: chordal})
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = New(&mockSolver{verdict: solver.Unknown}).InClass(ctx, facts, Query{Patterns: chordal})
	assert.ErrorIs(t, err, ErrIndeterminate)

	failure := errors.New("boom")
	_, err = New(&mockSolver{err: failure}).InClass(ctx, facts, Query{Patterns: chordal})
	assert.ErrorIs(t, err, failure)
}

func TestProgramCombinesFactsAndConstraints(t *testing.T) {
	m := &mockSolver{verdict: solver.Satisfiable}
	facts := lp.EncodeGraph(graph.Cycle(4))
	_, err := New(m).InClass(context.Background(), facts, Query{Patterns: chordal})
	require.NoError(t, err)

	require.Len(t, m.programs, 1)
	constraints, err := lp.CompilePatterns(chordal)
	require.NoError(t, err)
	assert.Equal(t, facts.String()+constraints.String(), m.programs[0])
}

func TestPredefinedClassIsPassedVerbatim(t *testing.T) {
	classFile := filepath.Join(t.TempDir(), "chordal.lp")
	body := ":- order(X,Y), order(X,Z), edge(X,Y), edge(X,Z), Y != Z, not edge(Y,Z).\n"
	require.NoError(t, os.WriteFile(classFile, []byte(body), 0o644))

	m := &mockSolver{verdict: solver.Unsatisfiable}
	res, err := New(m).Check(context.Background(), graph.Cycle(4), Query{ClassFile: classFile})
	require.NoError(t, err)
	assert.Equal(t, solver.Unsatisfiable, res.Verdict)
	require.Len(t, m.programs, 1)
	assert.Contains(t, m.programs[0], strings.TrimSpace(body))
	assert.Contains(t, m.programs[0], "pedge(3, 0).")

	_, err = New(m).Check(context.Background(), graph.Cycle(4), Query{ClassFile: filepath.Join(t.TempDir(), "missing.lp")})
	assert.Error(t, err)
	assert.Equal(t, 1, m.calls)
}

func TestConstraintsFileIsWritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), "constraints.lp")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	m := &mockSolver{verdict: solver.Satisfiable}
	_, err := New(m, WithConstraintsFile(path)).InClass(context.Background(), lp.EncodeGraph(graph.Path(3)), Query{Patterns: noEdge})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	constraints, err := lp.CompilePatterns(noEdge)
	require.NoError(t, err)
	assert.Equal(t, constraints.String(), string(data))
}

func TestTimeoutSetsDeadline(t *testing.T) {
	m := &mockSolver{verdict: solver.Satisfiable}
	_, err := New(m, WithTimeout(time.Minute)).InClass(context.Background(), lp.EncodeGraph(graph.Path(3)), Query{Patterns: noEdge})
	require.NoError(t, err)
	assert.True(t, m.deadline)

	_, err = New(m).InClass(context.Background(), lp.EncodeGraph(graph.Path(3)), Query{Patterns: noEdge})
	require.NoError(t, err)
	assert.False(t, m.deadline)
}

func TestCancelledSolveIsNotIndeterminate(t *testing.T) {
	facts := lp.EncodeGraph(graph.Path(3))
	q := Query{Patterns: noEdge}

	res, err := New(&mockSolver{block: true}, WithTimeout(10*time.Millisecond)).Solve(context.Background(), facts, q)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, ErrIndeterminate)
	require.NotNil(t, res)
	assert.Equal(t, solver.Unknown, res.Verdict)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = New(&mockSolver{block: true}).InClass(ctx, facts, q)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrIndeterminate)
}

func TestScenariosWithNativeSolver(t *testing.T) {
	o := New(native.NewGini(nil))
	ctx := context.Background()

	check := func(g *graph.Graph, patterns []lp.Pattern) bool {
		res, err := o.Check(ctx, g, Query{Patterns: patterns})
		require.NoError(t, err)
		return res.Verdict == solver.Satisfiable
	}

	assert.False(t, check(graph.Cycle(4), chordal))
	assert.True(t, check(graph.Complete(3), chordal))
	assert.False(t, check(graph.FromEdges([2]int{0, 1}), noEdge))
	assert.True(t, check(graph.NewGraph(2), noEdge))

	first := lp.EncodeGraph(graph.Cycle(6))
	second := lp.EncodeGraph(graph.Cycle(6))
	a, err := o.InClass(ctx, first, Query{Patterns: chordal})
	require.NoError(t, err)
	b, err := o.InClass(ctx, second, Query{Patterns: chordal})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestExplain(t *testing.T) {
	o := New(native.NewGophersat(nil))
	ctx := context.Background()
	patterns := []lp.Pattern{
		chordal[0],
		{Edges: [][]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}}},
		{NonEdges: [][]int{{0, 1}}},
	}

	// C4 contains the chordal obstruction in every order, has no path on five
	// vertices and always has a non-adjacent pair.
	explanations, err := o.Explain(ctx, graph.Cycle(4), patterns)
	require.NoError(t, err)
	var muses [][]int
	for _, e := range explanations {
		muses = append(muses, e.MUSs...)
	}
	assert.ElementsMatch(t, [][]int{{0}, {2}}, muses)

	explanations, err = o.Explain(ctx, graph.Complete(3), patterns[:2])
	require.NoError(t, err)
	assert.Empty(t, explanations)

	_, err = o.Explain(ctx, graph.Complete(3), nil)
	assert.ErrorIs(t, err, lp.ErrNoPatterns)
}

func TestPredefinedClassWithClingo(t *testing.T) {
	path, err := exec.LookPath("clingo")
	if err != nil {
		t.Skip("clingo not installed")
	}
	o := New(solver.NewClingo(path, nil))
	ctx := context.Background()
	classFile := filepath.Join("..", "testdata", "classes", "chordal.lp")

	res, err := o.Check(ctx, graph.Cycle(4), Query{ClassFile: classFile})
	require.NoError(t, err)
	assert.Equal(t, solver.Unsatisfiable, res.Verdict)

	res, err = o.Check(ctx, graph.Complete(3), Query{ClassFile: classFile})
	require.NoError(t, err)
	assert.Equal(t, solver.Satisfiable, res.Verdict)
}
