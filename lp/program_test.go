package lp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatementRendering(t *testing.T) {
	type testcase struct {
		stmt   Statement
		expect string
	}

	cases := []testcase{
		{Fact{NewAtom("pedge", Int(0), Int(1))}, "pedge(0, 1)."},
		{Fact{NewAtom("p")}, "p."},
		{VertexDomainRule(), "vertex(0..N) :- nbVertices(N)."},
		{EdgeSymmetryRule(), "edge(X, Y) :- edge(Y, X)."},
		{Constraint{Body: []Literal{Pos("a", Var("X")), Not("b", Var("X")), Cmp(Var("X"), "!=", Int(2))}}, ":- a(X), not b(X), X != 2."},
		{OrderAxioms()[2], "1 { order(X, Y); order(Y, X) } 1 :- vertex(X), vertex(Y), X != Y."},
		{Choice{Lower: 0, Upper: 1, Elements: []Atom{NewAtom("p")}}, "0 { p } 1."},
		{Fact{NewAtom("name", Str("a b"), Const("c"), Func{Name: "f", Args: []Term{Int(-1)}})}, `name("a b", c, f(-1)).`},
		{Raw{Text: "p :- q."}, "p :- q."},
		{Raw{Name: "chordal.lp", Text: "p :- q."}, "% begin chordal.lp\np :- q.\n% end chordal.lp"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expect, tc.stmt.String())
	}
}

func TestProgramExtendDoesNotAlias(t *testing.T) {
	base := NewProgram(Fact{NewAtom("a")})
	ext := base.Extend(NewProgram(Fact{NewAtom("b")}))
	ext.Add(Fact{NewAtom("c")})

	assert.Equal(t, "a.\n", base.String())
	assert.Equal(t, "a.\nb.\nc.\n", ext.String())
}

func TestWriteProgramAndReadRaw(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "constraints.lp")
	p := NewProgram(OrderAxioms()...)

	require.NoError(t, WriteProgram(path, p))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, p.String(), string(data))

	raw, err := ReadRaw(path)
	require.NoError(t, err)
	assert.Equal(t, path, raw.Name)
	assert.Equal(t, p.String(), raw.Text+"\n")

	_, err = ReadRaw(filepath.Join(dir, "missing.lp"))
	assert.Error(t, err)
}
