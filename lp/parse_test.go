package lp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAtoms(t *testing.T) {
	atoms, err := ParseAtoms(`pedge(0,1) vertex(0) nbVertices(-1) flag -p(a,"x y",f(2,g))`)
	require.NoError(t, err)
	require.Len(t, atoms, 5)

	assert.Equal(t, NewAtom("pedge", Int(0), Int(1)), atoms[0])
	assert.Equal(t, NewAtom("nbVertices", Int(-1)), atoms[2])
	assert.Equal(t, "flag", atoms[3].Predicate)
	assert.Empty(t, atoms[3].Args)
	assert.Equal(t, `-p(a, "x y", f(2, g))`, atoms[4].String())
}

func TestParseAtomsShownTerms(t *testing.T) {
	atoms, err := ParseAtoms(`(0,1) p((a,2),#sup) #inf 3`)
	require.NoError(t, err)
	require.Len(t, atoms, 4)

	assert.Equal(t, Atom{Args: []Term{Int(0), Int(1)}}, atoms[0])
	assert.Equal(t, NewAtom("p", Func{Args: []Term{Const("a"), Int(2)}}, Const("#sup")), atoms[1])
	assert.Equal(t, "p((a, 2), #sup)", atoms[1].String())
	assert.Equal(t, "#inf", atoms[2].Predicate)
	assert.Equal(t, "3", atoms[3].Predicate)
}

func TestParseAtomsEmpty(t *testing.T) {
	atoms, err := ParseAtoms("  ")
	require.NoError(t, err)
	assert.Empty(t, atoms)
}

func TestParseAtomsError(t *testing.T) {
	_, err := ParseAtoms("edge(0,")
	assert.Error(t, err)
}
