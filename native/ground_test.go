package native

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graphclass/graph"
	"graphclass/lp"
)

func TestGoal(t *testing.T) {
	p := lp.Pattern{Edges: [][]int{{0, 1}, {0, 2}}, NonEdges: [][]int{{1, 2}}}
	assert.Equal(t,
		`edge(X0, X1), edge(X0, X2), vertex(X0), vertex(X1), vertex(X2), X0 \== X1, X0 \== X2, X1 \== X2, \+ edge(X1, X2).`,
		Goal(p))
}

func TestGrounderMatches(t *testing.T) {
	g := graph.FromEdges([2]int{0, 1}, [2]int{1, 2})
	gr, err := NewGrounder(g.NumVertices(), g.Edges())
	require.NoError(t, err)
	ctx := context.Background()

	matches, err := gr.Matches(ctx, lp.Pattern{Edges: [][]int{{0, 1}}})
	require.NoError(t, err)
	assert.ElementsMatch(t, [][]int{{0, 1}, {1, 0}, {1, 2}, {2, 1}}, matches)

	// Vertex 1 with two non-adjacent neighbours.
	matches, err = gr.Matches(ctx, lp.Pattern{Edges: [][]int{{0, 1}, {0, 2}}, NonEdges: [][]int{{1, 2}}})
	require.NoError(t, err)
	assert.ElementsMatch(t, [][]int{{1, 0, 2}, {1, 2, 0}}, matches)

	matches, err = gr.Matches(ctx, lp.Pattern{NonEdges: [][]int{{0, 1}}})
	require.NoError(t, err)
	assert.ElementsMatch(t, [][]int{{0, 2}, {2, 0}}, matches)
}

func TestGrounderWithoutEdges(t *testing.T) {
	gr, err := NewGrounder(2, nil)
	require.NoError(t, err)

	matches, err := gr.Matches(context.Background(), lp.Pattern{Edges: [][]int{{0, 1}}})
	require.NoError(t, err)
	assert.Empty(t, matches)
}
