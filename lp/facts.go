package lp

import "graphclass/graph"

var (
	varU = Var("U")
	varV = Var("V")
	varX = Var("X")
	varY = Var("Y")
	varZ = Var("Z")
	varN = Var("N")
)

// SymmetrizationRules derive the canonical edge(min, max) from pedge/2,
// whichever orientation the pedge fact used, and close edge/2 under symmetry.
func SymmetrizationRules() []Statement {
	return []Statement{
		Rule{
			Head: NewAtom("edge", varU, varV),
			Body: []Literal{Pos("pedge", varU, varV), Pos("vertex", varU), Pos("vertex", varV), Cmp(varU, "<", varV)},
		},
		Rule{
			Head: NewAtom("edge", varV, varU),
			Body: []Literal{Pos("pedge", varU, varV), Pos("vertex", varU), Pos("vertex", varV), Cmp(varU, ">", varV)},
		},
		EdgeSymmetryRule(),
	}
}

func EdgeSymmetryRule() Statement {
	return Rule{Head: NewAtom("edge", varX, varY), Body: []Literal{Pos("edge", varY, varX)}}
}

func VertexDomainRule() Statement {
	return Rule{
		Head: NewAtom("vertex", Interval{Int(0), varN}),
		Body: []Literal{Pos("nbVertices", varN)},
	}
}

// EncodeGraph renders g as ground facts: one pedge per edge, the rules that
// turn them into a symmetric edge/2, and the vertex domain 0..N-1. The nbVertices
// fact holds the largest vertex id, so an empty graph gets nbVertices(-1)
// and an empty domain.
func EncodeGraph(g *graph.Graph) *Program {
	p := NewProgram()
	for _, e := range g.Edges() {
		p.Add(Fact{NewAtom("pedge", Int(e.U), Int(e.V))})
	}
	p.Add(SymmetrizationRules()...)
	p.Add(VertexDomainRule())
	p.Add(Fact{NewAtom("nbVertices", Int(g.NumVertices()-1))})
	return p
}
