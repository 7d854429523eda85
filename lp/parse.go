package lp

import (
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

// Grammar for the ground terms a solver prints for an answer set, e.g.
// `edge(0,1) vertex(0) nbVertices(3) -p(a,"s",f(2)) (1,#sup)`. Shown terms
// need not be atoms.

type answerSet struct {
	Atoms []*termNode `@@*`
}

type atomNode struct {
	Neg  bool        `@"-"?`
	Name string      `@Ident`
	Args []*termNode `( "(" @@ ( "," @@ )* ")" )?`
}

type termNode struct {
	Int     *string     `  @Int`
	Str     *string     `| @String`
	Special *string     `| @Special`
	Tuple   []*termNode `| "(" @@ ( "," @@ )* ")"`
	Func    *atomNode   `| @@`
}

var atomLexer = lexer.MustSimple([]lexer.SimpleRule{
	{"Ident", `_*[a-z][a-zA-Z_0-9']*`},
	{"Int", `-?\d+`},
	{"String", `"(\\.|[^"\\])*"`},
	{"Special", `#(sup|inf)`},
	{Name: "Punct", Pattern: `[-(),]`},
	{"Whitespace", `\s+`},
})

var atomParser = participle.MustBuild[answerSet](
	participle.Lexer(atomLexer),
	participle.Unquote("String"),
	participle.Elide("Whitespace"))

// ParseAtoms parses a whitespace separated list of ground atoms. A shown
// tuple becomes an atom with an empty predicate, and any other bare term an
// atom named after it.
func ParseAtoms(s string) ([]Atom, error) {
	set, err := atomParser.ParseString("", s)
	if err != nil {
		return nil, errors.Wrap(err, "parsing answer set")
	}
	atoms := make([]Atom, len(set.Atoms))
	for i, node := range set.Atoms {
		if node.Func != nil {
			f, err := node.Func.toFunc()
			if err != nil {
				return nil, err
			}
			atoms[i] = Atom{Predicate: f.Name, Args: f.Args}
			continue
		}
		t, err := node.toTerm()
		if err != nil {
			return nil, err
		}
		if f, ok := t.(Func); ok && f.Name == "" {
			atoms[i] = Atom{Args: f.Args}
			continue
		}
		atoms[i] = Atom{Predicate: t.String(), Args: []Term{}}
	}
	return atoms, nil
}

func (n *atomNode) toFunc() (Func, error) {
	name := n.Name
	if n.Neg {
		name = "-" + name
	}
	args := make([]Term, len(n.Args))
	for i, arg := range n.Args {
		t, err := arg.toTerm()
		if err != nil {
			return Func{}, err
		}
		args[i] = t
	}
	return Func{Name: name, Args: args}, nil
}

func (n *termNode) toTerm() (Term, error) {
	switch {
	case n.Int != nil:
		i, err := strconv.Atoi(*n.Int)
		if err != nil {
			return nil, errors.Wrapf(err, "integer term %s", *n.Int)
		}
		return Int(i), nil
	case n.Str != nil:
		return Str(*n.Str), nil
	case n.Special != nil:
		return Const(*n.Special), nil
	case n.Tuple != nil:
		args := make([]Term, len(n.Tuple))
		for i, arg := range n.Tuple {
			t, err := arg.toTerm()
			if err != nil {
				return nil, err
			}
			args[i] = t
		}
		return Func{Args: args}, nil
	default:
		f, err := n.Func.toFunc()
		if err != nil {
			return nil, err
		}
		if len(f.Args) == 0 {
			return Const(f.Name), nil
		}
		return f, nil
	}
}
