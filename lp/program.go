package lp

import (
	"os"
	"strings"

	"github.com/pkg/errors"
)

type Atom struct {
	Predicate string
	Args      []Term
}

func NewAtom(predicate string, args ...Term) Atom {
	return Atom{Predicate: predicate, Args: args}
}

func (a Atom) String() string {
	return TemplateToString(atomTemplate, a)
}

// Literal is a body element: an atom, its default negation, or a built-in
// comparison between two terms.
type Literal struct {
	Negated bool
	Atom    *Atom
	Cmp     *Comparison
}

type Comparison struct {
	Left  Term
	Op    string
	Right Term
}

func Pos(predicate string, args ...Term) Literal {
	a := NewAtom(predicate, args...)
	return Literal{Atom: &a}
}

func Not(predicate string, args ...Term) Literal {
	a := NewAtom(predicate, args...)
	return Literal{Negated: true, Atom: &a}
}

func Cmp(left Term, op string, right Term) Literal {
	return Literal{Cmp: &Comparison{Left: left, Op: op, Right: right}}
}

func (l Literal) String() string {
	if l.Cmp != nil {
		return l.Cmp.Left.String() + " " + l.Cmp.Op + " " + l.Cmp.Right.String()
	}
	if l.Negated {
		return "not " + l.Atom.String()
	}
	return l.Atom.String()
}

type Statement interface {
	statement()
	String() string
}

type Fact struct {
	Head Atom
}

type Rule struct {
	Head Atom
	Body []Literal
}

// Constraint is an integrity constraint: a rule with an empty head that
// eliminates every answer set satisfying its body.
type Constraint struct {
	Body []Literal
}

// Choice is the cardinality rule `Lower { e1; e2; ... } Upper :- Body.`
type Choice struct {
	Lower, Upper int
	Elements     []Atom
	Body         []Literal
}

// Raw is program text that is passed through verbatim, such as an
// externally authored class encoding.
type Raw struct {
	Name string
	Text string
}

func (Fact) statement()       {}
func (Rule) statement()       {}
func (Constraint) statement() {}
func (Choice) statement()     {}
func (Raw) statement()        {}

func (f Fact) String() string       { return TemplateToString(factTemplate, f) }
func (r Rule) String() string       { return TemplateToString(ruleTemplate, r) }
func (c Constraint) String() string { return TemplateToString(constraintTemplate, c) }
func (c Choice) String() string     { return TemplateToString(choiceTemplate, c) }
func (r Raw) String() string        { return TemplateToString(rawTemplate, r) }

// Program is an ordered list of statements. It is only turned into text
// when handed to a solver or written out.
type Program struct {
	Statements []Statement
}

func NewProgram(statements ...Statement) *Program {
	return &Program{Statements: statements}
}

func (p *Program) Add(statements ...Statement) *Program {
	p.Statements = append(p.Statements, statements...)
	return p
}

// Extend returns a new program holding the statements of p followed by those
// of others. None of the inputs is modified.
func (p *Program) Extend(others ...*Program) *Program {
	out := &Program{Statements: append([]Statement(nil), p.Statements...)}
	for _, o := range others {
		out.Statements = append(out.Statements, o.Statements...)
	}
	return out
}

func (p *Program) String() string {
	lines := make([]string, len(p.Statements))
	for i, s := range p.Statements {
		lines[i] = s.String()
	}
	return strings.Join(lines, "\n") + "\n"
}

func WriteProgram(path string, p *Program) error {
	if err := os.WriteFile(path, []byte(p.String()), 0o644); err != nil {
		return errors.Wrapf(err, "writing program to %s", path)
	}
	return nil
}

func ReadRaw(path string) (Raw, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Raw{}, errors.Wrap(err, "reading class encoding")
	}
	return Raw{Name: path, Text: strings.TrimRight(string(data), "\n")}, nil
}
