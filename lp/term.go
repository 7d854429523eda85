package lp

import (
	"strconv"
	"strings"
)

type Term interface {
	term()
	String() string
}

type Var string

type Int int

// Const is a symbolic constant such as `chordal`.
type Const string

// Str is a quoted string constant. Value holds the unquoted text.
type Str string

// Interval is the `Lo..Hi` range term.
type Interval struct {
	Lo, Hi Term
}

// Func is a function term `name(args...)` nested inside an atom.
type Func struct {
	Name string
	Args []Term
}

func (Var) term()      {}
func (Int) term()      {}
func (Const) term()    {}
func (Str) term()      {}
func (Interval) term() {}
func (Func) term()     {}

func (v Var) String() string   { return string(v) }
func (i Int) String() string   { return strconv.Itoa(int(i)) }
func (c Const) String() string { return string(c) }
func (s Str) String() string   { return strconv.Quote(string(s)) }

func (r Interval) String() string {
	return r.Lo.String() + ".." + r.Hi.String()
}

func (f Func) String() string {
	if len(f.Args) == 0 {
		return f.Name
	}
	return f.Name + "(" + joinTerms(f.Args, ", ") + ")"
}

func joinTerms(ts []Term, sep string) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, sep)
}

// X returns the variable bound to pattern position i.
func X(i int) Var {
	return Var("X" + strconv.Itoa(i))
}
