package graph

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

// ParseError reports a malformed line of an edge-list file.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

type edgeFile struct {
	Lines []*edgeLine `EOL* @@*`
}

type edgeLine struct {
	Pos lexer.Position
	Ids []string `@Int+ EOL*`
}

var edgeLexer = lexer.MustSimple([]lexer.SimpleRule{
	{"Comment", `[#%][^\n]*`},
	{"Int", `[-+]?\d+`},
	{"EOL", `\r?\n`},
	{"Whitespace", `[ \t\r]+`},
})

var edgeParser = participle.MustBuild[edgeFile](
	participle.Lexer(edgeLexer),
	participle.Elide("Comment", "Whitespace"))

// ReadEdgeList reads one edge per line ("u v"). A line holding a single id
// declares an isolated vertex. Blank lines and lines starting with # or %
// are skipped. Ids must stay below maxVertices; zero or less means
// DefaultMaxVertices.
func ReadEdgeList(name string, r io.Reader, maxVertices int) (*Graph, error) {
	if maxVertices <= 0 {
		maxVertices = DefaultMaxVertices
	}
	file, err := edgeParser.Parse(name, r)
	if err != nil {
		var perr participle.Error
		if errors.As(err, &perr) {
			return nil, &ParseError{Line: perr.Position().Line, Msg: perr.Message()}
		}
		return nil, errors.Wrapf(err, "reading %s", name)
	}
	g := NewGraph(0)
	for _, line := range file.Lines {
		ids := make([]int, len(line.Ids))
		for i, s := range line.Ids {
			id, err := strconv.Atoi(s)
			if err != nil {
				return nil, &ParseError{Line: line.Pos.Line, Msg: fmt.Sprintf("invalid vertex id %q", s)}
			}
			if id < 0 {
				return nil, &ParseError{Line: line.Pos.Line, Msg: fmt.Sprintf("negative vertex id %d", id)}
			}
			if id >= maxVertices {
				return nil, &ParseError{Line: line.Pos.Line, Msg: fmt.Sprintf("vertex id %d exceeds the limit of %d vertices", id, maxVertices)}
			}
			ids[i] = id
		}
		switch len(ids) {
		case 1:
			g.AddVertex(ids[0])
		case 2:
			u, v := ids[0], ids[1]
			if u == v {
				return nil, &ParseError{Line: line.Pos.Line, Msg: fmt.Sprintf("self-loop on vertex %d", u)}
			}
			g.AddEdge(u, v)
		default:
			return nil, &ParseError{Line: line.Pos.Line, Msg: fmt.Sprintf("expected two vertex ids, got %d", len(ids))}
		}
	}
	return g, nil
}

func ReadEdgeListFile(path string, maxVertices int) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening graph file")
	}
	defer f.Close()
	g, err := ReadEdgeList(path, f, maxVertices)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return g, nil
}

// WriteEdgeList writes g in the format read by ReadEdgeList. Isolated
// vertices are written on their own line so that they survive a round trip.
func WriteEdgeList(w io.Writer, g *Graph) error {
	for _, e := range g.edges {
		if _, err := fmt.Fprintf(w, "%d %d\n", e.U, e.V); err != nil {
			return err
		}
	}
	for v := 0; v < g.NumVertices(); v++ {
		if len(g.adj[v]) == 0 {
			if _, err := fmt.Fprintf(w, "%d\n", v); err != nil {
				return err
			}
		}
	}
	return nil
}
