package server

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"path/filepath"
	"regexp"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"graphclass/graph"
	"graphclass/lp"
	"graphclass/oracle"
	"graphclass/solver"
)

// Request carries a graph and the class to test it against: either inline
// patterns or the name of a class encoding in the server's class directory.
type Request struct {
	Vertices int          `json:"vertices"`
	Edges    [][]int      `json:"edges"`
	Patterns []lp.Pattern `json:"patterns,omitempty"`
	Class    string       `json:"class,omitempty"`
}

type Response struct {
	Member  bool   `json:"member"`
	Verdict string `json:"verdict,omitempty"`
	Backend string `json:"backend,omitempty"`
	Elapsed string `json:"elapsed,omitempty"`
	Error   string `json:"error,omitempty"`
}

var className = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

const maxBodyBytes = 8 << 20

type Server struct {
	Oracle   *oracle.Oracle
	ClassDir string
	Logger   logrus.FieldLogger
	// MaxVertices bounds the graphs a request may describe. Zero means
	// graph.DefaultMaxVertices.
	MaxVertices int
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/check", s.check)
	mux.HandleFunc("/encode", s.encode)
	return mux
}

func allowCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
}

func (s *Server) maxVertices() int {
	if s.MaxVertices > 0 {
		return s.MaxVertices
	}
	return graph.DefaultMaxVertices
}

func (s *Server) readRequest(w http.ResponseWriter, r *http.Request) (*Request, *graph.Graph, error) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() {
		_ = body.Close()
	}()
	var req Request
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return nil, nil, errors.Wrap(err, "decoding request")
	}
	limit := s.maxVertices()
	if req.Vertices < 0 || req.Vertices > limit {
		return nil, nil, errors.Errorf("vertex count %d outside [0, %d]", req.Vertices, limit)
	}
	g := graph.NewGraph(req.Vertices)
	for i, e := range req.Edges {
		if len(e) != 2 || e[0] < 0 || e[1] < 0 || e[0] == e[1] {
			return nil, nil, errors.Errorf("edge %d: %v is not a pair of distinct vertex ids", i, e)
		}
		if e[0] >= limit || e[1] >= limit {
			return nil, nil, errors.Errorf("edge %d: %v exceeds the limit of %d vertices", i, e, limit)
		}
		g.AddEdge(e[0], e[1])
	}
	return &req, g, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, response Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.Logger.WithError(err).Warn("writing response")
	}
}

func (s *Server) query(req *Request) (oracle.Query, error) {
	if req.Class == "" {
		return oracle.Query{Patterns: req.Patterns}, nil
	}
	if !className.MatchString(req.Class) {
		return oracle.Query{}, errors.Errorf("invalid class name %q", req.Class)
	}
	if s.ClassDir == "" {
		return oracle.Query{}, errors.New("no class directory configured")
	}
	return oracle.Query{Patterns: req.Patterns, ClassFile: filepath.Join(s.ClassDir, req.Class+".lp")}, nil
}

func (s *Server) check(w http.ResponseWriter, r *http.Request) {
	allowCORS(w)
	if r.Method == http.MethodOptions {
		return
	}
	if r.Method != http.MethodPost {
		s.writeJSON(w, http.StatusMethodNotAllowed, Response{Error: "use POST"})
		return
	}
	req, g, err := s.readRequest(w, r)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	q, err := s.query(req)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, Response{Error: err.Error()})
		return
	}

	res, err := s.Oracle.Check(r.Context(), g, q)
	switch {
	case errors.Is(err, oracle.ErrIndeterminate):
		s.Logger.WithError(err).Error("solver gave no verdict")
		s.writeJSON(w, http.StatusInternalServerError, Response{Error: err.Error(), Verdict: solver.Unknown.String()})
		return
	case isUsageError(err):
		s.writeJSON(w, http.StatusBadRequest, Response{Error: err.Error()})
		return
	case err != nil:
		s.Logger.WithError(err).Error("check failed")
		s.writeJSON(w, http.StatusInternalServerError, Response{Error: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, Response{
		Member:  res.Verdict == solver.Satisfiable,
		Verdict: res.Verdict.String(),
		Backend: res.Backend,
		Elapsed: res.Elapsed.String(),
	})
}

func isUsageError(err error) bool {
	var perr *lp.PatternError
	return errors.Is(err, oracle.ErrNoClass) ||
		errors.Is(err, oracle.ErrAmbiguousClass) ||
		errors.Is(err, lp.ErrNoPatterns) ||
		errors.Is(err, fs.ErrNotExist) ||
		errors.As(err, &perr)
}

func (s *Server) encode(w http.ResponseWriter, r *http.Request) {
	allowCORS(w)
	if r.Method == http.MethodOptions {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "use POST", http.StatusMethodNotAllowed)
		return
	}
	_, g, err := s.readRequest(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	if _, err := fmt.Fprint(w, lp.EncodeGraph(g).String()); err != nil {
		s.Logger.WithError(err).Warn("writing response")
	}
}
