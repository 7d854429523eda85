package solver

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"graphclass/lp"
)

// Exit code bits clingo sets when it could not solve at all. The verdict
// bits (10, 20, 30) are read from the output instead.
const (
	exitMemory = 32
	exitError  = 64
	exitNoRun  = 128
)

// Clingo runs the clingo executable on the program and asks for one model.
type Clingo struct {
	Path   string
	Args   []string
	Logger logrus.FieldLogger
}

func NewClingo(path string, logger logrus.FieldLogger) *Clingo {
	if path == "" {
		path = "clingo"
	}
	if logger == nil {
		logger = discard()
	}
	return &Clingo{Path: path, Logger: logger}
}

func (c *Clingo) Name() string {
	return "clingo"
}

func (c *Clingo) Solve(ctx context.Context, p *lp.Program) (*Result, error) {
	args := append([]string{"--outf=0", "--models=1"}, c.Args...)
	args = append(args, "-")
	cmd := exec.CommandContext(ctx, c.Path, args...)
	cmd.Stdin = strings.NewReader(p.String())
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.Logger.WithField("args", args).Debug("running clingo")
	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if ctx.Err() != nil {
		c.Logger.WithError(ctx.Err()).Warn("clingo interrupted")
		return &Result{Verdict: Unknown, Backend: c.Name(), Elapsed: elapsed}, nil
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, errors.Wrapf(err, "running %s", c.Path)
		}
		code := exitErr.ExitCode()
		if code&(exitMemory|exitError|exitNoRun) != 0 {
			return nil, errors.Errorf("clingo failed with exit code %d: %s", code, strings.TrimSpace(stderr.String()))
		}
	}

	res, err := parseOutput(&stdout, c.Logger)
	if err != nil {
		return nil, err
	}
	res.Backend = c.Name()
	res.Elapsed = elapsed
	return res, nil
}

// parseOutput reads clingo's text output: "Answer: n" followed by a line of
// atoms, and a final SATISFIABLE, UNSATISFIABLE or UNKNOWN line. A model the
// atom grammar cannot read is dropped; the verdict stands.
func parseOutput(r io.Reader, logger logrus.FieldLogger) (*Result, error) {
	res := &Result{Verdict: Unknown}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	expectModel := false
	seenModel := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case expectModel:
			expectModel = false
			if seenModel {
				continue
			}
			seenModel = true
			atoms, err := lp.ParseAtoms(line)
			if err != nil {
				logger.WithError(err).Warn("ignoring unreadable clingo model")
				continue
			}
			res.Model = atoms
		case strings.HasPrefix(line, "Answer:"):
			expectModel = true
		case line == "SATISFIABLE" || line == "OPTIMUM FOUND":
			res.Verdict = Satisfiable
		case line == "UNSATISFIABLE":
			res.Verdict = Unsatisfiable
		case line == "UNKNOWN":
			res.Verdict = Unknown
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading clingo output")
	}
	return res, nil
}

func discard() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
