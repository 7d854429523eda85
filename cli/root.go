package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"graphclass/graph"
	"graphclass/lp"
	"graphclass/native"
	"graphclass/oracle"
	"graphclass/solver"
)

const (
	defaultBackend = "clingo"
	clingoEnv      = "GRAPHCLASS_CLINGO"
)

type options struct {
	debug       bool
	maxVertices int

	backend          string
	clingo           string
	timeout          time.Duration
	writeConstraints string

	constraints     string
	predefinedClass string

	logger *logrus.Logger
}

func defaultClingo() string {
	if path := os.Getenv(clingoEnv); path != "" {
		return path
	}
	return "clingo"
}

func newRootCmd() *cobra.Command {
	o := &options{}

	cmd := &cobra.Command{
		Use:   "graphclass <graph_file>",
		Short: "Decide whether a graph belongs to a graph class",
		Long: `graphclass encodes a graph as logic-program facts, adds the constraints of a
graph class and asks a solver whether some vertex order avoids every forbidden
pattern.

  $ graphclass graph.txt --constraints chordal.json
  $ graphclass check graph.txt --predefined_class interval.lp --backend clingo
`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			o.logger = logrus.New()
			o.logger.SetOutput(cmd.ErrOrStderr())
			if o.debug {
				o.logger.SetLevel(logrus.DebugLevel)
			}
		},
		RunE: o.runCheck,
	}

	cmd.PersistentFlags().BoolVar(&o.debug, "debug", false, "use debug log level")
	cmd.PersistentFlags().IntVar(&o.maxVertices, "max-vertices", graph.DefaultMaxVertices, "largest number of vertices accepted in an input graph")
	o.addClassFlags(cmd)
	o.addSolverFlags(cmd)

	cmd.AddCommand(
		o.newCheckCmd(),
		o.newEncodeCmd(),
		o.newCompileCmd(),
		o.newExplainCmd(),
		newGenerateCmd(),
		o.newServeCmd(),
	)
	return cmd
}

func (o *options) addClassFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.constraints, "constraints", "", "JSON or YAML file of forbidden ordered patterns")
	cmd.Flags().StringVar(&o.predefinedClass, "predefined_class", "", "logic program encoding a predefined graph class")
	cmd.MarkFlagsMutuallyExclusive("constraints", "predefined_class")
	cmd.MarkFlagsOneRequired("constraints", "predefined_class")
}

func (o *options) addSolverFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.backend, "backend", defaultBackend, "solver backend: clingo, gini or gophersat")
	cmd.Flags().StringVar(&o.clingo, "clingo", defaultClingo(), "path to the clingo binary (env "+clingoEnv+")")
	cmd.Flags().DurationVar(&o.timeout, "timeout", 0, "time limit for each solver call, 0 means none")
	cmd.Flags().StringVar(&o.writeConstraints, "write-constraints", "", "also write the compiled constraint program to this path")
}

func (o *options) newSolver() (solver.Solver, error) {
	switch o.backend {
	case "clingo":
		return solver.NewClingo(o.clingo, o.logger), nil
	case "gini":
		return native.NewGini(o.logger), nil
	case "gophersat":
		return native.NewGophersat(o.logger), nil
	}
	return nil, errors.Errorf("unknown backend %q", o.backend)
}

func (o *options) newOracle() (*oracle.Oracle, error) {
	s, err := o.newSolver()
	if err != nil {
		return nil, err
	}
	opts := []oracle.Option{oracle.WithLogger(o.logger), oracle.WithTimeout(o.timeout)}
	if o.writeConstraints != "" {
		opts = append(opts, oracle.WithConstraintsFile(o.writeConstraints))
	}
	return oracle.New(s, opts...), nil
}

func (o *options) query() (oracle.Query, error) {
	if o.constraints == "" {
		return oracle.Query{ClassFile: o.predefinedClass}, nil
	}
	patterns, err := lp.LoadPatternsFile(o.constraints)
	if err != nil {
		return oracle.Query{}, err
	}
	if patterns == nil {
		// A file holding null still names a pattern list, an empty one.
		patterns = []lp.Pattern{}
	}
	return oracle.Query{Patterns: patterns}, nil
}

// Execute runs the command tree until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return newRootCmd().ExecuteContext(ctx)
}
